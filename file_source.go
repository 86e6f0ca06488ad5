package tarn

import (
	"context"
	"fmt"
	"os"

	"github.com/fsnotify/fsnotify"
	"github.com/go-playground/validator/v10"
	"github.com/zoobzio/capitan"
)

// validate is the shared validator instance for tag-based validation.
var validate = validator.New()

// Validator is implemented by values that carry their own validation
// logic, checked in addition to struct tags when WithValidation is
// enabled.
type Validator interface {
	Validate() error
}

// FileSource watches a file and emits decoded values: the current
// contents at bind time, then again on every write. Payloads that fail
// decoding or validation are skipped with a SourceSkipped signal and
// the source keeps watching, so a file caught mid-write does not
// poison the stream.
type FileSource[V any] struct {
	path  string
	codec Codec
	check bool
}

// FileOption configures a FileSource.
type FileOption func(*fileConfig)

type fileConfig struct {
	codec Codec
	check bool
}

// WithCodec pins the payload codec instead of detecting JSON or YAML
// from the contents.
func WithCodec(c Codec) FileOption {
	return func(fc *fileConfig) { fc.codec = c }
}

// WithValidation validates each decoded value before emitting it:
// struct tags via go-playground/validator, plus the value's own
// Validate method when it implements Validator.
func WithValidation() FileOption {
	return func(fc *fileConfig) { fc.check = true }
}

// NewFileSource creates a file-backed source for configuration-shaped
// state.
//
// Example:
//
//	src := tarn.NewFileSource[Limits]("/etc/app/limits.yaml", tarn.WithValidation())
//	binding, err := limits.Bind(ctx, src)
func NewFileSource[V any](path string, opts ...FileOption) *FileSource[V] {
	var cfg fileConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	return &FileSource[V]{path: path, codec: cfg.codec, check: cfg.check}
}

// Watch begins watching the file. The current contents are decoded
// before Watch returns, so the initial value counts as a synchronous
// emission at bind time.
func (s *FileSource[V]) Watch(ctx context.Context) (<-chan V, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}
	if err := watcher.Add(s.path); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("failed to watch file %s: %w", s.path, err)
	}

	out := make(chan V, 1)
	if data, err := os.ReadFile(s.path); err == nil {
		if v, derr := s.decode(data); derr == nil {
			out <- v
		} else {
			s.skipped(ctx, derr)
		}
	}

	go func() {
		defer close(out)
		defer watcher.Close()

		for {
			select {
			case <-ctx.Done():
				return

			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
					continue
				}
				data, err := os.ReadFile(s.path)
				if err != nil {
					continue
				}
				v, derr := s.decode(data)
				if derr != nil {
					s.skipped(ctx, derr)
					continue
				}
				select {
				case out <- v:
				case <-ctx.Done():
					return
				}

			case _, ok := <-watcher.Errors:
				if !ok {
					return
				}
				// Keep watching despite filesystem errors.
			}
		}
	}()

	return out, nil
}

func (s *FileSource[V]) decode(data []byte) (V, error) {
	var v V
	codec := s.codec
	if codec == nil {
		codec = detectCodec(data)
	}
	if err := codec.Unmarshal(data, &v); err != nil {
		return v, fmt.Errorf("unmarshal failed: %w", err)
	}
	if s.check {
		if err := validate.Struct(v); err != nil {
			return v, fmt.Errorf("validation failed: %w", err)
		}
		if sv, ok := any(v).(Validator); ok {
			if err := sv.Validate(); err != nil {
				return v, fmt.Errorf("validation failed: %w", err)
			}
		}
	}
	return v, nil
}

func (s *FileSource[V]) skipped(ctx context.Context, err error) {
	capitan.Emit(ctx, SourceSkipped,
		KeyPath.Field(s.path),
		KeyError.Field(err.Error()))
}
