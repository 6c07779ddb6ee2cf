package fixtures

import (
	"log/slog"
	"os"
	"sync/atomic"

	ferrors "github.com/insurancevn/insurancenews/internal/foundation/errors"
	"github.com/insurancevn/insurancenews/internal/logfields"
)

// Store hands out the current fixtures. Readers never block; Reload swaps
// the whole value at once.
type Store struct {
	path    string
	current atomic.Pointer[Fixtures]
}

// NewStore loads fixtures from path, or the embedded defaults when path is
// empty. A bad file is an error at startup; later reloads keep the last
// good value instead.
func NewStore(path string) (*Store, error) {
	s := &Store{path: path}
	f, err := s.read()
	if err != nil {
		return nil, err
	}
	s.current.Store(f)
	return s, nil
}

// NewStaticStore wraps an already parsed value. Reload is a no-op.
func NewStaticStore(f *Fixtures) *Store {
	s := &Store{}
	s.current.Store(f)
	return s
}

func (s *Store) Get() *Fixtures { return s.current.Load() }

// Path is the file backing the store, or "" for embedded data.
func (s *Store) Path() string { return s.path }

// Ready reports whether a fixtures value is loaded.
func (s *Store) Ready() bool { return s.current.Load() != nil }

// Reload re-reads the backing file. On failure the previous value stays in
// place and the error is returned.
func (s *Store) Reload() error {
	if s.path == "" {
		return nil
	}
	f, err := s.read()
	if err != nil {
		return err
	}
	s.current.Store(f)
	slog.Info("Fixtures reloaded", logfields.File(s.path), slog.Int("pillars", len(f.Pillars)))
	return nil
}

func (s *Store) read() (*Fixtures, error) {
	if s.path == "" {
		return Default()
	}
	// #nosec G304 -- path comes from operator configuration
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryConfig, "failed to read fixtures").
			WithContext("path", s.path).Build()
	}
	f, err := Parse(data)
	if err != nil {
		if ce, ok := ferrors.AsClassified(err); ok {
			return nil, ce.WithContext("path", s.path)
		}
		return nil, err
	}
	return f, nil
}
