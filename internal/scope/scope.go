// Package scope tracks resources that live for one update call and releases
// them in reverse order of acquisition.
package scope

import (
	"fmt"
	"sync"

	"github.com/quantmind-br/freshen/internal/fsops"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
)

// ReleaseFunc frees one resource
type ReleaseFunc func() error

type entry struct {
	name string
	fn   ReleaseFunc
}

// Scope manages a stack of release operations
type Scope struct {
	entries []entry
	mu      sync.Mutex
	logger  *zerolog.Logger
}

// New creates an empty Scope
func New(logger *zerolog.Logger) *Scope {
	return &Scope{
		entries: make([]entry, 0),
		logger:  logger,
	}
}

// Add pushes a release function onto the stack
func (s *Scope) Add(name string, fn ReleaseFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, entry{name: name, fn: fn})
}

// TempDir creates a temporary directory that is removed on Release
func (s *Scope) TempDir(fs afero.Fs, prefix string) (string, error) {
	dir, err := fsops.CreateTempDir(fs, prefix)
	if err != nil {
		return "", err
	}

	s.Add("remove "+dir, func() error {
		return fs.RemoveAll(dir)
	})
	return dir, nil
}

// Release executes all registered release functions in reverse order (LIFO).
// It is safe to call more than once; later calls are no-ops.
func (s *Scope) Release() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.entries) == 0 {
		return nil
	}

	var errs []error
	for i := len(s.entries) - 1; i >= 0; i-- {
		op := s.entries[i]
		if s.logger != nil {
			s.logger.Debug().Str("operation", op.name).Msg("releasing")
		}

		if err := op.fn(); err != nil {
			errs = append(errs, fmt.Errorf("failed to release '%s': %w", op.name, err))
			if s.logger != nil {
				s.logger.Warn().Err(err).Str("operation", op.name).Msg("release failed")
			}
		}
	}

	s.entries = nil

	if len(errs) > 0 {
		return fmt.Errorf("release completed with errors: %v", errs)
	}
	return nil
}
