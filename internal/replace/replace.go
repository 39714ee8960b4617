// Package replace swaps the running application for a freshly unpacked
// release and restarts into it.
//
// Two strategies exist. Direct replaces files in place and execs the new entry
// point; it is used wherever running executables may be deleted. Deferred hands
// the swap to a detached helper script and exits, for platforms (Windows) that
// lock files in use.
package replace

import (
	"os"
	"os/exec"
	"runtime"

	"github.com/quantmind-br/freshen/internal/core"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
)

// Strategy names a replacement strategy
type Strategy string

const (
	StrategyDirect   Strategy = "direct"
	StrategyDeferred Strategy = "deferred"
)

// ForOS returns the strategy suitable for goos
func ForOS(goos string) Strategy {
	if goos == "windows" {
		return StrategyDeferred
	}
	return StrategyDirect
}

// ExecFunc replaces the current process image
type ExecFunc func(path string, argv []string, env []string) error

// StartFunc launches a detached process that outlives the caller
type StartFunc func(name string, args ...string) error

// Replacer performs the replace-and-restart sequence
type Replacer struct {
	strategy Strategy
	fs       afero.Fs
	log      *zerolog.Logger

	exec  ExecFunc
	start StartFunc
	exit  func(code int)
}

// Option configures a Replacer
type Option func(*Replacer)

// WithStrategy overrides the strategy picked from the host OS
func WithStrategy(s Strategy) Option {
	return func(r *Replacer) {
		r.strategy = s
	}
}

// WithFs overrides the filesystem used for copying and helper scripts
func WithFs(fs afero.Fs) Option {
	return func(r *Replacer) {
		r.fs = fs
	}
}

// WithExec overrides process replacement
func WithExec(fn ExecFunc) Option {
	return func(r *Replacer) {
		r.exec = fn
	}
}

// WithStart overrides how the deferred helper is launched
func WithStart(fn StartFunc) Option {
	return func(r *Replacer) {
		r.start = fn
	}
}

// WithExit overrides process termination
func WithExit(fn func(code int)) Option {
	return func(r *Replacer) {
		r.exit = fn
	}
}

// New creates a Replacer for the host OS
func New(log *zerolog.Logger, opts ...Option) *Replacer {
	r := &Replacer{
		strategy: ForOS(runtime.GOOS),
		fs:       afero.NewOsFs(),
		log:      log,
		exec:     execve,
		start:    startDetached,
		exit:     os.Exit,
	}

	for _, opt := range opts {
		opt(r)
	}

	if r.log == nil {
		nop := zerolog.Nop()
		r.log = &nop
	}

	return r
}

// Strategy reports the strategy in use
func (r *Replacer) Strategy() Strategy {
	return r.strategy
}

// ReplaceAndRestart overwrites plan.OldItem with plan.NewItem and restarts into
// the entry point. On success it does not return: the process is either
// replaced or terminated. release is invoked by the direct strategy right
// before the process image is replaced and may be nil.
func (r *Replacer) ReplaceAndRestart(plan core.ReplacementPlan, release func() error) error {
	resolved, err := plan.Resolve()
	if err != nil {
		return err
	}

	r.log.Info().
		Str("strategy", string(r.strategy)).
		Str("new", resolved.NewItem).
		Str("old", resolved.OldItem).
		Str("entry", resolved.EntryPointAbs).
		Msg("replacing application")

	if r.strategy == StrategyDeferred {
		return r.deferred(resolved)
	}
	return r.direct(resolved, release)
}

func startDetached(name string, args ...string) error {
	cmd := exec.Command(name, args...)
	detach(cmd)

	if err := cmd.Start(); err != nil {
		return err
	}
	return cmd.Process.Release()
}
