// Package updater ties the pipeline together: scan a listing, pick the newest
// release, fetch and unpack it, then replace and restart the application.
package updater

import (
	"context"
	"fmt"
	"net/http"
	"path/filepath"

	"github.com/quantmind-br/freshen/internal/core"
	"github.com/quantmind-br/freshen/internal/fetch"
	"github.com/quantmind-br/freshen/internal/fsops"
	"github.com/quantmind-br/freshen/internal/httpclient"
	"github.com/quantmind-br/freshen/internal/listing"
	"github.com/quantmind-br/freshen/internal/replace"
	"github.com/quantmind-br/freshen/internal/scope"
	"github.com/quantmind-br/freshen/internal/version"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
)

// Relauncher overwrites the installed application and restarts it.
// It only returns on failure.
type Relauncher interface {
	ReplaceAndRestart(plan core.ReplacementPlan, release func() error) error
}

// Updater runs update checks and applies updates for one application
type Updater struct {
	opts Options
	log  *zerolog.Logger

	client     *http.Client
	fs         afero.Fs
	relauncher Relauncher

	scanner *listing.Scanner
	fetcher *fetch.Fetcher
}

// Option customizes an Updater
type Option func(*Updater)

// WithRelauncher overrides the platform replace-and-restart strategy
func WithRelauncher(r Relauncher) Option {
	return func(u *Updater) {
		u.relauncher = r
	}
}

// WithHTTPClient overrides the client built from Options.Timeout
func WithHTTPClient(client *http.Client) Option {
	return func(u *Updater) {
		u.client = client
	}
}

// New validates opts and builds an Updater
func New(opts Options, log *zerolog.Logger, options ...Option) (*Updater, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	if log == nil {
		nop := zerolog.Nop()
		log = &nop
	}

	u := &Updater{
		opts: opts,
		log:  log,
		fs:   afero.NewOsFs(),
	}

	for _, opt := range options {
		opt(u)
	}

	if u.client == nil {
		u.client = httpclient.New(opts.Timeout)
	}
	if u.relauncher == nil {
		u.relauncher = replace.New(log)
	}
	if u.opts.Comparator == nil {
		u.opts.Comparator = version.Default()
	}

	u.scanner = listing.New(log,
		listing.WithClient(u.client),
		listing.WithStrict(!opts.Lenient),
	)

	fetchOpts := []fetch.Option{fetch.WithClient(u.client), fetch.WithFs(u.fs)}
	if opts.Progress != nil {
		fetchOpts = append(fetchOpts, fetch.WithProgress(opts.Progress))
	}
	u.fetcher = fetch.New(log, fetchOpts...)

	return u, nil
}

// Index scans the listing and returns every matching asset
func (u *Updater) Index(ctx context.Context) (core.AssetIndex, error) {
	return u.scanner.Scan(ctx, u.opts.BaseURL, u.opts.Pattern)
}

// Check returns the newest asset above the current version, if any
func (u *Updater) Check(ctx context.Context) (core.UpdateCandidate, bool, error) {
	index, err := u.Index(ctx)
	if err != nil {
		return core.UpdateCandidate{}, false, err
	}

	candidate, found := version.Select(index, u.opts.CurrentVersion, u.opts.Comparator)

	event := u.log.Debug().
		Str("current", u.opts.CurrentVersion).
		Int("assets", len(index)).
		Bool("update", found)
	if found {
		event = event.Str("latest", candidate.Version).Str("url", candidate.URL)
	}
	event.Msg("update check complete")

	return candidate, found, nil
}

// IsFresh reports whether no newer version is published
func (u *Updater) IsFresh(ctx context.Context) (bool, error) {
	_, found, err := u.Check(ctx)
	if err != nil {
		return false, err
	}
	return !found, nil
}

// FreshenUp installs the newest release and restarts into it. It returns
// core.ErrNoUpdateAvailable when the application is already current; any other
// return means the update failed.
func (u *Updater) FreshenUp(ctx context.Context) error {
	candidate, found, err := u.Check(ctx)
	if err != nil {
		return err
	}
	if !found {
		return core.ErrNoUpdateAvailable
	}

	return u.Apply(ctx, candidate)
}

// Apply installs candidate, as returned by Check, and restarts into it
// without scanning the listing again. Like FreshenUp it only returns on failure.
func (u *Updater) Apply(ctx context.Context, candidate core.UpdateCandidate) error {
	if candidate.URL == "" {
		return fmt.Errorf("%w: candidate has no url", core.ErrInvalidOptions)
	}

	u.log.Info().
		Str("from", u.opts.CurrentVersion).
		Str("to", candidate.Version).
		Msg("updating")

	sc := scope.New(u.log)
	defer func() {
		if err := sc.Release(); err != nil {
			u.log.Warn().Err(err).Msg("failed to clean update scratch directory")
		}
	}()

	tmpDir, err := sc.TempDir(u.fs, "freshen-up-")
	if err != nil {
		return fmt.Errorf("create scratch directory: %w", err)
	}

	if err := u.fetcher.FetchAndUnpack(ctx, candidate.URL, tmpDir, u.opts.Unpacker); err != nil {
		return err
	}

	root, err := u.resolveRoot(tmpDir)
	if err != nil {
		return err
	}

	plan := core.ReplacementPlan{
		NewItem:    root,
		OldItem:    u.opts.OverwriteTarget,
		EntryPoint: u.opts.EntryPoint,
	}

	return u.relauncher.ReplaceAndRestart(plan, sc.Release)
}

// resolveRoot picks the item to install from an extraction directory: its only
// entry when there is exactly one, otherwise the entry point inside it.
func (u *Updater) resolveRoot(dir string) (string, error) {
	entries, err := fsops.Entries(u.fs, dir)
	if err != nil {
		return "", &core.ExtractionError{Archive: dir, Err: err}
	}

	if len(entries) == 1 {
		return filepath.Join(dir, entries[0]), nil
	}
	return filepath.Join(dir, u.opts.EntryPoint), nil
}
