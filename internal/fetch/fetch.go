// Package fetch downloads a release archive into scratch storage and hands it
// to an unpacker.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"path/filepath"

	"github.com/quantmind-br/freshen/internal/archive"
	"github.com/quantmind-br/freshen/internal/core"
	"github.com/quantmind-br/freshen/internal/httpclient"
	"github.com/quantmind-br/freshen/internal/scope"
	"github.com/quantmind-br/freshen/internal/security"
	"github.com/quantmind-br/freshen/internal/ui"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
)

// fallbackName is used when the URL path has no usable last segment
const fallbackName = "download"

// Fetcher retrieves archives over HTTP(S) or from file:// URLs
type Fetcher struct {
	client   *http.Client
	fs       afero.Fs
	log      *zerolog.Logger
	progress io.Writer
}

// Option configures a Fetcher
type Option func(*Fetcher)

// WithClient overrides the HTTP client
func WithClient(client *http.Client) Option {
	return func(f *Fetcher) {
		f.client = client
	}
}

// WithFs overrides the filesystem used for scratch storage. Unpackers read the
// downloaded archive by path, so it must be backed by the OS filesystem.
func WithFs(fs afero.Fs) Option {
	return func(f *Fetcher) {
		f.fs = fs
	}
}

// WithProgress renders a download progress bar to out
func WithProgress(out io.Writer) Option {
	return func(f *Fetcher) {
		f.progress = out
	}
}

// New creates a Fetcher
func New(log *zerolog.Logger, opts ...Option) *Fetcher {
	f := &Fetcher{
		client: httpclient.New(0),
		fs:     afero.NewOsFs(),
		log:    log,
	}

	for _, opt := range opts {
		opt(f)
	}

	if f.log == nil {
		nop := zerolog.Nop()
		f.log = &nop
	}

	return f
}

// FetchAndUnpack downloads rawURL to a scratch directory, then unpacks it into
// outputDir. A nil unpacker uses the built-in archive extractor. The scratch
// directory is removed before returning.
func (f *Fetcher) FetchAndUnpack(ctx context.Context, rawURL, outputDir string, unpacker core.Unpacker) error {
	if unpacker == nil {
		unpacker = archive.NewExtractor(f.log, nil)
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return &core.TransferError{URL: rawURL, Err: fmt.Errorf("parse url: %w", err)}
	}
	name := security.SafeFilename(path.Base(u.Path), fallbackName)

	sc := scope.New(f.log)
	defer func() {
		if err := sc.Release(); err != nil {
			f.log.Warn().Err(err).Msg("failed to clean scratch directory")
		}
	}()

	tmpDir, err := sc.TempDir(f.fs, "freshen-dl-")
	if err != nil {
		return &core.TransferError{URL: rawURL, Err: err}
	}
	archivePath := filepath.Join(tmpDir, name)

	f.log.Debug().
		Str("url", rawURL).
		Str("file", archivePath).
		Msg("downloading archive")

	if err := f.download(ctx, rawURL, archivePath, name); err != nil {
		return &core.TransferError{URL: rawURL, Err: err}
	}

	if err := unpacker.Unpack(ctx, archivePath, outputDir); err != nil {
		return &core.ExtractionError{Archive: name, Err: err}
	}

	f.log.Debug().
		Str("archive", name).
		Str("output", outputDir).
		Msg("archive unpacked")

	return nil
}

func (f *Fetcher) download(ctx context.Context, rawURL, dest, name string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return err
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %s", resp.Status)
	}

	out, err := f.fs.Create(dest)
	if err != nil {
		return fmt.Errorf("create %s: %w", name, err)
	}

	var w io.Writer = out
	var bar *ui.ProgressWriter
	if f.progress != nil {
		bar = ui.NewProgressWriter(out, f.progress, resp.ContentLength, "downloading "+name)
		w = bar
	}

	_, copyErr := io.Copy(w, resp.Body)
	if bar != nil {
		_ = bar.Close()
	}
	closeErr := out.Close()

	if copyErr != nil {
		return fmt.Errorf("write %s: %w", name, copyErr)
	}
	if closeErr != nil {
		return fmt.Errorf("close %s: %w", name, closeErr)
	}
	return nil
}
