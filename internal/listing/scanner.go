// Package listing discovers release artifacts by scraping an HTML index page.
//
// Every <a href> on the page whose target ends with a caller supplied pattern is
// collected. The pattern's first capturing group is taken as the artifact version.
package listing

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"

	"github.com/quantmind-br/freshen/internal/core"
	"github.com/quantmind-br/freshen/internal/httpclient"
	"github.com/rs/zerolog"
	"golang.org/x/net/html"
	"golang.org/x/net/html/charset"
)

// Scanner fetches a listing page and extracts versioned asset links
type Scanner struct {
	client *http.Client
	log    *zerolog.Logger
	strict bool
}

// Option configures a Scanner
type Option func(*Scanner)

// WithClient overrides the HTTP client
func WithClient(client *http.Client) Option {
	return func(s *Scanner) {
		s.client = client
	}
}

// WithStrict controls whether a page without matching links is an error (strict)
// or an empty index (lenient). Scanners are strict by default.
func WithStrict(strict bool) Option {
	return func(s *Scanner) {
		s.strict = strict
	}
}

// New creates a Scanner
func New(log *zerolog.Logger, opts ...Option) *Scanner {
	s := &Scanner{
		client: httpclient.New(0),
		log:    log,
		strict: true,
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.log == nil {
		nop := zerolog.Nop()
		s.log = &nop
	}

	return s
}

// Scan fetches baseURL and returns every matching link resolved against it
func (s *Scanner) Scan(ctx context.Context, baseURL, pattern string) (core.AssetIndex, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, &core.ScanError{URL: baseURL, Err: fmt.Errorf("parse base url: %w", err)}
	}

	re, err := compilePattern(pattern)
	if err != nil {
		return nil, &core.ScanError{URL: baseURL, Err: err}
	}

	hrefs, err := s.fetchLinks(ctx, baseURL)
	if err != nil {
		return nil, &core.ScanError{URL: baseURL, Err: err}
	}

	index := make(core.AssetIndex)
	for _, href := range hrefs {
		m := re.FindStringSubmatch(href)
		if m == nil {
			continue
		}

		ref, err := url.Parse(href)
		if err != nil {
			s.log.Debug().Err(err).Str("href", href).Msg("skipping unparsable link")
			continue
		}

		assetURL := base.ResolveReference(ref).String()
		index[assetURL] = m[1]

		s.log.Debug().
			Str("url", assetURL).
			Str("version", m[1]).
			Msg("matched asset")
	}

	if len(index) == 0 && s.strict {
		return nil, &core.ScanError{URL: baseURL, Err: core.ErrNoCandidates}
	}

	s.log.Debug().
		Str("listing", baseURL).
		Int("assets", len(index)).
		Msg("listing scanned")

	return index, nil
}

// compilePattern anchors pattern to the end of the link target
func compilePattern(pattern string) (*regexp.Regexp, error) {
	if pattern == "" {
		return nil, fmt.Errorf("%w: empty pattern", core.ErrInvalidOptions)
	}

	re, err := regexp.Compile(`(?:` + pattern + `)$`)
	if err != nil {
		return nil, fmt.Errorf("%w: compile pattern: %v", core.ErrInvalidOptions, err)
	}

	if re.NumSubexp() < 1 {
		return nil, fmt.Errorf("%w: pattern %q has no capturing group for the version", core.ErrInvalidOptions, pattern)
	}

	return re, nil
}

func (s *Scanner) fetchLinks(ctx context.Context, pageURL string) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("listing returned status %d", resp.StatusCode)
	}

	body, err := charset.NewReader(resp.Body, resp.Header.Get("Content-Type"))
	if err != nil {
		return nil, fmt.Errorf("decode listing: %w", err)
	}

	return extractHrefs(body)
}

// extractHrefs returns the href attribute of every anchor in document order
func extractHrefs(r io.Reader) ([]string, error) {
	var hrefs []string

	z := html.NewTokenizer(r)
	for {
		switch z.Next() {
		case html.ErrorToken:
			if err := z.Err(); err != io.EOF {
				return nil, fmt.Errorf("parse listing: %w", err)
			}
			return hrefs, nil

		case html.StartTagToken, html.SelfClosingTagToken:
			name, hasAttr := z.TagName()
			if string(name) != "a" || !hasAttr {
				continue
			}

			for {
				key, val, more := z.TagAttr()
				if string(key) == "href" {
					hrefs = append(hrefs, strings.TrimSpace(string(val)))
				}
				if !more {
					break
				}
			}
		}
	}
}
