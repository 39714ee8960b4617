// Package httpclient builds the HTTP client shared by the listing scanner and the fetcher.
package httpclient

import (
	"net"
	"net/http"
	"runtime"
	"strings"
	"time"
)

const (
	// DefaultConnectTimeout bounds dialing and the TLS handshake
	DefaultConnectTimeout = 30 * time.Second
	// DefaultHeaderTimeout bounds the wait for response headers once the request is sent
	DefaultHeaderTimeout = 30 * time.Second
)

type settings struct {
	connectTimeout time.Duration
	headerTimeout  time.Duration
}

// Option tunes the transport
type Option func(*settings)

// WithConnectTimeout overrides DefaultConnectTimeout
func WithConnectTimeout(d time.Duration) Option {
	return func(s *settings) {
		s.connectTimeout = d
	}
}

// WithHeaderTimeout overrides DefaultHeaderTimeout
func WithHeaderTimeout(d time.Duration) Option {
	return func(s *settings) {
		s.headerTimeout = d
	}
}

// New returns a client whose connection setup and response headers are time
// bounded. Reading the body is limited only by the request context, or by
// timeout when it is positive; zero means no cap on the whole exchange.
//
// Besides http and https the client serves file:// URLs from the local filesystem,
// so listings and archives can be staged on disk.
func New(timeout time.Duration, opts ...Option) *http.Client {
	s := settings{
		connectTimeout: DefaultConnectTimeout,
		headerTimeout:  DefaultHeaderTimeout,
	}
	for _, opt := range opts {
		opt(&s)
	}

	if timeout < 0 {
		timeout = 0
	}

	dialer := &net.Dialer{
		Timeout:   s.connectTimeout,
		KeepAlive: 30 * time.Second,
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.DialContext = dialer.DialContext
	transport.TLSHandshakeTimeout = s.connectTimeout
	transport.ResponseHeaderTimeout = s.headerTimeout
	transport.RegisterProtocol("file", fileTransport{goos: runtime.GOOS})

	return &http.Client{
		Timeout:   timeout,
		Transport: transport,
	}
}

// fileTransport serves file:// URLs relative to the volume they name
type fileTransport struct {
	goos string
}

func (t fileTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	root, name := splitFilePath(t.goos, req.URL.Path)

	local := req.Clone(req.Context())
	local.URL.Path = name
	local.URL.RawPath = ""

	return http.NewFileTransport(http.Dir(root)).RoundTrip(local)
}

// splitFilePath splits the path of a file:// URL into the filesystem root to
// serve from and the slash separated name below it. On windows the drive letter
// ("/C:/x") becomes the root ("C:/").
func splitFilePath(goos, urlPath string) (root, name string) {
	if goos == "windows" {
		p := strings.TrimPrefix(urlPath, "/")
		if len(p) >= 2 && p[1] == ':' && isDriveLetter(p[0]) {
			return p[:2] + "/", "/" + strings.TrimPrefix(p[2:], "/")
		}
	}
	return "/", urlPath
}

func isDriveLetter(c byte) bool {
	return ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z')
}
