package catalog

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/fontshelf/pkg/buildinfo"
	"github.com/matzehuels/fontshelf/pkg/errors"
	"github.com/matzehuels/fontshelf/pkg/fonts"
)

// Source provides the raw catalog document.
type Source interface {
	// Name describes the source in logs (a path, URL or "embedded").
	Name() string

	// Open returns the catalog document. The caller closes it.
	Open(ctx context.Context) (io.ReadCloser, error)
}

// Load reads and decodes the catalog from src. Entries that fail validation
// are logged and left out. A nil logger uses log.Default().
func Load(ctx context.Context, src Source, logger *log.Logger) (Catalog, error) {
	rc, err := src.Open(ctx)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	c, skipped, err := Decode(rc)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", src.Name(), err)
	}
	if len(skipped) > 0 {
		if logger == nil {
			logger = log.Default()
		}
		for _, sk := range skipped {
			logger.Warn("skipping catalog entry", "source", src.Name(), "index", sk.Index, "name", sk.Name, "err", errors.UserMessage(sk.Err))
		}
	}
	return c, nil
}

// ParseSource picks a source for a catalog location: "" selects the embedded
// catalog, http(s) URLs select an HTTP source, anything else is a file path.
func ParseSource(location string, retries int) Source {
	switch {
	case location == "":
		return EmbeddedSource{}
	case strings.HasPrefix(location, "http://"), strings.HasPrefix(location, "https://"):
		return NewHTTPSource(location, retries)
	default:
		return FileSource{Path: location}
	}
}

// =============================================================================
// Embedded
// =============================================================================

// EmbeddedSource serves the catalog compiled into the binary.
type EmbeddedSource struct{}

// Name implements Source.
func (EmbeddedSource) Name() string { return "embedded" }

// Open implements Source.
func (EmbeddedSource) Open(context.Context) (io.ReadCloser, error) {
	return io.NopCloser(bytes.NewReader(fonts.CatalogJSON())), nil
}

// =============================================================================
// File
// =============================================================================

// FileSource reads the catalog from a local file.
type FileSource struct {
	Path string
}

// Name implements Source.
func (s FileSource) Name() string { return s.Path }

// Open implements Source.
func (s FileSource) Open(ctx context.Context) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := os.Open(s.Path)
	if os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeNotFound, err, "catalog file %s", s.Path)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "open catalog %s", s.Path)
	}
	return f, nil
}

// =============================================================================
// HTTP
// =============================================================================

// HTTPSource fetches the catalog over HTTP(S).
type HTTPSource struct {
	URL      string
	Attempts int // Total attempts for transient failures (minimum 1)
	Delay    time.Duration
	Client   *http.Client
}

// NewHTTPSource creates an HTTP source. retries is the number of extra
// attempts made after a transient failure (network error or 5xx).
func NewHTTPSource(url string, retries int) *HTTPSource {
	return &HTTPSource{
		URL:      url,
		Attempts: max(retries, 0) + 1,
		Delay:    500 * time.Millisecond,
		Client:   &http.Client{Timeout: 15 * time.Second},
	}
}

// Name implements Source.
func (s *HTTPSource) Name() string { return s.URL }

// Open implements Source. The whole body is read before returning so that
// retries cover truncated responses too.
func (s *HTTPSource) Open(ctx context.Context) (io.ReadCloser, error) {
	if err := errors.ValidateURL(s.URL); err != nil {
		return nil, err
	}

	var body []byte
	err := Retry(ctx, s.Attempts, s.Delay, func() error {
		b, err := s.fetch(ctx)
		if err != nil {
			return err
		}
		body = b
		return nil
	})
	if err != nil {
		return nil, err
	}
	return io.NopCloser(bytes.NewReader(body)), nil
}

func (s *HTTPSource) fetch(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.URL, nil)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "build request")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", buildinfo.UserAgent())

	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, &RetryableError{Err: errors.Wrap(errors.ErrCodeNetwork, err, "fetch %s", s.URL)}
	}
	defer resp.Body.Close()

	if err := checkStatus(s.URL, resp.StatusCode); err != nil {
		return nil, err
	}

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &RetryableError{Err: errors.Wrap(errors.ErrCodeNetwork, err, "read %s", s.URL)}
	}
	return b, nil
}

func checkStatus(url string, code int) error {
	switch {
	case code == http.StatusOK:
		return nil
	case code == http.StatusNotFound:
		return errors.New(errors.ErrCodeNotFound, "catalog %s: status %d", url, code)
	case code == http.StatusRequestTimeout, code == http.StatusGatewayTimeout:
		return &RetryableError{Err: errors.New(errors.ErrCodeTimeout, "catalog %s: status %d", url, code)}
	case code >= 500:
		return &RetryableError{Err: errors.New(errors.ErrCodeNetwork, "catalog %s: status %d", url, code)}
	default:
		return errors.New(errors.ErrCodeNetwork, "catalog %s: status %d", url, code)
	}
}
