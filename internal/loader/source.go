package loader

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

// Source fetches the raw catalog document.
type Source interface {
	Fetch(ctx context.Context) ([]byte, error)
	String() string
}

// HTTPSource fetches the catalog over HTTP, defeating intermediate caches.
type HTTPSource struct {
	URL     string
	Version string
	Client  *http.Client

	now func() time.Time
}

// NewHTTPSource returns an HTTPSource with a 30 second client timeout.
func NewHTTPSource(rawURL, version string) *HTTPSource {
	return &HTTPSource{
		URL:     rawURL,
		Version: version,
		Client:  &http.Client{Timeout: 30 * time.Second},
	}
}

// BustedURL appends v=<version>&t=<unix ms> to the source URL.
func (s *HTTPSource) BustedURL() string {
	now := time.Now
	if s.now != nil {
		now = s.now
	}
	sep := "?"
	if strings.Contains(s.URL, "?") {
		sep = "&"
	}
	return s.URL + sep + "v=" + url.QueryEscape(s.Version) + "&t=" + strconv.FormatInt(now().UnixMilli(), 10)
}

// Fetch performs the GET. Any non-2xx status is an error.
func (s *HTTPSource) Fetch(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.BustedURL(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating catalog request: %w", err)
	}
	req.Header.Set("Cache-Control", "no-cache, no-store, must-revalidate")
	req.Header.Set("Pragma", "no-cache")
	req.Header.Set("Expires", "0")

	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching catalog: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("fetching catalog: unexpected status %d", resp.StatusCode)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading catalog response: %w", err)
	}
	return data, nil
}

func (s *HTTPSource) String() string { return s.URL }

// FileSource reads the catalog from a local file.
type FileSource struct {
	Path string
}

// Fetch reads the file.
func (s FileSource) Fetch(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog: %w", err)
	}
	return data, nil
}

func (s FileSource) String() string { return s.Path }
