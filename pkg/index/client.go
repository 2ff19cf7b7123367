// pkg/index/client.go
package index

import (
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/klauspost/compress/zstd"
	"github.com/ulikunitz/xz"
)

// Client fetches documents over HTTP
type Client struct {
	httpClient *http.Client
	userAgent  string
}

// NewClient creates a client whose requests give up after timeout
func NewClient(timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 2 * time.Minute
	}
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				Proxy:               http.ProxyFromEnvironment,
				MaxIdleConns:        10,
				MaxIdleConnsPerHost: 2,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		userAgent: "onepkg/0.1",
	}
}

// Get performs an HTTP GET request and fails on any non-200 status
func (c *Client) Get(ctx context.Context, rawURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("performing request: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("unexpected status %d for %s", resp.StatusCode, rawURL)
	}

	return resp, nil
}

// Open returns the body of rawURL, decompressed according to its suffix
// (.xz, .zst, .gz)
func (c *Client) Open(ctx context.Context, rawURL string) (io.ReadCloser, error) {
	resp, err := c.Get(ctx, rawURL)
	if err != nil {
		return nil, err
	}

	switch compression(rawURL) {
	case ".xz":
		xzReader, err := xz.NewReader(resp.Body)
		if err != nil {
			resp.Body.Close()
			return nil, fmt.Errorf("creating xz reader: %w", err)
		}
		return &combinedCloser{Reader: xzReader, closers: []io.Closer{resp.Body}}, nil

	case ".zst":
		zstdReader, err := zstd.NewReader(resp.Body)
		if err != nil {
			resp.Body.Close()
			return nil, fmt.Errorf("creating zstd reader: %w", err)
		}
		return &combinedCloser{
			Reader:  zstdReader,
			closers: []io.Closer{closerFunc(func() error { zstdReader.Close(); return nil }), resp.Body},
		}, nil

	case ".gz":
		gzReader, err := gzip.NewReader(resp.Body)
		if err != nil {
			resp.Body.Close()
			return nil, fmt.Errorf("creating gzip reader: %w", err)
		}
		return &combinedCloser{Reader: gzReader, closers: []io.Closer{gzReader, resp.Body}}, nil
	}

	return resp.Body, nil
}

// DownloadFile writes the document at rawURL to path. The body goes to a
// temp file first, so path is either the complete document or untouched.
func (c *Client) DownloadFile(ctx context.Context, rawURL, path string, perm os.FileMode) (int64, error) {
	body, err := c.Open(ctx, rawURL)
	if err != nil {
		return 0, err
	}
	defer body.Close()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return 0, fmt.Errorf("creating directory: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.part")
	if err != nil {
		return 0, fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()

	written, err := io.Copy(tmp, body)
	if err == nil {
		err = ctx.Err()
	}
	if err == nil {
		err = tmp.Sync()
	}
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err == nil {
		err = os.Chmod(tmpPath, perm)
	}
	if err != nil {
		os.Remove(tmpPath)
		return written, fmt.Errorf("copying data: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return written, fmt.Errorf("moving download into place: %w", err)
	}
	return written, nil
}

func compression(rawURL string) string {
	p := rawURL
	if u, err := url.Parse(rawURL); err == nil {
		p = u.Path
	}
	for _, ext := range []string{".xz", ".zst", ".gz"} {
		if strings.HasSuffix(p, ext) {
			return ext
		}
	}
	return ""
}

// combinedCloser closes multiple closers
type combinedCloser struct {
	io.Reader
	closers []io.Closer
}

func (c *combinedCloser) Close() error {
	var firstErr error
	for _, closer := range c.closers {
		if err := closer.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

type closerFunc func() error

func (f closerFunc) Close() error { return f() }
