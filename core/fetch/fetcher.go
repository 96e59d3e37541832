// Package fetch implements the Fetcher interface.
// It loads clipboard HTML and slice clip JSON from a file, standard input
// ("-") or an http(s) URL.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/tatsuyakari1203/markdown-editor-sub001/core"
)

const (
	defaultTimeout   = 30 * time.Second
	defaultUserAgent = "clipdown/1.0"

	// Stdin is the location naming standard input.
	Stdin = "-"
)

// Loader reads input from files, stdin or HTTP.
type Loader struct {
	client *http.Client
	stdin  io.Reader
}

// New creates a Loader with a sensible HTTP timeout.
func New() *Loader {
	return &Loader{
		client: &http.Client{Timeout: defaultTimeout},
		stdin:  os.Stdin,
	}
}

// WithStdin returns a copy of l reading "-" from r.
func (l *Loader) WithStdin(r io.Reader) *Loader {
	c := *l
	c.stdin = r
	return &c
}

// IsURL reports whether location is fetched over HTTP.
func IsURL(location string) bool {
	return strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://")
}

// Fetch loads location.
func (l *Loader) Fetch(ctx context.Context, location string) (*core.FetchResult, error) {
	switch {
	case location == Stdin:
		data, err := io.ReadAll(l.stdin)
		if err != nil {
			return nil, fmt.Errorf("reading stdin: %w", err)
		}
		return &core.FetchResult{Location: location, Data: data}, nil
	case IsURL(location):
		return l.fetchURL(ctx, location)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(location)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", location, err)
	}
	return &core.FetchResult{Location: location, Data: data}, nil
}

func (l *Loader) fetchURL(ctx context.Context, url string) (*core.FetchResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", defaultUserAgent)
	req.Header.Set("Accept", "text/html,application/json;q=0.9,*/*;q=0.8")

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("unexpected status %d for %s", resp.StatusCode, url)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	return &core.FetchResult{
		Location:   url,
		StatusCode: resp.StatusCode,
		Data:       body,
	}, nil
}
