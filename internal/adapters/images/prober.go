package images

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// HTTPProber checks that a URL answers with an image.
type HTTPProber struct {
	session *http.Client
}

func NewHTTPProber(session *http.Client) *HTTPProber {
	if session == nil {
		session = &http.Client{Timeout: 10 * time.Second}
	}
	return &HTTPProber{session: session}
}

// Probe issues a HEAD request, falling back to GET for servers that refuse HEAD.
func (p *HTTPProber) Probe(ctx context.Context, rawURL string) error {
	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		return fmt.Errorf("probe %q: not an http url", rawURL)
	}

	status, ctype, err := p.fetch(ctx, http.MethodHead, rawURL)
	if err == nil && (status == http.StatusMethodNotAllowed || status == http.StatusNotImplemented) {
		status, ctype, err = p.fetch(ctx, http.MethodGet, rawURL)
	}
	if err != nil {
		return fmt.Errorf("probe %q: %w", rawURL, err)
	}

	if status < 200 || status >= 300 {
		return fmt.Errorf("probe %q: status %d", rawURL, status)
	}
	if !strings.HasPrefix(ctype, "image/") {
		return fmt.Errorf("probe %q: content type %q is not an image", rawURL, ctype)
	}
	return nil
}

func (p *HTTPProber) fetch(ctx context.Context, method, rawURL string) (int, string, error) {
	req, err := http.NewRequestWithContext(ctx, method, rawURL, nil)
	if err != nil {
		return 0, "", err
	}

	resp, err := p.session.Do(req)
	if err != nil {
		return 0, "", err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 512))

	return resp.StatusCode, resp.Header.Get("Content-Type"), nil
}
