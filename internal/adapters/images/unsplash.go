package images

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// UnsplashSearcher finds a representative photo through an Unsplash-compatible
// /search/photos endpoint.
type UnsplashSearcher struct {
	session *http.Client
	baseURL string
	key     string
}

func NewUnsplashSearcher(baseURL, key string, session *http.Client) (*UnsplashSearcher, error) {
	if strings.TrimSpace(key) == "" {
		return nil, errors.New("image search: access key is empty")
	}
	if session == nil {
		session = &http.Client{Timeout: 10 * time.Second}
	}
	return &UnsplashSearcher{session: session, baseURL: strings.TrimRight(baseURL, "/"), key: key}, nil
}

type photoSearchResponse struct {
	Results []struct {
		URLs struct {
			Regular string `json:"regular"`
			Small   string `json:"small"`
		} `json:"urls"`
	} `json:"results"`
}

// SearchImage returns the first matching photo. ok is false when nothing matched.
func (u *UnsplashSearcher) SearchImage(ctx context.Context, query string) (string, bool, error) {
	q := url.Values{}
	q.Set("query", query)
	q.Set("per_page", "1")
	q.Set("orientation", "landscape")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.baseURL+"/search/photos?"+q.Encode(), nil)
	if err != nil {
		return "", false, fmt.Errorf("image search: create request: %w", err)
	}
	req.Header.Set("Authorization", "Client-ID "+u.key)
	req.Header.Set("Accept-Version", "v1")

	resp, err := u.session.Do(req)
	if err != nil {
		return "", false, fmt.Errorf("image search %q: %w", query, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", false, fmt.Errorf("image search %q: status %d: %s", query, resp.StatusCode, strings.TrimSpace(string(b)))
	}

	var out photoSearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", false, fmt.Errorf("image search %q: decode: %w", query, err)
	}
	for _, r := range out.Results {
		if r.URLs.Regular != "" {
			return r.URLs.Regular, true, nil
		}
		if r.URLs.Small != "" {
			return r.URLs.Small, true, nil
		}
	}
	return "", false, nil
}
