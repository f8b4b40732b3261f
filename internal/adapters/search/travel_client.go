package search

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"trip-planner-service/internal/platform/obs"
	"trip-planner-service/internal/ports"
)

// TravelClient queries the travel-inventory backend, one endpoint per kind:
// POST {baseURL}/{flight|hotel|activity} with {"text": query}.
type TravelClient struct {
	session *http.Client
	baseURL string
}

func NewTravelClient(baseURL string, session *http.Client) (*TravelClient, error) {
	if strings.TrimSpace(baseURL) == "" {
		return nil, errors.New("travel client: base url is empty")
	}
	if session == nil {
		session = &http.Client{Timeout: 30 * time.Second}
	}
	return &TravelClient{session: session, baseURL: strings.TrimRight(baseURL, "/")}, nil
}

type searchRequest struct {
	Text string `json:"text"`
}

type searchResponse struct {
	Data  []json.RawMessage `json:"data"`
	Error string            `json:"error"`
}

// Search returns the raw provider records from the response's data array.
func (c *TravelClient) Search(
	ctx context.Context,
	kind ports.SearchKind,
	query string,
) (_ []json.RawMessage, err error) {
	defer obs.Time(ctx, "search."+string(kind))(&err)

	body, err := json.Marshal(searchRequest{Text: query})
	if err != nil {
		return nil, fmt.Errorf("search %s: marshal request: %w", kind, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/"+string(kind), bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("search %s: create request: %w", kind, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.session.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search %s: %w", kind, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("search %s: status %d: %s", kind, resp.StatusCode, strings.TrimSpace(string(b)))
	}

	var out searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("search %s: decode response: %w", kind, err)
	}
	if out.Error != "" {
		return nil, fmt.Errorf("search %s: provider error: %s", kind, out.Error)
	}

	return out.Data, nil
}
