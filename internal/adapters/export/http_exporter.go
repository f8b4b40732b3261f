package export

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"
	"time"

	"trip-planner-service/internal/platform/obs"
	"trip-planner-service/internal/ports"
)

const maxDocumentBytes = 20 << 20

// HTTPExporter posts the summary bundle to a document service and returns its
// response body as the generated file. Failures are not retried.
type HTTPExporter struct {
	session *http.Client
	url     string
}

func NewHTTPExporter(url string, session *http.Client) (*HTTPExporter, error) {
	if strings.TrimSpace(url) == "" {
		return nil, errors.New("http exporter: url is empty")
	}
	if session == nil {
		session = &http.Client{Timeout: 60 * time.Second}
	}
	return &HTTPExporter{session: session, url: url}, nil
}

func (e *HTTPExporter) Export(ctx context.Context, b ports.SummaryBundle) (_ ports.Document, err error) {
	defer obs.Time(ctx, "export.http")(&err)

	body, err := json.Marshal(b)
	if err != nil {
		return ports.Document{}, fmt.Errorf("export: marshal bundle: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.url, bytes.NewReader(body))
	if err != nil {
		return ports.Document{}, fmt.Errorf("export: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.session.Do(req)
	if err != nil {
		return ports.Document{}, fmt.Errorf("export: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return ports.Document{}, fmt.Errorf("export: status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}

	doc, err := io.ReadAll(io.LimitReader(resp.Body, maxDocumentBytes))
	if err != nil {
		return ports.Document{}, fmt.Errorf("export: read document: %w", err)
	}
	if len(doc) == 0 {
		return ports.Document{}, errors.New("export: empty document")
	}

	ctype := resp.Header.Get("Content-Type")
	if ctype == "" {
		ctype = "application/pdf"
	}

	name := filename(b, "pdf")
	if _, params, err := mime.ParseMediaType(resp.Header.Get("Content-Disposition")); err == nil && params["filename"] != "" {
		name = params["filename"]
	}

	return ports.Document{Filename: name, ContentType: ctype, Body: doc}, nil
}
