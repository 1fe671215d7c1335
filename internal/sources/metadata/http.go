package metadata

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/MrSnakeDoc/campstats/internal/domain"
)

// maxDocumentBytes bounds how much of a response body is read.
const maxDocumentBytes = 32 << 20

// HTTPProvider GETs the metadata document, typically the metadata.json the
// docs build publishes next to the site.
type HTTPProvider struct {
	url    string
	client *http.Client
}

// NewHTTPProvider creates an HTTP-backed provider. A nil client means
// http.DefaultClient; the request context is the only deadline.
func NewHTTPProvider(url string, client *http.Client) *HTTPProvider {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPProvider{
		url:    url,
		client: client,
	}
}

// Fetch downloads and parses the document. Non-2xx answers are errors.
func (p *HTTPProvider) Fetch(ctx context.Context) (domain.Metadata, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json, application/yaml;q=0.9")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch metadata: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("failed to fetch metadata: %s returned %s", p.url, resp.Status)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxDocumentBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read metadata body: %w", err)
	}

	return Decode(data, FormatFromContentType(resp.Header.Get("Content-Type")))
}
