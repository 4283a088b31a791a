// Package embedding provides a thin typed HTTP client for the embedding
// service consumed by mnemo (spec.md §4.3, §6).
package embedding

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-ports/mnemo/internal/merr"
)

const healthTimeout = 2 * time.Second

// Client is a stateless HTTP client to the embedding service. It does not
// cache (spec.md §4.3: "The embedder does not cache.").
type Client struct {
	baseURL    string
	dimensions int
	httpClient *http.Client
}

// New constructs a Client for the embedding service at baseURL, expecting
// vectors of the given dimension.
func New(baseURL string, dimensions int) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		dimensions: dimensions,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// Dimensions returns D from configuration (spec.md §4.3).
func (c *Client) Dimensions() int { return c.dimensions }

type embedRequest struct {
	Texts []string `json:"texts"`
}

type embedResponse struct {
	Embeddings [][]float32 `json:"embeddings"`
	Dimensions int         `json:"dimensions"`
}

// EmbedBatch embeds texts in a single request. Fails with
// merr.ErrEmbedderUnavailable when the service is unreachable or returns a
// malformed/empty payload.
func (c *Client) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	reqBody, err := json.Marshal(embedRequest{Texts: texts})
	if err != nil {
		return nil, fmt.Errorf("embedding: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/embed", bytes.NewReader(reqBody))
	if err != nil {
		return nil, fmt.Errorf("embedding: new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", merr.ErrEmbedderUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
		return nil, fmt.Errorf("%w: HTTP %d: %s", merr.ErrEmbedderUnavailable, resp.StatusCode, bytes.TrimSpace(snippet))
	}

	var out embedResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", merr.ErrEmbedderUnavailable, err)
	}
	if len(out.Embeddings) != len(texts) {
		return nil, fmt.Errorf("%w: expected %d embeddings, got %d", merr.ErrEmbedderUnavailable, len(texts), len(out.Embeddings))
	}
	return out.Embeddings, nil
}

// EmbedOne is embed_batch([text])[0] (spec.md §4.3).
func (c *Client) EmbedOne(ctx context.Context, text string) ([]float32, error) {
	vecs, err := c.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vecs[0], nil
}

type healthResponse struct {
	Status     string `json:"status"`
	Model      string `json:"model"`
	Dimensions int    `json:"dimensions"`
}

// IsAvailable is a bounded health probe (hard timeout ~2s) that returns
// false on any failure without raising, and also returns false if the
// service reports a dimension that disagrees with configuration.
func (c *Client) IsAvailable(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, healthTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return false
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return false
	}

	var out healthResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return false
	}
	if out.Status != "ok" {
		return false
	}
	return out.Dimensions == c.dimensions
}
