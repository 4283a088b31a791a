// Package e2e_test — shared mock HTTP server helper for embedding-backed
// end-to-end tests. It lets e2e tests exercise the full
// remember -> embed -> vector-index pipeline without calling a real
// embedding service.
package e2e_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

const e2eDim = 4

// newEmbedServer starts a test HTTP server speaking mnemo's embedding wire
// format: POST body {"texts": [...]}, response
// {"embeddings": [[...], ...], "dimensions": N}. Every text maps to a
// distinct, deterministic vector based on its position in the batch, so
// recall ordering in tests is reproducible without needing exact control
// over content.
func newEmbedServer(tb testing.TB) *httptest.Server {
	tb.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Texts []string `json:"texts"`
		}
		_ = json.NewDecoder(r.Body).Decode(&req)

		embs := make([][]float32, len(req.Texts))
		for i, text := range req.Texts {
			embs[i] = deterministicVec(text)
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"embeddings": embs, "dimensions": e2eDim})
	}))
	tb.Cleanup(srv.Close)
	return srv
}

// deterministicVec derives a fixed-dimension vector from the bytes of text,
// so identical content always embeds to the same point and distinct content
// lands at a distinct, reproducible distance.
func deterministicVec(text string) []float32 {
	v := make([]float32, e2eDim)
	for i, b := range []byte(text) {
		v[i%e2eDim] += float32(b)
	}
	return v
}

// writeEmbeddingCfg writes a config.json into home pointing the embedding
// client at baseURL.
func writeEmbeddingCfg(tb testing.TB, home, baseURL string) {
	tb.Helper()

	content := fmt.Sprintf(`{"embedding": {"model": "test-model", "dimensions": %d, "base_url": %q}}`, e2eDim, baseURL)
	if err := os.WriteFile(filepath.Join(home, "config.json"), []byte(content), 0o600); err != nil {
		tb.Fatalf("writeEmbeddingCfg: %v", err)
	}
}
