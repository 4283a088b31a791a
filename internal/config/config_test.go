package config_test

import (
	"os"
	"path/filepath"
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/go-ports/mnemo/internal/config"
)

func TestDefault_HappyPath(t *testing.T) {
	c := qt.New(t)
	cfg := config.Default()
	c.Assert(cfg, qt.IsNotNil)
	c.Assert(cfg.Embedding.Model, qt.Equals, "nomic-embed-text")
	c.Assert(cfg.Embedding.Dimensions, qt.Equals, 768)
	c.Assert(cfg.Embedding.BaseURL, qt.Equals, "http://localhost:8088")
	c.Assert(cfg.Chunking.MaxTokens, qt.Equals, 512)
	c.Assert(cfg.Recall.BoostRecency, qt.IsTrue)
	c.Assert(cfg.Dedup.Enabled, qt.IsTrue)
	c.Assert(cfg.Dedup.SimilarityThreshold, qt.Equals, 5.0)
	c.Assert(len(cfg.Sensitive.Patterns) > 0, qt.IsTrue)
}

func TestLoad_HappyPath(t *testing.T) {
	c := qt.New(t)

	c.Run("non-existent file returns defaults without error", func(c *qt.C) {
		cfg, err := config.Load("/nonexistent/config.json")
		c.Assert(err, qt.IsNil)
		c.Assert(cfg, qt.IsNotNil)
		c.Assert(cfg.Embedding.Model, qt.Equals, "nomic-embed-text")
		c.Assert(cfg.Recall.ProjectResults, qt.Equals, 5)
	})

	tests := []struct {
		name            string
		json            string
		wantModel       string
		wantDimensions  int
		wantBaseURL     string
		wantDistance    float64
		wantBoostRecent bool
	}{
		{
			name:            "full embedding section overrides all fields",
			json:            `{"embedding":{"model":"mxbai-embed-large","dimensions":1024,"base_url":"http://embed.local:9000"}}`,
			wantModel:       "mxbai-embed-large",
			wantDimensions:  1024,
			wantBaseURL:     "http://embed.local:9000",
			wantDistance:    1.0,
			wantBoostRecent: true,
		},
		{
			name:            "recall distance_threshold override",
			json:            `{"recall":{"distance_threshold":0.4}}`,
			wantModel:       "nomic-embed-text",
			wantDimensions:  768,
			wantBaseURL:     "http://localhost:8088",
			wantDistance:    0.4,
			wantBoostRecent: true,
		},
		{
			name:            "recall boost_recency disabled",
			json:            `{"recall":{"boost_recency":false}}`,
			wantModel:       "nomic-embed-text",
			wantDimensions:  768,
			wantBaseURL:     "http://localhost:8088",
			wantDistance:    1.0,
			wantBoostRecent: false,
		},
	}

	for _, tt := range tests {
		c.Run(tt.name, func(c *qt.C) {
			tmp := t.TempDir()
			path := filepath.Join(tmp, "config.json")
			err := os.WriteFile(path, []byte(tt.json), 0o600)
			c.Assert(err, qt.IsNil)

			cfg, err := config.Load(path)
			c.Assert(err, qt.IsNil)
			c.Assert(cfg.Embedding.Model, qt.Equals, tt.wantModel)
			c.Assert(cfg.Embedding.Dimensions, qt.Equals, tt.wantDimensions)
			c.Assert(cfg.Embedding.BaseURL, qt.Equals, tt.wantBaseURL)
			c.Assert(cfg.Recall.DistanceThreshold, qt.Equals, tt.wantDistance)
			c.Assert(cfg.Recall.BoostRecency, qt.Equals, tt.wantBoostRecent)
		})
	}
}

func TestLoad_PartialOverrideRetainsDefaults(t *testing.T) {
	c := qt.New(t)

	tmp := t.TempDir()
	path := filepath.Join(tmp, "config.json")
	err := os.WriteFile(path, []byte(`{"gc":{"max_age_unused_days":30}}`), 0o600)
	c.Assert(err, qt.IsNil)

	cfg, err := config.Load(path)
	c.Assert(err, qt.IsNil)
	// Overridden field.
	c.Assert(cfg.GC.MaxAgeUnusedDays, qt.Equals, 30)
	// Defaults retained for unspecified fields, including the rest of gc.
	c.Assert(cfg.GC.MinConfidence, qt.Equals, 0.5)
	c.Assert(cfg.Embedding.Model, qt.Equals, "nomic-embed-text")
	c.Assert(cfg.Dedup.SimilarityThreshold, qt.Equals, 5.0)
}

func TestLoad_SensitivePatternsOverride(t *testing.T) {
	c := qt.New(t)

	tmp := t.TempDir()
	path := filepath.Join(tmp, "config.json")
	err := os.WriteFile(path, []byte(`{"sensitive":{"patterns":["custom-[0-9]+"]}}`), 0o600)
	c.Assert(err, qt.IsNil)

	cfg, err := config.Load(path)
	c.Assert(err, qt.IsNil)
	c.Assert(cfg.Sensitive.Patterns, qt.DeepEquals, []string{"custom-[0-9]+"})
}

func TestLoad_UnrecognizedTopLevelKeyRejected(t *testing.T) {
	c := qt.New(t)

	tmp := t.TempDir()
	path := filepath.Join(tmp, "config.json")
	err := os.WriteFile(path, []byte(`{"embeding":{"model":"typo"}}`), 0o600)
	c.Assert(err, qt.IsNil)

	_, err = config.Load(path)
	c.Assert(err, qt.IsNotNil)
	c.Assert(err, qt.ErrorMatches, ".*unrecognized key.*")
}

func TestLoad_InvalidJSONRejected(t *testing.T) {
	c := qt.New(t)

	tmp := t.TempDir()
	path := filepath.Join(tmp, "config.json")
	err := os.WriteFile(path, []byte(`{not json`), 0o600)
	c.Assert(err, qt.IsNil)

	_, err = config.Load(path)
	c.Assert(err, qt.IsNotNil)
}

func TestResolveMemoryHome_EnvOverride(t *testing.T) {
	c := qt.New(t)

	tmp := t.TempDir()
	t.Setenv("MEMORY_HOME", tmp)

	path, source := config.ResolveMemoryHome()
	c.Assert(source, qt.Equals, "env")
	c.Assert(path, qt.Equals, tmp)
}

func TestSetPersistedMemoryHome_RoundTrip(t *testing.T) {
	c := qt.New(t)

	tmp := t.TempDir()
	t.Setenv("HOME", tmp)
	t.Setenv("MEMORY_HOME", "")

	target := filepath.Join(tmp, "somewhere")
	got, err := config.SetPersistedMemoryHome(target)
	c.Assert(err, qt.IsNil)
	c.Assert(got, qt.Equals, target)

	persisted, ok, err := config.GetPersistedMemoryHome()
	c.Assert(err, qt.IsNil)
	c.Assert(ok, qt.IsTrue)
	c.Assert(persisted, qt.Equals, target)

	removed, err := config.ClearPersistedMemoryHome()
	c.Assert(err, qt.IsNil)
	c.Assert(removed, qt.IsTrue)

	_, ok, err = config.GetPersistedMemoryHome()
	c.Assert(err, qt.IsNil)
	c.Assert(ok, qt.IsFalse)
}
