// Package config handles configuration loading and memory home resolution.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ---------------------------------------------------------------------------
// Config types
// ---------------------------------------------------------------------------

// EmbeddingConfig holds settings for the embedding service.
type EmbeddingConfig struct {
	Model      string `json:"model"`
	Dimensions int    `json:"dimensions"`
	BaseURL    string `json:"base_url"`
}

// ChunkingConfig controls how remember() splits content (internal/chunker).
type ChunkingConfig struct {
	MaxTokens     int `json:"max_tokens"`
	OverlapTokens int `json:"overlap_tokens"`
	MinChunkSize  int `json:"min_chunk_size"`
}

// RecallConfig controls recall() scoping and the Ranker's recency factor.
type RecallConfig struct {
	ProjectResults      int     `json:"project_results"`
	GlobalResults       int     `json:"global_results"`
	DistanceThreshold   float64 `json:"distance_threshold"`
	BoostRecency        bool    `json:"boost_recency"`
	RecencyHalfLifeDays float64 `json:"recency_half_life_days"`
	// GlobalTypesInProject is reserved: per spec.md §9 Open Questions it is
	// not consulted by the recall path. Kept so config.json round-trips.
	GlobalTypesInProject []string `json:"global_types_in_project,omitempty"`
}

// CaptureConfig is consumed only by external hook processes, never by the
// core engine. Retained so config.json round-trips the full schema.
type CaptureConfig struct {
	AutoSession    bool     `json:"auto_session"`
	AutoCommit     bool     `json:"auto_commit"`
	CommitPatterns []string `json:"commit_patterns"`
	MinImportance  int      `json:"min_importance"`
}

// SensitiveConfig lists the regular expressions Redactor compiles.
type SensitiveConfig struct {
	Patterns []string `json:"patterns"`
}

// DedupConfig controls the near-duplicate merge behavior of remember().
type DedupConfig struct {
	Enabled             bool    `json:"enabled"`
	SimilarityThreshold float64 `json:"similarity_threshold"`
	PreferLonger        bool    `json:"prefer_longer"`
}

// GCConfig controls garbage_collect() thresholds.
type GCConfig struct {
	MaxAgeUnusedDays int     `json:"max_age_unused_days"`
	MinConfidence    float64 `json:"min_confidence"`
}

// Config is the root configuration for a memory home (config.json, spec.md §6).
type Config struct {
	Embedding EmbeddingConfig `json:"embedding"`
	Chunking  ChunkingConfig  `json:"chunking"`
	Recall    RecallConfig    `json:"recall"`
	Capture   CaptureConfig   `json:"capture"`
	Sensitive SensitiveConfig `json:"sensitive"`
	Dedup     DedupConfig     `json:"dedup"`
	GC        GCConfig        `json:"gc"`
}

// defaultSensitivePatterns mirrors the built-in secret patterns the teacher
// compiled directly into its redaction package. Redactor here is entirely
// config-driven, so they ship as the default config value instead.
var defaultSensitivePatterns = []string{
	`(?i)sk_live_[a-zA-Z0-9]+`,
	`(?i)sk_test_[a-zA-Z0-9]+`,
	`ghp_[a-zA-Z0-9]+`,
	`AKIA[0-9A-Z]{16}`,
	`xoxb-[a-zA-Z0-9-]+`,
	`-----BEGIN (?:RSA )?PRIVATE KEY-----`,
	`eyJ[a-zA-Z0-9_-]+\.eyJ[a-zA-Z0-9_-]+`,
	`(?i)password\s*[:=]\s*["']?\S+`,
	`(?i)secret\s*[:=]\s*["']?\S+`,
	`(?i)api[_-]?key\s*[:=]\s*["']?\S+`,
}

// Default returns a Config populated with sensible defaults.
func Default() *Config {
	return &Config{
		Embedding: EmbeddingConfig{
			Model:      "nomic-embed-text",
			Dimensions: 768,
			BaseURL:    "http://localhost:8088",
		},
		Chunking: ChunkingConfig{
			MaxTokens:     512,
			OverlapTokens: 50,
			MinChunkSize:  64,
		},
		Recall: RecallConfig{
			ProjectResults:      5,
			GlobalResults:       3,
			DistanceThreshold:   1.0,
			BoostRecency:        true,
			RecencyHalfLifeDays: 30,
		},
		Capture: CaptureConfig{
			AutoSession:    true,
			AutoCommit:     true,
			CommitPatterns: []string{},
			MinImportance:  3,
		},
		Sensitive: SensitiveConfig{
			Patterns: append([]string(nil), defaultSensitivePatterns...),
		},
		Dedup: DedupConfig{
			Enabled:             true,
			SimilarityThreshold: 5.0,
			PreferLonger:        true,
		},
		GC: GCConfig{
			MaxAgeUnusedDays: 90,
			MinConfidence:    0.5,
		},
	}
}

// recognizedTopLevel lists the top-level keys config.json may contain.
var recognizedTopLevel = map[string]bool{
	"embedding": true, "chunking": true, "recall": true,
	"capture": true, "sensitive": true, "dedup": true, "gc": true,
}

// Load reads a per-store config.json from path.
// If the file does not exist it returns Default() with no error.
// Missing keys retain their default values; an unrecognized top-level key
// is rejected (spec.md §9 design notes: unknown fields reject).
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, err
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("config: invalid json: %w", err)
	}
	for key := range raw {
		if !recognizedTopLevel[key] {
			return nil, fmt.Errorf("config: unrecognized key %q", key)
		}
	}

	if v, ok := raw["embedding"]; ok {
		if err := json.Unmarshal(v, &cfg.Embedding); err != nil {
			return nil, fmt.Errorf("config: embedding: %w", err)
		}
	}
	if v, ok := raw["chunking"]; ok {
		if err := json.Unmarshal(v, &cfg.Chunking); err != nil {
			return nil, fmt.Errorf("config: chunking: %w", err)
		}
	}
	if v, ok := raw["recall"]; ok {
		if err := json.Unmarshal(v, &cfg.Recall); err != nil {
			return nil, fmt.Errorf("config: recall: %w", err)
		}
	}
	if v, ok := raw["capture"]; ok {
		if err := json.Unmarshal(v, &cfg.Capture); err != nil {
			return nil, fmt.Errorf("config: capture: %w", err)
		}
	}
	if v, ok := raw["sensitive"]; ok {
		if err := json.Unmarshal(v, &cfg.Sensitive); err != nil {
			return nil, fmt.Errorf("config: sensitive: %w", err)
		}
	}
	if v, ok := raw["dedup"]; ok {
		if err := json.Unmarshal(v, &cfg.Dedup); err != nil {
			return nil, fmt.Errorf("config: dedup: %w", err)
		}
	}
	if v, ok := raw["gc"]; ok {
		if err := json.Unmarshal(v, &cfg.GC); err != nil {
			return nil, fmt.Errorf("config: gc: %w", err)
		}
	}

	return cfg, nil
}

// ---------------------------------------------------------------------------
// Memory home resolution
// ---------------------------------------------------------------------------

// globalConfigPath returns the path to the global mnemo config file.
// This file stores only memory_home (and future global settings).
func globalConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "mnemo", "global.json"), nil
}

// normalizePath expands ~ and env vars and makes the path absolute.
func normalizePath(path string) (string, error) {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		path = filepath.Join(home, path[2:])
	}
	return filepath.Abs(os.ExpandEnv(path))
}

// ResolveMemoryHome returns the memory home path and the source of the
// resolution. Priority: MEMORY_HOME env -> persisted global config -> ~/.memory.
// source is one of "env", "config", or "default".
func ResolveMemoryHome() (path, source string) {
	if env := os.Getenv("MEMORY_HOME"); env != "" {
		p, err := normalizePath(env)
		if err == nil {
			return p, "env"
		}
	}

	if persisted, ok, _ := GetPersistedMemoryHome(); ok {
		return persisted, "config"
	}

	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".memory"), "default"
}

// GetMemoryHome returns the resolved memory home path.
func GetMemoryHome() string {
	path, _ := ResolveMemoryHome()
	return path
}

// GetPersistedMemoryHome reads memory_home from the global config.
// Returns ("", false, nil) if not set.
func GetPersistedMemoryHome() (string, bool, error) {
	cfgPath, err := globalConfigPath()
	if err != nil {
		return "", false, err
	}

	data, err := os.ReadFile(cfgPath)
	if os.IsNotExist(err) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}

	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return "", false, nil
	}

	val, _ := raw["memory_home"].(string)
	val = strings.TrimSpace(val)
	if val == "" {
		return "", false, nil
	}

	p, err := normalizePath(val)
	if err != nil {
		return "", false, err
	}
	return p, true, nil
}

// SetPersistedMemoryHome normalizes path and persists it in the global
// config. Returns the normalized path. Writes atomically (temp file + rename).
func SetPersistedMemoryHome(path string) (string, error) {
	normalized, err := normalizePath(path)
	if err != nil {
		return "", err
	}

	cfgPath, err := globalConfigPath()
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(cfgPath), 0o755); err != nil {
		return "", err
	}

	var raw map[string]any
	if data, err := os.ReadFile(cfgPath); err == nil {
		_ = json.Unmarshal(data, &raw)
	}
	if raw == nil {
		raw = make(map[string]any)
	}
	raw["memory_home"] = normalized

	return normalized, writeJSONAtomic(cfgPath, raw)
}

// ClearPersistedMemoryHome removes memory_home from the global config.
// Returns true if the key was present and removed. If the file becomes
// empty after removal it is deleted.
func ClearPersistedMemoryHome() (bool, error) {
	cfgPath, err := globalConfigPath()
	if err != nil {
		return false, err
	}

	data, err := os.ReadFile(cfgPath)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return false, nil
	}

	if _, ok := raw["memory_home"]; !ok {
		return false, nil
	}
	delete(raw, "memory_home")

	if len(raw) == 0 {
		_ = os.Remove(cfgPath)
		return true, nil
	}

	return true, writeJSONAtomic(cfgPath, raw)
}

// writeJSONAtomic marshals v and writes it to path via a temp file + rename,
// the discipline spec.md §4.1 requires of the project registry and which
// this package applies uniformly to all of its on-disk state.
func writeJSONAtomic(path string, v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, out, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
