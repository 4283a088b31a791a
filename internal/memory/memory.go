// Package memory defines the core record types stored and returned by
// mnemo's engine.
package memory

import "time"

// Type is the closed set of memory categories (spec.md §3).
type Type string

const (
	TypeDecision     Type = "decision"
	TypePreference   Type = "preference"
	TypeFact         Type = "fact"
	TypePattern      Type = "pattern"
	TypeConversation Type = "conversation"
)

// Source is the closed set of provenance tags (spec.md §6).
type Source string

const (
	SourceManual         Source = "manual"
	SourceAutoSession    Source = "auto:session"
	SourceAutoCommit     Source = "auto:commit"
	SourceAutoPattern    Source = "auto:pattern"
	SourceAutoBootstrap  Source = "auto:bootstrap"
	SourceAutoIngest     Source = "auto:ingest"
	SourceAutoResponse   Source = "auto:response"
	SourceAutoPrecompact Source = "auto:precompact"
)

// Input is the caller-supplied payload for MemoryEngine.remember (spec.md §4.6).
type Input struct {
	Content       string
	Type          Type
	Category      string
	Project       string
	Reasoning     string
	Source        Source
	Importance    int
	Confidence    float64
	Tags          []string
	ExpiresAt     *time.Time
	Supersedes    *int64
	SkipDedup     bool
	HasProject    bool // distinguishes "" (explicit global) from unset
	HasImportance bool
	HasConfidence bool
}

// Record is a fully persisted memory row (spec.md §3).
type Record struct {
	ID            int64
	Content       string
	Type          Type
	Project       *string
	Category      string
	Reasoning     string
	Source        Source
	Importance    int
	Confidence    float64
	CreatedAt     time.Time
	LastAccessed  *time.Time
	AccessCount   int
	ExpiresAt     *time.Time
	Supersedes    *int64
	IsObsolete    bool
	Tags          []string
}

// Defaults applied by remember() when the corresponding input field is unset.
const (
	DefaultType       = TypeFact
	DefaultSource     = SourceManual
	DefaultImportance = 3
	DefaultConfidence = 1.0
)

// RecallOptions scopes a recall() call (spec.md §4.7).
type RecallOptions struct {
	Limit            int
	Type             Type
	HasType          bool
	MinImportance    int
	HasMinImportance bool
	IncludeObsolete  bool
}

// RecallResult is a single scored hit returned from recall (spec.md §4.7).
type RecallResult struct {
	Memory   Record
	Distance float64
	Score    float64
	Source   *string // row.project, aliasing the field name used in spec.md
}
