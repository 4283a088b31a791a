// Package engine implements MemoryEngine, the orchestrator wiring
// together configuration, redaction, chunking, embedding, the store, and
// the ranker (spec.md §4.6-§4.10, §6 "Engine API surface").
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/go-ports/mnemo/internal/chunker"
	"github.com/go-ports/mnemo/internal/config"
	"github.com/go-ports/mnemo/internal/embedding"
	"github.com/go-ports/mnemo/internal/maintenance"
	"github.com/go-ports/mnemo/internal/memory"
	"github.com/go-ports/mnemo/internal/merr"
	"github.com/go-ports/mnemo/internal/project"
	"github.com/go-ports/mnemo/internal/ranker"
	"github.com/go-ports/mnemo/internal/redaction"
	"github.com/go-ports/mnemo/internal/store"
)

// Engine orchestrates all memory operations for one memory home.
type Engine struct {
	MemoryHome string
	Config     *config.Config

	store    *store.Store
	embedder *embedding.Client
	registry *project.Registry
	redactor *redaction.Redactor
}

// New opens (or creates) the store and registry rooted at memoryHome and
// constructs the dependent components from config.json.
func New(memoryHome string) (*Engine, error) {
	if memoryHome == "" {
		memoryHome = config.GetMemoryHome()
	}
	if err := os.MkdirAll(memoryHome, 0o755); err != nil {
		return nil, fmt.Errorf("engine.New: create memory home: %w", err)
	}

	cfg, err := config.Load(filepath.Join(memoryHome, "config.json"))
	if err != nil {
		return nil, fmt.Errorf("engine.New: load config: %w", err)
	}

	st, err := store.Open(filepath.Join(memoryHome, "memories.db"))
	if err != nil {
		return nil, fmt.Errorf("engine.New: open store: %w", err)
	}
	if err := st.EnsureVecTable(cfg.Embedding.Dimensions); err != nil {
		_ = st.Close()
		return nil, fmt.Errorf("engine.New: %w", err)
	}

	reg, err := project.Load(filepath.Join(memoryHome, "project-registry.json"))
	if err != nil {
		_ = st.Close()
		return nil, fmt.Errorf("engine.New: load registry: %w", err)
	}

	red, err := redaction.New(cfg.Sensitive.Patterns)
	if err != nil {
		_ = st.Close()
		return nil, fmt.Errorf("engine.New: redactor: %w", err)
	}

	return &Engine{
		MemoryHome: memoryHome,
		Config:     cfg,
		store:      st,
		embedder:   embedding.New(cfg.Embedding.BaseURL, cfg.Embedding.Dimensions),
		registry:   reg,
		redactor:   red,
	}, nil
}

// Close releases the store's underlying connection.
func (e *Engine) Close() error { return e.store.Close() }

// ---------------------------------------------------------------------------
// remember
// ---------------------------------------------------------------------------

// Remember implements spec.md §4.6. It returns one id per chunk (dedup may
// repeat an id) plus any redaction warnings.
func (e *Engine) Remember(ctx context.Context, in memory.Input) ([]int64, []string, error) {
	if in.Content == "" {
		return nil, nil, fmt.Errorf("%w: content is empty", merr.ErrInvalidInput)
	}
	if in.HasImportance && (in.Importance < 1 || in.Importance > 5) {
		return nil, nil, fmt.Errorf("%w: importance %d out of range [1,5]", merr.ErrInvalidInput, in.Importance)
	}

	applyDefaults(&in)

	var warnings []string
	if e.redactor.ContainsSensitive(in.Content) {
		warnings = append(warnings, "content was redacted before storage")
		slog.Warn("engine.Remember: content redacted before storage")
	}
	in.Content = e.redactor.Redact(in.Content)

	chunks := chunker.Split(in.Content, chunker.Config{
		MaxTokens:     e.Config.Chunking.MaxTokens,
		OverlapTokens: e.Config.Chunking.OverlapTokens,
		MinChunkSize:  e.Config.Chunking.MinChunkSize,
	})

	ids := make([]int64, 0, len(chunks))

	for _, chunk := range chunks {
		content := chunk.Content
		if chunk.Total > 1 {
			content = fmt.Sprintf("[part %d/%d] %s", chunk.Index+1, chunk.Total, content)
		}

		vecOut, err := e.embedder.EmbedOne(ctx, content)
		if err != nil {
			return nil, nil, err
		}

		id, _, err := e.insertOrMerge(in, content, vecOut)
		if err != nil {
			return nil, nil, err
		}
		ids = append(ids, id)

		// Applied once, on the first chunk processed (spec.md §4.6 step 3d):
		// the new row's own supersedes field was set by insertOrMerge above,
		// and here the superseded row is marked obsolete.
		if in.Supersedes != nil {
			if err := e.store.SetObsolete(*in.Supersedes, nil); err != nil {
				return nil, nil, err
			}
			in.Supersedes = nil
		}
	}

	return ids, warnings, nil
}

func applyDefaults(in *memory.Input) {
	if in.Type == "" {
		in.Type = memory.DefaultType
	}
	if in.Source == "" {
		in.Source = memory.DefaultSource
	}
	if !in.HasImportance {
		in.Importance = memory.DefaultImportance
	}
	if !in.HasConfidence {
		in.Confidence = memory.DefaultConfidence
	}
	if in.Tags == nil {
		in.Tags = []string{}
	}
}

// resolveScope implements spec.md §4.6 step 2: preferences and
// project-less input are global.
func (e *Engine) resolveScope(in memory.Input) *string {
	if in.Type == memory.TypePreference {
		return nil
	}
	if in.HasProject {
		if in.Project == "" {
			return nil
		}
		p := in.Project
		return &p
	}
	if cwd, err := os.Getwd(); err == nil {
		if name, ok := e.registry.Detect(cwd); ok {
			return &name
		}
	}
	return nil
}

// insertOrMerge implements spec.md §4.6 step 3b/3c: dedup against the
// nearest active row, or insert a new one.
func (e *Engine) insertOrMerge(in memory.Input, content string, vecOut []float32) (id int64, merged bool, err error) {
	if !in.SkipDedup && e.Config.Dedup.Enabled {
		nearest, nerr := e.store.NearestOne(vecOut)
		if nerr != nil {
			return 0, false, nerr
		}
		if nearest != nil && nearest.Distance < e.Config.Dedup.SimilarityThreshold {
			return e.mergeInto(nearest, in, content, vecOut)
		}
	}

	projectScope := e.resolveScope(in)
	rec := &memory.Record{
		Content:    content,
		Type:       in.Type,
		Project:    projectScope,
		Category:   in.Category,
		Reasoning:  in.Reasoning,
		Source:     in.Source,
		Importance: in.Importance,
		Confidence: in.Confidence,
		CreatedAt:  time.Now().UTC(),
		ExpiresAt:  in.ExpiresAt,
		Supersedes: in.Supersedes,
		Tags:       in.Tags,
	}
	newID, err := e.store.Insert(rec, vecOut)
	if err != nil {
		return 0, false, err
	}
	return newID, false, nil
}

func (e *Engine) mergeInto(nearest *store.ScoredRow, in memory.Input, content string, vecOut []float32) (int64, bool, error) {
	newImportance := max(nearest.Record.Importance, in.Importance)
	if newImportance != nearest.Record.Importance {
		if err := e.store.UpdateImportance(nearest.Record.ID, newImportance); err != nil {
			return 0, false, err
		}
	}
	if e.Config.Dedup.PreferLonger && len(content) > len(nearest.Record.Content) {
		if err := e.store.UpdateContent(nearest.Record.ID, content, vecOut); err != nil {
			return 0, false, err
		}
	}
	return nearest.Record.ID, true, nil
}

// ---------------------------------------------------------------------------
// recall
// ---------------------------------------------------------------------------

// Recall implements spec.md §4.7.
func (e *Engine) Recall(ctx context.Context, query string, opts memory.RecallOptions) ([]memory.RecallResult, error) {
	q, err := e.embedder.EmbedOne(ctx, query)
	if err != nil {
		return nil, err
	}

	limit := opts.Limit
	if limit <= 0 {
		limit = e.Config.Recall.ProjectResults + e.Config.Recall.GlobalResults
	}
	fetchK := 2 * (e.Config.Recall.ProjectResults + e.Config.Recall.GlobalResults)

	filters := store.Filters{
		IncludeObsolete:  opts.IncludeObsolete,
		HasType:          opts.HasType,
		Type:             opts.Type,
		HasMinImportance: opts.HasMinImportance,
		MinImportance:    opts.MinImportance,
		Now:              time.Now().UTC(),
	}
	rows, err := e.store.Knn(q, fetchK, filters)
	if err != nil {
		return nil, err
	}

	var currentProject string
	inProject := false
	if cwd, err := os.Getwd(); err == nil {
		if name, ok := e.registry.Detect(cwd); ok {
			currentProject = name
			inProject = true
		}
	}

	now := time.Now().UTC()
	results := make([]memory.RecallResult, 0, len(rows))
	for _, row := range rows {
		if row.Distance >= e.Config.Recall.DistanceThreshold {
			continue
		}
		ageDays := now.Sub(row.Record.CreatedAt).Hours() / 24
		score := ranker.Score(ranker.Input{
			Distance:     row.Distance,
			AgeDays:      ageDays,
			Importance:   row.Record.Importance,
			AccessCount:  row.Record.AccessCount,
			Confidence:   row.Record.Confidence,
			BoostRecency: e.Config.Recall.BoostRecency,
			HalfLifeDays: e.Config.Recall.RecencyHalfLifeDays,
		})

		if inProject && row.Record.Project != nil && *row.Record.Project == currentProject {
			score *= ranker.ProjectMatchBoost
		} else if inProject && row.Record.Project == nil && row.Record.Type == memory.TypePreference {
			score *= ranker.GlobalPreferenceInProject
		}

		results = append(results, memory.RecallResult{
			Memory:   row.Record,
			Distance: row.Distance,
			Score:    score,
			Source:   row.Record.Project,
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		a, b := results[i], results[j]
		if absDiff(a.Score, b.Score) > 1e-9 {
			return a.Score > b.Score
		}
		if a.Distance != b.Distance {
			return a.Distance < b.Distance
		}
		return a.Memory.ID > b.Memory.ID
	})

	if len(results) > limit {
		results = results[:limit]
	}

	ids := make([]int64, len(results))
	for i, r := range results {
		ids[i] = r.Memory.ID
	}
	if err := e.store.UpdateStats(ids, now); err != nil {
		return nil, err
	}

	return results, nil
}

func absDiff(a, b float64) float64 {
	if a > b {
		return a - b
	}
	return b - a
}

// ---------------------------------------------------------------------------
// list_recent / update / mark_obsolete / forget*
// ---------------------------------------------------------------------------

// ListRecent returns the most recently created active rows, optionally
// scoped to a single project (spec.md §6).
func (e *Engine) ListRecent(limit int, projectScope *string, allProjects bool) ([]memory.Record, error) {
	var recs []memory.Record
	var err error
	if allProjects {
		recs, err = e.store.ScanActive(nil, false)
	} else {
		recs, err = e.store.ScanActive(projectScope, true)
	}
	if err != nil {
		return nil, err
	}
	sort.SliceStable(recs, func(i, j int) bool { return recs[i].ID > recs[j].ID })
	if limit > 0 && len(recs) > limit {
		recs = recs[:limit]
	}
	return recs, nil
}

// Update replaces a memory's content and re-embeds it.
func (e *Engine) Update(ctx context.Context, id int64, newContent string) error {
	if newContent == "" {
		return fmt.Errorf("%w: content is empty", merr.ErrInvalidInput)
	}
	newContent = e.redactor.Redact(newContent)
	vecOut, err := e.embedder.EmbedOne(ctx, newContent)
	if err != nil {
		return err
	}
	return e.store.UpdateContent(id, newContent, vecOut)
}

// MarkObsolete transitions id to obsolete (spec.md §4.10).
func (e *Engine) MarkObsolete(id int64, supersedes *int64) error {
	return e.store.SetObsolete(id, supersedes)
}

// Forget deletes a single memory by id.
func (e *Engine) Forget(id int64) error {
	return e.store.Delete([]int64{id})
}

// ForgetByCategory deletes (or previews, when dryRun) all rows in category,
// optionally scoped to a project.
func (e *Engine) ForgetByCategory(category string, projectScope *string, hasProjectFilter, dryRun bool) (int, error) {
	return e.store.DeleteWhere(store.DeleteWhereOptions{
		Category: category, HasCategory: true,
		Project: projectScope, HasProjectFilter: hasProjectFilter,
		DryRun: dryRun,
	})
}

// ForgetBySource deletes (or previews) all rows tagged with source.
func (e *Engine) ForgetBySource(source memory.Source, projectScope *string, hasProjectFilter, dryRun bool) (int, error) {
	return e.store.DeleteWhere(store.DeleteWhereOptions{
		Source: source, HasSource: true,
		Project: projectScope, HasProjectFilter: hasProjectFilter,
		DryRun: dryRun,
	})
}

// ---------------------------------------------------------------------------
// detect_project / is_ready / registry / stats
// ---------------------------------------------------------------------------

// DetectProject resolves cwd to a registered project name.
func (e *Engine) DetectProject(cwd string) (string, bool) {
	return e.registry.Detect(cwd)
}

// Registry returns the full persisted project registry (spec.md §6,
// SPEC_FULL.md supplement 3: a direct, read-only passthrough).
func (e *Engine) Registry() []*project.Record {
	return e.registry.List()
}

// CreateProject registers a new project in the resolver.
func (e *Engine) CreateProject(name, path, description string) (*project.Record, error) {
	return e.registry.Create(name, path, description)
}

// IsReady implements spec.md supplement 4: the embedder health probe and,
// when a store is open, an O_RDWR probe against the store file confirming
// it is writable.
func (e *Engine) IsReady(ctx context.Context) bool {
	if !e.embedder.IsAvailable(ctx) {
		return false
	}
	f, err := os.OpenFile(filepath.Join(e.MemoryHome, "memories.db"), os.O_RDWR, 0o600)
	if err != nil {
		return false
	}
	_ = f.Close()
	return true
}

// Stats reports engine-wide counters (SPEC_FULL.md supplement 2).
type Stats struct {
	ActiveByType    map[memory.Type]int
	ActiveByProject map[string]int
	TotalActive     int
	TotalObsolete   int
	EmbeddingDim    int
	StoreSizeBytes  int64
	StaleCandidates int
}

// Stats computes active/obsolete counts per type and project, the
// configured embedding dimension, the store's on-disk size, and a
// read-only preview of how many rows garbage_collect would currently
// remove for unused-age.
func (e *Engine) Stats() (Stats, error) {
	active, err := e.store.ScanActive(nil, false)
	if err != nil {
		return Stats{}, err
	}

	s := Stats{
		ActiveByType:    make(map[memory.Type]int),
		ActiveByProject: make(map[string]int),
	}

	now := time.Now().UTC()
	maxAge := time.Duration(e.Config.GC.MaxAgeUnusedDays) * 24 * time.Hour
	for _, rec := range active {
		s.TotalActive++
		s.ActiveByType[rec.Type]++
		if rec.Project != nil {
			s.ActiveByProject[*rec.Project]++
		} else {
			s.ActiveByProject["(global)"]++
		}
		unused := rec.LastAccessed == nil || now.Sub(*rec.LastAccessed) >= maxAge
		if unused && rec.AccessCount == 0 && rec.Confidence < e.Config.GC.MinConfidence {
			s.StaleCandidates++
		}
	}

	obsoleteCount, err := e.store.CountObsolete()
	if err != nil {
		return Stats{}, err
	}
	s.TotalObsolete = obsoleteCount

	if dim, ok, err := e.store.GetEmbeddingDim(); err == nil && ok {
		s.EmbeddingDim = dim
	}
	if fi, err := os.Stat(filepath.Join(e.MemoryHome, "memories.db")); err == nil {
		s.StoreSizeBytes = fi.Size()
	}

	return s, nil
}

// ---------------------------------------------------------------------------
// maintenance passes (spec.md §4.9)
// ---------------------------------------------------------------------------

// GarbageCollect deletes unused-and-low-confidence rows plus expired rows,
// scoped by project, using the configured thresholds.
func (e *Engine) GarbageCollect(projectScope *string, hasProjectFilter bool) (int, error) {
	return maintenance.GarbageCollect(e.store, projectScope, hasProjectFilter, e.Config.GC.MaxAgeUnusedDays, e.Config.GC.MinConfidence, time.Now().UTC())
}

// Consolidate clusters near-duplicate active rows and promotes the
// highest-scoring member of each cluster, scoped by project.
func (e *Engine) Consolidate(projectScope *string, hasProjectFilter, dryRun bool) ([]maintenance.Cluster, error) {
	return maintenance.Consolidate(e.store, projectScope, hasProjectFilter, e.Config.Dedup.SimilarityThreshold, dryRun)
}

// CleanupCorrupted deletes rows matching a known corruption pattern or
// below the minimum content length.
func (e *Engine) CleanupCorrupted(dryRun bool) (int, []string, error) {
	return maintenance.CleanupCorrupted(e.store, dryRun)
}
