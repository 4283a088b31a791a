// Package store owns the single on-disk relational store and its vector
// index (spec.md §4.5). All public operations are transactional: each
// commits atomically, keeping a memory row and its embedding row in lock
// step (spec.md §3 invariant 1).
package store

import (
	"database/sql"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"time"

	vec "github.com/asg017/sqlite-vec-go-bindings/cgo"
	_ "github.com/mattn/go-sqlite3"

	"github.com/go-ports/mnemo/internal/memory"
	"github.com/go-ports/mnemo/internal/merr"
)

func init() { //nolint:gochecknoinits // registers sqlite-vec extension with go-sqlite3 before any connection opens
	vec.Auto()
}

// Store wraps a *sql.DB with the path it was opened from.
type Store struct {
	db   *sql.DB
	path string
}

// Open opens (or creates) the SQLite database at path and initializes the
// schema. It does not create the vector table — call EnsureVecTable once
// the configured embedding dimension is known.
func Open(path string) (*Store, error) {
	sqldb, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("store.Open: %w", err)
	}
	s := &Store{db: sqldb, path: path}
	if err := s.createSchema(); err != nil {
		_ = sqldb.Close()
		return nil, fmt.Errorf("store.Open createSchema: %w", err)
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error { return s.db.Close() }

func (s *Store) createSchema() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS memories (
			id            INTEGER PRIMARY KEY AUTOINCREMENT,
			content       TEXT NOT NULL,
			type          TEXT NOT NULL,
			project       TEXT,
			category      TEXT,
			reasoning     TEXT,
			source        TEXT NOT NULL,
			importance    INTEGER NOT NULL,
			confidence    REAL NOT NULL,
			created_at    INTEGER NOT NULL,
			last_accessed INTEGER,
			access_count  INTEGER NOT NULL DEFAULT 0,
			expires_at    INTEGER,
			supersedes    INTEGER,
			is_obsolete   INTEGER NOT NULL DEFAULT 0,
			tags          TEXT NOT NULL DEFAULT '[]'
		)`,
		`CREATE TABLE IF NOT EXISTS meta (
			key   TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_memories_type ON memories(type)`,
		`CREATE INDEX IF NOT EXISTS idx_memories_project ON memories(project)`,
		`CREATE INDEX IF NOT EXISTS idx_memories_is_obsolete ON memories(is_obsolete)`,
		`CREATE INDEX IF NOT EXISTS idx_memories_created_at ON memories(created_at)`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("createSchema exec: %w\nSQL: %s", err, stmt)
		}
	}

	if dim, ok, err := s.GetEmbeddingDim(); err == nil && ok {
		if err := s.createVecTable(dim); err != nil {
			return fmt.Errorf("createSchema createVecTable: %w", err)
		}
	}
	return nil
}

// ---------------------------------------------------------------------------
// Vector table / dimension binding
// ---------------------------------------------------------------------------

func (s *Store) createVecTable(dim int) error {
	_, err := s.db.Exec(fmt.Sprintf(
		`CREATE VIRTUAL TABLE IF NOT EXISTS memories_vec USING vec0(
			id INTEGER PRIMARY KEY,
			embedding float[%d]
		)`, dim,
	))
	return err
}

// GetEmbeddingDim reads the stored embedding dimension from the meta table.
func (s *Store) GetEmbeddingDim() (int, bool, error) {
	val, ok, err := s.getMeta("embedding_dim")
	if !ok || err != nil {
		return 0, false, err
	}
	dim, err := strconv.Atoi(val)
	if err != nil {
		return 0, false, err
	}
	return dim, true, nil
}

// EnsureVecTable ensures the vector table exists with the given dimension.
// Returns merr.ErrDimensionMismatch if a different dimension was already
// persisted (spec.md §6: "dimensions must match the store's D at
// initialization"; fatal on open per §7).
func (s *Store) EnsureVecTable(dim int) error {
	stored, ok, err := s.GetEmbeddingDim()
	if err != nil {
		return err
	}
	if !ok {
		if err := s.setMeta("embedding_dim", strconv.Itoa(dim)); err != nil {
			return err
		}
		return s.createVecTable(dim)
	}
	if stored != dim {
		return fmt.Errorf("%w: store has %d, configured %d", merr.ErrDimensionMismatch, stored, dim)
	}
	return nil
}

func (s *Store) getMeta(key string) (string, bool, error) {
	var val string
	err := s.db.QueryRow(`SELECT value FROM meta WHERE key = ?`, key).Scan(&val)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return val, true, nil
}

func (s *Store) setMeta(key, value string) error {
	_, err := s.db.Exec(`INSERT OR REPLACE INTO meta (key, value) VALUES (?, ?)`, key, value)
	return err
}

// ---------------------------------------------------------------------------
// Insert / update / delete
// ---------------------------------------------------------------------------

// Insert inserts a memory row and its embedding in the same transaction
// (spec.md §4.5 insert, invariant 1).
func (s *Store) Insert(rec *memory.Record, embedding []float32) (int64, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("%w: begin: %v", merr.ErrStore, err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op once committed

	id, err := insertMemoryTx(tx, rec)
	if err != nil {
		return 0, err
	}
	if err := insertVectorTx(tx, id, embedding); err != nil {
		return 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("%w: commit: %v", merr.ErrStore, err)
	}
	return id, nil
}

func insertMemoryTx(tx *sql.Tx, rec *memory.Record) (int64, error) {
	tagsJSON, err := json.Marshal(rec.Tags)
	if err != nil {
		return 0, fmt.Errorf("%w: marshal tags: %v", merr.ErrStore, err)
	}

	res, err := tx.Exec(`
		INSERT INTO memories (
			content, type, project, category, reasoning, source,
			importance, confidence, created_at, expires_at, supersedes,
			is_obsolete, tags
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 0, ?)`,
		rec.Content, string(rec.Type), nullableString(rec.Project), rec.Category, rec.Reasoning, string(rec.Source),
		rec.Importance, rec.Confidence, rec.CreatedAt.Unix(), nullableTime(rec.ExpiresAt), nullableInt64(rec.Supersedes),
		string(tagsJSON),
	)
	if err != nil {
		return 0, fmt.Errorf("%w: insert memory: %v", merr.ErrStore, err)
	}
	return res.LastInsertId()
}

func insertVectorTx(tx *sql.Tx, id int64, embedding []float32) error {
	_, err := tx.Exec(`INSERT OR REPLACE INTO memories_vec (id, embedding) VALUES (?, ?)`, id, float32sToBytes(embedding))
	if err != nil {
		return fmt.Errorf("%w: insert vector: %v", merr.ErrStore, err)
	}
	return nil
}

// UpdateContent replaces a row's content and embedding (spec.md §4.5
// update_content).
func (s *Store) UpdateContent(id int64, newContent string, newEmbedding []float32) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("%w: begin: %v", merr.ErrStore, err)
	}
	defer tx.Rollback() //nolint:errcheck

	res, err := tx.Exec(`UPDATE memories SET content = ? WHERE id = ?`, newContent, id)
	if err != nil {
		return fmt.Errorf("%w: update content: %v", merr.ErrStore, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: memory %d", merr.ErrNotFound, id)
	}
	if err := insertVectorTx(tx, id, newEmbedding); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: commit: %v", merr.ErrStore, err)
	}
	return nil
}

// UpdateImportance sets a row's importance (used by dedup merges, spec.md §4.6).
func (s *Store) UpdateImportance(id int64, importance int) error {
	_, err := s.db.Exec(`UPDATE memories SET importance = ? WHERE id = ?`, importance, id)
	if err != nil {
		return fmt.Errorf("%w: update importance: %v", merr.ErrStore, err)
	}
	return nil
}

// UpdateStats sets last_accessed = now and increments access_count for ids,
// in one transaction (spec.md §4.5 update_stats, §9 "must run in the same
// transaction as the read").
func (s *Store) UpdateStats(ids []int64, now time.Time) error {
	if len(ids) == 0 {
		return nil
	}
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("%w: begin: %v", merr.ErrStore, err)
	}
	defer tx.Rollback() //nolint:errcheck

	stmt, err := tx.Prepare(`UPDATE memories SET last_accessed = ?, access_count = access_count + 1 WHERE id = ?`)
	if err != nil {
		return fmt.Errorf("%w: prepare: %v", merr.ErrStore, err)
	}
	defer stmt.Close()

	for _, id := range ids {
		if _, err := stmt.Exec(now.Unix(), id); err != nil {
			return fmt.Errorf("%w: update stats: %v", merr.ErrStore, err)
		}
	}
	return tx.Commit()
}

// SetObsolete marks id obsolete and optionally records the superseding id
// (spec.md §4.5 set_obsolete, §4.10 state machine).
func (s *Store) SetObsolete(id int64, supersedes *int64) error {
	_, err := s.db.Exec(`UPDATE memories SET is_obsolete = 1, supersedes = ? WHERE id = ?`, nullableInt64(supersedes), id)
	if err != nil {
		return fmt.Errorf("%w: set obsolete: %v", merr.ErrStore, err)
	}
	return nil
}

// Delete removes memory and embedding rows for ids in one transaction, then
// performs the belt-and-suspenders orphan sweep (spec.md §4.5).
func (s *Store) Delete(ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("%w: begin: %v", merr.ErrStore, err)
	}
	defer tx.Rollback() //nolint:errcheck

	for _, id := range ids {
		if _, err := tx.Exec(`DELETE FROM memories_vec WHERE id = ?`, id); err != nil {
			slog.Debug("store: vec cleanup skipped", "id", id, "err", err)
		}
		if _, err := tx.Exec(`DELETE FROM memories WHERE id = ?`, id); err != nil {
			return fmt.Errorf("%w: delete memory %d: %v", merr.ErrStore, id, err)
		}
	}
	if err := sweepOrphans(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: commit: %v", merr.ErrStore, err)
	}
	return nil
}

func sweepOrphans(tx *sql.Tx) error {
	_, err := tx.Exec(`DELETE FROM memories_vec WHERE id NOT IN (SELECT id FROM memories)`)
	if err != nil {
		slog.Debug("store: orphan sweep skipped", "err", err)
	}
	return nil
}

// DeleteWhereOptions scopes a delete_where predicate (spec.md §4.5).
type DeleteWhereOptions struct {
	Category         string
	HasCategory      bool
	Source           memory.Source
	HasSource        bool
	Project          *string // nil means "global only"; undefined handled by HasProjectFilter
	HasProjectFilter bool
	DryRun           bool
}

// DeleteWhere deletes (or, in dry-run mode, counts) rows matching the given
// category/source predicate, scoped by project (spec.md §4.5 delete_where).
func (s *Store) DeleteWhere(opts DeleteWhereOptions) (int, error) {
	where := "WHERE 1=1"
	var args []any
	if opts.HasCategory {
		where += " AND category = ?"
		args = append(args, opts.Category)
	}
	if opts.HasSource {
		where += " AND source = ?"
		args = append(args, string(opts.Source))
	}
	if opts.HasProjectFilter {
		if opts.Project == nil {
			where += " AND project IS NULL"
		} else {
			where += " AND project = ?"
			args = append(args, *opts.Project)
		}
	}

	rows, err := s.db.Query("SELECT id FROM memories "+where, args...) // #nosec G202 -- WHERE uses hardcoded column names only
	if err != nil {
		return 0, fmt.Errorf("%w: delete_where query: %v", merr.ErrStore, err)
	}
	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return 0, fmt.Errorf("%w: delete_where scan: %v", merr.ErrStore, err)
		}
		ids = append(ids, id)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return 0, fmt.Errorf("%w: delete_where rows: %v", merr.ErrStore, err)
	}

	if opts.DryRun {
		return len(ids), nil
	}
	if err := s.Delete(ids); err != nil {
		return 0, err
	}
	return len(ids), nil
}

// ---------------------------------------------------------------------------
// Query: knn, nearest_one, neighbors_of, scan_active
// ---------------------------------------------------------------------------

// Filters restricts knn/scan results (spec.md §4.5).
type Filters struct {
	IncludeObsolete  bool
	Type             memory.Type
	HasType          bool
	MinImportance    int
	HasMinImportance bool
	Now              time.Time
}

func (f Filters) whereClause() (string, []any) {
	where := "WHERE 1=1"
	var args []any
	if !f.IncludeObsolete {
		where += " AND is_obsolete = 0"
	}
	where += " AND (expires_at IS NULL OR expires_at > ?)"
	args = append(args, f.Now.Unix())
	if f.HasType {
		where += " AND type = ?"
		args = append(args, string(f.Type))
	}
	if f.HasMinImportance {
		where += " AND importance >= ?"
		args = append(args, f.MinImportance)
	}
	return where, args
}

// ScoredRow pairs a memory row with its vector distance.
type ScoredRow struct {
	Record   memory.Record
	Distance float64
}

// Knn returns the k nearest rows to queryVec matching filters, ascending by
// distance (spec.md §4.5 knn).
func (s *Store) Knn(queryVec []float32, k int, filters Filters) ([]ScoredRow, error) {
	where, args := filters.whereClause()
	q := fmt.Sprintf(`
		SELECT m.*, v.distance
		FROM memories_vec v
		JOIN memories m ON m.id = v.id
		%s AND v.embedding MATCH ? AND k = ?
		ORDER BY v.distance`, where)
	args = append(args, float32sToBytes(queryVec), k)

	rows, err := s.db.Query(q, args...) // #nosec G202 -- WHERE uses hardcoded column names only
	if err != nil {
		return nil, fmt.Errorf("%w: knn: %v", merr.ErrStore, err)
	}
	defer rows.Close()
	return scanScoredRows(rows)
}

// NearestOne returns the single nearest active row to vec, used by dedup
// (spec.md §4.5 nearest_one, §4.6).
func (s *Store) NearestOne(vec []float32) (*ScoredRow, error) {
	rows, err := s.Knn(vec, 1, Filters{IncludeObsolete: false, Now: time.Now()})
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}

// NeighborOf is one result from NeighborsOf.
type NeighborOf struct {
	ID       int64
	Distance float64
}

// NeighborsOf returns the k nearest rows to id's embedding, excluding id
// itself (spec.md §4.5 neighbors_of).
func (s *Store) NeighborsOf(id int64, k int) ([]NeighborOf, error) {
	var raw []byte
	err := s.db.QueryRow(`SELECT embedding FROM memories_vec WHERE id = ?`, id).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: memory %d", merr.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: neighbors_of fetch: %v", merr.ErrStore, err)
	}

	rows, err := s.db.Query(`
		SELECT v.id, v.distance
		FROM memories_vec v
		WHERE v.embedding MATCH ? AND k = ?`, raw, k+1)
	if err != nil {
		return nil, fmt.Errorf("%w: neighbors_of: %v", merr.ErrStore, err)
	}
	defer rows.Close()

	var out []NeighborOf
	for rows.Next() {
		var n NeighborOf
		if err := rows.Scan(&n.ID, &n.Distance); err != nil {
			return nil, fmt.Errorf("%w: neighbors_of scan: %v", merr.ErrStore, err)
		}
		if n.ID == id {
			continue
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

// ScanActive returns all active (non-obsolete) rows in ascending id order,
// used by consolidation and corruption cleanup (spec.md §4.5 scan_active).
func (s *Store) ScanActive(project *string, hasProjectFilter bool) ([]memory.Record, error) {
	where := "WHERE is_obsolete = 0"
	var args []any
	if hasProjectFilter {
		if project == nil {
			where += " AND project IS NULL"
		} else {
			where += " AND project = ?"
			args = append(args, *project)
		}
	}
	rows, err := s.db.Query("SELECT * FROM memories "+where+" ORDER BY id ASC", args...) // #nosec G202 -- WHERE uses hardcoded column names only
	if err != nil {
		return nil, fmt.Errorf("%w: scan_active: %v", merr.ErrStore, err)
	}
	defer rows.Close()

	scored, err := scanScoredRows(rows)
	if err != nil {
		return nil, err
	}
	out := make([]memory.Record, len(scored))
	for i, sr := range scored {
		out[i] = sr.Record
	}
	return out, nil
}

// ---------------------------------------------------------------------------
// Garbage collection candidates (spec.md §4.9)
// ---------------------------------------------------------------------------

func scopeClause(project *string, hasFilter bool) (string, []any) {
	if !hasFilter {
		return "", nil
	}
	if project == nil {
		return " AND project IS NULL", nil
	}
	return " AND project = ?", []any{*project}
}

// UnusedStale returns ids of active rows that are unused (never accessed,
// or not accessed within maxAgeUnusedDays) and below minConfidence
// (spec.md §4.9 garbage_collect clause 1).
func (s *Store) UnusedStale(project *string, hasFilter bool, maxAgeUnusedDays int, minConfidence float64, now time.Time) ([]int64, error) {
	where := `WHERE is_obsolete = 0 AND access_count = 0 AND confidence < ?
		AND (last_accessed IS NULL OR last_accessed < ?)`
	cutoff := now.Add(-time.Duration(maxAgeUnusedDays) * 24 * time.Hour).Unix()
	args := []any{minConfidence, cutoff}

	clause, extra := scopeClause(project, hasFilter)
	where += clause
	args = append(args, extra...)

	return s.queryIDs(where, args)
}

// Expired returns ids of active rows whose expires_at has passed
// (spec.md §4.9 garbage_collect clause 2).
func (s *Store) Expired(project *string, hasFilter bool, now time.Time) ([]int64, error) {
	where := `WHERE is_obsolete = 0 AND expires_at IS NOT NULL AND expires_at < ?`
	args := []any{now.Unix()}

	clause, extra := scopeClause(project, hasFilter)
	where += clause
	args = append(args, extra...)

	return s.queryIDs(where, args)
}

func (s *Store) queryIDs(where string, args []any) ([]int64, error) {
	rows, err := s.db.Query("SELECT id FROM memories "+where, args...) // #nosec G202 -- WHERE uses hardcoded column names only
	if err != nil {
		return nil, fmt.Errorf("%w: query ids: %v", merr.ErrStore, err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("%w: scan id: %v", merr.ErrStore, err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// CountObsolete returns the number of rows currently marked obsolete
// (spec.md §4.9 Stats supplement).
func (s *Store) CountObsolete() (int, error) {
	var n int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM memories WHERE is_obsolete = 1`).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("%w: count obsolete: %v", merr.ErrStore, err)
	}
	return n, nil
}

// GetByID fetches a single row by id.
func (s *Store) GetByID(id int64) (*memory.Record, error) {
	rows, err := s.db.Query(`SELECT * FROM memories WHERE id = ?`, id)
	if err != nil {
		return nil, fmt.Errorf("%w: get: %v", merr.ErrStore, err)
	}
	defer rows.Close()
	scored, err := scanScoredRows(rows)
	if err != nil {
		return nil, err
	}
	if len(scored) == 0 {
		return nil, fmt.Errorf("%w: memory %d", merr.ErrNotFound, id)
	}
	return &scored[0].Record, nil
}

// ---------------------------------------------------------------------------
// Row scanning
// ---------------------------------------------------------------------------

func scanScoredRows(rows *sql.Rows) ([]ScoredRow, error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	hasDistance := false
	for _, c := range cols {
		if c == "distance" {
			hasDistance = true
		}
	}

	var out []ScoredRow
	for rows.Next() {
		vals := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("%w: scan: %v", merr.ErrStore, err)
		}

		byCol := make(map[string]any, len(cols))
		for i, c := range cols {
			byCol[c] = vals[i]
		}

		rec, err := rowToRecord(byCol)
		if err != nil {
			return nil, err
		}

		sr := ScoredRow{Record: *rec}
		if hasDistance {
			if d, ok := byCol["distance"].(float64); ok {
				sr.Distance = d
			}
		}
		out = append(out, sr)
	}
	return out, rows.Err()
}

func rowToRecord(byCol map[string]any) (*memory.Record, error) {
	rec := &memory.Record{}

	rec.ID, _ = asInt64(byCol["id"])
	rec.Content, _ = byCol["content"].(string)
	rec.Type = memory.Type(asString(byCol["type"]))
	rec.Category = asString(byCol["category"])
	rec.Reasoning = asString(byCol["reasoning"])
	rec.Source = memory.Source(asString(byCol["source"]))

	if importance, ok := asInt64(byCol["importance"]); ok {
		rec.Importance = int(importance)
	}
	if confidence, ok := byCol["confidence"].(float64); ok {
		rec.Confidence = confidence
	}
	if created, ok := asInt64(byCol["created_at"]); ok {
		rec.CreatedAt = time.Unix(created, 0).UTC()
	}
	if accessCount, ok := asInt64(byCol["access_count"]); ok {
		rec.AccessCount = int(accessCount)
	}
	if obsolete, ok := asInt64(byCol["is_obsolete"]); ok {
		rec.IsObsolete = obsolete != 0
	}

	if p, ok := byCol["project"].(string); ok {
		rec.Project = &p
	}
	if la, ok := asInt64(byCol["last_accessed"]); ok {
		t := time.Unix(la, 0).UTC()
		rec.LastAccessed = &t
	}
	if ea, ok := asInt64(byCol["expires_at"]); ok {
		t := time.Unix(ea, 0).UTC()
		rec.ExpiresAt = &t
	}
	if sp, ok := asInt64(byCol["supersedes"]); ok {
		rec.Supersedes = &sp
	}

	if tagsRaw := asString(byCol["tags"]); tagsRaw != "" {
		if err := json.Unmarshal([]byte(tagsRaw), &rec.Tags); err != nil {
			return nil, fmt.Errorf("%w: unmarshal tags: %v", merr.ErrStore, err)
		}
	}

	return rec, nil
}

func asString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case []byte:
		return string(t)
	default:
		return ""
	}
}

func asInt64(v any) (int64, bool) {
	switch t := v.(type) {
	case int64:
		return t, true
	case float64:
		return int64(t), true
	default:
		return 0, false
	}
}

func nullableString(p *string) any {
	if p == nil {
		return nil
	}
	return *p
}

func nullableTime(p *time.Time) any {
	if p == nil {
		return nil
	}
	return p.Unix()
}

func nullableInt64(p *int64) any {
	if p == nil {
		return nil
	}
	return *p
}

// float32sToBytes encodes a []float32 as little-endian bytes (sqlite-vec
// wire format).
func float32sToBytes(floats []float32) []byte {
	b := make([]byte, len(floats)*4)
	for i, f := range floats {
		binary.LittleEndian.PutUint32(b[i*4:], math.Float32bits(f))
	}
	return b
}
