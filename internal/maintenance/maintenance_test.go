package maintenance_test

import (
	"path/filepath"
	"testing"
	"time"

	qt "github.com/frankban/quicktest"

	"github.com/go-ports/mnemo/internal/maintenance"
	"github.com/go-ports/mnemo/internal/memory"
	"github.com/go-ports/mnemo/internal/store"
)

const testDim = 4

func openTestStore(c *qt.C) *store.Store {
	tmp := c.TempDir()
	s, err := store.Open(filepath.Join(tmp, "mnemo.db"))
	c.Assert(err, qt.IsNil)
	c.Assert(s.EnsureVecTable(testDim), qt.IsNil)
	c.Cleanup(func() { _ = s.Close() })
	return s
}

func vec(seed float32) []float32 {
	v := make([]float32, testDim)
	for i := range v {
		v[i] = seed + float32(i)*0.001
	}
	return v
}

func insertRecord(c *qt.C, s *store.Store, rec *memory.Record, v []float32) int64 {
	id, err := s.Insert(rec, v)
	c.Assert(err, qt.IsNil)
	return id
}

func TestGarbageCollect_DeletesUnusedLowConfidence_KeepsManualHighConfidence(t *testing.T) {
	c := qt.New(t)
	s := openTestStore(c)
	now := time.Now().UTC()

	// Survives: full confidence, never accessed, but confidence >= min_confidence.
	survivor := &memory.Record{
		Content: "a manual memory that stays", Type: memory.TypeFact, Source: memory.SourceManual,
		Importance: 3, Confidence: 1.0, CreatedAt: now.AddDate(-1, 0, 0),
	}
	insertRecord(c, s, survivor, vec(1))

	// Deleted: low confidence, unused, old.
	stale := &memory.Record{
		Content: "a stale low-confidence memory", Type: memory.TypeFact, Source: memory.SourceAutoSession,
		Importance: 2, Confidence: 0.2, CreatedAt: now.AddDate(-1, 0, 0),
	}
	insertRecord(c, s, stale, vec(2))

	n, err := maintenance.GarbageCollect(s, nil, false, 90, 0.5, now)
	c.Assert(err, qt.IsNil)
	c.Assert(n, qt.Equals, 1)

	remaining, err := s.ScanActive(nil, false)
	c.Assert(err, qt.IsNil)
	c.Assert(remaining, qt.HasLen, 1)
	c.Assert(remaining[0].Content, qt.Equals, "a manual memory that stays")
}

func TestGarbageCollect_DeletesExpiredRegardlessOfConfidence(t *testing.T) {
	c := qt.New(t)
	s := openTestStore(c)
	now := time.Now().UTC()

	past := now.Add(-time.Hour)
	expired := &memory.Record{
		Content: "temporary note", Type: memory.TypeFact, Source: memory.SourceManual,
		Importance: 5, Confidence: 1.0, CreatedAt: now, ExpiresAt: &past,
	}
	insertRecord(c, s, expired, vec(1))

	n, err := maintenance.GarbageCollect(s, nil, false, 90, 0.5, now)
	c.Assert(err, qt.IsNil)
	c.Assert(n, qt.Equals, 1)
}

func TestConsolidate_DryRun_GroupsNearDuplicatesWithoutMutating(t *testing.T) {
	c := qt.New(t)
	s := openTestStore(c)
	now := time.Now().UTC()

	// Five paraphrases, clustered tightly (well within 2x the 5.0 threshold).
	var ids []int64
	importances := []int{3, 4, 2, 5, 1}
	for i, imp := range importances {
		rec := &memory.Record{
			Content: "use TypeScript strict mode", Type: memory.TypePattern, Source: memory.SourceManual,
			Importance: imp, Confidence: 1.0, CreatedAt: now,
		}
		ids = append(ids, insertRecord(c, s, rec, vec(float32(i)*0.01)))
	}

	clusters, err := maintenance.Consolidate(s, nil, false, 5.0, true)
	c.Assert(err, qt.IsNil)
	c.Assert(clusters, qt.HasLen, 1)
	c.Assert(clusters[0].Kept, qt.Equals, ids[3]) // importance 5 is the highest scorer
	c.Assert(clusters[0].Merged, qt.HasLen, 4)

	active, err := s.ScanActive(nil, false)
	c.Assert(err, qt.IsNil)
	c.Assert(active, qt.HasLen, 5) // dry run: nothing obsoleted
}

func TestConsolidate_RealRun_MutatesStore(t *testing.T) {
	c := qt.New(t)
	s := openTestStore(c)
	now := time.Now().UTC()

	recA := &memory.Record{Content: "paraphrase a", Type: memory.TypePattern, Source: memory.SourceManual, Importance: 2, Confidence: 1.0, CreatedAt: now}
	idA := insertRecord(c, s, recA, vec(0))
	recB := &memory.Record{Content: "paraphrase b", Type: memory.TypePattern, Source: memory.SourceManual, Importance: 5, Confidence: 1.0, CreatedAt: now}
	idB := insertRecord(c, s, recB, vec(0.001))

	clusters, err := maintenance.Consolidate(s, nil, false, 5.0, false)
	c.Assert(err, qt.IsNil)
	c.Assert(clusters, qt.HasLen, 1)
	c.Assert(clusters[0].Kept, qt.Equals, idB)

	active, err := s.ScanActive(nil, false)
	c.Assert(err, qt.IsNil)
	c.Assert(active, qt.HasLen, 1)
	c.Assert(active[0].ID, qt.Equals, idB)

	got, err := s.GetByID(idA)
	c.Assert(err, qt.IsNil)
	c.Assert(got.IsObsolete, qt.IsTrue)
	c.Assert(*got.Supersedes, qt.Equals, idB)
}

func TestConsolidate_DistantRowsStayUnclustered(t *testing.T) {
	c := qt.New(t)
	s := openTestStore(c)
	now := time.Now().UTC()

	recA := &memory.Record{Content: "about cats", Type: memory.TypeFact, Source: memory.SourceManual, Importance: 3, Confidence: 1.0, CreatedAt: now}
	insertRecord(c, s, recA, vec(0))
	recB := &memory.Record{Content: "about spreadsheets", Type: memory.TypeFact, Source: memory.SourceManual, Importance: 3, Confidence: 1.0, CreatedAt: now}
	insertRecord(c, s, recB, vec(50))

	clusters, err := maintenance.Consolidate(s, nil, false, 5.0, true)
	c.Assert(err, qt.IsNil)
	c.Assert(clusters, qt.HasLen, 0)
}

func TestCleanupCorrupted_DryRun_ReportsSamplesWithoutDeleting(t *testing.T) {
	c := qt.New(t)
	s := openTestStore(c)
	now := time.Now().UTC()

	good := &memory.Record{Content: "a perfectly normal memory about the project roadmap", Type: memory.TypeFact, Source: memory.SourceManual, Importance: 3, Confidence: 1.0, CreatedAt: now}
	insertRecord(c, s, good, vec(0))

	corruptJSON := &memory.Record{Content: `{"broken": "leaked json fragment from a tool call"}`, Type: memory.TypeFact, Source: memory.SourceAutoIngest, Importance: 1, Confidence: 0.3, CreatedAt: now}
	insertRecord(c, s, corruptJSON, vec(1))

	tooShort := &memory.Record{Content: "too short", Type: memory.TypeFact, Source: memory.SourceAutoIngest, Importance: 1, Confidence: 0.3, CreatedAt: now}
	insertRecord(c, s, tooShort, vec(2))

	count, samples, err := maintenance.CleanupCorrupted(s, true)
	c.Assert(err, qt.IsNil)
	c.Assert(count, qt.Equals, 2)
	c.Assert(samples, qt.HasLen, 2)

	active, err := s.ScanActive(nil, false)
	c.Assert(err, qt.IsNil)
	c.Assert(active, qt.HasLen, 3)
}

func TestCleanupCorrupted_RealRun_DeletesMatches(t *testing.T) {
	c := qt.New(t)
	s := openTestStore(c)
	now := time.Now().UTC()

	good := &memory.Record{Content: "a perfectly normal memory about the project roadmap", Type: memory.TypeFact, Source: memory.SourceManual, Importance: 3, Confidence: 1.0, CreatedAt: now}
	insertRecord(c, s, good, vec(0))

	corrupt := &memory.Record{Content: "x", Type: memory.TypeFact, Source: memory.SourceAutoIngest, Importance: 1, Confidence: 0.3, CreatedAt: now}
	insertRecord(c, s, corrupt, vec(1))

	count, samples, err := maintenance.CleanupCorrupted(s, false)
	c.Assert(err, qt.IsNil)
	c.Assert(count, qt.Equals, 1)
	c.Assert(samples, qt.IsNil)

	active, err := s.ScanActive(nil, false)
	c.Assert(err, qt.IsNil)
	c.Assert(active, qt.HasLen, 1)
}

func TestCleanupCorrupted_LabeledBracketPrefixIsNotCorrupted(t *testing.T) {
	c := qt.New(t)
	s := openTestStore(c)
	now := time.Now().UTC()

	labeled := &memory.Record{Content: "[part 1/2] a properly labeled chunk of real content that is long enough", Type: memory.TypeFact, Source: memory.SourceManual, Importance: 3, Confidence: 1.0, CreatedAt: now}
	insertRecord(c, s, labeled, vec(0))

	count, _, err := maintenance.CleanupCorrupted(s, true)
	c.Assert(err, qt.IsNil)
	c.Assert(count, qt.Equals, 0)
}
