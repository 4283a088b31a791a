// Package maintenance implements the upkeep passes run outside the hot
// remember/recall path: garbage collection, consolidation, and corruption
// cleanup (spec.md §4.9).
package maintenance

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/go-ports/mnemo/internal/memory"
	"github.com/go-ports/mnemo/internal/store"
)

// GarbageCollect deletes unused-and-low-confidence rows plus expired rows,
// scoped by project (spec.md §4.9 "Garbage collection"). Returns the total
// number of rows deleted.
func GarbageCollect(st *store.Store, projectScope *string, hasProjectFilter bool, maxAgeUnusedDays int, minConfidence float64, now time.Time) (int, error) {
	unused, err := st.UnusedStale(projectScope, hasProjectFilter, maxAgeUnusedDays, minConfidence, now)
	if err != nil {
		return 0, err
	}
	expired, err := st.Expired(projectScope, hasProjectFilter, now)
	if err != nil {
		return 0, err
	}

	seen := make(map[int64]bool, len(unused)+len(expired))
	var ids []int64
	for _, id := range append(unused, expired...) {
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}

	if err := st.Delete(ids); err != nil {
		return 0, err
	}
	return len(ids), nil
}

// Cluster is one consolidation grouping: kept is the winning representative,
// merged lists the ids that were (or, in dry-run, would be) set obsolete
// with supersedes = kept.
type Cluster struct {
	ID     string
	Kept   int64
	Merged []int64
}

// representativeScore ranks cluster members per spec.md §4.9 step 3:
// importance · confidence · (1 + access_count).
func representativeScore(rec memory.Record) float64 {
	return float64(rec.Importance) * rec.Confidence * float64(1+rec.AccessCount)
}

// Consolidate clusters near-duplicate active rows scoped by project and
// promotes the highest-scoring member of each cluster, setting the rest
// obsolete with supersedes pointing to the winner. In dry-run mode it
// reports the clusters without mutating the store (spec.md §4.9).
func Consolidate(st *store.Store, projectScope *string, hasProjectFilter bool, dedupThreshold float64, dryRun bool) ([]Cluster, error) {
	active, err := st.ScanActive(projectScope, hasProjectFilter)
	if err != nil {
		return nil, err
	}
	sort.Slice(active, func(i, j int) bool { return active[i].ID < active[j].ID })

	byID := make(map[int64]memory.Record, len(active))
	for _, rec := range active {
		byID[rec.ID] = rec
	}

	processed := make(map[int64]bool, len(active))
	threshold := 2 * dedupThreshold

	var clusters []Cluster
	for _, rec := range active {
		if processed[rec.ID] {
			continue
		}
		processed[rec.ID] = true

		neighbors, err := st.NeighborsOf(rec.ID, 20)
		if err != nil {
			return nil, err
		}

		members := []int64{rec.ID}
		for _, n := range neighbors {
			if n.Distance >= threshold {
				continue
			}
			if processed[n.ID] {
				continue
			}
			if _, ok := byID[n.ID]; !ok {
				continue // neighbor outside the project scope
			}
			processed[n.ID] = true
			members = append(members, n.ID)
		}

		if len(members) < 2 {
			continue
		}

		winner := members[0]
		winnerScore := representativeScore(byID[winner])
		for _, id := range members[1:] {
			score := representativeScore(byID[id])
			if score > winnerScore {
				winner = id
				winnerScore = score
			}
		}

		var losers []int64
		for _, id := range members {
			if id != winner {
				losers = append(losers, id)
			}
		}
		sort.Slice(losers, func(i, j int) bool { return losers[i] < losers[j] })

		if !dryRun {
			for _, loserID := range losers {
				if err := st.SetObsolete(loserID, &winner); err != nil {
					return nil, err
				}
			}
		}

		clusters = append(clusters, Cluster{ID: uuid.NewString(), Kept: winner, Merged: losers})
	}

	return clusters, nil
}

// corruptionPatterns is the closed list of content shapes treated as
// corrupted (spec.md §4.9): a JSON-object prefix, a bare-array prefix that
// is not a bracket-prefixed label like "[INFO] ...", and known leaked
// prompt fragments.
var corruptionPatterns = []string{
	"{",
	"You are a helpful assistant",
	"As an AI language model",
	"<|im_start|>",
	"<|im_end|>",
}

const minContentLength = 20

// isBareArrayPrefix reports whether s starts with "[" but is not a
// bracket-prefixed label such as "[INFO] message" or "[part 1/2] ...".
func isBareArrayPrefix(s string) bool {
	if !strings.HasPrefix(s, "[") {
		return false
	}
	closeIdx := strings.IndexByte(s, ']')
	if closeIdx < 0 {
		return true
	}
	// A label is short and immediately followed by a space: "[INFO] ...".
	label := s[1:closeIdx]
	rest := s[closeIdx+1:]
	return !(len(label) > 0 && len(label) <= 20 && strings.HasPrefix(rest, " "))
}

func isCorrupted(content string) bool {
	trimmed := strings.TrimSpace(content)
	if len(trimmed) < minContentLength {
		return true
	}
	for _, p := range corruptionPatterns {
		if strings.HasPrefix(trimmed, p) {
			return true
		}
	}
	return isBareArrayPrefix(trimmed)
}

const maxCorruptedSamples = 10

// CleanupCorrupted deletes active rows matching a corruption pattern or
// shorter than 20 trimmed characters. Dry-run returns the count plus up to
// 10 truncated samples without mutating the store (spec.md §4.9,
// SPEC_FULL.md supplement 1).
func CleanupCorrupted(st *store.Store, dryRun bool) (int, []string, error) {
	active, err := st.ScanActive(nil, false)
	if err != nil {
		return 0, nil, err
	}

	var ids []int64
	var samples []string
	for _, rec := range active {
		if !isCorrupted(rec.Content) {
			continue
		}
		ids = append(ids, rec.ID)
		if dryRun && len(samples) < maxCorruptedSamples {
			samples = append(samples, truncate(rec.Content, 80))
		}
	}

	if dryRun {
		return len(ids), samples, nil
	}

	if err := st.Delete(ids); err != nil {
		return 0, nil, err
	}
	return len(ids), nil, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return fmt.Sprintf("%s…", s[:n])
}
