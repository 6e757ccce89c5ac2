package store

import (
	"time"

	"careerwatch/jobtracker/internal/scraper"
)

// SeenSet maps posting identity keys to the time they were first seen.
// It is the only state that survives between runs and grows monotonically.
type SeenSet map[string]time.Time

// Store persists per-company seen sets between runs. Each company owns a
// disjoint partition, so commits never interleave across companies.
type Store interface {
	// Load reads the persisted seen set for a company. A company without
	// persisted state yields an empty set: on a first run everything is new.
	Load(company string) (SeenSet, error)

	// Commit merges the current postings' keys into the persisted set and
	// writes it back atomically.
	Commit(company string, current []scraper.JobPosting) error
}

// Diff returns the postings whose identity key is absent from seen, in the
// order they appear in current.
func Diff(current []scraper.JobPosting, seen SeenSet) []scraper.JobPosting {
	var fresh []scraper.JobPosting
	for _, p := range current {
		if _, ok := seen[p.Key()]; !ok {
			fresh = append(fresh, p)
		}
	}
	return fresh
}
