package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"careerwatch/jobtracker/internal/scraper"
	jterrors "careerwatch/jobtracker/pkg/errors"
)

// seenEntry is the persisted record for one posting key. Title and URL are
// kept alongside the timestamp for human review of the state files.
type seenEntry struct {
	Title     string    `json:"title"`
	URL       string    `json:"url,omitempty"`
	FirstSeen time.Time `json:"first_seen"`
}

// seenFile is the on-disk layout of a company's partition
type seenFile struct {
	Company  string               `json:"company"`
	Jobs     map[string]seenEntry `json:"jobs"`
	SavedAt  time.Time            `json:"saved_at"`
	JobCount int                  `json:"job_count"`
}

// FileStore implements Store with one JSON file per company. Commits write
// to a temp file in the same directory and rename it over the old state, so
// a crash mid-write leaves the previous file intact.
type FileStore struct {
	dir string
	now func() time.Time
}

// NewFileStore creates a store rooted at dir, creating it if needed
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, jterrors.NewStore("", fmt.Sprintf("cannot create state dir %s", dir), err)
	}
	return &FileStore{dir: dir, now: time.Now}, nil
}

// Load reads the persisted seen set for a company
func (s *FileStore) Load(company string) (SeenSet, error) {
	file, err := s.readFile(company)
	if err != nil {
		return nil, err
	}

	seen := make(SeenSet, len(file.Jobs))
	for key, entry := range file.Jobs {
		seen[key] = entry.FirstSeen
	}
	return seen, nil
}

// Commit merges the current postings into the persisted set and writes the
// partition back atomically. Keys already present keep their original
// first-seen timestamp.
func (s *FileStore) Commit(company string, current []scraper.JobPosting) error {
	file, err := s.readFile(company)
	if err != nil {
		return err
	}

	now := s.now().UTC()
	for _, p := range current {
		key := p.Key()
		if _, ok := file.Jobs[key]; ok {
			continue
		}
		file.Jobs[key] = seenEntry{
			Title:     p.Title,
			URL:       p.URL,
			FirstSeen: now,
		}
	}

	file.Company = company
	file.SavedAt = now
	file.JobCount = len(file.Jobs)

	return s.writeFile(company, file)
}

// readFile loads a company's partition; a missing file is an empty set.
// A corrupt file is a store error: clobbering it would re-notify every
// posting the company ever had.
func (s *FileStore) readFile(company string) (*seenFile, error) {
	data, err := os.ReadFile(s.path(company))
	if err != nil {
		if os.IsNotExist(err) {
			return &seenFile{Jobs: make(map[string]seenEntry)}, nil
		}
		return nil, jterrors.NewStore(company, "cannot read seen set", err)
	}

	var file seenFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, jterrors.NewStore(company, "seen set is corrupt", err)
	}
	if file.Jobs == nil {
		file.Jobs = make(map[string]seenEntry)
	}
	return &file, nil
}

// writeFile persists a partition via temp-file-then-rename
func (s *FileStore) writeFile(company string, file *seenFile) error {
	data, err := json.MarshalIndent(file, "", "  ")
	if err != nil {
		return jterrors.NewStore(company, "cannot encode seen set", err)
	}

	tmp, err := os.CreateTemp(s.dir, slugFor(company)+".*.tmp")
	if err != nil {
		return jterrors.NewStore(company, "cannot create temp file", err)
	}

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return jterrors.NewStore(company, "cannot write seen set", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return jterrors.NewStore(company, "cannot close temp file", err)
	}

	if err := os.Rename(tmp.Name(), s.path(company)); err != nil {
		os.Remove(tmp.Name())
		return jterrors.NewStore(company, "cannot replace seen set", err)
	}
	return nil
}

// path returns the partition file for a company
func (s *FileStore) path(company string) string {
	return filepath.Join(s.dir, slugFor(company)+".json")
}

// slugFor derives a filesystem-safe name from a company name
func slugFor(company string) string {
	slug := strings.ToLower(strings.TrimSpace(company))
	slug = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		default:
			return '-'
		}
	}, slug)
	slug = strings.Trim(slug, "-")
	if slug == "" {
		slug = "company"
	}
	return slug
}
