package filter

import (
	"strings"

	"careerwatch/jobtracker/internal/scraper"
)

// KeywordMatcher matches posting titles against a configured keyword set.
// Matching is a case-insensitive substring test; an empty keyword set is
// treated as "match all". The matcher is pure and safe for reuse.
type KeywordMatcher struct {
	keywords []string
}

// NewKeywordMatcher returns a matcher for the given keywords
func NewKeywordMatcher(keywords []string) *KeywordMatcher {
	lowered := make([]string, 0, len(keywords))
	for _, kw := range keywords {
		kw = strings.TrimSpace(kw)
		if kw != "" {
			lowered = append(lowered, strings.ToLower(kw))
		}
	}
	return &KeywordMatcher{keywords: lowered}
}

// Match returns true if any keyword appears in the title
func (m *KeywordMatcher) Match(title string) bool {
	if len(m.keywords) == 0 {
		return true
	}

	titleLower := strings.ToLower(title)
	for _, kw := range m.keywords {
		if strings.Contains(titleLower, kw) {
			return true
		}
	}
	return false
}

// Filter returns the postings whose titles match, preserving input order
func (m *KeywordMatcher) Filter(postings []scraper.JobPosting) []scraper.JobPosting {
	var matched []scraper.JobPosting
	for _, p := range postings {
		if m.Match(p.Title) {
			matched = append(matched, p)
		}
	}
	return matched
}
