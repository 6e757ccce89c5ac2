package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"careerwatch/jobtracker/internal/scraper"
)

func TestMatchCaseInsensitive(t *testing.T) {
	m := NewKeywordMatcher([]string{"Project Manager", "TPM"})

	assert.True(t, m.Match("project manager"))
	assert.True(t, m.Match("Senior PROJECT MANAGER (m/f/d)"))
	assert.True(t, m.Match("Lead tpm"))
	assert.False(t, m.Match("Software Engineer"))
	assert.False(t, m.Match(""))
}

func TestMatchEmptyKeywords(t *testing.T) {
	m := NewKeywordMatcher(nil)
	assert.True(t, m.Match("anything at all"))

	// Blank keywords are dropped, not treated as match-everything entries
	m = NewKeywordMatcher([]string{" ", ""})
	assert.True(t, m.Match("anything at all"))
}

func TestFilterPreservesOrder(t *testing.T) {
	m := NewKeywordMatcher([]string{"manager"})

	postings := []scraper.JobPosting{
		{Company: "Acme", Title: "Project Manager"},
		{Company: "Acme", Title: "Backend Engineer"},
		{Company: "Acme", Title: "Engineering Manager"},
	}

	matched := m.Filter(postings)
	require.Len(t, matched, 2)
	assert.Equal(t, "Project Manager", matched[0].Title)
	assert.Equal(t, "Engineering Manager", matched[1].Title)
}

func TestFilterNoMatches(t *testing.T) {
	m := NewKeywordMatcher([]string{"manager"})
	matched := m.Filter([]scraper.JobPosting{{Title: "Designer"}})
	assert.Empty(t, matched)
}
