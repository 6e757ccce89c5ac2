package notifier

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"careerwatch/jobtracker/internal/scraper"
)

func makePostings(n int) []scraper.JobPosting {
	postings := make([]scraper.JobPosting, n)
	for i := range postings {
		postings[i] = scraper.JobPosting{
			Company: "Acme",
			Title:   fmt.Sprintf("Project Manager %d", i),
			URL:     fmt.Sprintf("https://acme.example/jobs/%d", i),
		}
	}
	return postings
}

func TestBatch(t *testing.T) {
	batches := Batch(makePostings(25), 10)
	require.Len(t, batches, 3)
	assert.Len(t, batches[0], 10)
	assert.Len(t, batches[1], 10)
	assert.Len(t, batches[2], 5)
}

func TestBatchExactFit(t *testing.T) {
	batches := Batch(makePostings(20), 10)
	require.Len(t, batches, 2)
	assert.Len(t, batches[0], 10)
	assert.Len(t, batches[1], 10)
}

func TestBatchSmallerThanLimit(t *testing.T) {
	batches := Batch(makePostings(3), 10)
	require.Len(t, batches, 1)
	assert.Len(t, batches[0], 3)
}

func TestBatchEmpty(t *testing.T) {
	assert.Nil(t, Batch(nil, 10))
}

func TestBatchNonPositiveSize(t *testing.T) {
	batches := Batch(makePostings(7), 0)
	require.Len(t, batches, 1)
	assert.Len(t, batches[0], 7)
}

func TestLogNotifier(t *testing.T) {
	n := NewLogNotifier()
	assert.NoError(t, n.Notify(makePostings(2)))
	assert.NoError(t, n.NotifySummary(2, 3, 1))
}
