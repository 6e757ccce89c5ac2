package notifier

import (
	"careerwatch/jobtracker/internal/scraper"
)

// Notifier delivers notifications about newly discovered postings. Delivery
// failure is reported as a value so the caller can apply its commit policy.
type Notifier interface {
	// Notify delivers one notification covering the given postings
	Notify(postings []scraper.JobPosting) error
}

// SummaryNotifier is implemented by notifiers that can also report a
// run-level summary.
type SummaryNotifier interface {
	// NotifySummary reports the outcome of a run
	NotifySummary(newPostings, companiesProcessed, companiesFailed int) error
}

// Batch splits postings into batches of at most size postings each so every
// Notify call respects the configured maximum. A non-positive size yields a
// single batch.
func Batch(postings []scraper.JobPosting, size int) [][]scraper.JobPosting {
	if len(postings) == 0 {
		return nil
	}
	if size <= 0 {
		return [][]scraper.JobPosting{postings}
	}

	var batches [][]scraper.JobPosting
	for start := 0; start < len(postings); start += size {
		end := start + size
		if end > len(postings) {
			end = len(postings)
		}
		batches = append(batches, postings[start:end])
	}
	return batches
}
