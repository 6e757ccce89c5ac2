package notifier

import (
	"careerwatch/jobtracker/internal/scraper"
	"careerwatch/jobtracker/logger"
)

// Ensure LogNotifier implements both notifier interfaces.
var (
	_ Notifier        = (*LogNotifier)(nil)
	_ SummaryNotifier = (*LogNotifier)(nil)
)

// LogNotifier writes notifications to the log. It stands in for Telegram
// when notifications are disabled.
type LogNotifier struct {
	log *logger.Logger
}

// NewLogNotifier creates a log-backed notifier
func NewLogNotifier() *LogNotifier {
	return &LogNotifier{log: logger.ForComponent("notifier")}
}

// Notify logs each posting at info level
func (n *LogNotifier) Notify(postings []scraper.JobPosting) error {
	for _, p := range postings {
		n.log.Info().
			Str("company", p.Company).
			Str("title", p.Title).
			Str("url", p.URL).
			Msg("New posting")
	}
	return nil
}

// NotifySummary logs the run summary at info level
func (n *LogNotifier) NotifySummary(newPostings, companiesProcessed, companiesFailed int) error {
	n.log.Info().
		Int("new_postings", newPostings).
		Int("companies_processed", companiesProcessed).
		Int("companies_failed", companiesFailed).
		Msg("Run summary")
	return nil
}
