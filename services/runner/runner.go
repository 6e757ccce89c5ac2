package runner

import (
	"context"
	"encoding/json"
	"time"

	"careerwatch/jobtracker/internal/filter"
	"careerwatch/jobtracker/internal/scraper"
	"careerwatch/jobtracker/logger"
	jterrors "careerwatch/jobtracker/pkg/errors"
	"careerwatch/jobtracker/services/notifier"
	"careerwatch/jobtracker/services/publisher"
	"careerwatch/jobtracker/services/store"
)

// Config controls run pacing and notification batching
type Config struct {
	// RequestDelay is the pause between two companies
	RequestDelay time.Duration
	// SendSummary gates the run summary notification
	SendSummary bool
	// MaxJobsPerNotification caps postings per Notify call
	MaxJobsPerNotification int
}

// CompanyError records a company that failed during the run
type CompanyError struct {
	Company string
	Err     error
}

// RunResult aggregates the outcome of a single execution. It is appended to
// per company and discarded after reporting.
type RunResult struct {
	CompaniesProcessed int
	CompaniesFailed    []CompanyError
	NewPostings        []scraper.JobPosting
}

// Runner sequences the scrape pipeline per company: fetch, extract, match,
// diff, notify, commit. Companies are processed one at a time; a failing
// company never aborts the rest of the run.
//
// Commit policy: the seen set is committed even when notification delivery
// fails. A missed notification is accepted over duplicate alerts on the next
// run; this matches the tracker's historical behavior.
type Runner struct {
	ctx       context.Context
	scrapers  []scraper.Scraper
	matcher   *filter.KeywordMatcher
	store     store.Store
	notifier  notifier.Notifier
	publisher publisher.Publisher
	cfg       Config
	log       *logger.Logger
}

// New creates a runner. pub may be nil when no downstream sink is configured.
func New(
	ctx context.Context,
	scrapers []scraper.Scraper,
	matcher *filter.KeywordMatcher,
	st store.Store,
	n notifier.Notifier,
	pub publisher.Publisher,
	cfg Config,
) *Runner {
	return &Runner{
		ctx:       ctx,
		scrapers:  scrapers,
		matcher:   matcher,
		store:     st,
		notifier:  n,
		publisher: pub,
		cfg:       cfg,
		log:       logger.ForComponent("runner"),
	}
}

// Run executes one full pass over all companies and returns the summary
func (r *Runner) Run() RunResult {
	start := time.Now()
	var result RunResult

	for i, sc := range r.scrapers {
		if i > 0 && r.cfg.RequestDelay > 0 {
			if !r.pause(r.cfg.RequestDelay) {
				break
			}
		}
		if r.ctx.Err() != nil {
			break
		}

		company := sc.GetCompany()
		fresh, err := r.runCompany(sc)
		result.CompaniesProcessed++
		if err != nil {
			result.CompaniesFailed = append(result.CompaniesFailed, CompanyError{Company: company, Err: err})
			logger.ForCompany(company).Error().Err(err).Msg("Company failed")
			continue
		}
		result.NewPostings = append(result.NewPostings, fresh...)
	}

	if r.publisher != nil {
		if err := r.publisher.TrimStream(); err != nil {
			r.log.Warn().Err(err).Msg("Failed to trim stream")
		}
	}

	r.log.Info().
		Int("companies_processed", result.CompaniesProcessed).
		Int("companies_failed", len(result.CompaniesFailed)).
		Int("new_postings", len(result.NewPostings)).
		Dur("elapsed", time.Since(start)).
		Msg("Run complete")

	r.sendSummary(result)
	return result
}

// runCompany walks one company through the pipeline and returns its newly
// discovered postings.
func (r *Runner) runCompany(sc scraper.Scraper) ([]scraper.JobPosting, error) {
	company := sc.GetCompany()
	log := logger.ForCompany(company)

	postings, err := sc.FetchPostings()
	if err != nil {
		if jterrors.IsKind(err, jterrors.KindParse) {
			// Heuristic parsing is best-effort: incompatible markup means
			// zero postings, not a failed company.
			log.Warn().Err(err).Msg("Page could not be parsed, treating as no postings")
			return nil, nil
		}
		return nil, err
	}
	log.Debug().Int("candidates", len(postings)).Msg("Extracted postings")

	matched := r.matcher.Filter(postings)
	if len(matched) == 0 {
		log.Debug().Msg("No matching postings")
		return nil, nil
	}

	seen, err := r.store.Load(company)
	if err != nil {
		return nil, err
	}

	fresh := store.Diff(matched, seen)
	log.Info().
		Int("matched", len(matched)).
		Int("new", len(fresh)).
		Msg("Diffed against seen set")

	if len(fresh) > 0 {
		r.notify(company, fresh)
		r.publish(company, fresh)
	}

	if err := r.store.Commit(company, matched); err != nil {
		return nil, err
	}

	return fresh, nil
}

// notify delivers the new postings in batches. The notifier itself encodes
// whether delivery means Telegram or just the log. Failures are logged and
// the run continues; the commit that follows is deliberate (see Runner docs).
func (r *Runner) notify(company string, fresh []scraper.JobPosting) {
	for _, batch := range notifier.Batch(fresh, r.cfg.MaxJobsPerNotification) {
		if err := r.notifier.Notify(batch); err != nil {
			logger.ForCompany(company).Error().
				Err(err).
				Int("batch_size", len(batch)).
				Msg("Notification failed, postings will not be re-notified")
		}
	}
}

// publish forwards new postings to the optional downstream sink
func (r *Runner) publish(company string, fresh []scraper.JobPosting) {
	if r.publisher == nil {
		return
	}
	for _, p := range fresh {
		data, err := json.Marshal(p)
		if err != nil {
			logger.ForCompany(company).Error().Err(err).Msg("Cannot encode posting")
			continue
		}
		if err := r.publisher.Publish(company, data); err != nil {
			logger.ForCompany(company).Warn().Err(err).Msg("Publish failed")
		}
	}
}

// sendSummary reports the run outcome when the notifier supports it
func (r *Runner) sendSummary(result RunResult) {
	if !r.cfg.SendSummary {
		return
	}
	s, ok := r.notifier.(notifier.SummaryNotifier)
	if !ok {
		return
	}
	if err := s.NotifySummary(len(result.NewPostings), result.CompaniesProcessed, len(result.CompaniesFailed)); err != nil {
		r.log.Warn().Err(err).Msg("Summary notification failed")
	}
}

// pause waits for the request delay, returning false if the run was
// cancelled meanwhile.
func (r *Runner) pause(d time.Duration) bool {
	select {
	case <-r.ctx.Done():
		return false
	case <-time.After(d):
		return true
	}
}
