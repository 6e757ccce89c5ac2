package scraper

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"careerwatch/jobtracker/helpers"
	"careerwatch/jobtracker/logger"
	jterrors "careerwatch/jobtracker/pkg/errors"
	"careerwatch/jobtracker/services/cache"
)

// blockDuration is how long a site stays blocked after rate limiting a run.
// The block key lives in the cache service, so it spans scheduled runs.
const blockDuration = 30 * time.Minute

// FetchConfig controls timeout and retry behavior of the fetcher
type FetchConfig struct {
	Timeout       time.Duration
	RetryAttempts int
	RetryDelay    time.Duration
}

// Fetcher retrieves career pages with retry and exponential backoff.
// Transient failures (timeouts, connection errors, 5xx, 429) are retried
// with the delay doubling per attempt; other 4xx fail immediately. A numeric
// Retry-After on a 429 overrides the next delay.
type Fetcher struct {
	client   *http.Client
	cfg      FetchConfig
	cacheSvc cache.CacheService
	sleep    func(time.Duration)
}

// NewFetcher creates a fetcher. cacheSvc may be nil, which disables the
// cross-run rate-limit blocking.
func NewFetcher(cfg FetchConfig, cacheSvc cache.CacheService) *Fetcher {
	return &Fetcher{
		client:   &http.Client{Timeout: cfg.Timeout},
		cfg:      cfg,
		cacheSvc: cacheSvc,
		sleep:    time.Sleep,
	}
}

// Fetch retrieves the page at url for the given company. blockKey names the
// cache entry used to suppress fetches after a 429; it may be empty.
func (f *Fetcher) Fetch(company, url, blockKey string) (io.Reader, error) {
	if f.cacheSvc != nil && blockKey != "" {
		if _, err := f.cacheSvc.Get(blockKey); err == nil {
			return nil, jterrors.NewFetch(company,
				fmt.Sprintf("%s is blocked after a previous rate limit", url), nil)
		}
	}

	delay := f.cfg.RetryDelay
	var lastErr error

	for attempt := 1; attempt <= f.cfg.RetryAttempts; attempt++ {
		body, err := helpers.Fetch(f.client, url)
		if err == nil {
			return body, nil
		}
		lastErr = err

		var statusErr *helpers.HTTPStatusError
		if errors.As(err, &statusErr) {
			if statusErr.RateLimited() {
				f.setBlock(company, blockKey)
				if d := retryAfterDelay(statusErr.RetryAfter); d > 0 {
					delay = d
				}
			} else if statusErr.StatusCode >= 400 && statusErr.StatusCode < 500 {
				// Permanent client error, retrying will not help.
				return nil, jterrors.NewFetch(company, "request rejected", err)
			}
		}

		if attempt < f.cfg.RetryAttempts {
			logger.ForCompany(company).Warn().
				Err(err).
				Int("attempt", attempt).
				Int("max_attempts", f.cfg.RetryAttempts).
				Dur("delay", delay).
				Msg("Fetch failed, retrying")
			f.sleep(delay)
			delay *= 2
		}
	}

	return nil, jterrors.NewFetch(company,
		fmt.Sprintf("exhausted %d attempts for %s", f.cfg.RetryAttempts, url), lastErr)
}

// retryAfterDelay parses a Retry-After header given in seconds. The HTTP-date
// form is ignored.
func retryAfterDelay(value string) time.Duration {
	secs, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil || secs <= 0 {
		return 0
	}
	return time.Duration(secs) * time.Second
}

// setBlock records a cross-run block key after a rate-limited response
func (f *Fetcher) setBlock(company, blockKey string) {
	if f.cacheSvc == nil || blockKey == "" {
		return
	}
	value := []byte(fmt.Sprintf("%d", int(blockDuration.Seconds())))
	if err := f.cacheSvc.Set(blockKey, value, blockDuration); err != nil {
		logger.ForCompany(company).Warn().Err(err).Msg("Failed to set rate limit block")
	}
}
