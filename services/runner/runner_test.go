package runner

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"careerwatch/jobtracker/internal/filter"
	"careerwatch/jobtracker/internal/scraper"
	jterrors "careerwatch/jobtracker/pkg/errors"
	"careerwatch/jobtracker/services/store"
)

// MockScraper implements the scraper.Scraper interface for testing
type MockScraper struct {
	company  string
	postings []scraper.JobPosting
	fetchErr error
}

var _ scraper.Scraper = (*MockScraper)(nil)

func (m *MockScraper) FetchPostings() ([]scraper.JobPosting, error) {
	return m.postings, m.fetchErr
}

func (m *MockScraper) GetName() string {
	return "MockScraper"
}

func (m *MockScraper) GetCompany() string {
	return m.company
}

// MemStore implements store.Store in memory for testing
type MemStore struct {
	partitions map[string]store.SeenSet
	loadErr    error
	commitErr  error
	commits    int
}

var _ store.Store = (*MemStore)(nil)

func NewMemStore() *MemStore {
	return &MemStore{partitions: make(map[string]store.SeenSet)}
}

func (m *MemStore) Load(company string) (store.SeenSet, error) {
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	seen := make(store.SeenSet, len(m.partitions[company]))
	for k, v := range m.partitions[company] {
		seen[k] = v
	}
	return seen, nil
}

func (m *MemStore) Commit(company string, current []scraper.JobPosting) error {
	if m.commitErr != nil {
		return m.commitErr
	}
	m.commits++
	seen := m.partitions[company]
	if seen == nil {
		seen = make(store.SeenSet)
		m.partitions[company] = seen
	}
	for _, p := range current {
		if _, ok := seen[p.Key()]; !ok {
			seen[p.Key()] = time.Now()
		}
	}
	return nil
}

// MockNotifier records every Notify call
type MockNotifier struct {
	batches   [][]scraper.JobPosting
	summaries int
	notifyErr error
}

func (m *MockNotifier) Notify(postings []scraper.JobPosting) error {
	m.batches = append(m.batches, postings)
	return m.notifyErr
}

func (m *MockNotifier) NotifySummary(newPostings, companiesProcessed, companiesFailed int) error {
	m.summaries++
	return nil
}

// MockPublisher records published messages
type MockPublisher struct {
	published []string
	trims     int
}

func (m *MockPublisher) Publish(company string, message []byte) error {
	m.published = append(m.published, company)
	return nil
}

func (m *MockPublisher) TrimStream() error {
	m.trims++
	return nil
}

func (m *MockPublisher) Close() error {
	return nil
}

func postings(company string, titles ...string) []scraper.JobPosting {
	var ps []scraper.JobPosting
	for i, title := range titles {
		ps = append(ps, scraper.JobPosting{
			Company: company,
			Title:   title,
			URL:     company + ".example/jobs/" + string(rune('a'+i)),
		})
	}
	return ps
}

func newTestRunner(scrapers []scraper.Scraper, st store.Store, n *MockNotifier, cfg Config) *Runner {
	return New(
		context.Background(),
		scrapers,
		filter.NewKeywordMatcher([]string{"manager"}),
		st,
		n,
		nil,
		cfg,
	)
}

func TestFirstRunEverythingIsNew(t *testing.T) {
	st := NewMemStore()
	n := &MockNotifier{}
	scrapers := []scraper.Scraper{
		&MockScraper{company: "Acme", postings: postings("Acme", "Project Manager", "Backend Engineer", "Program Manager")},
	}

	r := newTestRunner(scrapers, st, n, Config{
		MaxJobsPerNotification: 10,
	})
	result := r.Run()

	assert.Equal(t, 1, result.CompaniesProcessed)
	assert.Empty(t, result.CompaniesFailed)
	require.Len(t, result.NewPostings, 2, "only matched postings count")
	assert.Equal(t, "Project Manager", result.NewPostings[0].Title)
	assert.Equal(t, "Program Manager", result.NewPostings[1].Title)

	require.Len(t, n.batches, 1)
	assert.Len(t, n.batches[0], 2)
	assert.Equal(t, 1, st.commits)
}

func TestRerunWithIdenticalContentIsIdempotent(t *testing.T) {
	st := NewMemStore()
	n := &MockNotifier{}
	sc := &MockScraper{company: "Acme", postings: postings("Acme", "Project Manager", "Program Manager")}

	cfg := Config{MaxJobsPerNotification: 10}

	first := newTestRunner([]scraper.Scraper{sc}, st, n, cfg).Run()
	require.Len(t, first.NewPostings, 2)

	second := newTestRunner([]scraper.Scraper{sc}, st, n, cfg).Run()
	assert.Empty(t, second.NewPostings, "identical content must yield zero new postings")
	assert.Len(t, n.batches, 1, "nothing new, nothing notified")
}

func TestFailingCompanyDoesNotAbortOthers(t *testing.T) {
	st := NewMemStore()
	n := &MockNotifier{}
	scrapers := []scraper.Scraper{
		&MockScraper{company: "Acme", fetchErr: jterrors.NewFetch("Acme", "exhausted retries", errors.New("boom"))},
		&MockScraper{company: "Globex", postings: postings("Globex", "Engineering Manager")},
	}

	r := newTestRunner(scrapers, st, n, Config{
		MaxJobsPerNotification: 10,
	})
	result := r.Run()

	assert.Equal(t, 2, result.CompaniesProcessed)
	require.Len(t, result.CompaniesFailed, 1)
	assert.Equal(t, "Acme", result.CompaniesFailed[0].Company)
	require.Len(t, result.NewPostings, 1)
	assert.Equal(t, "Globex", result.NewPostings[0].Company)
}

func TestParseProblemsDegradeToZeroPostings(t *testing.T) {
	st := NewMemStore()
	n := &MockNotifier{}
	scrapers := []scraper.Scraper{
		&MockScraper{company: "Acme", fetchErr: jterrors.NewParse("Acme", "cannot parse HTML", errors.New("bad markup"))},
	}

	result := newTestRunner(scrapers, st, n, Config{MaxJobsPerNotification: 10}).Run()

	assert.Empty(t, result.CompaniesFailed, "parse problems are not company failures")
	assert.Empty(t, result.NewPostings)
}

func TestNotificationBatching(t *testing.T) {
	titles := make([]string, 25)
	for i := range titles {
		titles[i] = "Project Manager " + string(rune('A'+i))
	}

	st := NewMemStore()
	n := &MockNotifier{}
	scrapers := []scraper.Scraper{
		&MockScraper{company: "Acme", postings: postings("Acme", titles...)},
	}

	newTestRunner(scrapers, st, n, Config{
		MaxJobsPerNotification: 10,
	}).Run()

	require.Len(t, n.batches, 3)
	assert.Len(t, n.batches[0], 10)
	assert.Len(t, n.batches[1], 10)
	assert.Len(t, n.batches[2], 5)
}

func TestCommitHappensEvenWhenNotifyFails(t *testing.T) {
	st := NewMemStore()
	n := &MockNotifier{notifyErr: jterrors.NewNotify("Acme", "delivery failed", errors.New("telegram down"))}
	sc := &MockScraper{company: "Acme", postings: postings("Acme", "Project Manager")}

	cfg := Config{MaxJobsPerNotification: 10}

	first := newTestRunner([]scraper.Scraper{sc}, st, n, cfg).Run()
	assert.Empty(t, first.CompaniesFailed)
	assert.Equal(t, 1, st.commits, "commit policy: commit despite notify failure")

	// Next run must not re-notify the same posting.
	n.notifyErr = nil
	second := newTestRunner([]scraper.Scraper{sc}, st, n, cfg).Run()
	assert.Empty(t, second.NewPostings)
}

func TestStoreErrorFailsCompany(t *testing.T) {
	st := NewMemStore()
	st.loadErr = jterrors.NewStore("Acme", "seen set is corrupt", errors.New("bad json"))
	n := &MockNotifier{}
	sc := &MockScraper{company: "Acme", postings: postings("Acme", "Project Manager")}

	result := newTestRunner([]scraper.Scraper{sc}, st, n, Config{MaxJobsPerNotification: 10}).Run()

	require.Len(t, result.CompaniesFailed, 1)
	assert.Empty(t, n.batches, "no notification without a trustworthy seen set")
	assert.Equal(t, 0, st.commits)
}

func TestStandInNotifierStillReceivesPostings(t *testing.T) {
	// With notifications disabled the log notifier is wired in place of
	// Telegram. The runner must still hand it every new posting; otherwise
	// disabled runs surface nothing.
	st := NewMemStore()
	n := &MockNotifier{}
	sc := &MockScraper{company: "Acme", postings: postings("Acme", "Project Manager")}

	result := newTestRunner([]scraper.Scraper{sc}, st, n, Config{
		MaxJobsPerNotification: 10,
	}).Run()

	require.Len(t, result.NewPostings, 1)
	require.Len(t, n.batches, 1, "the stand-in notifier must receive the new postings")
	assert.Len(t, n.batches[0], 1)
	assert.Equal(t, 1, st.commits)
}

func TestSummaryNotification(t *testing.T) {
	st := NewMemStore()
	n := &MockNotifier{}
	sc := &MockScraper{company: "Acme", postings: postings("Acme", "Project Manager")}

	newTestRunner([]scraper.Scraper{sc}, st, n, Config{
		SendSummary:            true,
		MaxJobsPerNotification: 10,
	}).Run()
	assert.Equal(t, 1, n.summaries)

	newTestRunner([]scraper.Scraper{sc}, st, n, Config{
		SendSummary:            false,
		MaxJobsPerNotification: 10,
	}).Run()
	assert.Equal(t, 1, n.summaries, "summary disabled")
}

func TestPublisherReceivesNewPostings(t *testing.T) {
	st := NewMemStore()
	n := &MockNotifier{}
	pub := &MockPublisher{}
	sc := &MockScraper{company: "Acme", postings: postings("Acme", "Project Manager", "Program Manager")}

	r := New(
		context.Background(),
		[]scraper.Scraper{sc},
		filter.NewKeywordMatcher(nil),
		st,
		n,
		pub,
		Config{MaxJobsPerNotification: 10},
	)
	r.Run()

	assert.Equal(t, []string{"Acme", "Acme"}, pub.published)
	assert.Equal(t, 1, pub.trims)
}

func TestCancelledContextStopsRun(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	st := NewMemStore()
	n := &MockNotifier{}
	r := New(
		ctx,
		[]scraper.Scraper{&MockScraper{company: "Acme", postings: postings("Acme", "Project Manager")}},
		filter.NewKeywordMatcher(nil),
		st,
		n,
		nil,
		Config{MaxJobsPerNotification: 10},
	)

	result := r.Run()
	assert.Equal(t, 0, result.CompaniesProcessed)
}
