package scraper

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// genericSelectors are the common patterns career pages use for posting
// links. Extraction through them is best-effort: sites with incompatible
// markup simply yield nothing.
var genericSelectors = []string{
	`a[href*="job"]`,
	`a[href*="career"]`,
	`a[href*="position"]`,
	"a.job-title",
	"a.career-link",
	`[class*="job"] a`,
	`[class*="career"] a`,
	`[class*="position"] a`,
}

// GenericScraper extracts postings heuristically from career pages whose
// markup has no dedicated selector configuration.
type GenericScraper struct {
	BaseScraper
}

// NewGenericScraper creates a new heuristic scraper
func NewGenericScraper(config SiteConfig, fetcher *Fetcher) *GenericScraper {
	return &GenericScraper{
		BaseScraper: BaseScraper{
			CompanyName: config.Company,
			URL:         config.URL,
			BlockKey:    config.BlockKey,
			Fetcher:     fetcher,
		},
	}
}

// GetName returns the scraper name
func (s *GenericScraper) GetName() string {
	return "GenericScraper"
}

// FetchPostings fetches the career page and collects every link matching any
// of the common posting patterns. Links are deduplicated within the page,
// first occurrence wins.
func (s *GenericScraper) FetchPostings() ([]JobPosting, error) {
	doc, err := s.fetchDocument()
	if err != nil {
		return nil, err
	}

	var postings []JobPosting
	seen := make(map[string]struct{})

	for _, selector := range genericSelectors {
		doc.Find(selector).Each(func(i int, sel *goquery.Selection) {
			href, exists := sel.Attr("href")
			if !exists {
				return
			}

			title := strings.TrimSpace(sel.Text())
			if title == "" {
				return
			}

			link := s.resolveURL(href)
			key := strings.ToLower(title) + "|" + link
			if _, dup := seen[key]; dup {
				return
			}
			seen[key] = struct{}{}

			postings = append(postings, JobPosting{
				Company: s.CompanyName,
				Title:   title,
				URL:     link,
			})
		})
	}

	return postings, nil
}
