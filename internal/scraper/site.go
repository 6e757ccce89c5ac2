package scraper

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// SiteScraper extracts postings with CSS selectors configured per company.
// One selector set per distinguishable markup pattern.
type SiteScraper struct {
	BaseScraper
	Selectors Selectors
}

// NewSiteScraper creates a new selector-configured scraper
func NewSiteScraper(config SiteConfig, fetcher *Fetcher) *SiteScraper {
	return &SiteScraper{
		BaseScraper: BaseScraper{
			CompanyName: config.Company,
			URL:         config.URL,
			BlockKey:    config.BlockKey,
			Fetcher:     fetcher,
		},
		Selectors: config.Selectors,
	}
}

// GetName returns the scraper name
func (s *SiteScraper) GetName() string {
	return "SiteScraper"
}

// FetchPostings fetches the career page and extracts postings based on the
// configured selectors. Markup that matches nothing yields zero postings.
func (s *SiteScraper) FetchPostings() ([]JobPosting, error) {
	doc, err := s.fetchDocument()
	if err != nil {
		return nil, err
	}

	var postings []JobPosting
	doc.Find(s.Selectors.List).Each(func(i int, sel *goquery.Selection) {
		if posting := s.processPosting(sel); posting != nil {
			postings = append(postings, *posting)
		}
	})

	return postings, nil
}

// processPosting extracts a single posting from a list entry
func (s *SiteScraper) processPosting(sel *goquery.Selection) *JobPosting {
	if s.Selectors.ClassFilter != "" && sel.HasClass(s.Selectors.ClassFilter) {
		return nil
	}

	title := s.extractTitle(sel)
	if title == "" {
		return nil
	}

	var link string
	if s.Selectors.Link != "" {
		if href, exists := sel.Find(s.Selectors.Link).Attr("href"); exists {
			link = s.resolveURL(href)
		}
	}
	if link == "" {
		// The entry itself may be the anchor.
		if href, exists := sel.Attr("href"); exists {
			link = s.resolveURL(href)
		}
	}

	var location string
	if s.Selectors.Location != "" {
		location = strings.TrimSpace(sel.Find(s.Selectors.Location).Text())
	}

	return &JobPosting{
		Company:  s.CompanyName,
		Title:    title,
		URL:      link,
		Location: location,
	}
}

// extractTitle prefers the title attribute over element text, since several
// boards truncate the visible text.
func (s *SiteScraper) extractTitle(sel *goquery.Selection) string {
	titleSel := sel
	if s.Selectors.Title != "" {
		titleSel = sel.Find(s.Selectors.Title)
	}
	if titleSel.Length() == 0 {
		return ""
	}

	if titleAttr, exists := titleSel.Attr("title"); exists && titleAttr != "" {
		return strings.TrimSpace(titleAttr)
	}
	return strings.TrimSpace(titleSel.First().Text())
}
