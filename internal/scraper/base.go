package scraper

import (
	"io"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	jterrors "careerwatch/jobtracker/pkg/errors"
)

// BaseScraper provides common functionality for all scrapers
type BaseScraper struct {
	CompanyName string
	URL         string
	BlockKey    string
	Fetcher     *Fetcher

	// fetchFunc overrides the page fetch, used by tests
	fetchFunc func() (io.Reader, error)
}

// GetCompany returns the company the scraper is configured for
func (s *BaseScraper) GetCompany() string {
	return s.CompanyName
}

// fetchPage retrieves the raw page body
func (s *BaseScraper) fetchPage() (io.Reader, error) {
	if s.fetchFunc != nil {
		return s.fetchFunc()
	}
	return s.Fetcher.Fetch(s.CompanyName, s.URL, s.BlockKey)
}

// fetchDocument fetches the page and parses it into a goquery document
func (s *BaseScraper) fetchDocument() (*goquery.Document, error) {
	body, err := s.fetchPage()
	if err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(body)
	if err != nil {
		return nil, jterrors.NewParse(s.CompanyName, "cannot parse HTML", err)
	}
	return doc, nil
}

// resolveURL makes href absolute against the page URL. Unresolvable links
// are returned untouched.
func (s *BaseScraper) resolveURL(href string) string {
	href = strings.TrimSpace(href)
	if href == "" {
		return ""
	}
	base, err := url.Parse(s.URL)
	if err != nil {
		return href
	}
	ref, err := url.Parse(href)
	if err != nil {
		return href
	}
	return base.ResolveReference(ref).String()
}
