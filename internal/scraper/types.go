package scraper

import (
	"strings"
)

// JobPosting represents a single candidate posting scraped from a career
// page. Instances are ephemeral; only the identity key survives a run.
type JobPosting struct {
	Company  string `json:"company"`
	Title    string `json:"title"`
	URL      string `json:"url,omitempty"`
	Location string `json:"location,omitempty"`
}

// Key returns the normalized identity of the posting. Two postings with the
// same key are the same posting across runs.
func (p JobPosting) Key() string {
	return strings.ToLower(strings.TrimSpace(p.Title)) + "|" +
		strings.ToLower(strings.TrimSpace(p.Company)) + "|" +
		strings.TrimSpace(p.URL)
}

// Scraper interface defines the contract for all career page scrapers
type Scraper interface {
	// FetchPostings retrieves candidate postings from a career page
	FetchPostings() ([]JobPosting, error)

	// GetName returns the scraper's name for logging and identification
	GetName() string

	// GetCompany returns the company the scraper is configured for
	GetCompany() string
}

// Selectors contains CSS selectors for the elements of a posting list
type Selectors struct {
	List     string
	Title    string
	Link     string
	Location string
	// ClassFilter skips list entries carrying this class (promoted rows,
	// headers and similar noise).
	ClassFilter string
}

// SiteConfig contains configuration for a single company's scraper
type SiteConfig struct {
	Company   string
	URL       string
	BlockKey  string
	Selectors Selectors
}
