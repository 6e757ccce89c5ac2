package scraper

import (
	"strings"

	"careerwatch/jobtracker/config"
	"careerwatch/jobtracker/logger"
)

// CreateScrapers creates one scraper per configured company. Companies with
// a selector set get the site adapter, the rest the generic one.
func CreateScrapers(cfg *config.Config, fetcher *Fetcher) []Scraper {
	log := logger.ForComponent("factory")

	var scrapers []Scraper
	for _, company := range cfg.Companies {
		siteConfig := SiteConfig{
			Company:  company.Name,
			URL:      company.URL,
			BlockKey: blockKeyFor(company.Name),
			Selectors: Selectors{
				List:        company.Selectors.List,
				Title:       company.Selectors.Title,
				Link:        company.Selectors.Link,
				Location:    company.Selectors.Location,
				ClassFilter: company.Selectors.ClassFilter,
			},
		}

		var sc Scraper
		if useSiteAdapter(company) {
			sc = NewSiteScraper(siteConfig, fetcher)
		} else {
			sc = NewGenericScraper(siteConfig, fetcher)
		}
		scrapers = append(scrapers, sc)

		log.Debug().
			Str("company", company.Name).
			Str("adapter", sc.GetName()).
			Str("url", company.URL).
			Msg("Created scraper")
	}

	return scrapers
}

// useSiteAdapter decides the adapter for a company. An explicit adapter
// setting wins; otherwise the presence of selectors selects the site one.
func useSiteAdapter(company config.Company) bool {
	switch company.Adapter {
	case config.AdapterSite:
		return true
	case config.AdapterGeneric:
		return false
	}
	return company.Selectors.List != ""
}

// blockKeyFor derives the cache key that marks a company as rate limited
func blockKeyFor(company string) string {
	slug := strings.ToLower(company)
	slug = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		default:
			return '_'
		}
	}, slug)
	return slug + "_blocked"
}
