package types

import (
	"net/url"
	"strings"
)

// Strategy names an extraction strategy.
type Strategy string

const (
	StrategyListing  Strategy = "listing"
	StrategyTable    Strategy = "table"
	StrategyHeadings Strategy = "headings"
	StrategyPDFLinks Strategy = "pdf-links"
	StrategyFeed     Strategy = "feed"
)

// Source modes.
const (
	// ModeAll scrapes every page and concatenates the results.
	ModeAll = "all"

	// ModeFirstWorking stops at the first page that fetches and yields candidates.
	ModeFirstWorking = "first-working"
)

// PageSpec is one page of a source.
type PageSpec struct {
	URL        string     `json:"url"`
	Channel    Channel    `json:"channel,omitempty"`
	Strategies []Strategy `json:"strategies,omitempty"`
}

// Source describes one scraped site. It is immutable once built.
type Source struct {
	Name       string
	BaseURL    string
	Pages      []PageSpec
	Strategies []Strategy
	Fetcher    string
	Mode       string

	// LinkBase, when set, replaces the page URL as the base for relative links.
	LinkBase string
}

// StrategiesFor returns the strategy chain for a page: the page override if
// set, else the source default.
func (s *Source) StrategiesFor(p PageSpec) []Strategy {
	if len(p.Strategies) > 0 {
		return p.Strategies
	}
	return s.Strategies
}

// LinkBaseFor returns the URL relative links on a fetched page resolve
// against: LinkBase if set, else the source base URL. Pages served from
// another host resolve against their own URL.
func (s *Source) LinkBaseFor(page *Page) string {
	if s.LinkBase != "" {
		return s.LinkBase
	}
	if s.BaseURL != "" && sameHost(s.BaseURL, page.BaseURL()) {
		return s.BaseURL
	}
	return page.BaseURL()
}

func sameHost(a, b string) bool {
	ua, err := url.Parse(a)
	if err != nil {
		return false
	}
	ub, err := url.Parse(b)
	if err != nil {
		return false
	}
	return ua.Hostname() != "" && strings.EqualFold(ua.Hostname(), ub.Hostname())
}
