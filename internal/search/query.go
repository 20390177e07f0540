package search

import (
	"fmt"
	"strings"
)

// TrustedSites is the allow-list of Bengali news outlets used to boost queries.
var TrustedSites = []string{
	"prothomalo.com",
	"thedailystar.net",
	"bbc.com/bengali",
	"bdnews24.com",
	"jugantor.com",
	"ittefaq.com.bd",
	"samakal.com",
	"banglanews24.com",
}

// RecencyKeywords bias results towards recent coverage, most recent first.
var RecencyKeywords = []string{"সাম্প্রতিক", "আজ", "গত সপ্তাহ", "২০২৪", "২০২৩"}

// BoostSiteCount is how many trusted sites go into each boosted query.
const BoostSiteCount = 3

// querySuffixes produce the query variants: original, government sources,
// news coverage and fact-check coverage.
var querySuffixes = []string{"", " সরকারি", " সংবাদ", " সত্যতা"}

// ExpandQueries derives the fixed set of query variants for a claim.
func ExpandQueries(claim string) []string {
	queries := make([]string, len(querySuffixes))
	for i, suffix := range querySuffixes {
		queries[i] = claim + suffix
	}
	return queries
}

// Booster wraps queries with a site filter and a recency keyword.
type Booster struct {
	sites []string
}

// NewBooster creates a booster over the given site list. An empty list
// falls back to TrustedSites.
func NewBooster(sites []string) *Booster {
	if len(sites) == 0 {
		sites = TrustedSites
	}
	return &Booster{sites: sites}
}

// Boost returns `(site:a OR site:b OR site:c) (recency) "query"`.
func (b *Booster) Boost(query string) string {
	n := BoostSiteCount
	if len(b.sites) < n {
		n = len(b.sites)
	}

	filters := make([]string, n)
	for i, site := range b.sites[:n] {
		filters[i] = "site:" + site
	}

	return fmt.Sprintf("(%s) (%s) \"%s\"", strings.Join(filters, " OR "), RecencyKeywords[0], query)
}

// BuildQueries expands a claim and boosts every variant, preserving order.
func (b *Booster) BuildQueries(claim string) []string {
	queries := ExpandQueries(claim)
	for i, q := range queries {
		queries[i] = b.Boost(q)
	}
	return queries
}
