// Package search provides evidence search for claims: query expansion, the
// search provider client, concurrent fan-out and prompt context formatting.
package search

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/factchecker/satyata/internal/models"
	"github.com/rs/zerolog/log"
)

// Searcher defines the interface for search providers.
type Searcher interface {
	// Search runs one query and returns up to num organic results.
	Search(ctx context.Context, query string, num int) (*models.SearchContext, error)

	// Name returns the source name.
	Name() string
}

// MultiSearcher fans a claim out to every query variant concurrently.
type MultiSearcher struct {
	searcher Searcher
	booster  *Booster
	timeout  time.Duration
}

// NewMultiSearcher creates a new multi-query searcher. A zero timeout leaves
// the deadline to the caller's context.
func NewMultiSearcher(searcher Searcher, booster *Booster, timeout time.Duration) *MultiSearcher {
	if booster == nil {
		booster = NewBooster(nil)
	}
	return &MultiSearcher{
		searcher: searcher,
		booster:  booster,
		timeout:  timeout,
	}
}

// SearchAll runs every boosted query for the claim and returns one context
// per query in query order. A failed query yields an empty context and a
// warning; it never fails the whole batch.
func (m *MultiSearcher) SearchAll(ctx context.Context, claim string, num int) ([]models.SearchContext, []models.Warning) {
	if m.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.timeout)
		defer cancel()
	}

	queries := m.booster.BuildQueries(claim)
	contexts := make([]models.SearchContext, len(queries))
	errs := make([]error, len(queries))

	var wg sync.WaitGroup
	for i, q := range queries {
		wg.Add(1)
		go func(idx int, query string) {
			defer wg.Done()
			sc, err := m.searcher.Search(ctx, query, num)
			if err != nil {
				errs[idx] = err
				contexts[idx] = models.SearchContext{Query: query, TotalResults: "0", SearchTime: "0"}
				return
			}
			contexts[idx] = *sc
		}(i, q)
	}
	wg.Wait()

	var warnings []models.Warning
	failed := 0
	for i, err := range errs {
		if err == nil {
			continue
		}
		failed++
		log.Warn().Err(err).Int("query_index", i).Str("source", m.searcher.Name()).Msg("Search query failed, continuing without its results")
		warnings = append(warnings, models.Warning{
			Source:  m.searcher.Name(),
			Message: fmt.Sprintf("search %d failed", i+1),
		})
	}

	if failed == len(queries) {
		log.Warn().Str("source", m.searcher.Name()).Msg("All search queries failed, checking without search context")
		warnings = append(warnings, models.Warning{
			Source:  "search",
			Message: "Search unavailable; verdict is based on the model alone",
		})
	}

	return contexts, warnings
}

// CollectLinks returns every organic result link across contexts, in order.
func CollectLinks(contexts []models.SearchContext) []string {
	var links []string
	for _, sc := range contexts {
		for _, r := range sc.Results {
			if r.Link != "" {
				links = append(links, r.Link)
			}
		}
	}
	return links
}
