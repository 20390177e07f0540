// Package search provides Serper web search implementation.
package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/factchecker/satyata/internal/config"
	"github.com/factchecker/satyata/internal/models"
	"github.com/rs/zerolog/log"
	"golang.org/x/net/html"
	"golang.org/x/time/rate"
)

// DefaultResultCount is used when a caller passes a non-positive count.
const DefaultResultCount = 5

const providerSerper = "serper"

// SerperClient searches Google through the Serper API, scoped to Bangladesh
// and the Bengali language.
type SerperClient struct {
	apiKey     string
	endpoint   string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewSerperClient creates a new Serper client.
func NewSerperClient(cfg *config.SearchConfig) *SerperClient {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	limit := rate.Inf
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
	}

	return &SerperClient{
		apiKey:     cfg.APIKey,
		endpoint:   cfg.Endpoint,
		httpClient: &http.Client{Timeout: timeout},
		limiter:    rate.NewLimiter(limit, len(querySuffixes)),
	}
}

// Name returns the source name.
func (c *SerperClient) Name() string {
	return "Serper"
}

type serperRequest struct {
	Q    string `json:"q"`
	Num  int    `json:"num"`
	GL   string `json:"gl"`
	HL   string `json:"hl"`
	Safe string `json:"safe"`
	Type string `json:"type"`
}

type serperResponse struct {
	SearchInformation *struct {
		TotalResults string `json:"totalResults"`
		Time         string `json:"time"`
	} `json:"searchInformation"`
	Organic []struct {
		Title   string `json:"title"`
		Link    string `json:"link"`
		Snippet string `json:"snippet"`
		Date    string `json:"date"`
		Source  string `json:"source"`
	} `json:"organic"`
	AnswerBox *struct {
		Answer string `json:"answer"`
		Title  string `json:"title"`
		Link   string `json:"link"`
	} `json:"answerBox"`
}

// Search runs one query and returns what the provider reported for it.
func (c *SerperClient) Search(ctx context.Context, query string, num int) (*models.SearchContext, error) {
	if num <= 0 {
		num = DefaultResultCount
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, &models.ProviderError{Provider: providerSerper, Err: err}
	}

	body, err := json.Marshal(serperRequest{
		Q:    query,
		Num:  num,
		GL:   "bd",
		HL:   "bn",
		Safe: "active",
		Type: "search",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("X-API-KEY", c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	log.Debug().Str("query", query).Int("num", num).Msg("Serper: Searching")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &models.ProviderError{Provider: providerSerper, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		log.Debug().Int("status", resp.StatusCode).Str("body", string(detail)).Msg("Serper: Error response")
		return nil, &models.ProviderError{
			Provider:   providerSerper,
			StatusCode: resp.StatusCode,
			Status:     http.StatusText(resp.StatusCode),
		}
	}

	var data serperResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, &models.ProviderError{Provider: providerSerper, Err: fmt.Errorf("failed to decode response: %w", err)}
	}

	sc := &models.SearchContext{
		Query:        query,
		Results:      make([]models.SearchResult, 0, len(data.Organic)),
		TotalResults: "0",
		SearchTime:   "0",
	}
	if data.SearchInformation != nil {
		if data.SearchInformation.TotalResults != "" {
			sc.TotalResults = data.SearchInformation.TotalResults
		}
		if data.SearchInformation.Time != "" {
			sc.SearchTime = data.SearchInformation.Time
		}
	}

	for _, o := range data.Organic {
		sc.Results = append(sc.Results, models.SearchResult{
			Title:   clean(o.Title),
			Link:    o.Link,
			Snippet: clean(o.Snippet),
			Date:    o.Date,
			Source:  o.Source,
		})
	}

	if data.AnswerBox != nil {
		sc.AnswerBox = &models.AnswerBox{
			Answer: clean(data.AnswerBox.Answer),
			Title:  clean(data.AnswerBox.Title),
			Link:   data.AnswerBox.Link,
		}
	}

	log.Debug().Int("count", len(sc.Results)).Str("total", sc.TotalResults).Msg("Serper: Search completed")
	return sc, nil
}

// clean decodes HTML entities and collapses whitespace in provider text.
func clean(s string) string {
	return strings.Join(strings.Fields(html.UnescapeString(s)), " ")
}
