// Package verify provides the main fact-checking engine.
package verify

import (
	"context"
	"fmt"
	"time"

	"github.com/factchecker/satyata/internal/config"
	"github.com/factchecker/satyata/internal/llm"
	"github.com/factchecker/satyata/internal/models"
	"github.com/factchecker/satyata/internal/search"
	"github.com/rs/zerolog/log"
)

// Report is the outcome of one fact-check.
type Report struct {
	Result   models.FactCheckResult
	Fallback bool // the model output was rejected and Result is Fallback()
	Warnings []models.Warning
}

// Options tunes the engine; zero values take the defaults.
type Options struct {
	ResultsPerQuery int
	MaxContextChars int
	Temperature     float64
	MaxTokens       int
}

// OptionsFromConfig derives engine options from configuration.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		ResultsPerQuery: cfg.Search.ResultsPerQuery,
		MaxContextChars: cfg.Search.MaxContextChars,
		Temperature:     cfg.LLM.Temperature,
		MaxTokens:       cfg.LLM.MaxTokens,
	}
}

// Engine orchestrates the complete fact-checking pipeline.
type Engine struct {
	searcher *search.MultiSearcher
	provider llm.Provider
	opts     Options
}

// NewEngine creates a new fact-checking engine.
func NewEngine(searcher *search.MultiSearcher, provider llm.Provider, opts Options) *Engine {
	if opts.ResultsPerQuery <= 0 {
		opts.ResultsPerQuery = 3
	}
	if opts.MaxTokens <= 0 {
		opts.MaxTokens = 1000
	}
	return &Engine{
		searcher: searcher,
		provider: provider,
		opts:     opts,
	}
}

// Check searches for context on the claim and asks the model for a verdict.
// Search problems degrade to warnings and a malformed model answer degrades
// to Fallback(); only a failing LLM call is returned as an error.
func (e *Engine) Check(ctx context.Context, claim models.Claim) (*Report, error) {
	startTime := time.Now()

	// Step 1: Gather search context
	log.Info().Msg("Step 1: Searching for context")
	contexts, warnings := e.searcher.SearchAll(ctx, claim.Text, e.opts.ResultsPerQuery)
	searchContext := search.FormatContext(contexts, e.opts.MaxContextChars)
	links := search.CollectLinks(contexts)
	log.Info().Int("links", len(links)).Int("warnings", len(warnings)).Msg("Search context gathered")

	// Step 2: Ask the model
	log.Info().Str("provider", e.provider.Name()).Msg("Step 2: Requesting verdict")
	req := llm.Request{
		System:      systemPrompt,
		User:        buildUserPrompt(claim, searchContext),
		JSONMode:    true,
		Temperature: e.opts.Temperature,
		MaxTokens:   e.opts.MaxTokens,
	}
	if claim.ImageURL != "" && e.provider.SupportsImages() {
		req.ImageURL = claim.ImageURL
	}

	raw, err := e.provider.Complete(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("failed to fact-check: %w", err)
	}

	// Step 3: Validate
	verdict := DecodeVerdict(raw)
	if !verdict.Valid {
		log.Warn().Err(verdict.Err).Int("raw_length", len(raw)).Msg("Model response rejected, using fallback verdict")
	}

	result := verdict.Result
	if verdict.Valid {
		result.Sources = MergeSources(result.Sources, links)
	}

	log.Info().
		Str("decision", string(result.Decision)).
		Int("confidence", result.Confidence).
		Bool("fallback", !verdict.Valid).
		Int("sources", len(result.Sources)).
		Dur("duration", time.Since(startTime)).
		Msg("Fact-check complete")

	return &Report{
		Result:   result,
		Fallback: !verdict.Valid,
		Warnings: warnings,
	}, nil
}
