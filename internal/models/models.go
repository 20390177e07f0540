// Package models defines the core data structures used throughout the application.
package models

import (
	"time"
)

// Decision is the verdict assigned to a claim.
type Decision string

const (
	DecisionTrue          Decision = "true"
	DecisionFalse         Decision = "false"
	DecisionPartiallyTrue Decision = "partially_true"
)

// Valid reports whether d is one of the known decisions.
func (d Decision) Valid() bool {
	switch d {
	case DecisionTrue, DecisionFalse, DecisionPartiallyTrue:
		return true
	}
	return false
}

// Claim is a validated news snippet submitted for checking.
type Claim struct {
	Text     string `json:"text"`
	ImageURL string `json:"imageUrl,omitempty"`
}

// SearchResult is one organic hit returned by the search provider.
type SearchResult struct {
	Title   string `json:"title"`
	Link    string `json:"link"`
	Snippet string `json:"snippet"`
	Date    string `json:"date,omitempty"`
	Source  string `json:"source,omitempty"`
}

// AnswerBox is the provider's direct answer for a query, if any.
type AnswerBox struct {
	Answer string `json:"answer"`
	Title  string `json:"title"`
	Link   string `json:"link"`
}

// SearchContext holds everything one search query returned.
type SearchContext struct {
	Query        string         `json:"query"`
	Results      []SearchResult `json:"results"`
	AnswerBox    *AnswerBox     `json:"answerBox,omitempty"`
	TotalResults string         `json:"totalResults"`
	SearchTime   string         `json:"searchTime"`
}

// FactCheckResult is the verdict returned to callers.
type FactCheckResult struct {
	Decision                 Decision `json:"decision"`
	Confidence               int      `json:"confidence"`
	Summary                  string   `json:"summary"`
	InvestigationSuggestions []string `json:"investigationSuggestions"`
	Sources                  []string `json:"sources"`
}

// FactCheckRequest is the request body for the fact-check endpoint.
type FactCheckRequest struct {
	Text     string `json:"text"`
	ImageURL string `json:"imageUrl,omitempty"`
}

// FactCheckResponse is the API response for a fact-check request.
type FactCheckResponse struct {
	FactCheckResult
	Warnings []Warning `json:"warnings,omitempty"`
}

// UploadResponse is the API response for an image upload.
type UploadResponse struct {
	ImageURL string `json:"imageUrl"`
}

// Warning represents a non-fatal issue during processing.
type Warning struct {
	Source  string `json:"source"`
	Message string `json:"message"`
}

// AuditLog represents an API request audit entry.
type AuditLog struct {
	ID           string    `json:"id"`
	CallerHash   string    `json:"caller_hash"`
	Endpoint     string    `json:"endpoint"`
	Method       string    `json:"method"`
	RequestSize  int64     `json:"request_size"`
	ResponseCode int       `json:"response_code"`
	DurationMs   int64     `json:"duration_ms"`
	Timestamp    time.Time `json:"timestamp"`
}
