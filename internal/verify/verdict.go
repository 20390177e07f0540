// Package verify provides verdict decoding and validation of model output.
package verify

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"regexp"
	"strings"

	"github.com/factchecker/satyata/internal/models"
)

// Verdict is the outcome of decoding model output: either a validated result
// (Valid) or the fixed fallback together with the reason it was rejected.
type Verdict struct {
	Result models.FactCheckResult
	Valid  bool
	Err    error
}

// rawVerdict mirrors the expected JSON. Pointers distinguish absent fields
// from zero values.
type rawVerdict struct {
	Decision                 *string    `json:"decision"`
	Confidence               *float64   `json:"confidence"`
	Summary                  *string    `json:"summary"`
	InvestigationSuggestions *[]*string `json:"investigationSuggestions"`
	Sources                  *[]*string `json:"sources"`
}

var codeFence = regexp.MustCompile("(?s)^```(?:json)?\\s*(.*?)\\s*```$")

// DecodeVerdict parses and validates raw model output. It never returns an
// error: invalid output yields Fallback() with Valid false.
func DecodeVerdict(raw string) Verdict {
	result, err := decodeVerdict(raw)
	if err != nil {
		return Verdict{Result: Fallback(), Err: err}
	}
	return Verdict{Result: result, Valid: true}
}

func decodeVerdict(raw string) (models.FactCheckResult, error) {
	text := strings.TrimSpace(raw)
	if m := codeFence.FindStringSubmatch(text); len(m) > 1 {
		text = m[1]
	}
	text = extractObject(text)
	if text == "" {
		return models.FactCheckResult{}, errors.New("empty response")
	}

	dec := json.NewDecoder(bytes.NewReader([]byte(text)))
	var v rawVerdict
	if err := dec.Decode(&v); err != nil {
		return models.FactCheckResult{}, fmt.Errorf("invalid JSON: %w", err)
	}
	if dec.More() {
		return models.FactCheckResult{}, errors.New("trailing data after JSON object")
	}

	if v.Decision == nil {
		return models.FactCheckResult{}, errors.New("decision is required")
	}
	decision := models.Decision(*v.Decision)
	if !decision.Valid() {
		return models.FactCheckResult{}, fmt.Errorf("invalid decision %q", *v.Decision)
	}

	if v.Confidence == nil {
		return models.FactCheckResult{}, errors.New("confidence is required")
	}
	if math.IsNaN(*v.Confidence) || *v.Confidence < 0 || *v.Confidence > 100 {
		return models.FactCheckResult{}, fmt.Errorf("confidence %v out of range [0,100]", *v.Confidence)
	}

	if v.Summary == nil {
		return models.FactCheckResult{}, errors.New("summary is required")
	}

	if v.InvestigationSuggestions == nil {
		return models.FactCheckResult{}, errors.New("investigationSuggestions is required")
	}
	suggestions, err := stringList("investigationSuggestions", *v.InvestigationSuggestions)
	if err != nil {
		return models.FactCheckResult{}, err
	}

	sources := []string{}
	if v.Sources != nil {
		if sources, err = stringList("sources", *v.Sources); err != nil {
			return models.FactCheckResult{}, err
		}
	}

	return models.FactCheckResult{
		Decision:                 decision,
		Confidence:               int(math.Round(*v.Confidence)),
		Summary:                  *v.Summary,
		InvestigationSuggestions: suggestions,
		Sources:                  sources,
	}, nil
}

// extractObject drops any prose around a reply that does not start with a
// JSON object, keeping the span from the first '{' to the last '}'.
func extractObject(text string) string {
	if text == "" || text[0] == '{' {
		return text
	}
	start := strings.IndexByte(text, '{')
	end := strings.LastIndexByte(text, '}')
	if start < 0 || end < start {
		return text
	}
	return text[start : end+1]
}

func stringList(field string, items []*string) ([]string, error) {
	out := make([]string, len(items))
	for i, item := range items {
		if item == nil {
			return nil, fmt.Errorf("%s[%d] must be a string", field, i)
		}
		out[i] = *item
	}
	return out, nil
}

// Fallback returns the fixed result used when the model output is malformed.
func Fallback() models.FactCheckResult {
	return models.FactCheckResult{
		Decision:   models.DecisionPartiallyTrue,
		Confidence: 50,
		Summary:    "বিশ্লেষণ সম্পন্ন হয়েছে, কিন্তু প্রতিক্রিয়ার ফরম্যাট অপ্রত্যাশিত ছিল। অনুগ্রহ করে অতিরিক্ত সূত্রের মাধ্যমে তথ্য যাচাই করুন।",
		InvestigationSuggestions: []string{
			"তথ্যের উৎস যাচাই করুন",
			"এই বিষয়ে সাম্প্রতিক আপডেট দেখুন",
			"বহু নির্ভরযোগ্য সূত্রের সাথে তুলনা করুন",
		},
		Sources: []string{},
	}
}

// MergeSources returns model sources followed by search links, without
// duplicates or empty entries.
func MergeSources(modelSources, searchLinks []string) []string {
	seen := make(map[string]bool, len(modelSources)+len(searchLinks))
	merged := make([]string, 0, len(modelSources)+len(searchLinks))
	for _, list := range [][]string{modelSources, searchLinks} {
		for _, s := range list {
			s = strings.TrimSpace(s)
			if s == "" || seen[s] {
				continue
			}
			seen[s] = true
			merged = append(merged, s)
		}
	}
	return merged
}
