package search

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/factchecker/satyata/internal/models"
)

const (
	contextHeader    = "=== SEARCH RESULTS FOR FACT-CHECKING ===\n\n"
	contextSeparator = "---\n\n"
	truncationNotice = "\n[... search context truncated ...]\n"
)

// FormatContext renders search contexts into the grounding block sent to the
// LLM. Contexts without results are skipped. When maxChars is positive the
// block is cut to that many characters and a truncation notice is appended.
func FormatContext(contexts []models.SearchContext, maxChars int) string {
	var b strings.Builder
	b.WriteString(contextHeader)

	for i, sc := range contexts {
		if len(sc.Results) == 0 {
			continue
		}

		fmt.Fprintf(&b, "Search %d Results:\n", i+1)
		fmt.Fprintf(&b, "Total Results: %s\n", sc.TotalResults)
		fmt.Fprintf(&b, "Search Time: %sms\n\n", sc.SearchTime)

		for j, r := range sc.Results {
			fmt.Fprintf(&b, "%d. %s\n", j+1, r.Title)
			fmt.Fprintf(&b, "   Source: %s\n", r.Link)
			fmt.Fprintf(&b, "   Snippet: %s\n", r.Snippet)
			if r.Date != "" {
				fmt.Fprintf(&b, "   Date: %s\n", r.Date)
			}
			b.WriteString("\n")
		}

		if sc.AnswerBox != nil {
			fmt.Fprintf(&b, "Quick Answer: %s\n", sc.AnswerBox.Answer)
			fmt.Fprintf(&b, "Source: %s\n\n", sc.AnswerBox.Link)
		}

		b.WriteString(contextSeparator)
	}

	return truncate(b.String(), maxChars)
}

func truncate(s string, maxChars int) string {
	if maxChars <= 0 || utf8.RuneCountInString(s) <= maxChars {
		return s
	}

	n := 0
	for i := range s {
		if n == maxChars {
			return s[:i] + truncationNotice
		}
		n++
	}
	return s
}
