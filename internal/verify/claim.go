package verify

import (
	"fmt"
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/factchecker/satyata/internal/models"
	"golang.org/x/text/unicode/norm"
)

const (
	MinClaimLength = 10
	MaxClaimLength = 5000
)

// ValidateClaim normalizes the submitted text and image URL and rejects input
// outside the accepted bounds. It performs no I/O.
func ValidateClaim(text, imageURL string) (models.Claim, error) {
	text = strings.TrimSpace(norm.NFC.String(text))

	n := utf8.RuneCountInString(text)
	if n < MinClaimLength {
		return models.Claim{}, &models.ValidationError{
			Field:   "text",
			Message: fmt.Sprintf("Text must be at least %d characters", MinClaimLength),
		}
	}
	if n > MaxClaimLength {
		return models.Claim{}, &models.ValidationError{
			Field:   "text",
			Message: fmt.Sprintf("Text must be less than %d characters", MaxClaimLength),
		}
	}

	imageURL = strings.TrimSpace(imageURL)
	if imageURL != "" {
		u, err := url.ParseRequestURI(imageURL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return models.Claim{}, &models.ValidationError{Field: "imageUrl", Message: "Invalid url"}
		}
	}

	return models.Claim{Text: text, ImageURL: imageURL}, nil
}
