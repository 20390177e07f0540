package verify

import (
	"errors"
	"strings"
	"testing"

	"github.com/factchecker/satyata/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateClaim(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		imageURL string
		field    string
	}{
		{"valid bengali", "ঢাকা শহরে আজ ভারী বৃষ্টি হবে", "", ""},
		{"valid with image", "ঢাকা শহরে আজ ভারী বৃষ্টি হবে", "https://i.ibb.co/abc/photo.jpg", ""},
		{"too short", "ছোট", "", "text"},
		{"whitespace padded short", "   ছোট খবর   ", "", "text"},
		{"too long", strings.Repeat("ক", MaxClaimLength+1), "", "text"},
		{"relative image", "ঢাকা শহরে আজ ভারী বৃষ্টি হবে", "/photo.jpg", "imageUrl"},
		{"non http image", "ঢাকা শহরে আজ ভারী বৃষ্টি হবে", "ftp://host/photo.jpg", "imageUrl"},
		{"garbage image", "ঢাকা শহরে আজ ভারী বৃষ্টি হবে", "not a url", "imageUrl"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claim, err := ValidateClaim(tt.text, tt.imageURL)
			if tt.field == "" {
				require.NoError(t, err)
				assert.Equal(t, strings.TrimSpace(tt.text), claim.Text)
				assert.Equal(t, tt.imageURL, claim.ImageURL)
				return
			}
			var verr *models.ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Equal(t, tt.field, verr.Field)
		})
	}
}

func TestValidateClaimCountsRunes(t *testing.T) {
	// Ten Bengali letters are thirty bytes but still meet the minimum.
	_, err := ValidateClaim(strings.Repeat("ক", MinClaimLength), "")
	assert.NoError(t, err)

	_, err = ValidateClaim(strings.Repeat("ক", MaxClaimLength), "")
	assert.NoError(t, err)
}

func TestValidateClaimNormalizesNFC(t *testing.T) {
	// The vowel sign O composes from E + AA under NFC.
	decomposed := "\u0995\u09c7\u09be\u09a8 \u0996\u09ac\u09b0 \u09a8\u09c7\u0987"
	composed := "\u0995\u09cb\u09a8 \u0996\u09ac\u09b0 \u09a8\u09c7\u0987"

	claim, err := ValidateClaim(decomposed, "")
	require.NoError(t, err)
	assert.Equal(t, composed, claim.Text)
}
