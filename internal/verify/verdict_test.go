package verify

import (
	"testing"

	"github.com/factchecker/satyata/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeVerdictValid(t *testing.T) {
	raw := `{"decision":"false","confidence":90,"summary":"দাবিটি মিথ্যা","investigationSuggestions":["সূত্র দেখুন"],"sources":["https://a.example"]}`

	v := DecodeVerdict(raw)
	require.True(t, v.Valid, "unexpected error: %v", v.Err)
	assert.Equal(t, models.DecisionFalse, v.Result.Decision)
	assert.Equal(t, 90, v.Result.Confidence)
	assert.Equal(t, "দাবিটি মিথ্যা", v.Result.Summary)
	assert.Equal(t, []string{"সূত্র দেখুন"}, v.Result.InvestigationSuggestions)
	assert.Equal(t, []string{"https://a.example"}, v.Result.Sources)
}

func TestDecodeVerdictCodeFence(t *testing.T) {
	raw := "```json\n{\"decision\":\"true\",\"confidence\":72.6,\"summary\":\"s\",\"investigationSuggestions\":[]}\n```"

	v := DecodeVerdict(raw)
	require.True(t, v.Valid, "unexpected error: %v", v.Err)
	assert.Equal(t, models.DecisionTrue, v.Result.Decision)
	assert.Equal(t, 73, v.Result.Confidence)
	assert.NotNil(t, v.Result.Sources)
	assert.Empty(t, v.Result.Sources)
}

func TestDecodeVerdictSurroundingProse(t *testing.T) {
	tests := []string{
		"Here is the JSON: ```json\n{\"decision\":\"false\",\"confidence\":65,\"summary\":\"s\",\"investigationSuggestions\":[\"x\"]}\n```",
		"Result:\n{\"decision\":\"false\",\"confidence\":65,\"summary\":\"s\",\"investigationSuggestions\":[\"x\"]}\nHope this helps.",
	}
	for _, raw := range tests {
		v := DecodeVerdict(raw)
		require.True(t, v.Valid, "unexpected error: %v", v.Err)
		assert.Equal(t, models.DecisionFalse, v.Result.Decision)
		assert.Equal(t, 65, v.Result.Confidence)
		assert.Equal(t, []string{"x"}, v.Result.InvestigationSuggestions)
	}
}

func TestDecodeVerdictRejects(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"empty", ""},
		{"not json", "আমি নিশ্চিত নই"},
		{"truncated", `{"decision":"true","confidence":`},
		{"array", `[1,2,3]`},
		{"trailing data", `{"decision":"true","confidence":1,"summary":"s","investigationSuggestions":[]} {"x":1}`},
		{"bad decision", `{"decision":"maybe","confidence":50,"summary":"s","investigationSuggestions":[]}`},
		{"missing decision", `{"confidence":50,"summary":"s","investigationSuggestions":[]}`},
		{"confidence too high", `{"decision":"true","confidence":150,"summary":"s","investigationSuggestions":[]}`},
		{"confidence negative", `{"decision":"true","confidence":-1,"summary":"s","investigationSuggestions":[]}`},
		{"confidence string", `{"decision":"true","confidence":"90","summary":"s","investigationSuggestions":[]}`},
		{"missing summary", `{"decision":"true","confidence":50,"investigationSuggestions":[]}`},
		{"missing suggestions", `{"decision":"true","confidence":50,"summary":"s"}`},
		{"suggestions wrong type", `{"decision":"true","confidence":50,"summary":"s","investigationSuggestions":"x"}`},
		{"null suggestion", `{"decision":"true","confidence":80,"summary":"s","investigationSuggestions":[null,"x"]}`},
		{"null source", `{"decision":"true","confidence":80,"summary":"s","investigationSuggestions":["x"],"sources":[null]}`},
		{"prose without object", "Here is my answer: the claim is false."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := DecodeVerdict(tt.raw)
			assert.False(t, v.Valid)
			assert.Error(t, v.Err)
			assert.Equal(t, Fallback(), v.Result)
		})
	}
}

func TestFallback(t *testing.T) {
	f := Fallback()
	assert.Equal(t, models.DecisionPartiallyTrue, f.Decision)
	assert.Equal(t, 50, f.Confidence)
	assert.NotEmpty(t, f.Summary)
	assert.Len(t, f.InvestigationSuggestions, 3)
	assert.NotNil(t, f.Sources)

	// Callers may mutate the returned slices.
	f.InvestigationSuggestions[0] = "changed"
	assert.NotEqual(t, "changed", Fallback().InvestigationSuggestions[0])
}

func TestMergeSources(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "c"}, MergeSources([]string{"a", "b"}, []string{"b", "c"}))
	assert.Equal(t, []string{"x"}, MergeSources(nil, []string{"x", " ", "x"}))
	assert.Equal(t, []string{}, MergeSources(nil, nil))
}
