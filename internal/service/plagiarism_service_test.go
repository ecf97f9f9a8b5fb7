package service

import (
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeFlatShape(t *testing.T) {
	svc := NewPlagiarismService(zerolog.Nop())

	raw := json.RawMessage(`{
		"plagiarism": 18.5,
		"originality": 81.5,
		"id": 42,
		"sources": [
			{"url": "https://a.example", "title": "A", "similarity": 12.0},
			{"url": "https://b.example", "title": "B", "similarity": 6.5}
		]
	}`)

	summary, err := svc.Normalize(raw)
	require.NoError(t, err)

	assert.Equal(t, 18.5, summary.PlagiarismScore)
	assert.Equal(t, 81.5, summary.OriginalityScore)
	assert.Equal(t, "42", summary.ReportID)
	assert.Equal(t, 2, summary.MatchesCount)
}

func TestNormalizeEnvelopeShapeTakesPriority(t *testing.T) {
	svc := NewPlagiarismService(zerolog.Nop())

	// The top-level object also looks flat; the data payload must win.
	raw := json.RawMessage(`{
		"plagiarism": 99,
		"data": {"similarity": 25, "id": "rep-7"}
	}`)

	summary, err := svc.Normalize(raw)
	require.NoError(t, err)

	assert.Equal(t, 25.0, summary.PlagiarismScore)
	assert.Equal(t, "rep-7", summary.ReportID)
}

func TestNormalizeSummaryShape(t *testing.T) {
	svc := NewPlagiarismService(zerolog.Nop())

	raw := json.RawMessage(`{
		"summary": {"overallScore": 40},
		"sources": [{"link": "https://c.example"}]
	}`)

	summary, err := svc.Normalize(raw)
	require.NoError(t, err)

	assert.Equal(t, 40.0, summary.PlagiarismScore)
	assert.Equal(t, 60.0, summary.OriginalityScore, "originality defaults to the complement")
	require.Len(t, summary.Sources, 1)
	assert.Equal(t, "https://c.example", summary.Sources[0].URL)
	assert.Equal(t, "https://c.example", summary.Sources[0].Title, "title falls back to the URL")
}

func TestNormalizeScoreFieldAliases(t *testing.T) {
	svc := NewPlagiarismService(zerolog.Nop())

	tests := []struct {
		name string
		raw  string
	}{
		{"plagiarism", `{"plagiarism": 33}`},
		{"similarity", `{"similarity": 33}`},
		{"plagiat", `{"plagiat": 33}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			summary, err := svc.Normalize(json.RawMessage(tt.raw))
			require.NoError(t, err)
			assert.Equal(t, 33.0, summary.PlagiarismScore)
		})
	}
}

func TestNormalizeSourceCoercion(t *testing.T) {
	svc := NewPlagiarismService(zerolog.Nop())

	raw := json.RawMessage(`{
		"plagiarism": 10,
		"sources": [
			{"title": "no url, dropped", "similarity": 90},
			{"url": "https://low.example", "similarity": 5},
			{"link": "https://high.example", "plagiarism": 50},
			{"url": "https://none.example"}
		]
	}`)

	summary, err := svc.Normalize(raw)
	require.NoError(t, err)

	require.Len(t, summary.Sources, 3)
	assert.Equal(t, 3, summary.MatchesCount)

	assert.Equal(t, "https://high.example", summary.Sources[0].URL)
	assert.Equal(t, 50.0, summary.Sources[0].Similarity)
	assert.Equal(t, "https://low.example", summary.Sources[1].URL)
	assert.Equal(t, "https://none.example", summary.Sources[2].URL)
	assert.Equal(t, 0.0, summary.Sources[2].Similarity)
}

func TestNormalizeRejectsUnknownShapes(t *testing.T) {
	svc := NewPlagiarismService(zerolog.Nop())

	tests := []struct {
		name string
		raw  string
	}{
		{"empty", ""},
		{"no score fields", `{"report": "done"}`},
		{"not an object", `[1, 2, 3]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Normalize(json.RawMessage(tt.raw))
			assert.Error(t, err)
		})
	}
}
