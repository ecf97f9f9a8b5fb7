package analyzer

import (
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// zeroJitter pins the bounded jitter term to exactly zero.
func zeroJitter() float64 { return 0.5 }

func newTestDetector() ContentClassifier {
	return NewHeuristicDetector(zerolog.Nop(), WithRandSource(zeroJitter))
}

func TestScoreEmptyText(t *testing.T) {
	_, err := newTestDetector().Score("")
	assert.Error(t, err)
}

func TestScoreLikelyHuman(t *testing.T) {
	text := "um so i went to the shop and got some bread yesterday morning"

	result, err := newTestDetector().Score(text)
	require.NoError(t, err)

	assert.Equal(t, 0.3, result.AIProbability)
	assert.Equal(t, "likely-human", result.Verdict)
	assert.Equal(t, 0, result.Flags.HighConfidenceAI)
	assert.Empty(t, result.Flags.SampleSections)
}

func TestScoreLikelyAI(t *testing.T) {
	text := "As an AI language model I must note, however, that the argument holds."

	result, err := newTestDetector().Score(text)
	require.NoError(t, err)

	// 0.3 base + 0.4 disclaimer + 0.2 connective without disfluency.
	assert.InDelta(t, 0.9, result.AIProbability, 1e-9)
	assert.Equal(t, "likely-ai", result.Verdict)
	assert.Equal(t, 1, result.Flags.HighConfidenceAI)
	require.Len(t, result.Flags.SampleSections, 1)
	assert.Equal(t, text+"...", result.Flags.SampleSections[0].Preview)
}

func TestScoreUncertain(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"connectives without disfluency", "However, the results therefore demonstrate a consistent improvement."},
		{"repeated three-word phrase", "the quick fox the quick fox jumps over it"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := newTestDetector().Score(tt.text)
			require.NoError(t, err)

			assert.InDelta(t, 0.5, result.AIProbability, 1e-9)
			assert.Equal(t, "uncertain", result.Verdict)
		})
	}
}

func TestScoreDisfluencyCancelsConnectiveBump(t *testing.T) {
	text := "However, um, the results were, you know, mostly fine overall."

	result, err := newTestDetector().Score(text)
	require.NoError(t, err)

	assert.Equal(t, 0.3, result.AIProbability)
	assert.Equal(t, "likely-human", result.Verdict)
}

func TestScoreJitterIsBounded(t *testing.T) {
	text := "um so i went to the shop and got some bread yesterday morning"

	low, err := NewHeuristicDetector(zerolog.Nop(), WithRandSource(func() float64 { return 0 })).Score(text)
	require.NoError(t, err)
	high, err := NewHeuristicDetector(zerolog.Nop(), WithRandSource(func() float64 { return 1 })).Score(text)
	require.NoError(t, err)

	assert.InDelta(t, 0.2, low.AIProbability, 1e-9)
	assert.InDelta(t, 0.4, high.AIProbability, 1e-9)
}

func TestScoreSamplingCaps(t *testing.T) {
	prefix := "As an AI language model wrote this, however. "
	block := prefix + strings.Repeat("x", ChunkSize-len(prefix))
	text := strings.Repeat(block, MaxSamples+5)

	result, err := newTestDetector().Score(text)
	require.NoError(t, err)

	assert.Equal(t, "likely-ai", result.Verdict)
	assert.Equal(t, MaxSamples, result.Flags.HighConfidenceAI, "scoring stops after the sample cap")
	require.Len(t, result.Flags.SampleSections, 3, "previews are capped at three")

	for _, sample := range result.Flags.SampleSections {
		assert.Greater(t, sample.Score, AIThreshold)
		assert.Len(t, sample.Preview, 153)
	}
}

func TestChunkText(t *testing.T) {
	chunks := chunkText(strings.Repeat("a", ChunkSize*2+1), ChunkSize)

	require.Len(t, chunks, 3)
	assert.Len(t, chunks[0], ChunkSize)
	assert.Len(t, chunks[2], 1)
}
