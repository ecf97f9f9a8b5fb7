package analyzer

import (
	"fmt"
	"math"
	"math/rand"
	"regexp"

	"github.com/rs/zerolog"

	"github.com/scholarproof/verification-service/internal/models"
)

// Detection thresholds and sampling bounds. Downstream consumers depend on
// these exact values; change them and archived verdicts stop being
// comparable.
const (
	HumanThreshold = 0.4
	AIThreshold    = 0.75
	ChunkSize      = 512
	MaxSamples     = 10

	previewLength     = 150
	maxSamplePreviews = 3
)

// ContentClassifier scores text for likely machine authorship. The shipped
// implementation is a heuristic placeholder; a trained classifier slots in
// behind the same interface without touching the trust score aggregator.
type ContentClassifier interface {
	Score(text string) (*models.AIDetectionResult, error)
}

var (
	aiPhrasePattern   = regexp.MustCompile(`(?i)\b(as (an|the) AI language model|I'm not able to|I don't have personal|as an AI)\b`)
	connectivePattern = regexp.MustCompile(`(?i)\b(however|therefore|consequently|furthermore|moreover)\b`)
	disfluencyPattern = regexp.MustCompile(`(?i)\b(um|uh|like|you know|I mean)\b`)
	threeWordPattern  = regexp.MustCompile(`\b(\w+\s+\w+\s+\w+)\b`)
)

type heuristicDetector struct {
	logger zerolog.Logger
	random func() float64
}

type Option func(*heuristicDetector)

// WithRandSource replaces the jitter source. Tests inject a seeded or zero
// source to make scores deterministic.
func WithRandSource(random func() float64) Option {
	return func(d *heuristicDetector) {
		d.random = random
	}
}

func NewHeuristicDetector(logger zerolog.Logger, opts ...Option) ContentClassifier {
	detector := &heuristicDetector{
		logger: logger,
		random: rand.Float64,
	}
	for _, opt := range opts {
		opt(detector)
	}
	return detector
}

type chunkScore struct {
	score float64
	text  string
}

func (d *heuristicDetector) Score(text string) (*models.AIDetectionResult, error) {
	if len(text) == 0 {
		return nil, fmt.Errorf("no text to analyze")
	}

	chunks := chunkText(text, ChunkSize)
	if len(chunks) > MaxSamples {
		chunks = chunks[:MaxSamples]
	}

	scores := make([]chunkScore, len(chunks))
	for i, chunk := range chunks {
		scores[i] = chunkScore{score: d.scoreChunk(chunk), text: chunk}
	}

	var sum float64
	flagged := make([]chunkScore, 0, len(scores))
	for _, cs := range scores {
		sum += cs.score
		if cs.score > AIThreshold {
			flagged = append(flagged, cs)
		}
	}
	mean := sum / float64(len(scores))

	verdict := "uncertain"
	switch {
	case mean > AIThreshold:
		verdict = "likely-ai"
	case mean < HumanThreshold:
		verdict = "likely-human"
	}

	samples := make([]models.AISamplePreview, 0, maxSamplePreviews)
	for _, cs := range flagged {
		if len(samples) == maxSamplePreviews {
			break
		}
		samples = append(samples, models.AISamplePreview{
			Score:   cs.score,
			Preview: preview(cs.text),
		})
	}

	result := &models.AIDetectionResult{
		AIProbability: mean,
		Verdict:       verdict,
		Flags: models.AIFlags{
			HighConfidenceAI: len(flagged),
			SampleSections:   samples,
		},
	}

	d.logger.Info().
		Str("verdict", verdict).
		Float64("ai_probability", mean).
		Int("chunks", len(chunks)).
		Msg("AI content detection completed")

	return result, nil
}

// scoreChunk builds a composite heuristic score: a fixed base plus bumps for
// stock AI disclaimers, repeated three-word phrases, and formal connectives
// unaccompanied by informal disfluencies, then bounded jitter.
func (d *heuristicDetector) scoreChunk(chunk string) float64 {
	score := 0.3

	if aiPhrasePattern.MatchString(chunk) {
		score += 0.4
	}
	if hasRepeatedPhrase(chunk) {
		score += 0.2
	}
	if connectivePattern.MatchString(chunk) && !disfluencyPattern.MatchString(chunk) {
		score += 0.2
	}

	score = clamp(score)
	score += d.random()*0.2 - 0.1
	return clamp(score)
}

func hasRepeatedPhrase(chunk string) bool {
	phrases := threeWordPattern.FindAllString(chunk, -1)
	seen := make(map[string]struct{}, len(phrases))
	for _, phrase := range phrases {
		if _, ok := seen[phrase]; ok {
			return true
		}
		seen[phrase] = struct{}{}
	}
	return false
}

func chunkText(text string, size int) []string {
	chunks := make([]string, 0, (len(text)+size-1)/size)
	for i := 0; i < len(text); i += size {
		end := i + size
		if end > len(text) {
			end = len(text)
		}
		chunks = append(chunks, text[i:end])
	}
	return chunks
}

func preview(text string) string {
	if len(text) <= previewLength {
		return text + "..."
	}
	return text[:previewLength] + "..."
}

func clamp(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
