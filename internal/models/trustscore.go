package models

type TrustLevel string

const (
	TrustLevelHigh     TrustLevel = "High"
	TrustLevelModerate TrustLevel = "Moderate"
	TrustLevelLow      TrustLevel = "Low"
	TrustLevelVeryLow  TrustLevel = "VeryLow"
)

type AISamplePreview struct {
	Score   float64 `json:"score"`
	Preview string  `json:"preview"`
}

type AIFlags struct {
	HighConfidenceAI int               `json:"highConfidenceAI"`
	SampleSections   []AISamplePreview `json:"sampleSections"`
}

// AIDetectionResult is the contract any authorship classifier must satisfy.
// The shipped heuristic is a placeholder; a trained model plugs in behind
// the same shape.
type AIDetectionResult struct {
	AIProbability float64 `json:"aiProbability"`
	Verdict       string  `json:"verdict"`
	Flags         AIFlags `json:"flags"`
}

type TrustScoreComponent struct {
	Score        float64 `json:"score"`
	Weight       float64 `json:"weight"`
	Contribution float64 `json:"contribution"`
}

type AIGeneratedComponent struct {
	TrustScoreComponent
	Details *AIDetectionResult `json:"details"`
}

type TrustScoreComponents struct {
	Plagiarism  TrustScoreComponent  `json:"plagiarism"`
	AIGenerated AIGeneratedComponent `json:"aiGenerated"`
}

type Recommendation struct {
	Area   string `json:"area"`
	Issue  string `json:"issue"`
	Action string `json:"action"`
}

type TrustScoreReport struct {
	TrustScore      float64              `json:"trustScore"`
	TrustLevel      TrustLevel           `json:"trustLevel"`
	Components      TrustScoreComponents `json:"components"`
	Recommendations []Recommendation     `json:"recommendations"`
}
