package service

import (
	"fmt"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scholarproof/verification-service/internal/models"
)

type stubClassifier struct {
	result *models.AIDetectionResult
	err    error
}

func (s *stubClassifier) Score(string) (*models.AIDetectionResult, error) {
	return s.result, s.err
}

func detection(probability float64) *models.AIDetectionResult {
	return &models.AIDetectionResult{
		AIProbability: probability,
		Verdict:       "uncertain",
	}
}

func TestAggregateWeightedScore(t *testing.T) {
	svc := NewTrustScoreService(&stubClassifier{}, zerolog.Nop())

	report := svc.Aggregate(90, detection(0.1))

	// aiScore = round((1-0.1)*100) = 90; trust = round(90*0.6 + 90*0.4) = 90.
	assert.Equal(t, 90.0, report.TrustScore)
	assert.Equal(t, models.TrustLevelHigh, report.TrustLevel)

	assert.Equal(t, 90.0, report.Components.Plagiarism.Score)
	assert.Equal(t, 0.6, report.Components.Plagiarism.Weight)
	assert.Equal(t, 54.0, report.Components.Plagiarism.Contribution)

	assert.Equal(t, 90.0, report.Components.AIGenerated.Score)
	assert.Equal(t, 0.4, report.Components.AIGenerated.Weight)
	assert.Equal(t, 36.0, report.Components.AIGenerated.Contribution)
	require.NotNil(t, report.Components.AIGenerated.Details)

	assert.Empty(t, report.Recommendations)
}

func TestTrustLevelBoundaries(t *testing.T) {
	svc := NewTrustScoreService(&stubClassifier{}, zerolog.Nop())

	tests := []struct {
		plagiarism float64
		ai         float64 // probability, so aiScore = (1-ai)*100
		wantScore  float64
		wantLevel  models.TrustLevel
	}{
		{85, 0.15, 85, models.TrustLevelHigh},
		{84, 0.16, 84, models.TrustLevelModerate},
		{70, 0.30, 70, models.TrustLevelModerate},
		{69, 0.31, 69, models.TrustLevelLow},
		{50, 0.50, 50, models.TrustLevelLow},
		{49, 0.51, 49, models.TrustLevelVeryLow},
		{0, 1.0, 0, models.TrustLevelVeryLow},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("score_%v", tt.wantScore), func(t *testing.T) {
			report := svc.Aggregate(tt.plagiarism, detection(tt.ai))
			assert.Equal(t, tt.wantScore, report.TrustScore)
			assert.Equal(t, tt.wantLevel, report.TrustLevel)
		})
	}
}

func TestRecommendationsRuleTable(t *testing.T) {
	svc := NewTrustScoreService(&stubClassifier{}, zerolog.Nop())

	tests := []struct {
		name       string
		plagiarism float64
		ai         float64
		wantAreas  []string
	}{
		{"both healthy", 80, 0.2, nil},
		{"low originality", 60, 0.2, []string{"Originality"}},
		{"low authenticity", 80, 0.5, []string{"Authenticity"}},
		{"both flagged", 60, 0.5, []string{"Originality", "Authenticity"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report := svc.Aggregate(tt.plagiarism, detection(tt.ai))

			areas := make([]string, 0, len(report.Recommendations))
			for _, rec := range report.Recommendations {
				assert.NotEmpty(t, rec.Issue)
				assert.NotEmpty(t, rec.Action)
				areas = append(areas, rec.Area)
			}

			if tt.wantAreas == nil {
				assert.Empty(t, areas)
			} else {
				assert.Equal(t, tt.wantAreas, areas)
			}
		})
	}
}

func TestComputeTrustScore(t *testing.T) {
	svc := NewTrustScoreService(&stubClassifier{result: detection(0.25)}, zerolog.Nop())

	report, err := svc.ComputeTrustScore(80, "some document text")
	require.NoError(t, err)

	// aiScore = 75; trust = round(80*0.6 + 75*0.4) = round(78) = 78.
	assert.Equal(t, 78.0, report.TrustScore)
	assert.Equal(t, models.TrustLevelModerate, report.TrustLevel)
}

func TestComputeTrustScorePropagatesClassifierError(t *testing.T) {
	svc := NewTrustScoreService(&stubClassifier{err: fmt.Errorf("no text to analyze")}, zerolog.Nop())

	_, err := svc.ComputeTrustScore(80, "")
	assert.Error(t, err)
}
