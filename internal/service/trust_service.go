package service

import (
	"fmt"
	"math"

	"github.com/rs/zerolog"

	"github.com/scholarproof/verification-service/internal/models"
	"github.com/scholarproof/verification-service/internal/service/analyzer"
)

const (
	plagiarismWeight = 0.6
	aiWeight         = 0.4
)

type TrustScoreService interface {
	ComputeTrustScore(plagiarismScore float64, documentText string) (*models.TrustScoreReport, error)
	Aggregate(plagiarismScore float64, detection *models.AIDetectionResult) *models.TrustScoreReport
}

type trustScoreService struct {
	classifier analyzer.ContentClassifier
	logger     zerolog.Logger
}

func NewTrustScoreService(classifier analyzer.ContentClassifier, logger zerolog.Logger) TrustScoreService {
	return &trustScoreService{
		classifier: classifier,
		logger:     logger,
	}
}

// ComputeTrustScore runs the authorship classifier over the document text
// and folds its probability into the weighted score. The aggregation itself
// is pure; the classifier is the only non-deterministic input.
func (s *trustScoreService) ComputeTrustScore(plagiarismScore float64, documentText string) (*models.TrustScoreReport, error) {
	detection, err := s.classifier.Score(documentText)
	if err != nil {
		return nil, fmt.Errorf("ai detection failed: %w", err)
	}

	report := s.Aggregate(plagiarismScore, detection)

	s.logger.Info().
		Float64("trust_score", report.TrustScore).
		Str("trust_level", string(report.TrustLevel)).
		Msg("Trust score calculation completed")

	return report, nil
}

// Aggregate combines the plagiarism score (0-100) with the AI-authorship
// probability (0-1) into one decision number and a categorical level.
func (s *trustScoreService) Aggregate(plagiarismScore float64, detection *models.AIDetectionResult) *models.TrustScoreReport {
	aiScore := math.Round((1 - detection.AIProbability) * 100)
	trustScore := math.Round(plagiarismScore*plagiarismWeight + aiScore*aiWeight)

	report := &models.TrustScoreReport{
		TrustScore: trustScore,
		TrustLevel: trustLevel(trustScore),
		Components: models.TrustScoreComponents{
			Plagiarism: models.TrustScoreComponent{
				Score:        plagiarismScore,
				Weight:       plagiarismWeight,
				Contribution: math.Round(plagiarismScore * plagiarismWeight),
			},
			AIGenerated: models.AIGeneratedComponent{
				TrustScoreComponent: models.TrustScoreComponent{
					Score:        aiScore,
					Weight:       aiWeight,
					Contribution: math.Round(aiScore * aiWeight),
				},
				Details: detection,
			},
		},
		Recommendations: recommendations(plagiarismScore, aiScore),
	}

	return report
}

func trustLevel(score float64) models.TrustLevel {
	switch {
	case score >= 85:
		return models.TrustLevelHigh
	case score >= 70:
		return models.TrustLevelModerate
	case score >= 50:
		return models.TrustLevelLow
	default:
		return models.TrustLevelVeryLow
	}
}

// recommendations is a fixed rule table, not a generator.
func recommendations(plagiarismScore, aiScore float64) []models.Recommendation {
	recs := []models.Recommendation{}

	if plagiarismScore < 70 {
		recs = append(recs, models.Recommendation{
			Area:   "Originality",
			Issue:  "Significant similarity to existing publications",
			Action: "Review and rewrite sections with high similarity scores, ensuring proper citations for all referenced material.",
		})
	}

	if aiScore < 70 {
		recs = append(recs, models.Recommendation{
			Area:   "Authenticity",
			Issue:  "Potential AI-generated content detected",
			Action: "Review flagged sections and rewrite them in your own words to improve authenticity.",
		})
	}

	return recs
}
