package service

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/rs/zerolog"

	"github.com/scholarproof/verification-service/internal/models"
)

// PlagiarismService normalizes the heterogeneous result shapes of the
// upstream plagiarism service into one canonical summary. This is the only
// place in the codebase that knows about the raw shapes.
type PlagiarismService interface {
	Normalize(raw json.RawMessage) (*models.PlagiarismSummary, error)
}

type plagiarismService struct {
	logger zerolog.Logger
}

func NewPlagiarismService(logger zerolog.Logger) PlagiarismService {
	return &plagiarismService{logger: logger}
}

// The upstream service is known to answer in three shapes, detected in this
// priority order: a data.* envelope, a flat object, and a summary.* object
// with a sibling sources list.
type rawEnvelope struct {
	Data json.RawMessage `json:"data"`
}

type rawFlatResult struct {
	Plagiarism  *float64        `json:"plagiarism"`
	Similarity  *float64        `json:"similarity"`
	Plagiat     *float64        `json:"plagiat"`
	Originality *float64        `json:"originality"`
	Sources     []rawSource     `json:"sources"`
	ID          json.RawMessage `json:"id"`
}

type rawSummaryResult struct {
	Summary *struct {
		OverallScore *float64 `json:"overallScore"`
		Originality  *float64 `json:"originality"`
	} `json:"summary"`
	Sources []rawSource `json:"sources"`
}

type rawSource struct {
	URL        string   `json:"url"`
	Link       string   `json:"link"`
	Title      string   `json:"title"`
	Similarity *float64 `json:"similarity"`
	Plagiarism *float64 `json:"plagiarism"`
}

func (s *plagiarismService) Normalize(raw json.RawMessage) (*models.PlagiarismSummary, error) {
	if len(raw) == 0 {
		return nil, fmt.Errorf("empty plagiarism result")
	}

	var envelope rawEnvelope
	if err := json.Unmarshal(raw, &envelope); err == nil && len(envelope.Data) > 0 && string(envelope.Data) != "null" {
		summary, err := s.normalizeFlat(envelope.Data)
		if err == nil {
			return summary, nil
		}
		s.logger.Warn().Err(err).Msg("Envelope payload did not normalize, falling through")
	}

	if summary, err := s.normalizeFlat(raw); err == nil {
		return summary, nil
	}

	summary, err := s.normalizeSummaryShape(raw)
	if err != nil {
		return nil, fmt.Errorf("unrecognized plagiarism result shape: %w", err)
	}
	return summary, nil
}

func (s *plagiarismService) normalizeFlat(raw json.RawMessage) (*models.PlagiarismSummary, error) {
	var flat rawFlatResult
	if err := json.Unmarshal(raw, &flat); err != nil {
		return nil, err
	}

	var score *float64
	switch {
	case flat.Plagiarism != nil:
		score = flat.Plagiarism
	case flat.Similarity != nil:
		score = flat.Similarity
	case flat.Plagiat != nil:
		score = flat.Plagiat
	}
	if score == nil {
		return nil, fmt.Errorf("no plagiarism score field present")
	}

	return buildSummary(*score, flat.Originality, flat.Sources, reportID(flat.ID)), nil
}

func (s *plagiarismService) normalizeSummaryShape(raw json.RawMessage) (*models.PlagiarismSummary, error) {
	var res rawSummaryResult
	if err := json.Unmarshal(raw, &res); err != nil {
		return nil, err
	}
	if res.Summary == nil || res.Summary.OverallScore == nil {
		return nil, fmt.Errorf("no summary.overallScore field present")
	}

	return buildSummary(*res.Summary.OverallScore, res.Summary.Originality, res.Sources, ""), nil
}

func buildSummary(plagiarismScore float64, originality *float64, rawSources []rawSource, reportID string) *models.PlagiarismSummary {
	summary := &models.PlagiarismSummary{
		PlagiarismScore: plagiarismScore,
		Sources:         coerceSources(rawSources),
		ReportID:        reportID,
	}

	if originality != nil {
		summary.OriginalityScore = *originality
	} else {
		summary.OriginalityScore = 100 - plagiarismScore
	}

	summary.MatchesCount = len(summary.Sources)
	return summary
}

// coerceSources drops entries without a usable URL and orders the rest by
// similarity descending for display priority.
func coerceSources(raw []rawSource) []models.PlagiarismSource {
	sources := make([]models.PlagiarismSource, 0, len(raw))
	for _, src := range raw {
		url := src.URL
		if url == "" {
			url = src.Link
		}
		if url == "" {
			continue
		}

		title := src.Title
		if title == "" {
			title = url
		}

		similarity := 0.0
		switch {
		case src.Similarity != nil:
			similarity = *src.Similarity
		case src.Plagiarism != nil:
			similarity = *src.Plagiarism
		}

		sources = append(sources, models.PlagiarismSource{
			URL:        url,
			Title:      title,
			Similarity: similarity,
		})
	}

	sort.SliceStable(sources, func(i, j int) bool {
		return sources[i].Similarity > sources[j].Similarity
	})

	return sources
}

// reportID tolerates both numeric and string report identifiers.
func reportID(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}

	var asString string
	if err := json.Unmarshal(raw, &asString); err == nil {
		return asString
	}

	var asNumber int64
	if err := json.Unmarshal(raw, &asNumber); err == nil {
		return fmt.Sprintf("%d", asNumber)
	}

	return ""
}
