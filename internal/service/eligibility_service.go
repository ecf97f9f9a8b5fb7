package service

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/rs/zerolog"

	"github.com/scholarproof/verification-service/internal/models"
)

// Structural requirements a document must satisfy before it may enter the
// analysis pipeline.
const (
	MaxFileSize    = 5 * 1024 * 1024
	MinPages       = 3
	MaxPages       = 50
	MinTextPerPage = 100
)

// RequiredSections are searched case-insensitively as whole words over the
// normalized text.
var RequiredSections = []string{
	"abstract",
	"introduction",
	"methodology",
	"results",
	"discussion",
	"conclusion",
	"references",
}

var sectionPatterns = func() map[string]*regexp.Regexp {
	patterns := make(map[string]*regexp.Regexp, len(RequiredSections))
	for _, section := range RequiredSections {
		patterns[section] = regexp.MustCompile(`\b` + regexp.QuoteMeta(section) + `\b`)
	}
	return patterns
}()

type EligibilityService interface {
	Evaluate(file models.FileDescriptor, meta models.DocumentMetadata) *models.EligibilityVerdict
	Criteria() map[string]interface{}
}

type eligibilityService struct {
	logger zerolog.Logger
}

func NewEligibilityService(logger zerolog.Logger) EligibilityService {
	return &eligibilityService{logger: logger}
}

// Evaluate runs the tiered checks: file-level, structural, then section
// coverage. A later tier only runs when all earlier tiers passed, but the
// verdict always carries every tier's result so the caller can show what
// was checked.
func (s *eligibilityService) Evaluate(file models.FileDescriptor, meta models.DocumentMetadata) *models.EligibilityVerdict {
	verdict := &models.EligibilityVerdict{
		Level0: models.TierResult{Issues: []string{}},
		Level1: models.TierResult{Issues: []string{}},
		Level2: models.SectionTierResult{MissingSections: []string{}},
		Metadata: models.VerdictMetadata{
			PageCount:  meta.PageCount,
			TextLength: meta.TextLength,
			IsScanned:  isScanned(meta),
		},
	}

	verdict.Level0.Issues = fileChecks(file)
	verdict.Level0.Passed = len(verdict.Level0.Issues) == 0
	if !verdict.Level0.Passed {
		s.logger.Info().Str("file", file.Name).Msg("Eligibility level 0 checks failed")
		return verdict
	}

	verdict.Level1.Issues = structureChecks(meta)
	verdict.Level1.Passed = len(verdict.Level1.Issues) == 0
	if !verdict.Level1.Passed {
		s.logger.Info().Str("file", file.Name).Msg("Eligibility level 1 checks failed")
		return verdict
	}

	verdict.Level2.MissingSections = sectionChecks(meta.Text)
	verdict.Level2.Passed = len(verdict.Level2.MissingSections) == 0

	verdict.Eligible = verdict.Level0.Passed && verdict.Level1.Passed && verdict.Level2.Passed

	s.logger.Info().
		Str("file", file.Name).
		Bool("eligible", verdict.Eligible).
		Msg("Eligibility calculation complete")

	return verdict
}

func (s *eligibilityService) Criteria() map[string]interface{} {
	return map[string]interface{}{
		"fileSize":         MaxFileSize,
		"minPages":         MinPages,
		"maxPages":         MaxPages,
		"minTextPerPage":   MinTextPerPage,
		"requiredSections": RequiredSections,
	}
}

func fileChecks(file models.FileDescriptor) []string {
	issues := []string{}
	if file.Size > MaxFileSize {
		issues = append(issues, fmt.Sprintf("File size exceeds %dMB", MaxFileSize/1024/1024))
	}
	return issues
}

func structureChecks(meta models.DocumentMetadata) []string {
	issues := []string{}

	if meta.PageCount < MinPages || meta.PageCount > MaxPages {
		issues = append(issues, fmt.Sprintf("Page count out of range (%d-%d)", MinPages, MaxPages))
	}

	if isScanned(meta) {
		issues = append(issues, "Document appears to be image-based (scanned)")
	}

	return issues
}

func sectionChecks(text string) []string {
	normalized := strings.ToLower(text)

	missing := []string{}
	for _, section := range RequiredSections {
		if !sectionPatterns[section].MatchString(normalized) {
			missing = append(missing, section)
		}
	}
	return missing
}

func isScanned(meta models.DocumentMetadata) bool {
	if meta.PageCount <= 0 {
		return false
	}
	return float64(meta.TextLength)/float64(meta.PageCount) < MinTextPerPage
}
