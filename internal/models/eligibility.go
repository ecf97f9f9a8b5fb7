package models

// DocumentMetadata is the structural metadata produced by the external
// document extractor alongside the normalized text.
type DocumentMetadata struct {
	PageCount  int    `json:"pageCount"`
	TextLength int    `json:"textLength"`
	Text       string `json:"text,omitempty"`
}

type TierResult struct {
	Passed bool     `json:"passed"`
	Issues []string `json:"issues"`
}

type SectionTierResult struct {
	Passed          bool     `json:"passed"`
	MissingSections []string `json:"missingSections"`
}

// EligibilityVerdict is a fully-populated validation outcome, not an error:
// every tier's findings are retained even though evaluation short-circuits,
// so callers can explain exactly what was checked.
type EligibilityVerdict struct {
	Eligible bool              `json:"eligible"`
	Level0   TierResult        `json:"level0"`
	Level1   TierResult        `json:"level1"`
	Level2   SectionTierResult `json:"level2"`
	Metadata VerdictMetadata   `json:"metadata"`
}

type VerdictMetadata struct {
	PageCount  int  `json:"pageCount"`
	TextLength int  `json:"textLength"`
	IsScanned  bool `json:"isScanned"`
}

// Reason returns a short human-readable explanation of the first failed
// check, or an empty string for an eligible document.
func (v *EligibilityVerdict) Reason() string {
	switch {
	case !v.Level0.Passed && len(v.Level0.Issues) > 0:
		return v.Level0.Issues[0]
	case !v.Level1.Passed && len(v.Level1.Issues) > 0:
		return v.Level1.Issues[0]
	case !v.Level2.Passed:
		return "required sections missing"
	default:
		return ""
	}
}
