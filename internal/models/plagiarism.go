package models

// PlagiarismSource is one matched source, coerced from whatever shape the
// upstream service returned it in.
type PlagiarismSource struct {
	URL        string  `json:"url"`
	Title      string  `json:"title"`
	Similarity float64 `json:"similarity"`
}

// PlagiarismSummary is the canonical post-normalization result of a
// plagiarism check. No downstream consumer sees the raw service shape.
type PlagiarismSummary struct {
	PlagiarismScore  float64            `json:"plagiarismScore"`
	OriginalityScore float64            `json:"originalityScore"`
	MatchesCount     int                `json:"matchesCount"`
	Sources          []PlagiarismSource `json:"sources"`
	ReportID         string             `json:"reportId,omitempty"`
}
