package models

import (
	"encoding/json"
	"time"
)

type AnalyzeDocumentRequest struct {
	File          FileDescriptor   `json:"file"`
	ExtractedText string           `json:"extractedText"`
	Metadata      DocumentMetadata `json:"metadata"`
}

type NormalizePlagiarismRequest struct {
	Raw json.RawMessage `json:"raw"`
}

type TrustScoreRequest struct {
	PlagiarismScore float64 `json:"plagiarismScore"`
	DocumentText    string  `json:"documentText"`
}

type ArchiveWorkflowRequest struct {
	UserID   string        `json:"userId"`
	Workflow WorkflowState `json:"workflow"`
}

type ArchiveWorkflowResponse struct {
	ArchiveURL string `json:"archiveUrl"`
}

type ResumeWorkflowRequest struct {
	ArchiveURL string `json:"archiveUrl"`
}

// ArchiveSummary is the display projection of one archived snapshot,
// derived with the shared status rule.
type ArchiveSummary struct {
	DocumentID   string    `json:"documentId"`
	DocumentName string    `json:"documentName"`
	ArchiveURL   string    `json:"archiveUrl"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
	Status       Status    `json:"status"`
}

type ArchiveServiceStatus struct {
	Configured bool   `json:"configured"`
	Bucket     string `json:"bucket"`
	Region     string `json:"region"`
}

type CreateWorkflowRequest struct {
	UserID       string         `json:"userId"`
	DocumentName string         `json:"documentName"`
	DocumentFile FileDescriptor `json:"documentFile"`
	DocumentText string         `json:"documentText"`
}

type RecordEligibilityRequest struct {
	Verdict EligibilityVerdict `json:"verdict"`
}

type AttachReviewRequest struct {
	Review HumanReviewData `json:"review"`
}

type AttachMintingRequest struct {
	Minting NFTMintingData `json:"minting"`
}
