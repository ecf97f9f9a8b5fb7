package models

import (
	"time"
)

// Status is the coarse progress marker of a document inside the
// verification pipeline. It is always derived from the populated
// fields of a WorkflowState, never stored independently.
type Status string

const (
	StatusUploaded   Status = "uploaded"
	StatusEligible   Status = "eligible"
	StatusPlagiarism Status = "plagiarism"
	StatusTrustScore Status = "trust_score"
	StatusReview     Status = "review"
	StatusCompleted  Status = "completed"
)

func (s Status) String() string {
	return string(s)
}

type FileDescriptor struct {
	Name string `json:"name"`
	Size int64  `json:"size"`
	Mime string `json:"mime"`
}

type HumanReviewData struct {
	Status        string `json:"status"`
	ReviewerNotes string `json:"reviewerNotes,omitempty"`
}

type NFTMintingData struct {
	TokenID         string `json:"tokenId"`
	TransactionHash string `json:"transactionHash"`
}

type WorkflowMetadata struct {
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	UserID    string    `json:"userId"`
}

// WorkflowState accumulates the outputs of every pipeline stage for one
// document. The JSON layout is the persisted snapshot schema: readers must
// tolerate unknown extra fields and missing optional fields.
type WorkflowState struct {
	DocumentID        string             `json:"documentId"`
	DocumentName      string             `json:"documentName"`
	DocumentFile      *FileDescriptor    `json:"documentFile,omitempty"`
	DocumentText      string             `json:"documentText,omitempty"`
	Eligible          *bool              `json:"eligible,omitempty"`
	EligibilityReason string             `json:"eligibilityReason,omitempty"`
	PlagiarismResult  *PlagiarismSummary `json:"plagiarismResult,omitempty"`
	TrustScoreData    *TrustScoreReport  `json:"trustScoreData,omitempty"`
	HumanReviewData   *HumanReviewData   `json:"humanReviewData,omitempty"`
	NFTMintingData    *NFTMintingData    `json:"nftMintingData,omitempty"`
	Metadata          WorkflowMetadata   `json:"metadata"`
	Step              int                `json:"step"`
}

// DeriveStatus is the single status-derivation rule shared by the display
// layer and the archive service. Later stages win over earlier ones.
func DeriveStatus(state *WorkflowState) Status {
	switch {
	case state.NFTMintingData != nil:
		return StatusCompleted
	case state.HumanReviewData != nil:
		return StatusReview
	case state.TrustScoreData != nil:
		return StatusTrustScore
	case state.PlagiarismResult != nil:
		return StatusPlagiarism
	case state.Eligible != nil && *state.Eligible:
		return StatusEligible
	default:
		return StatusUploaded
	}
}

// StepForStatus maps a derived status to its step ordinal. The workflow
// service advances Step monotonically with this mapping.
func StepForStatus(status Status) int {
	switch status {
	case StatusEligible:
		return 1
	case StatusPlagiarism:
		return 2
	case StatusTrustScore:
		return 3
	case StatusReview:
		return 4
	case StatusCompleted:
		return 5
	default:
		return 0
	}
}

// ArchiveRecord is the immutable snapshot written to the object store.
// It carries the full workflow state plus the archive-only fields.
type ArchiveRecord struct {
	WorkflowState
	ArchivedAt string `json:"archivedAt"`
	UserID     string `json:"userId"`
	ArchiveKey string `json:"archiveKey"`
}
