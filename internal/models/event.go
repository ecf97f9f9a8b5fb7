package models

import "time"

// WorkflowStageEvent is published whenever a stage completes and the
// workflow state advances.
type WorkflowStageEvent struct {
	DocumentID string    `json:"document_id"`
	UserID     string    `json:"user_id"`
	Status     string    `json:"status"`
	Step       int       `json:"step"`
	OccurredAt time.Time `json:"occurred_at"`
}

// WorkflowArchivedEvent is published after a snapshot lands in the
// object store.
type WorkflowArchivedEvent struct {
	DocumentID string    `json:"document_id"`
	UserID     string    `json:"user_id"`
	ArchiveKey string    `json:"archive_key"`
	ArchiveURL string    `json:"archive_url"`
	ArchivedAt time.Time `json:"archived_at"`
}
