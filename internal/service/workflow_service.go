package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/scholarproof/verification-service/internal/models"
	"github.com/scholarproof/verification-service/internal/repository"
	"github.com/scholarproof/verification-service/internal/service/integration"
	"github.com/scholarproof/verification-service/pkg/utils"
)

// WorkflowService owns the pipeline state of every in-flight document. Every
// stage recorder mutates a copy, persists it, and only then lets the new
// state become visible, so a failed write leaves the prior step intact.
type WorkflowService interface {
	Create(ctx context.Context, userID string, req models.CreateWorkflowRequest) (*models.WorkflowState, error)
	Get(ctx context.Context, userID, documentID string) (*models.WorkflowState, error)
	Clear(ctx context.Context, userID, documentID string) error

	RecordEligibility(ctx context.Context, userID, documentID string, verdict *models.EligibilityVerdict) (*models.WorkflowState, error)
	AttachPlagiarism(ctx context.Context, userID, documentID string, summary *models.PlagiarismSummary) (*models.WorkflowState, error)
	AttachTrustScore(ctx context.Context, userID, documentID string, report *models.TrustScoreReport) (*models.WorkflowState, error)
	AttachHumanReview(ctx context.Context, userID, documentID string, review *models.HumanReviewData) (*models.WorkflowState, error)
	AttachMinting(ctx context.Context, userID, documentID string, minting *models.NFTMintingData) (*models.WorkflowState, error)
}

type workflowService struct {
	store     repository.WorkflowStateStore
	publisher integration.EventPublisher
	logger    zerolog.Logger
	now       func() time.Time
}

func NewWorkflowService(
	store repository.WorkflowStateStore,
	publisher integration.EventPublisher,
	logger zerolog.Logger,
) WorkflowService {
	return &workflowService{
		store:     store,
		publisher: publisher,
		logger:    logger,
		now:       time.Now,
	}
}

func (s *workflowService) Create(ctx context.Context, userID string, req models.CreateWorkflowRequest) (*models.WorkflowState, error) {
	now := s.now().UTC()
	file := req.DocumentFile

	name := req.DocumentName
	if name == "" {
		name = file.Name
	}

	state := &models.WorkflowState{
		DocumentID:   utils.NewDocumentID(),
		DocumentName: name,
		DocumentFile: &file,
		DocumentText: req.DocumentText,
		Metadata: models.WorkflowMetadata{
			CreatedAt: now,
			UpdatedAt: now,
			UserID:    userID,
		},
	}
	state.Step = models.StepForStatus(models.DeriveStatus(state))

	if err := s.store.Set(ctx, userID, state); err != nil {
		return nil, fmt.Errorf("failed to create workflow: %w", err)
	}

	s.logger.Info().
		Str("user_id", userID).
		Str("document_id", state.DocumentID).
		Msg("Workflow created")

	s.publishStage(ctx, userID, state)
	return state, nil
}

func (s *workflowService) Get(ctx context.Context, userID, documentID string) (*models.WorkflowState, error) {
	state, err := s.store.Get(ctx, userID, documentID)
	if errors.Is(err, repository.ErrStateNotFound) {
		return nil, ErrWorkflowNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get workflow: %w", err)
	}
	return state, nil
}

func (s *workflowService) Clear(ctx context.Context, userID, documentID string) error {
	if err := s.store.Clear(ctx, userID, documentID); err != nil {
		return fmt.Errorf("failed to clear workflow: %w", err)
	}

	s.logger.Info().
		Str("user_id", userID).
		Str("document_id", documentID).
		Msg("Workflow cleared")

	return nil
}

func (s *workflowService) RecordEligibility(ctx context.Context, userID, documentID string, verdict *models.EligibilityVerdict) (*models.WorkflowState, error) {
	return s.update(ctx, userID, documentID, func(state *models.WorkflowState) {
		eligible := verdict.Eligible
		state.Eligible = &eligible
		state.EligibilityReason = verdict.Reason()
	})
}

func (s *workflowService) AttachPlagiarism(ctx context.Context, userID, documentID string, summary *models.PlagiarismSummary) (*models.WorkflowState, error) {
	return s.update(ctx, userID, documentID, func(state *models.WorkflowState) {
		state.PlagiarismResult = summary
	})
}

func (s *workflowService) AttachTrustScore(ctx context.Context, userID, documentID string, report *models.TrustScoreReport) (*models.WorkflowState, error) {
	return s.update(ctx, userID, documentID, func(state *models.WorkflowState) {
		state.TrustScoreData = report
	})
}

func (s *workflowService) AttachHumanReview(ctx context.Context, userID, documentID string, review *models.HumanReviewData) (*models.WorkflowState, error) {
	return s.update(ctx, userID, documentID, func(state *models.WorkflowState) {
		state.HumanReviewData = review
	})
}

func (s *workflowService) AttachMinting(ctx context.Context, userID, documentID string, minting *models.NFTMintingData) (*models.WorkflowState, error) {
	return s.update(ctx, userID, documentID, func(state *models.WorkflowState) {
		state.NFTMintingData = minting
	})
}

// update applies a stage mutation to a copy of the stored state, re-derives
// status, advances step monotonically, and persists. On persist failure the
// stored state is unchanged at its prior step.
func (s *workflowService) update(ctx context.Context, userID, documentID string, mutate func(*models.WorkflowState)) (*models.WorkflowState, error) {
	current, err := s.Get(ctx, userID, documentID)
	if err != nil {
		return nil, err
	}

	next := *current
	mutate(&next)

	next.Metadata.UpdatedAt = s.now().UTC()
	if step := models.StepForStatus(models.DeriveStatus(&next)); step > next.Step {
		next.Step = step
	}

	if err := s.store.Set(ctx, userID, &next); err != nil {
		return nil, fmt.Errorf("failed to persist workflow: %w", err)
	}

	s.publishStage(ctx, userID, &next)
	return &next, nil
}

func (s *workflowService) publishStage(ctx context.Context, userID string, state *models.WorkflowState) {
	event := models.WorkflowStageEvent{
		DocumentID: state.DocumentID,
		UserID:     userID,
		Status:     models.DeriveStatus(state).String(),
		Step:       state.Step,
		OccurredAt: s.now().UTC(),
	}

	if err := s.publisher.Publish(ctx, "workflow.stage", event); err != nil {
		s.logger.Error().Err(err).
			Str("document_id", state.DocumentID).
			Msg("Failed to publish workflow stage event")
	}
}
