package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/scholarproof/verification-service/internal/models"
)

// PostgresWorkflowStore is the persistent WorkflowStateStore backend. The
// full state is kept as a JSONB document; status and step are denormalized
// for listing.
type PostgresWorkflowStore struct {
	db     *sql.DB
	logger zerolog.Logger
}

func NewPostgresWorkflowStore(db *sql.DB, logger zerolog.Logger) *PostgresWorkflowStore {
	return &PostgresWorkflowStore{
		db:     db,
		logger: logger,
	}
}

func (s *PostgresWorkflowStore) Get(ctx context.Context, userID, documentID string) (*models.WorkflowState, error) {
	query := `SELECT state FROM workflow_states WHERE user_id = $1 AND document_id = $2`

	var raw []byte
	err := s.db.QueryRowContext(ctx, query, userID, documentID).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrStateNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get workflow state: %w", err)
	}

	var state models.WorkflowState
	if err := json.Unmarshal(raw, &state); err != nil {
		return nil, fmt.Errorf("failed to decode workflow state: %w", err)
	}

	return &state, nil
}

func (s *PostgresWorkflowStore) Set(ctx context.Context, userID string, state *models.WorkflowState) error {
	raw, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to encode workflow state: %w", err)
	}

	query := `
		INSERT INTO workflow_states (user_id, document_id, status, step, state, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (user_id, document_id) DO UPDATE
		SET status = EXCLUDED.status,
		    step = EXCLUDED.step,
		    state = EXCLUDED.state,
		    updated_at = EXCLUDED.updated_at`

	_, err = s.db.ExecContext(ctx, query,
		userID,
		state.DocumentID,
		models.DeriveStatus(state).String(),
		state.Step,
		raw,
		state.Metadata.CreatedAt,
		state.Metadata.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert workflow state: %w", err)
	}

	return nil
}

func (s *PostgresWorkflowStore) Clear(ctx context.Context, userID, documentID string) error {
	query := `DELETE FROM workflow_states WHERE user_id = $1 AND document_id = $2`

	if _, err := s.db.ExecContext(ctx, query, userID, documentID); err != nil {
		return fmt.Errorf("failed to clear workflow state: %w", err)
	}

	return nil
}

func (s *PostgresWorkflowStore) ListByUser(ctx context.Context, userID string) ([]*models.WorkflowState, error) {
	query := `SELECT state FROM workflow_states WHERE user_id = $1 ORDER BY updated_at DESC`

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list workflow states: %w", err)
	}
	defer rows.Close()

	states := make([]*models.WorkflowState, 0)
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("failed to scan workflow state: %w", err)
		}

		var state models.WorkflowState
		if err := json.Unmarshal(raw, &state); err != nil {
			s.logger.Warn().Err(err).Str("user_id", userID).Msg("Skipping undecodable workflow state")
			continue
		}
		states = append(states, &state)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate workflow states: %w", err)
	}

	return states, nil
}
