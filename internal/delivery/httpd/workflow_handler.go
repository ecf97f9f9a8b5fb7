package httpd

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/scholarproof/verification-service/internal/models"
	"github.com/scholarproof/verification-service/internal/service"
)

func (h *Handler) CreateWorkflow(w http.ResponseWriter, r *http.Request) {
	var req models.CreateWorkflowRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.UserID == "" {
		writeError(w, http.StatusBadRequest, "userId is required")
		return
	}

	state, err := h.workflowService.Create(r.Context(), req.UserID, req)
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to create workflow")
		writeError(w, http.StatusInternalServerError, "failed to create workflow")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"success": true,
		"data":    state,
	})
}

func (h *Handler) GetWorkflow(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "user_id")
	documentID := chi.URLParam(r, "document_id")

	state, err := h.workflowService.Get(r.Context(), userID, documentID)
	if err != nil {
		h.writeWorkflowError(w, err)
		return
	}

	writeSuccess(w, state)
}

func (h *Handler) ClearWorkflow(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "user_id")
	documentID := chi.URLParam(r, "document_id")

	if err := h.workflowService.Clear(r.Context(), userID, documentID); err != nil {
		h.writeWorkflowError(w, err)
		return
	}

	writeSuccess(w, map[string]bool{"cleared": true})
}

func (h *Handler) RecordEligibility(w http.ResponseWriter, r *http.Request) {
	var req models.RecordEligibilityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	state, err := h.workflowService.RecordEligibility(
		r.Context(),
		chi.URLParam(r, "user_id"),
		chi.URLParam(r, "document_id"),
		&req.Verdict,
	)
	if err != nil {
		h.writeWorkflowError(w, err)
		return
	}

	writeSuccess(w, state)
}

func (h *Handler) AttachPlagiarism(w http.ResponseWriter, r *http.Request) {
	var summary models.PlagiarismSummary
	if err := json.NewDecoder(r.Body).Decode(&summary); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	state, err := h.workflowService.AttachPlagiarism(
		r.Context(),
		chi.URLParam(r, "user_id"),
		chi.URLParam(r, "document_id"),
		&summary,
	)
	if err != nil {
		h.writeWorkflowError(w, err)
		return
	}

	writeSuccess(w, state)
}

func (h *Handler) AttachTrustScore(w http.ResponseWriter, r *http.Request) {
	var report models.TrustScoreReport
	if err := json.NewDecoder(r.Body).Decode(&report); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	state, err := h.workflowService.AttachTrustScore(
		r.Context(),
		chi.URLParam(r, "user_id"),
		chi.URLParam(r, "document_id"),
		&report,
	)
	if err != nil {
		h.writeWorkflowError(w, err)
		return
	}

	writeSuccess(w, state)
}

func (h *Handler) AttachHumanReview(w http.ResponseWriter, r *http.Request) {
	var req models.AttachReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	state, err := h.workflowService.AttachHumanReview(
		r.Context(),
		chi.URLParam(r, "user_id"),
		chi.URLParam(r, "document_id"),
		&req.Review,
	)
	if err != nil {
		h.writeWorkflowError(w, err)
		return
	}

	writeSuccess(w, state)
}

func (h *Handler) AttachMinting(w http.ResponseWriter, r *http.Request) {
	var req models.AttachMintingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	state, err := h.workflowService.AttachMinting(
		r.Context(),
		chi.URLParam(r, "user_id"),
		chi.URLParam(r, "document_id"),
		&req.Minting,
	)
	if err != nil {
		h.writeWorkflowError(w, err)
		return
	}

	writeSuccess(w, state)
}

func (h *Handler) writeWorkflowError(w http.ResponseWriter, err error) {
	if errors.Is(err, service.ErrWorkflowNotFound) {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}

	h.logger.Error().Err(err).Msg("Workflow operation failed")
	writeError(w, http.StatusInternalServerError, "workflow operation failed")
}
