package httpd

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/scholarproof/verification-service/internal/models"
	"github.com/scholarproof/verification-service/internal/service"
)

func (h *Handler) ArchiveWorkflow(w http.ResponseWriter, r *http.Request) {
	var req models.ArchiveWorkflowRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Workflow.DocumentID == "" {
		writeError(w, http.StatusBadRequest, "workflow.documentId is required")
		return
	}

	archiveURL, err := h.archiveService.Archive(r.Context(), &req.Workflow, req.UserID)
	if err != nil {
		h.writeArchiveError(w, err, "Failed to archive workflow")
		return
	}

	writeSuccess(w, models.ArchiveWorkflowResponse{ArchiveURL: archiveURL})
}

func (h *Handler) ResumeWorkflow(w http.ResponseWriter, r *http.Request) {
	var req models.ResumeWorkflowRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	record, err := h.archiveService.Resume(r.Context(), req.ArchiveURL)
	if err != nil {
		h.writeArchiveError(w, err, "Failed to resume workflow")
		return
	}

	writeSuccess(w, record)
}

func (h *Handler) ListArchives(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")

	summaries, err := h.archiveService.List(r.Context(), userID)
	if err != nil {
		h.writeArchiveError(w, err, "Failed to list archives")
		return
	}

	writeSuccess(w, summaries)
}

func (h *Handler) DeleteArchive(w http.ResponseWriter, r *http.Request) {
	archiveURL := r.URL.Query().Get("url")
	if archiveURL == "" {
		writeError(w, http.StatusBadRequest, "url query parameter is required")
		return
	}

	ok, err := h.archiveService.Delete(r.Context(), archiveURL)
	if err != nil {
		h.writeArchiveError(w, err, "Failed to delete archive")
		return
	}

	writeSuccess(w, map[string]bool{"deleted": ok})
}

func (h *Handler) ArchiveServiceStatus(w http.ResponseWriter, r *http.Request) {
	writeSuccess(w, h.archiveService.Status())
}

// writeArchiveError maps the archive error classes onto distinct HTTP
// statuses so operators can tell "not wired up" apart from "network blip".
func (h *Handler) writeArchiveError(w http.ResponseWriter, err error, logMsg string) {
	h.logger.Error().Err(err).Msg(logMsg)

	switch {
	case errors.Is(err, service.ErrNotConfigured):
		writeError(w, http.StatusServiceUnavailable, err.Error())
	case errors.Is(err, service.ErrInvalidArchiveURL):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrArchiveNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	default:
		writeError(w, http.StatusBadGateway, "archive storage request failed")
	}
}
