package httpd

import (
	"encoding/json"
	"net/http"

	"github.com/scholarproof/verification-service/internal/models"
)

func (h *Handler) ComputeTrustScore(w http.ResponseWriter, r *http.Request) {
	var req models.TrustScoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.PlagiarismScore < 0 || req.PlagiarismScore > 100 {
		writeError(w, http.StatusBadRequest, "plagiarismScore must be between 0 and 100")
		return
	}
	if req.DocumentText == "" {
		writeError(w, http.StatusBadRequest, "documentText is required")
		return
	}

	report, err := h.trustScoreService.ComputeTrustScore(req.PlagiarismScore, req.DocumentText)
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to compute trust score")
		writeError(w, http.StatusInternalServerError, "trust score computation failed")
		return
	}

	writeSuccess(w, report)
}
