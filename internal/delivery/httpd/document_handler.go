package httpd

import (
	"encoding/json"
	"net/http"

	"github.com/scholarproof/verification-service/internal/models"
)

// AnalyzeDocument screens extracted document data for structural
// eligibility. A failed check is a normal response, not an error.
func (h *Handler) AnalyzeDocument(w http.ResponseWriter, r *http.Request) {
	var req models.AnalyzeDocumentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	meta := req.Metadata
	if meta.Text == "" {
		meta.Text = req.ExtractedText
	}
	if meta.TextLength == 0 {
		meta.TextLength = len(meta.Text)
	}

	verdict := h.eligibilityService.Evaluate(req.File, meta)
	writeSuccess(w, verdict)
}

func (h *Handler) EligibilityCriteria(w http.ResponseWriter, r *http.Request) {
	writeSuccess(w, h.eligibilityService.Criteria())
}
