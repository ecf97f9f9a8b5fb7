package httpd

import (
	"encoding/json"
	"io"
	"net/http"
)

// NormalizePlagiarism converts a raw upstream plagiarism response into the
// canonical summary. The body is either the raw response itself or a
// {"raw": ...} wrapper.
func (h *Handler) NormalizePlagiarism(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read request body")
		return
	}

	raw := json.RawMessage(body)

	var wrapper struct {
		Raw json.RawMessage `json:"raw"`
	}
	if err := json.Unmarshal(body, &wrapper); err == nil && len(wrapper.Raw) > 0 {
		raw = wrapper.Raw
	}

	summary, err := h.plagiarismService.Normalize(raw)
	if err != nil {
		h.logger.Warn().Err(err).Msg("Failed to normalize plagiarism result")
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	writeSuccess(w, summary)
}
