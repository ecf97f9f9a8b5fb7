package httpd

import (
	"net/http"
	"time"
)

func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	status := h.archiveService.Status()

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":          "healthy",
		"archive_storage": status.Configured,
		"timestamp":       time.Now(),
	})
}
