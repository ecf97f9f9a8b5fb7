package httpd

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/scholarproof/verification-service/internal/service"
)

type Handler struct {
	eligibilityService service.EligibilityService
	plagiarismService  service.PlagiarismService
	trustScoreService  service.TrustScoreService
	archiveService     service.ArchiveService
	workflowService    service.WorkflowService
	logger             zerolog.Logger
}

func NewHandler(
	eligibilityService service.EligibilityService,
	plagiarismService service.PlagiarismService,
	trustScoreService service.TrustScoreService,
	archiveService service.ArchiveService,
	workflowService service.WorkflowService,
	logger zerolog.Logger,
) *Handler {
	return &Handler{
		eligibilityService: eligibilityService,
		plagiarismService:  plagiarismService,
		trustScoreService:  trustScoreService,
		archiveService:     archiveService,
		workflowService:    workflowService,
		logger:             logger,
	}
}

func (h *Handler) RegisterRoutes(router chi.Router) {
	router.Get("/health", h.HealthCheck)

	router.Route("/api/v1", func(api chi.Router) {
		api.Route("/documents", func(r chi.Router) {
			r.Post("/analyze", h.AnalyzeDocument)
			r.Get("/criteria", h.EligibilityCriteria)
		})

		api.Post("/plagiarism/normalize", h.NormalizePlagiarism)
		api.Post("/trust-score", h.ComputeTrustScore)

		api.Route("/archives", func(r chi.Router) {
			r.Get("/", h.ListArchives)
			r.Post("/", h.ArchiveWorkflow)
			r.Post("/resume", h.ResumeWorkflow)
			r.Delete("/", h.DeleteArchive)
			r.Get("/status", h.ArchiveServiceStatus)
		})

		api.Route("/workflows", func(r chi.Router) {
			r.Post("/", h.CreateWorkflow)
			r.Route("/{user_id}/{document_id}", func(wf chi.Router) {
				wf.Get("/", h.GetWorkflow)
				wf.Delete("/", h.ClearWorkflow)
				wf.Post("/eligibility", h.RecordEligibility)
				wf.Post("/plagiarism", h.AttachPlagiarism)
				wf.Post("/trust-score", h.AttachTrustScore)
				wf.Post("/review", h.AttachHumanReview)
				wf.Post("/minting", h.AttachMinting)
			})
		})
	})
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]interface{}{
		"error":   http.StatusText(status),
		"message": message,
	})
}

func writeSuccess(w http.ResponseWriter, data interface{}) {
	response := map[string]interface{}{
		"success": true,
		"data":    data,
	}
	writeJSON(w, http.StatusOK, response)
}
