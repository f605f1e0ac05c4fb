package handler

import (
	"net/http"

	"laundry-pos/internal/auth"
	"laundry-pos/internal/service"

	"github.com/rs/zerolog"
)

// AnalyticsHandler handles the admin analytics dashboard request.
type AnalyticsHandler struct {
	service service.AnalyticsService
	logger  zerolog.Logger
}

// NewAnalyticsHandler creates a new analytics handler.
func NewAnalyticsHandler(service service.AnalyticsService, logger zerolog.Logger) *AnalyticsHandler {
	return &AnalyticsHandler{
		service: service,
		logger:  logger.With().Str("handler", "analytics").Logger(),
	}
}

// Report handles GET /api/analytics requests.
func (h *AnalyticsHandler) Report(w http.ResponseWriter, r *http.Request) {
	p, ok := auth.PrincipalFromContext(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "Unauthenticated")
		return
	}

	report, err := h.service.Report(r.Context(), p)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, report)
}
