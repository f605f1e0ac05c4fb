package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"laundry-pos/internal/model"

	"github.com/rs/zerolog"
)

// messageResponse is the generic message envelope.
type messageResponse struct {
	Message string `json:"message"`
}

// validationResponse is the structured validation failure envelope.
type validationResponse struct {
	Message string              `json:"message"`
	Errors  map[string][]string `json:"errors"`
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		// Log the error but don't expose it to the client
		return
	}
}

// writeMessage writes a plain message response.
func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, messageResponse{Message: message})
}

// writeServiceError maps a service error onto the HTTP response:
// validation failures become structured 422s, authorisation and
// not-found errors keep their generic messages, anything else is a
// logged 500.
func writeServiceError(w http.ResponseWriter, err error, logger zerolog.Logger) {
	var ve *model.ValidationError
	if errors.As(err, &ve) {
		writeJSON(w, http.StatusUnprocessableEntity, validationResponse{
			Message: "Validation failed",
			Errors:  ve.Errors,
		})
		return
	}

	switch {
	case errors.Is(err, model.ErrUnauthenticated), errors.Is(err, model.ErrInvalidToken):
		writeMessage(w, http.StatusUnauthorized, "Unauthenticated")
	case errors.Is(err, model.ErrForbidden):
		writeMessage(w, http.StatusForbidden, "Unauthorized")
	case errors.Is(err, model.ErrOrderNotFound):
		writeMessage(w, http.StatusNotFound, "Order not found")
	case errors.Is(err, model.ErrUserNotFound):
		writeMessage(w, http.StatusNotFound, "User not found")
	default:
		logger.Error().Err(err).Msg("handler error")
		writeMessage(w, http.StatusInternalServerError, "Internal server error")
	}
}
