package handlers

import (
	"encoding/json"
	"net/http"

	apperrors "github.com/carepulse/healthcare-analytics/backend/pkg/errors"
)

func respondWithJSON(w http.ResponseWriter, statusCode int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(payload)
}

func respondWithError(w http.ResponseWriter, statusCode int, message string) {
	respondWithJSON(w, statusCode, map[string]string{
		"error": message,
	})
}

// respondWithAppError maps the error taxonomy onto HTTP status codes. The
// fallback message covers errors that carry no taxonomy.
func respondWithAppError(w http.ResponseWriter, err error, fallbackMessage string) {
	if appErr, ok := err.(*apperrors.AppError); ok {
		switch appErr.Type {
		case apperrors.ErrorTypeNotFound:
			respondWithError(w, http.StatusNotFound, appErr.Message)
			return
		case apperrors.ErrorTypeValidation:
			respondWithError(w, http.StatusBadRequest, appErr.Message)
			return
		case apperrors.ErrorTypeMisconfigured:
			respondWithError(w, http.StatusInternalServerError, appErr.Message)
			return
		case apperrors.ErrorTypeExternal:
			respondWithError(w, http.StatusServiceUnavailable, appErr.Message)
			return
		default:
			respondWithError(w, http.StatusInternalServerError, fallbackMessage)
			return
		}
	}
	respondWithError(w, http.StatusInternalServerError, fallbackMessage)
}
