// internal/handlers/respond.go
package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/adekola/stockpoint-be/internal/core/domain"
)

func respondJSON(w http.ResponseWriter, logger *slog.Logger, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error("failed to encode JSON response",
			slog.String("error", err.Error()))
	}
}

func respondError(w http.ResponseWriter, logger *slog.Logger, status int, message string) {
	respondJSON(w, logger, status, map[string]string{"error": message})
}

// respondDomainError maps domain sentinels onto HTTP status codes and
// writes the error response.
func respondDomainError(w http.ResponseWriter, logger *slog.Logger, err error) {
	status := http.StatusInternalServerError

	switch {
	case errors.Is(err, domain.ErrUnauthorized):
		status = http.StatusUnauthorized
	case errors.Is(err, domain.ErrBadRequest):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrInsufficientStock):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrPriceMismatch):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrEditWindowExpired):
		status = http.StatusConflict
	case errors.Is(err, domain.ErrConflict):
		status = http.StatusConflict
	case errors.Is(err, domain.ErrCompensationFailed):
		status = http.StatusInternalServerError
	case errors.Is(err, domain.ErrStoreUnavailable):
		status = http.StatusServiceUnavailable
	}

	respondError(w, logger, status, err.Error())
}
