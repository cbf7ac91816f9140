package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/controlx/backoffice/internal/repositories"
	"github.com/controlx/backoffice/internal/services"
	"go.uber.org/zap"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type errorResponse struct {
	Error string `json:"error"`
}

// writeError maps the service error taxonomy onto HTTP statuses. Anything
// unrecognized is treated as a backend failure and not echoed to the client.
func writeError(w http.ResponseWriter, logger *zap.Logger, err error) {
	switch {
	case errors.Is(err, repositories.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "not found"})
	case errors.Is(err, services.ErrValidation), errors.Is(err, repositories.ErrBadCursor):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
	case errors.Is(err, services.ErrInvalidCredentials), errors.Is(err, services.ErrInvalidToken):
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: err.Error()})
	case errors.Is(err, services.ErrUnauthorized):
		writeJSON(w, http.StatusForbidden, errorResponse{Error: err.Error()})
	case errors.Is(err, services.ErrUsernameExists):
		writeJSON(w, http.StatusConflict, errorResponse{Error: err.Error()})
	default:
		logger.Error("request failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "backend unavailable"})
	}
}
