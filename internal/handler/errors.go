package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/go-playground/validator/v10"

	"lostfound/internal/models"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

func WriteError(w http.ResponseWriter, message string, statusCode int) {
	writeJSON(w, ErrorResponse{Error: message}, statusCode)
}

func writeJSON(w http.ResponseWriter, data interface{}, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Error("failed to encode response", "err", err)
	}
}

// writeServiceError maps domain errors to status codes. Anything unknown is a
// 500 and its details stay in the log.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, models.ErrNotFound):
		WriteError(w, "resource not found", http.StatusNotFound)
	case errors.Is(err, models.ErrNoFieldsToUpdate):
		WriteError(w, "no fields to update", http.StatusBadRequest)
	case errors.Is(err, models.ErrInvalidStatus):
		WriteError(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, models.ErrPasswordMismatch):
		WriteError(w, "password confirmation does not match", http.StatusBadRequest)
	case errors.Is(err, models.ErrEmailTaken):
		WriteError(w, "email address already registered", http.StatusConflict)
	case errors.Is(err, models.ErrInvalidCredentials):
		WriteError(w, "invalid email or password", http.StatusUnauthorized)
	case errors.Is(err, models.ErrForbidden):
		WriteError(w, "access denied", http.StatusForbidden)
	default:
		log.Error("request failed", "method", r.Method, "path", r.URL.Path, "err", err)
		WriteError(w, "internal server error", http.StatusInternalServerError)
	}
}

func writeValidationError(w http.ResponseWriter, err error) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		WriteError(w, "invalid field "+fe.Field()+": failed "+fe.Tag(), http.StatusBadRequest)
		return
	}
	WriteError(w, "invalid request", http.StatusBadRequest)
}
