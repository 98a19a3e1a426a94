package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/smartlocalbusiness/backend/internal/infrastructure/observability"
	apperrors "github.com/smartlocalbusiness/backend/pkg/errors"
)

// Response is the envelope of every API reply
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data"`
}

func respondWithJSON(w http.ResponseWriter, statusCode int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Error().Err(err).Msg("Failed to encode response")
	}
}

func respondOK(w http.ResponseWriter, data interface{}) {
	respondWithJSON(w, http.StatusOK, Response{Success: true, Data: data})
}

func respondCreated(w http.ResponseWriter, message string, data interface{}) {
	respondWithJSON(w, http.StatusCreated, Response{Success: true, Message: message, Data: data})
}

func respondMessage(w http.ResponseWriter, statusCode int, success bool, message string, data interface{}) {
	respondWithJSON(w, statusCode, Response{Success: success, Message: message, Data: data})
}

func respondWithError(w http.ResponseWriter, statusCode int, message string) {
	respondWithJSON(w, statusCode, Response{Success: false, Message: message})
}

// StatusFor maps an error to its HTTP status
func StatusFor(err error) int {
	switch apperrors.TypeOf(err) {
	case apperrors.ErrorTypeValidation, apperrors.ErrorTypeConflict:
		return http.StatusBadRequest
	case apperrors.ErrorTypeUnauthorized:
		return http.StatusUnauthorized
	case apperrors.ErrorTypeNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// respondWithAppError writes the envelope for err. Internal details never
// reach the client.
func respondWithAppError(w http.ResponseWriter, r *http.Request, err error) {
	status := StatusFor(err)
	if status == http.StatusInternalServerError {
		observability.LoggerFromContext(r.Context()).Error().Err(err).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Msg("Request failed")
		respondWithError(w, status, "an unexpected error occurred")
		return
	}

	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		respondWithError(w, status, appErr.Message)
		return
	}
	respondWithError(w, status, err.Error())
}

const maxBodyBytes = 1 << 20

// decodeJSON reads a JSON body into dst; malformed bodies are validation
// errors
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return apperrors.NewValidationError("request body is required")
		}
		return apperrors.NewValidationError("invalid request payload")
	}
	return nil
}
