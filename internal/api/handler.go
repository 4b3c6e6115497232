// internal/api/handler.go
package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/studyhub/backend/internal/auth"
	"github.com/studyhub/backend/internal/domain/quiz"
	"github.com/studyhub/backend/internal/extract"
	"github.com/studyhub/backend/internal/genai"
	"github.com/studyhub/backend/internal/service"
	"github.com/studyhub/backend/internal/store"
)

// Handler holds all dependencies needed by HTTP handlers.
// Instead of relying on package-level globals, every handler method
// receives its dependencies through this struct.
type Handler struct {
	store      store.Store
	attempts   *service.AttemptService
	generation *service.GenerationService
	tokens     *auth.Service
	logger     *slog.Logger
	maxUpload  int64 // bytes, caps document uploads
}

// NewHandler creates a Handler with the given dependencies.
func NewHandler(s store.Store, attempts *service.AttemptService, generation *service.GenerationService, tokens *auth.Service, logger *slog.Logger, maxUpload int64) *Handler {
	return &Handler{
		store:      s,
		attempts:   attempts,
		generation: generation,
		tokens:     tokens,
		logger:     logger,
		maxUpload:  maxUpload,
	}
}

// identity returns the authenticated caller. The auth middleware guarantees
// it is present on protected routes.
func identity(r *http.Request) auth.Identity {
	id, _ := auth.FromContext(r.Context())
	return id
}

// respondJSON writes a JSON response with the given status code.
func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// respondError writes a JSON error body so clients always get a parseable
// response.
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// decodeJSON decodes the request body into v. On failure it writes a 400 and
// returns false (caller should return).
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		respondError(w, http.StatusBadRequest, "invalid json")
		return false
	}
	return true
}

// Validator lets request types carry their own field validation.
type Validator interface {
	Validate() error
}

// decodeAndValidate decodes the request body and runs its validation.
// On failure it writes a 400 and returns false.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, v Validator) bool {
	if !decodeJSON(w, r, v) {
		return false
	}
	if err := v.Validate(); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return false
	}
	return true
}

// handleStoreError checks for common store errors and writes the appropriate
// HTTP response. Returns true if an error was handled (caller should return).
func (h *Handler) handleStoreError(w http.ResponseWriter, err error, entity string) bool {
	if err == nil {
		return false
	}
	switch {
	case errors.Is(err, store.ErrNotFound):
		respondError(w, http.StatusNotFound, entity+" not found")
	case errors.Is(err, service.ErrForbidden):
		respondError(w, http.StatusForbidden, "you do not own this "+entity)
	default:
		h.logger.Error("store error", "error", err, "entity", entity)
		respondError(w, http.StatusInternalServerError, "internal error")
	}
	return true
}

// handleGenerationError maps pipeline failures onto HTTP status codes:
// bad input is the client's fault, provider trouble is a bad gateway.
func (h *Handler) handleGenerationError(w http.ResponseWriter, err error) {
	var genErr *genai.GenerationError
	switch {
	case errors.Is(err, quiz.ErrInvalidEnum):
		respondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, extract.ErrUnreadableDocument):
		respondError(w, http.StatusBadRequest, "could not extract text from the uploaded document")
	case errors.Is(err, extract.ErrEmptyText):
		respondError(w, http.StatusBadRequest, "the uploaded document contains no extractable text")
	case errors.As(err, &genErr), errors.Is(err, genai.ErrEmptyGeneration):
		h.logger.Error("quiz generation failed", "error", err)
		respondError(w, http.StatusBadGateway, "quiz generation failed, please try again")
	default:
		h.logger.Error("quiz generation failed", "error", err)
		respondError(w, http.StatusInternalServerError, "internal error")
	}
}
