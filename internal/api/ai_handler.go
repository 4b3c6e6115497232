// internal/api/ai_handler.go
package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/studyhub/backend/internal/domain/quiz"
)

// ── Request / Response types ────────────────────────────────────────────────

type MotivationRequest struct {
	Tone string `json:"tone,omitempty" example:"encouraging"`
}

type MotivationResponse struct {
	Message string `json:"message"`
}

type StudyTipsRequest struct {
	Subject       string `json:"subject"`
	Difficulty    string `json:"difficulty" example:"medium"`
	LearningStyle string `json:"learning_style,omitempty" example:"visual"`
}

func (r *StudyTipsRequest) Validate() error {
	if r.Subject == "" {
		return errors.New("subject is required")
	}
	return nil
}

type StudyTipsResponse struct {
	Tips string `json:"tips"`
}

// ── Handlers ────────────────────────────────────────────────────────────────

// motivation returns a personalized motivational message. The provider can
// fail silently here; the endpoint always answers with a message.
// @Summary      Motivation message
// @Description  Personalized motivation based on recent performance and study streak.
// @Tags         AI
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      MotivationRequest  false  "Tone preference"
// @Success      200   {object}  MotivationResponse
// @Router       /api/ai/motivation [post]
func (h *Handler) motivation(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := identity(r)

	// Tone is optional, so an empty body is fine here.
	var req MotivationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		respondError(w, http.StatusBadRequest, "invalid json")
		return
	}

	message, err := h.generation.Motivation(ctx, id.UserID, req.Tone)
	if h.handleStoreError(w, err, "profile") {
		return
	}

	respondJSON(w, http.StatusOK, MotivationResponse{Message: message})
}

// studyTips returns actionable study tips for a subject.
// @Summary      Study tips
// @Tags         AI
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      StudyTipsRequest  true  "Tips request"
// @Success      200   {object}  StudyTipsResponse
// @Failure      400   {object}  map[string]string
// @Router       /api/ai/study-tips [post]
func (h *Handler) studyTips(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req StudyTipsRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	difficulty := req.Difficulty
	if difficulty == "" {
		difficulty = string(quiz.DifficultyMedium)
	}
	parsed, err := quiz.ParseDifficulty(difficulty)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	tips := h.generation.StudyTips(ctx, req.Subject, parsed, req.LearningStyle)
	respondJSON(w, http.StatusOK, StudyTipsResponse{Tips: tips})
}
