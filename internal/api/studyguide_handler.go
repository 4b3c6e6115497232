// internal/api/studyguide_handler.go
package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/studyhub/backend/internal/domain/quiz"
	"github.com/studyhub/backend/internal/domain/studyguide"
)

// ── Request / Response types ────────────────────────────────────────────────

type CreateStudyGuideRequest struct {
	Title         string   `json:"title"`
	Subject       string   `json:"subject"`
	Content       string   `json:"content"`
	KeyTopics     []string `json:"key_topics,omitempty"`
	Objectives    []string `json:"objectives,omitempty"`
	Difficulty    string   `json:"difficulty" example:"medium"`
	EstimatedTime int      `json:"estimated_time,omitempty"` // minutes
}

func (r *CreateStudyGuideRequest) Validate() error {
	if r.Title == "" {
		return errors.New("title is required")
	}
	if r.Subject == "" {
		return errors.New("subject is required")
	}
	if r.Content == "" {
		return errors.New("content is required")
	}
	return nil
}

type StudyGuideResponse struct {
	ID            string   `json:"id"`
	Title         string   `json:"title"`
	Subject       string   `json:"subject"`
	Content       string   `json:"content"`
	KeyTopics     []string `json:"key_topics"`
	Objectives    []string `json:"objectives"`
	Difficulty    string   `json:"difficulty"`
	EstimatedTime int      `json:"estimated_time"`
	Rating        *float64 `json:"rating,omitempty"`
	CreatedAt     string   `json:"created_at"`
	UpdatedAt     string   `json:"updated_at"`
}

// ── Handlers ────────────────────────────────────────────────────────────────

// createStudyGuide creates a study guide.
// @Summary      Create a study guide
// @Tags         StudyGuides
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      CreateStudyGuideRequest  true  "Study guide to create"
// @Success      201   {object}  StudyGuideResponse
// @Failure      400   {object}  map[string]string
// @Router       /api/study-guides [post]
func (h *Handler) createStudyGuide(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := identity(r)

	var req CreateStudyGuideRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	difficulty, err := quiz.ParseDifficulty(req.Difficulty)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	guide, err := studyguide.New(id.UserID, req.Title, req.Subject, req.Content, req.KeyTopics, req.Objectives, difficulty, req.EstimatedTime)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.store.SaveStudyGuide(ctx, guide); err != nil {
		h.logger.Error("failed to save study guide", "error", err)
		respondError(w, http.StatusInternalServerError, "failed to save study guide")
		return
	}

	respondJSON(w, http.StatusCreated, toStudyGuideResponse(guide))
}

// listStudyGuides lists the caller's study guides.
// @Summary      List study guides
// @Tags         StudyGuides
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  StudyGuideResponse
// @Router       /api/study-guides [get]
func (h *Handler) listStudyGuides(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := identity(r)

	guides, err := h.store.ListStudyGuides(ctx, id.UserID)
	if err != nil {
		h.logger.Error("failed to list study guides", "error", err)
		respondError(w, http.StatusInternalServerError, "failed to load study guides")
		return
	}

	response := make([]StudyGuideResponse, len(guides))
	for i, g := range guides {
		response[i] = toStudyGuideResponse(g)
	}
	respondJSON(w, http.StatusOK, response)
}

// getStudyGuide returns one of the caller's study guides.
// @Summary      Get a study guide
// @Tags         StudyGuides
// @Produce      json
// @Security     BearerAuth
// @Param        guideID  path      string  true  "Study guide ID"
// @Success      200      {object}  StudyGuideResponse
// @Failure      403      {object}  map[string]string
// @Failure      404      {object}  map[string]string
// @Router       /api/study-guides/{guideID} [get]
func (h *Handler) getStudyGuide(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := identity(r)

	guide, err := h.store.GetStudyGuide(ctx, r.PathValue("guideID"))
	if h.handleStoreError(w, err, "study guide") {
		return
	}
	if guide.UserID != id.UserID {
		respondError(w, http.StatusForbidden, "you do not own this study guide")
		return
	}

	respondJSON(w, http.StatusOK, toStudyGuideResponse(guide))
}

func toStudyGuideResponse(g *studyguide.StudyGuide) StudyGuideResponse {
	return StudyGuideResponse{
		ID:            g.ID,
		Title:         g.Title,
		Subject:       g.Subject,
		Content:       g.Content,
		KeyTopics:     g.KeyTopics,
		Objectives:    g.Objectives,
		Difficulty:    string(g.Difficulty),
		EstimatedTime: g.EstimatedTime,
		Rating:        g.Rating,
		CreatedAt:     g.CreatedAt.Format(time.RFC3339),
		UpdatedAt:     g.UpdatedAt.Format(time.RFC3339),
	}
}
