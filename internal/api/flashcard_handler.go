// internal/api/flashcard_handler.go
package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/studyhub/backend/internal/domain/flashcard"
	"github.com/studyhub/backend/internal/domain/quiz"
)

// ── Request / Response types ────────────────────────────────────────────────

type CreateFlashcardRequest struct {
	Front      string   `json:"front"`
	Back       string   `json:"back"`
	Subject    string   `json:"subject"`
	Difficulty string   `json:"difficulty" example:"easy"`
	Tags       []string `json:"tags,omitempty"`
}

func (r *CreateFlashcardRequest) Validate() error {
	if r.Front == "" || r.Back == "" {
		return errors.New("front and back are required")
	}
	if r.Subject == "" {
		return errors.New("subject is required")
	}
	return nil
}

type FlashcardResponse struct {
	ID         string   `json:"id"`
	Front      string   `json:"front"`
	Back       string   `json:"back"`
	Subject    string   `json:"subject"`
	Difficulty string   `json:"difficulty"`
	Tags       []string `json:"tags"`
	CreatedAt  string   `json:"created_at"`
}

type ReviewFlashcardRequest struct {
	Rating    int `json:"rating" example:"4"` // 1-5 self assessment
	TimeTaken int `json:"time_taken,omitempty"`
}

func (r *ReviewFlashcardRequest) Validate() error {
	if r.Rating < 1 || r.Rating > 5 {
		return errors.New("rating must be between 1 and 5")
	}
	return nil
}

type ReviewResponse struct {
	ID          string `json:"id"`
	FlashcardID string `json:"flashcard_id"`
	Rating      int    `json:"rating"`
	TimeTaken   int    `json:"time_taken"`
	ReviewedAt  string `json:"reviewed_at"`
}

// ── Handlers ────────────────────────────────────────────────────────────────

// createFlashcard creates a flashcard.
// @Summary      Create a flashcard
// @Tags         Flashcards
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      CreateFlashcardRequest  true  "Flashcard to create"
// @Success      201   {object}  FlashcardResponse
// @Failure      400   {object}  map[string]string
// @Router       /api/flashcards [post]
func (h *Handler) createFlashcard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := identity(r)

	var req CreateFlashcardRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	difficulty, err := quiz.ParseDifficulty(req.Difficulty)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	card, err := flashcard.New(id.UserID, req.Front, req.Back, req.Subject, difficulty, req.Tags)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.store.SaveFlashcard(ctx, card); err != nil {
		h.logger.Error("failed to save flashcard", "error", err)
		respondError(w, http.StatusInternalServerError, "failed to save flashcard")
		return
	}

	respondJSON(w, http.StatusCreated, toFlashcardResponse(card))
}

// listFlashcards lists the caller's flashcards, optionally by subject.
// @Summary      List flashcards
// @Tags         Flashcards
// @Produce      json
// @Security     BearerAuth
// @Param        subject  query    string  false  "Filter by subject"
// @Success      200      {array}  FlashcardResponse
// @Router       /api/flashcards [get]
func (h *Handler) listFlashcards(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := identity(r)

	cards, err := h.store.ListFlashcards(ctx, id.UserID, r.URL.Query().Get("subject"))
	if err != nil {
		h.logger.Error("failed to list flashcards", "error", err)
		respondError(w, http.StatusInternalServerError, "failed to load flashcards")
		return
	}

	response := make([]FlashcardResponse, len(cards))
	for i, card := range cards {
		response[i] = toFlashcardResponse(card)
	}
	respondJSON(w, http.StatusOK, response)
}

// getFlashcard returns one of the caller's flashcards.
// @Summary      Get a flashcard
// @Tags         Flashcards
// @Produce      json
// @Security     BearerAuth
// @Param        flashcardID  path      string  true  "Flashcard ID"
// @Success      200          {object}  FlashcardResponse
// @Failure      403          {object}  map[string]string
// @Failure      404          {object}  map[string]string
// @Router       /api/flashcards/{flashcardID} [get]
func (h *Handler) getFlashcard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := identity(r)

	card, err := h.store.GetFlashcard(ctx, r.PathValue("flashcardID"))
	if h.handleStoreError(w, err, "flashcard") {
		return
	}
	if card.UserID != id.UserID {
		respondError(w, http.StatusForbidden, "you do not own this flashcard")
		return
	}

	respondJSON(w, http.StatusOK, toFlashcardResponse(card))
}

// reviewFlashcard records a review pass over a flashcard.
// @Summary      Review a flashcard
// @Description  Record a 1-5 self assessment of a flashcard pass.
// @Tags         Flashcards
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        flashcardID  path      string                  true  "Flashcard ID"
// @Param        body         body      ReviewFlashcardRequest  true  "Review"
// @Success      201          {object}  ReviewResponse
// @Failure      400          {object}  map[string]string
// @Failure      404          {object}  map[string]string
// @Router       /api/flashcards/{flashcardID}/reviews [post]
func (h *Handler) reviewFlashcard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := identity(r)
	flashcardID := r.PathValue("flashcardID")

	card, err := h.store.GetFlashcard(ctx, flashcardID)
	if h.handleStoreError(w, err, "flashcard") {
		return
	}
	if card.UserID != id.UserID {
		respondError(w, http.StatusForbidden, "you do not own this flashcard")
		return
	}

	var req ReviewFlashcardRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	review, err := flashcard.NewReview(id.UserID, flashcardID, req.Rating, req.TimeTaken)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.store.SaveFlashcardReview(ctx, review); err != nil {
		h.logger.Error("failed to save review", "error", err)
		respondError(w, http.StatusInternalServerError, "failed to save review")
		return
	}

	respondJSON(w, http.StatusCreated, ReviewResponse{
		ID:          review.ID,
		FlashcardID: review.FlashcardID,
		Rating:      review.Rating,
		TimeTaken:   review.TimeTaken,
		ReviewedAt:  review.ReviewedAt.Format(time.RFC3339),
	})
}

func toFlashcardResponse(f *flashcard.Flashcard) FlashcardResponse {
	return FlashcardResponse{
		ID:         f.ID,
		Front:      f.Front,
		Back:       f.Back,
		Subject:    f.Subject,
		Difficulty: string(f.Difficulty),
		Tags:       f.Tags,
		CreatedAt:  f.CreatedAt.Format(time.RFC3339),
	}
}
