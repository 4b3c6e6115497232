package flashcard

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/studyhub/backend/internal/domain/quiz"
)

// Flashcard is a front/back study card owned by one user.
type Flashcard struct {
	ID         string
	Front      string
	Back       string
	Subject    string
	Difficulty quiz.Difficulty
	Tags       []string
	UserID     string
	CreatedAt  time.Time
}

// Review records one pass over a flashcard. Rating is a 1-5 self-assessment
// (1 = hard, 5 = easy).
type Review struct {
	ID          string
	FlashcardID string
	UserID      string
	Rating      int
	TimeTaken   int // seconds, 0 if not reported
	ReviewedAt  time.Time
}

func New(userID, front, back, subject string, difficulty quiz.Difficulty, tags []string) (*Flashcard, error) {
	if front == "" {
		return nil, errors.New("front is required")
	}
	if back == "" {
		return nil, errors.New("back is required")
	}
	if subject == "" {
		return nil, errors.New("subject is required")
	}
	if tags == nil {
		tags = []string{}
	}
	return &Flashcard{
		ID:         uuid.NewString(),
		Front:      front,
		Back:       back,
		Subject:    subject,
		Difficulty: difficulty,
		Tags:       tags,
		UserID:     userID,
		CreatedAt:  time.Now().UTC(),
	}, nil
}

func NewReview(userID, flashcardID string, rating, timeTakenSeconds int) (*Review, error) {
	if rating < 1 || rating > 5 {
		return nil, fmt.Errorf("rating must be between 1 and 5, got %d", rating)
	}
	return &Review{
		ID:          uuid.NewString(),
		FlashcardID: flashcardID,
		UserID:      userID,
		Rating:      rating,
		TimeTaken:   timeTakenSeconds,
		ReviewedAt:  time.Now().UTC(),
	}, nil
}
