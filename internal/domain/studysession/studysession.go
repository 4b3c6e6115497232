package studysession

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type ActivityType string

const (
	ActivityQuiz       ActivityType = "quiz"
	ActivityFlashcard  ActivityType = "flashcard"
	ActivityStudyGuide ActivityType = "study_guide"
)

func ParseActivityType(s string) (ActivityType, error) {
	switch ActivityType(s) {
	case ActivityQuiz, ActivityFlashcard, ActivityStudyGuide:
		return ActivityType(s), nil
	}
	return "", fmt.Errorf("unknown activity type %q", s)
}

// Session records one study activity for a user's history.
type Session struct {
	ID           string
	UserID       string
	ActivityType ActivityType
	Subject      string
	Duration     int // minutes
	Score        *float64
	CompletedAt  time.Time
}

func New(userID string, activity ActivityType, subject string, durationMinutes int, score *float64) (*Session, error) {
	if subject == "" {
		return nil, errors.New("subject is required")
	}
	if durationMinutes < 0 {
		return nil, errors.New("duration cannot be negative")
	}
	return &Session{
		ID:           uuid.NewString(),
		UserID:       userID,
		ActivityType: activity,
		Subject:      subject,
		Duration:     durationMinutes,
		Score:        score,
		CompletedAt:  time.Now().UTC(),
	}, nil
}
