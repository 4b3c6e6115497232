package studyguide

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/studyhub/backend/internal/domain/quiz"
)

// StudyGuide is a user-authored study document.
type StudyGuide struct {
	ID            string
	Title         string
	Subject       string
	Content       string
	KeyTopics     []string
	Objectives    []string
	Difficulty    quiz.Difficulty
	EstimatedTime int // minutes, 0 if not set
	Rating        *float64
	UserID        string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func New(userID, title, subject, content string, keyTopics, objectives []string, difficulty quiz.Difficulty, estimatedTime int) (*StudyGuide, error) {
	if title == "" {
		return nil, errors.New("title is required")
	}
	if subject == "" {
		return nil, errors.New("subject is required")
	}
	if content == "" {
		return nil, errors.New("content is required")
	}
	if keyTopics == nil {
		keyTopics = []string{}
	}
	if objectives == nil {
		objectives = []string{}
	}
	now := time.Now().UTC()
	return &StudyGuide{
		ID:            uuid.NewString(),
		Title:         title,
		Subject:       subject,
		Content:       content,
		KeyTopics:     keyTopics,
		Objectives:    objectives,
		Difficulty:    difficulty,
		EstimatedTime: estimatedTime,
		UserID:        userID,
		CreatedAt:     now,
		UpdatedAt:     now,
	}, nil
}
