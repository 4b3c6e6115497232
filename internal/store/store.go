package store

import (
	"context"
	"errors"
	"time"

	"github.com/studyhub/backend/internal/domain/flashcard"
	"github.com/studyhub/backend/internal/domain/quiz"
	"github.com/studyhub/backend/internal/domain/studyguide"
	"github.com/studyhub/backend/internal/domain/studysession"
	"github.com/studyhub/backend/internal/domain/user"
)

var (
	ErrNotFound   = errors.New("not found")
	ErrEmailTaken = errors.New("email already registered")
)

// UserRecord holds a user's login credentials. The study statistics live in
// the profile, created together with the record at registration.
type UserRecord struct {
	ID           string
	Email        string
	PasswordHash string
	FullName     string
	CreatedAt    time.Time
}

// UserStore covers identity and profile persistence.
type UserStore interface {
	CreateUser(ctx context.Context, rec *UserRecord, profile *user.Profile) error
	GetUserByEmail(ctx context.Context, email string) (*UserRecord, error)
	GetProfile(ctx context.Context, userID string) (*user.Profile, error)
	UpdateProfileStats(ctx context.Context, userID string, delta user.StatsDelta) error
}

// ContentStore covers the user-owned study content.
type ContentStore interface {
	SaveQuiz(ctx context.Context, q *quiz.Quiz) error
	GetQuiz(ctx context.Context, id string) (*quiz.Quiz, error)
	ListQuizzes(ctx context.Context, userID string) ([]*quiz.Quiz, error)

	SaveAttempt(ctx context.Context, a *quiz.Attempt) error
	ListAttempts(ctx context.Context, userID string) ([]*quiz.Attempt, error)

	SaveFlashcard(ctx context.Context, f *flashcard.Flashcard) error
	GetFlashcard(ctx context.Context, id string) (*flashcard.Flashcard, error)
	ListFlashcards(ctx context.Context, userID, subject string) ([]*flashcard.Flashcard, error)
	SaveFlashcardReview(ctx context.Context, r *flashcard.Review) error

	SaveStudyGuide(ctx context.Context, g *studyguide.StudyGuide) error
	GetStudyGuide(ctx context.Context, id string) (*studyguide.StudyGuide, error)
	ListStudyGuides(ctx context.Context, userID string) ([]*studyguide.StudyGuide, error)

	SaveStudySession(ctx context.Context, s *studysession.Session) error
	ListStudySessions(ctx context.Context, userID string, limit int) ([]*studysession.Session, error)
}

// Store is the full persistence surface used by the HTTP layer.
type Store interface {
	UserStore
	ContentStore
	Close() error
}
