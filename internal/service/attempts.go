// internal/service/attempts.go
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/studyhub/backend/internal/domain/quiz"
	"github.com/studyhub/backend/internal/domain/user"
)

// ErrForbidden is returned when a caller touches content owned by another
// user. It is distinct from not-found so handlers can answer 403 vs 404.
var ErrForbidden = errors.New("not the owner of this resource")

// AttemptStore is the slice of persistence the attempt service needs.
type AttemptStore interface {
	GetQuiz(ctx context.Context, id string) (*quiz.Quiz, error)
	SaveAttempt(ctx context.Context, a *quiz.Attempt) error
	GetProfile(ctx context.Context, userID string) (*user.Profile, error)
	UpdateProfileStats(ctx context.Context, userID string, delta user.StatsDelta) error
}

// AttemptService grades quiz submissions and folds the results into the
// user's aggregate statistics.
//
// The stats fold is read-modify-write, so concurrent submissions from the
// same user would race and lose updates. A per-user mutex serializes the
// fold; submissions from different users stay concurrent.
type AttemptService struct {
	store  AttemptStore
	logger *slog.Logger

	mu        sync.Mutex
	userLocks map[string]*sync.Mutex
}

func NewAttemptService(store AttemptStore, logger *slog.Logger) *AttemptService {
	return &AttemptService{
		store:     store,
		logger:    logger,
		userLocks: make(map[string]*sync.Mutex),
	}
}

func (s *AttemptService) userLock(userID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()

	lock, ok := s.userLocks[userID]
	if !ok {
		lock = &sync.Mutex{}
		s.userLocks[userID] = lock
	}
	return lock
}

// Submit grades answers against the quiz, persists the attempt, and folds
// the result into the submitter's statistics. Only the quiz owner may submit.
//
// A storage failure anywhere in the sequence surfaces as an error, the stats
// fold included. The attempt is saved before the fold, so on a fold failure
// it already exists; clients should re-read history rather than resubmit.
func (s *AttemptService) Submit(ctx context.Context, userID, quizID string, answers []quiz.Answer, timeTakenSeconds int) (*quiz.Attempt, error) {
	q, err := s.store.GetQuiz(ctx, quizID)
	if err != nil {
		return nil, err
	}
	if q.UserID != userID {
		return nil, ErrForbidden
	}

	graded, err := quiz.Grade(q, answers)
	if err != nil {
		return nil, err
	}

	attempt := quiz.NewAttempt(q, userID, graded, timeTakenSeconds)
	if err := s.store.SaveAttempt(ctx, attempt); err != nil {
		return nil, fmt.Errorf("failed to save attempt: %w", err)
	}

	if err := s.applyStats(ctx, userID, attempt); err != nil {
		s.logger.Error("failed to update profile stats after attempt",
			"user_id", userID,
			"attempt_id", attempt.ID,
			"error", err,
		)
		return nil, fmt.Errorf("failed to update profile stats: %w", err)
	}

	return attempt, nil
}

func (s *AttemptService) applyStats(ctx context.Context, userID string, attempt *quiz.Attempt) error {
	lock := s.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	profile, err := s.store.GetProfile(ctx, userID)
	if err != nil {
		return err
	}

	delta := profile.ApplyQuizResult(attempt.Score, attempt.TimeTaken)
	return s.store.UpdateProfileStats(ctx, userID, delta)
}
