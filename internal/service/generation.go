// internal/service/generation.go
package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/studyhub/backend/internal/domain/quiz"
	"github.com/studyhub/backend/internal/domain/user"
	"github.com/studyhub/backend/internal/genai"
)

// recentAttemptWindow bounds how many attempts feed the performance summary
// used to personalize motivation messages.
const recentAttemptWindow = 5

// QuizAssembler runs the document-to-quiz pipeline without persisting.
type QuizAssembler interface {
	GenerateQuiz(ctx context.Context, userID string, in genai.GenerateQuizInput) (*quiz.Quiz, error)
}

// Advisor produces free-text coaching messages. Implementations degrade to
// canned fallbacks internally, so these calls never fail.
type Advisor interface {
	Motivation(ctx context.Context, p genai.MotivationParams) string
	StudyTips(ctx context.Context, p genai.TipsParams) string
}

// GenerationStore is the slice of persistence the generation service needs.
type GenerationStore interface {
	SaveQuiz(ctx context.Context, q *quiz.Quiz) error
	GetProfile(ctx context.Context, userID string) (*user.Profile, error)
	ListAttempts(ctx context.Context, userID string) ([]*quiz.Attempt, error)
}

// GenerationService fronts the AI pipeline: document-derived quizzes plus
// the motivation and study-tips endpoints.
type GenerationService struct {
	assembler QuizAssembler
	advisor   Advisor
	store     GenerationStore
	logger    *slog.Logger
}

func NewGenerationService(assembler QuizAssembler, advisor Advisor, store GenerationStore, logger *slog.Logger) *GenerationService {
	return &GenerationService{
		assembler: assembler,
		advisor:   advisor,
		store:     store,
		logger:    logger,
	}
}

// QuizFromDocument generates a quiz from an uploaded document and persists
// it. On any pipeline failure nothing is stored.
func (s *GenerationService) QuizFromDocument(ctx context.Context, userID string, in genai.GenerateQuizInput) (*quiz.Quiz, error) {
	q, err := s.assembler.GenerateQuiz(ctx, userID, in)
	if err != nil {
		return nil, err
	}

	if err := s.store.SaveQuiz(ctx, q); err != nil {
		return nil, fmt.Errorf("failed to save generated quiz: %w", err)
	}

	s.logger.Info("generated quiz from document",
		"user_id", userID,
		"quiz_id", q.ID,
		"questions", len(q.Questions),
	)
	return q, nil
}

// Motivation builds a personalized motivational message from the user's
// profile and recent attempts. Store failures propagate; provider failures
// do not (the advisor falls back to a canned message).
func (s *GenerationService) Motivation(ctx context.Context, userID, tone string) (string, error) {
	profile, err := s.store.GetProfile(ctx, userID)
	if err != nil {
		return "", err
	}

	attempts, err := s.store.ListAttempts(ctx, userID)
	if err != nil {
		return "", err
	}

	return s.advisor.Motivation(ctx, genai.MotivationParams{
		UserName:    profile.FullName,
		Performance: summarizePerformance(attempts),
		StudyStreak: profile.StudyStreak,
		Tone:        tone,
	}), nil
}

// StudyTips returns subject-specific tips; it needs no stored state.
func (s *GenerationService) StudyTips(ctx context.Context, subject string, difficulty quiz.Difficulty, learningStyle string) string {
	return s.advisor.StudyTips(ctx, genai.TipsParams{
		Subject:       subject,
		Difficulty:    difficulty,
		LearningStyle: learningStyle,
	})
}

// summarizePerformance condenses the most recent attempts (newest first)
// into the averages the motivation prompt personalizes on. Improvement is
// the newer half's average minus the older half's.
func summarizePerformance(attempts []*quiz.Attempt) *genai.PerformanceSummary {
	if len(attempts) == 0 {
		return nil
	}
	if len(attempts) > recentAttemptWindow {
		attempts = attempts[:recentAttemptWindow]
	}

	total := 0.0
	for _, a := range attempts {
		total += a.Score
	}

	summary := &genai.PerformanceSummary{
		AverageScore:  total / float64(len(attempts)),
		RecentQuizzes: len(attempts),
	}

	if len(attempts) >= 2 {
		mid := len(attempts) / 2
		newer := attempts[:mid]
		older := attempts[mid:]
		summary.Improvement = mean(newer) - mean(older)
	}
	return summary
}

func mean(attempts []*quiz.Attempt) float64 {
	total := 0.0
	for _, a := range attempts {
		total += a.Score
	}
	return total / float64(len(attempts))
}
