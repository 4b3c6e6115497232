package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/studyhub/backend/internal/domain/quiz"
	"github.com/studyhub/backend/internal/domain/user"
	"github.com/studyhub/backend/internal/genai"
	"github.com/studyhub/backend/internal/service"
)

type stubAssembler struct {
	quiz *quiz.Quiz
	err  error
}

func (s *stubAssembler) GenerateQuiz(_ context.Context, userID string, _ genai.GenerateQuizInput) (*quiz.Quiz, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.quiz, nil
}

type stubAdvisor struct {
	gotMotivation genai.MotivationParams
	gotTips       genai.TipsParams
}

func (s *stubAdvisor) Motivation(_ context.Context, p genai.MotivationParams) string {
	s.gotMotivation = p
	return "keep going"
}

func (s *stubAdvisor) StudyTips(_ context.Context, p genai.TipsParams) string {
	s.gotTips = p
	return "space your practice"
}

type stubGenerationStore struct {
	saved    []*quiz.Quiz
	saveErr  error
	profile  *user.Profile
	attempts []*quiz.Attempt
}

func (s *stubGenerationStore) SaveQuiz(_ context.Context, q *quiz.Quiz) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	s.saved = append(s.saved, q)
	return nil
}

func (s *stubGenerationStore) GetProfile(_ context.Context, _ string) (*user.Profile, error) {
	return s.profile, nil
}

func (s *stubGenerationStore) ListAttempts(_ context.Context, _ string) ([]*quiz.Attempt, error) {
	return s.attempts, nil
}

func builtQuiz(t *testing.T) *quiz.Quiz {
	t.Helper()
	q, err := quiz.New("user-1", "Quiz from notes.pdf", "Biology", quiz.DifficultyEasy, quiz.TypeShortAnswer, []quiz.Question{
		{Question: "What gas do plants absorb?", CorrectAnswer: "Carbon dioxide", Difficulty: quiz.DifficultyEasy, Type: quiz.TypeShortAnswer},
	}, 2)
	if err != nil {
		t.Fatalf("failed to build quiz: %v", err)
	}
	return q
}

func TestQuizFromDocument(t *testing.T) {
	st := &stubGenerationStore{profile: &user.Profile{ID: "user-1"}}
	svc := service.NewGenerationService(&stubAssembler{quiz: builtQuiz(t)}, &stubAdvisor{}, st, discardLogger())

	q, err := svc.QuizFromDocument(context.Background(), "user-1", genai.GenerateQuizInput{Filename: "notes.pdf"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(st.saved) != 1 || st.saved[0].ID != q.ID {
		t.Errorf("quiz not persisted: %+v", st.saved)
	}
}

func TestQuizFromDocument_PipelineFailurePersistsNothing(t *testing.T) {
	st := &stubGenerationStore{profile: &user.Profile{ID: "user-1"}}
	genErr := &genai.GenerationError{Reason: "no JSON object found in provider response"}
	svc := service.NewGenerationService(&stubAssembler{err: genErr}, &stubAdvisor{}, st, discardLogger())

	_, err := svc.QuizFromDocument(context.Background(), "user-1", genai.GenerateQuizInput{Filename: "notes.pdf"})
	var ge *genai.GenerationError
	if !errors.As(err, &ge) {
		t.Fatalf("expected GenerationError, got %v", err)
	}
	if len(st.saved) != 0 {
		t.Errorf("expected nothing persisted, got %d quizzes", len(st.saved))
	}
}

func TestMotivation_BuildsPerformanceSummary(t *testing.T) {
	// Newest first, as the store lists them.
	scores := []float64{90, 80, 70, 60, 50, 40, 30}
	attempts := make([]*quiz.Attempt, len(scores))
	for i, score := range scores {
		attempts[i] = &quiz.Attempt{Score: score, CompletedAt: time.Now()}
	}

	st := &stubGenerationStore{
		profile:  &user.Profile{ID: "user-1", FullName: "Sam", StudyStreak: 3},
		attempts: attempts,
	}
	advisor := &stubAdvisor{}
	svc := service.NewGenerationService(&stubAssembler{}, advisor, st, discardLogger())

	msg, err := svc.Motivation(context.Background(), "user-1", "encouraging")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if msg != "keep going" {
		t.Errorf("unexpected message %q", msg)
	}

	p := advisor.gotMotivation
	if p.UserName != "Sam" || p.StudyStreak != 3 || p.Tone != "encouraging" {
		t.Errorf("profile context not forwarded: %+v", p)
	}
	if p.Performance == nil {
		t.Fatal("expected a performance summary")
	}
	// Only the 5 most recent attempts count: 90, 80, 70, 60, 50.
	if p.Performance.RecentQuizzes != 5 {
		t.Errorf("expected 5 recent quizzes, got %d", p.Performance.RecentQuizzes)
	}
	if p.Performance.AverageScore != 70 {
		t.Errorf("expected average 70, got %v", p.Performance.AverageScore)
	}
	// Newer half {90, 80} vs older half {70, 60, 50}: 85 - 60 = 25.
	if p.Performance.Improvement != 25 {
		t.Errorf("expected improvement 25, got %v", p.Performance.Improvement)
	}
}

func TestMotivation_NoAttempts(t *testing.T) {
	st := &stubGenerationStore{profile: &user.Profile{ID: "user-1"}}
	advisor := &stubAdvisor{}
	svc := service.NewGenerationService(&stubAssembler{}, advisor, st, discardLogger())

	if _, err := svc.Motivation(context.Background(), "user-1", ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if advisor.gotMotivation.Performance != nil {
		t.Errorf("expected nil performance summary, got %+v", advisor.gotMotivation.Performance)
	}
}

func TestStudyTips(t *testing.T) {
	advisor := &stubAdvisor{}
	svc := service.NewGenerationService(&stubAssembler{}, advisor, &stubGenerationStore{}, discardLogger())

	tips := svc.StudyTips(context.Background(), "Chemistry", quiz.DifficultyHard, "auditory")
	if tips != "space your practice" {
		t.Errorf("unexpected tips %q", tips)
	}
	if advisor.gotTips.Subject != "Chemistry" || advisor.gotTips.LearningStyle != "auditory" {
		t.Errorf("tips params not forwarded: %+v", advisor.gotTips)
	}
}
