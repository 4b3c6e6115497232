package service_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/studyhub/backend/internal/domain/quiz"
	"github.com/studyhub/backend/internal/domain/user"
	"github.com/studyhub/backend/internal/service"
	"github.com/studyhub/backend/internal/store"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeAttemptStore is safe for concurrent use, but GetProfile and
// UpdateProfileStats are individually atomic like real storage. The
// read-modify-write race between them is the service's problem to solve.
type fakeAttemptStore struct {
	mu       sync.Mutex
	quizzes  map[string]*quiz.Quiz
	attempts []*quiz.Attempt
	profile  *user.Profile
	statsErr error
}

func newFakeAttemptStore() *fakeAttemptStore {
	return &fakeAttemptStore{
		quizzes: make(map[string]*quiz.Quiz),
		profile: &user.Profile{ID: "user-1", Email: "sam@example.com"},
	}
}

func (f *fakeAttemptStore) GetQuiz(_ context.Context, id string) (*quiz.Quiz, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	q, ok := f.quizzes[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return q, nil
}

func (f *fakeAttemptStore) SaveAttempt(_ context.Context, a *quiz.Attempt) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.attempts = append(f.attempts, a)
	return nil
}

func (f *fakeAttemptStore) GetProfile(_ context.Context, userID string) (*user.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if userID != f.profile.ID {
		return nil, store.ErrNotFound
	}
	p := *f.profile
	return &p, nil
}

func (f *fakeAttemptStore) UpdateProfileStats(_ context.Context, userID string, delta user.StatsDelta) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.statsErr != nil {
		return f.statsErr
	}
	if userID != f.profile.ID {
		return store.ErrNotFound
	}
	f.profile.TotalQuizzes = delta.TotalQuizzes
	f.profile.AverageScore = delta.AverageScore
	f.profile.TotalStudyTime = delta.TotalStudyTime
	return nil
}

func seedQuiz(t *testing.T, f *fakeAttemptStore, userID string) *quiz.Quiz {
	t.Helper()
	q, err := quiz.New(userID, "Quick Check", "History", quiz.DifficultyEasy, quiz.TypeShortAnswer, []quiz.Question{
		{Question: "First US president?", CorrectAnswer: "Washington", Difficulty: quiz.DifficultyEasy, Type: quiz.TypeShortAnswer},
		{Question: "Year the US declared independence?", CorrectAnswer: "1776", Difficulty: quiz.DifficultyEasy, Type: quiz.TypeShortAnswer},
	}, 4)
	if err != nil {
		t.Fatalf("failed to build quiz: %v", err)
	}
	f.quizzes[q.ID] = q
	return q
}

func TestSubmit(t *testing.T) {
	f := newFakeAttemptStore()
	q := seedQuiz(t, f, "user-1")
	svc := service.NewAttemptService(f, discardLogger())

	attempt, err := svc.Submit(context.Background(), "user-1", q.ID, []quiz.Answer{
		{UserAnswer: "washington"},
		{UserAnswer: "1492"},
	}, 120)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if attempt.Score != 50 || attempt.CorrectCount != 1 {
		t.Errorf("expected score 50 with 1 correct, got %+v", attempt)
	}
	if len(f.attempts) != 1 {
		t.Fatalf("expected 1 saved attempt, got %d", len(f.attempts))
	}
	if f.profile.TotalQuizzes != 1 || f.profile.AverageScore != 50 {
		t.Errorf("stats not folded: %+v", f.profile)
	}
	if f.profile.TotalStudyTime != 2 {
		t.Errorf("expected 2 minutes of study time, got %v", f.profile.TotalStudyTime)
	}
}

func TestSubmit_QuizNotFound(t *testing.T) {
	f := newFakeAttemptStore()
	svc := service.NewAttemptService(f, discardLogger())

	_, err := svc.Submit(context.Background(), "user-1", "missing", nil, 0)
	if !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestSubmit_NotOwner(t *testing.T) {
	f := newFakeAttemptStore()
	q := seedQuiz(t, f, "someone-else")
	svc := service.NewAttemptService(f, discardLogger())

	_, err := svc.Submit(context.Background(), "user-1", q.ID, []quiz.Answer{
		{UserAnswer: "a"}, {UserAnswer: "b"},
	}, 0)
	if !errors.Is(err, service.ErrForbidden) {
		t.Errorf("expected ErrForbidden, got %v", err)
	}
	if len(f.attempts) != 0 {
		t.Errorf("expected no saved attempts, got %d", len(f.attempts))
	}
}

func TestSubmit_AnswerCountMismatch(t *testing.T) {
	f := newFakeAttemptStore()
	q := seedQuiz(t, f, "user-1")
	svc := service.NewAttemptService(f, discardLogger())

	_, err := svc.Submit(context.Background(), "user-1", q.ID, []quiz.Answer{
		{UserAnswer: "only one"},
	}, 0)
	if !errors.Is(err, quiz.ErrAnswerCountMismatch) {
		t.Errorf("expected ErrAnswerCountMismatch, got %v", err)
	}
}

// A stats update that fails after the attempt is saved must surface to the
// caller, not vanish into the log: otherwise the profile silently diverges
// from the attempt history.
func TestSubmit_StatsStoreFailure(t *testing.T) {
	f := newFakeAttemptStore()
	f.statsErr = errors.New("store unreachable")
	q := seedQuiz(t, f, "user-1")
	svc := service.NewAttemptService(f, discardLogger())

	_, err := svc.Submit(context.Background(), "user-1", q.ID, []quiz.Answer{
		{UserAnswer: "Washington"},
		{UserAnswer: "1776"},
	}, 60)
	if !errors.Is(err, f.statsErr) {
		t.Fatalf("expected the stats store failure to propagate, got %v", err)
	}
	if len(f.attempts) != 1 {
		t.Errorf("expected the attempt to be saved before the fold, got %d", len(f.attempts))
	}
	if f.profile.TotalQuizzes != 0 {
		t.Errorf("expected stats untouched, got %+v", f.profile)
	}
}

// Two simultaneous submissions must both land in the stats: with a naive
// read-modify-write fold one of them would be lost.
func TestSubmit_ConcurrentStatsFold(t *testing.T) {
	f := newFakeAttemptStore()
	q := seedQuiz(t, f, "user-1")
	svc := service.NewAttemptService(f, discardLogger())

	var wg sync.WaitGroup
	errs := make(chan error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Submit(context.Background(), "user-1", q.ID, []quiz.Answer{
				{UserAnswer: "Washington"},
				{UserAnswer: "1776"},
			}, 60)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	if f.profile.TotalQuizzes != 2 {
		t.Errorf("lost a stats update: total_quizzes = %d, want 2", f.profile.TotalQuizzes)
	}
	if f.profile.AverageScore != 100 {
		t.Errorf("expected average 100, got %v", f.profile.AverageScore)
	}
}
