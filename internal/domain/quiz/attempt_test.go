package quiz_test

import (
	"errors"
	"testing"

	"github.com/studyhub/backend/internal/domain/quiz"
)

func threeQuestionQuiz(t *testing.T) *quiz.Quiz {
	t.Helper()
	q, err := quiz.New("user-1", "MCQ sample", "General", quiz.DifficultyMedium, quiz.TypeMultipleChoice,
		[]quiz.Question{
			{Question: "Q1", Options: []string{"A", "B", "C", "D"}, CorrectAnswer: "A", Type: quiz.TypeMultipleChoice},
			{Question: "Q2", Options: []string{"A", "B", "C", "D"}, CorrectAnswer: "B", Type: quiz.TypeMultipleChoice},
			{Question: "Q3", Options: []string{"A", "B", "C", "D"}, CorrectAnswer: "C", Type: quiz.TypeMultipleChoice},
		}, 6)
	if err != nil {
		t.Fatalf("failed to build quiz: %v", err)
	}
	return q
}

func TestGrade_NormalizedEquality(t *testing.T) {
	q := threeQuestionQuiz(t)

	graded, err := quiz.Grade(q, []quiz.Answer{
		{UserAnswer: "a "},
		{UserAnswer: "B"},
		{UserAnswer: "D"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []bool{true, true, false}
	for i, g := range graded {
		if g.Correct != want[i] {
			t.Errorf("answer %d: expected correct=%v, got %v", i, want[i], g.Correct)
		}
		if g.QuestionID != q.Questions[i].ID {
			t.Errorf("answer %d: expected question id %q, got %q", i, q.Questions[i].ID, g.QuestionID)
		}
	}
}

func TestGrade_CountMismatch(t *testing.T) {
	q := threeQuestionQuiz(t)

	_, err := quiz.Grade(q, []quiz.Answer{{UserAnswer: "A"}})
	if !errors.Is(err, quiz.ErrAnswerCountMismatch) {
		t.Errorf("expected ErrAnswerCountMismatch, got %v", err)
	}
}

func TestGrade_QuestionIDMismatch(t *testing.T) {
	q := threeQuestionQuiz(t)

	_, err := quiz.Grade(q, []quiz.Answer{
		{QuestionID: q.Questions[1].ID, UserAnswer: "A"},
		{QuestionID: q.Questions[0].ID, UserAnswer: "B"},
		{QuestionID: q.Questions[2].ID, UserAnswer: "C"},
	})
	if !errors.Is(err, quiz.ErrAnswerMismatch) {
		t.Errorf("expected ErrAnswerMismatch, got %v", err)
	}
}

func TestNewAttempt_DerivesScore(t *testing.T) {
	q := threeQuestionQuiz(t)

	graded, err := quiz.Grade(q, []quiz.Answer{
		{UserAnswer: "a "},
		{UserAnswer: "B"},
		{UserAnswer: "D"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	attempt := quiz.NewAttempt(q, "user-1", graded, 90)

	if attempt.CorrectCount != 2 {
		t.Errorf("expected 2 correct, got %d", attempt.CorrectCount)
	}
	if attempt.TotalQuestions != 3 {
		t.Errorf("expected 3 total, got %d", attempt.TotalQuestions)
	}
	if attempt.Score != 66.67 {
		t.Errorf("expected score 66.67, got %v", attempt.Score)
	}
	if attempt.TimeTaken != 90 {
		t.Errorf("expected time taken 90s, got %d", attempt.TimeTaken)
	}
}

func TestComputeScore(t *testing.T) {
	tests := []struct {
		correct, total int
		want           float64
	}{
		{0, 0, 0},
		{0, 5, 0},
		{5, 5, 100},
		{2, 3, 66.67},
		{1, 3, 33.33},
		{3, 4, 75},
	}
	for _, tt := range tests {
		got := quiz.ComputeScore(tt.correct, tt.total)
		if got != tt.want {
			t.Errorf("ComputeScore(%d, %d) = %v, want %v", tt.correct, tt.total, got, tt.want)
		}
		if got < 0 || got > 100 {
			t.Errorf("ComputeScore(%d, %d) = %v out of [0,100]", tt.correct, tt.total, got)
		}
	}
}
