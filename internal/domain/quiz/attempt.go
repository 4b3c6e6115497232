package quiz

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrAnswerCountMismatch is returned when a submission does not carry
	// exactly one answer per quiz question.
	ErrAnswerCountMismatch = errors.New("answer count does not match question count")

	// ErrAnswerMismatch is returned when a submitted answer references a
	// question id other than the question at its position.
	ErrAnswerMismatch = errors.New("answer does not reference the question at its position")
)

// Answer is one submitted answer. Correct is set during grading and is
// meaningless before.
type Answer struct {
	QuestionID string
	UserAnswer string
	Correct    bool
}

// Attempt is one user's graded submission of answers to a quiz.
// Score is always derived from CorrectCount and TotalQuestions.
type Attempt struct {
	ID             string
	QuizID         string
	UserID         string
	Answers        []Answer
	Score          float64 // 0-100, two decimal places
	TotalQuestions int
	CorrectCount   int
	TimeTaken      int // seconds, 0 if not reported
	CompletedAt    time.Time
}

// Grade compares submitted answers against the quiz answer key, aligned by
// position. Equality is case-insensitive with surrounding whitespace trimmed;
// nothing else is normalized. A submission with the wrong number of answers,
// or an answer whose question id disagrees with its position, is rejected
// rather than silently truncated or realigned.
func Grade(q *Quiz, answers []Answer) ([]Answer, error) {
	if len(answers) != len(q.Questions) {
		return nil, fmt.Errorf("%w: got %d answers for %d questions",
			ErrAnswerCountMismatch, len(answers), len(q.Questions))
	}

	graded := make([]Answer, len(answers))
	for i, a := range answers {
		question := q.Questions[i]
		if a.QuestionID != "" && a.QuestionID != question.ID {
			return nil, fmt.Errorf("%w: position %d has question id %q, want %q",
				ErrAnswerMismatch, i, a.QuestionID, question.ID)
		}
		graded[i] = Answer{
			QuestionID: question.ID,
			UserAnswer: a.UserAnswer,
			Correct:    normalize(a.UserAnswer) == normalize(question.CorrectAnswer),
		}
	}
	return graded, nil
}

// NewAttempt assembles an attempt from graded answers. Counts and score are
// derived here, never supplied by the caller.
func NewAttempt(q *Quiz, userID string, graded []Answer, timeTakenSeconds int) *Attempt {
	correct := 0
	for _, a := range graded {
		if a.Correct {
			correct++
		}
	}
	return &Attempt{
		ID:             uuid.NewString(),
		QuizID:         q.ID,
		UserID:         userID,
		Answers:        graded,
		Score:          ComputeScore(correct, len(graded)),
		TotalQuestions: len(graded),
		CorrectCount:   correct,
		TimeTaken:      timeTakenSeconds,
		CompletedAt:    time.Now().UTC(),
	}
}

// ComputeScore returns correct/total*100 rounded to two decimal places,
// or 0 for an empty attempt.
func ComputeScore(correct, total int) float64 {
	if total <= 0 {
		return 0
	}
	return math.Round(float64(correct)/float64(total)*100*100) / 100
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
