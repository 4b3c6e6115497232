package quiz

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

type QuizType string

const (
	TypeMultipleChoice QuizType = "multiple_choice"
	TypeTrueFalse      QuizType = "true_false"
	TypeShortAnswer    QuizType = "short_answer"
)

// ErrInvalidEnum marks a difficulty or quiz type outside the known sets.
// Callers use errors.Is to distinguish it from structural validation errors.
var ErrInvalidEnum = errors.New("invalid enum value")

func ParseDifficulty(s string) (Difficulty, error) {
	switch Difficulty(s) {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return Difficulty(s), nil
	}
	return "", fmt.Errorf("%w: difficulty %q", ErrInvalidEnum, s)
}

func ParseQuizType(s string) (QuizType, error) {
	switch QuizType(s) {
	case TypeMultipleChoice, TypeTrueFalse, TypeShortAnswer:
		return QuizType(s), nil
	}
	return "", fmt.Errorf("%w: quiz type %q", ErrInvalidEnum, s)
}

// Question is a single quiz question. Options is nil for short-answer
// questions and exactly {"True", "False"} for true/false questions.
type Question struct {
	ID            string
	Question      string
	Options       []string
	CorrectAnswer string
	Explanation   string
	Difficulty    Difficulty
	Type          QuizType
}

// Quiz is immutable after creation. Question order is stable and defines
// the index used to align submitted answers.
type Quiz struct {
	ID            string
	Title         string
	Subject       string
	Difficulty    Difficulty
	Type          QuizType
	Questions     []Question
	EstimatedTime int // minutes
	UserID        string
	CreatedAt     time.Time
}

// New builds a validated quiz owned by userID. Question IDs are assigned
// here if the caller left them empty.
func New(userID, title, subject string, difficulty Difficulty, quizType QuizType, questions []Question, estimatedTime int) (*Quiz, error) {
	q := &Quiz{
		ID:            uuid.NewString(),
		Title:         title,
		Subject:       subject,
		Difficulty:    difficulty,
		Type:          quizType,
		Questions:     questions,
		EstimatedTime: estimatedTime,
		UserID:        userID,
		CreatedAt:     time.Now().UTC(),
	}
	if err := q.Validate(); err != nil {
		return nil, err
	}
	for i := range q.Questions {
		if q.Questions[i].ID == "" {
			q.Questions[i].ID = uuid.NewString()
		}
	}
	return q, nil
}

func (q *Quiz) Validate() error {
	if q.Title == "" {
		return errors.New("title is required")
	}
	if q.Subject == "" {
		return errors.New("subject is required")
	}
	if len(q.Questions) == 0 {
		return errors.New("quiz must have at least one question")
	}
	for i, question := range q.Questions {
		if err := validateQuestion(question); err != nil {
			return fmt.Errorf("question %d: %w", i+1, err)
		}
	}
	return nil
}

func validateQuestion(q Question) error {
	if q.Question == "" {
		return errors.New("question text is required")
	}
	if q.CorrectAnswer == "" {
		return errors.New("correct_answer is required")
	}
	switch q.Type {
	case TypeMultipleChoice:
		if len(q.Options) < 2 {
			return errors.New("multiple_choice question needs at least 2 options")
		}
		if !containsAnswer(q.Options, q.CorrectAnswer) {
			return errors.New("correct_answer must be one of the options")
		}
	case TypeTrueFalse:
		if len(q.Options) != 2 || q.Options[0] != "True" || q.Options[1] != "False" {
			return errors.New(`true_false question options must be exactly ["True", "False"]`)
		}
		if !containsAnswer(q.Options, q.CorrectAnswer) {
			return errors.New(`correct_answer must be "True" or "False"`)
		}
	case TypeShortAnswer:
		if len(q.Options) != 0 {
			return errors.New("short_answer question must not have options")
		}
	default:
		return fmt.Errorf("%w: quiz type %q", ErrInvalidEnum, q.Type)
	}
	return nil
}

func containsAnswer(options []string, answer string) bool {
	for _, o := range options {
		if normalize(o) == normalize(answer) {
			return true
		}
	}
	return false
}
