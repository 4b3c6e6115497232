package genai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/studyhub/backend/internal/domain/quiz"
)

// ErrEmptyGeneration is returned when the provider produces zero questions;
// a quiz with no content is never assembled.
var ErrEmptyGeneration = errors.New("provider returned no questions")

// QuestionGenerator is the structured-generation half of the completion
// client. Implementations may call an LLM or return canned results (for tests).
type QuestionGenerator interface {
	GenerateQuizQuestions(ctx context.Context, content, subject string, difficulty quiz.Difficulty, quizType quiz.QuizType, numQuestions int) ([]GeneratedQuestion, error)
}

// TextExtractor converts an uploaded document into plain text. Production
// wiring passes extract.Text.
type TextExtractor func(document []byte) (string, error)

// Assembler turns an uploaded document into an unpersisted quiz:
// extract text, prompt the provider, then coerce its output into questions.
type Assembler struct {
	gen     QuestionGenerator
	extract TextExtractor
}

func NewAssembler(gen QuestionGenerator, extractor TextExtractor) *Assembler {
	return &Assembler{gen: gen, extract: extractor}
}

// GenerateQuizInput carries the upload and the caller's generation settings.
// Difficulty and QuizType arrive as raw strings and are coerced here.
type GenerateQuizInput struct {
	Document     []byte
	Filename     string
	Subject      string
	Difficulty   string
	QuizType     string
	NumQuestions int
}

// GenerateQuiz runs the full pipeline. Nothing is persisted here; the caller
// stores the quiz only after assembly succeeds.
func (a *Assembler) GenerateQuiz(ctx context.Context, userID string, in GenerateQuizInput) (*quiz.Quiz, error) {
	difficulty, err := quiz.ParseDifficulty(in.Difficulty)
	if err != nil {
		return nil, err
	}
	quizType, err := quiz.ParseQuizType(in.QuizType)
	if err != nil {
		return nil, err
	}

	content, err := a.extract(in.Document)
	if err != nil {
		return nil, err
	}

	generated, err := a.gen.GenerateQuizQuestions(ctx, content, in.Subject, difficulty, quizType, in.NumQuestions)
	if err != nil {
		return nil, err
	}
	if len(generated) == 0 {
		return nil, ErrEmptyGeneration
	}

	questions := make([]quiz.Question, len(generated))
	for i, g := range generated {
		q, err := coerceQuestion(g, difficulty, quizType)
		if err != nil {
			return nil, &GenerationError{
				Reason:  fmt.Sprintf("provider returned unusable question %d", i+1),
				Wrapped: err,
			}
		}
		questions[i] = q
	}

	title := "Quiz from " + in.Filename
	estimatedTime := len(questions) * 2 // minutes

	built, err := quiz.New(userID, title, in.Subject, difficulty, quizType, questions, estimatedTime)
	if err != nil {
		return nil, &GenerationError{Reason: "assembled quiz failed validation", Wrapped: err}
	}
	return built, nil
}

// coerceQuestion maps one provider question object onto the domain record,
// repairing the shapes models commonly get slightly wrong.
func coerceQuestion(g GeneratedQuestion, difficulty quiz.Difficulty, quizType quiz.QuizType) (quiz.Question, error) {
	q := quiz.Question{
		Question:      strings.TrimSpace(g.Question),
		CorrectAnswer: strings.TrimSpace(g.CorrectAnswer),
		Explanation:   strings.TrimSpace(g.Explanation),
		Difficulty:    difficulty,
		Type:          quizType,
	}

	switch quizType {
	case quiz.TypeMultipleChoice:
		q.Options = g.Options
		// Some models answer with an option letter despite instructions.
		if idx := letterIndex(q.CorrectAnswer); idx >= 0 && idx < len(q.Options) && !optionMatches(q.Options, q.CorrectAnswer) {
			q.CorrectAnswer = q.Options[idx]
		}
	case quiz.TypeTrueFalse:
		q.Options = []string{"True", "False"}
		switch strings.ToLower(q.CorrectAnswer) {
		case "true":
			q.CorrectAnswer = "True"
		case "false":
			q.CorrectAnswer = "False"
		}
	case quiz.TypeShortAnswer:
		q.Options = nil
	}

	if q.Question == "" {
		return quiz.Question{}, errors.New("question text is empty")
	}
	if q.CorrectAnswer == "" {
		return quiz.Question{}, errors.New("correct_answer is empty")
	}
	return q, nil
}

// letterIndex maps "A"/"B"/... (optionally with a trailing ')' or '.')
// to an option index, or -1.
func letterIndex(answer string) int {
	s := strings.TrimRight(strings.TrimSpace(answer), ".)")
	if len(s) != 1 {
		return -1
	}
	ch := s[0]
	switch {
	case ch >= 'A' && ch <= 'Z':
		return int(ch - 'A')
	case ch >= 'a' && ch <= 'z':
		return int(ch - 'a')
	}
	return -1
}

func optionMatches(options []string, answer string) bool {
	for _, o := range options {
		if strings.EqualFold(strings.TrimSpace(o), strings.TrimSpace(answer)) {
			return true
		}
	}
	return false
}
