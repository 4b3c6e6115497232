package genai_test

import (
	"context"
	"errors"
	"testing"

	"github.com/studyhub/backend/internal/domain/quiz"
	"github.com/studyhub/backend/internal/extract"
	"github.com/studyhub/backend/internal/genai"
)

// stubGenerator returns canned questions or a canned error.
type stubGenerator struct {
	questions []genai.GeneratedQuestion
	err       error

	gotContent string
	gotCount   int
}

func (s *stubGenerator) GenerateQuizQuestions(_ context.Context, content, _ string, _ quiz.Difficulty, _ quiz.QuizType, numQuestions int) ([]genai.GeneratedQuestion, error) {
	s.gotContent = content
	s.gotCount = numQuestions
	return s.questions, s.err
}

func testAssembler(gen genai.QuestionGenerator) *genai.Assembler {
	return genai.NewAssembler(gen, func([]byte) (string, error) {
		return "extracted document text", nil
	})
}

func sampleInput() genai.GenerateQuizInput {
	return genai.GenerateQuizInput{
		Document:     []byte("%PDF-stub"),
		Filename:     "lecture-notes.pdf",
		Subject:      "Biology",
		Difficulty:   "medium",
		QuizType:     "multiple_choice",
		NumQuestions: 2,
	}
}

func TestGenerateQuiz_AssemblesQuiz(t *testing.T) {
	gen := &stubGenerator{questions: []genai.GeneratedQuestion{
		{
			Question:      "What organelle produces ATP?",
			Options:       []string{"Mitochondria", "Nucleus", "Ribosome", "Golgi"},
			CorrectAnswer: "Mitochondria",
			Explanation:   "Mitochondria run cellular respiration.",
		},
		{
			Question:      "Which molecule carries genetic information?",
			Options:       []string{"DNA", "ATP", "Lipid", "Glucose"},
			CorrectAnswer: "DNA",
			Explanation:   "DNA encodes genes.",
		},
	}}

	q, err := testAssembler(gen).GenerateQuiz(context.Background(), "user-1", sampleInput())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(q.Questions) != 2 {
		t.Fatalf("expected 2 questions, got %d", len(q.Questions))
	}
	if q.Title != "Quiz from lecture-notes.pdf" {
		t.Errorf("unexpected title %q", q.Title)
	}
	if q.EstimatedTime != 4 {
		t.Errorf("expected estimated time 4 minutes, got %d", q.EstimatedTime)
	}
	if q.Difficulty != quiz.DifficultyMedium || q.Type != quiz.TypeMultipleChoice {
		t.Errorf("unexpected enum coercion: %s/%s", q.Difficulty, q.Type)
	}
	if q.UserID != "user-1" {
		t.Errorf("expected owner user-1, got %q", q.UserID)
	}
	if gen.gotContent != "extracted document text" {
		t.Errorf("expected extracted text to reach the generator, got %q", gen.gotContent)
	}
}

func TestGenerateQuiz_EmptyGeneration(t *testing.T) {
	gen := &stubGenerator{questions: nil}

	_, err := testAssembler(gen).GenerateQuiz(context.Background(), "user-1", sampleInput())
	if !errors.Is(err, genai.ErrEmptyGeneration) {
		t.Errorf("expected ErrEmptyGeneration, got %v", err)
	}
}

func TestGenerateQuiz_InvalidDifficulty(t *testing.T) {
	in := sampleInput()
	in.Difficulty = "impossible"

	_, err := testAssembler(&stubGenerator{}).GenerateQuiz(context.Background(), "user-1", in)
	if !errors.Is(err, quiz.ErrInvalidEnum) {
		t.Errorf("expected ErrInvalidEnum, got %v", err)
	}
}

func TestGenerateQuiz_InvalidQuizType(t *testing.T) {
	in := sampleInput()
	in.QuizType = "essay"

	_, err := testAssembler(&stubGenerator{}).GenerateQuiz(context.Background(), "user-1", in)
	if !errors.Is(err, quiz.ErrInvalidEnum) {
		t.Errorf("expected ErrInvalidEnum, got %v", err)
	}
}

func TestGenerateQuiz_ExtractionFailureFailsFast(t *testing.T) {
	gen := &stubGenerator{}
	a := genai.NewAssembler(gen, func([]byte) (string, error) {
		return "", extract.ErrEmptyText
	})

	_, err := a.GenerateQuiz(context.Background(), "user-1", sampleInput())
	if !errors.Is(err, extract.ErrEmptyText) {
		t.Errorf("expected ErrEmptyText, got %v", err)
	}
	if gen.gotCount != 0 {
		t.Error("expected the provider not to be called after extraction failure")
	}
}

func TestGenerateQuiz_GenerationErrorPropagates(t *testing.T) {
	gen := &stubGenerator{err: &genai.GenerationError{Reason: "provider timeout"}}

	_, err := testAssembler(gen).GenerateQuiz(context.Background(), "user-1", sampleInput())

	var genErr *genai.GenerationError
	if !errors.As(err, &genErr) {
		t.Errorf("expected GenerationError to propagate, got %v", err)
	}
}

func TestGenerateQuiz_LetterAnswerCoercion(t *testing.T) {
	gen := &stubGenerator{questions: []genai.GeneratedQuestion{
		{
			Question:      "Largest planet?",
			Options:       []string{"Jupiter", "Saturn", "Earth", "Mars"},
			CorrectAnswer: "A",
		},
	}}
	in := sampleInput()
	in.NumQuestions = 1

	q, err := testAssembler(gen).GenerateQuiz(context.Background(), "user-1", in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q.Questions[0].CorrectAnswer != "Jupiter" {
		t.Errorf("expected letter answer coerced to option text, got %q", q.Questions[0].CorrectAnswer)
	}
}

func TestGenerateQuiz_TrueFalseNormalization(t *testing.T) {
	gen := &stubGenerator{questions: []genai.GeneratedQuestion{
		{Question: "The sun is a star.", Options: []string{"true", "false"}, CorrectAnswer: "true"},
	}}
	in := sampleInput()
	in.QuizType = "true_false"
	in.NumQuestions = 1

	q, err := testAssembler(gen).GenerateQuiz(context.Background(), "user-1", in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q.Questions[0].CorrectAnswer != "True" {
		t.Errorf("expected answer normalized to True, got %q", q.Questions[0].CorrectAnswer)
	}
	opts := q.Questions[0].Options
	if len(opts) != 2 || opts[0] != "True" || opts[1] != "False" {
		t.Errorf(`expected options ["True", "False"], got %v`, opts)
	}
}

func TestGenerateQuiz_UnusableQuestionFails(t *testing.T) {
	gen := &stubGenerator{questions: []genai.GeneratedQuestion{
		{Question: "", CorrectAnswer: "42"},
	}}
	in := sampleInput()
	in.QuizType = "short_answer"
	in.NumQuestions = 1

	_, err := testAssembler(gen).GenerateQuiz(context.Background(), "user-1", in)

	var genErr *genai.GenerationError
	if !errors.As(err, &genErr) {
		t.Errorf("expected GenerationError for empty question text, got %v", err)
	}
}
