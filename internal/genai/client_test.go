package genai_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/studyhub/backend/internal/domain/quiz"
	"github.com/studyhub/backend/internal/genai"
)

// completionServer fakes an OpenAI-compatible endpoint returning the given
// message content.
func completionServer(t *testing.T, content string, calls *atomic.Int32) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls != nil {
			calls.Add(1)
		}
		if r.URL.Path != "/v1/chat/completions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		resp := map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"content": content}},
			},
		}
		json.NewEncoder(w).Encode(resp)
	}))
}

func TestGenerateQuizQuestions_ParsesStructuredResponse(t *testing.T) {
	content := `Here you go:
{"questions": [
  {"question": "Is water wet?", "options": ["True", "False"], "correct_answer": "True", "explanation": "It is."},
  {"question": "Is fire cold?", "options": ["True", "False"], "correct_answer": "False", "explanation": "It is not."}
]}`
	srv := completionServer(t, content, nil)
	defer srv.Close()

	client := genai.NewClient(srv.URL, "test-model", "", time.Second)
	questions, err := client.GenerateQuizQuestions(context.Background(), "doc text", "Science", quiz.DifficultyEasy, quiz.TypeTrueFalse, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(questions) != 2 {
		t.Fatalf("expected 2 questions, got %d", len(questions))
	}
	if questions[0].CorrectAnswer != "True" {
		t.Errorf("expected first answer True, got %q", questions[0].CorrectAnswer)
	}
}

func TestGenerateQuizQuestions_RequestShape(t *testing.T) {
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&gotBody)
		if r.Header.Get("Authorization") != "Bearer secret-key" {
			t.Errorf("expected bearer key header, got %q", r.Header.Get("Authorization"))
		}
		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{{"message": map[string]any{"content": `{"questions": []}`}}},
		})
	}))
	defer srv.Close()

	client := genai.NewClient(srv.URL, "test-model", "secret-key", time.Second)
	_, err := client.GenerateQuizQuestions(context.Background(), "text", "Math", quiz.DifficultyMedium, quiz.TypeShortAnswer, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gotBody["model"] != "test-model" {
		t.Errorf("expected model test-model, got %v", gotBody["model"])
	}
	rf, ok := gotBody["response_format"].(map[string]any)
	if !ok || rf["type"] != "json_object" {
		t.Errorf("expected response_format json_object, got %v", gotBody["response_format"])
	}
}

func TestGenerateQuizQuestions_MalformedJSONFails(t *testing.T) {
	var calls atomic.Int32
	srv := completionServer(t, "I could not produce JSON today, sorry!", &calls)
	defer srv.Close()

	client := genai.NewClient(srv.URL, "test-model", "", time.Second)
	_, err := client.GenerateQuizQuestions(context.Background(), "text", "Math", quiz.DifficultyMedium, quiz.TypeShortAnswer, 3)

	var genErr *genai.GenerationError
	if !errors.As(err, &genErr) {
		t.Fatalf("expected GenerationError, got %v", err)
	}
	if calls.Load() != 2 {
		t.Errorf("expected 2 attempts before giving up, got %d", calls.Load())
	}
}

func TestGenerateQuizQuestions_ProviderDownFails(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	client := genai.NewClient(srv.URL, "test-model", "", time.Second)
	_, err := client.GenerateQuizQuestions(context.Background(), "text", "Math", quiz.DifficultyMedium, quiz.TypeShortAnswer, 3)

	var genErr *genai.GenerationError
	if !errors.As(err, &genErr) {
		t.Fatalf("expected GenerationError, got %v", err)
	}
}

func TestMotivation_FallsBackOnProviderFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := genai.NewClient(srv.URL, "test-model", "", time.Second)
	msg := client.Motivation(context.Background(), genai.MotivationParams{UserName: "Sam"})

	if !contains(genai.MotivationFallbacks, msg) {
		t.Errorf("expected a canned fallback message, got %q", msg)
	}
}

func TestMotivation_ReturnsProviderMessage(t *testing.T) {
	srv := completionServer(t, "  You are doing great, Sam! Keep it up.  ", nil)
	defer srv.Close()

	client := genai.NewClient(srv.URL, "test-model", "", time.Second)
	msg := client.Motivation(context.Background(), genai.MotivationParams{UserName: "Sam"})

	if msg != "You are doing great, Sam! Keep it up." {
		t.Errorf("expected trimmed provider message, got %q", msg)
	}
}

func TestStudyTips_FallsBackOnProviderFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusBadGateway)
	}))
	defer srv.Close()

	client := genai.NewClient(srv.URL, "test-model", "", time.Second)
	tips := client.StudyTips(context.Background(), genai.TipsParams{Subject: "Algebra"})

	if !contains(genai.StudyTipsFallbacks, tips) {
		t.Errorf("expected a canned fallback tip set, got %q", tips)
	}
}

func contains(set []string, s string) bool {
	for _, v := range set {
		if v == s {
			return true
		}
	}
	return false
}
