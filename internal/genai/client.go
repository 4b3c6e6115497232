package genai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http"
	"strings"
	"time"

	"github.com/studyhub/backend/internal/domain/quiz"
)

// Client talks to an OpenAI-compatible chat-completions endpoint
// (OpenAI, Groq, Ollama, LM Studio, vLLM, etc.).
type Client struct {
	url        string // e.g. "https://api.openai.com"
	model      string
	apiKey     string // empty for local endpoints
	timeout    time.Duration
	httpClient *http.Client // reused across calls
}

// GenerationError is returned when structured generation fails so the caller
// can distinguish "provider returned garbage" from "provider was unreachable".
type GenerationError struct {
	Reason  string
	Wrapped error
}

func (e *GenerationError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("generation failed: %s: %v", e.Reason, e.Wrapped)
	}
	return fmt.Sprintf("generation failed: %s", e.Reason)
}

func (e *GenerationError) Unwrap() error {
	return e.Wrapped
}

// NewClient creates a client for the given endpoint. timeout bounds every
// individual provider call.
func NewClient(url, model, apiKey string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		url:     url,
		model:   model,
		apiKey:  apiKey,
		timeout: timeout,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

const maxAttempts = 2

// GeneratedQuestion mirrors the provider's structured-output contract.
type GeneratedQuestion struct {
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correct_answer"`
	Explanation   string   `json:"explanation"`
}

// GenerateQuizQuestions asks the provider for quiz questions and validates
// the structured response. Any provider or parse failure propagates as a
// *GenerationError; fabricated quiz content is never substituted.
//
// It retries once on parse failure (models sometimes need a second try).
func (c *Client) GenerateQuizQuestions(ctx context.Context, content, subject string, difficulty quiz.Difficulty, quizType quiz.QuizType, numQuestions int) ([]GeneratedQuestion, error) {
	prompt := BuildQuizPrompt(content, subject, difficulty, quizType, numQuestions)

	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		raw, err := c.call(ctx, quizSystemPrompt, prompt, 0.3, 2048, true)
		if err != nil {
			lastErr = err
			continue
		}

		jsonStr := extractJSON(raw)
		if jsonStr == "" {
			lastErr = &GenerationError{Reason: "no JSON object found in provider response"}
			continue
		}

		var payload struct {
			Questions []GeneratedQuestion `json:"questions"`
		}
		if err := json.Unmarshal([]byte(jsonStr), &payload); err != nil {
			lastErr = &GenerationError{Reason: "invalid JSON from provider", Wrapped: err}
			continue
		}

		return payload.Questions, nil
	}

	return nil, &GenerationError{
		Reason:  fmt.Sprintf("failed after %d attempts", maxAttempts),
		Wrapped: lastErr,
	}
}

// MotivationFallbacks are returned when the provider cannot produce a
// motivation message. The endpoint's contract is "always returns a message".
var MotivationFallbacks = []string{
	"Keep up the great work! Every study session brings you closer to your goals.",
	"You're making excellent progress! Consistency is the key to success.",
	"Learning is a journey, and you're doing amazingly well on yours!",
	"Your dedication to studying is truly inspiring. Keep pushing forward!",
}

// StudyTipsFallbacks serve the same role for the study-tips endpoint.
var StudyTipsFallbacks = []string{
	"Break your material into small chunks and review them in short, focused sessions.\nTest yourself instead of re-reading: active recall beats passive review.\nExplain the topic out loud as if teaching someone else.",
	"Space your practice out over several days rather than cramming.\nMix related topics in one session to strengthen connections.\nEnd each session by writing down the three most important things you learned.",
	"Start with the hardest concept while your energy is highest.\nTurn headings into questions and answer them from memory.\nTake a short break every 25-30 minutes to stay sharp.",
}

// Motivation returns a short motivational message. Provider failures degrade
// silently to a canned fallback; this path never returns an error.
func (c *Client) Motivation(ctx context.Context, p MotivationParams) string {
	raw, err := c.call(ctx, motivationSystemPrompt, BuildMotivationPrompt(p), 0.8, 150, false)
	if err != nil || strings.TrimSpace(raw) == "" {
		return MotivationFallbacks[rand.Intn(len(MotivationFallbacks))]
	}
	return strings.TrimSpace(raw)
}

// StudyTips returns 3-5 actionable study tips, degrading to a canned set on
// provider failure like Motivation.
func (c *Client) StudyTips(ctx context.Context, p TipsParams) string {
	raw, err := c.call(ctx, tipsSystemPrompt, BuildStudyTipsPrompt(p), 0.7, 400, false)
	if err != nil || strings.TrimSpace(raw) == "" {
		return StudyTipsFallbacks[rand.Intn(len(StudyTipsFallbacks))]
	}
	return strings.TrimSpace(raw)
}

// ============================================================================
// Provider communication
// ============================================================================

type chatRequest struct {
	Model          string          `json:"model"`
	Messages       []chatMessage   `json:"messages"`
	Temperature    float64         `json:"temperature"`
	MaxTokens      int             `json:"max_tokens,omitempty"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

type responseFormat struct {
	Type string `json:"type"` // "json_object"
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// call sends a single chat-completion request and returns the raw text reply.
// The call is bounded by the client timeout and by ctx, so an abandoned HTTP
// request cancels the in-flight provider call.
func (c *Client) call(ctx context.Context, system, user string, temperature float64, maxTokens int, jsonObject bool) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	reqBody := chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		Temperature: temperature,
		MaxTokens:   maxTokens,
	}
	if jsonObject {
		reqBody.ResponseFormat = &responseFormat{Type: "json_object"}
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url+"/v1/chat/completions", bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("provider request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("provider returned status %d", resp.StatusCode)
	}

	var chatResp chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chatResp); err != nil {
		return "", fmt.Errorf("failed to decode provider response: %w", err)
	}

	if len(chatResp.Choices) == 0 {
		return "", fmt.Errorf("provider returned no choices")
	}

	content := chatResp.Choices[0].Message.Content
	if content == "" {
		return "", fmt.Errorf("provider returned empty content")
	}

	return content, nil
}

// ============================================================================
// JSON extraction
// ============================================================================

// extractJSON finds the outermost JSON object in a string.
// It handles nested braces correctly and skips braces inside quoted strings,
// so a response wrapped in markdown fences or prose still parses.
func extractJSON(s string) string {
	start := -1
	depth := 0
	inString := false
	escaped := false

	for i, ch := range s {
		if escaped {
			escaped = false
			continue
		}
		if ch == '\\' && inString {
			escaped = true
			continue
		}
		if ch == '"' {
			inString = !inString
			continue
		}
		if inString {
			continue
		}

		if ch == '{' {
			if depth == 0 {
				start = i
			}
			depth++
		} else if ch == '}' {
			depth--
			if depth == 0 && start != -1 {
				return s[start : i+1]
			}
		}
	}
	return ""
}
