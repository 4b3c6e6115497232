// internal/api/quiz_handler.go
package api

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/studyhub/backend/internal/domain/quiz"
	"github.com/studyhub/backend/internal/genai"
	"github.com/studyhub/backend/internal/service"
	"github.com/studyhub/backend/internal/store"
)

// ── Request / Response types ────────────────────────────────────────────────

type CreateQuizRequest struct {
	Title         string                  `json:"title"`
	Subject       string                  `json:"subject"`
	Difficulty    string                  `json:"difficulty" example:"medium"`
	QuizType      string                  `json:"quiz_type" example:"multiple_choice"`
	EstimatedTime int                     `json:"estimated_time,omitempty"` // minutes
	Questions     []CreateQuestionRequest `json:"questions"`
}

type CreateQuestionRequest struct {
	Question      string   `json:"question"`
	Options       []string `json:"options,omitempty"`
	CorrectAnswer string   `json:"correct_answer"`
	Explanation   string   `json:"explanation,omitempty"`
}

func (r *CreateQuizRequest) Validate() error {
	if r.Title == "" {
		return errors.New("title is required")
	}
	if r.Subject == "" {
		return errors.New("subject is required")
	}
	if len(r.Questions) == 0 {
		return errors.New("at least one question is required")
	}
	return nil
}

type QuizResponse struct {
	ID            string             `json:"id"`
	Title         string             `json:"title"`
	Subject       string             `json:"subject"`
	Difficulty    string             `json:"difficulty"`
	QuizType      string             `json:"quiz_type"`
	Questions     []QuestionResponse `json:"questions"`
	EstimatedTime int                `json:"estimated_time"`
	CreatedAt     string             `json:"created_at"`
}

type QuestionResponse struct {
	ID            string   `json:"id"`
	Question      string   `json:"question"`
	Options       []string `json:"options,omitempty"`
	CorrectAnswer string   `json:"correct_answer"`
	Explanation   string   `json:"explanation,omitempty"`
}

type SubmitAttemptRequest struct {
	Answers   []SubmittedAnswer `json:"answers"`
	TimeTaken int               `json:"time_taken,omitempty"` // seconds
}

type SubmittedAnswer struct {
	QuestionID string `json:"question_id,omitempty"`
	Answer     string `json:"answer"`
}

func (r *SubmitAttemptRequest) Validate() error {
	if len(r.Answers) == 0 {
		return errors.New("answers are required")
	}
	if r.TimeTaken < 0 {
		return errors.New("time_taken cannot be negative")
	}
	return nil
}

type AttemptResponse struct {
	ID             string           `json:"id"`
	QuizID         string           `json:"quiz_id"`
	Score          float64          `json:"score"`
	TotalQuestions int              `json:"total_questions"`
	CorrectCount   int              `json:"correct_count"`
	TimeTaken      int              `json:"time_taken"`
	CompletedAt    string           `json:"completed_at"`
	Answers        []AnswerResponse `json:"answers"`
}

type AnswerResponse struct {
	QuestionID string `json:"question_id"`
	UserAnswer string `json:"user_answer"`
	Correct    bool   `json:"correct"`
}

// ── Handlers ────────────────────────────────────────────────────────────────

// createQuiz creates a quiz from caller-supplied questions.
// @Summary      Create a quiz
// @Description  Create a quiz with hand-written questions.
// @Tags         Quizzes
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      CreateQuizRequest  true  "Quiz to create"
// @Success      201   {object}  QuizResponse
// @Failure      400   {object}  map[string]string
// @Router       /api/quizzes [post]
func (h *Handler) createQuiz(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := identity(r)

	var req CreateQuizRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	difficulty, err := quiz.ParseDifficulty(req.Difficulty)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	quizType, err := quiz.ParseQuizType(req.QuizType)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	questions := make([]quiz.Question, len(req.Questions))
	for i, q := range req.Questions {
		questions[i] = quiz.Question{
			Question:      q.Question,
			Options:       q.Options,
			CorrectAnswer: q.CorrectAnswer,
			Explanation:   q.Explanation,
			Difficulty:    difficulty,
			Type:          quizType,
		}
	}

	built, err := quiz.New(id.UserID, req.Title, req.Subject, difficulty, quizType, questions, req.EstimatedTime)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.store.SaveQuiz(ctx, built); err != nil {
		h.logger.Error("failed to save quiz", "error", err)
		respondError(w, http.StatusInternalServerError, "failed to save quiz")
		return
	}

	respondJSON(w, http.StatusCreated, toQuizResponse(built))
}

// listQuizzes lists the caller's quizzes.
// @Summary      List quizzes
// @Tags         Quizzes
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  QuizResponse
// @Router       /api/quizzes [get]
func (h *Handler) listQuizzes(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := identity(r)

	quizzes, err := h.store.ListQuizzes(ctx, id.UserID)
	if err != nil {
		h.logger.Error("failed to list quizzes", "error", err)
		respondError(w, http.StatusInternalServerError, "failed to load quizzes")
		return
	}

	response := make([]QuizResponse, len(quizzes))
	for i, q := range quizzes {
		response[i] = toQuizResponse(q)
	}
	respondJSON(w, http.StatusOK, response)
}

// getQuiz returns one of the caller's quizzes.
// @Summary      Get a quiz
// @Tags         Quizzes
// @Produce      json
// @Security     BearerAuth
// @Param        quizID  path      string  true  "Quiz ID"
// @Success      200     {object}  QuizResponse
// @Failure      403     {object}  map[string]string
// @Failure      404     {object}  map[string]string
// @Router       /api/quizzes/{quizID} [get]
func (h *Handler) getQuiz(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := identity(r)
	quizID := r.PathValue("quizID")

	q, err := h.store.GetQuiz(ctx, quizID)
	if h.handleStoreError(w, err, "quiz") {
		return
	}
	if q.UserID != id.UserID {
		respondError(w, http.StatusForbidden, "you do not own this quiz")
		return
	}

	respondJSON(w, http.StatusOK, toQuizResponse(q))
}

// generateQuiz builds a quiz from an uploaded PDF document.
// @Summary      Generate a quiz from a document
// @Description  Upload a PDF and let the AI pipeline produce a quiz from its text.
// @Tags         Quizzes
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        file           formData  file    true   "PDF document"
// @Param        subject        formData  string  true   "Subject"
// @Param        difficulty     formData  string  false  "easy, medium or hard (default medium)"
// @Param        quiz_type      formData  string  false  "multiple_choice, true_false or short_answer (default multiple_choice)"
// @Param        num_questions  formData  int     false  "Number of questions (default 5, max 20)"
// @Success      201  {object}  QuizResponse
// @Failure      400  {object}  map[string]string
// @Failure      502  {object}  map[string]string  "generation failed"
// @Router       /api/quizzes/generate-from-pdf [post]
func (h *Handler) generateQuiz(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := identity(r)

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload)
	if err := r.ParseMultipartForm(h.maxUpload); err != nil {
		respondError(w, http.StatusBadRequest, "invalid or too large multipart upload")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		respondError(w, http.StatusBadRequest, "file is required")
		return
	}
	defer file.Close()

	if header.Header.Get("Content-Type") != "application/pdf" {
		respondError(w, http.StatusBadRequest, "only PDF uploads are supported")
		return
	}

	document, err := io.ReadAll(file)
	if err != nil {
		respondError(w, http.StatusBadRequest, "failed to read upload")
		return
	}

	subject := r.FormValue("subject")
	if subject == "" {
		respondError(w, http.StatusBadRequest, "subject is required")
		return
	}

	difficulty := r.FormValue("difficulty")
	if difficulty == "" {
		difficulty = string(quiz.DifficultyMedium)
	}
	quizType := r.FormValue("quiz_type")
	if quizType == "" {
		quizType = string(quiz.TypeMultipleChoice)
	}

	numQuestions := 5
	if raw := r.FormValue("num_questions"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > 20 {
			respondError(w, http.StatusBadRequest, "num_questions must be between 1 and 20")
			return
		}
		numQuestions = n
	}

	q, err := h.generation.QuizFromDocument(ctx, id.UserID, genai.GenerateQuizInput{
		Document:     document,
		Filename:     header.Filename,
		Subject:      subject,
		Difficulty:   difficulty,
		QuizType:     quizType,
		NumQuestions: numQuestions,
	})
	if err != nil {
		h.handleGenerationError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, toQuizResponse(q))
}

// submitAttempt grades a quiz submission.
// @Summary      Submit quiz answers
// @Description  Grade the submitted answers, record the attempt and update study statistics.
// @Tags         Quizzes
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        quizID  path      string                true  "Quiz ID"
// @Param        body    body      SubmitAttemptRequest  true  "Answers, aligned with question order"
// @Success      201     {object}  AttemptResponse
// @Failure      400     {object}  map[string]string
// @Failure      403     {object}  map[string]string
// @Failure      404     {object}  map[string]string
// @Router       /api/quizzes/{quizID}/attempts [post]
func (h *Handler) submitAttempt(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := identity(r)
	quizID := r.PathValue("quizID")

	var req SubmitAttemptRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	answers := make([]quiz.Answer, len(req.Answers))
	for i, a := range req.Answers {
		answers[i] = quiz.Answer{QuestionID: a.QuestionID, UserAnswer: a.Answer}
	}

	attempt, err := h.attempts.Submit(ctx, id.UserID, quizID, answers, req.TimeTaken)
	switch {
	case err == nil:
	case errors.Is(err, quiz.ErrAnswerCountMismatch), errors.Is(err, quiz.ErrAnswerMismatch):
		respondError(w, http.StatusBadRequest, err.Error())
		return
	case errors.Is(err, store.ErrNotFound), errors.Is(err, service.ErrForbidden):
		h.handleStoreError(w, err, "quiz")
		return
	default:
		h.logger.Error("failed to submit attempt", "error", err)
		respondError(w, http.StatusInternalServerError, "internal error")
		return
	}

	respondJSON(w, http.StatusCreated, toAttemptResponse(attempt))
}

// listAttempts returns the caller's attempt history, newest first.
// @Summary      List quiz attempts
// @Tags         Quizzes
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  AttemptResponse
// @Router       /api/quizzes/attempts/history [get]
func (h *Handler) listAttempts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := identity(r)

	attempts, err := h.store.ListAttempts(ctx, id.UserID)
	if err != nil {
		h.logger.Error("failed to list attempts", "error", err)
		respondError(w, http.StatusInternalServerError, "failed to load attempts")
		return
	}

	response := make([]AttemptResponse, len(attempts))
	for i, a := range attempts {
		response[i] = toAttemptResponse(a)
	}
	respondJSON(w, http.StatusOK, response)
}

func toQuizResponse(q *quiz.Quiz) QuizResponse {
	questions := make([]QuestionResponse, len(q.Questions))
	for i, question := range q.Questions {
		questions[i] = QuestionResponse{
			ID:            question.ID,
			Question:      question.Question,
			Options:       question.Options,
			CorrectAnswer: question.CorrectAnswer,
			Explanation:   question.Explanation,
		}
	}
	return QuizResponse{
		ID:            q.ID,
		Title:         q.Title,
		Subject:       q.Subject,
		Difficulty:    string(q.Difficulty),
		QuizType:      string(q.Type),
		Questions:     questions,
		EstimatedTime: q.EstimatedTime,
		CreatedAt:     q.CreatedAt.Format(time.RFC3339),
	}
}

func toAttemptResponse(a *quiz.Attempt) AttemptResponse {
	answers := make([]AnswerResponse, len(a.Answers))
	for i, ans := range a.Answers {
		answers[i] = AnswerResponse{
			QuestionID: ans.QuestionID,
			UserAnswer: ans.UserAnswer,
			Correct:    ans.Correct,
		}
	}
	return AttemptResponse{
		ID:             a.ID,
		QuizID:         a.QuizID,
		Score:          a.Score,
		TotalQuestions: a.TotalQuestions,
		CorrectCount:   a.CorrectCount,
		TimeTaken:      a.TimeTaken,
		CompletedAt:    a.CompletedAt.Format(time.RFC3339),
		Answers:        answers,
	}
}
