// internal/api/progress_handler.go
package api

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/studyhub/backend/internal/domain/studysession"
)

// ── Request / Response types ────────────────────────────────────────────────

type ProgressSummaryResponse struct {
	TotalQuizzes   int     `json:"total_quizzes"`
	AverageScore   float64 `json:"average_score"`
	StudyStreak    int     `json:"study_streak"`
	TotalStudyTime float64 `json:"total_study_time"` // minutes
	RecentSessions int     `json:"recent_sessions"`
}

type CreateStudySessionRequest struct {
	ActivityType string   `json:"activity_type" example:"quiz"`
	Subject      string   `json:"subject"`
	Duration     int      `json:"duration"` // minutes
	Score        *float64 `json:"score,omitempty"`
}

func (r *CreateStudySessionRequest) Validate() error {
	if r.Subject == "" {
		return errors.New("subject is required")
	}
	if r.Duration < 0 {
		return errors.New("duration cannot be negative")
	}
	return nil
}

type StudySessionResponse struct {
	ID           string   `json:"id"`
	ActivityType string   `json:"activity_type"`
	Subject      string   `json:"subject"`
	Duration     int      `json:"duration"`
	Score        *float64 `json:"score,omitempty"`
	CompletedAt  string   `json:"completed_at"`
}

type ProgressExport struct {
	Version    string            `json:"version"`
	ExportedAt string            `json:"exported_at"`
	Profile    ProfileResponse   `json:"profile"`
	Attempts   []AttemptResponse `json:"attempts"`
}

// ── Handlers ────────────────────────────────────────────────────────────────

// progressSummary returns the caller's aggregate study statistics.
// @Summary      Progress summary
// @Tags         Progress
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  ProgressSummaryResponse
// @Router       /api/progress/summary [get]
func (h *Handler) progressSummary(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := identity(r)

	profile, err := h.store.GetProfile(ctx, id.UserID)
	if h.handleStoreError(w, err, "profile") {
		return
	}

	sessions, err := h.store.ListStudySessions(ctx, id.UserID, 10)
	if err != nil {
		h.logger.Error("failed to list sessions", "error", err)
		respondError(w, http.StatusInternalServerError, "failed to load sessions")
		return
	}

	respondJSON(w, http.StatusOK, ProgressSummaryResponse{
		TotalQuizzes:   profile.TotalQuizzes,
		AverageScore:   profile.AverageScore,
		StudyStreak:    profile.StudyStreak,
		TotalStudyTime: profile.TotalStudyTime,
		RecentSessions: len(sessions),
	})
}

// createStudySession records a completed study activity.
// @Summary      Record a study session
// @Tags         Progress
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      CreateStudySessionRequest  true  "Session to record"
// @Success      201   {object}  StudySessionResponse
// @Failure      400   {object}  map[string]string
// @Router       /api/progress/sessions [post]
func (h *Handler) createStudySession(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := identity(r)

	var req CreateStudySessionRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	activity, err := studysession.ParseActivityType(req.ActivityType)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	session, err := studysession.New(id.UserID, activity, req.Subject, req.Duration, req.Score)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.store.SaveStudySession(ctx, session); err != nil {
		h.logger.Error("failed to save session", "error", err)
		respondError(w, http.StatusInternalServerError, "failed to save session")
		return
	}

	respondJSON(w, http.StatusCreated, toStudySessionResponse(session))
}

// listStudySessions returns the caller's recent sessions, newest first.
// @Summary      List study sessions
// @Tags         Progress
// @Produce      json
// @Security     BearerAuth
// @Param        limit  query    int  false  "Maximum number of sessions (default 20)"
// @Success      200    {array}  StudySessionResponse
// @Router       /api/progress/sessions [get]
func (h *Handler) listStudySessions(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := identity(r)

	limit := 20
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > 100 {
			respondError(w, http.StatusBadRequest, "limit must be between 1 and 100")
			return
		}
		limit = n
	}

	sessions, err := h.store.ListStudySessions(ctx, id.UserID, limit)
	if err != nil {
		h.logger.Error("failed to list sessions", "error", err)
		respondError(w, http.StatusInternalServerError, "failed to load sessions")
		return
	}

	response := make([]StudySessionResponse, len(sessions))
	for i, s := range sessions {
		response[i] = toStudySessionResponse(s)
	}
	respondJSON(w, http.StatusOK, response)
}

// exportProgress downloads the caller's attempt history as JSON or CSV.
// @Summary      Export progress
// @Description  Download profile statistics and the full attempt history.
// @Tags         Progress
// @Produce      json
// @Security     BearerAuth
// @Param        format  query  string  false  "json (default) or csv"
// @Success      200
// @Failure      400  {object}  map[string]string
// @Router       /api/progress/export [get]
func (h *Handler) exportProgress(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := identity(r)

	format := r.URL.Query().Get("format")
	if format == "" {
		format = "json"
	}
	if format != "json" && format != "csv" {
		respondError(w, http.StatusBadRequest, "format must be json or csv")
		return
	}

	profile, err := h.store.GetProfile(ctx, id.UserID)
	if h.handleStoreError(w, err, "profile") {
		return
	}

	attempts, err := h.store.ListAttempts(ctx, id.UserID)
	if err != nil {
		h.logger.Error("failed to list attempts", "error", err)
		respondError(w, http.StatusInternalServerError, "failed to load attempts")
		return
	}

	if format == "csv" {
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", "attachment; filename=studyhub-progress.csv")

		cw := csv.NewWriter(w)
		cw.Write([]string{"attempt_id", "quiz_id", "score", "total_questions", "correct_count", "time_taken_seconds", "completed_at"})
		for _, a := range attempts {
			cw.Write([]string{
				a.ID,
				a.QuizID,
				strconv.FormatFloat(a.Score, 'f', 2, 64),
				strconv.Itoa(a.TotalQuestions),
				strconv.Itoa(a.CorrectCount),
				strconv.Itoa(a.TimeTaken),
				a.CompletedAt.Format(time.RFC3339),
			})
		}
		cw.Flush()
		return
	}

	export := ProgressExport{
		Version:    "1.0",
		ExportedAt: time.Now().UTC().Format(time.RFC3339),
		Profile:    toProfileResponse(profile),
		Attempts:   make([]AttemptResponse, len(attempts)),
	}
	for i, a := range attempts {
		export.Attempts[i] = toAttemptResponse(a)
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", "attachment; filename=studyhub-progress.json")
	json.NewEncoder(w).Encode(export)
}

func toStudySessionResponse(s *studysession.Session) StudySessionResponse {
	return StudySessionResponse{
		ID:           s.ID,
		ActivityType: string(s.ActivityType),
		Subject:      s.Subject,
		Duration:     s.Duration,
		Score:        s.Score,
		CompletedAt:  s.CompletedAt.Format(time.RFC3339),
	}
}
