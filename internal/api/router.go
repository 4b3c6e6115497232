// internal/api/router.go
package api

import (
	"net/http"
)

// RegisterRoutes wires all endpoints onto the mux. Everything except
// registration and login sits behind the auth middleware.
func RegisterRoutes(mux *http.ServeMux, h *Handler) {
	// Auth (public)
	mux.HandleFunc("POST /api/auth/register", h.register)
	mux.HandleFunc("POST /api/auth/login", h.login)

	requireAuth := RequireAuth(h.tokens)
	protected := func(hf http.HandlerFunc) http.Handler {
		return requireAuth(hf)
	}

	mux.Handle("GET /api/auth/me", protected(h.me))

	// Quizzes
	mux.Handle("POST /api/quizzes", protected(h.createQuiz))
	mux.Handle("GET /api/quizzes", protected(h.listQuizzes))
	mux.Handle("GET /api/quizzes/{quizID}", protected(h.getQuiz))
	mux.Handle("POST /api/quizzes/generate-from-pdf", protected(h.generateQuiz))
	mux.Handle("POST /api/quizzes/{quizID}/attempts", protected(h.submitAttempt))
	mux.Handle("GET /api/quizzes/attempts/history", protected(h.listAttempts))

	// Flashcards
	mux.Handle("POST /api/flashcards", protected(h.createFlashcard))
	mux.Handle("GET /api/flashcards", protected(h.listFlashcards))
	mux.Handle("GET /api/flashcards/{flashcardID}", protected(h.getFlashcard))
	mux.Handle("POST /api/flashcards/{flashcardID}/reviews", protected(h.reviewFlashcard))

	// Study guides
	mux.Handle("POST /api/study-guides", protected(h.createStudyGuide))
	mux.Handle("GET /api/study-guides", protected(h.listStudyGuides))
	mux.Handle("GET /api/study-guides/{guideID}", protected(h.getStudyGuide))

	// Progress
	mux.Handle("GET /api/progress/summary", protected(h.progressSummary))
	mux.Handle("GET /api/progress/export", protected(h.exportProgress))
	mux.Handle("POST /api/progress/sessions", protected(h.createStudySession))
	mux.Handle("GET /api/progress/sessions", protected(h.listStudySessions))

	// AI coaching
	mux.Handle("POST /api/ai/motivation", protected(h.motivation))
	mux.Handle("POST /api/ai/study-tips", protected(h.studyTips))
}
