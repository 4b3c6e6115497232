// internal/api/auth_handler.go
package api

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/studyhub/backend/internal/auth"
	"github.com/studyhub/backend/internal/domain/user"
	"github.com/studyhub/backend/internal/store"
)

// ── Request / Response types ────────────────────────────────────────────────

type RegisterRequest struct {
	Email    string `json:"email" example:"sam@example.com"`
	Password string `json:"password" example:"correct-horse-battery"`
	FullName string `json:"full_name,omitempty" example:"Sam Doe"`
}

func (r *RegisterRequest) Validate() error {
	if r.Email == "" || !strings.Contains(r.Email, "@") {
		return errors.New("a valid email is required")
	}
	if len(r.Password) < 8 {
		return errors.New("password must be at least 8 characters")
	}
	return nil
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r *LoginRequest) Validate() error {
	if r.Email == "" || r.Password == "" {
		return errors.New("email and password are required")
	}
	return nil
}

type TokenResponse struct {
	AccessToken string       `json:"access_token"`
	TokenType   string       `json:"token_type" example:"bearer"`
	ExpiresIn   int          `json:"expires_in" example:"86400"`
	User        UserResponse `json:"user"`
}

type UserResponse struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	FullName string `json:"full_name,omitempty"`
}

type ProfileResponse struct {
	ID             string  `json:"id"`
	Email          string  `json:"email"`
	FullName       string  `json:"full_name,omitempty"`
	TotalQuizzes   int     `json:"total_quizzes"`
	AverageScore   float64 `json:"average_score"`
	StudyStreak    int     `json:"study_streak"`
	TotalStudyTime float64 `json:"total_study_time"`
	CreatedAt      string  `json:"created_at"`
}

// ── Handlers ────────────────────────────────────────────────────────────────

// register creates a user account.
// @Summary      Register
// @Description  Create an account and receive an access token.
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        body  body      RegisterRequest  true  "Account to create"
// @Success      201   {object}  TokenResponse
// @Failure      400   {object}  map[string]string
// @Failure      409   {object}  map[string]string  "email already registered"
// @Router       /api/auth/register [post]
func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req RegisterRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		h.logger.Error("failed to hash password", "error", err)
		respondError(w, http.StatusInternalServerError, "internal error")
		return
	}

	now := time.Now().UTC()
	rec := &store.UserRecord{
		ID:           uuid.NewString(),
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		PasswordHash: hash,
		FullName:     req.FullName,
		CreatedAt:    now,
	}
	profile := &user.Profile{
		ID:        rec.ID,
		Email:     rec.Email,
		FullName:  rec.FullName,
		CreatedAt: now,
	}

	err = h.store.CreateUser(ctx, rec, profile)
	if errors.Is(err, store.ErrEmailTaken) {
		respondError(w, http.StatusConflict, "email already registered")
		return
	}
	if err != nil {
		h.logger.Error("failed to create user", "error", err)
		respondError(w, http.StatusInternalServerError, "internal error")
		return
	}

	h.respondToken(w, http.StatusCreated, auth.Identity{UserID: rec.ID, Email: rec.Email, Name: rec.FullName})
}

// login exchanges credentials for an access token.
// @Summary      Log in
// @Description  Authenticate with email and password.
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        body  body      LoginRequest  true  "Credentials"
// @Success      200   {object}  TokenResponse
// @Failure      401   {object}  map[string]string
// @Router       /api/auth/login [post]
func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req LoginRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	rec, err := h.store.GetUserByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if errors.Is(err, store.ErrNotFound) {
		respondError(w, http.StatusUnauthorized, "invalid email or password")
		return
	}
	if err != nil {
		h.logger.Error("failed to load user", "error", err)
		respondError(w, http.StatusInternalServerError, "internal error")
		return
	}

	if !auth.CheckPassword(rec.PasswordHash, req.Password) {
		respondError(w, http.StatusUnauthorized, "invalid email or password")
		return
	}

	h.respondToken(w, http.StatusOK, auth.Identity{UserID: rec.ID, Email: rec.Email, Name: rec.FullName})
}

// me returns the caller's profile.
// @Summary      Current user
// @Description  Returns the authenticated user's profile and study statistics.
// @Tags         Auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  ProfileResponse
// @Failure      401  {object}  map[string]string
// @Router       /api/auth/me [get]
func (h *Handler) me(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := identity(r)

	profile, err := h.store.GetProfile(ctx, id.UserID)
	if h.handleStoreError(w, err, "profile") {
		return
	}

	respondJSON(w, http.StatusOK, toProfileResponse(profile))
}

func (h *Handler) respondToken(w http.ResponseWriter, status int, id auth.Identity) {
	token, err := h.tokens.IssueToken(id)
	if err != nil {
		h.logger.Error("failed to issue token", "error", err)
		respondError(w, http.StatusInternalServerError, "internal error")
		return
	}

	respondJSON(w, status, TokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
		ExpiresIn:   int(h.tokens.TokenTTL().Seconds()),
		User: UserResponse{
			ID:       id.UserID,
			Email:    id.Email,
			FullName: id.Name,
		},
	})
}

func toProfileResponse(p *user.Profile) ProfileResponse {
	return ProfileResponse{
		ID:             p.ID,
		Email:          p.Email,
		FullName:       p.FullName,
		TotalQuizzes:   p.TotalQuizzes,
		AverageScore:   p.AverageScore,
		StudyStreak:    p.StudyStreak,
		TotalStudyTime: p.TotalStudyTime,
		CreatedAt:      p.CreatedAt.Format(time.RFC3339),
	}
}
