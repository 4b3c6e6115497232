// internal/store/sqlite.go
package store

import (
	"context"
	"database/sql"
	"time"

	_ "modernc.org/sqlite"

	"github.com/studyhub/backend/internal/domain/user"
)

const schema = `
CREATE TABLE IF NOT EXISTS users (
    id TEXT PRIMARY KEY,
    email TEXT NOT NULL UNIQUE,
    password_hash TEXT NOT NULL,
    full_name TEXT NOT NULL DEFAULT '',
    created_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS profiles (
    user_id TEXT PRIMARY KEY,
    email TEXT NOT NULL,
    full_name TEXT NOT NULL DEFAULT '',
    total_quizzes INTEGER NOT NULL DEFAULT 0,
    average_score REAL NOT NULL DEFAULT 0,
    study_streak INTEGER NOT NULL DEFAULT 0,
    total_study_time REAL NOT NULL DEFAULT 0,
    created_at TEXT NOT NULL,
    FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS quizzes (
    id TEXT PRIMARY KEY,
    title TEXT NOT NULL,
    subject TEXT NOT NULL,
    difficulty TEXT NOT NULL,
    quiz_type TEXT NOT NULL,
    questions TEXT NOT NULL,
    estimated_time INTEGER NOT NULL DEFAULT 0,
    user_id TEXT NOT NULL,
    created_at TEXT NOT NULL,
    FOREIGN KEY (user_id) REFERENCES users(id)
);

CREATE TABLE IF NOT EXISTS quiz_attempts (
    id TEXT PRIMARY KEY,
    quiz_id TEXT NOT NULL,
    user_id TEXT NOT NULL,
    answers TEXT NOT NULL,
    score REAL NOT NULL,
    total_questions INTEGER NOT NULL,
    correct_count INTEGER NOT NULL,
    time_taken INTEGER NOT NULL DEFAULT 0,
    completed_at TEXT NOT NULL,
    FOREIGN KEY (quiz_id) REFERENCES quizzes(id),
    FOREIGN KEY (user_id) REFERENCES users(id)
);

CREATE TABLE IF NOT EXISTS flashcards (
    id TEXT PRIMARY KEY,
    front TEXT NOT NULL,
    back TEXT NOT NULL,
    subject TEXT NOT NULL,
    difficulty TEXT NOT NULL,
    tags TEXT NOT NULL DEFAULT '[]',
    user_id TEXT NOT NULL,
    created_at TEXT NOT NULL,
    FOREIGN KEY (user_id) REFERENCES users(id)
);

CREATE TABLE IF NOT EXISTS flashcard_reviews (
    id TEXT PRIMARY KEY,
    flashcard_id TEXT NOT NULL,
    user_id TEXT NOT NULL,
    rating INTEGER NOT NULL,
    time_taken INTEGER NOT NULL DEFAULT 0,
    reviewed_at TEXT NOT NULL,
    FOREIGN KEY (flashcard_id) REFERENCES flashcards(id),
    FOREIGN KEY (user_id) REFERENCES users(id)
);

CREATE TABLE IF NOT EXISTS study_guides (
    id TEXT PRIMARY KEY,
    title TEXT NOT NULL,
    subject TEXT NOT NULL,
    content TEXT NOT NULL,
    key_topics TEXT NOT NULL DEFAULT '[]',
    objectives TEXT NOT NULL DEFAULT '[]',
    difficulty TEXT NOT NULL,
    estimated_time INTEGER NOT NULL DEFAULT 0,
    rating REAL,
    user_id TEXT NOT NULL,
    created_at TEXT NOT NULL,
    updated_at TEXT NOT NULL,
    FOREIGN KEY (user_id) REFERENCES users(id)
);

CREATE TABLE IF NOT EXISTS study_sessions (
    id TEXT PRIMARY KEY,
    user_id TEXT NOT NULL,
    activity_type TEXT NOT NULL,
    subject TEXT NOT NULL,
    duration INTEGER NOT NULL,
    score REAL,
    completed_at TEXT NOT NULL,
    FOREIGN KEY (user_id) REFERENCES users(id)
);
`

type SQLiteStore struct {
	db *sql.DB
}

// Compile-time check: *SQLiteStore satisfies the Store interface.
var _ Store = (*SQLiteStore)(nil)

func NewSQLite(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(schema); err != nil {
		return nil, err
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// ============================================================================
// Users & profiles
// ============================================================================

func (s *SQLiteStore) CreateUser(ctx context.Context, rec *UserRecord, profile *user.Profile) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var exists int
	err = tx.QueryRowContext(ctx, "SELECT COUNT(1) FROM users WHERE email = ?", rec.Email).Scan(&exists)
	if err != nil {
		return err
	}
	if exists > 0 {
		return ErrEmailTaken
	}

	_, err = tx.ExecContext(ctx,
		"INSERT INTO users (id, email, password_hash, full_name, created_at) VALUES (?, ?, ?, ?, ?)",
		rec.ID, rec.Email, rec.PasswordHash, rec.FullName, formatTime(rec.CreatedAt),
	)
	if err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO profiles (user_id, email, full_name, total_quizzes, average_score, study_streak, total_study_time, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		profile.ID, profile.Email, profile.FullName,
		profile.TotalQuizzes, profile.AverageScore, profile.StudyStreak, profile.TotalStudyTime,
		formatTime(profile.CreatedAt),
	)
	if err != nil {
		return err
	}

	return tx.Commit()
}

func (s *SQLiteStore) GetUserByEmail(ctx context.Context, email string) (*UserRecord, error) {
	var rec UserRecord
	var createdAt string

	err := s.db.QueryRowContext(ctx,
		"SELECT id, email, password_hash, full_name, created_at FROM users WHERE email = ?", email,
	).Scan(&rec.ID, &rec.Email, &rec.PasswordHash, &rec.FullName, &createdAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	rec.CreatedAt = parseTime(createdAt)
	return &rec, nil
}

func (s *SQLiteStore) GetProfile(ctx context.Context, userID string) (*user.Profile, error) {
	var p user.Profile
	var createdAt string

	err := s.db.QueryRowContext(ctx,
		`SELECT user_id, email, full_name, total_quizzes, average_score, study_streak, total_study_time, created_at
		 FROM profiles WHERE user_id = ?`, userID,
	).Scan(&p.ID, &p.Email, &p.FullName, &p.TotalQuizzes, &p.AverageScore, &p.StudyStreak, &p.TotalStudyTime, &createdAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	p.CreatedAt = parseTime(createdAt)
	return &p, nil
}

func (s *SQLiteStore) UpdateProfileStats(ctx context.Context, userID string, delta user.StatsDelta) error {
	result, err := s.db.ExecContext(ctx,
		"UPDATE profiles SET total_quizzes = ?, average_score = ?, total_study_time = ? WHERE user_id = ?",
		delta.TotalQuizzes, delta.AverageScore, delta.TotalStudyTime, userID,
	)
	if err != nil {
		return err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// ============================================================================
// Time helpers
// ============================================================================

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

// parseTime decodes a stored timestamp; a corrupt value yields the zero time
// rather than failing the whole row.
func parseTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

// nullFloat converts an optional float for storage.
func nullFloat(f *float64) any {
	if f == nil {
		return nil
	}
	return *f
}

// scanNullFloat converts back from storage.
func scanNullFloat(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}
