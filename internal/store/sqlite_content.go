// internal/store/sqlite_content.go
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/studyhub/backend/internal/domain/flashcard"
	"github.com/studyhub/backend/internal/domain/quiz"
	"github.com/studyhub/backend/internal/domain/studyguide"
	"github.com/studyhub/backend/internal/domain/studysession"
)

// ============================================================================
// Flashcards
// ============================================================================

func (s *SQLiteStore) SaveFlashcard(ctx context.Context, f *flashcard.Flashcard) error {
	tags, err := marshalStrings(f.Tags)
	if err != nil {
		return fmt.Errorf("failed to encode tags: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO flashcards (id, front, back, subject, difficulty, tags, user_id, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		f.ID, f.Front, f.Back, f.Subject, string(f.Difficulty), tags, f.UserID, formatTime(f.CreatedAt),
	)
	return err
}

func (s *SQLiteStore) GetFlashcard(ctx context.Context, id string) (*flashcard.Flashcard, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, front, back, subject, difficulty, tags, user_id, created_at
		 FROM flashcards WHERE id = ?`, id)

	f, err := scanFlashcard(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return f, nil
}

// ListFlashcards returns a user's flashcards, optionally filtered by subject.
func (s *SQLiteStore) ListFlashcards(ctx context.Context, userID, subject string) ([]*flashcard.Flashcard, error) {
	query := `SELECT id, front, back, subject, difficulty, tags, user_id, created_at
		 FROM flashcards WHERE user_id = ?`
	args := []any{userID}
	if subject != "" {
		query += " AND subject = ?"
		args = append(args, subject)
	}
	query += " ORDER BY created_at DESC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cards := []*flashcard.Flashcard{}
	for rows.Next() {
		f, err := scanFlashcard(rows)
		if err != nil {
			return nil, err
		}
		cards = append(cards, f)
	}
	return cards, rows.Err()
}

func (s *SQLiteStore) SaveFlashcardReview(ctx context.Context, r *flashcard.Review) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO flashcard_reviews (id, flashcard_id, user_id, rating, time_taken, reviewed_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		r.ID, r.FlashcardID, r.UserID, r.Rating, r.TimeTaken, formatTime(r.ReviewedAt),
	)
	return err
}

func scanFlashcard(row rowScanner) (*flashcard.Flashcard, error) {
	var f flashcard.Flashcard
	var difficulty, tags, createdAt string

	err := row.Scan(&f.ID, &f.Front, &f.Back, &f.Subject, &difficulty, &tags, &f.UserID, &createdAt)
	if err != nil {
		return nil, err
	}

	f.Difficulty = quiz.Difficulty(difficulty)
	f.CreatedAt = parseTime(createdAt)

	f.Tags, err = unmarshalStrings(tags)
	if err != nil {
		return nil, fmt.Errorf("failed to decode tags for flashcard %s: %w", f.ID, err)
	}
	return &f, nil
}

// ============================================================================
// Study guides
// ============================================================================

func (s *SQLiteStore) SaveStudyGuide(ctx context.Context, g *studyguide.StudyGuide) error {
	keyTopics, err := marshalStrings(g.KeyTopics)
	if err != nil {
		return fmt.Errorf("failed to encode key topics: %w", err)
	}
	objectives, err := marshalStrings(g.Objectives)
	if err != nil {
		return fmt.Errorf("failed to encode objectives: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO study_guides (id, title, subject, content, key_topics, objectives, difficulty, estimated_time, rating, user_id, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		g.ID, g.Title, g.Subject, g.Content, keyTopics, objectives,
		string(g.Difficulty), g.EstimatedTime, nullFloat(g.Rating), g.UserID,
		formatTime(g.CreatedAt), formatTime(g.UpdatedAt),
	)
	return err
}

func (s *SQLiteStore) GetStudyGuide(ctx context.Context, id string) (*studyguide.StudyGuide, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, title, subject, content, key_topics, objectives, difficulty, estimated_time, rating, user_id, created_at, updated_at
		 FROM study_guides WHERE id = ?`, id)

	g, err := scanStudyGuide(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return g, nil
}

func (s *SQLiteStore) ListStudyGuides(ctx context.Context, userID string) ([]*studyguide.StudyGuide, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, title, subject, content, key_topics, objectives, difficulty, estimated_time, rating, user_id, created_at, updated_at
		 FROM study_guides WHERE user_id = ? ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	guides := []*studyguide.StudyGuide{}
	for rows.Next() {
		g, err := scanStudyGuide(rows)
		if err != nil {
			return nil, err
		}
		guides = append(guides, g)
	}
	return guides, rows.Err()
}

func scanStudyGuide(row rowScanner) (*studyguide.StudyGuide, error) {
	var g studyguide.StudyGuide
	var difficulty, keyTopics, objectives, createdAt, updatedAt string
	var rating sql.NullFloat64

	err := row.Scan(&g.ID, &g.Title, &g.Subject, &g.Content, &keyTopics, &objectives,
		&difficulty, &g.EstimatedTime, &rating, &g.UserID, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	g.Difficulty = quiz.Difficulty(difficulty)
	g.Rating = scanNullFloat(rating)
	g.CreatedAt = parseTime(createdAt)
	g.UpdatedAt = parseTime(updatedAt)

	if g.KeyTopics, err = unmarshalStrings(keyTopics); err != nil {
		return nil, fmt.Errorf("failed to decode key topics for study guide %s: %w", g.ID, err)
	}
	if g.Objectives, err = unmarshalStrings(objectives); err != nil {
		return nil, fmt.Errorf("failed to decode objectives for study guide %s: %w", g.ID, err)
	}
	return &g, nil
}

// ============================================================================
// Study sessions
// ============================================================================

func (s *SQLiteStore) SaveStudySession(ctx context.Context, sess *studysession.Session) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO study_sessions (id, user_id, activity_type, subject, duration, score, completed_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		sess.ID, sess.UserID, string(sess.ActivityType), sess.Subject,
		sess.Duration, nullFloat(sess.Score), formatTime(sess.CompletedAt),
	)
	return err
}

// ListStudySessions returns a user's most recent sessions, newest first.
// A limit of 0 or less means no limit.
func (s *SQLiteStore) ListStudySessions(ctx context.Context, userID string, limit int) ([]*studysession.Session, error) {
	query := `SELECT id, user_id, activity_type, subject, duration, score, completed_at
		 FROM study_sessions WHERE user_id = ? ORDER BY completed_at DESC`
	args := []any{userID}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sessions := []*studysession.Session{}
	for rows.Next() {
		var sess studysession.Session
		var activity, completedAt string
		var score sql.NullFloat64

		err := rows.Scan(&sess.ID, &sess.UserID, &activity, &sess.Subject,
			&sess.Duration, &score, &completedAt)
		if err != nil {
			return nil, err
		}

		sess.ActivityType = studysession.ActivityType(activity)
		sess.Score = scanNullFloat(score)
		sess.CompletedAt = parseTime(completedAt)
		sessions = append(sessions, &sess)
	}
	return sessions, rows.Err()
}

// ============================================================================
// JSON column helpers
// ============================================================================

func marshalStrings(values []string) (string, error) {
	if values == nil {
		values = []string{}
	}
	data, err := json.Marshal(values)
	return string(data), err
}

func unmarshalStrings(data string) ([]string, error) {
	var values []string
	if err := json.Unmarshal([]byte(data), &values); err != nil {
		return nil, err
	}
	return values, nil
}
