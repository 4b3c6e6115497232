// internal/store/sqlite_quiz.go
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/studyhub/backend/internal/domain/quiz"
)

// storedQuestion is the JSON shape persisted in the quizzes.questions column.
type storedQuestion struct {
	ID            string   `json:"id"`
	Question      string   `json:"question"`
	Options       []string `json:"options,omitempty"`
	CorrectAnswer string   `json:"correct_answer"`
	Explanation   string   `json:"explanation,omitempty"`
	Difficulty    string   `json:"difficulty"`
	Type          string   `json:"type"`
}

// storedAnswer is the JSON shape persisted in the quiz_attempts.answers column.
type storedAnswer struct {
	QuestionID string `json:"question_id"`
	UserAnswer string `json:"user_answer"`
	Correct    bool   `json:"correct"`
}

// ============================================================================
// Quizzes
// ============================================================================

func (s *SQLiteStore) SaveQuiz(ctx context.Context, q *quiz.Quiz) error {
	questions, err := marshalQuestions(q.Questions)
	if err != nil {
		return fmt.Errorf("failed to encode questions: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO quizzes (id, title, subject, difficulty, quiz_type, questions, estimated_time, user_id, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		q.ID, q.Title, q.Subject, string(q.Difficulty), string(q.Type),
		questions, q.EstimatedTime, q.UserID, formatTime(q.CreatedAt),
	)
	return err
}

func (s *SQLiteStore) GetQuiz(ctx context.Context, id string) (*quiz.Quiz, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, title, subject, difficulty, quiz_type, questions, estimated_time, user_id, created_at
		 FROM quizzes WHERE id = ?`, id)

	q, err := scanQuiz(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return q, nil
}

func (s *SQLiteStore) ListQuizzes(ctx context.Context, userID string) ([]*quiz.Quiz, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, title, subject, difficulty, quiz_type, questions, estimated_time, user_id, created_at
		 FROM quizzes WHERE user_id = ? ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	quizzes := []*quiz.Quiz{}
	for rows.Next() {
		q, err := scanQuiz(rows)
		if err != nil {
			return nil, err
		}
		quizzes = append(quizzes, q)
	}
	return quizzes, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanQuiz(row rowScanner) (*quiz.Quiz, error) {
	var q quiz.Quiz
	var difficulty, quizType, questions, createdAt string

	err := row.Scan(&q.ID, &q.Title, &q.Subject, &difficulty, &quizType,
		&questions, &q.EstimatedTime, &q.UserID, &createdAt)
	if err != nil {
		return nil, err
	}

	q.Difficulty = quiz.Difficulty(difficulty)
	q.Type = quiz.QuizType(quizType)
	q.CreatedAt = parseTime(createdAt)

	q.Questions, err = unmarshalQuestions(questions)
	if err != nil {
		return nil, fmt.Errorf("failed to decode questions for quiz %s: %w", q.ID, err)
	}
	return &q, nil
}

func marshalQuestions(questions []quiz.Question) (string, error) {
	stored := make([]storedQuestion, len(questions))
	for i, q := range questions {
		stored[i] = storedQuestion{
			ID:            q.ID,
			Question:      q.Question,
			Options:       q.Options,
			CorrectAnswer: q.CorrectAnswer,
			Explanation:   q.Explanation,
			Difficulty:    string(q.Difficulty),
			Type:          string(q.Type),
		}
	}
	data, err := json.Marshal(stored)
	return string(data), err
}

func unmarshalQuestions(data string) ([]quiz.Question, error) {
	var stored []storedQuestion
	if err := json.Unmarshal([]byte(data), &stored); err != nil {
		return nil, err
	}
	questions := make([]quiz.Question, len(stored))
	for i, sq := range stored {
		questions[i] = quiz.Question{
			ID:            sq.ID,
			Question:      sq.Question,
			Options:       sq.Options,
			CorrectAnswer: sq.CorrectAnswer,
			Explanation:   sq.Explanation,
			Difficulty:    quiz.Difficulty(sq.Difficulty),
			Type:          quiz.QuizType(sq.Type),
		}
	}
	return questions, nil
}

// ============================================================================
// Quiz attempts
// ============================================================================

func (s *SQLiteStore) SaveAttempt(ctx context.Context, a *quiz.Attempt) error {
	answers, err := marshalAnswers(a.Answers)
	if err != nil {
		return fmt.Errorf("failed to encode answers: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO quiz_attempts (id, quiz_id, user_id, answers, score, total_questions, correct_count, time_taken, completed_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.ID, a.QuizID, a.UserID, answers, a.Score,
		a.TotalQuestions, a.CorrectCount, a.TimeTaken, formatTime(a.CompletedAt),
	)
	return err
}

func (s *SQLiteStore) ListAttempts(ctx context.Context, userID string) ([]*quiz.Attempt, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, quiz_id, user_id, answers, score, total_questions, correct_count, time_taken, completed_at
		 FROM quiz_attempts WHERE user_id = ? ORDER BY completed_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	attempts := []*quiz.Attempt{}
	for rows.Next() {
		var a quiz.Attempt
		var answers, completedAt string

		err := rows.Scan(&a.ID, &a.QuizID, &a.UserID, &answers, &a.Score,
			&a.TotalQuestions, &a.CorrectCount, &a.TimeTaken, &completedAt)
		if err != nil {
			return nil, err
		}

		a.CompletedAt = parseTime(completedAt)
		a.Answers, err = unmarshalAnswers(answers)
		if err != nil {
			return nil, fmt.Errorf("failed to decode answers for attempt %s: %w", a.ID, err)
		}
		attempts = append(attempts, &a)
	}
	return attempts, rows.Err()
}

func marshalAnswers(answers []quiz.Answer) (string, error) {
	stored := make([]storedAnswer, len(answers))
	for i, a := range answers {
		stored[i] = storedAnswer{
			QuestionID: a.QuestionID,
			UserAnswer: a.UserAnswer,
			Correct:    a.Correct,
		}
	}
	data, err := json.Marshal(stored)
	return string(data), err
}

func unmarshalAnswers(data string) ([]quiz.Answer, error) {
	var stored []storedAnswer
	if err := json.Unmarshal([]byte(data), &stored); err != nil {
		return nil, err
	}
	answers := make([]quiz.Answer, len(stored))
	for i, sa := range stored {
		answers[i] = quiz.Answer{
			QuestionID: sa.QuestionID,
			UserAnswer: sa.UserAnswer,
			Correct:    sa.Correct,
		}
	}
	return answers, nil
}
