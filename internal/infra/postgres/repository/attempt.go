package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/aliskhannn/brain-recall/internal/domain/entities"
	"github.com/aliskhannn/brain-recall/internal/infra/postgres"
)

// AttemptRepository records answers to questions.
type AttemptRepository struct {
	db postgres.DBTX
}

// NewAttemptRepository creates a new AttemptRepository.
func NewAttemptRepository(db postgres.DBTX) *AttemptRepository {
	return &AttemptRepository{db: db}
}

// Create inserts an attempt.
func (r *AttemptRepository) Create(ctx context.Context, a *entities.QuestionAttempt) error {
	query := `
		INSERT INTO question_attempts (id, topic_id, question_id, user_id, selected_option, is_correct, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := postgres.Conn(ctx, r.db).Exec(
		ctx,
		query,
		a.ID,
		a.TopicID,
		a.QuestionID,
		a.UserID,
		string(a.SelectedOption),
		a.IsCorrect,
		a.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create attempt: %w", err)
	}

	return nil
}

// AnsweredTopicSince reports whether the user answered any question of the topic at or after since.
func (r *AttemptRepository) AnsweredTopicSince(ctx context.Context, userID, topicID uuid.UUID, since time.Time) (bool, error) {
	query := `
		SELECT EXISTS(
			SELECT 1 FROM question_attempts
			WHERE user_id = $1 AND topic_id = $2 AND created_at >= $3
		)
	`

	var exists bool
	if err := postgres.Conn(ctx, r.db).QueryRow(ctx, query, userID, topicID, since).Scan(&exists); err != nil {
		return false, fmt.Errorf("check topic attempts: %w", err)
	}

	return exists, nil
}

// AnsweredQuestionSince reports whether the user answered the question at or after since.
func (r *AttemptRepository) AnsweredQuestionSince(ctx context.Context, userID, questionID uuid.UUID, since time.Time) (bool, error) {
	query := `
		SELECT EXISTS(
			SELECT 1 FROM question_attempts
			WHERE user_id = $1 AND question_id = $2 AND created_at >= $3
		)
	`

	var exists bool
	if err := postgres.Conn(ctx, r.db).QueryRow(ctx, query, userID, questionID, since).Scan(&exists); err != nil {
		return false, fmt.Errorf("check question attempts: %w", err)
	}

	return exists, nil
}

// CountByQuestion returns how many times each question of the topic was answered by the user.
func (r *AttemptRepository) CountByQuestion(ctx context.Context, userID, topicID uuid.UUID) (map[uuid.UUID]int, error) {
	query := `
		SELECT question_id, COUNT(*)
		FROM question_attempts
		WHERE user_id = $1 AND topic_id = $2
		GROUP BY question_id
	`

	rows, err := postgres.Conn(ctx, r.db).Query(ctx, query, userID, topicID)
	if err != nil {
		return nil, fmt.Errorf("count attempts: %w", err)
	}
	defer rows.Close()

	counts := make(map[uuid.UUID]int)
	for rows.Next() {
		var id uuid.UUID
		var n int
		if err := rows.Scan(&id, &n); err != nil {
			return nil, fmt.Errorf("scan attempt count: %w", err)
		}
		counts[id] = n
	}

	return counts, rows.Err()
}
