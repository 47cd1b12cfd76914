package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/aliskhannn/brain-recall/internal/domain/entities"
	"github.com/aliskhannn/brain-recall/internal/infra/postgres"
)

var ErrQuestionNotFound = errors.New("question not found")

const questionColumns = `q.id, q.topic_id, q.question, q.options, q.correct_option, q.status, q.source, q.created_at`

// QuestionRepository provides access to topic questions.
type QuestionRepository struct {
	db postgres.DBTX
}

// NewQuestionRepository creates a new QuestionRepository.
func NewQuestionRepository(db postgres.DBTX) *QuestionRepository {
	return &QuestionRepository{db: db}
}

// Create inserts a question.
func (r *QuestionRepository) Create(ctx context.Context, q *entities.Question) error {
	query := `
		INSERT INTO questions (id, topic_id, question, options, correct_option, status, source, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := postgres.Conn(ctx, r.db).Exec(
		ctx,
		query,
		q.ID,
		q.TopicID,
		q.Text,
		q.Options,
		string(q.CorrectOption),
		string(q.Status),
		string(q.Source),
		q.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create question: %w", err)
	}

	return nil
}

// GetByID returns a question of the given topic.
func (r *QuestionRepository) GetByID(ctx context.Context, topicID, id uuid.UUID) (*entities.Question, error) {
	query := `SELECT ` + questionColumns + ` FROM questions q WHERE q.id = $1 AND q.topic_id = $2`

	rows, err := postgres.Conn(ctx, r.db).Query(ctx, query, id, topicID)
	if err != nil {
		return nil, fmt.Errorf("get question: %w", err)
	}
	q, err := pgx.CollectExactlyOneRow(rows, scanQuestion)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrQuestionNotFound
		}
		return nil, fmt.Errorf("get question: %w", err)
	}

	return q, nil
}

// ListActive returns the active questions of a topic, oldest first.
func (r *QuestionRepository) ListActive(ctx context.Context, topicID uuid.UUID) ([]*entities.Question, error) {
	query := `
		SELECT ` + questionColumns + `
		FROM questions q
		WHERE q.topic_id = $1 AND q.status = 'ACTIVE'
		ORDER BY q.created_at
	`

	rows, err := postgres.Conn(ctx, r.db).Query(ctx, query, topicID)
	if err != nil {
		return nil, fmt.Errorf("list active questions: %w", err)
	}
	questions, err := pgx.CollectRows(rows, scanQuestion)
	if err != nil {
		return nil, fmt.Errorf("scan questions: %w", err)
	}

	return questions, nil
}

// ListBySource returns the user's questions of one source with their topic
// titles, newest first.
func (r *QuestionRepository) ListBySource(ctx context.Context, userID uuid.UUID, source entities.QuestionSource) ([]*entities.Question, error) {
	query := `
		SELECT ` + questionColumns + `, t.title
		FROM questions q
		JOIN topics t ON t.id = q.topic_id
		WHERE t.user_id = $1 AND q.source = $2
		ORDER BY q.created_at DESC
	`

	rows, err := postgres.Conn(ctx, r.db).Query(ctx, query, userID, string(source))
	if err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}
	questions, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*entities.Question, error) {
		return scanQuestionInto(row, true)
	})
	if err != nil {
		return nil, fmt.Errorf("scan questions: %w", err)
	}

	return questions, nil
}

// UpdateStatus activates or deactivates a question.
func (r *QuestionRepository) UpdateStatus(ctx context.Context, topicID, id uuid.UUID, status entities.QuestionStatus) error {
	tag, err := postgres.Conn(ctx, r.db).Exec(ctx,
		`UPDATE questions SET status = $1 WHERE id = $2 AND topic_id = $3`,
		string(status), id, topicID,
	)
	if err != nil {
		return fmt.Errorf("update question status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrQuestionNotFound
	}

	return nil
}

func scanQuestion(row pgx.CollectableRow) (*entities.Question, error) {
	return scanQuestionInto(row, false)
}

func scanQuestionInto(row pgx.CollectableRow, withTitle bool) (*entities.Question, error) {
	var (
		q       entities.Question
		correct string
		status  string
		source  string
	)

	dest := []any{&q.ID, &q.TopicID, &q.Text, &q.Options, &correct, &status, &source, &q.CreatedAt}
	if withTitle {
		dest = append(dest, &q.TopicTitle)
	}
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}

	q.CorrectOption = entities.OptionKey(correct)
	q.Status = entities.QuestionStatus(status)
	q.Source = entities.QuestionSource(source)

	return &q, nil
}
