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

var ErrTopicNotFound = errors.New("topic not found")

const topicColumns = `id, user_id, title, description, added_at, current_cycle, next_review`

// TopicRepository provides access to topics and their review history.
type TopicRepository struct {
	db postgres.DBTX
}

// NewTopicRepository creates a new TopicRepository.
func NewTopicRepository(db postgres.DBTX) *TopicRepository {
	return &TopicRepository{db: db}
}

// ListByUser returns every topic of the user with its review history, earliest due first.
func (r *TopicRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*entities.Topic, error) {
	db := postgres.Conn(ctx, r.db)

	query := `SELECT ` + topicColumns + ` FROM topics WHERE user_id = $1 ORDER BY next_review, added_at`

	rows, err := db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list topics: %w", err)
	}
	topics, err := pgx.CollectRows(rows, scanTopic)
	if err != nil {
		return nil, fmt.Errorf("scan topics: %w", err)
	}

	byID := make(map[uuid.UUID]*entities.Topic, len(topics))
	for _, t := range topics {
		byID[t.ID] = t
	}

	reviewsQuery := `
		SELECT r.topic_id, r.id, r.cycle_index, r.completed_at
		FROM topic_reviews r
		JOIN topics t ON t.id = r.topic_id
		WHERE t.user_id = $1
		ORDER BY r.seq
	`

	rows, err = db.Query(ctx, reviewsQuery, userID)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var topicID uuid.UUID
		var rv entities.Review
		if err := rows.Scan(&topicID, &rv.ID, &rv.CycleIndex, &rv.CompletedAt); err != nil {
			return nil, fmt.Errorf("scan review: %w", err)
		}
		if t, ok := byID[topicID]; ok {
			t.CompletedCycles = append(t.CompletedCycles, rv)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate reviews: %w", err)
	}

	return topics, nil
}

// GetByID returns one topic of the user with its review history.
func (r *TopicRepository) GetByID(ctx context.Context, userID, id uuid.UUID) (*entities.Topic, error) {
	return r.get(ctx, userID, id, false)
}

// GetForUpdate is GetByID with a row lock; call it inside a transaction so
// concurrent review completions on the same topic serialize.
func (r *TopicRepository) GetForUpdate(ctx context.Context, userID, id uuid.UUID) (*entities.Topic, error) {
	return r.get(ctx, userID, id, true)
}

func (r *TopicRepository) get(ctx context.Context, userID, id uuid.UUID, lock bool) (*entities.Topic, error) {
	db := postgres.Conn(ctx, r.db)

	query := `SELECT ` + topicColumns + ` FROM topics WHERE id = $1 AND user_id = $2`
	if lock {
		query += ` FOR UPDATE`
	}

	rows, err := db.Query(ctx, query, id, userID)
	if err != nil {
		return nil, fmt.Errorf("get topic: %w", err)
	}
	topic, err := pgx.CollectExactlyOneRow(rows, scanTopic)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTopicNotFound
		}
		return nil, fmt.Errorf("get topic: %w", err)
	}

	reviews, err := db.Query(ctx, `
		SELECT id, cycle_index, completed_at
		FROM topic_reviews
		WHERE topic_id = $1
		ORDER BY seq
	`, id)
	if err != nil {
		return nil, fmt.Errorf("get reviews: %w", err)
	}
	topic.CompletedCycles, err = pgx.CollectRows(reviews, func(row pgx.CollectableRow) (entities.Review, error) {
		var rv entities.Review
		err := row.Scan(&rv.ID, &rv.CycleIndex, &rv.CompletedAt)
		return rv, err
	})
	if err != nil {
		return nil, fmt.Errorf("scan reviews: %w", err)
	}

	return topic, nil
}

// Create inserts a new topic.
func (r *TopicRepository) Create(ctx context.Context, t *entities.Topic) error {
	query := `
		INSERT INTO topics (` + topicColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := postgres.Conn(ctx, r.db).Exec(
		ctx,
		query,
		t.ID,
		t.UserID,
		t.Title,
		t.Description,
		t.AddedAt,
		t.CurrentCycle,
		t.NextReview,
	)
	if err != nil {
		return fmt.Errorf("create topic: %w", err)
	}

	return nil
}

// UpdateContent writes title and description.
func (r *TopicRepository) UpdateContent(ctx context.Context, t *entities.Topic) error {
	query := `UPDATE topics SET title = $1, description = $2 WHERE id = $3 AND user_id = $4`

	tag, err := postgres.Conn(ctx, r.db).Exec(ctx, query, t.Title, t.Description, t.ID, t.UserID)
	if err != nil {
		return fmt.Errorf("update topic: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrTopicNotFound
	}

	return nil
}

// SaveReview persists the schedule fields of t and appends review to its history.
func (r *TopicRepository) SaveReview(ctx context.Context, t *entities.Topic, review entities.Review) error {
	db := postgres.Conn(ctx, r.db)

	tag, err := db.Exec(ctx,
		`UPDATE topics SET current_cycle = $1, next_review = $2 WHERE id = $3 AND user_id = $4`,
		t.CurrentCycle, t.NextReview, t.ID, t.UserID,
	)
	if err != nil {
		return fmt.Errorf("update schedule: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrTopicNotFound
	}

	_, err = db.Exec(ctx,
		`INSERT INTO topic_reviews (id, topic_id, cycle_index, completed_at) VALUES ($1, $2, $3, $4)`,
		review.ID, t.ID, review.CycleIndex, review.CompletedAt,
	)
	if err != nil {
		return fmt.Errorf("insert review: %w", err)
	}

	return nil
}

// Delete removes a topic; reviews, questions and attempts cascade.
func (r *TopicRepository) Delete(ctx context.Context, userID, id uuid.UUID) error {
	tag, err := postgres.Conn(ctx, r.db).Exec(ctx, `DELETE FROM topics WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("delete topic: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrTopicNotFound
	}

	return nil
}

func scanTopic(row pgx.CollectableRow) (*entities.Topic, error) {
	var t entities.Topic
	err := row.Scan(
		&t.ID,
		&t.UserID,
		&t.Title,
		&t.Description,
		&t.AddedAt,
		&t.CurrentCycle,
		&t.NextReview,
	)
	return &t, err
}
