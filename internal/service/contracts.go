package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/aliskhannn/brain-recall/internal/domain/entities"
)

type UserRepository interface {
	Create(ctx context.Context, user *entities.User) error
	GetByID(ctx context.Context, userID uuid.UUID) (*entities.User, error)
	GetByEmail(ctx context.Context, email string) (*entities.User, error)
	GetByTelegramChatID(ctx context.Context, chatID int64) (*entities.User, error)
	UpdatePassword(ctx context.Context, userID uuid.UUID, hash string) error
	UpdateProfile(ctx context.Context, user *entities.User) error
	Delete(ctx context.Context, userID uuid.UUID) error
	ListWithTelegram(ctx context.Context, limit, offset int) ([]*entities.User, error)
}

type TopicRepository interface {
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*entities.Topic, error)
	GetByID(ctx context.Context, userID, id uuid.UUID) (*entities.Topic, error)
	GetForUpdate(ctx context.Context, userID, id uuid.UUID) (*entities.Topic, error)
	Create(ctx context.Context, t *entities.Topic) error
	UpdateContent(ctx context.Context, t *entities.Topic) error
	SaveReview(ctx context.Context, t *entities.Topic, review entities.Review) error
	Delete(ctx context.Context, userID, id uuid.UUID) error
}

type QuestionRepository interface {
	Create(ctx context.Context, q *entities.Question) error
	GetByID(ctx context.Context, topicID, id uuid.UUID) (*entities.Question, error)
	ListActive(ctx context.Context, topicID uuid.UUID) ([]*entities.Question, error)
	ListBySource(ctx context.Context, userID uuid.UUID, source entities.QuestionSource) ([]*entities.Question, error)
	UpdateStatus(ctx context.Context, topicID, id uuid.UUID, status entities.QuestionStatus) error
}

type AttemptRepository interface {
	Create(ctx context.Context, a *entities.QuestionAttempt) error
	AnsweredTopicSince(ctx context.Context, userID, topicID uuid.UUID, since time.Time) (bool, error)
	AnsweredQuestionSince(ctx context.Context, userID, questionID uuid.UUID, since time.Time) (bool, error)
	CountByQuestion(ctx context.Context, userID, topicID uuid.UUID) (map[uuid.UUID]int, error)
}

// Transactor runs fn atomically; repositories join the transaction through ctx.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// QuestionGenerator drafts a question about a topic from a free text hint.
type QuestionGenerator interface {
	Generate(ctx context.Context, title, hint string) (*entities.GeneratedQuestion, error)
}

// TokenIssuer signs access tokens for authenticated users.
type TokenIssuer interface {
	Issue(userID uuid.UUID, now time.Time) (string, error)
}

// ReminderNotifier sends reminder notifications to users.
type ReminderNotifier interface {
	SendDigest(chatID int64, digest entities.ReminderDigest) error
}
