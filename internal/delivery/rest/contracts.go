package rest

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/aliskhannn/brain-recall/internal/domain/entities"
	"github.com/aliskhannn/brain-recall/internal/importer"
	"github.com/aliskhannn/brain-recall/internal/service"
)

type AuthService interface {
	Signup(ctx context.Context, name, email, password, timezone string, now time.Time) (string, error)
	Login(ctx context.Context, email, password string, now time.Time) (string, error)
	Me(ctx context.Context, userID uuid.UUID) (*entities.User, error)
	ResetPassword(ctx context.Context, email, newPassword string) error
	UpdateProfile(ctx context.Context, userID uuid.UUID, upd service.ProfileUpdate) (*entities.User, error)
	DeleteAccount(ctx context.Context, userID uuid.UUID) error
}

type TopicService interface {
	List(ctx context.Context, userID uuid.UUID) ([]*entities.Topic, error)
	Dashboard(ctx context.Context, userID uuid.UUID, now time.Time) (entities.DueSplit, error)
	Get(ctx context.Context, userID, id uuid.UUID) (*entities.Topic, error)
	Create(ctx context.Context, userID uuid.UUID, title, description string, now time.Time) (*entities.Topic, error)
	Update(ctx context.Context, userID, id uuid.UUID, title, description string) (*entities.Topic, error)
	Delete(ctx context.Context, userID, id uuid.UUID) error
	CompleteReview(ctx context.Context, userID, id uuid.UUID, now time.Time) (*entities.Topic, error)
	ByCycle(ctx context.Context, userID uuid.UUID) ([]entities.TopicGroup, error)
	ByTheme(ctx context.Context, userID uuid.UUID) ([]entities.TopicGroup, error)
	ThemeTopics(ctx context.Context, userID uuid.UUID, slug string) (*entities.TopicGroup, error)
	Import(ctx context.Context, userID uuid.UUID, parsed *importer.Result, now time.Time) (service.ImportSummary, error)
}

type ReviewService interface {
	NextQuestion(ctx context.Context, userID, topicID uuid.UUID, now time.Time) (entities.NextQuestionState, error)
	Answer(ctx context.Context, userID, topicID, questionID uuid.UUID, option entities.OptionKey, now time.Time) (*service.AnswerOutcome, error)
	Generate(ctx context.Context, userID, topicID uuid.UUID, summary string, now time.Time) (*entities.Question, error)
	CreateQuestion(ctx context.Context, userID, topicID uuid.UUID, text string, options []entities.QuestionOption, correct entities.OptionKey, now time.Time) (*entities.Question, error)
	SetQuestionStatus(ctx context.Context, userID, topicID, questionID uuid.UUID, status entities.QuestionStatus) (*entities.Question, error)
	ListAIQuestions(ctx context.Context, userID uuid.UUID) ([]*entities.Question, error)
}

// TokenParser resolves a bearer token to the user it was issued for.
type TokenParser interface {
	Parse(token string) (uuid.UUID, error)
}
