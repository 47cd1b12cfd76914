package telegram

import (
	"context"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"

	"github.com/aliskhannn/brain-recall/internal/domain/entities"
	"github.com/aliskhannn/brain-recall/internal/service"
)

// Bot is the part of tgbotapi.BotAPI the handler uses.
type Bot interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
}

type UserService interface {
	UserByTelegramChat(ctx context.Context, chatID int64) (*entities.User, error)
}

type TopicService interface {
	Dashboard(ctx context.Context, userID uuid.UUID, now time.Time) (entities.DueSplit, error)
	CompleteReview(ctx context.Context, userID, id uuid.UUID, now time.Time) (*entities.Topic, error)
}

type ReviewService interface {
	NextQuestion(ctx context.Context, userID, topicID uuid.UUID, now time.Time) (entities.NextQuestionState, error)
	Answer(ctx context.Context, userID, topicID, questionID uuid.UUID, option entities.OptionKey, now time.Time) (*service.AnswerOutcome, error)
	Generate(ctx context.Context, userID, topicID uuid.UUID, summary string, now time.Time) (*entities.Question, error)
}

type DigestService interface {
	Digest(ctx context.Context, u *entities.User, now time.Time) (entities.ReminderDigest, error)
}
