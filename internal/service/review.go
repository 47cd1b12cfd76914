package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/aliskhannn/brain-recall/internal/domain/entities"
)

// AnswerOutcome is the graded answer plus the topic's quiz state afterwards.
type AnswerOutcome struct {
	entities.AnswerResult
	ActiveQuestionsCount int
	NextQuestion         *entities.Question // always nil: the day's gate is satisfied
}

// ReviewService serves the quiz that gates a topic's review.
type ReviewService struct {
	topics    TopicRepository
	questions QuestionRepository
	attempts  AttemptRepository
	tx        Transactor
	locator   locator
	generator QuestionGenerator
	options   *OptionGenerator
	selector  QuestionSelector
	logger    *zap.Logger
}

// NewReviewService creates a new ReviewService. generator may be nil, in
// which case Generate reports ErrGeneratorUnavailable.
func NewReviewService(
	topics TopicRepository,
	questions QuestionRepository,
	attempts AttemptRepository,
	users UserRepository,
	tx Transactor,
	generator QuestionGenerator,
	defaultLocation *time.Location,
	logger *zap.Logger,
) *ReviewService {
	return &ReviewService{
		topics:    topics,
		questions: questions,
		attempts:  attempts,
		tx:        tx,
		locator:   locator{users: users, fallback: defaultLocation},
		generator: generator,
		options:   NewOptionGenerator(NewOptionValidator()),
		logger:    logger,
	}
}

// NextQuestion reports the topic's quiz state for the user's current day.
// No question is returned once the topic was answered today.
func (s *ReviewService) NextQuestion(ctx context.Context, userID, topicID uuid.UUID, now time.Time) (entities.NextQuestionState, error) {
	local, err := s.locator.localNow(ctx, userID, now)
	if err != nil {
		return entities.NextQuestionState{}, err
	}

	if _, err := s.topics.GetByID(ctx, userID, topicID); err != nil {
		return entities.NextQuestionState{}, err
	}

	active, err := s.questions.ListActive(ctx, topicID)
	if err != nil {
		return entities.NextQuestionState{}, err
	}

	answered, err := s.attempts.AnsweredTopicSince(ctx, userID, topicID, entities.StartOfDay(local))
	if err != nil {
		return entities.NextQuestionState{}, err
	}

	state := entities.NextQuestionState{
		ActiveQuestionsCount: len(active),
		AnsweredToday:        answered,
	}
	if answered || len(active) == 0 {
		return state, nil
	}

	counts, err := s.attempts.CountByQuestion(ctx, userID, topicID)
	if err != nil {
		return entities.NextQuestionState{}, err
	}
	state.Question = s.selector.Select(active, counts)

	return state, nil
}

// Answer grades and records the user's answer. Each question takes one
// answer per user per day.
func (s *ReviewService) Answer(ctx context.Context, userID, topicID, questionID uuid.UUID, option entities.OptionKey, now time.Time) (*AnswerOutcome, error) {
	if !option.Valid() {
		return nil, entities.ErrInvalidOption
	}

	local, err := s.locator.localNow(ctx, userID, now)
	if err != nil {
		return nil, err
	}

	var outcome AnswerOutcome
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if _, err := s.topics.GetForUpdate(ctx, userID, topicID); err != nil {
			return err
		}

		q, err := s.questions.GetByID(ctx, topicID, questionID)
		if err != nil {
			return err
		}
		if !q.IsActive() {
			return ErrQuestionInactive
		}

		answered, err := s.attempts.AnsweredQuestionSince(ctx, userID, questionID, entities.StartOfDay(local))
		if err != nil {
			return err
		}
		if answered {
			return entities.ErrAlreadyAnswered
		}

		result, err := q.Check(option)
		if err != nil {
			return err
		}
		if err := s.attempts.Create(ctx, entities.NewQuestionAttempt(userID, topicID, result, now)); err != nil {
			return err
		}

		active, err := s.questions.ListActive(ctx, topicID)
		if err != nil {
			return err
		}

		outcome = AnswerOutcome{AnswerResult: result, ActiveQuestionsCount: len(active)}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Debug("question answered",
		zap.String("user_id", userID.String()),
		zap.String("question_id", questionID.String()),
		zap.Bool("correct", outcome.IsCorrect),
	)

	return &outcome, nil
}

// Generate asks the generator for a new AI question about the topic. The hint
// is summary when given, the topic description otherwise.
func (s *ReviewService) Generate(ctx context.Context, userID, topicID uuid.UUID, summary string, now time.Time) (*entities.Question, error) {
	if s.generator == nil {
		return nil, ErrGeneratorUnavailable
	}

	topic, err := s.topics.GetByID(ctx, userID, topicID)
	if err != nil {
		return nil, err
	}

	hint := strings.TrimSpace(summary)
	if hint == "" {
		hint = topic.Description
	}

	draft, err := s.generator.Generate(ctx, topic.Title, hint)
	if err != nil {
		s.logger.Warn("question generation failed",
			zap.String("topic_id", topicID.String()),
			zap.Error(err),
		)
		return nil, fmt.Errorf("%w: %v", ErrGeneratorUnavailable, err)
	}

	options, correct, err := s.options.GenerateOptions(draft.Correct, draft.Distractors)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGeneratorUnavailable, err)
	}

	q, err := entities.NewQuestion(topicID, draft.Text, options, correct, entities.SourceAI, now)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGeneratorUnavailable, err)
	}
	if err := s.questions.Create(ctx, q); err != nil {
		return nil, err
	}

	return q, nil
}

// CreateQuestion adds a question written by the user.
func (s *ReviewService) CreateQuestion(
	ctx context.Context,
	userID, topicID uuid.UUID,
	text string,
	options []entities.QuestionOption,
	correct entities.OptionKey,
	now time.Time,
) (*entities.Question, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("%w: question is required", ErrValidation)
	}

	if _, err := s.topics.GetByID(ctx, userID, topicID); err != nil {
		return nil, err
	}

	cleaned := make([]entities.QuestionOption, len(options))
	for i, o := range options {
		cleaned[i] = entities.QuestionOption{
			Key:  entities.OptionKey(strings.ToUpper(strings.TrimSpace(string(o.Key)))),
			Text: strings.TrimSpace(o.Text),
		}
	}

	q, err := entities.NewQuestion(topicID, text, cleaned, correct, entities.SourceUser, now)
	if err != nil {
		if errors.Is(err, entities.ErrInvalidOptions) {
			return nil, fmt.Errorf("%w: %v", ErrValidation, err)
		}
		return nil, err
	}
	if err := s.questions.Create(ctx, q); err != nil {
		return nil, err
	}

	return q, nil
}

// SetQuestionStatus activates or deactivates a question.
func (s *ReviewService) SetQuestionStatus(ctx context.Context, userID, topicID, questionID uuid.UUID, status entities.QuestionStatus) (*entities.Question, error) {
	if status != entities.QuestionActive && status != entities.QuestionInactive {
		return nil, fmt.Errorf("%w: unknown status %q", ErrValidation, status)
	}

	if _, err := s.topics.GetByID(ctx, userID, topicID); err != nil {
		return nil, err
	}
	if err := s.questions.UpdateStatus(ctx, topicID, questionID, status); err != nil {
		return nil, err
	}

	return s.questions.GetByID(ctx, topicID, questionID)
}

// ListAIQuestions returns the generated questions across the user's topics, newest first.
func (s *ReviewService) ListAIQuestions(ctx context.Context, userID uuid.UUID) ([]*entities.Question, error) {
	return s.questions.ListBySource(ctx, userID, entities.SourceAI)
}
