package rest

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/aliskhannn/brain-recall/internal/domain/entities"
	"github.com/aliskhannn/brain-recall/internal/importer"
	"github.com/aliskhannn/brain-recall/internal/infra/postgres/repository"
	"github.com/aliskhannn/brain-recall/internal/service"
)

var errNotStubbed = errors.New("not stubbed")

type stubTokens struct {
	userID uuid.UUID
}

func (s stubTokens) Parse(token string) (uuid.UUID, error) {
	if token != "valid" {
		return uuid.Nil, errors.New("bad token")
	}
	return s.userID, nil
}

type stubAuth struct {
	signup func(name, email, password, timezone string) (string, error)
	me     func(userID uuid.UUID) (*entities.User, error)
}

func (s *stubAuth) Signup(_ context.Context, name, email, password, timezone string, _ time.Time) (string, error) {
	if s.signup == nil {
		return "", errNotStubbed
	}
	return s.signup(name, email, password, timezone)
}

func (s *stubAuth) Login(context.Context, string, string, time.Time) (string, error) {
	return "", service.ErrInvalidCredentials
}

func (s *stubAuth) Me(_ context.Context, userID uuid.UUID) (*entities.User, error) {
	if s.me == nil {
		return nil, errNotStubbed
	}
	return s.me(userID)
}

func (s *stubAuth) ResetPassword(context.Context, string, string) error { return errNotStubbed }

func (s *stubAuth) UpdateProfile(context.Context, uuid.UUID, service.ProfileUpdate) (*entities.User, error) {
	return nil, errNotStubbed
}

func (s *stubAuth) DeleteAccount(context.Context, uuid.UUID) error { return nil }

type stubTopics struct {
	topics   []*entities.Topic
	complete error
	imported *importer.Result
}

func (s *stubTopics) List(context.Context, uuid.UUID) ([]*entities.Topic, error) {
	return s.topics, nil
}

func (s *stubTopics) Dashboard(_ context.Context, _ uuid.UUID, now time.Time) (entities.DueSplit, error) {
	return entities.SplitByDue(s.topics, now), nil
}

func (s *stubTopics) Get(_ context.Context, _ uuid.UUID, id uuid.UUID) (*entities.Topic, error) {
	for _, t := range s.topics {
		if t.ID == id {
			return t, nil
		}
	}
	return nil, repository.ErrTopicNotFound
}

func (s *stubTopics) Create(_ context.Context, userID uuid.UUID, title, description string, now time.Time) (*entities.Topic, error) {
	if title == "" {
		return nil, service.ErrValidation
	}
	t := entities.NewTopic(userID, title, description, now)
	s.topics = append(s.topics, t)
	return t, nil
}

func (s *stubTopics) Update(context.Context, uuid.UUID, uuid.UUID, string, string) (*entities.Topic, error) {
	return nil, errNotStubbed
}

func (s *stubTopics) Delete(context.Context, uuid.UUID, uuid.UUID) error { return nil }

func (s *stubTopics) CompleteReview(ctx context.Context, userID, id uuid.UUID, now time.Time) (*entities.Topic, error) {
	if s.complete != nil {
		return nil, s.complete
	}
	t, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	t.CompleteReview(now)
	return t, nil
}

func (s *stubTopics) ByCycle(context.Context, uuid.UUID) ([]entities.TopicGroup, error) {
	return entities.GroupByCycle(s.topics), nil
}

func (s *stubTopics) ByTheme(context.Context, uuid.UUID) ([]entities.TopicGroup, error) {
	return entities.GroupByTheme(s.topics), nil
}

func (s *stubTopics) ThemeTopics(context.Context, uuid.UUID, string) (*entities.TopicGroup, error) {
	return nil, service.ErrThemeNotFound
}

func (s *stubTopics) Import(_ context.Context, _ uuid.UUID, parsed *importer.Result, _ time.Time) (service.ImportSummary, error) {
	s.imported = parsed
	return service.ImportSummary{Created: len(parsed.Rows), Skipped: parsed.Skipped}, nil
}

type stubReviews struct {
	answerErr error
	bank      []*entities.Question
	next      entities.NextQuestionState
	generated *entities.Question
}

func (s *stubReviews) NextQuestion(context.Context, uuid.UUID, uuid.UUID, time.Time) (entities.NextQuestionState, error) {
	return s.next, nil
}

func (s *stubReviews) Answer(_ context.Context, _ uuid.UUID, _ uuid.UUID, qid uuid.UUID, option entities.OptionKey, _ time.Time) (*service.AnswerOutcome, error) {
	if s.answerErr != nil {
		return nil, s.answerErr
	}
	return &service.AnswerOutcome{
		AnswerResult: entities.AnswerResult{
			QuestionID:     qid,
			SelectedOption: option,
			CorrectOption:  entities.OptionB,
			IsCorrect:      option == entities.OptionB,
		},
		ActiveQuestionsCount: 1,
	}, nil
}

func (s *stubReviews) Generate(context.Context, uuid.UUID, uuid.UUID, string, time.Time) (*entities.Question, error) {
	if s.generated == nil {
		return nil, service.ErrGeneratorUnavailable
	}
	return s.generated, nil
}

func (s *stubReviews) CreateQuestion(context.Context, uuid.UUID, uuid.UUID, string, []entities.QuestionOption, entities.OptionKey, time.Time) (*entities.Question, error) {
	return nil, errNotStubbed
}

func (s *stubReviews) SetQuestionStatus(context.Context, uuid.UUID, uuid.UUID, uuid.UUID, entities.QuestionStatus) (*entities.Question, error) {
	return nil, errNotStubbed
}

func (s *stubReviews) ListAIQuestions(context.Context, uuid.UUID) ([]*entities.Question, error) {
	return s.bank, nil
}
