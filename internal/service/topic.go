package service

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/aliskhannn/brain-recall/internal/domain/entities"
	"github.com/aliskhannn/brain-recall/internal/importer"
)

const maxTitleLength = 200

// GateMode controls whether review completion is checked against the day's quiz.
type GateMode string

const (
	GateOff    GateMode = "off"
	GateStrict GateMode = "strict"
)

// ParseGateMode validates a configured gate mode.
func ParseGateMode(s string) (GateMode, error) {
	switch GateMode(strings.ToLower(strings.TrimSpace(s))) {
	case GateOff, "":
		return GateOff, nil
	case GateStrict:
		return GateStrict, nil
	default:
		return "", fmt.Errorf("unknown review gate mode %q", s)
	}
}

// TopicService manages topics and their review schedule.
type TopicService struct {
	topics   TopicRepository
	attempts AttemptRepository
	tx       Transactor
	locator  locator
	gateMode GateMode
	logger   *zap.Logger
}

// NewTopicService creates a new TopicService.
func NewTopicService(
	topics TopicRepository,
	attempts AttemptRepository,
	users UserRepository,
	tx Transactor,
	gateMode GateMode,
	defaultLocation *time.Location,
	logger *zap.Logger,
) *TopicService {
	return &TopicService{
		topics:   topics,
		attempts: attempts,
		tx:       tx,
		locator:  locator{users: users, fallback: defaultLocation},
		gateMode: gateMode,
		logger:   logger,
	}
}

// List returns all topics of the user, earliest due first.
func (s *TopicService) List(ctx context.Context, userID uuid.UUID) ([]*entities.Topic, error) {
	topics, err := s.topics.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	entities.SortByNextReview(topics)
	return topics, nil
}

// Dashboard splits the user's topics into due and upcoming on the user's current day.
func (s *TopicService) Dashboard(ctx context.Context, userID uuid.UUID, now time.Time) (entities.DueSplit, error) {
	local, err := s.locator.localNow(ctx, userID, now)
	if err != nil {
		return entities.DueSplit{}, err
	}

	topics, err := s.topics.ListByUser(ctx, userID)
	if err != nil {
		return entities.DueSplit{}, err
	}

	return entities.SplitByDue(topics, local), nil
}

// Get returns a single topic.
func (s *TopicService) Get(ctx context.Context, userID, id uuid.UUID) (*entities.Topic, error) {
	return s.topics.GetByID(ctx, userID, id)
}

// Create adds a topic due one day after today in the user's calendar.
func (s *TopicService) Create(ctx context.Context, userID uuid.UUID, title, description string, now time.Time) (*entities.Topic, error) {
	title, description, err := cleanTopicInput(title, description)
	if err != nil {
		return nil, err
	}

	local, err := s.locator.localNow(ctx, userID, now)
	if err != nil {
		return nil, err
	}

	topic := entities.NewTopic(userID, title, description, local)
	if err := s.topics.Create(ctx, topic); err != nil {
		return nil, err
	}

	s.logger.Debug("topic created",
		zap.String("user_id", userID.String()),
		zap.String("topic_id", topic.ID.String()),
	)

	return topic, nil
}

// Update edits title and description. The schedule is left as is.
func (s *TopicService) Update(ctx context.Context, userID, id uuid.UUID, title, description string) (*entities.Topic, error) {
	title, description, err := cleanTopicInput(title, description)
	if err != nil {
		return nil, err
	}

	var topic *entities.Topic
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		t, err := s.topics.GetForUpdate(ctx, userID, id)
		if err != nil {
			return err
		}

		t.Edit(title, description)
		if err := s.topics.UpdateContent(ctx, t); err != nil {
			return err
		}

		topic = t
		return nil
	})
	if err != nil {
		return nil, err
	}

	return topic, nil
}

// Delete removes a topic with its history and questions.
func (s *TopicService) Delete(ctx context.Context, userID, id uuid.UUID) error {
	return s.topics.Delete(ctx, userID, id)
}

// CompleteReview advances the topic's cycle. Concurrent completions on the
// same topic are serialized by a row lock.
func (s *TopicService) CompleteReview(ctx context.Context, userID, id uuid.UUID, now time.Time) (*entities.Topic, error) {
	local, err := s.locator.localNow(ctx, userID, now)
	if err != nil {
		return nil, err
	}

	var topic *entities.Topic
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		t, err := s.topics.GetForUpdate(ctx, userID, id)
		if err != nil {
			return err
		}

		if s.gateMode == GateStrict {
			answered, err := s.attempts.AnsweredTopicSince(ctx, userID, id, entities.StartOfDay(local))
			if err != nil {
				return err
			}
			if !entities.EvaluateGate(entities.GateState{AnsweredToday: answered}).CanCompleteReview {
				return ErrReviewLocked
			}
		}

		review := t.CompleteReview(local)
		if err := s.topics.SaveReview(ctx, t, review); err != nil {
			return err
		}

		topic = t
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("review completed",
		zap.String("user_id", userID.String()),
		zap.String("topic_id", id.String()),
		zap.Int("cycle", topic.CurrentCycle),
		zap.Time("next_review", topic.NextReview),
	)

	return topic, nil
}

// ByCycle groups the user's topics by review cycle.
func (s *TopicService) ByCycle(ctx context.Context, userID uuid.UUID) ([]entities.TopicGroup, error) {
	topics, err := s.topics.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return entities.GroupByCycle(topics), nil
}

// ByTheme groups the user's topics by base title.
func (s *TopicService) ByTheme(ctx context.Context, userID uuid.UUID) ([]entities.TopicGroup, error) {
	topics, err := s.topics.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return entities.GroupByTheme(topics), nil
}

// ThemeTopics returns the theme group with the given slug.
func (s *TopicService) ThemeTopics(ctx context.Context, userID uuid.UUID, slug string) (*entities.TopicGroup, error) {
	groups, err := s.ByTheme(ctx, userID)
	if err != nil {
		return nil, err
	}

	slug = strings.ToLower(slug)
	for i := range groups {
		if groups[i].Slug == slug {
			return &groups[i], nil
		}
	}

	return nil, ErrThemeNotFound
}

// ImportSummary reports the outcome of a bulk import.
type ImportSummary struct {
	Created int
	Skipped int
	Errors  []string
}

// Import creates one topic per parsed row in a single transaction. Rows with
// invalid content are reported and skipped.
func (s *TopicService) Import(ctx context.Context, userID uuid.UUID, parsed *importer.Result, now time.Time) (ImportSummary, error) {
	summary := ImportSummary{Skipped: parsed.Skipped, Errors: append([]string(nil), parsed.Errors...)}

	local, err := s.locator.localNow(ctx, userID, now)
	if err != nil {
		return ImportSummary{}, err
	}

	var topics []*entities.Topic
	for _, row := range parsed.Rows {
		title, description, err := cleanTopicInput(row.Title, row.Description)
		if err != nil {
			summary.Skipped++
			summary.Errors = append(summary.Errors, fmt.Sprintf("row %d: %v", row.Line, err))
			continue
		}
		topics = append(topics, entities.NewTopic(userID, title, description, local))
	}

	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		for _, t := range topics {
			if err := s.topics.Create(ctx, t); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return ImportSummary{}, fmt.Errorf("import topics: %w", err)
	}

	summary.Created = len(topics)

	s.logger.Info("topics imported",
		zap.String("user_id", userID.String()),
		zap.Int("created", summary.Created),
		zap.Int("skipped", summary.Skipped),
	)

	return summary, nil
}

func cleanTopicInput(title, description string) (string, string, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return "", "", fmt.Errorf("%w: title is required", ErrValidation)
	}
	if utf8.RuneCountInString(title) > maxTitleLength {
		return "", "", fmt.Errorf("%w: title is longer than %d characters", ErrValidation, maxTitleLength)
	}
	return title, strings.TrimSpace(description), nil
}
