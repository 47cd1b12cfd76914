package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/aliskhannn/brain-recall/internal/domain/entities"
)

const (
	reminderBatchSize     = 100
	reminderMaxConcurrent = 10
	digestTitleLimit      = 5
)

// ReminderConfig configures the digest schedule.
type ReminderConfig struct {
	Cron string // cron expression evaluated in UTC
	Hour int    // local hour at which a user receives the digest
}

// ReminderService sends daily digests of due topics with batch processing.
type ReminderService struct {
	users    UserRepository
	topics   TopicRepository
	notifier ReminderNotifier
	cfg      ReminderConfig
	fallback *time.Location
	now      func() time.Time
	logger   *zap.Logger
}

// NewReminderService creates a new reminder service.
func NewReminderService(
	users UserRepository,
	topics TopicRepository,
	cfg ReminderConfig,
	defaultLocation *time.Location,
	logger *zap.Logger,
) *ReminderService {
	return &ReminderService{
		users:    users,
		topics:   topics,
		cfg:      cfg,
		fallback: defaultLocation,
		now:      time.Now,
		logger:   logger,
	}
}

// SetNotifier sets the notifier (called after handler is created).
func (s *ReminderService) SetNotifier(notifier ReminderNotifier) {
	s.notifier = notifier
}

// Start runs the cron scheduler until ctx is done.
func (s *ReminderService) Start(ctx context.Context) error {
	c := cron.New(cron.WithLocation(time.UTC))

	_, err := c.AddFunc(s.cfg.Cron, func() {
		s.logger.Info("cron triggered: processing reminders")
		if err := s.SendDue(ctx); err != nil {
			s.logger.Error("failed to send reminders", zap.Error(err))
		}
	})
	if err != nil {
		return fmt.Errorf("add cron job: %w", err)
	}

	c.Start()
	s.logger.Info("reminder scheduler started", zap.String("cron", s.cfg.Cron))

	<-ctx.Done()

	<-c.Stop().Done()
	s.logger.Info("reminder service stopped")

	return nil
}

// SendDue sends a digest to every linked user whose local hour is the configured one.
func (s *ReminderService) SendDue(ctx context.Context) error {
	if s.notifier == nil {
		return errors.New("notifier not initialized")
	}

	now := s.now().UTC()
	offset := 0
	totalSent := 0

	for {
		users, err := s.users.ListWithTelegram(ctx, reminderBatchSize, offset)
		if err != nil {
			return fmt.Errorf("list users batch: %w", err)
		}
		if len(users) == 0 {
			break
		}

		totalSent += s.processBatch(ctx, users, now)

		if len(users) < reminderBatchSize {
			break
		}
		offset += reminderBatchSize
	}

	s.logger.Info("reminders processed", zap.Int("total_sent", totalSent))

	return nil
}

// processBatch processes a batch of users concurrently.
func (s *ReminderService) processBatch(ctx context.Context, users []*entities.User, now time.Time) int {
	sem := make(chan struct{}, reminderMaxConcurrent)
	var wg sync.WaitGroup
	var mu sync.Mutex
	sent := 0

	for _, u := range users {
		wg.Add(1)
		sem <- struct{}{}

		go func() {
			defer wg.Done()
			defer func() { <-sem }()

			ok, err := s.processUser(ctx, u, now)
			if err != nil {
				s.logger.Error("failed to send reminder",
					zap.String("user_id", u.ID.String()),
					zap.Error(err))
				return
			}
			if ok {
				mu.Lock()
				sent++
				mu.Unlock()
			}
		}()
	}

	wg.Wait()
	return sent
}

func (s *ReminderService) processUser(ctx context.Context, u *entities.User, now time.Time) (bool, error) {
	if u.TelegramChatID == nil {
		return false, nil
	}

	local := u.LocalNow(now, s.fallback)
	if local.Hour() != s.cfg.Hour {
		return false, nil
	}

	digest, err := s.digest(ctx, u, local)
	if err != nil {
		return false, err
	}
	if digest.DueCount == 0 {
		s.logger.Debug("nothing due", zap.String("user_id", u.ID.String()))
		return false, nil
	}

	if err := s.notifier.SendDigest(*u.TelegramChatID, digest); err != nil {
		return false, fmt.Errorf("send digest: %w", err)
	}

	return true, nil
}

// Digest summarizes what the user has to review on their current day.
func (s *ReminderService) Digest(ctx context.Context, u *entities.User, now time.Time) (entities.ReminderDigest, error) {
	return s.digest(ctx, u, u.LocalNow(now, s.fallback))
}

func (s *ReminderService) digest(ctx context.Context, u *entities.User, local time.Time) (entities.ReminderDigest, error) {
	topics, err := s.topics.ListByUser(ctx, u.ID)
	if err != nil {
		return entities.ReminderDigest{}, fmt.Errorf("list topics: %w", err)
	}
	return entities.BuildDigest(topics, local, digestTitleLimit), nil
}
