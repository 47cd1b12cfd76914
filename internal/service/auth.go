package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/aliskhannn/brain-recall/internal/auth"
	"github.com/aliskhannn/brain-recall/internal/domain/entities"
	"github.com/aliskhannn/brain-recall/internal/infra/postgres/repository"
)

const minPasswordLength = 8

// ProfileUpdate carries the fields a user may change. Nil fields are left as is;
// a zero TelegramChatID unlinks the chat.
type ProfileUpdate struct {
	Name           *string
	Timezone       *string
	TelegramChatID *int64
}

// AuthService handles accounts and access tokens.
type AuthService struct {
	users      UserRepository
	tokens     TokenIssuer
	allowReset bool
	logger     *zap.Logger
}

// NewAuthService creates a new AuthService. allowReset enables the
// unauthenticated ResetPassword flow.
func NewAuthService(users UserRepository, tokens TokenIssuer, allowReset bool, logger *zap.Logger) *AuthService {
	return &AuthService{users: users, tokens: tokens, allowReset: allowReset, logger: logger}
}

// Signup registers a user and returns an access token.
func (s *AuthService) Signup(ctx context.Context, name, email, password, timezone string, now time.Time) (string, error) {
	email = entities.NormalizeEmail(email)
	if !strings.Contains(email, "@") {
		return "", fmt.Errorf("%w: invalid email", ErrValidation)
	}
	if err := validatePassword(password); err != nil {
		return "", err
	}
	if timezone == "" {
		timezone = "UTC"
	}
	if _, err := entities.ParseTimezoneLocation(timezone); err != nil {
		return "", fmt.Errorf("%w: %v", ErrValidation, err)
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return "", err
	}

	user := entities.NewUser(name, email, hash, timezone, now)
	if err := s.users.Create(ctx, user); err != nil {
		return "", err
	}

	s.logger.Info("user signed up", zap.String("user_id", user.ID.String()))

	return s.tokens.Issue(user.ID, now)
}

// Login verifies credentials and returns an access token.
func (s *AuthService) Login(ctx context.Context, email, password string, now time.Time) (string, error) {
	user, err := s.users.GetByEmail(ctx, entities.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return "", ErrInvalidCredentials
		}
		return "", err
	}

	if err := auth.CheckPassword(user.PasswordHash, password); err != nil {
		if errors.Is(err, auth.ErrPasswordMismatch) {
			return "", ErrInvalidCredentials
		}
		return "", err
	}

	return s.tokens.Issue(user.ID, now)
}

// Me returns the authenticated user.
func (s *AuthService) Me(ctx context.Context, userID uuid.UUID) (*entities.User, error) {
	return s.users.GetByID(ctx, userID)
}

// ResetPassword replaces the password of the account registered under email.
//
// It does not verify ownership of the email: anyone who knows the address can
// take over the account. Keep it disabled outside trusted deployments; it
// returns ErrResetDisabled then.
func (s *AuthService) ResetPassword(ctx context.Context, email, newPassword string) error {
	if !s.allowReset {
		return ErrResetDisabled
	}
	if err := validatePassword(newPassword); err != nil {
		return err
	}

	user, err := s.users.GetByEmail(ctx, entities.NormalizeEmail(email))
	if err != nil {
		return err
	}

	hash, err := auth.HashPassword(newPassword)
	if err != nil {
		return err
	}

	if err := s.users.UpdatePassword(ctx, user.ID, hash); err != nil {
		return err
	}

	s.logger.Info("password reset", zap.String("user_id", user.ID.String()))

	return nil
}

// UpdateProfile applies the non-nil fields of upd.
func (s *AuthService) UpdateProfile(ctx context.Context, userID uuid.UUID, upd ProfileUpdate) (*entities.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if upd.Name != nil {
		user.Name = strings.TrimSpace(*upd.Name)
	}
	if upd.Timezone != nil {
		tz := strings.TrimSpace(*upd.Timezone)
		if _, err := entities.ParseTimezoneLocation(tz); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrValidation, err)
		}
		user.Timezone = tz
	}
	if upd.TelegramChatID != nil {
		if *upd.TelegramChatID == 0 {
			user.TelegramChatID = nil
		} else {
			chatID := *upd.TelegramChatID
			user.TelegramChatID = &chatID
		}
	}

	if err := s.users.UpdateProfile(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// DeleteAccount removes the user together with all topics.
func (s *AuthService) DeleteAccount(ctx context.Context, userID uuid.UUID) error {
	if err := s.users.Delete(ctx, userID); err != nil {
		return err
	}

	s.logger.Info("account deleted", zap.String("user_id", userID.String()))

	return nil
}

// UserByTelegramChat returns the user who linked chatID.
func (s *AuthService) UserByTelegramChat(ctx context.Context, chatID int64) (*entities.User, error) {
	return s.users.GetByTelegramChatID(ctx, chatID)
}

func validatePassword(password string) error {
	if len(password) < minPasswordLength {
		return fmt.Errorf("%w: password must have at least %d characters", ErrValidation, minPasswordLength)
	}
	return nil
}
