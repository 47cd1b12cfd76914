package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/aliskhannn/brain-recall/internal/domain/entities"
	"github.com/aliskhannn/brain-recall/internal/infra/postgres"
)

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrEmailTaken        = errors.New("email already registered")
	ErrTelegramChatTaken = errors.New("telegram chat already linked")
)

const uniqueViolation = "23505"

const userColumns = `id, name, email, password_hash, timezone, telegram_chat_id, created_at`

// UserRepository provides access to user data in the database.
type UserRepository struct {
	db postgres.DBTX
}

// NewUserRepository creates a new UserRepository with the provided database pool.
func NewUserRepository(db postgres.DBTX) *UserRepository {
	return &UserRepository{db: db}
}

// Create inserts a new user.
func (r *UserRepository) Create(ctx context.Context, user *entities.User) error {
	query := `
		INSERT INTO users (` + userColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := postgres.Conn(ctx, r.db).Exec(
		ctx,
		query,
		user.ID,
		user.Name,
		user.Email,
		user.PasswordHash,
		user.Timezone,
		user.TelegramChatID,
		user.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err, "users_email_key") {
			return ErrEmailTaken
		}
		return fmt.Errorf("create user: %w", err)
	}

	return nil
}

// GetByID retrieves a user by ID.
func (r *UserRepository) GetByID(ctx context.Context, userID uuid.UUID) (*entities.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, userID)
}

// GetByEmail retrieves a user by normalized email.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*entities.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
}

// GetByTelegramChatID retrieves the user linked to a Telegram chat.
func (r *UserRepository) GetByTelegramChatID(ctx context.Context, chatID int64) (*entities.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE telegram_chat_id = $1`, chatID)
}

func (r *UserRepository) getOne(ctx context.Context, query string, arg any) (*entities.User, error) {
	rows, err := postgres.Conn(ctx, r.db).Query(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}

	user, err := pgx.CollectExactlyOneRow(rows, scanUser)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	return user, nil
}

// UpdatePassword replaces the password hash.
func (r *UserRepository) UpdatePassword(ctx context.Context, userID uuid.UUID, hash string) error {
	tag, err := postgres.Conn(ctx, r.db).Exec(ctx, `UPDATE users SET password_hash = $1 WHERE id = $2`, hash, userID)
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrUserNotFound
	}

	return nil
}

// UpdateProfile writes name, timezone and the linked Telegram chat.
func (r *UserRepository) UpdateProfile(ctx context.Context, user *entities.User) error {
	query := `UPDATE users SET name = $1, timezone = $2, telegram_chat_id = $3 WHERE id = $4`

	tag, err := postgres.Conn(ctx, r.db).Exec(ctx, query, user.Name, user.Timezone, user.TelegramChatID, user.ID)
	if err != nil {
		if isUniqueViolation(err, "users_telegram_chat_id_key") {
			return ErrTelegramChatTaken
		}
		return fmt.Errorf("update profile: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrUserNotFound
	}

	return nil
}

// Delete removes the user and, by cascade, everything they own.
func (r *UserRepository) Delete(ctx context.Context, userID uuid.UUID) error {
	tag, err := postgres.Conn(ctx, r.db).Exec(ctx, `DELETE FROM users WHERE id = $1`, userID)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrUserNotFound
	}

	return nil
}

// ListWithTelegram returns a page of users that linked a Telegram chat.
func (r *UserRepository) ListWithTelegram(ctx context.Context, limit, offset int) ([]*entities.User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users
		WHERE telegram_chat_id IS NOT NULL
		ORDER BY created_at, id
		LIMIT $1 OFFSET $2
	`

	rows, err := postgres.Conn(ctx, r.db).Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	users, err := pgx.CollectRows(rows, scanUser)
	if err != nil {
		return nil, fmt.Errorf("scan users: %w", err)
	}

	return users, nil
}

func scanUser(row pgx.CollectableRow) (*entities.User, error) {
	var u entities.User
	err := row.Scan(
		&u.ID,
		&u.Name,
		&u.Email,
		&u.PasswordHash,
		&u.Timezone,
		&u.TelegramChatID,
		&u.CreatedAt,
	)
	return &u, err
}

func isUniqueViolation(err error, constraint string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation && pgErr.ConstraintName == constraint
}
