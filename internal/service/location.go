package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// locator resolves the calendar a user's days are counted in.
type locator struct {
	users    UserRepository
	fallback *time.Location
}

func (l locator) localNow(ctx context.Context, userID uuid.UUID, now time.Time) (time.Time, error) {
	user, err := l.users.GetByID(ctx, userID)
	if err != nil {
		return time.Time{}, fmt.Errorf("get user: %w", err)
	}
	return user.LocalNow(now, l.fallback), nil
}
