package telegram

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/aliskhannn/brain-recall/internal/infra/postgres/repository"
)

type HandlerFunc func(ctx context.Context, chatID int64) error

// withErrorHandling answers the chat when fn fails. An unlinked chat gets a
// hint, anything else is logged and reported as an internal error.
func (h *Handler) withErrorHandling(fn HandlerFunc) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		err := fn(ctx, chatID)
		switch {
		case err == nil:
		case errors.Is(err, repository.ErrUserNotFound):
			h.logger.Debug("chat not linked", zap.Int64("chat_id", chatID))
			h.sendError(chatID, msgNotLinked)
		default:
			h.logger.Error("handle error",
				zap.Int64("chat_id", chatID),
				zap.Error(err),
			)
			h.sendError(chatID, msgInternalError)
		}
		return nil
	}
}
