package telegram

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/aliskhannn/brain-recall/internal/domain/entities"
)

func (h *Handler) handleStart(chatID int64) {
	h.send(newHTMLMessage(chatID, fmt.Sprintf(msgWelcome, chatID)))
}

// linkedUser resolves the account of a chat.
func (h *Handler) linkedUser(ctx context.Context, chatID int64) (*entities.User, error) {
	u, err := h.users.UserByTelegramChat(ctx, chatID)
	if err != nil {
		return nil, fmt.Errorf("get user by chat: %w", err)
	}
	return u, nil
}

func (h *Handler) dueHandler(ctx context.Context, chatID int64) error {
	u, err := h.linkedUser(ctx, chatID)
	if err != nil {
		return err
	}

	digest, err := h.digests.Digest(ctx, u, h.now())
	if err != nil {
		return fmt.Errorf("build digest: %w", err)
	}

	h.send(newHTMLMessage(chatID, formatDigest(digest)))
	return nil
}

// reviewHandler opens the earliest due topic.
func (h *Handler) reviewHandler(ctx context.Context, chatID int64) error {
	u, err := h.linkedUser(ctx, chatID)
	if err != nil {
		return err
	}

	split, err := h.topics.Dashboard(ctx, u.ID, h.now())
	if err != nil {
		return fmt.Errorf("get dashboard: %w", err)
	}
	if len(split.NeedsReview) == 0 {
		h.sessions.Delete(chatID)
		h.send(newHTMLMessage(chatID, msgNothingDue))
		return nil
	}

	st := &reviewState{
		userID:  u.ID,
		topic:   split.NeedsReview[0],
		session: entities.NewReviewSession(),
	}
	h.load(ctx, st)
	h.sessions.Store(chatID, st)

	h.send(sessionMessage(chatID, st))
	return nil
}

// load fetches today's question into a loading session.
func (h *Handler) load(ctx context.Context, st *reviewState) {
	next, err := h.reviews.NextQuestion(ctx, st.userID, st.topic.ID, h.now())
	if err != nil {
		h.logger.Warn("next question unavailable",
			zap.String("topic_id", st.topic.ID.String()),
			zap.Error(err),
		)
		_ = st.session.Unavailable()
		return
	}
	_ = st.session.Loaded(next)
}
