package telegram

import (
	"context"
	"errors"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/aliskhannn/brain-recall/internal/domain/entities"
	"github.com/aliskhannn/brain-recall/internal/service"
)

func (h *Handler) handleCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	if cb.Message == nil {
		h.answerCallback(cb.ID, "")
		return
	}

	data := decodeCallback(cb.Data)
	if data.Action != actionReview {
		h.answerCallback(cb.ID, "")
		return
	}

	chatID := cb.Message.Chat.ID
	st := h.sessions.Get(chatID)
	if st == nil {
		h.answerCallback(cb.ID, msgNoSession)
		return
	}

	var (
		notice string
		err    error
	)
	switch data.param(0) {
	case reviewAnswer:
		notice, err = h.handleAnswer(ctx, st, entities.OptionKey(data.param(1)))
	case reviewGenerate:
		notice, err = h.handleGenerate(ctx, st)
	case reviewComplete:
		notice, err = h.handleComplete(ctx, cb, st)
	default:
		h.logger.Warn("unknown review callback", zap.String("data", cb.Data))
		h.answerCallback(cb.ID, "")
		return
	}

	h.answerCallback(cb.ID, notice)
	if err != nil {
		h.logger.Error("handle callback",
			zap.Int64("chat_id", chatID),
			zap.String("data", cb.Data),
			zap.Error(err),
		)
		h.sendError(chatID, msgInternalError)
		return
	}
	if notice != "" || data.param(0) == reviewComplete {
		return
	}

	h.send(sessionEdit(chatID, cb.Message.MessageID, st))
}

func (h *Handler) handleAnswer(ctx context.Context, st *reviewState, key entities.OptionKey) (string, error) {
	if !st.session.CanSelect() {
		return msgAlreadyAnswered, nil
	}

	q := st.session.Question()
	outcome, err := h.reviews.Answer(ctx, st.userID, st.topic.ID, q.ID, key, h.now())
	if errors.Is(err, entities.ErrAlreadyAnswered) {
		return msgAlreadyAnswered, nil
	}
	if err != nil {
		return "", err
	}

	if err := st.session.Answered(outcome.AnswerResult); err != nil {
		return msgAlreadyAnswered, nil
	}
	return "", nil
}

func (h *Handler) handleGenerate(ctx context.Context, st *reviewState) (string, error) {
	if st.session.Phase() != entities.PhaseBlocked {
		return "", nil
	}

	_, err := h.reviews.Generate(ctx, st.userID, st.topic.ID, "", h.now())
	if errors.Is(err, service.ErrGeneratorUnavailable) {
		return msgNoGenerator, nil
	}
	if err != nil {
		return "", err
	}

	if err := st.session.Generated(); err != nil {
		return "", err
	}
	h.load(ctx, st)

	return "", nil
}

// handleComplete marks the topic as reviewed and closes the session.
func (h *Handler) handleComplete(ctx context.Context, cb *tgbotapi.CallbackQuery, st *reviewState) (string, error) {
	if !st.session.Decision().CanCompleteReview {
		return msgLocked, nil
	}

	chatID := cb.Message.Chat.ID
	topic, err := h.topics.CompleteReview(ctx, st.userID, st.topic.ID, h.now())
	if errors.Is(err, service.ErrReviewLocked) {
		return msgLocked, nil
	}
	if err != nil {
		return "", err
	}

	h.sessions.Delete(chatID)

	edit := tgbotapi.NewEditMessageText(chatID, cb.Message.MessageID, formatCompleted(topic))
	edit.ParseMode = tgbotapi.ModeHTML
	h.send(edit)

	return "", nil
}

// answerCallback removes the button spinner, optionally with a toast.
func (h *Handler) answerCallback(id, text string) {
	if _, err := h.bot.Request(tgbotapi.NewCallback(id, text)); err != nil {
		h.logger.Warn("callback answer error", zap.Error(err))
	}
}
