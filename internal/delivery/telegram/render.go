package telegram

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/aliskhannn/brain-recall/internal/domain/entities"
)

// renderSession builds the text and keyboard for the session's current phase.
func renderSession(st *reviewState) (string, *tgbotapi.InlineKeyboardMarkup) {
	var (
		text string
		kb   *tgbotapi.InlineKeyboardMarkup
	)

	s := st.session
	switch s.Phase() {
	case entities.PhaseBlocked:
		text = formatBlocked(st.topic)
		m := buildGenerateKeyboard()
		kb = &m
	case entities.PhaseUnanswered:
		text = formatQuestion(st.topic, s.Question())
		m := buildOptionsKeyboard(s.Question())
		kb = &m
	case entities.PhaseAnswered:
		text = formatAnswer(st.topic, s.Question(), *s.LastAnswer())
	default:
		text = formatTopicHeader(st.topic)
		if s.Decision().ContentUnlocked {
			text = formatContent(st.topic)
		}
	}

	if kb == nil && s.Decision().CanCompleteReview {
		m := buildCompleteKeyboard()
		kb = &m
	}

	return text, kb
}

func sessionMessage(chatID int64, st *reviewState) tgbotapi.MessageConfig {
	text, kb := renderSession(st)
	msg := newHTMLMessage(chatID, text)
	if kb != nil {
		msg.ReplyMarkup = *kb
	}
	return msg
}

func sessionEdit(chatID int64, messageID int, st *reviewState) tgbotapi.EditMessageTextConfig {
	text, kb := renderSession(st)
	edit := tgbotapi.NewEditMessageText(chatID, messageID, text)
	edit.ParseMode = tgbotapi.ModeHTML
	edit.ReplyMarkup = kb
	return edit
}
