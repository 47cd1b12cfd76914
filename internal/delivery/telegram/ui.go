package telegram

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/aliskhannn/brain-recall/internal/domain/entities"
)

// buildOptionsKeyboard builds one button per answer option.
func buildOptionsKeyboard(q *entities.Question) tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(q.Options))
	for _, o := range q.Options {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(string(o.Key)+") "+o.Text, buildAnswerCallback(string(o.Key))),
		))
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func buildCompleteKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✅ Mark as reviewed", buildCompleteCallback()),
		),
	)
}

func buildGenerateKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✨ Generate a question", buildGenerateCallback()),
		),
	)
}
