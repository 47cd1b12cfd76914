// messages.go contains message templates and formatting functions for Telegram.

package telegram

import (
	"fmt"
	"html"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/aliskhannn/brain-recall/internal/domain/entities"
)

const (
	msgWelcome = "<b>BrainRecall</b> reminds you what to review today.\n\n" +
		"Your chat id is <code>%d</code>. Paste it into your profile to link this chat.\n\n" + msgCommands
	msgCommands = "/due - topics due today\n/review - review the next due topic\n/help - this list"

	msgNotLinked       = "This chat is not linked to an account yet. Send /start to get your chat id."
	msgNothingDue      = "Nothing to review today. 🎉"
	msgNoSession       = "This review is over. Send /review to start the next one."
	msgAlreadyAnswered = "Already answered"
	msgLocked          = "Answer today's question before marking the topic as reviewed."
	msgNoGenerator     = "Question generation is not available right now."
	msgInternalError   = "Something went wrong. Please try again later."
	msgUnknownCommand  = "Unknown command.\n\n" + msgCommands
)

func newHTMLMessage(chatID int64, text string) tgbotapi.MessageConfig {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	return msg
}

// formatDigest renders a reminder digest.
func formatDigest(d entities.ReminderDigest) string {
	if d.DueCount == 0 {
		return msgNothingDue
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "📚 <b>%d</b> %s to review today:\n", d.DueCount, plural(d.DueCount, "topic", "topics"))
	for _, t := range d.Titles {
		sb.WriteString("\n• " + html.EscapeString(t))
	}
	if rest := d.DueCount - len(d.Titles); rest > 0 {
		fmt.Fprintf(&sb, "\n… and %d more", rest)
	}
	sb.WriteString("\n\nSend /review to start.")

	return sb.String()
}

func formatTopicHeader(t *entities.Topic) string {
	return fmt.Sprintf("<b>%s</b> · %s", html.EscapeString(t.Title), t.CycleLabel())
}

func formatQuestion(t *entities.Topic, q *entities.Question) string {
	return formatTopicHeader(t) + "\n\n❓ " + html.EscapeString(q.Text)
}

// formatContent reveals the topic notes.
func formatContent(t *entities.Topic) string {
	if strings.TrimSpace(t.Description) == "" {
		return formatTopicHeader(t)
	}
	return formatTopicHeader(t) + "\n\n" + html.EscapeString(t.Description)
}

func formatAnswer(t *entities.Topic, q *entities.Question, r entities.AnswerResult) string {
	verdict := "✅ Correct!"
	if !r.IsCorrect {
		verdict = fmt.Sprintf("❌ Not quite. The answer is <b>%s</b>) %s",
			r.CorrectOption, html.EscapeString(optionText(q, r.CorrectOption)))
	}
	return formatQuestion(t, q) + "\n\n" + verdict + "\n\n" + html.EscapeString(t.Description)
}

func formatBlocked(t *entities.Topic) string {
	return formatTopicHeader(t) + "\n\nThis topic has no questions yet. Add one in the web app or generate it here."
}

func formatCompleted(t *entities.Topic) string {
	if t.IsTerminal() {
		return fmt.Sprintf("🎓 <b>%s</b> graduated. See you in a year.", html.EscapeString(t.Title))
	}
	return fmt.Sprintf("👍 <b>%s</b> reviewed. Next review on %s.",
		html.EscapeString(t.Title), t.NextReview.Format("Jan 2"))
}

func optionText(q *entities.Question, key entities.OptionKey) string {
	for _, o := range q.Options {
		if o.Key == key {
			return o.Text
		}
	}
	return ""
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
