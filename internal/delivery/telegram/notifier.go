package telegram

import (
	"fmt"

	"github.com/aliskhannn/brain-recall/internal/domain/entities"
)

// Notifier delivers reminder digests to linked chats.
type Notifier struct {
	bot Bot
}

func NewNotifier(bot Bot) *Notifier {
	return &Notifier{bot: bot}
}

func (n *Notifier) SendDigest(chatID int64, digest entities.ReminderDigest) error {
	if _, err := n.bot.Send(newHTMLMessage(chatID, formatDigest(digest))); err != nil {
		return fmt.Errorf("send digest: %w", err)
	}
	return nil
}
