package notify

import (
	"fmt"
	"log/slog"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// TelegramNotifier sends a run summary to a Telegram chat
type TelegramNotifier struct {
	bot    *tgbotapi.BotAPI
	chatID int64
}

// NewTelegramNotifier creates a new Telegram notifier. Returns nil when
// notifications are not configured or the bot cannot be reached; a nil
// notifier is safe to use and does nothing.
func NewTelegramNotifier(token string, chatID int64) *TelegramNotifier {
	if token == "" || chatID == 0 {
		return nil
	}

	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		slog.Error("Failed to create telegram bot", "error", err)
		return nil
	}

	bot.Debug = false

	// Test bot connection
	if _, err := bot.GetMe(); err != nil {
		slog.Error("Failed to get bot info", "error", err)
		return nil
	}

	slog.Info("Telegram notifier initialized", "chat_id", chatID)
	return &TelegramNotifier{bot: bot, chatID: chatID}
}

// NotifySyncComplete reports a finished run. Safe to call on nil; send
// failures are logged, a missed notification never fails the run.
func (n *TelegramNotifier) NotifySyncComplete(groupID, summaryPath string, replays, wins, losses int) {
	if n == nil {
		return
	}

	text := fmt.Sprintf("Replay sync finished: group %s, %d replay(s), %d wins / %d losses -> %s",
		groupID, replays, wins, losses, summaryPath)

	msg := tgbotapi.NewMessage(n.chatID, text)
	if _, err := n.bot.Send(msg); err != nil {
		slog.Error("Failed to send telegram notification", "error", err)
	}
}
