package notifier

import (
	"fmt"
	"html"
	"log/slog"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/amishk599/jobsift/internal/model"
)

// Ensure TelegramNotifier implements model.Notifier.
var _ model.Notifier = (*TelegramNotifier)(nil)

// TelegramNotifier sends run summaries to a Telegram chat through a bot.
type TelegramNotifier struct {
	bot    *tgbotapi.BotAPI
	chatID int64
	topN   int
	logger *slog.Logger
}

// NewTelegramNotifier authenticates the bot token and returns a notifier for chatID.
func NewTelegramNotifier(token string, chatID int64, topN int, logger *slog.Logger) (*TelegramNotifier, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("init telegram bot: %w", err)
	}
	return newTelegramNotifier(bot, chatID, topN, logger), nil
}

func newTelegramNotifier(bot *tgbotapi.BotAPI, chatID int64, topN int, logger *slog.Logger) *TelegramNotifier {
	return &TelegramNotifier{bot: bot, chatID: chatID, topN: topN, logger: logger}
}

// Notify sends one HTML message with the counts and the top postings.
func (t *TelegramNotifier) Notify(s model.RunSummary) error {
	msg := tgbotapi.NewMessage(t.chatID, telegramText(s, t.topN))
	msg.ParseMode = tgbotapi.ModeHTML
	msg.DisableWebPagePreview = true

	if _, err := t.bot.Send(msg); err != nil {
		return fmt.Errorf("send telegram message: %w", err)
	}
	t.logger.Info("telegram message sent", "run_id", s.RunID, "chat_id", t.chatID)
	return nil
}

func telegramText(s model.RunSummary, topN int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "<b>%s</b>\n%s\n", html.EscapeString(Subject(s.Date)), html.EscapeString(Headline(s)))
	for i, p := range top(s, topN) {
		fmt.Fprintf(&b, "\n%d. <a href=\"%s\">%s</a> (%d)\n%s",
			i+1, html.EscapeString(p.URL), html.EscapeString(p.Title), p.ScoreValue(), html.EscapeString(p.Company))
		if loc := where(p); loc != "" {
			b.WriteString(" · " + html.EscapeString(loc))
		}
		b.WriteString("\n")
	}
	return b.String()
}
