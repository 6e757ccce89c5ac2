package notifier

import (
	"fmt"
	"html"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"careerwatch/jobtracker/internal/scraper"
	jterrors "careerwatch/jobtracker/pkg/errors"
)

// Ensure TelegramNotifier implements both notifier interfaces.
var (
	_ Notifier        = (*TelegramNotifier)(nil)
	_ SummaryNotifier = (*TelegramNotifier)(nil)
)

// TelegramNotifier delivers posting alerts through the Telegram Bot API
type TelegramNotifier struct {
	api    *tgbotapi.BotAPI
	chatID int64
}

// NewTelegramNotifier creates a notifier for the given bot token and chat
func NewTelegramNotifier(token string, chatID int64) (*TelegramNotifier, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, jterrors.NewConfiguration("cannot initialize Telegram bot", err)
	}
	return &TelegramNotifier{
		api:    api,
		chatID: chatID,
	}, nil
}

// Notify sends one message covering the given postings
func (t *TelegramNotifier) Notify(postings []scraper.JobPosting) error {
	if len(postings) == 0 {
		return nil
	}

	var b strings.Builder
	if len(postings) == 1 {
		b.WriteString("🎯 <b>New matching position!</b>\n")
	} else {
		fmt.Fprintf(&b, "🎯 <b>%d new matching positions!</b>\n", len(postings))
	}

	for _, p := range postings {
		b.WriteString("\n")
		fmt.Fprintf(&b, "<b>%s</b> — %s\n", html.EscapeString(p.Company), html.EscapeString(p.Title))
		if p.Location != "" {
			fmt.Fprintf(&b, "📍 %s\n", html.EscapeString(p.Location))
		}
		if p.URL != "" {
			fmt.Fprintf(&b, "🔗 %s\n", p.URL)
		}
	}

	return t.send(b.String())
}

// NotifySummary reports the outcome of a run. Quiet runs with nothing new
// and no failures are skipped.
func (t *TelegramNotifier) NotifySummary(newPostings, companiesProcessed, companiesFailed int) error {
	if newPostings == 0 && companiesFailed == 0 {
		return nil
	}

	emoji := "✅"
	if companiesFailed > 0 {
		emoji = "⚠️"
	}

	msg := fmt.Sprintf("%s <b>Job Tracker Summary</b>\n\n"+
		"<b>New postings:</b> %d\n"+
		"<b>Companies processed:</b> %d\n"+
		"<b>Companies failed:</b> %d",
		emoji, newPostings, companiesProcessed, companiesFailed)

	return t.send(msg)
}

// send delivers a single HTML-formatted message
func (t *TelegramNotifier) send(text string) error {
	msg := tgbotapi.NewMessage(t.chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML

	if _, err := t.api.Send(msg); err != nil {
		return jterrors.NewNotify("", "Telegram delivery failed", err)
	}
	return nil
}
