package telegram

import (
	"fmt"
	"html"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"go-padel-watcher/internal/model"
)

type Bot struct {
	api    *tgbotapi.BotAPI
	chatID int64
}

func NewBot(token string, chatID int64) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to init telegram bot: %w", err)
	}
	return &Bot{
		api:    api,
		chatID: chatID,
	}, nil
}

// RenderMatch builds the human-readable summary sent for one match.
func RenderMatch(m *model.Match) string {
	var b strings.Builder
	fmt.Fprintf(&b, "🎾 <b>%s</b> — %s\n", m.Start.Format("Mon 02 Jan 15:04"), html.EscapeString(m.Court))
	fmt.Fprintf(&b, "📊 Niveaux: %s\n", m.Band)
	fmt.Fprintf(&b, "⏱ %d min\n", m.Duration)
	fmt.Fprintf(&b, "🔓 %d open slot(s)\n", m.OpenSlots)
	b.WriteString(renderTeam("Team A", m.TeamA))
	b.WriteString(renderTeam("Team B", m.TeamB))
	return b.String()
}

func renderTeam(label string, team [2]model.Player) string {
	var b strings.Builder
	fmt.Fprintf(&b, "👥 <b>%s</b>\n", label)
	for _, p := range team {
		if p.IsEmpty() {
			b.WriteString("  • Libre\n")
			continue
		}
		if p.Level != nil {
			fmt.Fprintf(&b, "  • %s (%.2f)\n", html.EscapeString(p.Name), *p.Level)
		} else {
			fmt.Fprintf(&b, "  • %s\n", html.EscapeString(p.Name))
		}
	}
	return b.String()
}

// SendMatch announces one match. Delivery failures are returned to the
// caller and never retried here.
func (b *Bot) SendMatch(m *model.Match) error {
	msg := tgbotapi.NewMessage(b.chatID, RenderMatch(m))
	msg.ParseMode = "HTML"
	_, err := b.api.Send(msg)
	return err
}

func (b *Bot) SendError(err error) error {
	msg := tgbotapi.NewMessage(b.chatID, fmt.Sprintf("❌ Error: %v", err))
	_, sendErr := b.api.Send(msg)
	return sendErr
}

func (b *Bot) SendStatus(message string) error {
	msg := tgbotapi.NewMessage(b.chatID, "ℹ️ "+message)
	_, err := b.api.Send(msg)
	return err
}
