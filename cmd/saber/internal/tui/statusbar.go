package tui

import (
	"fmt"
	"time"

	"github.com/mattn/go-runewidth"

	"github.com/saberchat/saber/pkg/chatbot"
)

// statusBarModel is the single-line footer: active provider/model, the last
// turn duration, and the uploaded file count.
type statusBarModel struct {
	bot      *chatbot.Chatbot
	duration time.Duration
	width    int
}

func newStatusBar(bot *chatbot.Chatbot) statusBarModel {
	return statusBarModel{bot: bot}
}

func (m statusBarModel) View() string {
	provider := m.bot.ModelProvider()
	if provider == "" {
		provider = "no provider"
	}

	model := m.bot.ModelName()
	if model == "" {
		model = "no model"
	}

	line := fmt.Sprintf(" %s · %s · temp %.2f", provider, model, m.bot.Temperature())

	if n := m.bot.Files().Len(); n > 0 {
		line += fmt.Sprintf(" · %d file(s)", n)
	}

	if m.duration > 0 {
		line += fmt.Sprintf(" · %s", m.duration.Round(time.Millisecond))
	}

	return statusStyle.Render(runewidth.Truncate(line, max(m.width, 1), "…"))
}
