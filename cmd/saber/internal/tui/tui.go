// Package tui is the interactive terminal chat front-end. It renders the
// conversation through a scrollable transcript, drives controller turns from
// a bordered input box, and exposes the generation settings behind a /settings
// form. All controller calls happen in tea.Cmd goroutines; the model only
// consumes their completion messages.
package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/saberchat/saber/pkg/chatbot"
)

// Run starts the chat TUI and blocks until the user quits or ctx is
// cancelled.
func Run(ctx context.Context, bot *chatbot.Chatbot) error {
	p := tea.NewProgram(newAppModel(ctx, bot), tea.WithContext(ctx))

	_, err := p.Run()

	return err
}
