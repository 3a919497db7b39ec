package tui

import (
	"time"

	"github.com/saberchat/saber/pkg/chats/message"
)

// inputSubmitMsg carries the text the user submitted from the input box.
type inputSubmitMsg struct {
	text string
}

// sendCompleteMsg is returned by the tea.Cmd that drives the controller turn.
type sendCompleteMsg struct {
	reply    message.Message
	err      error
	duration time.Duration
}

// settingsDoneMsg signals that the settings form was completed or aborted.
type settingsDoneMsg struct{}

// initDrainMsg fires after a short delay so that stale terminal responses
// (e.g. OSC 11 background-color replies) are discarded before focusing input.
type initDrainMsg struct{}

// tickMsg drives the processing spinner.
type tickMsg time.Time
