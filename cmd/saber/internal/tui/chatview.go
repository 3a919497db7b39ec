package tui

import (
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"

	"github.com/saberchat/saber/pkg/chats/message"
	"github.com/saberchat/saber/pkg/chats/role"
)

// thinkingMessages are displayed while the model is processing.
var thinkingMessages = []string{
	"Thinking...",
	"Pondering the cosmos...",
	"Brewing a response...",
	"Crunching tokens...",
	"Weaving thoughts...",
	"Warming up neurons...",
}

// spinnerFrames are braille characters for smooth animation.
var spinnerFrames = []string{"⣾", "⣽", "⣻", "⢿", "⡿", "⣟", "⣯", "⣷"}

// chatViewModel renders the transcript into a scrollable viewport, plus a
// spinner line while a turn is in flight.
type chatViewModel struct {
	viewport      viewport.Model
	blocks        []string
	processing    bool
	spinnerIdx    int
	processingMsg string
	width         int
}

func newChatView() chatViewModel {
	return chatViewModel{
		viewport: viewport.New(0, 0),
	}
}

func (m chatViewModel) View() string {
	return m.viewport.View()
}

// addMessage appends a transcript block for the given message. System
// messages are not part of the visible transcript.
func (m *chatViewModel) addMessage(msg message.Message) {
	switch msg.Role {
	case role.User:
		m.blocks = append(m.blocks,
			userBlockStyle.Render(userPrefixStyle.Render("you > ")+msg.Text))
	case role.Assistant:
		m.blocks = append(m.blocks,
			answerBlockStyle.Render(answerPrefixStyle.Render("saber > ")+renderMarkdown(msg.Text)))
	case role.System:
	}

	m.updateViewport()
}

// addError appends an error block to the transcript.
func (m *chatViewModel) addError(err error) {
	m.blocks = append(m.blocks, errorBlockStyle.Render("error: "+err.Error()))
	m.updateViewport()
}

// addNote appends an informational block (help text, file listings).
func (m *chatViewModel) addNote(text string) {
	m.blocks = append(m.blocks, dimStyle.Render(text))
	m.updateViewport()
}

func (m *chatViewModel) setSize(width, height int) {
	m.width = width
	m.viewport.Width = width
	m.viewport.Height = max(height, 1)
	m.updateViewport()
}

// updateViewport re-renders the transcript and keeps the view pinned to the
// bottom.
func (m *chatViewModel) updateViewport() {
	var sb strings.Builder
	for _, b := range m.blocks {
		sb.WriteString(b)
		sb.WriteString("\n\n")
	}

	if m.processing {
		frame := spinnerFrames[m.spinnerIdx%len(spinnerFrames)]
		fmt.Fprintf(&sb, "  %s %s\n",
			spinnerStyle.Render(frame),
			spinnerStyle.Render(m.processingMsg),
		)
	}

	m.viewport.SetContent(sb.String())
	m.viewport.GotoBottom()
}

// setProcessing toggles the spinner line and picks a random waiting message.
func (m *chatViewModel) setProcessing(on bool) {
	m.processing = on
	if on {
		m.processingMsg = thinkingMessages[rand.IntN(len(thinkingMessages))]
	}
	m.updateViewport()
}

func (m *chatViewModel) advanceSpinner() {
	m.spinnerIdx++
	m.updateViewport()
}
