package tui

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/saberchat/saber/pkg/chatbot"
	"github.com/saberchat/saber/pkg/chats/message"
	"github.com/saberchat/saber/pkg/filestore"
)

// appState represents the application state machine.
type appState int

const (
	stateIdle appState = iota
	stateProcessing
	stateSettings
)

// appModel is the root bubbletea model.
type appModel struct {
	ctx       context.Context
	bot       *chatbot.Chatbot
	chatView  chatViewModel
	inputBox  inputModel
	statusBar statusBarModel
	settings  *settingsModel
	state     appState
	width     int
	height    int
	sendStart time.Time
}

func newAppModel(ctx context.Context, bot *chatbot.Chatbot) appModel {
	return appModel{
		ctx:       ctx,
		bot:       bot,
		chatView:  newChatView(),
		inputBox:  newInput(),
		statusBar: newStatusBar(bot),
		state:     stateIdle,
	}
}

func (m appModel) Init() tea.Cmd {
	// Delay focusing the input so that stale terminal escape-sequence
	// responses (e.g. OSC 11 background-color) are drained first.
	return tea.Tick(200*time.Millisecond, func(time.Time) tea.Msg {
		return initDrainMsg{}
	})
}

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)

	case initDrainMsg:
		cmd := m.inputBox.enable()
		return m, cmd

	case inputSubmitMsg:
		return m.handleSubmit(msg)

	case sendCompleteMsg:
		m.statusBar.duration = msg.duration
		m.state = stateIdle
		focusCmd := m.inputBox.enable()
		m.chatView.setProcessing(false)
		if msg.err != nil {
			if m.ctx.Err() == nil {
				m.chatView.addError(msg.err)
			}
		} else {
			m.chatView.addMessage(msg.reply)
		}
		m.recalcLayout()
		return m, focusCmd

	case settingsDoneMsg:
		if m.settings != nil {
			if err := m.settings.apply(); err != nil {
				m.chatView.addError(err)
			}
		}
		m.settings = nil
		m.state = stateIdle
		m.recalcLayout()
		return m, m.inputBox.enable()

	case tickMsg:
		if m.state == stateProcessing {
			m.chatView.advanceSpinner()
			return m, tickCmd()
		}
		return m, nil
	}

	// Delegate to active sub-component.
	switch {
	case m.settings != nil:
		return m.updateSettings(msg)
	case m.state == stateIdle:
		var cmd tea.Cmd
		m.inputBox, cmd = m.inputBox.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m appModel) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	if m.settings != nil {
		return m.settings.View()
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.chatView.View(),
		m.inputBox.View(),
		m.statusBar.View(),
	)
}

func (m *appModel) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.width = msg.Width
	m.height = msg.Height

	initMarkdownRenderer(m.width - 4)
	m.inputBox.setWidth(m.width)
	m.statusBar.width = m.width
	m.recalcLayout()

	if m.settings != nil {
		return m.updateSettings(msg)
	}

	return m, nil
}

func (m *appModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}

	if msg.Type == tea.KeyEsc && m.settings == nil {
		return m, tea.Quit
	}

	if m.settings != nil {
		return m.updateSettings(msg)
	}

	if m.state == stateIdle {
		var cmd tea.Cmd
		m.inputBox, cmd = m.inputBox.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m *appModel) updateSettings(msg tea.Msg) (tea.Model, tea.Cmd) {
	cmd, done := m.settings.Update(msg)
	if done {
		return m, tea.Batch(cmd, func() tea.Msg { return settingsDoneMsg{} })
	}

	return m, cmd
}

func (m *appModel) handleSubmit(msg inputSubmitMsg) (tea.Model, tea.Cmd) {
	text := msg.text

	if strings.HasPrefix(text, "/") {
		return m.handleCommand(text)
	}

	m.chatView.addMessage(message.User(text))

	m.state = stateProcessing
	m.inputBox.disable()
	m.chatView.setProcessing(true)
	m.sendStart = time.Now()
	m.recalcLayout()

	bot := m.bot
	ctx := m.ctx
	start := m.sendStart
	sendCmd := func() tea.Msg {
		reply, err := bot.Send(ctx, text)
		return sendCompleteMsg{reply: reply, err: err, duration: time.Since(start)}
	}

	return m, tea.Batch(sendCmd, tickCmd())
}

func (m *appModel) handleCommand(text string) (tea.Model, tea.Cmd) {
	cmd, rest, _ := strings.Cut(text, " ")
	arg := strings.TrimSpace(rest)

	switch cmd {
	case "/quit", "/exit":
		return m, tea.Quit

	case "/help":
		m.chatView.addNote(helpText())

	case "/settings":
		m.settings = newSettings(m.bot)
		m.state = stateSettings
		m.inputBox.disable()
		return m, m.settings.Init()

	case "/files":
		names := m.bot.Files().List()
		if len(names) == 0 {
			m.chatView.addNote("No files uploaded.")
		} else {
			m.chatView.addNote("Files:\n  " + strings.Join(names, "\n  "))
		}

	case "/upload":
		if arg == "" {
			m.chatView.addNote("Usage: /upload <path>")
			break
		}
		if err := m.uploadFile(arg); err != nil {
			m.chatView.addError(err)
		} else {
			m.chatView.addNote("Uploaded " + filepath.Base(arg))
		}

	case "/rm":
		if arg == "" {
			m.chatView.addNote("Usage: /rm <name>")
			break
		}
		if err := m.bot.Files().Delete([]string{arg}); err != nil {
			m.chatView.addError(err)
		} else {
			m.chatView.addNote("Removed " + arg)
		}

	default:
		m.chatView.addNote(fmt.Sprintf("Unknown command %q (/help for commands)", cmd))
	}

	m.recalcLayout()

	return m, nil
}

func (m *appModel) uploadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	return m.bot.Files().Write([]filestore.File{{Name: filepath.Base(path), Data: data}})
}

func (m *appModel) recalcLayout() {
	if m.width == 0 || m.height == 0 {
		return
	}

	statusHeight := 1
	inputHeight := lipgloss.Height(m.inputBox.View())
	chatHeight := max(m.height-inputHeight-statusHeight, 1)
	m.chatView.setSize(m.width, chatHeight)
}

func tickCmd() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func helpText() string {
	return "Commands:\n" +
		"  /help            Show this help message\n" +
		"  /settings        Edit provider, model, and generation settings\n" +
		"  /files           List uploaded files\n" +
		"  /upload <path>   Upload a file from disk\n" +
		"  /rm <name>       Remove an uploaded file\n" +
		"  /quit            Exit the chat\n\n" +
		"Shortcuts:\n" +
		"  Enter            Submit message\n" +
		"  Alt+Enter        New line\n" +
		"  Ctrl+C           Exit"
}
