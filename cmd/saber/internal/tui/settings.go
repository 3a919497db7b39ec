package tui

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/saberchat/saber/pkg/chatbot"
)

// settingsModel wraps a huh form over the controller's generation settings.
// Values are collected into local fields and applied through the controller
// setters only when the form completes, so aborting leaves everything as-is.
type settingsModel struct {
	form *huh.Form
	bot  *chatbot.Chatbot

	provider      string
	model         string
	temperature   string
	systemMessage string
	apiKey        string
}

func newSettings(bot *chatbot.Chatbot) *settingsModel {
	m := &settingsModel{
		bot:           bot,
		provider:      bot.ModelProvider(),
		model:         bot.ModelName(),
		temperature:   strconv.FormatFloat(bot.Temperature(), 'f', -1, 64),
		systemMessage: bot.SystemMessage(),
	}

	providerOpts := make([]huh.Option[string], 0, len(bot.SupportedProviders()))
	for _, p := range bot.SupportedProviders() {
		providerOpts = append(providerOpts, huh.NewOption(p, p))
	}

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Model provider").
				Options(providerOpts...).
				Value(&m.provider),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Model").
				OptionsFunc(func() []huh.Option[string] {
					models := bot.SupportedModels(m.provider)
					opts := make([]huh.Option[string], 0, len(models))
					for _, name := range models {
						opts = append(opts, huh.NewOption(name, name))
					}
					return opts
				}, &m.provider).
				Value(&m.model),
			huh.NewInput().
				Title("Temperature (0 to 1)").
				Validate(validateTemperature).
				Value(&m.temperature),
			huh.NewText().
				Title("System message").
				Value(&m.systemMessage),
			huh.NewInput().
				Title("API key (leave empty to keep current)").
				EchoMode(huh.EchoModePassword).
				Value(&m.apiKey),
		),
	)

	return m
}

func validateTemperature(s string) error {
	t, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return fmt.Errorf("not a number")
	}

	if t < 0 || t > 1 {
		return fmt.Errorf("must be between 0 and 1")
	}

	return nil
}

func (m *settingsModel) Init() tea.Cmd {
	return m.form.Init()
}

func (m *settingsModel) Update(msg tea.Msg) (tea.Cmd, bool) {
	model, cmd := m.form.Update(msg)
	if f, ok := model.(*huh.Form); ok {
		m.form = f
	}

	done := m.form.State == huh.StateCompleted || m.form.State == huh.StateAborted

	return cmd, done
}

// apply pushes the collected values through the controller setters. The first
// failing setter aborts; earlier settings stay applied.
func (m *settingsModel) apply() error {
	if m.form.State != huh.StateCompleted {
		return nil
	}

	if m.provider != m.bot.ModelProvider() {
		if err := m.bot.SetModelProvider(m.provider); err != nil {
			return err
		}
	}

	if m.model != "" && m.model != m.bot.ModelName() {
		if err := m.bot.SetModelName(m.model); err != nil {
			return err
		}
	}

	t, err := strconv.ParseFloat(strings.TrimSpace(m.temperature), 64)
	if err != nil {
		return fmt.Errorf("temperature: %w", err)
	}
	if err := m.bot.SetTemperature(t); err != nil {
		return err
	}

	if err := m.bot.SetSystemMessage(m.systemMessage); err != nil {
		return err
	}

	if m.apiKey != "" {
		if err := m.bot.SetAPIKey(m.provider, m.apiKey); err != nil {
			return err
		}
	}

	return nil
}

func (m *settingsModel) View() string {
	return m.form.View()
}
