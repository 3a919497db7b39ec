package tui

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/saberchat/saber/pkg/chats/message"
)

func TestVisualLineCount(t *testing.T) {
	tests := []struct {
		name  string
		width int
		text  string
		want  int
	}{
		{"empty", 20, "", 1},
		{"single line", 20, "hello", 1},
		{"hard newlines", 20, "hello\nworld", 2},
		{"blank line between", 20, "a\n\nb", 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newInput()
			m.textarea.SetWidth(tt.width)
			m.textarea.SetValue(tt.text)

			assert.Equal(t, tt.want, m.visualLineCount())
		})
	}
}

func TestVisualLineCount_SoftWrap(t *testing.T) {
	m := newInput()
	m.textarea.SetWidth(10)
	m.textarea.SetValue("this line is long enough to wrap at least once")

	assert.Greater(t, m.visualLineCount(), 1)
}

func TestChatViewBlocks(t *testing.T) {
	m := newChatView()
	m.setSize(80, 20)

	m.addMessage(message.User("hi"))
	m.addMessage(message.Assistant("hello"))
	m.addMessage(message.System("ignored"))
	assert.Len(t, m.blocks, 2)

	m.addError(errors.New("boom"))
	assert.Len(t, m.blocks, 3)
	assert.Contains(t, m.blocks[2], "boom")
}

func TestChatViewProcessingSpinner(t *testing.T) {
	m := newChatView()
	m.setSize(80, 20)

	m.setProcessing(true)
	assert.NotEmpty(t, m.processingMsg)

	m.setProcessing(false)
	assert.False(t, m.processing)
}

func TestHelpTextListsCommands(t *testing.T) {
	help := helpText()

	for _, cmd := range []string{"/help", "/settings", "/files", "/upload", "/rm", "/quit"} {
		assert.True(t, strings.Contains(help, cmd), "missing %s", cmd)
	}
}
