// Package message defines the Message type used in LLM conversations.
package message

import (
	"strings"

	"github.com/saberchat/saber/pkg/chats/role"
)

// Message represents a single message in a conversation.
// It is a value type that copies cheaply.
type Message struct {
	Role role.Role
	Text string
}

// New creates a message with the given role and text.
func New(r role.Role, text string) Message {
	return Message{Role: r, Text: text}
}

// User creates a user message with the given text.
func User(text string) Message {
	return New(role.User, text)
}

// Assistant creates an assistant message with the given text.
func Assistant(text string) Message {
	return New(role.Assistant, text)
}

// System creates a system message with the given text.
func System(text string) Message {
	return New(role.System, text)
}

// IsZero reports whether the message has neither a role nor text.
func (m Message) IsZero() bool {
	return m.Role == "" && m.Text == ""
}

// Empty reports whether the message text is empty or whitespace only.
func (m Message) Empty() bool {
	return strings.TrimSpace(m.Text) == ""
}
