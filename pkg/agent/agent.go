// Package agent defines the conversational Agent that combines a
// modeladapter.Completer, a system prompt, and a checkpointed conversation
// thread into a cohesive unit for LLM interactions.
package agent

import (
	"context"
	"fmt"

	"github.com/saberchat/saber/pkg/chats/chat"
	"github.com/saberchat/saber/pkg/chats/message"
	"github.com/saberchat/saber/pkg/chats/role"
	"github.com/saberchat/saber/pkg/modeladapter"
)

// Agent sends checkpointed conversations to a model adapter for completion.
// Every Invoke call replays the full thread, prefixed with the system prompt,
// so the model sees the whole dialogue each time.
// Agent is not safe for concurrent use; callers must synchronize externally.
type Agent struct {
	completer    modeladapter.Completer
	systemPrompt string
	saver        *MemorySaver
}

// New creates an Agent with the given completer, system prompt, and
// checkpointer. A nil saver gets a fresh in-memory one.
func New(c modeladapter.Completer, systemPrompt string, saver *MemorySaver) *Agent {
	if saver == nil {
		saver = NewMemorySaver()
	}

	return &Agent{
		completer:    c,
		systemPrompt: systemPrompt,
		saver:        saver,
	}
}

// SystemPrompt returns the agent's instruction prompt.
func (a *Agent) SystemPrompt() string { return a.systemPrompt }

// Invoke appends userMsg to the thread identified by threadID, requests a
// completion over the full conversation, and returns the assistant's reply.
// The updated thread is checkpointed only after a successful completion; a
// failed call leaves the checkpoint untouched.
func (a *Agent) Invoke(ctx context.Context, threadID string, userMsg message.Message) (message.Message, error) {
	thread := append(a.saver.Load(threadID), userMsg)

	c := chat.New()
	if a.systemPrompt != "" {
		c.Append(message.New(role.System, a.systemPrompt))
	}
	c.Append(thread...)

	reply, err := a.completer.Complete(ctx, c)
	if err != nil {
		return message.Message{}, fmt.Errorf("agent: invoke: %w", err)
	}

	a.saver.Save(threadID, append(thread, reply))

	return reply, nil
}

// Thread returns a copy of the checkpointed messages for threadID.
func (a *Agent) Thread(threadID string) []message.Message {
	return a.saver.Load(threadID)
}
