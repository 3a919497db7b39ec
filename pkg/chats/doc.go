// Package chats provides a provider-agnostic data model for LLM chat interactions.
//
// It is organized into sub-packages:
//   - [github.com/saberchat/saber/pkg/chats/role] — conversation roles (system, user, assistant)
//   - [github.com/saberchat/saber/pkg/chats/message] — plain-text messages tagged with a role
//   - [github.com/saberchat/saber/pkg/chats/chat] — mutable conversation container
//
// No provider or API code is included — chats is a foundation layer
// that adapters can build on.
package chats
