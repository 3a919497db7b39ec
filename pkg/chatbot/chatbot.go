// Package chatbot implements the configuration-and-session controller behind
// the chat front-ends. A Chatbot owns the validated generation settings
// (provider, model, temperature, system message, per-provider API keys), the
// lazily built model and agent handles, the conversation history, and the
// execution context used to drive agent calls.
//
// One Chatbot instance serves one UI session and assumes a single calling
// goroutine; see the concurrency note on the type.
package chatbot

import (
	"context"
	"fmt"
	"math"

	"github.com/google/uuid"

	"github.com/saberchat/saber/internal/log"
	"github.com/saberchat/saber/pkg/agent"
	"github.com/saberchat/saber/pkg/chats/chat"
	"github.com/saberchat/saber/pkg/chats/message"
	"github.com/saberchat/saber/pkg/chats/role"
	"github.com/saberchat/saber/pkg/filestore"
	"github.com/saberchat/saber/pkg/modeladapter"
	"github.com/saberchat/saber/pkg/providers"
)

// DefaultSystemMessage is the instruction prompt used until the caller sets
// another one.
const DefaultSystemMessage = "You are an assistant for question-answering " +
	"tasks. Use the following pieces of retrieved context to answer the " +
	"question. If you don't know the answer, just say that you don't know. " +
	"Use three sentences maximum and keep the answer concise."

// Builder constructs a completion adapter from a build configuration. It
// exists as an indirection point so tests can substitute a fake model.
type Builder func(cfg providers.BuildConfig) (modeladapter.Completer, error)

// Options configure a Chatbot. The zero value is usable: it gets the
// compiled-in catalog, the default system message, the registry builder, and
// a no-op logger.
type Options struct {
	Catalog       providers.Catalog // Provider/model catalog; zero value → providers.Default().
	SystemMessage string            // Initial system message; empty → DefaultSystemMessage.
	Logger        log.Logger        // nil → discard.
	Builder       Builder           // nil → providers.Build.
}

// Chatbot is the chat session controller.
//
// Configuration fields, cached handles, and the history are owned by a single
// calling goroutine; Chatbot does not lock them. The file store and the
// execution context are internally synchronized, but concurrent GetResponse
// calls are rejected rather than serialized (ErrBridgeBusy).
type Chatbot struct {
	logger  log.Logger
	catalog providers.Catalog
	build   Builder

	sessionID string

	provider      string
	modelName     string
	temperature   float64
	systemMessage string
	apiKeys       map[string]string

	completer modeladapter.Completer
	bot       *agent.Agent
	saver     *agent.MemorySaver

	history *chat.Chat
	exec    *bridge
	files   *filestore.Store
}

// New creates a Chatbot with the given options.
func New(opts Options) *Chatbot {
	logger := opts.Logger
	if logger == nil {
		logger = log.NewNop()
	}

	catalog := opts.Catalog
	if len(catalog.Providers) == 0 {
		catalog = providers.Default()
	}

	systemMessage := opts.SystemMessage
	if systemMessage == "" {
		systemMessage = DefaultSystemMessage
	}

	build := opts.Builder
	if build == nil {
		build = providers.Build
	}

	return &Chatbot{
		logger:        logger,
		catalog:       catalog,
		build:         build,
		sessionID:     uuid.NewString(),
		systemMessage: systemMessage,
		apiKeys:       make(map[string]string),
		saver:         agent.NewMemorySaver(),
		history:       chat.New(),
		exec:          newBridge(logger),
		files:         filestore.New(),
	}
}

// SessionID returns the identifier under which this controller's
// conversation is checkpointed.
func (c *Chatbot) SessionID() string { return c.sessionID }

// Files returns the uploaded-files store for this session.
func (c *Chatbot) Files() *filestore.Store { return c.files }

// validateProvider checks that provider is a non-empty member of the catalog.
func (c *Chatbot) validateProvider(provider string) error {
	if provider == "" {
		return fmt.Errorf("chatbot: model provider: %w", ErrEmptyValue)
	}
	if !c.catalog.Supports(provider) {
		return fmt.Errorf("chatbot: model provider %q: %w", provider, ErrUnsupportedProvider)
	}
	return nil
}

// invalidate discards the cached model and agent handles so they are rebuilt
// from current configuration on next use. Every setter that affects
// construction funnels through here.
func (c *Chatbot) invalidate() {
	c.completer = nil
	c.bot = nil
}

// SetModelProvider sets the model provider. Changing the provider clears the
// model name, since model names are only valid within one provider's set.
func (c *Chatbot) SetModelProvider(provider string) error {
	if err := c.validateProvider(provider); err != nil {
		return err
	}

	if provider != c.provider {
		c.provider = provider
		c.modelName = ""
		c.invalidate()
	}

	return nil
}

// ClearModelProvider unsets the provider and, with it, the model name.
func (c *Chatbot) ClearModelProvider() {
	if c.provider == "" {
		return
	}

	c.provider = ""
	c.modelName = ""
	c.invalidate()
}

// ModelProvider returns the configured provider, or "" when unset.
func (c *Chatbot) ModelProvider() string { return c.provider }

// SetModelName sets the model name. A provider must be configured first, and
// the name must belong to that provider's model set.
func (c *Chatbot) SetModelName(name string) error {
	if c.provider == "" {
		return fmt.Errorf("chatbot: model name requires a provider: %w", ErrProviderNotSet)
	}
	if name == "" {
		return fmt.Errorf("chatbot: model name: %w", ErrEmptyValue)
	}
	if !c.catalog.SupportsModel(c.provider, name) {
		return fmt.Errorf("chatbot: model %q: %w", name, ErrUnsupportedModel)
	}

	if name != c.modelName {
		c.modelName = name
		c.invalidate()
	}

	return nil
}

// ClearModelName unsets the model name.
func (c *Chatbot) ClearModelName() {
	if c.modelName == "" {
		return
	}

	c.modelName = ""
	c.invalidate()
}

// ModelName returns the configured model name, or "" when unset.
func (c *Chatbot) ModelName() string { return c.modelName }

// SetTemperature sets the sampling temperature. The accepted interval is
// [0.0, 1.0], both ends inclusive.
func (c *Chatbot) SetTemperature(t float64) error {
	if math.IsNaN(t) || t < 0.0 || t > 1.0 {
		return fmt.Errorf("chatbot: temperature %v is outside [0.0, 1.0]: %w", t, ErrOutOfRange)
	}

	if t != c.temperature {
		c.temperature = t
		c.invalidate()
	}

	return nil
}

// Temperature returns the configured sampling temperature.
func (c *Chatbot) Temperature() float64 { return c.temperature }

// SetSystemMessage sets the agent's instruction prompt.
func (c *Chatbot) SetSystemMessage(msg string) error {
	if msg == "" {
		return fmt.Errorf("chatbot: system message: %w", ErrEmptyValue)
	}

	if msg != c.systemMessage {
		c.systemMessage = msg
		c.invalidate()
	}

	return nil
}

// SystemMessage returns the agent's instruction prompt.
func (c *Chatbot) SystemMessage() string { return c.systemMessage }

// SetAPIKey stores the API key for a provider. Changing the key of the
// currently configured provider invalidates the cached model; keys for other
// providers can change without a rebuild.
func (c *Chatbot) SetAPIKey(provider, key string) error {
	if err := c.validateProvider(provider); err != nil {
		return err
	}
	if key == "" {
		return fmt.Errorf("chatbot: api key: %w", ErrEmptyValue)
	}

	if key != c.apiKeys[provider] {
		c.apiKeys[provider] = key
		if provider == c.provider {
			c.invalidate()
		}
	}

	return nil
}

// APIKey returns the stored key for provider, or "" when none is stored.
// Unknown providers are not an error here; the answer is simply "no key".
func (c *Chatbot) APIKey(provider string) string {
	return c.apiKeys[provider]
}

// SupportedProviders returns the catalog's provider names.
func (c *Chatbot) SupportedProviders() []string {
	return c.catalog.Names()
}

// SupportedModels returns the model set for provider, or nil for an unknown
// provider.
func (c *Chatbot) SupportedModels(provider string) []string {
	return c.catalog.Models(provider)
}

// ensureModel returns the cached completion adapter, building it from current
// configuration when there is none. Nothing is cached on failure, so the next
// call retries cleanly.
func (c *Chatbot) ensureModel() (modeladapter.Completer, error) {
	if c.completer != nil {
		return c.completer, nil
	}

	if c.provider == "" {
		return nil, fmt.Errorf("chatbot: model provider is not set: %w", ErrNotConfigured)
	}
	if c.modelName == "" {
		return nil, fmt.Errorf("chatbot: model name is not set: %w", ErrNotConfigured)
	}
	key := c.apiKeys[c.provider]
	if key == "" {
		return nil, fmt.Errorf("chatbot: api key for provider %q is not set: %w", c.provider, ErrNotConfigured)
	}

	completer, err := c.build(providers.BuildConfig{
		Provider:    c.provider,
		Model:       c.modelName,
		Temperature: c.temperature,
		APIKey:      key,
	})
	if err != nil {
		c.logger.Error("failed to initialize chat model", "provider", c.provider, "model", c.modelName, "error", err)
		return nil, fmt.Errorf("chatbot: initialize model: %w", err)
	}

	c.completer = completer

	return completer, nil
}

// ensureAgent returns the cached agent, building the model first when needed.
// The conversation checkpointer is shared across rebuilds so the dialogue
// thread survives configuration changes.
func (c *Chatbot) ensureAgent() (*agent.Agent, error) {
	if c.bot != nil {
		return c.bot, nil
	}

	completer, err := c.ensureModel()
	if err != nil {
		return nil, err
	}

	c.bot = agent.New(completer, c.systemMessage, c.saver)

	return c.bot, nil
}

// GetResponse sends userMsg to the agent and returns the assistant's reply.
// On success the user message and the reply are appended to the history as a
// pair; on any failure the history is left untouched.
func (c *Chatbot) GetResponse(ctx context.Context, userMsg message.Message) (message.Message, error) {
	if userMsg.Role != role.User {
		return message.Message{}, fmt.Errorf("chatbot: message role must be %q, got %q: %w", role.User, userMsg.Role, ErrInvalidMessage)
	}
	if userMsg.Empty() {
		return message.Message{}, fmt.Errorf("chatbot: message text must be non-empty: %w", ErrInvalidMessage)
	}

	bot, err := c.ensureAgent()
	if err != nil {
		return message.Message{}, err
	}

	value, err := c.exec.Do(ctx, func(jobCtx context.Context) (any, error) {
		return bot.Invoke(jobCtx, c.sessionID, userMsg)
	})
	if err != nil {
		c.logger.Error("error getting response", "error", err)
		return message.Message{}, err
	}

	reply, ok := value.(message.Message)
	if !ok {
		return message.Message{}, fmt.Errorf("chatbot: unexpected bridge result %T", value)
	}

	c.history.Append(userMsg, reply)

	return reply, nil
}

// Send wraps text into a user message and calls GetResponse.
func (c *Chatbot) Send(ctx context.Context, text string) (message.Message, error) {
	return c.GetResponse(ctx, message.User(text))
}

// History returns a copy of the conversation so far. Mutating the returned
// slice does not affect the controller's log.
func (c *Chatbot) History() []message.Message {
	return c.history.Messages()
}

// Close releases the execution context, cancelling any in-flight agent call.
// It is idempotent and must be called when the session ends.
func (c *Chatbot) Close() error {
	return c.exec.Close()
}
