package chatbot

import "errors"

// Validation errors. All are wrapped with context before being returned, so
// callers should match with errors.Is.
var (
	// ErrUnsupportedProvider is returned when a provider is not in the catalog.
	ErrUnsupportedProvider = errors.New("model provider is not supported")

	// ErrUnsupportedModel is returned when a model is not in the current
	// provider's model set.
	ErrUnsupportedModel = errors.New("model is not supported")

	// ErrProviderNotSet is returned when an operation requires a configured
	// provider and none is set.
	ErrProviderNotSet = errors.New("model provider is not set")

	// ErrEmptyValue is returned when a required string is empty.
	ErrEmptyValue = errors.New("value must be non-empty")

	// ErrOutOfRange is returned when a numeric setting is outside its
	// allowed interval.
	ErrOutOfRange = errors.New("value is out of range")

	// ErrNotConfigured is returned when the model cannot be built because a
	// required configuration field is missing.
	ErrNotConfigured = errors.New("configuration is incomplete")

	// ErrInvalidMessage is returned when GetResponse is given a message that
	// is not a well-formed user message.
	ErrInvalidMessage = errors.New("invalid user message")

	// ErrBridgeBusy is returned when the execution context is already
	// driving other work. Reentrant calls are not supported.
	ErrBridgeBusy = errors.New("execution context is busy")
)
