// Package web exposes a Chatbot controller over HTTP: a small JSON API for
// settings, history, and uploaded files, plus a websocket chat endpoint.
// It is rendering-layer glue only — all validation and state lives in the
// controller.
package web

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/saberchat/saber/internal/log"
	"github.com/saberchat/saber/pkg/chatbot"
	"github.com/saberchat/saber/pkg/filestore"
	"github.com/saberchat/saber/pkg/modeladapter"
)

// Server serves the chat API for one controller instance.
type Server struct {
	bot    *chatbot.Chatbot
	logger log.Logger
	srv    *http.Server
}

// New creates a Server around the given controller.
func New(bot *chatbot.Chatbot, logger log.Logger) *Server {
	if logger == nil {
		logger = log.NewNop()
	}

	return &Server{bot: bot, logger: logger}
}

// Handler returns the API routes as an http.Handler.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/providers", s.handleListProviders)
	mux.HandleFunc("GET /api/providers/{provider}/models", s.handleListModels)

	mux.HandleFunc("GET /api/settings", s.handleGetSettings)
	mux.HandleFunc("PUT /api/settings", s.handlePutSettings)
	mux.HandleFunc("PUT /api/keys", s.handlePutKey)

	mux.HandleFunc("GET /api/history", s.handleGetHistory)

	mux.HandleFunc("GET /api/files", s.handleListFiles)
	mux.HandleFunc("POST /api/files", s.handleUploadFiles)
	mux.HandleFunc("DELETE /api/files/{name}", s.handleDeleteFile)

	mux.HandleFunc("GET /api/chat", s.handleChatWebSocket)

	return mux
}

// Start runs the HTTP server on addr until Shutdown is called.
func (s *Server) Start(addr string) error {
	s.srv = &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	s.logger.Info("web server listening", "addr", addr)

	if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}

// Shutdown stops the HTTP server gracefully.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.srv == nil {
		return nil
	}

	return s.srv.Shutdown(ctx)
}

// status maps controller and store errors onto HTTP status codes.
func status(err error) int {
	switch {
	case errors.Is(err, chatbot.ErrEmptyValue),
		errors.Is(err, chatbot.ErrOutOfRange),
		errors.Is(err, chatbot.ErrUnsupportedProvider),
		errors.Is(err, chatbot.ErrUnsupportedModel),
		errors.Is(err, chatbot.ErrProviderNotSet),
		errors.Is(err, chatbot.ErrInvalidMessage),
		errors.Is(err, filestore.ErrEmptyFilename):
		return http.StatusBadRequest
	case errors.Is(err, chatbot.ErrNotConfigured),
		errors.Is(err, chatbot.ErrBridgeBusy),
		errors.Is(err, filestore.ErrFileExists):
		return http.StatusConflict
	case errors.Is(err, filestore.ErrFileNotFound):
		return http.StatusNotFound
	default:
		var statusErr *modeladapter.StatusError
		if errors.As(err, &statusErr) {
			return http.StatusBadGateway
		}
		return http.StatusInternalServerError
	}
}
