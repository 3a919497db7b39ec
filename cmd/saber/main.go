// Saber is a chat assistant with interchangeable model backends. It runs as
// an interactive terminal chat by default, or as an HTTP/websocket server
// with -serve. Provider API keys come from the environment (or a .env file);
// the provider/model catalog can be overridden with a YAML file.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/saberchat/saber/cmd/saber/internal/tui"
	"github.com/saberchat/saber/internal/log"
	"github.com/saberchat/saber/pkg/chatbot"
	"github.com/saberchat/saber/pkg/providers"
	"github.com/saberchat/saber/pkg/web"
)

// keyEnvVars maps catalog provider names to the environment variables their
// API keys are seeded from.
const shutdownTimeout = 10 * time.Second

var keyEnvVars = map[string]string{
	"openai":       "OPENAI_API_KEY",
	"google_genai": "GOOGLE_API_KEY",
}

func main() {
	envFile := flag.String("env", ".env", "path to .env file (ignored if missing)")
	catalogPath := flag.String("catalog", "", "path to a provider/model catalog YAML (default: compiled-in catalog)")
	serve := flag.Bool("serve", false, "run the HTTP/websocket server instead of the terminal chat")
	addr := flag.String("addr", ":8080", "listen address for -serve")
	jsonLog := flag.Bool("json-log", false, "log as JSON (only with -serve)")
	verbose := flag.Bool("verbose", false, "enable debug logging")
	flag.Parse()

	if err := run(*envFile, *catalogPath, *addr, *serve, *jsonLog, *verbose); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(envFile, catalogPath, addr string, serve, jsonLog, verbose bool) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := loadDotEnv(envFile); err != nil {
		return err
	}

	catalog, err := loadCatalog(catalogPath)
	if err != nil {
		return err
	}

	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}

	// The TUI owns the terminal, so logging is discarded unless serving.
	logger := log.NewNop()
	if serve {
		logger = log.New(log.Config{Level: level, JSON: jsonLog})
	}

	bot := chatbot.New(chatbot.Options{
		Catalog: catalog,
		Logger:  logger,
	})
	defer func() { _ = bot.Close() }()

	seedAPIKeys(bot)

	if serve {
		return runServer(ctx, bot, logger, addr)
	}

	return tui.Run(ctx, bot)
}

// seedAPIKeys copies provider keys from the environment into the controller.
// Missing variables leave the provider unconfigured; the controller reports
// that when a chat turn is attempted.
func seedAPIKeys(bot *chatbot.Chatbot) {
	for _, provider := range bot.SupportedProviders() {
		envVar, ok := keyEnvVars[provider]
		if !ok {
			continue
		}

		if key := os.Getenv(envVar); key != "" {
			_ = bot.SetAPIKey(provider, key)
		}
	}
}

func loadCatalog(path string) (providers.Catalog, error) {
	if path == "" {
		return providers.Default(), nil
	}

	return providers.Load(path)
}

func runServer(ctx context.Context, bot *chatbot.Chatbot, logger log.Logger, addr string) error {
	srv := web.New(bot, logger)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start(addr)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}

		return <-errCh
	}
}

// loadDotEnv loads environment variables from path. Missing files are ignored.
func loadDotEnv(path string) error {
	err := godotenv.Load(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}

	return err
}
