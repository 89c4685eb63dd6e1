package cmd

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/ziadkadry99/cadena/internal/chatbot"
	"github.com/ziadkadry99/cadena/internal/chess"
	"github.com/ziadkadry99/cadena/internal/config"
	"github.com/ziadkadry99/cadena/internal/db"
	"github.com/ziadkadry99/cadena/internal/generation"
	"github.com/ziadkadry99/cadena/internal/localmodel"
	"github.com/ziadkadry99/cadena/internal/storage"
)

// loadConfig loads and validates the config, providing a user-friendly error.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w\nRun `cadena init` to create a config file", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", cfgFile, err)
	}
	return cfg, nil
}

// openDatabase opens the SQLite database inside the configured data directory.
func openDatabase(cfg *config.Config) (*db.DB, error) {
	database, err := db.Open(cfg.DatabasePath())
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	return database, nil
}

// newLogger returns the stderr logger used for generation diagnostics.
func newLogger() *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// newGenerationClient creates the hosted inference client. The credential is
// read from the environment on every call, so a missing token only fails the
// commands that generate.
func newGenerationClient() *generation.Client {
	return generation.NewClient(generation.WithLogger(newLogger()))
}

// newFetcher creates the tournament page fetcher from config.
func newFetcher(cfg *config.Config) *chess.Fetcher {
	opts := []chess.FetcherOption{
		chess.WithAllowedHosts(cfg.Chess.AllowedHosts),
		chess.WithUserAgent(cfg.Chess.UserAgent),
	}
	if cfg.Chess.FetchTimeoutSeconds > 0 {
		timeout := time.Duration(cfg.Chess.FetchTimeoutSeconds) * time.Second
		opts = append(opts, chess.WithFetchClient(&http.Client{Timeout: timeout}))
	}
	return chess.NewFetcher(opts...)
}

// newAnalyst wires the tournament analyst to the hosted model.
func newAnalyst(cfg *config.Config, gen chess.Generator) *chess.Analyst {
	return chess.NewAnalyst(gen, newFetcher(cfg))
}

// newChatbot wires the offline chatbot to the local runtime and the database.
func newChatbot(cfg *config.Config, database *db.DB) (*chatbot.Chatbot, *localmodel.OllamaBackend, error) {
	backend, err := localmodel.NewOllamaBackend(cfg.Runtime.Host)
	if err != nil {
		return nil, nil, err
	}
	bot := chatbot.New(
		localmodel.NewSession(backend),
		storage.NewModelStore(database),
		storage.NewTranscriptStore(database),
		newSettingsStore(cfg, database),
	)
	return bot, backend, nil
}

// newSettingsStore returns the chat settings store seeded with config defaults.
func newSettingsStore(cfg *config.Config, database *db.DB) *storage.SettingsStore {
	return storage.NewSettingsStore(database, storage.Settings{
		Temperature: cfg.Chat.Temperature,
		MaxTokens:   cfg.Chat.MaxTokens,
		DarkMode:    cfg.Chat.DarkMode,
	})
}

// credentialStatus describes the hosted credential without revealing it.
func credentialStatus() string {
	token := os.Getenv(config.TokenEnvVar)
	if token == "" {
		return fmt.Sprintf("missing (set %s)", config.TokenEnvVar)
	}
	return config.MaskToken(token)
}
