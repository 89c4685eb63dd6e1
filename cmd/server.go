package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/spf13/cobra"

	"github.com/ziadkadry99/cadena/internal/chess"
	"github.com/ziadkadry99/cadena/internal/dashboard"
	"github.com/ziadkadry99/cadena/internal/generation"
	"github.com/ziadkadry99/cadena/internal/render"
	"github.com/ziadkadry99/cadena/internal/server"
	"github.com/ziadkadry99/cadena/internal/storage"
)

var serverPort int

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the HTTP API and web dashboard",
	Long:  `Starts the cadena server with the generation and tournament analysis REST API, the transcript store, and the chat dashboard.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		port := cfg.Server.Port
		if cmd.Flags().Changed("port") {
			port = serverPort
		}

		database, err := openDatabase(cfg)
		if err != nil {
			return err
		}
		defer database.Close()

		gen := newGenerationClient()
		analyst := newAnalyst(cfg, gen)
		validator := chess.NewDetailsValidator(cfg.Chess.AllowedHosts)
		renderer := render.New()

		bot, _, err := newChatbot(cfg, database)
		if err != nil {
			return fmt.Errorf("creating chatbot: %w", err)
		}

		settings := newSettingsStore(cfg, database)
		transcripts := storage.NewTranscriptStore(database)

		srv := server.New(server.Config{
			Port:     port,
			AllowAll: cfg.Server.AllowAllOrigins,
		})

		srv.APIGroup(func(r chi.Router) {
			generation.RegisterRoutes(r, gen)
			chess.RegisterRoutes(r, analyst, validator, renderer)
			storage.RegisterRoutes(r, settings, transcripts)
		})

		// Dashboard (chat UI and websocket) stays outside the request timeout.
		dash := dashboard.New(analyst, validator, bot, transcripts)
		dash.RegisterRoutes(srv.Router())

		// Restore the last chat model in the background; the dashboard
		// reports it as unloaded until this finishes.
		go func() {
			if stored, err := bot.Restore(context.Background(), nil); err == nil {
				fmt.Fprintf(os.Stderr, "  Chat model: %s\n", stored.Name)
			}
		}()

		// Graceful shutdown.
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		go func() {
			<-ctx.Done()
			fmt.Fprintln(os.Stderr, "\nShutting down server...")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			srv.Shutdown(shutdownCtx)
		}()

		fmt.Fprintf(os.Stderr, "cadena server v%s starting on port %d\n", Version, port)
		fmt.Fprintf(os.Stderr, "  Database: %s\n", cfg.DatabasePath())
		fmt.Fprintf(os.Stderr, "  Hosted credential: %s\n", credentialStatus())

		if err := srv.Start(); err != nil && ctx.Err() == nil {
			return err
		}
		return nil
	},
}

func init() {
	serverCmd.Flags().IntVar(&serverPort, "port", 8080, "port to listen on (overrides server.port)")
	rootCmd.AddCommand(serverCmd)
}
