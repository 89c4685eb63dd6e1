package dashboard

import (
	"github.com/go-chi/chi/v5"

	"github.com/ziadkadry99/cadena/internal/chatbot"
	"github.com/ziadkadry99/cadena/internal/chess"
	"github.com/ziadkadry99/cadena/internal/storage"
)

// Dashboard serves the browser chat UI and its WebSocket.
type Dashboard struct {
	analyst     *chess.Analyst
	validator   *chess.DetailsValidator
	bot         *chatbot.Chatbot
	transcripts *storage.TranscriptStore
}

// New creates a new Dashboard. bot may be nil when no local runtime is configured.
func New(analyst *chess.Analyst, validator *chess.DetailsValidator, bot *chatbot.Chatbot, transcripts *storage.TranscriptStore) *Dashboard {
	return &Dashboard{
		analyst:     analyst,
		validator:   validator,
		bot:         bot,
		transcripts: transcripts,
	}
}

// RegisterRoutes mounts all dashboard routes onto the given router.
func (d *Dashboard) RegisterRoutes(r chi.Router) {
	r.Get("/", d.ServeIndex)
	r.Get("/api/dashboard/stats", d.handleStats)
	r.Get("/ws/chat", d.handleWebSocket)
}
