package dashboard

import (
	"encoding/json"
	"net/http"

	"github.com/ziadkadry99/cadena/internal/storage"
)

// statsResponse is the JSON response for the stats endpoint.
type statsResponse struct {
	ChessConversations int    `json:"chess_conversations"`
	ChatConversations  int    `json:"chat_conversations"`
	ModelLoaded        bool   `json:"model_loaded"`
	ModelID            string `json:"model_id,omitempty"`
}

func (d *Dashboard) handleStats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	chessConvs, err := d.transcripts.ListConversations(ctx, storage.KindChess)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	chatConvs, err := d.transcripts.ListConversations(ctx, storage.KindChat)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	resp := statsResponse{
		ChessConversations: len(chessConvs),
		ChatConversations:  len(chatConvs),
	}
	if d.bot != nil {
		resp.ModelLoaded = d.bot.Session().Loaded()
		resp.ModelID = d.bot.Session().ModelID()
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
