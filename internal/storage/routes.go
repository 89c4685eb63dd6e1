package storage

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// RegisterRoutes mounts the settings and conversation API routes.
func RegisterRoutes(r chi.Router, settings *SettingsStore, transcripts *TranscriptStore) {
	r.Get("/api/settings", handleGetSettings(settings))
	r.Put("/api/settings", handleSaveSettings(settings))

	r.Route("/api/conversations", func(r chi.Router) {
		r.Get("/", handleListConversations(transcripts))
		r.Post("/", handleCreateConversation(transcripts))
		r.Delete("/{id}", handleDeleteConversation(transcripts))
		r.Get("/{id}/messages", handleGetMessages(transcripts))
		r.Post("/{id}/messages", handleAppendMessage(transcripts))
		r.Delete("/{id}/messages", handleClearMessages(transcripts))
	})
}

func handleGetSettings(store *SettingsStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, err := store.Get(r.Context())
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
			return
		}
		writeJSON(w, http.StatusOK, s)
	}
}

func handleSaveSettings(store *SettingsStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		current, err := store.Get(r.Context())
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
			return
		}
		// Fields missing from the body keep their current values.
		if err := json.NewDecoder(r.Body).Decode(&current); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
			return
		}
		if err := store.Save(r.Context(), current); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
		writeJSON(w, http.StatusOK, current)
	}
}

func handleListConversations(store *TranscriptStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		convs, err := store.ListConversations(r.Context(), Kind(r.URL.Query().Get("kind")))
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
			return
		}
		if convs == nil {
			convs = []Conversation{}
		}
		writeJSON(w, http.StatusOK, convs)
	}
}

type createConversationRequest struct {
	Kind  Kind   `json:"kind"`
	Title string `json:"title"`
}

func handleCreateConversation(store *TranscriptStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createConversationRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
			return
		}
		if req.Kind == "" {
			req.Kind = KindChat
		}
		conv, err := store.CreateConversation(r.Context(), req.Kind, req.Title)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
		writeJSON(w, http.StatusCreated, conv)
	}
}

func handleDeleteConversation(store *TranscriptStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := store.DeleteConversation(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			writeStoreError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func handleGetMessages(store *TranscriptStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		if _, err := store.Conversation(r.Context(), id); err != nil {
			writeStoreError(w, err)
			return
		}
		msgs, err := store.Messages(r.Context(), id)
		if err != nil {
			writeStoreError(w, err)
			return
		}
		if msgs == nil {
			msgs = []Message{}
		}
		writeJSON(w, http.StatusOK, msgs)
	}
}

type appendMessageRequest struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

func handleAppendMessage(store *TranscriptStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req appendMessageRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
			return
		}
		if req.Content == "" {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "content is required"})
			return
		}
		msg, err := store.Append(r.Context(), chi.URLParam(r, "id"), req.Role, req.Content)
		if err != nil {
			writeStoreError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, msg)
	}
}

func handleClearMessages(store *TranscriptStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		if _, err := store.Conversation(r.Context(), id); err != nil {
			writeStoreError(w, err)
			return
		}
		if err := store.ClearMessages(r.Context(), id); err != nil {
			writeStoreError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func writeStoreError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	if errors.Is(err, ErrNotFound) {
		status = http.StatusNotFound
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
