package storage

import (
	"errors"
	"time"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("not found")

// Role identifies the author of a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Kind separates the offline chatbot from the chess assistant.
type Kind string

const (
	KindChat  Kind = "chat"
	KindChess Kind = "chess"
)

// StoredModel records the local model the user last loaded.
type StoredModel struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	LoadedAt time.Time `json:"loaded_at"`
}

// Conversation groups an ordered list of messages.
type Conversation struct {
	ID        string    `json:"id"`
	Kind      Kind      `json:"kind"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Message is one turn of a conversation.
type Message struct {
	ID             string    `json:"id"`
	ConversationID string    `json:"conversation_id"`
	Role           Role      `json:"role"`
	Content        string    `json:"content"`
	CreatedAt      time.Time `json:"created_at"`
}

// Settings are the user-adjustable chat preferences.
type Settings struct {
	Temperature float64 `json:"temperature"`
	MaxTokens   int     `json:"max_tokens"`
	DarkMode    bool    `json:"dark_mode"`
}

// DefaultSettings returns the settings used before the user changes anything.
func DefaultSettings() Settings {
	return Settings{Temperature: 0.7, MaxTokens: 256, DarkMode: true}
}
