package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ziadkadry99/cadena/internal/db"
)

// TranscriptStore persists conversations and their messages.
type TranscriptStore struct {
	db *db.DB
}

// NewTranscriptStore creates a TranscriptStore.
func NewTranscriptStore(database *db.DB) *TranscriptStore {
	return &TranscriptStore{db: database}
}

// CreateConversation starts a new, empty conversation.
func (s *TranscriptStore) CreateConversation(ctx context.Context, kind Kind, title string) (*Conversation, error) {
	if kind != KindChat && kind != KindChess {
		return nil, fmt.Errorf("unknown conversation kind %q", kind)
	}
	now := time.Now().UTC()
	c := &Conversation{
		ID:        uuid.New().String(),
		Kind:      kind,
		Title:     title,
		CreatedAt: now,
		UpdatedAt: now,
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO conversations (id, kind, title, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
		c.ID, c.Kind, c.Title, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("creating conversation: %w", err)
	}
	return c, nil
}

// Conversation looks up a conversation by id.
func (s *TranscriptStore) Conversation(ctx context.Context, id string) (*Conversation, error) {
	var c Conversation
	err := s.db.QueryRowContext(ctx,
		`SELECT id, kind, title, created_at, updated_at FROM conversations WHERE id = ?`, id,
	).Scan(&c.ID, &c.Kind, &c.Title, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting conversation: %w", err)
	}
	return &c, nil
}

// ListConversations returns conversations of the given kind, most recently
// active first. An empty kind lists all of them.
func (s *TranscriptStore) ListConversations(ctx context.Context, kind Kind) ([]Conversation, error) {
	query := `SELECT id, kind, title, created_at, updated_at FROM conversations`
	var args []interface{}
	if kind != "" {
		query += " WHERE kind = ?"
		args = append(args, kind)
	}
	query += " ORDER BY updated_at DESC, rowid DESC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing conversations: %w", err)
	}
	defer rows.Close()

	var convs []Conversation
	for rows.Next() {
		var c Conversation
		if err := rows.Scan(&c.ID, &c.Kind, &c.Title, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning conversation: %w", err)
		}
		convs = append(convs, c)
	}
	return convs, rows.Err()
}

// Append adds a message to the end of a conversation.
func (s *TranscriptStore) Append(ctx context.Context, convID string, role Role, content string) (*Message, error) {
	if role != RoleUser && role != RoleAssistant {
		return nil, fmt.Errorf("unknown role %q", role)
	}
	if _, err := s.Conversation(ctx, convID); err != nil {
		return nil, err
	}

	m := &Message{
		ID:             uuid.New().String(),
		ConversationID: convID,
		Role:           role,
		Content:        content,
		CreatedAt:      time.Now().UTC(),
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO messages (id, conversation_id, role, content, created_at) VALUES (?, ?, ?, ?, ?)`,
		m.ID, m.ConversationID, m.Role, m.Content, m.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("adding message: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`UPDATE conversations SET updated_at = ? WHERE id = ?`, m.CreatedAt, convID,
	)
	if err != nil {
		return nil, fmt.Errorf("touching conversation: %w", err)
	}
	return m, nil
}

// Messages returns every message of a conversation in the order appended.
func (s *TranscriptStore) Messages(ctx context.Context, convID string) ([]Message, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, conversation_id, role, content, created_at
		 FROM messages WHERE conversation_id = ? ORDER BY seq ASC`, convID,
	)
	if err != nil {
		return nil, fmt.Errorf("getting messages: %w", err)
	}
	defer rows.Close()
	return scanMessages(rows)
}

// Recent returns the last n messages of a conversation, oldest first.
func (s *TranscriptStore) Recent(ctx context.Context, convID string, n int) ([]Message, error) {
	if n <= 0 {
		return nil, nil
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, conversation_id, role, content, created_at FROM (
		   SELECT seq, id, conversation_id, role, content, created_at
		   FROM messages WHERE conversation_id = ? ORDER BY seq DESC LIMIT ?
		 ) ORDER BY seq ASC`, convID, n,
	)
	if err != nil {
		return nil, fmt.Errorf("getting recent messages: %w", err)
	}
	defer rows.Close()
	return scanMessages(rows)
}

// ClearMessages removes every message from a conversation but keeps it.
func (s *TranscriptStore) ClearMessages(ctx context.Context, convID string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM messages WHERE conversation_id = ?`, convID)
	if err != nil {
		return fmt.Errorf("clearing messages: %w", err)
	}
	return nil
}

// DeleteConversation removes a conversation and its messages.
func (s *TranscriptStore) DeleteConversation(ctx context.Context, convID string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM conversations WHERE id = ?`, convID)
	if err != nil {
		return fmt.Errorf("deleting conversation: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func scanMessages(rows *sql.Rows) ([]Message, error) {
	var msgs []Message
	for rows.Next() {
		var m Message
		if err := rows.Scan(&m.ID, &m.ConversationID, &m.Role, &m.Content, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning message: %w", err)
		}
		msgs = append(msgs, m)
	}
	return msgs, rows.Err()
}
