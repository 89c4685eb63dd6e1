// Package prompt assembles conversation turns and tournament context into
// the single prompt strings sent to a model.
package prompt

import (
	"strings"

	"github.com/ziadkadry99/cadena/internal/storage"
)

// Turn is one message of a conversation as seen by the prompt builder.
type Turn struct {
	Role    storage.Role `json:"role"`
	Content string       `json:"content"`
}

// FromMessages converts stored messages into turns, preserving order.
func FromMessages(msgs []storage.Message) []Turn {
	turns := make([]Turn, 0, len(msgs))
	for _, m := range msgs {
		turns = append(turns, Turn{Role: m.Role, Content: m.Content})
	}
	return turns
}

// Last returns at most the final n turns.
func Last(turns []Turn, n int) []Turn {
	if n <= 0 {
		return nil
	}
	if len(turns) <= n {
		return turns
	}
	return turns[len(turns)-n:]
}

// Transcript renders turns as "User: ..." / "Assistant: ..." lines.
func Transcript(turns []Turn) string {
	lines := make([]string, 0, len(turns))
	for _, t := range turns {
		lines = append(lines, speaker(t.Role)+": "+t.Content)
	}
	return strings.Join(lines, "\n")
}

// ChatPrompt renders the transcript followed by an open assistant turn, the
// format the offline chatbot feeds to its local model.
func ChatPrompt(turns []Turn) string {
	return Transcript(turns) + "\nAssistant:"
}

func speaker(r storage.Role) string {
	if r == storage.RoleUser {
		return "User"
	}
	return "Assistant"
}
