package prompt

import (
	"strings"
	"testing"

	"github.com/ziadkadry99/cadena/internal/storage"
)

func TestTranscript(t *testing.T) {
	turns := []Turn{
		{Role: storage.RoleUser, Content: "hi"},
		{Role: storage.RoleAssistant, Content: "hello"},
	}
	got := Transcript(turns)
	want := "User: hi\nAssistant: hello"
	if got != want {
		t.Errorf("Transcript = %q, want %q", got, want)
	}
	if ChatPrompt(turns) != want+"\nAssistant:" {
		t.Errorf("ChatPrompt = %q", ChatPrompt(turns))
	}
}

func TestLast(t *testing.T) {
	var turns []Turn
	for i := 0; i < 10; i++ {
		turns = append(turns, Turn{Role: storage.RoleUser, Content: string(rune('a' + i))})
	}

	tests := []struct {
		n     int
		want  int
		first string
	}{
		{6, 6, "e"},
		{20, 10, "a"},
		{0, 0, ""},
	}
	for _, tt := range tests {
		got := Last(turns, tt.n)
		if len(got) != tt.want {
			t.Errorf("Last(%d) len = %d, want %d", tt.n, len(got), tt.want)
			continue
		}
		if tt.want > 0 && got[0].Content != tt.first {
			t.Errorf("Last(%d) first = %q, want %q", tt.n, got[0].Content, tt.first)
		}
	}
}

func TestFromMessages(t *testing.T) {
	msgs := []storage.Message{
		{Role: storage.RoleUser, Content: "q"},
		{Role: storage.RoleAssistant, Content: "a"},
	}
	turns := FromMessages(msgs)
	if len(turns) != 2 || turns[1].Role != storage.RoleAssistant || turns[1].Content != "a" {
		t.Errorf("unexpected turns: %+v", turns)
	}
}

func TestConversationPrompt(t *testing.T) {
	p, err := Conversation(ConversationData{
		Name:     "Magnus",
		Context:  "standings here",
		Question: "Who leads?",
	})
	if err != nil {
		t.Fatalf("Conversation: %v", err)
	}
	for _, want := range []string{
		"The user's name is Magnus.",
		"standings here",
		"(no prior conversation)",
		"User question: Who leads?",
	} {
		if !strings.Contains(p, want) {
			t.Errorf("prompt missing %q:\n%s", want, p)
		}
	}

	p, err = Conversation(ConversationData{Name: "M", Transcript: "User: hi", Question: "q"})
	if err != nil {
		t.Fatalf("Conversation: %v", err)
	}
	if strings.Contains(p, "(no prior conversation)") || !strings.Contains(p, "User: hi") {
		t.Errorf("expected transcript in prompt:\n%s", p)
	}
}

func TestReportPrompts(t *testing.T) {
	dd, err := DeepDive(DeepDiveData{Author: "Ana", Player: "Carlsen", Context: "ctx"})
	if err != nil {
		t.Fatalf("DeepDive: %v", err)
	}
	if !strings.Contains(dd, `for the player "Carlsen"`) || !strings.Contains(dd, "Author name: Ana") {
		t.Errorf("unexpected deep dive prompt:\n%s", dd)
	}

	fc, err := Forecast(ForecastData{Name: "Ana", Context: "ctx"})
	if err != nil {
		t.Fatalf("Forecast: %v", err)
	}
	if !strings.Contains(fc, "most likely opponents for Ana") {
		t.Errorf("unexpected forecast prompt:\n%s", fc)
	}
}

func TestNumberedPages(t *testing.T) {
	got := NumberedPages([]string{"one", "two"})
	want := "URL 1:\none\n\n---\n\nURL 2:\ntwo"
	if got != want {
		t.Errorf("NumberedPages = %q, want %q", got, want)
	}
}
