package chess

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/ziadkadry99/cadena/internal/generation"
	"github.com/ziadkadry99/cadena/internal/prompt"
	"github.com/ziadkadry99/cadena/internal/storage"
)

// mockGenerator records requests and replies with a fixed text.
type mockGenerator struct {
	mu       sync.Mutex
	requests []generation.Request
	text     string
	err      error
}

func (m *mockGenerator) Generate(_ context.Context, req generation.Request) (*generation.Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests = append(m.requests, req)
	if m.err != nil {
		return nil, m.err
	}
	return &generation.Response{Text: m.text, FinishReason: generation.FinishCompleted}, nil
}

// mockPages returns one page per URL and remembers what was asked for.
type mockPages struct {
	urls     []string
	maxChars int
}

func (m *mockPages) FetchAll(_ context.Context, urls []string, maxChars int) []string {
	m.urls = urls
	m.maxChars = maxChars
	pages := make([]string, len(urls))
	for i, u := range urls {
		pages[i] = "content of " + u
	}
	return pages
}

const testLink = "https://chess-results.com/tnr1.aspx?rd=5"

func TestAsk(t *testing.T) {
	gen := &mockGenerator{text: "Ana leads with 4.5."}
	pages := &mockPages{}
	a := NewAnalyst(gen, pages)

	var history []prompt.Turn
	for i := 0; i < 8; i++ {
		history = append(history, prompt.Turn{Role: storage.RoleUser, Content: "turn" + string(rune('0'+i))})
	}

	answer, err := a.Ask(context.Background(), AskInput{
		Name:     "Ben",
		Link:     testLink,
		Question: "Who leads?",
		History:  history,
	})
	if err != nil {
		t.Fatalf("Ask: %v", err)
	}
	if answer != "Ana leads with 4.5." {
		t.Errorf("answer = %q", answer)
	}

	if len(pages.urls) != 4 || pages.maxChars != 2000 {
		t.Errorf("expected 4 urls at 2000 chars, got %d at %d", len(pages.urls), pages.maxChars)
	}

	req := gen.requests[0]
	if req.MaxTokens != 512 || req.Temperature != 0.3 {
		t.Errorf("unexpected sampling: %+v", req)
	}
	if strings.Contains(req.Prompt, "turn1") || !strings.Contains(req.Prompt, "turn2") || !strings.Contains(req.Prompt, "turn7") {
		t.Errorf("expected only the last 6 turns in prompt:\n%s", req.Prompt)
	}
	if !strings.Contains(req.Prompt, "content of "+pages.urls[0]+"\n\n---\n\ncontent of") {
		t.Errorf("expected joined pages in prompt:\n%s", req.Prompt)
	}
}

func TestAskWithoutLink(t *testing.T) {
	gen := &mockGenerator{text: "ok"}
	pages := &mockPages{}
	a := NewAnalyst(gen, pages)

	if _, err := a.Ask(context.Background(), AskInput{Name: "Ben", Question: "General opening advice?"}); err != nil {
		t.Fatalf("Ask: %v", err)
	}
	if pages.urls != nil {
		t.Errorf("no pages should be fetched without a link, got %v", pages.urls)
	}
}

func TestAskEmptyQuestion(t *testing.T) {
	gen := &mockGenerator{}
	a := NewAnalyst(gen, &mockPages{})
	if _, err := a.Ask(context.Background(), AskInput{Name: "Ben", Question: "  "}); err == nil {
		t.Fatal("expected error for empty question")
	}
	if len(gen.requests) != 0 {
		t.Error("generator should not be called")
	}
}

func TestReports(t *testing.T) {
	gen := &mockGenerator{text: "# Report"}
	pages := &mockPages{}
	a := NewAnalyst(gen, pages)
	ctx := context.Background()

	if _, err := a.DeepDive(ctx, "Ben", testLink, "Ana"); err != nil {
		t.Fatalf("DeepDive: %v", err)
	}
	if len(pages.urls) != 6 || pages.maxChars != 3000 {
		t.Errorf("deep dive: expected 6 urls at 3000 chars, got %d at %d", len(pages.urls), pages.maxChars)
	}
	if r := gen.requests[0]; r.MaxTokens != 1024 || r.Temperature != 0.5 || !strings.Contains(r.Prompt, "URL 1:\ncontent of") {
		t.Errorf("deep dive request: %+v", r)
	}

	if _, err := a.BattleForecast(ctx, "Ben", testLink); err != nil {
		t.Fatalf("BattleForecast: %v", err)
	}
	if len(pages.urls) != 6 || pages.maxChars != 2500 {
		t.Errorf("forecast: expected 6 urls at 2500 chars, got %d at %d", len(pages.urls), pages.maxChars)
	}
	if r := gen.requests[1]; r.MaxTokens != 768 || r.Temperature != 0.4 {
		t.Errorf("forecast request: %+v", r)
	}

	if _, err := a.DeepDive(ctx, "Ben", testLink, ""); err == nil {
		t.Error("expected error for missing player")
	}
}

func TestAnalystPropagatesGenerationErrors(t *testing.T) {
	a := NewAnalyst(&mockGenerator{err: &generation.Error{Kind: generation.ErrRateLimited, Message: "rate limited"}}, &mockPages{})

	_, err := a.BattleForecast(context.Background(), "Ben", testLink)
	if !errors.Is(err, generation.ErrRateLimited) {
		t.Errorf("expected ErrRateLimited, got %v", err)
	}
}
