package localmodel

import (
	"context"
	"errors"
	"sync"
	"testing"
)

// mockBackend scripts pull progress and generation output.
type mockBackend struct {
	mu        sync.Mutex
	progress  []float64
	pullErr   error
	pulls     []string
	text      string
	tokens    []string
	lastParam GenerateParams
}

func (m *mockBackend) Pull(_ context.Context, model string, fn func(float64)) error {
	m.mu.Lock()
	m.pulls = append(m.pulls, model)
	m.mu.Unlock()
	for _, p := range m.progress {
		fn(p)
	}
	return m.pullErr
}

func (m *mockBackend) Generate(_ context.Context, p GenerateParams, onToken func(string)) (string, error) {
	m.mu.Lock()
	m.lastParam = p
	m.mu.Unlock()
	if onToken != nil {
		for _, tok := range m.tokens {
			onToken(tok)
		}
	}
	return m.text, nil
}

func (m *mockBackend) List(context.Context) ([]string, error) { return nil, nil }

type recordingObserver struct {
	events []float64
}

func (r *recordingObserver) Progress(f float64) { r.events = append(r.events, f) }

func TestLoadReportsMonotonicProgress(t *testing.T) {
	b := &mockBackend{progress: []float64{0.1, 0.5, 1.0, 0.2, 0.7, 0.6, 1.0}}
	s := NewSession(b)
	obs := &recordingObserver{}

	if err := s.Load(context.Background(), "tinyllama", obs); err != nil {
		t.Fatalf("Load: %v", err)
	}

	want := []float64{0.1, 0.5, 0.7, 1.0}
	if len(obs.events) != len(want) {
		t.Fatalf("events = %v, want %v", obs.events, want)
	}
	for i := range want {
		if obs.events[i] != want[i] {
			t.Errorf("events = %v, want %v", obs.events, want)
			break
		}
	}
	if !s.Loaded() || s.ModelID() != "tinyllama" {
		t.Errorf("expected tinyllama loaded, got loaded=%v id=%q", s.Loaded(), s.ModelID())
	}
}

func TestLoadSameModelIsNoop(t *testing.T) {
	b := &mockBackend{}
	s := NewSession(b)
	ctx := context.Background()

	if err := s.Load(ctx, "phi", nil); err != nil {
		t.Fatalf("Load: %v", err)
	}
	obs := &recordingObserver{}
	if err := s.Load(ctx, "phi", obs); err != nil {
		t.Fatalf("second Load: %v", err)
	}
	if len(b.pulls) != 1 {
		t.Errorf("expected 1 pull, got %d", len(b.pulls))
	}
	if len(obs.events) != 1 || obs.events[0] != 1 {
		t.Errorf("expected a single completion event, got %v", obs.events)
	}
}

func TestLoadFailureLeavesNotLoaded(t *testing.T) {
	b := &mockBackend{}
	s := NewSession(b)
	ctx := context.Background()

	if err := s.Load(ctx, "phi", nil); err != nil {
		t.Fatalf("Load: %v", err)
	}

	b.pullErr = errors.New("disk full")
	obs := &recordingObserver{}
	b.progress = []float64{0.3}
	if err := s.Load(ctx, "tinyllama", obs); err == nil {
		t.Fatal("expected load error")
	}

	if s.Loaded() || s.ModelID() != "" {
		t.Errorf("expected no model loaded after failure, got %q", s.ModelID())
	}
	for _, e := range obs.events {
		if e == 1 {
			t.Error("completion must not be reported for a failed load")
		}
	}
	if _, err := s.Generate(ctx, "hi", DefaultOptions(), nil); !errors.Is(err, ErrNotLoaded) {
		t.Errorf("expected ErrNotLoaded, got %v", err)
	}
}

func TestGenerate(t *testing.T) {
	b := &mockBackend{text: "Hello!", tokens: []string{"Hel", "lo!"}}
	s := NewSession(b)
	ctx := context.Background()

	if _, err := s.Generate(ctx, "hi", DefaultOptions(), nil); !errors.Is(err, ErrNotLoaded) {
		t.Fatalf("expected ErrNotLoaded before load, got %v", err)
	}

	if err := s.Load(ctx, "tinyllama", nil); err != nil {
		t.Fatalf("Load: %v", err)
	}

	var streamed []string
	text, err := s.Generate(ctx, "User: hi\nAssistant:", Options{Temperature: 0.2, DoSample: true}, func(tok string) {
		streamed = append(streamed, tok)
	})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if text != "Hello!" || len(streamed) != 2 {
		t.Errorf("text = %q, streamed = %v", text, streamed)
	}
	if b.lastParam.Model != "tinyllama" || b.lastParam.MaxTokens != 256 || b.lastParam.Temperature != 0.2 {
		t.Errorf("unexpected params %+v", b.lastParam)
	}

	if _, err := s.Generate(ctx, "  ", DefaultOptions(), nil); err == nil {
		t.Error("expected error for empty prompt")
	}
}

func TestSessionsAreIndependent(t *testing.T) {
	a := NewSession(&mockBackend{})
	b := NewSession(&mockBackend{})

	if err := a.Load(context.Background(), "phi", nil); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if b.Loaded() {
		t.Error("loading one session must not affect another")
	}
}

func TestFindModel(t *testing.T) {
	m, ok := FindModel("tinyllama")
	if !ok || m.Name != "TinyLlama 1.1B" {
		t.Errorf("FindModel(tinyllama) = %+v, %v", m, ok)
	}
	if _, ok := FindModel("gpt-9"); ok {
		t.Error("unknown model should not be found")
	}
	if len(CatalogIDs()) != len(Catalog) {
		t.Error("CatalogIDs length mismatch")
	}
}
