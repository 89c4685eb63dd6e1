package localmodel

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
)

// ErrNotLoaded is returned by Generate before a model has been loaded.
var ErrNotLoaded = errors.New("model not loaded: select and download a model first")

// ProgressObserver receives load progress as a fraction in [0,1].
type ProgressObserver interface {
	Progress(fraction float64)
}

// ProgressFunc adapts a function to ProgressObserver.
type ProgressFunc func(fraction float64)

func (f ProgressFunc) Progress(fraction float64) { f(fraction) }

// Options control a single local generation.
type Options struct {
	Temperature float64
	MaxTokens   int
	DoSample    bool
}

// DefaultOptions returns the offline chatbot's sampling defaults.
func DefaultOptions() Options {
	return Options{Temperature: 0.7, MaxTokens: 256, DoSample: true}
}

// Session owns one loaded model. It is safe for concurrent use; Load holds
// the session for its whole duration, so Generate waits for a load in progress.
type Session struct {
	backend Backend

	mu      sync.Mutex
	modelID string
	loaded  bool
}

// NewSession creates a session with nothing loaded.
func NewSession(backend Backend) *Session {
	return &Session{backend: backend}
}

// Load makes modelID the session's model. Loading the model that is already
// loaded does no work. On failure the session is left with no model loaded.
// obs, when non-nil, sees non-decreasing fractions ending with a single 1.0
// on success.
func (s *Session) Load(ctx context.Context, modelID string, obs ProgressObserver) error {
	modelID = strings.TrimSpace(modelID)
	if modelID == "" {
		return fmt.Errorf("model id is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.loaded && s.modelID == modelID {
		if obs != nil {
			obs.Progress(1)
		}
		return nil
	}

	s.loaded = false
	s.modelID = ""

	mp := &monotonicProgress{obs: obs}
	if err := s.backend.Pull(ctx, modelID, mp.report); err != nil {
		return fmt.Errorf("failed to load model: %w", err)
	}

	s.modelID = modelID
	s.loaded = true
	mp.complete()
	return nil
}

// Loaded reports whether a model is ready for Generate.
func (s *Session) Loaded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loaded
}

// ModelID returns the loaded model, or "" when none is loaded.
func (s *Session) ModelID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.modelID
}

// Generate runs prompt through the loaded model. A non-positive MaxTokens
// falls back to the default.
func (s *Session) Generate(ctx context.Context, prompt string, opts Options, onToken func(token string)) (string, error) {
	s.mu.Lock()
	model, loaded := s.modelID, s.loaded
	s.mu.Unlock()

	if !loaded {
		return "", ErrNotLoaded
	}
	if strings.TrimSpace(prompt) == "" {
		return "", fmt.Errorf("prompt cannot be empty")
	}
	if opts.MaxTokens <= 0 {
		opts.MaxTokens = DefaultOptions().MaxTokens
	}

	text, err := s.backend.Generate(ctx, GenerateParams{
		Model:       model,
		Prompt:      prompt,
		Temperature: opts.Temperature,
		MaxTokens:   opts.MaxTokens,
		DoSample:    opts.DoSample,
	}, onToken)
	if err != nil {
		return "", fmt.Errorf("failed to generate text: %w", err)
	}
	return text, nil
}

// monotonicProgress forwards backend fractions to an observer, dropping any
// that would move backwards and holding 1.0 back until the load has finished.
type monotonicProgress struct {
	obs  ProgressObserver
	last float64
}

func (m *monotonicProgress) report(fraction float64) {
	if m.obs == nil || !(fraction > m.last) || fraction >= 1 {
		return
	}
	m.last = fraction
	m.obs.Progress(fraction)
}

func (m *monotonicProgress) complete() {
	if m.obs == nil {
		return
	}
	m.last = 1
	m.obs.Progress(1)
}
