// Package localmodel runs the offline chatbot against a model hosted by a
// local runtime. A Session is an explicit, caller-owned handle to the loaded
// model; independent sessions never share state.
package localmodel

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/ollama/ollama/api"
)

// GenerateParams are the sampling settings passed to a backend.
type GenerateParams struct {
	Model       string
	Prompt      string
	Temperature float64
	MaxTokens   int
	DoSample    bool
}

// Backend is the local model runtime a Session drives.
type Backend interface {
	// Pull makes model available locally, reporting download fractions in
	// [0,1] to fn. Fractions may reset between model layers.
	Pull(ctx context.Context, model string, fn func(fraction float64)) error

	// Generate produces text for p, passing each token to onToken when it is non-nil.
	Generate(ctx context.Context, p GenerateParams, onToken func(token string)) (string, error)

	// List returns the models already available locally.
	List(ctx context.Context) ([]string, error)
}

// OllamaBackend talks to a local Ollama daemon.
type OllamaBackend struct {
	client *api.Client
}

// NewOllamaBackend creates a backend for the runtime listening at host.
func NewOllamaBackend(host string) (*OllamaBackend, error) {
	base, err := url.Parse(host)
	if err != nil {
		return nil, fmt.Errorf("invalid runtime host %q: %w", host, err)
	}
	return &OllamaBackend{
		client: api.NewClient(base, &http.Client{Timeout: 30 * time.Minute}),
	}, nil
}

func (o *OllamaBackend) Pull(ctx context.Context, model string, fn func(fraction float64)) error {
	err := o.client.Pull(ctx, &api.PullRequest{Model: model}, func(p api.ProgressResponse) error {
		if fn != nil && p.Total > 0 {
			fn(float64(p.Completed) / float64(p.Total))
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("pulling %s: %w", model, err)
	}
	return nil
}

func (o *OllamaBackend) Generate(ctx context.Context, p GenerateParams, onToken func(token string)) (string, error) {
	stream := onToken != nil
	temperature := p.Temperature
	if !p.DoSample {
		temperature = 0
	}

	var out []byte
	err := o.client.Generate(ctx, &api.GenerateRequest{
		Model:  p.Model,
		Prompt: p.Prompt,
		Stream: &stream,
		Options: map[string]any{
			"temperature": temperature,
			"num_predict": p.MaxTokens,
		},
	}, func(resp api.GenerateResponse) error {
		out = append(out, resp.Response...)
		if onToken != nil && resp.Response != "" {
			onToken(resp.Response)
		}
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("generating with %s: %w", p.Model, err)
	}
	return string(out), nil
}

func (o *OllamaBackend) List(ctx context.Context) ([]string, error) {
	resp, err := o.client.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing models: %w", err)
	}
	names := make([]string, 0, len(resp.Models))
	for _, m := range resp.Models {
		names = append(names, m.Name)
	}
	return names, nil
}
