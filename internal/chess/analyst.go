package chess

import (
	"context"
	"fmt"
	"strings"

	"github.com/ziadkadry99/cadena/internal/generation"
	"github.com/ziadkadry99/cadena/internal/prompt"
)

// Generator produces model output for a request. *generation.Client satisfies it.
type Generator interface {
	Generate(ctx context.Context, req generation.Request) (*generation.Response, error)
}

// PageFetcher downloads pages in input order. *Fetcher satisfies it.
type PageFetcher interface {
	FetchAll(ctx context.Context, urls []string, maxChars int) []string
}

// flow fixes how much context a kind of request pulls in and how it samples.
type flow struct {
	pages       int
	maxChars    int
	maxTokens   int
	temperature float64
}

var (
	askFlow      = flow{pages: 4, maxChars: 2000, maxTokens: 512, temperature: 0.3}
	deepDiveFlow = flow{pages: 6, maxChars: 3000, maxTokens: 1024, temperature: 0.5}
	forecastFlow = flow{pages: 6, maxChars: 2500, maxTokens: 768, temperature: 0.4}
)

// historyTurns is how many earlier turns a follow-up question carries.
const historyTurns = 6

// Analyst answers questions and writes reports about a tournament.
type Analyst struct {
	gen   Generator
	pages PageFetcher
}

// NewAnalyst creates an Analyst.
func NewAnalyst(gen Generator, pages PageFetcher) *Analyst {
	return &Analyst{gen: gen, pages: pages}
}

// AskInput is a follow-up question in a tournament conversation.
type AskInput struct {
	Name     string        `json:"name"`
	Link     string        `json:"link"`
	Question string        `json:"question"`
	History  []prompt.Turn `json:"history,omitempty"`
}

// Ask answers a question using the last few turns of history and excerpts
// of the tournament's latest pages.
func (a *Analyst) Ask(ctx context.Context, in AskInput) (string, error) {
	if strings.TrimSpace(in.Question) == "" {
		return "", fmt.Errorf("question is required")
	}

	var excerpts string
	if in.Link != "" {
		excerpts = prompt.JoinPages(a.fetch(ctx, in.Link, askFlow))
	}

	p, err := prompt.Conversation(prompt.ConversationData{
		Name:       in.Name,
		Context:    excerpts,
		Transcript: prompt.Transcript(prompt.Last(in.History, historyTurns)),
		Question:   in.Question,
	})
	if err != nil {
		return "", err
	}
	return a.generate(ctx, p, askFlow)
}

// DeepDive writes a markdown performance report for player.
func (a *Analyst) DeepDive(ctx context.Context, name, link, player string) (string, error) {
	if strings.TrimSpace(player) == "" {
		return "", fmt.Errorf("player name is required")
	}
	p, err := prompt.DeepDive(prompt.DeepDiveData{
		Author:  name,
		Player:  player,
		Context: prompt.NumberedPages(a.fetch(ctx, link, deepDiveFlow)),
	})
	if err != nil {
		return "", err
	}
	return a.generate(ctx, p, deepDiveFlow)
}

// BattleForecast writes a markdown forecast of name's likely next opponents.
func (a *Analyst) BattleForecast(ctx context.Context, name, link string) (string, error) {
	p, err := prompt.Forecast(prompt.ForecastData{
		Name:    name,
		Context: prompt.NumberedPages(a.fetch(ctx, link, forecastFlow)),
	})
	if err != nil {
		return "", err
	}
	return a.generate(ctx, p, forecastFlow)
}

func (a *Analyst) fetch(ctx context.Context, link string, f flow) []string {
	urls := ExpandLink(link)
	if len(urls) > f.pages {
		urls = urls[:f.pages]
	}
	return a.pages.FetchAll(ctx, urls, f.maxChars)
}

func (a *Analyst) generate(ctx context.Context, p string, f flow) (string, error) {
	resp, err := a.gen.Generate(ctx, generation.NewRequest(p,
		generation.WithMaxTokens(f.maxTokens),
		generation.WithTemperature(f.temperature),
	))
	if err != nil {
		return "", err
	}
	return resp.Text, nil
}
