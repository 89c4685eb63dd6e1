package prompt

import (
	"fmt"
	"strings"
	"text/template"
)

// ConversationData fills the tournament question prompt.
type ConversationData struct {
	Name       string
	Context    string
	Transcript string
	Question   string
}

// DeepDiveData fills the player deep dive prompt.
type DeepDiveData struct {
	Author  string
	Player  string
	Context string
}

// ForecastData fills the battle forecast prompt.
type ForecastData struct {
	Name    string
	Context string
}

var conversationTmpl = template.Must(template.New("conversation").Parse(
	`You are a chess insight assistant. The user's name is {{.Name}}.
Tournament context (truncated excerpts may contain standings/pairings):
---
{{.Context}}
---

Conversation so far:
{{if .Transcript}}{{.Transcript}}{{else}}(no prior conversation){{end}}

User question: {{.Question}}

Provide a concise, accurate answer grounded in the provided tournament context when possible. If data is missing in the context, use general chess knowledge but avoid fabricating specific results. Reply clearly.`))

var deepDiveTmpl = template.Must(template.New("deepdive").Parse(
	`You are a world-class chess analyst. Generate a detailed Deep Dive report for the player "{{.Player}}".

Author name: {{.Author}}
Source: chess-results.com pages (HTML excerpts below). Focus on accuracy.

Context (multiple rounds and pairings, truncated):
---
{{.Context}}
---

Write a well-structured markdown report including:
1. Overall Performance (final rank, points, performance rating if available)
2. Round-by-Round Breakdown (opponent, result, notable details)
3. Key Game Analysis (1-2 crucial games)

Do not mention that you are reading HTML or that content is truncated.`))

var forecastTmpl = template.Must(template.New("forecast").Parse(
	`You are a chess analyst with a knack for prediction. Generate a "Battle Forecast" for {{.Name}} based on current tournament context below.

Context (standings/pairings excerpts, truncated):
---
{{.Context}}
---

Tasks:
- Determine current standings and scores (as available in context)
- Apply Swiss pairing logic at a high level (similar scores play, avoid rematches)
- List the top 3 most likely opponents for {{.Name}}
- For each, provide a one-sentence summary of their strength or recent performance

Output a clean, well-formatted markdown section starting with the heading: "Battle Forecast".`))

// Conversation builds the prompt for a follow-up question about a tournament.
func Conversation(d ConversationData) (string, error) {
	return execute(conversationTmpl, d)
}

// DeepDive builds the prompt for a single player's performance report.
func DeepDive(d DeepDiveData) (string, error) {
	return execute(deepDiveTmpl, d)
}

// Forecast builds the prompt predicting the next opponents.
func Forecast(d ForecastData) (string, error) {
	return execute(forecastTmpl, d)
}

// JoinPages separates fetched pages with a horizontal rule.
func JoinPages(pages []string) string {
	return strings.Join(pages, "\n\n---\n\n")
}

// NumberedPages labels each page with its position before joining them.
func NumberedPages(pages []string) string {
	labelled := make([]string, len(pages))
	for i, p := range pages {
		labelled[i] = fmt.Sprintf("URL %d:\n%s", i+1, p)
	}
	return JoinPages(labelled)
}

func execute(t *template.Template, data any) (string, error) {
	var b strings.Builder
	if err := t.Execute(&b, data); err != nil {
		return "", fmt.Errorf("rendering %s prompt: %w", t.Name(), err)
	}
	return b.String(), nil
}
