package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/ziadkadry99/cadena/internal/chess"
	"github.com/ziadkadry99/cadena/internal/generation"
)

// handleGenerateText sends a prompt to the hosted model.
func (s *Server) handleGenerateText(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	prompt, err := request.RequireString("prompt")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: prompt"), nil
	}

	req := generation.NewRequest(prompt,
		generation.WithMaxTokens(request.GetInt("max_tokens", generation.DefaultMaxTokens)),
		generation.WithTemperature(request.GetFloat("temperature", generation.DefaultTemperature)),
		generation.WithTopP(request.GetFloat("top_p", generation.DefaultTopP)),
	)

	resp, err := s.gen.Generate(ctx, req)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("generation failed: %v", err)), nil
	}
	return mcp.NewToolResultText(resp.Text), nil
}

// handleExpandChessLink lists the pages a tournament link expands to.
func (s *Server) handleExpandChessLink(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	link, err := request.RequireString("link")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: link"), nil
	}
	return mcp.NewToolResultText(strings.Join(chess.ExpandLink(link), "\n")), nil
}

// handleChessQuestion answers a single question about a tournament.
func (s *Server) handleChessQuestion(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := request.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: name"), nil
	}
	link, err := request.RequireString("link")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: link"), nil
	}
	question, err := request.RequireString("question")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: question"), nil
	}

	answer, err := s.analyst.Ask(ctx, chess.AskInput{Name: name, Link: link, Question: question})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("question failed: %v", err)), nil
	}
	return mcp.NewToolResultText(answer), nil
}

// handleChessReport writes a deep dive or battle forecast.
func (s *Server) handleChessReport(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	kind, err := request.RequireString("kind")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: kind"), nil
	}
	name, err := request.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: name"), nil
	}
	link, err := request.RequireString("link")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: link"), nil
	}

	var report string
	switch kind {
	case "deep_dive":
		player := request.GetString("player", "")
		if player == "" {
			return mcp.NewToolResultError("deep_dive requires the player parameter"), nil
		}
		report, err = s.analyst.DeepDive(ctx, name, link, player)
	case "forecast":
		report, err = s.analyst.BattleForecast(ctx, name, link)
	default:
		return mcp.NewToolResultError(fmt.Sprintf("unknown report kind %q", kind)), nil
	}
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("report failed: %v", err)), nil
	}
	return mcp.NewToolResultText(report), nil
}
