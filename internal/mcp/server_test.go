package mcp

import (
	"context"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/ziadkadry99/cadena/internal/chess"
	"github.com/ziadkadry99/cadena/internal/generation"
)

// mockGenerator records the last request and replies with a fixed text.
type mockGenerator struct {
	last generation.Request
	text string
	err  error
}

func (m *mockGenerator) Generate(_ context.Context, req generation.Request) (*generation.Response, error) {
	m.last = req
	if m.err != nil {
		return nil, m.err
	}
	return &generation.Response{Text: m.text, FinishReason: generation.FinishCompleted}, nil
}

type emptyPages struct{}

func (emptyPages) FetchAll(_ context.Context, urls []string, _ int) []string {
	return make([]string, len(urls))
}

func newTestServer(gen *mockGenerator) *Server {
	return NewServer(gen, chess.NewAnalyst(gen, emptyPages{}))
}

func callTool(args map[string]any) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args
	return req
}

func resultText(result *mcp.CallToolResult) string {
	var b strings.Builder
	for _, c := range result.Content {
		if tc, ok := c.(mcp.TextContent); ok {
			b.WriteString(tc.Text)
		}
	}
	return b.String()
}

func TestToolDefinitions(t *testing.T) {
	tests := []struct {
		name     string
		tool     mcp.Tool
		wantName string
	}{
		{"generate_text", generateTextTool, "generate_text"},
		{"expand_chess_link", expandChessLinkTool, "expand_chess_link"},
		{"chess_question", chessQuestionTool, "chess_question"},
		{"chess_report", chessReportTool, "chess_report"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.tool.Name != tt.wantName {
				t.Errorf("tool name = %q, want %q", tt.tool.Name, tt.wantName)
			}
			if tt.tool.Description == "" {
				t.Error("tool description should not be empty")
			}
		})
	}
}

func TestNewServer(t *testing.T) {
	srv := newTestServer(&mockGenerator{})
	if srv == nil || srv.mcp == nil {
		t.Fatal("MCP server not initialized")
	}
}

func TestHandleGenerateText(t *testing.T) {
	gen := &mockGenerator{text: "world"}
	srv := newTestServer(gen)
	ctx := context.Background()

	t.Run("defaults", func(t *testing.T) {
		result, err := srv.handleGenerateText(ctx, callTool(map[string]any{"prompt": "hello"}))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.IsError || resultText(result) != "world" {
			t.Fatalf("unexpected result: %+v", result)
		}
		if gen.last.MaxTokens != 512 || gen.last.Temperature != 0.7 || gen.last.TopP != 0.95 {
			t.Errorf("expected defaults, got %+v", gen.last)
		}
	})

	t.Run("overrides", func(t *testing.T) {
		_, err := srv.handleGenerateText(ctx, callTool(map[string]any{
			"prompt":      "hello",
			"max_tokens":  float64(64),
			"temperature": 0.2,
		}))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if gen.last.MaxTokens != 64 || gen.last.Temperature != 0.2 {
			t.Errorf("expected overrides, got %+v", gen.last)
		}
	})

	t.Run("missing prompt", func(t *testing.T) {
		result, _ := srv.handleGenerateText(ctx, callTool(map[string]any{}))
		if !result.IsError {
			t.Error("expected error for missing prompt")
		}
	})

	t.Run("generation failure", func(t *testing.T) {
		failing := newTestServer(&mockGenerator{err: &generation.Error{Kind: generation.ErrRateLimited, Message: "rate limited"}})
		result, _ := failing.handleGenerateText(ctx, callTool(map[string]any{"prompt": "hello"}))
		if !result.IsError || !strings.Contains(resultText(result), "rate limited") {
			t.Errorf("expected tool error, got %+v", result)
		}
	})
}

func TestHandleExpandChessLink(t *testing.T) {
	srv := newTestServer(&mockGenerator{})
	result, err := srv.handleExpandChessLink(context.Background(), callTool(map[string]any{
		"link": "https://chess-results.com/tnr1.aspx?rd=2",
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if lines := strings.Split(resultText(result), "\n"); len(lines) != 4 {
		t.Errorf("expected 4 urls, got %v", lines)
	}
}

func TestHandleChessTools(t *testing.T) {
	gen := &mockGenerator{text: "analysis"}
	srv := newTestServer(gen)
	ctx := context.Background()
	link := "https://chess-results.com/tnr1.aspx?rd=3"

	result, _ := srv.handleChessQuestion(ctx, callTool(map[string]any{"name": "Ben", "link": link, "question": "Who leads?"}))
	if result.IsError || resultText(result) != "analysis" {
		t.Errorf("chess_question: %+v", result)
	}
	if gen.last.Temperature != 0.3 {
		t.Errorf("expected question sampling, got %+v", gen.last)
	}

	result, _ = srv.handleChessReport(ctx, callTool(map[string]any{"kind": "forecast", "name": "Ben", "link": link}))
	if result.IsError || gen.last.MaxTokens != 768 {
		t.Errorf("forecast: %+v / %+v", result, gen.last)
	}

	result, _ = srv.handleChessReport(ctx, callTool(map[string]any{"kind": "deep_dive", "name": "Ben", "link": link}))
	if !result.IsError {
		t.Error("deep_dive without player should fail")
	}

	result, _ = srv.handleChessReport(ctx, callTool(map[string]any{"kind": "deep_dive", "name": "Ben", "link": link, "player": "Ana"}))
	if result.IsError || gen.last.MaxTokens != 1024 {
		t.Errorf("deep_dive: %+v / %+v", result, gen.last)
	}

	result, _ = srv.handleChessReport(ctx, callTool(map[string]any{"kind": "summary", "name": "Ben", "link": link}))
	if !result.IsError {
		t.Error("unknown kind should fail")
	}
}
