// Package mcp exposes text generation and tournament analysis as Model
// Context Protocol tools over stdio.
package mcp

import (
	"github.com/mark3labs/mcp-go/server"

	"github.com/ziadkadry99/cadena/internal/chess"
)

// Version is set via ldflags at build time.
var Version = "dev"

// Server wraps an MCP server exposing cadena's tools.
type Server struct {
	gen     chess.Generator
	analyst *chess.Analyst
	mcp     *server.MCPServer
}

// NewServer creates a new MCP server. gen answers generate_text; analyst
// answers the tournament tools.
func NewServer(gen chess.Generator, analyst *chess.Analyst) *Server {
	s := &Server{
		gen:     gen,
		analyst: analyst,
	}

	s.mcp = server.NewMCPServer(
		"cadena",
		Version,
		server.WithToolCapabilities(false),
	)

	s.registerTools()

	return s
}

// registerTools adds all tool definitions and their handlers to the MCP server.
func (s *Server) registerTools() {
	s.mcp.AddTool(generateTextTool, s.handleGenerateText)
	s.mcp.AddTool(expandChessLinkTool, s.handleExpandChessLink)
	s.mcp.AddTool(chessQuestionTool, s.handleChessQuestion)
	s.mcp.AddTool(chessReportTool, s.handleChessReport)
}

// Serve starts the MCP server on stdio. Stdout is used for MCP protocol
// messages; all logging must go to stderr.
func (s *Server) Serve() error {
	return server.ServeStdio(s.mcp)
}
