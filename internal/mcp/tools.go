package mcp

import "github.com/mark3labs/mcp-go/mcp"

// generateTextTool defines the generate_text MCP tool.
var generateTextTool = mcp.NewTool("generate_text",
	mcp.WithDescription("Generate text from a prompt with the hosted instruction-tuned model. Transient upstream failures are retried automatically."),
	mcp.WithString("prompt",
		mcp.Required(),
		mcp.Description("The full prompt to complete"),
	),
	mcp.WithNumber("max_tokens",
		mcp.Description("Maximum new tokens, 1-2048 (default 512)"),
	),
	mcp.WithNumber("temperature",
		mcp.Description("Sampling temperature, 0-2 (default 0.7)"),
	),
	mcp.WithNumber("top_p",
		mcp.Description("Nucleus sampling threshold, above 0 and at most 1 (default 0.95)"),
	),
)

// expandChessLinkTool defines the expand_chess_link MCP tool.
var expandChessLinkTool = mcp.NewTool("expand_chess_link",
	mcp.WithDescription("Expand a chess-results.com tournament link into the standings and pairings pages of every round up to the linked one."),
	mcp.WithString("link",
		mcp.Required(),
		mcp.Description("Tournament link, e.g. https://chess-results.com/tnr123.aspx?rd=5"),
	),
)

// chessQuestionTool defines the chess_question MCP tool.
var chessQuestionTool = mcp.NewTool("chess_question",
	mcp.WithDescription("Answer a question about a tournament using its latest standings and pairings."),
	mcp.WithString("name",
		mcp.Required(),
		mcp.Description("Name of the person asking"),
	),
	mcp.WithString("link",
		mcp.Required(),
		mcp.Description("chess-results.com tournament link"),
	),
	mcp.WithString("question",
		mcp.Required(),
		mcp.Description("The question to answer"),
	),
)

// chessReportTool defines the chess_report MCP tool.
var chessReportTool = mcp.NewTool("chess_report",
	mcp.WithDescription("Write a markdown report about a tournament: a player's deep dive or a forecast of the next opponents."),
	mcp.WithString("kind",
		mcp.Required(),
		mcp.Description("Report to write"),
		mcp.Enum("deep_dive", "forecast"),
	),
	mcp.WithString("name",
		mcp.Required(),
		mcp.Description("Name of the author, and the player forecast for"),
	),
	mcp.WithString("link",
		mcp.Required(),
		mcp.Description("chess-results.com tournament link"),
	),
	mcp.WithString("player",
		mcp.Description("Player analysed by a deep_dive report"),
	),
)
