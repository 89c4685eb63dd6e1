package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	mcpserver "github.com/ziadkadry99/cadena/internal/mcp"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server for AI agent integration",
	Long:  `Starts a Model Context Protocol (MCP) server on stdio, exposing text generation and tournament analysis tools for AI agents.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		gen := newGenerationClient()
		analyst := newAnalyst(cfg, gen)

		// Set version from the cmd package variable.
		mcpserver.Version = Version

		fmt.Fprintf(os.Stderr, "cadena MCP server started on stdio (credential=%s)\n", credentialStatus())

		srv := mcpserver.NewServer(gen, analyst)
		return srv.Serve()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
