package cmd

import (
	"github.com/spf13/cobra"

	"github.com/ziadkadry99/cadena/internal/config"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "cadena",
	Short: "Offline chatbot and chess tournament analysis",
	Long: `Cadena chats with a locally hosted model and analyses chess-results.com
tournaments with a hosted instruction-tuned model. Use it from the terminal,
through the web dashboard, or as an MCP server for AI agents.`,
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", config.DefaultConfigPath, "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
