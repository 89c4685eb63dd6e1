package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/cadena/internal/generation"
)

var (
	genMaxTokens   int
	genTemperature float64
	genTopP        float64
)

var generateCmd = &cobra.Command{
	Use:   "generate [prompt]",
	Short: "Generate text with the hosted model",
	Long: `Sends a prompt to the hosted inference API and prints the completion.
Pass "-" or no argument to read the prompt from stdin. Rate limiting and
model warm-up are retried after 1s, 3s and 7s before giving up.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		prompt, err := readPrompt(args, cmd.InOrStdin())
		if err != nil {
			return err
		}

		req := generation.NewRequest(prompt,
			generation.WithMaxTokens(genMaxTokens),
			generation.WithTemperature(genTemperature),
			generation.WithTopP(genTopP),
		)

		resp, err := newGenerationClient().Generate(cmd.Context(), req)
		if err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), resp.Text)
		if verbose {
			fmt.Fprintf(os.Stderr, "finish reason: %s\n", resp.FinishReason)
		}
		return nil
	},
}

func readPrompt(args []string, stdin io.Reader) (string, error) {
	if len(args) == 1 && args[0] != "-" {
		return args[0], nil
	}
	data, err := io.ReadAll(stdin)
	if err != nil {
		return "", fmt.Errorf("reading prompt from stdin: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}

func init() {
	generateCmd.Flags().IntVar(&genMaxTokens, "max-tokens", generation.DefaultMaxTokens, "maximum new tokens (1-2048)")
	generateCmd.Flags().Float64Var(&genTemperature, "temperature", generation.DefaultTemperature, "sampling temperature (0-2)")
	generateCmd.Flags().Float64Var(&genTopP, "top-p", generation.DefaultTopP, "nucleus sampling threshold (0-1]")
	rootCmd.AddCommand(generateCmd)
}
