package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/cadena/internal/chess"
	"github.com/ziadkadry99/cadena/internal/render"
)

var (
	chessName   string
	chessLink   string
	chessPlayer string
	chessHTML   bool
)

var chessCmd = &cobra.Command{
	Use:   "chess",
	Short: "Analyse a chess-results.com tournament",
	Long: `Answers questions about a tournament, writes player deep dives and
battle forecasts using the hosted model. Round links are expanded to earlier
rounds and fetched for context.`,
}

var chessLinksCmd = &cobra.Command{
	Use:   "links <url>",
	Short: "Print the round URLs fetched for a tournament link",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, u := range chess.ExpandLink(args[0]) {
			fmt.Fprintln(cmd.OutOrStdout(), u)
		}
		return nil
	},
}

var chessAskCmd = &cobra.Command{
	Use:   "ask <question>",
	Short: "Ask a question about the tournament",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		analyst, err := chessAnalyst(args[0])
		if err != nil {
			return err
		}
		answer, err := analyst.Ask(cmd.Context(), chess.AskInput{
			Name:     chessName,
			Link:     chessLink,
			Question: args[0],
		})
		if err != nil {
			return err
		}
		return printReport("Tournament answer", answer)
	},
}

var chessDeepDiveCmd = &cobra.Command{
	Use:   "deep-dive",
	Short: "Write a player-focused tournament analysis",
	RunE: func(cmd *cobra.Command, args []string) error {
		analyst, err := chessAnalyst("")
		if err != nil {
			return err
		}
		report, err := analyst.DeepDive(cmd.Context(), chessName, chessLink, chessPlayer)
		if err != nil {
			return err
		}
		return printReport(chessName+" deep dive", report)
	},
}

var chessForecastCmd = &cobra.Command{
	Use:   "forecast",
	Short: "Forecast the remaining rounds of the tournament",
	RunE: func(cmd *cobra.Command, args []string) error {
		analyst, err := chessAnalyst("")
		if err != nil {
			return err
		}
		report, err := analyst.BattleForecast(cmd.Context(), chessName, chessLink)
		if err != nil {
			return err
		}
		return printReport(chessName+" battle forecast", report)
	},
}

// chessAnalyst validates the tournament flags and builds the analyst.
func chessAnalyst(question string) (*chess.Analyst, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	err = chess.NewDetailsValidator(cfg.Chess.AllowedHosts).Validate(chess.Details{
		Name:     chessName,
		Link:     chessLink,
		Question: question,
	})
	var verr *chess.ValidationError
	if errors.As(err, &verr) {
		for _, f := range verr.Fields {
			fmt.Fprintf(os.Stderr, "  %s: %s\n", f.Field, f.Message)
		}
		return nil, fmt.Errorf("invalid tournament details")
	}
	if err != nil {
		return nil, err
	}
	return newAnalyst(cfg, newGenerationClient()), nil
}

func printReport(title, markdown string) error {
	if !chessHTML {
		fmt.Println(markdown)
		return nil
	}
	page, err := render.New().Page(title, markdown)
	if err != nil {
		return err
	}
	fmt.Print(page)
	return nil
}

func init() {
	for _, c := range []*cobra.Command{chessAskCmd, chessDeepDiveCmd, chessForecastCmd} {
		c.Flags().StringVar(&chessName, "name", "", "tournament name")
		c.Flags().StringVar(&chessLink, "link", "", "chess-results.com tournament URL")
		c.Flags().BoolVar(&chessHTML, "html", false, "print a standalone HTML page instead of markdown")
	}
	chessDeepDiveCmd.Flags().StringVar(&chessPlayer, "player", "", "player to focus on (optional)")

	chessCmd.AddCommand(chessLinksCmd, chessAskCmd, chessDeepDiveCmd, chessForecastCmd)
	rootCmd.AddCommand(chessCmd)
}
