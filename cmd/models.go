package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/cadena/internal/localmodel"
	"github.com/ziadkadry99/cadena/internal/storage"
)

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "Manage offline chat models",
}

var modelsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List catalog models and what the local runtime has installed",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		database, err := openDatabase(cfg)
		if err != nil {
			return err
		}
		defer database.Close()

		_, backend, err := newChatbot(cfg, database)
		if err != nil {
			return err
		}

		installed := make(map[string]bool)
		names, err := backend.List(cmd.Context())
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: could not reach runtime at %s: %v\n", cfg.Runtime.Host, err)
		}
		for _, n := range names {
			installed[n] = true
		}

		current := ""
		if stored, err := storage.NewModelStore(database).Current(cmd.Context()); err == nil {
			current = stored.ID
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tSIZE\tINSTALLED\tSELECTED")
		for _, m := range localmodel.Catalog {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", m.ID, m.Name, m.Size, yesNo(installed[m.ID]), yesNo(m.ID == current))
		}
		return w.Flush()
	},
}

var modelsPullCmd = &cobra.Command{
	Use:   "pull [model]",
	Short: "Download and select a model (defaults to runtime.model)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		database, err := openDatabase(cfg)
		if err != nil {
			return err
		}
		defer database.Close()

		bot, _, err := newChatbot(cfg, database)
		if err != nil {
			return err
		}

		modelID := cfg.Runtime.Model
		if len(args) == 1 {
			modelID = args[0]
		}
		if _, ok := localmodel.FindModel(modelID); !ok {
			fmt.Fprintf(os.Stderr, "Note: %s is not in the catalog, pulling it anyway\n", modelID)
		}
		if err := loadWithProgress(cmd.Context(), bot, modelID); err != nil {
			return err
		}
		fmt.Printf("%s is ready.\n", modelID)
		return nil
	},
}

var modelsClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Forget the selected model and wipe the chat history",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		database, err := openDatabase(cfg)
		if err != nil {
			return err
		}
		defer database.Close()

		bot, _, err := newChatbot(cfg, database)
		if err != nil {
			return err
		}
		if err := bot.ClearModel(cmd.Context()); err != nil {
			return err
		}
		fmt.Println("Model selection and chat history cleared.")
		return nil
	},
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "-"
}

func init() {
	modelsCmd.AddCommand(modelsListCmd, modelsPullCmd, modelsClearCmd)
	rootCmd.AddCommand(modelsCmd)
}
