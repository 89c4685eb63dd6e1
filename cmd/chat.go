package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"github.com/ziadkadry99/cadena/internal/chatbot"
	"github.com/ziadkadry99/cadena/internal/localmodel"
	"github.com/ziadkadry99/cadena/internal/progress"
	"github.com/ziadkadry99/cadena/internal/storage"
)

var chatModel string

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Chat with a local model, offline",
	Long: `Starts an interactive chat with a model served by the local runtime.
The last selected model is restored automatically; otherwise you pick one
from the catalog and it is downloaded with a progress bar.

Commands: /clear clears the history, /settings edits temperature and max
tokens, /model switches models, /quit exits.`,
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
		settings := newSettingsStore(cfg, database)
		ctx := cmd.Context()

		if err := ensureModel(ctx, bot, chatModel); err != nil {
			return err
		}

		conv, err := bot.Conversation(ctx)
		if err != nil {
			return fmt.Errorf("opening conversation: %w", err)
		}

		fmt.Printf("Chatting with %s. Type /quit to exit.\n\n", bot.Session().ModelID())
		in := bufio.NewScanner(os.Stdin)
		for {
			fmt.Print("> ")
			if !in.Scan() {
				fmt.Println()
				return in.Err()
			}
			line := strings.TrimSpace(in.Text())
			switch line {
			case "":
				continue
			case "/quit", "/exit":
				return nil
			case "/clear":
				if err := bot.ClearChat(ctx, conv.ID); err != nil {
					return err
				}
				fmt.Println("History cleared.")
				continue
			case "/settings":
				if err := editSettings(ctx, settings); err != nil {
					fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				}
				continue
			case "/model":
				if err := selectModel(ctx, bot); err != nil {
					fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				}
				continue
			}

			_, err := bot.Send(ctx, conv.ID, line, func(token string) {
				fmt.Print(token)
			})
			fmt.Println()
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			}
			fmt.Println()
		}
	},
}

// ensureModel loads modelID when given, otherwise the stored model, and
// falls back to asking the user.
func ensureModel(ctx context.Context, bot *chatbot.Chatbot, modelID string) error {
	if modelID != "" {
		return loadWithProgress(ctx, bot, modelID)
	}

	reporter := progress.NewReporter()
	reporter.Start("Restoring model")
	stored, err := bot.Restore(ctx, reporter)
	reporter.Finish()
	switch {
	case err == nil:
		fmt.Printf("Restored %s.\n", stored.Name)
		return nil
	case errors.Is(err, storage.ErrNotFound):
		return selectModel(ctx, bot)
	default:
		fmt.Fprintf(os.Stderr, "Could not restore the previous model: %v\n", err)
		return selectModel(ctx, bot)
	}
}

// selectModel asks the user to pick a catalog model and loads it.
func selectModel(ctx context.Context, bot *chatbot.Chatbot) error {
	items := make([]string, len(localmodel.Catalog))
	for i, m := range localmodel.Catalog {
		items[i] = fmt.Sprintf("%s (%s) - %s", m.Name, m.Size, m.Description)
	}
	sel := promptui.Select{
		Label: "Select a model",
		Items: items,
	}
	idx, _, err := sel.Run()
	if err != nil {
		return fmt.Errorf("model selection: %w", err)
	}
	return loadWithProgress(ctx, bot, localmodel.Catalog[idx].ID)
}

func loadWithProgress(ctx context.Context, bot *chatbot.Chatbot, modelID string) error {
	reporter := progress.NewReporter()
	reporter.Start("Loading " + modelID)
	err := bot.SelectModel(ctx, modelID, reporter)
	reporter.Finish()
	if err != nil {
		return fmt.Errorf("loading %s: %w", modelID, err)
	}
	return nil
}

// editSettings prompts for the chat generation settings and saves them.
func editSettings(ctx context.Context, store *storage.SettingsStore) error {
	current, err := store.Get(ctx)
	if err != nil {
		return err
	}

	tempPrompt := promptui.Prompt{
		Label:   "Temperature (0-2)",
		Default: strconv.FormatFloat(current.Temperature, 'f', -1, 64),
		Validate: func(s string) error {
			if _, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err != nil {
				return fmt.Errorf("must be a number")
			}
			return nil
		},
	}
	tempStr, err := tempPrompt.Run()
	if err != nil {
		return err
	}

	tokensPrompt := promptui.Prompt{
		Label:   "Max tokens (1-2048)",
		Default: strconv.Itoa(current.MaxTokens),
		Validate: func(s string) error {
			if _, err := strconv.Atoi(strings.TrimSpace(s)); err != nil {
				return fmt.Errorf("must be a whole number")
			}
			return nil
		},
	}
	tokensStr, err := tokensPrompt.Run()
	if err != nil {
		return err
	}

	current.Temperature, _ = strconv.ParseFloat(strings.TrimSpace(tempStr), 64)
	current.MaxTokens, _ = strconv.Atoi(strings.TrimSpace(tokensStr))
	if err := store.Save(ctx, current); err != nil {
		return err
	}
	fmt.Println("Settings saved.")
	return nil
}

func init() {
	chatCmd.Flags().StringVar(&chatModel, "model", "", "model to load instead of the stored one")
	rootCmd.AddCommand(chatCmd)
}
