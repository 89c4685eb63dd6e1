package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/manifoldco/promptui"
)

// TokenEnvVar names the environment variable holding the hosted inference
// credential. It is never written to the config file.
const TokenEnvVar = "HUGGINGFACE_API_TOKEN"

// RunWizard runs an interactive configuration wizard, saves the result to
// path and returns it. models lists the local runtime models offered for
// selection; when empty the default model is kept.
func RunWizard(path string, models []string) (*Config, error) {
	fmt.Println("Welcome to cadena! Let's configure your workspace.")
	fmt.Println()

	cfg := DefaultConfig()

	// 1. Local model.
	if len(models) > 0 {
		modelPrompt := promptui.Select{
			Label: "Select the offline chat model",
			Items: models,
		}
		_, model, err := modelPrompt.Run()
		if err != nil {
			return nil, fmt.Errorf("model selection: %w", err)
		}
		cfg.Runtime.Model = model
	}

	// 2. Runtime host.
	hostPrompt := promptui.Prompt{
		Label:   "Local model runtime URL",
		Default: cfg.Runtime.Host,
	}
	host, err := hostPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("runtime host: %w", err)
	}
	cfg.Runtime.Host = strings.TrimSpace(host)

	// 3. Data directory.
	dataPrompt := promptui.Prompt{
		Label:   "Data directory",
		Default: cfg.DataDir,
	}
	dataDir, err := dataPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("data dir: %w", err)
	}
	cfg.DataDir = strings.TrimSpace(dataDir)

	// 4. Server port.
	portPrompt := promptui.Prompt{
		Label:    "Server port",
		Default:  strconv.Itoa(cfg.Server.Port),
		Validate: validateInt(0, 65535),
	}
	portStr, err := portPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("server port: %w", err)
	}
	cfg.Server.Port, _ = strconv.Atoi(strings.TrimSpace(portStr))

	// 5. Chat temperature.
	tempPrompt := promptui.Prompt{
		Label:    "Chat temperature (0-2)",
		Default:  strconv.FormatFloat(cfg.Chat.Temperature, 'f', -1, 64),
		Validate: validateFloat(0, 2),
	}
	tempStr, err := tempPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("chat temperature: %w", err)
	}
	cfg.Chat.Temperature, _ = strconv.ParseFloat(strings.TrimSpace(tempStr), 64)

	// 6. Extra tournament hosts.
	hostsPrompt := promptui.Prompt{
		Label:   "Extra tournament hosts (comma-separated, leave blank for defaults)",
		Default: "",
	}
	hostsStr, err := hostsPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("allowed hosts: %w", err)
	}
	cfg.Chess.AllowedHosts = append(cfg.Chess.AllowedHosts, splitAndTrim(hostsStr)...)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if os.Getenv(TokenEnvVar) == "" {
		fmt.Printf("\nNote: Set %s in your environment before running cadena generate.\n", TokenEnvVar)
	}

	if err := cfg.Save(path); err != nil {
		return nil, fmt.Errorf("saving config: %w", err)
	}

	fmt.Printf("\nConfiguration saved to %s\n", path)
	return cfg, nil
}

func validateInt(min, max int) promptui.ValidateFunc {
	return func(s string) error {
		n, err := strconv.Atoi(strings.TrimSpace(s))
		if err != nil {
			return fmt.Errorf("not a number")
		}
		if n < min || n > max {
			return fmt.Errorf("must be between %d and %d", min, max)
		}
		return nil
	}
}

func validateFloat(min, max float64) promptui.ValidateFunc {
	return func(s string) error {
		f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return fmt.Errorf("not a number")
		}
		if f < min || f > max {
			return fmt.Errorf("must be between %g and %g", min, max)
		}
		return nil
	}
}

// splitAndTrim splits a comma-separated string and drops empty entries.
func splitAndTrim(s string) []string {
	var result []string
	for _, part := range strings.Split(s, ",") {
		if token := strings.TrimSpace(part); token != "" {
			result = append(result, token)
		}
	}
	return result
}
