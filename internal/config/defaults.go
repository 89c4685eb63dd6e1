package config

// DefaultConfigPath is where the CLI looks for its configuration.
const DefaultConfigPath = ".cadena.yml"

// DefaultAllowedHosts are the tournament hosts pages may be fetched from.
var DefaultAllowedHosts = []string{
	"chess-results.com",
	"*.chess-results.com",
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		DataDir: ".cadena",
		Server: ServerConfig{
			Port:            8080,
			AllowAllOrigins: false,
		},
		Runtime: RuntimeConfig{
			Host:  "http://localhost:11434",
			Model: "tinyllama",
		},
		Chat: ChatConfig{
			Temperature: 0.7,
			MaxTokens:   256,
			DarkMode:    true,
		},
		Chess: ChessConfig{
			AllowedHosts:        append([]string(nil), DefaultAllowedHosts...),
			UserAgent:           "Cadena-Server/1.0",
			FetchTimeoutSeconds: 15,
		},
	}
}
