package config

// Config is the top-level cadena configuration, corresponding to .cadena.yml.
type Config struct {
	DataDir string        `yaml:"data_dir" koanf:"data_dir"`
	Server  ServerConfig  `yaml:"server" koanf:"server"`
	Runtime RuntimeConfig `yaml:"runtime" koanf:"runtime"`
	Chat    ChatConfig    `yaml:"chat" koanf:"chat"`
	Chess   ChessConfig   `yaml:"chess" koanf:"chess"`
}

// ServerConfig holds settings for the HTTP server.
type ServerConfig struct {
	Port            int  `yaml:"port" koanf:"port"`
	AllowAllOrigins bool `yaml:"allow_all_origins" koanf:"allow_all_origins"`
}

// RuntimeConfig points at the local model runtime used by the offline chatbot.
type RuntimeConfig struct {
	Host  string `yaml:"host" koanf:"host"`
	Model string `yaml:"model" koanf:"model"`
}

// ChatConfig holds the default generation settings for the offline chatbot.
// Stored user settings take precedence over these.
type ChatConfig struct {
	Temperature float64 `yaml:"temperature" koanf:"temperature"`
	MaxTokens   int     `yaml:"max_tokens" koanf:"max_tokens"`
	DarkMode    bool    `yaml:"dark_mode" koanf:"dark_mode"`
}

// ChessConfig controls how tournament pages are fetched.
type ChessConfig struct {
	AllowedHosts        []string `yaml:"allowed_hosts" koanf:"allowed_hosts"`
	UserAgent           string   `yaml:"user_agent" koanf:"user_agent"`
	FetchTimeoutSeconds int      `yaml:"fetch_timeout_seconds" koanf:"fetch_timeout_seconds"`
}
