package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	ProviderAnthropic = "anthropic"
	ProviderGemini    = "gemini"
)

// Secret holds a credential that may legitimately be missing at start-up.
// Absence is reported by Value rather than by an empty string check at
// every call site.
type Secret struct {
	value string
	set   bool
}

func NewSecret(value string) Secret {
	return Secret{value: value, set: value != ""}
}

// Value returns the secret and whether it was configured.
func (s Secret) Value() (string, bool) {
	return s.value, s.set
}

// String never reveals the secret.
func (s Secret) String() string {
	if !s.set {
		return "<unset>"
	}
	return "<redacted>"
}

type Config struct {
	// Server
	Port string
	Env  string

	// Frontend
	FrontendURL string

	// AI provider
	AIProvider       string
	AIMaxTokens      int
	AIRequestTimeout time.Duration

	// Anthropic
	AnthropicAPIKey  Secret
	AnthropicModel   string
	AnthropicBaseURL string

	// Gemini AI
	GeminiAPIKey Secret
	GeminiModel  string

	// Logging
	LogLevel string
}

func Load() *Config {
	// Load .env file if it exists
	godotenv.Load()

	cfg := &Config{
		Port:             getEnvOrDefault("PORT", "8080"),
		Env:              getEnvOrDefault("ENV", "development"),
		FrontendURL:      getEnvOrDefault("FRONTEND_URL", "*"),
		AIProvider:       strings.ToLower(getEnvOrDefault("AI_PROVIDER", ProviderAnthropic)),
		AIMaxTokens:      getEnvAsIntOrDefault("AI_MAX_TOKENS", 1024),
		AIRequestTimeout: getEnvAsDurationOrDefault("AI_REQUEST_TIMEOUT", 0),
		AnthropicAPIKey:  NewSecret(os.Getenv("ANTHROPIC_API_KEY")),
		AnthropicModel:   getEnvOrDefault("ANTHROPIC_MODEL", "claude-sonnet-4-20250514"),
		AnthropicBaseURL: getEnvOrDefault("ANTHROPIC_BASE_URL", "https://api.anthropic.com"),
		GeminiAPIKey:     NewSecret(os.Getenv("GEMINI_API_KEY")),
		GeminiModel:      getEnvOrDefault("GEMINI_MODEL", "gemini-2.5-flash"),
		LogLevel:         getEnvOrDefault("LOG_LEVEL", "info"),
	}

	return cfg
}

// ProviderAPIKey returns the credential belonging to the selected provider.
func (c *Config) ProviderAPIKey() Secret {
	if c.AIProvider == ProviderGemini {
		return c.GeminiAPIKey
	}
	return c.AnthropicAPIKey
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func getEnvOrDefault(key, defaultVal string) string {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func getEnvAsIntOrDefault(key string, defaultVal int) int {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return n
}

func getEnvAsDurationOrDefault(key string, defaultVal time.Duration) time.Duration {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(val)
	if err != nil || d < 0 {
		return defaultVal
	}
	return d
}
