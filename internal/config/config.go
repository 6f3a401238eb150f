// Package config provides configuration loading and validation for the
// Voice-CV server and CLI.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Config represents configuration that can be loaded from a JSON file.
// All fields are optional; missing values use defaults or must be provided
// via CLI flags or environment variables.
type Config struct {
	// Server
	Port           int      `json:"port,omitempty"`            // HTTP listen port
	StorePath      string   `json:"store_path,omitempty"`      // Path for the file-backed payment store
	DatabaseURL    string   `json:"database_url,omitempty"`    // PostgreSQL connection URL (overrides StorePath)
	ClientURL      string   `json:"client_url,omitempty"`      // URL the payment page redirects back to
	AllowedOrigins []string `json:"allowed_origins,omitempty"` // CORS origin allowlist; empty means any origin

	// Payments
	StripeSecretKey string `json:"stripe_secret_key,omitempty"` // Stripe API secret key
	PriceCents      int64  `json:"price_cents,omitempty"`       // Unit price in minor currency units
	Currency        string `json:"currency,omitempty"`          // ISO currency code
	ProductName     string `json:"product_name,omitempty"`      // Line item name on the checkout page

	// Structuring
	GeminiAPIKey string `json:"gemini_api_key,omitempty"` // Gemini API key; empty falls back to local extraction

	// Capture
	SpeechModelPath string `json:"speech_model_path,omitempty"` // Local Vosk model directory
	SpeechEndpoint  string `json:"speech_endpoint,omitempty"`   // Remote recognition endpoint (https only)
	Language        string `json:"language,omitempty"`          // Recognition language tag

	// Client
	APIBaseURL string `json:"api_base_url,omitempty"` // API base URL the dictate pipeline talks to

	// Behavior
	Verbose bool `json:"verbose,omitempty"` // Print detailed debug information
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() Config {
	return Config{
		Port:        8080,
		ClientURL:   "http://localhost:5173",
		PriceCents:  1,
		Currency:    "eur",
		ProductName: "Suscripción Voice-CV",
		Language:    "es-ES",
		APIBaseURL:  "http://localhost:8080",
	}
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// FromEnv returns a Config populated from environment variables. Call after
// godotenv has loaded any .env file.
func FromEnv() Config {
	var cfg Config

	if value := os.Getenv("PORT"); value != "" {
		if port, err := strconv.Atoi(value); err == nil {
			cfg.Port = port
		}
	}
	cfg.StorePath = os.Getenv("STORE_PATH")
	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	cfg.ClientURL = os.Getenv("CLIENT_URL")
	cfg.StripeSecretKey = os.Getenv("STRIPE_SECRET_KEY")
	cfg.GeminiAPIKey = os.Getenv("GEMINI_API_KEY")
	cfg.SpeechModelPath = os.Getenv("SPEECH_MODEL_PATH")
	cfg.SpeechEndpoint = os.Getenv("SPEECH_ENDPOINT")
	cfg.APIBaseURL = os.Getenv("VOICECV_API_URL")

	if value := os.Getenv("ALLOWED_ORIGINS"); value != "" {
		for _, origin := range strings.Split(value, ",") {
			if origin = strings.TrimSpace(origin); origin != "" {
				cfg.AllowedOrigins = append(cfg.AllowedOrigins, origin)
			}
		}
	}

	return cfg
}

// Validate checks that the configuration has valid values.
func (c *Config) Validate() error {
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("config error: 'port' must be between 0 and 65535")
	}
	if c.PriceCents < 0 {
		return fmt.Errorf("config error: 'price_cents' must be non-negative")
	}
	if c.SpeechEndpoint != "" && !strings.HasPrefix(c.SpeechEndpoint, "https://") {
		return fmt.Errorf("config error: 'speech_endpoint' must use https")
	}
	if c.SpeechModelPath != "" {
		if _, err := os.Stat(c.SpeechModelPath); os.IsNotExist(err) {
			return fmt.Errorf("config error: speech model not found: %s", c.SpeechModelPath)
		}
	}
	return nil
}

// MergeWithDefaults returns a new Config with empty fields filled from
// defaults. Merge order is flags over env over file over built-ins, applied
// by chaining calls.
func (c Config) MergeWithDefaults(defaults Config) Config {
	result := c

	if result.Port == 0 {
		result.Port = defaults.Port
	}
	if result.StorePath == "" {
		result.StorePath = defaults.StorePath
	}
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}
	if result.ClientURL == "" {
		result.ClientURL = defaults.ClientURL
	}
	if len(result.AllowedOrigins) == 0 {
		result.AllowedOrigins = defaults.AllowedOrigins
	}
	if result.StripeSecretKey == "" {
		result.StripeSecretKey = defaults.StripeSecretKey
	}
	if result.PriceCents == 0 {
		result.PriceCents = defaults.PriceCents
	}
	if result.Currency == "" {
		result.Currency = defaults.Currency
	}
	if result.ProductName == "" {
		result.ProductName = defaults.ProductName
	}
	if result.GeminiAPIKey == "" {
		result.GeminiAPIKey = defaults.GeminiAPIKey
	}
	if result.SpeechModelPath == "" {
		result.SpeechModelPath = defaults.SpeechModelPath
	}
	if result.SpeechEndpoint == "" {
		result.SpeechEndpoint = defaults.SpeechEndpoint
	}
	if result.Language == "" {
		result.Language = defaults.Language
	}
	if result.APIBaseURL == "" {
		result.APIBaseURL = defaults.APIBaseURL
	}
	if !result.Verbose {
		result.Verbose = defaults.Verbose
	}

	return result
}
