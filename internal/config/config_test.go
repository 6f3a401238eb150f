package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_ValidJSON(t *testing.T) {
	// Create temp config file
	content := `{
		"port": 9090,
		"client_url": "https://voice-cv.com",
		"allowed_origins": ["https://voice-cv.com", "https://www.voice-cv.com"],
		"product_name": "Suscripción Voice-CV",
		"price_cents": 1,
		"verbose": true
	}`

	tmpFile := filepath.Join(t.TempDir(), "config.json")
	err := os.WriteFile(tmpFile, []byte(content), 0644)
	require.NoError(t, err)

	cfg, err := LoadConfig(tmpFile)
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, "https://voice-cv.com", cfg.ClientURL)
	assert.Equal(t, []string{"https://voice-cv.com", "https://www.voice-cv.com"}, cfg.AllowedOrigins)
	assert.Equal(t, "Suscripción Voice-CV", cfg.ProductName)
	assert.Equal(t, int64(1), cfg.PriceCents)
	assert.True(t, cfg.Verbose)
}

func TestLoadConfig_InvalidJSON(t *testing.T) {
	content := `{ invalid json }`

	tmpFile := filepath.Join(t.TempDir(), "config.json")
	err := os.WriteFile(tmpFile, []byte(content), 0644)
	require.NoError(t, err)

	cfg, err := LoadConfig(tmpFile)
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to parse config JSON")
}

func TestLoadConfig_FileNotFound(t *testing.T) {
	cfg, err := LoadConfig("/nonexistent/path/config.json")
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoadConfig_EmptyPath(t *testing.T) {
	cfg, err := LoadConfig("")
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "config path is empty")
}

func TestFromEnv(t *testing.T) {
	t.Setenv("PORT", "9191")
	t.Setenv("DATABASE_URL", "postgres://localhost/voicecv")
	t.Setenv("STRIPE_SECRET_KEY", "sk_test_abc")
	t.Setenv("GEMINI_API_KEY", "gm-key")
	t.Setenv("ALLOWED_ORIGINS", "https://voice-cv.com, https://www.voice-cv.com ,")

	cfg := FromEnv()

	assert.Equal(t, 9191, cfg.Port)
	assert.Equal(t, "postgres://localhost/voicecv", cfg.DatabaseURL)
	assert.Equal(t, "sk_test_abc", cfg.StripeSecretKey)
	assert.Equal(t, "gm-key", cfg.GeminiAPIKey)
	assert.Equal(t, []string{"https://voice-cv.com", "https://www.voice-cv.com"}, cfg.AllowedOrigins)
}

func TestFromEnv_InvalidPortIgnored(t *testing.T) {
	t.Setenv("PORT", "not-a-number")

	cfg := FromEnv()
	assert.Equal(t, 0, cfg.Port)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{"defaults valid", DefaultConfig(), ""},
		{"zero value valid", Config{}, ""},
		{"negative port", Config{Port: -1}, "'port'"},
		{"port too large", Config{Port: 70000}, "'port'"},
		{"negative price", Config{PriceCents: -5}, "'price_cents'"},
		{"http speech endpoint", Config{SpeechEndpoint: "http://stt.example.com"}, "https"},
		{"https speech endpoint", Config{SpeechEndpoint: "https://stt.example.com"}, ""},
		{"missing speech model", Config{SpeechModelPath: "/nonexistent/model"}, "speech model not found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

func TestValidate_ExistingSpeechModel(t *testing.T) {
	dir := t.TempDir()
	cfg := Config{SpeechModelPath: dir}
	assert.NoError(t, cfg.Validate())
}

func TestMergeWithDefaults(t *testing.T) {
	cfg := Config{
		Port:         9090,
		GeminiAPIKey: "from-file",
	}

	merged := cfg.MergeWithDefaults(DefaultConfig())

	// Explicit values win
	assert.Equal(t, 9090, merged.Port)
	assert.Equal(t, "from-file", merged.GeminiAPIKey)

	// Missing values come from defaults
	assert.Equal(t, "http://localhost:5173", merged.ClientURL)
	assert.Equal(t, "eur", merged.Currency)
	assert.Equal(t, "Suscripción Voice-CV", merged.ProductName)
	assert.Equal(t, int64(1), merged.PriceCents)
	assert.Equal(t, "es-ES", merged.Language)
}

func TestMergeWithDefaults_ChainsEnvOverFile(t *testing.T) {
	file := Config{Port: 8000, Currency: "usd"}
	env := Config{Port: 9000}

	merged := env.MergeWithDefaults(file).MergeWithDefaults(DefaultConfig())

	assert.Equal(t, 9000, merged.Port, "env wins over file")
	assert.Equal(t, "usd", merged.Currency, "file wins over built-in")
	assert.Equal(t, "http://localhost:5173", merged.ClientURL, "built-in fills the rest")
}
