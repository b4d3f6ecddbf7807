package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var envKeys = []string{
	"FORMCHECK_MODELS_DIR", "FORMCHECK_MODELS_URL", "FORMCHECK_DB", "FORMCHECK_EXERCISE",
	"FORMCHECK_MODEL", "FORMCHECK_LOAD_TIMEOUT", "FORMCHECK_MQTT_BROKER", "FORMCHECK_MQTT_CLIENT_ID",
	"FORMCHECK_MQTT_USERNAME", "FORMCHECK_MQTT_PASSWORD", "FORMCHECK_MQTT_POSE_TOPIC",
	"FORMCHECK_MQTT_VERDICT_TOPIC",
}

// clearEnv blanks every variable so the host environment cannot leak in.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range envKeys {
		t.Setenv(k, "")
	}
}

func TestConfigFromEnv_Defaults(t *testing.T) {
	clearEnv(t)
	cfg := ConfigFromEnv()
	assert.Equal(t, DefaultConfig(), cfg)
	assert.NoError(t, cfg.Validate())
	assert.NoError(t, cfg.ValidateMQTT())
}

func TestConfigFromEnv_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("FORMCHECK_MODELS_URL", "https://models.example.com/v1")
	t.Setenv("FORMCHECK_EXERCISE", "side_plank")
	t.Setenv("FORMCHECK_MODEL", "hybrid")
	t.Setenv("FORMCHECK_LOAD_TIMEOUT", "5s")
	t.Setenv("true")
	t.Setenv("FORMCHECK_MQTT_POSE_TOPIC", "gym/+/landmarks")

	cfg := ConfigFromEnv()
	assert.Equal(t, "https://models.example.com/v1", cfg.ModelsURL)
	assert.Equal(t, "side_plank", cfg.Exercise)
	assert.Equal(t, "hybrid", cfg.Model)
	assert.Equal(t, 5*time.Second, cfg.LoadTimeout)
	assert.Equal(t, "gym/+/landmarks", cfg.MQTT.PoseTopic)
	assert.Equal(t, "formcheck/{device}/verdict", cfg.MQTT.VerdictTopic)
}

func TestConfigFromEnv_BadDurationKeepsDefault(t *testing.T) {
	clearEnv(t)
	t.Setenv("FORMCHECK_LOAD_TIMEOUT", "soon")
	assert.Equal(t, 30*time.Second, ConfigFromEnv().LoadTimeout)
}

func TestLoad_DotEnv(t *testing.T) {
	clearEnv(t)
	// godotenv only fills variables that are unset, not blank ones.
	os.Unsetenv("FORMCHECK_MODEL")
	os.Unsetenv("FORMCHECK_MQTT_BROKER")
	t.Cleanup(func() {
		os.Unsetenv("FORMCHECK_MODEL")
		os.Unsetenv("FORMCHECK_MQTT_BROKER")
	})

	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte("FORMCHECK_MODEL=svm\nFORMCHECK_MQTT_BROKER=tcp://broker:1883\n"), 0o600))

	cfg := Load(path)
	assert.Equal(t, "svm", cfg.Model)
	assert.Equal(t, "tcp://broker:1883", cfg.MQTT.Broker)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"no model source", func(c *Config) { c.ModelsDir = "" }, true},
		{"url only", func(c *Config) { c.ModelsDir = ""; c.ModelsURL = "http://localhost:8080" }, false},
		{"bad url", func(c *Config) { c.ModelsURL = "ftp://x" }, true},
		{"no exercise", func(c *Config) { c.Exercise = "" }, true},
		{"no model", func(c *Config) { c.Model = "" }, true},
		{"zero timeout", func(c *Config) { c.LoadTimeout = 0 }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestConfig_ValidateMQTT(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MQTT.VerdictTopic = "formcheck/verdicts"
	assert.Error(t, cfg.ValidateMQTT())

	cfg = DefaultConfig()
	cfg.MQTT.Broker = ""
	assert.Error(t, cfg.ValidateMQTT())
}
