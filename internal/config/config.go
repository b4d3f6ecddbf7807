// Package config resolves runtime settings from the environment and an
// optional .env file.
package config

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all runtime configuration.
type Config struct {
	// ModelsDir is the directory descriptors are read from. Default: ./models
	ModelsDir string

	// ModelsURL, when set, serves descriptors over HTTP instead of ModelsDir.
	ModelsURL string

	// DBPath is the SQLite event log. Empty means store.DefaultDBPath.
	DBPath string

	Exercise string // Default: "high_plank"
	Model    string // Default: "empirical"

	// LoadTimeout bounds fetching and validating a classifier's
	// descriptors. Default: 30s.
	LoadTimeout time.Duration

	MQTT MQTTConfig
}

// MQTTConfig holds the pose stream settings.
type MQTTConfig struct {
	Broker   string
	ClientID string
	Username string
	Password string

	// PoseTopic is the subscription filter for pose frames. The second
	// topic level is the device id.
	PoseTopic string

	// VerdictTopic is the publish pattern; "{device}" is replaced by the
	// device id.
	VerdictTopic string
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		ModelsDir:   "./models",
		Exercise:    "high_plank",
		Model:       "empirical",
		LoadTimeout: 30 * time.Second,
		MQTT: MQTTConfig{
			Broker:       "tcp://localhost:1883",
			ClientID:     "formcheck",
			PoseTopic:    "formcheck/+/pose",
			VerdictTopic: "formcheck/{device}/verdict",
		},
	}
}

// Load reads the given .env files (".env" when none are named) if they
// exist, then builds the Config from the environment. Variables already
// set in the environment win over the files.
func Load(files ...string) Config {
	_ = godotenv.Load(files...)
	return ConfigFromEnv()
}

// ConfigFromEnv builds a Config from environment variables, falling back
// to defaults for unset values.
func ConfigFromEnv() Config {
	cfg := DefaultConfig()

	if v := os.Getenv("FORMCHECK_MODELS_DIR"); v != "" {
		cfg.ModelsDir = v
	}
	if v := os.Getenv("FORMCHECK_MODELS_URL"); v != "" {
		cfg.ModelsURL = v
	}
	if v := os.Getenv("FORMCHECK_DB"); v != "" {
		cfg.DBPath = v
	}
	if v := os.Getenv("FORMCHECK_EXERCISE"); v != "" {
		cfg.Exercise = v
	}
	if v := os.Getenv("FORMCHECK_MODEL"); v != "" {
		cfg.Model = v
	}
	if v := os.Getenv("FORMCHECK_LOAD_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			log.Printf("Warning: failed to parse FORMCHECK_LOAD_TIMEOUT, using default: %v", err)
		} else {
			cfg.LoadTimeout = d
		}
	}

	if v := os.Getenv("FORMCHECK_MQTT_BROKER"); v != "" {
		cfg.MQTT.Broker = v
	}
	if v := os.Getenv("FORMCHECK_MQTT_CLIENT_ID"); v != "" {
		cfg.MQTT.ClientID = v
	}
	if v := os.Getenv("FORMCHECK_MQTT_USERNAME"); v != "" {
		cfg.MQTT.Username = v
	}
	if v := os.Getenv("FORMCHECK_MQTT_PASSWORD"); v != "" {
		cfg.MQTT.Password = v
	}
	if v := os.Getenv("FORMCHECK_MQTT_POSE_TOPIC"); v != "" {
		cfg.MQTT.PoseTopic = v
	}
	if v := os.Getenv("FORMCHECK_MQTT_VERDICT_TOPIC"); v != "" {
		cfg.MQTT.VerdictTopic = v
	}

	return cfg
}

// Validate checks the settings every command needs.
func (c Config) Validate() error {
	if c.ModelsDir == "" && c.ModelsURL == "" {
		return fmt.Errorf("FORMCHECK_MODELS_DIR or FORMCHECK_MODELS_URL is required")
	}
	if c.ModelsURL != "" && !strings.HasPrefix(c.ModelsURL, "http://") && !strings.HasPrefix(c.ModelsURL, "https://") {
		return fmt.Errorf("FORMCHECK_MODELS_URL must be an http(s) URL, got %q", c.ModelsURL)
	}
	if c.Exercise == "" {
		return fmt.Errorf("FORMCHECK_EXERCISE is required")
	}
	if c.Model == "" {
		return fmt.Errorf("FORMCHECK_MODEL is required")
	}
	if c.LoadTimeout <= 0 {
		return fmt.Errorf("FORMCHECK_LOAD_TIMEOUT must be positive, got %s", c.LoadTimeout)
	}
	return nil
}

// ValidateMQTT checks the settings the pose stream needs.
func (c Config) ValidateMQTT() error {
	if c.MQTT.Broker == "" {
		return fmt.Errorf("FORMCHECK_MQTT_BROKER is required")
	}
	if c.MQTT.PoseTopic == "" {
		return fmt.Errorf("FORMCHECK_MQTT_POSE_TOPIC is required")
	}
	if c.MQTT.VerdictTopic != "" && !strings.Contains(c.MQTT.VerdictTopic, "{device}") {
		return fmt.Errorf("FORMCHECK_MQTT_VERDICT_TOPIC must contain {device}, got %q", c.MQTT.VerdictTopic)
	}
	return nil
}
