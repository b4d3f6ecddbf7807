package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/formcheck/internal/config"
	"github.com/abhisek/formcheck/internal/store"
)

// cfg is resolved once per invocation by the root pre-run hook.
var cfg config.Config

var rootCmd = &cobra.Command{
	Use:   "formcheck",
	Short: "Exercise form classifier",
	Long:  "FormCheck — classifies body poses as correct or incorrect exercise form and explains what is wrong.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg = config.Load()
		applyFlagOverrides(cmd, &cfg)
		return cfg.Validate()
	},
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.String("db", "", "Path to SQLite database file (overrides FORMCHECK_DB env var)")
	flags.StringP("exercise", "e", "", "Exercise to classify (overrides FORMCHECK_EXERCISE)")
	flags.StringP("model", "m", "", "Classifier to use (overrides FORMCHECK_MODEL)")
	flags.String("models-dir", "", "Directory holding model descriptors (overrides FORMCHECK_MODELS_DIR)")
	flags.String("models-url", "", "Base URL serving model descriptors (overrides FORMCHECK_MODELS_URL)")

	rootCmd.AddCommand(predictCmd)
	rootCmd.AddCommand(modelsCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(listenCmd)
	rootCmd.AddCommand(eventsCmd)
	rootCmd.AddCommand(versionCmd)
}

// applyFlagOverrides copies explicitly set persistent flags over the
// environment configuration.
func applyFlagOverrides(cmd *cobra.Command, c *config.Config) {
	if v, _ := cmd.Flags().GetString("db"); v != "" {
		c.DBPath = v
	}
	if v, _ := cmd.Flags().GetString("exercise"); v != "" {
		c.Exercise = v
	}
	if v, _ := cmd.Flags().GetString("model"); v != "" {
		c.Model = v
	}
	if v, _ := cmd.Flags().GetString("models-dir"); v != "" {
		c.ModelsDir = v
		c.ModelsURL = ""
	}
	if v, _ := cmd.Flags().GetString("models-url"); v != "" {
		c.ModelsURL = v
	}
}

// resolveDBPath returns the database path using --db or FORMCHECK_DB,
// then the default XDG path.
func resolveDBPath() (string, error) {
	if cfg.DBPath != "" {
		if err := store.EnsureDir(cfg.DBPath); err != nil {
			return "", fmt.Errorf("create database directory: %w", err)
		}
		return cfg.DBPath, nil
	}
	return store.DefaultDBPath()
}
