// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the vibration-engine CLI.
// The root command extracts VibrationModel declarations from a source file
// into a pattern document; the catalog subcommands index and browse them.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/pdiddy/vibration-engine/internal/extract"
	"github.com/pdiddy/vibration-engine/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// logger is built in PersistentPreRunE before any command runs.
var logger = zap.NewNop()

// rootCmd extracts patterns when invoked directly.
var rootCmd = &cobra.Command{
	Use:   "vibration-engine --input <source> --output <patterns.json>",
	Short: "Extract vibration patterns from VibrationModel declarations",
	Long: `vibration-engine scans a source file for VibrationModel(...) declarations
and writes every declaration that carries an id = "VIB<n>" as one record of a
JSON array sorted by id. Declarations without an id are skipped.

The catalog subcommands load extracted pattern files into a local SQLite
database and filter them by sensation, emotion, metaphor, and usage tags.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		verbose, _ := cmd.Flags().GetBool("verbose")
		l, err := newLogger(verbose)
		if err != nil {
			return err
		}
		logger = l
		return nil
	},
	RunE: runExtract,
}

func runExtract(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true

	cfg := loadConfig()
	cfg.Extraction.InputPath, _ = cmd.Flags().GetString("input")
	cfg.Extraction.OutputPath, _ = cmd.Flags().GetString("output")

	_, err := extract.Run(cfg.Extraction, logger, os.Stdout)
	return err
}

// newLogger builds the production zap logger on stderr. Only warnings and
// errors are shown unless verbose is set.
func newLogger(verbose bool) (*zap.Logger, error) {
	config := zap.NewProductionConfig()
	config.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	if verbose {
		config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	l, err := config.Build()
	if err != nil {
		return nil, fmt.Errorf("building logger: %w", err)
	}
	return l, nil
}

// loadConfig assembles the typed configuration from viper, which merges
// flags, VIBRATION_ENGINE_* environment variables, the config file, and
// defaults in that order of precedence.
func loadConfig() types.Config {
	return types.Config{
		Extraction: types.ExtractionConfig{
			Keyword: viper.GetString("keyword"),
			Format:  types.OutputFormat(viper.GetString("format")),
		},
		Catalog: types.CatalogConfig{
			CatalogDir: viper.GetString("catalog_dir"),
			MaxResults: viper.GetInt("max_results"),
		},
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./vibration-engine.yaml or ~/.config/vibration-engine/vibration-engine.yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "enable debug logging on stderr")

	rootCmd.Flags().String("input", "", "source file containing VibrationModel declarations")
	rootCmd.Flags().String("output", "", "path of the pattern document to write")
	rootCmd.Flags().String("keyword", types.DefaultKeyword, "declaration marker that opens a pattern block")
	rootCmd.Flags().String("format", string(types.FormatJSON), "output format: json or yaml")
	rootCmd.MarkFlagRequired("input")
	rootCmd.MarkFlagRequired("output")

	viper.SetDefault("keyword", types.DefaultKeyword)
	viper.SetDefault("format", string(types.FormatJSON))
	viper.BindPFlag("keyword", rootCmd.Flags().Lookup("keyword"))
	viper.BindPFlag("format", rootCmd.Flags().Lookup("format"))
}

func initConfig() {
	// A missing .env is fine; it only seeds the environment.
	_ = godotenv.Load()

	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("vibration-engine")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "vibration-engine"))
		}
	}

	viper.SetEnvPrefix("VIBRATION_ENGINE")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	err := rootCmd.Execute()
	_ = logger.Sync()
	if err != nil {
		os.Exit(1)
	}
}
