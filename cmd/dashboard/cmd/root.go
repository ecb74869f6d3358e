// Package cmd holds the dashboard CLI commands.
package cmd

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/seannamartin08/stock-market-dashboard/internal/config"
	"github.com/seannamartin08/stock-market-dashboard/internal/loader"
	"github.com/seannamartin08/stock-market-dashboard/internal/logger"
)

const defaultConfigPath = "configs/config.yaml"

var (
	cfgFile string
	verbose bool

	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Stock market dashboard",
	Long: `Stock market dashboard

Loads a price table, selects one ticker over a date range and derives
moving average, returns, volatility and cross-ticker correlation.

Commands:
    render      print the dashboard for one ticker
    serve       start the HTTP API
    fetch       refresh the default data file from Yahoo Finance
`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initConfig()
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $CONFIG_PATH or "+defaultConfigPath+")")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	rootCmd.AddCommand(renderCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(fetchCmd)
}

func configPath() string {
	if cfgFile != "" {
		return cfgFile
	}
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		return v
	}
	return defaultConfigPath
}

// initConfig loads .env, the YAML config and the logger.
func initConfig() error {
	if err := godotenv.Load(); err != nil && verbose {
		fmt.Fprintln(os.Stderr, "Warning: .env file not found, using environment variables")
	}

	c, err := config.Load(configPath())
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return fmt.Errorf("config validation: %w", err)
	}
	if verbose {
		c.Log.Level = "debug"
	}

	if err := logger.Init(logger.Config{
		Level:         c.Log.Level,
		Format:        c.Log.Format,
		FilePath:      c.Log.FilePath,
		RotationSize:  c.Log.RotationSizeMB,
		RetentionDays: c.Log.RetentionDays,
		ServiceName:   "dashboard",
	}); err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	cfg = c
	log.Debug().Str("config", configPath()).Str("data", c.Data.Path).Msg("config loaded")
	return nil
}

func loaderOptions() loader.Options {
	return loader.Options{Sheet: cfg.Data.Sheet, Query: cfg.Data.Query}
}
