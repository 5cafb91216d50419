package commands

import (
	"fmt"
	"os"

	"foodgram/internal/utils"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// Global flags
	configPath string
	logLevel   string
)

var rootCmd = &cobra.Command{
	Use:   "foodgram",
	Short: "Foodgram - recipe sharing backend",
	Long: `Foodgram serves the recipe sharing REST API: recipes with ingredients and tags,
favorites, author subscriptions and an aggregated shopping list.

Configuration is read from a yaml file (--config) and can be overridden with
environment variables of the same name.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := utils.LoadConfig(configPath); err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		level := logLevel
		if level == "" {
			level = utils.GetConfig("LOG_LEVEL")
		}
		logger, err := utils.InitLogger(level)
		if err != nil {
			return err
		}
		if utils.ConfigFile() == "" {
			logger.Warn("config file not found, using environment and defaults", zap.String("path", configPath))
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "config.yaml", "Path to the yaml config file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error); overrides LOG_LEVEL")
}
