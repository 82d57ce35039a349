/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ssargent/niokit/pkg/config"
	"github.com/ssargent/niokit/pkg/di"
	"github.com/ssargent/niokit/pkg/logging"
)

var container *di.Container

// SetContainer replaces the dependency container used by the commands
func SetContainer(c *di.Container) {
	container = c
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "nio",
	Short: "nio - buffered file I/O toolkit",
	Long: `nio copies files through buffers, kernel transfers or memory mappings
and converts text between character encodings.

Settings are read from a YAML configuration file when one exists; flags
override individual settings.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		level, _ := cmd.Flags().GetString("log-level")
		if level != "" {
			cfg.Logging.Level = level
		}
		logger, err := logging.New(cfg.Logging.Level)
		if err != nil {
			return err
		}

		SetContainer(di.NewContainer(cfg, logger))
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if container != nil {
			_ = container.Logger().Sync()
		}
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Configuration file (default ~/.config/niokit/config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn or error (overrides the config file)")
}

// configPath returns the --config flag or the platform default
func configPath(cmd *cobra.Command) string {
	path, _ := cmd.Flags().GetString("config")
	if path == "" {
		path = config.GetDefaultConfigPath()
	}
	return path
}

// loadConfig reads the configuration file, falling back to defaults when it does not exist
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path := configPath(cmd)
	if !config.ConfigExists(path) {
		return config.DefaultConfig(), nil
	}
	cfg, err := config.LoadConfig(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config %s: %w", path, err)
	}
	return cfg, nil
}
