// Package main is the entry point for the synkyria binary.
// It provides a CLI for simulating training curves against the monitor and
// for watching the metrics file of a live training run.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/synkyria/synkyria/pkg/logging"
	"github.com/synkyria/synkyria/pkg/monitor"
)

const defaultLogLevel = "info"

// FileConfig is the on-disk YAML configuration consumed by both commands.
type FileConfig struct {
	Monitor monitor.Config `yaml:"monitor"`
	Logging logging.Config `yaml:"logging"`
	Metrics MetricsConfig  `yaml:"metrics"`
}

// MetricsConfig defines the Prometheus exposition settings of the watch
// command.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Listen  string `yaml:"listen"`
	Path    string `yaml:"path"`
}

// DefaultFileConfig returns the configuration used when no file is given.
func DefaultFileConfig() *FileConfig {
	return &FileConfig{
		Monitor: monitor.DefaultConfig(),
		Logging: logging.Config{Level: defaultLogLevel},
		Metrics: MetricsConfig{Listen: ":9464", Path: "/metrics"},
	}
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// newRootCmd creates the root command for synkyria.
func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "synkyria",
		Short: "Finite-horizon stability monitor for training runs",
		Long: `Synkyria watches the loss/validation curve of a training run, derives
two stability indices (CRQ, SCP) and recommends interventions before a
failing run burns further compute.

Example:
  synkyria simulate --scenario death-spiral
  synkyria watch --file runs/metrics.jsonl --listen :9464`,
	}

	rootCmd.PersistentFlags().StringP("config", "c", "", "Path to configuration file (YAML)")
	rootCmd.PersistentFlags().StringP("log-level", "l", defaultLogLevel, "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().Bool("log-pretty", false, "Human-readable console output instead of JSON")

	rootCmd.AddCommand(newSimulateCmd())
	rootCmd.AddCommand(newWatchCmd())

	return rootCmd
}

// loadConfig resolves the effective configuration: defaults, overlaid by
// the YAML file when given, overlaid by explicit flags.
func loadConfig(cmd *cobra.Command) (*FileConfig, error) {
	config := DefaultFileConfig()

	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, fmt.Errorf("failed to get config flag: %w", err)
	}
	if configPath != "" {
		loaded, err := loadConfigFile(configPath)
		if err != nil {
			return nil, err
		}
		config = loaded
	}

	if cmd.Flags().Changed("log-level") {
		level, err := cmd.Flags().GetString("log-level")
		if err != nil {
			return nil, fmt.Errorf("failed to get log-level flag: %w", err)
		}
		config.Logging.Level = level
	}
	if cmd.Flags().Changed("log-pretty") {
		pretty, err := cmd.Flags().GetBool("log-pretty")
		if err != nil {
			return nil, fmt.Errorf("failed to get log-pretty flag: %w", err)
		}
		config.Logging.Pretty = pretty
	}

	return config, nil
}

// loadConfigFile loads configuration from a YAML file, expanding
// environment variables before parsing.
func loadConfigFile(path string) (*FileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	expanded := []byte(os.ExpandEnv(string(data)))

	config := DefaultFileConfig()
	if err := yaml.Unmarshal(expanded, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}
