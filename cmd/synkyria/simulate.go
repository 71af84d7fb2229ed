package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/synkyria/synkyria/pkg/logging"
	"github.com/synkyria/synkyria/pkg/monitor"
	"github.com/synkyria/synkyria/pkg/runner"
	"github.com/synkyria/synkyria/pkg/scenario"
)

// newSimulateCmd creates the simulate subcommand: it runs a built-in
// synthetic curve through the monitor, standing in for the demo scripts of
// a real training loop.
func newSimulateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Run a built-in synthetic training curve through the monitor",
		RunE:  runSimulate,
	}

	cmd.Flags().StringP("scenario", "s", string(scenario.DeathSpiral),
		fmt.Sprintf("Scenario to simulate (%s)", scenarioNames()))
	cmd.Flags().Int64("seed", 42, "Seed for the scenario's noise generator")
	cmd.Flags().Bool("json", false, "Print each snapshot as a JSON line instead of log output")

	return cmd
}

func runSimulate(cmd *cobra.Command, _ []string) error {
	config, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	name, err := cmd.Flags().GetString("scenario")
	if err != nil {
		return fmt.Errorf("failed to get scenario flag: %w", err)
	}
	seed, err := cmd.Flags().GetInt64("seed")
	if err != nil {
		return fmt.Errorf("failed to get seed flag: %w", err)
	}
	asJSON, err := cmd.Flags().GetBool("json")
	if err != nil {
		return fmt.Errorf("failed to get json flag: %w", err)
	}

	obs, err := scenario.Generate(scenario.Name(name), seed)
	if err != nil {
		return err
	}

	logger := logging.Setup(config.Logging)

	mon, err := monitor.New(config.Monitor)
	if err != nil {
		return err
	}

	opts := []runner.Option{}
	if asJSON {
		enc := json.NewEncoder(os.Stdout)
		opts = append(opts, runner.WithSnapshotFunc(func(snap monitor.Snapshot) {
			_ = enc.Encode(snap)
		}))
	}

	run := runner.New(mon, logger, opts...)
	summary, err := run.Run(cmd.Context(), runner.NewSliceSource(obs))
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	logger.Info().
		Str("scenario", name).
		Int("epochs", summary.Epochs).
		Bool("stopped", summary.Stopped).
		Str("final_status", string(summary.Final.Status)).
		Msg("simulation finished")
	return nil
}

func scenarioNames() string {
	out := ""
	for i, n := range scenario.Names {
		if i > 0 {
			out += ", "
		}
		out += string(n)
	}
	return out
}
