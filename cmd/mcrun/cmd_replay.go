package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kestrelmc/dfsmc/internal/config"
	"github.com/kestrelmc/dfsmc/internal/reporting"
)

func newReplayCmd() *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:   "replay <run-id>",
		Short: "re-run a previously recorded trace against a fresh app instance",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReplay(cmd.Context(), args[0], verbose)
		},
	}
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "human-readable console logging instead of JSON")
	return cmd
}

func runReplay(ctx context.Context, runID string, verbose bool) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("mcrun: %w", err)
	}

	logger, err := buildLogger(verbose)
	if err != nil {
		return fmt.Errorf("mcrun: %w", err)
	}
	defer logger.Sync()

	traceWriter, err := reporting.NewTraceWriter(cfg.Reporting.TraceDir)
	if err != nil {
		return fmt.Errorf("mcrun: %w", err)
	}
	prior, err := traceWriter.Load(runID)
	if err != nil {
		return fmt.Errorf("mcrun: %w", err)
	}

	app, err := cfg.RemoteApp(ctx)
	if err != nil {
		return fmt.Errorf("mcrun: %w", err)
	}

	if err := app.RestoreInitialState(ctx); err != nil {
		return fmt.Errorf("mcrun: restore initial state: %w", err)
	}

	for i, step := range prior.RecordTrace {
		if _, err := app.Execute(ctx, step.AID, step.TimesConsidered); err != nil {
			return fmt.Errorf("mcrun: replay step %d (actor %d): %w", i, step.AID, err)
		}
		logger.Debugw("replayed step", "index", i, "aid", step.AID)
	}

	fmt.Printf("replay %s: replayed %d steps, original outcome %s\n",
		runID, len(prior.RecordTrace), prior.Outcome)
	return nil
}
