package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/kestrelmc/dfsmc/internal/config"
	"github.com/kestrelmc/dfsmc/internal/primitives"
	"github.com/kestrelmc/dfsmc/internal/reporting"
)

func newRunCmd() *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:   "run",
		Short: "explore the app-under-check's state space from scratch",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExplore(cmd.Context(), verbose)
		},
	}
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "human-readable console logging instead of JSON")
	return cmd
}

func runExplore(ctx context.Context, verbose bool) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("mcrun: %w", err)
	}

	logger, err := buildLogger(verbose)
	if err != nil {
		return fmt.Errorf("mcrun: %w", err)
	}
	defer logger.Sync()

	runID := uuid.NewString()

	if err := os.MkdirAll(cfg.Reporting.DotDir, 0o755); err != nil {
		return fmt.Errorf("mcrun: %w", err)
	}
	dotPath := filepath.Join(cfg.Reporting.DotDir, runID+".dot")
	dotSink, err := reporting.NewDotFile(dotPath)
	if err != nil {
		return fmt.Errorf("mcrun: %w", err)
	}
	defer dotSink.Close()

	opts, err := cfg.Options(logger, dotSink.Writer())
	if err != nil {
		return fmt.Errorf("mcrun: %w", err)
	}

	app, err := cfg.RemoteApp(ctx)
	if err != nil {
		return fmt.Errorf("mcrun: %w", err)
	}

	explorer, err := newExplorer(ctx, app, opts...)
	if err != nil {
		return fmt.Errorf("mcrun: %w", err)
	}

	runErr := explorer.Run(ctx)

	traceWriter, err := reporting.NewTraceWriter(cfg.Reporting.TraceDir)
	if err != nil {
		return fmt.Errorf("mcrun: %w", err)
	}

	report := reporting.RunReport{
		RunID:        runID,
		Outcome:      outcomeOf(runErr),
		Report:       explorer.Report(),
		TextualTrace: explorer.TextualTrace(),
		RecordTrace:  explorer.RecordTrace(),
	}
	if runErr != nil {
		report.Error = runErr.Error()
	}
	if err := traceWriter.Save(report); err != nil {
		return fmt.Errorf("mcrun: %w", err)
	}
	effectivePath := filepath.Join(cfg.Reporting.TraceDir, runID+".config.yaml")
	if err := config.SaveFile(effectivePath, cfg); err != nil {
		return fmt.Errorf("mcrun: %w", err)
	}

	fmt.Printf("run %s: %s (%d unique states, %d backtracks)\n",
		runID, report.Outcome, report.Report.UniqueStates, report.Report.BacktrackCount)

	if runErr != nil {
		return fmt.Errorf("mcrun: %w", runErr)
	}
	return nil
}

func outcomeOf(err error) string {
	if err == nil {
		return "ok"
	}
	var deadlock *primitives.DeadlockError
	var safety *primitives.SafetyViolation
	var nonterm *primitives.TerminationError
	switch {
	case errors.As(err, &deadlock):
		return "deadlock"
	case errors.As(err, &safety):
		return "safety_violation"
	case errors.As(err, &nonterm):
		return "non_termination"
	default:
		return "error"
	}
}
