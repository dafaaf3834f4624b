// Package main implements ringbench, a command that drives a circular buffer
// through a randomized or scripted workload, checks it against a reference
// deque after every step and prints a JSON report.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/c360/circular-buffer/errors"
	"github.com/c360/circular-buffer/metric"
)

// Build information constants
const (
	Version = "0.1.0"
	appName = "ringbench"
)

func main() {
	defer func() {
		if r := recover(); r != nil {
			buf := make([]byte, 4096)
			n := runtime.Stack(buf, false)
			_, _ = fmt.Fprintf(os.Stderr, "PANIC: %v\nStack trace:\n%s\n", r, string(buf[:n]))
			os.Exit(2)
		}
	}()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	cancel()
	if err != nil {
		slog.Error("Application failed", "error", err, "exit_code", 1)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet(appName, flag.ContinueOnError)
	fs.SetOutput(stderr)

	cliCfg, err := parseFlags(fs, args)
	if err != nil {
		return fmt.Errorf("parse flags: %w", err)
	}
	if err := validateFlags(cliCfg); err != nil {
		return fmt.Errorf("invalid flags: %w", err)
	}

	if cliCfg.ShowVersion {
		_, _ = fmt.Fprintf(stdout, "%s version %s\n", appName, Version)
		return nil
	}
	if cliCfg.ShowHelp {
		printDetailedHelp(fs)
		return nil
	}

	logger := setupLogger(stderr, cliCfg.LogLevel, cliCfg.LogFormat)
	slog.SetDefault(logger)

	workload, err := initializeWorkload(cliCfg)
	if err != nil {
		return err
	}
	if cliCfg.Validate {
		logger.Info("Workload is valid", "workload", cliCfg.WorkloadPath)
		return nil
	}

	registry := metric.NewMetricsRegistry()
	if cliCfg.MetricsAddr != "" {
		server := metric.NewServer(cliCfg.MetricsAddr, "", registry)
		startMetricsServer(server, logger)
		defer stopMetricsServer(server, logger)
	}

	if cliCfg.Runs > 1 {
		batch, batchErr := runBatch(ctx, workload, cliCfg.Runs, cliCfg.Parallel, cliCfg.Timeout, logger, registry)
		if err := writeReport(stdout, batch); err != nil {
			return err
		}
		if batchErr != nil {
			return fmt.Errorf("batch: %w", batchErr)
		}
	} else {
		runID := uuid.NewString()
		runner, err := NewRunner(runID, workload, logger.With("run_id", runID), registry)
		if err != nil {
			return fmt.Errorf("create runner: %w", err)
		}
		defer runner.Close()

		report, runErr := runner.Run(ctx)
		if err := writeReport(stdout, report); err != nil {
			return err
		}
		if runErr != nil {
			return fmt.Errorf("run %s: %w", runID, runErr)
		}
	}

	if cliCfg.MetricsAddr != "" && cliCfg.Linger > 0 {
		logger.Info("Serving metrics after run", "linger", cliCfg.Linger.String())
		select {
		case <-ctx.Done():
		case <-time.After(cliCfg.Linger):
		}
	}
	return nil
}

// initializeWorkload loads the workload file, if any, and applies flag overrides.
func initializeWorkload(cliCfg *CLIConfig) (Workload, error) {
	workload := DefaultWorkload()
	if cliCfg.WorkloadPath != "" {
		loaded, err := LoadWorkload(cliCfg.WorkloadPath)
		if err != nil {
			return Workload{}, fmt.Errorf("load workload: %w", err)
		}
		workload = loaded
	}
	workload.applyFlags(cliCfg)

	if err := workload.Validate(); err != nil {
		return Workload{}, fmt.Errorf("invalid workload: %w", err)
	}
	return workload, nil
}

func startMetricsServer(server *metric.Server, logger *slog.Logger) {
	go func() {
		if err := server.Start(); err != nil {
			logger.Error("Metrics server failed", "error", err)
		}
	}()
	logger.Info("Metrics server starting", "address", server.Address())
}

func stopMetricsServer(server *metric.Server, logger *slog.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Stop(ctx); err != nil && !errors.Is(err, errors.ErrNotStarted) {
		logger.Warn("Metrics server shutdown failed", "error", err)
	}
}

func writeReport(w io.Writer, report any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}
