package main

import (
	"flag"
	"fmt"
	"os"
	"runtime"
	"strconv"
	"time"
)

// CLIConfig holds command-line configuration
type CLIConfig struct {
	WorkloadPath string
	Steps        int
	Seed         int64
	Capacity     int
	MaxCapacity  int
	FailEvery    int
	Runs         int
	Parallel     int
	Timeout      time.Duration
	LogLevel     string
	LogFormat    string
	Debug        bool
	MetricsAddr  string
	Linger       time.Duration
	ShowVersion  bool
	ShowHelp     bool
	Validate     bool

	// explicit records flags set on the command line; they override the workload file.
	explicit map[string]bool
}

func parseFlags(fs *flag.FlagSet, args []string) (*CLIConfig, error) {
	cfg := &CLIConfig{}

	// Define flags with environment variable fallback
	fs.StringVar(&cfg.WorkloadPath, "workload",
		getEnv("CIRCBUF_WORKLOAD", ""),
		"Path to a JSON or YAML workload file (env: CIRCBUF_WORKLOAD)")

	fs.StringVar(&cfg.WorkloadPath, "w",
		getEnv("CIRCBUF_WORKLOAD", ""),
		"Path to a JSON or YAML workload file (env: CIRCBUF_WORKLOAD)")

	fs.IntVar(&cfg.Steps, "steps",
		getEnvInt("CIRCBUF_STEPS", defaultSteps),
		"Number of random operations (env: CIRCBUF_STEPS)")

	fs.Int64Var(&cfg.Seed, "seed",
		getEnvInt64("CIRCBUF_SEED", 1),
		"Random seed (env: CIRCBUF_SEED)")

	fs.IntVar(&cfg.Capacity, "capacity",
		getEnvInt("CIRCBUF_CAPACITY", 0),
		"Initial slot count, 0 for the workload default (env: CIRCBUF_CAPACITY)")

	fs.IntVar(&cfg.MaxCapacity, "max-capacity",
		getEnvInt("CIRCBUF_MAX_CAPACITY", 0),
		"Growth limit, 0 for no explicit limit (env: CIRCBUF_MAX_CAPACITY)")

	fs.IntVar(&cfg.FailEvery, "fail-every",
		getEnvInt("CIRCBUF_FAIL_EVERY", 0),
		"Fail every Nth element copy, 0 to disable (env: CIRCBUF_FAIL_EVERY)")

	fs.IntVar(&cfg.Runs, "runs",
		getEnvInt("CIRCBUF_RUNS", 1),
		"Number of runs, each with the next seed (env: CIRCBUF_RUNS)")

	fs.IntVar(&cfg.Parallel, "parallel",
		getEnvInt("CIRCBUF_PARALLEL", runtime.NumCPU()),
		"Runs executed concurrently when --runs > 1 (env: CIRCBUF_PARALLEL)")

	fs.DurationVar(&cfg.Timeout, "timeout",
		getEnvDuration("CIRCBUF_TIMEOUT", 10*time.Minute),
		"Time allowed for a batch of runs to finish (env: CIRCBUF_TIMEOUT)")

	fs.StringVar(&cfg.LogLevel, "log-level",
		getEnv("CIRCBUF_LOG_LEVEL", "info"),
		"Log level: debug, info, warn, error (env: CIRCBUF_LOG_LEVEL)")

	fs.StringVar(&cfg.LogFormat, "log-format",
		getEnv("CIRCBUF_LOG_FORMAT", "json"),
		"Log format: json, text (env: CIRCBUF_LOG_FORMAT)")

	fs.BoolVar(&cfg.Debug, "debug",
		getEnvBool("CIRCBUF_DEBUG", false),
		"Enable debug logging (env: CIRCBUF_DEBUG)")

	fs.StringVar(&cfg.MetricsAddr, "metrics-addr",
		getEnv("CIRCBUF_METRICS_ADDR", ""),
		"Serve Prometheus metrics on this address, empty to disable (env: CIRCBUF_METRICS_ADDR)")

	fs.DurationVar(&cfg.Linger, "linger",
		getEnvDuration("CIRCBUF_LINGER", 0),
		"Keep the metrics server up this long after the run (env: CIRCBUF_LINGER)")

	fs.BoolVar(&cfg.ShowVersion, "version", false, "Show version information")
	fs.BoolVar(&cfg.ShowVersion, "v", false, "Show version information")
	fs.BoolVar(&cfg.ShowHelp, "help", false, "Show help information")
	fs.BoolVar(&cfg.ShowHelp, "h", false, "Show help information")
	fs.BoolVar(&cfg.Validate, "validate", false, "Validate the workload and exit")

	// Custom usage
	fs.Usage = func() {
		printDetailedHelp(fs)
	}

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	cfg.explicit = make(map[string]bool)
	fs.Visit(func(f *flag.Flag) {
		cfg.explicit[f.Name] = true
	})
	for flagName, env := range map[string]string{
		"steps":        "CIRCBUF_STEPS",
		"seed":         "CIRCBUF_SEED",
		"capacity":     "CIRCBUF_CAPACITY",
		"max-capacity": "CIRCBUF_MAX_CAPACITY",
		"fail-every":   "CIRCBUF_FAIL_EVERY",
	} {
		if os.Getenv(env) != "" {
			cfg.explicit[flagName] = true
		}
	}

	// Override log level if debug is set
	if cfg.Debug {
		cfg.LogLevel = "debug"
	}

	return cfg, nil
}

func validateFlags(cfg *CLIConfig) error {
	// Skip validation for special flags
	if cfg.ShowVersion || cfg.ShowHelp {
		return nil
	}

	if cfg.WorkloadPath != "" {
		if _, err := os.Stat(cfg.WorkloadPath); err != nil {
			return fmt.Errorf("workload file not found: %s", cfg.WorkloadPath)
		}
	}

	if cfg.Steps < 0 {
		return fmt.Errorf("invalid steps: %d", cfg.Steps)
	}

	if cfg.Runs < 1 {
		return fmt.Errorf("invalid runs: %d", cfg.Runs)
	}

	if cfg.Parallel < 1 {
		return fmt.Errorf("invalid parallel: %d", cfg.Parallel)
	}

	if cfg.Timeout <= 0 {
		return fmt.Errorf("invalid timeout: %s", cfg.Timeout)
	}

	if cfg.FailEvery < 0 {
		return fmt.Errorf("invalid fail-every: %d", cfg.FailEvery)
	}

	validLevels := []string{"debug", "info", "warn", "error"}
	if !contains(validLevels, cfg.LogLevel) {
		return fmt.Errorf("invalid log level: %s", cfg.LogLevel)
	}

	validFormats := []string{"json", "text"}
	if !contains(validFormats, cfg.LogFormat) {
		return fmt.Errorf("invalid log format: %s", cfg.LogFormat)
	}

	if cfg.Linger < 0 {
		return fmt.Errorf("invalid linger: %s", cfg.Linger)
	}

	return nil
}

func printDetailedHelp(fs *flag.FlagSet) {
	out := fs.Output()
	_, _ = fmt.Fprintf(out, `%s - circular buffer workload verifier

Usage: %s [options]

Options:
`, appName, appName)
	fs.PrintDefaults()
	_, _ = fmt.Fprintf(out, `
Examples:
  # Run 100000 random operations with seed 7
  %s --steps=100000 --seed=7

  # Run a workload file and inject a copy failure every 50 copies
  %s --workload=configs/workload.yaml --fail-every=50

  # Run seeds 1..8, four at a time
  %s --runs=8 --parallel=4

  # Expose metrics for a minute after the run
  %s --metrics-addr=:9090 --linger=1m

Version: %s
`, appName, appName, appName, appName, Version)
}

// Environment variable helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseInt(value, 10, 64); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}
