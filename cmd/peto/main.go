// -----------------------------------------------------------------------
// Peto - automated job application runner
// -----------------------------------------------------------------------

package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/peto/internal/app"
	"github.com/ternarybob/peto/internal/common"
)

// configPaths is a custom flag type that allows multiple -config flags
type configPaths []string

func (c *configPaths) String() string {
	return fmt.Sprintf("%v", *c)
}

func (c *configPaths) Set(value string) error {
	*c = append(*c, value)
	return nil
}

var (
	// Command-line flags
	configFiles     configPaths // Multiple -config flags supported
	maxApplications = flag.Int("max", 0, "Maximum applications this session (overrides config)")
	headless        = flag.Bool("headless", false, "Run the browser headless (overrides config)")
	showVersion     = flag.Bool("version", false, "Print version information")
	showVersionV    = flag.Bool("v", false, "Print version information (shorthand)")

	// Global state
	config *common.Config
	logger arbor.ILogger
)

func init() {
	// Register custom flag for multiple config files
	flag.Var(&configFiles, "config", "Configuration file path (can be specified multiple times, later files override earlier ones)")
	flag.Var(&configFiles, "c", "Configuration file path (shorthand)")
}

func main() {
	// Crash protection: persist a report if anything below panics
	common.InstallCrashHandler("./logs")
	defer common.RecoverWithCrashFile()

	// Parse command-line flags
	flag.Parse()

	// Handle version flag
	if *showVersion || *showVersionV {
		fmt.Printf("Peto version %s\n", common.GetVersion())
		os.Exit(0)
	}

	// Load credentials from .env before config resolution picks up env vars
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		fmt.Printf("Warning: failed to load .env file: %v\n", err)
	}

	// Startup sequence (REQUIRED ORDER):
	// 1. Load config (defaults -> file1 -> file2 -> ... -> env)
	// 2. Apply CLI overrides (highest priority)
	// 3. Initialize logger
	// 4. Print banner
	var err error

	// Auto-discover config file if not specified
	if len(configFiles) == 0 {
		if _, err := os.Stat("peto.toml"); err == nil {
			configFiles = append(configFiles, "peto.toml")
		} else if _, err := os.Stat("deployments/local/peto.toml"); err == nil {
			configFiles = append(configFiles, "deployments/local/peto.toml")
		}
	}

	// 1. Load configuration (default -> file1 -> file2 -> ... -> env)
	config, err = common.LoadFromFiles(configFiles...)
	if err != nil {
		// Use temporary logger for startup errors
		tempLogger := arbor.NewLogger()
		if len(configFiles) == 0 {
			tempLogger.Fatal().Err(err).Msg("Failed to load configuration: no config file found")
		} else {
			tempLogger.Fatal().Strs("paths", configFiles).Err(err).Msg("Failed to load configuration files")
		}
		os.Exit(1)
	}

	// 2. Apply command-line flag overrides (highest priority)
	headlessSet := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == "headless" {
			headlessSet = true
		}
	})
	common.ApplyFlagOverrides(config, *maxApplications, *headless, headlessSet)

	// 3. Initialize logger with final configuration
	logger = common.InitLogger(config)

	// 4. Print banner
	common.PrintBanner(common.GetVersion())

	logger.Info().
		Strs("config_files", configFiles).
		Str("environment", config.Environment).
		Int("max_applications", config.Session.MaxApplications).
		Str("log_level", config.Logging.Level).
		Msg("Application configuration loaded")

	// Signal-aware root context: Ctrl+C stops the sweep between actions
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if config.Schedule == "" {
		if err := runSession(ctx); err != nil {
			logger.Fatal().Err(err).Msg("Application session failed")
		}
		return
	}

	runScheduled(ctx, config.Schedule)
}

// runSession executes one complete application session
func runSession(ctx context.Context) error {
	application, err := app.New(ctx, config, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}
	return application.Run(ctx)
}

// runScheduled runs sessions on a cron schedule until interrupted. A run
// still in progress when the next tick fires makes that tick a no-op.
func runScheduled(ctx context.Context, schedule string) {
	var running sync.Mutex

	scheduler := cron.New()
	_, err := scheduler.AddFunc(schedule, func() {
		if !running.TryLock() {
			logger.Warn().Msg("Previous session still running, skipping this tick")
			return
		}
		defer running.Unlock()

		if err := runSession(ctx); err != nil {
			logger.Error().Err(err).Msg("Scheduled session failed")
		}
	})
	if err != nil {
		logger.Fatal().Err(err).Str("schedule", schedule).Msg("Failed to register schedule")
	}

	scheduler.Start()
	logger.Info().Str("schedule", schedule).Msg("Scheduler started - Press Ctrl+C to stop")

	<-ctx.Done()
	logger.Info().Msg("Interrupt signal received")

	stopCtx := scheduler.Stop()
	<-stopCtx.Done()
	logger.Info().Msg("Scheduler stopped")
}
