// SchoolSynth generates synthetic school records (students, parents,
// teachers, subjects, time allocations and assessment scores) and loads
// them into a datastore.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/schoolsynth/schoolsynth/internal/config"
	"github.com/schoolsynth/schoolsynth/internal/util"
)

// Build information (set via ldflags)
var (
	Version   = "dev"
	BuildTime = "unknown"
)

// options are the command line switches selecting what a run does.
type options struct {
	configPath     string
	generate       bool
	load           bool
	refreshNames   bool
	writeNames     bool
	renameStudents bool
	refreshParents bool
	progress       bool
	debug          bool
}

func (o options) anyAction() bool {
	return o.generate || o.load || o.refreshNames || o.writeNames || o.renameStudents || o.refreshParents
}

func main() {
	var (
		opts        options
		showVersion bool
	)
	flag.StringVar(&opts.configPath, "config", "", "Path to configuration file")
	flag.BoolVar(&opts.generate, "generate", false, "Generate a dataset and write the configured output files")
	flag.BoolVar(&opts.load, "load", false, "Generate a dataset and load it into the configured store")
	flag.BoolVar(&opts.refreshNames, "refresh-names", false, "Scrape ethnic last names into datasets.names_dir")
	flag.BoolVar(&opts.writeNames, "write-names", false, "Write the built-in name lists to datasets.names_dir")
	flag.BoolVar(&opts.renameStudents, "rename-students", false, "Reassign first names of stored students")
	flag.BoolVar(&opts.refreshParents, "refresh-parents", false, "Redraw names and metadata of stored parents")
	flag.BoolVar(&opts.progress, "progress", false, "Show a progress display while loading")
	flag.BoolVar(&opts.debug, "debug", false, "Enable debug logging")
	flag.BoolVar(&showVersion, "version", false, "Show version and exit")
	flag.Parse()

	if showVersion {
		fmt.Printf("schoolsynth version %s (built %s)\n", Version, BuildTime)
		os.Exit(0)
	}

	if !opts.anyAction() {
		opts.generate = true
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigChan
		slog.Info("received shutdown signal", "signal", sig)
		cancel()

		// Force exit after timeout
		time.AfterFunc(10*time.Second, func() {
			slog.Error("forced shutdown after timeout")
			os.Exit(1)
		})
	}()

	if err := run(ctx, opts); err != nil {
		slog.Error("schoolsynth failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, opts options) error {
	if err := config.LoadDotEnv(".env"); err != nil {
		return err
	}

	cfg, cfgPath, err := config.Load(opts.configPath, true)
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	closeLog, err := setupLogging(cfg, opts.debug, opts.progress && opts.load)
	if err != nil {
		return err
	}
	defer closeLog()

	slog.Info("schoolsynth starting",
		"version", Version,
		"build_time", BuildTime,
		"config_path", cfgPath,
	)

	if opts.writeNames {
		if err := writeNames(cfg); err != nil {
			return err
		}
	}

	if opts.refreshNames {
		if err := refreshNames(ctx, cfg); err != nil {
			return err
		}
	}

	if !(opts.generate || opts.load || opts.renameStudents || opts.refreshParents) {
		return nil
	}

	catalog, err := loadCatalog(cfg)
	if err != nil {
		return err
	}

	if opts.generate || opts.load {
		ds, err := generate(ctx, cfg, catalog)
		if err != nil {
			return err
		}

		if opts.generate {
			if err := writeOutputs(cfg, ds); err != nil {
				return err
			}
		}

		if opts.load {
			if err := load(ctx, cfg, ds, opts.progress); err != nil {
				return err
			}
		}
	}

	if opts.renameStudents || opts.refreshParents {
		if err := maintain(ctx, cfg, catalog, opts.renameStudents, opts.refreshParents); err != nil {
			return err
		}
	}

	slog.Info("schoolsynth done")
	return nil
}

// setupLogging installs the default logger. Logs go to a JSON file when one
// is configured and to stderr as text otherwise. The returned func closes
// the log file. With quiet set, stderr only gets warnings and errors so the
// progress display stays readable.
func setupLogging(cfg *config.Config, debug, quiet bool) (func(), error) {
	logLevel := slog.LevelInfo
	if debug {
		logLevel = slog.LevelDebug
	} else {
		switch cfg.Logging.Level {
		case config.LogLevelDebug:
			logLevel = slog.LevelDebug
		case config.LogLevelWarn:
			logLevel = slog.LevelWarn
		case config.LogLevelError:
			logLevel = slog.LevelError
		}
	}

	logPath, err := config.EnsureLogDir(cfg)
	if err != nil {
		return nil, fmt.Errorf("creating log directory: %w", err)
	}

	closeLog := func() {}
	var logHandler slog.Handler
	if logPath != "" {
		logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0640)
		if err != nil {
			return nil, fmt.Errorf("opening log file: %w", err)
		}
		closeLog = func() { logFile.Close() }

		logHandler = slog.NewJSONHandler(logFile, &slog.HandlerOptions{
			Level: logLevel,
		})
	} else {
		if quiet && logLevel < slog.LevelWarn {
			logLevel = slog.LevelWarn
		}
		logHandler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: logLevel,
		})
	}

	slog.SetDefault(slog.New(logHandler).With("run_id", util.NewRunID()))
	return closeLog, nil
}
