package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"
	"time"

	"github.com/riskibarqy/sportsdata-ingest/internal/app"
	"github.com/riskibarqy/sportsdata-ingest/internal/config"
	"github.com/riskibarqy/sportsdata-ingest/internal/observability"
	"github.com/riskibarqy/sportsdata-ingest/internal/platform/id"
	"github.com/riskibarqy/sportsdata-ingest/internal/platform/logging"
	"go.opentelemetry.io/otel/codes"
)

var errUsage = errors.New("usage")

// env is what a command sees once flags and configuration are resolved.
type env struct {
	app    *app.App
	cfg    config.Config
	logger *logging.Logger
	stdout io.Writer
	args   []string
}

type command struct {
	summary string
	// setup registers flags and returns the action bound to them.
	setup func(fs *flag.FlagSet) func(ctx context.Context, e *env) error
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		printUsage(stderr)
		return 2
	}

	name := strings.ToLower(strings.TrimSpace(args[0]))
	if name == "help" || name == "-h" || name == "--help" {
		printUsage(stdout)
		return 0
	}
	cmd, ok := commands[name]
	if !ok {
		fmt.Fprintf(stderr, "unknown command %q\n\n", args[0])
		printUsage(stderr)
		return 2
	}

	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(stderr)
	action := cmd.setup(fs)
	if err := fs.Parse(args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(stderr, "load config: %v\n", err)
		return 1
	}

	logger := newLogger(cfg)
	defer func() { _ = logger.Sync() }()

	runID, err := id.NewRandomGenerator().NewID()
	if err != nil {
		fmt.Fprintf(stderr, "create run id: %v\n", err)
		return 1
	}
	logger = logger.With("run_id", runID, "command", name)
	logging.SetDefault(logger)

	shutdownTracing, err := observability.InitUptrace(cfg, logger)
	if err != nil {
		fmt.Fprintf(stderr, "init uptrace: %v\n", err)
		return 1
	}
	defer flushTracing(shutdownTracing, logger)

	stopProfiling, err := observability.InitPyroscope(cfg, logger)
	if err != nil {
		fmt.Fprintf(stderr, "init pyroscope: %v\n", err)
		return 1
	}
	defer func() {
		if err := stopProfiling(); err != nil {
			logger.Warn("stop pyroscope failed", "error", err)
		}
	}()

	ctx, span := observability.StartRun(ctx, name, runID)
	defer span.End()

	application := app.New(cfg, logger)
	defer func() {
		if err := application.Close(); err != nil {
			logger.Warn("close app failed", "error", err)
		}
	}()

	logger.InfoContext(ctx, "run started", "config", cfg.Redacted())
	started := time.Now()

	err = action(ctx, &env{
		app:    application,
		cfg:    cfg,
		logger: logger,
		stdout: stdout,
		args:   fs.Args(),
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		logger.ErrorContext(ctx, "run failed", "error", err, "elapsed", time.Since(started).String())

		if errors.Is(err, errUsage) {
			fmt.Fprintf(stderr, "%v\n\n", err)
			fs.Usage()
			return 2
		}
		if errors.Is(err, context.Canceled) {
			fmt.Fprintln(stderr, "interrupted")
			return 1
		}
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}

	logger.InfoContext(ctx, "run finished", "elapsed", time.Since(started).String())
	return 0
}

func newLogger(cfg config.Config) *logging.Logger {
	if cfg.AppEnv == config.EnvDev {
		return logging.NewConsole(cfg.LogLevel)
	}
	return logging.NewJSON(cfg.LogLevel)
}

func flushTracing(shutdown func(context.Context) error, logger *logging.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := shutdown(ctx); err != nil {
		logger.Warn("flush traces failed", "error", err)
	}
}

func printUsage(w io.Writer) {
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Fprintln(w, "usage: ingest <command> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "commands:")
	for _, name := range names {
		fmt.Fprintf(w, "  %-16s %s\n", name, commands[name].summary)
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "run 'ingest <command> -h' for the flags of one command")
}
