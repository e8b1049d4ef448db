package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/bytedance/sonic"

	"github.com/kyak15/soccer-analytics/internal/app"
	"github.com/kyak15/soccer-analytics/internal/config"
	"github.com/kyak15/soccer-analytics/internal/observability"
	"github.com/kyak15/soccer-analytics/internal/platform/logging"
	"github.com/kyak15/soccer-analytics/internal/usecase"
)

const (
	modeBackfill  = "backfill"
	modeDiscover  = "discover"
	modeCapture   = "capture"
	modeTransform = "transform"
	modeLoad      = "load"
)

type options struct {
	mode       string
	startRound int
	endRound   int
	matchURL   string
	matchID    string
	dryRun     bool
}

func parseOptions(args []string, stderr io.Writer) (options, error) {
	var opts options
	fs := flag.NewFlagSet("pipeline", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&opts.mode, "mode", modeBackfill, "backfill | discover | capture | transform | load")
	fs.IntVar(&opts.startRound, "start-round", 0, "first round to scan (inclusive)")
	fs.IntVar(&opts.endRound, "end-round", 10, "last round to scan (inclusive)")
	fs.StringVar(&opts.matchURL, "match-url", "", "match page url for -mode=capture")
	fs.StringVar(&opts.matchID, "match-id", "", "match id for -mode=transform and -mode=load")
	fs.BoolVar(&opts.dryRun, "dry-run", false, "load into memory instead of Postgres")
	if err := fs.Parse(args); err != nil {
		return options{}, err
	}

	opts.mode = strings.ToLower(strings.TrimSpace(opts.mode))
	opts.matchURL = strings.TrimSpace(opts.matchURL)
	opts.matchID = strings.TrimSpace(opts.matchID)

	switch opts.mode {
	case modeBackfill, modeDiscover:
		if opts.startRound < 0 || opts.endRound < opts.startRound {
			return options{}, fmt.Errorf("invalid round range %d..%d", opts.startRound, opts.endRound)
		}
	case modeCapture:
		if opts.matchURL == "" {
			return options{}, fmt.Errorf("-match-url is required for -mode=%s", opts.mode)
		}
	case modeTransform, modeLoad:
		if opts.matchID == "" {
			return options{}, fmt.Errorf("-match-id is required for -mode=%s", opts.mode)
		}
		if _, err := strconv.ParseInt(opts.matchID, 10, 64); err != nil {
			return options{}, fmt.Errorf("-match-id must be numeric: %q", opts.matchID)
		}
	default:
		return options{}, fmt.Errorf("unknown mode %q", opts.mode)
	}
	return opts, nil
}

func (o options) appOptions() app.Options {
	return app.Options{
		NeedBrowser:  o.mode == modeBackfill || o.mode == modeDiscover || o.mode == modeCapture,
		NeedDatabase: o.mode == modeBackfill || o.mode == modeLoad,
		DryRun:       o.dryRun,
	}
}

func main() {
	opts, err := parseOptions(os.Args[1:], os.Stderr)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := logging.New(os.Stderr, cfg.LogLevel).With("service", cfg.ServiceName, "run_mode", opts.mode)
	logging.SetDefault(logger)
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := observability.InitUptrace(cfg, logger)
	if err != nil {
		logger.Error("init uptrace", "error", err)
		os.Exit(1)
	}
	stopProfiling, err := observability.InitPyroscope(cfg, logger)
	if err != nil {
		logger.Error("init pyroscope", "error", err)
		os.Exit(1)
	}

	code := run(ctx, cfg, opts, logger, os.Stdout)

	flushCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := shutdownTracing(flushCtx); err != nil {
		logger.Warn("shutdown uptrace", "error", err)
	}
	if err := stopProfiling(); err != nil {
		logger.Warn("stop pyroscope", "error", err)
	}
	if code != 0 {
		os.Exit(code)
	}
}

func run(ctx context.Context, cfg config.Config, opts options, logger *logging.Logger, stdout io.Writer) int {
	a, err := app.New(ctx, cfg, opts.appOptions(), logger)
	if err != nil {
		logger.Error("build app", "error", err)
		return 1
	}
	defer func() {
		if err := a.Close(); err != nil {
			logger.Warn("close app", "error", err)
		}
	}()

	out, err := execute(ctx, a, opts)
	if err != nil {
		logger.Error("pipeline failed", "mode", opts.mode, "error", err)
		return 1
	}
	if err := writeJSON(stdout, out); err != nil {
		logger.Error("write result", "error", err)
		return 1
	}
	return 0
}

func execute(ctx context.Context, a *app.App, opts options) (any, error) {
	switch opts.mode {
	case modeDiscover:
		return a.Discovery.Discover(ctx, opts.startRound, opts.endRound)
	case modeCapture:
		doc, err := a.Pipeline.CaptureAndStore(ctx, opts.matchURL)
		if err != nil {
			return nil, err
		}
		return map[string]any{
			"match_id":      doc.MatchID,
			"match_details": doc.MatchDetails != nil,
			"player_stats":  len(doc.PlayerStats),
		}, nil
	case modeTransform:
		bundle, err := a.Pipeline.TransformStored(ctx, opts.matchID)
		if err != nil {
			return nil, err
		}
		return map[string]any{
			"match_id":     bundle.Match.MatchID,
			"players":      len(bundle.UniquePlayers()),
			"player_stats": len(bundle.PlayerStats),
		}, nil
	case modeLoad:
		matchID, _ := strconv.ParseInt(opts.matchID, 10, 64)
		inserted, err := a.Pipeline.LoadStored(ctx, matchID)
		if err != nil {
			return nil, err
		}
		return map[string]any{"match_id": matchID, "inserted": inserted}, nil
	default:
		return a.Pipeline.Backfill(ctx, usecase.BackfillInput{StartRound: opts.startRound, EndRound: opts.endRound})
	}
}

func writeJSON(w io.Writer, v any) error {
	body, err := sonic.ConfigStd.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(body))
	return err
}
