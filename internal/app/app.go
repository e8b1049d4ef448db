package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/kyak15/soccer-analytics/external/fotmob"
	"github.com/kyak15/soccer-analytics/internal/config"
	"github.com/kyak15/soccer-analytics/internal/domain/match"
	"github.com/kyak15/soccer-analytics/internal/domain/player"
	"github.com/kyak15/soccer-analytics/internal/infrastructure/artifact"
	"github.com/kyak15/soccer-analytics/internal/infrastructure/browser"
	"github.com/kyak15/soccer-analytics/internal/infrastructure/publisher"
	"github.com/kyak15/soccer-analytics/internal/infrastructure/repository/memory"
	"github.com/kyak15/soccer-analytics/internal/infrastructure/repository/postgres"
	idgen "github.com/kyak15/soccer-analytics/internal/platform/id"
	"github.com/kyak15/soccer-analytics/internal/platform/logging"
	"github.com/kyak15/soccer-analytics/internal/platform/resilience"
	"github.com/kyak15/soccer-analytics/internal/usecase"
)

// Options selects which external dependencies a run needs. Stages that only
// read artifacts from disk start neither the browser nor the database.
type Options struct {
	NeedBrowser  bool
	NeedDatabase bool
	// DryRun loads into an in-memory repository instead of Postgres.
	DryRun bool
}

// App is the wired pipeline and the resources it owns.
type App struct {
	Pipeline  *usecase.PipelineService
	Discovery *usecase.DiscoveryService

	// DryRunRepository is set when Options.DryRun is true.
	DryRunRepository *memory.MatchRepository

	closers []func() error
	logger  *logging.Logger
}

func New(ctx context.Context, cfg config.Config, opts Options, logger *logging.Logger) (*App, error) {
	if logger == nil {
		logger = logging.Default()
	}
	a := &App{logger: logger}

	site, err := fotmob.NewSite(fotmob.SiteConfig{
		BaseURL:    cfg.FotMobBaseURL,
		LeagueID:   cfg.FotMobLeagueID,
		LeagueSlug: cfg.FotMobLeagueSlug,
	})
	if err != nil {
		return nil, fmt.Errorf("configure fotmob site: %w", err)
	}

	rawStore, err := artifact.NewRawStore(cfg.RawArtifactDir)
	if err != nil {
		return nil, fmt.Errorf("open raw artifact store: %w", err)
	}
	bundleStore, err := artifact.NewBundleStore(cfg.TransformArtifactDir)
	if err != nil {
		return nil, fmt.Errorf("open transformed artifact store: %w", err)
	}

	var pages usecase.Browser
	if opts.NeedBrowser {
		b, err := browser.New(ctx, browser.Config{
			Headless:          cfg.BrowserHeadless,
			UserAgent:         cfg.BrowserUserAgent,
			ExecPath:          cfg.BrowserExecPath,
			NavigationTimeout: cfg.BrowserNavigationTimeout,
		}, logger)
		if err != nil {
			return nil, err
		}
		a.onClose(func() error {
			b.Close()
			return nil
		})
		pages = b
	}

	var repo match.Repository
	switch {
	case opts.DryRun:
		a.DryRunRepository = memory.NewMatchRepository()
		repo = a.DryRunRepository
		logger.Info("dry run: matches are loaded into memory only")
	case opts.NeedDatabase:
		db, err := OpenDB(ctx, cfg, logger)
		if err != nil {
			_ = a.Close()
			return nil, err
		}
		a.onClose(db.Close)
		repo = postgres.NewMatchRepository(db, logger)
	}

	var events usecase.EventPublisher
	if cfg.RedisEnabled {
		p, err := publisher.NewRedisStreamPublisher(ctx, publisher.RedisStreamConfig{
			URL:    cfg.RedisURL,
			Stream: cfg.RedisStream,
			MaxLen: cfg.RedisMaxLen,
		}, logger)
		if err != nil {
			_ = a.Close()
			return nil, err
		}
		a.onClose(p.Close)
		events = p
	}

	a.Discovery = usecase.NewDiscoveryService(pages, site, usecase.DiscoveryConfig{
		SettleDelay: cfg.DiscoverySettleDelay,
		Concurrency: cfg.DiscoveryConcurrency,
		CacheTTL:    cfg.DiscoveryCacheTTL,
	}, logger)
	capture := usecase.NewCaptureService(pages, site, usecase.CaptureConfig{
		SettleDelay: cfg.CaptureSettleDelay,
		Circuit: resilience.CircuitBreakerConfig{
			Enabled:          cfg.CaptureCircuitEnabled,
			FailureThreshold: cfg.CaptureCircuitFailureCount,
			OpenTimeout:      cfg.CaptureCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.CaptureCircuitHalfOpenMaxReq,
		},
	}, logger)
	transform := usecase.NewTransformService(player.DefaultPositionTable(), logger)
	load := usecase.NewLoadService(repo, logger)

	a.Pipeline = usecase.NewPipelineService(
		a.Discovery,
		capture,
		transform,
		load,
		rawStore,
		bundleStore,
		events,
		idgen.NewRunIDGenerator(),
		usecase.PipelineConfig{
			Workers:  cfg.PipelineWorkers,
			ReuseRaw: cfg.PipelineReuseRaw,
		},
		logger,
	)

	return a, nil
}

func (a *App) onClose(fn func() error) {
	a.closers = append(a.closers, fn)
}

// Close releases resources in reverse order of acquisition.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
