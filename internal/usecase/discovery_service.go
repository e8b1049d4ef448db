package usecase

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/kyak15/soccer-analytics/internal/domain/fixture"
	"github.com/kyak15/soccer-analytics/internal/domain/match"
	"github.com/kyak15/soccer-analytics/internal/platform/cache"
	"github.com/kyak15/soccer-analytics/internal/platform/logging"
	"github.com/sourcegraph/conc/pool"
	"go.opentelemetry.io/otel/attribute"
)

type DiscoveryConfig struct {
	SettleDelay time.Duration
	Concurrency int
	// CacheTTL bounds how long a scanned round is reused inside one process.
	// Zero disables the cache.
	CacheTTL time.Duration
}

type DiscoveryService struct {
	browser Browser
	site    MatchSite
	cfg     DiscoveryConfig
	rounds  *cache.Store[[]match.Reference]
	logger  *logging.Logger
}

func NewDiscoveryService(browser Browser, site MatchSite, cfg DiscoveryConfig, logger *logging.Logger) *DiscoveryService {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.Concurrency < 1 {
		cfg.Concurrency = 1
	}

	var rounds *cache.Store[[]match.Reference]
	if cfg.CacheTTL > 0 {
		rounds = cache.NewStore[[]match.Reference](cfg.CacheTTL)
	}

	return &DiscoveryService{
		browser: browser,
		site:    site,
		cfg:     cfg,
		rounds:  rounds,
		logger:  logger.Named("discovery"),
	}
}

// Discover returns the completed matches of rounds start..end inclusive,
// deduplicated and sorted by canonical URL. A round that cannot be scanned is
// logged and contributes nothing.
func (s *DiscoveryService) Discover(ctx context.Context, startRound, endRound int) ([]match.Reference, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.DiscoveryService.Discover",
		attribute.Int("round.start", startRound),
		attribute.Int("round.end", endRound),
	)
	defer span.End()

	if startRound < 0 || endRound < 0 {
		return nil, fmt.Errorf("%w: rounds must be >= 0, got %d..%d", ErrInvalidInput, startRound, endRound)
	}
	if startRound > endRound {
		return nil, fmt.Errorf("%w: start round %d is after end round %d", ErrInvalidInput, startRound, endRound)
	}
	if s.browser == nil || s.site == nil {
		return nil, fmt.Errorf("%w: discovery is not fully configured", ErrDependencyUnavailable)
	}

	workers := pool.NewWithResults[[]match.Reference]().WithMaxGoroutines(s.cfg.Concurrency)
	for round := startRound; round <= endRound; round++ {
		round := round
		workers.Go(func() []match.Reference {
			refs, err := s.discoverRound(ctx, round)
			if err != nil {
				s.logger.WarnContext(ctx, "skip round: scan failed", "round", round, "error", err)
				return nil
			}
			return refs
		})
	}

	seen := make(map[string]struct{})
	out := make([]match.Reference, 0)
	for _, refs := range workers.Wait() {
		for _, ref := range refs {
			if _, ok := seen[ref.URL]; ok {
				continue
			}
			seen[ref.URL] = struct{}{}
			out = append(out, ref)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].URL < out[j].URL })

	s.logger.InfoContext(ctx, "discovery finished",
		"start_round", startRound,
		"end_round", endRound,
		"matches", len(out),
	)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *DiscoveryService) discoverRound(ctx context.Context, round int) ([]match.Reference, error) {
	if s.rounds == nil {
		return s.scanRound(ctx, round)
	}
	return s.rounds.GetOrLoad(ctx, s.site.RoundURL(round), func(ctx context.Context) ([]match.Reference, error) {
		return s.scanRound(ctx, round)
	})
}

func (s *DiscoveryService) scanRound(ctx context.Context, round int) ([]match.Reference, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	page, err := s.browser.NewPage(ctx)
	if err != nil {
		return nil, fmt.Errorf("open page for round %d: %w", round, err)
	}
	defer func() {
		if err := page.Close(); err != nil {
			s.logger.WarnContext(ctx, "close round page failed", "round", round, "error", err)
		}
	}()

	roundURL := s.site.RoundURL(round)
	if err := page.Navigate(ctx, roundURL, WaitNetworkIdle); err != nil {
		return nil, fmt.Errorf("navigate round %d (%s): %w", round, roundURL, err)
	}
	if err := page.Wait(ctx, s.cfg.SettleDelay); err != nil {
		return nil, err
	}

	nodes, err := page.QueryNodes(ctx, s.site.FixtureRowSelector(), "href")
	if err != nil {
		return nil, fmt.Errorf("query fixture rows for round %d: %w", round, err)
	}

	refs := make([]match.Reference, 0, len(nodes))
	for _, node := range nodes {
		status := fixture.ClassifyRowText(node.Text)
		if status == fixture.RowStatusUnknown {
			s.logger.DebugContext(ctx, "drop fixture row", "round", round, "text", node.Text, "reason", ErrClassificationAmbiguity)
			continue
		}
		if !status.IsCompleted() {
			continue
		}
		if node.Attr == "" {
			continue
		}
		ref, ok := s.site.MatchReference(node.Attr)
		if !ok {
			s.logger.DebugContext(ctx, "drop fixture row: unresolvable href", "round", round, "href", node.Attr)
			continue
		}
		refs = append(refs, ref)
	}

	s.logger.InfoContext(ctx, "round scanned", "round", round, "rows", len(nodes), "completed", len(refs))
	return refs, nil
}
