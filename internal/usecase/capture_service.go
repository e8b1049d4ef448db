package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/bytedance/sonic"
	"github.com/kyak15/soccer-analytics/internal/domain/rawdata"
	"github.com/kyak15/soccer-analytics/internal/platform/logging"
	"github.com/kyak15/soccer-analytics/internal/platform/resilience"
	"go.opentelemetry.io/otel/attribute"
)

type CaptureConfig struct {
	SettleDelay time.Duration
	Circuit     resilience.CircuitBreakerConfig
}

type CaptureService struct {
	browser Browser
	site    MatchSite
	cfg     CaptureConfig
	breaker *resilience.CircuitBreaker
	flight  resilience.SingleFlight[rawdata.Document]
	logger  *logging.Logger
}

func NewCaptureService(browser Browser, site MatchSite, cfg CaptureConfig, logger *logging.Logger) *CaptureService {
	if logger == nil {
		logger = logging.Default()
	}
	logger = logger.Named("capture")

	breaker := resilience.NewCircuitBreakerFromConfig(cfg.Circuit)
	breaker.OnStateChange(func(from, to resilience.CircuitState) {
		logger.Warn("capture circuit changed state", "from", from, "to", to)
	})

	return &CaptureService{
		browser: browser,
		site:    site,
		cfg:     cfg,
		breaker: breaker,
		logger:  logger,
	}
}

// Capture loads the match page, listens for the match details and per-player
// stats responses, and returns them as one document. Concurrent calls for the
// same match share a single page visit.
func (s *CaptureService) Capture(ctx context.Context, matchURL string) (rawdata.Document, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.CaptureService.Capture", attribute.String("match.url", matchURL))
	defer span.End()

	if s.browser == nil || s.site == nil {
		return rawdata.Document{}, fmt.Errorf("%w: capture is not fully configured", ErrDependencyUnavailable)
	}

	matchID, err := s.site.MatchIDFromURL(matchURL)
	if err != nil {
		return rawdata.Document{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	doc, shared, err := s.flight.Do(matchID, func() (rawdata.Document, error) {
		var out rawdata.Document
		execErr := s.breaker.Execute(ctx, func(ctx context.Context) error {
			var captureErr error
			out, captureErr = s.capture(ctx, matchID, matchURL)
			return captureErr
		})
		return out, execErr
	})
	if errors.Is(err, resilience.ErrCircuitOpen) {
		err = fmt.Errorf("%w: match provider failing, capture of %s skipped: %v", ErrDependencyUnavailable, matchID, err)
	}
	if err != nil {
		recordSpanError(span, err)
		return rawdata.Document{}, err
	}
	if shared {
		s.logger.DebugContext(ctx, "capture shared with in-flight call", "match_id", matchID)
	}
	return doc, nil
}

func (s *CaptureService) capture(ctx context.Context, matchID, matchURL string) (rawdata.Document, error) {
	page, err := s.browser.NewPage(ctx)
	if err != nil {
		return rawdata.Document{}, fmt.Errorf("%w: open page for match %s: %w", ErrCapture, matchID, err)
	}

	collector := newResponseCollector()
	page.OnResponse(
		func(url string) bool {
			if s.site.IsMatchDetailsResponse(url, matchID) {
				return true
			}
			_, ok := s.site.PlayerIDFromResponse(url, matchID)
			return ok
		},
		func(resp NetworkResponse) {
			s.collect(ctx, collector, matchID, resp)
		},
	)

	visitErr := s.visit(ctx, page, matchID, matchURL)
	if err := page.Close(); err != nil {
		s.logger.WarnContext(ctx, "close match page failed", "match_id", matchID, "error", err)
	}
	if visitErr != nil {
		return rawdata.Document{}, visitErr
	}

	doc := collector.document(matchID)
	if doc.MatchDetails == nil {
		return rawdata.Document{}, fmt.Errorf("%w: no match details response observed for match %s", ErrCapture, matchID)
	}
	if providerErr := doc.ProviderError(); providerErr != "" {
		return rawdata.Document{}, fmt.Errorf("%w: match details for %s carry provider error %q", ErrCapture, matchID, providerErr)
	}

	s.logger.InfoContext(ctx, "capture finished",
		"match_id", matchID,
		"player_stats", len(doc.PlayerStats),
		"ignored_responses", collector.ignoredCount(),
	)
	return doc, nil
}

func (s *CaptureService) visit(ctx context.Context, page Page, matchID, matchURL string) error {
	if err := page.Navigate(ctx, matchURL, WaitNetworkIdle); err != nil {
		return fmt.Errorf("%w: navigate match %s: %w", ErrCapture, matchID, err)
	}

	label := s.site.LineupTabLabel()
	opened, err := page.OpenTab(ctx, label)
	switch {
	case err != nil:
		s.logger.WarnContext(ctx, "open lineup tab failed", "match_id", matchID, "tab", label, "error", err)
	case !opened:
		s.logger.WarnContext(ctx, "lineup tab not found", "match_id", matchID, "tab", label)
	}

	if err := page.Wait(ctx, s.cfg.SettleDelay); err != nil {
		return fmt.Errorf("%w: settle match %s: %w", ErrCapture, matchID, err)
	}
	return nil
}

func (s *CaptureService) collect(ctx context.Context, c *responseCollector, matchID string, resp NetworkResponse) {
	var payload map[string]any
	if err := sonic.Unmarshal(resp.Body, &payload); err != nil || payload == nil {
		c.ignore()
		s.logger.DebugContext(ctx, "ignore non-json response", "match_id", matchID, "url", resp.URL)
		return
	}

	if s.site.IsMatchDetailsResponse(resp.URL, matchID) {
		c.setMatchDetails(payload)
		return
	}
	if playerID, ok := s.site.PlayerIDFromResponse(resp.URL, matchID); ok {
		c.setPlayerStats(playerID, payload)
	}
}

// responseCollector is written from browser event goroutines.
type responseCollector struct {
	mu           sync.Mutex
	matchDetails map[string]any
	playerStats  map[string]map[string]any
	ignored      int
}

func newResponseCollector() *responseCollector {
	return &responseCollector{playerStats: make(map[string]map[string]any)}
}

func (c *responseCollector) setMatchDetails(payload map[string]any) {
	c.mu.Lock()
	c.matchDetails = payload
	c.mu.Unlock()
}

func (c *responseCollector) setPlayerStats(playerID string, payload map[string]any) {
	c.mu.Lock()
	c.playerStats[playerID] = payload
	c.mu.Unlock()
}

func (c *responseCollector) ignore() {
	c.mu.Lock()
	c.ignored++
	c.mu.Unlock()
}

func (c *responseCollector) ignoredCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ignored
}

func (c *responseCollector) document(matchID string) rawdata.Document {
	c.mu.Lock()
	defer c.mu.Unlock()

	stats := make(map[string]map[string]any, len(c.playerStats))
	for id, payload := range c.playerStats {
		stats[id] = payload
	}
	return rawdata.Document{
		MatchID:      matchID,
		MatchDetails: c.matchDetails,
		PlayerStats:  stats,
	}
}
