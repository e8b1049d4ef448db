package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/kyak15/soccer-analytics/internal/platform/logging"
)

func discoveryScripts() map[string]pageScript {
	site := fakeSite{}
	return map[string]pageScript{
		site.RoundURL(1): {nodes: []PageNode{
			{Text: "FT Liverpool 2-0 Everton", Attr: "/match/20"},
			{Text: "45+2' LIVE Arsenal 1-0 Chelsea", Attr: "/match/21"},
			{Text: "Wolves 20:00 Spurs", Attr: "/match/22"},
			{Text: "Brighton vs Fulham", Attr: "/match/23"},
			{Text: "FT Leeds 1-1 Burnley", Attr: ""},
			{Text: "FT Newcastle 3-1 Villa", Attr: "/teams/10261/overview"},
		}},
		site.RoundURL(2): {nodes: []PageNode{
			{Text: "Brentford 1-0 Fulham", Attr: "/match/10"},
			{Text: "FT Liverpool 2-0 Everton", Attr: "/match/20"},
		}},
		site.RoundURL(3): {navigateErr: errors.New("net::ERR_TIMED_OUT")},
	}
}

func TestDiscoveryService_Discover(t *testing.T) {
	t.Parallel()

	browser := newFakeBrowser(discoveryScripts())
	svc := NewDiscoveryService(browser, fakeSite{}, DiscoveryConfig{Concurrency: 2}, logging.NewNop())

	refs, err := svc.Discover(context.Background(), 1, 3)
	if err != nil {
		t.Fatalf("discover: %v", err)
	}

	want := []string{testMatchURL("10"), testMatchURL("20")}
	if len(refs) != len(want) {
		t.Fatalf("expected %d refs, got %+v", len(want), refs)
	}
	for i, ref := range refs {
		if ref.URL != want[i] {
			t.Fatalf("ref %d: got=%s want=%s", i, ref.URL, want[i])
		}
	}
	if refs[0].MatchID != "10" {
		t.Fatalf("unexpected match id %q", refs[0].MatchID)
	}

	opened, closed := browser.counts()
	if opened != 3 || closed != 3 {
		t.Fatalf("every round page must be closed, opened=%d closed=%d", opened, closed)
	}
}

func TestDiscoveryService_InvalidRange(t *testing.T) {
	t.Parallel()

	svc := NewDiscoveryService(newFakeBrowser(nil), fakeSite{}, DiscoveryConfig{}, logging.NewNop())
	for _, tc := range []struct{ start, end int }{{-1, 2}, {5, 4}} {
		if _, err := svc.Discover(context.Background(), tc.start, tc.end); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("range %d..%d: expected ErrInvalidInput, got %v", tc.start, tc.end, err)
		}
	}
}

func TestDiscoveryService_NotConfigured(t *testing.T) {
	t.Parallel()

	svc := NewDiscoveryService(nil, fakeSite{}, DiscoveryConfig{}, logging.NewNop())
	if _, err := svc.Discover(context.Background(), 0, 0); !errors.Is(err, ErrDependencyUnavailable) {
		t.Fatalf("expected ErrDependencyUnavailable, got %v", err)
	}
}

func TestDiscoveryService_CachesRounds(t *testing.T) {
	t.Parallel()

	browser := newFakeBrowser(discoveryScripts())
	svc := NewDiscoveryService(browser, fakeSite{}, DiscoveryConfig{CacheTTL: time.Minute}, logging.NewNop())

	first, err := svc.Discover(context.Background(), 1, 2)
	if err != nil {
		t.Fatalf("first discover: %v", err)
	}
	second, err := svc.Discover(context.Background(), 1, 2)
	if err != nil {
		t.Fatalf("second discover: %v", err)
	}

	if len(first) != len(second) {
		t.Fatalf("cached result differs: %d vs %d", len(first), len(second))
	}
	if opened, _ := browser.counts(); opened != 2 {
		t.Fatalf("expected each round to be scanned once, opened %d pages", opened)
	}
}

func TestDiscoveryService_Cancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	svc := NewDiscoveryService(newFakeBrowser(discoveryScripts()), fakeSite{}, DiscoveryConfig{}, logging.NewNop())
	refs, err := svc.Discover(ctx, 1, 2)
	if !errors.Is(err, context.Canceled) || refs != nil {
		t.Fatalf("expected cancellation, got refs=%v err=%v", refs, err)
	}
}
