package usecase

import (
	"context"
	"time"

	"github.com/kyak15/soccer-analytics/internal/domain/match"
)

// WaitPolicy tells a page when a navigation counts as done.
type WaitPolicy string

const (
	// WaitNetworkIdle waits until no request has been in flight for a short
	// quiet window.
	WaitNetworkIdle WaitPolicy = "networkidle"
	WaitLoad        WaitPolicy = "load"
)

// PageNode is one element found on a page.
type PageNode struct {
	Text string
	Attr string
}

// NetworkResponse is a finished response observed by a page.
type NetworkResponse struct {
	URL  string
	Body []byte
}

// Browser opens isolated pages backed by a headless browser.
type Browser interface {
	NewPage(ctx context.Context) (Page, error)
}

// Page is one browser tab. Close must not return while a response callback is
// still running, and no callback may start after it returns.
type Page interface {
	Navigate(ctx context.Context, url string, wait WaitPolicy) error
	// QueryNodes returns the visible text of every node matching selector and
	// the value of attr on it ("" when absent).
	QueryNodes(ctx context.Context, selector, attr string) ([]PageNode, error)
	// OnResponse registers fn for every finished response whose URL satisfies
	// filter. It must be called before Navigate.
	OnResponse(filter func(url string) bool, fn func(NetworkResponse))
	// OpenTab clicks the tab labelled label. It returns false when no such tab
	// exists.
	OpenTab(ctx context.Context, label string) (bool, error)
	Wait(ctx context.Context, d time.Duration) error
	Close() error
}

// MatchSite knows the provider's URLs, selectors and response shapes.
type MatchSite interface {
	RoundURL(round int) string
	FixtureRowSelector() string
	// MatchReference turns a fixture row href into a canonical lineup
	// reference.
	MatchReference(href string) (match.Reference, bool)
	MatchIDFromURL(matchURL string) (string, error)
	IsMatchDetailsResponse(url, matchID string) bool
	PlayerIDFromResponse(url, matchID string) (string, bool)
	LineupTabLabel() string
}

// PipelineEvent is published once per processed match.
type PipelineEvent struct {
	RunID    string    `json:"run_id"`
	MatchID  string    `json:"match_id"`
	Stage    string    `json:"stage"`
	Status   string    `json:"status"`
	Rows     int       `json:"rows"`
	Message  string    `json:"message,omitempty"`
	Occurred time.Time `json:"occurred_at"`
}

type EventPublisher interface {
	Publish(ctx context.Context, event PipelineEvent) error
}

type noopEventPublisher struct{}

func (noopEventPublisher) Publish(context.Context, PipelineEvent) error {
	return nil
}
