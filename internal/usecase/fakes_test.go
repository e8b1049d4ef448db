package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/kyak15/soccer-analytics/internal/domain/match"
)

const (
	testSiteBase = "https://site.test"
	testAPIBase  = "https://api.test"
)

// fakeSite resolves /match/<id> hrefs and api.test response URLs.
type fakeSite struct{}

func (fakeSite) RoundURL(round int) string {
	return fmt.Sprintf("%s/round/%d", testSiteBase, round)
}

func (fakeSite) FixtureRowSelector() string { return "a.row" }

func (fakeSite) LineupTabLabel() string { return "Lineup" }

func (fakeSite) MatchReference(href string) (match.Reference, bool) {
	id := strings.TrimPrefix(href, "/match/")
	if id == "" || id == href {
		return match.Reference{}, false
	}
	return match.Reference{MatchID: id, URL: testMatchURL(id)}, true
}

func (fakeSite) MatchIDFromURL(matchURL string) (string, error) {
	_, fragment, ok := strings.Cut(matchURL, "#")
	if !ok {
		return "", errors.New("no fragment")
	}
	id, _, _ := strings.Cut(fragment, ":")
	if id == "" {
		return "", errors.New("empty match id")
	}
	return id, nil
}

func (fakeSite) IsMatchDetailsResponse(url, matchID string) bool {
	return url == detailsURL(matchID)
}

func (fakeSite) PlayerIDFromResponse(url, matchID string) (string, bool) {
	prefix := testAPIBase + "/playerStats?matchId=" + matchID + "&playerId="
	if !strings.HasPrefix(url, prefix) {
		return "", false
	}
	return strings.TrimPrefix(url, prefix), true
}

func testMatchURL(id string) string {
	return testSiteBase + "/match/" + id + "#" + id + ":tab=lineup"
}

func detailsURL(matchID string) string {
	return testAPIBase + "/matchDetails?matchId=" + matchID
}

func playerStatsURL(matchID, playerID string) string {
	return testAPIBase + "/playerStats?matchId=" + matchID + "&playerId=" + playerID
}

// pageScript is what a fake page shows once navigated to its URL.
type pageScript struct {
	navigateErr error
	nodes       []PageNode
	responses   []NetworkResponse
	tabMissing  bool
}

type fakeBrowser struct {
	mu         sync.Mutex
	scripts    map[string]pageScript
	newPageErr error
	opened     int
	closed     int
	visited    []string
}

func newFakeBrowser(scripts map[string]pageScript) *fakeBrowser {
	return &fakeBrowser{scripts: scripts}
}

func (b *fakeBrowser) NewPage(context.Context) (Page, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.newPageErr != nil {
		return nil, b.newPageErr
	}
	b.opened++
	return &fakePage{browser: b}, nil
}

func (b *fakeBrowser) counts() (opened, closed int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.opened, b.closed
}

type responseHandler struct {
	filter func(string) bool
	fn     func(NetworkResponse)
}

type fakePage struct {
	browser  *fakeBrowser
	script   pageScript
	handlers []responseHandler
}

func (p *fakePage) Navigate(ctx context.Context, url string, _ WaitPolicy) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	p.browser.mu.Lock()
	script, ok := p.browser.scripts[url]
	p.browser.visited = append(p.browser.visited, url)
	p.browser.mu.Unlock()

	if !ok {
		return fmt.Errorf("net::ERR_NAME_NOT_RESOLVED at %s", url)
	}
	if script.navigateErr != nil {
		return script.navigateErr
	}
	p.script = script
	for _, resp := range script.responses {
		for _, h := range p.handlers {
			if h.filter(resp.URL) {
				h.fn(resp)
			}
		}
	}
	return nil
}

func (p *fakePage) QueryNodes(context.Context, string, string) ([]PageNode, error) {
	return p.script.nodes, nil
}

func (p *fakePage) OnResponse(filter func(url string) bool, fn func(NetworkResponse)) {
	p.handlers = append(p.handlers, responseHandler{filter: filter, fn: fn})
}

func (p *fakePage) OpenTab(context.Context, string) (bool, error) {
	return !p.script.tabMissing, nil
}

func (p *fakePage) Wait(ctx context.Context, _ time.Duration) error {
	return ctx.Err()
}

func (p *fakePage) Close() error {
	p.browser.mu.Lock()
	p.browser.closed++
	p.browser.mu.Unlock()
	return nil
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []PipelineEvent
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, event PipelineEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return p.err
}

func (p *recordingPublisher) snapshot() []PipelineEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]PipelineEvent(nil), p.events...)
}

type staticIDs string

func (s staticIDs) NewID() (string, error) { return string(s), nil }
