package browser

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"
	crerr "github.com/cockroachdb/errors"
	"github.com/kyak15/soccer-analytics/internal/platform/logging"
	"github.com/kyak15/soccer-analytics/internal/usecase"
)

type responseListener struct {
	filter func(url string) bool
	fn     func(usecase.NetworkResponse)
}

type page struct {
	ctx    context.Context
	cancel context.CancelFunc
	cfg    Config
	logger *logging.Logger
	idle   *idleTracker

	mu        sync.Mutex
	closed    bool
	listeners []responseListener
	// matched maps request ids of responses a listener wants to their URL
	// until loading finishes.
	matched map[network.RequestID]string
	bodies  sync.WaitGroup
}

func newPage(ctx context.Context, cancel context.CancelFunc, cfg Config, logger *logging.Logger) *page {
	return &page{
		ctx:     ctx,
		cancel:  cancel,
		cfg:     cfg,
		logger:  logger,
		idle:    newIdleTracker(),
		matched: make(map[network.RequestID]string),
	}
}

// run executes actions on the tab, bounded by timeout and by the caller's ctx.
func (p *page) run(ctx context.Context, timeout time.Duration, actions ...chromedp.Action) error {
	runCtx, cancel := context.WithTimeout(p.ctx, timeout)
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	err := chromedp.Run(runCtx, actions...)
	if err != nil && ctx.Err() != nil {
		return ctx.Err()
	}
	return err
}

func (p *page) enableNetwork(ctx context.Context) error {
	return p.run(ctx, p.cfg.NavigationTimeout, network.Enable())
}

func (p *page) Navigate(ctx context.Context, url string, wait usecase.WaitPolicy) error {
	deadline := time.Now().Add(p.cfg.NavigationTimeout)
	if err := p.run(ctx, p.cfg.NavigationTimeout, chromedp.Navigate(url)); err != nil {
		return crerr.Wrapf(err, "navigate %s", url)
	}
	if wait != usecase.WaitNetworkIdle {
		return nil
	}

	waitCtx, cancel := context.WithDeadline(ctx, deadline)
	defer cancel()
	err := p.idle.wait(waitCtx, p.cfg.IdleWindow)
	switch {
	case err == nil:
		return nil
	case ctx.Err() != nil:
		return ctx.Err()
	case errors.Is(err, context.DeadlineExceeded):
		p.logger.DebugContext(ctx, "network not idle before navigation timeout, continuing", "url", url, "in_flight", p.idle.inFlight())
		return nil
	default:
		return err
	}
}

func (p *page) QueryNodes(ctx context.Context, selector, attr string) ([]usecase.PageNode, error) {
	var html string
	if err := p.run(ctx, p.cfg.NavigationTimeout, chromedp.OuterHTML("html", &html, chromedp.ByQuery)); err != nil {
		return nil, crerr.Wrap(err, "read page html")
	}
	return nodesFromHTML(html, selector, attr)
}

func (p *page) OnResponse(filter func(url string) bool, fn func(usecase.NetworkResponse)) {
	if filter == nil || fn == nil {
		return
	}
	p.mu.Lock()
	p.listeners = append(p.listeners, responseListener{filter: filter, fn: fn})
	p.mu.Unlock()
}

func (p *page) OpenTab(ctx context.Context, label string) (bool, error) {
	script := `(() => {
	const want = ` + strconv.Quote(label) + `;
	const nodes = Array.from(document.querySelectorAll('button, [role="tab"], [role="button"], a'));
	const el = nodes.find(n => (n.innerText || n.textContent || '').trim() === want);
	if (!el) { return false; }
	el.click();
	return true;
})()`

	var clicked bool
	if err := p.run(ctx, p.cfg.NavigationTimeout, chromedp.Evaluate(script, &clicked)); err != nil {
		return false, crerr.Wrapf(err, "open tab %q", label)
	}
	return clicked, nil
}

func (p *page) Wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Close waits for in-flight body fetches, then closes the tab. No listener
// runs after it returns.
func (p *page) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	p.mu.Unlock()

	p.bodies.Wait()
	p.cancel()
	return nil
}

func (p *page) onEvent(ev any) {
	switch e := ev.(type) {
	case *network.EventRequestWillBeSent:
		p.idle.start(string(e.RequestID))
	case *network.EventResponseReceived:
		if e.Response == nil || !p.wants(e.Response.URL) {
			return
		}
		p.mu.Lock()
		p.matched[e.RequestID] = e.Response.URL
		p.mu.Unlock()
	case *network.EventLoadingFinished:
		p.idle.done(string(e.RequestID))
		p.fetchBody(e.RequestID)
	case *network.EventLoadingFailed:
		p.idle.done(string(e.RequestID))
		p.mu.Lock()
		delete(p.matched, e.RequestID)
		p.mu.Unlock()
	}
}

func (p *page) wants(url string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, l := range p.listeners {
		if l.filter(url) {
			return true
		}
	}
	return false
}

// fetchBody must not block: it is called from the event loop, which
// GetResponseBody itself needs.
func (p *page) fetchBody(id network.RequestID) {
	p.mu.Lock()
	url, ok := p.matched[id]
	delete(p.matched, id)
	if !ok || p.closed {
		p.mu.Unlock()
		return
	}
	p.bodies.Add(1)
	p.mu.Unlock()

	go func() {
		defer p.bodies.Done()

		var body []byte
		err := p.run(context.Background(), bodyFetchTimeout, chromedp.ActionFunc(func(ctx context.Context) error {
			b, err := network.GetResponseBody(id).Do(ctx)
			body = b
			return err
		}))
		if err != nil {
			p.logger.Debug("read response body failed", "url", url, "error", err)
			return
		}
		p.deliver(usecase.NetworkResponse{URL: url, Body: body})
	}()
}

func (p *page) deliver(resp usecase.NetworkResponse) {
	p.mu.Lock()
	listeners := append([]responseListener(nil), p.listeners...)
	p.mu.Unlock()

	for _, l := range listeners {
		if l.filter(resp.URL) {
			l.fn(resp)
		}
	}
}
