package browser

import (
	"context"
	"time"

	"github.com/chromedp/chromedp"
	crerr "github.com/cockroachdb/errors"
	"github.com/kyak15/soccer-analytics/internal/platform/logging"
	"github.com/kyak15/soccer-analytics/internal/usecase"
)

const (
	DefaultUserAgent         = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/142.0.0.0 Safari/537.36"
	DefaultNavigationTimeout = 45 * time.Second
	defaultIdleWindow        = 500 * time.Millisecond
	bodyFetchTimeout         = 15 * time.Second
)

type Config struct {
	Headless          bool
	UserAgent         string
	ExecPath          string
	NavigationTimeout time.Duration
	// IdleWindow is how long the network must stay quiet to count as idle.
	IdleWindow time.Duration
}

// Browser is one headless Chrome process. Every page is a separate tab.
type Browser struct {
	cfg           Config
	allocCancel   context.CancelFunc
	browserCtx    context.Context
	browserCancel context.CancelFunc
	logger        *logging.Logger
}

func New(ctx context.Context, cfg Config, logger *logging.Logger) (*Browser, error) {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}
	if cfg.NavigationTimeout <= 0 {
		cfg.NavigationTimeout = DefaultNavigationTimeout
	}
	if cfg.IdleWindow <= 0 {
		cfg.IdleWindow = defaultIdleWindow
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", cfg.Headless),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.UserAgent(cfg.UserAgent),
	)
	if cfg.ExecPath != "" {
		opts = append(opts, chromedp.ExecPath(cfg.ExecPath))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(context.WithoutCancel(ctx), opts...)
	browserCtx, browserCancel := chromedp.NewContext(allocCtx)
	if err := chromedp.Run(browserCtx); err != nil {
		browserCancel()
		allocCancel()
		return nil, crerr.Wrap(err, "start headless browser")
	}

	logger.Info("headless browser started", "headless", cfg.Headless, "navigation_timeout", cfg.NavigationTimeout)
	return &Browser{
		cfg:           cfg,
		allocCancel:   allocCancel,
		browserCtx:    browserCtx,
		browserCancel: browserCancel,
		logger:        logger.Named("browser"),
	}, nil
}

func (b *Browser) NewPage(ctx context.Context) (usecase.Page, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := b.browserCtx.Err(); err != nil {
		return nil, crerr.Wrap(err, "browser is closed")
	}

	tabCtx, cancel := chromedp.NewContext(b.browserCtx)
	p := newPage(tabCtx, cancel, b.cfg, b.logger)
	chromedp.ListenTarget(tabCtx, p.onEvent)
	if err := p.enableNetwork(ctx); err != nil {
		cancel()
		return nil, crerr.Wrap(err, "open browser tab")
	}
	return p, nil
}

// Close shuts down the browser process.
func (b *Browser) Close() {
	if b.browserCancel != nil {
		b.browserCancel()
	}
	if b.allocCancel != nil {
		b.allocCancel()
	}
}
