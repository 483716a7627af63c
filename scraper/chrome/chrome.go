// Package chrome implements the scraper browser capability on top of chromedp.
package chrome

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"campground-scanner/scraper"
	"campground-scanner/utils"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"
)

const (
	defaultNavigationTimeout = 45 * time.Second
	bodyTimeout              = 15 * time.Second
)

// Options configures how Chrome is started
type Options struct {
	ExecPath       string // empty means look Chrome up on PATH
	Headless       bool
	UserAgent      string
	LaunchAttempts int
}

// Launcher starts headless Chrome through chromedp
type Launcher struct {
	opts   Options
	logger *utils.Logger
}

// NewLauncher creates a new Launcher
func NewLauncher(opts Options, logger *utils.Logger) *Launcher {
	return &Launcher{opts: opts, logger: logger}
}

// Launch starts the browser, retrying transient startup failures
func (l *Launcher) Launch(ctx context.Context) (scraper.Browser, error) {
	var b *browser
	err := utils.RetryWithBackoff(ctx, l.opts.LaunchAttempts, func() error {
		var err error
		b, err = l.start(ctx)
		return err
	}, l.logger)
	if err != nil {
		return nil, &scraper.StartupError{Cause: err}
	}
	return b, nil
}

// start creates one browser process with a single shared browsing context
func (l *Launcher) start(ctx context.Context) (*browser, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", l.opts.Headless),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.Flag("log-level", "3"), // suppress Chrome logs
		chromedp.UserAgent(l.opts.UserAgent),
		chromedp.WindowSize(1280, 900),
	)
	if l.opts.ExecPath != "" {
		opts = append(opts, chromedp.ExecPath(l.opts.ExecPath))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx, chromedp.WithLogf(func(string, ...interface{}) {}))

	// chromedp starts the process lazily, so run an empty task list to surface startup errors now
	if err := chromedp.Run(browserCtx); err != nil {
		cancelBrowser()
		cancelAlloc()
		return nil, fmt.Errorf("starting chrome: %w", err)
	}
	l.logger.Debug("Chrome started (headless=%v)", l.opts.Headless)

	return &browser{ctx: browserCtx, cancelBrowser: cancelBrowser, cancelAlloc: cancelAlloc}, nil
}

type browser struct {
	ctx           context.Context
	cancelBrowser context.CancelFunc
	cancelAlloc   context.CancelFunc
}

// NewPage opens a new tab sharing the browser's cookies and session
func (b *browser) NewPage(ctx context.Context) (scraper.Page, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	tabCtx, cancel := chromedp.NewContext(b.ctx)
	p := &page{
		ctx:     tabCtx,
		cancel:  cancel,
		pending: make(map[network.RequestID]*response),
	}
	chromedp.ListenTarget(tabCtx, p.onEvent)

	// the tab is created by this first Run, so it must use tabCtx itself
	if err := chromedp.Run(tabCtx, network.Enable()); err != nil {
		cancel()
		return nil, fmt.Errorf("creating tab: %w", err)
	}
	return p, nil
}

func (b *browser) Close() error {
	err := chromedp.Cancel(b.ctx)
	b.cancelBrowser()
	b.cancelAlloc()
	return err
}

type page struct {
	ctx    context.Context
	cancel context.CancelFunc

	mu      sync.Mutex
	pending map[network.RequestID]*response
	ready   []*response
}

// onEvent runs on chromedp's event loop and must not block or issue CDP commands
func (p *page) onEvent(ev interface{}) {
	switch e := ev.(type) {
	case *network.EventResponseReceived:
		if e.Response == nil {
			return
		}
		r := &response{page: p, id: e.RequestID, url: e.Response.URL, headers: make(map[string]string, len(e.Response.Headers))}
		for k, v := range e.Response.Headers {
			r.headers[strings.ToLower(k)] = fmt.Sprint(v)
		}
		p.mu.Lock()
		p.pending[e.RequestID] = r
		p.mu.Unlock()
	case *network.EventLoadingFinished:
		p.mu.Lock()
		if r, ok := p.pending[e.RequestID]; ok {
			delete(p.pending, e.RequestID)
			p.ready = append(p.ready, r)
		}
		p.mu.Unlock()
	case *network.EventLoadingFailed:
		p.mu.Lock()
		delete(p.pending, e.RequestID)
		p.mu.Unlock()
	}
}

// bound derives a context that lives on the tab but also ends when ctx does
func (p *page) bound(ctx context.Context) (context.Context, context.CancelFunc) {
	runCtx, cancel := context.WithCancel(p.ctx)
	stop := context.AfterFunc(ctx, cancel)
	return runCtx, func() {
		stop()
		cancel()
	}
}

func (p *page) Navigate(ctx context.Context, url string, timeout time.Duration) error {
	if timeout <= 0 {
		timeout = defaultNavigationTimeout
	}
	runCtx, done := p.bound(ctx)
	defer done()
	navCtx, cancel := context.WithTimeout(runCtx, timeout)
	defer cancel()

	err := chromedp.Run(navCtx, chromedp.Navigate(url))
	if err == nil {
		return nil
	}
	if ctx.Err() == nil && errors.Is(navCtx.Err(), context.DeadlineExceeded) {
		return scraper.ErrNavigationTimeout
	}
	return fmt.Errorf("navigate %s: %w", url, err)
}

// Responses hands out every response that finished loading since the last call
func (p *page) Responses() []scraper.Response {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]scraper.Response, 0, len(p.ready))
	for _, r := range p.ready {
		out = append(out, r)
	}
	p.ready = nil
	return out
}

func (p *page) Text(ctx context.Context) (string, error) {
	runCtx, done := p.bound(ctx)
	defer done()

	var text string
	err := chromedp.Run(runCtx, chromedp.Evaluate(`document.body ? document.body.innerText : ""`, &text))
	if err != nil {
		return "", fmt.Errorf("reading page text: %w", err)
	}
	return text, nil
}

func (p *page) Close() error {
	err := chromedp.Cancel(p.ctx)
	p.cancel()
	return err
}

type response struct {
	page    *page
	id      network.RequestID
	url     string
	headers map[string]string
}

func (r *response) URL() string { return r.url }

func (r *response) Header(name string) string {
	return r.headers[strings.ToLower(name)]
}

func (r *response) Body(ctx context.Context) ([]byte, error) {
	runCtx, done := r.page.bound(ctx)
	defer done()
	runCtx, cancel := context.WithTimeout(runCtx, bodyTimeout)
	defer cancel()

	var body []byte
	err := chromedp.Run(runCtx, chromedp.ActionFunc(func(ctx context.Context) error {
		var err error
		body, err = network.GetResponseBody(r.id).Do(ctx)
		return err
	}))
	if err != nil {
		return nil, fmt.Errorf("fetching body of %s: %w", r.url, err)
	}
	return body, nil
}
