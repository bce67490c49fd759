// Package session owns the headless Chrome lifecycle: one Session per
// crawled site, opened with an anti-automation profile and torn down
// unconditionally when the crawl ends.
package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/chromedp"
	"github.com/rs/zerolog/log"
)

// ErrNoNextControl reports that the current page exposes no link the
// click-pagination walk could follow.
var ErrNoNextControl = errors.New("no next control on page")

// Link text matched when looking for a pagination control.
const nextControlXPath = `//a[contains(., 'Next') or contains(., 'Suivant')]`

// Options configures a browser session.
type Options struct {
	ChromePath      string
	Headless        bool
	UserAgent       string
	Proxy           string
	PageLoadTimeout time.Duration
}

// Session is a live browser tab bound to one crawl job. Not safe for
// concurrent use.
type Session struct {
	ctx           context.Context
	browserCancel context.CancelFunc
	allocCancel   context.CancelFunc
	pageLoad      time.Duration
}

// Open launches a browser and returns a ready session. The caller must
// Close it; ctx cancellation also tears the browser down.
func Open(ctx context.Context, opts Options) (*Session, error) {
	if opts.UserAgent == "" {
		opts.UserAgent = RandomUserAgent()
	}
	if opts.PageLoadTimeout <= 0 {
		opts.PageLoadTimeout = 60 * time.Second
	}
	execPath := opts.ChromePath
	if execPath == "" {
		found, err := FindChrome()
		if err != nil {
			return nil, err
		}
		execPath = found
	}

	allocOpts := append([]chromedp.ExecAllocatorOption{}, chromedp.DefaultExecAllocatorOptions[:]...)
	allocOpts = append(allocOpts,
		chromedp.ExecPath(execPath),
		chromedp.Flag("headless", opts.Headless),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.Flag("disable-infobars", true),
		chromedp.Flag("window-size", "1920,1080"),
		chromedp.Flag("lang", "fr-FR"),
		chromedp.UserAgent(opts.UserAgent),
	)
	if opts.Proxy != "" {
		allocOpts = append(allocOpts, chromedp.ProxyServer(opts.Proxy))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, allocOpts...)
	browserCtx, browserCancel := chromedp.NewContext(allocCtx)

	// Start the browser eagerly so a missing or broken binary surfaces
	// here rather than on the first navigation.
	if err := chromedp.Run(browserCtx); err != nil {
		browserCancel()
		allocCancel()
		return nil, fmt.Errorf("starting browser: %w", err)
	}
	log.Debug().Str("chrome", execPath).Str("user_agent", opts.UserAgent).Msg("browser session opened")
	return &Session{
		ctx:           browserCtx,
		browserCancel: browserCancel,
		allocCancel:   allocCancel,
		pageLoad:      opts.PageLoadTimeout,
	}, nil
}

// bound derives a run context from the browser context with the given
// timeout, and additionally cancels when the caller's ctx does.
func (s *Session) bound(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	runCtx, cancel := context.WithTimeout(s.ctx, d)
	stop := context.AfterFunc(ctx, cancel)
	return runCtx, func() {
		stop()
		cancel()
	}
}

// Navigate loads the URL. Hitting the page-load timeout is not fatal:
// the DOM built so far stays available and nil is returned, matching how
// script-heavy pages often never reach the load event.
func (s *Session) Navigate(ctx context.Context, url string) error {
	runCtx, cancel := s.bound(ctx, s.pageLoad)
	defer cancel()

	err := chromedp.Run(runCtx,
		chromedp.Navigate(url),
		chromedp.Sleep(300*time.Millisecond),
	)
	if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil && s.ctx.Err() == nil {
		log.Warn().Str("url", url).Dur("timeout", s.pageLoad).Msg("page load timed out, keeping partial DOM")
		return nil
	}
	return err
}

// HTML returns the serialized DOM of the current page.
func (s *Session) HTML(ctx context.Context) (string, error) {
	runCtx, cancel := s.bound(ctx, 10*time.Second)
	defer cancel()

	var out string
	if err := chromedp.Run(runCtx, chromedp.OuterHTML("html", &out, chromedp.ByQuery)); err != nil {
		return "", err
	}
	return out, nil
}

// ScrollToBottom scrolls until the document height settles or maxRounds
// is reached, waiting pause between rounds for lazy content to land.
func (s *Session) ScrollToBottom(ctx context.Context, pause time.Duration, maxRounds int) error {
	runCtx, cancel := s.bound(ctx, time.Duration(maxRounds+1)*(pause+5*time.Second))
	defer cancel()

	var last float64
	if err := chromedp.Run(runCtx, chromedp.Evaluate(`document.body.scrollHeight`, &last)); err != nil {
		return err
	}
	for i := 0; i < maxRounds; i++ {
		if err := chromedp.Run(runCtx, chromedp.Evaluate(`window.scrollTo(0, document.body.scrollHeight)`, nil)); err != nil {
			return err
		}
		select {
		case <-time.After(pause):
		case <-runCtx.Done():
			return runCtx.Err()
		}
		var cur float64
		if err := chromedp.Run(runCtx, chromedp.Evaluate(`document.body.scrollHeight`, &cur)); err != nil {
			return err
		}
		if cur == last {
			break
		}
		last = cur
	}
	return nil
}

// ClickNext finds and clicks the pagination control. Returns
// ErrNoNextControl when the page has none; any other error means the
// click itself failed (covered, detached, navigation error).
func (s *Session) ClickNext(ctx context.Context) error {
	runCtx, cancel := s.bound(ctx, 15*time.Second)
	defer cancel()

	var nodes []*cdp.Node
	err := chromedp.Run(runCtx, chromedp.Nodes(nextControlXPath, &nodes, chromedp.BySearch, chromedp.AtLeast(0)))
	if err != nil {
		return err
	}
	if len(nodes) == 0 {
		return ErrNoNextControl
	}
	return chromedp.Run(runCtx,
		chromedp.ScrollIntoView(nextControlXPath, chromedp.BySearch),
		chromedp.Sleep(time.Second),
		chromedp.Click(nextControlXPath, chromedp.BySearch),
	)
}

// Screenshot captures the viewport as PNG.
func (s *Session) Screenshot(ctx context.Context) ([]byte, error) {
	runCtx, cancel := s.bound(ctx, 10*time.Second)
	defer cancel()

	var buf []byte
	if err := chromedp.Run(runCtx, chromedp.CaptureScreenshot(&buf)); err != nil {
		return nil, err
	}
	return buf, nil
}

// Close tears down the tab and the browser process. Safe to call after a
// failed crawl; idempotent because the cancel funcs are.
func (s *Session) Close() {
	s.browserCancel()
	s.allocCancel()
}
