package engine

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/IkramKhemiri/Veille-concurrentielle-automatis-e-avec-IA/internal/debugdump"
	"github.com/IkramKhemiri/Veille-concurrentielle-automatis-e-avec-IA/internal/engine/session"
	"github.com/IkramKhemiri/Veille-concurrentielle-automatis-e-avec-IA/internal/extract"
	"github.com/IkramKhemiri/Veille-concurrentielle-automatis-e-avec-IA/internal/retry"
	"github.com/IkramKhemiri/Veille-concurrentielle-automatis-e-avec-IA/internal/urlutil"
	"github.com/IkramKhemiri/Veille-concurrentielle-automatis-e-avec-IA/pkg/models"
)

// BrowserSession is the slice of session.Session the dynamic fetcher
// drives. Tests substitute a scripted implementation.
type BrowserSession interface {
	Navigate(ctx context.Context, url string) error
	HTML(ctx context.Context) (string, error)
	ScrollToBottom(ctx context.Context, pause time.Duration, maxRounds int) error
	ClickNext(ctx context.Context) error
	Screenshot(ctx context.Context) ([]byte, error)
	Close()
}

// SessionFactory opens a fresh browser session for one crawl job.
type SessionFactory func(ctx context.Context, opts session.Options) (BrowserSession, error)

// DynamicConfig tunes the browser crawl.
type DynamicConfig struct {
	Budget        time.Duration // wall clock allowance for the whole dynamic phase
	NavRetries    int
	NavBackoff    time.Duration
	ScrollPause   time.Duration
	MaxScrolls    int
	MaxPages      int
	PageSettle    time.Duration // wait after a pagination navigation
	ClickSettle   time.Duration // wait after a successful Next click
	Session       session.Options
	HeavyPageLoad time.Duration // page-load timeout for script-heavy sites
}

// DynamicFetcher crawls a site through a headless browser: navigate with
// retries, scroll to trigger lazy loading, then expand through click
// pagination and, independently, parameter pagination.
type DynamicFetcher struct {
	cfg        DynamicConfig
	newSession SessionFactory
	dumper     *debugdump.Dumper
}

// NewDynamicFetcher creates a dynamic fetcher. A nil factory uses real
// Chrome sessions.
func NewDynamicFetcher(cfg DynamicConfig, factory SessionFactory, dumper *debugdump.Dumper) *DynamicFetcher {
	if factory == nil {
		factory = func(ctx context.Context, opts session.Options) (BrowserSession, error) {
			return session.Open(ctx, opts)
		}
	}
	if cfg.NavRetries <= 0 {
		cfg.NavRetries = 3
	}
	if cfg.NavBackoff <= 0 {
		cfg.NavBackoff = 4 * time.Second
	}
	if cfg.ScrollPause <= 0 {
		cfg.ScrollPause = 2 * time.Second
	}
	if cfg.MaxScrolls <= 0 {
		cfg.MaxScrolls = 6
	}
	if cfg.MaxPages <= 0 {
		cfg.MaxPages = maxPageIndex
	}
	if cfg.PageSettle <= 0 {
		cfg.PageSettle = 2 * time.Second
	}
	if cfg.ClickSettle <= 0 {
		cfg.ClickSettle = 3 * time.Second
	}
	return &DynamicFetcher{cfg: cfg, newSession: factory, dumper: dumper}
}

// Name implements Fetcher.
func (d *DynamicFetcher) Name() string {
	return "dynamic"
}

// Fetch implements Fetcher.
func (d *DynamicFetcher) Fetch(ctx context.Context, url string) (*models.Record, error) {
	return d.fetchSite(ctx, url, false)
}

func (d *DynamicFetcher) fetchSite(ctx context.Context, url string, heavy bool) (*models.Record, error) {
	bud := newBudget(d.cfg.Budget)

	opts := d.cfg.Session
	if heavy && d.cfg.HeavyPageLoad > 0 {
		opts.PageLoadTimeout = d.cfg.HeavyPageLoad
	}
	sess, err := d.newSession(ctx, opts)
	if err != nil {
		return nil, NewEngineError(CodeDriverUnavailable, "browser session could not be started", err)
	}
	defer sess.Close()

	if err := d.navigate(ctx, sess, url); err != nil {
		return nil, NewEngineError(CodeNavigation, fmt.Sprintf("could not load %s after %d attempts", url, d.cfg.NavRetries), err)
	}
	if err := sess.ScrollToBottom(ctx, d.cfg.ScrollPause, d.cfg.MaxScrolls); err != nil {
		log.Debug().Err(err).Str("url", url).Msg("scroll did not complete")
	}

	html, err := sess.HTML(ctx)
	if err != nil {
		d.dump(ctx, sess, url, html)
		return nil, NewEngineError(CodeNavigation, fmt.Sprintf("snapshot of %s failed", url), err)
	}
	if len(html) < minHTMLLength {
		d.dump(ctx, sess, url, html)
		return nil, NewEngineError(CodeEmptyContent, fmt.Sprintf("rendered page of %s is empty", url), nil)
	}

	first := extract.Page(html, url)
	seen := map[string]struct{}{first.Fingerprint(): {}}
	pages := []*models.Record{first}
	pages = append(pages, d.clickPages(ctx, sess, url, bud, seen)...)
	pages = append(pages, d.paramPages(ctx, sess, url, bud, seen)...)

	rec := Merge(pages)
	if IsEmpty(rec) {
		d.dump(ctx, sess, url, html)
		return nil, NewEngineError(CodeEmptyContent, fmt.Sprintf("dynamic crawl of %s produced no usable sections", url), nil)
	}
	log.Debug().Str("url", url).Int("pages", len(pages)).Msg("dynamic crawl merged")
	return rec, nil
}

func (d *DynamicFetcher) navigate(ctx context.Context, sess BrowserSession, url string) error {
	return retry.WithRetry(ctx, retry.Fixed(d.cfg.NavRetries, d.cfg.NavBackoff), func() error {
		return sess.Navigate(ctx, url)
	})
}

// clickPages follows the Next control until the page stops changing, the
// control disappears, a click fails, or the time budget runs out.
func (d *DynamicFetcher) clickPages(ctx context.Context, sess BrowserSession, url string, bud *budget, seen map[string]struct{}) []*models.Record {
	var out []*models.Record
	for len(out) < d.cfg.MaxPages {
		if bud.exceeded() || ctx.Err() != nil {
			break
		}
		if err := sess.ClickNext(ctx); err != nil {
			if !errors.Is(err, session.ErrNoNextControl) {
				log.Debug().Err(err).Str("url", url).Msg("next click failed, stopping")
			}
			break
		}
		if !sleepCtx(ctx, d.cfg.ClickSettle) {
			break
		}
		if err := sess.ScrollToBottom(ctx, d.cfg.ScrollPause, d.cfg.MaxScrolls); err != nil {
			break
		}
		html, err := sess.HTML(ctx)
		if err != nil || len(html) < minHTMLLength {
			break
		}
		data := extract.Page(html, url)
		fp := data.Fingerprint()
		if _, dup := seen[fp]; dup {
			break
		}
		seen[fp] = struct{}{}
		out = append(out, data)
		log.Debug().Str("url", url).Int("page", len(out)+1).Msg("click pagination page accepted")
	}
	return out
}

// paramPages navigates page-index URLs starting at 2, the landing page
// being index 1 for any parameter scheme.
func (d *DynamicFetcher) paramPages(ctx context.Context, sess BrowserSession, baseURL string, bud *budget, seen map[string]struct{}) []*models.Record {
	var out []*models.Record
	for page := 2; page <= d.cfg.MaxPages; page++ {
		if bud.exceeded() || ctx.Err() != nil {
			break
		}
		progressed := false
		for _, param := range pageParams {
			if bud.exceeded() || ctx.Err() != nil {
				return out
			}
			candidate := urlutil.WithParam(baseURL, param, strconv.Itoa(page))
			if err := sess.Navigate(ctx, candidate); err != nil {
				continue
			}
			if !sleepCtx(ctx, d.cfg.PageSettle) {
				return out
			}
			if err := sess.ScrollToBottom(ctx, d.cfg.ScrollPause, d.cfg.MaxScrolls); err != nil {
				continue
			}
			html, err := sess.HTML(ctx)
			if err != nil || len(html) < minHTMLLength {
				continue
			}
			data := extract.Page(html, candidate)
			fp := data.Fingerprint()
			if _, dup := seen[fp]; dup {
				continue
			}
			seen[fp] = struct{}{}
			out = append(out, data)
			progressed = true
			log.Debug().Str("url", candidate).Msg("param pagination page accepted")
		}
		if !progressed {
			break
		}
	}
	return out
}

// dump saves the failing page for offline inspection. Best effort.
func (d *DynamicFetcher) dump(ctx context.Context, sess BrowserSession, url, html string) {
	if d.dumper == nil {
		return
	}
	shot, err := sess.Screenshot(ctx)
	if err != nil {
		shot = nil
	}
	d.dumper.Save(url, html, shot)
}

func sleepCtx(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	select {
	case <-time.After(d):
		return true
	case <-ctx.Done():
		return false
	}
}
