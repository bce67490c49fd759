package engine

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/IkramKhemiri/Veille-concurrentielle-automatis-e-avec-IA/internal/engine/session"
)

// fakeSession scripts the browser behavior for one crawl: which pages
// exist behind clicks, which navigations fail, what the DOM holds.
type fakeSession struct {
	html      string   // current DOM
	clickHTML []string // DOM after each successful Next click
	clicks    int
	navFails  int // fail this many navigations before succeeding
	navCount  int
	closed    bool
	paramHTML map[string]string // DOM by navigated URL, fallback keeps current
}

func (f *fakeSession) Navigate(ctx context.Context, url string) error {
	f.navCount++
	if f.navFails > 0 {
		f.navFails--
		return errors.New("net::ERR_CONNECTION_RESET")
	}
	if h, ok := f.paramHTML[url]; ok {
		f.html = h
	}
	return nil
}

func (f *fakeSession) HTML(ctx context.Context) (string, error) {
	return f.html, nil
}

func (f *fakeSession) ScrollToBottom(ctx context.Context, pause time.Duration, maxRounds int) error {
	return nil
}

func (f *fakeSession) ClickNext(ctx context.Context) error {
	if f.clicks >= len(f.clickHTML) {
		return session.ErrNoNextControl
	}
	f.html = f.clickHTML[f.clicks]
	f.clicks++
	return nil
}

func (f *fakeSession) Screenshot(ctx context.Context) ([]byte, error) {
	return []byte{0x89, 'P', 'N', 'G'}, nil
}

func (f *fakeSession) Close() {
	f.closed = true
}

func fastDynamicConfig() DynamicConfig {
	return DynamicConfig{
		NavRetries:  3,
		NavBackoff:  time.Millisecond,
		ScrollPause: time.Millisecond,
		MaxScrolls:  2,
		PageSettle:  time.Millisecond,
		ClickSettle: time.Millisecond,
	}
}

func newFakeFetcher(fs *fakeSession) *DynamicFetcher {
	factory := func(ctx context.Context, opts session.Options) (BrowserSession, error) {
		return fs, nil
	}
	return NewDynamicFetcher(fastDynamicConfig(), factory, nil)
}

func TestDynamicFetchBasic(t *testing.T) {
	fs := &fakeSession{html: contentPage("l'audit technique")}
	f := newFakeFetcher(fs)

	rec, err := f.Fetch(t.Context(), "https://acme.example")
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if len(rec.Services) == 0 {
		t.Error("expected services to be extracted")
	}
	if !fs.closed {
		t.Error("session was not closed")
	}
}

func TestDynamicFetchNavigationRetries(t *testing.T) {
	fs := &fakeSession{html: contentPage("le conseil"), navFails: 2}
	f := newFakeFetcher(fs)

	if _, err := f.Fetch(t.Context(), "https://acme.example"); err != nil {
		t.Fatalf("Fetch() error = %v, want success after retries", err)
	}
	if fs.navCount < 3 {
		t.Errorf("navigation attempts = %d, want at least 3", fs.navCount)
	}
}

func TestDynamicFetchNavigationExhausted(t *testing.T) {
	fs := &fakeSession{html: contentPage("le conseil"), navFails: 10}
	f := newFakeFetcher(fs)

	_, err := f.Fetch(t.Context(), "https://acme.example")
	if !errors.Is(err, ErrNavigationFailed) {
		t.Errorf("Fetch() error = %v, want navigation failure", err)
	}
	if !fs.closed {
		t.Error("session must be closed after a failed crawl")
	}
}

func TestDynamicFetchClickPagination(t *testing.T) {
	fs := &fakeSession{
		html: contentPage("le developpement web"),
		clickHTML: []string{
			contentPage("la maintenance applicative"),
			contentPage("l'hebergement cloud"),
		},
	}
	f := newFakeFetcher(fs)

	rec, err := f.Fetch(t.Context(), "https://acme.example")
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if len(rec.Services) != 3 {
		t.Errorf("Services length = %d, want one per visited page", len(rec.Services))
	}
	if fs.clicks != 2 {
		t.Errorf("clicks = %d, want 2", fs.clicks)
	}
}

func TestDynamicFetchClickStopsOnDuplicate(t *testing.T) {
	dup := contentPage("le developpement web")
	fs := &fakeSession{
		html:      dup,
		clickHTML: []string{dup, contentPage("jamais atteint")},
	}
	f := newFakeFetcher(fs)

	rec, err := f.Fetch(t.Context(), "https://acme.example")
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if fs.clicks != 1 {
		t.Errorf("clicks = %d, want 1 (duplicate page must stop the walk)", fs.clicks)
	}
	for _, it := range rec.Services {
		if strings.Contains(it.Content, "jamais atteint") {
			t.Error("page behind the duplicate was crawled")
		}
	}
}

func TestDynamicFetchBudgetStopsExpansion(t *testing.T) {
	fs := &fakeSession{
		html:      contentPage("le developpement web"),
		clickHTML: []string{contentPage("la maintenance applicative")},
	}
	cfg := fastDynamicConfig()
	cfg.Budget = time.Nanosecond
	factory := func(ctx context.Context, opts session.Options) (BrowserSession, error) {
		return fs, nil
	}
	f := NewDynamicFetcher(cfg, factory, nil)

	rec, err := f.Fetch(t.Context(), "https://acme.example")
	if err != nil {
		t.Fatalf("Fetch() error = %v, budget exhaustion must not fail the crawl", err)
	}
	if fs.clicks != 0 {
		t.Errorf("clicks = %d, want 0 once the budget is spent", fs.clicks)
	}
	if len(rec.Services) != 1 {
		t.Errorf("Services length = %d, want the landing page only", len(rec.Services))
	}
}

func TestDynamicFetchEmptySnapshot(t *testing.T) {
	fs := &fakeSession{html: "<html></html>"}
	f := newFakeFetcher(fs)

	_, err := f.Fetch(t.Context(), "https://acme.example")
	if !errors.Is(err, ErrEmptyContent) {
		t.Errorf("Fetch() error = %v, want empty content", err)
	}
}

func TestDynamicFetchSessionFailure(t *testing.T) {
	factory := func(ctx context.Context, opts session.Options) (BrowserSession, error) {
		return nil, errors.New("chrome not found")
	}
	f := NewDynamicFetcher(fastDynamicConfig(), factory, nil)

	_, err := f.Fetch(t.Context(), "https://acme.example")
	if !errors.Is(err, ErrDriverUnavailable) {
		t.Errorf("Fetch() error = %v, want driver unavailable", err)
	}
}
