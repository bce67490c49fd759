package batch

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/IkramKhemiri/Veille-concurrentielle-automatis-e-avec-IA/pkg/models"
)

// stubFetcher maps URLs to canned behaviors.
type stubFetcher struct {
	calls atomic.Int64
}

func (s *stubFetcher) Name() string { return "stub" }

func (s *stubFetcher) Fetch(ctx context.Context, url string) (*models.Record, error) {
	s.calls.Add(1)
	switch {
	case strings.Contains(url, "fail"):
		return nil, errors.New("NAVIGATION_FAILURE: unreachable")
	case strings.Contains(url, "hang"):
		<-ctx.Done()
		return nil, ctx.Err()
	case strings.Contains(url, "panic"):
		panic("nil dereference in extractor")
	}
	return &models.Record{Title: "ok", Summary: "some content"}, nil
}

func siteList(urls ...string) []models.Site {
	sites := make([]models.Site, len(urls))
	for i, u := range urls {
		sites[i] = models.Site{Name: u, URL: "https://" + u + ".example"}
	}
	return sites
}

func TestRunReturnsOneOutcomePerSiteInOrder(t *testing.T) {
	sites := siteList("a", "fail-b", "c", "d")
	r := NewRunner(&stubFetcher{}, 2, time.Minute)

	outcomes := r.Run(t.Context(), sites)
	if len(outcomes) != len(sites) {
		t.Fatalf("outcomes = %d, want %d", len(outcomes), len(sites))
	}
	for i, o := range outcomes {
		if o.URL != sites[i].URL {
			t.Errorf("outcome %d is for %q, want %q", i, o.URL, sites[i].URL)
		}
	}
	if outcomes[1].Success {
		t.Error("failing site reported success")
	}
	if !outcomes[0].Success || outcomes[0].Data == nil {
		t.Error("successful site lost its data")
	}
}

func TestRunSiteTimeout(t *testing.T) {
	r := NewRunner(&stubFetcher{}, 1, 50*time.Millisecond)

	start := time.Now()
	outcomes := r.Run(t.Context(), siteList("hang-site"))
	if elapsed := time.Since(start); elapsed > 5*time.Second {
		t.Fatalf("Run took %s, hanging site was not abandoned", elapsed)
	}
	if outcomes[0].Success {
		t.Error("hung site reported success")
	}
	if !strings.Contains(outcomes[0].Error, "timeout") {
		t.Errorf("Error = %q, want a timeout message", outcomes[0].Error)
	}
}

func TestRunPanicBecomesFailure(t *testing.T) {
	r := NewRunner(&stubFetcher{}, 1, time.Minute)

	outcomes := r.Run(t.Context(), siteList("panic-site", "a"))
	if outcomes[0].Success {
		t.Error("panicking site reported success")
	}
	if !strings.Contains(outcomes[0].Error, "panic") {
		t.Errorf("Error = %q, want a panic message", outcomes[0].Error)
	}
	if !outcomes[1].Success {
		t.Error("panic on one site must not poison the next")
	}
}

func TestRunHonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	f := &stubFetcher{}
	r := NewRunner(f, 2, time.Minute)
	outcomes := r.Run(ctx, siteList("a", "b", "c"))
	if len(outcomes) != 3 {
		t.Fatalf("outcomes = %d, want 3", len(outcomes))
	}
	for i, o := range outcomes {
		if o.Success {
			t.Errorf("outcome %d reported success on a canceled run", i)
		}
	}
}

func TestRunInvokesResultHook(t *testing.T) {
	var hooks atomic.Int64
	r := NewRunner(&stubFetcher{}, 2, time.Minute)
	r.OnResult(func(models.Outcome) { hooks.Add(1) })

	r.Run(t.Context(), siteList("a", "b", "c"))
	if hooks.Load() != 3 {
		t.Errorf("hook ran %d times, want 3", hooks.Load())
	}
}

func TestDefaultWorkers(t *testing.T) {
	if DefaultWorkers() < 1 {
		t.Errorf("DefaultWorkers() = %d, want at least 1", DefaultWorkers())
	}
}
