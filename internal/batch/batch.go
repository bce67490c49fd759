// Package batch fans a list of sites out over a worker pool, enforcing a
// wall-clock budget per site and turning every outcome, including
// panics, into a result row.
package batch

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/IkramKhemiri/Veille-concurrentielle-automatis-e-avec-IA/internal/engine"
	"github.com/IkramKhemiri/Veille-concurrentielle-automatis-e-avec-IA/pkg/models"
)

// Runner executes crawl jobs concurrently. Workers share nothing but the
// fetcher, which must be safe for concurrent use.
type Runner struct {
	fetcher     engine.Fetcher
	workers     int
	siteTimeout time.Duration
	onResult    func(models.Outcome)
}

// DefaultWorkers leaves one core for the browser processes.
func DefaultWorkers() int {
	if n := runtime.NumCPU() - 1; n > 1 {
		return n
	}
	return 1
}

// NewRunner creates a runner. Non-positive workers selects the CPU-based
// default; a non-positive timeout disables the per-site budget.
func NewRunner(fetcher engine.Fetcher, workers int, siteTimeout time.Duration) *Runner {
	if workers <= 0 {
		workers = DefaultWorkers()
	}
	return &Runner{fetcher: fetcher, workers: workers, siteTimeout: siteTimeout}
}

// OnResult registers a hook invoked once per finished site, from worker
// goroutines. The hook must be safe for concurrent use.
func (r *Runner) OnResult(fn func(models.Outcome)) {
	r.onResult = fn
}

// Run crawls all sites and returns one outcome per input, in input
// order. It only returns once every worker has finished.
func (r *Runner) Run(ctx context.Context, sites []models.Site) []models.Outcome {
	outcomes := make([]models.Outcome, len(sites))
	jobs := make(chan int)

	var wg sync.WaitGroup
	for w := 0; w < r.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				outcomes[idx] = r.crawlSite(ctx, sites[idx])
				if r.onResult != nil {
					r.onResult(outcomes[idx])
				}
			}
		}()
	}

	log.Info().Int("sites", len(sites)).Int("workers", r.workers).Msg("batch started")
dispatch:
	for i := range sites {
		select {
		case jobs <- i:
		case <-ctx.Done():
			// Undispatched sites are reported as canceled without crawling.
			for j := i; j < len(sites); j++ {
				outcomes[j] = canceledOutcome(sites[j])
				if r.onResult != nil {
					r.onResult(outcomes[j])
				}
			}
			break dispatch
		}
	}
	close(jobs)
	wg.Wait()
	return outcomes
}

// crawlSite runs one fetch under the site budget. The fetch goroutine is
// abandoned when the budget fires; context cancellation tears down its
// HTTP requests and browser.
func (r *Runner) crawlSite(ctx context.Context, site models.Site) models.Outcome {
	jobCtx := ctx
	cancel := context.CancelFunc(func() {})
	if r.siteTimeout > 0 {
		jobCtx, cancel = context.WithTimeout(ctx, r.siteTimeout)
	}
	defer cancel()

	if jobCtx.Err() != nil {
		return canceledOutcome(site)
	}

	log.Info().Str("site", site.Name).Str("url", site.URL).Msg("site crawl started")
	start := time.Now()

	type result struct {
		rec *models.Record
		err error
	}
	done := make(chan result, 1)
	go func() {
		defer func() {
			if p := recover(); p != nil {
				done <- result{err: fmt.Errorf("crawl panicked: %v", p)}
			}
		}()
		rec, err := r.fetcher.Fetch(jobCtx, site.URL)
		done <- result{rec: rec, err: err}
	}()

	select {
	case res := <-done:
		if res.err != nil {
			log.Error().Err(res.err).Str("site", site.Name).Dur("elapsed", time.Since(start)).Msg("site crawl failed")
			return models.Outcome{Name: site.Name, URL: site.URL, Success: false, Error: res.err.Error()}
		}
		log.Info().Str("site", site.Name).Dur("elapsed", time.Since(start)).Msg("site crawl done")
		return models.Outcome{Name: site.Name, URL: site.URL, Success: true, Data: res.rec}
	case <-jobCtx.Done():
		cancel()
		msg := "crawl canceled"
		if errors.Is(jobCtx.Err(), context.DeadlineExceeded) {
			msg = fmt.Sprintf("timeout after %s", r.siteTimeout)
		}
		log.Error().Str("site", site.Name).Dur("elapsed", time.Since(start)).Msg(msg)
		return models.Outcome{Name: site.Name, URL: site.URL, Success: false, Error: msg}
	}
}

func canceledOutcome(site models.Site) models.Outcome {
	return models.Outcome{Name: site.Name, URL: site.URL, Success: false, Error: "crawl canceled"}
}
