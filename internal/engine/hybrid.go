package engine

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/IkramKhemiri/Veille-concurrentielle-automatis-e-avec-IA/internal/engine/detect"
	"github.com/IkramKhemiri/Veille-concurrentielle-automatis-e-avec-IA/pkg/models"
)

// strategySelector decides which fetcher runs first for a site.
type strategySelector interface {
	Select(ctx context.Context, url string) detect.Decision
}

// HybridFetcher probes a site, runs the chosen fetcher, and on failure
// falls back to the other one exactly once. The second failure is
// terminal.
type HybridFetcher struct {
	static        *StaticFetcher
	dynamic       *DynamicFetcher
	selector      strategySelector
	preferDynamic bool
}

// NewHybridFetcher wires the two engines behind a strategy selector.
// With preferDynamic unset the selector's verdict is inverted in favor
// of plain HTTP unless the site is flagged script-heavy.
func NewHybridFetcher(static *StaticFetcher, dynamic *DynamicFetcher, selector strategySelector, preferDynamic bool) *HybridFetcher {
	return &HybridFetcher{
		static:        static,
		dynamic:       dynamic,
		selector:      selector,
		preferDynamic: preferDynamic,
	}
}

// Name implements Fetcher.
func (h *HybridFetcher) Name() string {
	return "hybrid"
}

// Fetch implements Fetcher.
func (h *HybridFetcher) Fetch(ctx context.Context, url string) (*models.Record, error) {
	decision := detect.Decision{Strategy: detect.StrategyDynamic}
	if h.selector != nil {
		decision = h.selector.Select(ctx, url)
	}
	staticFirst := decision.Strategy == detect.StrategyStatic
	if !h.preferDynamic {
		staticFirst = !decision.HeavyJS
	}

	primary, secondary := h.order(staticFirst)
	log.Info().Str("url", url).Str("strategy", primary.name).Bool("heavy_js", decision.HeavyJS).Msg("crawl started")

	rec, err := primary.fetch(ctx, url, decision.HeavyJS)
	if err == nil {
		return rec, nil
	}
	if ctx.Err() != nil {
		return nil, err
	}
	log.Warn().Err(err).Str("url", url).Str("fallback", secondary.name).Msg("primary strategy failed, falling back")

	rec, err = secondary.fetch(ctx, url, decision.HeavyJS)
	if err != nil {
		return nil, err
	}
	return rec, nil
}

type strategyRun struct {
	name  string
	fetch func(ctx context.Context, url string, heavy bool) (*models.Record, error)
}

func (h *HybridFetcher) order(staticFirst bool) (primary, secondary strategyRun) {
	staticRun := strategyRun{
		name: h.static.Name(),
		fetch: func(ctx context.Context, url string, _ bool) (*models.Record, error) {
			return h.static.Fetch(ctx, url)
		},
	}
	dynamicRun := strategyRun{
		name:  h.dynamic.Name(),
		fetch: h.dynamic.fetchSite,
	}
	if staticFirst {
		return staticRun, dynamicRun
	}
	return dynamicRun, staticRun
}
