// Package app wires the configured components into a ready-to-run
// crawler.
package app

import (
	"net/http"
	"time"

	"github.com/IkramKhemiri/Veille-concurrentielle-automatis-e-avec-IA/internal/batch"
	"github.com/IkramKhemiri/Veille-concurrentielle-automatis-e-avec-IA/internal/config"
	"github.com/IkramKhemiri/Veille-concurrentielle-automatis-e-avec-IA/internal/debugdump"
	"github.com/IkramKhemiri/Veille-concurrentielle-automatis-e-avec-IA/internal/engine"
	"github.com/IkramKhemiri/Veille-concurrentielle-automatis-e-avec-IA/internal/engine/detect"
	"github.com/IkramKhemiri/Veille-concurrentielle-automatis-e-avec-IA/internal/engine/session"
	"github.com/IkramKhemiri/Veille-concurrentielle-automatis-e-avec-IA/internal/ratelimit"
)

// Application bundles the long-lived components of one CLI invocation.
type Application struct {
	Config   *config.Config
	Client   *http.Client
	Limiter  ratelimit.Limiter
	Detector *detect.Detector
	Fetcher  engine.Fetcher
}

// New assembles the hybrid crawler from the config.
func New(cfg *config.Config) *Application {
	client := &http.Client{
		Timeout: cfg.HTTPTimeout + 5*time.Second,
		Transport: &http.Transport{
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 4,
			IdleConnTimeout:     90 * time.Second,
		},
	}
	limiter := ratelimit.NewHostLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)

	ua := cfg.UserAgent
	if ua == "" {
		ua = session.RandomUserAgent()
	}
	detector := detect.New(client, limiter, cfg.ProbeTimeout, ua)
	static := engine.NewStaticFetcher(client, limiter, cfg.HTTPTimeout, ua)
	dynamic := engine.NewDynamicFetcher(engine.DynamicConfig{
		Budget:        cfg.DynamicBudget,
		NavRetries:    cfg.NavRetries,
		NavBackoff:    cfg.NavBackoff,
		ScrollPause:   cfg.ScrollPause,
		MaxScrolls:    cfg.MaxScrolls,
		HeavyPageLoad: cfg.HeavyPageLoad,
		Session: session.Options{
			ChromePath:      cfg.ChromePath,
			Headless:        cfg.Headless,
			UserAgent:       cfg.UserAgent,
			Proxy:           cfg.Proxy,
			PageLoadTimeout: cfg.PageLoad,
		},
	}, nil, debugdump.New(cfg.DebugDir))

	return &Application{
		Config:   cfg,
		Client:   client,
		Limiter:  limiter,
		Detector: detector,
		Fetcher:  engine.NewHybridFetcher(static, dynamic, detector, cfg.PreferDynamic),
	}
}

// Runner builds the batch runner for this application.
func (a *Application) Runner() *batch.Runner {
	return batch.NewRunner(a.Fetcher, a.Config.Workers, a.Config.SiteTimeout)
}

// Close releases pooled resources.
func (a *Application) Close() {
	a.Client.CloseIdleConnections()
}
