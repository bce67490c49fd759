// Package detect classifies a site before crawling: plain HTTP is enough
// for server-rendered marketing pages, a browser is needed for
// script-driven ones. Classification is advisory; the hybrid fetcher
// still falls back when the chosen path fails.
package detect

import (
	"context"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog/log"

	"github.com/IkramKhemiri/Veille-concurrentielle-automatis-e-avec-IA/internal/ratelimit"
	"github.com/IkramKhemiri/Veille-concurrentielle-automatis-e-avec-IA/internal/urlutil"
)

// Strategy is the crawl path chosen for a site.
type Strategy int

const (
	StrategyStatic Strategy = iota
	StrategyDynamic
)

func (s Strategy) String() string {
	if s == StrategyStatic {
		return "static"
	}
	return "dynamic"
}

// Decision is the outcome of probing a site. HeavyJS widens the
// page-load timeout on the dynamic path.
type Decision struct {
	Strategy Strategy
	HeavyJS  bool
}

// Domains known to gate content behind heavy scripting or bot checks.
// They skip the probe entirely.
var heavyDomains = []string{
	"upwork.com",
	"malt.fr",
	"fiverr.com",
	"freelancer.com",
	"toptal.com",
	"peopleperhour.com",
	"guru.com",
	"producthunt.com",
}

// Markers of client-side rendering frameworks in raw HTML.
var spaMarkers = []string{
	"data-reactroot",
	"__NEXT_DATA__",
	"webpack",
	"react-refresh",
	"__nuxt",
	"data-v-app",
	`id="root"`,
	`id="app"`,
}

// Words whose presence in server HTML signals real pre-rendered content.
var contentKeywords = []string{
	"services", "clients", "blog", "about", "contact",
	"produits", "offres", "emplois", "jobs", "carriere",
}

// Detector probes sites over HTTP and inspects the response.
type Detector struct {
	client    *http.Client
	limiter   ratelimit.Limiter
	timeout   time.Duration
	userAgent string
}

// New creates a detector. A nil client falls back to http.DefaultClient.
func New(client *http.Client, limiter ratelimit.Limiter, timeout time.Duration, userAgent string) *Detector {
	if client == nil {
		client = http.DefaultClient
	}
	if timeout <= 0 {
		timeout = 8 * time.Second
	}
	return &Detector{client: client, limiter: limiter, timeout: timeout, userAgent: userAgent}
}

// Select decides the crawl strategy for a URL. A failed probe means the
// site could not even answer plain HTTP convincingly, so the browser
// path is chosen.
func (d *Detector) Select(ctx context.Context, url string) Decision {
	if hostIsHeavy(url) {
		log.Debug().Str("url", url).Msg("known heavy domain, dynamic")
		return Decision{Strategy: StrategyDynamic, HeavyJS: true}
	}
	html, err := d.probe(ctx, url)
	if err != nil {
		log.Debug().Err(err).Str("url", url).Msg("probe failed, dynamic")
		return Decision{Strategy: StrategyDynamic}
	}
	if heavy := d.looksHeavy(html); heavy {
		return Decision{Strategy: StrategyDynamic, HeavyJS: true}
	}
	if hasContentKeywords(html) {
		return Decision{Strategy: StrategyStatic}
	}
	return Decision{Strategy: StrategyDynamic}
}

func (d *Detector) probe(ctx context.Context, url string) (string, error) {
	if d.limiter != nil {
		if err := d.limiter.Wait(ctx, url); err != nil {
			return "", err
		}
	}
	reqCtx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	if d.userAgent != "" {
		req.Header.Set("User-Agent", d.userAgent)
	}
	resp, err := d.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		return "", &probeStatusError{status: resp.StatusCode}
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, 2<<20))
	if err != nil {
		return "", err
	}
	return string(body), nil
}

type probeStatusError struct {
	status int
}

func (e *probeStatusError) Error() string {
	return http.StatusText(e.status)
}

// looksHeavy combines structural thresholds on the parsed document with
// marker and script-global sniffing on the raw HTML.
func (d *Detector) looksHeavy(html string) bool {
	lower := strings.ToLower(html)
	for _, marker := range spaMarkers {
		if strings.Contains(lower, strings.ToLower(marker)) {
			return true
		}
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return true
	}
	textLen := len(strings.TrimSpace(doc.Find("body").Text()))
	scripts := doc.Find("script").Length()
	external := doc.Find("script[src]").Length()
	if scripts > 25 {
		return true
	}
	if textLen < 300 && (scripts > 10 || external > 4) {
		return true
	}
	return sniffScriptGlobals(doc)
}

func hasContentKeywords(html string) bool {
	lower := strings.ToLower(html)
	for _, kw := range contentKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

func hostIsHeavy(url string) bool {
	host := urlutil.Host(url)
	if host == "" {
		return false
	}
	for _, d := range heavyDomains {
		if host == d || strings.HasSuffix(host, "."+d) {
			return true
		}
	}
	return false
}
