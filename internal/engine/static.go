package engine

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/IkramKhemiri/Veille-concurrentielle-automatis-e-avec-IA/internal/extract"
	"github.com/IkramKhemiri/Veille-concurrentielle-automatis-e-avec-IA/internal/ratelimit"
	"github.com/IkramKhemiri/Veille-concurrentielle-automatis-e-avec-IA/internal/urlutil"
	"github.com/IkramKhemiri/Veille-concurrentielle-automatis-e-avec-IA/pkg/models"
)

// Responses larger than this are truncated before parsing.
const maxBodyBytes = 10 << 20

// StaticFetcher crawls a site over plain HTTP. After the landing page it
// walks candidate pagination parameters until a full index round yields
// nothing new.
type StaticFetcher struct {
	client    *http.Client
	limiter   ratelimit.Limiter
	timeout   time.Duration
	userAgent string
	maxPages  int
}

// NewStaticFetcher creates a static fetcher. A nil client falls back to
// http.DefaultClient, a nil limiter disables rate limiting.
func NewStaticFetcher(client *http.Client, limiter ratelimit.Limiter, timeout time.Duration, userAgent string) *StaticFetcher {
	if client == nil {
		client = http.DefaultClient
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &StaticFetcher{
		client:    client,
		limiter:   limiter,
		timeout:   timeout,
		userAgent: userAgent,
		maxPages:  maxPageIndex,
	}
}

// Name implements Fetcher.
func (s *StaticFetcher) Name() string {
	return "static"
}

// Fetch implements Fetcher.
func (s *StaticFetcher) Fetch(ctx context.Context, url string) (*models.Record, error) {
	html, err := s.get(ctx, url)
	if err != nil {
		return nil, err
	}
	first := extract.Page(html, url)
	seen := map[string]struct{}{first.Fingerprint(): {}}
	pages := []*models.Record{first}
	pages = append(pages, s.paginate(ctx, url, seen)...)

	rec := Merge(pages)
	if IsEmpty(rec) {
		return nil, NewEngineError(CodeEmptyContent, fmt.Sprintf("static crawl of %s produced no usable sections", url), nil)
	}
	log.Debug().Str("url", url).Int("pages", len(pages)).Msg("static crawl merged")
	return rec, nil
}

func (s *StaticFetcher) get(ctx context.Context, url string) (string, error) {
	if s.limiter != nil {
		if err := s.limiter.Wait(ctx, url); err != nil {
			return "", NewEngineError(CodeTimeout, "rate limit wait interrupted", err)
		}
	}
	reqCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, url, nil)
	if err != nil {
		return "", NewEngineError(CodeNavigation, fmt.Sprintf("invalid request for %s", url), err)
	}
	if s.userAgent != "" {
		req.Header.Set("User-Agent", s.userAgent)
	}
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "fr-FR,fr;q=0.9,en;q=0.8")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", NewEngineError(CodeNavigation, fmt.Sprintf("request to %s failed", url), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", NewEngineError(CodeNavigation, fmt.Sprintf("%s returned HTTP %d", url, resp.StatusCode), nil)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return "", NewEngineError(CodeNavigation, fmt.Sprintf("reading body of %s failed", url), err)
	}
	if len(body) < minHTMLLength {
		return "", NewEngineError(CodeEmptyContent, fmt.Sprintf("%s returned %d bytes", url, len(body)), nil)
	}
	return string(body), nil
}

// paginate walks page indexes across every candidate parameter name and
// stops after the first index where no parameter produced new content.
func (s *StaticFetcher) paginate(ctx context.Context, baseURL string, seen map[string]struct{}) []*models.Record {
	var out []*models.Record
	triedURLs := map[string]struct{}{baseURL: {}}
	for page := 1; page <= s.maxPages; page++ {
		if ctx.Err() != nil {
			break
		}
		progressed := false
		for _, param := range pageParams {
			candidate := urlutil.WithParam(baseURL, param, strconv.Itoa(page))
			if _, dup := triedURLs[candidate]; dup {
				continue
			}
			triedURLs[candidate] = struct{}{}
			html, err := s.get(ctx, candidate)
			if err != nil {
				continue
			}
			data := extract.Page(html, candidate)
			fp := data.Fingerprint()
			if _, dup := seen[fp]; dup {
				continue
			}
			if IsEmpty(data) && data.RawText == "" {
				continue
			}
			seen[fp] = struct{}{}
			out = append(out, data)
			progressed = true
			log.Debug().Str("url", candidate).Msg("pagination page accepted")
		}
		if !progressed {
			break
		}
	}
	return out
}
