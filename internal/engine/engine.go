// Package engine crawls a single site and distills it into a structured
// record. Three fetchers are provided: a plain HTTP one, a headless
// browser one, and a hybrid that picks between them and falls back once
// when the first choice comes up empty.
package engine

import (
	"context"

	"github.com/IkramKhemiri/Veille-concurrentielle-automatis-e-avec-IA/pkg/models"
)

// Fetcher is the common interface for the static, dynamic and hybrid
// crawl strategies. Fetch expects a validated absolute URL and returns a
// record merged over all pages it managed to reach, or an EngineError.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*models.Record, error)
	Name() string
}
