// Package debugdump saves snapshots of pages that defeated the crawler
// so failures can be inspected offline. Every write is best effort; a
// dump must never turn a crawl error into a different one.
package debugdump

import (
	"os"
	"path/filepath"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/JohannesKaufmann/html-to-markdown/plugin"
	"github.com/rs/zerolog/log"

	"github.com/IkramKhemiri/Veille-concurrentielle-automatis-e-avec-IA/internal/extract"
	"github.com/IkramKhemiri/Veille-concurrentielle-automatis-e-avec-IA/internal/urlutil"
)

// Dumper writes failure artifacts under a fixed directory. A nil Dumper
// is valid and does nothing.
type Dumper struct {
	dir       string
	converter *md.Converter
}

// New creates a dumper rooted at dir. Empty dir disables dumping.
func New(dir string) *Dumper {
	if dir == "" {
		return nil
	}
	converter := md.NewConverter("", true, nil)
	converter.Use(plugin.GitHubFlavored())
	return &Dumper{dir: dir, converter: converter}
}

// Save writes the raw HTML, an optional screenshot, and a markdown
// rendering of the sanitized page, all named after the site's host.
func (d *Dumper) Save(url, html string, screenshot []byte) {
	if d == nil {
		return
	}
	if err := os.MkdirAll(d.dir, 0o755); err != nil {
		log.Warn().Err(err).Str("dir", d.dir).Msg("debug dump directory unavailable")
		return
	}
	base := filepath.Join(d.dir, slug(url))

	if html != "" {
		if err := os.WriteFile(base+".html", []byte(html), 0o644); err != nil {
			log.Warn().Err(err).Str("path", base+".html").Msg("html dump failed")
		}
	}
	if len(screenshot) > 0 {
		if err := os.WriteFile(base+".png", screenshot, 0o644); err != nil {
			log.Warn().Err(err).Str("path", base+".png").Msg("screenshot dump failed")
		}
	}
	if html != "" {
		cleaned, err := extract.SanitizeHTML(html)
		if err != nil {
			cleaned = html
		}
		if markdown, err := d.converter.ConvertString(cleaned); err == nil {
			if err := os.WriteFile(base+".md", []byte(markdown), 0o644); err != nil {
				log.Warn().Err(err).Str("path", base+".md").Msg("markdown dump failed")
			}
		}
	}
	log.Debug().Str("url", url).Str("base", base).Msg("debug artifacts saved")
}

func slug(url string) string {
	host := urlutil.Host(url)
	if host == "" {
		host = "page"
	}
	return strings.ReplaceAll(host, ".", "_")
}
