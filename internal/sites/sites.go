// Package sites loads the crawl target list from CSV.
package sites

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/IkramKhemiri/Veille-concurrentielle-automatis-e-avec-IA/internal/urlutil"
	"github.com/IkramKhemiri/Veille-concurrentielle-automatis-e-avec-IA/pkg/models"
)

// Load reads sites from a CSV file with a header row. The url column is
// required, name is optional and defaults to the URL's host. Rows with a
// missing or invalid URL are skipped with a warning.
func Load(path string) ([]models.Site, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening site list: %w", err)
	}
	defer f.Close()
	return Parse(f)
}

// Parse reads the CSV site list from r.
func Parse(r io.Reader) ([]models.Site, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("reading site list header: %w", err)
	}
	nameCol, urlCol := -1, -1
	for i, col := range header {
		switch strings.ToLower(strings.TrimSpace(col)) {
		case "name", "nom", "site":
			nameCol = i
		case "url", "lien", "link":
			urlCol = i
		}
	}
	if urlCol == -1 {
		return nil, fmt.Errorf("site list has no url column, header is %v", header)
	}

	var sites []models.Site
	line := 1
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("reading site list line %d: %w", line, err)
		}
		if urlCol >= len(row) {
			continue
		}
		rawURL := strings.TrimSpace(row[urlCol])
		if rawURL == "" {
			continue
		}
		if err := urlutil.Validate(rawURL); err != nil {
			log.Warn().Str("url", rawURL).Int("line", line).Err(err).Msg("skipping invalid site url")
			continue
		}
		name := ""
		if nameCol >= 0 && nameCol < len(row) {
			name = strings.TrimSpace(row[nameCol])
		}
		if name == "" {
			name = urlutil.Host(rawURL)
		}
		sites = append(sites, models.Site{Name: name, URL: rawURL})
	}
	if len(sites) == 0 {
		return nil, fmt.Errorf("site list is empty")
	}
	return sites, nil
}
