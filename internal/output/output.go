// Package output serializes crawl outcomes to disk.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog/log"

	"github.com/IkramKhemiri/Veille-concurrentielle-automatis-e-avec-IA/pkg/models"
)

// WriteJSON writes all outcomes as a pretty-printed JSON array.
func WriteJSON(outcomes []models.Outcome, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating output file: %w", err)
	}
	defer f.Close()

	if err := EncodeJSON(f, outcomes); err != nil {
		return err
	}
	log.Info().Str("path", path).Int("outcomes", len(outcomes)).Msg("results written")
	return nil
}

// EncodeJSON writes the outcomes to w.
func EncodeJSON(w io.Writer, outcomes []models.Outcome) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(outcomes); err != nil {
		return fmt.Errorf("encoding outcomes: %w", err)
	}
	return nil
}
