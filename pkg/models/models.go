package models

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// Site describes one crawl target, typically loaded from a CSV row.
type Site struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// Item is a single piece of extracted content together with the page it
// came from.
type Item struct {
	URL     string `json:"url"`
	Content string `json:"content"`
}

// Record holds the sections extracted from one rendered page, or the
// merged union of several pages for one site. The key set is closed:
// every section the extractor can produce has a declared field here, so
// merging never has to guess value kinds at runtime.
type Record struct {
	Title           string `json:"title,omitempty"`
	Slogan          string `json:"slogan,omitempty"`
	Summary         string `json:"summary,omitempty"`
	MetaDescription string `json:"meta_description,omitempty"`
	Location        string `json:"location,omitempty"`
	RawText         string `json:"raw_text,omitempty"`

	Services     []Item `json:"services"`
	Clients      []Item `json:"clients"`
	Technologies []Item `json:"technologies"`
	Blog         []Item `json:"blog"`
	Jobs         []Item `json:"jobs"`
	Offers       []Item `json:"offres"`
	News         []Item `json:"nouveautes"`

	Emails []string `json:"emails"`
	Phones []string `json:"phones"`
}

// Fingerprint returns a stable content hash of the record, used by the
// pagination loops to detect pages that yielded nothing new. RawText is
// excluded so that boilerplate differences (timestamps, nonces) between
// otherwise identical pages do not defeat deduplication.
func (r *Record) Fingerprint() string {
	if r == nil {
		return ""
	}
	clone := *r
	clone.RawText = ""
	buf, err := json.Marshal(&clone)
	if err != nil {
		return ""
	}
	sum := sha256.Sum256(buf)
	return hex.EncodeToString(sum[:])
}

// Outcome is the terminal result for one site. Exactly one Outcome is
// emitted per input Site, whether the crawl succeeded or not.
type Outcome struct {
	Name    string  `json:"name"`
	URL     string  `json:"url"`
	Success bool    `json:"success"`
	Data    *Record `json:"data,omitempty"`
	Error   string  `json:"error,omitempty"`
}
