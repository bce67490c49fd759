package engine

import (
	"strings"

	"github.com/IkramKhemiri/Veille-concurrentielle-automatis-e-avec-IA/pkg/models"
)

// Merge folds the records extracted from successive pages of one site
// into a single record. Scalar fields keep the first non-empty value in
// page order, list fields are concatenated with duplicates removed while
// preserving first appearance. Merging is idempotent: feeding the result
// back in yields an equal record.
func Merge(pages []*models.Record) *models.Record {
	out := &models.Record{}
	seenItems := make(map[string]struct{})
	seenStrings := make(map[string]struct{})
	var rawParts []string
	for _, p := range pages {
		if p == nil {
			continue
		}
		fillScalar(&out.Title, p.Title)
		fillScalar(&out.Slogan, p.Slogan)
		fillScalar(&out.Summary, p.Summary)
		fillScalar(&out.MetaDescription, p.MetaDescription)
		fillScalar(&out.Location, p.Location)
		out.Services = mergeItems(out.Services, p.Services, "services", seenItems)
		out.Clients = mergeItems(out.Clients, p.Clients, "clients", seenItems)
		out.Technologies = mergeItems(out.Technologies, p.Technologies, "technologies", seenItems)
		out.Blog = mergeItems(out.Blog, p.Blog, "blog", seenItems)
		out.Jobs = mergeItems(out.Jobs, p.Jobs, "jobs", seenItems)
		out.Offers = mergeItems(out.Offers, p.Offers, "offres", seenItems)
		out.News = mergeItems(out.News, p.News, "nouveautes", seenItems)
		out.Emails = mergeStrings(out.Emails, p.Emails, "emails", seenStrings)
		out.Phones = mergeStrings(out.Phones, p.Phones, "phones", seenStrings)
		if p.RawText != "" {
			if _, dup := seenStrings["raw\x00"+p.RawText]; !dup {
				seenStrings["raw\x00"+p.RawText] = struct{}{}
				rawParts = append(rawParts, p.RawText)
			}
		}
	}
	out.RawText = strings.Join(rawParts, "\n")
	return out
}

func fillScalar(dst *string, src string) {
	if *dst == "" && src != "" {
		*dst = src
	}
}

// mergeItems dedupes across pages by field and content so the same
// paragraph repeated in a shared footer lands only once.
func mergeItems(dst, src []models.Item, field string, seen map[string]struct{}) []models.Item {
	for _, it := range src {
		key := field + "\x00" + it.Content
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		dst = append(dst, it)
	}
	return dst
}

func mergeStrings(dst, src []string, field string, seen map[string]struct{}) []string {
	for _, s := range src {
		key := field + "\x00" + s
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		dst = append(dst, s)
	}
	return dst
}

// IsEmpty reports whether a record carries no substantive content. Only
// the business sections count: a page that yielded nothing but raw text
// and a title is still considered empty and triggers the fallback path.
func IsEmpty(rec *models.Record) bool {
	if rec == nil {
		return true
	}
	if len(rec.Services) > 0 || len(rec.Clients) > 0 || len(rec.Blog) > 0 || len(rec.Jobs) > 0 {
		return false
	}
	return strings.TrimSpace(rec.Summary) == ""
}
