// Package extract turns raw page HTML into the structured sections a
// crawl record is made of: services, clients, technologies, blog posts,
// job offers, contact data. It is heuristic keyword classification, not
// semantic analysis; the analysis stage downstream refines these buckets.
package extract

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/IkramKhemiri/Veille-concurrentielle-automatis-e-avec-IA/pkg/models"
)

var (
	emailRe = regexp.MustCompile(`[a-zA-Z0-9_.+-]+@[a-zA-Z0-9-]+\.[a-zA-Z0-9-.]+`)
	phoneRe = regexp.MustCompile(`(?:\+?\d{1,3}[\s\-.]?)?(?:\(?\d{1,4}\)?[\s\-.]?)?\d{3,5}[\s\-.]?\d{3,5}`)

	nonPhoneCharRe = regexp.MustCompile(`[^\d+]`)
)

// Tags scanned for text blocks, in priority order. Headings first so that
// slogans and section titles surface before body copy.
var blockTags = []string{
	"h1", "h2", "h3", "h4", "p", "li", "article", "section", "div",
	"span", "td", "blockquote",
}

const (
	maxOfferLines   = 10
	maxNoveltyLines = 10
	minBlockWords   = 2
)

// Page parses rendered HTML and classifies its visible text into the
// closed Record schema. It never fails: unparsable HTML yields an empty
// record, which the caller's emptiness check turns into a fallback or a
// typed error.
func Page(html, baseURL string) *models.Record {
	rec := &models.Record{}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return rec
	}

	rec.Title = strings.TrimSpace(doc.Find("title").First().Text())

	metas := make(map[string]string)
	doc.Find("meta").Each(func(_ int, sel *goquery.Selection) {
		key, _ := sel.Attr("name")
		if key == "" {
			key, _ = sel.Attr("property")
		}
		if content, ok := sel.Attr("content"); ok && key != "" {
			metas[strings.ToLower(key)] = strings.TrimSpace(content)
		}
	})
	rec.MetaDescription = metas["description"]
	if rec.MetaDescription == "" {
		rec.MetaDescription = metas["og:description"]
	}

	blocks := harvestBlocks(doc)
	merged := strings.Join(blocks, "\n")
	cleaned := CleanBlocks(merged)

	sections := make(map[string][]string)
	for _, block := range strings.Split(cleaned, "\n") {
		if block == "" {
			continue
		}
		classified := classifyBlock(block)
		if classified == "" {
			classified = fallbackSection(block, sections)
		}
		if classified != "" {
			sections[classified] = append(sections[classified], block)
		}
	}

	if slogans := sections[sectionSlogan]; len(slogans) > 0 {
		rec.Slogan = slogans[0]
	}
	if summaries := sections[sectionSummary]; len(summaries) > 0 {
		rec.Summary = summaries[0]
	} else {
		rec.Summary = rec.MetaDescription
	}

	rec.Services = toItems(sections[sectionServices], baseURL)
	rec.Clients = toItems(sections[sectionClients], baseURL)
	rec.Technologies = toItems(sections[sectionTechnologies], baseURL)
	rec.Blog = toItems(sections[sectionBlog], baseURL)
	rec.Jobs = toItems(sections[sectionJobs], baseURL)
	rec.Offers = toItems(OfferLines(merged, maxOfferLines), baseURL)
	rec.News = toItems(NoveltyLines(merged, maxNoveltyLines), baseURL)

	rec.Emails = extractEmails(html + "\n" + merged)
	rec.Phones = extractPhones(html + "\n" + merged)

	rec.RawText = cleaned

	return rec
}

// harvestBlocks collects candidate text blocks from content tags, image
// alt text and link labels, deduplicated case-insensitively in document
// order.
func harvestBlocks(doc *goquery.Document) []string {
	seen := make(map[string]struct{})
	var blocks []string

	add := func(text string) {
		text = Normalize(text)
		if text == "" {
			return
		}
		key := strings.ToLower(text)
		if _, dup := seen[key]; dup {
			return
		}
		seen[key] = struct{}{}
		blocks = append(blocks, text)
	}

	for _, tag := range blockTags {
		doc.Find(tag).Each(func(_ int, sel *goquery.Selection) {
			add(sel.Text())
		})
	}

	doc.Find("img[alt]").Each(func(_ int, sel *goquery.Selection) {
		alt, _ := sel.Attr("alt")
		if len(strings.Fields(alt)) >= minBlockWords {
			add(alt)
		}
	})

	doc.Find("a").Each(func(_ int, sel *goquery.Selection) {
		text := sel.Text()
		if len(strings.Fields(text)) >= minBlockWords {
			add(text)
		}
	})

	return blocks
}

// fallbackSection buckets blocks the keyword classifier could not place.
// Short early blocks become the slogan; long unmatched prose defaults to
// services, which is where company self-description usually lives.
func fallbackSection(block string, sections map[string][]string) string {
	lower := strings.ToLower(block)
	words := len(strings.Fields(block))

	switch {
	case words <= 8 && len(sections[sectionSlogan]) == 0:
		return sectionSlogan
	case containsAny(lower, []string{"service", "solution", "produit", "what we do", "nos services"}):
		return sectionServices
	case containsAny(lower, []string{"client", "nos clients", "référence", "portfolio", "they trust"}):
		return sectionClients
	case containsAny(lower, []string{"blog", "article", "news", "actualité"}):
		return sectionBlog
	case containsAny(lower, []string{"job", "career", "recrut", "poste", "emploi"}):
		return sectionJobs
	case containsAny(lower, technologyHints):
		return sectionTechnologies
	case words > 8:
		return sectionServices
	}
	return ""
}

func toItems(lines []string, baseURL string) []models.Item {
	seen := make(map[string]struct{})
	items := make([]models.Item, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		key := strings.ToLower(line)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		items = append(items, models.Item{URL: baseURL, Content: line})
	}
	return items
}

func extractEmails(text string) []string {
	seen := make(map[string]struct{})
	var emails []string
	for _, match := range emailRe.FindAllString(text, -1) {
		email := strings.ToLower(strings.Trim(match, "."))
		if _, dup := seen[email]; dup {
			continue
		}
		seen[email] = struct{}{}
		emails = append(emails, email)
	}
	return emails
}

func extractPhones(text string) []string {
	seen := make(map[string]struct{})
	var phones []string
	for _, match := range phoneRe.FindAllString(text, -1) {
		phone := nonPhoneCharRe.ReplaceAllString(match, "")
		// Too few digits is noise (years, prices); too many is an ID
		digits := strings.TrimPrefix(phone, "+")
		if len(digits) < 8 || len(digits) > 15 {
			continue
		}
		if _, dup := seen[phone]; dup {
			continue
		}
		seen[phone] = struct{}{}
		phones = append(phones, phone)
	}
	return phones
}
