package extract

import (
	"regexp"
	"strings"
)

// Section names produced by the classifier. They mirror the Record fields.
const (
	sectionSlogan       = "slogan"
	sectionSummary      = "summary"
	sectionServices     = "services"
	sectionClients      = "clients"
	sectionBlog         = "blog"
	sectionJobs         = "jobs"
	sectionTechnologies = "technologies"
)

// thematicKeywords maps a section to the keywords whose presence (as a
// whole word) assigns a text block to it. French and English are mixed on
// purpose: the target sites are bilingual company pages.
var thematicKeywords = map[string][]string{
	sectionServices: {
		"services", "nos services", "solutions", "nos solutions", "offres",
		"prestations", "expertise", "what we do", "produits",
	},
	sectionClients: {
		"clients", "nos clients", "ils nous font confiance", "témoignages",
		"références", "portfolio", "they trust",
	},
	sectionTechnologies: {
		"technologies", "stack", "framework", "tools",
		"environnement technique", "langages",
	},
	sectionBlog: {
		"blog", "actualités", "news", "articles", "événements",
		"évènement", "publication",
	},
	sectionJobs: {
		"carrière", "jobs", "recrutement", "nous rejoindre", "postuler",
		"emplois", "career",
	},
}

// offerKeywords marks lines describing commercial offers.
var offerKeywords = []string{
	"offre", "nos offres", "solution", "nos solutions", "services",
	"nos services", "formule", "abonnement", "devis", "tarifs", "pricing",
	"pack", "forfait",
}

// noveltyKeywords marks lines describing recent announcements.
var noveltyKeywords = []string{
	"nouveaut", "new", "news", "recent", "update", "mise à jour",
	"promotion", "promo", "soldes", "réduction", "actualité",
	"publication", "release", "événement",
}

// technologyHints catches blocks naming a stack even when no section
// heading keyword is present.
var technologyHints = []string{
	"python", "java", "javascript", "react", "node", "django", "flask",
	"aws", "azure",
}

var keywordRes = buildKeywordRes()

func buildKeywordRes() map[string]*regexp.Regexp {
	res := make(map[string]*regexp.Regexp, len(thematicKeywords))
	for section, keywords := range thematicKeywords {
		quoted := make([]string, len(keywords))
		for i, kw := range keywords {
			quoted[i] = regexp.QuoteMeta(kw)
		}
		res[section] = regexp.MustCompile(`\b(?:` + strings.Join(quoted, "|") + `)\b`)
	}
	return res
}

// classifyBlock assigns a text block to a section by keyword match, or
// returns "" when no theme fits. Blocks under 20 characters are ignored;
// they are almost always navigation labels.
func classifyBlock(block string) string {
	if len(strings.TrimSpace(block)) < 20 {
		return ""
	}
	lower := strings.ToLower(block)
	for section, re := range keywordRes {
		if re.MatchString(lower) {
			return section
		}
	}
	return ""
}

// containsAny reports whether the lower-cased text contains one of the
// given keywords as a substring.
func containsAny(lower string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// keywordLines returns up to limit non-blank lines of text that contain
// one of the given keywords.
func keywordLines(text string, keywords []string, limit int) []string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if containsAny(strings.ToLower(line), keywords) {
			out = append(out, line)
		}
		if len(out) >= limit {
			break
		}
	}
	return out
}

// OfferLines extracts lines that look like commercial offers.
func OfferLines(text string, limit int) []string {
	return keywordLines(text, offerKeywords, limit)
}

// NoveltyLines extracts lines that look like recent announcements.
func NoveltyLines(text string, limit int) []string {
	return keywordLines(text, noveltyKeywords, limit)
}
