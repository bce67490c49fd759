package extract

import (
	"regexp"
	"strings"
)

// Typographic substitutions applied before any other cleaning so the
// downstream text analysis only ever sees plain ASCII punctuation.
var substitutions = strings.NewReplacer(
	"’", "'", "‘", "'", "“", `"`, "”", `"`,
	"–", "-", "—", "-", "…", "...", "•", "-",
	"™", "(TM)", "®", "(R)", "©", "(C)", "€", "EUR", "→", "->",
)

// Generic boilerplate phrases that carry no information about the company.
var genericPhrases = []string{
	"en savoir plus", "learn more", "read more", "voir plus",
	"tous droits réservés", "accept cookies", "politique de confidentialité",
	"terms and conditions", "back to top", "lire la suite",
}

var (
	urlLineRe     = regexp.MustCompile(`^(https?://|www\.)\S+$`)
	symbolsOnlyRe = regexp.MustCompile(`^\W{1,5}$`)
	whitespaceRe  = regexp.MustCompile(`\s+`)
)

// Normalize collapses whitespace and replaces fancy punctuation with plain
// equivalents. Accents are preserved; the classifier keywords rely on them.
func Normalize(text string) string {
	text = substitutions.Replace(text)
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(text, " "))
}

// uselessLine reports whether a cleaned line is boilerplate: a bare URL,
// a run of punctuation, or one of the generic phrases.
func uselessLine(line string) bool {
	if line == "" {
		return true
	}
	if urlLineRe.MatchString(line) || symbolsOnlyRe.MatchString(line) {
		return true
	}
	lower := strings.ToLower(line)
	for _, phrase := range genericPhrases {
		if strings.Contains(lower, phrase) {
			return true
		}
	}
	return false
}

// CleanBlocks normalizes a newline-separated set of text blocks, dropping
// boilerplate and duplicate lines while preserving first-seen order.
func CleanBlocks(text string) string {
	seen := make(map[string]struct{})
	var out []string
	for _, line := range strings.Split(text, "\n") {
		line = Normalize(line)
		if uselessLine(line) {
			continue
		}
		key := strings.ToLower(line)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, line)
	}
	return strings.Join(out, "\n")
}
