package docparse

import (
	"regexp"
	"strings"

	"github.com/openkraft/docsync/internal/domain"
)

var (
	titleClassRe = regexp.MustCompile("(?i)(?:^|[^\\p{L}])(?:класса|класс|class|модуля|модуль|module|интерфейса|интерфейс|interface)\\s+[`'\"]?([A-Za-z_]\\w*)")
	codeClassRe  = regexp.MustCompile(`(?m)^\s*(?:(?:public|abstract|final|sealed)\s+)*(?:class|interface|record)\s+([A-Za-z_]\w*)|^\s*type\s+([A-Z]\w*)\s+struct\b`)
	pascalRe     = regexp.MustCompile(`^[A-Z][a-z0-9]+(?:[A-Z][a-z0-9]*)+$`)
	identRe      = regexp.MustCompile(`^[A-Za-z_]\w*$`)
)

// genericTitles never name a class on their own.
var genericTitles = map[string]bool{
	"readme": true, "api": true, "documentation": true, "docs": true, "changelog": true,
	"index": true, "guide": true, "reference": true, "introduction": true, "overview": true,
	"usage": true, "examples": true, "документация": true, "введение": true, "обзор": true,
}

// extractClassName finds the class a document describes: an explicit
// "class X" in the title, a title that is an identifier, a PascalCase word
// in the title, "class X" in the introduction, then a class declared in a
// code block.
func extractClassName(doc *domain.DocStructure, preamble []string) string {
	title := doc.Title

	if m := titleClassRe.FindStringSubmatch(title); m != nil && plausibleClass(m[1]) {
		return m[1]
	}

	if t := strings.Trim(strings.TrimSpace(title), "`"); identRe.MatchString(t) && !genericTitles[strings.ToLower(t)] {
		return t
	}

	for _, w := range strings.Fields(title) {
		w = strings.Trim(w, "`'\".,:;()")
		if pascalRe.MatchString(w) {
			return w
		}
	}

	intro := strings.Join(preamble, "\n")
	if len(doc.Sections) > 0 {
		intro += "\n" + doc.Sections[0].Own
	}
	if m := titleClassRe.FindStringSubmatch(intro); m != nil && plausibleClass(m[1]) {
		return m[1]
	}

	for _, b := range doc.CodeBlocks() {
		if m := codeClassRe.FindStringSubmatch(b.Content); m != nil {
			if m[1] != "" {
				return m[1]
			}
			return m[2]
		}
	}
	return ""
}

// plausibleClass rejects ordinary words caught after "class".
func plausibleClass(name string) bool {
	if name == "" {
		return false
	}
	first := name[0]
	return (first >= 'A' && first <= 'Z') || strings.Contains(name, "_")
}

// detectLanguage picks the most frequent source-block language.
func detectLanguage(doc *domain.DocStructure) domain.Language {
	counts := make(map[domain.Language]int)
	best := domain.LanguageUnknown
	for _, b := range doc.Blocks {
		lang := languageOf(b.Language)
		if lang == domain.LanguageUnknown {
			continue
		}
		counts[lang]++
		if best == domain.LanguageUnknown || counts[lang] > counts[best] {
			best = lang
		}
	}
	return best
}
