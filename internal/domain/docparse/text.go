package docparse

import (
	"strings"

	"github.com/openkraft/docsync/internal/domain"
)

// splitTopLevel splits s on sep, ignoring separators nested in (), [], <>,
// {} or double quotes.
func splitTopLevel(s string, sep rune) []string {
	var parts []string
	depth := 0
	start := 0
	quoted := false
	for i, r := range s {
		switch r {
		case '"':
			quoted = !quoted
		case '(', '[', '<', '{':
			depth++
		case ')', ']', '>', '}':
			if depth > 0 {
				depth--
			}
		case sep:
			if depth == 0 && !quoted {
				parts = append(parts, s[start:i])
				start = i + len(string(r))
			}
		}
	}
	parts = append(parts, s[start:])
	return parts
}

func normalizeLang(lang string) string {
	lang = strings.ToLower(strings.TrimSpace(lang))
	switch lang {
	case "py", "python3":
		return "python"
	case "golang":
		return "go"
	}
	return lang
}

// normTitle lowercases a heading and strips decoration and trailing colons.
func normTitle(title string) string {
	t := strings.ToLower(stripDecor(title))
	t = strings.TrimSuffix(t, ":")
	return strings.TrimSpace(stripDecor(t))
}

func stripDecor(s string) string {
	return strings.Trim(s, " \t*_.`")
}

func set(items []string) map[string]bool {
	m := make(map[string]bool, len(items))
	for _, it := range items {
		m[strings.ToLower(strings.TrimSpace(it))] = true
	}
	return m
}

func languageOf(lang string) domain.Language {
	return domain.ParseLanguage(normalizeLang(lang))
}
