package matcher

import (
	"path/filepath"
	"strings"
	"unicode"

	"github.com/fatih/camelcase"
)

// Words splits an identifier on underscores, dashes, spaces and camelCase
// boundaries and lowercases each word.
func Words(name string) []string {
	var words []string
	for _, part := range strings.FieldsFunc(name, func(r rune) bool {
		return r == '_' || r == '-' || r == '.' || unicode.IsSpace(r)
	}) {
		for _, w := range camelcase.Split(part) {
			w = strings.ToLower(strings.TrimSpace(w))
			if w != "" {
				words = append(words, w)
			}
		}
	}
	return words
}

// NormalizeName folds get_user, getUser and GetUser to "get_user".
func NormalizeName(name string) string {
	return strings.Join(Words(name), "_")
}

// stem returns the normalized base name of path without its extension,
// minus the configured prefixes and suffixes.
func (o Options) stem(path string) string {
	base := filepath.Base(path)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	s := NormalizeName(base)
	for _, p := range o.stripPrefixes {
		if t := strings.TrimPrefix(s, p); t != s && t != "" {
			s = t
			break
		}
	}
	for _, suf := range o.stripSuffixes {
		if t := strings.TrimSuffix(s, suf); t != s && t != "" {
			s = t
			break
		}
	}
	return s
}

// normType compares declared types loosely: case, spaces and backticks are
// ignored and the typing. prefix is dropped.
func normType(t string) string {
	t = strings.ToLower(strings.Trim(strings.TrimSpace(t), "`"))
	t = strings.ReplaceAll(t, " ", "")
	t = strings.ReplaceAll(t, "typing.", "")
	return t
}
