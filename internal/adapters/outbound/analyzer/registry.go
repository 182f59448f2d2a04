// Package analyzer turns source files into domain.CodeStructure values.
// Each language is a domain.CodeAnalyzer registered by file extension;
// adding a language is a call to Register.
package analyzer

import (
	"path/filepath"
	"sort"
	"strings"

	"github.com/openkraft/docsync/internal/domain"
)

// Registry maps file extensions and language tags to analyzers. It is
// populated at startup and read-only afterwards.
type Registry struct {
	byExt  map[string]domain.CodeAnalyzer
	byLang map[domain.Language]domain.CodeAnalyzer
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		byExt:  make(map[string]domain.CodeAnalyzer),
		byLang: make(map[domain.Language]domain.CodeAnalyzer),
	}
}

// NewDefaultRegistry registers the Java, Python and Go analyzers.
func NewDefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(NewJava())
	r.Register(NewPython())
	r.Register(NewGo())
	return r
}

// Register adds a for its language and every extension it claims. A later
// registration replaces an earlier one for the same key.
func (r *Registry) Register(a domain.CodeAnalyzer) {
	r.byLang[a.Language()] = a
	for _, ext := range a.Extensions() {
		r.byExt[strings.ToLower(ext)] = a
	}
}

// ForFile selects an analyzer by extension.
func (r *Registry) ForFile(path string) (domain.CodeAnalyzer, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if a, ok := r.byExt[ext]; ok {
		return a, nil
	}
	return nil, &domain.UnsupportedLanguageError{Path: path, Ext: ext}
}

// ForLanguage selects an analyzer by language tag.
func (r *Registry) ForLanguage(lang domain.Language) (domain.CodeAnalyzer, error) {
	if a, ok := r.byLang[lang]; ok {
		return a, nil
	}
	return nil, &domain.UnsupportedLanguageError{Path: string(lang)}
}

// Supports reports whether path has a registered extension.
func (r *Registry) Supports(path string) bool {
	_, ok := r.byExt[strings.ToLower(filepath.Ext(path))]
	return ok
}

// Extensions lists registered extensions, sorted.
func (r *Registry) Extensions() []string {
	out := make([]string, 0, len(r.byExt))
	for ext := range r.byExt {
		out = append(out, ext)
	}
	sort.Strings(out)
	return out
}

func moduleName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
