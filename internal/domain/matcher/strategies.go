package matcher

import (
	"regexp"
	"strings"

	"github.com/openkraft/docsync/internal/domain"
)

// DocFile is a parsed document prepared for matching.
type DocFile struct {
	Path  string
	Doc   *domain.DocStructure
	words map[string]bool
}

var wordRe = regexp.MustCompile(`[A-Za-z_]\w*`)

// NewDocFile indexes the identifiers mentioned anywhere in doc.
func NewDocFile(path string, doc *domain.DocStructure) DocFile {
	words := make(map[string]bool)
	for _, line := range doc.Lines {
		for _, w := range wordRe.FindAllString(line, -1) {
			words[w] = true
		}
	}
	return DocFile{Path: path, Doc: doc, words: words}
}

// Mentions reports whether the document uses name as a whole word.
func (d DocFile) Mentions(name string) bool {
	return d.words[name]
}

// Strategy picks the document describing code among docs, returning its
// index. Strategies are pure and see only unclaimed, compatible documents.
type Strategy func(code *domain.CodeStructure, docs []DocFile, opts Options) (int, bool)

// Strategies maps each configurable strategy to its implementation.
var Strategies = map[domain.MatchStrategy]Strategy{
	domain.StrategyExactName:        ExactName,
	domain.StrategyClassMention:     ClassMention,
	domain.StrategyContentHeuristic: ContentHeuristic,
}

// ExactName matches when the document's base name equals the code file's
// base name, ignoring case, separators and the configured prefixes and
// suffixes.
func ExactName(code *domain.CodeStructure, docs []DocFile, opts Options) (int, bool) {
	stem := opts.stem(code.FilePath)
	for i, d := range docs {
		if opts.stem(d.Path) == stem {
			return i, true
		}
	}
	return -1, false
}

// ClassMention matches when the document's title or introduction names the
// code file's primary class, or when the document is named after it.
func ClassMention(code *domain.CodeStructure, docs []DocFile, opts Options) (int, bool) {
	cl := code.PrimaryClass()
	if cl == nil {
		return -1, false
	}
	for i, d := range docs {
		if d.Doc.ClassName == cl.Name || titleNames(d.Doc.Title, cl.Name) {
			return i, true
		}
	}
	class := NormalizeName(cl.Name)
	for i, d := range docs {
		if opts.stem(d.Path) == class {
			return i, true
		}
	}
	return -1, false
}

// ContentHeuristic scores each document by the class name and distinct
// method names it mentions and picks the best one at or above the
// configured threshold.
func ContentHeuristic(code *domain.CodeStructure, docs []DocFile, opts Options) (int, bool) {
	var names []string
	seen := make(map[string]bool)
	add := func(n string) {
		if n != "" && !seen[n] {
			seen[n] = true
			names = append(names, n)
		}
	}
	if cl := code.PrimaryClass(); cl != nil && !cl.Module {
		add(cl.Name)
	}
	for _, cl := range code.Classes {
		for _, m := range cl.Methods {
			if !opts.ignored(cl, m) {
				add(m.Name)
			}
		}
	}

	best, bestScore := -1, 0
	for i, d := range docs {
		score := 0
		for _, n := range names {
			if d.Mentions(n) {
				score++
			}
		}
		if score >= opts.minOverlap && score > bestScore {
			best, bestScore = i, score
		}
	}
	return best, best >= 0
}

func titleNames(title, class string) bool {
	for _, w := range strings.Fields(title) {
		if strings.Trim(w, "`'\".,:;()") == class {
			return true
		}
	}
	return false
}

// compatible reports whether a document may describe code written in lang.
func compatible(doc *domain.DocStructure, lang domain.Language) bool {
	return doc.Language == domain.LanguageUnknown || lang == domain.LanguageUnknown || doc.Language == lang
}
