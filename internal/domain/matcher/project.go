package matcher

import (
	"fmt"
	"sort"

	"github.com/openkraft/docsync/internal/domain"
)

// Pair is one code file with the document it resolved to, if any, and the
// discrepancies found between them.
type Pair struct {
	Mapping       domain.FileMapping
	Code          *domain.CodeStructure
	Doc           *DocFile
	Discrepancies []domain.Discrepancy
}

// Key is the report grouping key of the pair.
func (p Pair) Key() string {
	return p.Mapping.Key()
}

// Unclaimed is a document no code file resolved to. Discrepancies holds the
// orphaned_doc finding when the document names a class the project lacks.
type Unclaimed struct {
	Doc           DocFile
	Discrepancies []domain.Discrepancy
}

// ProjectResult is the outcome of MatchProject.
type ProjectResult struct {
	Pairs     []Pair
	Unclaimed []Unclaimed
}

// Mappings lists the file mappings in code file order.
func (r ProjectResult) Mappings() []domain.FileMapping {
	out := make([]domain.FileMapping, 0, len(r.Pairs))
	for _, p := range r.Pairs {
		out = append(out, p.Mapping)
	}
	return out
}

// Discrepancies flattens every discrepancy of the result.
func (r ProjectResult) Discrepancies() []domain.Discrepancy {
	var out []domain.Discrepancy
	for _, p := range r.Pairs {
		out = append(out, p.Discrepancies...)
	}
	for _, u := range r.Unclaimed {
		out = append(out, u.Discrepancies...)
	}
	return out
}

// MatchProject maps code files to documents and compares each pair. Each
// strategy runs over all still unmatched code files before the next one is
// tried, so a higher-confidence match is never stolen by a weaker one.
// A document is claimed at most once. Documents naming a class that is
// absent from the project never become candidates.
func MatchProject(codes []*domain.CodeStructure, docs []DocFile, opts Options) ProjectResult {
	codes = append([]*domain.CodeStructure(nil), codes...)
	sort.SliceStable(codes, func(i, j int) bool { return codes[i].FilePath < codes[j].FilePath })
	docs = append([]DocFile(nil), docs...)
	sort.SliceStable(docs, func(i, j int) bool { return docs[i].Path < docs[j].Path })

	known := make(map[string]bool)
	for _, c := range codes {
		for _, cl := range c.Classes {
			known[NormalizeName(cl.Name)] = true
		}
	}
	eligible := func(d DocFile) bool {
		return d.Doc.ClassName == "" || known[NormalizeName(d.Doc.ClassName)]
	}

	claimed := make([]bool, len(docs))
	assigned := make([]int, len(codes))
	strategy := make([]domain.MatchStrategy, len(codes))
	for i := range assigned {
		assigned[i] = -1
	}

	for _, name := range opts.strategies {
		fn, ok := Strategies[name]
		if !ok {
			continue
		}
		for ci, code := range codes {
			if assigned[ci] >= 0 || code.PrimaryClass() == nil {
				continue
			}
			var pool []DocFile
			var index []int
			for di, d := range docs {
				if claimed[di] || !eligible(d) || !compatible(d.Doc, code.Language) {
					continue
				}
				pool = append(pool, d)
				index = append(index, di)
			}
			if len(pool) == 0 {
				continue
			}
			if k, ok := fn(code, pool, opts); ok {
				claimed[index[k]] = true
				assigned[ci] = index[k]
				strategy[ci] = name
			}
		}
	}

	var res ProjectResult
	for ci, code := range codes {
		m := domain.FileMapping{CodeFile: code.FilePath, Strategy: domain.StrategyUnmatched}
		if cl := code.PrimaryClass(); cl != nil {
			m.ClassName = cl.Name
		}
		p := Pair{Mapping: m, Code: code}

		if di := assigned[ci]; di >= 0 {
			d := docs[di]
			p.Mapping.DocFile = d.Path
			p.Mapping.Strategy = strategy[ci]
			p.Doc = &d
			p.Discrepancies = MatchFile(code, d.Doc, opts)
		} else if m.ClassName != "" {
			p.Discrepancies = []domain.Discrepancy{{
				Kind:    domain.KindUndocumentedFile,
				File:    code.FilePath,
				Class:   m.ClassName,
				Message: fmt.Sprintf("no documentation found for %s (%s)", m.ClassName, code.FilePath),
			}}
		}
		res.Pairs = append(res.Pairs, p)
	}

	for di, d := range docs {
		if claimed[di] {
			continue
		}
		u := Unclaimed{Doc: d}
		if !eligible(d) {
			u.Discrepancies = []domain.Discrepancy{{
				Kind:    domain.KindOrphanedDoc,
				File:    d.Path,
				Class:   d.Doc.ClassName,
				Section: d.Doc.Title,
				Line:    titleLine(d.Doc),
				Message: fmt.Sprintf("documentation describes class %s which does not exist in the code", d.Doc.ClassName),
			}}
		}
		res.Unclaimed = append(res.Unclaimed, u)
	}
	return res
}

func titleLine(doc *domain.DocStructure) int {
	if len(doc.Sections) > 0 {
		return doc.Sections[0].Line
	}
	return 0
}
