package docparse

import (
	"regexp"
	"strings"

	"github.com/openkraft/docsync/internal/domain"
)

var (
	verbPathRe   = regexp.MustCompile("\\b(GET|POST|PUT|DELETE|PATCH|HEAD|OPTIONS)\\s+`?(/[^\\s`'\"),;\\]]*)")
	pathLineRe   = regexp.MustCompile("(?i)^[\\s*_.\\-]*(?:path|url|endpoint|route|путь|адрес)[\\s*_]*:[\\s*_]*`?(/[^\\s`'\"),;]*)")
	methodLineRe = regexp.MustCompile("(?i)^[\\s*_.\\-]*(?:http method|http-метод|method|метод)[\\s*_]*:[\\s*_]*`?(GET|POST|PUT|DELETE|PATCH|HEAD|OPTIONS)\\b")
	mappingRe    = regexp.MustCompile(`@(Get|Post|Put|Delete|Patch|Request)Mapping\(\s*(?:value\s*=\s*|path\s*=\s*)?"([^"]*)"`)
	titleVerbRe  = regexp.MustCompile(`\b(GET|POST|PUT|DELETE|PATCH|HEAD|OPTIONS)\b`)
)

// extractEndpoints collects "VERB /path" mentions, "Path: /x" lines paired
// with a nearby "Method: VERB" line or a verb in the section title, and
// mapping annotations quoted in code blocks.
func extractEndpoints(doc *domain.DocStructure) []domain.Endpoint {
	var out []domain.Endpoint
	seen := make(map[string]bool)
	add := func(method, path string, line int, section string) {
		ep := domain.Endpoint{Method: domain.NormalizeHTTPMethod(method), Path: path, Line: line, Owner: section}
		if seen[ep.Key()] {
			return
		}
		seen[ep.Key()] = true
		out = append(out, ep)
	}

	sec := -1
	pendingMethod := ""
	var pendingPath string
	pendingLine := 0

	flush := func() {
		if pendingPath == "" {
			return
		}
		method := pendingMethod
		if method == "" && sec >= 0 {
			if m := titleVerbRe.FindStringSubmatch(doc.Sections[sec].Title); m != nil {
				method = m[1]
			}
		}
		add(method, pendingPath, pendingLine, sectionTitle(doc, sec))
		pendingPath, pendingMethod = "", ""
	}

	for i, line := range doc.Lines {
		n := i + 1
		if next := sec + 1; next < len(doc.Sections) && doc.Sections[next].Line == n {
			flush()
			sec = next
			pendingMethod = ""
		}

		for _, m := range verbPathRe.FindAllStringSubmatch(line, -1) {
			add(m[1], m[2], n, sectionTitle(doc, sec))
		}
		for _, m := range mappingRe.FindAllStringSubmatch(line, -1) {
			verb := strings.ToUpper(m[1])
			if verb == "REQUEST" {
				verb = ""
			}
			add(verb, m[2], n, sectionTitle(doc, sec))
		}
		if m := methodLineRe.FindStringSubmatch(line); m != nil {
			pendingMethod = strings.ToUpper(m[1])
		}
		if m := pathLineRe.FindStringSubmatch(line); m != nil {
			flush()
			pendingPath, pendingLine = m[1], n
		}
	}
	flush()
	return out
}

func sectionTitle(doc *domain.DocStructure, idx int) string {
	if idx < 0 || idx >= len(doc.Sections) {
		return ""
	}
	return doc.Sections[idx].Title
}
