package docparse

import (
	"regexp"
	"strings"

	"github.com/openkraft/docsync/internal/domain"
)

// keywords are never method names even when a pattern captures them.
var keywords = map[string]bool{
	"if": true, "for": true, "while": true, "switch": true, "return": true, "new": true,
	"class": true, "def": true, "func": true, "catch": true, "try": true, "else": true,
}

// extractMethods names a method per candidate section. Title patterns are
// tried on every section before content patterns, so an explicit heading
// wins over a signature quoted elsewhere. Sibling headings may repeat a
// name to document overloads; a signature in content, or a heading nested
// under the section that already claimed the name, adds nothing.
func (p *Parser) extractMethods(doc *domain.DocStructure) []domain.MethodDoc {
	hasContainer := false
	for _, s := range doc.Sections {
		if p.containers[normTitle(s.Title)] {
			hasContainer = true
			break
		}
	}

	var candidates []int
	for i, s := range doc.Sections {
		title := normTitle(s.Title)
		switch {
		case s.Level <= 1, p.service[title], p.containers[title]:
			continue
		case doc.ClassName != "" && mentionsWord(s.Title, doc.ClassName):
			continue
		case hasContainer && !p.underContainer(doc, i):
			continue
		}
		candidates = append(candidates, i)
	}

	names := make(map[int]string)
	claimed := make(map[string]int)
	for _, content := range []bool{false, true} {
		for _, i := range candidates {
			if _, done := names[i]; done {
				continue
			}
			name := p.methodName(doc.Sections[i], content, hasContainer)
			if name == "" || name == doc.ClassName {
				continue
			}
			if first, ok := claimed[name]; ok {
				if content || nestedIn(doc, i, first) {
					continue
				}
			} else {
				claimed[name] = i
			}
			names[i] = name
		}
	}

	methods := []domain.MethodDoc{}
	for _, i := range candidates {
		name, ok := names[i]
		if !ok {
			continue
		}
		s := doc.Sections[i]
		md := domain.MethodDoc{Name: name, Section: s.Title, Line: s.Line, Parameters: []domain.ParamDoc{}}
		p.describe(&md, s)
		methods = append(methods, md)
	}
	return methods
}

func (p *Parser) underContainer(doc *domain.DocStructure, idx int) bool {
	for parent := doc.Sections[idx].Parent; parent >= 0; parent = doc.Sections[parent].Parent {
		if p.containers[normTitle(doc.Sections[parent].Title)] {
			return true
		}
	}
	return false
}

func nestedIn(doc *domain.DocStructure, idx, ancestor int) bool {
	for parent := doc.Sections[idx].Parent; parent >= 0; parent = doc.Sections[parent].Parent {
		if parent == ancestor {
			return true
		}
	}
	return false
}

// methodName applies the patterns for one target. A heading that is a bare
// identifier names a method only under a methods container; elsewhere it
// needs a call signature.
func (p *Parser) methodName(s domain.Section, content, bare bool) string {
	for _, mp := range p.methodPatterns {
		if (mp.target == domain.TargetContent) != content {
			continue
		}
		subject := strings.TrimSpace(s.Title)
		if content {
			subject = s.Own
		}
		if mp.target == domain.TargetExactTitle && !bare && !strings.Contains(subject, "(") {
			continue
		}
		m := mp.re.FindStringSubmatch(subject)
		if m == nil {
			continue
		}
		if name := firstGroup(m); name != "" && !keywords[name] {
			return name
		}
	}
	return ""
}

func firstGroup(m []string) string {
	for _, g := range m[1:] {
		if g != "" {
			return g
		}
	}
	return ""
}

type labelKind int

const (
	labelNone labelKind = iota
	labelParams
	labelReturns
	labelThrows
)

var (
	javadocParamRe  = regexp.MustCompile(`^@param\s+(\w+)\s*(.*)$`)
	javadocReturnRe = regexp.MustCompile(`^@returns?\s+(.*)$`)
	javadocThrowsRe = regexp.MustCompile(`^@(?:throws|exception|raises)\s+(\w[\w.]*)`)
)

// describe fills description, parameters, returns and exceptions from the
// section body. Parameters come from a labelled block or @param tags, and
// fall back to a signature in the title or a code block.
func (p *Parser) describe(md *domain.MethodDoc, s domain.Section) {
	mode := labelNone
	var code []string
	var delim string

	for i, raw := range strings.Split(s.Body, "\n") {
		line := strings.TrimSpace(raw)
		lineNo := s.Line + 1 + i

		if delim != "" {
			if line == delim || (delim == "```" && line == "```") {
				delim = ""
			} else {
				code = append(code, raw)
			}
			continue
		}
		if strings.HasPrefix(line, "```") {
			delim = "```"
			continue
		}
		if delimiterRe.MatchString(line) {
			delim = line
			continue
		}

		if line == "" || strings.HasPrefix(line, "//") || strings.HasPrefix(line, "|===") {
			continue
		}

		if m := headingRe.FindStringSubmatch(line); m != nil && strings.HasPrefix(line, "=") {
			kind, _ := p.label(m[2])
			mode = kind
			if kind == labelParams {
				md.ParamsDeclared = true
			}
			continue
		}

		if m := javadocParamRe.FindStringSubmatch(line); m != nil {
			md.ParamsDeclared = true
			md.Parameters = append(md.Parameters, p.paramFromDescription(m[1], "", m[2], lineNo))
			continue
		}
		if m := javadocReturnRe.FindStringSubmatch(line); m != nil {
			md.Returns = strings.TrimSpace(m[1])
			continue
		}
		if m := javadocThrowsRe.FindStringSubmatch(line); m != nil {
			md.Exceptions = append(md.Exceptions, m[1])
			continue
		}

		item, isItem := listItemText(line)

		if kind, rest := p.label(line); kind != labelNone && !isItem {
			mode = kind
			switch kind {
			case labelParams:
				md.ParamsDeclared = true
			case labelReturns:
				md.Returns = rest
			case labelThrows:
				md.Exceptions = append(md.Exceptions, exceptionNames(rest)...)
			}
			continue
		}

		if strings.HasPrefix(line, "|") {
			if mode == labelParams {
				if pd, ok := p.paramFromCells(splitCells(line), lineNo); ok {
					md.Parameters = append(md.Parameters, pd)
				}
			}
			continue
		}

		switch mode {
		case labelParams:
			if isItem {
				if pd, ok := p.parseParam(item, lineNo); ok {
					md.Parameters = append(md.Parameters, pd)
				}
				continue
			}
			mode = labelNone
		case labelReturns:
			if md.Returns == "" {
				md.Returns = strings.TrimSpace(item)
				continue
			}
			if isItem {
				continue
			}
			mode = labelNone
		case labelThrows:
			if isItem {
				md.Exceptions = append(md.Exceptions, exceptionNames(item)...)
				continue
			}
			mode = labelNone
		}

		if md.Description == "" && !isItem && isProse(line) {
			md.Description = line
		}
	}

	if !md.ParamsDeclared {
		if params, ok := signatureParams(md.Name, s.Title, code); ok {
			md.ParamsDeclared = true
			md.Parameters = params
		}
	}
}

// label recognizes "Parameters:", "*Returns:* text" and similar lines.
func (p *Parser) label(line string) (labelKind, string) {
	head, rest := line, ""
	if i := strings.Index(line, ":"); i >= 0 {
		head, rest = line[:i], line[i+1:]
	}
	key := normTitle(head)
	rest = stripDecor(rest)
	switch {
	case p.paramLabels[key]:
		return labelParams, rest
	case p.returnLabels[key]:
		return labelReturns, rest
	case p.throwsLabels[key]:
		return labelThrows, rest
	}
	return labelNone, ""
}

func listItemText(line string) (string, bool) {
	if m := listRe.FindStringSubmatch(line); m != nil {
		return m[3], true
	}
	return line, false
}

func exceptionNames(text string) []string {
	var out []string
	for _, part := range strings.Split(text, ",") {
		fields := strings.Fields(strings.Trim(strings.TrimSpace(part), "`*_"))
		if len(fields) == 0 {
			continue
		}
		name := strings.Trim(fields[0], "`*_:—-")
		if identRe.MatchString(strings.ReplaceAll(name, ".", "_")) {
			out = append(out, name)
		}
	}
	return out
}

func isProse(line string) bool {
	switch line[0] {
	case '[', ':', '.', '@', '|', '<', '=', '+', '*', '-', '_':
		return false
	}
	return true
}

func mentionsWord(text, word string) bool {
	for _, w := range strings.Fields(text) {
		if strings.Trim(w, "`'\".,:;()") == word {
			return true
		}
	}
	return false
}
