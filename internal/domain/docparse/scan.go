package docparse

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/openkraft/docsync/internal/domain"
)

var (
	headingRe   = regexp.MustCompile(`^(=+)\s+(\S.*?)\s*$`)
	delimiterRe = regexp.MustCompile(`^(-{4,}|\.{4,}|={4,}|\+{4,}|\*{4,}|_{4,}|/{4,})$`)
	fenceRe     = regexp.MustCompile("^```\\s*([\\w+#.-]*)")
	attributeRe = regexp.MustCompile(`^:([\w-]+):\s*(.*)$`)
	anchorRe    = regexp.MustCompile(`\[\[([^\],\]]+)(?:,[^\]]*)?\]\]`)
	anchorIDRe  = regexp.MustCompile(`^\[#([\w-]+)[^\]]*\]$`)
	xrefRe      = regexp.MustCompile(`<<([^>,]+)(?:,[^>]*)?>>|xref:([\w#./-]+)\[`)
	urlRe       = regexp.MustCompile("https?://[^\\s\\[\\]<>\"'`)]+")
	listRe      = regexp.MustCompile(`^(\s*)(\*+|-|\.+|\d+\.)\s+(\S.*)$`)
	trailEqRe   = regexp.MustCompile(`\s+=+$`)
	nonIDRe     = regexp.MustCompile(`[^\p{L}\p{N}]+`)
)

const maxHeadingLevel = 6

var delimiterKinds = map[byte]domain.BlockKind{
	'-': domain.BlockListing,
	'.': domain.BlockLiteral,
	'=': domain.BlockExample,
	'+': domain.BlockPass,
	'*': domain.BlockSidebar,
	'_': domain.BlockQuote,
	'/': domain.BlockComment,
}

type openBlock struct {
	delim string
	kind  domain.BlockKind
	lang  string
	line  int
	body  []string
}

type openTable struct {
	line    int
	columns int
	pending int
	row     []string
	rows    [][]string
}

// scanner holds the state of the single structural pass.
type scanner struct {
	doc      *domain.DocStructure
	stack    []int
	bodies   [][]string
	own      [][]string
	ownOpen  []bool
	preamble []string

	block     *openBlock
	table     *openTable
	blockLang string
	tableCols int
}

// newScan performs the line-oriented pass: sections, blocks, tables, lists,
// anchors, links and attributes.
func newScan(text string) (*scanner, error) {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	lines := strings.Split(text, "\n")
	s := &scanner{
		doc: &domain.DocStructure{
			Attributes: make(map[string]string),
			Lines:      lines,
		},
	}

	for i, raw := range lines {
		if err := s.line(i+1, strings.TrimRight(raw, " \t")); err != nil {
			return nil, err
		}
	}

	if s.block != nil {
		return nil, &domain.SyntaxError{Line: s.block.line, Reason: fmt.Sprintf("unterminated %s block", s.block.kind)}
	}
	if s.table != nil {
		return nil, &domain.SyntaxError{Line: s.table.line, Reason: "unterminated table"}
	}

	for i := range s.doc.Sections {
		s.doc.Sections[i].Body = strings.TrimRight(strings.Join(s.bodies[i], "\n"), "\n")
		s.doc.Sections[i].Own = strings.Trim(strings.Join(s.own[i], "\n"), "\n")
	}
	s.doc.Title = documentTitle(s.doc.Sections)
	return s, nil
}

func (s *scanner) line(n int, line string) error {
	if s.block != nil {
		s.appendBody(line)
		if s.closesBlock(line) {
			s.finishBlock()
		} else {
			s.block.body = append(s.block.body, line)
		}
		return nil
	}

	if s.table != nil {
		s.appendBody(line)
		if strings.HasPrefix(line, "|===") {
			return s.finishTable(n)
		}
		return s.tableRow(n, line)
	}

	trimmed := strings.TrimSpace(line)

	if m := fenceRe.FindStringSubmatch(trimmed); m != nil {
		s.appendBody(line)
		lang := m[1]
		if lang == "" {
			lang = s.blockLang
		}
		s.openBlock(n, "```", domain.BlockFenced, lang)
		return nil
	}

	if delimiterRe.MatchString(trimmed) {
		s.appendBody(line)
		kind := delimiterKinds[trimmed[0]]
		lang := ""
		if kind == domain.BlockListing || kind == domain.BlockLiteral {
			lang = s.blockLang
		}
		s.openBlock(n, trimmed, kind, lang)
		return nil
	}

	if strings.HasPrefix(trimmed, "|===") {
		s.appendBody(line)
		s.table = &openTable{line: n, columns: s.tableCols}
		s.tableCols = 0
		s.blockLang = ""
		return nil
	}

	if strings.HasPrefix(line, "=") {
		return s.heading(n, line)
	}

	s.appendBody(line)

	switch {
	case strings.HasPrefix(trimmed, "//"):
		return nil
	case strings.HasPrefix(trimmed, "[") && strings.HasSuffix(trimmed, "]") && !strings.HasPrefix(trimmed, "[["):
		s.blockAttribute(trimmed)
		return nil
	}

	if trimmed != "" {
		s.blockLang = ""
	}

	if m := attributeRe.FindStringSubmatch(trimmed); m != nil {
		s.doc.Attributes[m[1]] = m[2]
		return nil
	}

	if m := listRe.FindStringSubmatch(line); m != nil {
		s.list(n, m[2], m[3])
	}

	for _, m := range anchorRe.FindAllStringSubmatch(line, -1) {
		s.doc.Anchors = append(s.doc.Anchors, strings.TrimSpace(m[1]))
	}
	for _, m := range xrefRe.FindAllStringSubmatch(line, -1) {
		target := m[1]
		if target == "" {
			target = strings.TrimPrefix(m[2], "#")
		}
		s.doc.Links = append(s.doc.Links, domain.Link{Kind: domain.LinkInternal, Target: strings.TrimSpace(target), Line: n})
	}
	for _, u := range urlRe.FindAllString(line, -1) {
		s.doc.Links = append(s.doc.Links, domain.Link{Kind: domain.LinkExternal, Target: strings.TrimRight(u, ".,;:"), Line: n})
	}
	return nil
}

func (s *scanner) heading(n int, line string) error {
	m := headingRe.FindStringSubmatch(line)
	if m == nil || len(m[1]) > maxHeadingLevel {
		return &domain.SyntaxError{Line: n, Reason: fmt.Sprintf("malformed header %q", line)}
	}
	level := len(m[1])
	title := strings.TrimSpace(trailEqRe.ReplaceAllString(m[2], ""))

	for len(s.stack) > 0 && s.doc.Sections[s.stack[len(s.stack)-1]].Level >= level {
		s.stack = s.stack[:len(s.stack)-1]
	}
	parent := -1
	if len(s.stack) > 0 {
		parent = s.stack[len(s.stack)-1]
		s.ownOpen[parent] = false
	}

	idx := len(s.doc.Sections)
	s.doc.Sections = append(s.doc.Sections, domain.Section{Title: title, Level: level, Line: n, Parent: parent})
	s.bodies = append(s.bodies, nil)
	s.own = append(s.own, nil)
	s.ownOpen = append(s.ownOpen, true)
	s.stack = append(s.stack, idx)
	s.doc.Anchors = append(s.doc.Anchors, SectionID(title))
	s.blockLang = ""
	return nil
}

// appendBody adds a raw line to every open section and to the innermost
// section's own text.
func (s *scanner) appendBody(line string) {
	if len(s.stack) == 0 {
		s.preamble = append(s.preamble, line)
		return
	}
	for _, idx := range s.stack {
		s.bodies[idx] = append(s.bodies[idx], line)
	}
	top := s.stack[len(s.stack)-1]
	if s.ownOpen[top] {
		s.own[top] = append(s.own[top], line)
	}
}

func (s *scanner) openBlock(n int, delim string, kind domain.BlockKind, lang string) {
	s.block = &openBlock{delim: delim, kind: kind, lang: normalizeLang(lang), line: n}
	s.blockLang = ""
}

func (s *scanner) closesBlock(line string) bool {
	trimmed := strings.TrimSpace(line)
	if s.block.delim == "```" {
		return trimmed == "```"
	}
	return trimmed == s.block.delim
}

func (s *scanner) finishBlock() {
	b := s.block
	s.block = nil
	if b.kind == domain.BlockComment {
		return
	}
	s.doc.Blocks = append(s.doc.Blocks, domain.Block{
		Kind:     b.kind,
		Language: b.lang,
		Line:     b.line,
		Section:  s.currentTitle(),
		Content:  strings.Join(b.body, "\n"),
	})
}

// blockAttribute remembers [source,lang] and [cols=...] for the next block.
func (s *scanner) blockAttribute(attr string) {
	if m := anchorIDRe.FindStringSubmatch(attr); m != nil {
		s.doc.Anchors = append(s.doc.Anchors, m[1])
		return
	}
	parts := splitTopLevel(strings.Trim(attr, "[]"), ',')
	if len(parts) == 0 {
		return
	}
	if first := strings.TrimSpace(parts[0]); first == "source" || first == "listing" {
		if len(parts) > 1 {
			s.blockLang = strings.TrimSpace(parts[1])
		}
		return
	}
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if strings.HasPrefix(p, "cols=") {
			s.tableCols = countColumnSpecs(strings.Trim(strings.TrimPrefix(p, "cols="), `"'`))
		}
	}
}

// countColumnSpecs understands "1,2,3" and "3*" forms.
func countColumnSpecs(spec string) int {
	if spec == "" {
		return 0
	}
	if i := strings.Index(spec, "*"); i > 0 && !strings.Contains(spec, ",") {
		if n, err := strconv.Atoi(spec[:i]); err == nil {
			return n
		}
	}
	return len(strings.Split(spec, ","))
}

func (s *scanner) tableRow(n int, line string) error {
	t := s.table
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return nil
	}
	cells := splitCells(trimmed)
	if len(cells) == 0 {
		if len(t.row) > 0 {
			t.row[len(t.row)-1] = strings.TrimSpace(t.row[len(t.row)-1] + " " + trimmed)
		}
		return nil
	}
	if t.columns == 0 {
		t.columns = len(cells)
	}
	t.pending += len(cells)
	t.row = append(t.row, cells...)
	switch {
	case t.pending == t.columns:
		t.rows = append(t.rows, t.row)
		t.row = nil
		t.pending = 0
	case t.pending > t.columns:
		return &domain.SyntaxError{Line: n, Reason: fmt.Sprintf("table row has %d cells, expected %d", t.pending, t.columns)}
	}
	return nil
}

func (s *scanner) finishTable(n int) error {
	t := s.table
	s.table = nil
	if t.pending != 0 {
		return &domain.SyntaxError{Line: n, Reason: fmt.Sprintf("table row has %d cells, expected %d", t.pending, t.columns)}
	}
	s.doc.Tables = append(s.doc.Tables, domain.Table{Line: t.line, Columns: t.columns, Rows: t.rows})
	return nil
}

func (s *scanner) list(n int, marker, text string) {
	ordered := marker[0] == '.' || (marker[0] >= '0' && marker[0] <= '9')
	depth := len(marker)
	if marker == "-" || strings.HasSuffix(marker, ".") && marker[0] != '.' {
		depth = 1
	}
	s.doc.Lists = append(s.doc.Lists, domain.ListItem{Line: n, Marker: marker, Depth: depth, Ordered: ordered, Text: text})
}

func (s *scanner) currentTitle() string {
	if len(s.stack) == 0 {
		return ""
	}
	return s.doc.Sections[s.stack[len(s.stack)-1]].Title
}

// splitCells splits "|a |b" into cell texts; escaped pipes stay in the cell.
// Lines that do not start with "|" continue the previous cell.
func splitCells(line string) []string {
	if !strings.HasPrefix(line, "|") {
		return nil
	}
	var cells []string
	var cur strings.Builder
	started := false
	for i := 0; i < len(line); i++ {
		c := line[i]
		switch {
		case c == '\\' && i+1 < len(line) && line[i+1] == '|':
			cur.WriteByte('|')
			i++
		case c == '|':
			if started {
				cells = append(cells, strings.TrimSpace(cur.String()))
				cur.Reset()
			}
			started = true
		default:
			cur.WriteByte(c)
		}
	}
	if started {
		cells = append(cells, strings.TrimSpace(cur.String()))
	}
	return cells
}

func documentTitle(sections []domain.Section) string {
	for _, s := range sections {
		if s.Level == 1 {
			return s.Title
		}
	}
	if len(sections) > 0 {
		return sections[0].Title
	}
	return ""
}

// SectionID derives the automatic anchor of a heading ("_getting_started").
func SectionID(title string) string {
	id := nonIDRe.ReplaceAllString(strings.ToLower(title), "_")
	return "_" + strings.Trim(id, "_")
}
