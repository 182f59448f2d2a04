package docparse

import (
	"regexp"
	"strings"

	"github.com/openkraft/docsync/internal/domain"
)

var (
	typeOfRe   = regexp.MustCompile("(?i)(?:типа|of\\s+type)\\s+`?([\\w.<>\\[\\]]+)")
	parenRe    = regexp.MustCompile(`\(([^()]*)\)`)
	typeLikeRe = regexp.MustCompile(`^[A-Za-z_][\w.]*(?:\s*[<\[].*[>\]])?(?:\[\])*\??(?:\s*\|\s*[\w.\[\]]+)*$`)
)

var optionalMarkers = []string{
	"необязательн", "optional", "может отсутствовать", "may be null", "may be omitted",
	"nullable", "по умолчанию", "default",
}

var headerCells = map[string]bool{
	"name": true, "parameter": true, "param": true, "параметр": true, "имя": true, "название": true,
}

// parseParam applies the configured split patterns in order.
func (p *Parser) parseParam(text string, line int) (domain.ParamDoc, bool) {
	text = strings.TrimSpace(text)
	for _, re := range p.paramPatterns {
		m := re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		name := group(re, m, "name")
		if name == "" {
			continue
		}
		return p.paramFromDescription(name, group(re, m, "type"), group(re, m, "desc"), line), true
	}
	return domain.ParamDoc{}, false
}

// paramFromCells reads a "|name |type |description" table row.
func (p *Parser) paramFromCells(cells []string, line int) (domain.ParamDoc, bool) {
	if len(cells) < 2 {
		return domain.ParamDoc{}, false
	}
	name := strings.Trim(cells[0], "`*_ ")
	if !identRe.MatchString(name) || headerCells[strings.ToLower(name)] {
		return domain.ParamDoc{}, false
	}
	typ := ""
	if len(cells) >= 3 {
		typ = cells[1]
	}
	return p.paramFromDescription(name, typ, cells[len(cells)-1], line), true
}

func (p *Parser) paramFromDescription(name, typ, desc string, line int) domain.ParamDoc {
	desc = strings.TrimSpace(desc)
	typ, optional := cleanType(typ)
	if typ == "" {
		typ, optional = typeFromDescription(desc, optional)
	}
	return domain.ParamDoc{
		Name:        name,
		Type:        typ,
		Description: desc,
		Required:    !optional && !hasOptionalMarker(desc) && !domain.IsOptionalType(typ),
		Line:        line,
	}
}

func group(re *regexp.Regexp, m []string, name string) string {
	if i := re.SubexpIndex(name); i > 0 && i < len(m) {
		return strings.TrimSpace(m[i])
	}
	return ""
}

// cleanType splits "int, optional" into the type and the optional flag.
func cleanType(raw string) (string, bool) {
	typ, optional := "", false
	for _, part := range splitTopLevel(strings.Trim(raw, "` "), ',') {
		part = strings.Trim(strings.TrimSpace(part), "`")
		low := strings.ToLower(part)
		switch {
		case part == "":
		case hasOptionalMarker(low):
			optional = true
		case strings.HasPrefix(low, "required") || strings.HasPrefix(low, "обязательн"):
		case typ == "" && typeLikeRe.MatchString(part):
			typ = part
		}
	}
	return typ, optional
}

func typeFromDescription(desc string, optional bool) (string, bool) {
	if m := typeOfRe.FindStringSubmatch(desc); m != nil {
		return m[1], optional
	}
	for _, m := range parenRe.FindAllStringSubmatch(desc, -1) {
		typ, opt := cleanType(m[1])
		optional = optional || opt
		if typ != "" {
			return typ, optional
		}
	}
	return "", optional
}

func hasOptionalMarker(text string) bool {
	low := strings.ToLower(text)
	for _, marker := range optionalMarkers {
		if strings.Contains(low, marker) {
			return true
		}
	}
	return false
}

const (
	titleSigRe = "(?:^|[\\s`])"
	sigPrefix  = `(?m)^\s*(?:(?:public|private|protected|static|final|abstract|synchronized|async)\s+)*` +
		`(def|func(?:\s*\([^)]*\))?|(?:<[^>]+>\s+)?[\w<>\[\],.?]+)\s+`
)

// notTypes precede a call rather than a declaration.
var notTypes = map[string]bool{
	"return": true, "new": true, "await": true, "yield": true, "throw": true,
	"print": true, "assert": true, "else": true, "raise": true, "go": true, "defer": true,
}

// signatureParams reads parameters from "name(a, b)" in the title, or from a
// declaration of name in a code block.
func signatureParams(name, title string, code []string) ([]domain.ParamDoc, bool) {
	quoted := regexp.QuoteMeta(name)

	titleRe := regexp.MustCompile(titleSigRe + quoted + `\s*\(([^)]*)\)`)
	if m := titleRe.FindStringSubmatch(strings.TrimSpace(title)); m != nil {
		return parseSignature(m[1], styleFor(m[1])), true
	}

	declRe := regexp.MustCompile(sigPrefix + quoted + `\s*\(([^)]*)\)`)
	for _, m := range declRe.FindAllStringSubmatch(strings.Join(code, "\n"), -1) {
		prefix := strings.TrimSpace(m[1])
		if notTypes[prefix] {
			continue
		}
		style := styleJava
		switch {
		case prefix == "def":
			style = stylePython
		case strings.HasPrefix(prefix, "func"):
			style = styleGo
		}
		return parseSignature(m[2], style), true
	}
	return nil, false
}

type sigStyle int

const (
	styleJava sigStyle = iota
	stylePython
	styleGo
)

// styleFor guesses the convention of a bare parameter list.
func styleFor(args string) sigStyle {
	if strings.Contains(args, ":") || strings.Contains(args, "=") {
		return stylePython
	}
	for _, part := range splitTopLevel(args, ',') {
		if len(strings.Fields(part)) > 1 {
			return styleJava
		}
	}
	return stylePython
}

func parseSignature(args string, style sigStyle) []domain.ParamDoc {
	params := []domain.ParamDoc{}
	for _, raw := range splitTopLevel(args, ',') {
		raw = strings.TrimSpace(raw)
		if raw == "" || raw == "self" || raw == "cls" || raw == "*" || raw == "/" {
			continue
		}
		pd, ok := parseSignatureParam(raw, style)
		if !ok {
			continue
		}
		params = append(params, pd)
	}
	if style == styleGo {
		for i := len(params) - 2; i >= 0; i-- {
			if params[i].Type == "" {
				params[i].Type = params[i+1].Type
			}
		}
	}
	return params
}

func parseSignatureParam(raw string, style sigStyle) (domain.ParamDoc, bool) {
	var name, typ, def string
	switch style {
	case stylePython:
		if i := strings.Index(raw, "="); i >= 0 {
			raw, def = strings.TrimSpace(raw[:i]), strings.TrimSpace(raw[i+1:])
		}
		name = raw
		if i := strings.Index(raw, ":"); i >= 0 {
			name, typ = strings.TrimSpace(raw[:i]), strings.TrimSpace(raw[i+1:])
		}
		name = strings.TrimLeft(name, "*")
	case styleGo:
		fields := strings.Fields(raw)
		name = fields[0]
		if len(fields) > 1 {
			typ = strings.Join(fields[1:], " ")
		}
	default:
		var fields []string
		for _, f := range strings.Fields(raw) {
			if f == "final" || strings.HasPrefix(f, "@") {
				continue
			}
			fields = append(fields, f)
		}
		if len(fields) == 0 {
			return domain.ParamDoc{}, false
		}
		name = fields[len(fields)-1]
		typ = strings.Join(fields[:len(fields)-1], " ")
	}
	if !identRe.MatchString(name) {
		return domain.ParamDoc{}, false
	}
	return domain.ParamDoc{
		Name:     name,
		Type:     typ,
		Required: def == "" && !domain.IsOptionalType(typ),
	}, true
}
