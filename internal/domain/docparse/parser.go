// Package docparse turns AsciiDoc-like markup into a DocStructure.
//
// Parsing is a single line-oriented pass that tracks a stack of open
// sections. Method and parameter extraction runs afterwards on the section
// tree, driven by the patterns in domain.ParsingConfig.
package docparse

import (
	"fmt"
	"regexp"

	"github.com/openkraft/docsync/internal/domain"
)

// Parser is immutable after New and safe for concurrent use.
type Parser struct {
	methodPatterns []methodPattern
	paramPatterns  []*regexp.Regexp
	paramLabels    map[string]bool
	returnLabels   map[string]bool
	throwsLabels   map[string]bool
	containers     map[string]bool
	service        map[string]bool
}

type methodPattern struct {
	name   string
	re     *regexp.Regexp
	target domain.PatternTarget
}

// New compiles a parser from configuration.
func New(cfg domain.ParsingConfig) (*Parser, error) {
	p := &Parser{
		paramLabels:  set(cfg.ParamLabels),
		returnLabels: set(cfg.ReturnLabels),
		throwsLabels: set(cfg.ThrowsLabels),
		containers:   set(cfg.ContainerSections),
		service:      set(cfg.ServiceSections),
	}
	for _, mp := range cfg.MethodPatterns {
		re, err := regexp.Compile(mp.Pattern)
		if err != nil {
			return nil, fmt.Errorf("compiling method pattern %q: %w", mp.Name, err)
		}
		p.methodPatterns = append(p.methodPatterns, methodPattern{name: mp.Name, re: re, target: mp.Target})
	}
	for _, raw := range cfg.ParamPatterns {
		re, err := regexp.Compile(raw)
		if err != nil {
			return nil, fmt.Errorf("compiling param pattern %q: %w", raw, err)
		}
		p.paramPatterns = append(p.paramPatterns, re)
	}
	return p, nil
}

// Default returns a parser built from domain.DefaultParsingConfig.
func Default() *Parser {
	p, err := New(domain.DefaultParsingConfig())
	if err != nil {
		panic(err)
	}
	return p
}

// Parse parses markup. Malformed headers, inconsistent tables and
// unterminated blocks fail with *domain.SyntaxError.
func (p *Parser) Parse(text string) (*domain.DocStructure, error) {
	s, err := newScan(text)
	if err != nil {
		return nil, err
	}
	doc := s.doc
	doc.ClassName = extractClassName(doc, s.preamble)
	doc.Language = detectLanguage(doc)
	doc.Methods = p.extractMethods(doc)
	doc.Endpoints = extractEndpoints(doc)
	return doc, nil
}
