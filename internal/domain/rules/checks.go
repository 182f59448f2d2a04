package rules

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/openkraft/docsync/internal/domain"
)

var documentChecks = map[string]Check{
	domain.CheckHeaderLevels:       docCheck(headerLevels),
	domain.CheckHeaderPattern:      docCheck(headerPattern),
	domain.CheckListConsistency:    docCheck(listConsistency),
	domain.CheckInternalLinks:      docCheck(internalLinks),
	domain.CheckExternalLinks:      externalLinks,
	domain.CheckRequiredSections:   docCheck(requiredSections),
	domain.CheckForbiddenSections:  docCheck(forbiddenSections),
	domain.CheckMinExamples:        docCheck(minExamples),
	domain.CheckMethodDescriptions: docCheck(methodDescriptions),
}

type docFunc func(rule domain.ValidationRule, doc *domain.DocStructure, file string) ([]Finding, error)

// docCheck adapts a pure document check; it is skipped without a document.
func docCheck(fn docFunc) Check {
	return func(_ context.Context, rule domain.ValidationRule, in Input) ([]Finding, error) {
		if in.Doc == nil {
			return nil, domain.ErrRuleSkipped
		}
		return fn(rule, in.Doc, in.DocFile)
	}
}

func at(file string, s domain.Section) domain.IssueLocation {
	return domain.IssueLocation{File: file, Section: s.Title, Line: s.Line}
}

// headerLevels flags headings that skip a level below their parent and,
// when Levels is set, headings at a level outside it.
func headerLevels(rule domain.ValidationRule, doc *domain.DocStructure, file string) ([]Finding, error) {
	allowed := make(map[int]bool)
	for _, l := range rule.Config.Levels {
		allowed[l] = true
	}
	var out []Finding
	for _, s := range doc.Sections {
		if len(allowed) > 0 && !allowed[s.Level] {
			out = append(out, Finding{
				Location: at(file, s),
				Message:  fmt.Sprintf("heading %q uses level %d which is not allowed", s.Title, s.Level),
				Original: strings.Repeat("=", s.Level) + " " + s.Title,
			})
			continue
		}
		// Top-level headings may start at the document title level or one below.
		prev := 1
		if s.Parent >= 0 {
			prev = doc.Sections[s.Parent].Level
		}
		if s.Level > prev+1 {
			out = append(out, Finding{
				Location:  at(file, s),
				Message:   fmt.Sprintf("heading %q jumps from level %d to %d", s.Title, prev, s.Level),
				Original:  strings.Repeat("=", s.Level) + " " + s.Title,
				Corrected: strings.Repeat("=", prev+1) + " " + s.Title,
			})
		}
	}
	return out, nil
}

// headerPattern requires every heading (at the configured levels) to match
// one of the patterns.
func headerPattern(rule domain.ValidationRule, doc *domain.DocStructure, file string) ([]Finding, error) {
	if len(rule.Config.Patterns) == 0 {
		return nil, domain.ErrRuleSkipped
	}
	res, err := compileAll(rule.Config.Patterns)
	if err != nil {
		return nil, err
	}
	levels := make(map[int]bool)
	for _, l := range rule.Config.Levels {
		levels[l] = true
	}
	var out []Finding
	for _, s := range doc.Sections {
		if len(levels) > 0 && !levels[s.Level] {
			continue
		}
		if !matchesAny(res, s.Title) {
			out = append(out, Finding{
				Location: at(file, s),
				Message:  fmt.Sprintf("heading %q does not match the required pattern", s.Title),
				Original: s.Title,
			})
		}
	}
	return out, nil
}

// listConsistency flags unordered items whose bullet differs from the first
// unordered bullet of the document at the same depth.
func listConsistency(_ domain.ValidationRule, doc *domain.DocStructure, file string) ([]Finding, error) {
	first := make(map[int]string)
	var out []Finding
	for _, it := range doc.Lists {
		if it.Ordered {
			continue
		}
		style := it.Marker[:1]
		want, ok := first[it.Depth]
		if !ok {
			first[it.Depth] = style
			continue
		}
		if style != want {
			out = append(out, Finding{
				Location:  domain.IssueLocation{File: file, Line: it.Line},
				Message:   fmt.Sprintf("list item uses %q while the document uses %q", it.Marker, want),
				Original:  it.Marker + " " + it.Text,
				Corrected: strings.Repeat(want, max(it.Depth, 1)) + " " + it.Text,
			})
		}
	}
	return out, nil
}

// internalLinks requires every cross reference within the document to
// resolve to an anchor. References into other files are not checked.
func internalLinks(_ domain.ValidationRule, doc *domain.DocStructure, file string) ([]Finding, error) {
	anchors := make(map[string]bool, len(doc.Anchors))
	for _, a := range doc.Anchors {
		anchors[a] = true
	}
	var out []Finding
	for _, l := range doc.Links {
		if l.Kind != domain.LinkInternal || strings.Contains(l.Target, ".adoc") {
			continue
		}
		if !anchors[l.Target] {
			out = append(out, Finding{
				Location: domain.IssueLocation{File: file, Line: l.Line},
				Message:  fmt.Sprintf("cross reference %q has no matching anchor", l.Target),
				Original: "<<" + l.Target + ">>",
			})
		}
	}
	return out, nil
}

// externalLinks checks each distinct URL once. It is skipped when no
// checker is configured and reports a timeout when the deadline passes.
func externalLinks(ctx context.Context, _ domain.ValidationRule, in Input) ([]Finding, error) {
	if in.Doc == nil || in.Links == nil {
		return nil, domain.ErrRuleSkipped
	}
	seen := make(map[string]bool)
	var out []Finding
	for _, l := range in.Doc.Links {
		if l.Kind != domain.LinkExternal || seen[l.Target] {
			continue
		}
		seen[l.Target] = true
		ok, err := in.Links.Check(ctx, l.Target)
		if ctx.Err() != nil || errors.Is(err, context.DeadlineExceeded) {
			return nil, domain.ErrRuleTimeout
		}
		if err != nil || !ok {
			msg := fmt.Sprintf("link %s is unreachable", l.Target)
			if err != nil {
				msg = fmt.Sprintf("%s: %v", msg, err)
			}
			out = append(out, Finding{
				Location: domain.IssueLocation{File: in.DocFile, Line: l.Line},
				Message:  msg,
				Original: l.Target,
			})
		}
	}
	return out, nil
}

func requiredSections(rule domain.ValidationRule, doc *domain.DocStructure, file string) ([]Finding, error) {
	if len(rule.Config.Sections) == 0 {
		return nil, domain.ErrRuleSkipped
	}
	present := sectionSet(doc)
	var out []Finding
	for _, want := range rule.Config.Sections {
		if !present[normalize(want)] {
			out = append(out, Finding{
				Location:  domain.IssueLocation{File: file},
				Message:   fmt.Sprintf("required section %q is missing", want),
				Corrected: "== " + want,
			})
		}
	}
	return out, nil
}

func forbiddenSections(rule domain.ValidationRule, doc *domain.DocStructure, file string) ([]Finding, error) {
	if len(rule.Config.Sections) == 0 {
		return nil, domain.ErrRuleSkipped
	}
	forbidden := make(map[string]bool)
	for _, s := range rule.Config.Sections {
		forbidden[normalize(s)] = true
	}
	var out []Finding
	for _, s := range doc.Sections {
		if forbidden[normalize(s.Title)] {
			out = append(out, Finding{
				Location: at(file, s),
				Message:  fmt.Sprintf("section %q is not allowed", s.Title),
				Original: s.Title,
			})
		}
	}
	return out, nil
}

// minExamples counts source and example blocks. MinCount defaults to one.
func minExamples(rule domain.ValidationRule, doc *domain.DocStructure, file string) ([]Finding, error) {
	want := rule.Config.MinCount
	if want <= 0 {
		want = 1
	}
	n := 0
	for _, b := range doc.Blocks {
		if b.IsCode() || b.Kind == domain.BlockExample {
			n++
		}
	}
	if n >= want {
		return nil, nil
	}
	return []Finding{{
		Location: domain.IssueLocation{File: file},
		Message:  fmt.Sprintf("document has %d examples, at least %d expected", n, want),
	}}, nil
}

func methodDescriptions(_ domain.ValidationRule, doc *domain.DocStructure, file string) ([]Finding, error) {
	var out []Finding
	for _, m := range doc.Methods {
		if strings.TrimSpace(m.Description) != "" {
			continue
		}
		out = append(out, Finding{
			Location: domain.IssueLocation{File: file, Section: m.Section, Line: m.Line},
			Message:  fmt.Sprintf("method %s has no description", m.Name),
		})
	}
	return out, nil
}

func sectionSet(doc *domain.DocStructure) map[string]bool {
	set := make(map[string]bool, len(doc.Sections))
	for _, s := range doc.Sections {
		set[normalize(s.Title)] = true
	}
	return set
}

func normalize(title string) string {
	return strings.ToLower(strings.Trim(strings.TrimSpace(title), "*_`:"))
}

func compileAll(patterns []string) ([]*regexp.Regexp, error) {
	out := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("compiling %q: %w", p, err)
		}
		out = append(out, re)
	}
	return out, nil
}

func matchesAny(res []*regexp.Regexp, s string) bool {
	for _, re := range res {
		if re.MatchString(s) {
			return true
		}
	}
	return false
}
