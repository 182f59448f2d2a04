package application

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/openkraft/docsync/internal/domain"
	"github.com/openkraft/docsync/internal/domain/matcher"
	"github.com/openkraft/docsync/internal/domain/report"
	"github.com/openkraft/docsync/internal/domain/rules"
)

// ValidateDocument checks a single document against the document rules.
// A nil rule set means the configured rules. A markup SyntaxError is
// returned to the caller.
func (s *ValidationService) ValidateDocument(ctx context.Context, markup, source string, rs []domain.ValidationRule) (*domain.ValidationReport, error) {
	rs, err := s.ruleSet(rs)
	if err != nil {
		return nil, err
	}
	doc, err := s.parser.Parse(markup)
	if err != nil {
		return nil, err
	}

	res := s.engine.Validate(ctx, rules.Input{Doc: doc, DocFile: source, Links: s.linkChecker()}, rs)
	return report.Aggregate(report.Input{
		ID:        s.newID(),
		Source:    source,
		Timestamp: s.now(),
		Issues:    res.Issues,
		Warnings:  res.Warnings,
	}), nil
}

// ValidatePair compares one document with one source file. lang overrides
// extension-based analyzer selection when set. A source file that cannot
// be analyzed is recorded as a warning and only document rules run.
func (s *ValidationService) ValidatePair(ctx context.Context, markup, docName, sourcePath string, lang domain.Language) (*domain.ValidationReport, error) {
	info, err := os.Stat(sourcePath)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidInput, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: %s is a directory", domain.ErrInvalidInput, sourcePath)
	}

	var a domain.CodeAnalyzer
	if lang != domain.LanguageUnknown {
		a, err = s.registry.ForLanguage(lang)
	} else {
		a, err = s.registry.ForFile(sourcePath)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidInput, err)
	}

	doc, err := s.parser.Parse(markup)
	if err != nil {
		return nil, err
	}

	var warnings []string
	var discrepancies []domain.Discrepancy
	var mappings []domain.FileMapping
	src, err := s.readFile(ctx, sourcePath)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidInput, err)
	}
	code, err := a.Analyze(ctx, sourcePath, src)
	if err != nil {
		s.logger.Warn("analysis failed", "path", sourcePath, "error", err)
		warnings = append(warnings, failureWarning(FileError{Path: sourcePath, Err: err}))
	} else {
		discrepancies = matcher.MatchFile(code, doc, s.matching)
		m := domain.FileMapping{CodeFile: sourcePath, DocFile: docName}
		if cl := code.PrimaryClass(); cl != nil {
			m.ClassName = cl.Name
		}
		mappings = append(mappings, m)
	}

	key := domain.PairKey(sourcePath, docName)
	res := s.engine.Validate(ctx, rules.Input{
		Doc:           doc,
		DocFile:       docName,
		Discrepancies: discrepancies,
		Links:         s.linkChecker(),
	}, s.cfg.Rules)
	stamp(res.Issues, key)

	return report.Aggregate(report.Input{
		ID:        s.newID(),
		Source:    key,
		Timestamp: s.now(),
		Issues:    res.Issues,
		Mappings:  mappings,
		Warnings:  append(warnings, res.Warnings...),
	}), nil
}

// ValidateProject analyzes every code file under codeRoot, parses every
// document under docsRoot, maps them to each other and evaluates rs on each
// pair. Per-file problems become issues or warnings; only invalid roots or
// rules fail the call.
func (s *ValidationService) ValidateProject(ctx context.Context, codeRoot, docsRoot string, rs []domain.ValidationRule, opts ...RunOption) (*domain.ValidationReport, error) {
	rs, err := s.ruleSet(rs)
	if err != nil {
		return nil, err
	}
	if err := dirExists(codeRoot); err != nil {
		return nil, err
	}
	if err := dirExists(docsRoot); err != nil {
		return nil, err
	}

	analysis, err := s.AnalyzeProject(ctx, codeRoot, opts...)
	if err != nil {
		return nil, fmt.Errorf("analyzing %s: %w", codeRoot, err)
	}
	docs, err := s.ParseDocuments(ctx, docsRoot)
	if err != nil {
		return nil, fmt.Errorf("parsing documents in %s: %w", docsRoot, err)
	}

	var warnings []string
	for _, f := range analysis.Failures {
		warnings = append(warnings, failureWarning(f))
	}

	result := matcher.MatchProject(analysis.Files, docs.Docs, s.matching)
	links := s.linkChecker()
	names := projectNamer(analysis, docs)

	var issues []domain.ValidationIssue
	var groups []string
	var ruleWarnings []string
	evaluate := func(key string, in rules.Input) {
		in.Links = links
		res := s.engine.Validate(ctx, in, rs)
		stamp(res.Issues, key)
		issues = append(issues, res.Issues...)
		ruleWarnings = append(ruleWarnings, res.Warnings...)
		groups = append(groups, key)
	}

	for _, p := range result.Pairs {
		s.logger.Debug("mapped code file", "code", p.Mapping.CodeFile, "doc", p.Mapping.DocFile, "strategy", p.Mapping.Strategy)
		in := rules.Input{Discrepancies: p.Discrepancies}
		if p.Doc != nil {
			in.Doc = p.Doc.Doc
			in.DocFile = p.Doc.Path
		}
		evaluate(names.Key(p.Mapping.CodeFile, p.Mapping.DocFile), in)
	}
	for _, u := range result.Unclaimed {
		evaluate(names.Key("", u.Doc.Path), rules.Input{
			Doc:           u.Doc.Doc,
			DocFile:       u.Doc.Path,
			Discrepancies: u.Discrepancies,
		})
	}
	for _, f := range docs.Failures {
		var se *domain.SyntaxError
		if !errors.As(f.Err, &se) {
			warnings = append(warnings, failureWarning(f))
			continue
		}
		key := names.Key("", f.Path)
		groups = append(groups, key)
		issues = append(issues, domain.ValidationIssue{
			Category: domain.CategorySyntax,
			Severity: domain.SeverityError,
			Location: domain.IssueLocation{File: f.Path, Line: se.Line},
			Message:  se.Reason,
			RuleID:   domain.RuleDocumentSyntax,
			File:     key,
		})
	}
	sort.Strings(warnings)

	var commit string
	if s.git != nil && s.git.IsGitRepo(codeRoot) {
		if h, err := s.git.CommitHash(codeRoot); err == nil {
			commit = h
		} else {
			s.logger.Debug("no commit hash", "root", codeRoot, "error", err)
		}
	}

	return report.Aggregate(report.Input{
		ID:         s.newID(),
		Source:     filepath.Clean(codeRoot) + " | " + filepath.Clean(docsRoot),
		Timestamp:  s.now(),
		CommitHash: commit,
		Issues:     issues,
		Groups:     groups,
		Mappings:   result.Mappings(),
		Warnings:   append(warnings, ruleWarnings...),
		Grouped:    true,
	}), nil
}

// projectNamer keys report groups by base name unless two files of the
// run share one.
func projectNamer(analysis *ProjectAnalysis, docs *DocumentSet) domain.FileNamer {
	var paths []string
	for _, f := range analysis.Files {
		paths = append(paths, f.FilePath)
	}
	for _, d := range docs.Docs {
		paths = append(paths, d.Path)
	}
	for _, f := range docs.Failures {
		paths = append(paths, f.Path)
	}
	return domain.NewFileNamer(paths...)
}

func stamp(issues []domain.ValidationIssue, key string) {
	for i := range issues {
		issues[i].File = key
	}
}

func failureWarning(f FileError) string {
	var pf *domain.ParseFailure
	if errors.As(f.Err, &pf) {
		return fmt.Sprintf("parse failure: %s: %v", f.Path, pf.Err)
	}
	return fmt.Sprintf("skipped %s: %v", f.Path, f.Err)
}
