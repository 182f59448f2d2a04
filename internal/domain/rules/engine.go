// Package rules turns parsed documents and matcher discrepancies into
// validation issues. Every rule is evaluated independently; a failing rule
// degrades into a QUALITY warning instead of aborting the run.
package rules

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/openkraft/docsync/internal/domain"
)

// DefaultTimeout bounds a single rule evaluation.
const DefaultTimeout = 30 * time.Second

// Input is everything a rule may look at. Doc is nil when only code was
// analyzed. Links is nil when external link checking is disabled.
type Input struct {
	Doc           *domain.DocStructure
	DocFile       string
	Discrepancies []domain.Discrepancy
	Links         domain.LinkChecker
}

// Finding is a check result before it is stamped with rule metadata.
type Finding struct {
	Location  domain.IssueLocation
	Message   string
	Original  string
	Corrected string
}

// Check evaluates one rule. Returning domain.ErrRuleSkipped opts out silently.
type Check func(ctx context.Context, rule domain.ValidationRule, in Input) ([]Finding, error)

// Result holds the issues of one evaluation and the warnings of rules that
// were skipped for lack of time.
type Result struct {
	Issues   []domain.ValidationIssue
	Warnings []string
}

// Engine dispatches rules to checks by RuleConfig.Check. It holds no
// per-request state and is safe for concurrent use.
type Engine struct {
	checks  map[string]Check
	timeout time.Duration
}

// Option configures an Engine.
type Option func(*Engine)

// WithTimeout bounds each rule evaluation.
func WithTimeout(d time.Duration) Option {
	return func(e *Engine) {
		if d > 0 {
			e.timeout = d
		}
	}
}

// WithCheck registers or replaces a check.
func WithCheck(name string, c Check) Option {
	return func(e *Engine) { e.checks[name] = c }
}

// New returns an engine with the built-in document and discrepancy checks.
func New(opts ...Option) *Engine {
	e := &Engine{checks: make(map[string]Check), timeout: DefaultTimeout}
	for name, c := range documentChecks {
		e.checks[name] = c
	}
	for _, k := range domain.DiscrepancyKinds {
		e.checks[string(k)] = discrepancyCheck(k)
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Validate evaluates rules in order. The outcome of one rule never depends
// on another.
func (e *Engine) Validate(ctx context.Context, in Input, rules []domain.ValidationRule) Result {
	var res Result
	for _, rule := range rules {
		findings, err := e.evaluate(ctx, rule, in)
		switch {
		case err == nil:
			for _, f := range findings {
				res.Issues = append(res.Issues, domain.ValidationIssue{
					Category:         rule.Category,
					Severity:         rule.EffectiveSeverity(),
					Location:         f.Location,
					Message:          f.Message,
					OriginalContent:  f.Original,
					CorrectedContent: f.Corrected,
					RuleID:           rule.ID,
				})
			}
		case errors.Is(err, domain.ErrRuleSkipped):
		case errors.Is(err, domain.ErrRuleTimeout), errors.Is(err, context.DeadlineExceeded):
			res.Warnings = append(res.Warnings, fmt.Sprintf("rule %s skipped: %v", rule.ID, domain.ErrRuleTimeout))
		default:
			res.Issues = append(res.Issues, domain.ValidationIssue{
				Category: domain.CategoryQuality,
				Severity: domain.SeverityWarning,
				Location: domain.IssueLocation{File: in.DocFile},
				Message:  fmt.Sprintf("rule could not be evaluated: %v", err),
				RuleID:   rule.ID,
			})
		}
	}
	return res
}

func (e *Engine) evaluate(ctx context.Context, rule domain.ValidationRule, in Input) (findings []Finding, err error) {
	check, ok := e.checks[rule.Config.Check]
	if !ok {
		return nil, fmt.Errorf("no check named %q", rule.Config.Check)
	}

	defer func() {
		if r := recover(); r != nil {
			findings, err = nil, fmt.Errorf("panic: %v", r)
		}
	}()

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()
	return check(ctx, rule, in)
}

func discrepancyCheck(kind domain.DiscrepancyKind) Check {
	return func(_ context.Context, _ domain.ValidationRule, in Input) ([]Finding, error) {
		var out []Finding
		for _, d := range in.Discrepancies {
			if d.Kind != kind {
				continue
			}
			file := d.File
			if file == "" {
				file = in.DocFile
			}
			out = append(out, Finding{
				Location:  domain.IssueLocation{File: file, Section: d.Section, Line: d.Line},
				Message:   d.Message,
				Original:  d.Actual,
				Corrected: d.Expected,
			})
		}
		return out, nil
	}
}
