package domain

import (
	"fmt"
	"regexp"
)

// Document checks evaluated against a parsed document. Discrepancy checks
// reuse the DiscrepancyKind names.
const (
	CheckHeaderLevels       = "header_levels"
	CheckHeaderPattern      = "header_pattern"
	CheckListConsistency    = "list_consistency"
	CheckInternalLinks      = "internal_links"
	CheckExternalLinks      = "external_links"
	CheckRequiredSections   = "required_sections"
	CheckForbiddenSections  = "forbidden_sections"
	CheckMinExamples        = "min_examples"
	CheckMethodDescriptions = "method_descriptions"
)

// DocumentChecks lists checks that inspect a DocStructure.
var DocumentChecks = []string{
	CheckHeaderLevels, CheckHeaderPattern, CheckListConsistency,
	CheckInternalLinks, CheckExternalLinks,
	CheckRequiredSections, CheckForbiddenSections,
	CheckMinExamples, CheckMethodDescriptions,
}

// IsKnownCheck reports whether name is a document check or a discrepancy kind.
func IsKnownCheck(name string) bool {
	for _, c := range DocumentChecks {
		if c == name {
			return true
		}
	}
	for _, k := range DiscrepancyKinds {
		if string(k) == name {
			return true
		}
	}
	return false
}

// ValidationRule is a configured rule. Config shape depends on Config.Check.
type ValidationRule struct {
	ID          string     `yaml:"id"          json:"id"`
	Name        string     `yaml:"name"        json:"name"`
	Description string     `yaml:"description" json:"description,omitempty"`
	Category    Category   `yaml:"category"    json:"category"`
	Severity    Severity   `yaml:"severity"    json:"severity"`
	Config      RuleConfig `yaml:"config"      json:"config"`
}

// RuleConfig is the category-specific payload of a rule.
type RuleConfig struct {
	Check    string   `yaml:"check"              json:"check"`
	Patterns []string `yaml:"patterns,omitempty" json:"patterns,omitempty"`
	Levels   []int    `yaml:"levels,omitempty"   json:"levels,omitempty"`
	Sections []string `yaml:"sections,omitempty" json:"sections,omitempty"`
	MinCount int      `yaml:"min_count,omitempty" json:"min_count,omitempty"`
}

// EffectiveSeverity applies the category override: QUALITY never fails a report.
func (r ValidationRule) EffectiveSeverity() Severity {
	if r.Category == CategoryQuality {
		return SeverityWarning
	}
	return r.Severity
}

// Validate checks a single rule definition.
func (r ValidationRule) Validate() error {
	if r.ID == "" {
		return fmt.Errorf("rule without id")
	}
	switch r.Category {
	case CategorySyntax, CategorySemantic, CategoryCompleteness, CategoryQuality:
	default:
		return fmt.Errorf("rule %s: unknown category %q", r.ID, r.Category)
	}
	switch r.Severity {
	case SeverityError, SeverityWarning:
	default:
		return fmt.Errorf("rule %s: unknown severity %q", r.ID, r.Severity)
	}
	if !IsKnownCheck(r.Config.Check) {
		return fmt.Errorf("rule %s: unknown check %q", r.ID, r.Config.Check)
	}
	for _, p := range r.Config.Patterns {
		if _, err := regexp.Compile(p); err != nil {
			return fmt.Errorf("rule %s: invalid pattern %q: %w", r.ID, p, err)
		}
	}
	if r.Config.MinCount < 0 {
		return fmt.Errorf("rule %s: min_count must be >= 0, got %d", r.ID, r.Config.MinCount)
	}
	return nil
}

// ValidateRules checks every rule and rejects duplicate ids.
func ValidateRules(rules []ValidationRule) error {
	seen := make(map[string]bool, len(rules))
	for _, r := range rules {
		if err := r.Validate(); err != nil {
			return err
		}
		if seen[r.ID] {
			return fmt.Errorf("duplicate rule id %q", r.ID)
		}
		seen[r.ID] = true
	}
	return nil
}

// DefaultRules returns the built-in rule set.
func DefaultRules() []ValidationRule {
	rule := func(id, name string, cat Category, sev Severity, check string) ValidationRule {
		return ValidationRule{ID: id, Name: name, Category: cat, Severity: sev, Config: RuleConfig{Check: check}}
	}
	return []ValidationRule{
		rule("SYNTAX-HEADER-001", "Heading levels do not skip", CategorySyntax, SeverityWarning, CheckHeaderLevels),
		rule("SYNTAX-LIST-001", "Lists use one marker style", CategorySyntax, SeverityWarning, CheckListConsistency),
		rule("SYNTAX-LINK-001", "Cross references resolve", CategorySyntax, SeverityError, CheckInternalLinks),
		rule("SYNTAX-LINK-002", "External links are reachable", CategorySyntax, SeverityWarning, CheckExternalLinks),
		rule("COMPLETENESS-METHOD-001", "Every method is documented", CategoryCompleteness, SeverityError, string(KindUndocumentedMethod)),
		rule("COMPLETENESS-PARAM-001", "Every parameter is documented", CategoryCompleteness, SeverityWarning, string(KindUndocumentedParam)),
		rule("COMPLETENESS-FILE-001", "Every source file has documentation", CategoryCompleteness, SeverityWarning, string(KindUndocumentedFile)),
		rule("SEMANTIC-METHOD-001", "Documented methods exist in code", CategorySemantic, SeverityError, string(KindMissingMethod)),
		rule("SEMANTIC-PARAM-001", "Parameter types agree", CategorySemantic, SeverityError, string(KindParamTypeMismatch)),
		rule("SEMANTIC-PARAM-002", "Parameter optionality agrees", CategorySemantic, SeverityWarning, string(KindParamRequiredMismatch)),
		rule("SEMANTIC-PARAM-003", "Documented parameters exist in code", CategorySemantic, SeverityError, string(KindParamMissingInCode)),
		rule("SEMANTIC-API-001", "Every endpoint is documented", CategorySemantic, SeverityError, string(KindUndocumentedEndpoint)),
		rule("SEMANTIC-API-002", "Endpoint HTTP methods agree", CategorySemantic, SeverityError, string(KindEndpointMethodMismatch)),
		rule("SEMANTIC-API-003", "Documented endpoints exist in code", CategorySemantic, SeverityError, string(KindEndpointMissingInCode)),
		rule("SEMANTIC-FILE-001", "Documentation describes existing code", CategorySemantic, SeverityWarning, string(KindOrphanedDoc)),
		rule("QUALITY-DESCRIPTION-001", "Documented methods have a description", CategoryQuality, SeverityWarning, CheckMethodDescriptions),
	}
}
