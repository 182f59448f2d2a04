package rules_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openkraft/docsync/internal/domain"
	"github.com/openkraft/docsync/internal/domain/docparse"
	"github.com/openkraft/docsync/internal/domain/rules"
)

func parse(t *testing.T, src string) *domain.DocStructure {
	t.Helper()
	doc, err := docparse.Default().Parse(src)
	require.NoError(t, err)
	return doc
}

func rule(id string, cat domain.Category, sev domain.Severity, cfg domain.RuleConfig) domain.ValidationRule {
	return domain.ValidationRule{ID: id, Name: id, Category: cat, Severity: sev, Config: cfg}
}

func ruleIDs(issues []domain.ValidationIssue) []string {
	var out []string
	for _, is := range issues {
		out = append(out, is.RuleID)
	}
	return out
}

type fakeLinks struct {
	reachable map[string]bool
	delay     time.Duration
	calls     int
}

func (f *fakeLinks) Check(ctx context.Context, url string) (bool, error) {
	f.calls++
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return false, ctx.Err()
		}
	}
	return f.reachable[url], nil
}

func TestValidate_DiscrepancyRulesSelectByKind(t *testing.T) {
	in := rules.Input{
		DocFile: "calculator.adoc",
		Discrepancies: []domain.Discrepancy{
			{Kind: domain.KindUndocumentedMethod, File: "calculator.py", Method: "add", Line: 3, Message: "method Calculator.add is not documented"},
			{Kind: domain.KindParamMissingInCode, Method: "divide", Param: "c", Section: "Метод divide", Line: 20, Message: "documented parameter c"},
		},
	}
	rs := []domain.ValidationRule{
		rule("COMPLETENESS-METHOD-001", domain.CategoryCompleteness, domain.SeverityError, domain.RuleConfig{Check: "undocumented_method"}),
		rule("SEMANTIC-PARAM-003", domain.CategorySemantic, domain.SeverityError, domain.RuleConfig{Check: "param_missing_in_code"}),
		rule("SEMANTIC-METHOD-001", domain.CategorySemantic, domain.SeverityError, domain.RuleConfig{Check: "missing_method"}),
	}

	res := rules.New().Validate(context.Background(), in, rs)

	require.Len(t, res.Issues, 2)
	assert.Equal(t, "COMPLETENESS-METHOD-001", res.Issues[0].RuleID)
	assert.Equal(t, domain.CategoryCompleteness, res.Issues[0].Category)
	assert.Equal(t, domain.IssueLocation{File: "calculator.py", Line: 3}, res.Issues[0].Location)
	assert.Equal(t, "SEMANTIC-PARAM-003", res.Issues[1].RuleID)
	assert.Equal(t, domain.IssueLocation{File: "calculator.adoc", Section: "Метод divide", Line: 20}, res.Issues[1].Location)
	assert.Empty(t, res.Warnings)
}

func TestValidate_QualityIsAlwaysWarning(t *testing.T) {
	doc := parse(t, "= Class Calc\n\n== Methods\n\n=== add\n\n[source,python]\n----\nadd(1, 2)\n----\n")
	rs := []domain.ValidationRule{
		rule("QUALITY-DESCRIPTION-001", domain.CategoryQuality, domain.SeverityError, domain.RuleConfig{Check: "method_descriptions"}),
	}

	res := rules.New().Validate(context.Background(), rules.Input{Doc: doc}, rs)

	require.Len(t, res.Issues, 1)
	assert.Equal(t, domain.SeverityWarning, res.Issues[0].Severity)
	assert.Contains(t, res.Issues[0].Message, "add")
}

func TestValidate_RuleOrderDoesNotChangeIssues(t *testing.T) {
	doc := parse(t, "= T\n\n==== Deep\n\n* a\n- b\n\nSee <<nowhere>>.\n")
	rs := []domain.ValidationRule{
		rule("SYNTAX-HEADER-001", domain.CategorySyntax, domain.SeverityWarning, domain.RuleConfig{Check: "header_levels"}),
		rule("SYNTAX-LIST-001", domain.CategorySyntax, domain.SeverityWarning, domain.RuleConfig{Check: "list_consistency"}),
		rule("SYNTAX-LINK-001", domain.CategorySyntax, domain.SeverityError, domain.RuleConfig{Check: "internal_links"}),
	}
	reversed := []domain.ValidationRule{rs[2], rs[1], rs[0]}

	e := rules.New()
	a := e.Validate(context.Background(), rules.Input{Doc: doc}, rs)
	b := e.Validate(context.Background(), rules.Input{Doc: doc}, reversed)

	assert.ElementsMatch(t, a.Issues, b.Issues)
	assert.Equal(t, []string{"SYNTAX-HEADER-001", "SYNTAX-LIST-001", "SYNTAX-LINK-001"}, ruleIDs(a.Issues))
}

func TestValidate_FailingRuleBecomesQualityWarning(t *testing.T) {
	boom := func(context.Context, domain.ValidationRule, rules.Input) ([]rules.Finding, error) {
		panic("boom")
	}
	broken := func(context.Context, domain.ValidationRule, rules.Input) ([]rules.Finding, error) {
		return nil, errors.New("bad state")
	}
	e := rules.New(rules.WithCheck("boom", boom), rules.WithCheck("broken", broken))
	rs := []domain.ValidationRule{
		rule("CUSTOM-1", domain.CategorySyntax, domain.SeverityError, domain.RuleConfig{Check: "boom"}),
		rule("CUSTOM-2", domain.CategorySemantic, domain.SeverityError, domain.RuleConfig{Check: "broken"}),
		rule("SEMANTIC-FILE-001", domain.CategorySemantic, domain.SeverityWarning, domain.RuleConfig{Check: "orphaned_doc"}),
	}
	in := rules.Input{Discrepancies: []domain.Discrepancy{{Kind: domain.KindOrphanedDoc, File: "x.adoc", Message: "orphan"}}}

	res := e.Validate(context.Background(), in, rs)

	require.Len(t, res.Issues, 3)
	for _, is := range res.Issues[:2] {
		assert.Equal(t, domain.CategoryQuality, is.Category)
		assert.Equal(t, domain.SeverityWarning, is.Severity)
		assert.Contains(t, is.Message, "rule could not be evaluated")
	}
	assert.Equal(t, "CUSTOM-1", res.Issues[0].RuleID)
	assert.Equal(t, "SEMANTIC-FILE-001", res.Issues[2].RuleID)
}

func TestValidate_DocumentRulesSkipWithoutDocument(t *testing.T) {
	rs := []domain.ValidationRule{
		rule("SYNTAX-HEADER-001", domain.CategorySyntax, domain.SeverityWarning, domain.RuleConfig{Check: "header_levels"}),
		rule("QUALITY-DESCRIPTION-001", domain.CategoryQuality, domain.SeverityWarning, domain.RuleConfig{Check: "method_descriptions"}),
	}
	res := rules.New().Validate(context.Background(), rules.Input{}, rs)
	assert.Empty(t, res.Issues)
	assert.Empty(t, res.Warnings)
}

func TestValidate_ExternalLinks(t *testing.T) {
	doc := parse(t, "= T\n\nSee https://ok.example and https://dead.example and https://ok.example again.\n")
	rs := []domain.ValidationRule{
		rule("SYNTAX-LINK-002", domain.CategorySyntax, domain.SeverityWarning, domain.RuleConfig{Check: "external_links"}),
	}

	t.Run("disabled skips silently", func(t *testing.T) {
		res := rules.New().Validate(context.Background(), rules.Input{Doc: doc}, rs)
		assert.Empty(t, res.Issues)
		assert.Empty(t, res.Warnings)
	})

	t.Run("unreachable links are reported once", func(t *testing.T) {
		links := &fakeLinks{reachable: map[string]bool{"https://ok.example": true}}
		res := rules.New().Validate(context.Background(), rules.Input{Doc: doc, Links: links}, rs)
		require.Len(t, res.Issues, 1)
		assert.Contains(t, res.Issues[0].Message, "https://dead.example")
		assert.Equal(t, 2, links.calls)
	})

	t.Run("timeout becomes a warning", func(t *testing.T) {
		links := &fakeLinks{delay: time.Second}
		e := rules.New(rules.WithTimeout(20 * time.Millisecond))
		res := e.Validate(context.Background(), rules.Input{Doc: doc, Links: links}, rs)
		assert.Empty(t, res.Issues)
		require.Len(t, res.Warnings, 1)
		assert.Contains(t, res.Warnings[0], "SYNTAX-LINK-002")
	})
}

func TestHeaderLevels(t *testing.T) {
	doc := parse(t, "= Title\n\n== A\n\n==== Skipped\n\n== B\n\n=== Fine\n")
	rs := []domain.ValidationRule{
		rule("SYNTAX-HEADER-001", domain.CategorySyntax, domain.SeverityWarning, domain.RuleConfig{Check: "header_levels"}),
	}

	res := rules.New().Validate(context.Background(), rules.Input{Doc: doc, DocFile: "t.adoc"}, rs)

	require.Len(t, res.Issues, 1)
	assert.Equal(t, "Skipped", res.Issues[0].Location.Section)
	assert.Equal(t, 5, res.Issues[0].Location.Line)
	assert.Equal(t, "=== Skipped", res.Issues[0].CorrectedContent)
}

func TestHeaderLevels_AllowedLevels(t *testing.T) {
	doc := parse(t, "= Title\n\n== A\n\n=== B\n")
	rs := []domain.ValidationRule{
		rule("SYNTAX-HEADER-001", domain.CategorySyntax, domain.SeverityWarning, domain.RuleConfig{Check: "header_levels", Levels: []int{1, 2}}),
	}
	res := rules.New().Validate(context.Background(), rules.Input{Doc: doc}, rs)
	require.Len(t, res.Issues, 1)
	assert.Equal(t, "B", res.Issues[0].Location.Section)
}

func TestHeaderPattern(t *testing.T) {
	doc := parse(t, "= Class Calc\n\n== Методы\n\n=== Метод add\n\n=== sub\n")
	rs := []domain.ValidationRule{
		rule("SYNTAX-HEADER-002", domain.CategorySyntax, domain.SeverityWarning, domain.RuleConfig{
			Check: "header_pattern", Levels: []int{3}, Patterns: []string{`^Метод \w+$`},
		}),
	}
	res := rules.New().Validate(context.Background(), rules.Input{Doc: doc}, rs)
	require.Len(t, res.Issues, 1)
	assert.Equal(t, "sub", res.Issues[0].Location.Section)
}

func TestInternalLinks(t *testing.T) {
	doc := parse(t, "= Title\n\n[[intro]]\n== Intro\n\n<<intro>> <<_intro>> <<ghost>> <<other.adoc#x,Other>>\n")
	rs := []domain.ValidationRule{
		rule("SYNTAX-LINK-001", domain.CategorySyntax, domain.SeverityError, domain.RuleConfig{Check: "internal_links"}),
	}
	res := rules.New().Validate(context.Background(), rules.Input{Doc: doc}, rs)
	require.Len(t, res.Issues, 1)
	assert.Contains(t, res.Issues[0].Message, "ghost")
}

func TestSectionRules(t *testing.T) {
	doc := parse(t, "= Title\n\n== Overview\n\n== TODO\n")
	rs := []domain.ValidationRule{
		rule("COMPLETENESS-SECTION-001", domain.CategoryCompleteness, domain.SeverityError, domain.RuleConfig{
			Check: "required_sections", Sections: []string{"overview", "Examples"},
		}),
		rule("SEMANTIC-SECTION-001", domain.CategorySemantic, domain.SeverityWarning, domain.RuleConfig{
			Check: "forbidden_sections", Sections: []string{"todo"},
		}),
	}
	res := rules.New().Validate(context.Background(), rules.Input{Doc: doc}, rs)
	require.Len(t, res.Issues, 2)
	assert.Contains(t, res.Issues[0].Message, "Examples")
	assert.Equal(t, "TODO", res.Issues[1].Location.Section)
}

func TestMinExamples(t *testing.T) {
	rs := []domain.ValidationRule{
		rule("QUALITY-EXAMPLES-001", domain.CategoryQuality, domain.SeverityWarning, domain.RuleConfig{Check: "min_examples", MinCount: 2}),
	}
	one := parse(t, "= T\n\n[source,java]\n----\nnew T();\n----\n")
	two := parse(t, "= T\n\n[source,java]\n----\nnew T();\n----\n\n====\nExample\n====\n")

	assert.Len(t, rules.New().Validate(context.Background(), rules.Input{Doc: one}, rs).Issues, 1)
	assert.Empty(t, rules.New().Validate(context.Background(), rules.Input{Doc: two}, rs).Issues)
}
