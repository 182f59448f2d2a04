package tui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/openkraft/docsync/internal/domain"
)

// ── warm palette ──
var (
	accent  = lipgloss.Color("#D97706") // amber
	fg      = lipgloss.Color("#E8E6E3") // warm light gray
	dim     = lipgloss.Color("#6B7280") // muted gray
	faint   = lipgloss.Color("#3F3F46") // very dim
	success = lipgloss.Color("#22C55E") // green
	danger  = lipgloss.Color("#EF4444") // red
	warning = lipgloss.Color("#F59E0B") // amber-yellow
	info    = lipgloss.Color("#8B949E") // soft blue-gray
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(accent).
			Align(lipgloss.Center)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accent).
			Padding(1, 4).
			Align(lipgloss.Center).
			Width(68)

	dimStyle           = lipgloss.NewStyle().Foreground(dim)
	faintStyle         = lipgloss.NewStyle().Foreground(faint)
	passStyle          = lipgloss.NewStyle().Foreground(success)
	failStyle          = lipgloss.NewStyle().Foreground(danger)
	errorTagStyle      = lipgloss.NewStyle().Foreground(danger).Bold(true)
	warnTagStyle       = lipgloss.NewStyle().Foreground(warning).Bold(true)
	ruleStyle          = lipgloss.NewStyle().Foreground(info)
	fileStyle          = lipgloss.NewStyle().Foreground(dim)
	titleStyle         = lipgloss.NewStyle().Bold(true).Foreground(fg)
	catNameStyle       = lipgloss.NewStyle().Bold(true).Foreground(fg)
	sectionHeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(accent)
	hintStyle          = lipgloss.NewStyle().Foreground(dim).Italic(true)
	separatorLine      = faintStyle.Render(strings.Repeat("─", 64))
)

// RenderReport formats a validation report for terminal output.
func RenderReport(r *domain.ValidationReport) string {
	var b strings.Builder
	sum := r.Summary()

	// ── Header ──
	title := headerStyle.Render("docsync")
	source := dimStyle.Render(r.Source)
	status := lipgloss.NewStyle().Bold(true).Foreground(statusColor(sum.Status)).Render(string(sum.Status))
	counts := dimStyle.Render(fmt.Sprintf("%d issues · %d errors · %d warnings", sum.TotalIssues, sum.Errors, sum.Warnings))
	b.WriteString(boxStyle.Render(title + "\n" + source + "\n\n" + status + "\n" + counts))
	b.WriteString("\n\n")

	// ── Categories ──
	for _, c := range domain.ValidCategories {
		renderCategory(&b, c, sum.ByCategory[c], sum.TotalIssues)
	}
	b.WriteString("\n  " + separatorLine + "\n\n")

	// ── Issues ──
	switch {
	case sum.TotalIssues == 0:
		b.WriteString("  " + passStyle.Render("No issues found.") + "\n")
	case len(r.Files) > 0:
		for _, f := range r.Files {
			if len(f.Issues) == 0 {
				continue
			}
			fmt.Fprintf(&b, "  %s %s\n", titleStyle.Render(f.FilePath), dimStyle.Render(fmt.Sprintf("(%d)", len(f.Issues))))
			renderIssues(&b, f.Issues)
			b.WriteString("\n")
		}
	default:
		renderIssues(&b, r.Issues)
	}

	renderMappings(&b, r.Mappings)
	renderWarnings(&b, r.Warnings)

	if r.CommitHash != "" {
		b.WriteString("\n  " + hintStyle.Render("commit "+shortHash(r.CommitHash)) + "\n")
	}
	return b.String()
}

func renderCategory(b *strings.Builder, c domain.Category, n, total int) {
	name := catNameStyle.Render(padRight(string(c), 14))
	pct := 0
	if total > 0 {
		pct = n * 100 / total
	}
	count := dimStyle.Render(fmt.Sprintf("%d", n))
	fmt.Fprintf(b, "  %s %s  %s\n", name, bar(pct, 20), count)
}

func renderIssues(b *strings.Builder, issues []domain.ValidationIssue) {
	sorted := append([]domain.ValidationIssue(nil), issues...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return severityRank(sorted[i].Severity) < severityRank(sorted[j].Severity)
	})

	for _, is := range sorted {
		fmt.Fprintf(b, "    %s %s", severityTag(is.Severity), ruleStyle.Render(is.RuleID))
		if loc := is.Location.String(); loc != "" {
			b.WriteString("  " + fileStyle.Render(loc))
		}
		b.WriteString("\n")
		fmt.Fprintf(b, "          %s\n", is.Message)
		if is.CorrectedContent != "" {
			fmt.Fprintf(b, "          %s %s\n", faintStyle.Render("→"), passStyle.Render(is.CorrectedContent))
		}
	}
}

func renderMappings(b *strings.Builder, mappings []domain.FileMapping) {
	if len(mappings) == 0 {
		return
	}
	b.WriteString("\n")
	fmt.Fprintf(b, "  %s %s\n", sectionHeaderStyle.Render("Mappings"), dimStyle.Render(fmt.Sprintf("(%d)", len(mappings))))
	for _, m := range mappings {
		if !m.Matched() {
			fmt.Fprintf(b, "    %s %s  %s\n", failStyle.Render("○"), m.CodeFile, faintStyle.Render("no documentation"))
			continue
		}
		strategy := string(m.Strategy)
		if strategy == "" {
			strategy = "explicit"
		}
		fmt.Fprintf(b, "    %s %s → %s  %s\n", passStyle.Render("●"), m.CodeFile, m.DocFile, faintStyle.Render(strategy))
	}
}

func renderWarnings(b *strings.Builder, warnings []string) {
	if len(warnings) == 0 {
		return
	}
	b.WriteString("\n")
	fmt.Fprintf(b, "  %s %s\n", sectionHeaderStyle.Render("Warnings"), dimStyle.Render(fmt.Sprintf("(%d)", len(warnings))))
	for _, w := range warnings {
		fmt.Fprintf(b, "    %s %s\n", warnTagStyle.Render("!"), dimStyle.Render(w))
	}
}

// RenderRules lists the active rule set.
func RenderRules(rules []domain.ValidationRule) string {
	var b strings.Builder
	b.WriteString("\n  " + titleStyle.Render("Rules") + "  " + dimStyle.Render(fmt.Sprintf("(%d)", len(rules))) + "\n")
	b.WriteString("  " + faintStyle.Render(strings.Repeat("─", 50)) + "\n\n")
	for _, rl := range rules {
		fmt.Fprintf(&b, "  %s %s  %s  %s\n",
			severityTag(rl.EffectiveSeverity()),
			ruleStyle.Render(padRight(rl.ID, 26)),
			dimStyle.Render(padRight(rl.Config.Check, 20)),
			rl.Name,
		)
	}
	return b.String()
}

// RenderHistory formats saved report digests, oldest first, with the change
// in error count against the previous run.
func RenderHistory(entries []domain.HistoryEntry) string {
	if len(entries) == 0 {
		return "  " + dimStyle.Render("No validation history found.") + "\n"
	}

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString("  " + titleStyle.Render("Validation History") + "\n")
	b.WriteString("  " + faintStyle.Render(strings.Repeat("─", 50)) + "\n\n")

	for i, e := range entries {
		hash := shortHash(e.CommitHash)
		if hash == "" {
			hash = "·······"
		}
		status := lipgloss.NewStyle().Foreground(statusColor(e.Status)).Render(padRight(string(e.Status), 7))
		line := fmt.Sprintf("  %s  %s  %s  %s",
			dimStyle.Render(e.Timestamp.UTC().Format("2006-01-02 15:04")),
			faintStyle.Render(hash),
			status,
			fmt.Sprintf("%d errors, %d warnings", e.Errors, e.Warnings),
		)

		if i > 0 {
			diff := e.Errors - entries[i-1].Errors
			if diff < 0 {
				line += "  " + passStyle.Render(fmt.Sprintf("↓%d", -diff))
			} else if diff > 0 {
				line += "  " + failStyle.Render(fmt.Sprintf("↑%d", diff))
			}
		}
		b.WriteString(line + "\n")
	}
	return b.String()
}

func severityTag(s domain.Severity) string {
	if s == domain.SeverityError {
		return errorTagStyle.Render("error")
	}
	return warnTagStyle.Render("warn ")
}

func severityRank(s domain.Severity) int {
	if s == domain.SeverityError {
		return 0
	}
	return 1
}

func statusColor(s domain.Status) lipgloss.Color {
	if s == domain.StatusValid {
		return success
	}
	return danger
}

func bar(pct, width int) string {
	filled := max(0, min(pct*width/100, width))
	filledStr := lipgloss.NewStyle().Foreground(accent).Render(strings.Repeat("█", filled))
	emptyStr := lipgloss.NewStyle().Foreground(faint).Render(strings.Repeat("░", width-filled))
	return filledStr + emptyStr
}

func shortHash(h string) string {
	if len(h) > 7 {
		return h[:7]
	}
	return h
}

func padRight(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}
