// SPDX-FileCopyrightText: 2026 Vantage Security Labs
// SPDX-License-Identifier: Apache-2.0

package output

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"unicode/utf8"

	aqtable "github.com/aquasecurity/table"
	"github.com/aquasecurity/tml"
	"github.com/fatih/color"
	"golang.org/x/term"

	"github.com/vantage-sec/genai-risk/internal/types"
)

// TableConfig controls table rendering.
type TableConfig struct {
	ShowComponents bool // include the per-category breakdown table
	IsTerminal     bool // true when output goes to a terminal (enables ANSI styling)
}

// IsOutputToTerminal returns true if the writer is stdout connected to a
// character device (TTY).
func IsOutputToTerminal(output io.Writer) bool {
	return output == os.Stdout && term.IsTerminal(int(os.Stdout.Fd()))
}

// WriteTable renders an assessment as a terminal report: headline
// metrics, the per-category breakdown, and the ranked mitigation plan.
func WriteTable(w io.Writer, a *types.RiskAssessment, cfg TableConfig) error {
	writeHeader(w, "GenAI Security Risk Assessment", cfg.IsTerminal)

	level := string(a.Level)
	if cfg.IsTerminal {
		level = colorizeLevel(level)
	}
	fmt.Fprintf(w, "Score: %.1f/100   Level: %s   Confidence: %.1f%%\n", a.Score, level, a.Confidence)
	fmt.Fprintf(w, "Threat multiplier: %.2fx   Trend: %s   Active vulnerabilities: %d\n",
		a.ThreatMultiplier, a.Trending, a.ActiveVulnerabilities)
	fmt.Fprintln(w)

	if cfg.ShowComponents && len(a.ComponentRisks) > 0 {
		writeComponentTable(w, a, cfg)
		fmt.Fprintln(w)
	}

	writeMitigationTable(w, a.MitigationPriority, cfg)

	fmt.Fprintln(w)
	fmt.Fprintln(w, a.ExecutiveSummary.Headline)
	fmt.Fprintln(w, a.ExecutiveSummary.Summary)
	fmt.Fprintln(w, a.ExecutiveSummary.Recommendation)
	return nil
}

// writeHeader writes a section title, underlined in plain mode and
// styled in terminal mode.
func writeHeader(w io.Writer, title string, isTerminal bool) {
	if isTerminal {
		_ = tml.Fprintf(w, "<underline><bold>%s</bold></underline>\n", title)
	} else {
		fmt.Fprintln(w, title)
		fmt.Fprintln(w, strings.Repeat("=", utf8.RuneCountInString(title)))
	}
}

// newTableWriter creates a table writer with the standard configuration:
// borders, row separators, and styled headers on terminals.
func newTableWriter(w io.Writer, isTerminal bool) *aqtable.Table {
	tw := aqtable.New(w)
	if isTerminal {
		tw.SetHeaderStyle(aqtable.StyleBold)
		tw.SetLineStyle(aqtable.StyleDim)
	}
	tw.SetBorders(true)
	tw.SetRowLines(true)
	return tw
}

// writeComponentTable renders the per-category risk breakdown, highest
// adjusted risk first.
func writeComponentTable(w io.Writer, a *types.RiskAssessment, cfg TableConfig) {
	components := make([]types.ComponentRisk, 0, len(a.ComponentRisks))
	for _, c := range a.ComponentRisks {
		components = append(components, c)
	}
	sort.Slice(components, func(i, j int) bool {
		if components[i].AdjustedRisk != components[j].AdjustedRisk {
			return components[i].AdjustedRisk > components[j].AdjustedRisk
		}
		return components[i].Category < components[j].Category
	})

	critical := make(map[string]bool, len(a.CriticalFindings))
	for _, c := range a.CriticalFindings {
		critical[c.Category] = true
	}

	tw := newTableWriter(w, cfg.IsTerminal)
	tw.SetHeaders("Category", "Severity", "Base", "Modifier", "Adjusted", "Context Factors")
	for _, c := range components {
		category := c.Category
		if critical[category] {
			category += " (!)"
			if cfg.IsTerminal {
				category = color.New(color.FgRed).Sprint(category)
			}
		}
		tw.AddRow(
			category,
			fmt.Sprintf("%.0f", c.Severity),
			fmt.Sprintf("%.1f", c.BaseRisk),
			fmt.Sprintf("%.2fx", c.Modifier),
			fmt.Sprintf("%.1f", c.AdjustedRisk),
			strings.Join(c.ModifierFactors, ", "),
		)
	}
	tw.Render()
}

// writeMitigationTable renders the ranked mitigation plan.
func writeMitigationTable(w io.Writer, mitigations []types.Mitigation, cfg TableConfig) {
	writeHeader(w, fmt.Sprintf("Mitigation Priority (Top %d)", len(mitigations)), cfg.IsTerminal)
	if len(mitigations) == 0 {
		fmt.Fprintln(w, "No active vulnerabilities; nothing to mitigate.")
		return
	}
	tw := newTableWriter(w, cfg.IsTerminal)
	tw.SetHeaders("#", "Vulnerability", "Priority", "Strategy", "Effort", "Time")
	for i, m := range mitigations {
		tw.AddRow(
			fmt.Sprintf("%d", i+1),
			m.Vulnerability,
			fmt.Sprintf("%.3f", m.PriorityScore),
			m.Strategy,
			m.Effort,
			m.TimeEstimate,
		)
	}
	tw.Render()
}

// levelColors maps risk levels to color functions.
var levelColors = map[string]func(a ...any) string{
	"MINIMAL":  color.New(color.FgCyan).SprintFunc(),
	"LOW":      color.New(color.FgBlue).SprintFunc(),
	"MEDIUM":   color.New(color.FgYellow).SprintFunc(),
	"HIGH":     color.New(color.FgHiRed).SprintFunc(),
	"CRITICAL": color.New(color.FgRed).SprintFunc(),
}

// colorizeLevel returns the level string wrapped in ANSI color codes.
func colorizeLevel(level string) string {
	if fn, ok := levelColors[strings.ToUpper(level)]; ok {
		return fn(level)
	}
	return level
}
