package viz

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/san-kum/drivetrain/internal/storage"
)

const reasonCol = 1

// ResultsTable lays out one row per primitive run.
func ResultsTable(records []storage.ResultRecord) string {
	rows := make([][]string, len(records))
	for i, r := range records {
		settled := "-"
		if r.Converged {
			settled = fmt.Sprintf("%.0f", r.SettledAtMs)
		}
		rows[i] = []string{
			r.Primitive,
			r.Reason,
			fmt.Sprintf("%.0f", r.ElapsedMs),
			fmt.Sprintf("%d", r.Ticks),
			fmt.Sprintf("%.3f", r.FinalError),
			settled,
		}
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(Subtle).
		Headers("primitive", "reason", "ms", "ticks", "final error", "settled ms").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return HeaderStyle
			}
			if col == reasonCol && row >= 0 && row < len(rows) {
				return reasonStyle(rows[row][reasonCol]).Padding(0, 1)
			}
			return CellStyle
		})
	return t.String()
}

func reasonStyle(reason string) lipgloss.Style {
	switch reason {
	case "settled", "tolerance", "overshoot", "path_complete":
		return ReasonGood
	case "timeout":
		return ReasonWarn
	}
	return ReasonBad
}

// MetricsPanel renders metric values sorted by name inside a Panel.
func MetricsPanel(title string, values map[string]float64) string {
	names := make([]string, 0, len(values))
	width := 0
	for name := range values {
		names = append(names, name)
		width = max(width, len(name))
	}
	sort.Strings(names)

	lines := []string{Title.Render(title)}
	for _, name := range names {
		label := MetricLabel.Render(fmt.Sprintf("%-*s", width, name))
		lines = append(lines, label+"  "+MetricValue.Render(fmt.Sprintf("%.4f", values[name])))
	}
	return Panel.Render(strings.Join(lines, "\n"))
}

// Summary is the end-of-run report: results, metrics and the error trace.
func Summary(meta storage.RunMetadata, errTrace []float64) string {
	var b strings.Builder
	b.WriteString(Title.Render(fmt.Sprintf("%s  %.0f ms simulated", meta.Routine, meta.SimTimeMs)))
	b.WriteString("\n")
	b.WriteString(ResultsTable(meta.Results))
	b.WriteString("\n")
	if len(meta.Metrics) > 0 {
		b.WriteString(MetricsPanel("metrics", meta.Metrics))
		b.WriteString("\n")
	}
	if len(errTrace) > 0 {
		b.WriteString(MetricLabel.Render("error ") + Sparkline(errTrace, 60) + "\n")
	}
	if meta.Error != "" {
		b.WriteString(ReasonBad.Render("error: "+meta.Error) + "\n")
	}
	return b.String()
}
