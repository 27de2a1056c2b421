package chart

import (
	"fmt"
	"io"
	"strings"

	"github.com/NimbleMarkets/ntcharts/sparkline"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/fyrsmithlabs/moodlens/internal/mood"
	"github.com/fyrsmithlabs/moodlens/internal/patterns"
)

const (
	sparklineHeight   = 4
	maxSparklineWidth = 60
)

var (
	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("51")).
			Bold(true).
			Padding(0, 1)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("45"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245"))

	sparklineStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("51"))

	highStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("46")).Bold(true)
	midStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("226")).Bold(true)
	lowStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
)

// Preview writes a terminal summary: a sparkline of daily scores, the date
// span, a table of patterns and the chart path.
func Preview(w io.Writer, entries []mood.Entry, found []patterns.Pattern, plot string) error {
	var b strings.Builder

	b.WriteString(headerStyle.Render(" moodlens ") + "\n\n")

	if len(entries) == 0 {
		b.WriteString(dimStyle.Render("no entries") + "\n")
		_, err := io.WriteString(w, b.String())
		return err
	}

	fmt.Fprintf(&b, "%s %s %s %s  %s\n",
		labelStyle.Render("Entries:"), fmt.Sprint(len(entries)),
		labelStyle.Render("from"), entries[0].Date.String()+" to "+entries[len(entries)-1].Date.String(),
		dimStyle.Render(fmt.Sprintf("mean %.2f", mean(Scores(entries)))),
	)
	b.WriteString(scoreSparkline(Scores(entries)) + "\n\n")

	if len(found) == 0 {
		b.WriteString(dimStyle.Render("No patterns detected.") + "\n")
	} else {
		b.WriteString(patternTable(found) + "\n")
	}

	if plot != "" {
		b.WriteString(labelStyle.Render("Chart: ") + plot + "\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// scoreSparkline draws one column per entry, keeping the most recent entries
// when the log is wider than the sparkline.
func scoreSparkline(scores []float64) string {
	if len(scores) > maxSparklineWidth {
		scores = scores[len(scores)-maxSparklineWidth:]
	}
	spark := sparkline.New(len(scores), sparklineHeight)
	for _, v := range scores {
		spark.Push(v)
	}
	spark.Draw()
	return sparklineStyle.Render(spark.View())
}

func patternTable(found []patterns.Pattern) string {
	rows := make([][]string, len(found))
	for i, p := range found {
		first := ""
		if len(p.MicroActions) > 0 {
			first = p.MicroActions[0]
		}
		rows[i] = []string{p.Description, fmt.Sprintf("%.2f", p.Confidence), fmt.Sprint(len(p.Evidence)), first}
	}

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(dimStyle).
		Headers("Pattern", "Confidence", "Evidence", "Try").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			base := lipgloss.NewStyle().Padding(0, 1)
			if row == table.HeaderRow {
				return base.Inherit(labelStyle).Bold(true)
			}
			if col == 1 && row >= 0 && row < len(found) {
				return base.Inherit(confidenceStyle(found[row].Confidence))
			}
			return base
		}).
		Render()
}

func confidenceStyle(c float64) lipgloss.Style {
	switch {
	case c >= 0.7:
		return highStyle
	case c >= 0.5:
		return midStyle
	default:
		return lowStyle
	}
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}
