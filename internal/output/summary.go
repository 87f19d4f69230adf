package output

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"filefilter/internal/audit"
	"filefilter/internal/config"
	"filefilter/internal/orchestrator"
	"filefilter/internal/stats"
)

var (
	headingStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#C89A3A"))
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
)

func (o *Output) style(s lipgloss.Style, text string) string {
	if !o.config.IsTTY {
		return text
	}
	return s.Render(text)
}

// DisplayDir renders an output directory the way the completion message
// shows it: the current directory is "./".
func DisplayDir(dir string) string {
	if dir == "" || dir == "." {
		return config.DefaultOutputDir
	}
	return dir
}

// PrintWarnings reports inputs dropped during validation.
func (o *Output) PrintWarnings(warnings []config.InputWarning) {
	for _, w := range warnings {
		o.Warn("%s", w.String())
	}
}

// PrintSummary prints the completion message followed by the requested
// statistics blocks. Failed runs print nothing here; the caller reports
// the error.
func (o *Output) PrintSummary(summary *orchestrator.Summary, short, full bool) {
	if summary == nil || summary.HasErrors() {
		return
	}

	if summary.DryRun {
		o.Info("Dry run finished. No files were written to %s", DisplayDir(summary.OutputDir))
	} else {
		o.Info("Filtering finished.")
		o.Info("Files saved in %s", DisplayDir(summary.OutputDir))
	}

	if o.config.Verbose {
		o.printDetails(summary)
	}

	if short {
		o.Info("%s", o.style(headingStyle, "Short statistics:"))
		o.Info("%s", formatStatLines(summary.Stats.Lines(stats.Short)))
	}
	if full {
		o.Info("%s", o.style(headingStyle, "Full statistics:"))
		o.Info("%s", formatStatLines(summary.Stats.Lines(stats.Full)))
	}
}

func (o *Output) printDetails(summary *orchestrator.Summary) {
	for _, r := range summary.Results {
		switch r.Status {
		case orchestrator.ResultSkipped:
			o.Verbose("  %s %s", r.InputPath, o.style(errorStyle, "skipped: "+r.Err.Error()))
		default:
			o.Verbose("  %s: %d lines, %d dropped", r.InputPath, r.Lines, r.Dropped)
		}
	}

	verb := "wrote"
	if summary.DryRun {
		verb = "would write"
	}
	for _, t := range summary.Written() {
		o.Verbose("  %s %s", o.style(mutedStyle, verb), t.Path)
	}
	o.Verbose("  %s", o.style(mutedStyle, "took "+summary.Duration.Round(time.Millisecond).String()))
}

// formatStatLines aligns the values of statistics rows in one column.
// Detail rows are indented by two spaces.
func formatStatLines(lines []stats.Line) string {
	labels := make([]string, len(lines))
	width := 0
	for i, l := range lines {
		label := l.Label + ":"
		if l.Detail {
			label = "  " + label
		}
		labels[i] = label
		if w := runewidth.StringWidth(label); w > width {
			width = w
		}
	}

	rows := make([]string, len(lines))
	for i, l := range lines {
		rows[i] = runewidth.FillRight(labels[i], width) + " " + l.Value
	}
	return strings.Join(rows, "\n")
}

// PrintRuns prints the history table followed by a totals line.
func (o *Output) PrintRuns(runs []audit.RunInfo) {
	if len(runs) == 0 {
		o.Info("No runs recorded.")
		return
	}

	headers := []string{"RUN", "STARTED", "MODE", "STATUS", "INPUTS", "INTEGERS", "DECIMALS", "STRINGS", "DROPPED", "EXIT"}
	rows := make([][]string, 0, len(runs))
	for _, run := range runs {
		exit := "-"
		if run.EndTime != nil {
			exit = strconv.Itoa(run.Summary.ExitCode)
		}
		rows = append(rows, []string{
			shortRunID(run.RunID),
			run.StartTime.Local().Format("2006-01-02 15:04:05"),
			run.Mode,
			string(run.Status),
			strconv.Itoa(run.Summary.Inputs),
			strconv.Itoa(run.Summary.Integers),
			strconv.Itoa(run.Summary.Decimals),
			strconv.Itoa(run.Summary.Strings),
			strconv.Itoa(run.Summary.Dropped),
			exit,
		})
	}

	table := formatTable(headers, rows, map[int]bool{4: true, 5: true, 6: true, 7: true, 8: true, 9: true})
	o.Info("%s", o.style(headingStyle, table[0]))
	for _, row := range table[1:] {
		o.Info("%s", row)
	}

	totals := audit.SumRuns(runs)
	o.Info("%s", o.style(mutedStyle, fmt.Sprintf(
		"%d runs (%d completed, %d failed): %d integers, %d decimals, %d strings, %d dropped",
		totals.Runs, totals.Completed, totals.Failed,
		totals.Lines.Integers, totals.Lines.Decimals, totals.Lines.Strings, totals.Lines.Dropped)))
}

func shortRunID(id audit.RunID) string {
	s := string(id)
	if len(s) > 8 {
		return s[:8]
	}
	return s
}

func formatTable(headers []string, rows [][]string, rightAlignCols map[int]bool) []string {
	widths := make([]int, len(headers))
	for i, header := range headers {
		widths[i] = runewidth.StringWidth(header)
	}
	for _, row := range rows {
		for i := 0; i < len(widths) && i < len(row); i++ {
			if w := runewidth.StringWidth(row[i]); w > widths[i] {
				widths[i] = w
			}
		}
	}

	lines := make([]string, 0, len(rows)+1)
	lines = append(lines, formatRow(headers, widths, rightAlignCols))
	for _, row := range rows {
		lines = append(lines, formatRow(row, widths, rightAlignCols))
	}
	return lines
}

func formatRow(row []string, widths []int, rightAlignCols map[int]bool) string {
	var b strings.Builder
	for i, width := range widths {
		cell := ""
		if i < len(row) {
			cell = row[i]
		}
		if i > 0 {
			b.WriteString("  ")
		}
		if rightAlignCols[i] {
			b.WriteString(runewidth.FillLeft(cell, width))
		} else {
			b.WriteString(runewidth.FillRight(cell, width))
		}
	}
	return strings.TrimRight(b.String(), " ")
}
