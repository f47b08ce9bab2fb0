package reporting

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// DefaultConsoleReporter renders run information as tables
type DefaultConsoleReporter struct {
	out io.Writer
}

// NewDefaultConsoleReporter creates a console reporter writing to stdout
func NewDefaultConsoleReporter() *DefaultConsoleReporter {
	return NewConsoleReporterTo(os.Stdout)
}

// NewConsoleReporterTo creates a console reporter writing to out
func NewConsoleReporterTo(out io.Writer) *DefaultConsoleReporter {
	return &DefaultConsoleReporter{out: out}
}

func (r *DefaultConsoleReporter) newTable(title string) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(r.out)
	t.SetTitle(title)
	t.SetStyle(table.StyleRounded)
	return t
}

// PrintConfig prints key/value rows, typically the run configuration
func (r *DefaultConsoleReporter) PrintConfig(title string, rows [][2]string) {
	t := r.newTable(title)
	for _, row := range rows {
		t.AppendRow(table.Row{row[0], row[1]})
	}
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, WidthMin: 18, WidthMax: 18, Align: text.AlignLeft},
		{Number: 2, WidthMin: 20, WidthMax: 40, Align: text.AlignLeft},
	})
	t.Render()
}

// PrintSummary prints the outcome of a run
func (r *DefaultConsoleReporter) PrintSummary(summary RunSummary) {
	outcome := "⚠️ generation limit reached"
	if summary.Converged {
		outcome = "✅ converged"
	}

	t := r.newTable("🧬 EVOLUTION RESULTS")
	t.AppendRows([]table.Row{
		{"Experiment", summary.Experiment},
		{"Strategy", fmt.Sprintf("%s (%s)", summary.Strategy, summary.Ordering)},
		{"Outcome", outcome},
		{"Generations", fmt.Sprintf("%d / %d", summary.Generations, summary.MaxGenerations)},
	})
	t.AppendSeparator()
	t.AppendRows([]table.Row{
		{"Best Fitness", formatScore(summary.Final.Best)},
		{"Mean Fitness", formatScore(summary.Final.Mean)},
		{"Worst Fitness", formatScore(summary.Final.Worst)},
		{"Std Dev", formatScore(summary.Final.StdDev)},
		{"Best Genome", summary.BestGenome},
	})
	t.AppendSeparator()
	t.AppendRow(table.Row{"Duration", summary.Duration.Round(time.Millisecond).String()})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, WidthMin: 15, WidthMax: 15, Align: text.AlignLeft},
		{Number: 2, WidthMin: 25, WidthMax: 60, Align: text.AlignLeft},
	})
	t.Render()
}

// PrintTopEntities prints the first limit entities; limit <= 0 prints all
func (r *DefaultConsoleReporter) PrintTopEntities(entities []EntityRecord, limit int) {
	if limit <= 0 || limit > len(entities) {
		limit = len(entities)
	}

	t := r.newTable(fmt.Sprintf("🏆 TOP %d", limit))
	t.AppendHeader(table.Row{"#", "Score", "Genome"})
	for _, e := range entities[:limit] {
		t.AppendRow(table.Row{e.Rank, formatScore(e.Score), e.Genome})
	}
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignRight},
		{Number: 2, Align: text.AlignRight},
		{Number: 3, Align: text.AlignLeft},
	})
	t.Render()
}

func formatScore(v float64) string {
	return fmt.Sprintf("%.4f", v)
}
