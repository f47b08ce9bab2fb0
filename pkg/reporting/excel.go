package reporting

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"
)

const (
	summarySheet    = "Summary"
	historySheet    = "History"
	populationSheet = "Population"
)

// DefaultExcelReporter implements Excel output functionality
type DefaultExcelReporter struct{}

// NewDefaultExcelReporter creates a new Excel reporter
func NewDefaultExcelReporter() *DefaultExcelReporter {
	return &DefaultExcelReporter{}
}

// WriteRunXLSX writes a workbook with the run summary, the per-generation
// history and the final population.
func (r *DefaultExcelReporter) WriteRunXLSX(summary RunSummary, history []GenerationRecord, population []EntityRecord, path string) error {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	fx := excelize.NewFile()
	defer fx.Close()

	fx.SetSheetName(fx.GetSheetName(0), summarySheet)
	if _, err := fx.NewSheet(historySheet); err != nil {
		return err
	}
	if _, err := fx.NewSheet(populationSheet); err != nil {
		return err
	}

	styles, err := r.createExcelStyles(fx)
	if err != nil {
		return err
	}

	if err := r.writeSummarySheet(fx, summary, styles); err != nil {
		return err
	}
	if err := r.writeHistorySheet(fx, history, styles); err != nil {
		return err
	}
	if err := r.writePopulationSheet(fx, population, styles); err != nil {
		return err
	}

	return fx.SaveAs(path)
}

func (r *DefaultExcelReporter) createExcelStyles(fx *excelize.File) (ExcelStyles, error) {
	var styles ExcelStyles
	var err error

	border := []excelize.Border{
		{Type: "left", Color: "E0E0E0", Style: 1},
		{Type: "right", Color: "E0E0E0", Style: 1},
		{Type: "bottom", Color: "E0E0E0", Style: 1},
	}

	// Header style - Dark slate background with white text
	styles.HeaderStyle, err = fx.NewStyle(&excelize.Style{
		Font: &excelize.Font{
			Bold:   true,
			Size:   11,
			Color:  "FFFFFF",
			Family: "Calibri",
		},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"2F4F4F"},
			Pattern: 1,
		},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
		Border: []excelize.Border{
			{Type: "left", Color: "000000", Style: 1},
			{Type: "right", Color: "000000", Style: 1},
			{Type: "top", Color: "000000", Style: 1},
			{Type: "bottom", Color: "000000", Style: 1},
		},
	})
	if err != nil {
		return styles, err
	}

	styles.BaseStyle, err = fx.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{Horizontal: "left"},
		Border:    border,
	})
	if err != nil {
		return styles, err
	}

	// 4 decimal places
	numFmt := "0.0000"
	styles.NumberStyle, err = fx.NewStyle(&excelize.Style{
		CustomNumFmt: &numFmt,
		Alignment:    &excelize.Alignment{Horizontal: "right"},
		Border:       border,
	})
	if err != nil {
		return styles, err
	}

	styles.BestStyle, err = fx.NewStyle(&excelize.Style{
		Font:         &excelize.Font{Bold: true, Color: "006100"},
		Fill:         excelize.Fill{Type: "pattern", Color: []string{"C6EFCE"}, Pattern: 1},
		CustomNumFmt: &numFmt,
		Alignment:    &excelize.Alignment{Horizontal: "right"},
		Border:       border,
	})
	if err != nil {
		return styles, err
	}

	styles.SummaryStyle, err = fx.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"F2F2F2"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "left"},
		Border:    border,
	})
	if err != nil {
		return styles, err
	}

	return styles, nil
}

func (r *DefaultExcelReporter) writeHeader(fx *excelize.File, sheet string, headers []string, styles ExcelStyles) error {
	for i, h := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		fx.SetCellValue(sheet, cell, h)
		fx.SetCellStyle(sheet, cell, cell, styles.HeaderStyle)
	}
	return fx.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
}

func (r *DefaultExcelReporter) writeSummarySheet(fx *excelize.File, summary RunSummary, styles ExcelStyles) error {
	fx.SetColWidth(summarySheet, "A", "A", 20)
	fx.SetColWidth(summarySheet, "B", "B", 40)

	if err := r.writeHeader(fx, summarySheet, []string{"Field", "Value"}, styles); err != nil {
		return err
	}

	rows := [][]interface{}{
		{"Experiment", summary.Experiment},
		{"Strategy", summary.Strategy},
		{"Ordering", summary.Ordering},
		{"Population Size", summary.PopulationSize},
		{"Max Generations", summary.MaxGenerations},
		{"Mutation Rate", summary.MutationRate},
		{"Seed", summary.Seed},
		{"Generations", summary.Generations},
		{"Converged", summary.Converged},
		{"Best Fitness", summary.Final.Best},
		{"Mean Fitness", summary.Final.Mean},
		{"Worst Fitness", summary.Final.Worst},
		{"Std Dev", summary.Final.StdDev},
		{"Best Genome", summary.BestGenome},
		{"Duration", summary.Duration.String()},
	}
	for i, values := range rows {
		row := i + 2
		labelCell, _ := excelize.CoordinatesToCellName(1, row)
		valueCell, _ := excelize.CoordinatesToCellName(2, row)
		fx.SetCellValue(summarySheet, labelCell, values[0])
		fx.SetCellValue(summarySheet, valueCell, values[1])
		fx.SetCellStyle(summarySheet, labelCell, labelCell, styles.SummaryStyle)
		fx.SetCellStyle(summarySheet, valueCell, valueCell, styles.BaseStyle)
	}
	return nil
}

func (r *DefaultExcelReporter) writeHistorySheet(fx *excelize.File, history []GenerationRecord, styles ExcelStyles) error {
	fx.SetColWidth(historySheet, "A", "A", 12)
	fx.SetColWidth(historySheet, "B", "E", 14)
	fx.SetColWidth(historySheet, "F", "F", 12)

	headers := []string{"Generation", "Best", "Worst", "Mean", "Std Dev", "Mutations"}
	if err := r.writeHeader(fx, historySheet, headers, styles); err != nil {
		return err
	}

	for i, rec := range history {
		row := i + 2
		values := []interface{}{rec.Generation, rec.Best, rec.Worst, rec.Mean, rec.StdDev, rec.Mutations}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			fx.SetCellValue(historySheet, cell, v)
			style := styles.NumberStyle
			if col == 0 || col == 5 {
				style = styles.BaseStyle
			}
			fx.SetCellStyle(historySheet, cell, cell, style)
		}
	}
	return nil
}

func (r *DefaultExcelReporter) writePopulationSheet(fx *excelize.File, population []EntityRecord, styles ExcelStyles) error {
	fx.SetColWidth(populationSheet, "A", "A", 8)
	fx.SetColWidth(populationSheet, "B", "B", 14)
	fx.SetColWidth(populationSheet, "C", "C", 50)

	if err := r.writeHeader(fx, populationSheet, []string{"Rank", "Score", "Genome"}, styles); err != nil {
		return err
	}

	for i, e := range population {
		row := i + 2
		rankCell, _ := excelize.CoordinatesToCellName(1, row)
		scoreCell, _ := excelize.CoordinatesToCellName(2, row)
		genomeCell, _ := excelize.CoordinatesToCellName(3, row)

		fx.SetCellValue(populationSheet, rankCell, e.Rank)
		fx.SetCellValue(populationSheet, scoreCell, e.Score)
		fx.SetCellValue(populationSheet, genomeCell, e.Genome)

		scoreStyle := styles.NumberStyle
		if i == 0 {
			scoreStyle = styles.BestStyle
		}
		fx.SetCellStyle(populationSheet, rankCell, rankCell, styles.BaseStyle)
		fx.SetCellStyle(populationSheet, scoreCell, scoreCell, scoreStyle)
		fx.SetCellStyle(populationSheet, genomeCell, genomeCell, styles.BaseStyle)
	}
	return nil
}

// Package-level convenience function
func WriteRunXLSX(summary RunSummary, history []GenerationRecord, population []EntityRecord, path string) error {
	return NewDefaultExcelReporter().WriteRunXLSX(summary, history, population, path)
}
