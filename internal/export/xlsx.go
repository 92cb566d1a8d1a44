// Package export writes the dashboard tables as a spreadsheet.
package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"ecommerce-dashboard/internal/models"
)

const (
	MonthlySheet    = "Monthly"
	CategoriesSheet = "Categories"
)

// WriteXLSX writes the monthly and category summaries to w as a workbook
// with one sheet per table.
func WriteXLSX(w io.Writer, monthly []models.MonthlySummary, categories []models.CategorySummary) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", MonthlySheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	if _, err := f.NewSheet(CategoriesSheet); err != nil {
		return fmt.Errorf("create sheet: %w", err)
	}

	monthlyRows := [][]any{{"month", "order_count", "revenue"}}
	for _, m := range monthly {
		monthlyRows = append(monthlyRows, []any{m.Month, m.OrderCount, m.Revenue.InexactFloat64()})
	}
	if err := writeRows(f, MonthlySheet, monthlyRows); err != nil {
		return err
	}

	categoryRows := [][]any{{"category", "count"}}
	for _, c := range categories {
		categoryRows = append(categoryRows, []any{c.Category, c.Count})
	}
	if err := writeRows(f, CategoriesSheet, categoryRows); err != nil {
		return err
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func writeRows(f *excelize.File, sheet string, rows [][]any) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("write %s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}
