// Package export renders expense slices as downloadable xlsx workbooks.
package export

import (
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"

	"expensetracker/models"
)

const (
	ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

	SheetName = "Expenses"
)

// Filename builds the suggested attachment name: expenses_<year>[_<month>].xlsx.
// month 0 means no month filter.
func Filename(year, month int) string {
	if month != 0 {
		return fmt.Sprintf("expenses_%d_%d.xlsx", year, month)
	}
	return fmt.Sprintf("expenses_%d.xlsx", year)
}

// WriteExcel writes a workbook with a header row followed by one row per
// expense, in the order given.
func WriteExcel(w io.Writer, expenses []models.Expense) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return err
	}

	header := []interface{}{"ID", "Amount", "Category", "Description", "Created At"}
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return err
	}

	for i, e := range expenses {
		description := ""
		if e.Description != nil {
			description = *e.Description
		}
		row := []interface{}{e.ID, e.Amount, e.Category, description, e.CreatedAt.Format(time.RFC3339)}

		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(SheetName, cell, &row); err != nil {
			return err
		}
	}

	return f.Write(w)
}
