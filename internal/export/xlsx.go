package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"loanlens/internal/domain"
)

// SheetName is the worksheet holding the portfolio.
const SheetName = "Portfolio"

// WriteXLSX renders applications as a single-sheet workbook.
func WriteXLSX(out io.Writer, apps []domain.LoanApplication) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return fmt.Errorf("export.WriteXLSX: %w", err)
	}

	header := make([]any, len(columns))
	for i, c := range columns {
		header[i] = c
	}
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return fmt.Errorf("export.WriteXLSX: header: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("export.WriteXLSX: style: %w", err)
	}
	lastCol, _ := excelize.ColumnNumberToName(len(columns))
	if err := f.SetCellStyle(SheetName, "A1", lastCol+"1", bold); err != nil {
		return fmt.Errorf("export.WriteXLSX: style: %w", err)
	}

	for i := range apps {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		row := applicationValues(&apps[i])
		for j, v := range row {
			if v == nil {
				row[j] = ""
			}
		}
		if err := f.SetSheetRow(SheetName, cell, &row); err != nil {
			return fmt.Errorf("export.WriteXLSX: row %d: %w", i+1, err)
		}
	}

	if err := f.SetPanes(SheetName, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return fmt.Errorf("export.WriteXLSX: panes: %w", err)
	}

	if err := f.Write(out); err != nil {
		return fmt.Errorf("export.WriteXLSX: %w", err)
	}
	return nil
}
