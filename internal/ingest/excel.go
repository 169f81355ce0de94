package ingest

import (
	"fmt"
	"log/slog"

	"github.com/xuri/excelize/v2"

	"salespulse/pkg/contracts/domain"
)

// parseExcel reads a monthly report workbook. The data sheet is found
// by scanning each sheet's first rows for the licensee header, since
// the state renames sheets between report vintages.
func (p *Parser) parseExcel(path, month string) ([]domain.SalesRow, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	for _, sheetName := range f.GetSheetList() {
		sheetRows, err := f.GetRows(sheetName)
		if err != nil {
			continue
		}

		rows, found := p.extractRows(sheetRows, month)
		if found {
			p.logger.Debug("found sales data sheet",
				slog.String("sheet", sheetName),
				slog.Int("total_rows", len(sheetRows)))
			return rows, nil
		}
	}
	return nil, fmt.Errorf("no sheet with a licensee column in %s", path)
}

// extractRows scans sheet rows for the header, then parses everything
// below it. found is false when no header row exists in the sheet.
func (p *Parser) extractRows(sheetRows [][]string, month string) (rows []domain.SalesRow, found bool) {
	headerRow := -1
	var indexes map[string]int

	for i, row := range sheetRows {
		if idx, ok := columnIndexes(row); ok {
			headerRow = i
			indexes = idx
			break
		}
	}
	if headerRow < 0 {
		return nil, false
	}

	for _, record := range sheetRows[headerRow+1:] {
		if row, ok := buildRow(record, indexes, month); ok {
			rows = append(rows, row)
		}
	}
	return rows, true
}
