package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"salespulse/pkg/contracts/domain"
)

// parseCSV reads a monthly report exported as CSV. The header is
// expected on the first row; currency columns arrive formatted
// ("$1,234.56") and are cleaned by buildRow.
func (p *Parser) parseCSV(path, month string) ([]domain.SalesRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open csv: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1 // report exports have ragged trailing columns

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read csv header: %w", err)
	}
	indexes, ok := columnIndexes(header)
	if !ok {
		return nil, fmt.Errorf("no licensee column in %s", path)
	}

	var rows []domain.SalesRow
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read csv record: %w", err)
		}
		if row, ok := buildRow(record, indexes, month); ok {
			rows = append(rows, row)
		}
	}
	return rows, nil
}
