package ingest

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"

	"salespulse/pkg/contracts/domain"
)

// Canonical report column names, lowercased. Header matching is
// case-insensitive and whitespace-tolerant because the state's export
// templates drift between months.
const (
	colLicensee = "licensee"
	colAddress  = "address"
	colCity     = "city"
	colZip      = "zip"
	colMedical  = "medical sales"
	colAdult    = "adult-use sales"
	colTotal    = "total sales"
)

// Parser turns report files into cleaned sales rows.
type Parser struct {
	logger      *slog.Logger
	defaultYear string
}

// NewParser creates a report parser. defaultYear fills in the year for
// filenames that name a month but no year.
func NewParser(logger *slog.Logger, defaultYear string) *Parser {
	if logger == nil {
		logger = slog.Default()
	}
	return &Parser{logger: logger, defaultYear: defaultYear}
}

// ParseFile reads one monthly report file, resolving the month token
// from the filename and dispatching on the file extension.
func (p *Parser) ParseFile(path string) ([]domain.SalesRow, error) {
	name := filepath.Base(path)
	month, ok := MonthFromFilename(name, p.defaultYear)
	if !ok {
		return nil, fmt.Errorf("could not extract month from filename %q", name)
	}

	var (
		rows []domain.SalesRow
		err  error
	)
	if strings.HasSuffix(strings.ToLower(name), ".csv") {
		rows, err = p.parseCSV(path, month)
	} else {
		rows, err = p.parseExcel(path, month)
	}
	if err != nil {
		return nil, err
	}

	p.logger.Info("parsed report file",
		slog.String("file", name),
		slog.String("month", month),
		slog.Int("rows", len(rows)))
	return rows, nil
}

// columnIndexes maps the canonical column names to their positions in
// a header row. Returns false when the row does not look like the
// report header (no licensee column).
func columnIndexes(header []string) (map[string]int, bool) {
	indexes := make(map[string]int)
	for i, cell := range header {
		key := strings.ToLower(strings.TrimSpace(cell))
		switch key {
		case colLicensee, colAddress, colCity, colZip, colMedical, colAdult, colTotal:
			if _, seen := indexes[key]; !seen {
				indexes[key] = i
			}
		}
	}
	_, ok := indexes[colLicensee]
	return indexes, ok
}

// buildRow assembles one SalesRow from a data row, reporting false for
// rows the pipeline excludes: blank licensees and TOTAL summary lines.
func buildRow(record []string, indexes map[string]int, month string) (domain.SalesRow, bool) {
	licensee := strings.TrimSpace(cellAt(record, indexes, colLicensee))
	if licensee == "" || strings.Contains(strings.ToUpper(licensee), "TOTAL") {
		return domain.SalesRow{}, false
	}

	return domain.SalesRow{
		Licensee:     licensee,
		Address:      strings.TrimSpace(cellAt(record, indexes, colAddress)),
		City:         strings.TrimSpace(cellAt(record, indexes, colCity)),
		Zip:          strings.TrimSpace(cellAt(record, indexes, colZip)),
		Month:        month,
		TotalSales:   parseMoney(cellAt(record, indexes, colTotal)),
		MedicalSales: parseMoney(cellAt(record, indexes, colMedical)),
		AdultSales:   parseMoney(cellAt(record, indexes, colAdult)),
	}, true
}

func cellAt(record []string, indexes map[string]int, column string) string {
	idx, ok := indexes[column]
	if !ok || idx >= len(record) {
		return ""
	}
	return record[idx]
}

// parseMoney strips currency formatting ("$1,234.56" -> 1234.56).
// Blank and unparseable cells coerce to 0; the reports use empty cells
// for categories a licensee does not sell in.
func parseMoney(cell string) float64 {
	cleaned := strings.NewReplacer("$", "", ",", "", " ", "").Replace(strings.TrimSpace(cell))
	if cleaned == "" {
		return 0
	}
	value, err := strconv.ParseFloat(cleaned, 64)
	if err != nil || value != value { // reject NaN
		return 0
	}
	return value
}
