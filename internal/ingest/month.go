package ingest

import (
	"regexp"
	"strings"
)

// monthNumbers maps english month names, as they appear in report
// filenames, to their zero-padded numbers. Kept as an ordered slice so
// a filename that happens to contain two month names resolves
// deterministically to the earlier one.
var monthNumbers = []struct {
	name   string
	number string
}{
	{"january", "01"}, {"february", "02"}, {"march", "03"}, {"april", "04"},
	{"may", "05"}, {"june", "06"}, {"july", "07"}, {"august", "08"},
	{"september", "09"}, {"october", "10"}, {"november", "11"}, {"december", "12"},
}

var yearPattern = regexp.MustCompile(`20\d{2}`)

// MonthFromFilename extracts a sortable "YYYY-MM" month token from a
// report filename such as "Sales March 2025.xlsx". The year falls back
// to defaultYear when the filename carries none. Returns false when no
// month name is present.
func MonthFromFilename(filename, defaultYear string) (string, bool) {
	lower := strings.ToLower(filename)

	for _, month := range monthNumbers {
		if !strings.Contains(lower, month.name) {
			continue
		}
		year := defaultYear
		if match := yearPattern.FindString(lower); match != "" {
			year = match
		}
		return year + "-" + month.number, true
	}
	return "", false
}
