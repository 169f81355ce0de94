// Package normalize maps raw licensee strings and cities onto the
// entities the dashboard groups by: normalized company names and New
// Mexico sales regions.
package normalize

import (
	"regexp"
	"strings"
)

// companyPatterns strip location/role suffixes from licensee names so
// that variations of the same company group together, e.g.
// "OCC ABQ LLC - COORS BLVD RETAIL" -> "OCC ABQ LLC". Order matters:
// the generic dash split runs first, matching the report's most common
// naming convention.
var companyPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^(.+?)\s*-\s*.+$`),
	regexp.MustCompile(`(?i)^(.+?LLC)\s*-\s*.+$`),
	regexp.MustCompile(`(?i)^(.+?INC)\s*-\s*.+$`),
	regexp.MustCompile(`(?i)^(.+?)\s+DISPENSARY\s+.+$`),
	regexp.MustCompile(`(?i)^(.+?)\s+RETAIL\s*.+$`),
	regexp.MustCompile(`(?i)^(.+?)\s+MANUFACTURER\s*$`),
}

// CompanyName reduces a licensee name to its base company name.
// Names that match no pattern, or whose extracted base is too short to
// be a plausible company name, pass through unchanged.
func CompanyName(licensee string) string {
	name := strings.TrimSpace(licensee)
	if name == "" {
		return licensee
	}

	for _, pattern := range companyPatterns {
		match := pattern.FindStringSubmatch(name)
		if match == nil {
			continue
		}
		base := strings.TrimSpace(match[1])
		if len(base) > 2 {
			return base
		}
	}
	return name
}
