package dataset

import (
	"time"

	"salespulse/pkg/contracts/domain"
)

// LocationTrend is one dispensary location's dashboard record: the
// classified trend plus the aggregated monthly series and map metadata.
type LocationTrend struct {
	Licensee        string                 `json:"licensee"` // display name, city-qualified for multi-location licensees
	City            string                 `json:"city"`
	Region          string                 `json:"region"`
	Address         string                 `json:"address"`
	Zip             string                 `json:"zip"`
	Latitude        *float64               `json:"latitude"`
	Longitude       *float64               `json:"longitude"`
	TrendDirection  domain.Direction       `json:"trend_direction"`
	TrendConfidence domain.Confidence      `json:"trend_confidence"`
	AvgMonthlySales float64                `json:"avg_monthly_sales"`
	TotalMonths     int                    `json:"total_months"`
	LatestSales     float64                `json:"latest_sales"`
	FirstSales      float64                `json:"first_sales"`
	GrowthRate      float64                `json:"growth_rate"`
	MonthlyData     []domain.MonthlyRecord `json:"monthly_data"`
}

// CompanyTrend is the same classification run over a normalized
// company, with sales summed across all of its locations.
type CompanyTrend struct {
	Licensee              string                 `json:"licensee"`
	CompanyName           string                 `json:"company_name"`
	OriginalLicenseeNames []string               `json:"original_licensee_names"`
	LocationCount         int                    `json:"location_count"`
	Cities                []string               `json:"cities"`
	PrimaryCity           string                 `json:"primary_city"`
	Region                string                 `json:"region"`
	Addresses             []string               `json:"addresses"`
	TrendDirection        domain.Direction       `json:"trend_direction"`
	TrendConfidence       domain.Confidence      `json:"trend_confidence"`
	AvgMonthlySales       float64                `json:"avg_monthly_sales"`
	TotalMonths           int                    `json:"total_months"`
	LatestSales           float64                `json:"latest_sales"`
	FirstSales            float64                `json:"first_sales"`
	GrowthRate            float64                `json:"growth_rate"`
	MonthlyData           []domain.MonthlyRecord `json:"monthly_data"`
}

// RegionalStats rolls one region's entities up for the dashboard map
// legend. Only exact up/down/stable calls are counted; strong_ trends
// and insufficient_data stay out of the three buckets.
type RegionalStats struct {
	TotalEntities     int     `json:"total_entities"`
	TrendingUp        int     `json:"trending_up"`
	TrendingDown      int     `json:"trending_down"`
	Stable            int     `json:"stable"`
	TotalMonthlySales float64 `json:"total_monthly_sales"`
}

// LocationsSection groups the per-location results.
type LocationsSection struct {
	TotalDispensaries int                      `json:"total_dispensaries"`
	RegionalStats     map[string]RegionalStats `json:"regional_stats"`
	Data              []LocationTrend          `json:"data"`
}

// CompaniesSection groups the per-company results.
type CompaniesSection struct {
	TotalCompanies int                      `json:"total_companies"`
	RegionalStats  map[string]RegionalStats `json:"regional_stats"`
	Data           []CompanyTrend           `json:"data"`
}

// Dataset is the consolidated document the dashboard consumes.
type Dataset struct {
	GeneratedAt   time.Time        `json:"generated_at"`
	MonthsCovered []string         `json:"months_covered"`
	Regions       []string         `json:"regions"`
	Locations     LocationsSection `json:"locations"`
	Companies     CompaniesSection `json:"companies"`
}
