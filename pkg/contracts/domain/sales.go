package domain

// SalesRow represents one cleaned row from a monthly sales report.
// Currency formatting has already been stripped and summary/TOTAL rows
// removed by the ingestion layer before rows reach this type.
type SalesRow struct {
	Licensee     string  `json:"licensee" validate:"required"`
	Address      string  `json:"address"`
	City         string  `json:"city"`
	Zip          string  `json:"zip"`
	Month        string  `json:"month" validate:"required"` // "YYYY-MM", lexicographically sortable
	TotalSales   float64 `json:"total_sales" validate:"gte=0"`
	MedicalSales float64 `json:"medical_sales" validate:"gte=0"`
	AdultSales   float64 `json:"adult_sales" validate:"gte=0"`
}

// MonthlyRecord is one entity's summed sales figures for one calendar
// month. TotalSales is not required to equal MedicalSales+AdultSales;
// source reports sometimes fold the split differently.
type MonthlyRecord struct {
	Month        string  `json:"month"`
	TotalSales   float64 `json:"total_sales"`
	MedicalSales float64 `json:"medical_sales"`
	AdultSales   float64 `json:"adult_sales"`
}
