package domain

// Direction is the classified movement of an entity's sales series.
type Direction string

const (
	DirectionInsufficientData Direction = "insufficient_data"
	DirectionStable           Direction = "stable"
	DirectionUp               Direction = "up"
	DirectionDown             Direction = "down"
	DirectionStrongUp         Direction = "strong_up"
	DirectionStrongDown       Direction = "strong_down"
)

// IsTrending reports whether the direction describes actual movement
// rather than a flat or undetermined series.
func (d Direction) IsTrending() bool {
	switch d {
	case DirectionUp, DirectionDown, DirectionStrongUp, DirectionStrongDown:
		return true
	default:
		return false
	}
}

// Confidence grades how much the classifier trusts its own call,
// based on series length and volatility.
type Confidence string

const (
	ConfidenceLow    Confidence = "low"
	ConfidenceMedium Confidence = "medium"
	ConfidenceHigh   Confidence = "high"
)

// TrendResult is the classifier's verdict for one entity series.
// It is a pure value computed fresh on every call.
type TrendResult struct {
	Direction     Direction  `json:"trend_direction"`
	GrowthRatePct float64    `json:"growth_rate"`
	Confidence    Confidence `json:"trend_confidence"`
}
