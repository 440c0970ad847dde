package types

// RiskLevel represents the severity bucket of a carrier risk point total
type RiskLevel string

const (
	RiskLevelLow            RiskLevel = "Low"
	RiskLevelMedium         RiskLevel = "Medium"
	RiskLevelReviewRequired RiskLevel = "Review Required"
	RiskLevelFail           RiskLevel = "Fail"
)

// Point thresholds of the MyCarrierPortal risk model. Ranges are inclusive
// and partition the non-negative integers without gaps or overlaps.
const (
	mediumThreshold = 125
	reviewThreshold = 250
	failThreshold   = 1000
)

// Classify maps a risk point total to its severity level. Negative totals do
// not occur in upstream payloads; they are clamped to zero rather than
// falling through to Fail.
func Classify(points int) RiskLevel {
	switch {
	case points < mediumThreshold:
		return RiskLevelLow
	case points < reviewThreshold:
		return RiskLevelMedium
	case points < failThreshold:
		return RiskLevelReviewRequired
	default:
		return RiskLevelFail
	}
}

// AllRiskLevels returns all risk levels in ascending severity order
func AllRiskLevels() []RiskLevel {
	return []RiskLevel{
		RiskLevelLow,
		RiskLevelMedium,
		RiskLevelReviewRequired,
		RiskLevelFail,
	}
}

// Glyph returns the status emoji displayed next to the risk level
func (l RiskLevel) Glyph() string {
	switch l {
	case RiskLevelLow:
		return "🟢"
	case RiskLevelMedium:
		return "🟡"
	case RiskLevelReviewRequired:
		return "🟠"
	default:
		return "🔴"
	}
}

// IsValid checks if the risk level is one of the defined buckets
func (l RiskLevel) IsValid() bool {
	switch l {
	case RiskLevelLow, RiskLevelMedium, RiskLevelReviewRequired, RiskLevelFail:
		return true
	default:
		return false
	}
}

// String returns the string representation of the risk level
func (l RiskLevel) String() string {
	return string(l)
}
