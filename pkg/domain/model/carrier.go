package model

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// FreightValidateReviewRecommended is the FreightValidateStatus value that
// adds a MyCarrierProtect infraction to the assessment.
const FreightValidateReviewRecommended = "Review Recommended"

// CarrierRecord is a single carrier entry from the MyCarrierPackets
// PreviewCarrier endpoint. The payload is read-only; point fields are
// pointers because the API omits them for carriers without assessment data,
// and "missing" must render as N/A while classifying as zero.
type CarrierRecord struct {
	CompanyName           string          `json:"CompanyName"`
	DotNumber             FlexString      `json:"DotNumber"`
	DocketNumber          FlexString      `json:"DocketNumber"`
	RiskAssessmentDetails *RiskAssessment `json:"RiskAssessmentDetails"`
	IsBlocked             bool            `json:"IsBlocked"`
	FreightValidateStatus string          `json:"FreightValidateStatus"`
}

// RiskAssessment holds the carrier-wide point total and the per-category
// breakdowns. Category pointers are nil when the API returned no data for
// that category.
type RiskAssessment struct {
	TotalPoints *int          `json:"TotalPoints"`
	Authority   *RiskCategory `json:"Authority"`
	Insurance   *RiskCategory `json:"Insurance"`
	Operation   *RiskCategory `json:"Operation"`
	Safety      *RiskCategory `json:"Safety"`
	Other       *RiskCategory `json:"Other"`
}

// RiskCategory is one classification bucket with its infractions.
// Infraction order is display order.
type RiskCategory struct {
	TotalPoints *int         `json:"TotalPoints"`
	Infractions []Infraction `json:"Infractions"`
}

// Infraction is a single rule violation contributing points to a category
type Infraction struct {
	RuleText   string `json:"RuleText"`
	RuleOutput string `json:"RuleOutput"`
	Points     int    `json:"Points"`
}

// Points returns the assessment total, defaulting to zero when absent
func (r *RiskAssessment) Points() int {
	if r == nil || r.TotalPoints == nil {
		return 0
	}
	return *r.TotalPoints
}

// Category returns the named category breakdown, or nil when the assessment
// itself or the category is missing. Names follow the upstream payload.
func (r *RiskAssessment) Category(name string) *RiskCategory {
	if r == nil {
		return nil
	}
	switch name {
	case "Authority":
		return r.Authority
	case "Insurance":
		return r.Insurance
	case "Operation":
		return r.Operation
	case "Safety":
		return r.Safety
	case "Other":
		return r.Other
	default:
		return nil
	}
}

// Points returns the category total, defaulting to zero when absent
func (c *RiskCategory) Points() int {
	if c == nil || c.TotalPoints == nil {
		return 0
	}
	return *c.TotalPoints
}

// FlexString decodes a JSON value that the upstream API serves sometimes as
// a string and sometimes as a bare number (DOT and docket numbers).
type FlexString string

// UnmarshalJSON implements json.Unmarshaler
func (s *FlexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*s = ""
		return nil
	}

	if data[0] == '"' {
		var v string
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		*s = FlexString(v)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*s = FlexString(n.String())
	return nil
}

// String returns the decoded value
func (s FlexString) String() string {
	return string(s)
}

// OrNA returns the value, or "N/A" when empty
func (s FlexString) OrNA() string {
	if s == "" {
		return "N/A"
	}
	return string(s)
}

// PointsLabel renders an optional point total for display: the number when
// present, "N/A" when the upstream payload omitted it.
func PointsLabel(points *int) string {
	if points == nil {
		return "N/A"
	}
	return strconv.Itoa(*points)
}
