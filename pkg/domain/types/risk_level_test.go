package types_test

import (
	"testing"

	"github.com/freightops/carrierwatch/pkg/domain/types"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name   string
		points int
		want   types.RiskLevel
	}{
		{name: "zero is low", points: 0, want: types.RiskLevelLow},
		{name: "upper bound of low", points: 124, want: types.RiskLevelLow},
		{name: "lower bound of medium", points: 125, want: types.RiskLevelMedium},
		{name: "upper bound of medium", points: 249, want: types.RiskLevelMedium},
		{name: "lower bound of review required", points: 250, want: types.RiskLevelReviewRequired},
		{name: "upper bound of review required", points: 999, want: types.RiskLevelReviewRequired},
		{name: "lower bound of fail", points: 1000, want: types.RiskLevelFail},
		{name: "far beyond fail", points: 100000, want: types.RiskLevelFail},
		{name: "negative clamps to low", points: -1, want: types.RiskLevelLow},
		{name: "large negative clamps to low", points: -5000, want: types.RiskLevelLow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := types.Classify(tt.points); got != tt.want {
				t.Errorf("Classify(%d) = %v, want %v", tt.points, got, tt.want)
			}
		})
	}
}

func TestClassify_Partition(t *testing.T) {
	// Every non-negative total maps to exactly one defined level; the ranges
	// have no gaps or overlaps.
	for p := 0; p <= 2000; p++ {
		level := types.Classify(p)
		if !level.IsValid() {
			t.Fatalf("Classify(%d) returned undefined level %q", p, level)
		}
	}
}

func TestRiskLevel_Glyph(t *testing.T) {
	tests := []struct {
		level types.RiskLevel
		want  string
	}{
		{level: types.RiskLevelLow, want: "🟢"},
		{level: types.RiskLevelMedium, want: "🟡"},
		{level: types.RiskLevelReviewRequired, want: "🟠"},
		{level: types.RiskLevelFail, want: "🔴"},
	}

	for _, tt := range tests {
		t.Run(tt.level.String(), func(t *testing.T) {
			if got := tt.level.Glyph(); got != tt.want {
				t.Errorf("Glyph() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAllRiskLevels(t *testing.T) {
	levels := types.AllRiskLevels()
	if len(levels) != 4 {
		t.Fatalf("expected 4 risk levels, got %d", len(levels))
	}
	for _, level := range levels {
		if !level.IsValid() {
			t.Errorf("AllRiskLevels returned invalid level %q", level)
		}
	}
}
