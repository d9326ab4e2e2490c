package units_test

import (
	"math"
	"testing"

	"github.com/jhalonen/kiloburn/internal/units"
)

func TestKgLbsRoundTrip(t *testing.T) {
	weights := []float64{0.5, 30, 70, 82.5, 150, 300}
	for _, kg := range weights {
		roundTrip := units.LbsToKg(units.KgToLbs(kg))
		if math.Abs(roundTrip-kg) > 0.1 {
			t.Errorf("LbsToKg(KgToLbs(%v)) = %v, want within 0.1", kg, roundTrip)
		}
	}
	for _, lbs := range []float64{66, 154, 180.5, 661} {
		roundTrip := units.KgToLbs(units.LbsToKg(lbs))
		if math.Abs(roundTrip-lbs) > 0.1 {
			t.Errorf("KgToLbs(LbsToKg(%v)) = %v, want within 0.1", lbs, roundTrip)
		}
	}
}

func TestKgToLbs(t *testing.T) {
	got := units.KgToLbs(70)
	if math.Abs(got-154.3234) > 0.001 {
		t.Errorf("KgToLbs(70) = %v, want 154.3234", got)
	}
}

func TestCmToFeetInches(t *testing.T) {
	tests := []struct {
		cm         float64
		wantFeet   int
		wantInches int
	}{
		{175, 5, 9},
		{100, 3, 3},
		{250, 8, 2},
		{182.88, 6, 0}, // exactly 6 feet
		{213, 7, 0},    // inches round to 12, carry into feet
	}
	for _, tt := range tests {
		feet, inches := units.CmToFeetInches(tt.cm)
		if feet != tt.wantFeet || inches != tt.wantInches {
			t.Errorf("CmToFeetInches(%v) = %d ft %d in, want %d ft %d in",
				tt.cm, feet, inches, tt.wantFeet, tt.wantInches)
		}
	}
}

func TestFeetInchesToCm(t *testing.T) {
	got := units.FeetInchesToCm(5, 9)
	if math.Abs(got-175) > 0.5 {
		t.Errorf("FeetInchesToCm(5, 9) = %v, want 175 ±0.5", got)
	}
}

func TestFeetInchesCmRoundTrip(t *testing.T) {
	for cm := 100.0; cm <= 250; cm += 7 {
		feet, inches := units.CmToFeetInches(cm)
		back := units.FeetInchesToCm(feet, inches)
		// Rounding to whole inches loses at most half an inch.
		if math.Abs(back-cm) > 1.28 {
			t.Errorf("round trip of %v cm came back as %v", cm, back)
		}
	}
}
