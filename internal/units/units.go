// Package units provides conversions between metric and imperial body
// measurements. All functions are pure and deterministic.
package units

import "math"

// Conversion constants.
const (
	lbsPerKg      = 2.20462
	cmPerFoot     = 30.48
	cmPerInch     = 2.54
	inchesPerFoot = 12
)

// KgToLbs converts kilograms to pounds.
func KgToLbs(kg float64) float64 {
	return kg * lbsPerKg
}

// LbsToKg converts pounds to kilograms.
func LbsToKg(lbs float64) float64 {
	return lbs / lbsPerKg
}

// CmToFeetInches converts centimeters to whole feet and rounded inches.
// When the inch component rounds up to a full foot, the carry is applied.
func CmToFeetInches(cm float64) (feet, inches int) {
	feet = int(math.Floor(cm / cmPerFoot))
	inches = int(math.Round((cm/cmPerFoot - float64(feet)) * inchesPerFoot))
	if inches == inchesPerFoot {
		feet++
		inches = 0
	}
	return feet, inches
}

// FeetInchesToCm converts a feet and inches measurement to centimeters.
func FeetInchesToCm(feet, inches int) float64 {
	return float64(feet)*cmPerFoot + float64(inches)*cmPerInch
}
