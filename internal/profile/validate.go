package profile

import (
	"fmt"
	"math"

	"github.com/jhalonen/kiloburn/internal/units"
)

// Validation bounds. Values outside these ranges are rejected rather than
// clamped so the engine never computes on implausible numbers.
const (
	MinAge = 13
	MaxAge = 120

	MinWeightKg = 30.0
	MaxWeightKg = 300.0

	MinHeightCm = 100.0
	MaxHeightCm = 250.0
)

// Validation is the outcome of a validation check. It is returned as data,
// never as an error: the caller decides how to surface the messages.
type Validation struct {
	IsValid bool     `json:"isValid"`
	Errors  []string `json:"errors"`
}

func failed(messages ...string) Validation {
	return Validation{IsValid: false, Errors: messages}
}

func passed() Validation {
	return Validation{IsValid: true, Errors: nil}
}

// merge combines validations; the result is valid only when all inputs are.
func merge(validations ...Validation) Validation {
	combined := passed()
	for _, v := range validations {
		if !v.IsValid {
			combined.IsValid = false
			combined.Errors = append(combined.Errors, v.Errors...)
		}
	}
	return combined
}

// ValidateAge checks that the age is within the supported range.
func ValidateAge(age int) Validation {
	var messages []string
	if age < MinAge {
		messages = append(messages, fmt.Sprintf("Age must be at least %d years", MinAge))
	}
	if age > MaxAge {
		messages = append(messages, fmt.Sprintf("Age must be at most %d years", MaxAge))
	}
	if len(messages) > 0 {
		return failed(messages...)
	}
	return passed()
}

// ValidateWeight checks that the weight is a positive finite number within the
// supported range for the given unit.
func ValidateWeight(weight float64, unit WeightUnit) Validation {
	if math.IsNaN(weight) || math.IsInf(weight, 0) || weight <= 0 {
		return failed("Weight must be a positive number")
	}

	minWeight, maxWeight := MinWeightKg, MaxWeightKg
	if unit == WeightLbs {
		minWeight = math.Round(units.KgToLbs(MinWeightKg))
		maxWeight = math.Round(units.KgToLbs(MaxWeightKg))
	}

	var messages []string
	if weight < minWeight {
		messages = append(messages, fmt.Sprintf("Weight must be at least %.0f %s", minWeight, unit))
	}
	if weight > maxWeight {
		messages = append(messages, fmt.Sprintf("Weight must be at most %.0f %s", maxWeight, unit))
	}
	if len(messages) > 0 {
		return failed(messages...)
	}
	return passed()
}

// ValidateHeight checks a height measurement. In metric mode value is
// centimeters and inches is ignored. In ft_in mode value is whole feet, inches
// must be within [0, 11], and the converted height must still fall inside the
// metric bounds; bound violations are phrased in feet and inches.
func ValidateHeight(value float64, unit HeightUnit, inches int) Validation {
	if math.IsNaN(value) || math.IsInf(value, 0) || value <= 0 {
		return failed("Height must be a positive number")
	}

	if unit == HeightCm {
		var messages []string
		if value < MinHeightCm {
			messages = append(messages, fmt.Sprintf("Height must be at least %.0f cm", MinHeightCm))
		}
		if value > MaxHeightCm {
			messages = append(messages, fmt.Sprintf("Height must be at most %.0f cm", MaxHeightCm))
		}
		if len(messages) > 0 {
			return failed(messages...)
		}
		return passed()
	}

	var messages []string
	if inches < 0 || inches > 11 {
		messages = append(messages, "Inches must be between 0 and 11")
	}
	heightCm := units.FeetInchesToCm(int(value), inches)
	if heightCm < MinHeightCm {
		feet, inch := units.CmToFeetInches(MinHeightCm)
		messages = append(messages, fmt.Sprintf("Height must be at least %d feet %d inches", feet, inch))
	}
	if heightCm > MaxHeightCm {
		feet, inch := units.CmToFeetInches(MaxHeightCm)
		messages = append(messages, fmt.Sprintf("Height must be at most %d feet %d inches", feet, inch))
	}
	if len(messages) > 0 {
		return failed(messages...)
	}
	return passed()
}

// ValidateSex checks membership in the accepted sex values.
func ValidateSex(sex Sex) Validation {
	switch sex {
	case SexMale, SexFemale, SexOther:
		return passed()
	}
	return failed("Sex must be one of male, female or other")
}

// Validate aggregates all field validators over a complete profile.
func Validate(p Profile) Validation {
	return merge(
		ValidateAge(p.Age),
		ValidateSex(p.Sex),
		ValidateWeight(p.Weight, p.WeightUnit),
		ValidateHeight(p.Height, p.HeightUnit, p.HeightInches),
	)
}
