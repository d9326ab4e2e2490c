// Package profile defines the user profile stored on the device and the
// validation rules protecting the calorie engine from unsound input.
package profile

import (
	"time"

	"github.com/jhalonen/kiloburn/internal/units"
)

// Sex is the biological sex used for the calorie adjustment factor.
type Sex string

// Accepted sex values.
const (
	SexMale   Sex = "male"
	SexFemale Sex = "female"
	SexOther  Sex = "other"
)

// ActivityLevel describes habitual activity. It is informational for now and
// reserved for a future TDEE-style refinement of the estimate.
type ActivityLevel string

// Accepted activity levels.
const (
	ActivitySedentary        ActivityLevel = "sedentary"
	ActivityLight            ActivityLevel = "light"
	ActivityModeratelyActive ActivityLevel = "moderately_active"
	ActivityActive           ActivityLevel = "active"
	ActivityVeryActive       ActivityLevel = "very_active"
)

// WeightUnit selects the unit the user entered their weight in.
type WeightUnit string

// Supported weight units.
const (
	WeightKg  WeightUnit = "kg"
	WeightLbs WeightUnit = "lbs"
)

// HeightUnit selects the unit the user entered their height in.
type HeightUnit string

// Supported height units.
const (
	HeightCm   HeightUnit = "cm"
	HeightFtIn HeightUnit = "ft_in"
)

// Profile is the singleton user profile. It is persisted in the user's chosen
// units; calculation always normalizes to metric via WeightKg and HeightCm.
type Profile struct {
	Age           int           `json:"age"`
	Sex           Sex           `json:"sex"`
	Weight        float64       `json:"weight"`
	WeightUnit    WeightUnit    `json:"weightUnit"`
	Height        float64       `json:"height"` // cm, or whole feet in ft_in mode
	HeightInches  int           `json:"heightInches,omitempty"`
	HeightUnit    HeightUnit    `json:"heightUnit"`
	ActivityLevel ActivityLevel `json:"activityLevel"`
	CreatedAt     time.Time     `json:"createdAt"`
	UpdatedAt     time.Time     `json:"updatedAt"`
}

// WeightKg returns the weight normalized to kilograms.
func (p Profile) WeightKg() float64 {
	if p.WeightUnit == WeightLbs {
		return units.LbsToKg(p.Weight)
	}
	return p.Weight
}

// HeightCm returns the height normalized to centimeters.
func (p Profile) HeightCm() float64 {
	if p.HeightUnit == HeightFtIn {
		return units.FeetInchesToCm(int(p.Height), p.HeightInches)
	}
	return p.Height
}

// Default synthesizes the fallback profile used whenever the stored profile is
// absent or incomplete. It is created fresh on every call and never persisted.
func Default() Profile {
	now := time.Now()
	return Profile{
		Age:           30,
		Sex:           SexMale,
		Weight:        70,
		WeightUnit:    WeightKg,
		Height:        175,
		HeightInches:  0,
		HeightUnit:    HeightCm,
		ActivityLevel: ActivityModeratelyActive,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// Completeness scores how many of the required profile fields carry meaningful
// values, as a percentage over age, sex, weight and height.
func Completeness(p Profile) int {
	const requiredFields = 4
	populated := 0
	if p.Age > 0 {
		populated++
	}
	if p.Sex == SexMale || p.Sex == SexFemale || p.Sex == SexOther {
		populated++
	}
	if p.Weight > 0 {
		populated++
	}
	if p.Height > 0 {
		populated++
	}
	return populated * 100 / requiredFields
}
