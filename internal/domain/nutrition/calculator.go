// Package nutrition holds the closed-form arithmetic behind the dashboard:
// the Mifflin-St Jeor calorie recommendation, BMI and the daily budget.
package nutrition

import (
	"errors"
	"math"
	"strings"
)

// ErrIncompleteProfile is returned when a profile lacks a value the
// calculator needs or carries a non-finite number.
var ErrIncompleteProfile = errors.New("biometric profile is incomplete")

// Sex and activity values understood by the calculator. Matching is
// case-insensitive.
const (
	SexFemale = "femenino"

	ActivityLow      = "baja"
	ActivityModerate = "moderada"
	ActivityHigh     = "alta"
)

var activityFactors = map[string]float64{
	ActivityLow:      1.2,
	ActivityModerate: 1.55,
	ActivityHigh:     1.725,
}

const defaultActivityFactor = 1.2

// Profile is the calculator input. Numeric fields are pointers so a value
// the backend never sent is distinguishable from zero.
type Profile struct {
	Sex           string
	WeightKg      *float64
	HeightCm      *float64
	Age           *float64
	ActivityLevel string
}

// ActivityFactor returns the multiplier for level; unknown levels get the
// sedentary factor.
func ActivityFactor(level string) float64 {
	if f, ok := activityFactors[normalize(level)]; ok {
		return f
	}
	return defaultActivityFactor
}

// BasalMetabolicRate computes the Mifflin-St Jeor BMR
func BasalMetabolicRate(p Profile) (float64, error) {
	if err := p.check(); err != nil {
		return 0, err
	}

	weight, height, age := *p.WeightKg, *p.HeightCm, *p.Age
	bmr := 10*weight + 6.25*height - 5*age
	if normalize(p.Sex) == SexFemale {
		return bmr - 161, nil
	}
	return bmr + 5, nil
}

// RecommendedCalories returns the daily kcal recommendation for p
func RecommendedCalories(p Profile) (float64, error) {
	bmr, err := BasalMetabolicRate(p)
	if err != nil {
		return 0, err
	}
	return bmr * ActivityFactor(p.ActivityLevel), nil
}

func (p Profile) check() error {
	if normalize(p.Sex) == "" || normalize(p.ActivityLevel) == "" {
		return ErrIncompleteProfile
	}
	for _, v := range []*float64{p.WeightKg, p.HeightCm, p.Age} {
		if v == nil || math.IsNaN(*v) || math.IsInf(*v, 0) {
			return ErrIncompleteProfile
		}
	}
	return nil
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
