// Package user contains the account-holder side of the domain: the user as
// the backend describes it, the biometric profile feeding the calorie
// calculator, and the payloads for registration and profile updates.
package user

import (
	"errors"
	"strings"
	"time"

	"github.com/nutriplan/client/internal/domain/nutrition"
)

var (
	ErrEmailMissing   = errors.New("no email stored for the current session")
	ErrEmailMalformed = errors.New("stored email is malformed")
	ErrUserNotFound   = errors.New("user not found")
)

// User is the account as the backend resolves it
type User struct {
	ID               int64
	Name             string
	RegistrationDate time.Time
	Profile          BiometricProfile
}

// BiometricProfile holds the inputs for the calorie recommendation.
// Numeric fields are nil when the backend did not send a usable number.
type BiometricProfile struct {
	WeightKg      *float64
	HeightCm      *float64
	Age           *float64
	Sex           string
	ActivityLevel string
}

// CalculatorProfile converts the profile into calculator input
func (p BiometricProfile) CalculatorProfile() nutrition.Profile {
	return nutrition.Profile{
		Sex:           p.Sex,
		WeightKg:      p.WeightKg,
		HeightCm:      p.HeightCm,
		Age:           p.Age,
		ActivityLevel: p.ActivityLevel,
	}
}

// CleanEmail strips one pair of surrounding double quotes. Stored values
// are JSON-serialized strings so the session email usually arrives quoted.
func CleanEmail(stored string) string {
	s := strings.TrimSpace(stored)
	if len(s) >= 2 && strings.HasPrefix(s, `"`) && strings.HasSuffix(s, `"`) {
		return s[1 : len(s)-1]
	}
	return s
}

// CheckEmail cleans a stored email and verifies it is usable for lookup
func CheckEmail(stored string) (string, error) {
	email := CleanEmail(stored)
	if email == "" {
		return "", ErrEmailMissing
	}
	if !strings.Contains(email, "@") {
		return "", ErrEmailMalformed
	}
	return email, nil
}
