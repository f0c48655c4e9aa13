package nutrition

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func f(v float64) *float64 { return &v }

func TestRecommendedCalories(t *testing.T) {
	tests := []struct {
		name    string
		profile Profile
		want    float64
	}{
		{
			name:    "FemaleModerate",
			profile: Profile{Sex: "Femenino", WeightKg: f(60), HeightCm: f(165), Age: f(30), ActivityLevel: "Moderada"},
			want:    2046.3875,
		},
		{
			name:    "MaleHigh",
			profile: Profile{Sex: "Masculino", WeightKg: f(80), HeightCm: f(180), Age: f(25), ActivityLevel: "Alta"},
			want:    3113.625,
		},
		{
			name:    "UnknownActivityUsesLowFactor",
			profile: Profile{Sex: "otro", WeightKg: f(80), HeightCm: f(180), Age: f(25), ActivityLevel: "extrema"},
			want:    1805 * 1.2,
		},
		{
			name:    "CaseAndSpaceInsensitive",
			profile: Profile{Sex: " FEMENINO ", WeightKg: f(60), HeightCm: f(165), Age: f(30), ActivityLevel: "BAJA"},
			want:    1320.25 * 1.2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := RecommendedCalories(tt.profile)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-9)

			again, err := RecommendedCalories(tt.profile)
			require.NoError(t, err)
			assert.Equal(t, got, again, "calculation is deterministic")
		})
	}
}

func TestRecommendedCalories_IncompleteProfile(t *testing.T) {
	complete := Profile{Sex: "Femenino", WeightKg: f(60), HeightCm: f(165), Age: f(30), ActivityLevel: "Baja"}

	tests := map[string]func(p *Profile){
		"MissingSex":      func(p *Profile) { p.Sex = "" },
		"MissingActivity": func(p *Profile) { p.ActivityLevel = "  " },
		"MissingWeight":   func(p *Profile) { p.WeightKg = nil },
		"MissingHeight":   func(p *Profile) { p.HeightCm = nil },
		"MissingAge":      func(p *Profile) { p.Age = nil },
		"NaNWeight":       func(p *Profile) { p.WeightKg = f(math.NaN()) },
		"InfiniteHeight":  func(p *Profile) { p.HeightCm = f(math.Inf(1)) },
	}

	for name, mutate := range tests {
		t.Run(name, func(t *testing.T) {
			p := complete
			mutate(&p)

			got, err := RecommendedCalories(p)
			assert.ErrorIs(t, err, ErrIncompleteProfile)
			assert.Zero(t, got)
		})
	}
}

func TestActivityFactor(t *testing.T) {
	assert.Equal(t, 1.2, ActivityFactor("baja"))
	assert.Equal(t, 1.55, ActivityFactor("Moderada"))
	assert.Equal(t, 1.725, ActivityFactor("ALTA"))
	assert.Equal(t, 1.2, ActivityFactor(""))
}
