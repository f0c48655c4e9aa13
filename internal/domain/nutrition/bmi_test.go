package nutrition

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMarkerPercent(t *testing.T) {
	cases := map[float64]float64{
		10: 0,
		40: 100,
		25: 50,
		5:  0,
		50: 100,
	}
	for bmi, want := range cases {
		assert.InDelta(t, want, MarkerPercent(bmi), 1e-9, "bmi %v", bmi)
	}
}

func TestBMI(t *testing.T) {
	assert.InDelta(t, 22.038567, BMI(60, 165), 1e-6)
	assert.Zero(t, BMI(60, 0))
	assert.Zero(t, BMI(60, -10))
}

func TestCategoryFor(t *testing.T) {
	assert.Equal(t, BMIUnderweight, CategoryFor(18.4))
	assert.Equal(t, BMIHealthy, CategoryFor(18.5))
	assert.Equal(t, BMIHealthy, CategoryFor(24.9))
	assert.Equal(t, BMIOverweight, CategoryFor(25))
	assert.Equal(t, BMIObese, CategoryFor(30))
}
