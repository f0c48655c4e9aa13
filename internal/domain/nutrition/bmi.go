package nutrition

// BMICategory buckets a body-mass index
type BMICategory string

const (
	BMIUnderweight BMICategory = "underweight"
	BMIHealthy     BMICategory = "healthy"
	BMIOverweight  BMICategory = "overweight"
	BMIObese       BMICategory = "obese"
)

// Range shown on the BMI bar
const (
	BMIScaleMin = 10.0
	BMIScaleMax = 40.0
)

// BMI returns weight / (height in metres)^2. Non-positive heights yield 0.
func BMI(weightKg, heightCm float64) float64 {
	if heightCm <= 0 {
		return 0
	}
	m := heightCm / 100
	return weightKg / (m * m)
}

// CategoryFor returns the category bmi falls into
func CategoryFor(bmi float64) BMICategory {
	switch {
	case bmi < 18.5:
		return BMIUnderweight
	case bmi < 25:
		return BMIHealthy
	case bmi < 30:
		return BMIOverweight
	default:
		return BMIObese
	}
}

// MarkerPercent places bmi on the bar as a percentage in [0, 100]
func MarkerPercent(bmi float64) float64 {
	clamped := min(max(bmi, BMIScaleMin), BMIScaleMax)
	return (clamped - BMIScaleMin) / (BMIScaleMax - BMIScaleMin) * 100
}
