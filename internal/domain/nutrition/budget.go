package nutrition

// BudgetLevel describes intake relative to the recommended budget
type BudgetLevel string

const (
	BudgetWithin   BudgetLevel = "within"
	BudgetNear     BudgetLevel = "near"
	BudgetExceeded BudgetLevel = "exceeded"
)

// DefaultWarningRatio is the share of the budget above which intake is near
const DefaultWarningRatio = 0.75

// Budget is the evaluation of a day's intake
type Budget struct {
	Recommended float64
	Consumed    float64
	Remaining   float64 // negative when exceeded
	Progress    float64 // consumed / recommended, capped at 1
	Level       BudgetLevel
}

// EvaluateBudget compares consumed kcal against recommended. A
// non-positive warningRatio uses DefaultWarningRatio.
func EvaluateBudget(consumed, recommended, warningRatio float64) Budget {
	if warningRatio <= 0 {
		warningRatio = DefaultWarningRatio
	}

	b := Budget{
		Recommended: recommended,
		Consumed:    consumed,
		Remaining:   recommended - consumed,
		Level:       BudgetWithin,
	}
	if recommended <= 0 {
		if consumed > 0 {
			b.Progress = 1
			b.Level = BudgetExceeded
		}
		return b
	}

	ratio := consumed / recommended
	b.Progress = min(ratio, 1)
	switch {
	case ratio > 1:
		b.Level = BudgetExceeded
	case ratio > warningRatio:
		b.Level = BudgetNear
	}
	return b
}
