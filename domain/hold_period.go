package domain

type HoldPeriodPreference string

const (
	PreferMaximizeIRR      HoldPeriodPreference = "maximize_irr"
	PreferMaximizeMultiple HoldPeriodPreference = "maximize_multiple"
	PreferBalanced         HoldPeriodPreference = "balanced"
)

// HoldPeriodInput asks which hold period between MinYears and MaxYears
// best suits the preference. Assumptions.HoldPeriodYears is ignored.
type HoldPeriodInput struct {
	Assumptions Assumptions          `json:"assumptions"`
	MinYears    int                  `json:"min_years"`
	MaxYears    int                  `json:"max_years"`
	Preference  HoldPeriodPreference `json:"preference"`
}

type HoldPeriodOption struct {
	HoldYears      int     `json:"hold_years"`
	IRR            float64 `json:"irr"`
	EquityMultiple float64 `json:"equity_multiple"`
	NPV            float64 `json:"npv"`
	Score          float64 `json:"score"`
	Reason         string  `json:"reason"`
}

type HoldPeriodRecommendation struct {
	RecommendedYears int                `json:"recommended_years"`
	Options          []HoldPeriodOption `json:"options"`
}
