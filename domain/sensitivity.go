package domain

type SensitivityDimension string

const (
	SensitivityExitCapRate  SensitivityDimension = "exit_cap_rate"
	SensitivityRentGrowth   SensitivityDimension = "rent_growth"
	SensitivityInterestRate SensitivityDimension = "interest_rate"
)

// SensitivityRow is the result of one full recalculation under a single
// perturbed assumption. Delta is zero for the base row.
type SensitivityRow struct {
	Label          string        `json:"label"`
	Delta          float64       `json:"delta"`
	InputValue     float64       `json:"input_value"`
	Status         OutcomeStatus `json:"status"`
	IRR            *float64      `json:"irr"`
	EquityMultiple float64       `json:"equity_multiple"`
	SalePrice      float64       `json:"sale_price"`
	LoanAmount     float64       `json:"loan_amount"`
	Year1DSCR      float64       `json:"year1_dscr"`
}

type SensitivityTable struct {
	Dimension SensitivityDimension `json:"dimension"`
	Rows      []SensitivityRow     `json:"rows"`
}

type SensitivityAnalysis struct {
	Base   Outcome            `json:"base"`
	Tables []SensitivityTable `json:"tables"`
}

// Table returns the table for d, if it was produced.
func (s SensitivityAnalysis) Table(d SensitivityDimension) (SensitivityTable, bool) {
	for _, t := range s.Tables {
		if t.Dimension == d {
			return t, true
		}
	}
	return SensitivityTable{}, false
}
