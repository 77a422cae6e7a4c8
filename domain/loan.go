package domain

// LoanTerms is the financing actually applied to a calculation once the
// financing mode has been resolved.
type LoanTerms struct {
	Amount            float64 `json:"amount"`
	InterestRate      float64 `json:"interest_rate"`
	TermYears         int     `json:"term_years"`
	AmortizationYears int     `json:"amortization_years"`
	PaymentsPerYear   int     `json:"payments_per_year"`
	TotalLoanCosts    float64 `json:"total_loan_costs"`
}

type SchedulePeriod struct {
	Period           int     `json:"period"`
	Year             int     `json:"year"`
	Payment          float64 `json:"payment"`
	Interest         float64 `json:"interest"`
	Principal        float64 `json:"principal"`
	RemainingBalance float64 `json:"remaining_balance"`
}

type AmortizationSchedule struct {
	Loan            LoanTerms        `json:"loan"`
	PeriodicPayment float64          `json:"periodic_payment"`
	TotalInterest   float64          `json:"total_interest"`
	Periods         []SchedulePeriod `json:"periods"`
}
