package domain

// Results aggregates the projection, the sale and the return metrics. IRR
// fields are nil when the solver could not determine a rate; callers must not
// read nil as zero.
type Results struct {
	Loan                       LoanTerms        `json:"loan"`
	TotalEquityInvested        float64          `json:"total_equity_invested"`
	AnnualCashflows            []AnnualCashflow `json:"annual_cashflows"`
	SaleProceeds               SaleProceeds     `json:"sale_proceeds"`
	TotalCashReturned          float64          `json:"total_cash_returned"`
	NetProfit                  float64          `json:"net_profit"`
	IRR                        *float64         `json:"irr"`
	BeforeTaxIRR               *float64         `json:"before_tax_irr"`
	UnleveredIRR               *float64         `json:"unlevered_irr"`
	NPV                        float64          `json:"npv"`
	BeforeTaxNPV               float64          `json:"before_tax_npv"`
	EquityMultiple             float64          `json:"equity_multiple"`
	AverageCashOnCash          float64          `json:"average_cash_on_cash"`
	AverageCashOnCashBeforeTax float64          `json:"average_cash_on_cash_before_tax"`
	TotalTaxShield             float64          `json:"total_tax_shield"`
	Year1DSCR                  float64          `json:"year1_dscr"`
}

type OutcomeStatus string

const (
	OutcomeComputed   OutcomeStatus = "computed"
	OutcomeDegenerate OutcomeStatus = "degenerate" // input could not be projected, results are zeroed
	OutcomeFault      OutcomeStatus = "fault"      // an internal numeric fault was recovered
)

// Outcome is what a calculation returns. Results is always fully populated,
// even when Status is not OutcomeComputed.
type Outcome struct {
	Status  OutcomeStatus `json:"status"`
	Reason  string        `json:"reason,omitempty"`
	Results Results       `json:"results"`
}

func (o Outcome) OK() bool { return o.Status == OutcomeComputed }

// Readiness lists the inputs still missing before a calculation is
// meaningful.
type Readiness struct {
	Ready   bool     `json:"ready"`
	Missing []string `json:"missing,omitempty"`
}
