package domain

type CostType string

const (
	CostPercentage CostType = "percentage" // points of the base amount, 2.5 = 2.5%
	CostDollar     CostType = "dollar"
)

type ExpenseType string

const (
	ExpensePercentage ExpenseType = "percentage" // points of EGI
	ExpenseDollar     ExpenseType = "dollar"
)

type FinancingType string

const (
	FinancingDSCR        FinancingType = "dscr"
	FinancingLTV         FinancingType = "ltv"
	FinancingCash        FinancingType = "cash"
	FinancingUnspecified FinancingType = ""
)

type DispositionType string

const (
	DispositionFixed   DispositionType = "fixed"
	DispositionCapRate DispositionType = "cap_rate"
)

const (
	PropertyResidential = "residential"
	PropertyCommercial  = "commercial"
)

// Assumptions is the complete input of a pro forma calculation. It is passed
// by value; the engine never mutates the slices it receives.
type Assumptions struct {
	PurchasePrice       float64  `json:"purchase_price" yaml:"purchase_price"`
	AcquisitionCost     float64  `json:"acquisition_cost" yaml:"acquisition_cost"`
	AcquisitionCostType CostType `json:"acquisition_cost_type" yaml:"acquisition_cost_type"`

	// Detailed income model, index 0 is year 1.
	RentalIncome      []float64   `json:"rental_income,omitempty" yaml:"rental_income"`
	OtherIncome       []float64   `json:"other_income,omitempty" yaml:"other_income"`
	VacancyRate       []float64   `json:"vacancy_rate,omitempty" yaml:"vacancy_rate"`
	OperatingExpenses []float64   `json:"operating_expenses,omitempty" yaml:"operating_expenses"`
	ExpenseType       ExpenseType `json:"expense_type" yaml:"expense_type"`

	// Legacy income model, used only when no detailed rental income exists.
	LegacyNOI        float64 `json:"legacy_noi,omitempty" yaml:"legacy_noi"`
	LegacyGrowthRate float64 `json:"legacy_growth_rate,omitempty" yaml:"legacy_growth_rate"`

	FinancingType     FinancingType `json:"financing_type" yaml:"financing_type"`
	LoanAmount        float64       `json:"loan_amount" yaml:"loan_amount"`
	InterestRate      float64       `json:"interest_rate" yaml:"interest_rate"`
	LoanTermYears     int           `json:"loan_term_years" yaml:"loan_term_years"`
	AmortizationYears int           `json:"amortization_years" yaml:"amortization_years"`
	PaymentsPerYear   int           `json:"payments_per_year" yaml:"payments_per_year"`
	LoanCost          float64       `json:"loan_cost" yaml:"loan_cost"`
	LoanCostType      CostType      `json:"loan_cost_type" yaml:"loan_cost_type"`
	TargetDSCR        float64       `json:"target_dscr,omitempty" yaml:"target_dscr"`
	LoanToValue       float64       `json:"loan_to_value,omitempty" yaml:"loan_to_value"`

	PropertyType        string  `json:"property_type" yaml:"property_type"`
	DepreciationYears   float64 `json:"depreciation_years" yaml:"depreciation_years"`
	LandPercent         float64 `json:"land_percent" yaml:"land_percent"`
	ImprovementsPercent float64 `json:"improvements_percent" yaml:"improvements_percent"`

	OrdinaryIncomeTaxRate     float64 `json:"ordinary_income_tax_rate" yaml:"ordinary_income_tax_rate"`
	CapitalGainsTaxRate       float64 `json:"capital_gains_tax_rate" yaml:"capital_gains_tax_rate"`
	DepreciationRecaptureRate float64 `json:"depreciation_recapture_rate" yaml:"depreciation_recapture_rate"`

	HoldPeriodYears  int             `json:"hold_period_years" yaml:"hold_period_years"`
	DispositionType  DispositionType `json:"disposition_type" yaml:"disposition_type"`
	DispositionValue float64         `json:"disposition_value" yaml:"disposition_value"` // dollars, or cap rate as a fraction
	CostOfSaleType   CostType        `json:"cost_of_sale_type" yaml:"cost_of_sale_type"`
	CostOfSale       float64         `json:"cost_of_sale" yaml:"cost_of_sale"`

	DiscountRate float64 `json:"discount_rate,omitempty" yaml:"discount_rate"`
}

// Clone returns a copy that shares no backing arrays with a.
func (a Assumptions) Clone() Assumptions {
	c := a
	c.RentalIncome = cloneSeries(a.RentalIncome)
	c.OtherIncome = cloneSeries(a.OtherIncome)
	c.VacancyRate = cloneSeries(a.VacancyRate)
	c.OperatingExpenses = cloneSeries(a.OperatingExpenses)
	return c
}

// WithoutFinancing returns the all-cash version of a.
func (a Assumptions) WithoutFinancing() Assumptions {
	c := a.Clone()
	c.FinancingType = FinancingCash
	c.LoanAmount = 0
	c.InterestRate = 0
	c.LoanCost = 0
	c.TargetDSCR = 0
	c.LoanToValue = 0
	return c
}

// IsFinanced reports whether a carries debt at all.
func (a Assumptions) IsFinanced() bool {
	if a.FinancingType == FinancingCash {
		return false
	}
	return a.LoanAmount > 0 || a.TargetDSCR > 0 || a.LoanToValue > 0
}

func cloneSeries(s []float64) []float64 {
	if s == nil {
		return nil
	}
	out := make([]float64, len(s))
	copy(out, s)
	return out
}
