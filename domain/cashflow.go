package domain

// AnnualCashflow is one hold-period year of the projection.
type AnnualCashflow struct {
	Year                 int     `json:"year"`
	GrossIncome          float64 `json:"gross_income"`
	EffectiveGrossIncome float64 `json:"effective_gross_income"`
	OperatingExpenses    float64 `json:"operating_expenses"`
	NOI                  float64 `json:"noi"`
	DebtService          float64 `json:"debt_service"`
	InterestExpense      float64 `json:"interest_expense"`
	PrincipalPayment     float64 `json:"principal_payment"`
	BeforeTaxCashflow    float64 `json:"before_tax_cashflow"`
	Depreciation         float64 `json:"depreciation"`
	LoanCostAmortization float64 `json:"loan_cost_amortization"`
	TaxableIncome        float64 `json:"taxable_income"`
	Taxes                float64 `json:"taxes"` // negative values are a tax shield
	AfterTaxCashflow     float64 `json:"after_tax_cashflow"`
	LoanBalance          float64 `json:"loan_balance"`
	DebtServiceCoverage  float64 `json:"dscr"` // 0 when there is no debt service
}

// SaleProceeds is the disposition at the end of the hold period.
type SaleProceeds struct {
	SalePrice             float64 `json:"sale_price"`
	SellingCosts          float64 `json:"selling_costs"`
	NetProceeds           float64 `json:"net_proceeds"`
	LoanBalance           float64 `json:"loan_balance"`
	BeforeTaxProceeds     float64 `json:"before_tax_proceeds"`
	AdjustedBasis         float64 `json:"adjusted_basis"`
	TotalGain             float64 `json:"total_gain"`
	CapitalGains          float64 `json:"capital_gains"`
	DepreciationRecapture float64 `json:"depreciation_recapture"`
	CapitalGainsTax       float64 `json:"capital_gains_tax"`
	RecaptureTax          float64 `json:"recapture_tax"`
	AfterTaxProceeds      float64 `json:"after_tax_proceeds"`
}
