package engine

import (
	"fmt"
	"math"

	"proforma-engine/domain"
)

// Calculate runs the full pro forma pipeline: sanitize, resolve the income
// model and loan, project every year, dispose at the end of the hold and
// derive the return metrics. It never panics; degenerate input and recovered
// numeric faults come back as an Outcome with zeroed Results.
func Calculate(a domain.Assumptions) (out domain.Outcome) {
	defer func() {
		if r := recover(); r != nil {
			out = degenerateOutcome(a, domain.OutcomeFault, fmt.Sprintf("internal fault: %v", r))
		}
	}()

	s := Sanitize(a)
	if reason := degenerateReason(s); reason != "" {
		return degenerateOutcome(s, domain.OutcomeDegenerate, reason)
	}

	income := ResolveIncomeModel(s)
	loan := ResolveLoan(s, income)
	if loan.Amount > 0 && totalPayments(loan.AmortizationYears, loan.PaymentsPerYear) == 0 {
		return degenerateOutcome(s, domain.OutcomeDegenerate, "financed loan has no amortization schedule")
	}

	results := compute(s, income, loan)
	if loan.Amount > 0 {
		results.UnleveredIRR = UnleveredIRR(s)
	} else {
		results.UnleveredIRR = copyRate(results.IRR)
	}

	if field := nonFiniteField(results); field != "" {
		return degenerateOutcome(s, domain.OutcomeFault, "non-finite "+field)
	}
	return domain.Outcome{Status: domain.OutcomeComputed, Results: results}
}

// UnleveredIRR is the after-tax IRR of the same deal bought all cash. It is a
// complete recalculation of the all-cash assumptions.
func UnleveredIRR(a domain.Assumptions) *float64 {
	return Calculate(a.WithoutFinancing()).Results.IRR
}

func compute(a domain.Assumptions, income IncomeModel, loan domain.LoanTerms) domain.Results {
	projection := Project(a, income, loan)
	final := projection.Final()
	sale := Dispose(a, final.NOI, final.LoanBalance, projection.CumulativeDepreciation)
	equity := TotalEquity(a, loan)

	afterTax := make([]float64, len(projection.Years))
	beforeTax := make([]float64, len(projection.Years))
	var taxShield float64
	for i, cf := range projection.Years {
		afterTax[i] = cf.AfterTaxCashflow
		beforeTax[i] = cf.BeforeTaxCashflow
		taxShield += cf.Depreciation * a.OrdinaryIncomeTaxRate
	}

	afterTaxFlows := CashflowVector(equity, afterTax, sale.AfterTaxProceeds)
	beforeTaxFlows := CashflowVector(equity, beforeTax, sale.BeforeTaxProceeds)
	totalReturned := sum(afterTax) + sale.AfterTaxProceeds

	var year1DSCR float64
	if len(projection.Years) > 0 {
		year1DSCR = projection.Years[0].DebtServiceCoverage
	}

	return domain.Results{
		Loan:                       loan,
		TotalEquityInvested:        equity,
		AnnualCashflows:            projection.Years,
		SaleProceeds:               sale,
		TotalCashReturned:          totalReturned,
		NetProfit:                  totalReturned - equity,
		IRR:                        IRR(afterTaxFlows),
		BeforeTaxIRR:               IRR(beforeTaxFlows),
		NPV:                        NPV(a.DiscountRate, afterTaxFlows),
		BeforeTaxNPV:               NPV(a.DiscountRate, beforeTaxFlows),
		EquityMultiple:             EquityMultiple(totalReturned, equity),
		AverageCashOnCash:          AverageCashOnCash(afterTax, equity),
		AverageCashOnCashBeforeTax: AverageCashOnCash(beforeTax, equity),
		TotalTaxShield:             taxShield,
		Year1DSCR:                  year1DSCR,
	}
}

func degenerateReason(a domain.Assumptions) string {
	switch {
	case a.PurchasePrice <= 0:
		return "purchase price must be greater than zero"
	case a.HoldPeriodYears < MinHoldPeriodYears:
		return "hold period must be at least one year"
	case a.HoldPeriodYears > MaxHoldPeriodYears:
		return fmt.Sprintf("hold period exceeds %d years", MaxHoldPeriodYears)
	}
	return ""
}

// degenerateOutcome returns zeroed results with equity taken as the raw
// price less the loan.
func degenerateOutcome(a domain.Assumptions, status domain.OutcomeStatus, reason string) domain.Outcome {
	loan := finite(a.LoanAmount)
	if a.FinancingType == domain.FinancingCash {
		loan = 0
	}
	return domain.Outcome{
		Status: status,
		Reason: reason,
		Results: domain.Results{
			TotalEquityInvested: finite(a.PurchasePrice) - loan,
			AnnualCashflows:     []domain.AnnualCashflow{},
		},
	}
}

func copyRate(r *float64) *float64 {
	if r == nil {
		return nil
	}
	v := *r
	return &v
}

// nonFiniteField names the first aggregate that is NaN or infinite.
func nonFiniteField(r domain.Results) string {
	checks := []struct {
		name  string
		value float64
	}{
		{"total equity", r.TotalEquityInvested},
		{"total cash returned", r.TotalCashReturned},
		{"npv", r.NPV},
		{"before-tax npv", r.BeforeTaxNPV},
		{"equity multiple", r.EquityMultiple},
		{"cash on cash", r.AverageCashOnCash},
		{"sale price", r.SaleProceeds.SalePrice},
		{"after-tax sale proceeds", r.SaleProceeds.AfterTaxProceeds},
	}
	for _, c := range checks {
		if math.IsNaN(c.value) || math.IsInf(c.value, 0) {
			return c.name
		}
	}
	for _, cf := range r.AnnualCashflows {
		if math.IsNaN(cf.AfterTaxCashflow) || math.IsInf(cf.AfterTaxCashflow, 0) {
			return fmt.Sprintf("after-tax cash flow in year %d", cf.Year)
		}
	}
	return ""
}
