package engine

import (
	"math"

	"proforma-engine/domain"
)

func costAmount(base, value float64, t domain.CostType) float64 {
	if t == domain.CostPercentage {
		return base * value / 100
	}
	return value
}

func AcquisitionCosts(a domain.Assumptions) float64 {
	return costAmount(a.PurchasePrice, a.AcquisitionCost, a.AcquisitionCostType)
}

// MaxLoanForDSCR sizes the largest loan whose annual debt service is covered
// targetDSCR times by noi.
func MaxLoanForDSCR(noi, targetDSCR, annualRate float64, amortYears, paymentsPerYear int) float64 {
	n := totalPayments(amortYears, paymentsPerYear)
	if noi <= 0 || targetDSCR <= 0 || n == 0 {
		return 0
	}

	payment := noi / targetDSCR / float64(paymentsPerYear)
	if annualRate == 0 {
		return payment * float64(n)
	}
	r := annualRate / float64(paymentsPerYear)
	return payment * (1 - math.Pow(1+r, -float64(n))) / r
}

// ResolveLoan turns the financing mode into concrete loan terms. LTV and DSCR
// modes size the loan from their ratio, capped by an explicit loan amount.
func ResolveLoan(a domain.Assumptions, income IncomeModel) domain.LoanTerms {
	if !a.IsFinanced() {
		return domain.LoanTerms{}
	}

	amount := a.LoanAmount
	sized := -1.0
	switch a.FinancingType {
	case domain.FinancingLTV:
		if a.LoanToValue > 0 {
			sized = a.PurchasePrice * a.LoanToValue
		}
	case domain.FinancingDSCR:
		if a.TargetDSCR > 0 {
			sized = MaxLoanForDSCR(income.Year(1).NOI, a.TargetDSCR, a.InterestRate, a.AmortizationYears, a.PaymentsPerYear)
		}
	}
	if sized >= 0 && (amount <= 0 || sized < amount) {
		amount = sized
	}
	amount = math.Max(0, amount)

	return domain.LoanTerms{
		Amount:            amount,
		InterestRate:      a.InterestRate,
		TermYears:         a.LoanTermYears,
		AmortizationYears: a.AmortizationYears,
		PaymentsPerYear:   a.PaymentsPerYear,
		TotalLoanCosts:    costAmount(amount, a.LoanCost, a.LoanCostType),
	}
}
