package engine

import (
	"fmt"
	"math"

	"proforma-engine/domain"
)

func inRange(v, lo, hi float64) bool {
	return v >= lo && v <= hi // false for NaN
}

func hasIncomeModel(a domain.Assumptions) bool {
	return at(a.RentalIncome, 0) > 0 || a.LegacyNOI > 0
}

// Validate runs structural pre-flight checks on raw, unsanitized assumptions.
// It returns human-readable violations; an empty slice means valid. The caller
// decides whether violations block the calculation.
func Validate(a domain.Assumptions) []string {
	violations := []string{}
	add := func(format string, args ...interface{}) {
		violations = append(violations, fmt.Sprintf(format, args...))
	}

	if !(a.PurchasePrice > 0) {
		add("purchase price must be greater than zero")
	}
	if !hasIncomeModel(a) {
		add("an income model is required: positive first-year rental income or a positive legacy NOI")
	}

	for i, v := range a.VacancyRate {
		if !inRange(v, 0, 1) {
			add("vacancy rate for year %d must be between 0 and 1", i+1)
		}
	}
	if a.ExpenseType == domain.ExpensePercentage {
		for i, v := range a.OperatingExpenses {
			if !inRange(v, 0, 100) {
				add("operating expense percentage for year %d must be between 0 and 100", i+1)
			}
		}
	}
	if at(a.RentalIncome, 0) > 0 && a.HoldPeriodYears > 0 && len(a.RentalIncome) < a.HoldPeriodYears {
		add("rental income covers %d of %d hold-period years", len(a.RentalIncome), a.HoldPeriodYears)
	}

	switch a.FinancingType {
	case domain.FinancingDSCR, domain.FinancingLTV, domain.FinancingCash, domain.FinancingUnspecified:
	default:
		add("unknown financing type %q", a.FinancingType)
	}
	if !inRange(a.LoanAmount, 0, math.Max(0, a.PurchasePrice)) {
		add("loan amount must be between 0 and the purchase price")
	}
	if !inRange(a.InterestRate, 0, 1) {
		add("interest rate must be between 0 and 1")
	}
	if a.IsFinanced() {
		if a.AmortizationYears <= 0 {
			add("amortization period must be positive for a financed purchase")
		} else if a.AmortizationYears > MaxLoanYears {
			add("amortization period must not exceed %d years", MaxLoanYears)
		}
		if a.LoanTermYears <= 0 {
			add("loan term must be positive for a financed purchase")
		} else if a.LoanTermYears > MaxLoanYears {
			add("loan term must not exceed %d years", MaxLoanYears)
		}
		if a.PaymentsPerYear < 1 || a.PaymentsPerYear > MaxPaymentsPerYear {
			add("payments per year must be between 1 and %d", MaxPaymentsPerYear)
		}
	}
	if a.FinancingType == domain.FinancingLTV && a.LoanToValue != 0 && !inRange(a.LoanToValue, 0, 1) {
		add("loan-to-value must be between 0 and 1")
	}
	if a.FinancingType == domain.FinancingDSCR && a.TargetDSCR < 0 {
		add("target DSCR must not be negative")
	}

	if a.HoldPeriodYears < MinHoldPeriodYears || a.HoldPeriodYears > MaxHoldPeriodYears {
		add("hold period must be between %d and %d years", MinHoldPeriodYears, MaxHoldPeriodYears)
	}

	if !inRange(a.OrdinaryIncomeTaxRate, 0, 1) {
		add("ordinary income tax rate must be between 0 and 1")
	}
	if !inRange(a.CapitalGainsTaxRate, 0, 1) {
		add("capital gains tax rate must be between 0 and 1")
	}
	if !inRange(a.DepreciationRecaptureRate, 0, 1) {
		add("depreciation recapture rate must be between 0 and 1")
	}

	if !inRange(a.LandPercent, 0, 100) || !inRange(a.ImprovementsPercent, 0, 100) {
		add("land and improvements percentages must each be between 0 and 100")
	} else if math.Abs(a.LandPercent+a.ImprovementsPercent-100) > allocationTolerance {
		add("land and improvements percentages must sum to 100 (got %.2f)", a.LandPercent+a.ImprovementsPercent)
	}

	switch a.DispositionType {
	case domain.DispositionCapRate:
		if !(a.DispositionValue > 0 && a.DispositionValue <= 1) {
			add("exit cap rate must be greater than 0 and at most 1")
		}
	case domain.DispositionFixed:
		if !(a.DispositionValue >= 0) {
			add("disposition price must not be negative")
		}
	default:
		add("unknown disposition type %q", a.DispositionType)
	}

	checkCost := func(name string, v float64, t domain.CostType) {
		switch {
		case t == domain.CostPercentage && !inRange(v, 0, 100):
			add("%s percentage must be between 0 and 100", name)
		case t != domain.CostPercentage && !(v >= 0):
			add("%s must not be negative", name)
		}
	}
	checkCost("acquisition cost", a.AcquisitionCost, a.AcquisitionCostType)
	checkCost("loan cost", a.LoanCost, a.LoanCostType)
	checkCost("cost of sale", a.CostOfSale, a.CostOfSaleType)

	return violations
}

// CheckReadiness reports which inputs are still missing before a calculation
// is meaningful. It gates completeness, not correctness; see Validate.
func CheckReadiness(a domain.Assumptions) domain.Readiness {
	missing := []string{}
	need := func(ok bool, field string) {
		if !ok {
			missing = append(missing, field)
		}
	}

	need(a.PurchasePrice > 0, "purchase_price")
	need(hasIncomeModel(a), "rental_income or legacy_noi")
	need(a.HoldPeriodYears > 0, "hold_period_years")
	need(a.LandPercent+a.ImprovementsPercent > 0, "improvements_percent")
	need(a.DispositionType != "", "disposition_type")
	need(a.DispositionType != domain.DispositionCapRate || a.DispositionValue > 0, "disposition_value")

	if a.IsFinanced() {
		switch a.FinancingType {
		case domain.FinancingDSCR:
			need(a.TargetDSCR > 0 || a.LoanAmount > 0, "target_dscr")
		case domain.FinancingLTV:
			need(a.LoanToValue > 0 || a.LoanAmount > 0, "loan_to_value")
		}
		need(a.AmortizationYears > 0, "amortization_years")
		need(a.LoanTermYears > 0, "loan_term_years")
		need(a.PaymentsPerYear > 0, "payments_per_year")
	}

	return domain.Readiness{Ready: len(missing) == 0, Missing: missing}
}
