package engine

import (
	"math"

	"proforma-engine/domain"
)

func finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, finite(v)))
}

func clampInt(v, lo, hi int) int { return max(lo, min(hi, v)) }

func clamp01(v float64) float64     { return clamp(v, 0, 1) }
func clampPoints(v float64) float64 { return clamp(v, 0, 100) }

func finiteSeries(s []float64, f func(float64) float64) []float64 {
	for i := range s {
		s[i] = f(s[i])
	}
	return s
}

// clampCost clamps percentage costs to points; dollar costs only need to be
// finite and non-negative.
func clampCost(v float64, t domain.CostType) float64 {
	if t == domain.CostPercentage {
		return clampPoints(v)
	}
	return math.Max(0, finite(v))
}

// Sanitize coerces NaN and infinities to zero and clamps rates to [0,1] and
// percentages to [0,100]. Loan periods are capped so a schedule never exceeds
// MaxLoanYears of MaxPaymentsPerYear payments. It works on a copy and is
// idempotent.
func Sanitize(a domain.Assumptions) domain.Assumptions {
	s := a.Clone()

	s.PurchasePrice = finite(s.PurchasePrice)
	s.AcquisitionCost = clampCost(s.AcquisitionCost, s.AcquisitionCostType)

	s.RentalIncome = finiteSeries(s.RentalIncome, finite)
	s.OtherIncome = finiteSeries(s.OtherIncome, finite)
	s.VacancyRate = finiteSeries(s.VacancyRate, clamp01)
	if s.ExpenseType == domain.ExpensePercentage {
		s.OperatingExpenses = finiteSeries(s.OperatingExpenses, clampPoints)
	} else {
		s.OperatingExpenses = finiteSeries(s.OperatingExpenses, finite)
	}

	s.LegacyNOI = finite(s.LegacyNOI)
	s.LegacyGrowthRate = math.Max(-1, finite(s.LegacyGrowthRate))

	s.LoanAmount = math.Max(0, finite(s.LoanAmount))
	s.InterestRate = clamp01(s.InterestRate)
	s.LoanTermYears = clampInt(s.LoanTermYears, 0, MaxLoanYears)
	s.AmortizationYears = clampInt(s.AmortizationYears, 0, MaxLoanYears)
	s.PaymentsPerYear = clampInt(s.PaymentsPerYear, 0, MaxPaymentsPerYear)
	s.LoanCost = clampCost(s.LoanCost, s.LoanCostType)
	s.TargetDSCR = math.Max(0, finite(s.TargetDSCR))
	s.LoanToValue = clamp01(s.LoanToValue)

	s.DepreciationYears = math.Max(0, finite(s.DepreciationYears))
	s.LandPercent = clampPoints(s.LandPercent)
	s.ImprovementsPercent = clampPoints(s.ImprovementsPercent)

	s.OrdinaryIncomeTaxRate = clamp01(s.OrdinaryIncomeTaxRate)
	s.CapitalGainsTaxRate = clamp01(s.CapitalGainsTaxRate)
	s.DepreciationRecaptureRate = clamp01(s.DepreciationRecaptureRate)

	if s.DispositionType == domain.DispositionCapRate {
		s.DispositionValue = clamp01(s.DispositionValue)
	} else {
		s.DispositionValue = math.Max(0, finite(s.DispositionValue))
	}
	s.CostOfSale = clampCost(s.CostOfSale, s.CostOfSaleType)

	s.DiscountRate = math.Max(bisectionLow, finite(s.DiscountRate))

	if s.FinancingType == domain.FinancingCash {
		s.LoanAmount = 0
		s.InterestRate = 0
		s.LoanCost = 0
	}
	return s
}
