package engine

import (
	"fmt"
	"math"

	"proforma-engine/domain"
)

// SensitivityOptions are the one-sided step sizes of each table.
type SensitivityOptions struct {
	CapRateStep      float64
	RentGrowthStep   float64
	InterestRateStep float64
}

func DefaultSensitivityOptions() SensitivityOptions {
	return SensitivityOptions{
		CapRateStep:      0.005,
		RentGrowthStep:   0.01,
		InterestRateStep: 0.005,
	}
}

type perturbation func(a domain.Assumptions, delta float64) (domain.Assumptions, float64)

// RunSensitivity recalculates the deal under single-assumption shifts. Every
// row except the base is an independent Calculate on a modified copy; there is
// no memoization between rows.
func RunSensitivity(a domain.Assumptions, opts SensitivityOptions) domain.SensitivityAnalysis {
	s := Sanitize(a)
	base := Calculate(s)
	analysis := domain.SensitivityAnalysis{Base: base, Tables: []domain.SensitivityTable{}}

	if s.DispositionType == domain.DispositionCapRate {
		analysis.Tables = append(analysis.Tables,
			sensitivityTable(domain.SensitivityExitCapRate, s, base, s.DispositionValue, opts.CapRateStep, shiftCapRate))
	}

	analysis.Tables = append(analysis.Tables,
		sensitivityTable(domain.SensitivityRentGrowth, s, base, rentGrowth(s), opts.RentGrowthStep, shiftRentGrowth))

	if base.Results.Loan.Amount > 0 {
		analysis.Tables = append(analysis.Tables,
			sensitivityTable(domain.SensitivityInterestRate, s, base, s.InterestRate, opts.InterestRateStep, shiftInterestRate))
	}
	return analysis
}

func sensitivityTable(dim domain.SensitivityDimension, a domain.Assumptions, base domain.Outcome, baseValue, step float64, shift perturbation) domain.SensitivityTable {
	table := domain.SensitivityTable{Dimension: dim}
	for _, delta := range []float64{-step, 0, step} {
		if delta == 0 {
			table.Rows = append(table.Rows, sensitivityRow("base", 0, baseValue, base))
			continue
		}
		modified, value := shift(a, delta)
		table.Rows = append(table.Rows, sensitivityRow(bpsLabel(delta), delta, value, Calculate(modified)))
	}
	return table
}

func sensitivityRow(label string, delta, value float64, o domain.Outcome) domain.SensitivityRow {
	return domain.SensitivityRow{
		Label:          label,
		Delta:          delta,
		InputValue:     value,
		Status:         o.Status,
		IRR:            o.Results.IRR,
		EquityMultiple: o.Results.EquityMultiple,
		SalePrice:      o.Results.SaleProceeds.SalePrice,
		LoanAmount:     o.Results.Loan.Amount,
		Year1DSCR:      o.Results.Year1DSCR,
	}
}

func bpsLabel(delta float64) string {
	return fmt.Sprintf("%+.0f bps", math.Round(delta*10000))
}

func shiftCapRate(a domain.Assumptions, delta float64) (domain.Assumptions, float64) {
	c := a.Clone()
	c.DispositionValue = math.Max(0, c.DispositionValue+delta)
	return c, c.DispositionValue
}

func shiftInterestRate(a domain.Assumptions, delta float64) (domain.Assumptions, float64) {
	c := a.Clone()
	c.InterestRate = math.Max(0, c.InterestRate+delta)
	return c, c.InterestRate
}

// shiftRentGrowth adds delta to the growth rate. Detailed income arrays are
// rescaled by (1+delta)^(year-1), which approximates the same shift.
func shiftRentGrowth(a domain.Assumptions, delta float64) (domain.Assumptions, float64) {
	c := a.Clone()
	if _, simple := ResolveIncomeModel(a).(SimpleIncome); simple {
		c.LegacyGrowthRate += delta
		return c, c.LegacyGrowthRate
	}
	for i := range c.RentalIncome {
		c.RentalIncome[i] *= math.Pow(1+delta, float64(i))
	}
	for i := range c.OtherIncome {
		c.OtherIncome[i] *= math.Pow(1+delta, float64(i))
	}
	return c, rentGrowth(c)
}

// rentGrowth is the growth rate the income model implies: the legacy rate, or
// the compound annual growth of rental income across the hold period.
func rentGrowth(a domain.Assumptions) float64 {
	if simple, ok := ResolveIncomeModel(a).(SimpleIncome); ok {
		return simple.GrowthRate
	}
	last := a.HoldPeriodYears
	if last > len(a.RentalIncome) {
		last = len(a.RentalIncome)
	}
	if last < 2 {
		return 0
	}
	first, final := a.RentalIncome[0], a.RentalIncome[last-1]
	if first <= 0 || final <= 0 {
		return 0
	}
	return math.Pow(final/first, 1/float64(last-1)) - 1
}
