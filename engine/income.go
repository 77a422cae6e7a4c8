package engine

import (
	"math"

	"proforma-engine/domain"
)

// YearIncome is the operating statement of one year. Gross income, EGI and
// operating expenses stay zero under the simple model.
type YearIncome struct {
	GrossIncome          float64
	EffectiveGrossIncome float64
	OperatingExpenses    float64
	NOI                  float64
}

// IncomeModel is either DetailedIncome or SimpleIncome. It is resolved once
// per calculation by ResolveIncomeModel.
type IncomeModel interface {
	Year(year int) YearIncome
	isIncomeModel()
}

// DetailedIncome projects NOI from per-year rental income, other income,
// vacancy and operating expenses. Years past the end of an array read as zero.
type DetailedIncome struct {
	RentalIncome      []float64
	OtherIncome       []float64
	VacancyRate       []float64
	OperatingExpenses []float64
	ExpenseType       domain.ExpenseType
}

func (DetailedIncome) isIncomeModel() {}

func (d DetailedIncome) Year(year int) YearIncome {
	i := year - 1
	gross := at(d.RentalIncome, i) + at(d.OtherIncome, i)
	egi := gross * (1 - at(d.VacancyRate, i))

	opEx := at(d.OperatingExpenses, i)
	if d.ExpenseType == domain.ExpensePercentage {
		opEx = egi * opEx / 100
	}

	return YearIncome{
		GrossIncome:          gross,
		EffectiveGrossIncome: egi,
		OperatingExpenses:    opEx,
		NOI:                  egi - opEx,
	}
}

// SimpleIncome grows a first-year NOI at a flat rate.
type SimpleIncome struct {
	Year1NOI   float64
	GrowthRate float64
}

func (SimpleIncome) isIncomeModel() {}

func (s SimpleIncome) Year(year int) YearIncome {
	return YearIncome{NOI: s.Year1NOI * math.Pow(1+s.GrowthRate, float64(year-1))}
}

// ResolveIncomeModel picks exactly one income model: detailed when the first
// year carries rental income, legacy NOI otherwise.
func ResolveIncomeModel(a domain.Assumptions) IncomeModel {
	if at(a.RentalIncome, 0) <= 0 && a.LegacyNOI > 0 {
		return SimpleIncome{Year1NOI: a.LegacyNOI, GrowthRate: a.LegacyGrowthRate}
	}
	return DetailedIncome{
		RentalIncome:      a.RentalIncome,
		OtherIncome:       a.OtherIncome,
		VacancyRate:       a.VacancyRate,
		OperatingExpenses: a.OperatingExpenses,
		ExpenseType:       a.ExpenseType,
	}
}

func at(s []float64, i int) float64 {
	if i < 0 || i >= len(s) {
		return 0
	}
	return s[i]
}
