package report

import (
	"math"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// Currency of every amount the engine produces.
const Currency = "USD"

// Money formats a dollar amount, rounded half away from zero to the cent.
func Money(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "n/a"
	}
	cur := money.GetCurrency(Currency)
	cents := decimal.NewFromFloat(v).Round(int32(cur.Fraction)).Shift(int32(cur.Fraction))
	return money.New(cents.IntPart(), Currency).Display()
}

// SignedMoney is Money with an explicit sign; zero is a dash.
func SignedMoney(v float64) string {
	switch {
	case v == 0:
		return "-"
	case v > 0:
		return "+" + Money(v)
	}
	return Money(v)
}

// Percent formats a fraction as a percentage with two decimals.
func Percent(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "n/a"
	}
	return decimal.NewFromFloat(v).Shift(2).StringFixed(2) + "%"
}

// Rate formats an optional rate; nil means the solver could not determine it.
func Rate(r *float64) string {
	if r == nil {
		return "n/a"
	}
	return Percent(*r)
}

func Multiple(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(2) + "x"
}

func Ratio(v float64) string {
	if v == 0 {
		return "-"
	}
	return decimal.NewFromFloat(v).StringFixed(2)
}
