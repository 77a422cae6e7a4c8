package engine

import (
	"math"

	"proforma-engine/domain"
)

// NPV discounts flows[i] by (1+rate)^i; flows[0] is undiscounted.
func NPV(rate float64, flows []float64) float64 {
	var npv float64
	discount := 1.0
	for _, cf := range flows {
		npv += cf / discount
		discount *= 1 + rate
	}
	return npv
}

func npvDerivative(rate float64, flows []float64) float64 {
	var d float64
	for i, cf := range flows {
		if i == 0 {
			continue
		}
		d -= float64(i) * cf / math.Pow(1+rate, float64(i+1))
	}
	return d
}

// IRR solves NPV(rate) = 0 with Newton-Raphson from IRRInitialGuess. When
// Newton fails and the NPV changes sign on [-0.99, 10], the bracketed root is
// bisected instead. A nil result means the rate is undetermined.
func IRR(flows []float64) *float64 {
	if len(flows) < 2 || !hasSignChange(flows) {
		return nil
	}
	if rate, ok := newtonIRR(flows); ok {
		return &rate
	}
	if rate, ok := bisectIRR(flows); ok {
		return &rate
	}
	return nil
}

// hasSignChange reports whether flows contain both an outflow and an inflow.
// Without one NPV has no root.
func hasSignChange(flows []float64) bool {
	var in, out bool
	for _, cf := range flows {
		in = in || cf > 0
		out = out || cf < 0
	}
	return in && out
}

func flowScale(flows []float64) float64 {
	var s float64
	for _, cf := range flows {
		s += math.Abs(cf)
	}
	return s
}

func newtonIRR(flows []float64) (float64, bool) {
	rate := IRRInitialGuess
	scale := flowScale(flows)

	for i := 0; i < IRRMaxIterations; i++ {
		value := NPV(rate, flows)
		if math.Abs(value) < IRRTolerance {
			return rate, true
		}

		d := npvDerivative(rate, flows)
		if math.Abs(d) < derivativeTolerance {
			return 0, false
		}

		next := rate - value/d
		if math.IsNaN(next) || math.IsInf(next, 0) || next <= -1 {
			return 0, false
		}
		// Stalled at floating point precision: accept if the residual is
		// negligible against the size of the flows.
		if math.Abs(next-rate) < stepTolerance {
			if math.Abs(NPV(next, flows)) <= 1e-9*scale {
				return next, true
			}
			return 0, false
		}
		rate = next
	}
	return 0, false
}

func bisectIRR(flows []float64) (float64, bool) {
	lo := bisectionLow
	fLo := NPV(lo, flows)
	for hi := lo + bisectionScanStep; hi <= bisectionHigh; hi += bisectionScanStep {
		fHi := NPV(hi, flows)
		if fLo == 0 {
			return lo, true
		}
		if math.Signbit(fLo) != math.Signbit(fHi) {
			return bisect(flows, lo, hi, fLo)
		}
		lo, fLo = hi, fHi
	}
	return 0, false
}

func bisect(flows []float64, lo, hi, fLo float64) (float64, bool) {
	for i := 0; i < bisectionMaxIter; i++ {
		mid := (lo + hi) / 2
		fMid := NPV(mid, flows)
		if math.Abs(fMid) < IRRTolerance || hi-lo < stepTolerance {
			return mid, true
		}
		if math.Signbit(fMid) == math.Signbit(fLo) {
			lo, fLo = mid, fMid
		} else {
			hi = mid
		}
	}
	return (lo + hi) / 2, true
}

// TotalEquity is the cash the investor brings at closing.
func TotalEquity(a domain.Assumptions, loan domain.LoanTerms) float64 {
	return a.PurchasePrice + AcquisitionCosts(a) + loan.TotalLoanCosts - loan.Amount
}

// CashflowVector lays out [-equity, cf(1) .. cf(N-1), cf(N)+terminal].
func CashflowVector(equity float64, annual []float64, terminal float64) []float64 {
	flows := make([]float64, len(annual)+1)
	flows[0] = -equity
	copy(flows[1:], annual)
	flows[len(flows)-1] += terminal
	return flows
}

func EquityMultiple(totalReturned, equity float64) float64 {
	return safeDiv(totalReturned, equity)
}

func AverageCashOnCash(annual []float64, equity float64) float64 {
	if len(annual) == 0 {
		return 0
	}
	return safeDiv(sum(annual)/float64(len(annual)), equity)
}

func safeDiv(a, b float64) float64 {
	if b == 0 {
		return 0
	}
	return a / b
}

func sum(s []float64) float64 {
	var total float64
	for _, v := range s {
		total += v
	}
	return total
}
