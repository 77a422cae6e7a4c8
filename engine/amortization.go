package engine

import (
	"math"

	"proforma-engine/domain"
)

func totalPayments(amortYears, paymentsPerYear int) int {
	if amortYears <= 0 || paymentsPerYear <= 0 {
		return 0
	}
	// sin desbordar int
	if amortYears > math.MaxInt/paymentsPerYear {
		return 0
	}
	return amortYears * paymentsPerYear
}

// PeriodicPayment returns the level payment of a fixed-rate amortizing loan.
// A zero rate repays the loan in equal instalments with no interest.
func PeriodicPayment(loan, annualRate float64, amortYears, paymentsPerYear int) float64 {
	n := totalPayments(amortYears, paymentsPerYear)
	if loan == 0 || n == 0 {
		return 0
	}
	if annualRate == 0 {
		return loan / float64(n)
	}

	r := annualRate / float64(paymentsPerYear)
	growth := math.Pow(1+r, float64(n))
	return loan * r * growth / (growth - 1)
}

// RemainingBalance is the present value of the payments still owed after
// paymentsMade payments.
func RemainingBalance(loan, annualRate float64, amortYears, paymentsMade, paymentsPerYear int) float64 {
	n := totalPayments(amortYears, paymentsPerYear)
	if loan == 0 || n == 0 || paymentsMade <= 0 {
		return loan
	}
	if paymentsMade >= n {
		return 0
	}

	remaining := float64(n - paymentsMade)
	if annualRate == 0 {
		return loan * remaining / float64(n)
	}

	r := annualRate / float64(paymentsPerYear)
	payment := PeriodicPayment(loan, annualRate, amortYears, paymentsPerYear)
	return payment * (1 - math.Pow(1+r, -remaining)) / r
}

func InterestForPeriod(balance, annualRate float64, paymentsPerYear int) float64 {
	if paymentsPerYear <= 0 {
		return 0
	}
	return balance * annualRate / float64(paymentsPerYear)
}

func PrincipalForPeriod(payment, balance, annualRate float64, paymentsPerYear int) float64 {
	return payment - InterestForPeriod(balance, annualRate, paymentsPerYear)
}

// paymentsInYear counts the scheduled payments that fall in the given
// 1-based year. It is zero once the loan is fully amortized.
func paymentsInYear(amortYears, year, paymentsPerYear int) int {
	n := totalPayments(amortYears, paymentsPerYear)
	if n == 0 || year < 1 {
		return 0
	}
	left := n - (year-1)*paymentsPerYear
	switch {
	case left <= 0:
		return 0
	case left < paymentsPerYear:
		return left
	default:
		return paymentsPerYear
	}
}

// AnnualInterestExpense sums the interest of every payment in the year. The
// opening balance of each period comes from RemainingBalance rather than from
// a running total, so any year can be computed on its own.
func AnnualInterestExpense(loan, annualRate float64, amortYears, year, paymentsPerYear int) float64 {
	count := paymentsInYear(amortYears, year, paymentsPerYear)
	if loan == 0 || count == 0 {
		return 0
	}

	var interest float64
	first := (year - 1) * paymentsPerYear
	for k := 0; k < count; k++ {
		balance := RemainingBalance(loan, annualRate, amortYears, first+k, paymentsPerYear)
		interest += InterestForPeriod(balance, annualRate, paymentsPerYear)
	}
	return interest
}

func AnnualDebtService(loan, annualRate float64, amortYears, year, paymentsPerYear int) float64 {
	payment := PeriodicPayment(loan, annualRate, amortYears, paymentsPerYear)
	return payment * float64(paymentsInYear(amortYears, year, paymentsPerYear))
}

// LoanCostAmortization spreads the loan costs evenly over the loan term (not
// the amortization period).
func LoanCostAmortization(totalLoanCosts float64, termYears, year int) float64 {
	if totalLoanCosts == 0 || termYears <= 0 || year < 1 || year > termYears {
		return 0
	}
	return totalLoanCosts / float64(termYears)
}

// AmortizationSchedule lists every payment of the loan, truncated to
// MaxSchedulePeriods.
func AmortizationSchedule(loan domain.LoanTerms) domain.AmortizationSchedule {
	payment := PeriodicPayment(loan.Amount, loan.InterestRate, loan.AmortizationYears, loan.PaymentsPerYear)
	schedule := domain.AmortizationSchedule{
		Loan:            loan,
		PeriodicPayment: payment,
		Periods:         []domain.SchedulePeriod{},
	}

	n := totalPayments(loan.AmortizationYears, loan.PaymentsPerYear)
	if loan.Amount == 0 || n == 0 {
		return schedule
	}
	if n > MaxSchedulePeriods {
		n = MaxSchedulePeriods
	}

	schedule.Periods = make([]domain.SchedulePeriod, 0, n)
	for made := 0; made < n; made++ {
		opening := RemainingBalance(loan.Amount, loan.InterestRate, loan.AmortizationYears, made, loan.PaymentsPerYear)
		interest := InterestForPeriod(opening, loan.InterestRate, loan.PaymentsPerYear)
		schedule.TotalInterest += interest

		schedule.Periods = append(schedule.Periods, domain.SchedulePeriod{
			Period:           made + 1,
			Year:             made/loan.PaymentsPerYear + 1,
			Payment:          payment,
			Interest:         interest,
			Principal:        payment - interest,
			RemainingBalance: RemainingBalance(loan.Amount, loan.InterestRate, loan.AmortizationYears, made+1, loan.PaymentsPerYear),
		})
	}
	return schedule
}
