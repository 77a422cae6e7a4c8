package engine

import "proforma-engine/domain"

// Projection is the annual series plus the depreciation taken over it.
type Projection struct {
	Years                  []domain.AnnualCashflow
	CumulativeDepreciation float64
}

// Final returns the last projected year.
func (p Projection) Final() domain.AnnualCashflow {
	if len(p.Years) == 0 {
		return domain.AnnualCashflow{}
	}
	return p.Years[len(p.Years)-1]
}

// Project builds one AnnualCashflow per hold-period year. Nothing is carried
// between years except the running depreciation total; loan balance and
// interest come from the closed-form amortization functions.
func Project(a domain.Assumptions, income IncomeModel, loan domain.LoanTerms) Projection {
	hold := a.HoldPeriodYears
	if hold < 0 {
		hold = 0
	}

	p := Projection{Years: make([]domain.AnnualCashflow, 0, hold)}
	basis := DepreciableBasis(a)
	recovery := RecoveryPeriod(a)
	payment := PeriodicPayment(loan.Amount, loan.InterestRate, loan.AmortizationYears, loan.PaymentsPerYear)

	for year := 1; year <= hold; year++ {
		cf := projectYear(a, income.Year(year), loan, payment, basis, recovery, year)
		p.CumulativeDepreciation += cf.Depreciation
		p.Years = append(p.Years, cf)
	}
	return p
}

func projectYear(a domain.Assumptions, inc YearIncome, loan domain.LoanTerms, payment, basis, recovery float64, year int) domain.AnnualCashflow {
	// 1-2. Income and NOI
	noi := inc.NOI

	// 3. Debt
	interest := AnnualInterestExpense(loan.Amount, loan.InterestRate, loan.AmortizationYears, year, loan.PaymentsPerYear)
	debtService := payment * float64(paymentsInYear(loan.AmortizationYears, year, loan.PaymentsPerYear))
	principal := debtService - interest

	// 4. Before-tax cash flow
	beforeTax := noi - debtService

	// 5-6. Non-cash deductions
	depreciation := Depreciation(basis, recovery, year)
	loanCosts := LoanCostAmortization(loan.TotalLoanCosts, loan.TermYears, year)

	// 7. Taxes; negative taxes are a shield against other income
	taxable := noi - depreciation - interest - loanCosts
	taxes := taxable * a.OrdinaryIncomeTaxRate

	// 8-9. After-tax cash flow and closing balance
	afterTax := beforeTax - taxes
	balance := RemainingBalance(loan.Amount, loan.InterestRate, loan.AmortizationYears, year*loan.PaymentsPerYear, loan.PaymentsPerYear)

	var dscr float64
	if debtService > 0 {
		dscr = noi / debtService
	}

	return domain.AnnualCashflow{
		Year:                 year,
		GrossIncome:          inc.GrossIncome,
		EffectiveGrossIncome: inc.EffectiveGrossIncome,
		OperatingExpenses:    inc.OperatingExpenses,
		NOI:                  noi,
		DebtService:          debtService,
		InterestExpense:      interest,
		PrincipalPayment:     principal,
		BeforeTaxCashflow:    beforeTax,
		Depreciation:         depreciation,
		LoanCostAmortization: loanCosts,
		TaxableIncome:        taxable,
		Taxes:                taxes,
		AfterTaxCashflow:     afterTax,
		LoanBalance:          balance,
		DebtServiceCoverage:  dscr,
	}
}
