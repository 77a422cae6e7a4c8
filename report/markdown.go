package report

import (
	"fmt"
	"io"
	"strings"

	"proforma-engine/domain"
)

// ProForma writes the full pro forma of one outcome as markdown.
func ProForma(w io.Writer, title string, out domain.Outcome) {
	r := out.Results

	fmt.Fprintf(w, "# %s\n\n", title)
	if !out.OK() {
		fmt.Fprintf(w, "> **%s**: %s\n\n", out.Status, out.Reason)
	}

	fmt.Fprint(w, "## Returns\n\n")
	fmt.Fprintln(w, "| Metric | Value |")
	fmt.Fprintln(w, "|:---|---:|")
	fmt.Fprintf(w, "| After-tax IRR | %s |\n", Rate(r.IRR))
	fmt.Fprintf(w, "| Before-tax IRR | %s |\n", Rate(r.BeforeTaxIRR))
	fmt.Fprintf(w, "| Unlevered IRR | %s |\n", Rate(r.UnleveredIRR))
	fmt.Fprintf(w, "| NPV | %s |\n", Money(r.NPV))
	fmt.Fprintf(w, "| Equity multiple | %s |\n", Multiple(r.EquityMultiple))
	fmt.Fprintf(w, "| Average cash-on-cash | %s |\n", Percent(r.AverageCashOnCash))
	fmt.Fprintf(w, "| Year 1 DSCR | %s |\n", Ratio(r.Year1DSCR))
	fmt.Fprintf(w, "| Equity invested | %s |\n", Money(r.TotalEquityInvested))
	fmt.Fprintf(w, "| Total cash returned | %s |\n", Money(r.TotalCashReturned))
	fmt.Fprintf(w, "| Net profit | %s |\n", SignedMoney(r.NetProfit))
	fmt.Fprintf(w, "| Tax shield | %s |\n\n", Money(r.TotalTaxShield))

	if r.Loan.Amount > 0 {
		fmt.Fprint(w, "## Financing\n\n")
		fmt.Fprintf(w, "%s at %s, %d year term amortizing over %d years, %d payments per year. Loan costs %s.\n\n",
			Money(r.Loan.Amount), Percent(r.Loan.InterestRate), r.Loan.TermYears,
			r.Loan.AmortizationYears, r.Loan.PaymentsPerYear, Money(r.Loan.TotalLoanCosts))
	}

	if len(r.AnnualCashflows) > 0 {
		fmt.Fprint(w, "## Annual Cash Flows\n\n")
		fmt.Fprintln(w, "| Year | NOI | Debt Service | BTCF | Depreciation | Taxes | ATCF | DSCR |")
		fmt.Fprintln(w, "|---:|---:|---:|---:|---:|---:|---:|---:|")
		for _, cf := range r.AnnualCashflows {
			fmt.Fprintf(w, "| %d | %s | %s | %s | %s | %s | %s | %s |\n",
				cf.Year, Money(cf.NOI), Money(cf.DebtService), Money(cf.BeforeTaxCashflow),
				Money(cf.Depreciation), Money(cf.Taxes), Money(cf.AfterTaxCashflow), Ratio(cf.DebtServiceCoverage))
		}
		fmt.Fprintln(w)
	}

	s := r.SaleProceeds
	fmt.Fprint(w, "## Sale\n\n")
	fmt.Fprintln(w, "| Item | Amount |")
	fmt.Fprintln(w, "|:---|---:|")
	fmt.Fprintf(w, "| Sale price | %s |\n", Money(s.SalePrice))
	fmt.Fprintf(w, "| Selling costs | %s |\n", Money(s.SellingCosts))
	fmt.Fprintf(w, "| Loan payoff | %s |\n", Money(s.LoanBalance))
	fmt.Fprintf(w, "| Before-tax proceeds | %s |\n", Money(s.BeforeTaxProceeds))
	fmt.Fprintf(w, "| Capital gains | %s |\n", Money(s.CapitalGains))
	fmt.Fprintf(w, "| Depreciation recapture | %s |\n", Money(s.DepreciationRecapture))
	fmt.Fprintf(w, "| Taxes on sale | %s |\n", Money(s.CapitalGainsTax+s.RecaptureTax))
	fmt.Fprintf(w, "| **After-tax proceeds** | **%s** |\n", Money(s.AfterTaxProceeds))
}

var dimensionTitles = map[domain.SensitivityDimension]string{
	domain.SensitivityExitCapRate:  "Exit Cap Rate",
	domain.SensitivityRentGrowth:   "Rent Growth",
	domain.SensitivityInterestRate: "Interest Rate",
}

// Sensitivity writes one table per perturbed dimension.
func Sensitivity(w io.Writer, analysis domain.SensitivityAnalysis) {
	fmt.Fprint(w, "# Sensitivity Analysis\n\n")
	fmt.Fprintf(w, "Base case: IRR %s, equity multiple %s.\n\n",
		Rate(analysis.Base.Results.IRR), Multiple(analysis.Base.Results.EquityMultiple))

	if len(analysis.Tables) == 0 {
		fmt.Fprintln(w, "No dimension applies to these assumptions.")
		return
	}

	for _, t := range analysis.Tables {
		fmt.Fprintf(w, "## %s\n\n", dimensionTitles[t.Dimension])
		fmt.Fprintln(w, "| Shift | Input | IRR | Multiple | Sale Price | Loan |")
		fmt.Fprintln(w, "|:---|---:|---:|---:|---:|---:|")
		for _, row := range t.Rows {
			fmt.Fprintf(w, "| %s | %s | %s | %s | %s | %s |\n",
				row.Label, Percent(row.InputValue), Rate(row.IRR), Multiple(row.EquityMultiple),
				Money(row.SalePrice), Money(row.LoanAmount))
		}
		fmt.Fprintln(w)
	}
}

// Schedule writes the amortization schedule, one row per year, or per
// payment period when byPeriod is set.
func Schedule(w io.Writer, schedule domain.AmortizationSchedule, byPeriod bool) {
	fmt.Fprint(w, "# Amortization Schedule\n\n")
	if len(schedule.Periods) == 0 {
		fmt.Fprintln(w, "No loan.")
		return
	}

	fmt.Fprintf(w, "Payment %s, %d payments per year, total interest %s.\n\n",
		Money(schedule.PeriodicPayment), schedule.Loan.PaymentsPerYear, Money(schedule.TotalInterest))

	label := "Year"
	if byPeriod {
		label = "Period"
	}
	fmt.Fprintf(w, "| %s | Payment | Interest | Principal | Balance |\n", label)
	fmt.Fprintln(w, "|---:|---:|---:|---:|---:|")

	if byPeriod {
		for _, p := range schedule.Periods {
			fmt.Fprintf(w, "| %d | %s | %s | %s | %s |\n",
				p.Period, Money(p.Payment), Money(p.Interest), Money(p.Principal), Money(p.RemainingBalance))
		}
		return
	}

	var payment, interest, principal float64
	for i, p := range schedule.Periods {
		payment += p.Payment
		interest += p.Interest
		principal += p.Principal
		if i == len(schedule.Periods)-1 || schedule.Periods[i+1].Year != p.Year {
			fmt.Fprintf(w, "| %d | %s | %s | %s | %s |\n",
				p.Year, Money(payment), Money(interest), Money(principal), Money(p.RemainingBalance))
			payment, interest, principal = 0, 0, 0
		}
	}
}

func HoldPeriod(w io.Writer, rec domain.HoldPeriodRecommendation) {
	fmt.Fprint(w, "# Hold Period\n\n")
	fmt.Fprintf(w, "Recommended: **%d years**.\n\n", rec.RecommendedYears)
	if len(rec.Options) > 0 {
		fmt.Fprintf(w, "%s.\n\n", rec.Options[0].Reason)
	}

	fmt.Fprintln(w, "| Years | IRR | Multiple | NPV | Score |")
	fmt.Fprintln(w, "|---:|---:|---:|---:|---:|")
	for _, o := range rec.Options {
		fmt.Fprintf(w, "| %d | %s | %s | %s | %.2f |\n",
			o.HoldYears, Percent(o.IRR), Multiple(o.EquityMultiple), Money(o.NPV), o.Score)
	}
}

// Validation writes the violations and the readiness of a set of
// assumptions.
func Validation(w io.Writer, violations []string, readiness domain.Readiness) {
	fmt.Fprint(w, "# Validation\n\n")
	if len(violations) == 0 {
		fmt.Fprintln(w, "No violations.")
	} else {
		for _, v := range violations {
			fmt.Fprintf(w, "- %s\n", v)
		}
	}
	fmt.Fprintln(w)

	if readiness.Ready {
		fmt.Fprintln(w, "Ready to calculate.")
		return
	}
	fmt.Fprintf(w, "Missing before a calculation is meaningful: `%s`.\n", strings.Join(readiness.Missing, "`, `"))
}
