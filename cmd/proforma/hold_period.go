package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/google/subcommands"

	"proforma-engine/domain"
	"proforma-engine/report"
	"proforma-engine/service"
)

type holdPeriodCmd struct {
	assumptionsFlag
	minYears   int
	maxYears   int
	preference string
}

func (*holdPeriodCmd) Name() string     { return "hold-period" }
func (*holdPeriodCmd) Synopsis() string { return "recommend how long to hold the property" }
func (*holdPeriodCmd) Usage() string {
	return `proforma hold-period -f <assumptions> [-min 3] [-max 15] [-pref balanced]

  Recalculates the deal for every hold period in the range and ranks them
  by IRR and equity multiple. Income series must cover the longest period.
`
}

func (c *holdPeriodCmd) SetFlags(f *flag.FlagSet) {
	c.assumptionsFlag.set(f)
	f.IntVar(&c.minYears, "min", 3, "Shortest hold period in years.")
	f.IntVar(&c.maxYears, "max", 15, "Longest hold period in years.")
	f.StringVar(&c.preference, "pref", string(domain.PreferBalanced), "maximize_irr, maximize_multiple or balanced.")
}

func (c *holdPeriodCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := DecodeAssumptions(c.file)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading assumptions: %v\n", err)
		return subcommands.ExitUsageError
	}

	svc, log, err := newProFormaService()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		return subcommands.ExitFailure
	}

	rec, err := service.NewHoldPeriodService(svc, log).Recommend(ctx, domain.HoldPeriodInput{
		Assumptions: a,
		MinYears:    c.minYears,
		MaxYears:    c.maxYears,
		Preference:  domain.HoldPeriodPreference(c.preference),
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	if *jsonOutput {
		if err := printJSON(rec); err != nil {
			fmt.Fprintf(os.Stderr, "Error encoding result: %v\n", err)
			return subcommands.ExitFailure
		}
		return subcommands.ExitSuccess
	}

	var b strings.Builder
	report.HoldPeriod(&b, rec)
	printMarkdown(b.String())
	return subcommands.ExitSuccess
}
