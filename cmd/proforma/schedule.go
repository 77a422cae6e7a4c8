package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/google/subcommands"

	"proforma-engine/report"
)

type scheduleCmd struct {
	assumptionsFlag
	byPeriod bool
}

func (*scheduleCmd) Name() string     { return "schedule" }
func (*scheduleCmd) Synopsis() string { return "print the loan amortization schedule" }
func (*scheduleCmd) Usage() string {
	return `proforma schedule -f <assumptions> [-periods]

  Prints the amortization schedule of the loan the assumptions resolve to,
  summed per year unless -periods is set.
`
}

func (c *scheduleCmd) SetFlags(f *flag.FlagSet) {
	c.assumptionsFlag.set(f)
	f.BoolVar(&c.byPeriod, "periods", false, "One row per payment instead of per year.")
}

func (c *scheduleCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := DecodeAssumptions(c.file)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading assumptions: %v\n", err)
		return subcommands.ExitUsageError
	}

	svc, _, err := newProFormaService()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		return subcommands.ExitFailure
	}

	schedule, err := svc.Amortization(ctx, a)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	if *jsonOutput {
		if err := printJSON(schedule); err != nil {
			fmt.Fprintf(os.Stderr, "Error encoding result: %v\n", err)
			return subcommands.ExitFailure
		}
		return subcommands.ExitSuccess
	}

	var b strings.Builder
	report.Schedule(&b, schedule, c.byPeriod)
	printMarkdown(b.String())
	return subcommands.ExitSuccess
}
