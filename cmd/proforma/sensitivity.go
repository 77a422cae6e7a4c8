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

type sensitivityCmd struct {
	assumptionsFlag
}

func (*sensitivityCmd) Name() string     { return "sensitivity" }
func (*sensitivityCmd) Synopsis() string { return "recalculate returns under shifted assumptions" }
func (*sensitivityCmd) Usage() string {
	return `proforma sensitivity -f <assumptions>

  Shifts the exit cap rate, rent growth and interest rate one at a time
  and reports IRR and equity multiple for each shift. Step sizes come from
  the engine section of the configuration.
`
}

func (c *sensitivityCmd) SetFlags(f *flag.FlagSet) {
	c.assumptionsFlag.set(f)
}

func (c *sensitivityCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
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

	analysis, err := svc.Sensitivity(ctx, a)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	if *jsonOutput {
		if err := printJSON(analysis); err != nil {
			fmt.Fprintf(os.Stderr, "Error encoding result: %v\n", err)
			return subcommands.ExitFailure
		}
		return subcommands.ExitSuccess
	}

	var b strings.Builder
	report.Sensitivity(&b, analysis)
	printMarkdown(b.String())
	return subcommands.ExitSuccess
}
