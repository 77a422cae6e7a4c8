package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/google/subcommands"

	"proforma-engine/engine"
	"proforma-engine/report"
)

type validateCmd struct {
	assumptionsFlag
}

func (*validateCmd) Name() string     { return "validate" }
func (*validateCmd) Synopsis() string { return "check assumptions for violations and missing inputs" }
func (*validateCmd) Usage() string {
	return `proforma validate -f <assumptions>

  Lists every violation and missing input. Exits non-zero when there is
  any violation.
`
}

func (c *validateCmd) SetFlags(f *flag.FlagSet) {
	c.assumptionsFlag.set(f)
}

type validation struct {
	Violations []string `json:"violations"`
	Ready      bool     `json:"ready"`
	Missing    []string `json:"missing"`
}

func (c *validateCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := DecodeAssumptions(c.file)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading assumptions: %v\n", err)
		return subcommands.ExitUsageError
	}

	violations := engine.Validate(a)
	readiness := engine.CheckReadiness(a)

	if *jsonOutput {
		if err := printJSON(validation{Violations: violations, Ready: readiness.Ready, Missing: readiness.Missing}); err != nil {
			fmt.Fprintf(os.Stderr, "Error encoding result: %v\n", err)
			return subcommands.ExitFailure
		}
	} else {
		var b strings.Builder
		report.Validation(&b, violations, readiness)
		printMarkdown(b.String())
	}

	if len(violations) > 0 {
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
