package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/subcommands"

	"proforma-engine/report"
)

type calculateCmd struct {
	assumptionsFlag
	title     string
	unlevered bool
}

func (*calculateCmd) Name() string     { return "calculate" }
func (*calculateCmd) Synopsis() string { return "project cash flows, sale and returns of a deal" }
func (*calculateCmd) Usage() string {
	return `proforma calculate -f <assumptions> [-title <title>] [-unlevered]

  Runs the full pro forma: annual cash flows, sale proceeds, IRR, NPV and
  equity multiple.
`
}

func (c *calculateCmd) SetFlags(f *flag.FlagSet) {
	c.assumptionsFlag.set(f)
	f.StringVar(&c.title, "title", "", "Report title. Defaults to the file name.")
	f.BoolVar(&c.unlevered, "unlevered", false, "Calculate the deal bought all cash.")
}

func (c *calculateCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := DecodeAssumptions(c.file)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading assumptions: %v\n", err)
		return subcommands.ExitUsageError
	}
	if c.unlevered {
		a = a.WithoutFinancing()
	}

	svc, _, err := newProFormaService()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		return subcommands.ExitFailure
	}

	out, err := svc.Calculate(ctx, a)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	if *jsonOutput {
		if err := printJSON(out); err != nil {
			fmt.Fprintf(os.Stderr, "Error encoding result: %v\n", err)
			return subcommands.ExitFailure
		}
		return subcommands.ExitSuccess
	}

	title := c.title
	if title == "" {
		title = strings.TrimSuffix(filepath.Base(c.file), filepath.Ext(c.file))
	}

	var b strings.Builder
	report.ProForma(&b, title, out)
	printMarkdown(b.String())

	if !out.OK() {
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
