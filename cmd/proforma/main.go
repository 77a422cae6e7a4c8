// Command proforma runs pro forma calculations on an assumptions file.
package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/google/subcommands"
)

func main() {
	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	Register(commander)

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}
