package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/google/subcommands"
	"gopkg.in/yaml.v2"

	"proforma-engine/config"
	"proforma-engine/domain"
	"proforma-engine/logger"
	"proforma-engine/service"
)

// Register the subcommands.
func Register(c *subcommands.Commander) {
	c.Register(&calculateCmd{}, "analysis")
	c.Register(&sensitivityCmd{}, "analysis")
	c.Register(&scheduleCmd{}, "analysis")
	c.Register(&holdPeriodCmd{}, "analysis")
	c.Register(&validateCmd{}, "assumptions")
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var (
	configFile = flag.String("config", "", "Path to a config file. Defaults to config.yaml in ./configs or the working directory")
	rawOutput  = flag.Bool("raw", false, "Print plain markdown instead of styled terminal output")
	jsonOutput = flag.Bool("json", false, "Print results as JSON")
	strict     = flag.Bool("strict", false, "Refuse to calculate assumptions with violations")
)

var stdout io.Writer = os.Stdout

// loadConfig falls back to defaults when no config file exists.
func loadConfig() (*config.Config, error) {
	if *configFile != "" {
		return config.LoadFromFile(*configFile)
	}
	return config.Load()
}

// newProFormaService builds the service the way the server does, minus the
// shared cache.
func newProFormaService() (*service.ProFormaService, logger.Logger, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	log := logger.NewStructured(cfg.Logging.Level, "console")

	opts := service.OptionsFromConfig(cfg.Engine)
	opts.StrictValidation = opts.StrictValidation || *strict
	return service.NewProFormaService(nil, log, opts), log, nil
}

// DecodeAssumptions reads an assumptions file. YAML and JSON are told apart
// by extension; "-" reads JSON from stdin.
func DecodeAssumptions(name string) (domain.Assumptions, error) {
	var a domain.Assumptions
	if name == "" {
		return a, fmt.Errorf("no assumptions file given, use -f")
	}

	var (
		data []byte
		err  error
	)
	if name == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(name)
	}
	if err != nil {
		return a, err
	}

	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml":
		err = yaml.UnmarshalStrict(data, &a)
	default:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		err = dec.Decode(&a)
	}
	if err != nil {
		return a, fmt.Errorf("decode %s: %w", name, err)
	}
	return a, nil
}

// printMarkdown renders markdown for the terminal unless -raw is set.
func printMarkdown(md string) {
	if *rawOutput {
		fmt.Fprint(stdout, md)
		return
	}

	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(120))
	if err == nil {
		var out string
		if out, err = r.Render(md); err == nil {
			fmt.Fprint(stdout, out)
			return
		}
	}
	fmt.Fprint(stdout, md)
}

func printJSON(v interface{}) error {
	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// assumptionsFlag is the -f flag every subcommand shares.
type assumptionsFlag struct {
	file string
}

func (a *assumptionsFlag) set(f *flag.FlagSet) {
	f.StringVar(&a.file, "f", "", "Assumptions file (.yaml, .yml or .json); - reads JSON from stdin")
}
