// Package config is the CLI surface collaborator of spec.md §6: it
// owns flag parsing only, never the subsystems it configures.
package config

import (
	"flag"
	"fmt"
)

// Config mirrors dark::Config from original_source/main.cpp: one or
// more assembly inputs plus the {debug, detail, timeout} options of
// spec.md §6.
type Config struct {
	Inputs  []string
	Debug   bool
	Detail  bool
	Timeout int
}

const defaultTimeout = 10_000_000

// Parse parses args (typically os.Args[1:]) into a Config. It is the Go
// analogue of dark::Config::parse(argc, argv).
func Parse(args []string) (*Config, error) {
	fs := flag.NewFlagSet("rvsim", flag.ContinueOnError)
	debug := fs.Bool("debug", false, "enable the single-step debug facility")
	detail := fs.Bool("detail", false, "print the section layout table after linking")
	timeout := fs.Int("timeout", defaultTimeout, "maximum number of instructions to retire before aborting")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	inputs := fs.Args()
	if len(inputs) == 0 {
		return nil, fmt.Errorf("no assembly source files given")
	}

	return &Config{
		Inputs:  inputs,
		Debug:   *debug,
		Detail:  *detail,
		Timeout: *timeout,
	}, nil
}
