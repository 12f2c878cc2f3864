// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// respack builds a resource pack from the files listed in a manifest.
//
// Each manifest entry names a logical ID, a source file relative to the
// manifest, and a compression mode (NONE or LZ77). respack keeps a
// generated artifact (<stem>.bin) next to every source, regenerating it
// only when the source is newer, and then writes all artifacts into a
// single "smpr" pack in manifest order.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/respack/lib/packer"
	"github.com/bureau-foundation/respack/lib/version"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	if err != nil {
		// run has already printed the failure line.
		os.Exit(1)
	}
}

// config is the parsed command line.
type config struct {
	options     packer.Options
	noColor     bool
	verbose     bool
	showVersion bool
	showHelp    bool
}

// parseArgs parses the command line. The only positional argument is
// the pack path.
func parseArgs(args []string) (*config, *pflag.FlagSet, error) {
	var cfg config
	flagSet := pflag.NewFlagSet("respack", pflag.ContinueOnError)
	flagSet.SetOutput(io.Discard)
	flagSet.StringVarP(&cfg.options.ManifestPath, "manifest", "m", packer.DefaultManifestPath, "manifest listing the resources to pack (YAML, or JSON/JSONC by extension)")
	flagSet.IntVarP(&cfg.options.Jobs, "jobs", "j", 0, "artifact generation workers (default: number of CPUs)")
	flagSet.BoolVar(&cfg.options.Force, "force", false, "regenerate every artifact regardless of freshness")
	flagSet.BoolVar(&cfg.options.SkipMissing, "skip-missing", false, "omit resources whose source file is missing instead of failing")
	flagSet.BoolVar(&cfg.options.Verify, "verify", false, "re-read the written pack and decode every resource")
	flagSet.StringVar(&cfg.options.ReportPath, "report", "", "write a CBOR build report to this path")
	flagSet.BoolVar(&cfg.noColor, "no-color", false, "disable styled console output")
	flagSet.BoolVarP(&cfg.verbose, "verbose", "v", false, "enable debug logging")
	flagSet.BoolVar(&cfg.showVersion, "version", false, "print version information and exit")
	flagSet.BoolVarP(&cfg.showHelp, "help", "h", false, "show help")

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			cfg.showHelp = true
			return &cfg, flagSet, nil
		}
		return nil, flagSet, err
	}

	positional := flagSet.Args()
	switch len(positional) {
	case 0:
		cfg.options.PackPath = packer.DefaultPackPath
	case 1:
		cfg.options.PackPath = positional[0]
	default:
		return nil, flagSet, fmt.Errorf("expected at most one pack path, got %d arguments", len(positional))
	}
	return &cfg, flagSet, nil
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	cfg, flagSet, err := parseArgs(args)
	if err != nil {
		newConsole(stderr, false).Failure(err)
		return err
	}
	if cfg.showHelp {
		printHelp(stdout, flagSet)
		return nil
	}
	if cfg.showVersion {
		version.Fprint(stdout, "respack")
		return nil
	}

	cfg.options.Logger = newLogger(stderr, cfg.verbose)
	result, err := packer.Build(ctx, cfg.options)
	if err != nil {
		newConsole(stderr, cfg.noColor).Failure(err)
		return err
	}
	newConsole(stdout, cfg.noColor).Success(result)
	return nil
}

func printHelp(w io.Writer, flagSet *pflag.FlagSet) {
	fmt.Fprintf(w, `respack builds a resource pack from the files listed in a manifest.

Artifacts (<stem>.bin next to each source) are regenerated only when
missing or older than their source. The pack lists resources in
manifest order.

Usage:
  respack [flags] [pack]     (pack defaults to %s)

Examples:
  # Build pack.smr from .manifest.yaml
  respack

  # Rebuild everything, verify, and write a report
  respack --force --verify --report build.cbor assets.smr

Flags:
`, packer.DefaultPackPath)
	flagSet.SetOutput(w)
	flagSet.PrintDefaults()
}
