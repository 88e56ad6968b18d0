// Tubular CLI - parses, validates, and runs Tubular programs.
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/tliron/commonlog"

	"github.com/chazu/tubular/interp"
	"github.com/chazu/tubular/manifest"
	"github.com/chazu/tubular/parser"
	"github.com/chazu/tubular/report"

	_ "github.com/tliron/commonlog/simple"
)

var log = commonlog.GetLogger("tubular.cli")

func main() {
	verbose := flag.Bool("v", false, "Verbose output")
	trace := flag.Bool("trace", false, "Record a per-tick droplet trace in the report")
	ticks := flag.Uint64("ticks", 0, "Maximum number of ticks (0 = unlimited)")
	maxTime := flag.Duration("max-time", 0, "Maximum wall-clock time (0 = unlimited)")
	input := flag.String("input", "", "Program input for ? and ?? operators")
	validateOnly := flag.Bool("validate", false, "Validate the program without executing it")
	strict := flag.Bool("strict", false, "Enable heuristic warnings during validation")
	format := flag.String("format", "", "Report format: table, json, or cbor")
	reportPath := flag.String("report", "", "Write the encoded run report to a file")
	noManifest := flag.Bool("no-manifest", false, "Skip loading tubular.toml")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: tubular [options] [program.tub]\n\n")
		fmt.Fprintf(os.Stderr, "Runs a Tubular program. With no file argument the program named in\n")
		fmt.Fprintf(os.Stderr, "tubular.toml is used.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  tubular hello.tub                # Run a program\n")
		fmt.Fprintf(os.Stderr, "  tubular -v --ticks 10000 x.tub   # Bounded, chatty run\n")
		fmt.Fprintf(os.Stderr, "  tubular --validate --strict x.tub\n")
		fmt.Fprintf(os.Stderr, "  tubular --format json --report out.json x.tub\n")
	}
	flag.Parse()

	// Manifest values fill in whatever flags were left at their defaults.
	var mf *manifest.Manifest
	if !*noManifest {
		var err error
		mf, err = manifest.FindAndLoad(".")
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}
	if mf != nil {
		if *ticks == 0 {
			*ticks = mf.Limits.MaxTicks
		}
		if *maxTime == 0 {
			*maxTime = time.Duration(mf.Limits.MaxTimeMS) * time.Millisecond
		}
		if !*verbose {
			*verbose = mf.Output.Verbose
		}
		if !*trace {
			*trace = mf.Output.Trace
		}
		if *format == "" {
			*format = mf.Output.Format
		}
		if *input == "" {
			*input = mf.Input.Text
		}
	}

	verbosity := 0
	if *verbose {
		verbosity = 2
	}
	commonlog.Configure(verbosity, nil)

	file := flag.Arg(0)
	if file == "" && mf != nil {
		file = mf.ProgramPath()
	}
	if file == "" {
		flag.Usage()
		os.Exit(1)
	}

	grid, err := parser.ParseFile(file)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	warns, err := parser.Validate(grid, *strict)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s: %v\n", file, err)
		os.Exit(1)
	}
	for _, w := range warns {
		fmt.Fprintf(os.Stderr, "Warning: %s: %s\n", file, w)
	}
	if *validateOnly {
		if *verbose {
			b := grid.Bounds()
			log.Infof("%s: %d cells, %dx%d, %d warnings",
				file, grid.Len(), b.Width(), b.Height(), len(warns))
		}
		fmt.Printf("%s: ok\n", file)
		return
	}

	engine, err := interp.NewEngine(grid)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s: %v\n", file, err)
		os.Exit(1)
	}
	engine.SetLimits(interp.Limits{MaxTicks: *ticks, MaxWall: *maxTime})
	engine.SetVerbose(*verbose)
	engine.SetOutput(os.Stdout)
	if *input != "" {
		engine.SetInput(strings.NewReader(*input))
	}

	run := &report.Run{}
	if *trace {
		engine.SetTrace(true)
		engine.SetTraceFunc(run.Record)
	}

	result, err := engine.Run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	traceEntries := run.Trace
	run = report.FromResult(file, result)
	run.Trace = traceEntries

	if *reportPath != "" || *verbose || (*format != "" && *format != "table") {
		encoded, err := report.Encode(run, *format)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		if *reportPath != "" {
			if err := os.WriteFile(*reportPath, encoded, 0644); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(1)
			}
		} else if *format == "table" || *format == "" {
			fmt.Fprintf(os.Stderr, "\n%s", encoded)
		} else {
			os.Stdout.Write(encoded)
		}
	}

	switch result.Status {
	case interp.StatusTickTimeout, interp.StatusWallTimeout:
		fmt.Fprintf(os.Stderr, "tubular: %s after %d ticks\n", result.Status, result.Ticks)
		os.Exit(2)
	case interp.StatusFailed:
		os.Exit(1)
	}
}
