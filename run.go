package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Android-RU/Android-Logcat-Parser/adb"
	"github.com/Android-RU/Android-Logcat-Parser/filters"
	"github.com/Android-RU/Android-Logcat-Parser/parsers"
	"github.com/Android-RU/Android-Logcat-Parser/record"
	"github.com/Android-RU/Android-Logcat-Parser/sinks"
	"github.com/Android-RU/Android-Logcat-Parser/tail"
)

// run drives the whole pipeline: source -> detect -> parse -> filter ->
// fan-out. It returns once the source is exhausted or the operator
// interrupts; either way every sink gets a close pass first.
func run(options GlobalOptions) {
	logrus.Debug("Starting logcat parser")

	stats := newPipelineStats()

	sigs := make(chan os.Signal, 1)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)

	// set up our signal handler and support canceling
	go func() {
		sig := <-sigs
		fmt.Fprintf(os.Stderr, "Stopping! Caught signal \"%s\"\n", sig)
		cancel()
		// and if they insist, catch a second CTRL-C or timeout on 10sec
		select {
		case <-sigs:
			fmt.Fprintf(os.Stderr, "Caught second signal... Aborting.\n")
			os.Exit(1)
		case <-time.After(10 * time.Second):
			fmt.Fprintf(os.Stderr, "Taking too long... Aborting.\n")
			os.Exit(1)
		}
	}()

	// get our lines channel from which to read log lines
	var (
		lines chan string
		err   error
	)
	if options.Sources.ADB {
		if options.ADB.Clear {
			adb.ClearBuffer(ctx, options.ADB, options.Format)
		}
		lines, err = adb.GetLines(ctx, options.ADB, options.Format)
		if err != nil {
			logrus.WithFields(logrus.Fields{"err": err}).Fatal(
				"Error occurred while trying to launch adb logcat")
		}
	} else {
		lines, err = tail.GetLines(ctx, tail.Config{
			Path:    options.Sources.InputFile,
			Options: options.Tail,
		})
		if err != nil {
			logrus.WithFields(logrus.Fields{"err": err}).Fatal(
				"Error occurred while trying to read logfile")
		}
	}

	// settle the wire format. In file-auto mode this pulls lines off the
	// source until one of them is recognizable; the pulled lines are replayed
	// through the pipeline afterwards so nothing is lost.
	format, probed, interrupted := settleFormat(ctx, options, lines)
	if interrupted {
		logrus.Debug("interrupted during format detection, shutting down")
		return
	}
	if format == parsers.Unknown {
		logrus.Fatal("Could not determine the log format from the input")
	}
	logrus.WithFields(logrus.Fields{"format": format}).Debug("wire format settled")

	chain := buildFilterChain(options.Filters)

	fanout := buildSinks(options.Output)

	go logStats(stats, options.StatusInterval)

	process := func(line string) {
		stats.countLine()
		rec, ok := parsers.Parse(line, format)
		if !ok {
			// malformed lines are expected in live streams; skip, never abort
			stats.countParseSkip()
			return
		}
		if !chain.Match(rec) {
			stats.countFiltered()
			return
		}
		stats.countEmitted(rec)
		fanout.Write(rec)
	}

	for _, line := range probed {
		process(line)
	}

loop:
	for {
		select {
		case <-ctx.Done():
			break loop
		case line, ok := <-lines:
			if !ok {
				break loop
			}
			process(line)
		}
	}

	// best-effort close pass over every sink, interruption included
	fanout.Close()
	stats.logFinal()
	logrus.Debug("logcat parser is all done, goodbye!")
}

// settleFormat resolves which grammar the pipeline will parse with. Outside
// of file-auto mode that's just the --format flag. In file-auto mode lines
// are pulled until one matches a known grammar; every pulled line is returned
// for replay. An exhausted source yields Unknown; a canceled context yields
// interrupted.
func settleFormat(ctx context.Context, options GlobalOptions, lines chan string) (parsers.Format, []string, bool) {
	if options.Format != "auto" {
		f, _ := parsers.FormatFromName(options.Format)
		return f, nil, false
	}

	var probed []string
	for {
		select {
		case <-ctx.Done():
			return parsers.Unknown, probed, true
		case line, ok := <-lines:
			if !ok {
				return parsers.Unknown, probed, false
			}
			probed = append(probed, line)
			if f := parsers.Detect(line); f != parsers.Unknown {
				return f, probed, false
			}
		}
	}
}

// buildFilterChain turns the filter flags into the AND chain applied to
// every record. Flags that weren't set impose no constraint.
func buildFilterChain(opts FilterOptions) *filters.Chain {
	chain := &filters.Chain{}
	if opts.MinLevel != "" {
		min, _ := record.LevelFromLetter(opts.MinLevel) // validated at startup
		chain.Add(&filters.MinLevel{Min: min})
	}
	if len(opts.Tags) != 0 {
		chain.Add(filters.NewTagSet(opts.Tags))
	}
	if opts.Grep != "" {
		f, err := filters.NewRegex(opts.Grep, opts.IgnoreCase)
		if err != nil {
			// validated at startup; only reachable via a broken config file
			logrus.WithFields(logrus.Fields{"grep": opts.Grep, "err": err}).Fatal(
				"Failed to compile the --grep regex")
		}
		chain.Add(f)
	}
	if opts.Contains != "" {
		chain.Add(filters.NewSubstring(opts.Contains, opts.IgnoreCase))
	}
	if opts.Pid != nil {
		chain.Add(&filters.Pid{Pid: *opts.Pid})
	}
	return chain
}

// buildSinks registers the console sink plus any requested file sinks.
// Console output is always on; file sinks never displace it.
func buildSinks(opts OutputOptions) *sinks.Fanout {
	fanout := &sinks.Fanout{}
	fanout.Add(sinks.NewConsole(opts.NoColor))
	if opts.JSON != "" {
		j, err := sinks.NewJSONLines(opts.JSON, opts.JSONIndent)
		if err != nil {
			logrus.WithFields(logrus.Fields{"file": opts.JSON, "err": err}).Fatal(
				"Failed to open the JSON output file")
		}
		fanout.Add(j)
	}
	if opts.CSV != "" {
		c, err := sinks.NewCSV(opts.CSV)
		if err != nil {
			logrus.WithFields(logrus.Fields{"file": opts.CSV, "err": err}).Fatal(
				"Failed to open the CSV output file")
		}
		fanout.Add(c)
	}
	return fanout
}
