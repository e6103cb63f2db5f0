package main

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	flag "github.com/jessevdk/go-flags"
	"github.com/sirupsen/logrus"

	"github.com/Android-RU/Android-Logcat-Parser/adb"
	"github.com/Android-RU/Android-Logcat-Parser/parsers"
	"github.com/Android-RU/Android-Logcat-Parser/record"
	"github.com/Android-RU/Android-Logcat-Parser/tail"
)

// BuildID is set at build time
var BuildID string

// internal version identifier
var version string

// GlobalOptions has all the top level CLI flags that the logcat parser
// supports
type GlobalOptions struct {
	ConfigFile string `short:"c" long:"config" description:"Config file in INI format." no-ini:"true"`

	Debug          bool   `long:"debug" description:"Print debugging output"`
	StatusInterval uint   `long:"status_interval" description:"How frequently, in seconds, to print out summary info. 0 disables the summary" default:"0"`
	Format         string `short:"v" long:"format" description:"Logcat format (threadtime, time, epoch). With --input, 'auto' detects the format from the first recognizable line" default:"threadtime"`

	Sources SourceOptions `group:"Input Sources"`
	Modes   OtherModes    `group:"Other Modes"`

	ADB  adb.Options  `group:"ADB Options" namespace:"adb"`
	Tail tail.Options `group:"Tail Options" namespace:"tail"`

	Filters FilterOptions `group:"Filter Options"`
	Output  OutputOptions `group:"Output Options"`
}

// SourceOptions selects where raw lines come from. Exactly one of the two
// sources must be chosen.
type SourceOptions struct {
	ADB       bool   `long:"adb" description:"Stream live logs from a device via adb logcat"`
	InputFile string `short:"f" long:"input" description:"Log file to parse. Use '-' for STDIN"`
}

type FilterOptions struct {
	MinLevel   string   `short:"l" long:"min_level" description:"Minimum severity to pass (one of V, D, I, W, E, F)"`
	Tags       []string `short:"t" long:"tag" description:"Only pass records with this exact tag. May be specified multiple times"`
	Grep       string   `long:"grep" description:"Regular expression the message must match"`
	Contains   string   `long:"contains" description:"Substring the message must contain"`
	IgnoreCase bool     `short:"i" long:"ignore_case" description:"Case-insensitive matching for --grep and --contains"`
	Pid        *int     `long:"pid" description:"Only pass records with this exact pid"`
}

type OutputOptions struct {
	NoColor    bool   `long:"no_color" description:"Disable severity colors on console output"`
	JSON       string `long:"json" description:"Write records to this file as JSON, one object per record"`
	JSONIndent int    `long:"json_indent" description:"Pretty-print JSON objects with this indent width"`
	CSV        string `long:"csv" description:"Write records to this file as CSV"`
}

type OtherModes struct {
	Help               bool `short:"h" long:"help" description:"Show this help message"`
	Version            bool `short:"V" long:"version" description:"Show version"`
	WriteDefaultConfig bool `long:"write_default_config" description:"Write a default config file to STDOUT" no-ini:"true"`
	WriteCurrentConfig bool `long:"write_current_config" description:"Write out the current config to STDOUT" no-ini:"true"`
}

func main() {
	var options GlobalOptions
	flagParser := flag.NewParser(&options, flag.PrintErrors)
	flagParser.Usage = "--adb | --input </path/to/logfile> [optional arguments]"

	if extraArgs, err := flagParser.Parse(); err != nil || len(extraArgs) != 0 {
		fmt.Println("Error: failed to parse the command line.")
		if err != nil {
			fmt.Printf("\t%s\n", err)
		} else {
			fmt.Printf("\tUnexpected extra arguments: %s\n", strings.Join(extraArgs, " "))
		}
		usage()
		os.Exit(1)
	}
	// read the config file if present
	if options.ConfigFile != "" {
		ini := flag.NewIniParser(flagParser)
		ini.ParseAsDefaults = true
		if err := ini.ParseFile(options.ConfigFile); err != nil {
			fmt.Printf("Error: failed to parse the config file %s\n", options.ConfigFile)
			fmt.Printf("\t%s\n", err)
			usage()
			os.Exit(1)
		}
	}

	if options.Debug {
		logrus.SetLevel(logrus.DebugLevel)
	}

	setVersion()
	handleOtherModes(flagParser, options.Modes)
	sanityCheckOptions(&options)

	run(options)
}

// setVersion sets the internal version ID
func setVersion() {
	if BuildID == "" {
		version = "dev"
	} else {
		version = BuildID
	}
}

// handleOtherModes takes care of all flags that say we should just do
// something and exit rather than actually parsing logs
func handleOtherModes(fp *flag.Parser, modes OtherModes) {
	if modes.Version {
		fmt.Println("logcat-parser version", version)
		os.Exit(0)
	}
	if modes.Help {
		fp.WriteHelp(os.Stdout)
		fmt.Println("")
		os.Exit(0)
	}
	if modes.WriteDefaultConfig {
		ip := flag.NewIniParser(fp)
		ip.Write(os.Stdout, flag.IniIncludeDefaults|flag.IniCommentDefaults|flag.IniIncludeComments)
		os.Exit(0)
	}
	if modes.WriteCurrentConfig {
		ip := flag.NewIniParser(fp)
		ip.Write(os.Stdout, flag.IniIncludeComments)
		os.Exit(0)
	}
}

func sanityCheckOptions(options *GlobalOptions) {
	switch {
	case options.Sources.ADB && options.Sources.InputFile != "":
		fmt.Println("--adb and --input are mutually exclusive.")
		usage()
		os.Exit(1)
	case !options.Sources.ADB && options.Sources.InputFile == "":
		fmt.Println("One of --adb or --input is required.")
		usage()
		os.Exit(1)
	case options.Sources.ADB && options.Format == "auto":
		fmt.Println("Format auto-detection is only available with --input.")
		usage()
		os.Exit(1)
	case options.Sources.ADB && options.Tail.Follow:
		fmt.Println("--tail.follow is only available with --input.")
		usage()
		os.Exit(1)
	}

	if options.Format != "auto" {
		if _, ok := parsers.FormatFromName(options.Format); !ok {
			fmt.Printf("Unknown format %q. Valid formats: threadtime, time, epoch"+
				" (or auto with --input).\n", options.Format)
			usage()
			os.Exit(1)
		}
	}

	if options.Filters.MinLevel != "" {
		if _, ok := record.LevelFromLetter(options.Filters.MinLevel); !ok {
			fmt.Printf("Unknown level %q for --min_level. Valid levels: V D I W E F.\n",
				options.Filters.MinLevel)
			usage()
			os.Exit(1)
		}
	}

	// check the grep regex for validity
	if options.Filters.Grep != "" {
		if _, err := regexp.Compile(options.Filters.Grep); err != nil {
			fmt.Printf("Grep regex %s doesn't compile: error %s\n", options.Filters.Grep, err)
			usage()
			os.Exit(1)
		}
	}

	// Make sure the input file exists
	if f := options.Sources.InputFile; f != "" && f != "-" {
		if _, err := os.Stat(f); err != nil {
			fmt.Printf("Log file specified by --input=%s not found!\n", f)
			usage()
			os.Exit(1)
		}
	}
}

func usage() {
	fmt.Print(`
Usage: logcat-parser --adb | --input </path/to/logfile> [optional arguments]

For even more detail on required and optional parameters, run
logcat-parser --help
`)
}
