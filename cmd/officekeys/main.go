// Command officekeys compiles Office-style shortcut mappings into LibreOffice
// accelerator configuration packages and checks generated packages for
// problems.
//
// Usage:
//
//	officekeys [-config path] [-log-level level] <command> [args]
//
// Examples:
//
//	# Build every configured profile into the dist directory
//	officekeys generate-all
//
//	# Build a single package
//	officekeys generate -map mappings/writer.json -defaults defaults/writer.json -out Writer.cfg
//
//	# Check every package in dist as JSON
//	officekeys validate-all -format json dist
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"officekeys/internal/build"
	"officekeys/internal/config"
	"officekeys/internal/logging"
)

var (
	// Version information (set at build time)
	version   = "dev"
	commit    = "unknown"
	buildTime = "unknown"
)

// Exit codes.
const (
	exitOK      = 0
	exitFailure = 1
	exitUsage   = 2
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// app carries the global options shared by every command.
type app struct {
	stdout     io.Writer
	stderr     io.Writer
	configPath string
	logLevel   string

	cfg *config.Config
	log *logging.Logger
}

func run(args []string, stdout, stderr io.Writer) int {
	a := &app{stdout: stdout, stderr: stderr}

	fs := flag.NewFlagSet("officekeys", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&a.configPath, "config", "", "path to config file (default: "+config.DefaultFileName+")")
	fs.StringVar(&a.logLevel, "log-level", "", "log level: debug, info, warn, error")
	fs.Usage = a.usage

	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return exitOK
		}
		return exitUsage
	}

	if fs.NArg() < 1 {
		a.usage()
		return exitUsage
	}

	cmd, rest := fs.Arg(0), fs.Args()[1:]

	switch cmd {
	case "version":
		fmt.Fprintf(stdout, "officekeys %s (commit: %s, built: %s)\n", version, commit, buildTime)
		return exitOK
	case "help":
		a.usage()
		return exitOK
	case "parse":
		return a.cmdParse(rest)
	case "keys":
		return a.cmdKeys(rest)
	}

	if err := a.setup(); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitFailure
	}
	defer func() { a.log.Close() }()

	switch cmd {
	case "generate":
		return a.cmdGenerate(rest)
	case "generate-all":
		return a.cmdGenerateAll(rest)
	case "validate":
		return a.cmdValidate(rest)
	case "validate-all":
		return a.cmdValidateAll(rest)
	case "watch":
		return a.cmdWatch(rest)
	default:
		fmt.Fprintf(stderr, "Unknown command: %s\n", cmd)
		a.usage()
		return exitUsage
	}
}

func (a *app) usage() {
	fmt.Fprintln(a.stderr, `officekeys - Office shortcut packages for LibreOffice

Usage: officekeys [options] <command> [args]

Commands:
  generate -map <file> -out <file> [-defaults <file>]
                          Build one accelerator package
  generate-all [profile...]
                          Build configured profiles into the dist directory
  validate [-format f] <file.cfg>...
                          Check packages for duplicates and missing bindings
  validate-all [-format f] [dir]
                          Check every .cfg package in dir (default: dist directory)
  watch                   Rebuild profiles when their mapping files change
  parse <shortcut>...     Show how shortcuts are read
  keys                    List known key names
  version                 Print version information
  help                    Show this help message

Options:
  -config <path>          Path to config file (default: officekeys.toml)
  -log-level <level>      debug, info, warn or error

Report formats: text (default), json, markdown`)
}

// setup loads the configuration and builds the logger.
func (a *app) setup() error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	return a.applyConfig(cfg)
}

// applyConfig applies the -log-level override to cfg, validates it and
// swaps in cfg with a logger built from it. On error the current
// configuration and logger stay in place.
func (a *app) applyConfig(cfg *config.Config) error {
	if a.logLevel != "" {
		cfg.Logging.Level = a.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	l, err := a.newLogger(cfg.Logging)
	if err != nil {
		return err
	}

	old := a.log
	a.cfg, a.log = cfg, l
	if old != nil {
		old.Close()
	}
	return nil
}

func (a *app) newLogger(lc config.LoggingConfig) (*logging.Logger, error) {
	level, err := logging.ParseLevel(lc.Level)
	if err != nil {
		return nil, err
	}
	format, err := logging.ParseFormat(lc.Format)
	if err != nil {
		return nil, err
	}

	lcfg := logging.DefaultConfig()
	lcfg.Level = level
	lcfg.Format = format
	lcfg.Output = lc.Output
	lcfg.FilePath = lc.FilePath

	var l *logging.Logger
	switch lc.Output {
	case "file":
		if l, err = logging.New(lcfg); err != nil {
			return nil, err
		}
	case "stdout":
		l = logging.NewWithWriter(a.stdout, lcfg)
	default:
		l = logging.NewWithWriter(a.stderr, lcfg)
	}
	logging.SetDefault(l)
	return l, nil
}

func (a *app) builder() *build.Builder {
	return &build.Builder{
		Logger:   a.log.WithComponent("build").Logger,
		DistDir:  a.cfg.DistDir,
		Debounce: debounce(a.cfg),
	}
}

// profiles converts configured profiles for the build package. With names,
// only the named profiles are returned, in the order given.
func profiles(cfg *config.Config, names ...string) ([]build.Profile, error) {
	selected := cfg.Profiles
	if len(names) > 0 {
		selected = nil
		for _, name := range names {
			p, ok := cfg.Profile(name)
			if !ok {
				return nil, fmt.Errorf("unknown profile %q", name)
			}
			selected = append(selected, p)
		}
	}

	out := make([]build.Profile, 0, len(selected))
	for _, p := range selected {
		out = append(out, build.Profile{
			Name:     p.Name,
			Mapping:  p.Mapping,
			Defaults: p.Defaults,
			Output:   p.Output,
		})
	}
	return out, nil
}
