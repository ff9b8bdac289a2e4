package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"

	"officekeys/internal/config"
	"officekeys/internal/keysym"
	"officekeys/internal/shortcut"
	"officekeys/internal/verify"
)

func (a *app) flagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	return fs
}

func (a *app) cmdGenerate(args []string) int {
	fs := a.flagSet("generate")
	mapPath := fs.String("map", "", "custom mapping file (JSON or YAML)")
	outPath := fs.String("out", "", "output package file")
	defaultsPath := fs.String("defaults", "", "default mapping file (optional)")
	if err := fs.Parse(args); err != nil {
		return exitUsage
	}
	if *mapPath == "" || *outPath == "" {
		fmt.Fprintln(a.stderr, "Usage: officekeys generate -map <file> -out <file> [-defaults <file>]")
		return exitUsage
	}

	res, err := a.builder().Generate(*mapPath, *outPath, *defaultsPath)
	if err != nil {
		fmt.Fprintf(a.stderr, "Error: %v\n", err)
		return exitFailure
	}
	fmt.Fprintf(a.stdout, "Generated %s (%d bindings, %d skipped, %s)\n",
		res.Path, len(res.Items), len(res.Skipped), packageSize(res.Path))
	return exitOK
}

func (a *app) cmdGenerateAll(args []string) int {
	ps, err := profiles(a.cfg, args...)
	if err != nil {
		fmt.Fprintf(a.stderr, "Error: %v\n", err)
		fmt.Fprintln(a.stderr, "Usage: officekeys generate-all [profile...]")
		return exitUsage
	}

	sum := a.builder().GenerateAll(ps)
	for _, r := range sum.Results {
		switch {
		case r.Missing:
			fmt.Fprintf(a.stdout, "SKIPPED: %s (%s not found)\n", r.Profile.Name, r.Profile.Mapping)
		case r.Err != nil:
			fmt.Fprintf(a.stdout, "FAILED:  %s: %v\n", r.Profile.Name, r.Err)
		default:
			fmt.Fprintf(a.stdout, "OK:      %s -> %s (%s)\n", r.Profile.Name, r.Result.Path, packageSize(r.Result.Path))
		}
	}
	fmt.Fprintf(a.stdout, "\n%d generated, %d skipped, %d failed\n", sum.Generated, sum.Missing, sum.Failed)

	if sum.Failed > 0 {
		return exitFailure
	}
	return exitOK
}

func (a *app) reportFlags(name string) (*flag.FlagSet, *string, *bool) {
	fs := a.flagSet(name)
	format := fs.String("format", "text", "report format: text, json, markdown")
	verbose := fs.Bool("verbose", false, "include timing in text reports")
	return fs, format, verbose
}

func (a *app) cmdValidate(args []string) int {
	fs, formatStr, verbose := a.reportFlags("validate")
	if err := fs.Parse(args); err != nil {
		return exitUsage
	}
	if fs.NArg() < 1 {
		fmt.Fprintln(a.stderr, "Usage: officekeys validate [-format text|json|markdown] <file.cfg>...")
		return exitUsage
	}
	format, err := verify.ParseFormat(*formatStr)
	if err != nil {
		fmt.Fprintf(a.stderr, "Error: %v\n", err)
		return exitUsage
	}

	return a.writeReport(verify.VerifyPaths(fs.Args()), format, *verbose)
}

func (a *app) cmdValidateAll(args []string) int {
	fs, formatStr, verbose := a.reportFlags("validate-all")
	if err := fs.Parse(args); err != nil {
		return exitUsage
	}
	if fs.NArg() > 1 {
		fmt.Fprintln(a.stderr, "Usage: officekeys validate-all [-format text|json|markdown] [dir]")
		return exitUsage
	}
	format, err := verify.ParseFormat(*formatStr)
	if err != nil {
		fmt.Fprintf(a.stderr, "Error: %v\n", err)
		return exitUsage
	}

	dir := a.cfg.DistDir
	if fs.NArg() == 1 {
		dir = fs.Arg(0)
	}

	report, err := verify.VerifyDir(dir)
	if err != nil {
		fmt.Fprintf(a.stderr, "Error: %v\n", err)
		return exitFailure
	}
	return a.writeReport(report, format, *verbose)
}

func (a *app) writeReport(report *verify.BatchReport, format verify.ReportFormat, verbose bool) int {
	a.log.Debug("verified packages", "count", len(report.Results), "failed", report.Failed())

	gen := verify.NewReportGenerator(format).WithVerbose(verbose)
	if err := gen.Generate(report, a.stdout); err != nil {
		fmt.Fprintf(a.stderr, "Error writing report: %v\n", err)
		return exitFailure
	}
	if !report.Passed {
		return exitFailure
	}
	return exitOK
}

func (a *app) cmdParse(args []string) int {
	if len(args) == 0 {
		fmt.Fprintln(a.stderr, "Usage: officekeys parse <shortcut>...")
		return exitUsage
	}

	code := exitOK
	for _, s := range args {
		sc, err := shortcut.Parse(s)
		if err != nil {
			fmt.Fprintf(a.stderr, "%q: %v\n", s, err)
			code = exitFailure
			continue
		}
		fmt.Fprintf(a.stdout, "%-20q %-24s code=%s shift=%t mod1=%t mod2=%t\n",
			s, sc.String(), sc.KeyCode, sc.Shift, sc.Mod1, sc.Mod2)
	}
	return code
}

func (a *app) cmdKeys(args []string) int {
	if len(args) > 0 {
		fmt.Fprintln(a.stderr, "Usage: officekeys keys")
		return exitUsage
	}
	for _, name := range keysym.Default.Names() {
		code, _ := keysym.Default.Lookup(name)
		fmt.Fprintf(a.stdout, "%-12s %s\n", name, code)
	}
	return exitOK
}

func packageSize(path string) string {
	info, err := os.Stat(path)
	if err != nil {
		return "size unknown"
	}
	return humanize.Bytes(uint64(info.Size()))
}

func debounce(cfg *config.Config) time.Duration {
	return time.Duration(cfg.Watch.DebounceMs) * time.Millisecond
}

// cmdWatch builds every profile, then rebuilds profiles as their mapping
// files change. Edits to the config file restart the watch with the new
// profiles.
func (a *app) cmdWatch(args []string) int {
	if len(args) > 0 {
		fmt.Fprintln(a.stderr, "Usage: officekeys watch")
		return exitUsage
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return a.watch(ctx)
}

func (a *app) watch(ctx context.Context) int {
	log := a.log.WithComponent("watch")

	loader := config.NewLoader(a.configPath)
	defer loader.Close()

	changes := make(chan *config.Config, 1)
	loader.OnChange(func(c *config.Config) {
		select {
		case changes <- c:
		default:
		}
	})
	if _, err := loader.Load(); err != nil {
		log.Warn("config reload disabled", "error", err)
	} else if err := loader.Watch(); err != nil {
		log.Warn("config reload disabled", "error", err)
	}

	for {
		b := a.builder()
		ps, _ := profiles(a.cfg)
		b.GenerateAll(ps)

		wctx, cancel := context.WithCancel(ctx)
		done := make(chan error, 1)
		go func() { done <- b.Watch(wctx, ps) }()

		restart := false
		for !restart {
			select {
			case <-ctx.Done():
				cancel()
				<-done
				log.Info("stopped")
				return exitOK

			case err := <-done:
				cancel()
				if err != nil {
					log.Error("watch failed", "error", err)
					return exitFailure
				}
				return exitOK

			case cfg := <-changes:
				if err := a.applyConfig(cfg); err != nil {
					log.Warn("ignoring invalid config", "path", loader.Path(), "error", err)
					continue
				}
				log = a.log.WithComponent("watch")
				log.Info("config changed, restarting", "path", loader.Path())
				cancel()
				<-done
				restart = true

			case err := <-loader.Errors():
				log.Warn("config reload failed", "error", err)
			}
		}
	}
}
