// Package build turns mapping files into accelerator packages for one or
// more application profiles.
package build

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"officekeys/internal/accel"
	"officekeys/internal/mapping"
)

// Profile names the mapping files and output package of one application.
type Profile struct {
	Name     string
	Mapping  string
	Defaults string
	Output   string
}

// Builder generates packages and logs what it did.
type Builder struct {
	Logger  *slog.Logger
	DistDir string

	// Debounce is how long mapping files must be quiet before Watch
	// regenerates. Zero means 100ms.
	Debounce time.Duration
}

// ProfileResult is the outcome for one profile.
type ProfileResult struct {
	Profile Profile
	Result  *accel.Result
	Missing bool
	Err     error
}

// Summary collects the outcome of GenerateAll.
type Summary struct {
	Results   []ProfileResult
	Generated int
	Missing   int
	Failed    int
}

// Err returns an error naming the failed profiles, or nil.
func (s Summary) Err() error {
	var errs []error
	for _, r := range s.Results {
		if r.Err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", r.Profile.Name, r.Err))
		}
	}
	return errors.Join(errs...)
}

func (b *Builder) logger() *slog.Logger {
	if b.Logger != nil {
		return b.Logger
	}
	return slog.Default()
}

// OutputPath resolves a profile's output against DistDir.
func (b *Builder) OutputPath(p Profile) string {
	if filepath.IsAbs(p.Output) || b.DistDir == "" {
		return p.Output
	}
	return filepath.Join(b.DistDir, p.Output)
}

// Generate builds one package from a custom mapping file and an optional
// defaults file. An empty defaultsPath or a missing defaults file means no
// defaults. Records whose shortcut cannot be parsed are logged and skipped.
func (b *Builder) Generate(mappingPath, outPath, defaultsPath string) (*accel.Result, error) {
	log := b.logger()

	customs, err := mapping.LoadFile(mappingPath)
	if err != nil {
		return nil, fmt.Errorf("load mapping: %w", err)
	}

	defaults, err := mapping.LoadOptional(defaultsPath)
	if err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}
	if defaults != nil {
		log.Debug("loaded defaults", "path", defaultsPath, "records", len(defaults))
	}

	merged := mapping.Merge(customs, defaults)
	for _, r := range merged.Records {
		if !r.HasCommandPrefix() {
			log.Warn("command outside .uno: namespace",
				"command", r.UnoCommand,
				"name", r.CommandName,
			)
		}
	}
	for _, o := range merged.Overrides {
		log.Info("override",
			"shortcut", o.Default.MSShortcut,
			"default", o.Default.CommandName,
			"custom", o.Custom.CommandName,
		)
	}

	res, err := accel.Generate(outPath, merged.Records)
	if err != nil {
		return nil, err
	}

	for _, s := range res.Skipped {
		log.Warn("skipping shortcut",
			"shortcut", s.Record.MSShortcut,
			"command", s.Record.UnoCommand,
			"error", s.Err,
		)
	}
	log.Info("generated",
		"path", outPath,
		"items", len(res.Items),
		"overrides", len(merged.Overrides),
		"skipped", len(res.Skipped),
	)
	return res, nil
}

// GenerateProfile builds the package for p into DistDir.
func (b *Builder) GenerateProfile(p Profile) (*accel.Result, error) {
	return b.Generate(p.Mapping, b.OutputPath(p), p.Defaults)
}

// GenerateAll builds every profile. Profiles whose mapping file does not
// exist are skipped; a failing profile does not stop the others.
func (b *Builder) GenerateAll(profiles []Profile) Summary {
	log := b.logger()
	var sum Summary

	if b.DistDir != "" {
		if err := os.MkdirAll(b.DistDir, 0755); err != nil {
			for _, p := range profiles {
				sum.Results = append(sum.Results, ProfileResult{Profile: p, Err: fmt.Errorf("create dist dir: %w", err)})
				sum.Failed++
			}
			log.Error("create dist dir", "path", b.DistDir, "error", err)
			return sum
		}
	}

	for _, p := range profiles {
		pr := ProfileResult{Profile: p}

		if _, err := os.Stat(p.Mapping); errors.Is(err, os.ErrNotExist) {
			log.Info("mapping not found, skipping", "profile", p.Name, "path", p.Mapping)
			pr.Missing = true
			sum.Missing++
			sum.Results = append(sum.Results, pr)
			continue
		}

		log.Info("generating", "profile", p.Name)
		pr.Result, pr.Err = b.GenerateProfile(p)
		if pr.Err != nil {
			log.Error("generate failed", "profile", p.Name, "error", pr.Err)
			sum.Failed++
		} else {
			sum.Generated++
		}
		sum.Results = append(sum.Results, pr)
	}

	return sum
}
