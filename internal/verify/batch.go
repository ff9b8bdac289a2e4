package verify

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"
)

// Errors
var (
	ErrNoDirectory = errors.New("verify: package directory not found")
	ErrNoPackages  = errors.New("verify: no .cfg files found")
)

// PackageResult is the outcome of verifying one package.
type PackageResult struct {
	Path        string   `json:"path"`
	Passed      bool     `json:"passed"`
	Diagnostics []string `json:"diagnostics"`
}

// BatchReport aggregates the results for a set of packages.
type BatchReport struct {
	Results     []PackageResult `json:"results"`
	Passed      bool            `json:"passed"`
	StartedAt   time.Time       `json:"started_at"`
	CompletedAt time.Time       `json:"completed_at"`
}

// Failed returns the number of packages with at least one diagnostic.
func (r *BatchReport) Failed() int {
	n := 0
	for _, res := range r.Results {
		if !res.Passed {
			n++
		}
	}
	return n
}

// VerifyPaths verifies each package in order. A broken package never stops
// the remaining ones from being checked.
func VerifyPaths(paths []string) *BatchReport {
	report := &BatchReport{
		Results:   make([]PackageResult, 0, len(paths)),
		Passed:    true,
		StartedAt: time.Now(),
	}
	for _, p := range paths {
		diags := VerifyPackage(p)
		res := PackageResult{Path: p, Passed: len(diags) == 0, Diagnostics: diags}
		if res.Diagnostics == nil {
			res.Diagnostics = []string{}
		}
		if !res.Passed {
			report.Passed = false
		}
		report.Results = append(report.Results, res)
	}
	report.CompletedAt = time.Now()
	return report
}

// VerifyDir verifies every *.cfg file in dir, in lexical order.
func VerifyDir(dir string) (*BatchReport, error) {
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrNoDirectory, dir)
	}

	paths, err := filepath.Glob(filepath.Join(dir, "*.cfg"))
	if err != nil {
		return nil, fmt.Errorf("list packages: %w", err)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoPackages, dir)
	}
	sort.Strings(paths)

	return VerifyPaths(paths), nil
}
