package verify

import (
	"encoding/json"
	"fmt"
	"io"
	"text/template"
	"time"
)

// ReportFormat specifies the output format for verification reports.
type ReportFormat string

const (
	FormatText     ReportFormat = "text"
	FormatJSON     ReportFormat = "json"
	FormatMarkdown ReportFormat = "markdown"
)

// ParseFormat parses an output format name.
func ParseFormat(s string) (ReportFormat, error) {
	switch s {
	case "text", "":
		return FormatText, nil
	case "json":
		return FormatJSON, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	default:
		return "", fmt.Errorf("unknown format: %s (use text, json, or markdown)", s)
	}
}

// ReportGenerator writes batch reports in various formats.
type ReportGenerator struct {
	format  ReportFormat
	verbose bool
}

// NewReportGenerator creates a new report generator.
func NewReportGenerator(format ReportFormat) *ReportGenerator {
	return &ReportGenerator{format: format}
}

// WithVerbose adds timing details to text output.
func (g *ReportGenerator) WithVerbose(verbose bool) *ReportGenerator {
	g.verbose = verbose
	return g
}

// Generate produces a report in the configured format.
func (g *ReportGenerator) Generate(report *BatchReport, w io.Writer) error {
	switch g.format {
	case FormatJSON:
		return g.generateJSON(report, w)
	case FormatText:
		return g.generateText(report, w)
	case FormatMarkdown:
		return g.generateMarkdown(report, w)
	default:
		return fmt.Errorf("unknown format: %s", g.format)
	}
}

func (g *ReportGenerator) generateJSON(report *BatchReport, w io.Writer) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(report)
}

func (g *ReportGenerator) generateText(report *BatchReport, w io.Writer) error {
	for _, res := range report.Results {
		if res.Passed {
			fmt.Fprintf(w, "PASSED: %s\n", res.Path)
			continue
		}
		fmt.Fprintf(w, "FAILED: %s\n", res.Path)
		for _, d := range res.Diagnostics {
			fmt.Fprintf(w, "  - %s\n", d)
		}
	}

	if g.verbose {
		fmt.Fprintf(w, "\nChecked %d package(s), %d failed, in %v\n",
			len(report.Results), report.Failed(),
			report.CompletedAt.Sub(report.StartedAt).Round(time.Millisecond))
	}

	if report.Passed {
		fmt.Fprintln(w, "\nAll configurations passed verification.")
	}
	return nil
}

const markdownTemplate = `# Accelerator Package Verification

**Result:** {{if .Passed}}PASS{{else}}FAIL{{end}} ({{len .Results}} checked, {{.Failed}} failed)

| Package | Status | Diagnostics |
|---------|--------|-------------|
{{range .Results}}| ` + "`{{.Path}}`" + ` | {{if .Passed}}PASS{{else}}FAIL{{end}} | {{len .Diagnostics}} |
{{end}}{{range .Results}}{{if not .Passed}}
## {{.Path}}

{{range .Diagnostics}}- {{.}}
{{end}}{{end}}{{end}}`

func (g *ReportGenerator) generateMarkdown(report *BatchReport, w io.Writer) error {
	t, err := template.New("report").Parse(markdownTemplate)
	if err != nil {
		return err
	}
	return t.Execute(w, report)
}
