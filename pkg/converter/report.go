package converter

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"gopkg.in/yaml.v3"
)

// Report formats.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// ErrUnknownFormat is returned for an unsupported report format.
var ErrUnknownFormat = errors.New("unknown report format")

// ReportOptions controls [WriteReport].
type ReportOptions struct {
	Format  string
	Color   bool
	Summary bool
}

// FailureReport is the serialised form of a [Failure].
type FailureReport struct {
	Path    string `json:"path"             yaml:"path"`
	Message string `json:"message"          yaml:"message"`
	Line    int    `json:"line,omitempty"   yaml:"line,omitempty"`
	Column  int    `json:"column,omitempty" yaml:"column,omitempty"`
}

// ResultReport is the serialised form of a [Result].
type ResultReport struct {
	RunID        string          `json:"run_id"        yaml:"run_id"`
	Success      []string        `json:"success"       yaml:"success"`
	Skipped      []string        `json:"skipped"       yaml:"skipped"`
	NotFound     []string        `json:"not_found"     yaml:"not_found"`
	Failed       []FailureReport `json:"failed"        yaml:"failed"`
	BytesWritten int64           `json:"bytes_written" yaml:"bytes_written"`
}

// NewResultReport converts a result into its serialisable form.
func NewResultReport(result *Result) ResultReport {
	report := ResultReport{
		RunID:        result.RunID,
		Success:      nonNil(result.Success),
		Skipped:      nonNil(result.Skipped),
		NotFound:     nonNil(result.NotFound),
		Failed:       make([]FailureReport, 0, len(result.Failed)),
		BytesWritten: result.BytesWritten,
	}

	for _, failure := range result.Failed {
		entry := FailureReport{Path: failure.Path, Message: failure.Err.Error()}

		if pos, ok := failure.Position(); ok {
			entry.Line = pos.Line
			entry.Column = pos.Column
		}

		report.Failed = append(report.Failed, entry)
	}

	return report
}

// WriteReport writes result to w in the requested format.
func WriteReport(w io.Writer, result *Result, opts ReportOptions) error {
	switch opts.Format {
	case "", FormatText:
		return writeText(w, result, opts)
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")

		err := enc.Encode(NewResultReport(result))
		if err != nil {
			return fmt.Errorf("encode json report: %w", err)
		}

		return nil
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)

		err := enc.Encode(NewResultReport(result))
		if err != nil {
			return fmt.Errorf("encode yaml report: %w", err)
		}

		return enc.Close()
	default:
		return fmt.Errorf("%w: %s", ErrUnknownFormat, opts.Format)
	}
}

func writeText(w io.Writer, result *Result, opts ReportOptions) error {
	ok := tag("OK", color.FgGreen, opts.Color)
	skipped := tag("SKIPPED", color.FgYellow, opts.Color)
	missing := tag("MISSING", color.FgYellow, opts.Color)
	failure := tag("FAILURE", color.FgRed, opts.Color)

	var lines []string

	for _, path := range result.Success {
		lines = append(lines, ok+" "+path)
	}

	for _, path := range result.Skipped {
		lines = append(lines, skipped+" "+path)
	}

	for _, path := range result.NotFound {
		lines = append(lines, missing+" "+path)
	}

	for _, f := range result.Failed {
		lines = append(lines, failure+" "+FailureLine(f))
	}

	for _, line := range lines {
		_, err := fmt.Fprintln(w, line)
		if err != nil {
			return fmt.Errorf("write report: %w", err)
		}
	}

	if !opts.Summary {
		return nil
	}

	_, err := fmt.Fprintln(w, summaryTable(result))
	if err != nil {
		return fmt.Errorf("write report: %w", err)
	}

	return nil
}

// FailureLine renders "path:line:column message" when the position is
// known and "path: message" otherwise.
func FailureLine(f Failure) string {
	if pos, ok := f.Position(); ok {
		return fmt.Sprintf("%s:%d:%d %s", f.Path, pos.Line, pos.Column, f.Err.Error())
	}

	return fmt.Sprintf("%s: %s", f.Path, f.Err.Error())
}

func tag(label string, fg color.Attribute, enabled bool) string {
	if !enabled {
		return label
	}

	c := color.New(fg, color.Bold)
	c.EnableColor()

	return c.Sprint(label)
}

func summaryTable(result *Result) string {
	tbl := table.NewWriter()
	tbl.SetStyle(table.StyleLight)
	tbl.AppendHeader(table.Row{"Outcome", "Files"})
	tbl.AppendRows([]table.Row{
		{"converted", len(result.Success)},
		{"skipped", len(result.Skipped)},
		{"missing", len(result.NotFound)},
		{"failed", len(result.Failed)},
	})
	tbl.AppendFooter(table.Row{"total", strconv.Itoa(result.Total())})
	tbl.SetCaption("run %s, %s written", result.RunID, humanize.Bytes(uint64(max(result.BytesWritten, 0))))

	return tbl.Render()
}

func nonNil(paths []string) []string {
	if paths == nil {
		return []string{}
	}

	return paths
}
