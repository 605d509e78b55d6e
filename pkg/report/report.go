// Package report renders check results for people and for tools.
package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/olekukonko/tablewriter"

	"github.com/siyuan-infoblox/imports-order/pkg/checker"
	"github.com/siyuan-infoblox/imports-order/pkg/errors"
	"github.com/siyuan-infoblox/imports-order/pkg/linter"
)

// Format selects the output rendering
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

// ParseFormat validates a --format value
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(s)) {
	case FormatText, "":
		return FormatText, nil
	case FormatJSON:
		return FormatJSON, nil
	}
	return "", &errors.ConfigError{Option: "format", Value: s, Message: errors.ErrMsgUnknownFormat}
}

// Options controls rendering
type Options struct {
	Format Format
	Color  bool
}

// Summary totals a run
type Summary struct {
	Files      int `json:"files"`
	Violations int `json:"violations"`
	Errors     int `json:"errors"`
	Fixed      int `json:"fixed"`
}

// Summarize counts files, violations, errors and fixes
func Summarize(results []linter.FileResult) Summary {
	s := Summary{Files: len(results)}
	for _, r := range results {
		s.Violations += len(r.Violations)
		if r.Err != nil {
			s.Errors++
		}
		if r.Fixed {
			s.Fixed++
		}
	}
	return s
}

// Write renders results to w
func Write(w io.Writer, results []linter.FileResult, opts Options) error {
	if opts.Format == FormatJSON {
		return writeJSON(w, results)
	}
	return writeText(w, results, opts.Color)
}

type jsonResult struct {
	linter.FileResult
	Error string `json:"error,omitempty"`
}

type jsonReport struct {
	Files   []jsonResult `json:"files"`
	Summary Summary      `json:"summary"`
}

func writeJSON(w io.Writer, results []linter.FileResult) error {
	out := jsonReport{
		Files:   make([]jsonResult, 0, len(results)),
		Summary: Summarize(results),
	}
	for _, r := range results {
		jr := jsonResult{FileResult: r}
		if jr.Violations == nil {
			jr.Violations = []checker.Violation{}
		}
		if r.Err != nil {
			jr.Error = r.Err.Error()
		}
		out.Files = append(out.Files, jr)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

var (
	pathStyle  = lipgloss.NewStyle().Bold(true)
	warnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	fixedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
)

type painter bool

func (p painter) paint(style lipgloss.Style, s string) string {
	if !p {
		return s
	}
	return style.Render(s)
}

func writeText(w io.Writer, results []linter.FileResult, color bool) error {
	p := painter(color)
	var buf bytes.Buffer

	for _, r := range results {
		if r.Err != nil {
			fmt.Fprintf(&buf, "%s: %s\n", p.paint(pathStyle, r.Path), p.paint(errorStyle, r.Err.Error()))
			continue
		}
		for _, v := range r.Violations {
			fmt.Fprintf(&buf, "%s:%d: %s\n", p.paint(pathStyle, r.Path), v.Line, p.paint(warnStyle, v.Message))
		}
		if r.Diff != "" {
			buf.WriteString(r.Diff)
			if !strings.HasSuffix(r.Diff, "\n") {
				buf.WriteByte('\n')
			}
		}
	}

	if table := renderSummaryTable(results, p); table != "" {
		if buf.Len() > 0 {
			buf.WriteByte('\n')
		}
		buf.WriteString(table)
	}

	_, err := w.Write(buf.Bytes())
	return err
}

// renderSummaryTable lists the files that need attention. It returns an
// empty string when every file is clean.
func renderSummaryTable(results []linter.FileResult, p painter) string {
	summary := Summarize(results)
	if summary.Violations == 0 && summary.Errors == 0 {
		return ""
	}

	var tableBuffer bytes.Buffer

	table := tablewriter.NewWriter(&tableBuffer)
	table.SetHeader([]string{"File", "Profile", "Violations", "Status"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetAutoWrapText(false)
	table.SetColumnAlignment([]int{tablewriter.ALIGN_LEFT, tablewriter.ALIGN_LEFT, tablewriter.ALIGN_CENTER, tablewriter.ALIGN_LEFT})

	for _, r := range results {
		if r.Err == nil && len(r.Violations) == 0 {
			continue
		}
		table.Append([]string{r.Path, r.Profile, fmt.Sprintf("%d", len(r.Violations)), status(r, p)})
	}

	table.SetFooter([]string{
		fmt.Sprintf("Total Files %d", summary.Files),
		"",
		fmt.Sprintf("%d", summary.Violations),
		fmt.Sprintf("%d errors", summary.Errors),
	})

	table.Render()

	return tableBuffer.String()
}

func status(r linter.FileResult, p painter) string {
	switch {
	case r.Err != nil:
		return p.paint(errorStyle, "error")
	case r.Fixed:
		return p.paint(fixedStyle, "fixed")
	default:
		return p.paint(warnStyle, "unordered")
	}
}
