// Package output provides output formatting for run results.
// This package produces human and machine-readable outputs.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/shopspring/decimal"

	"deathrun-power/core/engine"
	"deathrun-power/core/ledger"
	"deathrun-power/internal/errors"
	"deathrun-power/internal/suggest"
)

// Format represents output format type
type Format string

const (
	// FormatCLI is a human-readable CLI table
	FormatCLI Format = "cli"

	// FormatJSON is machine-readable JSON
	FormatJSON Format = "json"

	// FormatMarkdown is a markdown report
	FormatMarkdown Format = "markdown"
)

// Options tunes rendering
type Options struct {
	// ShowLedger lists every adjustment instead of only the summary
	ShowLedger bool
}

// Formatter produces output in a specific format
type Formatter interface {
	// Format returns the format type
	Format() Format

	// Render produces output for the given result
	Render(w io.Writer, result *engine.Result) error
}

// New returns the formatter for a format name
func New(name string, opts Options) (Formatter, error) {
	switch Format(strings.ToLower(name)) {
	case FormatCLI, "":
		return &CLIFormatter{opts: opts}, nil
	case FormatJSON:
		return &JSONFormatter{opts: opts}, nil
	case FormatMarkdown, "md":
		return &MarkdownFormatter{opts: opts}, nil
	}
	known := []string{string(FormatCLI), string(FormatJSON), string(FormatMarkdown)}
	return nil, errors.Input("unknown output format " + name + suggest.Hint(name, known))
}

func amount(d decimal.Decimal) string {
	return d.StringFixed(2)
}

func float(f float64) string {
	return decimal.NewFromFloat(f).Round(2).String()
}

func status(ok bool) string {
	if ok {
		return "ok"
	}
	return "FAILED"
}

// JSONFormatter renders the result as indented JSON
type JSONFormatter struct {
	opts Options
}

// Format implements Formatter
func (f *JSONFormatter) Format() Format { return FormatJSON }

// Render implements Formatter
func (f *JSONFormatter) Render(w io.Writer, result *engine.Result) error {
	out := *result
	if !f.opts.ShowLedger {
		out.Ledger = nil
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(&out)
}

// CLIFormatter renders aligned plain-text tables
type CLIFormatter struct {
	opts Options
}

// Format implements Formatter
func (f *CLIFormatter) Format() Format { return FormatCLI }

// Render implements Formatter
func (f *CLIFormatter) Render(w io.Writer, result *engine.Result) error {
	fmt.Fprintf(w, "Scenario %s (tier %s, run %s)\n\n", result.Scenario, result.Tier, result.RunID)

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "STEP\tACTION\tTARGET\tSTATUS\tDETAIL")
	for _, s := range result.Steps {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", s.Index, s.Action, s.Target, status(s.OK), s.Detail)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if len(result.Endpoints) > 0 {
		fmt.Fprintln(w)
		tw = tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "ENDPOINT\tKIND\tPOWER\tCAPACITY")
		for _, e := range result.Endpoints {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", e.ID, e.Kind, float(e.Power), float(e.Capacity))
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}

	if f.opts.ShowLedger && len(result.Ledger) > 0 {
		fmt.Fprintln(w)
		tw = tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "#\tSTEP\tENDPOINT\tDIRECTION\tREQUESTED\tADJUSTED\tFORMULA")
		for _, e := range result.Ledger {
			formula := e.Formula
			if e.Vetoed {
				formula += " [vetoed]"
			}
			fmt.Fprintf(tw, "%d\t%d\t%s\t%s\t%s\t%s\t%s\n",
				e.Seq, e.Step, e.EndpointID, e.Direction, float(e.Requested), float(e.Adjusted), formula)
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}

	if result.Summary != nil {
		fmt.Fprintln(w)
		writeTotals(w, "Consumption", result.Summary.Consumption)
		writeTotals(w, "Gain", result.Summary.Gain)
	}

	if len(result.Messages) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Messages:")
		for _, m := range result.Messages {
			fmt.Fprintf(w, "  %s\n", m.Text)
		}
	}

	if len(result.Violations) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Invariant violations:")
		for _, v := range result.Violations {
			fmt.Fprintf(w, "  %s\n", v)
		}
	}

	fmt.Fprintf(w, "\nFood %s  Water %s  Health %s  Safe depth %s  Game time %ss\n",
		float(result.Stats.Food), float(result.Stats.Water), float(result.Health),
		float(result.Nitrogen.SafeDepth), float(result.GameTime))
	return nil
}

func writeTotals(w io.Writer, label string, t ledger.Totals) {
	fmt.Fprintf(w, "%-12s %d calls, requested %s, adjusted %s (delta %s)",
		label+":", t.Count, amount(t.Requested), amount(t.Adjusted), amount(t.Delta()))
	if t.Vetoed > 0 {
		fmt.Fprintf(w, ", %d vetoed", t.Vetoed)
	}
	fmt.Fprintln(w)
}

// MarkdownFormatter renders a markdown report
type MarkdownFormatter struct {
	opts Options
}

// Format implements Formatter
func (f *MarkdownFormatter) Format() Format { return FormatMarkdown }

// Render implements Formatter
func (f *MarkdownFormatter) Render(w io.Writer, result *engine.Result) error {
	fmt.Fprintf(w, "## %s\n\n", result.Scenario)
	fmt.Fprintf(w, "Tier: **%s**\n\n", result.Tier)

	fmt.Fprintln(w, "| # | Action | Target | Result |")
	fmt.Fprintln(w, "|---|--------|--------|--------|")
	for _, s := range result.Steps {
		fmt.Fprintf(w, "| %d | %s | %s | %s |\n", s.Index, s.Action, s.Target, status(s.OK))
	}

	if result.Summary != nil && len(result.Summary.ByEndpoint) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "| Endpoint | Direction | Calls | Requested | Adjusted |")
		fmt.Fprintln(w, "|----------|-----------|-------|-----------|----------|")
		for _, id := range result.Summary.Endpoints() {
			dirs := result.Summary.ByEndpoint[id]
			names := make([]string, 0, len(dirs))
			for d := range dirs {
				names = append(names, d)
			}
			sort.Strings(names)
			for _, d := range names {
				t := dirs[d]
				fmt.Fprintf(w, "| %s | %s | %d | %s | %s |\n", id, d, t.Count, amount(t.Requested), amount(t.Adjusted))
			}
		}
	}

	if f.opts.ShowLedger && len(result.Ledger) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "<details><summary>Adjustments</summary>")
		fmt.Fprintln(w)
		for _, e := range result.Ledger {
			fmt.Fprintf(w, "- `%s` %s: %s\n", e.EndpointID, e.Direction, e.Formula)
		}
		fmt.Fprintln(w)
		fmt.Fprintln(w, "</details>")
	}

	if len(result.Messages) > 0 {
		fmt.Fprintln(w)
		for _, m := range result.Messages {
			fmt.Fprintf(w, "> %s\n", m.Text)
		}
	}

	if len(result.Violations) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "**Invariant violations**")
		fmt.Fprintln(w)
		for _, v := range result.Violations {
			fmt.Fprintf(w, "- %s\n", v)
		}
	}
	return nil
}
