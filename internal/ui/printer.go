// Package ui renders doc-agent output for the terminal.
//
// Rendering is centralized in [Printer] so commands stay free of styling
// concerns. Colors and borders come from lipgloss; tests construct a
// Printer with Color disabled for stable plain-text output.
package ui

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"doc-agent/internal/config"
	"doc-agent/internal/step"
	"doc-agent/internal/workflow"
)

const (
	glyphOK   = "✓"
	glyphFail = "✗"
	glyphSkip = "○"
)

// Printer renders structured results to a writer.
type Printer struct {
	out io.Writer
	cfg config.OutputConfig

	box     lipgloss.Style
	title   lipgloss.Style
	ok      lipgloss.Style
	fail    lipgloss.Style
	dim     lipgloss.Style
	keyName lipgloss.Style
}

// NewPrinter creates a [Printer] writing to out. When cfg.Color is false all
// styles are plain, which keeps output stable under tests and CI.
func NewPrinter(out io.Writer, cfg config.OutputConfig) *Printer {
	p := &Printer{out: out, cfg: cfg}
	if cfg.Color {
		p.box = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
		p.title = lipgloss.NewStyle().Bold(true)
		p.ok = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
		p.fail = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
		p.dim = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
		p.keyName = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
	} else {
		plain := lipgloss.NewStyle()
		p.box, p.title, p.ok, p.fail, p.dim, p.keyName = plain, plain, plain, plain, plain, plain
	}
	return p
}

// Printf writes formatted text straight through.
func (p *Printer) Printf(format string, args ...any) {
	fmt.Fprintf(p.out, format, args...)
}

// Header renders a boxed title line.
func (p *Printer) Header(text string) {
	fmt.Fprintln(p.out, p.box.Render(p.title.Render(text)))
}

// Issues renders validation findings for one workflow file.
func (p *Printer) Issues(path string, issues []workflow.Issue) {
	if len(issues) == 0 {
		fmt.Fprintf(p.out, "%s %s: validation passed\n", p.ok.Render(glyphOK), path)
		return
	}
	fmt.Fprintf(p.out, "%s %s: validation failed\n", p.fail.Render(glyphFail), path)
	for _, issue := range issues {
		fmt.Fprintf(p.out, "  - %s\n", issue.String())
	}
}

// RunResult renders a full workflow run: overall status, then one block per
// step with resolved inputs, outputs, and timings.
func (p *Printer) RunResult(res *workflow.RunResult) {
	status := p.ok.Render(string(res.Status))
	if res.Status != workflow.RunSuccess {
		status = p.fail.Render(string(res.Status))
	}
	p.Header(fmt.Sprintf("%s  %s  (run %s, %s)",
		res.WorkflowName, status, res.ID, res.Duration().Round(time.Millisecond)))

	for _, sr := range res.Steps {
		glyph := p.ok.Render(glyphOK)
		if sr.Status != workflow.StepSuccess {
			glyph = p.fail.Render(glyphFail)
		}
		fmt.Fprintf(p.out, "%s %s (%s): %s\n", glyph, sr.StepName, sr.StepType, sr.Status)
		if sr.Reason != "" {
			fmt.Fprintf(p.out, "    %s\n", p.fail.Render(sr.Reason))
		}
		if len(sr.Inputs) > 0 {
			fmt.Fprintf(p.out, "    Inputs:\n")
			for _, in := range sr.Inputs {
				fmt.Fprintf(p.out, "      - %s: %s\n", p.keyName.Render(in.Name), p.value(in.Resolved()))
			}
		}
		if len(sr.Outputs) > 0 {
			fmt.Fprintf(p.out, "    Outputs:\n")
			for _, out := range sr.Outputs {
				fmt.Fprintf(p.out, "      - %s: %s\n", p.keyName.Render(out.Name), p.value(out.Resolved()))
			}
		}
		fmt.Fprintf(p.out, "    %s\n", p.dim.Render(fmt.Sprintf("started %s, finished %s",
			sr.StartedAt.Format("15:04:05.000"), sr.FinishedAt.Format("15:04:05.000"))))
	}
}

// Catalog renders the registered step types with their parameter catalogs.
func (p *Printer) Catalog(infos []step.Info) {
	for _, info := range infos {
		fmt.Fprintf(p.out, "%s\n", p.title.Render(info.TypeName))
		if info.Description != "" {
			fmt.Fprintf(p.out, "  %s\n", info.Description)
		}
		if len(info.RequiredIntegrations) > 0 {
			fmt.Fprintf(p.out, "  Requires: %s\n", strings.Join(info.RequiredIntegrations, ", "))
		}
		if len(info.Inputs) > 0 {
			fmt.Fprintf(p.out, "  Inputs:\n")
			for _, in := range info.Inputs {
				if in.Invisible {
					continue
				}
				p.catalogParam(in.Name, string(in.DataType), in.Optional, in.Description)
			}
		}
		if len(info.Outputs) > 0 {
			fmt.Fprintf(p.out, "  Outputs:\n")
			for _, out := range info.Outputs {
				p.catalogParam(out.Name, string(out.DataType), false, out.Description)
			}
		}
		fmt.Fprintln(p.out)
	}
}

func (p *Printer) catalogParam(name, dataType string, optional bool, desc string) {
	suffix := ""
	if optional {
		suffix = " (optional)"
	}
	line := fmt.Sprintf("    - %s: %s%s", p.keyName.Render(name), dataType, suffix)
	if desc != "" {
		line += " " + p.dim.Render("— "+desc)
	}
	fmt.Fprintln(p.out, line)
}

// value renders an arbitrary parameter value, truncated per the output
// configuration.
func (p *Printer) value(v any) string {
	s := fmt.Sprintf("%v", v)

	lines := strings.Split(s, "\n")
	if p.cfg.TruncateLines > 0 && len(lines) > p.cfg.TruncateLines {
		kept := lines[:p.cfg.TruncateLines]
		kept = append(kept, p.dim.Render(fmt.Sprintf("... (%d more lines)", len(lines)-p.cfg.TruncateLines)))
		lines = kept
	}
	for i, line := range lines {
		if p.cfg.TruncateLength > 0 && len(line) > p.cfg.TruncateLength {
			// No room for an ellipsis below four columns, cut hard.
			if p.cfg.TruncateLength <= 3 {
				lines[i] = line[:p.cfg.TruncateLength]
			} else {
				lines[i] = line[:p.cfg.TruncateLength-3] + "..."
			}
		}
	}
	return strings.Join(lines, "\n        ")
}
