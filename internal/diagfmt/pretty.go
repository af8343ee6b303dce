// Package diagfmt renders diagnostics and token dumps for terminals
// and machine consumers.
package diagfmt

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"tunedb/internal/diag"
	"tunedb/internal/source"
)

// Pretty formats diagnostics in a human-readable way, one block per
// diagnostic. Walks bag.Items() in order; call bag.Sort() first when
// the bag merges several buffers. For each diagnostic:
//
//	<path>:<line>:<col>: <SEV> [<CODE>]: <message>
//	  <source line>
//	  ^-- in <rule path>
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	for _, d := range bag.Items() {
		prettyOne(w, d, fs, opts)
	}
}

func prettyOne(w io.Writer, d diag.Diagnostic, fs *source.FileSet, opts PrettyOpts) {
	file := fs.Get(d.Primary.File)
	start, _ := fs.Resolve(d.Primary)

	sev := severityLabel(d.Severity, opts.Color)
	fmt.Fprintf(w, "%s:%d:%d: %s [%s]: %s\n",
		displayPath(fs, file.Path, opts.PathMode), start.Line, start.Col,
		sev, d.Code.ID(), d.Message)

	line := file.GetLine(start.Line)
	if line != "" {
		fmt.Fprintf(w, "  %s\n", line)

		col := int(start.Col) - 1
		if col > len(line) {
			col = len(line)
		}
		pad := runewidth.StringWidth(line[:col])

		caret := "^--"
		if opts.ShowRules && len(d.Rules) > 0 {
			caret += " in " + d.RulePath()
		}
		if opts.Color {
			caret = color.New(color.FgHiRed, color.Bold).Sprint(caret)
		}
		fmt.Fprintf(w, "  %s%s\n", strings.Repeat(" ", pad), caret)
	}

	if opts.ShowNotes {
		for _, n := range d.Notes {
			pos, _ := fs.Resolve(n.Span)
			fmt.Fprintf(w, "  note: %s (%s:%d:%d)\n",
				n.Msg, displayPath(fs, fs.Get(n.Span.File).Path, opts.PathMode), pos.Line, pos.Col)
		}
	}
}

func severityLabel(sev diag.Severity, colored bool) string {
	label := "INFO"
	c := color.New(color.FgCyan)
	switch sev {
	case diag.SevWarning:
		label = "WARNING"
		c = color.New(color.FgYellow, color.Bold)
	case diag.SevError:
		label = "ERROR"
		c = color.New(color.FgRed, color.Bold)
	}
	if !colored {
		return label
	}
	return c.Sprint(label)
}

func displayPath(fs *source.FileSet, path string, mode PathMode) string {
	switch mode {
	case PathModeBasename:
		return filepath.Base(path)
	case PathModeAbsolute:
		if abs, err := filepath.Abs(path); err == nil {
			return abs
		}
		return path
	default:
		if rel, err := filepath.Rel(fs.BaseDir(), path); err == nil && !strings.HasPrefix(rel, "..") {
			return rel
		}
		return path
	}
}

// Summary renders the closing error count line.
func Summary(errors int) string {
	if errors == 1 {
		return "There was 1 error!"
	}
	return fmt.Sprintf("There were %d errors!", errors)
}
