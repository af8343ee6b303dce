package diagfmt

import (
	"encoding/json"
	"io"

	"tunedb/internal/diag"
	"tunedb/internal/source"
)

type positionOutput struct {
	Line uint32 `json:"line"`
	Col  uint32 `json:"col"`
}

type noteOutput struct {
	Message string `json:"message"`
	Path    string `json:"path"`
}

type diagnosticOutput struct {
	Severity string          `json:"severity"`
	Code     string          `json:"code"`
	Message  string          `json:"message"`
	Path     string          `json:"path"`
	Start    *positionOutput `json:"start,omitempty"`
	End      *positionOutput `json:"end,omitempty"`
	Rules    []string        `json:"rules,omitempty"`
	Notes    []noteOutput    `json:"notes,omitempty"`
}

type diagnosticsOutput struct {
	Diagnostics []diagnosticOutput `json:"diagnostics"`
	Errors      int                `json:"errors"`
	Truncated   bool               `json:"truncated,omitempty"`
}

// JSON renders the bag as one indented JSON document.
func JSON(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts JSONOpts) error {
	items := bag.Items()
	truncated := false
	if opts.Max > 0 && len(items) > opts.Max {
		items = items[:opts.Max]
		truncated = true
	}

	out := diagnosticsOutput{
		Diagnostics: make([]diagnosticOutput, 0, len(items)),
		Errors:      bag.ErrorCount(),
		Truncated:   truncated,
	}
	for _, d := range items {
		out.Diagnostics = append(out.Diagnostics, oneJSON(d, fs, opts))
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func oneJSON(d diag.Diagnostic, fs *source.FileSet, opts JSONOpts) diagnosticOutput {
	file := fs.Get(d.Primary.File)
	out := diagnosticOutput{
		Severity: d.Severity.String(),
		Code:     d.Code.ID(),
		Message:  d.Message,
		Path:     displayPath(fs, file.Path, opts.PathMode),
	}
	if opts.IncludePositions {
		start, end := fs.Resolve(d.Primary)
		out.Start = &positionOutput{Line: start.Line, Col: start.Col}
		out.End = &positionOutput{Line: end.Line, Col: end.Col}
	}
	if opts.IncludeRules {
		out.Rules = d.Rules
	}
	if opts.IncludeNotes {
		for _, n := range d.Notes {
			out.Notes = append(out.Notes, noteOutput{
				Message: n.Msg,
				Path:    displayPath(fs, fs.Get(n.Span.File).Path, opts.PathMode),
			})
		}
	}
	return out
}
