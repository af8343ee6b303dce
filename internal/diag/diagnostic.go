package diag

import (
	"strings"

	"tunedb/internal/source"
)

type Note struct {
	Span source.Span
	Msg  string
}

// Diagnostic is one positioned parse problem.
//
// Rules is the parser's rule stack at the moment of failure, outermost
// first (e.g. ["tune", "header", "metre"]). The message is always
// derived from the innermost rule and the token actually found, so the
// stack is context for humans and tests, not the message itself.
type Diagnostic struct {
	Severity Severity
	Code     Code
	Message  string
	Primary  source.Span
	Rules    []string
	Notes    []Note
}

func New(sev Severity, code Code, primary source.Span, msg string) Diagnostic {
	return Diagnostic{
		Severity: sev,
		Code:     code,
		Primary:  primary,
		Message:  msg,
	}
}

func NewError(code Code, primary source.Span, msg string) Diagnostic {
	return New(SevError, code, primary, msg)
}

func (d Diagnostic) WithNote(sp source.Span, msg string) Diagnostic {
	d.Notes = append(d.Notes, Note{Span: sp, Msg: msg})
	return d
}

func (d Diagnostic) WithRules(rules []string) Diagnostic {
	d.Rules = rules
	return d
}

// InnermostRule returns the rule that was active when the failure was
// detected, or "" when no stack was recorded.
func (d Diagnostic) InnermostRule() string {
	if len(d.Rules) == 0 {
		return ""
	}
	return d.Rules[len(d.Rules)-1]
}

// RulePath renders the stack as "tune > header > metre".
func (d Diagnostic) RulePath() string {
	return strings.Join(d.Rules, " > ")
}
