// Package driver wires the pipeline stages together for the CLI:
// load, tokenize, parse, and the parallel whole-corpus variants.
package driver

import (
	"fmt"

	"tunedb/internal/ast"
	"tunedb/internal/diag"
	"tunedb/internal/lexer"
	"tunedb/internal/parser"
	"tunedb/internal/pitch"
	"tunedb/internal/source"
	"tunedb/internal/token"
)

type TokenizeResult struct {
	FileSet *source.FileSet
	File    *source.File
	Tokens  []token.Token
}

// Tokenize loads one file and drains the lexer.
func Tokenize(path string) (*TokenizeResult, error) {
	fs := source.NewFileSet()
	fileID, err := fs.Load(path)
	if err != nil {
		return nil, err
	}
	return tokenize(fs, fileID), nil
}

// TokenizeBytes tokenizes an in-memory buffer (stdin, tests).
func TokenizeBytes(name string, content []byte) *TokenizeResult {
	fs := source.NewFileSet()
	return tokenize(fs, fs.AddVirtual(name, content))
}

func tokenize(fs *source.FileSet, fileID source.FileID) *TokenizeResult {
	file := fs.Get(fileID)
	return &TokenizeResult{
		FileSet: fs,
		File:    file,
		Tokens:  lexer.Collect(file),
	}
}

type CheckResult struct {
	FileSet *source.FileSet
	Tunes   []*ast.Tune
	Bag     *diag.Bag
}

// CheckFile parses one file and collects its diagnostics.
func CheckFile(path string, maxDiagnostics int) (*CheckResult, error) {
	fs := source.NewFileSet()
	fileID, err := fs.Load(path)
	if err != nil {
		return nil, err
	}
	return check(fs, fileID, maxDiagnostics), nil
}

// CheckBytes parses an in-memory buffer and collects its diagnostics.
func CheckBytes(name string, content []byte, maxDiagnostics int) *CheckResult {
	fs := source.NewFileSet()
	return check(fs, fs.AddVirtual(name, content), maxDiagnostics)
}

// MelodyIntervals parses a bare ABC fragment ("ABcd") as a melody and
// returns its semitone interval sequence for search queries. The
// fragment is parsed in C major, so only explicit accidentals alter
// pitches; the interval sequence is what search matches on, and it is
// transposition-invariant anyway.
func MelodyIntervals(fragment string) ([]int, error) {
	src := "X:1\nK:C\n" + fragment + "\n"
	res := CheckBytes("<melody>", []byte(src), 10)
	if res.Bag.HasErrors() {
		return nil, fmt.Errorf("could not parse melody %q: %s", fragment, res.Bag.Items()[0].Message)
	}
	if len(res.Tunes) == 0 {
		return nil, fmt.Errorf("melody %q contains no notes", fragment)
	}
	return pitch.Intervals(pitch.MidiSequence(res.Tunes[0])), nil
}

func check(fs *source.FileSet, fileID source.FileID, maxDiagnostics int) *CheckResult {
	bag := diag.NewBag(maxDiagnostics)
	maxErrors := uint(0)
	if maxDiagnostics > 0 {
		maxErrors = uint(maxDiagnostics)
	}
	res := parser.ParseFile(fs, fs.Get(fileID), parser.Options{
		Reporter:  diag.BagReporter{Bag: bag},
		MaxErrors: maxErrors,
	})
	return &CheckResult{
		FileSet: fs,
		Tunes:   res.Tunes,
		Bag:     bag,
	}
}
