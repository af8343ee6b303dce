package diag

import (
	"fmt"
)

type Code uint16

const (
	// UnknownCode is the catch-all for not-yet-classified failures.
	// Tracked as technical debt: the goal is zero instances against the
	// real-world corpus.
	UnknownCode Code = 0

	// Lexical codes are reserved. The ABC lexer never fails: unknown
	// bytes become catch-all tokens and the parser decides.
	LexInfo Code = 1000

	// Syntax
	SynInfo                 Code = 2000
	SynUnexpectedToken      Code = 2001
	SynPrematureEnd         Code = 2002
	SynNumberTooLong        Code = 2003
	SynUnexpectedHeaderLine Code = 2004
	SynExpectedHeader       Code = 2005
	SynMissingRefNumber     Code = 2006
	SynGroupAcrossBar       Code = 2007

	// I/O
	IOLoadFileError Code = 4001

	// Cache / storage
	StoInfo          Code = 5000
	StoBadTuneID     Code = 5001
	StoCorruptRecord Code = 5002
)

var codeDescription = map[Code]string{
	UnknownCode:             "Unknown error",
	LexInfo:                 "Lexical information",
	SynInfo:                 "Syntax information",
	SynUnexpectedToken:      "Unexpected token",
	SynPrematureEnd:         "Input ended in the middle of a rule",
	SynNumberTooLong:        "Number longer than expected",
	SynUnexpectedHeaderLine: "Header line where body content was expected",
	SynExpectedHeader:       "Expected a header line",
	SynMissingRefNumber:     "Tune has no X: reference number",
	SynGroupAcrossBar:       "Group may not span a bar line",
	IOLoadFileError:         "I/O load file error",
	StoInfo:                 "Storage information",
	StoBadTuneID:            "File name is not a numeric tune id",
	StoCorruptRecord:        "Corrupt tune cache record",
}

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("LEX%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("SYN%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("IO%04d", ic)
	case ic >= 5000 && ic < 6000:
		return fmt.Sprintf("STO%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[Code(0)]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
