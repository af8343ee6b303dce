package diag

// Severity ranks a diagnostic. The parser only ever emits SevError;
// the info and warning levels exist for the CLI and storage layers.
type Severity uint8

const (
	SevInfo Severity = iota
	SevWarning
	// SevError marks a diagnostic that makes the parse run fail for
	// consumers that require clean input (check, typeset).
	SevError
)

// String returns the upper-case label the pretty printer shows.
func (s Severity) String() string {
	switch s {
	case SevError:
		return "ERROR"
	case SevWarning:
		return "WARNING"
	case SevInfo:
		return "INFO"
	}
	return "UNKNOWN"
}
