package ingestion

import "fmt"

// ErrorKind classifies per-file ingestion failures so callers can branch
// on them without matching message strings.
type ErrorKind string

const (
	KindNotFound     ErrorKind = "not_found"
	KindInvalidInput ErrorKind = "invalid_input"
	KindReadFailure  ErrorKind = "read_failure"
	KindParseFailure ErrorKind = "parse_failure"
)

// Error is a per-file ingestion failure. Path is the path as given by the
// caller, not the resolved absolute one.
type Error struct {
	Kind ErrorKind
	Path string
	Err  error
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindNotFound:
		return fmt.Sprintf("file not found: %s", e.Path)
	case KindInvalidInput:
		return fmt.Sprintf("invalid input %s: %v", e.Path, e.Err)
	case KindReadFailure:
		return fmt.Sprintf("failed to read %s: %v", e.Path, e.Err)
	case KindParseFailure:
		return fmt.Sprintf("invalid JSON in %s: %v", e.Path, e.Err)
	default:
		return fmt.Sprintf("failed to ingest %s: %v", e.Path, e.Err)
	}
}

func (e *Error) Unwrap() error { return e.Err }

func newError(kind ErrorKind, path string, err error) *Error {
	return &Error{Kind: kind, Path: path, Err: err}
}
