package spec

import (
	"errors"
	"fmt"
)

// Grammar errors returned while parsing a manpages specification.
var (
	ErrUnknownOption   = errors.New("unknown option")
	ErrDuplicateOption = errors.New("option set more than once")
	ErrMalformedOption = errors.New("option is not in name=value form")
	ErrEmptyOutputFile = errors.New("output filename is empty")
)

// GrammarError locates a fatal problem in one line of a manpages
// specification. It wraps one of the sentinel grammar errors so callers
// can match with errors.Is.
type GrammarError struct {
	Line   int    // 1-based line number in the specification text
	Option string // offending option name or token, if any
	Err    error
}

func (e *GrammarError) Error() string {
	if e.Option != "" {
		return fmt.Sprintf("manpages spec line %d: %v: %q", e.Line, e.Err, e.Option)
	}
	return fmt.Sprintf("manpages spec line %d: %v", e.Line, e.Err)
}

func (e *GrammarError) Unwrap() error {
	return e.Err
}
