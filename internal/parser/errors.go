package parser

import (
	"errors"
	"fmt"
	"unicode/utf8"
)

// ErrUnparsable is wrapped by every structural parse failure.
var ErrUnparsable = errors.New("unparsable log line")

// ParseError reports a line that could not be turned into a record at all.
type ParseError struct {
	Line   string
	Reason string
}

func newParseError(line, reason string) *ParseError {
	return &ParseError{Line: line, Reason: reason}
}

func (e *ParseError) Error() string {
	const maxLine = 120
	line := e.Line
	if len(line) > maxLine {
		n := maxLine
		for n > 0 && !utf8.RuneStart(line[n]) {
			n--
		}
		line = line[:n] + "..."
	}
	return fmt.Sprintf("%s: %s: %q", ErrUnparsable, e.Reason, line)
}

func (e *ParseError) Unwrap() error {
	return ErrUnparsable
}
