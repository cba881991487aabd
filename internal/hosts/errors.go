package hosts

import (
	"errors"
	"fmt"
)

// ErrParse is wrapped by every *ParseError
var ErrParse = errors.New("hosts: unable to parse hosts file")

// ParseError reports the first line that could not be classified
type ParseError struct {
	Line      int    // 1-based line number
	Text      string // the offending line
	Remainder string // unparsed input starting at the offending line
}

// maxRemainder bounds how much unparsed input goes into an error message
const maxRemainder = 80

func (e *ParseError) Error() string {
	rem := e.Remainder
	if len(rem) > maxRemainder {
		rem = rem[:maxRemainder] + "..."
	}
	return fmt.Sprintf("%v: line %d %q, remainder: %q", ErrParse, e.Line, e.Text, rem)
}

func (e *ParseError) Unwrap() error {
	return ErrParse
}
