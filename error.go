package css

import (
	"errors"
	"fmt"

	"github.com/stylekit/css/parser"
	"github.com/stylekit/css/token"
)

// StylesheetError is returned when a stylesheet can not be parsed or
// written. errors.Is reaches the sentinel error of the failing grammar.
type StylesheetError struct {
	// Path of the file, if any.
	Path string

	// Position of the error. Only valid when HasPos is set.
	Pos    token.Pos
	HasPos bool

	Reason string
	Err    error
}

func newError(path string, err error) *StylesheetError {
	e := &StylesheetError{Path: path, Reason: err.Error(), Err: err}
	var perr *parser.Error
	if errors.As(err, &perr) {
		e.Pos, e.HasPos = perr.Pos, true
		e.Reason = perr.Error()
	}
	return e
}

// Error returns "path:line:col: reason", omitting unknown parts.
func (e *StylesheetError) Error() string {
	switch {
	case e.Path != "" && e.HasPos:
		return fmt.Sprintf("%s:%s: %s", e.Path, e.Pos, e.Reason)
	case e.Path != "":
		return fmt.Sprintf("%s: %s", e.Path, e.Reason)
	case e.HasPos:
		return fmt.Sprintf("%s: %s", e.Pos, e.Reason)
	}
	return e.Reason
}

func (e *StylesheetError) Unwrap() error { return e.Err }
