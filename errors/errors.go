package errors

import "fmt"

// ParseError wraps a specific error with the offending protocol line.
type ParseError struct {
	Line   string
	Fields []string
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error in %q: %v (fields: %v)", e.Line, e.Err, e.Fields)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Protocol errors
var (
	ErrEmptyLine         = fmt.Errorf("empty line")
	ErrUnknownType       = fmt.Errorf("unknown message type")
	ErrInvalidFieldCount = fmt.Errorf("invalid field count")
	ErrInvalidNumber     = fmt.Errorf("invalid number")
)

// Configuration errors
var (
	ErrMissingOption = fmt.Errorf("missing required option")
	ErrInvalidConfig = fmt.Errorf("invalid configuration")
)

// Transport errors
var (
	ErrTransportClosed = fmt.Errorf("transport closed")
	ErrUnknownAddress  = fmt.Errorf("unknown reply address")
)
