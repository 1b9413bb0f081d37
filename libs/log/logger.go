package log

import (
	"fmt"
)

const (
	// LogFormatPlain defines a logging format used for human-readable
	// text-based logging that is not structured. Typically, this format is
	// used for development and testing purposes.
	LogFormatPlain string = "plain"

	// LogFormatText is an alias of the plain format.
	LogFormatText string = "text"

	// LogFormatJSON defines a logging format for structured JSON-based
	// logging that is typically used in production environments, which can
	// be sent to logging facilities that support complex log parsing and
	// querying.
	LogFormatJSON string = "json"

	// Supported logging levels.
	LogLevelDebug = "debug"
	LogLevelInfo  = "info"
	LogLevelWarn  = "warn"
	LogLevelError = "error"
)

// Logger defines a generic logging interface compatible with the rest of
// this module.
type Logger interface {
	Debug(msg string, keyVals ...interface{})
	Info(msg string, keyVals ...interface{})
	Error(msg string, keyVals ...interface{})

	With(keyVals ...interface{}) Logger
}

// Hexadecimal converts a []byte to a value that prints as uppercase
// hexadecimal.
type Hexadecimal struct {
	b []byte
}

func Hex(b []byte) Hexadecimal { return Hexadecimal{b: b} }

// String fulfills the fmt.Stringer interface.
func (s Hexadecimal) String() string {
	return fmt.Sprintf("%X", s.b)
}
