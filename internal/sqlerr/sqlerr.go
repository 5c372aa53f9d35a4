// Package sqlerr translates SQLite engine errors into display messages.
//
// The engine reports failures as numeric result codes. Extended codes
// (e.g. SQLITE_CONSTRAINT_NOTNULL = 1299) carry the primary code in their
// low byte, so lookups reduce them first.
package sqlerr

import (
	"errors"
)

// coder is satisfied by *sqlite.Error and by test doubles.
type coder interface {
	error
	Code() int
}

// Detail is the raw error shape returned to clients next to the message.
type Detail struct {
	Errno  int    `json:"errno,omitempty"`
	Code   string `json:"code,omitempty"`
	Detail string `json:"detail"`
}

// Code extracts the SQLite result code from err's chain.
// The second value is false when no error in the chain carries a code.
func Code(err error) (int, bool) {
	var c coder
	if err == nil || !errors.As(err, &c) {
		return 0, false
	}
	return c.Code(), true
}

// Primary reduces an extended result code to its primary code.
func Primary(code int) int {
	return code & 0xff
}

// Name returns the symbolic name of code, e.g. SQLITE_BUSY, or "" if unknown.
func Name(code int) string {
	if e, ok := codes[Primary(code)]; ok {
		return e.name
	}
	return ""
}

// Message returns the display text for err, or FallbackMessage when err has
// no code or the code is not in the table.
func Message(err error) string {
	code, ok := Code(err)
	if !ok {
		return FallbackMessage
	}
	if e, ok := codes[Primary(code)]; ok {
		return e.message
	}
	return FallbackMessage
}

// Describe returns the raw shape of err for API responses.
func Describe(err error) Detail {
	if err == nil {
		return Detail{}
	}
	d := Detail{Detail: err.Error()}
	if code, ok := Code(err); ok {
		d.Errno = Primary(code)
		d.Code = Name(code)
	}
	return d
}

// Label returns a metrics-friendly code name for err.
func Label(err error) string {
	code, ok := Code(err)
	if !ok {
		return "unknown"
	}
	if name := Name(code); name != "" {
		return name
	}
	return "unknown"
}
