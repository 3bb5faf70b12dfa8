package services

import (
	"errors"
	"fmt"
)

// ErrNoPath is returned when a source built from memory is asked to load.
var ErrNoPath = errors.New("source has no dataset path")

var (
	errEmptyInput    = errors.New("empty input")
	errMissingColumn = errors.New("missing required column")
	errNotFinite     = errors.New("value is not a finite number")
	errDotDecimal    = errors.New("'.' is not the decimal separator")
)

// MalformedInputError reports a source row that cannot be read under the
// semicolon-separated, comma-decimal conventions.
type MalformedInputError struct {
	Line   int
	Column string
	Value  string
	Err    error
}

func (e *MalformedInputError) Error() string {
	if e.Column != "" {
		return fmt.Sprintf("malformed input at line %d, column %q (value %q): %v", e.Line, e.Column, e.Value, e.Err)
	}
	return fmt.Sprintf("malformed input at line %d: %v", e.Line, e.Err)
}

func (e *MalformedInputError) Unwrap() error {
	return e.Err
}

// InvalidDateError reports a Date cell that matches none of the accepted layouts.
type InvalidDateError struct {
	Line  int
	Value string
	Err   error
}

func (e *InvalidDateError) Error() string {
	return fmt.Sprintf("invalid date %q at line %d: %v", e.Value, e.Line, e.Err)
}

func (e *InvalidDateError) Unwrap() error {
	return e.Err
}
