package model

import (
	"errors"
	"fmt"
)

// ErrFileNotFound is returned when the expected spreadsheet is missing
// from the work directory or the document store.
var ErrFileNotFound = errors.New("spreadsheet not found")

// ErrDuplicateReference is returned when the queue rejects a batch because
// a reference already exists. Callers treat it as batch-level: no partial
// success detection is attempted.
var ErrDuplicateReference = errors.New("duplicate queue reference")

// ParseError signals malformed date or reference data on a row. It is not
// recovered; an unparseable reference would corrupt the posting text of
// the outlay ticket, so the row (and the run) must fail loudly.
type ParseError struct {
	Field string
	Value string
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s %q: %v", e.Field, e.Value, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
