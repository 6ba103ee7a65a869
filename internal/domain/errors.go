package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidWindow is returned when a display window is outside 0..MaxWindowDays.
	ErrInvalidWindow = errors.New("invalid window")

	// ErrUnexpectedColumn marks a feed column that is not a catalog district.
	ErrUnexpectedColumn = errors.New("unexpected column")

	// ErrMissingColumn marks a catalog district absent from the feed header.
	ErrMissingColumn = errors.New("missing column")

	// ErrDuplicateDate marks a reporting date that appears twice.
	ErrDuplicateDate = errors.New("duplicate date")
)

// FetchError reports that the feed could not be retrieved or decoded.
type FetchError struct {
	URL      string
	Attempts int
	Err      error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s: %d attempt(s): %v", e.URL, e.Attempts, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// ParseError reports a feed cell or header that could not be normalized.
// Line is the 1-based data row (0 for header problems).
type ParseError struct {
	Line   int
	Column string
	Value  string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Line == 0 {
		return fmt.Sprintf("parse header column %q: %v", e.Column, e.Err)
	}
	return fmt.Sprintf("parse line %d column %q value %q: %v", e.Line, e.Column, e.Value, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// UnknownEntityError reports a selected entity with no catalog entry.
type UnknownEntityError struct {
	Name string
}

func (e *UnknownEntityError) Error() string {
	return fmt.Sprintf("unknown entity %q", e.Name)
}
