package loader

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when the input file does not exist or cannot be opened.
	ErrNotFound = errors.New("input file not found")

	// ErrParse is returned when the input file exists but is not a readable table.
	ErrParse = errors.New("input file could not be parsed")

	// ErrUnsupportedFormat is returned for file extensions no reader handles.
	ErrUnsupportedFormat = errors.New("unsupported file format")
)

// NotFoundError reports a missing or unreadable input file.
type NotFoundError struct {
	Path string
	Err  error
}

func (e *NotFoundError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Path, ErrNotFound)
}

func (e *NotFoundError) Unwrap() error {
	return ErrNotFound
}

// ParseError reports a file whose contents could not be turned into a table.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: %v: %v", e.Path, ErrParse, e.Err)
}

// Unwrap exposes both ErrParse and the underlying cause.
func (e *ParseError) Unwrap() []error {
	return []error{ErrParse, e.Err}
}
