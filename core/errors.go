package core

import (
	"errors"
	"fmt"
)

// Metadata errors
var (
	// ErrMetadataSyntax indicates the slice clip is not valid JSON.
	ErrMetadataSyntax = errors.New("metadata is not valid JSON")

	// ErrMetadataSchema indicates a required slice clip field is missing
	// or has the wrong shape.
	ErrMetadataSchema = errors.New("metadata failed validation")
)

// Mapping errors
var (
	// ErrRangeMismatch indicates the HTML text diverged from the slice
	// clip's spacer text, so offsets can no longer be trusted.
	ErrRangeMismatch = errors.New("html text does not match metadata text")
)

// Option errors
var (
	// ErrInvalidOption indicates an option holds an unknown value.
	ErrInvalidOption = errors.New("invalid option")
)

// MetadataError carries the offending field path for metadata failures.
// Err is ErrMetadataSyntax or ErrMetadataSchema.
type MetadataError struct {
	Field string
	Err   error
	Cause error
}

func (e *MetadataError) Error() string {
	msg := e.Err.Error()
	if e.Field != "" {
		msg += ": " + e.Field
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *MetadataError) Unwrap() []error {
	if e.Cause == nil {
		return []error{e.Err}
	}
	return []error{e.Err, e.Cause}
}

// MappingError describes where range mapping stopped.
type MappingError struct {
	Offset int    // spacer text rune offset
	Want   string // spacer text at Offset
	Got    string // text node content
}

func (e *MappingError) Error() string {
	return fmt.Sprintf("%s at offset %d: want %q, got %q", ErrRangeMismatch, e.Offset, e.Want, e.Got)
}

func (e *MappingError) Unwrap() error { return ErrRangeMismatch }
