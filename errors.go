package marc21

import (
	"errors"
	"fmt"
)

///////////////////////////////////////////////////////////////////////////////
// Errors
///////////////////////////////////////////////////////////////////////////////

var (
	// ErrTypeMismatch is returned by the dynamically typed setters on
	// MetadataValue when the supplied value has the wrong underlying type.
	// No coercion is attempted.
	ErrTypeMismatch = errors.New("value has wrong type for this setter")
)

// UnsupportedElementError is returned by the tree-to-mapping conversion
// when it encounters an element it has no rule for. An unrecognized
// element means the conversion would be incomplete, so this is a hard
// failure rather than a skip.
type UnsupportedElementError struct {
	Local     string
	Namespace string
}

// Error implements the error interface
func (ue UnsupportedElementError) Error() string {
	return fmt.Sprintf("no visitor rule for element %q ns %q", ue.Local, ue.Namespace)
}

// ParseError is returned when an XML string cannot be parsed into a
// record tree.
type ParseError struct {
	Err error
}

// Error implements the error interface
func (pe ParseError) Error() string {
	return fmt.Sprintf("failed to parse MARC21 XML: %v", pe.Err)
}

// Unwrap exposes the underlying parser error.
func (pe ParseError) Unwrap() error {
	return pe.Err
}
