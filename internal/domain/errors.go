package domain

import (
	"errors"
	"fmt"
)

// ErrorKind is a coarse-grained categorization for pipeline errors.
type ErrorKind string

const (
	KindDimensionMismatch ErrorKind = "dimension_mismatch"
	KindExternal          ErrorKind = "external_operation"
	KindInvalidGeometry   ErrorKind = "invalid_geometry"
	KindInvalidRequest    ErrorKind = "invalid_request"
	KindInvalidConfig     ErrorKind = "invalid_config"
)

// OpError wraps an underlying error with operation context and a kind.
type OpError struct {
	Op   string
	Kind ErrorKind
	Path string // Optional: relevant image path
	Err  error
}

func (e *OpError) Error() string {
	if e == nil {
		return "<nil>"
	}

	base := fmt.Sprintf("%s: %s", e.Op, e.Kind)
	if e.Path != "" {
		base += fmt.Sprintf(" (path=%s)", e.Path)
	}
	if e.Err != nil {
		base += fmt.Sprintf(": %v", e.Err)
	}
	return base
}

func (e *OpError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// IsKind reports whether any OpError in err's chain has the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var oe *OpError
	if errors.As(err, &oe) {
		return oe.Kind == kind
	}
	return false
}

// KindOf returns the kind of the outermost OpError in err's chain, or "".
func KindOf(err error) ErrorKind {
	var oe *OpError
	if errors.As(err, &oe) {
		return oe.Kind
	}
	return ""
}

// DimensionMismatch builds the error returned when two images that must be
// aligned pixel for pixel have different sizes.
func DimensionMismatch(op string, want, got Size, path string) error {
	return &OpError{
		Op:   op,
		Kind: KindDimensionMismatch,
		Path: path,
		Err:  fmt.Errorf("expected %s, got %s", want, got),
	}
}
