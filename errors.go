package gom

import (
	"errors"
	"fmt"
)

// Sentinel errors. Soft failures (lookup, arity, conversion) are reported to
// callers as a false result and logged; these values are used to build the
// logged messages and are returned by the registration API.
var (
	ErrNotFound            = errors.New("not found")
	ErrArity               = errors.New("wrong arguments")
	ErrConversion          = errors.New("value not convertible")
	ErrReadOnly            = errors.New("read-only property")
	ErrAbstract            = errors.New("abstract class")
	ErrDuplicateType       = errors.New("meta type already bound")
	ErrAmbiguousSuperclass = errors.New("ambiguous superclass")
	ErrAlreadyInitialized  = errors.New("meta type registry already initialized")
	ErrFloatingPoint       = errors.New("floating point exception")
)

// PanicError is a panic recovered at a native/script boundary.
type PanicError struct {
	Tag   string
	Value any
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("%s: panic: %v", e.Tag, e.Value)
}
