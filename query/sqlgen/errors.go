// Package sqlgen provides the error type shared by clause renderers.
package sqlgen

import (
	"errors"
	"fmt"
)

// ArgumentError reports a missing or empty argument that a clause cannot be
// rendered without.
type ArgumentError struct {
	Op  string // clause or operation, e.g. "from", "limit"
	Arg string // name of the offending argument
	Msg string
}

func (e *ArgumentError) Error() string {
	return fmt.Sprintf("sqlgen: %s: %s", e.Op, e.Msg)
}

// NewArgumentError creates an ArgumentError for op.
func NewArgumentError(op, arg, msg string) *ArgumentError {
	return &ArgumentError{Op: op, Arg: arg, Msg: msg}
}

// IsArgumentError reports whether err is, or wraps, an *ArgumentError.
func IsArgumentError(err error) bool {
	var ae *ArgumentError
	return errors.As(err, &ae)
}
