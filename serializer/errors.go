// (c) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package serializer

import (
	"errors"
	"fmt"

	"github.com/ava-labs/movecodec/values"
)

var (
	// ErrLayoutMismatch is returned when a value's shape disagrees with the
	// layout it is walked against, or when bytes cannot be a value of the
	// layout.
	ErrLayoutMismatch = errors.New("value does not match layout")
	ErrTruncatedInput = errors.New("input is shorter than the layout requires")
	ErrTrailingBytes  = errors.New("unconsumed bytes after value")
)

func mismatch(v values.Value, l fmt.Stringer) error {
	if v == nil {
		return fmt.Errorf("%w: missing value against %s", ErrLayoutMismatch, l)
	}
	return fmt.Errorf("%w: %s value %s against %s", ErrLayoutMismatch, v.Kind(), v, l)
}
