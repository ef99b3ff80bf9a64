// (c) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package exchange swaps values for identifiers at (de)serialization time.
//
// A ValueExchange records a value under a freshly minted identifier and later
// returns whatever the table currently holds for that identifier. The table
// may be changed by its owner between the two calls; Claim reflects the
// current state, not the originally recorded value.
package exchange

import (
	"errors"
	"fmt"

	"github.com/ava-labs/movecodec/values"
)

var (
	ErrDuplicateMapping  = errors.New("identifier is already mapped")
	ErrUnknownIdentifier = errors.New("unknown identifier")
	ErrUnsupportedValue  = errors.New("value cannot be exchanged")
)

// ValueExchange swaps values for identifiers. Identifiers have exactly the
// same kind as the values they replace.
type ValueExchange interface {
	// Record stores [v] under a new identifier and returns that identifier.
	// Returns ErrDuplicateMapping if the identifier is already mapped.
	Record(v values.Value) (values.Value, error)

	// Claim returns the value currently mapped to [id], or
	// ErrUnknownIdentifier if there is none. Claim never mutates the table.
	Claim(id values.Value) (values.Value, error)
}

// checkExchangeable returns an error unless [v] is a u64 or a u128 that fits
// in 128 bits.
func checkExchangeable(v values.Value) error {
	if v == nil {
		return fmt.Errorf("%w: missing value", ErrUnsupportedValue)
	}
	switch v := v.(type) {
	case values.U64:
		return nil
	case values.U128:
		if !v.Fits() {
			return fmt.Errorf("%w: %s exceeds 128 bits", ErrUnsupportedValue, v)
		}
		return nil
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedValue, v.Kind())
	}
}

// idValue renders [id] as a value of kind [k].
func idValue(id ID, k values.Kind) values.Value {
	if k == values.U128Kind {
		return values.NewU128(0, uint64(id))
	}
	return values.U64(id)
}

// idFromValue reverses idValue. Identifiers wider than 64 bits were never
// minted and are reported as unknown.
func idFromValue(v values.Value) (ID, error) {
	if err := checkExchangeable(v); err != nil {
		return 0, err
	}
	n, ok := values.AsUint64(v)
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrUnknownIdentifier, v)
	}
	return ID(n), nil
}
