// (c) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package values

import (
	"errors"
	"fmt"
	"strings"

	"github.com/holiman/uint256"
)

var (
	ErrShapeMismatch = errors.New("values have different shapes")
	errOutOfRange    = errors.New("integer out of range")

	_ Value = Bool(false)
	_ Value = U8(0)
	_ Value = U16(0)
	_ Value = U32(0)
	_ Value = U64(0)
	_ Value = U128{}
	_ Value = U256{}
	_ Value = Address{}
	_ Value = Signer{}
	_ Value = Vector(nil)
	_ Value = Struct(nil)
)

// Kind identifies the variant of a Value.
type Kind uint8

const (
	BoolKind Kind = iota
	U8Kind
	U16Kind
	U32Kind
	U64Kind
	U128Kind
	U256Kind
	AddressKind
	SignerKind
	VectorKind
	StructKind
)

var kindNames = [...]string{
	BoolKind:    "bool",
	U8Kind:      "u8",
	U16Kind:     "u16",
	U32Kind:     "u32",
	U64Kind:     "u64",
	U128Kind:    "u128",
	U256Kind:    "u256",
	AddressKind: "address",
	SignerKind:  "signer",
	VectorKind:  "vector",
	StructKind:  "struct",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// Value is a runtime contract value. Values are immutable once built.
type Value interface {
	Kind() Kind
	String() string
}

type (
	Bool bool
	U8   uint8
	U16  uint16
	U32  uint32
	U64  uint64

	// U128 holds an unsigned integer below 2^128 in the low two words.
	U128 uint256.Int
	U256 uint256.Int

	// Vector is an ordered homogeneous sequence.
	Vector []Value
	// Struct is the runtime form of a struct: fields in declaration order,
	// names erased.
	Struct []Value
)

func (Bool) Kind() Kind    { return BoolKind }
func (U8) Kind() Kind      { return U8Kind }
func (U16) Kind() Kind     { return U16Kind }
func (U32) Kind() Kind     { return U32Kind }
func (U64) Kind() Kind     { return U64Kind }
func (U128) Kind() Kind    { return U128Kind }
func (U256) Kind() Kind    { return U256Kind }
func (Address) Kind() Kind { return AddressKind }
func (Signer) Kind() Kind  { return SignerKind }
func (Vector) Kind() Kind  { return VectorKind }
func (Struct) Kind() Kind  { return StructKind }

func (b Bool) String() string { return fmt.Sprintf("%t", bool(b)) }
func (n U8) String() string   { return fmt.Sprintf("%du8", uint8(n)) }
func (n U16) String() string  { return fmt.Sprintf("%du16", uint16(n)) }
func (n U32) String() string  { return fmt.Sprintf("%du32", uint32(n)) }
func (n U64) String() string  { return fmt.Sprintf("%du64", uint64(n)) }
func (n U128) String() string { return n.Int().ToBig().String() + "u128" }
func (n U256) String() string { return n.Int().ToBig().String() + "u256" }

func (v Vector) String() string { return "[" + join(v) + "]" }
func (s Struct) String() string { return "{" + join(s) + "}" }

func join(vs []Value) string {
	parts := make([]string, len(vs))
	for i, v := range vs {
		parts[i] = v.String()
	}
	return strings.Join(parts, ", ")
}

// NewU128 builds a U128 from its high and low 64-bit halves.
func NewU128(hi, lo uint64) U128 {
	return U128{lo, hi, 0, 0}
}

// U128FromInt converts [x] to a U128, failing if it needs more than 128 bits.
func U128FromInt(x *uint256.Int) (U128, error) {
	if x.BitLen() > 128 {
		return U128{}, fmt.Errorf("%w: %s does not fit in u128", errOutOfRange, x.Hex())
	}
	return U128(*x), nil
}

// ParseU128 parses a decimal string.
func ParseU128(s string) (U128, error) {
	x, err := uint256.FromDecimal(s)
	if err != nil {
		return U128{}, fmt.Errorf("%w: %q: %s", errOutOfRange, s, err)
	}
	return U128FromInt(x)
}

// ParseU256 parses a decimal string.
func ParseU256(s string) (U256, error) {
	x, err := uint256.FromDecimal(s)
	if err != nil {
		return U256{}, fmt.Errorf("%w: %q: %s", errOutOfRange, s, err)
	}
	return U256(*x), nil
}

// Int returns a copy of [n] as a uint256.Int.
func (n U128) Int() *uint256.Int {
	x := uint256.Int(n)
	return &x
}

// Int returns a copy of [n] as a uint256.Int.
func (n U256) Int() *uint256.Int {
	x := uint256.Int(n)
	return &x
}

// Fits reports whether [n] holds no bits above the low 128. A U128 built
// directly from four limbs may not.
func (n U128) Fits() bool { return n[2]|n[3] == 0 }

// Halves returns the high and low 64-bit words.
func (n U128) Halves() (hi, lo uint64) { return n[1], n[0] }

// IsInteger reports whether [v] is one of the unsigned integer variants.
func IsInteger(v Value) bool {
	switch v.Kind() {
	case U8Kind, U16Kind, U32Kind, U64Kind, U128Kind, U256Kind:
		return true
	default:
		return false
	}
}

// AsUint64 returns the integer held by [v] if it is an integer that fits in
// 64 bits.
func AsUint64(v Value) (uint64, bool) {
	switch v := v.(type) {
	case U8:
		return uint64(v), true
	case U16:
		return uint64(v), true
	case U32:
		return uint64(v), true
	case U64:
		return uint64(v), true
	case U128:
		x := v.Int()
		return x.Uint64(), x.IsUint64()
	case U256:
		x := v.Int()
		return x.Uint64(), x.IsUint64()
	default:
		return 0, false
	}
}

// AsUint128 widens any integer that fits in 128 bits to a U128.
func AsUint128(v Value) (U128, bool) {
	switch v := v.(type) {
	case U128:
		return v, v.Fits()
	case U256:
		n, err := U128FromInt(v.Int())
		return n, err == nil
	default:
		n, ok := AsUint64(v)
		return NewU128(0, n), ok
	}
}

// Equals compares two values structurally. Comparing values of different
// kinds, at any depth, fails with ErrShapeMismatch.
func Equals(a, b Value) (bool, error) {
	if a.Kind() != b.Kind() {
		return false, fmt.Errorf("%w: %s vs %s", ErrShapeMismatch, a.Kind(), b.Kind())
	}
	switch a := a.(type) {
	case Vector:
		return equalSeq(a, b.(Vector))
	case Struct:
		bs := b.(Struct)
		if len(a) != len(bs) {
			return false, fmt.Errorf("%w: struct with %d fields vs %d", ErrShapeMismatch, len(a), len(bs))
		}
		return equalSeq(a, bs)
	default:
		return a == b, nil
	}
}

func equalSeq(a, b []Value) (bool, error) {
	if len(a) != len(b) {
		return false, nil
	}
	for i := range a {
		eq, err := Equals(a[i], b[i])
		if err != nil || !eq {
			return false, err
		}
	}
	return true, nil
}
