// (c) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package layout describes the shapes values are serialized with.
//
// There are two trees. TypeLayout is the full schema: it may wrap any subtree
// in Marked to flag it as eligible for identifier exchange, and Marked has no
// wire encoding of its own. SerializationLayout is the reduced runtime schema
// used when identifiers are exchanged: instead of a generic wrapper it carries
// U64Marker and U128Marker leaves in place of the integers to substitute.
package layout

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrUnsupportedMarking = errors.New("only u64 and u128 leaves can be marked for exchange")

	_ TypeLayout = Bool
	_ TypeLayout = Vector{}
	_ TypeLayout = Struct{}
	_ TypeLayout = Marked{}

	_ SerializationLayout = Bool
	_ SerializationLayout = U64Marker
	_ SerializationLayout = RuntimeVector{}
	_ SerializationLayout = RuntimeStruct{}
)

// TypeLayout is a node of the full schema tree.
type TypeLayout interface {
	fmt.Stringer
	typeLayout()
}

// SerializationLayout is a node of the reduced runtime schema tree.
type SerializationLayout interface {
	fmt.Stringer
	serializationLayout()
}

// Primitive is a leaf shared by both trees.
type Primitive uint8

const (
	Bool Primitive = iota
	U8
	U16
	U32
	U64
	U128
	U256
	Address
	Signer
)

var primitiveNames = [...]string{
	Bool:    "bool",
	U8:      "u8",
	U16:     "u16",
	U32:     "u32",
	U64:     "u64",
	U128:    "u128",
	U256:    "u256",
	Address: "address",
	Signer:  "signer",
}

func (p Primitive) String() string {
	if int(p) < len(primitiveNames) {
		return primitiveNames[p]
	}
	return fmt.Sprintf("primitive(%d)", uint8(p))
}

func (Primitive) typeLayout()          {}
func (Primitive) serializationLayout() {}

// Marker flags an integer leaf for identifier exchange.
type Marker uint8

const (
	U64Marker Marker = iota
	U128Marker
)

func (m Marker) String() string {
	return m.Primitive().String() + "_marker"
}

// Primitive returns the integer leaf the marker stands in for.
func (m Marker) Primitive() Primitive {
	if m == U128Marker {
		return U128
	}
	return U64
}

func (Marker) serializationLayout() {}

// Vector is a homogeneous sequence of Elem.
type Vector struct {
	Elem TypeLayout
}

// Struct lists the layouts of a struct's fields in declaration order.
type Struct struct {
	Fields []TypeLayout
}

// Marked annotates Inner as eligible for identifier exchange. It does not
// change the plain encoding of Inner.
type Marked struct {
	Inner TypeLayout
}

func (Vector) typeLayout() {}
func (Struct) typeLayout() {}
func (Marked) typeLayout() {}

func (v Vector) String() string { return "vector(" + v.Elem.String() + ")" }
func (s Struct) String() string { return "struct(" + joinTypes(s.Fields) + ")" }
func (m Marked) String() string { return "marked(" + m.Inner.String() + ")" }

// RuntimeVector is the SerializationLayout counterpart of Vector.
type RuntimeVector struct {
	Elem SerializationLayout
}

// RuntimeStruct is the SerializationLayout counterpart of Struct.
type RuntimeStruct struct {
	Fields []SerializationLayout
}

func (RuntimeVector) serializationLayout() {}
func (RuntimeStruct) serializationLayout() {}

func (v RuntimeVector) String() string { return "vector(" + v.Elem.String() + ")" }

func (s RuntimeStruct) String() string {
	parts := make([]string, len(s.Fields))
	for i, f := range s.Fields {
		parts[i] = f.String()
	}
	return "struct(" + strings.Join(parts, ", ") + ")"
}

func joinTypes(ls []TypeLayout) string {
	parts := make([]string, len(ls))
	for i, l := range ls {
		parts[i] = l.String()
	}
	return strings.Join(parts, ", ")
}

// Mark wraps [l] in [depth] Marked nodes.
func Mark(l TypeLayout, depth int) TypeLayout {
	for i := 0; i < depth; i++ {
		l = Marked{Inner: l}
	}
	return l
}

// Unmark returns [l] with every Marked node removed.
func Unmark(l TypeLayout) TypeLayout {
	switch l := l.(type) {
	case Marked:
		return Unmark(l.Inner)
	case Vector:
		return Vector{Elem: Unmark(l.Elem)}
	case Struct:
		fields := make([]TypeLayout, len(l.Fields))
		for i, f := range l.Fields {
			fields[i] = Unmark(f)
		}
		return Struct{Fields: fields}
	default:
		return l
	}
}

// ToSerializationLayout lowers a full layout into the runtime tree. A marked
// u64 or u128 leaf, under any number of Marked wrappers, becomes the matching
// marker. Marking any other subtree fails with ErrUnsupportedMarking.
func ToSerializationLayout(l TypeLayout) (SerializationLayout, error) {
	switch l := l.(type) {
	case Primitive:
		return l, nil
	case Marked:
		switch Unmark(l.Inner) {
		case U64:
			return U64Marker, nil
		case U128:
			return U128Marker, nil
		default:
			return nil, fmt.Errorf("%w: %s", ErrUnsupportedMarking, l)
		}
	case Vector:
		elem, err := ToSerializationLayout(l.Elem)
		if err != nil {
			return nil, err
		}
		return RuntimeVector{Elem: elem}, nil
	case Struct:
		fields := make([]SerializationLayout, len(l.Fields))
		for i, f := range l.Fields {
			field, err := ToSerializationLayout(f)
			if err != nil {
				return nil, err
			}
			fields[i] = field
		}
		return RuntimeStruct{Fields: fields}, nil
	default:
		return nil, fmt.Errorf("%w: %T", ErrInvalidLayout, l)
	}
}

// Erase replaces every marker in [l] with the integer leaf it stands for. The
// result describes how an exchange-unaware reader sees the same bytes.
func Erase(l SerializationLayout) SerializationLayout {
	switch l := l.(type) {
	case Marker:
		return l.Primitive()
	case RuntimeVector:
		return RuntimeVector{Elem: Erase(l.Elem)}
	case RuntimeStruct:
		fields := make([]SerializationLayout, len(l.Fields))
		for i, f := range l.Fields {
			fields[i] = Erase(f)
		}
		return RuntimeStruct{Fields: fields}
	default:
		return l
	}
}
