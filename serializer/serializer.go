// (c) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package serializer converts values to and from their canonical bytes.
//
// SimpleSerialize and SimpleDeserialize walk a layout.TypeLayout and treat
// Marked nodes as pass-through. ComplicatedSerialize and
// ComplicatedDeserialize walk a layout.SerializationLayout and swap the
// integers found at marker leaves for identifiers minted by an
// exchange.ValueExchange. Both produce the same wire shape, so bytes written
// by one can always be parsed by the other.
package serializer

import (
	"fmt"

	"github.com/ava-labs/movecodec/exchange"
	"github.com/ava-labs/movecodec/layout"
	"github.com/ava-labs/movecodec/values"
)

// SimpleSerialize encodes [v] against [l]. Marked nodes contribute nothing.
func SimpleSerialize(v values.Value, l layout.TypeLayout) ([]byte, error) {
	p := newPacker()
	if err := serialize(p, v, l); err != nil {
		return nil, err
	}
	return p.bytes, nil
}

// SimpleDeserialize decodes [b] against [l]. All of [b] must be consumed.
func SimpleDeserialize(b []byte, l layout.TypeLayout) (values.Value, error) {
	u := &unpacker{bytes: b}
	v, err := deserialize(u, l)
	if err != nil {
		return nil, err
	}
	if u.remaining() != 0 {
		return nil, fmt.Errorf("%w: %d bytes left after %s", ErrTrailingBytes, u.remaining(), l)
	}
	return v, nil
}

// ComplicatedSerialize encodes [v] against [l], recording every integer at a
// marker leaf in [ex] and writing the identifier it returns instead.
func ComplicatedSerialize(v values.Value, l layout.SerializationLayout, ex exchange.ValueExchange) ([]byte, error) {
	p := newPacker()
	if err := serializeWithExchange(p, v, l, ex); err != nil {
		return nil, err
	}
	return p.bytes, nil
}

// ComplicatedDeserialize decodes [b] against [l], reading the integers at
// marker leaves as identifiers and claiming their values from [ex].
func ComplicatedDeserialize(b []byte, l layout.SerializationLayout, ex exchange.ValueExchange) (values.Value, error) {
	u := &unpacker{bytes: b}
	v, err := deserializeWithExchange(u, l, ex)
	if err != nil {
		return nil, err
	}
	if u.remaining() != 0 {
		return nil, fmt.Errorf("%w: %d bytes left after %s", ErrTrailingBytes, u.remaining(), l)
	}
	return v, nil
}

// SerializeMarked lowers [l] with layout.ToSerializationLayout and encodes [v]
// with identifier exchange.
func SerializeMarked(v values.Value, l layout.TypeLayout, ex exchange.ValueExchange) ([]byte, error) {
	runtime, err := layout.ToSerializationLayout(l)
	if err != nil {
		return nil, err
	}
	return ComplicatedSerialize(v, runtime, ex)
}

// DeserializeMarked lowers [l] with layout.ToSerializationLayout and decodes
// [b] with identifier exchange.
func DeserializeMarked(b []byte, l layout.TypeLayout, ex exchange.ValueExchange) (values.Value, error) {
	runtime, err := layout.ToSerializationLayout(l)
	if err != nil {
		return nil, err
	}
	return ComplicatedDeserialize(b, runtime, ex)
}

func serialize(p *packer, v values.Value, l layout.TypeLayout) error {
	switch l := l.(type) {
	case layout.Marked:
		return serialize(p, v, l.Inner)
	case layout.Primitive:
		return p.packPrimitive(v, l)
	case layout.Vector:
		vec, ok := v.(values.Vector)
		if !ok {
			return mismatch(v, l)
		}
		if err := p.packLen(len(vec)); err != nil {
			return err
		}
		for _, elem := range vec {
			if err := serialize(p, elem, l.Elem); err != nil {
				return err
			}
		}
		return nil
	case layout.Struct:
		s, ok := v.(values.Struct)
		if !ok || len(s) != len(l.Fields) {
			return mismatch(v, l)
		}
		for i, field := range s {
			if err := serialize(p, field, l.Fields[i]); err != nil {
				return err
			}
		}
		return nil
	default:
		return fmt.Errorf("%w: unknown layout %T", ErrLayoutMismatch, l)
	}
}

func deserialize(u *unpacker, l layout.TypeLayout) (values.Value, error) {
	switch l := l.(type) {
	case layout.Marked:
		return deserialize(u, l.Inner)
	case layout.Primitive:
		return u.unpackPrimitive(l)
	case layout.Vector:
		n, err := u.unpackLen(l)
		if err != nil {
			return nil, err
		}
		vec := make(values.Vector, 0, capHint(n, u))
		for i := 0; i < n; i++ {
			elem, err := deserialize(u, l.Elem)
			if err != nil {
				return nil, err
			}
			vec = append(vec, elem)
		}
		return vec, nil
	case layout.Struct:
		s := make(values.Struct, len(l.Fields))
		for i, field := range l.Fields {
			v, err := deserialize(u, field)
			if err != nil {
				return nil, err
			}
			s[i] = v
		}
		return s, nil
	default:
		return nil, fmt.Errorf("%w: unknown layout %T", ErrLayoutMismatch, l)
	}
}

func serializeWithExchange(p *packer, v values.Value, l layout.SerializationLayout, ex exchange.ValueExchange) error {
	switch l := l.(type) {
	case layout.Marker:
		prim := l.Primitive()
		if v == nil || v.Kind() != kindOf(prim) {
			return mismatch(v, l)
		}
		if n, ok := v.(values.U128); ok && !n.Fits() {
			return mismatch(v, l)
		}
		id, err := ex.Record(v)
		if err != nil {
			return err
		}
		if id.Kind() != v.Kind() {
			return fmt.Errorf("%w: identifier %s recorded for %s", ErrLayoutMismatch, id, l)
		}
		return p.packPrimitive(id, prim)
	case layout.Primitive:
		return p.packPrimitive(v, l)
	case layout.RuntimeVector:
		vec, ok := v.(values.Vector)
		if !ok {
			return mismatch(v, l)
		}
		if err := p.packLen(len(vec)); err != nil {
			return err
		}
		for _, elem := range vec {
			if err := serializeWithExchange(p, elem, l.Elem, ex); err != nil {
				return err
			}
		}
		return nil
	case layout.RuntimeStruct:
		s, ok := v.(values.Struct)
		if !ok || len(s) != len(l.Fields) {
			return mismatch(v, l)
		}
		for i, field := range s {
			if err := serializeWithExchange(p, field, l.Fields[i], ex); err != nil {
				return err
			}
		}
		return nil
	default:
		return fmt.Errorf("%w: unknown layout %T", ErrLayoutMismatch, l)
	}
}

func deserializeWithExchange(u *unpacker, l layout.SerializationLayout, ex exchange.ValueExchange) (values.Value, error) {
	switch l := l.(type) {
	case layout.Marker:
		id, err := u.unpackPrimitive(l.Primitive())
		if err != nil {
			return nil, err
		}
		v, err := ex.Claim(id)
		if err != nil {
			return nil, err
		}
		if v.Kind() != id.Kind() {
			return nil, fmt.Errorf("%w: claimed %s for identifier %s at %s", ErrLayoutMismatch, v, id, l)
		}
		return v, nil
	case layout.Primitive:
		return u.unpackPrimitive(l)
	case layout.RuntimeVector:
		n, err := u.unpackLen(l)
		if err != nil {
			return nil, err
		}
		vec := make(values.Vector, 0, capHint(n, u))
		for i := 0; i < n; i++ {
			elem, err := deserializeWithExchange(u, l.Elem, ex)
			if err != nil {
				return nil, err
			}
			vec = append(vec, elem)
		}
		return vec, nil
	case layout.RuntimeStruct:
		s := make(values.Struct, len(l.Fields))
		for i, field := range l.Fields {
			v, err := deserializeWithExchange(u, field, ex)
			if err != nil {
				return nil, err
			}
			s[i] = v
		}
		return s, nil
	default:
		return nil, fmt.Errorf("%w: unknown layout %T", ErrLayoutMismatch, l)
	}
}

// capHint bounds the preallocation for a decoded vector by the bytes left.
func capHint(n int, u *unpacker) int {
	if r := u.remaining(); n > r {
		return r
	}
	return n
}

func kindOf(prim layout.Primitive) values.Kind {
	switch prim {
	case layout.Bool:
		return values.BoolKind
	case layout.U8:
		return values.U8Kind
	case layout.U16:
		return values.U16Kind
	case layout.U32:
		return values.U32Kind
	case layout.U64:
		return values.U64Kind
	case layout.U128:
		return values.U128Kind
	case layout.U256:
		return values.U256Kind
	case layout.Address:
		return values.AddressKind
	default:
		return values.SignerKind
	}
}
