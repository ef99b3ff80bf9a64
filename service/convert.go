// (c) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package service

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/ava-labs/movecodec/layout"
	"github.com/ava-labs/movecodec/serializer"
	"github.com/ava-labs/movecodec/values"
)

// MarshalValue renders [v] as JSON. Integers up to u32 are numbers, wider
// integers are decimal strings, addresses are 0x-prefixed hex, and vectors and
// structs are arrays.
func MarshalValue(v values.Value) (json.RawMessage, error) {
	return json.Marshal(toJSON(v))
}

func toJSON(v values.Value) interface{} {
	switch v := v.(type) {
	case values.Bool:
		return bool(v)
	case values.U8:
		return uint8(v)
	case values.U16:
		return uint16(v)
	case values.U32:
		return uint32(v)
	case values.U64:
		return strconv.FormatUint(uint64(v), 10)
	case values.U128:
		return v.Int().ToBig().String()
	case values.U256:
		return v.Int().ToBig().String()
	case values.Address:
		return v.String()
	case values.Signer:
		return v.Address.String()
	case values.Vector:
		return seqToJSON(v)
	case values.Struct:
		return seqToJSON(v)
	default:
		return nil
	}
}

func seqToJSON(vs []values.Value) []interface{} {
	out := make([]interface{}, len(vs))
	for i, v := range vs {
		out[i] = toJSON(v)
	}
	return out
}

// UnmarshalValue reads JSON in the form produced by MarshalValue, using [l] to
// decide the kind of every node. Integers are accepted as numbers or strings.
func UnmarshalValue(raw json.RawMessage, l layout.TypeLayout) (values.Value, error) {
	d := json.NewDecoder(bytes.NewReader(raw))
	d.UseNumber()
	var x interface{}
	if err := d.Decode(&x); err != nil {
		return nil, fmt.Errorf("%w: %s", serializer.ErrLayoutMismatch, err)
	}
	return fromJSON(x, l)
}

func badJSON(x interface{}, l layout.TypeLayout) error {
	return fmt.Errorf("%w: JSON %v is not a %s", serializer.ErrLayoutMismatch, x, l)
}

func fromJSON(x interface{}, l layout.TypeLayout) (values.Value, error) {
	switch l := l.(type) {
	case layout.Marked:
		return fromJSON(x, l.Inner)
	case layout.Primitive:
		return primitiveFromJSON(x, l)
	case layout.Vector:
		xs, ok := x.([]interface{})
		if !ok {
			return nil, badJSON(x, l)
		}
		vec := make(values.Vector, len(xs))
		for i, elem := range xs {
			v, err := fromJSON(elem, l.Elem)
			if err != nil {
				return nil, err
			}
			vec[i] = v
		}
		return vec, nil
	case layout.Struct:
		xs, ok := x.([]interface{})
		if !ok || len(xs) != len(l.Fields) {
			return nil, badJSON(x, l)
		}
		s := make(values.Struct, len(xs))
		for i, field := range xs {
			v, err := fromJSON(field, l.Fields[i])
			if err != nil {
				return nil, err
			}
			s[i] = v
		}
		return s, nil
	default:
		return nil, badJSON(x, l)
	}
}

// integerText accepts a JSON number or string.
func integerText(x interface{}) (string, bool) {
	switch x := x.(type) {
	case json.Number:
		return x.String(), true
	case string:
		return x, true
	default:
		return "", false
	}
}

func primitiveFromJSON(x interface{}, p layout.Primitive) (values.Value, error) {
	switch p {
	case layout.Bool:
		b, ok := x.(bool)
		if !ok {
			return nil, badJSON(x, p)
		}
		return values.Bool(b), nil
	case layout.Address, layout.Signer:
		s, ok := x.(string)
		if !ok {
			return nil, badJSON(x, p)
		}
		addr, err := values.ParseAddress(s)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", serializer.ErrLayoutMismatch, err)
		}
		if p == layout.Signer {
			return values.Signer{Address: addr}, nil
		}
		return addr, nil
	}

	text, ok := integerText(x)
	if !ok {
		return nil, badJSON(x, p)
	}
	var (
		v   values.Value
		err error
	)
	switch p {
	case layout.U8, layout.U16, layout.U32, layout.U64:
		v, err = parseSmallInteger(text, p)
	case layout.U128:
		v, err = values.ParseU128(text)
	case layout.U256:
		v, err = values.ParseU256(text)
	default:
		return nil, badJSON(x, p)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s", serializer.ErrLayoutMismatch, err)
	}
	return v, nil
}

func parseSmallInteger(text string, p layout.Primitive) (values.Value, error) {
	bits := map[layout.Primitive]int{
		layout.U8:  8,
		layout.U16: 16,
		layout.U32: 32,
		layout.U64: 64,
	}[p]
	n, err := strconv.ParseUint(text, 10, bits)
	if err != nil {
		return nil, err
	}
	switch p {
	case layout.U8:
		return values.U8(n), nil
	case layout.U16:
		return values.U16(n), nil
	case layout.U32:
		return values.U32(n), nil
	default:
		return values.U64(n), nil
	}
}
