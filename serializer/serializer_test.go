// (c) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package serializer

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ava-labs/movecodec/layout"
	"github.com/ava-labs/movecodec/values"
)

func assertValuesEqual(t *testing.T, expected, actual values.Value) {
	t.Helper()
	eq, err := values.Equals(expected, actual)
	require.NoError(t, err)
	assert.True(t, eq, "expected %s, got %s", expected, actual)
}

// assertSameSerialization checks that [v] encodes identically against both
// layouts and decodes back to [v] with either.
func assertSameSerialization(t *testing.T, v values.Value, l1, l2 layout.TypeLayout) {
	t.Helper()
	b1, err := SimpleSerialize(v, l1)
	require.NoError(t, err)
	b2, err := SimpleSerialize(v, l2)
	require.NoError(t, err)
	assert.Equal(t, b1, b2)

	v1, err := SimpleDeserialize(b1, l1)
	require.NoError(t, err)
	v2, err := SimpleDeserialize(b1, l2)
	require.NoError(t, err)
	assertValuesEqual(t, v, v1)
	assertValuesEqual(t, v1, v2)
}

func marked(l layout.TypeLayout) layout.TypeLayout { return layout.Marked{Inner: l} }

func vector(l layout.TypeLayout) layout.TypeLayout { return layout.Vector{Elem: l} }

func structOf(fields ...layout.TypeLayout) layout.TypeLayout {
	return layout.Struct{Fields: fields}
}

func TestWireFormat(t *testing.T) {
	tests := []struct {
		name     string
		value    values.Value
		layout   layout.TypeLayout
		expected []byte
	}{
		{"false", values.Bool(false), layout.Bool, []byte{0}},
		{"true", values.Bool(true), layout.Bool, []byte{1}},
		{"u8", values.U8(0xab), layout.U8, []byte{0xab}},
		{"u16", values.U16(0x0102), layout.U16, []byte{0x02, 0x01}},
		{"u32", values.U32(0x01020304), layout.U32, []byte{0x04, 0x03, 0x02, 0x01}},
		{"u64", values.U64(1), layout.U64, []byte{1, 0, 0, 0, 0, 0, 0, 0}},
		{
			"u128",
			values.NewU128(2, 1),
			layout.U128,
			[]byte{1, 0, 0, 0, 0, 0, 0, 0, 2, 0, 0, 0, 0, 0, 0, 0},
		},
		{
			"u256",
			values.U256{1, 0, 0, 1 << 56},
			layout.U256,
			append(append([]byte{1}, make([]byte, 30)...), 1),
		},
		{"address", values.AddressOne, layout.Address, values.AddressOne[:]},
		{"signer", values.Signer{Address: values.AddressTwo}, layout.Signer, values.AddressTwo[:]},
		{"empty vector", values.Vector{}, vector(layout.U8), []byte{0}},
		{"vector", values.Vector{values.U8(1), values.U8(2), values.U8(3)}, vector(layout.U8), []byte{3, 1, 2, 3}},
		{
			"struct",
			values.Struct{values.Bool(true), values.U16(7)},
			structOf(layout.Bool, layout.U16),
			[]byte{1, 7, 0},
		},
		{"empty struct", values.Struct{}, structOf(), []byte{}},
		{"marked", values.U16(7), marked(marked(layout.U16)), []byte{7, 0}},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			b, err := SimpleSerialize(test.value, test.layout)
			require.NoError(t, err)
			assert.Equal(t, test.expected, b)

			v, err := SimpleDeserialize(b, test.layout)
			require.NoError(t, err)
			assertValuesEqual(t, test.value, v)
		})
	}
}

func TestLongVectorPrefix(t *testing.T) {
	vec := make(values.Vector, 300)
	for i := range vec {
		vec[i] = values.Bool(i%2 == 0)
	}
	b, err := SimpleSerialize(vec, vector(layout.Bool))
	require.NoError(t, err)
	// 300 = 0b10_0101100 -> 0xac 0x02
	assert.Equal(t, []byte{0xac, 0x02}, b[:2])
	assert.Len(t, b, 302)

	v, err := SimpleDeserialize(b, vector(layout.Bool))
	require.NoError(t, err)
	assertValuesEqual(t, vec, v)
}

func TestMarkedLayoutsForPrimitiveValues(t *testing.T) {
	tests := []struct {
		value  values.Value
		layout layout.Primitive
	}{
		{values.Bool(false), layout.Bool},
		{values.U8(1), layout.U8},
		{values.U16(2), layout.U16},
		{values.U32(3), layout.U32},
		{values.U64(4), layout.U64},
		{values.NewU128(0, 5), layout.U128},
		{values.U256{1}, layout.U256},
		{values.AddressOne, layout.Address},
		{values.Signer{Address: values.AddressTwo}, layout.Signer},
	}
	for _, test := range tests {
		assertSameSerialization(t, test.value, marked(test.layout), test.layout)
	}
}

func TestMarkedLayoutsForVectorValues(t *testing.T) {
	v := values.Vector{values.U32(1), values.U32(2), values.U32(3)}
	unmarked := vector(layout.U32)

	assertSameSerialization(t, v, vector(marked(layout.U32)), unmarked)
	assertSameSerialization(t, v, marked(vector(layout.U32)), unmarked)
}

func TestMarkedLayoutsForNestedTypes(t *testing.T) {
	a := values.Struct{values.U64(1)}
	b := values.Struct{
		values.U8(2),
		values.Vector{values.U32(3), values.U32(4)},
		values.Bool(true),
	}
	c := values.Struct{a, values.NewU128(0, 2), b}

	unmarked := structOf(
		structOf(layout.U64),
		layout.U128,
		structOf(layout.U8, vector(layout.U32), layout.Bool),
	)

	assertSameSerialization(t, c, marked(unmarked), unmarked)

	assertSameSerialization(t, c, structOf(
		marked(structOf(layout.U64)),
		layout.U128,
		structOf(layout.U8, vector(layout.U32), layout.Bool),
	), unmarked)

	assertSameSerialization(t, c, structOf(
		marked(structOf(layout.U64)),
		layout.U128,
		structOf(marked(layout.U8), vector(marked(layout.U32)), layout.Bool),
	), unmarked)
}

func TestNestedMarkedLayouts(t *testing.T) {
	assertSameSerialization(t, values.U32(1), layout.Mark(layout.U32, 4), layout.U32)
	assertSameSerialization(t,
		values.Vector{values.Struct{values.U64(9)}},
		layout.Mark(vector(layout.Mark(structOf(layout.Mark(layout.U64, 3)), 2)), 5),
		vector(structOf(layout.U64)),
	)
}

func TestSerializeMismatch(t *testing.T) {
	tests := []struct {
		name   string
		value  values.Value
		layout layout.TypeLayout
	}{
		{"bool as u32", values.Bool(true), layout.U32},
		{"u64 as u128", values.U64(1), layout.U128},
		{"address as signer", values.AddressOne, layout.Signer},
		{"struct as vector", values.Struct{values.U8(1)}, vector(layout.U8)},
		{"vector as struct", values.Vector{values.U8(1)}, structOf(layout.U8)},
		{"struct arity", values.Struct{values.U8(1)}, structOf(layout.U8, layout.U8)},
		{"nested element", values.Vector{values.U8(1), values.U16(2)}, vector(layout.U8)},
		{"marked field", values.Struct{values.U8(1)}, structOf(marked(layout.Bool))},
		{"u128 beyond 128 bits", values.U128{1, 0, 1, 0}, layout.U128},
		{"u256 converted to u128", values.U128(values.U256{0, 0, 0, 1}), marked(layout.U128)},
		{"nil field", values.Struct{nil}, structOf(layout.U8)},
		{"nil element", values.Vector{values.U64(1), nil}, vector(layout.U64)},
		{"nil value", nil, layout.Bool},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			b, err := SimpleSerialize(test.value, test.layout)
			assert.ErrorIs(t, err, ErrLayoutMismatch)
			assert.Nil(t, b)
		})
	}
}

func TestDeserializeErrors(t *testing.T) {
	tests := []struct {
		name     string
		bytes    []byte
		layout   layout.TypeLayout
		expected error
	}{
		{"empty u64", nil, layout.U64, ErrTruncatedInput},
		{"short u32", []byte{1, 2, 3}, layout.U32, ErrTruncatedInput},
		{"short address", make([]byte, values.AddressLen-1), layout.Address, ErrTruncatedInput},
		{"missing length", nil, vector(layout.U8), ErrTruncatedInput},
		{"unterminated length", []byte{0x80}, vector(layout.U8), ErrTruncatedInput},
		{"missing elements", []byte{3, 1, 2}, vector(layout.U8), ErrTruncatedInput},
		{"missing field", []byte{1}, structOf(layout.Bool, layout.U8), ErrTruncatedInput},
		{"trailing", []byte{1, 0}, layout.Bool, ErrTrailingBytes},
		{"trailing after vector", []byte{1, 1, 1}, vector(layout.U8), ErrTrailingBytes},
		{"bad bool", []byte{2}, layout.Bool, ErrLayoutMismatch},
		{"non-minimal length", []byte{0x81, 0x00, 0x01}, vector(layout.U8), ErrLayoutMismatch},
		{"oversized length", []byte{0x80, 0x80, 0x80, 0x80, 0x08}, vector(layout.U8), ErrLayoutMismatch},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			v, err := SimpleDeserialize(test.bytes, test.layout)
			assert.ErrorIs(t, err, test.expected)
			assert.Nil(t, v)
		})
	}
}

func TestSerializeDoesNotAlias(t *testing.T) {
	l := structOf(layout.U8, layout.U8)
	b1, err := SimpleSerialize(values.Struct{values.U8(1), values.U8(2)}, l)
	require.NoError(t, err)
	b2, err := SimpleSerialize(values.Struct{values.U8(3), values.U8(4)}, l)
	require.NoError(t, err)
	assert.False(t, bytes.Equal(b1, b2))
	assert.Equal(t, []byte{1, 2}, b1)
}
