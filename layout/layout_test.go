// (c) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package layout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAndString(t *testing.T) {
	tests := []string{
		"bool",
		"u256",
		"signer",
		"vector(u8)",
		"struct()",
		"marked(marked(u32))",
		"struct(struct(u64), u128, struct(u8, vector(marked(u32)), bool))",
		"marked(vector(address))",
	}
	for _, src := range tests {
		t.Run(src, func(t *testing.T) {
			l, err := Parse(src)
			require.NoError(t, err)
			assert.Equal(t, src, l.String())
		})
	}
}

func TestParseTolerance(t *testing.T) {
	l, err := Parse("  Struct ( U64 ,marked( u128 ) )  ")
	require.NoError(t, err)
	assert.Equal(t, Struct{Fields: []TypeLayout{U64, Marked{Inner: U128}}}, l)
}

func TestParseErrors(t *testing.T) {
	for _, src := range []string{
		"",
		"u7",
		"vector",
		"vector(u8",
		"struct(u8,)",
		"struct(u8 u16)",
		"u8 u16",
		"u64_marker",
	} {
		_, err := Parse(src)
		assert.ErrorIs(t, err, ErrInvalidLayout, src)
	}
}

func TestParseRuntime(t *testing.T) {
	assert := assert.New(t)

	l, err := ParseRuntime("struct(u64, u128_marker, vector(u64_marker))")
	assert.NoError(err)
	assert.Equal(RuntimeStruct{Fields: []SerializationLayout{
		U64,
		U128Marker,
		RuntimeVector{Elem: U64Marker},
	}}, l)
	assert.Equal("struct(u64, u128_marker, vector(u64_marker))", l.String())

	_, err = ParseRuntime("marked(u64)")
	assert.ErrorIs(err, ErrInvalidLayout)
}

func TestUnmark(t *testing.T) {
	marked := Mark(Struct{Fields: []TypeLayout{
		Mark(Struct{Fields: []TypeLayout{U64}}, 2),
		U128,
		Vector{Elem: Marked{Inner: U32}},
	}}, 3)
	assert.Equal(t, Struct{Fields: []TypeLayout{
		Struct{Fields: []TypeLayout{U64}},
		U128,
		Vector{Elem: U32},
	}}, Unmark(marked))
}

func TestToSerializationLayout(t *testing.T) {
	assert := assert.New(t)

	l, err := ToSerializationLayout(Struct{Fields: []TypeLayout{
		U64,
		Marked{Inner: U128},
		Mark(U64, 4),
		Vector{Elem: Marked{Inner: U64}},
		Vector{Elem: Address},
	}})
	assert.NoError(err)
	assert.Equal(RuntimeStruct{Fields: []SerializationLayout{
		U64,
		U128Marker,
		U64Marker,
		RuntimeVector{Elem: U64Marker},
		RuntimeVector{Elem: Address},
	}}, l)

	for _, bad := range []TypeLayout{
		Marked{Inner: U32},
		Marked{Inner: Struct{Fields: []TypeLayout{U64}}},
		Vector{Elem: Marked{Inner: Vector{Elem: U64}}},
		Marked{Inner: U256},
	} {
		_, err := ToSerializationLayout(bad)
		assert.ErrorIs(err, ErrUnsupportedMarking, bad.String())
	}
}

func TestErase(t *testing.T) {
	l := RuntimeStruct{Fields: []SerializationLayout{
		U128Marker,
		RuntimeVector{Elem: U64Marker},
		Bool,
	}}
	assert.Equal(t, RuntimeStruct{Fields: []SerializationLayout{
		U128,
		RuntimeVector{Elem: U64},
		Bool,
	}}, Erase(l))
}
