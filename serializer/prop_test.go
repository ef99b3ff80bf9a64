// (c) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package serializer

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ava-labs/movecodec/layout"
	"github.com/ava-labs/movecodec/values"
)

const (
	propIterations = 300
	propMaxDepth   = 4
)

// generator builds random layouts and values that match them.
type generator struct {
	rng *rand.Rand
}

func newGenerator(seed int64) *generator {
	return &generator{rng: rand.New(rand.NewSource(seed))}
}

func (g *generator) primitive() layout.Primitive {
	return layout.Primitive(g.rng.Intn(int(layout.Signer) + 1))
}

func (g *generator) typeLayout(depth int) layout.TypeLayout {
	var l layout.TypeLayout
	switch k := g.rng.Intn(4); {
	case depth <= 0 || k < 2:
		l = g.primitive()
	case k == 2:
		l = layout.Vector{Elem: g.typeLayout(depth - 1)}
	default:
		fields := make([]layout.TypeLayout, g.rng.Intn(4))
		for i := range fields {
			fields[i] = g.typeLayout(depth - 1)
		}
		l = layout.Struct{Fields: fields}
	}
	if g.rng.Intn(3) == 0 {
		l = layout.Mark(l, 1+g.rng.Intn(3))
	}
	return l
}

func (g *generator) runtimeLayout(depth int) layout.SerializationLayout {
	switch k := g.rng.Intn(4); {
	case depth <= 0 || k < 2:
		switch p := g.primitive(); {
		case p == layout.U64 && g.rng.Intn(2) == 0:
			return layout.U64Marker
		case p == layout.U128 && g.rng.Intn(2) == 0:
			return layout.U128Marker
		default:
			return p
		}
	case k == 2:
		return layout.RuntimeVector{Elem: g.runtimeLayout(depth - 1)}
	default:
		fields := make([]layout.SerializationLayout, g.rng.Intn(4))
		for i := range fields {
			fields[i] = g.runtimeLayout(depth - 1)
		}
		return layout.RuntimeStruct{Fields: fields}
	}
}

func (g *generator) primitiveValue(p layout.Primitive) values.Value {
	r := g.rng
	switch p {
	case layout.Bool:
		return values.Bool(r.Intn(2) == 1)
	case layout.U8:
		return values.U8(r.Uint32())
	case layout.U16:
		return values.U16(r.Uint32())
	case layout.U32:
		return values.U32(r.Uint32())
	case layout.U64:
		return values.U64(r.Uint64())
	case layout.U128:
		return values.NewU128(r.Uint64(), r.Uint64())
	case layout.U256:
		return values.U256{r.Uint64(), r.Uint64(), r.Uint64(), r.Uint64()}
	case layout.Address:
		var a values.Address
		r.Read(a[:])
		return a
	default:
		var a values.Address
		r.Read(a[:])
		return values.Signer{Address: a}
	}
}

func (g *generator) value(l layout.TypeLayout) values.Value {
	switch l := l.(type) {
	case layout.Marked:
		return g.value(l.Inner)
	case layout.Primitive:
		return g.primitiveValue(l)
	case layout.Vector:
		vec := make(values.Vector, g.rng.Intn(4))
		for i := range vec {
			vec[i] = g.value(l.Elem)
		}
		return vec
	default:
		fields := l.(layout.Struct).Fields
		s := make(values.Struct, len(fields))
		for i, f := range fields {
			s[i] = g.value(f)
		}
		return s
	}
}

func (g *generator) runtimeValue(l layout.SerializationLayout) values.Value {
	switch l := l.(type) {
	case layout.Marker:
		return g.primitiveValue(l.Primitive())
	case layout.Primitive:
		return g.primitiveValue(l)
	case layout.RuntimeVector:
		vec := make(values.Vector, g.rng.Intn(4))
		for i := range vec {
			vec[i] = g.runtimeValue(l.Elem)
		}
		return vec
	default:
		fields := l.(layout.RuntimeStruct).Fields
		s := make(values.Struct, len(fields))
		for i, f := range fields {
			s[i] = g.runtimeValue(f)
		}
		return s
	}
}

func TestPropertyTransparencyAndRoundtrip(t *testing.T) {
	g := newGenerator(1)
	for i := 0; i < propIterations; i++ {
		l := g.typeLayout(propMaxDepth)
		v := g.value(l)

		b, err := SimpleSerialize(v, l)
		require.NoError(t, err, l.String())

		unmarked, err := SimpleSerialize(v, layout.Unmark(l))
		require.NoError(t, err)
		assert.Equal(t, unmarked, b, l.String())

		wrapped, err := SimpleSerialize(v, layout.Mark(l, 4))
		require.NoError(t, err)
		assert.Equal(t, unmarked, wrapped, l.String())

		decoded, err := SimpleDeserialize(b, l)
		require.NoError(t, err, l.String())
		assertValuesEqual(t, v, decoded)
	}
}

func TestPropertyExchangeRoundtrip(t *testing.T) {
	g := newGenerator(2)
	for i := 0; i < propIterations; i++ {
		l := g.runtimeLayout(propMaxDepth)
		v := g.runtimeValue(l)
		ex := newTestExchange(t)

		b, err := ComplicatedSerialize(v, l, ex)
		require.NoError(t, err, l.String())

		// surrogates have the width of the values they replace
		plain, err := ComplicatedSerialize(v, layout.Erase(l), ex)
		require.NoError(t, err)
		assert.Len(t, b, len(plain), l.String())

		decoded, err := ComplicatedDeserialize(b, l, ex)
		require.NoError(t, err, l.String())
		assertValuesEqual(t, v, decoded)
	}
}
