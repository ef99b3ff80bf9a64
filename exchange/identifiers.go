// (c) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package exchange

import (
	"fmt"

	"github.com/ava-labs/movecodec/values"
)

var _ ValueExchange = (*generatorExchange)(nil)

// ID is an opaque 64-bit handle.
type ID uint64

func (id ID) String() string { return fmt.Sprintf("id(%d)", uint64(id)) }

// Generator mints handles for integer values. It is the handle-based form of
// ValueExchange and is only used through FromGenerator.
type Generator interface {
	// GenerateIDAndRecordValue returns a unique handle and records [v] under
	// it. Returns an error if a mapping already exists.
	GenerateIDAndRecordValue(v values.Value) (ID, error)

	// GetValue returns the value recorded under [id].
	GetValue(id ID) (values.Value, error)
}

// FromGenerator adapts a Generator to ValueExchange. Handles are returned as
// values of the same kind as the recorded value.
func FromGenerator(g Generator) ValueExchange {
	return &generatorExchange{gen: g}
}

type generatorExchange struct {
	gen Generator
}

func (g *generatorExchange) Record(v values.Value) (values.Value, error) {
	if err := checkExchangeable(v); err != nil {
		return nil, err
	}
	id, err := g.gen.GenerateIDAndRecordValue(v)
	if err != nil {
		return nil, err
	}
	return idValue(id, v.Kind()), nil
}

func (g *generatorExchange) Claim(idv values.Value) (values.Value, error) {
	id, err := idFromValue(idv)
	if err != nil {
		return nil, err
	}
	return g.gen.GetValue(id)
}
