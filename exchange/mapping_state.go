// (c) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package exchange

import (
	"errors"

	"github.com/ava-labs/avalanchego/cache"
	"github.com/ava-labs/avalanchego/database"

	"github.com/ava-labs/movecodec/values"
)

var (
	errEntryWrongVersion = errors.New("wrong version")

	_ MappingState = &mappingState{}
)

// MappingState persists the identifier table.
type MappingState interface {
	GetValue(id ID) (values.Value, error)
	PutValue(id ID, v values.Value) error
	HasValue(id ID) (bool, error)

	ClearCache()
}

// entry is the stored form of an exchanged integer.
type entry struct {
	Wide bool   `serialize:"true"`
	Hi   uint64 `serialize:"true"`
	Lo   uint64 `serialize:"true"`
}

func newEntry(v values.Value) (entry, error) {
	if err := checkExchangeable(v); err != nil {
		return entry{}, err
	}
	if n, ok := v.(values.U128); ok {
		hi, lo := n.Halves()
		return entry{Wide: true, Hi: hi, Lo: lo}, nil
	}
	return entry{Lo: uint64(v.(values.U64))}, nil
}

func (e entry) value() values.Value {
	if e.Wide {
		return values.NewU128(e.Hi, e.Lo)
	}
	return values.U64(e.Lo)
}

type mappingState struct {
	valueCache cache.Cacher
	mappingDB  database.Database
}

func NewMappingState(db database.Database, valueCache cache.Cacher) MappingState {
	return &mappingState{
		valueCache: valueCache,
		mappingDB:  db,
	}
}

func (s *mappingState) GetValue(id ID) (values.Value, error) {
	if v, ok := s.valueCache.Get(id); ok {
		return v.(values.Value), nil
	}

	entryBytes, err := s.mappingDB.Get(database.PackUInt64(uint64(id)))
	if err != nil {
		return nil, err
	}

	e := entry{}
	parsedVersion, err := Codec.Unmarshal(entryBytes, &e)
	if err != nil {
		return nil, err
	}
	if parsedVersion != CodecVersion {
		return nil, errEntryWrongVersion
	}

	v := e.value()
	s.valueCache.Put(id, v)
	return v, nil
}

func (s *mappingState) PutValue(id ID, v values.Value) error {
	e, err := newEntry(v)
	if err != nil {
		return err
	}
	bytes, err := Codec.Marshal(CodecVersion, &e)
	if err != nil {
		return err
	}

	if err := s.mappingDB.Put(database.PackUInt64(uint64(id)), bytes); err != nil {
		return err
	}
	s.valueCache.Put(id, v)
	return nil
}

func (s *mappingState) HasValue(id ID) (bool, error) {
	if _, ok := s.valueCache.Get(id); ok {
		return true, nil
	}
	return s.mappingDB.Has(database.PackUInt64(uint64(id)))
}

func (s *mappingState) ClearCache() {
	s.valueCache.Flush()
}
