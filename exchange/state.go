// (c) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package exchange

import (
	"github.com/ava-labs/avalanchego/cache"
	"github.com/ava-labs/avalanchego/database"
	"github.com/ava-labs/avalanchego/database/prefixdb"
	"github.com/ava-labs/avalanchego/database/versiondb"
)

var (
	// These are prefixes for db keys.
	// It's important to set different prefixes for each separate database objects.
	singletonStatePrefix = []byte("singleton")
	mappingStatePrefix   = []byte("mapping")

	_ State = &state{}
)

// State combines the identifier counter and the identifier table, and exposes
// the methods needed to commit, discard and close them.
type State interface {
	CounterState
	MappingState

	Commit() error
	Abort()
	Close() error
}

type state struct {
	CounterState
	MappingState

	baseDB *versiondb.Database
}

func NewState(db database.Database, valueCache cache.Cacher) State {
	// create a new baseDB
	baseDB := versiondb.New(db)

	// create a prefixed "singletonDB" from baseDB
	singletonDB := prefixdb.New(singletonStatePrefix, baseDB)
	// create a prefixed "mappingDB" from baseDB
	mappingDB := prefixdb.New(mappingStatePrefix, baseDB)

	return &state{
		CounterState: NewCounterState(singletonDB),
		MappingState: NewMappingState(mappingDB, valueCache),
		baseDB:       baseDB,
	}
}

// Commit commits pending operations to baseDB
func (s *state) Commit() error {
	return s.baseDB.Commit()
}

// Abort drops pending operations and the cache that may reflect them
func (s *state) Abort() {
	s.baseDB.Abort()
	s.ClearCache()
}

// Close closes the underlying base database
func (s *state) Close() error {
	return s.baseDB.Close()
}
