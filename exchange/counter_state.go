// (c) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package exchange

import (
	"github.com/ava-labs/avalanchego/database"
)

const (
	NextIDKey byte = iota
)

var (
	nextIDKey              = []byte{NextIDKey}
	_         CounterState = (*counterState)(nil)
)

// CounterState is a thin wrapper around a database to persist the next
// identifier to mint.
type CounterState interface {
	NextID() (ID, error)
	SetNextID(ID) error
}

type counterState struct {
	singletonDB database.Database
}

func NewCounterState(db database.Database) CounterState {
	return &counterState{
		singletonDB: db,
	}
}

// NextID returns 0 if no identifier was ever minted.
func (s *counterState) NextID() (ID, error) {
	next, err := database.GetUInt64(s.singletonDB, nextIDKey)
	if err == database.ErrNotFound {
		return 0, nil
	}
	return ID(next), err
}

func (s *counterState) SetNextID(next ID) error {
	return database.PutUInt64(s.singletonDB, nextIDKey, uint64(next))
}
