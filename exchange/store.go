// (c) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package exchange

import (
	"fmt"
	"sync"

	"github.com/ava-labs/avalanchego/cache"
	"github.com/ava-labs/avalanchego/cache/metercacher"
	"github.com/ava-labs/avalanchego/database"
	"github.com/prometheus/client_golang/prometheus"

	log "github.com/inconshreveable/log15"

	"github.com/ava-labs/movecodec/values"
)

var (
	_ ValueExchange = (*Store)(nil)
	_ Generator     = (*Store)(nil)
)

// Store is a ValueExchange backed by a database. Identifiers come from a
// persisted counter starting at 0, so every identifier fits in 64 bits.
// Mappings are buffered until Commit. Store is safe for concurrent use.
type Store struct {
	lock sync.Mutex

	state   State
	nextID  ID
	metrics *metrics
	log     log.Logger
}

// NewStore opens the identifier table kept in [db].
func NewStore(db database.Database, config Config, registerer prometheus.Registerer) (*Store, error) {
	if err := config.Verify(); err != nil {
		return nil, err
	}
	valueCache, err := metercacher.New(
		config.cacheNamespace(),
		registerer,
		&cache.LRU{Size: config.CacheSize},
	)
	if err != nil {
		return nil, err
	}
	m, err := newMetrics(config.Namespace, registerer)
	if err != nil {
		return nil, err
	}

	s := &Store{
		state:   NewState(db, valueCache),
		metrics: m,
		log:     log.New("module", "exchange"),
	}
	s.nextID, err = s.state.NextID()
	if err != nil {
		return nil, fmt.Errorf("couldn't read next identifier: %w", err)
	}
	s.log.Debug("opened identifier table", "nextID", s.nextID)
	return s, nil
}

// Record implements ValueExchange.
func (s *Store) Record(v values.Value) (values.Value, error) {
	id, err := s.GenerateIDAndRecordValue(v)
	if err != nil {
		return nil, err
	}
	return idValue(id, v.Kind()), nil
}

// Claim implements ValueExchange.
func (s *Store) Claim(idv values.Value) (values.Value, error) {
	id, err := idFromValue(idv)
	if err != nil {
		return nil, err
	}
	return s.GetValue(id)
}

// GenerateIDAndRecordValue implements Generator.
func (s *Store) GenerateIDAndRecordValue(v values.Value) (ID, error) {
	if err := checkExchangeable(v); err != nil {
		return 0, err
	}

	s.lock.Lock()
	defer s.lock.Unlock()

	id := s.nextID
	exists, err := s.state.HasValue(id)
	if err != nil {
		return 0, err
	}
	// The counter passes a taken id too, so each collision is reported once.
	if err := s.state.SetNextID(id + 1); err != nil {
		return 0, err
	}
	s.nextID = id + 1
	if exists {
		s.log.Debug("identifier already mapped", "id", id)
		return 0, fmt.Errorf("%w: %s", ErrDuplicateMapping, id)
	}
	if err := s.state.PutValue(id, v); err != nil {
		return 0, err
	}
	s.metrics.records.Inc()
	s.log.Debug("recorded value", "id", id, "kind", v.Kind())
	return id, nil
}

// GetValue implements Generator.
func (s *Store) GetValue(id ID) (values.Value, error) {
	s.lock.Lock()
	defer s.lock.Unlock()

	s.metrics.claims.Inc()
	v, err := s.state.GetValue(id)
	if err == database.ErrNotFound {
		s.metrics.claimMisses.Inc()
		s.log.Debug("claim missed", "id", id)
		return nil, fmt.Errorf("%w: %s", ErrUnknownIdentifier, id)
	}
	return v, err
}

// Set maps [id] to [v], replacing any existing mapping.
func (s *Store) Set(id ID, v values.Value) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	return s.state.PutValue(id, v)
}

// Len returns the number of identifiers minted so far.
func (s *Store) Len() uint64 {
	s.lock.Lock()
	defer s.lock.Unlock()

	return uint64(s.nextID)
}

// Commit flushes pending mappings to the underlying database.
func (s *Store) Commit() error {
	s.lock.Lock()
	defer s.lock.Unlock()

	return s.state.Commit()
}

// Abort drops every mapping since the last Commit and rewinds the counter.
func (s *Store) Abort() error {
	s.lock.Lock()
	defer s.lock.Unlock()

	s.state.Abort()
	next, err := s.state.NextID()
	if err != nil {
		return err
	}
	s.log.Debug("aborted pending mappings", "from", s.nextID, "to", next)
	s.nextID = next
	return nil
}

// Close closes the store's view of the database.
func (s *Store) Close() error {
	s.lock.Lock()
	defer s.lock.Unlock()

	return s.state.Close()
}
