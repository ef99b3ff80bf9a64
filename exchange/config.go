// (c) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package exchange

import (
	"errors"
	"fmt"
)

var errBadCacheSize = errors.New("cache size must be positive")

// DefaultConfig is used by the daemon unless overridden.
var DefaultConfig = Config{
	CacheSize: 8192,
	Namespace: "exchange",
}

// Config parameterizes a Store.
type Config struct {
	// CacheSize is the number of claimed values kept in memory.
	CacheSize int `json:"cacheSize"`
	// Namespace prefixes the store's prometheus metrics.
	Namespace string `json:"namespace"`
}

func (c Config) Verify() error {
	if c.CacheSize <= 0 {
		return fmt.Errorf("%w: %d", errBadCacheSize, c.CacheSize)
	}
	return nil
}

func (c Config) cacheNamespace() string {
	if c.Namespace == "" {
		return "value_cache"
	}
	return c.Namespace + "_value_cache"
}
