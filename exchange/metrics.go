// (c) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package exchange

import (
	"github.com/ava-labs/avalanchego/utils/wrappers"
	"github.com/prometheus/client_golang/prometheus"
)

type metrics struct {
	records     prometheus.Counter
	claims      prometheus.Counter
	claimMisses prometheus.Counter
}

func newMetrics(namespace string, registerer prometheus.Registerer) (*metrics, error) {
	m := &metrics{
		records: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "records",
			Help:      "Number of values recorded under a new identifier",
		}),
		claims: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "claims",
			Help:      "Number of identifiers claimed",
		}),
		claimMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "claim_misses",
			Help:      "Number of claims for identifiers with no mapping",
		}),
	}

	errs := wrappers.Errs{}
	errs.Add(
		registerer.Register(m.records),
		registerer.Register(m.claims),
		registerer.Register(m.claimMisses),
	)
	return m, errs.Err
}
