package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Collectors are queued at init time and handed to the default registry in
// one shot when the admin server comes up. Queuing instead of registering
// directly keeps init order between the metrics files irrelevant.
var (
	registerOnce sync.Once
	queued       []prometheus.Collector
)

func register(cs ...prometheus.Collector) {
	queued = append(queued, cs...)
}

// MustRegister flushes every queued collector into the default Prometheus
// registry. Safe to call more than once; only the first call registers.
func MustRegister() {
	registerOnce.Do(func() {
		if len(queued) > 0 {
			prometheus.MustRegister(queued...)
		}
	})
}
