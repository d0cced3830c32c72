// Package metrics exposes Prometheus collectors for workspace activity and
// wires them into the model's lifecycle hooks.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/tessella-io/tessella/pkg/workspace"
)

// Collectors holds the workspace-level Prometheus metrics.
type Collectors struct {
	BlocksCreated  *prometheus.CounterVec
	BlocksDisposed *prometheus.CounterVec
	Connects       prometheus.Counter
	Disconnects    prometheus.Counter
	Renders        prometheus.Counter
}

// New creates the collectors and registers them with the given registerer.
// Pass prometheus.DefaultRegisterer for the process-global registry.
func New(reg prometheus.Registerer) *Collectors {
	c := &Collectors{
		BlocksCreated: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tessella_blocks_created_total",
				Help: "Total number of blocks created, by block type",
			},
			[]string{"type"},
		),
		BlocksDisposed: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tessella_blocks_disposed_total",
				Help: "Total number of blocks disposed, by block type",
			},
			[]string{"type"},
		),
		Connects: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tessella_connections_made_total",
			Help: "Total number of connections established",
		}),
		Disconnects: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tessella_connections_severed_total",
			Help: "Total number of connections severed",
		}),
		Renders: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tessella_block_renders_total",
			Help: "Total number of block render passes",
		}),
	}
	reg.MustRegister(c.BlocksCreated, c.BlocksDisposed, c.Connects, c.Disconnects, c.Renders)
	return c
}

// Hooks returns workspace hooks that record into the collectors. Merge them
// with application hooks before constructing the workspace.
func (c *Collectors) Hooks() workspace.Hooks {
	return workspace.Hooks{
		OnBlockCreate: func(b *workspace.Block) {
			c.BlocksCreated.WithLabelValues(b.Type()).Inc()
		},
		OnBlockDispose: func(b *workspace.Block) {
			c.BlocksDisposed.WithLabelValues(b.Type()).Inc()
		},
		OnConnect: func(sup, inf *workspace.Connection) {
			c.Connects.Inc()
		},
		OnDisconnect: func(sup, inf *workspace.Connection) {
			c.Disconnects.Inc()
		},
		OnBlockRender: func(b *workspace.Block) {
			c.Renders.Inc()
		},
	}
}
