package observability

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
)

// Collector exposes run and replay activity as Prometheus metrics. Wire it
// with Hooks() wherever lifecycle hooks are accepted.
type Collector struct {
	framesTotal      prometheus.Counter
	ticksTotal       prometheus.Counter
	seeksTotal       prometheus.Counter
	rebuildsTotal    prometheus.Counter
	runsTotal        *prometheus.CounterVec
	commandsPerFrame prometheus.Histogram
	framesPerSeek    prometheus.Histogram
}

// NewCollector creates and registers the metric set. Pass
// prometheus.DefaultRegisterer for the global registry.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		framesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "marionette_frames_total",
			Help: "Frames transmitted or recorded.",
		}),
		ticksTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "marionette_ticks_total",
			Help: "Extra sequence ticks drained beyond the first frame of a batch.",
		}),
		seeksTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "marionette_seeks_total",
			Help: "History player seeks.",
		}),
		rebuildsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "marionette_seek_rebuilds_total",
			Help: "Seeks that reset the registry and replayed from frame zero.",
		}),
		runsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "marionette_runs_total",
			Help: "Completed mutator runs.",
		}, []string{"outcome"}),
		commandsPerFrame: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "marionette_commands_per_frame",
			Help:    "Commands carried by one frame.",
			Buckets: prometheus.ExponentialBuckets(1, 2, 10),
		}),
		framesPerSeek: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "marionette_frames_replayed_per_seek",
			Help:    "Frames replayed to satisfy one seek.",
			Buckets: prometheus.ExponentialBuckets(1, 2, 12),
		}),
	}
	reg.MustRegister(
		c.framesTotal, c.ticksTotal, c.seeksTotal, c.rebuildsTotal,
		c.runsTotal, c.commandsPerFrame, c.framesPerSeek,
	)
	return c
}

// Hooks returns lifecycle hooks feeding this collector.
func (c *Collector) Hooks() Hooks {
	return Hooks{
		OnFrame: func(_ context.Context, e *FrameEvent) {
			c.framesTotal.Inc()
			c.commandsPerFrame.Observe(float64(e.Commands))
		},
		OnTick: func(_ context.Context, _ *TickEvent) {
			c.ticksTotal.Inc()
		},
		OnSeek: func(_ context.Context, e *SeekEvent) {
			c.seeksTotal.Inc()
			c.framesPerSeek.Observe(float64(e.Replayed))
			if e.Rebuilt {
				c.rebuildsTotal.Inc()
			}
		},
		OnDone: func(_ context.Context, e *RunEvent) {
			outcome := "ok"
			if e.Failed {
				outcome = "error"
			}
			c.runsTotal.WithLabelValues(outcome).Inc()
		},
	}
}
