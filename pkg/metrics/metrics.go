// Package metrics exports view tree lifecycle activity as Prometheus
// metrics.
//
// A Collector is both a view.Observer and a prometheus.Collector: install
// it on a tree with view.WithObserver and register it with a registry.
//
//	c := metrics.New("viewtree")
//	reg.MustRegister(c)
//	tree := view.NewTree(r, view.WithObserver(c))
package metrics

import (
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/go-drift/viewtree/pkg/lifecycle"
	"github.com/go-drift/viewtree/pkg/view"
)

// Collector counts state changes, transitions and build-outs.
//
// Observer methods must be called from the goroutine that owns the tree;
// Describe and Collect may be called from any goroutine.
type Collector struct {
	nodes       *prometheus.GaugeVec
	changes     *prometheus.CounterVec
	started     *prometheus.CounterVec
	ended       *prometheus.CounterVec
	durations   *prometheus.HistogramVec
	buildOuts   *prometheus.CounterVec
	activeOuts  prometheus.Gauge
	now         func() time.Time
	transitions map[view.ID]time.Time
}

var _ view.Observer = (*Collector)(nil)
var _ prometheus.Collector = (*Collector)(nil)

// Option configures a Collector.
type Option func(*Collector)

// WithClock sets the time source for transition durations.
func WithClock(now func() time.Time) Option {
	return func(c *Collector) { c.now = now }
}

// New creates a Collector whose metric names are prefixed by namespace.
func New(namespace string, opts ...Option) *Collector {
	c := &Collector{
		nodes: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "nodes",
			Help:      "Number of rendered nodes by lifecycle state.",
		}, []string{"state"}),
		changes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "state_changes_total",
			Help:      "Lifecycle state changes by source and destination state.",
		}, []string{"from", "to"}),
		started: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transitions_started_total",
			Help:      "Transitions started by kind.",
		}, []string{"kind"}),
		ended: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transitions_ended_total",
			Help:      "Transitions ended by kind and outcome.",
		}, []string{"kind", "outcome"}),
		durations: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "transition_duration_seconds",
			Help:      "Time from transition start to completion or cancellation.",
			Buckets:   []float64{.05, .1, .25, .5, 1, 2.5, 5},
		}, []string{"kind"}),
		buildOuts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "build_outs_total",
			Help:      "Finished deferred removals by outcome.",
		}, []string{"outcome"}),
		activeOuts: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "build_outs_active",
			Help:      "Deferred removals waiting on exit transitions.",
		}),
		now:         time.Now,
		transitions: make(map[view.ID]time.Time),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// StateLabel is the label value used for s.
func StateLabel(s lifecycle.State) string {
	return strings.ToLower(s.String())
}

// StateChanged moves the node between state gauges. Unrendered nodes are
// not tracked; every node starts and ends there.
func (c *Collector) StateChanged(v view.View, from, to lifecycle.State) {
	if from != lifecycle.Unrendered {
		c.nodes.WithLabelValues(StateLabel(from)).Dec()
	}
	if to != lifecycle.Unrendered {
		c.nodes.WithLabelValues(StateLabel(to)).Inc()
	}
	c.changes.WithLabelValues(StateLabel(from), StateLabel(to)).Inc()
}

func (c *Collector) TransitionStarted(v view.View, kind view.TransitionKind) {
	c.started.WithLabelValues(kind.String()).Inc()
	c.transitions[v.ID()] = c.now()
}

func (c *Collector) TransitionEnded(v view.View, kind view.TransitionKind, cancelled bool) {
	outcome := "completed"
	if cancelled {
		outcome = "cancelled"
	}
	c.ended.WithLabelValues(kind.String(), outcome).Inc()
	if start, ok := c.transitions[v.ID()]; ok {
		delete(c.transitions, v.ID())
		c.durations.WithLabelValues(kind.String()).Observe(c.now().Sub(start).Seconds())
	}
}

func (c *Collector) BuildOutStarted(view.View) {
	c.activeOuts.Inc()
}

func (c *Collector) BuildOutFinished(_ view.View, cancelled bool) {
	c.activeOuts.Dec()
	outcome := "removed"
	if cancelled {
		outcome = "cancelled"
	}
	c.buildOuts.WithLabelValues(outcome).Inc()
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	for _, m := range c.collectors() {
		m.Describe(ch)
	}
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	for _, m := range c.collectors() {
		m.Collect(ch)
	}
}

func (c *Collector) collectors() []prometheus.Collector {
	return []prometheus.Collector{
		c.nodes, c.changes, c.started, c.ended, c.durations, c.buildOuts, c.activeOuts,
	}
}
