// SPDX-License-Identifier: MIT

// Package calculator: functional configuration of the calculation runtime.
// Hyperparameters describe WHAT is computed and are fixed at construction;
// the options below only change HOW the work is scheduled and observed and
// never change the numbers produced.
package calculator

import "go.uber.org/zap"

// Runtime defaults.
const (
	// DefaultThreads lets the dispatcher use GOMAXPROCS workers.
	DefaultThreads = 0

	// DefaultCentersPerTask is the number of centers of one system handled
	// by a single work unit.
	DefaultCentersPerTask = 16
)

const (
	panicCentersPerTaskInvalid = "calculator: WithCentersPerTask: size must be positive"
	panicLoggerNil             = "calculator: WithLogger: logger must not be nil"
)

// Option mutates the runtime configuration of a Calculator.
type Option func(*config)

type config struct {
	threads        int
	centersPerTask int
	logger         *zap.Logger
	metrics        *Metrics
}

func defaultConfig() config {
	return config{
		threads:        DefaultThreads,
		centersPerTask: DefaultCentersPerTask,
		logger:         zap.NewNop(),
	}
}

func gatherOptions(opts ...Option) config {
	cfg := defaultConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	return cfg
}

// WithThreads bounds the number of concurrent work units; n <= 0 means
// GOMAXPROCS and 1 runs everything on the calling goroutine.
func WithThreads(n int) Option {
	return func(c *config) { c.threads = n }
}

// WithCentersPerTask sets how many centers of one system form a work unit.
// Panics on non-positive sizes.
func WithCentersPerTask(size int) Option {
	if size <= 0 {
		panic(panicCentersPerTaskInvalid)
	}

	return func(c *config) { c.centersPerTask = size }
}

// WithLogger routes debug and warning records to logger. Panics on nil.
func WithLogger(logger *zap.Logger) Option {
	if logger == nil {
		panic(panicLoggerNil)
	}

	return func(c *config) { c.logger = logger }
}

// WithMetrics records every computation in m. A nil m disables metrics.
func WithMetrics(m *Metrics) Option {
	return func(c *config) { c.metrics = m }
}
