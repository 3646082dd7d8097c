package sparsebayes

import (
	"log/slog"

	"github.com/hupe1980/sparsebayes/codec"
	"github.com/hupe1980/sparsebayes/compress"
)

type options struct {
	maxIterations  int
	tolerance      float64
	initialAlpha   float64
	pruneThreshold float64
	beta           float64
	betaFixed      bool
	bias           bool
	diagSink       DiagnosticSink
	diagFreq       int
	logger         *Logger
	metrics        MetricsCollector
	codec          codec.Codec
	compressor     compress.Compressor
}

// Option configures model construction.
//
// Defaults follow the customary hyperparameters for the evidence
// approximation: 3000 iterations, tolerance 1e-3, initial alpha 1e-6,
// prune threshold 1e9, noise precision 1e-6 (re-estimated), bias on.
type Option func(*options)

// WithMaxIterations sets the iteration budget. Exhausting it is not an
// error; the final state is used as-is.
func WithMaxIterations(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.maxIterations = n
		}
	}
}

// WithTolerance sets the convergence tolerance on the max absolute
// change of the precision hyperparameters between iterations.
func WithTolerance(tol float64) Option {
	return func(o *options) {
		if tol > 0 {
			o.tolerance = tol
		}
	}
}

// WithInitialAlpha sets the uniform initial precision assigned to every
// basis function.
func WithInitialAlpha(alpha float64) Option {
	return func(o *options) {
		if alpha > 0 {
			o.initialAlpha = alpha
		}
	}
}

// WithPruneThreshold sets the precision cutoff: basis functions with
// alpha at or above it are removed. Setting it very low still leaves
// the forced-retained minimal set, never an empty model.
func WithPruneThreshold(threshold float64) Option {
	return func(o *options) {
		if threshold > 0 {
			o.pruneThreshold = threshold
		}
	}
}

// WithNoisePrecision sets the initial noise precision (inverse
// observation noise variance).
func WithNoisePrecision(beta float64) Option {
	return func(o *options) {
		if beta > 0 {
			o.beta = beta
		}
	}
}

// WithFixedNoise controls whether the noise precision stays fixed at
// its configured value instead of being re-estimated each iteration.
func WithFixedNoise(fixed bool) Option {
	return func(o *options) {
		o.betaFixed = fixed
	}
}

// WithBias controls whether the last design matrix column is treated
// as a fixed intercept term. The bias column is unlabeled; labels
// cover the remaining columns.
func WithBias(enabled bool) Option {
	return func(o *options) {
		o.bias = enabled
	}
}

// WithDiagnosticSink configures the sink receiving per-iteration
// Diagnostic events. Pass nil to disable diagnostics.
func WithDiagnosticSink(sink DiagnosticSink) Option {
	return func(o *options) {
		if sink == nil {
			sink = NoopDiagnosticSink{}
		}
		o.diagSink = sink
	}
}

// WithDiagnosticFrequency sets the event cadence: one Diagnostic every
// n iterations.
func WithDiagnosticFrequency(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.diagFreq = n
		}
	}
}

// WithLogger configures structured logging for operations.
// Pass nil to disable logging.
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		if logger == nil {
			logger = NoopLogger()
		}
		o.logger = logger
	}
}

// WithLogLevel creates a text logger with the specified level and sets it.
// Convenience wrapper for WithLogger(NewTextLogger(level)).
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(level)
	}
}

// WithMetricsCollector configures a metrics collector for monitoring
// operations. Pass nil to disable metrics collection.
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metrics = mc
	}
}

// WithCodec configures the codec used for model snapshots.
//
// If nil is passed, codec.Default is used.
func WithCodec(c codec.Codec) Option {
	return func(o *options) {
		if c == nil {
			c = codec.Default
		}
		o.codec = c
	}
}

// WithCompressor configures the compressor used for model snapshots.
//
// If nil is passed, compression is disabled.
func WithCompressor(c compress.Compressor) Option {
	return func(o *options) {
		if c == nil {
			c = compress.None{}
		}
		o.compressor = c
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		maxIterations:  3000,
		tolerance:      1e-3,
		initialAlpha:   1e-6,
		pruneThreshold: 1e9,
		beta:           1e-6,
		betaFixed:      false,
		bias:           true,
		diagSink:       NoopDiagnosticSink{},
		diagFreq:       10,
		logger:         NoopLogger(),
		metrics:        NoopMetricsCollector{},
		codec:          codec.Default,
		compressor:     compress.None{},
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	return o
}
