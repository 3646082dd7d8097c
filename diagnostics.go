package sparsebayes

import "context"

// Diagnostic is a structured per-iteration progress event. The core
// only produces these; a caller-supplied sink renders or logs them.
// All slices are copies and safe to retain.
type Diagnostic struct {
	// Iteration is the zero-based iteration index.
	Iteration int

	// Alpha holds the precision hyperparameters after this iteration's
	// update, before pruning.
	Alpha []float64

	// Beta is the current noise precision.
	Beta float64

	// Gamma holds 1 - alpha_i*sigma_ii per basis function.
	Gamma []float64

	// Mean is the posterior mean over weights.
	Mean []float64

	// Retained is the number of relevance vectors currently kept.
	Retained int
}

// DiagnosticSink consumes Diagnostic events. Emit is called
// synchronously from the fit loop, so implementations should be cheap
// or hand off to their own goroutine.
type DiagnosticSink interface {
	Emit(ctx context.Context, d Diagnostic)
}

// NoopDiagnosticSink discards all diagnostics.
type NoopDiagnosticSink struct{}

func (NoopDiagnosticSink) Emit(context.Context, Diagnostic) {}

// LoggerDiagnosticSink writes diagnostics through a Logger: a compact
// info line per event, full vectors at debug level.
type LoggerDiagnosticSink struct {
	Logger *Logger
}

func (s LoggerDiagnosticSink) Emit(ctx context.Context, d Diagnostic) {
	if s.Logger == nil {
		return
	}
	s.Logger.InfoContext(ctx, "fit progress",
		"iteration", d.Iteration,
		"beta", d.Beta,
		"relevance_vectors", d.Retained,
	)
	s.Logger.DebugContext(ctx, "fit state",
		"iteration", d.Iteration,
		"alpha", d.Alpha,
		"gamma", d.Gamma,
		"mean", d.Mean,
	)
}

// ChannelDiagnosticSink forwards diagnostics to a channel. Events are
// dropped when the channel is full so a slow consumer never stalls the
// fit loop.
type ChannelDiagnosticSink struct {
	C chan<- Diagnostic
}

func (s ChannelDiagnosticSink) Emit(_ context.Context, d Diagnostic) {
	if s.C == nil {
		return
	}
	select {
	case s.C <- d:
	default:
	}
}
