package sparsebayes

import (
	"context"
	"time"

	"github.com/RoaringBitmap/roaring/v2"
	"gonum.org/v1/gonum/mat"

	"github.com/hupe1980/sparsebayes/internal/fit"
)

// RVR is a relevance vector machine for regression. A zero-value RVR is
// not usable; construct instances with New.
//
// An RVR instance is not safe for concurrent use. Fit and Predict on
// the same instance must be serialized by the caller; independent
// instances are fully isolated.
type RVR struct {
	opts    options
	logger  *Logger
	metrics MetricsCollector

	fitted *fittedModel
}

// fittedModel is the frozen outcome of a fit, consumed by prediction,
// reporting and snapshots.
type fittedModel struct {
	mean       []float64
	sigma      *mat.SymDense
	beta       float64
	alpha      []float64
	gamma      []float64
	labels     []string
	retained   *roaring.Bitmap
	biasUsed   bool
	bias       float64
	iterations int
	converged  bool
}

// New creates a relevance vector regression model.
func New(optFns ...Option) *RVR {
	opts := applyOptions(optFns)
	return &RVR{
		opts:    opts,
		logger:  opts.logger,
		metrics: opts.metrics,
	}
}

// Fitted reports whether the model carries fitted state.
func (r *RVR) Fitted() bool { return r.fitted != nil }

// Fit infers the sparse weight posterior for the given design matrix.
//
// x is the design matrix (one column per evaluated basis function; the
// last column is the intercept when the bias option is on), y the
// target vector and labels the basis function names, index-aligned
// with the non-bias columns.
//
// The context is checked once per iteration boundary; cancellation
// aborts the fit and keeps the last completed iteration's state, as
// does a non-recoverable linear algebra failure.
func (r *RVR) Fit(ctx context.Context, x mat.Matrix, y []float64, labels []string) error {
	start := time.Now()

	n, k := x.Dims()
	err := r.fit(ctx, x, y, labels)

	duration := time.Since(start)
	iterations, retained, converged := 0, 0, false
	if r.fitted != nil {
		iterations = r.fitted.iterations
		retained = len(r.fitted.mean)
		converged = r.fitted.converged
	}
	r.metrics.RecordFit(iterations, duration, err)
	r.logger.LogFit(ctx, n, k, iterations, retained, converged, err)
	return err
}

func (r *RVR) fit(ctx context.Context, x mat.Matrix, y []float64, labels []string) error {
	n, k := x.Dims()

	if k < 1 {
		return &ShapeMismatchError{What: "design matrix columns", Expected: 1, Actual: k}
	}
	if len(y) != n {
		return &ShapeMismatchError{What: "target length", Expected: n, Actual: len(y)}
	}
	wantLabels := k
	if r.opts.bias {
		wantLabels = k - 1
	}
	if len(labels) != wantLabels {
		return &ShapeMismatchError{What: "basis labels", Expected: wantLabels, Actual: len(labels)}
	}

	yCopy := make([]float64, len(y))
	copy(yCopy, y)

	state := fit.NewState(mat.DenseCopyOf(x), yCopy, labels, r.opts.initialAlpha, r.opts.beta, r.opts.bias)
	monitor := fit.Monitor{Tol: r.opts.tolerance}

	var (
		last       *fit.State
		iterations int
		converged  bool
		fitErr     error
	)

	for i := 0; i < r.opts.maxIterations; i++ {
		if err := ctx.Err(); err != nil {
			fitErr = err
			break
		}

		sigma, mean, err := fit.Posterior(state.Alpha, state.Beta, state.Phi, state.Y)
		if err != nil {
			fitErr = translateError(err, state.K())
			break
		}
		state.Sigma = sigma
		state.Mean = mean

		state.Alpha, state.Gamma = fit.UpdateHyper(state.Alpha, sigma, mean)
		if !r.opts.betaFixed {
			state.Beta = fit.UpdateNoise(state.Beta, state.Phi, state.Y, state.Mean, state.Gamma)
		}

		if (i+1)%r.opts.diagFreq == 0 {
			r.emitDiagnostic(ctx, i, state)
		}

		var removed int
		state, removed = fit.Prune(state, r.opts.pruneThreshold)
		if removed > 0 {
			r.logger.LogPrune(ctx, i, removed, state.K())
		}

		last = state
		iterations = i + 1

		if monitor.Done(fit.Delta(state.Alpha, state.AlphaOld), i) {
			converged = true
			break
		}
		state.Advance()
	}

	if last == nil {
		// Aborted before a single completed iteration; nothing to retain.
		return fitErr
	}

	r.fitted = freeze(last, iterations, converged)
	return fitErr
}

// freeze copies the final iteration snapshot into the fitted artifact.
func freeze(s *fit.State, iterations int, converged bool) *fittedModel {
	k := s.K()

	mean := make([]float64, k)
	copy(mean, s.Mean)
	alpha := make([]float64, k)
	copy(alpha, s.Alpha)
	gamma := make([]float64, k)
	copy(gamma, s.Gamma)
	labels := make([]string, len(s.Labels))
	copy(labels, s.Labels)

	sigma := mat.NewSymDense(k, nil)
	sigma.CopySym(s.Sigma)

	fm := &fittedModel{
		mean:       mean,
		sigma:      sigma,
		beta:       s.Beta,
		alpha:      alpha,
		gamma:      gamma,
		labels:     labels,
		retained:   s.Retained.Clone(),
		biasUsed:   s.BiasUsed,
		iterations: iterations,
		converged:  converged,
	}
	if fm.biasUsed {
		fm.bias = mean[k-1]
	}
	return fm
}

// selectRetained copies the surviving columns out of an original-width
// design matrix, in relevance set order.
func (fm *fittedModel) selectRetained(x mat.Matrix) *mat.Dense {
	n, _ := x.Dims()
	cols := fm.retained.ToArray()

	out := mat.NewDense(n, len(cols), nil)
	for i := 0; i < n; i++ {
		for j, c := range cols {
			out.Set(i, j, x.At(i, int(c)))
		}
	}
	return out
}

func (r *RVR) emitDiagnostic(ctx context.Context, iteration int, s *fit.State) {
	if _, noop := r.opts.diagSink.(NoopDiagnosticSink); noop {
		return
	}
	d := Diagnostic{
		Iteration: iteration,
		Alpha:     append([]float64(nil), s.Alpha...),
		Beta:      s.Beta,
		Gamma:     append([]float64(nil), s.Gamma...),
		Mean:      append([]float64(nil), s.Mean...),
		Retained:  s.K(),
	}
	r.opts.diagSink.Emit(ctx, d)
}

// Predict evaluates the fitted model on new inputs. x must supply
// exactly the surviving basis function columns, in relevance set order
// (see Report for the retained original column indices).
func (r *RVR) Predict(x mat.Matrix) ([]float64, error) {
	start := time.Now()
	mean, err := r.predictMean(x)
	n, _ := x.Dims()
	r.metrics.RecordPredict(n, time.Since(start), err)
	r.logger.LogPredict(context.Background(), n, false, err)
	return mean, err
}

// PredictWithVariance evaluates the fitted model and additionally
// returns the predictive variance per sample:
//
//	var_i = 1/beta + phi_i * Sigma * phi_i^T
//
// The variance is never below 1/beta, the observation noise floor.
func (r *RVR) PredictWithVariance(x mat.Matrix) (mean, variance []float64, err error) {
	start := time.Now()
	n, _ := x.Dims()

	mean, err = r.predictMean(x)
	if err == nil {
		variance = r.predictVariance(x)
	}

	r.metrics.RecordPredict(n, time.Since(start), err)
	r.logger.LogPredict(context.Background(), n, true, err)
	return mean, variance, err
}

func (r *RVR) predictMean(x mat.Matrix) ([]float64, error) {
	if r.fitted == nil {
		return nil, ErrNotFitted
	}

	_, k := x.Dims()
	if k != len(r.fitted.mean) {
		return nil, &ShapeMismatchError{What: "basis columns", Expected: len(r.fitted.mean), Actual: k}
	}

	var pred mat.VecDense
	pred.MulVec(x, mat.NewVecDense(k, r.fitted.mean))

	out := make([]float64, pred.Len())
	for i := range out {
		out[i] = pred.AtVec(i)
	}
	return out, nil
}

func (r *RVR) predictVariance(x mat.Matrix) []float64 {
	n, k := x.Dims()

	// diag(X Sigma X^T) without forming the full n×n product.
	var xs mat.Dense
	xs.Mul(x, r.fitted.sigma)

	noise := 1 / r.fitted.beta
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		var q float64
		for j := 0; j < k; j++ {
			q += xs.At(i, j) * x.At(i, j)
		}
		out[i] = noise + q
	}
	return out
}

// Score returns the coefficient of determination R² of the prediction
// on the given inputs and targets.
func (r *RVR) Score(x mat.Matrix, y []float64) (float64, error) {
	if r.fitted == nil {
		return 0, ErrNotFitted
	}

	n, _ := x.Dims()
	if len(y) != n {
		return 0, &ShapeMismatchError{What: "target length", Expected: n, Actual: len(y)}
	}

	pred, err := r.predictMean(x)
	if err != nil {
		return 0, err
	}

	var yMean float64
	for _, v := range y {
		yMean += v
	}
	yMean /= float64(n)

	var ssRes, ssTot float64
	for i, v := range y {
		d := v - pred[i]
		ssRes += d * d
		t := v - yMean
		ssTot += t * t
	}

	if ssTot == 0 {
		if ssRes == 0 {
			return 1, nil
		}
		return 0, nil
	}
	return 1 - ssRes/ssTot, nil
}

// Coef returns a copy of the fitted weights, excluding the intercept.
// It returns nil on an unfitted model.
func (r *RVR) Coef() []float64 {
	if r.fitted == nil {
		return nil
	}
	w := r.fitted.mean
	if r.fitted.biasUsed {
		w = w[:len(w)-1]
	}
	out := make([]float64, len(w))
	copy(out, w)
	return out
}

// Intercept returns the fitted bias term. The second return value is
// false when the model was fitted without a bias, the bias column was
// pruned, or the model is unfitted.
func (r *RVR) Intercept() (float64, bool) {
	if r.fitted == nil || !r.fitted.biasUsed {
		return 0, false
	}
	return r.fitted.bias, true
}
