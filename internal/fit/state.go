// Package fit implements the evidence-approximation loop for sparse
// Bayesian linear regression: posterior computation, hyperparameter
// re-estimation, pruning and convergence tracking.
//
// The package operates on immutable iteration snapshots: every pruning
// pass produces a fresh State with all per-basis-function slices
// compacted in lockstep, so no component ever observes a partially
// mutated vector.
package fit

import (
	"github.com/RoaringBitmap/roaring/v2"
	"gonum.org/v1/gonum/mat"
)

// State is one iteration snapshot of the fit.
//
// Invariant: len(Alpha) == len(AlphaOld) == len(Gamma) == len(Mean) ==
// Phi column count == Sigma dimension == Retained cardinality. Labels
// excludes the bias column, so it holds K()-1 entries while BiasUsed
// is set and K() entries otherwise.
type State struct {
	// Phi holds the retained design columns (n samples × k basis functions).
	Phi *mat.Dense

	// Y is the target vector, fixed for the lifetime of the fit.
	Y []float64

	// N is the sample count.
	N int

	// Alpha holds one precision hyperparameter per retained basis function.
	Alpha []float64

	// AlphaOld is the previous iteration's alpha, compacted by the same
	// keep mask as Alpha so the two stay comparable after pruning.
	AlphaOld []float64

	// Beta is the noise precision.
	Beta float64

	// Mean and Sigma are the Gaussian posterior over weights.
	Mean  []float64
	Sigma *mat.SymDense

	// Gamma holds 1 - alpha_i*sigma_ii per retained basis function.
	Gamma []float64

	// Labels names the retained basis functions, bias column excluded.
	Labels []string

	// Retained maps current columns back to original design matrix
	// columns. Columns are never reordered and pruning preserves
	// ascending order, so the bitmap's sorted order equals column order.
	Retained *roaring.Bitmap

	// BiasUsed reports whether the last retained column is an intercept.
	// Once cleared by pruning it stays cleared.
	BiasUsed bool
}

// K returns the number of retained basis functions.
func (s *State) K() int { return len(s.Alpha) }

// NewState builds the initial snapshot: uniform alpha, zero mean, the
// full design matrix retained.
func NewState(phi *mat.Dense, y []float64, labels []string, initAlpha, beta float64, biasUsed bool) *State {
	n, k := phi.Dims()

	alpha := make([]float64, k)
	for i := range alpha {
		alpha[i] = initAlpha
	}
	alphaOld := make([]float64, k)
	copy(alphaOld, alpha)

	retained := roaring.New()
	retained.AddRange(0, uint64(k))

	lbls := make([]string, len(labels))
	copy(lbls, labels)

	return &State{
		Phi:      phi,
		Y:        y,
		N:        n,
		Alpha:    alpha,
		AlphaOld: alphaOld,
		Beta:     beta,
		Mean:     make([]float64, k),
		Sigma:    nil, // set by the first posterior solve
		Gamma:    make([]float64, k),
		Labels:   lbls,
		Retained: retained,
		BiasUsed: biasUsed,
	}
}
