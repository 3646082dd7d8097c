package fit

import "math"

// Monitor decides when the fixed-point iteration has settled. It
// compares the hyperparameter vector against the previous iteration's,
// after both were compacted by the same keep mask.
type Monitor struct {
	// Tol is the convergence tolerance on the max absolute alpha change.
	Tol float64
}

// Delta returns max(|alpha_i - alphaOld_i|) over the retained basis
// functions. Both slices must have equal length.
func Delta(alpha, alphaOld []float64) float64 {
	var d float64
	for i := range alpha {
		if v := math.Abs(alpha[i] - alphaOld[i]); v > d {
			d = v
		}
	}
	return d
}

// Done reports whether the fit has converged at the given zero-based
// iteration index. At least two completed iterations are required
// before the tolerance is allowed to stop the loop; exhausting the
// iteration budget is handled by the caller and is not an error.
func (m Monitor) Done(delta float64, iter int) bool {
	return delta < m.Tol && iter > 1
}

// Advance records the current alpha as the comparison baseline for the
// next iteration.
func (s *State) Advance() {
	copy(s.AlphaOld, s.Alpha)
}
