package fit

import (
	"github.com/RoaringBitmap/roaring/v2"
	"gonum.org/v1/gonum/mat"
)

// Prune removes basis functions whose precision reached the threshold
// and returns a fresh, compacted snapshot plus the number of columns
// removed. The keep mask is alpha_i < threshold, which also discards
// +Inf and NaN precisions.
//
// If the mask would remove everything, the first basis function is
// force-retained (and the bias column too, when in use) so the model
// never becomes empty. When the bias column itself is pruned, the bias
// flag is cleared for good.
//
// Pruning with an unchanged alpha is idempotent: a second call keeps
// every column and returns the state compacted to the same shape.
func Prune(s *State, threshold float64) (*State, int) {
	k := s.K()

	keep := make([]bool, k)
	kept := 0
	for i, a := range s.Alpha {
		if a < threshold {
			keep[i] = true
			kept++
		}
	}

	if kept == 0 {
		keep[0] = true
		kept = 1
		if s.BiasUsed && k > 1 {
			keep[k-1] = true
			kept = 2
		}
	}

	biasUsed := s.BiasUsed
	if biasUsed && !keep[k-1] {
		biasUsed = false
	}

	if kept == k {
		// Nothing to remove; reuse the snapshot as-is.
		return s, 0
	}

	idx := make([]int, 0, kept)
	for i, ok := range keep {
		if ok {
			idx = append(idx, i)
		}
	}

	next := &State{
		Phi:      compactColumns(s.Phi, idx),
		Y:        s.Y,
		N:        s.N,
		Alpha:    compactVec(s.Alpha, idx),
		AlphaOld: compactVec(s.AlphaOld, idx),
		Beta:     s.Beta,
		Mean:     compactVec(s.Mean, idx),
		Sigma:    compactSym(s.Sigma, idx),
		Gamma:    compactVec(s.Gamma, idx),
		Labels:   compactLabels(s.Labels, keep, s.BiasUsed),
		Retained: compactRetained(s.Retained, keep),
		BiasUsed: biasUsed,
	}

	return next, k - kept
}

func compactVec(v []float64, idx []int) []float64 {
	out := make([]float64, len(idx))
	for i, j := range idx {
		out[i] = v[j]
	}
	return out
}

func compactColumns(phi *mat.Dense, idx []int) *mat.Dense {
	n, _ := phi.Dims()
	out := mat.NewDense(n, len(idx), nil)
	col := make([]float64, n)
	for i, j := range idx {
		mat.Col(col, j, phi)
		out.SetCol(i, col)
	}
	return out
}

// compactSym selects matching rows and columns so the result stays
// symmetric.
func compactSym(sigma *mat.SymDense, idx []int) *mat.SymDense {
	out := mat.NewSymDense(len(idx), nil)
	for i, vi := range idx {
		for j := i; j < len(idx); j++ {
			out.SetSym(i, j, sigma.At(vi, idx[j]))
		}
	}
	return out
}

// compactLabels applies the keep mask to the label slice, which never
// covers the bias column.
func compactLabels(labels []string, keep []bool, biasUsed bool) []string {
	mask := keep
	if biasUsed {
		mask = keep[:len(keep)-1]
	}
	out := make([]string, 0, len(labels))
	for i, ok := range mask {
		if ok && i < len(labels) {
			out = append(out, labels[i])
		}
	}
	return out
}

func compactRetained(retained *roaring.Bitmap, keep []bool) *roaring.Bitmap {
	orig := retained.ToArray()
	out := roaring.New()
	for i, ok := range keep {
		if ok {
			out.Add(orig[i])
		}
	}
	return out
}
