package fit

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func newTestState(t *testing.T, k int, biasUsed bool) *State {
	t.Helper()

	n := 4
	phi := mat.NewDense(n, k, nil)
	for i := 0; i < n; i++ {
		for j := 0; j < k; j++ {
			phi.Set(i, j, float64(i*k+j+1))
		}
	}
	y := []float64{1, 2, 3, 4}

	labelCount := k
	if biasUsed {
		labelCount = k - 1
	}
	labels := make([]string, labelCount)
	for i := range labels {
		labels[i] = string(rune('a' + i))
	}

	s := NewState(phi, y, labels, 1e-6, 1e-6, biasUsed)
	s.Sigma = mat.NewSymDense(k, nil)
	for i := 0; i < k; i++ {
		s.Sigma.SetSym(i, i, 1)
		for j := i + 1; j < k; j++ {
			s.Sigma.SetSym(i, j, 0.1*float64(i+j))
		}
	}
	for i := 0; i < k; i++ {
		s.Mean[i] = float64(i + 1)
		s.Gamma[i] = 0.5
	}
	return s
}

func TestPrune(t *testing.T) {
	s := newTestState(t, 4, false)
	s.Alpha = []float64{1, 1e12, 2, math.Inf(1)}
	s.AlphaOld = []float64{1, 1e11, 2, 1e10}

	next, removed := Prune(s, 1e9)
	require.Equal(t, 2, removed)
	require.Equal(t, 2, next.K())

	// Columns 0 and 2 survive; every slice is compacted in lockstep.
	assert.Equal(t, []float64{1, 2}, next.Alpha)
	assert.Equal(t, []float64{1, 2}, next.AlphaOld)
	assert.Equal(t, []float64{1, 3}, next.Mean)
	assert.Equal(t, []string{"a", "c"}, next.Labels)
	assert.Equal(t, []uint32{0, 2}, next.Retained.ToArray())

	_, cols := next.Phi.Dims()
	assert.Equal(t, 2, cols)
	assert.Equal(t, s.Phi.At(0, 2), next.Phi.At(0, 1))

	r, _ := next.Sigma.Dims()
	assert.Equal(t, 2, r)
	assert.Equal(t, s.Sigma.At(0, 2), next.Sigma.At(0, 1))
	assert.Equal(t, s.Sigma.At(2, 2), next.Sigma.At(1, 1))

	// The original snapshot is untouched.
	assert.Equal(t, 4, s.K())
}

func TestPrune_NoChange(t *testing.T) {
	s := newTestState(t, 3, false)
	s.Alpha = []float64{1, 2, 3}

	next, removed := Prune(s, 1e9)
	assert.Zero(t, removed)
	assert.Same(t, s, next)
}

func TestPrune_Idempotent(t *testing.T) {
	s := newTestState(t, 4, false)
	s.Alpha = []float64{1, 1e12, 2, 1e12}

	first, removed := Prune(s, 1e9)
	require.Equal(t, 2, removed)

	second, removed := Prune(first, 1e9)
	assert.Zero(t, removed)
	assert.Equal(t, first.K(), second.K())
	assert.Equal(t, first.Retained.ToArray(), second.Retained.ToArray())
}

func TestPrune_ForcedRetention(t *testing.T) {
	t.Run("NoBias", func(t *testing.T) {
		s := newTestState(t, 3, false)
		s.Alpha = []float64{1e12, 1e12, 1e12}

		next, removed := Prune(s, 1e9)
		require.Equal(t, 2, removed)
		assert.Equal(t, 1, next.K())
		assert.Equal(t, []uint32{0}, next.Retained.ToArray())
	})

	t.Run("WithBias", func(t *testing.T) {
		s := newTestState(t, 3, true)
		s.Alpha = []float64{1e12, 1e12, 1e12}

		next, removed := Prune(s, 1e9)
		require.Equal(t, 1, removed)
		assert.Equal(t, 2, next.K())
		assert.Equal(t, []uint32{0, 2}, next.Retained.ToArray())
		assert.True(t, next.BiasUsed)
	})
}

func TestPrune_BiasRemoved(t *testing.T) {
	s := newTestState(t, 3, true)
	// Last column is the bias; pruning it clears the flag.
	s.Alpha = []float64{1, 2, 1e12}

	next, removed := Prune(s, 1e9)
	require.Equal(t, 1, removed)
	assert.False(t, next.BiasUsed)
	assert.Equal(t, []string{"a", "b"}, next.Labels)
	assert.Equal(t, []uint32{0, 1}, next.Retained.ToArray())
}

func TestPrune_NaNAlpha(t *testing.T) {
	s := newTestState(t, 2, false)
	s.Alpha = []float64{1, math.NaN()}

	next, removed := Prune(s, 1e9)
	assert.Equal(t, 1, removed)
	assert.Equal(t, []uint32{0}, next.Retained.ToArray())
}
