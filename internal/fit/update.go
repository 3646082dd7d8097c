package fit

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// UpdateHyper re-estimates the per-basis-function precisions from the
// posterior:
//
//	gamma_i = 1 - alpha_i * sigma_ii
//	alpha_i = gamma_i / m_i^2
//
// A zero posterior mean makes the update undefined; the precision is
// then set to +Inf so the basis function fails the keep mask on the
// next pruning pass instead of propagating a NaN.
func UpdateHyper(alpha []float64, sigma *mat.SymDense, mean []float64) (newAlpha, gamma []float64) {
	k := len(alpha)
	newAlpha = make([]float64, k)
	gamma = make([]float64, k)

	for i := 0; i < k; i++ {
		gamma[i] = 1 - alpha[i]*sigma.At(i, i)
		if mean[i] == 0 {
			newAlpha[i] = math.Inf(1)
			continue
		}
		newAlpha[i] = gamma[i] / (mean[i] * mean[i])
	}

	return newAlpha, gamma
}

// UpdateNoise re-estimates the noise precision:
//
//	beta = (n - sum(gamma)) / sum((y - Phi*m)^2)
//
// If the residual sum of squares is zero or the numerator is not
// positive, the previous beta is kept; a zero or negative precision is
// never produced.
func UpdateNoise(beta float64, phi *mat.Dense, y, mean, gamma []float64) float64 {
	n, _ := phi.Dims()

	var pred mat.VecDense
	pred.MulVec(phi, mat.NewVecDense(len(mean), mean))

	var rss float64
	for i := 0; i < n; i++ {
		r := y[i] - pred.AtVec(i)
		rss += r * r
	}

	var sumGamma float64
	for _, g := range gamma {
		sumGamma += g
	}

	num := float64(n) - sumGamma
	if rss <= 0 || num <= 0 {
		return beta
	}
	return num / rss
}
