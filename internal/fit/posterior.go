package fit

import (
	"errors"

	"gonum.org/v1/gonum/mat"
)

// ErrSingular is returned when the posterior precision matrix cannot be
// factorized even after regularization. Callers translate it into their
// public error type.
var ErrSingular = errors.New("posterior precision matrix is singular")

// jitter is the relative diagonal regularization applied on a failed
// Cholesky factorization before giving up.
const jitter = 1e-10

// Posterior computes the Gaussian posterior over weights for the
// current hyperparameters:
//
//	A     = diag(alpha) + beta * Phi^T Phi
//	Sigma = A^-1
//	m     = beta * Sigma * Phi^T y
//
// It is a pure function of its inputs. The precision matrix is solved
// by Cholesky factorization; if A is not positive definite a single
// jittered retry is attempted, after which ErrSingular is returned.
func Posterior(alpha []float64, beta float64, phi *mat.Dense, y []float64) (*mat.SymDense, []float64, error) {
	k := len(alpha)

	var ptp mat.Dense
	ptp.Mul(phi.T(), phi)

	a := mat.NewSymDense(k, nil)
	for i := 0; i < k; i++ {
		for j := i; j < k; j++ {
			v := beta * ptp.At(i, j)
			if i == j {
				v += alpha[i]
			}
			a.SetSym(i, j, v)
		}
	}

	var chol mat.Cholesky
	if ok := chol.Factorize(a); !ok {
		for i := 0; i < k; i++ {
			d := a.At(i, i)
			a.SetSym(i, i, d+jitter*(1+d))
		}
		if ok := chol.Factorize(a); !ok {
			return nil, nil, ErrSingular
		}
	}

	var sigma mat.SymDense
	if err := chol.InverseTo(&sigma); err != nil {
		return nil, nil, ErrSingular
	}

	// m = beta * A^-1 Phi^T y, via the factorization rather than the
	// explicit inverse for accuracy.
	var pty mat.VecDense
	pty.MulVec(phi.T(), mat.NewVecDense(len(y), y))

	var m mat.VecDense
	if err := chol.SolveVecTo(&m, &pty); err != nil {
		return nil, nil, ErrSingular
	}
	m.ScaleVec(beta, &m)

	mean := make([]float64, k)
	for i := range mean {
		mean[i] = m.AtVec(i)
	}

	return &sigma, mean, nil
}
