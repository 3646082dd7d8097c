package sparsebayes

import (
	"fmt"
	"strings"
)

// Term is one retained basis function in the fitted sparse model.
type Term struct {
	// Label is the human-readable basis function name.
	Label string

	// Column is the basis function's column index in the original
	// design matrix passed to Fit.
	Column uint32

	// Weight is the posterior mean weight.
	Weight float64

	// Alpha is the fitted precision hyperparameter.
	Alpha float64
}

// Report describes the fitted sparse model: the surviving relevance
// vectors with their weights, plus fit metadata.
type Report struct {
	Terms      []Term
	Bias       float64
	BiasUsed   bool
	Beta       float64
	Iterations int
	Converged  bool
}

// Report returns the fitted sparse model description. It fails with
// ErrNotFitted before a successful Fit.
func (r *RVR) Report() (*Report, error) {
	if r.fitted == nil {
		return nil, ErrNotFitted
	}

	fm := r.fitted
	cols := fm.retained.ToArray()

	terms := make([]Term, len(fm.labels))
	for i := range fm.labels {
		terms[i] = Term{
			Label:  fm.labels[i],
			Column: cols[i],
			Weight: fm.mean[i],
			Alpha:  fm.alpha[i],
		}
	}

	return &Report{
		Terms:      terms,
		Bias:       fm.bias,
		BiasUsed:   fm.biasUsed,
		Beta:       fm.beta,
		Iterations: fm.iterations,
		Converged:  fm.converged,
	}, nil
}

// String renders the sparse model as a small human-readable table.
func (rp *Report) String() string {
	var b strings.Builder

	status := "budget exhausted"
	if rp.Converged {
		status = "converged"
	}
	fmt.Fprintf(&b, "sparse model: %d relevance vectors (%s after %d iterations)\n",
		len(rp.Terms), status, rp.Iterations)

	for _, t := range rp.Terms {
		fmt.Fprintf(&b, "  %-24s %+.6g\n", t.Label, t.Weight)
	}
	if rp.BiasUsed {
		fmt.Fprintf(&b, "  %-24s %+.6g\n", "(bias)", rp.Bias)
	}
	fmt.Fprintf(&b, "  noise precision: %.6g\n", rp.Beta)

	return b.String()
}
