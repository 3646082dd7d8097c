package sparsebayes

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/mat"
)

// CVResult holds per-fold and aggregate cross-validation scores.
type CVResult struct {
	FoldMSE []float64
	FoldR2  []float64
	MeanMSE float64
	MeanR2  float64
}

// CrossValidate fits k independent models on k-fold splits of the data
// and scores each on its held-out fold. Folds run in parallel; every
// fold owns its own model instance, so the single-instance
// serialization rule is preserved.
//
// x, y and labels follow the same contract as Fit. folds must be at
// least 2 and at most the sample count.
func CrossValidate(ctx context.Context, x mat.Matrix, y []float64, labels []string, folds int, optFns ...Option) (*CVResult, error) {
	n, k := x.Dims()

	if len(y) != n {
		return nil, &ShapeMismatchError{What: "target length", Expected: n, Actual: len(y)}
	}
	if folds < 2 || folds > n {
		return nil, &ShapeMismatchError{What: "fold count", Expected: 2, Actual: folds}
	}

	result := &CVResult{
		FoldMSE: make([]float64, folds),
		FoldR2:  make([]float64, folds),
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	for fold := 0; fold < folds; fold++ {
		fold := fold
		g.Go(func() error {
			lo := fold * n / folds
			hi := (fold + 1) * n / folds

			trainX, trainY := splitRows(x, y, k, lo, hi, true)
			testX, testY := splitRows(x, y, k, lo, hi, false)

			model := New(optFns...)
			if err := model.Fit(ctx, trainX, trainY, labels); err != nil {
				return err
			}

			// The fit may have pruned columns; project the held-out rows
			// onto the surviving basis before scoring.
			proj := model.fitted.selectRetained(testX)

			pred, err := model.Predict(proj)
			if err != nil {
				return err
			}

			var mse float64
			for i, v := range testY {
				d := v - pred[i]
				mse += d * d
			}
			mse /= float64(len(testY))

			r2, err := model.Score(proj, testY)
			if err != nil {
				return err
			}

			result.FoldMSE[fold] = mse
			result.FoldR2[fold] = r2
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	for i := 0; i < folds; i++ {
		result.MeanMSE += result.FoldMSE[i]
		result.MeanR2 += result.FoldR2[i]
	}
	result.MeanMSE /= float64(folds)
	result.MeanR2 /= float64(folds)

	return result, nil
}

// splitRows copies either the rows outside [lo, hi) (train) or inside
// it (test) into a fresh matrix/target pair.
func splitRows(x mat.Matrix, y []float64, cols, lo, hi int, train bool) (*mat.Dense, []float64) {
	n, _ := x.Dims()

	size := hi - lo
	if train {
		size = n - size
	}

	out := mat.NewDense(size, cols, nil)
	outY := make([]float64, size)

	row := 0
	for i := 0; i < n; i++ {
		inFold := i >= lo && i < hi
		if inFold == train {
			continue
		}
		for j := 0; j < cols; j++ {
			out.Set(row, j, x.At(i, j))
		}
		outY[row] = y[i]
		row++
	}
	return out, outY
}
