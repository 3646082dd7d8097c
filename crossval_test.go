package sparsebayes

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestCrossValidate(t *testing.T) {
	x, y, labels := syntheticLinear(100, 0.05)

	res, err := CrossValidate(context.Background(), x, y, labels, 5)
	require.NoError(t, err)
	require.Len(t, res.FoldMSE, 5)
	require.Len(t, res.FoldR2, 5)

	assert.Greater(t, res.MeanR2, 0.95)
	assert.Less(t, res.MeanMSE, 1.0)
	for i := range res.FoldR2 {
		assert.Greater(t, res.FoldR2[i], 0.9)
	}
}

func TestCrossValidate_Validation(t *testing.T) {
	x, y, labels := syntheticLinear(20, 0.05)

	t.Run("TooFewFolds", func(t *testing.T) {
		_, err := CrossValidate(context.Background(), x, y, labels, 1)
		var shapeErr *ShapeMismatchError
		require.ErrorAs(t, err, &shapeErr)
	})

	t.Run("MoreFoldsThanSamples", func(t *testing.T) {
		_, err := CrossValidate(context.Background(), x, y, labels, 21)
		var shapeErr *ShapeMismatchError
		require.ErrorAs(t, err, &shapeErr)
	})

	t.Run("TargetLength", func(t *testing.T) {
		_, err := CrossValidate(context.Background(), x, y[:10], labels, 5)
		var shapeErr *ShapeMismatchError
		require.ErrorAs(t, err, &shapeErr)
	})
}

func TestCrossValidate_Cancelled(t *testing.T) {
	x, y, labels := syntheticLinear(40, 0.05)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := CrossValidate(ctx, x, y, labels, 4)
	require.ErrorIs(t, err, context.Canceled)
}

func TestSplitRows(t *testing.T) {
	x := mat.NewDense(5, 2, []float64{
		0, 0,
		1, 10,
		2, 20,
		3, 30,
		4, 40,
	})
	y := []float64{0, 1, 2, 3, 4}

	trainX, trainY := splitRows(x, y, 2, 1, 3, true)
	testX, testY := splitRows(x, y, 2, 1, 3, false)

	assert.Equal(t, []float64{0, 3, 4}, trainY)
	assert.Equal(t, []float64{1, 2}, testY)

	r, _ := trainX.Dims()
	assert.Equal(t, 3, r)
	assert.Equal(t, 30.0, trainX.At(1, 1))

	r, _ = testX.Dims()
	assert.Equal(t, 2, r)
	assert.Equal(t, 10.0, testX.At(0, 1))
}
