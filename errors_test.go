package sparsebayes

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/sparsebayes/internal/fit"
)

func TestShapeMismatchError(t *testing.T) {
	err := &ShapeMismatchError{What: "target length", Expected: 10, Actual: 7}
	assert.Equal(t, "shape mismatch: target length: expected 10, got 7", err.Error())
	assert.Nil(t, errors.Unwrap(err))
}

func TestSingularSystemError(t *testing.T) {
	err := translateError(fit.ErrSingular, 5)

	var singular *SingularSystemError
	require.ErrorAs(t, err, &singular)
	assert.Equal(t, 5, singular.Basis)
	assert.ErrorIs(t, err, fit.ErrSingular)
	assert.Contains(t, err.Error(), "5 basis functions")
}

func TestTranslateError_Passthrough(t *testing.T) {
	assert.NoError(t, translateError(nil, 3))

	plain := errors.New("boom")
	assert.Same(t, plain, translateError(plain, 3))
}
