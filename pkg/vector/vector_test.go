package vector

import (
	"math"
	"testing"

	"github.com/DRSN-tech/catalog-backend/pkg/e"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCosine(t *testing.T) {
	tests := []struct {
		name     string
		a, b     []float32
		expected float64
	}{
		{"identical vectors", []float32{1, 0, 0}, []float32{1, 0, 0}, 1.0},
		{"orthogonal vectors", []float32{1, 0}, []float32{0, 1}, 0.0},
		{"opposite vectors", []float32{1, 0}, []float32{-1, 0}, -1.0},
		{"scaled vectors", []float32{1, 2, 3}, []float32{2, 4, 6}, 1.0},
		{"45 degrees", []float32{1, 0}, []float32{1, 1}, math.Sqrt2 / 2},
		{"pythagorean", []float32{3, 4}, []float32{1, 0}, 0.6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Cosine(tt.a, tt.b)
			require.NoError(t, err)
			assert.InDelta(t, tt.expected, got, 1e-6)
		})
	}
}

func TestCosineInvalid(t *testing.T) {
	nan := float32(math.NaN())
	inf := float32(math.Inf(1))

	tests := []struct {
		name string
		a, b []float32
		err  error
	}{
		{"empty", []float32{}, []float32{}, e.ErrEmptyVector},
		{"nil query", []float32{1}, nil, e.ErrEmptyVector},
		{"different length", []float32{1, 2}, []float32{1, 2, 3}, e.ErrDimMismatch},
		{"zero magnitude", []float32{0, 0}, []float32{1, 0}, e.ErrZeroMagnitude},
		{"nan", []float32{nan, 1}, []float32{1, 0}, e.ErrNonFinite},
		{"inf", []float32{1, 1}, []float32{inf, 0}, e.ErrNonFinite},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Cosine(tt.a, tt.b)
			assert.ErrorIs(t, err, tt.err)
			assert.ErrorIs(t, err, e.ErrInvalidVector)
			assert.False(t, math.IsNaN(got))
		})
	}
}

func TestCosineSymmetricAndReflexive(t *testing.T) {
	pairs := [][2][]float32{
		{{0.1, 0.2, 0.3}, {0.3, -0.2, 0.9}},
		{{5, 1, -4, 2}, {-1, 7, 0.5, 3}},
		{{1e-3, 2e-3}, {4e3, -1e3}},
	}

	for _, p := range pairs {
		ab, err := Cosine(p[0], p[1])
		require.NoError(t, err)
		ba, err := Cosine(p[1], p[0])
		require.NoError(t, err)
		assert.Equal(t, ab, ba)

		aa, err := Cosine(p[0], p[0])
		require.NoError(t, err)
		assert.InDelta(t, 1.0, aa, 1e-9)
	}
}

func TestValidate(t *testing.T) {
	assert.NoError(t, Validate([]float32{0, 1}))
	assert.ErrorIs(t, Validate(nil), e.ErrEmptyVector)
	assert.ErrorIs(t, Validate([]float32{0, 0}), e.ErrZeroMagnitude)
	assert.ErrorIs(t, Validate([]float32{float32(math.NaN())}), e.ErrNonFinite)
}

func TestFromFloat64(t *testing.T) {
	assert.Nil(t, FromFloat64(nil))
	assert.Equal(t, []float32{0.5, -1}, FromFloat64([]float64{0.5, -1}))
}
