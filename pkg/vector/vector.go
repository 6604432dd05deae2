// Package vector содержит операции над embedding-векторами.
package vector

import (
	"math"

	"github.com/DRSN-tech/catalog-backend/pkg/e"
)

// Cosine возвращает косинусное сходство dot(a,b) / (|a|*|b|).
// Векторы должны быть одной ненулевой размерности, с ненулевой нормой и конечными компонентами,
// иначе возвращается ошибка, оборачивающая e.ErrInvalidVector.
func Cosine(a, b []float32) (float64, error) {
	if len(a) == 0 || len(b) == 0 {
		return 0, e.ErrEmptyVector
	}
	if len(a) != len(b) {
		return 0, e.ErrDimMismatch
	}

	var dot, normA, normB float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		if !isFinite(x) || !isFinite(y) {
			return 0, e.ErrNonFinite
		}
		dot += x * y
		normA += x * x
		normB += y * y
	}

	if normA == 0 || normB == 0 {
		return 0, e.ErrZeroMagnitude
	}

	sim := dot / (math.Sqrt(normA) * math.Sqrt(normB))
	if math.IsNaN(sim) || math.IsInf(sim, 0) {
		return 0, e.ErrNonFinite
	}

	return sim, nil
}

// Validate проверяет, что вектор пригоден для сравнения.
func Validate(v []float32) error {
	if len(v) == 0 {
		return e.ErrEmptyVector
	}

	var norm float64
	for _, x := range v {
		if !isFinite(float64(x)) {
			return e.ErrNonFinite
		}
		norm += float64(x) * float64(x)
	}
	if norm == 0 {
		return e.ErrZeroMagnitude
	}

	return nil
}

// FromFloat64 конвертирует ответ провайдера в []float32.
func FromFloat64(src []float64) []float32 {
	if len(src) == 0 {
		return nil
	}

	dst := make([]float32, len(src))
	for i, v := range src {
		dst[i] = float32(v)
	}

	return dst
}

func isFinite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}
