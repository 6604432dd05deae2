package e

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWrapKeepsChain(t *testing.T) {
	err := Wrap("CatalogUseCase.SaveProduct", ErrNotFound)

	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, "CatalogUseCase.SaveProduct: product not found", err.Error())
}

func TestUpstreamMarksBothErrors(t *testing.T) {
	cause := fmt.Errorf("dial tcp: connection refused")
	err := Upstream("CatalogRepo.Save", cause)

	assert.ErrorIs(t, err, ErrUpstream)
	assert.ErrorIs(t, err, cause)
}

func TestVectorErrorsAreInvalidVector(t *testing.T) {
	for _, err := range []error{ErrEmptyVector, ErrDimMismatch, ErrZeroMagnitude, ErrNonFinite} {
		assert.ErrorIs(t, err, ErrInvalidVector)
	}
}

func TestValidationError(t *testing.T) {
	err := error(NewValidationError(map[string]string{
		"title": "title is required",
		"image": "image is required",
	}))

	assert.ErrorIs(t, err, ErrValidation)
	assert.Equal(t, "validation failed: image is required, title is required", err.Error())

	var vErr *ValidationError
	assert.True(t, errors.As(Wrap("op", err), &vErr))
	assert.Len(t, vErr.Fields, 2)
}
