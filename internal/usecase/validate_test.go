package usecase

import (
	"errors"
	"testing"

	"github.com/DRSN-tech/catalog-backend/pkg/e"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validInput() ProductInput {
	return ProductInput{
		Title:       "Red Mug",
		Description: "A mug",
		Price:       decimal.RequireFromString("9.99"),
		Image:       "/img.png",
	}
}

func TestValidateProductOK(t *testing.T) {
	in := validInput()
	assert.NoError(t, ValidateProduct(&in))
}

func TestValidateProductMissingFields(t *testing.T) {
	in := ProductInput{ID: 3}

	err := ValidateProduct(&in)
	require.ErrorIs(t, err, e.ErrValidation)

	var vErr *e.ValidationError
	require.True(t, errors.As(err, &vErr))
	assert.Equal(t, map[string]string{
		"title":       "title is required",
		"description": "description is required",
		"price":       "price is required",
		"image":       "image is required",
	}, vErr.Fields)
}

func TestValidateProductZeroPrice(t *testing.T) {
	in := validInput()
	in.Price = decimal.Zero

	var vErr *e.ValidationError
	require.True(t, errors.As(ValidateProduct(&in), &vErr))
	assert.Equal(t, map[string]string{"price": "price is required"}, vErr.Fields)
}

func TestValidateProductNegativePrice(t *testing.T) {
	in := validInput()
	in.Price = decimal.RequireFromString("-1")

	var vErr *e.ValidationError
	require.True(t, errors.As(ValidateProduct(&in), &vErr))
	assert.Equal(t, "price must not be negative", vErr.Fields["price"])
}

func TestValidateProductTinyPrice(t *testing.T) {
	in := validInput()
	in.Price = decimal.RequireFromString("1e-400")

	assert.NoError(t, ValidateProduct(&in))
}

func TestValidateProductTinyNegativePrice(t *testing.T) {
	in := validInput()
	in.Price = decimal.RequireFromString("-1e-400")

	var vErr *e.ValidationError
	require.True(t, errors.As(ValidateProduct(&in), &vErr))
	assert.Equal(t, map[string]string{"price": "price must not be negative"}, vErr.Fields)
}
