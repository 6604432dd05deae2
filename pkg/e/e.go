package e

import (
	"fmt"
	"sort"
	"strings"
)

var (
	// Внутренние ошибки с транзакциями
	ErrTransactionNotFound = fmt.Errorf("transaction not found")

	// Ошибки векторов
	ErrInvalidVector = fmt.Errorf("invalid vector")
	ErrEmptyVector   = fmt.Errorf("%w: empty vector", ErrInvalidVector)
	ErrDimMismatch   = fmt.Errorf("%w: dimension mismatch", ErrInvalidVector)
	ErrZeroMagnitude = fmt.Errorf("%w: zero magnitude", ErrInvalidVector)
	ErrNonFinite     = fmt.Errorf("%w: non-finite component", ErrInvalidVector)

	// 400 Bad Request
	ErrStatusBadRequest     = fmt.Errorf("bad request")
	ErrValidation           = fmt.Errorf("validation failed")
	ErrUnauthorized         = fmt.Errorf("invalid password")
	ErrInvalidID            = fmt.Errorf("invalid product id")
	ErrExpectedMultipart    = fmt.Errorf("expected multipart/form-data")
	ErrNoImages             = fmt.Errorf("no image provided")
	ErrFileTooLarge         = fmt.Errorf("file too large")
	ErrUnsupportedMediaType = fmt.Errorf("unsupported media type")

	// 404 Not Found
	ErrNotFound = fmt.Errorf("product not found")

	// 500 / 503
	ErrUpstream            = fmt.Errorf("upstream failure")
	ErrFeatureDisabled     = fmt.Errorf("feature is not configured")
	ErrInternalServerError = fmt.Errorf("internal server error")

	// Конфигурация
	ErrIncorrectEnvVariable = fmt.Errorf("incorrect environment variable")
)

// ValidationError описывает ошибки валидации по полям.
type ValidationError struct {
	Fields map[string]string
}

func NewValidationError(fields map[string]string) *ValidationError {
	return &ValidationError{Fields: fields}
}

func (v *ValidationError) Error() string {
	keys := make([]string, 0, len(v.Fields))
	for k := range v.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	msgs := make([]string, 0, len(keys))
	for _, k := range keys {
		msgs = append(msgs, v.Fields[k])
	}

	return fmt.Sprintf("%s: %s", ErrValidation.Error(), strings.Join(msgs, ", "))
}

func (v *ValidationError) Unwrap() error {
	return ErrValidation
}

// Wrap оборачивает ошибку
func Wrap(msg string, err error) error {
	return fmt.Errorf("%s: %w", msg, err)
}

// Upstream помечает ошибку внешней зависимости (хранилище, сеть).
func Upstream(msg string, err error) error {
	return fmt.Errorf("%s: %w: %w", msg, ErrUpstream, err)
}
