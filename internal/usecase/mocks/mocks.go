// Package mocks содержит testify-моки портов usecase.
package mocks

import (
	"context"

	"github.com/DRSN-tech/catalog-backend/internal/domain"
	"github.com/DRSN-tech/catalog-backend/internal/usecase"
	"github.com/stretchr/testify/mock"
)

type MockEmbedder struct {
	mock.Mock
}

func (m *MockEmbedder) Embed(ctx context.Context, text string) (domain.Embedding, error) {
	args := m.Called(ctx, text)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(domain.Embedding), args.Error(1)
}

type MockPasswordVerifier struct {
	mock.Mock
}

func (m *MockPasswordVerifier) Verify(plaintext string) bool {
	args := m.Called(plaintext)
	return args.Bool(0)
}

// StaticPassword — верификатор с фиксированным паролем для тестов, где проверка пароля не важна.
type StaticPassword string

func (s StaticPassword) Verify(plaintext string) bool {
	return plaintext == string(s)
}

type MockCatalogRepository struct {
	mock.Mock
}

func (m *MockCatalogRepository) Load(ctx context.Context) (domain.Catalog, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(domain.Catalog), args.Error(1)
}

func (m *MockCatalogRepository) Save(ctx context.Context, catalog domain.Catalog) error {
	args := m.Called(ctx, catalog)
	return args.Error(0)
}

type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(ctx context.Context, event *usecase.ProductEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

type MockEmbeddingIndex struct {
	mock.Mock
}

func (m *MockEmbeddingIndex) Upsert(ctx context.Context, product *domain.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockEmbeddingIndex) Delete(ctx context.Context, productID int64) error {
	args := m.Called(ctx, productID)
	return args.Error(0)
}

type MockImagesInfra struct {
	mock.Mock
}

func (m *MockImagesInfra) UploadImage(ctx context.Context, req *usecase.UploadImageReq) (*usecase.UploadImageRes, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.UploadImageRes), args.Error(1)
}

type MockImageRepository struct {
	mock.Mock
}

func (m *MockImageRepository) Upload(ctx context.Context, image *domain.Image) (string, error) {
	args := m.Called(ctx, image)
	return args.String(0), args.Error(1)
}

func (m *MockImageRepository) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}
