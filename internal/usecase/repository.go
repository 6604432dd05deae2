package usecase

import (
	"context"

	"github.com/DRSN-tech/catalog-backend/internal/domain"
)

// CatalogRepository хранит каталог целиком: чтение и полная перезапись снапшота.
// Отсутствующий снапшот возвращается как пустой каталог без ошибки.
type CatalogRepository interface {
	Load(ctx context.Context) (domain.Catalog, error)
	Save(ctx context.Context, catalog domain.Catalog) error
}

// EmbeddingIndex зеркалирует эмбеддинги товаров во внешнее векторное хранилище.
type EmbeddingIndex interface {
	Upsert(ctx context.Context, product *domain.Product) error
	Delete(ctx context.Context, productID int64) error
}

type ImageRepository interface {
	Upload(ctx context.Context, image *domain.Image) (string, error)
	Delete(ctx context.Context, key string) error
}
