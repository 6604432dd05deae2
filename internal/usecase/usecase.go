package usecase

import (
	"context"

	"github.com/DRSN-tech/catalog-backend/internal/domain"
)

type CatalogUC interface {
	GetProduct(ctx context.Context, id int64) (*domain.Product, error)
	ListProducts(ctx context.Context) domain.Catalog
	Search(ctx context.Context, req *SearchReq) (*SearchRes, error)
	SaveProduct(ctx context.Context, req *SaveProductReq) (*SaveProductRes, error)
	DeleteProduct(ctx context.Context, req *DeleteProductReq) error
	Reindex(ctx context.Context, req *ReindexReq) (*ReindexRes, error)
}

type ImageUC interface {
	UploadImage(ctx context.Context, req *UploadImageReq) (*UploadImageRes, error)
}
