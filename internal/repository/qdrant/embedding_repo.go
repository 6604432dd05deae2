package qdrant

import (
	"context"
	"fmt"

	"github.com/DRSN-tech/catalog-backend/internal/cfg"
	"github.com/DRSN-tech/catalog-backend/internal/domain"
	"github.com/DRSN-tech/catalog-backend/pkg/e"
	"github.com/jimlawless/whereami"
	"github.com/qdrant/go-client/qdrant"
)

// EmbeddingRepo зеркалирует эмбеддинги товаров в коллекцию Qdrant.
// ID точки совпадает с ID товара.
type EmbeddingRepo struct {
	client *qdrant.Client
	cfg    *cfg.QdrantCfg
}

func NewEmbeddingRepo(client *qdrant.Client, cfg *cfg.QdrantCfg) *EmbeddingRepo {
	return &EmbeddingRepo{
		client: client,
		cfg:    cfg,
	}
}

// Upsert сохраняет или обновляет вектор товара вместе с payload для фильтрации.
func (q *EmbeddingRepo) Upsert(ctx context.Context, product *domain.Product) error {
	if uint64(product.Embeddings.Dim()) != q.cfg.VectorSize {
		return e.Wrap(whereami.WhereAmI(), fmt.Errorf("%w: product %d has %d dims, collection expects %d",
			e.ErrDimMismatch, product.ID, product.Embeddings.Dim(), q.cfg.VectorSize))
	}

	_, err := q.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: q.cfg.QdrantCollectionName,
		Wait:           qdrant.PtrOf(true),
		Points:         []*qdrant.PointStruct{toPoint(product)},
	})
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}

func toPoint(product *domain.Product) *qdrant.PointStruct {
	return &qdrant.PointStruct{
		Id:      qdrant.NewIDNum(uint64(product.ID)),
		Vectors: qdrant.NewVectors(product.Embeddings...),
		Payload: qdrant.NewValueMap(map[string]any{
			"product_id": product.ID,
			"title":      product.Title,
			"price":      product.Price.String(),
			"image":      product.Image,
		}),
	}
}

// Delete удаляет точку товара. Отсутствующая точка ошибкой не считается.
func (q *EmbeddingRepo) Delete(ctx context.Context, productID int64) error {
	_, err := q.client.Delete(ctx, &qdrant.DeletePoints{
		CollectionName: q.cfg.QdrantCollectionName,
		Wait:           qdrant.PtrOf(true),
		Points:         qdrant.NewPointsSelector(qdrant.NewIDNum(uint64(productID))),
	})
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}
