package clients

import (
	"context"
	"fmt"

	config "github.com/DRSN-tech/catalog-backend/internal/cfg"
	"github.com/DRSN-tech/catalog-backend/pkg/e"
	"github.com/jimlawless/whereami"
	"github.com/qdrant/go-client/qdrant"
)

// QdrantClient — gRPC-клиент Qdrant вместе с настройками коллекции эмбеддингов.
type QdrantClient struct {
	Client *qdrant.Client
	cfg    *config.QdrantCfg
}

func NewQdrantClient(cfg *config.QdrantCfg) (*QdrantClient, error) {
	client, err := qdrant.NewClient(&qdrant.Config{
		Host:   cfg.Host,
		Port:   cfg.Port,
		APIKey: cfg.ApiKey,
		UseTLS: cfg.UseTLS,
	})
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return &QdrantClient{Client: client, cfg: cfg}, nil
}

// EnsureCollection создает коллекцию с косинусной метрикой и индексом по product_id.
// Для существующей коллекции проверяется размерность векторов: несовпадение с VECTOR_SIZE — ошибка конфигурации.
func EnsureCollection(ctx context.Context, client *QdrantClient) error {
	name := client.cfg.QdrantCollectionName

	exists, err := client.Client.CollectionExists(ctx, name)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), fmt.Errorf("check collection %s: %w", name, err))
	}

	if exists {
		info, err := client.Client.GetCollectionInfo(ctx, name)
		if err != nil {
			return e.Wrap(whereami.WhereAmI(), fmt.Errorf("collection %s info: %w", name, err))
		}

		size := info.GetConfig().GetParams().GetVectorsConfig().GetParams().GetSize()
		if size != 0 && size != client.cfg.VectorSize {
			return e.Wrap(whereami.WhereAmI(), fmt.Errorf("%w: collection %s has vector size %d, VECTOR_SIZE=%d",
				e.ErrIncorrectEnvVariable, name, size, client.cfg.VectorSize))
		}
		return nil
	}

	if err := client.Client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: name,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     client.cfg.VectorSize,
			Distance: qdrant.Distance_Cosine,
		}),
	}); err != nil {
		return e.Wrap(whereami.WhereAmI(), fmt.Errorf("create collection %s: %w", name, err))
	}

	if _, err := client.Client.CreateFieldIndex(ctx, &qdrant.CreateFieldIndexCollection{
		CollectionName: name,
		FieldName:      "product_id",
		FieldType:      qdrant.FieldType_FieldTypeInteger.Enum(),
	}); err != nil {
		return e.Wrap(whereami.WhereAmI(), fmt.Errorf("create product_id index: %w", err))
	}

	return nil
}

func (q *QdrantClient) Close() error {
	return q.Client.Close()
}
