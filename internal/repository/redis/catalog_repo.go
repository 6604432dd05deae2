package redis

import (
	"context"
	"errors"

	"github.com/DRSN-tech/catalog-backend/internal/cfg"
	"github.com/DRSN-tech/catalog-backend/internal/domain"
	"github.com/DRSN-tech/catalog-backend/internal/repository/converter"
	"github.com/DRSN-tech/catalog-backend/pkg/clients"
	"github.com/DRSN-tech/catalog-backend/pkg/e"
	"github.com/DRSN-tech/catalog-backend/pkg/logger"
	"github.com/jimlawless/whereami"
	r "github.com/redis/go-redis/v9"
)

// CatalogRepo хранит весь каталог одним JSON-массивом под ключом CATALOG_KEY.
type CatalogRepo struct {
	client *clients.RedisClient
	conv   converter.CatalogConverter
	cfg    *cfg.CatalogCfg
	logger logger.Logger
}

func NewCatalogRepo(client *clients.RedisClient, conv converter.CatalogConverter,
	cfg *cfg.CatalogCfg, logger logger.Logger) *CatalogRepo {
	return &CatalogRepo{
		client: client,
		conv:   conv,
		cfg:    cfg,
		logger: logger,
	}
}

// Load читает снапшот. Отсутствующий ключ означает пустой каталог.
func (c *CatalogRepo) Load(ctx context.Context) (domain.Catalog, error) {
	data, err := c.client.Client.Get(ctx, c.cfg.Key).Bytes()
	if err != nil {
		if errors.Is(err, r.Nil) {
			c.logger.Debugf("catalog key %q not found, starting with empty catalog", c.cfg.Key)
			return domain.Catalog{}, nil
		}
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	catalog, err := c.conv.Unmarshal(data)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return catalog, nil
}

// Save перезаписывает снапшот целиком, без TTL.
func (c *CatalogRepo) Save(ctx context.Context, catalog domain.Catalog) error {
	data, err := c.conv.Marshal(catalog)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	if err := c.client.Client.Set(ctx, c.cfg.Key, data, 0).Err(); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}
