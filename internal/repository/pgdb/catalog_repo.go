package pgdb

import (
	"context"
	"errors"

	"github.com/DRSN-tech/catalog-backend/internal/cfg"
	"github.com/DRSN-tech/catalog-backend/internal/domain"
	"github.com/DRSN-tech/catalog-backend/internal/repository/converter"
	"github.com/DRSN-tech/catalog-backend/pkg/e"
	"github.com/DRSN-tech/catalog-backend/pkg/logger"
	"github.com/DRSN-tech/catalog-backend/pkg/tr"
	transaction "github.com/avito-tech/go-transaction-manager/drivers/pgxv5/v2"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jimlawless/whereami"
)

// CatalogRepo хранит снапшот каталога одной строкой catalog_snapshots (upsert по ключу)
// и пишет запись аудита в catalog_revisions в той же транзакции.
type CatalogRepo struct {
	pool   *pgxpool.Pool
	conv   converter.CatalogConverter
	cfg    *cfg.CatalogCfg
	logger logger.Logger
}

func NewCatalogRepo(pool *pgxpool.Pool, conv converter.CatalogConverter, cfg *cfg.CatalogCfg, logger logger.Logger) *CatalogRepo {
	return &CatalogRepo{
		pool:   pool,
		conv:   conv,
		cfg:    cfg,
		logger: logger,
	}
}

// Load читает снапшот. Отсутствующая строка означает пустой каталог.
func (c *CatalogRepo) Load(ctx context.Context) (domain.Catalog, error) {
	query := `SELECT data FROM catalog_snapshots WHERE key = $1`

	var data []byte
	if err := c.pool.QueryRow(ctx, query, c.cfg.Key).Scan(&data); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
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

// Save перезаписывает снапшот целиком.
func (c *CatalogRepo) Save(ctx context.Context, catalog domain.Catalog) (err error) {
	const op = "CatalogRepo.Save"

	data, err := c.conv.Marshal(catalog)
	if err != nil {
		return e.Wrap(op, err)
	}

	ctx, tx, err := transaction.NewTransaction(ctx, pgx.TxOptions{}, c.pool)
	if err != nil {
		return e.Wrap(op, err)
	}
	// Если произошла ошибка, происходит Rollback транзакции
	defer func() {
		if err != nil && tx.IsActive() {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				c.logger.Warnf("%s: rollback failed: %v", op, rbErr)
			}
		}
	}()
	ctx = tr.WithTx(ctx, tx.Transaction().(pgx.Tx))

	revision, err := c.upsertSnapshot(ctx, data)
	if err != nil {
		return e.Wrap(op, err)
	}

	if err = c.insertRevision(ctx, revision, len(catalog)); err != nil {
		return e.Wrap(op, err)
	}

	if err = tx.Commit(ctx); err != nil {
		return e.Wrap(op, err)
	}

	c.logger.Debugf("catalog snapshot %q saved, revision %d", c.cfg.Key, revision)
	return nil
}

func (c *CatalogRepo) upsertSnapshot(ctx context.Context, data []byte) (int64, error) {
	tx, err := tr.TxFromCtx(ctx)
	if err != nil {
		return 0, e.Wrap(whereami.WhereAmI(), err)
	}

	query := `
		INSERT INTO catalog_snapshots (key, data)
		VALUES ($1, $2::jsonb)
		ON CONFLICT (key)
		DO UPDATE SET
			data = EXCLUDED.data,
			revision = catalog_snapshots.revision + 1,
			updated_at = NOW()
		RETURNING revision
	`

	var revision int64
	if err := tx.QueryRow(ctx, query, c.cfg.Key, string(data)).Scan(&revision); err != nil {
		return 0, e.Wrap(whereami.WhereAmI(), err)
	}

	return revision, nil
}

func (c *CatalogRepo) insertRevision(ctx context.Context, revision int64, count int) error {
	tx, err := tr.TxFromCtx(ctx)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	query := `
		INSERT INTO catalog_revisions (key, revision, product_count)
		VALUES ($1, $2, $3)
	`

	if _, err := tx.Exec(ctx, query, c.cfg.Key, revision, count); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}
