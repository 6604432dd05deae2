package app

import (
	"context"

	config "github.com/DRSN-tech/catalog-backend/internal/cfg"
	"github.com/DRSN-tech/catalog-backend/internal/repository/converter"
	"github.com/DRSN-tech/catalog-backend/internal/repository/memory"
	"github.com/DRSN-tech/catalog-backend/internal/repository/pgdb"
	"github.com/DRSN-tech/catalog-backend/internal/repository/redis"
	"github.com/DRSN-tech/catalog-backend/internal/repository/sqlite"
	"github.com/DRSN-tech/catalog-backend/internal/usecase"
	"github.com/DRSN-tech/catalog-backend/pkg/clients"
	"github.com/DRSN-tech/catalog-backend/pkg/closer"
	"github.com/DRSN-tech/catalog-backend/pkg/e"
	"github.com/DRSN-tech/catalog-backend/pkg/logger"
	"github.com/DRSN-tech/catalog-backend/pkg/postgres"
	"github.com/jimlawless/whereami"
)

// NewCatalogRepository выбирает хранилище снапшота по CATALOG_BACKEND.
// Открытые соединения регистрируются в closer.
func NewCatalogRepository(ctx context.Context, cfg *config.Config, log logger.Logger, c *closer.Closer) (usecase.CatalogRepository, error) {
	conv := converter.NewCatalogConverter()

	switch cfg.Catalog.Backend {
	case config.BackendRedis:
		client, err := clients.NewRedisClient(cfg.Redis)
		if err != nil {
			return nil, e.Wrap(whereami.WhereAmI(), err)
		}
		c.AddFunc("redis", client.Close)

		if err := client.Ping(ctx); err != nil {
			// недоступный Redis не мешает старту: запросы обслуживаются из снапшота
			log.Warnf("redis is unavailable at startup: %v", err)
		}

		return redis.NewCatalogRepo(client, conv, cfg.Catalog, log), nil

	case config.BackendPostgres:
		db, err := initPGDB(ctx, log, cfg)
		if err != nil {
			return nil, err
		}
		c.AddFunc("postgres", func() error {
			db.Close()
			return nil
		})

		return pgdb.NewCatalogRepo(db.Pool, conv, cfg.Catalog, log), nil

	case config.BackendSQLite:
		db, err := sqlite.Open(ctx, cfg.SQLite)
		if err != nil {
			return nil, e.Wrap(whereami.WhereAmI(), err)
		}
		c.AddFunc("sqlite", db.Close)

		return sqlite.NewCatalogRepo(db, conv, cfg.Catalog), nil

	case config.BackendMemory:
		log.Warnf("catalog is stored in memory and will be lost on restart")
		return memory.NewCatalogRepo(nil), nil
	}

	return nil, e.Wrap(cfg.Catalog.Backend, e.ErrIncorrectEnvVariable)
}

func initPGDB(ctx context.Context, log logger.Logger, cfg *config.Config) (*postgres.PgDatabase, error) {
	db, err := postgres.Connect(ctx, cfg.Db)
	if err != nil {
		log.Errorf(err, "failed to connect to database")
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	if err := db.RunMigrations(log); err != nil {
		log.Errorf(err, "failed to run migrations")
		db.Close()
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	if err := db.Ping(ctx); err != nil {
		log.Errorf(err, "failed to ping database")
		db.Close()
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return db, nil
}
