// Package sqlite — хранилище снапшота каталога во встраиваемой базе SQLite.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"time"

	"github.com/DRSN-tech/catalog-backend/internal/cfg"
	"github.com/DRSN-tech/catalog-backend/internal/domain"
	"github.com/DRSN-tech/catalog-backend/internal/repository/converter"
	"github.com/DRSN-tech/catalog-backend/pkg/e"
	"github.com/jimlawless/whereami"
	_ "modernc.org/sqlite"
)

const driverName = "sqlite"

var schema = []string{
	`CREATE TABLE IF NOT EXISTS catalog_snapshots (
		key        TEXT PRIMARY KEY,
		data       TEXT    NOT NULL,
		revision   INTEGER NOT NULL DEFAULT 1,
		updated_at TEXT    NOT NULL
	);`,
	`CREATE TABLE IF NOT EXISTS catalog_revisions (
		id            INTEGER PRIMARY KEY AUTOINCREMENT,
		key           TEXT    NOT NULL,
		revision      INTEGER NOT NULL,
		product_count INTEGER NOT NULL,
		created_at    TEXT    NOT NULL
	);`,
}

// Open открывает файл базы (":memory:" для тестов) и применяет схему.
func Open(ctx context.Context, cfg *cfg.SQLiteCfg) (*sql.DB, error) {
	if cfg.Path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(cfg.Path), 0o755); err != nil {
			return nil, e.Wrap(whereami.WhereAmI(), err)
		}
	}

	db, err := sql.Open(driverName, cfg.Path)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	// одно соединение: запись сериализуется, а ":memory:" не расходится между соединениями
	db.SetMaxOpenConns(1)

	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			db.Close()
			return nil, e.Wrap(whereami.WhereAmI(), err)
		}
	}

	return db, nil
}

type CatalogRepo struct {
	db   *sql.DB
	conv converter.CatalogConverter
	cfg  *cfg.CatalogCfg
	now  func() time.Time
}

func NewCatalogRepo(db *sql.DB, conv converter.CatalogConverter, cfg *cfg.CatalogCfg) *CatalogRepo {
	return &CatalogRepo{
		db:   db,
		conv: conv,
		cfg:  cfg,
		now:  time.Now,
	}
}

func (c *CatalogRepo) Load(ctx context.Context) (domain.Catalog, error) {
	var data string
	err := c.db.QueryRowContext(ctx, `SELECT data FROM catalog_snapshots WHERE key = ?`, c.cfg.Key).Scan(&data)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Catalog{}, nil
		}
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	catalog, err := c.conv.Unmarshal([]byte(data))
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return catalog, nil
}

// Save выполняет upsert строки снапшота и запись аудита в одной транзакции.
func (c *CatalogRepo) Save(ctx context.Context, catalog domain.Catalog) error {
	const op = "sqlite.CatalogRepo.Save"

	data, err := c.conv.Marshal(catalog)
	if err != nil {
		return e.Wrap(op, err)
	}

	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return e.Wrap(op, err)
	}
	defer tx.Rollback()

	now := c.now().UTC().Format(time.RFC3339Nano)

	var revision int64
	err = tx.QueryRowContext(ctx, `
		INSERT INTO catalog_snapshots (key, data, revision, updated_at)
		VALUES (?, ?, 1, ?)
		ON CONFLICT (key) DO UPDATE SET
			data = excluded.data,
			revision = catalog_snapshots.revision + 1,
			updated_at = excluded.updated_at
		RETURNING revision`,
		c.cfg.Key, string(data), now,
	).Scan(&revision)
	if err != nil {
		return e.Wrap(op, err)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO catalog_revisions (key, revision, product_count, created_at) VALUES (?, ?, ?, ?)`,
		c.cfg.Key, revision, len(catalog), now,
	)
	if err != nil {
		return e.Wrap(op, err)
	}

	if err := tx.Commit(); err != nil {
		return e.Wrap(op, err)
	}

	return nil
}

// Revision возвращает номер текущей ревизии снапшота, 0 если снапшот еще не сохранялся.
func (c *CatalogRepo) Revision(ctx context.Context) (int64, error) {
	var revision int64
	err := c.db.QueryRowContext(ctx, `SELECT revision FROM catalog_snapshots WHERE key = ?`, c.cfg.Key).Scan(&revision)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, nil
		}
		return 0, e.Wrap(whereami.WhereAmI(), err)
	}

	return revision, nil
}
