package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/DRSN-tech/catalog-backend/internal/cfg"
	"github.com/DRSN-tech/catalog-backend/internal/domain"
	"github.com/DRSN-tech/catalog-backend/internal/repository/converter"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRepo(t *testing.T, path string) *CatalogRepo {
	t.Helper()

	db, err := Open(context.Background(), &cfg.SQLiteCfg{Path: path})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return NewCatalogRepo(db, converter.NewCatalogConverter(), &cfg.CatalogCfg{Key: "products"})
}

func TestLoadEmpty(t *testing.T) {
	repo := newRepo(t, ":memory:")

	catalog, err := repo.Load(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, catalog)
	assert.Empty(t, catalog)

	rev, err := repo.Revision(context.Background())
	require.NoError(t, err)
	assert.Zero(t, rev)
}

func TestSaveOverwritesSnapshot(t *testing.T) {
	ctx := context.Background()
	repo := newRepo(t, ":memory:")

	first := domain.Catalog{
		{ID: 1, Title: "Red Mug", Description: "A mug", Price: decimal.RequireFromString("9.99"), Image: "/img.png", Embeddings: domain.Embedding{1, 0}},
	}
	require.NoError(t, repo.Save(ctx, first))

	second := append(first.Clone(), domain.Product{ID: 2, Title: "Plate", Description: "Flat", Price: decimal.NewFromInt(3), Image: "/p.png"})
	require.NoError(t, repo.Save(ctx, second))

	got, err := repo.Load(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Red Mug", got[0].Title)
	assert.True(t, got[0].Price.Equal(decimal.RequireFromString("9.99")))
	assert.Equal(t, domain.Embedding{1, 0}, got[0].Embeddings)
	assert.Nil(t, got[1].Embeddings)

	rev, err := repo.Revision(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), rev)

	var audits int
	require.NoError(t, repo.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM catalog_revisions`).Scan(&audits))
	assert.Equal(t, 2, audits)
}

func TestSnapshotSurvivesReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "data", "catalog.db")

	repo := newRepo(t, path)
	require.NoError(t, repo.Save(ctx, domain.Catalog{{ID: 5, Title: "Teapot"}}))

	reopened := newRepo(t, path)
	got, err := reopened.Load(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, int64(5), got[0].ID)
}
