package usecase

import (
	"testing"

	"github.com/DRSN-tech/catalog-backend/internal/domain"
	"github.com/DRSN-tech/catalog-backend/pkg/e"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rankCatalog() domain.Catalog {
	return domain.Catalog{
		{ID: 1, Title: "Red Mug", Embeddings: domain.Embedding{1, 0, 0, 0}},
		{ID: 2, Title: "Teapot", Embeddings: domain.Embedding{0, 1, 0, 0}},
		{ID: 3, Title: "Plate"},
		{ID: 4, Title: "Blue Mug", Embeddings: domain.Embedding{7, 7, 1, 1}}, // cos с {1,0,0,0} ровно 0.7
	}
}

func TestRankFiltersAndKeepsOrder(t *testing.T) {
	r := NewRanker(0.5)

	res, err := r.Rank(domain.Embedding{1, 0, 0, 0}, rankCatalog())
	require.NoError(t, err)

	ids := make([]int64, 0, len(res.Products))
	for _, p := range res.Products {
		ids = append(ids, p.ID)
	}
	assert.Equal(t, []int64{1, 4}, ids)

	scores := res.ByID()
	require.Len(t, scores, 4)
	assert.InDelta(t, 1.0, *scores[1], 1e-9)
	assert.InDelta(t, 0.0, *scores[2], 1e-9)
	assert.Nil(t, scores[3])
	assert.InDelta(t, 0.7, *scores[4], 1e-9)
}

func TestRankThresholdIsStrict(t *testing.T) {
	catalog := domain.Catalog{{ID: 4, Title: "Blue Mug", Embeddings: domain.Embedding{7, 7, 1, 1}}}
	query := domain.Embedding{1, 0, 0, 0}

	res, err := NewRanker(0.7).Rank(query, catalog)
	require.NoError(t, err)
	assert.Empty(t, res.Products, "similarity equal to threshold must be excluded")
	assert.Equal(t, 0.7, *res.ByID()[4])

	res, err = NewRanker(0.69999).Rank(query, catalog)
	require.NoError(t, err)
	assert.Len(t, res.Products, 1)
}

func TestRankProductWithoutEmbeddingNeverMatches(t *testing.T) {
	catalog := domain.Catalog{{ID: 3, Title: "Plate"}}

	for _, q := range []domain.Embedding{{1, 0}, {0, 1}, {-1, -1}} {
		res, err := NewRanker(-1).Rank(q, catalog)
		require.NoError(t, err)
		assert.Empty(t, res.Products)
		assert.Nil(t, res.ByTitle()["Plate"])
		assert.Contains(t, res.ByTitle(), "Plate")
	}
}

func TestRankInvalidVectors(t *testing.T) {
	r := NewRanker(0.7)

	_, err := r.Rank(nil, rankCatalog())
	assert.ErrorIs(t, err, e.ErrInvalidVector)

	_, err = r.Rank(domain.Embedding{}, domain.Catalog{})
	assert.ErrorIs(t, err, e.ErrInvalidVector)

	_, err = r.Rank(domain.Embedding{1, 0}, rankCatalog())
	assert.ErrorIs(t, err, e.ErrDimMismatch)

	_, err = r.Rank(domain.Embedding{0, 0, 0, 0}, rankCatalog())
	assert.ErrorIs(t, err, e.ErrZeroMagnitude)
}

func TestRankEmptyCatalog(t *testing.T) {
	res, err := NewRanker(0.7).Rank(domain.Embedding{1}, domain.Catalog{})
	require.NoError(t, err)
	assert.Empty(t, res.Products)
	assert.Empty(t, res.ByID())
	assert.Empty(t, res.ByTitle())
}

func TestRankDoesNotMutateInput(t *testing.T) {
	catalog := rankCatalog()
	query := domain.Embedding{1, 0, 0, 0}

	_, err := NewRanker(0.1).Rank(query, catalog)
	require.NoError(t, err)

	assert.Equal(t, rankCatalog(), catalog)
	assert.Equal(t, domain.Embedding{1, 0, 0, 0}, query)
}

func TestRankByTitleAliasesDuplicates(t *testing.T) {
	catalog := domain.Catalog{
		{ID: 1, Title: "Mug", Embeddings: domain.Embedding{1, 0}},
		{ID: 2, Title: "Mug", Embeddings: domain.Embedding{0, 1}},
	}

	res, err := NewRanker(0.5).Rank(domain.Embedding{1, 0}, catalog)
	require.NoError(t, err)

	assert.Len(t, res.ByID(), 2)
	byTitle := res.ByTitle()
	assert.Len(t, byTitle, 1)
	assert.InDelta(t, 0.0, *byTitle["Mug"], 1e-9)
}

func TestPrefixSearch(t *testing.T) {
	catalog := domain.Catalog{
		{ID: 1, Title: "Red Mug", Description: "Ceramic"},
		{ID: 2, Title: "red wine glass", Description: "Glass"},
		{ID: 3, Title: "Blue Mug", Description: "Red glaze"},
	}

	tests := []struct {
		name        string
		query       string
		description bool
		expected    []int64
	}{
		{"case insensitive", "RED", false, []int64{1, 2}},
		{"trimmed", "  red m ", false, []int64{1}},
		{"prefix only", "mug", false, []int64{}},
		{"empty returns all", "   ", false, []int64{1, 2, 3}},
		{"description enabled", "red", true, []int64{1, 2, 3}},
		{"description disabled", "ceramic", false, []int64{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PrefixSearch(catalog, tt.query, tt.description)
			ids := make([]int64, 0, len(got))
			for _, p := range got {
				ids = append(ids, p.ID)
			}
			assert.Equal(t, tt.expected, ids)
		})
	}
}
