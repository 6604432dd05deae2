package converter

import (
	"testing"

	"github.com/DRSN-tech/catalog-backend/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalWritesPriceAsNumber(t *testing.T) {
	conv := NewCatalogConverter()
	catalog := domain.Catalog{
		{ID: 1, Title: "Red Mug", Description: "A mug", Price: decimal.RequireFromString("9.99"), Image: "/img.png", Embeddings: domain.Embedding{0.5, -1}},
		{ID: 2, Title: "Plate", Description: "Flat", Price: decimal.NewFromInt(3), Image: "/p.png"},
	}

	data, err := conv.Marshal(catalog)
	require.NoError(t, err)
	assert.JSONEq(t, `[
		{"id":1,"title":"Red Mug","description":"A mug","price":9.99,"image":"/img.png","embeddings":[0.5,-1]},
		{"id":2,"title":"Plate","description":"Flat","price":3,"image":"/p.png","embeddings":null}
	]`, string(data))

	back, err := conv.Unmarshal(data)
	require.NoError(t, err)
	require.Len(t, back, 2)
	assert.True(t, catalog[0].Price.Equal(back[0].Price))
	assert.Equal(t, catalog[0].Embeddings, back[0].Embeddings)
	assert.Nil(t, back[1].Embeddings)
}

func TestUnmarshalLegacyDocuments(t *testing.T) {
	conv := NewCatalogConverter()

	catalog, err := conv.Unmarshal([]byte(`[{"id":7,"title":"Old","description":"d","price":"12.50","image":"/o.png"}]`))
	require.NoError(t, err)
	require.Len(t, catalog, 1)
	assert.Equal(t, int64(7), catalog[0].ID)
	assert.True(t, decimal.RequireFromString("12.5").Equal(catalog[0].Price))
	assert.False(t, catalog[0].HasEmbedding())

	for _, raw := range []string{"", "  ", "null", "[]"} {
		catalog, err := conv.Unmarshal([]byte(raw))
		require.NoError(t, err)
		assert.NotNil(t, catalog)
		assert.Empty(t, catalog)
	}
}

func TestUnmarshalMalformed(t *testing.T) {
	_, err := NewCatalogConverter().Unmarshal([]byte(`{"id":1}`))
	assert.Error(t, err)
}
