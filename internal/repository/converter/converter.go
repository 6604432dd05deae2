package converter

import (
	"bytes"
	"encoding/json"

	"github.com/DRSN-tech/catalog-backend/internal/domain"
	"github.com/DRSN-tech/catalog-backend/pkg/e"
	"github.com/shopspring/decimal"
)

// CatalogConverter преобразует каталог между domain и JSON-снапшотом хранилища.
type CatalogConverter struct{}

func NewCatalogConverter() CatalogConverter {
	return CatalogConverter{}
}

func (CatalogConverter) ToModel(entity *domain.Product) *ProductModel {
	return &ProductModel{
		ID:          entity.ID,
		Title:       entity.Title,
		Description: entity.Description,
		Price:       Price(entity.Price),
		Image:       entity.Image,
		Embeddings:  entity.Embeddings,
	}
}

func (CatalogConverter) ToEntity(model *ProductModel) *domain.Product {
	var emb domain.Embedding
	if len(model.Embeddings) > 0 {
		emb = model.Embeddings
	}

	return &domain.Product{
		ID:          model.ID,
		Title:       model.Title,
		Description: model.Description,
		Price:       decimal.Decimal(model.Price),
		Image:       model.Image,
		Embeddings:  emb,
	}
}

func (c CatalogConverter) ToArrModel(catalog domain.Catalog) []ProductModel {
	models := make([]ProductModel, 0, len(catalog))
	for i := range catalog {
		models = append(models, *c.ToModel(&catalog[i]))
	}

	return models
}

func (c CatalogConverter) ToArrEntity(models []ProductModel) domain.Catalog {
	catalog := make(domain.Catalog, 0, len(models))
	for i := range models {
		catalog = append(catalog, *c.ToEntity(&models[i]))
	}

	return catalog
}

// Marshal сериализует весь каталог в JSON-массив.
func (c CatalogConverter) Marshal(catalog domain.Catalog) ([]byte, error) {
	data, err := json.Marshal(c.ToArrModel(catalog))
	if err != nil {
		return nil, e.Wrap("CatalogConverter.Marshal", err)
	}

	return data, nil
}

// Unmarshal разбирает JSON-массив товаров. Пустое значение и null дают пустой каталог.
func (c CatalogConverter) Unmarshal(data []byte) (domain.Catalog, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return domain.Catalog{}, nil
	}

	var models []ProductModel
	if err := json.Unmarshal(data, &models); err != nil {
		return nil, e.Wrap("CatalogConverter.Unmarshal", err)
	}

	return c.ToArrEntity(models), nil
}
