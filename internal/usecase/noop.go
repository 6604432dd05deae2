package usecase

import (
	"context"

	"github.com/DRSN-tech/catalog-backend/internal/domain"
)

// NoopPublisher используется, когда брокер событий не настроен.
type NoopPublisher struct{}

func NewNoopPublisher() *NoopPublisher {
	return &NoopPublisher{}
}

func (NoopPublisher) Publish(context.Context, *ProductEvent) error {
	return nil
}

// NoopEmbeddingIndex используется, когда векторное хранилище не настроено.
type NoopEmbeddingIndex struct{}

func NewNoopEmbeddingIndex() *NoopEmbeddingIndex {
	return &NoopEmbeddingIndex{}
}

func (NoopEmbeddingIndex) Upsert(context.Context, *domain.Product) error {
	return nil
}

func (NoopEmbeddingIndex) Delete(context.Context, int64) error {
	return nil
}

// DisabledEmbedder всегда возвращает пустой эмбеддинг: семантический поиск деградирует до префиксного.
type DisabledEmbedder struct{}

func NewDisabledEmbedder() *DisabledEmbedder {
	return &DisabledEmbedder{}
}

func (DisabledEmbedder) Embed(context.Context, string) (domain.Embedding, error) {
	return nil, nil
}
