// Package memory — хранилище каталога в памяти процесса (локальная разработка и тесты).
package memory

import (
	"context"
	"sync"

	"github.com/DRSN-tech/catalog-backend/internal/domain"
)

type CatalogRepo struct {
	mu      sync.RWMutex
	catalog domain.Catalog
	saves   int
}

func NewCatalogRepo(initial domain.Catalog) *CatalogRepo {
	return &CatalogRepo{catalog: initial.Clone()}
}

func (r *CatalogRepo) Load(_ context.Context) (domain.Catalog, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.catalog.Clone(), nil
}

func (r *CatalogRepo) Save(_ context.Context, catalog domain.Catalog) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.catalog = catalog.Clone()
	r.saves++
	return nil
}

// Saves возвращает количество перезаписей снапшота.
func (r *CatalogRepo) Saves() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.saves
}
