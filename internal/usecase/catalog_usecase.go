package usecase

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/DRSN-tech/catalog-backend/internal/cfg"
	"github.com/DRSN-tech/catalog-backend/internal/domain"
	"github.com/DRSN-tech/catalog-backend/pkg/e"
	"github.com/DRSN-tech/catalog-backend/pkg/logger"
	"github.com/DRSN-tech/catalog-backend/pkg/vector"
	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"
)

const reloadKey = "catalog"

// CatalogUseCase владеет снапшотом каталога и является его единственным писателем.
// Записи сериализуются через writeMu, чтение идет из снапшота в памяти,
// который периодически перечитывается из хранилища.
type CatalogUseCase struct {
	repo      CatalogRepository
	embedder  Embedder
	verifier  PasswordVerifier
	publisher EventPublisher
	index     EmbeddingIndex
	ranker    Ranker
	cfg       *cfg.CatalogCfg
	logger    logger.Logger
	now       func() time.Time

	writeMu sync.Mutex

	mu       sync.RWMutex
	snapshot domain.Catalog
	loadedAt time.Time
	version  uint64

	group singleflight.Group
}

func NewCatalogUC(
	repo CatalogRepository,
	embedder Embedder,
	verifier PasswordVerifier,
	publisher EventPublisher,
	index EmbeddingIndex,
	cfg *cfg.CatalogCfg,
	logger logger.Logger,
) *CatalogUseCase {
	return &CatalogUseCase{
		repo:      repo,
		embedder:  embedder,
		verifier:  verifier,
		publisher: publisher,
		index:     index,
		ranker:    NewRanker(cfg.SimilarityThreshold),
		cfg:       cfg,
		logger:    logger,
		now:       time.Now,
		snapshot:  domain.Catalog{},
	}
}

// Init загружает каталог при старте. При ошибке хранилища работа продолжается с пустым снапшотом.
func (c *CatalogUseCase) Init(ctx context.Context) error {
	const op = "CatalogUseCase.Init"

	catalog, err := c.reload(ctx)
	if err != nil {
		return e.Wrap(op, err)
	}

	c.logger.Infof("catalog loaded: %d products", len(catalog))
	return nil
}

// GetProduct возвращает товар по идентификатору.
func (c *CatalogUseCase) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	const op = "CatalogUseCase.GetProduct"

	p, ok := c.current(ctx).Find(id)
	if !ok {
		return nil, e.Wrap(op, e.ErrNotFound)
	}

	return &p, nil
}

// ListProducts возвращает весь каталог. Результат нельзя изменять.
func (c *CatalogUseCase) ListProducts(ctx context.Context) domain.Catalog {
	return c.current(ctx)
}

// Search выполняет префиксный или семантический поиск.
// Если эмбеддинг запроса получить не удалось, используется префиксный поиск.
func (c *CatalogUseCase) Search(ctx context.Context, req *SearchReq) (*SearchRes, error) {
	const op = "CatalogUseCase.Search"

	catalog := c.current(ctx)

	query := strings.TrimSpace(req.Query)
	if query == "" {
		return &SearchRes{Products: catalog}, nil
	}

	if req.Semantic {
		if emb := c.embed(ctx, query); emb != nil {
			ranking, err := c.ranker.Rank(emb, catalog)
			if err != nil {
				return nil, e.Wrap(op, err)
			}

			return &SearchRes{Products: ranking.Products, Ranking: ranking}, nil
		}

		c.logger.Warnf("%s: no query embedding, falling back to prefix search", op)
	}

	return &SearchRes{Products: PrefixSearch(catalog, query, c.cfg.SearchDescription)}, nil
}

// SaveProduct создает товар (ID == 0) или изменяет существующий.
// Пароль проверяется до валидации; при любой ошибке каталог не меняется.
func (c *CatalogUseCase) SaveProduct(ctx context.Context, req *SaveProductReq) (*SaveProductRes, error) {
	const op = "CatalogUseCase.SaveProduct"

	if !c.verifier.Verify(req.Password) {
		return nil, e.Wrap(op, e.ErrUnauthorized)
	}

	if err := ValidateProduct(&req.Product); err != nil {
		return nil, e.Wrap(op, err)
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	base, err := c.writeBase(ctx)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	if req.Product.ID != 0 {
		res, err := c.editProduct(ctx, base, &req.Product)
		if err != nil {
			return nil, e.Wrap(op, err)
		}
		return res, nil
	}

	res, err := c.createProduct(ctx, base, &req.Product)
	if err != nil {
		return nil, e.Wrap(op, err)
	}
	return res, nil
}

// DeleteProduct удаляет товар. Удаление отсутствующего товара успешно и ничего не записывает.
func (c *CatalogUseCase) DeleteProduct(ctx context.Context, req *DeleteProductReq) error {
	const op = "CatalogUseCase.DeleteProduct"

	if !c.verifier.Verify(req.Password) {
		return e.Wrap(op, e.ErrUnauthorized)
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	base, err := c.writeBase(ctx)
	if err != nil {
		return e.Wrap(op, err)
	}

	next, found := base.Without(req.ID)
	if !found {
		c.logger.Debugf("%s: product %d not found, nothing to delete", op, req.ID)
		return nil
	}

	if err := c.commit(ctx, next); err != nil {
		return e.Wrap(op, err)
	}

	c.afterWrite(ctx, ProductDeleted, req.ID, nil)
	return nil
}

// Reindex вычисляет эмбеддинги для товаров, у которых их нет.
func (c *CatalogUseCase) Reindex(ctx context.Context, req *ReindexReq) (*ReindexRes, error) {
	const op = "CatalogUseCase.Reindex"

	if !c.verifier.Verify(req.Password) {
		return nil, e.Wrap(op, e.ErrUnauthorized)
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	base, err := c.writeBase(ctx)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	next := base.Clone()
	var updated []int
	for i := range next {
		if next[i].HasEmbedding() {
			continue
		}

		if emb := c.embed(ctx, next[i].Title); emb != nil {
			next[i].Embeddings = emb
			updated = append(updated, i)
		}
	}

	if len(updated) == 0 {
		return &ReindexRes{Updated: 0, Total: len(next)}, nil
	}

	if err := c.commit(ctx, next); err != nil {
		return nil, e.Wrap(op, err)
	}

	for _, i := range updated {
		p := next[i]
		c.afterWrite(ctx, ProductUpdated, p.ID, &p)
	}

	c.logger.Infof("%s: embeddings backfilled for %d of %d products", op, len(updated), len(next))
	return &ReindexRes{Updated: len(updated), Total: len(next)}, nil
}

func (c *CatalogUseCase) createProduct(ctx context.Context, base domain.Catalog, in *ProductInput) (*SaveProductRes, error) {
	product := domain.NewProduct(base.NextID(), in.Title, in.Description, in.Price, in.Image)
	product.Embeddings = c.embed(ctx, in.Title)

	next := append(base.Clone(), *product)
	if err := c.commit(ctx, next); err != nil {
		return nil, err
	}

	c.afterWrite(ctx, ProductCreated, product.ID, product)
	return NewSaveProductRes(product, true), nil
}

func (c *CatalogUseCase) editProduct(ctx context.Context, base domain.Catalog, in *ProductInput) (*SaveProductRes, error) {
	idx := base.IndexOf(in.ID)
	if idx == -1 {
		return nil, e.ErrNotFound
	}

	product := base[idx]

	// эмбеддинг пересчитывается только при смене названия
	if product.Title != in.Title {
		product.Embeddings = c.embed(ctx, in.Title)
	}

	product.Title = in.Title
	product.Description = in.Description
	product.Price = in.Price
	product.Image = in.Image

	next := base.Clone()
	next[idx] = product
	if err := c.commit(ctx, next); err != nil {
		return nil, err
	}

	c.afterWrite(ctx, ProductUpdated, product.ID, &product)
	return NewSaveProductRes(&product, false), nil
}

// embed возвращает nil при любой ошибке провайдера: товар сохраняется без эмбеддинга.
func (c *CatalogUseCase) embed(ctx context.Context, text string) domain.Embedding {
	emb, err := c.embedder.Embed(ctx, text)
	if err != nil {
		c.logger.Warnf("embedding generation failed: %v", err)
		return nil
	}

	if emb == nil {
		return nil
	}

	if err := vector.Validate(emb); err != nil {
		c.logger.Warnf("embedding provider returned unusable vector: %v", err)
		return nil
	}

	return emb
}

// commit сохраняет снапшот целиком и только после успеха публикует его в памяти.
func (c *CatalogUseCase) commit(ctx context.Context, next domain.Catalog) error {
	const op = "CatalogUseCase.commit"

	if err := c.repo.Save(ctx, next); err != nil {
		return e.Upstream(op, err)
	}

	c.mu.Lock()
	c.snapshot = next
	c.loadedAt = c.now()
	c.version++
	c.mu.Unlock()

	return nil
}

// afterWrite публикует событие и обновляет векторный индекс. Ошибки только логируются.
func (c *CatalogUseCase) afterWrite(ctx context.Context, eventType ProductEventType, productID int64, product *domain.Product) {
	event := NewProductEvent(uuid.NewString(), eventType, productID, product, c.now().UTC())
	if err := c.publisher.Publish(ctx, event); err != nil {
		c.logger.Warnf("failed to publish %s event for product %d: %v", eventType, productID, err)
	}

	var err error
	if product != nil && product.HasEmbedding() {
		err = c.index.Upsert(ctx, product)
	} else {
		err = c.index.Delete(ctx, productID)
	}
	if err != nil {
		c.logger.Warnf("failed to sync embedding index for product %d: %v", productID, err)
	}
}

// current возвращает снапшот, перечитывая его из хранилища, если он устарел.
// При ошибке хранилища возвращается последний известный снапшот.
func (c *CatalogUseCase) current(ctx context.Context) domain.Catalog {
	c.mu.RLock()
	snapshot, loadedAt := c.snapshot, c.loadedAt
	c.mu.RUnlock()

	fresh := !loadedAt.IsZero() &&
		(c.cfg.RefreshInterval <= 0 || c.now().Sub(loadedAt) < c.cfg.RefreshInterval)
	if fresh {
		return snapshot
	}

	catalog, err := c.reload(ctx)
	if err != nil {
		c.logger.Warnf("catalog reload failed, serving last known snapshot (%d products): %v", len(snapshot), err)
		return snapshot
	}

	return catalog
}

// writeBase возвращает снапшот, поверх которого строится запись.
// Пока каталог ни разу не загружен, ошибка хранилища возвращается вызывающему:
// запись поверх пустого снапшота перезаписала бы сохраненный каталог целиком.
func (c *CatalogUseCase) writeBase(ctx context.Context) (domain.Catalog, error) {
	c.mu.RLock()
	loaded := !c.loadedAt.IsZero()
	c.mu.RUnlock()

	if loaded {
		return c.current(ctx), nil
	}

	return c.reload(ctx)
}

// reload читает каталог из хранилища. Параллельные перечитывания объединяются;
// результат не публикуется, если за время чтения произошла запись.
func (c *CatalogUseCase) reload(ctx context.Context) (domain.Catalog, error) {
	const op = "CatalogUseCase.reload"

	v, err, _ := c.group.Do(reloadKey, func() (any, error) {
		c.mu.RLock()
		version := c.version
		c.mu.RUnlock()

		catalog, err := c.repo.Load(ctx)
		if err != nil {
			return nil, e.Upstream(op, err)
		}
		if catalog == nil {
			catalog = domain.Catalog{}
		}

		c.mu.Lock()
		defer c.mu.Unlock()
		if c.version != version {
			return c.snapshot, nil
		}
		c.snapshot = catalog
		c.loadedAt = c.now()

		return catalog, nil
	})
	if err != nil {
		return nil, err
	}

	return v.(domain.Catalog), nil
}
