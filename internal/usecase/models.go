package usecase

import (
	"time"

	"github.com/DRSN-tech/catalog-backend/internal/domain"
	"github.com/shopspring/decimal"
)

// CATALOG USECASE

// ProductInput — данные товара из запроса администратора.
// ID == 0 означает создание нового товара. Эмбеддинги от клиента не принимаются.
type ProductInput struct {
	ID          int64           `json:"id"`
	Title       string          `json:"title" validate:"required"`
	Description string          `json:"description" validate:"required"`
	Price       decimal.Decimal `json:"price" validate:"required,gte=0"`
	Image       string          `json:"image" validate:"required"`
}

// SaveProductReq — запрос на создание или изменение товара.
type SaveProductReq struct {
	Product  ProductInput
	Password string
}

// SaveProductRes — сохраненный товар и признак создания.
type SaveProductRes struct {
	Product *domain.Product
	Created bool
}

type DeleteProductReq struct {
	ID       int64
	Password string
}

type ReindexReq struct {
	Password string
}

type ReindexRes struct {
	Updated int
	Total   int
}

// SearchReq — поиск по каталогу. Пустой Query возвращает весь каталог.
type SearchReq struct {
	Query    string
	Semantic bool
}

// SearchRes — результат поиска. Ranking заполнен только для семантического поиска.
type SearchRes struct {
	Products domain.Catalog
	Ranking  *RankResult
}

// IMAGES USECASE

type UploadImageReq struct {
	Password string
	Name     string
	Data     []byte
	MimeType string
	Size     int64
}

type UploadImageRes struct {
	Key string
	URL string
}

// EVENTS

type ProductEventType string

const (
	ProductCreated ProductEventType = "product.created"
	ProductUpdated ProductEventType = "product.updated"
	ProductDeleted ProductEventType = "product.deleted"
)

// ProductEvent — событие об изменении каталога. Product == nil для удаления.
type ProductEvent struct {
	EventID    string
	Type       ProductEventType
	ProductID  int64
	Product    *domain.Product
	OccurredAt time.Time
}

// MAPPERS

func NewSaveProductReq(product ProductInput, password string) *SaveProductReq {
	return &SaveProductReq{
		Product:  product,
		Password: password,
	}
}

func NewSaveProductRes(product *domain.Product, created bool) *SaveProductRes {
	return &SaveProductRes{
		Product: product,
		Created: created,
	}
}

func NewDeleteProductReq(id int64, password string) *DeleteProductReq {
	return &DeleteProductReq{
		ID:       id,
		Password: password,
	}
}

func NewSearchReq(query string, semantic bool) *SearchReq {
	return &SearchReq{
		Query:    query,
		Semantic: semantic,
	}
}

func NewUploadImageReq(password, name string, data []byte, mimeType string) *UploadImageReq {
	return &UploadImageReq{
		Password: password,
		Name:     name,
		Data:     data,
		MimeType: mimeType,
		Size:     int64(len(data)),
	}
}

func NewUploadImageRes(key, url string) *UploadImageRes {
	return &UploadImageRes{
		Key: key,
		URL: url,
	}
}

func NewProductEvent(id string, eventType ProductEventType, productID int64, product *domain.Product, at time.Time) *ProductEvent {
	return &ProductEvent{
		EventID:    id,
		Type:       eventType,
		ProductID:  productID,
		Product:    product,
		OccurredAt: at,
	}
}
