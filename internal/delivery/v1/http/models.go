package http

import (
	"encoding/json"

	"github.com/DRSN-tech/catalog-backend/internal/domain"
	"github.com/DRSN-tech/catalog-backend/internal/usecase"
	"github.com/shopspring/decimal"
)

// ProductResponse — товар в ответах API. Цена отдается числом.
type ProductResponse struct {
	ID          int64       `json:"id"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Price       json.Number `json:"price" swaggertype:"number"`
	Image       string      `json:"image"`
	Embeddings  []float32   `json:"embeddings"`
}

// ProductInputRequest — товар в теле POST /api/products. Поле id выбирает редактирование.
type ProductInputRequest struct {
	ID          int64           `json:"id,omitempty"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price" swaggertype:"number"`
	Image       string          `json:"image"`
}

type SaveProductRequest struct {
	Product  ProductInputRequest `json:"product"`
	Password string              `json:"password"`
}

type PasswordRequest struct {
	Password string `json:"password"`
}

// GetProductResponse — ответ на запрос по id. Пустой объект, если товар не найден.
type GetProductResponse struct {
	Product *ProductResponse `json:"product,omitempty"`
}

type ListProductsResponse struct {
	Products []ProductResponse `json:"products"`
}

// SemanticSearchResponse — результат семантического поиска и оценки всех товаров по названию.
type SemanticSearchResponse struct {
	Products     []ProductResponse   `json:"products"`
	Similarities map[string]*float64 `json:"similarities"`
}

type DeleteProductResponse struct {
	Success bool `json:"success"`
	Status  int  `json:"status"`
}

type ReindexResponse struct {
	Updated int `json:"updated"`
	Total   int `json:"total"`
}

type UploadImageResponse struct {
	Image string `json:"image"`
	Key   string `json:"key"`
}

func NewProductResponse(p *domain.Product) *ProductResponse {
	return &ProductResponse{
		ID:          p.ID,
		Title:       p.Title,
		Description: p.Description,
		Price:       json.Number(p.Price.String()),
		Image:       p.Image,
		Embeddings:  p.Embeddings,
	}
}

func NewArrProductResponse(catalog domain.Catalog) []ProductResponse {
	res := make([]ProductResponse, 0, len(catalog))
	for i := range catalog {
		res = append(res, *NewProductResponse(&catalog[i]))
	}

	return res
}

func (r *SaveProductRequest) ToUseCase() *usecase.SaveProductReq {
	return usecase.NewSaveProductReq(usecase.ProductInput{
		ID:          r.Product.ID,
		Title:       r.Product.Title,
		Description: r.Product.Description,
		Price:       r.Product.Price,
		Image:       r.Product.Image,
	}, r.Password)
}
