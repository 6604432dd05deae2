package http

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/DRSN-tech/catalog-backend/internal/usecase"
	"github.com/DRSN-tech/catalog-backend/pkg/logger"
)

const maxJSONBodySize = 1 << 20

type ProductHandler struct {
	catalogUsecase usecase.CatalogUC
	logger         logger.Logger
}

func NewProductHandler(catalogUsecase usecase.CatalogUC, logger logger.Logger) *ProductHandler {
	return &ProductHandler{catalogUsecase: catalogUsecase, logger: logger}
}

// getProducts
//
//	@Summary		Получение товаров
//	@Description	По id возвращает один товар, по search — результаты префиксного или семантического поиска, без параметров — весь каталог
//	@Tags			products
//	@Produce		json
//	@Param			id					query		int		false	"ID товара"
//	@Param			search				query		string	false	"Строка поиска"
//	@Param			useSemanticSearch	query		bool	false	"Семантический поиск"
//	@Success		200					{object}	SemanticSearchResponse
//	@Failure		500					{object}	ErrorResponse
//	@Router			/products [get]
func (p *ProductHandler) getProducts(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	if idStr := query.Get("id"); idStr != "" {
		p.getProduct(w, r, idStr)
		return
	}

	search := query.Get("search")
	if strings.TrimSpace(search) == "" {
		WriteSuccess(w, http.StatusOK, ListProductsResponse{
			Products: NewArrProductResponse(p.catalogUsecase.ListProducts(r.Context())),
		})
		return
	}

	semantic := query.Get("useSemanticSearch") == "true"
	res, err := p.catalogUsecase.Search(r.Context(), usecase.NewSearchReq(search, semantic))
	if err != nil {
		p.logger.Errorf(err, "search %q failed", search)
		WriteError(w, err)
		return
	}

	if res.Ranking != nil {
		WriteSuccess(w, http.StatusOK, SemanticSearchResponse{
			Products:     NewArrProductResponse(res.Products),
			Similarities: res.Ranking.ByTitle(),
		})
		return
	}

	WriteSuccess(w, http.StatusOK, ListProductsResponse{Products: NewArrProductResponse(res.Products)})
}

// getProduct отвечает {} для нечислового или неизвестного id.
func (p *ProductHandler) getProduct(w http.ResponseWriter, r *http.Request, idStr string) {
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		WriteSuccess(w, http.StatusOK, GetProductResponse{})
		return
	}

	product, err := p.catalogUsecase.GetProduct(r.Context(), id)
	if err != nil {
		WriteSuccess(w, http.StatusOK, GetProductResponse{})
		return
	}

	WriteSuccess(w, http.StatusOK, GetProductResponse{Product: NewProductResponse(product)})
}

// saveProduct
//
//	@Summary		Создание или изменение товара
//	@Description	Без product.id создает товар, с product.id — изменяет существующий. Требует пароль администратора
//	@Tags			products
//	@Accept			json
//	@Produce		json
//	@Param			request	body		SaveProductRequest	true	"Товар и пароль"
//	@Success		200		{object}	ProductResponse		"Товар изменен"
//	@Success		201		{object}	ProductResponse		"Товар создан"
//	@Failure		400		{object}	ErrorResponse		"Ошибка валидации или неверный пароль"
//	@Failure		404		{object}	ErrorResponse		"Товар не найден"
//	@Failure		500		{object}	ErrorResponse
//	@Router			/products [post]
func (p *ProductHandler) saveProduct(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBodySize)

	var req SaveProductRequest
	if err := decodeJSON(r, &req, false); err != nil {
		p.logger.Warnf("%d: %v", http.StatusBadRequest, err)
		WriteError(w, err)
		return
	}

	res, err := p.catalogUsecase.SaveProduct(r.Context(), req.ToUseCase())
	if err != nil {
		p.logWriteError(err)
		WriteError(w, err)
		return
	}

	status := http.StatusOK
	if res.Created {
		status = http.StatusCreated
	}

	WriteSuccess(w, status, NewProductResponse(res.Product))
}

// deleteProduct
//
//	@Summary		Удаление товара
//	@Description	Удаляет товар по id. Удаление несуществующего товара считается успешным
//	@Tags			products
//	@Accept			json
//	@Produce		json
//	@Param			id					query		int				true	"ID товара"
//	@Param			X-Admin-Password	header		string			false	"Пароль администратора"
//	@Param			request				body		PasswordRequest	false	"Пароль администратора"
//	@Success		200					{object}	DeleteProductResponse
//	@Failure		400					{object}	ErrorResponse	"Неверный пароль"
//	@Failure		500					{object}	ErrorResponse
//	@Router			/products [delete]
func (p *ProductHandler) deleteProduct(w http.ResponseWriter, r *http.Request) {
	idStr := r.URL.Query().Get("id")
	if idStr == "" {
		WriteSuccess(w, http.StatusOK, DeleteProductResponse{Success: false, Status: http.StatusNotFound})
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBodySize)
	password, err := adminPassword(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	// нечисловой id не совпадает ни с одним товаром: 0 никогда не выдается
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		id = 0
	}

	if err := p.catalogUsecase.DeleteProduct(r.Context(), usecase.NewDeleteProductReq(id, password)); err != nil {
		p.logWriteError(err)
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, DeleteProductResponse{Success: true, Status: http.StatusNoContent})
}

// reindex
//
//	@Summary		Пересчет эмбеддингов
//	@Description	Вычисляет эмбеддинги для товаров, у которых их нет
//	@Tags			products
//	@Accept			json
//	@Produce		json
//	@Param			request	body		PasswordRequest	true	"Пароль администратора"
//	@Success		200		{object}	ReindexResponse
//	@Failure		400		{object}	ErrorResponse
//	@Failure		500		{object}	ErrorResponse
//	@Router			/products/reindex [post]
func (p *ProductHandler) reindex(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBodySize)
	password, err := adminPassword(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	res, err := p.catalogUsecase.Reindex(r.Context(), &usecase.ReindexReq{Password: password})
	if err != nil {
		p.logWriteError(err)
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, ReindexResponse{Updated: res.Updated, Total: res.Total})
}

func (p *ProductHandler) logWriteError(err error) {
	code, _ := ToHTTPResponse(err)
	if code >= http.StatusInternalServerError {
		p.logger.Errorf(err, "catalog write failed")
		return
	}
	p.logger.Warnf("%d: %v", code, err)
}
