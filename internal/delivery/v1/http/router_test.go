package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/DRSN-tech/catalog-backend/internal/cfg"
	"github.com/DRSN-tech/catalog-backend/internal/domain"
	"github.com/DRSN-tech/catalog-backend/internal/repository/memory"
	"github.com/DRSN-tech/catalog-backend/internal/usecase"
	"github.com/DRSN-tech/catalog-backend/internal/usecase/mocks"
	"github.com/DRSN-tech/catalog-backend/pkg/logger"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const password = "secret"

type testAPI struct {
	handler  http.Handler
	repo     *memory.CatalogRepo
	embedder *mocks.MockEmbedder
}

func newTestAPI(t *testing.T, initial domain.Catalog, imageUC usecase.ImageUC) *testAPI {
	t.Helper()

	log := logger.NewNopLogger()
	repo := memory.NewCatalogRepo(initial)
	embedder := &mocks.MockEmbedder{}

	uc := usecase.NewCatalogUC(repo, embedder, mocks.StaticPassword(password),
		usecase.NewNoopPublisher(), usecase.NewNoopEmbeddingIndex(),
		&cfg.CatalogCfg{Key: "products", SimilarityThreshold: 0.7}, log)
	require.NoError(t, uc.Init(context.Background()))

	return &testAPI{handler: newHandler(uc, imageUC), repo: repo, embedder: embedder}
}

func newHandler(uc usecase.CatalogUC, imageUC usecase.ImageUC) http.Handler {
	mux := chi.NewRouter()
	NewRouter(mux, &cfg.HTTPConfig{SwaggerURL: "/swagger/doc.json"}, logger.NewNopLogger()).Init(uc, imageUC, 1<<20)
	return mux
}

func (a *testAPI) do(t *testing.T, method, target, body string, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	rec := httptest.NewRecorder()
	a.handler.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestCreateAndGetProduct(t *testing.T) {
	api := newTestAPI(t, nil, nil)
	api.embedder.On("Embed", mock.Anything, "Red Mug").Return(domain.Embedding{1, 0, 0}, nil)

	rec := api.do(t, http.MethodPost, "/api/products",
		`{"product":{"title":"Red Mug","description":"A mug","price":9.99,"image":"/img.png"},"password":"secret"}`, nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	created := decode(t, rec)
	assert.EqualValues(t, 1, created["id"])
	assert.EqualValues(t, 9.99, created["price"])
	assert.NotNil(t, created["embeddings"])

	rec = api.do(t, http.MethodGet, "/api/products?id=1", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	product := decode(t, rec)["product"].(map[string]any)
	assert.Equal(t, "Red Mug", product["title"])
	assert.Equal(t, "A mug", product["description"])
	assert.Equal(t, "/img.png", product["image"])

	rec = api.do(t, http.MethodGet, "/api/products", "", nil)
	assert.Len(t, decode(t, rec)["products"], 1)
}

func TestGetProductUnknownOrInvalidID(t *testing.T) {
	api := newTestAPI(t, domain.Catalog{{ID: 1, Title: "A"}}, nil)

	for _, target := range []string{"/api/products?id=42", "/api/products?id=abc"} {
		rec := api.do(t, http.MethodGet, target, "", nil)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{}`, rec.Body.String())
	}
}

func TestEditProduct(t *testing.T) {
	api := newTestAPI(t, domain.Catalog{{
		ID: 1, Title: "Red Mug", Description: "A mug", Price: decimal.RequireFromString("9.99"),
		Image: "/img.png", Embeddings: domain.Embedding{1, 0, 0},
	}}, nil)

	rec := api.do(t, http.MethodPost, "/api/products",
		`{"product":{"id":1,"title":"Red Mug","description":"A mug","price":"12.50","image":"/img.png"},"password":"secret"}`, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	body := decode(t, rec)
	assert.EqualValues(t, 12.5, body["price"])
	assert.Equal(t, []any{1.0, 0.0, 0.0}, body["embeddings"])
	api.embedder.AssertNotCalled(t, "Embed", mock.Anything, mock.Anything)
}

func TestSaveProductErrors(t *testing.T) {
	api := newTestAPI(t, domain.Catalog{{ID: 1, Title: "A"}}, nil)

	tests := []struct {
		name    string
		body    string
		code    int
		message string
	}{
		{
			name:    "wrong password",
			body:    `{"product":{"title":"B","description":"d","price":1,"image":"/b.png"},"password":"nope"}`,
			code:    http.StatusBadRequest,
			message: "invalid password",
		},
		{
			name:    "legacy body without password",
			body:    `{"title":"B","description":"d","price":1,"image":"/b.png"}`,
			code:    http.StatusBadRequest,
			message: "invalid password",
		},
		{
			name:    "unknown id",
			body:    `{"product":{"id":9,"title":"B","description":"d","price":1,"image":"/b.png"},"password":"secret"}`,
			code:    http.StatusNotFound,
			message: "product not found",
		},
		{
			name:    "malformed json",
			body:    `{"product":`,
			code:    http.StatusBadRequest,
			message: "bad request",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := api.do(t, http.MethodPost, "/api/products", tt.body, nil)
			assert.Equal(t, tt.code, rec.Code)
			assert.Equal(t, tt.message, decode(t, rec)["message"])
		})
	}

	assert.Equal(t, 0, api.repo.Saves())
}

func TestSaveProductValidationErrors(t *testing.T) {
	api := newTestAPI(t, nil, nil)

	rec := api.do(t, http.MethodPost, "/api/products",
		`{"product":{"title":"","description":"d","price":0,"image":""},"password":"secret"}`, nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	body := decode(t, rec)
	assert.Equal(t, "validation failed", body["message"])
	assert.Equal(t, map[string]any{
		"title": "title is required",
		"price": "price is required",
		"image": "image is required",
	}, body["errors"])
}

func TestSaveProductPersistenceFailure(t *testing.T) {
	repo := &mocks.MockCatalogRepository{}
	repo.On("Load", mock.Anything).Return(domain.Catalog{}, nil)
	repo.On("Save", mock.Anything, mock.Anything).Return(errors.New("connection reset"))

	uc := usecase.NewCatalogUC(repo, usecase.NewDisabledEmbedder(), mocks.StaticPassword(password),
		usecase.NewNoopPublisher(), usecase.NewNoopEmbeddingIndex(),
		&cfg.CatalogCfg{Key: "products", SimilarityThreshold: 0.7}, logger.NewNopLogger())
	require.NoError(t, uc.Init(context.Background()))

	req := httptest.NewRequest(http.MethodPost, "/api/products",
		strings.NewReader(`{"product":{"title":"B","description":"d","price":1,"image":"/b.png"},"password":"secret"}`))
	rec := httptest.NewRecorder()
	newHandler(uc, nil).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestSearch(t *testing.T) {
	api := newTestAPI(t, domain.Catalog{
		{ID: 1, Title: "Red Mug", Embeddings: domain.Embedding{1, 0}},
		{ID: 2, Title: "Teapot", Embeddings: domain.Embedding{0, 1}},
		{ID: 3, Title: "Plate"},
	}, nil)
	api.embedder.On("Embed", mock.Anything, "coffee").Return(domain.Embedding{1, 0}, nil)

	rec := api.do(t, http.MethodGet, "/api/products?search=red", "", nil)
	body := decode(t, rec)
	assert.Len(t, body["products"], 1)
	assert.NotContains(t, body, "similarities")

	rec = api.do(t, http.MethodGet, "/api/products?search=coffee&useSemanticSearch=true", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body = decode(t, rec)
	products := body["products"].([]any)
	require.Len(t, products, 1)
	assert.Equal(t, "Red Mug", products[0].(map[string]any)["title"])

	similarities := body["similarities"].(map[string]any)
	assert.InDelta(t, 1.0, similarities["Red Mug"], 1e-9)
	assert.InDelta(t, 0.0, similarities["Teapot"], 1e-9)
	assert.Contains(t, similarities, "Plate")
	assert.Nil(t, similarities["Plate"])

	rec = api.do(t, http.MethodGet, "/api/products?search=%20%20&useSemanticSearch=true", "", nil)
	assert.Len(t, decode(t, rec)["products"], 3)
}

func TestDeleteProduct(t *testing.T) {
	api := newTestAPI(t, domain.Catalog{{ID: 1, Title: "A"}, {ID: 2, Title: "B"}}, nil)

	rec := api.do(t, http.MethodDelete, "/api/products", "", nil)
	assert.JSONEq(t, `{"success":false,"status":404}`, rec.Body.String())

	rec = api.do(t, http.MethodDelete, "/api/products?id=1", "", map[string]string{adminPasswordHeader: "nope"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = api.do(t, http.MethodDelete, "/api/products?id=1", "", map[string]string{adminPasswordHeader: password})
	assert.JSONEq(t, `{"success":true,"status":204}`, rec.Body.String())

	rec = api.do(t, http.MethodDelete, "/api/products?id=99", `{"password":"secret"}`, nil)
	assert.JSONEq(t, `{"success":true,"status":204}`, rec.Body.String())

	rec = api.do(t, http.MethodGet, "/api/products", "", nil)
	products := decode(t, rec)["products"].([]any)
	require.Len(t, products, 1)
	assert.EqualValues(t, 2, products[0].(map[string]any)["id"])
	assert.Equal(t, 1, api.repo.Saves())
}

func TestReindex(t *testing.T) {
	api := newTestAPI(t, domain.Catalog{{ID: 1, Title: "Red Mug"}}, nil)
	api.embedder.On("Embed", mock.Anything, "Red Mug").Return(domain.Embedding{1, 0}, nil)

	rec := api.do(t, http.MethodPost, "/api/products/reindex", `{"password":"secret"}`, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"updated":1,"total":1}`, rec.Body.String())
}

func TestUploadImage(t *testing.T) {
	imageUC := &mockImageUC{}
	api := newTestAPI(t, nil, imageUC)
	imageUC.On("UploadImage", mock.Anything, mock.MatchedBy(func(req *usecase.UploadImageReq) bool {
		return req.Password == password && req.MimeType == "image/png" && req.Name == "mug.png"
	})).Return(usecase.NewUploadImageRes("products/a.png", "http://cdn/products/a.png"), nil)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("password", password))
	fw, err := mw.CreateFormFile("image", "mug.png")
	require.NoError(t, err)
	_, err = fw.Write([]byte("\x89PNG\r\n\x1a\n0000"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/images", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	api.handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.JSONEq(t, `{"image":"http://cdn/products/a.png","key":"products/a.png"}`, rec.Body.String())
}

func TestUploadImageDisabledAndBadRequests(t *testing.T) {
	api := newTestAPI(t, nil, nil)
	rec := api.do(t, http.MethodPost, "/api/images", `{}`, nil)
	assert.Equal(t, http.StatusNotImplemented, rec.Code)

	api = newTestAPI(t, nil, &mockImageUC{})
	rec = api.do(t, http.MethodPost, "/api/images", `{}`, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "expected multipart/form-data", decode(t, rec)["message"])
}

func TestHealthz(t *testing.T) {
	api := newTestAPI(t, nil, nil)
	rec := api.do(t, http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

type mockImageUC struct {
	mock.Mock
}

func (m *mockImageUC) UploadImage(ctx context.Context, req *usecase.UploadImageReq) (*usecase.UploadImageRes, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.UploadImageRes), args.Error(1)
}
