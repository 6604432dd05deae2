package http

import (
	"net/http"
	"time"

	_ "github.com/DRSN-tech/catalog-backend/docs" // регистрация swagger-спецификации
	"github.com/DRSN-tech/catalog-backend/internal/cfg"
	"github.com/DRSN-tech/catalog-backend/internal/usecase"
	"github.com/DRSN-tech/catalog-backend/pkg/logger"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger/v2"
)

type Router struct {
	router *chi.Mux
	cfg    *cfg.HTTPConfig
	logger logger.Logger
}

func NewRouter(router *chi.Mux, cfg *cfg.HTTPConfig, logger logger.Logger) *Router {
	return &Router{router: router, cfg: cfg, logger: logger}
}

// Init регистрирует middleware и маршруты. imageUC == nil отключает загрузку изображений.
func (r *Router) Init(catalogUC usecase.CatalogUC, imageUC usecase.ImageUC, maxImageSize int64) {
	r.router.Use(middleware.RequestID)
	r.router.Use(middleware.RealIP)
	r.router.Use(requestLogger(r.logger))
	r.router.Use(middleware.Recoverer)
	if r.cfg.RequestTimeout > 0 {
		r.router.Use(middleware.Timeout(r.cfg.RequestTimeout))
	}

	r.router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		WriteSuccess(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.router.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL(r.cfg.SwaggerURL),
	))

	r.router.Route("/api", func(api chi.Router) {
		prHandler := NewProductHandler(catalogUC, r.logger)
		registerProductRoutes(api, prHandler)

		imgHandler := NewImageHandler(imageUC, maxImageSize, r.logger)
		api.Post("/images", imgHandler.uploadImage)
	})
}

func registerProductRoutes(router chi.Router, prHandler *ProductHandler) {
	router.Route("/products", func(pr chi.Router) {
		pr.Get("/", prHandler.getProducts)
		pr.Post("/", prHandler.saveProduct)
		pr.Delete("/", prHandler.deleteProduct)
		pr.Post("/reindex", prHandler.reindex)
	})
}

// requestLogger пишет в лог метод, путь, статус, размер ответа и длительность запроса.
func requestLogger(log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()

			defer func() {
				log.Infof("%s %s %d %dB %s request_id=%s",
					r.Method, r.URL.Path, ww.Status(), ww.BytesWritten(),
					time.Since(start), middleware.GetReqID(r.Context()))
			}()

			next.ServeHTTP(ww, r)
		})
	}
}
