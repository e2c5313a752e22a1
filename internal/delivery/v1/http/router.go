package http

import (
	"net/http"
	"time"

	_ "github.com/DRSN-tech/inventory-backend/docs" // регистрация swagger-спецификации
	"github.com/DRSN-tech/inventory-backend/internal/usecase"
	"github.com/DRSN-tech/inventory-backend/pkg/logger"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger/v2"
)

type Router struct {
	router     *chi.Mux
	logger     logger.Logger
	swaggerURL string
}

func NewRouter(router *chi.Mux, logger logger.Logger, swaggerURL string) *Router {
	return &Router{router: router, logger: logger, swaggerURL: swaggerURL}
}

func (r *Router) Init(prUC usecase.ProductUC) {
	r.router.Use(middleware.RequestID)
	r.router.Use(middleware.Recoverer)
	r.router.Use(requestLogger(r.logger))

	r.router.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL(r.swaggerURL),
	))

	r.router.Route("/api/v1", func(v1 chi.Router) {
		prHandler := NewProductHandler(prUC, r.logger)
		registerProductRoutes(v1, prHandler)
	})
}

func registerProductRoutes(router chi.Router, prHandler *ProductHandler) {
	router.Get("/categories", prHandler.listCategories)

	router.Route("/products", func(pr chi.Router) {
		pr.Get("/", prHandler.listProducts)
		pr.Post("/", prHandler.createProduct)
		pr.Post("/export", prHandler.exportCatalog)

		pr.Route("/{id}", func(item chi.Router) {
			item.Get("/", prHandler.getProduct)
			item.Put("/", prHandler.replaceProduct)
			item.Patch("/", prHandler.patchProduct)
			item.Delete("/", prHandler.deleteProduct)
			item.Post("/archive", prHandler.archiveProduct)
			item.Post("/restore", prHandler.restoreProduct)
		})
	})
}

func requestLogger(logger logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()

			next.ServeHTTP(ww, r)

			logger.Debugf("%s %s status=%d duration=%s request_id=%s",
				r.Method, r.URL.Path, ww.Status(), time.Since(start), middleware.GetReqID(r.Context()))
		})
	}
}
