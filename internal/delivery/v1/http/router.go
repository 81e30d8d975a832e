package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/probagno/go-backend/internal/usecase"
	"github.com/probagno/go-backend/pkg/logger"
)

type Router struct {
	router *chi.Mux
	logger logger.Logger
}

// UseCases — зависимости HTTP-слоя.
type UseCases struct {
	Catalog  usecase.CatalogUC
	Builder  usecase.ProductBuilder
	Messages usecase.MessageUC
	Backup   usecase.BackupUC
}

func NewRouter(router *chi.Mux, logger logger.Logger) *Router {
	return &Router{router: router, logger: logger}
}

func (r *Router) Init(uc UseCases) {
	r.router.Use(middleware.RequestID)
	r.router.Use(middleware.RealIP)
	r.router.Use(r.requestLogger)
	r.router.Use(middleware.Recoverer)

	r.router.Route("/api/v1", func(v1 chi.Router) {
		prHandler := NewProductHandler(uc.Catalog, uc.Builder, r.logger)
		catHandler := NewCategoryHandler(uc.Catalog, uc.Builder, r.logger)
		adminHandler := NewCatalogAdminHandler(uc.Catalog, uc.Backup, r.logger)
		msgHandler := NewMessageHandler(uc.Messages, r.logger)

		registerProductRoutes(v1, prHandler)
		registerCategoryRoutes(v1, catHandler)
		v1.Post("/contact", msgHandler.submitMessage)

		v1.Route("/admin", func(admin chi.Router) {
			registerAdminRoutes(admin, prHandler, catHandler, adminHandler, msgHandler)
		})
	})
}

func registerProductRoutes(router chi.Router, prHandler *ProductHandler) {
	router.Route("/products", func(pr chi.Router) {
		pr.Get("/", prHandler.listProducts)
		pr.Get("/featured", prHandler.getFeatured)
		pr.Get("/bestsellers", prHandler.getBestSellers)
		pr.Get("/slug/{slug}", prHandler.getProductBySlug)
		pr.Get("/{id}", prHandler.getProduct)
	})
}

func registerCategoryRoutes(router chi.Router, catHandler *CategoryHandler) {
	router.Route("/categories", func(cat chi.Router) {
		cat.Get("/", catHandler.listCategories)
		cat.Get("/{slug}/products", catHandler.listCategoryProducts)
	})
}

func registerAdminRoutes(
	router chi.Router,
	prHandler *ProductHandler,
	catHandler *CategoryHandler,
	adminHandler *CatalogAdminHandler,
	msgHandler *MessageHandler,
) {
	router.Route("/products", func(pr chi.Router) {
		pr.Post("/", prHandler.createProduct)
		pr.Patch("/{id}", prHandler.updateProduct)
		pr.Delete("/{id}", prHandler.deleteProduct)
	})

	router.Route("/categories", func(cat chi.Router) {
		cat.Post("/", catHandler.createCategory)
		cat.Patch("/{id}", catHandler.updateCategory)
		cat.Delete("/{id}", catHandler.deleteCategory)
	})

	router.Route("/catalog", func(c chi.Router) {
		c.Post("/reset", adminHandler.resetCatalog)
		c.Post("/sync", adminHandler.syncCatalog)
		c.Post("/backup", adminHandler.backupCatalog)
	})

	router.Route("/messages", func(m chi.Router) {
		m.Get("/", msgHandler.listMessages)
		m.Patch("/{id}/read", msgHandler.markMessageRead)
		m.Delete("/{id}", msgHandler.deleteMessage)
	})
}

// requestLogger пишет в лог метод, путь, статус и длительность запроса.
func (r *Router) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, req.ProtoMajor)
		start := time.Now()

		next.ServeHTTP(ww, req)

		r.logger.Debugf("%s %s %d %s request_id=%s",
			req.Method, req.URL.Path, ww.Status(), time.Since(start), middleware.GetReqID(req.Context()))
	})
}
