package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/probagno/go-backend/internal/usecase"
	"github.com/probagno/go-backend/pkg/e"
	"github.com/probagno/go-backend/pkg/logger"
)

type ProductHandler struct {
	catalog usecase.CatalogUC
	builder usecase.ProductBuilder
	logger  logger.Logger
}

func NewProductHandler(catalog usecase.CatalogUC, builder usecase.ProductBuilder, logger logger.Logger) *ProductHandler {
	return &ProductHandler{catalog: catalog, builder: builder, logger: logger}
}

// listProducts
//
//	@Summary		Список товаров
//	@Description	Фильтр каталога: поиск, категории, диапазон цен, сортировка
//	@Tags			products
//	@Produce		json
//	@Param			q			query		string		false	"Поиск по названию и описанию"
//	@Param			category	query		[]string	false	"Slug категории (можно повторять)"
//	@Param			minPrice	query		number		false	"Минимальная цена"
//	@Param			maxPrice	query		number		false	"Максимальная цена"
//	@Param			sort		query		string		false	"featured | price-asc | price-desc | name"
//	@Success		200			{array}		domain.Product
//	@Failure		400			{object}	ErrorResponse	"Некорректная цена"
//	@Router			/products [get]
func (p *ProductHandler) listProducts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	minPrice, err := parsePrice(q.Get("minPrice"))
	if err != nil {
		p.logger.Warnf("%d %s: minPrice=%q", http.StatusBadRequest, err.Error(), q.Get("minPrice"))
		WriteError(w, err)
		return
	}

	maxPrice, err := parsePrice(q.Get("maxPrice"))
	if err != nil {
		p.logger.Warnf("%d %s: maxPrice=%q", http.StatusBadRequest, err.Error(), q.Get("maxPrice"))
		WriteError(w, err)
		return
	}

	products := p.catalog.QueryProducts(usecase.ProductFilter{
		Search:     q.Get("q"),
		Categories: q["category"],
		MinPrice:   minPrice,
		MaxPrice:   maxPrice,
		Sort:       usecase.ProductSort(q.Get("sort")),
	})

	WriteSuccess(w, http.StatusOK, products)
}

// getFeatured
//
//	@Summary	Рекомендуемые товары
//	@Tags		products
//	@Produce	json
//	@Success	200	{array}	domain.Product
//	@Router		/products/featured [get]
func (p *ProductHandler) getFeatured(w http.ResponseWriter, r *http.Request) {
	WriteSuccess(w, http.StatusOK, p.catalog.GetFeaturedProducts())
}

// getBestSellers
//
//	@Summary	Хиты продаж
//	@Tags		products
//	@Produce	json
//	@Success	200	{array}	domain.Product
//	@Router		/products/bestsellers [get]
func (p *ProductHandler) getBestSellers(w http.ResponseWriter, r *http.Request) {
	WriteSuccess(w, http.StatusOK, p.catalog.GetBestSellers())
}

// getProduct
//
//	@Summary	Товар по идентификатору
//	@Tags		products
//	@Produce	json
//	@Param		id	path		string	true	"ID товара"
//	@Success	200	{object}	domain.Product
//	@Failure	404	{object}	ErrorResponse
//	@Router		/products/{id} [get]
func (p *ProductHandler) getProduct(w http.ResponseWriter, r *http.Request) {
	product, ok := p.catalog.GetProductByID(chi.URLParam(r, "id"))
	if !ok {
		WriteError(w, e.ErrProductNotFound)
		return
	}

	WriteSuccess(w, http.StatusOK, product)
}

// getProductBySlug
//
//	@Summary	Товар по slug
//	@Tags		products
//	@Produce	json
//	@Param		slug	path		string	true	"Slug товара"
//	@Success	200		{object}	domain.Product
//	@Failure	404		{object}	ErrorResponse
//	@Router		/products/slug/{slug} [get]
func (p *ProductHandler) getProductBySlug(w http.ResponseWriter, r *http.Request) {
	product, ok := p.catalog.GetProductBySlug(chi.URLParam(r, "slug"))
	if !ok {
		WriteError(w, e.ErrProductNotFound)
		return
	}

	WriteSuccess(w, http.StatusOK, product)
}

// createProduct
//
//	@Summary		Создание товара
//	@Description	Генерирует id и slug, подставляет вариант размера по умолчанию
//	@Tags			admin
//	@Accept			json
//	@Produce		json
//	@Param			product	body		usecase.NewProductReq	true	"Товар"
//	@Success		201		{object}	domain.Product
//	@Failure		400		{object}	ErrorResponse	"Ошибка валидации"
//	@Failure		409		{object}	ErrorResponse	"Slug занят"
//	@Router			/admin/products [post]
func (p *ProductHandler) createProduct(w http.ResponseWriter, r *http.Request) {
	var req usecase.NewProductReq
	if err := decodeJSON(w, r, &req); err != nil {
		p.logger.Warnf("%d %s", http.StatusBadRequest, err.Error())
		WriteError(w, err)
		return
	}

	product, err := p.builder.Build(&req)
	if err != nil {
		p.logger.Warnf("%d %s", http.StatusBadRequest, err.Error())
		WriteError(w, err)
		return
	}

	if !p.catalog.AddProductIfSlugFree(r.Context(), product) {
		p.logger.Warnf("%d %s: %s", http.StatusConflict, e.ErrSlugTaken.Error(), product.Slug)
		WriteError(w, e.ErrSlugTaken)
		return
	}
	p.logger.Infof("Product created: id=%s, slug=%s", product.ID, product.Slug)

	WriteSuccess(w, http.StatusCreated, product)
}

// updateProduct
//
//	@Summary	Частичное обновление товара
//	@Tags		admin
//	@Accept		json
//	@Produce	json
//	@Param		id		path		string					true	"ID товара"
//	@Param		patch	body		usecase.ProductPatch	true	"Изменяемые поля"
//	@Success	200		{object}	domain.Product
//	@Failure	400		{object}	ErrorResponse
//	@Failure	404		{object}	ErrorResponse
//	@Failure	409		{object}	ErrorResponse
//	@Router		/admin/products/{id} [patch]
func (p *ProductHandler) updateProduct(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var patch usecase.ProductPatch
	if err := decodeJSON(w, r, &patch); err != nil {
		p.logger.Warnf("%d %s", http.StatusBadRequest, err.Error())
		WriteError(w, err)
		return
	}

	if err := p.builder.PrepareProductPatch(&patch); err != nil {
		p.logger.Warnf("%d %s", http.StatusBadRequest, err.Error())
		WriteError(w, err)
		return
	}

	if patch.Slug != nil {
		if other, taken := p.catalog.GetProductBySlug(*patch.Slug); taken && other.ID != id {
			WriteError(w, e.ErrSlugTaken)
			return
		}
	}

	product, ok := p.catalog.UpdateProduct(r.Context(), id, patch)
	if !ok {
		WriteError(w, e.ErrProductNotFound)
		return
	}

	WriteSuccess(w, http.StatusOK, product)
}

// deleteProduct
//
//	@Summary	Удаление товара
//	@Tags		admin
//	@Param		id	path	string	true	"ID товара"
//	@Success	204
//	@Failure	404	{object}	ErrorResponse
//	@Router		/admin/products/{id} [delete]
func (p *ProductHandler) deleteProduct(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !p.catalog.DeleteProduct(r.Context(), id) {
		WriteError(w, e.ErrProductNotFound)
		return
	}

	p.logger.Infof("Product deleted: id=%s", id)
	w.WriteHeader(http.StatusNoContent)
}

