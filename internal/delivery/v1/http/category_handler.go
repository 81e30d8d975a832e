package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/probagno/go-backend/internal/domain"
	"github.com/probagno/go-backend/internal/usecase"
	"github.com/probagno/go-backend/pkg/e"
	"github.com/probagno/go-backend/pkg/logger"
)

// categoryProducts — ответ со списком товаров категории.
type categoryProducts struct {
	Category domain.Category  `json:"category"`
	Products []domain.Product `json:"products"`
}

type CategoryHandler struct {
	catalog usecase.CatalogUC
	builder usecase.ProductBuilder
	logger  logger.Logger
}

func NewCategoryHandler(catalog usecase.CatalogUC, builder usecase.ProductBuilder, logger logger.Logger) *CategoryHandler {
	return &CategoryHandler{catalog: catalog, builder: builder, logger: logger}
}

// listCategories
//
//	@Summary	Список категорий
//	@Tags		categories
//	@Produce	json
//	@Success	200	{array}	domain.Category
//	@Router		/categories [get]
func (c *CategoryHandler) listCategories(w http.ResponseWriter, r *http.Request) {
	WriteSuccess(w, http.StatusOK, c.catalog.ListCategories())
}

// listCategoryProducts
//
//	@Summary		Товары категории
//	@Description	Неизвестная категория отдаёт 404; товары с висячей ссылкой на категорию не теряются
//	@Tags			categories
//	@Produce		json
//	@Param			slug	path		string	true	"Slug категории"
//	@Success		200		{object}	categoryProducts
//	@Failure		404		{object}	ErrorResponse
//	@Router			/categories/{slug}/products [get]
func (c *CategoryHandler) listCategoryProducts(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	category, ok := c.catalog.GetCategoryBySlug(slug)
	if !ok {
		WriteError(w, e.ErrCategoryNotFound)
		return
	}

	WriteSuccess(w, http.StatusOK, categoryProducts{
		Category: category,
		Products: c.catalog.GetProductsByCategory(slug),
	})
}

// createCategory
//
//	@Summary	Создание категории
//	@Tags		admin
//	@Accept		json
//	@Produce	json
//	@Param		category	body		usecase.NewCategoryReq	true	"Категория"
//	@Success	201			{object}	domain.Category
//	@Failure	400			{object}	ErrorResponse
//	@Failure	409			{object}	ErrorResponse
//	@Router		/admin/categories [post]
func (c *CategoryHandler) createCategory(w http.ResponseWriter, r *http.Request) {
	var req usecase.NewCategoryReq
	if err := decodeJSON(w, r, &req); err != nil {
		c.logger.Warnf("%d %s", http.StatusBadRequest, err.Error())
		WriteError(w, err)
		return
	}

	category, err := c.builder.BuildCategory(&req)
	if err != nil {
		c.logger.Warnf("%d %s", http.StatusBadRequest, err.Error())
		WriteError(w, err)
		return
	}

	if !c.catalog.AddCategoryIfFree(r.Context(), category) {
		c.logger.Warnf("%d %s: id=%s, slug=%s", http.StatusConflict, e.ErrCategoryExists.Error(), category.ID, category.Slug)
		WriteError(w, e.ErrCategoryExists)
		return
	}
	c.logger.Infof("Category created: id=%s, slug=%s", category.ID, category.Slug)

	WriteSuccess(w, http.StatusCreated, category)
}

// updateCategory
//
//	@Summary	Частичное обновление категории
//	@Tags		admin
//	@Accept		json
//	@Produce	json
//	@Param		id		path		string					true	"ID категории"
//	@Param		patch	body		usecase.CategoryPatch	true	"Изменяемые поля"
//	@Success	200		{object}	domain.Category
//	@Failure	404		{object}	ErrorResponse
//	@Router		/admin/categories/{id} [patch]
func (c *CategoryHandler) updateCategory(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var patch usecase.CategoryPatch
	if err := decodeJSON(w, r, &patch); err != nil {
		c.logger.Warnf("%d %s", http.StatusBadRequest, err.Error())
		WriteError(w, err)
		return
	}

	if err := c.builder.PrepareCategoryPatch(&patch); err != nil {
		c.logger.Warnf("%d %s", http.StatusBadRequest, err.Error())
		WriteError(w, err)
		return
	}

	if patch.Slug != nil {
		if other, taken := c.catalog.GetCategoryBySlug(*patch.Slug); taken && other.ID != id {
			WriteError(w, e.ErrSlugTaken)
			return
		}
	}

	category, ok := c.catalog.UpdateCategory(r.Context(), id, patch)
	if !ok {
		WriteError(w, e.ErrCategoryNotFound)
		return
	}

	WriteSuccess(w, http.StatusOK, category)
}

// deleteCategory
//
//	@Summary		Удаление категории
//	@Description	Товары категории не удаляются
//	@Tags			admin
//	@Param			id	path	string	true	"ID категории"
//	@Success		204
//	@Failure		404	{object}	ErrorResponse
//	@Router			/admin/categories/{id} [delete]
func (c *CategoryHandler) deleteCategory(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !c.catalog.DeleteCategory(r.Context(), id) {
		WriteError(w, e.ErrCategoryNotFound)
		return
	}

	c.logger.Infof("Category deleted: id=%s", id)
	w.WriteHeader(http.StatusNoContent)
}
