package usecase

import (
	"fmt"
	"strings"
	"time"

	"github.com/probagno/go-backend/internal/domain"
	"github.com/probagno/go-backend/pkg/e"
	"github.com/probagno/go-backend/pkg/validator"
	"github.com/shopspring/decimal"
)

const (
	DefaultCategory = "cabinet"

	defaultDimensionID = "dim-1"
	defaultWidth       = 60
	defaultHeight      = 45
	defaultDepth       = 40
)

// ProductFactory собирает полностью заполненные товары и категории из запросов администратора.
type ProductFactory struct {
	ids IDGenerator
	now func() time.Time
}

func NewProductFactory(ids IDGenerator, clock func() time.Time) *ProductFactory {
	if clock == nil {
		clock = time.Now
	}
	return &ProductFactory{ids: ids, now: clock}
}

// Build валидирует запрос и возвращает товар с новым id, slug и отметками времени.
func (f *ProductFactory) Build(req *NewProductReq) (domain.Product, error) {
	const op = "ProductFactory.Build"

	req.Name = strings.TrimSpace(req.Name)
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		return domain.Product{}, e.Wrap(op, fmt.Errorf("%w: %s", e.ErrValidation, validator.Summary(errs)))
	}
	if err := checkPrecision(req); err != nil {
		return domain.Product{}, e.Wrap(op, err)
	}

	id := f.ids.ProductID()
	now := f.now().UTC()

	slug := Slugify(req.Slug)
	if slug == "" {
		slug = Slugify(req.Name)
	}
	if slug == "" {
		slug = id
	}

	category := req.Category
	if category == "" {
		category = DefaultCategory
	}

	inStock := true
	if req.InStock != nil {
		inStock = *req.InStock
	}

	p := domain.Product{
		ID:            id,
		Slug:          slug,
		Name:          req.Name,
		NameEn:        req.NameEn,
		Description:   req.Description,
		DescriptionEn: req.DescriptionEn,
		Category:      category,
		BasePrice:     req.BasePrice,
		Images:        nonNil(req.Images),
		Dimensions:    f.buildDimensions(req),
		Materials:     nonNil(req.Materials),
		Colors:        nonNil(req.Colors),
		Features:      nonNil(req.Features),
		InStock:       inStock,
		Featured:      req.Featured,
		BestSeller:    req.BestSeller,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if req.SalePrice != nil {
		sp := *req.SalePrice
		p.SalePrice = &sp
	}

	return p, nil
}

// BuildCategory валидирует запрос и возвращает категорию. Пустые id и slug генерируются.
func (f *ProductFactory) BuildCategory(req *NewCategoryReq) (domain.Category, error) {
	const op = "ProductFactory.BuildCategory"

	req.Name = strings.TrimSpace(req.Name)
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		return domain.Category{}, e.Wrap(op, fmt.Errorf("%w: %s", e.ErrValidation, validator.Summary(errs)))
	}

	id := strings.TrimSpace(req.ID)
	if id == "" {
		id = f.ids.CategoryID()
	}

	slug := Slugify(req.Slug)
	if slug == "" {
		slug = Slugify(req.Name)
	}
	if slug == "" {
		slug = id
	}

	return domain.Category{
		ID:           id,
		Slug:         slug,
		Name:         req.Name,
		NameEn:       req.NameEn,
		ProductCount: req.ProductCount,
	}, nil
}

// buildDimensions подставляет вариант по умолчанию, если размеры не заданы.
func (f *ProductFactory) buildDimensions(req *NewProductReq) []domain.Dimension {
	if len(req.Dimensions) == 0 {
		return []domain.Dimension{{
			ID:     defaultDimensionID,
			Width:  defaultWidth,
			Height: defaultHeight,
			Depth:  defaultDepth,
			Price:  req.BasePrice,
		}}
	}

	out := make([]domain.Dimension, 0, len(req.Dimensions))
	for _, d := range req.Dimensions {
		if d.ID == "" {
			d.ID = f.ids.DimensionID()
		}
		out = append(out, d.toDomain())
	}
	return out
}

// PrepareProductPatch валидирует патч и приводит его к виду, который можно сохранить:
// slug нормализуется, вариантам без id выдаются новые.
func (f *ProductFactory) PrepareProductPatch(patch *ProductPatch) error {
	const op = "ProductFactory.PrepareProductPatch"

	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		patch.Name = &name
	}
	if errs := validator.ValidateStruct(patch); len(errs) > 0 {
		return e.Wrap(op, fmt.Errorf("%w: %s", e.ErrValidation, validator.Summary(errs)))
	}

	var dims []NewDimensionReq
	if patch.Dimensions != nil {
		dims = *patch.Dimensions
	}
	if err := checkPrices(patch.BasePrice, patch.SalePrice, dims); err != nil {
		return e.Wrap(op, err)
	}

	if patch.Slug != nil {
		slug, err := normalizeSlug(*patch.Slug)
		if err != nil {
			return e.Wrap(op, err)
		}
		patch.Slug = &slug
	}

	for i := range dims {
		if dims[i].ID == "" {
			dims[i].ID = f.ids.DimensionID()
		}
	}
	return nil
}

// PrepareCategoryPatch валидирует патч категории и нормализует slug.
func (f *ProductFactory) PrepareCategoryPatch(patch *CategoryPatch) error {
	const op = "ProductFactory.PrepareCategoryPatch"

	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		patch.Name = &name
	}
	if errs := validator.ValidateStruct(patch); len(errs) > 0 {
		return e.Wrap(op, fmt.Errorf("%w: %s", e.ErrValidation, validator.Summary(errs)))
	}

	if patch.Slug != nil {
		slug, err := normalizeSlug(*patch.Slug)
		if err != nil {
			return e.Wrap(op, err)
		}
		patch.Slug = &slug
	}
	return nil
}

// normalizeSlug: явно заданный slug, из которого ничего не осталось, считается ошибкой.
func normalizeSlug(raw string) (string, error) {
	slug := Slugify(raw)
	if slug == "" {
		return "", fmt.Errorf("%w: slug %q has no url-safe characters", e.ErrValidation, raw)
	}
	return slug, nil
}

func checkPrecision(req *NewProductReq) error {
	return checkPrices(&req.BasePrice, req.SalePrice, req.Dimensions)
}

// checkPrices: цены неотрицательны и хранятся с точностью до центов. nil пропускается.
func checkPrices(base, sale *decimal.Decimal, dims []NewDimensionReq) error {
	prices := make([]decimal.Decimal, 0, len(dims)+2)
	if base != nil {
		prices = append(prices, *base)
	}
	if sale != nil {
		prices = append(prices, *sale)
	}
	for _, d := range dims {
		prices = append(prices, d.Price)
	}

	for _, p := range prices {
		if p.IsNegative() {
			return e.ErrInvalidPrice
		}
		if !p.Equal(p.Round(2)) {
			return e.ErrPricePrecision
		}
	}
	return nil
}
