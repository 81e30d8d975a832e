package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// Цены уходят во фронтенд числами, а не строками
	decimal.MarshalJSONWithoutQuotes = true
}

// Product описывает товар каталога (мебель, раковины, зеркала и т.д.)
type Product struct {
	ID            string           `json:"id"`
	Slug          string           `json:"slug"`
	Name          string           `json:"name"`
	NameEn        string           `json:"nameEn"`
	Description   string           `json:"description"`
	DescriptionEn string           `json:"descriptionEn"`
	Category      string           `json:"category"` // slug категории, ссылка не проверяется
	BasePrice     decimal.Decimal  `json:"basePrice"`
	SalePrice     *decimal.Decimal `json:"salePrice,omitempty"`
	Images        []ProductImage   `json:"images"`
	Dimensions    []Dimension      `json:"dimensions"`
	Materials     []string         `json:"materials"`
	Colors        []string         `json:"colors"`
	Features      []string         `json:"features"`
	InStock       bool             `json:"inStock"`
	Featured      bool             `json:"featured"`
	BestSeller    bool             `json:"bestSeller"`
	CreatedAt     time.Time        `json:"createdAt"`
	UpdatedAt     time.Time        `json:"updatedAt"`
}

// ProductImage — изображение товара.
type ProductImage struct {
	URL string `json:"url"`
	Alt string `json:"alt,omitempty"`
}

// Dimension — вариант размера со своей ценой и артикулом.
type Dimension struct {
	ID     string          `json:"id"`
	Width  int             `json:"width"`
	Height int             `json:"height"`
	Depth  int             `json:"depth"`
	Price  decimal.Decimal `json:"price"`
	SKU    string          `json:"sku"`
}

// EffectivePrice возвращает цену со скидкой, если она задана и положительна.
func (p *Product) EffectivePrice() decimal.Decimal {
	if p.SalePrice != nil && p.SalePrice.IsPositive() {
		return *p.SalePrice
	}
	return p.BasePrice
}

// OnSale: цена со скидкой задана и ниже базовой.
func (p *Product) OnSale() bool {
	return p.SalePrice != nil && p.SalePrice.LessThan(p.BasePrice)
}

// Clone возвращает глубокую копию товара.
func (p Product) Clone() Product {
	out := p
	if p.SalePrice != nil {
		sp := *p.SalePrice
		out.SalePrice = &sp
	}
	out.Images = cloneSlice(p.Images)
	out.Dimensions = cloneSlice(p.Dimensions)
	out.Materials = cloneSlice(p.Materials)
	out.Colors = cloneSlice(p.Colors)
	out.Features = cloneSlice(p.Features)
	return out
}

func cloneSlice[T any](in []T) []T {
	if in == nil {
		return nil
	}
	out := make([]T, len(in))
	copy(out, in)
	return out
}
