package usecase

import (
	"time"

	"github.com/probagno/go-backend/internal/domain"
	"github.com/shopspring/decimal"
)

// ProductPatch — частичное обновление товара. nil означает «поле не меняется».
// id и createdAt не редактируются, updatedAt выставляет хранилище.
type ProductPatch struct {
	Slug           *string                `json:"slug,omitempty" validate:"omitempty,min=1"`
	Name           *string                `json:"name,omitempty" validate:"omitempty,min=1"`
	NameEn         *string                `json:"nameEn,omitempty"`
	Description    *string                `json:"description,omitempty"`
	DescriptionEn  *string                `json:"descriptionEn,omitempty"`
	Category       *string                `json:"category,omitempty"`
	BasePrice      *decimal.Decimal       `json:"basePrice,omitempty" validate:"omitempty,gte=0"`
	SalePrice      *decimal.Decimal       `json:"salePrice,omitempty" validate:"omitempty,gte=0"`
	ClearSalePrice bool                   `json:"clearSalePrice,omitempty"`
	Images         *[]domain.ProductImage `json:"images,omitempty"`
	Dimensions     *[]NewDimensionReq     `json:"dimensions,omitempty" validate:"omitempty,min=1,dive"`
	Materials      *[]string              `json:"materials,omitempty"`
	Colors         *[]string              `json:"colors,omitempty"`
	Features       *[]string              `json:"features,omitempty"`
	InStock        *bool                  `json:"inStock,omitempty"`
	Featured       *bool                  `json:"featured,omitempty"`
	BestSeller     *bool                  `json:"bestSeller,omitempty"`
}

// Apply переносит заданные поля патча в товар.
func (p *ProductPatch) Apply(dst *domain.Product) {
	setIf(&dst.Slug, p.Slug)
	setIf(&dst.Name, p.Name)
	setIf(&dst.NameEn, p.NameEn)
	setIf(&dst.Description, p.Description)
	setIf(&dst.DescriptionEn, p.DescriptionEn)
	setIf(&dst.Category, p.Category)
	setIf(&dst.BasePrice, p.BasePrice)
	setIf(&dst.InStock, p.InStock)
	setIf(&dst.Featured, p.Featured)
	setIf(&dst.BestSeller, p.BestSeller)

	if p.ClearSalePrice {
		dst.SalePrice = nil
	} else if p.SalePrice != nil {
		sp := *p.SalePrice
		dst.SalePrice = &sp
	}

	if p.Images != nil {
		dst.Images = append([]domain.ProductImage{}, *p.Images...)
	}
	if p.Dimensions != nil {
		dims := make([]domain.Dimension, 0, len(*p.Dimensions))
		for _, d := range *p.Dimensions {
			dims = append(dims, d.toDomain())
		}
		dst.Dimensions = dims
	}
	if p.Materials != nil {
		dst.Materials = append([]string{}, *p.Materials...)
	}
	if p.Colors != nil {
		dst.Colors = append([]string{}, *p.Colors...)
	}
	if p.Features != nil {
		dst.Features = append([]string{}, *p.Features...)
	}
}

// CategoryPatch — частичное обновление категории.
type CategoryPatch struct {
	Slug         *string `json:"slug,omitempty" validate:"omitempty,min=1"`
	Name         *string `json:"name,omitempty" validate:"omitempty,min=1"`
	NameEn       *string `json:"nameEn,omitempty"`
	ProductCount *int    `json:"productCount,omitempty" validate:"omitempty,gte=0"`
}

func (p *CategoryPatch) Apply(dst *domain.Category) {
	setIf(&dst.Slug, p.Slug)
	setIf(&dst.Name, p.Name)
	setIf(&dst.NameEn, p.NameEn)
	setIf(&dst.ProductCount, p.ProductCount)
}

func setIf[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}

// NewProductReq — запрос администратора на создание товара.
type NewProductReq struct {
	Slug          string                `json:"slug"`
	Name          string                `json:"name" validate:"required"`
	NameEn        string                `json:"nameEn"`
	Description   string                `json:"description"`
	DescriptionEn string                `json:"descriptionEn"`
	Category      string                `json:"category"`
	BasePrice     decimal.Decimal       `json:"basePrice" validate:"gte=0"`
	SalePrice     *decimal.Decimal      `json:"salePrice,omitempty"`
	Images        []domain.ProductImage `json:"images" validate:"dive"`
	Dimensions    []NewDimensionReq     `json:"dimensions" validate:"dive"`
	Materials     []string              `json:"materials"`
	Colors        []string              `json:"colors"`
	Features      []string              `json:"features"`
	InStock       *bool                 `json:"inStock,omitempty"`
	Featured      bool                  `json:"featured"`
	BestSeller    bool                  `json:"bestSeller"`
}

// NewDimensionReq — вариант размера в запросе на создание. Пустой id генерируется.
type NewDimensionReq struct {
	ID     string          `json:"id"`
	Width  int             `json:"width" validate:"gt=0"`
	Height int             `json:"height" validate:"gt=0"`
	Depth  int             `json:"depth" validate:"gt=0"`
	Price  decimal.Decimal `json:"price" validate:"gte=0"`
	SKU    string          `json:"sku"`
}

func (d NewDimensionReq) toDomain() domain.Dimension {
	return domain.Dimension{
		ID:     d.ID,
		Width:  d.Width,
		Height: d.Height,
		Depth:  d.Depth,
		Price:  d.Price,
		SKU:    d.SKU,
	}
}

// NewCategoryReq — запрос на создание категории.
type NewCategoryReq struct {
	ID           string `json:"id"`
	Slug         string `json:"slug"`
	Name         string `json:"name" validate:"required"`
	NameEn       string `json:"nameEn"`
	ProductCount int    `json:"productCount" validate:"gte=0"`
}

// SubmitMessageReq — сообщение из формы обратной связи.
type SubmitMessageReq struct {
	Name    string  `json:"name" validate:"required,max=200"`
	Email   string  `json:"email" validate:"required,email,max=320"`
	Phone   *string `json:"phone,omitempty" validate:"omitempty,max=40"`
	Subject string  `json:"subject" validate:"required,max=300"`
	Message string  `json:"message" validate:"required,max=5000"`
}

// MessageStatus фильтрует сообщения по признаку прочтения.
type MessageStatus string

const (
	MessageStatusAll    MessageStatus = "all"
	MessageStatusUnread MessageStatus = "unread"
	MessageStatusRead   MessageStatus = "read"
)

type MessageFilter struct {
	Search string
	Status MessageStatus
}

func NewMessageFilter(search string, status string) MessageFilter {
	s := MessageStatus(status)
	switch s {
	case MessageStatusUnread, MessageStatusRead:
	default:
		s = MessageStatusAll
	}
	return MessageFilter{Search: search, Status: s}
}

// BackupRes — результат архивации снимка каталога.
type BackupRes struct {
	Key        string    `json:"key"`
	Products   int       `json:"products"`
	Categories int       `json:"categories"`
	CreatedAt  time.Time `json:"createdAt"`
}

func NewBackupRes(key string, state *domain.CatalogState, createdAt time.Time) *BackupRes {
	return &BackupRes{
		Key:        key,
		Products:   len(state.Products),
		Categories: len(state.Categories),
		CreatedAt:  createdAt,
	}
}
