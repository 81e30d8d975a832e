package usecase

import (
	"context"

	"github.com/probagno/go-backend/internal/domain"
)

type CatalogUC interface {
	AddProduct(ctx context.Context, product domain.Product)
	AddProductIfSlugFree(ctx context.Context, product domain.Product) bool
	UpdateProduct(ctx context.Context, id string, patch ProductPatch) (domain.Product, bool)
	DeleteProduct(ctx context.Context, id string) bool
	GetProductByID(id string) (domain.Product, bool)
	GetProductBySlug(slug string) (domain.Product, bool)
	GetProductsByCategory(slug string) []domain.Product
	GetFeaturedProducts() []domain.Product
	GetBestSellers() []domain.Product
	SearchProducts(query string) []domain.Product
	QueryProducts(filter ProductFilter) []domain.Product

	AddCategory(ctx context.Context, category domain.Category)
	AddCategoryIfFree(ctx context.Context, category domain.Category) bool
	UpdateCategory(ctx context.Context, id string, patch CategoryPatch) (domain.Category, bool)
	DeleteCategory(ctx context.Context, id string) bool
	GetCategoryBySlug(slug string) (domain.Category, bool)
	ListCategories() []domain.Category

	SyncWithInitial(ctx context.Context) SyncReport
}

type ProductBuilder interface {
	Build(req *NewProductReq) (domain.Product, error)
	BuildCategory(req *NewCategoryReq) (domain.Category, error)
	PrepareProductPatch(patch *ProductPatch) error
	PrepareCategoryPatch(patch *CategoryPatch) error
}

type MessageUC interface {
	Submit(ctx context.Context, req *SubmitMessageReq) (*domain.ContactMessage, error)
	List(ctx context.Context, filter MessageFilter) ([]domain.ContactMessage, error)
	MarkRead(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
}

type BackupUC interface {
	Backup(ctx context.Context, reason string) (*BackupRes, error)
	ResetWithBackup(ctx context.Context) (*BackupRes, error)
}
