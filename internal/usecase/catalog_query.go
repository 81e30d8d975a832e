package usecase

import (
	"sort"

	"github.com/probagno/go-backend/internal/domain"
	"github.com/shopspring/decimal"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// ProductSort — порядок сортировки на странице каталога.
type ProductSort string

const (
	SortFeatured  ProductSort = "featured"
	SortPriceAsc  ProductSort = "price-asc"
	SortPriceDesc ProductSort = "price-desc"
	SortName      ProductSort = "name"
)

// ProductFilter — фильтр каталога. Пустые поля не ограничивают выборку.
type ProductFilter struct {
	Search     string
	Categories []string
	MinPrice   *decimal.Decimal
	MaxPrice   *decimal.Decimal
	Sort       ProductSort
}

// FilterProducts фильтрует и сортирует товары. Цена сравнивается по EffectivePrice.
// Неизвестный порядок сортировки сохраняет исходный порядок.
func FilterProducts(products []domain.Product, f ProductFilter) []domain.Product {
	m := newTextMatcher(f.Search)

	categories := make(map[string]struct{}, len(f.Categories))
	for _, c := range f.Categories {
		if c != "" {
			categories[c] = struct{}{}
		}
	}

	out := make([]domain.Product, 0, len(products))
	for _, p := range products {
		if !m.Match(p.Name, p.NameEn, p.Description) {
			continue
		}
		if len(categories) > 0 {
			if _, ok := categories[p.Category]; !ok {
				continue
			}
		}
		price := p.EffectivePrice()
		if f.MinPrice != nil && price.LessThan(*f.MinPrice) {
			continue
		}
		if f.MaxPrice != nil && price.GreaterThan(*f.MaxPrice) {
			continue
		}
		out = append(out, p)
	}

	sortProducts(out, f.Sort)
	return out
}

func sortProducts(products []domain.Product, order ProductSort) {
	switch order {
	case SortFeatured:
		sort.SliceStable(products, func(i, j int) bool {
			return products[i].Featured && !products[j].Featured
		})
	case SortPriceAsc:
		sort.SliceStable(products, func(i, j int) bool {
			return products[i].EffectivePrice().LessThan(products[j].EffectivePrice())
		})
	case SortPriceDesc:
		sort.SliceStable(products, func(i, j int) bool {
			return products[i].EffectivePrice().GreaterThan(products[j].EffectivePrice())
		})
	case SortName:
		// Названия греческие, сравниваем по правилам греческой локали
		col := collate.New(language.Greek, collate.IgnoreCase)
		sort.SliceStable(products, func(i, j int) bool {
			return col.CompareString(products[i].Name, products[j].Name) < 0
		})
	}
}
