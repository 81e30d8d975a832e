// Package seed содержит канонический каталог, встроенный в бинарник.
// Сид никогда не изменяется во время работы: наружу отдаются только копии.
package seed

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/jimlawless/whereami"
	jsoniter "github.com/json-iterator/go"
	"github.com/probagno/go-backend/internal/domain"
	"github.com/probagno/go-backend/pkg/e"
)

//go:embed catalog.json
var embedded []byte

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Dataset — неизменяемый канонический каталог.
type Dataset struct {
	state *domain.CatalogState
}

// Default загружает встроенный сид.
func Default() (*Dataset, error) {
	return FromBytes(embedded)
}

// FromFile загружает сид из файла (переопределение при деплое).
func FromFile(path string) (*Dataset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return FromBytes(data)
}

// Load выбирает файл, если путь задан, иначе встроенный сид.
func Load(path string) (*Dataset, error) {
	if path == "" {
		return Default()
	}
	return FromFile(path)
}

func FromBytes(data []byte) (*Dataset, error) {
	var state domain.CatalogState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), fmt.Errorf("%w: %v", e.ErrSeedInvalid, err))
	}

	if err := validate(&state); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return New(&state), nil
}

// New оборачивает готовое состояние. Вход копируется.
func New(state *domain.CatalogState) *Dataset {
	return &Dataset{state: state.Clone()}
}

// State возвращает копию всего сида.
func (d *Dataset) State() *domain.CatalogState {
	return d.state.Clone()
}

// Products возвращает копию товаров сида в исходном порядке.
func (d *Dataset) Products() []domain.Product {
	return d.state.Clone().Products
}

// Categories возвращает копию категорий сида.
func (d *Dataset) Categories() []domain.Category {
	return d.state.Clone().Categories
}

// validate проверяет уникальность id/slug и наличие хотя бы одного варианта размера.
func validate(state *domain.CatalogState) error {
	ids := make(map[string]struct{}, len(state.Products))
	slugs := make(map[string]struct{}, len(state.Products))
	for _, p := range state.Products {
		if p.ID == "" || p.Slug == "" {
			return fmt.Errorf("%w: product without id or slug", e.ErrSeedInvalid)
		}
		if _, ok := ids[p.ID]; ok {
			return fmt.Errorf("%w: duplicate product id %s", e.ErrSeedInvalid, p.ID)
		}
		if _, ok := slugs[p.Slug]; ok {
			return fmt.Errorf("%w: duplicate product slug %s", e.ErrSeedInvalid, p.Slug)
		}
		if len(p.Dimensions) == 0 {
			return fmt.Errorf("%w: product %s has no dimensions", e.ErrSeedInvalid, p.ID)
		}
		ids[p.ID] = struct{}{}
		slugs[p.Slug] = struct{}{}
	}

	catIDs := make(map[string]struct{}, len(state.Categories))
	catSlugs := make(map[string]struct{}, len(state.Categories))
	for _, c := range state.Categories {
		if _, ok := catIDs[c.ID]; ok {
			return fmt.Errorf("%w: duplicate category id %s", e.ErrSeedInvalid, c.ID)
		}
		if _, ok := catSlugs[c.Slug]; ok {
			return fmt.Errorf("%w: duplicate category slug %s", e.ErrSeedInvalid, c.Slug)
		}
		catIDs[c.ID] = struct{}{}
		catSlugs[c.Slug] = struct{}{}
	}

	return nil
}
