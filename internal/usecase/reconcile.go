package usecase

import (
	"strings"

	"github.com/probagno/go-backend/internal/domain"
)

// DefaultEditMarker — подстрока в названии, по которой правка считается сделанной администратором.
const DefaultEditMarker = "Έπιπλο"

// EditPolicy решает, является ли расхождение сохранённого товара с сидом правкой администратора.
// Правки администратора переживают синхронизацию, остальные расхождения откатываются к сиду.
type EditPolicy interface {
	IsAdminEdit(persisted, seed domain.Product) bool
}

// MarkerPolicy считает правкой администратора любой товар, в названии которого есть Marker.
type MarkerPolicy struct {
	Marker string
}

func (m MarkerPolicy) IsAdminEdit(persisted, _ domain.Product) bool {
	return strings.Contains(persisted.Name, m.Marker)
}

// ProvenancePolicy считает правкой администратора товар, изменённый позже версии из сида.
type ProvenancePolicy struct{}

func (ProvenancePolicy) IsAdminEdit(persisted, seed domain.Product) bool {
	return persisted.UpdatedAt.After(seed.UpdatedAt)
}

// EditPolicyFunc позволяет передать функцию как EditPolicy.
type EditPolicyFunc func(persisted, seed domain.Product) bool

func (f EditPolicyFunc) IsAdminEdit(persisted, seed domain.Product) bool {
	return f(persisted, seed)
}

// SyncReport описывает результат синхронизации с сидом.
type SyncReport struct {
	Kept               int      `json:"kept"`
	RestoredIDs        []string `json:"restored"`
	AddedIDs           []string `json:"added"`
	CategoriesReplaced int      `json:"categoriesReplaced"`
}

// Reconcile сводит сохранённые товары с сидом:
//   - товары сида, которых нет среди сохранённых (по id), добавляются в конец;
//   - сохранённый товар, чьё название отличается от сидового и не является правкой администратора,
//     целиком заменяется версией из сида;
//   - категории всегда берутся из сида.
//
// Ничего не удаляется. Входные срезы не изменяются.
func Reconcile(persisted []domain.Product, seedProducts []domain.Product, seedCategories []domain.Category, policy EditPolicy) (*domain.CatalogState, SyncReport) {
	if policy == nil {
		policy = MarkerPolicy{Marker: DefaultEditMarker}
	}

	// первый товар сида с данным id
	seedByID := make(map[string]domain.Product, len(seedProducts))
	for _, p := range seedProducts {
		if _, ok := seedByID[p.ID]; !ok {
			seedByID[p.ID] = p
		}
	}

	persistedIDs := make(map[string]struct{}, len(persisted))
	for _, p := range persisted {
		persistedIDs[p.ID] = struct{}{}
	}

	report := SyncReport{
		RestoredIDs: []string{},
		AddedIDs:    []string{},
	}

	products := make([]domain.Product, 0, len(persisted)+len(seedProducts))
	for _, p := range persisted {
		s, ok := seedByID[p.ID]
		if ok && p.Name != s.Name && !policy.IsAdminEdit(p, s) {
			products = append(products, s.Clone())
			report.RestoredIDs = append(report.RestoredIDs, p.ID)
			continue
		}
		products = append(products, p.Clone())
		report.Kept++
	}

	for _, s := range seedProducts {
		if _, ok := persistedIDs[s.ID]; ok {
			continue
		}
		products = append(products, s.Clone())
		report.AddedIDs = append(report.AddedIDs, s.ID)
	}

	categories := make([]domain.Category, len(seedCategories))
	copy(categories, seedCategories)
	report.CategoriesReplaced = len(categories)

	return domain.NewCatalogState(products, categories), report
}
