package usecase

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/probagno/go-backend/internal/domain"
	"github.com/probagno/go-backend/internal/seed"
	"github.com/probagno/go-backend/pkg/e"
	"github.com/probagno/go-backend/pkg/logger"
)

// LoadSource показывает, откуда хранилище взяло состояние при загрузке.
type LoadSource string

const (
	LoadedFromPersisted LoadSource = "persisted"
	LoadedFromSeed      LoadSource = "seed"
	// LoadedFromFallback: сохранённое состояние есть, но прочитать его не удалось.
	LoadedFromFallback LoadSource = "fallback"
)

// CatalogStoreDeps — зависимости хранилища каталога. Repo и Seed обязательны.
type CatalogStoreDeps struct {
	Repo     StateRepository
	Seed     *seed.Dataset
	Policy   EditPolicy
	Notifier ChangeNotifier
	Logger   logger.Logger
	Clock    func() time.Time
}

// CatalogStore — авторитетная копия каталога в памяти.
// Каждая мутация сразу записывается в StateRepository; ошибки записи логируются,
// состояние в памяти при этом не откатывается.
type CatalogStore struct {
	mu         sync.RWMutex
	products   []domain.Product
	categories []domain.Category

	// после неудачного чтения запись отключена, чтобы не затереть сохранённое состояние
	persistSuspended bool

	repo     StateRepository
	seed     *seed.Dataset
	policy   EditPolicy
	notifier ChangeNotifier
	logger   logger.Logger
	now      func() time.Time
}

func NewCatalogStore(deps CatalogStoreDeps) *CatalogStore {
	s := &CatalogStore{
		repo:     deps.Repo,
		seed:     deps.Seed,
		policy:   deps.Policy,
		notifier: deps.Notifier,
		logger:   deps.Logger,
		now:      deps.Clock,
	}
	if s.policy == nil {
		s.policy = MarkerPolicy{Marker: DefaultEditMarker}
	}
	if s.notifier == nil {
		s.notifier = NewNopNotifier()
	}
	if s.logger == nil {
		s.logger = logger.NewNop()
	}
	if s.now == nil {
		s.now = time.Now
	}

	// До Load хранилище отдаёт сид
	initial := s.seed.State()
	s.products = initial.Products
	s.categories = initial.Categories

	return s
}

// Load читает сохранённое состояние. Если его нет, используется сид.
// Если прочитать не удалось, ошибка логируется и в памяти остаётся сид; сохранённый блоб не трогается.
func (s *CatalogStore) Load(ctx context.Context) LoadSource {
	const op = "CatalogStore.Load"

	state, err := s.repo.Load(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	switch {
	case err == nil:
		s.persistSuspended = false
		s.products = nonNil(state.Products)
		s.categories = nonNil(state.Categories)
		s.logger.Infof("Catalog state loaded: %d products, %d categories", len(s.products), len(s.categories))
		return LoadedFromPersisted
	case errors.Is(err, e.ErrStateNotFound):
		s.persistSuspended = false
		s.resetFromSeedLocked()
		s.logger.Infof("No persisted catalog state, starting from seed")
		return LoadedFromSeed
	default:
		s.persistSuspended = true
		s.resetFromSeedLocked()
		s.logger.Errorf(e.Wrap(op, err), "Failed to load catalog state, falling back to seed; persistence suspended until reload or reset")
		return LoadedFromFallback
	}
}

// Flush записывает текущее состояние. В отличие от мутаций, ошибку возвращает.
// Пока запись отключена после неудачного Load, ничего не пишет.
func (s *CatalogStore) Flush(ctx context.Context) error {
	const op = "CatalogStore.Flush"

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.persistSuspended {
		s.logger.Warnf("Catalog flush skipped: persisted state was not loaded")
		return nil
	}

	if err := s.repo.Save(ctx, s.snapshotLocked()); err != nil {
		return e.Wrap(op, err)
	}
	return nil
}

// Dispose сохраняет состояние и закрывает хранилище. После Dispose хранилище не используется.
func (s *CatalogStore) Dispose(ctx context.Context) error {
	const op = "CatalogStore.Dispose"

	flushErr := s.Flush(ctx)
	closeErr := s.repo.Close()
	if err := errors.Join(flushErr, closeErr); err != nil {
		return e.Wrap(op, err)
	}
	return nil
}

// Snapshot возвращает глубокую копию текущего состояния.
func (s *CatalogStore) Snapshot() *domain.CatalogState {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.snapshotLocked()
}

// AddProduct добавляет товар в конец списка. Уникальность id и slug не проверяется.
func (s *CatalogStore) AddProduct(ctx context.Context, product domain.Product) {
	s.mu.Lock()
	s.products = append(s.products, product.Clone())
	s.persistLocked(ctx)
	s.mu.Unlock()

	s.notify(ctx, domain.ProductCreated, product.ID)
}

// AddProductIfSlugFree добавляет товар, только если его slug ещё не занят.
// Проверка и добавление выполняются под одной блокировкой.
func (s *CatalogStore) AddProductIfSlugFree(ctx context.Context, product domain.Product) bool {
	s.mu.Lock()
	for i := range s.products {
		if s.products[i].Slug == product.Slug {
			s.mu.Unlock()
			return false
		}
	}
	s.products = append(s.products, product.Clone())
	s.persistLocked(ctx)
	s.mu.Unlock()

	s.notify(ctx, domain.ProductCreated, product.ID)
	return true
}

// UpdateProduct применяет патч ко всем товарам с данным id и обновляет updatedAt.
// Возвращает первый из обновлённых.
func (s *CatalogStore) UpdateProduct(ctx context.Context, id string, patch ProductPatch) (domain.Product, bool) {
	s.mu.Lock()
	var (
		updated domain.Product
		found   bool
	)
	for i := range s.products {
		p := &s.products[i]
		if p.ID != id {
			continue
		}
		patch.Apply(p)
		p.UpdatedAt = s.now()
		if !found {
			updated = p.Clone()
			found = true
		}
	}
	if !found {
		s.mu.Unlock()
		return domain.Product{}, false
	}

	s.persistLocked(ctx)
	s.mu.Unlock()

	s.notify(ctx, domain.ProductUpdated, id)
	return updated, true
}

// DeleteProduct удаляет все товары с данным id, сохраняя порядок остальных.
func (s *CatalogStore) DeleteProduct(ctx context.Context, id string) bool {
	s.mu.Lock()
	kept := s.products[:0:0]
	for _, p := range s.products {
		if p.ID != id {
			kept = append(kept, p)
		}
	}
	if len(kept) == len(s.products) {
		s.mu.Unlock()
		return false
	}
	s.products = kept
	s.persistLocked(ctx)
	s.mu.Unlock()

	s.notify(ctx, domain.ProductDeleted, id)
	return true
}

func (s *CatalogStore) GetProductByID(id string) (domain.Product, bool) {
	return s.findProduct(func(p *domain.Product) bool { return p.ID == id })
}

func (s *CatalogStore) GetProductBySlug(slug string) (domain.Product, bool) {
	return s.findProduct(func(p *domain.Product) bool { return p.Slug == slug })
}

// GetProductsByCategory возвращает товары с точным совпадением slug категории.
func (s *CatalogStore) GetProductsByCategory(slug string) []domain.Product {
	return s.filterProducts(func(p *domain.Product) bool { return p.Category == slug })
}

func (s *CatalogStore) GetFeaturedProducts() []domain.Product {
	return s.filterProducts(func(p *domain.Product) bool { return p.Featured })
}

func (s *CatalogStore) GetBestSellers() []domain.Product {
	return s.filterProducts(func(p *domain.Product) bool { return p.BestSeller })
}

// SearchProducts ищет подстроку без учёта регистра в name, nameEn и description.
// Пустой запрос возвращает все товары.
func (s *CatalogStore) SearchProducts(query string) []domain.Product {
	m := newTextMatcher(query)

	return s.filterProducts(func(p *domain.Product) bool {
		return m.Match(p.Name, p.NameEn, p.Description)
	})
}

// ListProducts возвращает копию всех товаров в порядке хранения.
func (s *CatalogStore) ListProducts() []domain.Product {
	return s.filterProducts(func(*domain.Product) bool { return true })
}

// QueryProducts применяет фильтр витрины к текущему списку товаров.
func (s *CatalogStore) QueryProducts(filter ProductFilter) []domain.Product {
	return FilterProducts(s.ListProducts(), filter)
}

func (s *CatalogStore) AddCategory(ctx context.Context, category domain.Category) {
	s.mu.Lock()
	s.categories = append(s.categories, category)
	s.persistLocked(ctx)
	s.mu.Unlock()

	s.notify(ctx, domain.CategoryCreated, category.ID)
}

// AddCategoryIfFree добавляет категорию, только если ни id, ни slug ещё не заняты.
func (s *CatalogStore) AddCategoryIfFree(ctx context.Context, category domain.Category) bool {
	s.mu.Lock()
	for _, c := range s.categories {
		if c.ID == category.ID || c.Slug == category.Slug {
			s.mu.Unlock()
			return false
		}
	}
	s.categories = append(s.categories, category)
	s.persistLocked(ctx)
	s.mu.Unlock()

	s.notify(ctx, domain.CategoryCreated, category.ID)
	return true
}

// UpdateCategory применяет патч ко всем категориям с данным id и возвращает первую. updatedAt у категорий нет.
func (s *CatalogStore) UpdateCategory(ctx context.Context, id string, patch CategoryPatch) (domain.Category, bool) {
	s.mu.Lock()
	var (
		updated domain.Category
		found   bool
	)
	for i := range s.categories {
		if s.categories[i].ID != id {
			continue
		}
		patch.Apply(&s.categories[i])
		if !found {
			updated = s.categories[i]
			found = true
		}
	}
	if !found {
		s.mu.Unlock()
		return domain.Category{}, false
	}

	s.persistLocked(ctx)
	s.mu.Unlock()

	s.notify(ctx, domain.CategoryUpdated, id)
	return updated, true
}

func (s *CatalogStore) DeleteCategory(ctx context.Context, id string) bool {
	s.mu.Lock()
	kept := s.categories[:0:0]
	for _, c := range s.categories {
		if c.ID != id {
			kept = append(kept, c)
		}
	}
	if len(kept) == len(s.categories) {
		s.mu.Unlock()
		return false
	}
	s.categories = kept
	s.persistLocked(ctx)
	s.mu.Unlock()

	s.notify(ctx, domain.CategoryDeleted, id)
	return true
}

func (s *CatalogStore) GetCategoryBySlug(slug string) (domain.Category, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, c := range s.categories {
		if c.Slug == slug {
			return c, true
		}
	}
	return domain.Category{}, false
}

func (s *CatalogStore) ListCategories() []domain.Category {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Category, len(s.categories))
	copy(out, s.categories)
	return out
}

// ResetToInitial заменяет оба списка сидом и отбрасывает все правки.
// Явный сброс снова включает запись после неудачного Load.
func (s *CatalogStore) ResetToInitial(ctx context.Context) {
	s.mu.Lock()
	s.persistSuspended = false
	s.resetFromSeedLocked()
	s.persistLocked(ctx)
	s.mu.Unlock()

	s.logger.Infof("Catalog reset to seed")
	s.notify(ctx, domain.CatalogReset, "")
}

// SyncWithInitial сводит текущее состояние с сидом (см. Reconcile) и сохраняет результат.
// Повторный вызов без промежуточных изменений ничего не меняет.
func (s *CatalogStore) SyncWithInitial(ctx context.Context) SyncReport {
	s.mu.Lock()
	state, report := Reconcile(s.products, s.seed.Products(), s.seed.Categories(), s.policy)
	s.products = state.Products
	s.categories = state.Categories
	s.persistLocked(ctx)
	s.mu.Unlock()

	s.logger.Infof(
		"Catalog synced with seed: kept %d, restored %d, added %d, categories %d",
		report.Kept, len(report.RestoredIDs), len(report.AddedIDs), report.CategoriesReplaced,
	)
	s.notify(ctx, domain.CatalogSynced, "")
	return report
}

func (s *CatalogStore) resetFromSeedLocked() {
	initial := s.seed.State()
	s.products = nonNil(initial.Products)
	s.categories = nonNil(initial.Categories)
}

func (s *CatalogStore) snapshotLocked() *domain.CatalogState {
	return domain.NewCatalogState(s.products, s.categories).Clone()
}

// persistLocked записывает состояние под удерживаемой блокировкой, чтобы порядок записей
// совпадал с порядком мутаций.
func (s *CatalogStore) persistLocked(ctx context.Context) {
	const op = "CatalogStore.persist"

	if s.persistSuspended {
		s.logger.Warnf("Catalog change kept in memory only: persisted state was not loaded")
		return
	}
	if err := s.repo.Save(ctx, s.snapshotLocked()); err != nil {
		s.logger.Warnf("Failed to persist catalog state: %v", e.Wrap(op, err))
	}
}

func (s *CatalogStore) notify(ctx context.Context, typ domain.CatalogEventType, entityID string) {
	s.notifier.Notify(ctx, domain.CatalogEvent{
		EventID:    uuid.NewString(),
		Type:       typ,
		EntityID:   entityID,
		OccurredAt: s.now().UTC(),
	})
}

func (s *CatalogStore) findProduct(match func(*domain.Product) bool) (domain.Product, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for i := range s.products {
		if match(&s.products[i]) {
			return s.products[i].Clone(), true
		}
	}
	return domain.Product{}, false
}

func (s *CatalogStore) filterProducts(match func(*domain.Product) bool) []domain.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Product, 0)
	for i := range s.products {
		if match(&s.products[i]) {
			out = append(out, s.products[i].Clone())
		}
	}
	return out
}

func nonNil[T any](in []T) []T {
	if in == nil {
		return []T{}
	}
	return in
}
