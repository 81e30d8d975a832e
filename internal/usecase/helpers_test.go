package usecase

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/probagno/go-backend/internal/domain"
	"github.com/probagno/go-backend/internal/seed"
	"github.com/probagno/go-backend/pkg/e"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedNow }

// memStateRepo — StateRepository в памяти с внедряемыми ошибками.
type memStateRepo struct {
	mu      sync.Mutex
	state   *domain.CatalogState
	loadErr error
	saveErr error
	saves   int
	closed  bool
}

func (m *memStateRepo) Load(context.Context) (*domain.CatalogState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.loadErr != nil {
		return nil, m.loadErr
	}
	if m.state == nil {
		return nil, e.ErrStateNotFound
	}
	return m.state.Clone(), nil
}

func (m *memStateRepo) Save(_ context.Context, state *domain.CatalogState) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.saves++
	if m.saveErr != nil {
		return m.saveErr
	}
	m.state = state.Clone()
	return nil
}

func (m *memStateRepo) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.closed = true
	return nil
}

func (m *memStateRepo) saved() *domain.CatalogState {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.state.Clone()
}

func (m *memStateRepo) saveCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.saves
}

type recordingNotifier struct {
	mu     sync.Mutex
	events []domain.CatalogEvent
}

func (r *recordingNotifier) Notify(_ context.Context, event domain.CatalogEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

func (r *recordingNotifier) types() []domain.CatalogEventType {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]domain.CatalogEventType, 0, len(r.events))
	for _, ev := range r.events {
		out = append(out, ev.Type)
	}
	return out
}

func testProduct(id, name string) domain.Product {
	return domain.Product{
		ID:        id,
		Slug:      id,
		Name:      name,
		Category:  "cabinet",
		BasePrice: decimal.NewFromInt(100),
		Dimensions: []domain.Dimension{
			{ID: "dim-1", Width: 60, Height: 45, Depth: 40, Price: decimal.NewFromInt(100)},
		},
		InStock:   true,
		CreatedAt: time.Date(2025, 1, 15, 9, 0, 0, 0, time.UTC),
		UpdatedAt: time.Date(2025, 1, 15, 9, 0, 0, 0, time.UTC),
	}
}

func defaultSeed(t *testing.T) *seed.Dataset {
	t.Helper()

	ds, err := seed.Default()
	require.NoError(t, err)
	return ds
}

func newTestStore(t *testing.T, repo *memStateRepo, ds *seed.Dataset, policy EditPolicy) *CatalogStore {
	t.Helper()

	if ds == nil {
		ds = defaultSeed(t)
	}
	return NewCatalogStore(CatalogStoreDeps{
		Repo:   repo,
		Seed:   ds,
		Policy: policy,
		Clock:  fixedClock,
	})
}

func productIDs(products []domain.Product) []string {
	ids := make([]string, 0, len(products))
	for _, p := range products {
		ids = append(ids, p.ID)
	}
	return ids
}

func productNames(products []domain.Product) []string {
	names := make([]string, 0, len(products))
	for _, p := range products {
		names = append(names, p.Name)
	}
	return names
}

func ptr[T any](v T) *T { return &v }
