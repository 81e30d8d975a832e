package http

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/probagno/go-backend/internal/domain"
	"github.com/probagno/go-backend/internal/seed"
	"github.com/probagno/go-backend/internal/usecase"
	"github.com/probagno/go-backend/pkg/e"
	"github.com/probagno/go-backend/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func testClock() time.Time { return testNow }

type emptyStateRepo struct{}

func (emptyStateRepo) Load(context.Context) (*domain.CatalogState, error) {
	return nil, e.ErrStateNotFound
}
func (emptyStateRepo) Save(context.Context, *domain.CatalogState) error { return nil }
func (emptyStateRepo) Close() error                                     { return nil }

type seqIDs struct {
	mu sync.Mutex
	n  int
}

func (s *seqIDs) next(prefix string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.n++
	return fmt.Sprintf("%s-%d", prefix, 100+s.n)
}

func (s *seqIDs) ProductID() string   { return s.next("prod") }
func (s *seqIDs) CategoryID() string  { return s.next("cat") }
func (s *seqIDs) DimensionID() string { return s.next("dim") }

type memMessages struct {
	mu   sync.Mutex
	msgs []domain.ContactMessage
}

func (m *memMessages) Create(_ context.Context, msg *domain.ContactMessage) (*domain.ContactMessage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.msgs = append(m.msgs, *msg)
	return msg, nil
}

func (m *memMessages) List(context.Context) ([]domain.ContactMessage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.ContactMessage(nil), m.msgs...), nil
}

func (m *memMessages) MarkRead(_ context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.msgs {
		if m.msgs[i].ID == id {
			m.msgs[i].IsRead = true
			return true, nil
		}
	}
	return false, nil
}

func (m *memMessages) Delete(_ context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.msgs {
		if m.msgs[i].ID == id {
			m.msgs = append(m.msgs[:i], m.msgs[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

type testServer struct {
	mux      *chi.Mux
	store    *usecase.CatalogStore
	messages *memMessages
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	ds, err := seed.Default()
	require.NoError(t, err)

	log := logger.NewNop()
	store := usecase.NewCatalogStore(usecase.CatalogStoreDeps{
		Repo:  emptyStateRepo{},
		Seed:  ds,
		Clock: testClock,
	})
	store.Load(context.Background())

	messages := &memMessages{}
	mux := chi.NewRouter()
	NewRouter(mux, log).Init(UseCases{
		Catalog:  store,
		Builder:  usecase.NewProductFactory(&seqIDs{}, testClock),
		Messages: usecase.NewMessageUC(messages, usecase.RetryPolicy{}, log, testClock),
		Backup:   usecase.NewBackupUC(store, nil, log, testClock),
	})

	return &testServer{mux: mux, store: store, messages: messages}
}

func (s *testServer) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}

	rec := httptest.NewRecorder()
	s.mux.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()

	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func TestProductRoutes_Read(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name    string
		path    string
		status  int
		wantIDs []string
	}{
		{name: "all", path: "/api/v1/products", status: http.StatusOK, wantIDs: []string{"prod-1", "prod-2", "prod-3", "prod-4", "prod-5", "prod-6"}},
		{name: "category", path: "/api/v1/products?category=mirror&category=sink", status: http.StatusOK, wantIDs: []string{"prod-4", "prod-6"}},
		{name: "price range by effective price", path: "/api/v1/products?minPrice=200&maxPrice=500", status: http.StatusOK, wantIDs: []string{"prod-2", "prod-4", "prod-5"}},
		{name: "sorted", path: "/api/v1/products?sort=price-desc&category=cabinet", status: http.StatusOK, wantIDs: []string{"prod-3", "prod-1", "prod-2"}},
		{name: "search", path: "/api/v1/products?q=%CE%BA%CE%B1%CE%B8%CF%81%CE%B5", status: http.StatusOK, wantIDs: []string{"prod-4"}},
		{name: "featured", path: "/api/v1/products/featured", status: http.StatusOK, wantIDs: []string{"prod-1", "prod-3", "prod-4"}},
		{name: "bestsellers", path: "/api/v1/products/bestsellers", status: http.StatusOK, wantIDs: []string{"prod-1", "prod-2", "prod-6"}},
		{name: "bad price", path: "/api/v1/products?minPrice=abc", status: http.StatusBadRequest},
		{name: "negative price", path: "/api/v1/products?maxPrice=-5", status: http.StatusBadRequest},
		{name: "price precision", path: "/api/v1/products?maxPrice=10.999", status: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := s.do(t, http.MethodGet, tt.path, "")
			require.Equal(t, tt.status, rec.Code, rec.Body.String())
			if tt.wantIDs == nil {
				return
			}

			products := decodeBody[[]domain.Product](t, rec)
			ids := make([]string, 0, len(products))
			for _, p := range products {
				ids = append(ids, p.ID)
			}
			assert.Equal(t, tt.wantIDs, ids)
		})
	}
}

func TestProductRoutes_ByIDAndSlug(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/api/v1/products/prod-4", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "kathreptis-led", decodeBody[domain.Product](t, rec).Slug)

	rec = s.do(t, http.MethodGet, "/api/v1/products/slug/epiplo-963", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "prod-1", decodeBody[domain.Product](t, rec).ID)

	rec = s.do(t, http.MethodGet, "/api/v1/products/prod-404", "")
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, ErrorResponse{Code: http.StatusNotFound, Message: "product not found"}, decodeBody[ErrorResponse](t, rec))

	rec = s.do(t, http.MethodGet, "/api/v1/products/slug/missing", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestProductRoutes_Create(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/api/v1/admin/products", `{"name":"Καθρέπτης Νέος","category":"mirror","basePrice":99.9}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	created := decodeBody[domain.Product](t, rec)
	assert.Equal(t, "prod-101", created.ID)
	assert.Equal(t, "kathreptis-neos", created.Slug)
	assert.True(t, created.InStock)
	require.Len(t, created.Dimensions, 1)
	assert.Equal(t, "99.9", created.Dimensions[0].Price.String())

	_, ok := s.store.GetProductByID("prod-101")
	assert.True(t, ok)

	tests := []struct {
		name   string
		body   string
		status int
	}{
		{name: "slug taken", body: `{"name":"Καθρέπτης Νέος","basePrice":10}`, status: http.StatusConflict},
		{name: "invalid json", body: `{"name":`, status: http.StatusBadRequest},
		{name: "unknown field", body: `{"name":"x","basePrice":1,"color":"red"}`, status: http.StatusBadRequest},
		{name: "two objects", body: `{"name":"x","basePrice":1}{}`, status: http.StatusBadRequest},
		{name: "missing name", body: `{"basePrice":10}`, status: http.StatusBadRequest},
		{name: "negative price", body: `{"name":"y","basePrice":-1}`, status: http.StatusBadRequest},
		{name: "price precision", body: `{"name":"z","basePrice":10.999}`, status: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := s.do(t, http.MethodPost, "/api/v1/admin/products", tt.body)
			assert.Equal(t, tt.status, rec.Code, rec.Body.String())
		})
	}

	assert.Len(t, s.store.ListProducts(), 7, "rejected requests add nothing")
}

func TestProductRoutes_UpdateDelete(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPatch, "/api/v1/admin/products/prod-1", `{"basePrice":640,"clearSalePrice":true}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	updated := decodeBody[domain.Product](t, rec)
	assert.Equal(t, "640", updated.BasePrice.String())
	assert.Nil(t, updated.SalePrice)
	assert.Equal(t, "Έπιπλο 963", updated.Name)

	rec = s.do(t, http.MethodPatch, "/api/v1/admin/products/prod-1", `{"slug":"epiplo-963"}`)
	assert.Equal(t, http.StatusOK, rec.Code, "own slug is not a conflict")

	rec = s.do(t, http.MethodPatch, "/api/v1/admin/products/prod-1", `{"slug":"epiplo-alba"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = s.do(t, http.MethodPatch, "/api/v1/admin/products/prod-1", `{"dimensions":[]}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodPatch, "/api/v1/admin/products/prod-404", `{"name":"x"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(t, http.MethodDelete, "/api/v1/admin/products/prod-1", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = s.do(t, http.MethodDelete, "/api/v1/admin/products/prod-1", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestProductRoutes_UpdateNormalizesAndValidates(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPatch, "/api/v1/admin/products/prod-1", `{"slug":"Hello World/ Ά"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "hello-world-a", decodeBody[domain.Product](t, rec).Slug)

	rec = s.do(t, http.MethodGet, "/api/v1/products/slug/hello-world-a", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(t, http.MethodPatch, "/api/v1/admin/products/prod-1", `{"slug":"Epiplo Alba"}`)
	assert.Equal(t, http.StatusConflict, rec.Code, "conflict is checked on the normalized slug")

	tests := []struct {
		name string
		body string
	}{
		{name: "slug without url-safe characters", body: `{"slug":"///"}`},
		{name: "non-positive dimensions", body: `{"dimensions":[{"width":0,"height":-5,"depth":0,"price":-3}]}`},
		{name: "negative base price", body: `{"basePrice":-1}`},
		{name: "base price precision", body: `{"basePrice":10.999}`},
		{name: "negative sale price", body: `{"salePrice":-5}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := s.do(t, http.MethodPatch, "/api/v1/admin/products/prod-2", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
		})
	}

	p, ok := s.store.GetProductByID("prod-2")
	require.True(t, ok)
	assert.Equal(t, "epiplo-alba", p.Slug, "rejected patches leave the product untouched")
	assert.True(t, p.BasePrice.IsPositive())
}

func TestProductRoutes_ConcurrentCreateSameSlug(t *testing.T) {
	s := newTestServer(t)
	before := len(s.store.ListProducts())

	const workers = 8
	codes := make([]int, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			codes[i] = s.do(t, http.MethodPost, "/api/v1/admin/products", `{"name":"Κολώνα Twin","basePrice":300}`).Code
		}(i)
	}
	wg.Wait()

	created := 0
	for _, code := range codes {
		if code == http.StatusCreated {
			created++
			continue
		}
		assert.Equal(t, http.StatusConflict, code)
	}
	assert.Equal(t, 1, created)
	assert.Len(t, s.store.ListProducts(), before+1)
}

func TestCategoryRoutes(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/api/v1/categories", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeBody[[]domain.Category](t, rec), 4)

	rec = s.do(t, http.MethodGet, "/api/v1/categories/cabinet/products", "")
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody[categoryProducts](t, rec)
	assert.Equal(t, "cat-1", body.Category.ID)
	assert.Len(t, body.Products, 3)

	rec = s.do(t, http.MethodGet, "/api/v1/categories/bathtubs/products", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(t, http.MethodPost, "/api/v1/admin/categories", `{"name":"Μπανιέρες","nameEn":"Bathtubs"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decodeBody[domain.Category](t, rec)
	assert.Equal(t, "mpanieres", created.Slug)

	rec = s.do(t, http.MethodPost, "/api/v1/admin/categories", `{"name":"Other","slug":"mirror"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = s.do(t, http.MethodPost, "/api/v1/admin/categories", `{"id":"cat-1","slug":"other","name":"Other"}`)
	assert.Equal(t, http.StatusConflict, rec.Code, "client-supplied id is taken")
	assert.Len(t, s.store.ListCategories(), 5)

	rec = s.do(t, http.MethodPatch, "/api/v1/admin/categories/"+created.ID, `{"slug":"Νέα Σειρά"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "nea-seira", decodeBody[domain.Category](t, rec).Slug)

	rec = s.do(t, http.MethodPatch, "/api/v1/admin/categories/"+created.ID, `{"slug":"///"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodPatch, "/api/v1/admin/categories/"+created.ID, `{"productCount":2}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, 2, decodeBody[domain.Category](t, rec).ProductCount)

	rec = s.do(t, http.MethodDelete, "/api/v1/admin/categories/"+created.ID, "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = s.do(t, http.MethodDelete, "/api/v1/admin/categories/"+created.ID, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAdminCatalogRoutes(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPatch, "/api/v1/admin/products/prod-2", `{"name":"Alba renamed"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(t, http.MethodPost, "/api/v1/admin/catalog/sync", "")
	require.Equal(t, http.StatusOK, rec.Code)
	report := decodeBody[usecase.SyncReport](t, rec)
	assert.Equal(t, []string{"prod-2"}, report.RestoredIDs)

	p, _ := s.store.GetProductByID("prod-2")
	assert.Equal(t, "Έπιπλο Alba", p.Name)

	rec = s.do(t, http.MethodPost, "/api/v1/admin/catalog/backup", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code, "no archive configured")

	s.store.DeleteProduct(context.Background(), "prod-3")
	rec = s.do(t, http.MethodPost, "/api/v1/admin/catalog/reset", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"reset":true}`, rec.Body.String())
	assert.Len(t, s.store.ListProducts(), 6)
}

func TestMessageRoutes(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/api/v1/contact", `{"name":"Νίκος","email":"nikos@example.gr","subject":"Παράδοση","message":"Πότε παραδίδετε;"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	msg := decodeBody[domain.ContactMessage](t, rec)
	assert.NotEmpty(t, msg.ID)
	assert.False(t, msg.IsRead)

	rec = s.do(t, http.MethodPost, "/api/v1/contact", `{"name":"Νίκος","email":"nope","subject":"s","message":"m"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/v1/admin/messages?status=unread", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeBody[[]domain.ContactMessage](t, rec), 1)

	rec = s.do(t, http.MethodPatch, "/api/v1/admin/messages/"+msg.ID+"/read", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/v1/admin/messages?status=unread", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decodeBody[[]domain.ContactMessage](t, rec))

	rec = s.do(t, http.MethodPatch, "/api/v1/admin/messages/missing/read", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(t, http.MethodDelete, "/api/v1/admin/messages/"+msg.ID, "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, s.messages.msgs)
}

func TestToHTTPResponse(t *testing.T) {
	tests := []struct {
		err  error
		code int
	}{
		{err: e.Wrap("op", e.ErrValidation), code: http.StatusBadRequest},
		{err: e.ErrPricePrecision, code: http.StatusBadRequest},
		{err: e.Wrap("op", e.ErrMessageNotFound), code: http.StatusNotFound},
		{err: e.ErrSlugTaken, code: http.StatusConflict},
		{err: e.ErrCategoryExists, code: http.StatusConflict},
		{err: e.ErrArchiveDisabled, code: http.StatusServiceUnavailable},
		{err: fmt.Errorf("disk full"), code: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		code, _ := ToHTTPResponse(tt.err)
		assert.Equal(t, tt.code, code, tt.err.Error())
	}
}
