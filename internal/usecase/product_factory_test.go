package usecase

import (
	"errors"
	"fmt"
	"testing"

	"github.com/probagno/go-backend/pkg/e"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type seqIDs struct{ n int }

func (s *seqIDs) next(prefix string) string {
	s.n++
	return fmt.Sprintf("%s-%d", prefix, s.n)
}

func (s *seqIDs) ProductID() string   { return s.next("prod") }
func (s *seqIDs) CategoryID() string  { return s.next("cat") }
func (s *seqIDs) DimensionID() string { return s.next("dim") }

func TestSlugify(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "Έπιπλο 963", want: "epiplo-963"},
		{in: "Καθρέπτης LED", want: "kathreptis-led"},
		{in: "Νιπτήρας Πορσελάνης 60", want: "niptiras-porselanis-60"},
		{in: "  Crème Brûlée!! ", want: "creme-brulee"},
		{in: "Ψυχή & Χώρος", want: "psychi-choros"},
		{in: "***", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Slugify(tt.in))
		})
	}
}

func TestProductFactory_BuildDefaults(t *testing.T) {
	f := NewProductFactory(&seqIDs{}, fixedClock)

	p, err := f.Build(&NewProductReq{
		Name:      "  Έπιπλο Luna ",
		BasePrice: decimal.NewFromInt(399),
	})
	require.NoError(t, err)

	assert.Equal(t, "prod-1", p.ID)
	assert.Equal(t, "epiplo-luna", p.Slug)
	assert.Equal(t, "Έπιπλο Luna", p.Name)
	assert.Equal(t, DefaultCategory, p.Category)
	assert.True(t, p.InStock)
	assert.Equal(t, fixedNow, p.CreatedAt)
	assert.Equal(t, fixedNow, p.UpdatedAt)

	require.Len(t, p.Dimensions, 1)
	d := p.Dimensions[0]
	assert.Equal(t, "dim-1", d.ID)
	assert.Equal(t, []int{60, 45, 40}, []int{d.Width, d.Height, d.Depth})
	assert.True(t, d.Price.Equal(decimal.NewFromInt(399)))

	assert.NotNil(t, p.Images)
	assert.NotNil(t, p.Materials)
}

func TestProductFactory_BuildKeepsGivenValues(t *testing.T) {
	f := NewProductFactory(&seqIDs{}, fixedClock)
	sale := decimal.NewFromInt(90)

	p, err := f.Build(&NewProductReq{
		Slug:      "Custom Slug",
		Name:      "Κολώνα",
		Category:  "column",
		BasePrice: decimal.NewFromInt(100),
		SalePrice: &sale,
		InStock:   ptr(false),
		Dimensions: []NewDimensionReq{
			{Width: 35, Height: 160, Depth: 30, Price: decimal.NewFromInt(100), SKU: "C-35"},
			{ID: "dim-fixed", Width: 40, Height: 160, Depth: 30, Price: decimal.NewFromInt(120)},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "custom-slug", p.Slug)
	assert.Equal(t, "column", p.Category)
	assert.False(t, p.InStock)
	assert.True(t, p.OnSale())
	assert.Equal(t, "dim-2", p.Dimensions[0].ID)
	assert.Equal(t, "dim-fixed", p.Dimensions[1].ID)

	sale = decimal.NewFromInt(1)
	assert.True(t, p.SalePrice.Equal(decimal.NewFromInt(90)), "sale price is copied")
}

func TestProductFactory_SlugFallsBackToID(t *testing.T) {
	f := NewProductFactory(&seqIDs{}, fixedClock)

	p, err := f.Build(&NewProductReq{Name: "???", BasePrice: decimal.NewFromInt(1)})
	require.NoError(t, err)
	assert.Equal(t, p.ID, p.Slug)
}

func TestProductFactory_BuildValidation(t *testing.T) {
	f := NewProductFactory(&seqIDs{}, fixedClock)

	tests := []struct {
		name    string
		req     NewProductReq
		wantErr error
	}{
		{name: "missing name", req: NewProductReq{Name: "  ", BasePrice: decimal.NewFromInt(1)}, wantErr: e.ErrValidation},
		{name: "negative price", req: NewProductReq{Name: "A", BasePrice: decimal.NewFromInt(-1)}, wantErr: e.ErrValidation},
		{name: "zero width", req: NewProductReq{Name: "A", Dimensions: []NewDimensionReq{{Width: 0, Height: 1, Depth: 1}}}, wantErr: e.ErrValidation},
		{name: "price precision", req: NewProductReq{Name: "A", BasePrice: decimal.RequireFromString("10.999")}, wantErr: e.ErrPricePrecision},
		{name: "negative sale", req: NewProductReq{Name: "A", BasePrice: decimal.NewFromInt(10), SalePrice: ptr(decimal.NewFromInt(-5))}, wantErr: e.ErrInvalidPrice},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.Build(&tt.req)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
		})
	}
}

func TestProductFactory_BuildCategory(t *testing.T) {
	f := NewProductFactory(&seqIDs{}, fixedClock)

	c, err := f.BuildCategory(&NewCategoryReq{Name: "Μπανιέρες", NameEn: "Bathtubs"})
	require.NoError(t, err)
	assert.Equal(t, "cat-1", c.ID)
	assert.Equal(t, "mpanieres", c.Slug)

	c, err = f.BuildCategory(&NewCategoryReq{ID: "cat-x", Slug: "tubs", Name: "Μπανιέρες"})
	require.NoError(t, err)
	assert.Equal(t, "cat-x", c.ID)
	assert.Equal(t, "tubs", c.Slug)

	_, err = f.BuildCategory(&NewCategoryReq{Name: ""})
	assert.ErrorIs(t, err, e.ErrValidation)
}

func TestProductFactory_PrepareProductPatchRejectsInvalidValues(t *testing.T) {
	f := NewProductFactory(&seqIDs{}, fixedClock)

	tests := []struct {
		name    string
		patch   ProductPatch
		wantErr error
	}{
		{
			name:    "non-positive dimensions",
			patch:   ProductPatch{Dimensions: &[]NewDimensionReq{{Width: 0, Height: -5, Depth: 0, Price: decimal.NewFromInt(1)}}},
			wantErr: e.ErrValidation,
		},
		{
			name:    "negative dimension price",
			patch:   ProductPatch{Dimensions: &[]NewDimensionReq{{Width: 1, Height: 1, Depth: 1, Price: decimal.NewFromInt(-3)}}},
			wantErr: e.ErrValidation,
		},
		{
			name:    "empty dimensions list",
			patch:   ProductPatch{Dimensions: &[]NewDimensionReq{}},
			wantErr: e.ErrValidation,
		},
		{
			name:    "negative sale price",
			patch:   ProductPatch{SalePrice: ptr(decimal.NewFromInt(-5))},
			wantErr: e.ErrValidation,
		},
		{
			name:    "base price precision",
			patch:   ProductPatch{BasePrice: ptr(decimal.RequireFromString("10.999"))},
			wantErr: e.ErrPricePrecision,
		},
		{
			name:    "dimension price precision",
			patch:   ProductPatch{Dimensions: &[]NewDimensionReq{{Width: 1, Height: 1, Depth: 1, Price: decimal.RequireFromString("1.001")}}},
			wantErr: e.ErrPricePrecision,
		},
		{name: "blank name", patch: ProductPatch{Name: ptr("   ")}, wantErr: e.ErrValidation},
		{name: "slug without url-safe characters", patch: ProductPatch{Slug: ptr("///")}, wantErr: e.ErrValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := f.PrepareProductPatch(&tt.patch)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
		})
	}
}

func TestProductFactory_PrepareProductPatchNormalizes(t *testing.T) {
	f := NewProductFactory(&seqIDs{}, fixedClock)

	patch := ProductPatch{
		Name: ptr("  Έπιπλο Alba  "),
		Slug: ptr("Hello World/ Ά"),
		Dimensions: &[]NewDimensionReq{
			{ID: "dim-keep", Width: 60, Height: 45, Depth: 40, Price: decimal.NewFromInt(100)},
			{Width: 80, Height: 45, Depth: 40, Price: decimal.RequireFromString("120.50")},
		},
	}
	require.NoError(t, f.PrepareProductPatch(&patch))

	assert.Equal(t, "Έπιπλο Alba", *patch.Name)
	assert.Equal(t, "hello-world-a", *patch.Slug)
	assert.Equal(t, "dim-keep", (*patch.Dimensions)[0].ID)
	assert.Equal(t, "dim-1", (*patch.Dimensions)[1].ID)

	empty := ProductPatch{}
	assert.NoError(t, f.PrepareProductPatch(&empty))
}

func TestProductFactory_PrepareCategoryPatch(t *testing.T) {
	f := NewProductFactory(&seqIDs{}, fixedClock)

	patch := CategoryPatch{Slug: ptr("Νέα Σειρά"), Name: ptr(" Νέα ")}
	require.NoError(t, f.PrepareCategoryPatch(&patch))
	assert.Equal(t, "nea-seira", *patch.Slug)
	assert.Equal(t, "Νέα", *patch.Name)

	assert.ErrorIs(t, f.PrepareCategoryPatch(&CategoryPatch{Slug: ptr("***")}), e.ErrValidation)
	assert.ErrorIs(t, f.PrepareCategoryPatch(&CategoryPatch{ProductCount: ptr(-1)}), e.ErrValidation)
}
