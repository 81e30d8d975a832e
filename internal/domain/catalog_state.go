package domain

// CatalogState — сохраняемый снимок каталога: один блоб под одним ключом.
type CatalogState struct {
	Products   []Product  `json:"products"`
	Categories []Category `json:"categories"`
}

func NewCatalogState(products []Product, categories []Category) *CatalogState {
	return &CatalogState{
		Products:   products,
		Categories: categories,
	}
}

// Clone возвращает независимую копию состояния.
func (s *CatalogState) Clone() *CatalogState {
	if s == nil {
		return nil
	}

	products := make([]Product, len(s.Products))
	for i, p := range s.Products {
		products[i] = p.Clone()
	}

	return NewCatalogState(products, cloneSlice(s.Categories))
}
