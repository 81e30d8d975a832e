package domain

// Category описывает категорию товаров. ProductCount денормализован и не пересчитывается хранилищем.
type Category struct {
	ID           string `json:"id"`
	Slug         string `json:"slug"`
	Name         string `json:"name"`
	NameEn       string `json:"nameEn,omitempty"`
	ProductCount int    `json:"productCount"`
}
