package domain

import "time"

type CatalogEventType string

const (
	ProductCreated  CatalogEventType = "product.created"
	ProductUpdated  CatalogEventType = "product.updated"
	ProductDeleted  CatalogEventType = "product.deleted"
	CategoryCreated CatalogEventType = "category.created"
	CategoryUpdated CatalogEventType = "category.updated"
	CategoryDeleted CatalogEventType = "category.deleted"
	CatalogReset    CatalogEventType = "catalog.reset"
	CatalogSynced   CatalogEventType = "catalog.synced"
)

// CatalogEvent описывает изменение каталога для внешних подписчиков.
type CatalogEvent struct {
	EventID    string           `json:"eventId"`
	Type       CatalogEventType `json:"type"`
	EntityID   string           `json:"entityId,omitempty"`
	OccurredAt time.Time        `json:"occurredAt"`
}
