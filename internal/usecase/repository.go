package usecase

import (
	"context"

	"github.com/probagno/go-backend/internal/domain"
)

// StateRepository хранит состояние каталога одним блобом под фиксированным ключом.
// Load возвращает e.ErrStateNotFound, если состояние ещё не сохранялось.
type StateRepository interface {
	Load(ctx context.Context) (*domain.CatalogState, error)
	Save(ctx context.Context, state *domain.CatalogState) error
	Close() error
}

// MessageRepository хранит сообщения формы обратной связи.
type MessageRepository interface {
	Create(ctx context.Context, msg *domain.ContactMessage) (*domain.ContactMessage, error)
	List(ctx context.Context) ([]domain.ContactMessage, error)
	MarkRead(ctx context.Context, id string) (bool, error)
	Delete(ctx context.Context, id string) (bool, error)
}

// SnapshotArchive складывает снимки каталога во внешнее хранилище и возвращает ключ объекта.
type SnapshotArchive interface {
	Put(ctx context.Context, name string, state *domain.CatalogState) (string, error)
}
