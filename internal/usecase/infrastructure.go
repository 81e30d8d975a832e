package usecase

import (
	"context"

	"github.com/probagno/go-backend/internal/domain"
)

// ChangeNotifier публикует события изменения каталога. Доставка не ожидается вызывающим.
type ChangeNotifier interface {
	Notify(ctx context.Context, event domain.CatalogEvent)
}

// IDGenerator выдаёт идентификаторы новых товаров, категорий и вариантов размеров.
type IDGenerator interface {
	ProductID() string
	CategoryID() string
	DimensionID() string
}

type nopNotifier struct{}

func (nopNotifier) Notify(context.Context, domain.CatalogEvent) {}

// NewNopNotifier возвращает notifier, который ничего не публикует.
func NewNopNotifier() ChangeNotifier {
	return nopNotifier{}
}
