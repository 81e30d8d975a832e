// Package blob кодирует состояние каталога в JSON-документ для хранилищ ключ-значение.
package blob

import (
	"fmt"

	jsoniter "github.com/json-iterator/go"
	"github.com/probagno/go-backend/internal/domain"
	"github.com/probagno/go-backend/pkg/e"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Encode сериализует состояние. nil-срезы пишутся как пустые массивы.
func Encode(state *domain.CatalogState) ([]byte, error) {
	if state == nil {
		state = domain.NewCatalogState(nil, nil)
	}

	out := *state
	if out.Products == nil {
		out.Products = []domain.Product{}
	}
	if out.Categories == nil {
		out.Categories = []domain.Category{}
	}

	return json.Marshal(&out)
}

// Decode разбирает сохранённый документ. Ошибка разбора оборачивает e.ErrCorruptState.
func Decode(data []byte) (*domain.CatalogState, error) {
	var state domain.CatalogState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("%w: %v", e.ErrCorruptState, err)
	}

	return &state, nil
}
