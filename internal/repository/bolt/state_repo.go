package bolt

import (
	"context"

	"github.com/jimlawless/whereami"
	"github.com/probagno/go-backend/internal/domain"
	"github.com/probagno/go-backend/internal/repository/blob"
	"github.com/probagno/go-backend/pkg/e"
	"go.etcd.io/bbolt"
)

var bucketName = []byte("catalog")

// StateRepo хранит состояние каталога одним значением в файле bbolt.
type StateRepo struct {
	db  *bbolt.DB
	key []byte
}

func NewStateRepo(db *bbolt.DB, key string) *StateRepo {
	return &StateRepo{
		db:  db,
		key: []byte(key),
	}
}

// Load возвращает e.ErrStateNotFound, если бакет или ключ ещё не созданы.
func (r *StateRepo) Load(ctx context.Context) (*domain.CatalogState, error) {
	if err := ctx.Err(); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	var data []byte
	err := r.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketName)
		if b == nil {
			return e.ErrStateNotFound
		}

		v := b.Get(r.key)
		if v == nil {
			return e.ErrStateNotFound
		}

		// значение валидно только внутри транзакции
		data = append([]byte(nil), v...)
		return nil
	})
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	state, err := blob.Decode(data)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return state, nil
}

// Save перезаписывает значение целиком.
func (r *StateRepo) Save(ctx context.Context, state *domain.CatalogState) error {
	if err := ctx.Err(); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	data, err := blob.Encode(state)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	err = r.db.Update(func(tx *bbolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists(bucketName)
		if err != nil {
			return err
		}
		return b.Put(r.key, data)
	})
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}

func (r *StateRepo) Close() error {
	if err := r.db.Close(); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}
	return nil
}
