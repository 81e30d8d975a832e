package redis

import (
	"context"
	"errors"

	"github.com/jimlawless/whereami"
	"github.com/probagno/go-backend/internal/domain"
	"github.com/probagno/go-backend/internal/repository/blob"
	"github.com/probagno/go-backend/pkg/clients"
	"github.com/probagno/go-backend/pkg/e"
	"github.com/probagno/go-backend/pkg/logger"
	r "github.com/redis/go-redis/v9"
)

// StateRepo хранит состояние каталога одним ключом Redis без TTL.
type StateRepo struct {
	client *clients.RedisClient
	key    string
	logger logger.Logger
}

func NewStateRepo(client *clients.RedisClient, key string, logger logger.Logger) *StateRepo {
	return &StateRepo{
		client: client,
		key:    key,
		logger: logger,
	}
}

// Load возвращает e.ErrStateNotFound, если ключ отсутствует.
func (s *StateRepo) Load(ctx context.Context) (*domain.CatalogState, error) {
	data, err := s.client.Client.Get(ctx, s.key).Bytes()
	if err != nil {
		if errors.Is(err, r.Nil) {
			return nil, e.Wrap(whereami.WhereAmI(), e.ErrStateNotFound)
		}
		s.logger.Warnf("Redis GET failed: %v", e.Wrap(whereami.WhereAmI(), err))
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	state, err := blob.Decode(data)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return state, nil
}

func (s *StateRepo) Save(ctx context.Context, state *domain.CatalogState) error {
	data, err := blob.Encode(state)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	if err := s.client.Client.Set(ctx, s.key, data, 0).Err(); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}

func (s *StateRepo) Close() error {
	return s.client.Close()
}
