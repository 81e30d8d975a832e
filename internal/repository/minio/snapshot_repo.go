package minio

import (
	"bytes"
	"context"
	"path"

	"github.com/jimlawless/whereami"
	"github.com/minio/minio-go/v7"
	"github.com/probagno/go-backend/internal/cfg"
	"github.com/probagno/go-backend/internal/domain"
	"github.com/probagno/go-backend/internal/repository/blob"
	"github.com/probagno/go-backend/pkg/e"
)

const snapshotContentType = "application/json"

// SnapshotRepo складывает снимки каталога в бакет MinIO.
type SnapshotRepo struct {
	mc  *minio.Client
	cfg *cfg.MinIOCfg
}

func NewSnapshotRepo(mc *minio.Client, cfg *cfg.MinIOCfg) *SnapshotRepo {
	return &SnapshotRepo{
		mc:  mc,
		cfg: cfg,
	}
}

// Put загружает снимок под ключом <prefix>/<name>.json и возвращает ключ объекта.
func (s *SnapshotRepo) Put(ctx context.Context, name string, state *domain.CatalogState) (string, error) {
	data, err := blob.Encode(state)
	if err != nil {
		return "", e.Wrap(whereami.WhereAmI(), err)
	}

	key := ObjectKey(s.cfg.SnapshotPrefix, name)
	info, err := s.mc.PutObject(ctx, s.cfg.BucketName, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: snapshotContentType,
	})
	if err != nil {
		return "", e.Wrap(whereami.WhereAmI(), err)
	}

	return info.Key, nil
}

// ObjectKey собирает ключ объекта снимка.
func ObjectKey(prefix, name string) string {
	return path.Join(prefix, name+".json")
}
