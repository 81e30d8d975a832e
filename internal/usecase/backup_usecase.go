package usecase

import (
	"context"
	"time"

	"github.com/probagno/go-backend/internal/domain"
	"github.com/probagno/go-backend/pkg/e"
	"github.com/probagno/go-backend/pkg/logger"
)

// Snapshotter — часть хранилища каталога, нужная для резервных копий.
type Snapshotter interface {
	Snapshot() *domain.CatalogState
	ResetToInitial(ctx context.Context)
}

// BackupUseCase архивирует снимки каталога и выполняет сброс с предварительной архивацией.
type BackupUseCase struct {
	store   Snapshotter
	archive SnapshotArchive
	logger  logger.Logger
	now     func() time.Time
}

// NewBackupUC: archive может быть nil, тогда Backup возвращает e.ErrArchiveDisabled,
// а ResetWithBackup сбрасывает каталог без архивации.
func NewBackupUC(store Snapshotter, archive SnapshotArchive, logger logger.Logger, clock func() time.Time) *BackupUseCase {
	if clock == nil {
		clock = time.Now
	}
	return &BackupUseCase{
		store:   store,
		archive: archive,
		logger:  logger,
		now:     clock,
	}
}

// Backup сохраняет текущий снимок каталога в архив.
func (b *BackupUseCase) Backup(ctx context.Context, reason string) (*BackupRes, error) {
	const op = "BackupUseCase.Backup"

	if b.archive == nil {
		return nil, e.Wrap(op, e.ErrArchiveDisabled)
	}

	state := b.store.Snapshot()
	createdAt := b.now().UTC()
	name := createdAt.Format("20060102T150405Z") + "-" + Slugify(reason)

	key, err := b.archive.Put(ctx, name, state)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	b.logger.Infof("Catalog snapshot archived: key=%s, products=%d", key, len(state.Products))
	return NewBackupRes(key, state, createdAt), nil
}

// ResetWithBackup архивирует снимок и сбрасывает каталог к сиду.
// Если архивировать не удалось, сброс не выполняется.
func (b *BackupUseCase) ResetWithBackup(ctx context.Context) (*BackupRes, error) {
	const op = "BackupUseCase.ResetWithBackup"

	var res *BackupRes
	if b.archive != nil {
		var err error
		res, err = b.Backup(ctx, "reset")
		if err != nil {
			return nil, e.Wrap(op, err)
		}
	} else {
		b.logger.Warnf("Snapshot archive is not configured, resetting catalog without backup")
	}

	b.store.ResetToInitial(ctx)
	return res, nil
}
