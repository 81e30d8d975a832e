package clients

import (
	"os"
	"path/filepath"

	"github.com/jimlawless/whereami"
	"github.com/probagno/go-backend/internal/cfg"
	"github.com/probagno/go-backend/pkg/e"
	"go.etcd.io/bbolt"
)

const boltFileMode = 0o600

// NewBoltDB открывает (или создаёт) файл bbolt. Timeout ограничивает ожидание файловой блокировки,
// если файл уже открыт другим процессом.
func NewBoltDB(cfg *cfg.BoltCfg) (*bbolt.DB, error) {
	if dir := filepath.Dir(cfg.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, e.Wrap(whereami.WhereAmI(), err)
		}
	}

	db, err := bbolt.Open(cfg.Path, boltFileMode, &bbolt.Options{Timeout: cfg.Timeout})
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return db, nil
}
