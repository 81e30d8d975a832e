package app

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jimlawless/whereami"
	config "github.com/probagno/go-backend/internal/cfg"
	v1Http "github.com/probagno/go-backend/internal/delivery/v1/http"
	"github.com/probagno/go-backend/internal/infrastructure/kafka"
	boltRepo "github.com/probagno/go-backend/internal/repository/bolt"
	s3Repo "github.com/probagno/go-backend/internal/repository/minio"
	"github.com/probagno/go-backend/internal/repository/pgdb"
	pgdbConv "github.com/probagno/go-backend/internal/repository/pgdb/converter"
	redisRepo "github.com/probagno/go-backend/internal/repository/redis"
	"github.com/probagno/go-backend/internal/seed"
	"github.com/probagno/go-backend/internal/usecase"
	"github.com/probagno/go-backend/pkg/clients"
	"github.com/probagno/go-backend/pkg/closer"
	"github.com/probagno/go-backend/pkg/e"
	"github.com/probagno/go-backend/pkg/idgen"
	"github.com/probagno/go-backend/pkg/logger"
	"github.com/probagno/go-backend/pkg/postgres"
	"github.com/robfig/cron/v3"
)

const (
	startupTimeout  = 10 * time.Second
	shutdownTimeout = 10 * time.Second
	topicTimeout    = 5 * time.Second
)

// App связывает конфигурацию, хранилище каталога и транспорт.
type App struct {
	cfg     *config.Config
	logger  logger.Logger
	closer  *closer.Closer
	store   *usecase.CatalogStore
	httpSrv *v1Http.Server
	cron    *cron.Cron
}

// NewApp собирает зависимости, загружает каталог и один раз синхронизирует его с сидом.
// При ошибке уже открытые ресурсы закрываются.
func NewApp(cfg *config.Config, log logger.Logger) (_ *App, err error) {
	a := &App{
		cfg:    cfg,
		logger: log,
		closer: closer.NewCloser(0),
	}
	defer func() {
		if err != nil {
			ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if cerr := a.closer.Close(ctx); cerr != nil {
				log.Warnf("Cleanup after failed start: %v", cerr)
			}
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), startupTimeout)
	defer cancel()

	dataset, err := seed.Load(cfg.Catalog.SeedPath)
	if err != nil {
		log.Errorf(err, "failed to load seed dataset")
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	db, err := initPGDB(ctx, log, cfg)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	a.closer.AddSimple("postgres", func() error {
		db.Close()
		return nil
	})

	notifier := a.initNotifier()

	stateRepo, err := initStateRepo(ctx, log, cfg)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	a.store = usecase.NewCatalogStore(usecase.CatalogStoreDeps{
		Repo:     stateRepo,
		Seed:     dataset,
		Policy:   editPolicy(cfg.Catalog),
		Notifier: notifier,
		Logger:   log,
	})
	a.closer.Add("catalog store", a.store.Dispose)

	source := a.store.Load(ctx)
	log.Infof("Catalog source: %s", source)
	a.store.SyncWithInitial(ctx)

	ids, err := idgen.NewGenerator(cfg.Catalog.NodeID)
	if err != nil {
		log.Errorf(err, "failed to initialize id generator")
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	factory := usecase.NewProductFactory(ids, time.Now)

	messageRepo := pgdb.NewMessageRepo(db.Pool, pgdbConv.NewMessageConverter())
	messageUC := usecase.NewMessageUC(messageRepo, usecase.RetryPolicy{
		MaxRetries: cfg.Messages.MaxRetries,
		BaseDelay:  cfg.Messages.BaseDelay,
		MaxDelay:   cfg.Messages.MaxDelay,
	}, log, time.Now)

	archive, err := initArchive(ctx, log, cfg)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	backupUC := usecase.NewBackupUC(a.store, archive, log, time.Now)

	if err := a.initCron(backupUC, archive != nil); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	r := chi.NewRouter()
	router := v1Http.NewRouter(r, log)
	router.Init(v1Http.UseCases{
		Catalog:  a.store,
		Builder:  factory,
		Messages: messageUC,
		Backup:   backupUC,
	})
	a.httpSrv = v1Http.NewServer(r, cfg.Http)
	a.closer.Add("http server", a.httpSrv.Stop)

	return a, nil
}

// Run запускает HTTP-сервер и ждёт сигнала остановки или фатальной ошибки.
func (a *App) Run() error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Infof("HTTP server started on port %s", a.cfg.Http.Port)
		if err := a.httpSrv.Run(); err != nil {
			a.logger.Errorf(err, "HTTP server failed")
			errCh <- err
		}
	}()

	if a.cron != nil {
		a.cron.Start()
	}

	// === Ожидание сигнала или ошибки ===
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	var appErr error
	select {
	case appErr = <-errCh:
		a.logger.Errorf(appErr, "HTTP server fatal error")
	case <-shutdown:
		a.logger.Infof("Received shutdown signal, stopping gracefully...")
	}

	// === Graceful shutdown ===
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := a.closer.Close(shutdownCtx); err != nil {
		a.logger.Errorf(err, "Shutdown finished with errors")
		appErr = errors.Join(appErr, err)
	}

	a.logger.Infof("Application shutdown complete")
	return appErr
}

func (a *App) initNotifier() usecase.ChangeNotifier {
	if !a.cfg.Kafka.Enabled() {
		a.logger.Infof("Kafka brokers are not configured, catalog events are disabled")
		return usecase.NewNopNotifier()
	}

	producer := kafka.NewProducer(a.logger, a.cfg.Kafka)
	if err := producer.EnsureTopic(topicTimeout); err != nil {
		a.logger.Warnf("Failed to ensure kafka topic %s: %v", a.cfg.Kafka.Topic, err)
	}
	a.closer.AddSimple("kafka producer", producer.Close)

	return producer
}

func (a *App) initCron(backupUC *usecase.BackupUseCase, archiveEnabled bool) error {
	spec := a.cfg.Minio.BackupCron
	if spec == "" {
		return nil
	}
	if !archiveEnabled {
		a.logger.Warnf("BACKUP_CRON is set but snapshot archive is not configured, periodic backup disabled")
		return nil
	}

	c := cron.New()
	_, err := c.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), startupTimeout)
		defer cancel()

		if _, err := backupUC.Backup(ctx, "scheduled"); err != nil {
			a.logger.Errorf(err, "Scheduled catalog backup failed")
		}
	})
	if err != nil {
		a.logger.Errorf(err, "invalid BACKUP_CRON %q", spec)
		return e.Wrap(whereami.WhereAmI(), err)
	}

	a.cron = c
	a.closer.Add("backup cron", func(ctx context.Context) error {
		select {
		case <-c.Stop().Done():
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	})

	return nil
}

func initStateRepo(ctx context.Context, logger logger.Logger, cfg *config.Config) (usecase.StateRepository, error) {
	switch cfg.Storage.Driver {
	case config.StorageDriverRedis:
		redisClient := clients.NewRedisClient(cfg.Redis)
		if err := redisClient.Ping(ctx); err != nil {
			logger.Errorf(err, "failed to connect to redis")
			_ = redisClient.Close()
			return nil, e.Wrap(whereami.WhereAmI(), err)
		}
		return redisRepo.NewStateRepo(redisClient, cfg.Storage.Key, logger), nil
	case config.StorageDriverBolt:
		db, err := clients.NewBoltDB(cfg.Bolt)
		if err != nil {
			logger.Errorf(err, "failed to open bolt file %s", cfg.Bolt.Path)
			return nil, e.Wrap(whereami.WhereAmI(), err)
		}
		return boltRepo.NewStateRepo(db, cfg.Storage.Key), nil
	default:
		return nil, e.Wrap(cfg.Storage.Driver, e.ErrUnknownStorageDriver)
	}
}

// initArchive возвращает nil, если MinIO не настроен.
func initArchive(ctx context.Context, logger logger.Logger, cfg *config.Config) (usecase.SnapshotArchive, error) {
	if !cfg.Minio.Enabled() {
		logger.Infof("MinIO endpoint is not configured, snapshot archive is disabled")
		return nil, nil
	}

	minioClient, err := clients.NewMinIOClient(cfg.Minio)
	if err != nil {
		logger.Errorf(err, "failed to initialize minio client")
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	if err := clients.EnsureBucket(ctx, minioClient, cfg.Minio.BucketName); err != nil {
		logger.Errorf(err, "failed to initialize MinIO bucket")
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return s3Repo.NewSnapshotRepo(minioClient, cfg.Minio), nil
}

func initPGDB(ctx context.Context, logger logger.Logger, cfg *config.Config) (*postgres.PgDatabase, error) {
	db, err := postgres.Connect(ctx, cfg.Db)
	if err != nil {
		logger.Errorf(err, "failed to connect to database")
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	if err := db.RunMigrations(logger); err != nil {
		logger.Errorf(err, "failed to run migrations")
		db.Close()
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	if err := db.Ping(ctx); err != nil {
		logger.Errorf(err, "failed to ping database")
		db.Close()
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return db, nil
}

func editPolicy(cfg *config.CatalogCfg) usecase.EditPolicy {
	if cfg.EditPolicy == config.EditPolicyProvenance {
		return usecase.ProvenancePolicy{}
	}
	return usecase.MarkerPolicy{Marker: cfg.EditMarker}
}
