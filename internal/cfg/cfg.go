package cfg

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/jimlawless/whereami"
	"github.com/joho/godotenv"
	"github.com/probagno/go-backend/pkg/e"
	"github.com/probagno/go-backend/pkg/logger"
)

const (
	StorageDriverBolt  = "bolt"
	StorageDriverRedis = "redis"

	EditPolicyMarker     = "marker"
	EditPolicyProvenance = "provenance"
)

type Config struct {
	Log      *LogCfg
	Http     *HTTPConfig
	Storage  *StorageCfg
	Bolt     *BoltCfg
	Redis    *RedisCfg
	Db       *PGDBCfg
	Minio    *MinIOCfg
	Kafka    *KafkaCfg
	Catalog  *CatalogCfg
	Messages *MessagesCfg
}

type LogCfg struct {
	Mode     string
	Filename string
}

type HTTPConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// StorageCfg описывает, где хранится сохранённое состояние каталога.
type StorageCfg struct {
	Driver string // bolt | redis
	Key    string // единый ключ блоба состояния
}

type BoltCfg struct {
	Path    string
	Timeout time.Duration // ожидание файловой блокировки при открытии
}

type RedisCfg struct {
	Addr        string
	Password    string
	User        string
	DB          int
	MaxRetries  int
	DialTimeout time.Duration
	Timeout     time.Duration
}

type PGDBCfg struct {
	Host           string
	Port           string
	User           string
	Password       string
	DBName         string
	SSLMode        string
	MigrationsPath string
}

// MinIOCfg — архив снимков каталога. Пустой endpoint отключает архив.
type MinIOCfg struct {
	MinioEndpoint     string
	BucketName        string
	MinioRootUser     string
	MinioRootPassword string
	MinioUseSSL       bool
	SnapshotPrefix    string
	BackupCron        string // пусто — периодический бэкап выключен
}

// KafkaCfg — события изменения каталога. Пустой список брокеров отключает публикацию.
type KafkaCfg struct {
	Topic             string
	Brokers           []string
	NetworkMode       string
	Partitions        int
	ReplicationFactor int
}

type CatalogCfg struct {
	SeedPath   string // пусто — встроенный сид
	EditPolicy string // marker | provenance
	EditMarker string
	NodeID     int64 // узел snowflake для идентификаторов продуктов
}

type MessagesCfg struct {
	MaxRetries int
	BaseDelay  time.Duration
	MaxDelay   time.Duration
}

// Enabled сообщает, настроен ли архив снимков.
func (m *MinIOCfg) Enabled() bool {
	return m != nil && m.MinioEndpoint != ""
}

// Enabled сообщает, настроена ли публикация событий.
func (k *KafkaCfg) Enabled() bool {
	return k != nil && len(k.Brokers) > 0
}

// DSN строка подключения к PostgreSQL.
func (p *PGDBCfg) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.DBName, p.SSLMode,
	)
}

// Load читает .env (если есть) и переменные окружения. Возвращает ошибку в случае неудачи.
func Load(log logger.Logger) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Debugf(".env file not found, using environment variables")
	}

	http, err := loadHTTPConfig(log)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	storage, err := loadStorageCfg()
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	bolt, err := loadBoltCfg(log)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	redis, err := loadRedisCfg(log)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	db, err := loadPGDBCfg(log)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	minio, err := loadMinIOCfg(log)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	kafka, err := loadKafkaCfg()
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	catalog, err := loadCatalogCfg()
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	messages, err := loadMessagesCfg()
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return &Config{
		Log:      loadLogCfg(),
		Http:     http,
		Storage:  storage,
		Bolt:     bolt,
		Redis:    redis,
		Db:       db,
		Minio:    minio,
		Kafka:    kafka,
		Catalog:  catalog,
		Messages: messages,
	}, nil
}

func loadLogCfg() *LogCfg {
	return &LogCfg{
		Mode:     getEnvOrDefault("LOG_MODE", "development"),
		Filename: getEnv("LOG_FILE"),
	}
}

func loadHTTPConfig(log logger.Logger) (*HTTPConfig, error) {
	const (
		defaultPort         = "8080"
		defaultReadTimeout  = 5 * time.Second
		defaultWriteTimeout = 10 * time.Second
		defaultIdleTimeout  = 60 * time.Second
	)

	readTimeout, err := parseDurationEnv("HTTP_READ_TIMEOUT", defaultReadTimeout)
	if err != nil {
		log.Errorf(err, "invalid HTTP_READ_TIMEOUT")
		return nil, err
	}

	writeTimeout, err := parseDurationEnv("HTTP_WRITE_TIMEOUT", defaultWriteTimeout)
	if err != nil {
		log.Errorf(err, "invalid HTTP_WRITE_TIMEOUT")
		return nil, err
	}

	idleTimeout, err := parseDurationEnv("KEEP_ALIVE", defaultIdleTimeout)
	if err != nil {
		log.Errorf(err, "invalid KEEP_ALIVE")
		return nil, err
	}

	return &HTTPConfig{
		Port:         getEnvOrDefault("HTTP_PORT", defaultPort),
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
		IdleTimeout:  idleTimeout,
	}, nil
}

func loadStorageCfg() (*StorageCfg, error) {
	const (
		defaultDriver = StorageDriverBolt
		defaultKey    = "probagno-products"
	)

	driver := strings.ToLower(getEnvOrDefault("STORAGE_DRIVER", defaultDriver))
	if driver != StorageDriverBolt && driver != StorageDriverRedis {
		return nil, e.Wrap(driver, e.ErrUnknownStorageDriver)
	}

	return &StorageCfg{
		Driver: driver,
		Key:    getEnvOrDefault("STORAGE_KEY", defaultKey),
	}, nil
}

func loadBoltCfg(log logger.Logger) (*BoltCfg, error) {
	const (
		defaultPath    = "data/catalog.db"
		defaultTimeout = time.Second
	)

	timeout, err := parseDurationEnv("BOLT_TIMEOUT", defaultTimeout)
	if err != nil {
		log.Errorf(err, "invalid BOLT_TIMEOUT")
		return nil, err
	}

	return &BoltCfg{
		Path:    getEnvOrDefault("BOLT_PATH", defaultPath),
		Timeout: timeout,
	}, nil
}

func loadRedisCfg(log logger.Logger) (*RedisCfg, error) {
	const (
		defaultAddr         = "localhost:6379"
		defaultDB           = 0
		defaultMaxRetries   = 3
		defaultDialTimeout  = 5 * time.Second
		defaultReadTimeout  = 3 * time.Second
		defaultWriteTimeout = 3 * time.Second
	)

	db, err := parseIntEnv("REDIS_DB_ID", defaultDB)
	if err != nil {
		log.Errorf(err, "invalid REDIS_DB_ID")
		return nil, err
	}

	maxRetries, err := parseIntEnv("REDIS_MAX_RETRIES", defaultMaxRetries)
	if err != nil {
		log.Errorf(err, "invalid REDIS_MAX_RETRIES")
		return nil, err
	}

	dialTimeout, err := parseDurationEnv("REDIS_DIAL_TIMEOUT", defaultDialTimeout)
	if err != nil {
		log.Errorf(err, "invalid REDIS_DIAL_TIMEOUT")
		return nil, err
	}

	readTimeout, err := parseDurationEnv("REDIS_READ_TIMEOUT", defaultReadTimeout)
	if err != nil {
		log.Errorf(err, "invalid REDIS_READ_TIMEOUT")
		return nil, err
	}

	writeTimeout, err := parseDurationEnv("REDIS_WRITE_TIMEOUT", defaultWriteTimeout)
	if err != nil {
		log.Errorf(err, "invalid REDIS_WRITE_TIMEOUT")
		return nil, err
	}

	timeout := readTimeout
	if writeTimeout > timeout {
		timeout = writeTimeout
	}

	return &RedisCfg{
		Addr:        getEnvOrDefault("REDIS_ADDR", defaultAddr),
		Password:    getEnv("REDIS_PASSWORD"),
		User:        getEnv("REDIS_USER"),
		DB:          db,
		MaxRetries:  maxRetries,
		DialTimeout: dialTimeout,
		Timeout:     timeout,
	}, nil
}

func loadPGDBCfg(log logger.Logger) (*PGDBCfg, error) {
	const (
		defaultHost       = "localhost"
		defaultPort       = "5432"
		defaultSSLMode    = "disable"
		defaultMigrations = "file://db/migrations"
	)

	user := getEnv("POSTGRES_USER")
	if user == "" {
		err := fmt.Errorf("POSTGRES_USER is required")
		log.Errorf(err, "missing POSTGRES_USER")
		return nil, err
	}

	password := getEnv("POSTGRES_PASSWORD")
	if password == "" {
		err := fmt.Errorf("POSTGRES_PASSWORD is required")
		log.Errorf(err, "missing POSTGRES_PASSWORD")
		return nil, err
	}

	dbName := getEnv("POSTGRES_DB")
	if dbName == "" {
		err := fmt.Errorf("POSTGRES_DB is required")
		log.Errorf(err, "missing POSTGRES_DB")
		return nil, err
	}

	return &PGDBCfg{
		Host:           getEnvOrDefault("POSTGRES_HOST", defaultHost),
		Port:           getEnvOrDefault("POSTGRES_PORT", defaultPort),
		User:           user,
		Password:       password,
		DBName:         dbName,
		SSLMode:        getEnvOrDefault("SSL_MODE", defaultSSLMode),
		MigrationsPath: getEnvOrDefault("MIGRATIONS_PATH", defaultMigrations),
	}, nil
}

func loadMinIOCfg(log logger.Logger) (*MinIOCfg, error) {
	const (
		defaultUseSSL = false
		defaultBucket = "catalog-snapshots"
		defaultPrefix = "snapshots"
	)

	useSSL, err := strconv.ParseBool(getEnvOrDefault("MINIO_USE_SSL", strconv.FormatBool(defaultUseSSL)))
	if err != nil {
		log.Errorf(err, "invalid MINIO_USE_SSL")
		return nil, err
	}

	return &MinIOCfg{
		MinioEndpoint:     getEnv("MINIO_ENDPOINT"),
		BucketName:        getEnvOrDefault("BUCKET_NAME", defaultBucket),
		MinioRootUser:     getEnv("MINIO_ROOT_USER"),
		MinioRootPassword: getEnv("MINIO_ROOT_PASSWORD"),
		MinioUseSSL:       useSSL,
		SnapshotPrefix:    getEnvOrDefault("SNAPSHOT_PREFIX", defaultPrefix),
		BackupCron:        getEnv("BACKUP_CRON"),
	}, nil
}

func loadKafkaCfg() (*KafkaCfg, error) {
	const (
		defaultTopic             = "catalog-events"
		defaultPartitions        = 3
		defaultReplicationFactor = 1
		defaultNetworkMode       = "tcp"
	)

	var brokers []string
	if brokerStr := getEnv("KAFKA_BROKERS"); brokerStr != "" {
		for _, b := range strings.Split(brokerStr, ",") {
			if b = strings.TrimSpace(b); b != "" {
				brokers = append(brokers, b)
			}
		}
	}

	partitions, err := parseIntEnv("KAFKA_PARTITIONS", defaultPartitions)
	if err != nil {
		return nil, e.Wrap("KAFKA_PARTITIONS", err)
	}

	replicationFactor, err := parseIntEnv("REPLICATION_FACTOR", defaultReplicationFactor)
	if err != nil {
		return nil, e.Wrap("REPLICATION_FACTOR", err)
	}

	return &KafkaCfg{
		Brokers:           brokers,
		Topic:             getEnvOrDefault("KAFKA_TOPIC", defaultTopic),
		Partitions:        partitions,
		ReplicationFactor: replicationFactor,
		NetworkMode:       getEnvOrDefault("KAFKA_NETWORK_MODE", defaultNetworkMode),
	}, nil
}

func loadCatalogCfg() (*CatalogCfg, error) {
	const (
		defaultPolicy = EditPolicyMarker
		defaultMarker = "Έπιπλο"
		defaultNodeID = 1
	)

	policy := strings.ToLower(getEnvOrDefault("CATALOG_EDIT_POLICY", defaultPolicy))
	if policy != EditPolicyMarker && policy != EditPolicyProvenance {
		return nil, e.Wrap(policy, e.ErrUnknownEditPolicy)
	}

	nodeID, err := parseIntEnv("SNOWFLAKE_NODE", defaultNodeID)
	if err != nil {
		return nil, e.Wrap("SNOWFLAKE_NODE", err)
	}

	return &CatalogCfg{
		SeedPath:   getEnv("SEED_PATH"),
		EditPolicy: policy,
		EditMarker: getEnvOrDefault("CATALOG_EDIT_MARKER", defaultMarker),
		NodeID:     int64(nodeID),
	}, nil
}

func loadMessagesCfg() (*MessagesCfg, error) {
	const (
		defaultMaxRetries = 3
		defaultBaseDelay  = 200 * time.Millisecond
		defaultMaxDelay   = 2 * time.Second
	)

	maxRetries, err := parseIntEnv("MESSAGES_MAX_RETRIES", defaultMaxRetries)
	if err != nil {
		return nil, e.Wrap("MESSAGES_MAX_RETRIES", err)
	}

	baseDelay, err := parseDurationEnv("MESSAGES_RETRY_BASE", defaultBaseDelay)
	if err != nil {
		return nil, e.Wrap("MESSAGES_RETRY_BASE", err)
	}

	maxDelay, err := parseDurationEnv("MESSAGES_RETRY_MAX", defaultMaxDelay)
	if err != nil {
		return nil, e.Wrap("MESSAGES_RETRY_MAX", err)
	}

	return &MessagesCfg{
		MaxRetries: maxRetries,
		BaseDelay:  baseDelay,
		MaxDelay:   maxDelay,
	}, nil
}

// getEnv возвращает значение переменной окружения.
// Возвращает пустую строку, если переменная не задана.
func getEnv(key string) string {
	return os.Getenv(key)
}

// getEnvOrDefault возвращает значение переменной окружения или значение по умолчанию.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}

	return defaultValue
}

// parseDurationEnv считывает длительность или возвращает значение по умолчанию.
func parseDurationEnv(key string, defaultValue time.Duration) (time.Duration, error) {
	if v := os.Getenv(key); v != "" {
		return time.ParseDuration(v)
	}

	return defaultValue, nil
}

func parseIntEnv(key string, defaultValue int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultValue, nil
	}

	intValue, err := strconv.Atoi(v)
	if err != nil {
		return defaultValue, e.ErrIncorrectEnvVariable
	}

	return intValue, nil
}
