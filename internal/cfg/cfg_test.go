package cfg

import (
	"testing"
	"time"

	"github.com/probagno/go-backend/pkg/e"
	"github.com/probagno/go-backend/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setBaseEnv очищает переменные, влияющие на конфиг, и задаёт обязательные.
func setBaseEnv(t *testing.T) {
	t.Helper()

	for _, key := range []string{
		"STORAGE_DRIVER", "STORAGE_KEY", "BOLT_PATH", "BOLT_TIMEOUT",
		"KAFKA_BROKERS", "MINIO_ENDPOINT", "BACKUP_CRON",
		"CATALOG_EDIT_POLICY", "CATALOG_EDIT_MARKER", "SNOWFLAKE_NODE", "SEED_PATH",
		"MESSAGES_MAX_RETRIES", "MESSAGES_RETRY_BASE", "MESSAGES_RETRY_MAX",
		"HTTP_PORT", "HTTP_READ_TIMEOUT",
	} {
		t.Setenv(key, "")
	}

	t.Setenv("POSTGRES_USER", "probagno")
	t.Setenv("POSTGRES_PASSWORD", "secret")
	t.Setenv("POSTGRES_DB", "probagno")
}

func TestLoad_Defaults(t *testing.T) {
	setBaseEnv(t)

	c, err := Load(logger.NewNop())
	require.NoError(t, err)

	assert.Equal(t, "8080", c.Http.Port)
	assert.Equal(t, StorageDriverBolt, c.Storage.Driver)
	assert.Equal(t, "probagno-products", c.Storage.Key)
	assert.Equal(t, "data/catalog.db", c.Bolt.Path)
	assert.Equal(t, EditPolicyMarker, c.Catalog.EditPolicy)
	assert.Equal(t, "Έπιπλο", c.Catalog.EditMarker)
	assert.Equal(t, int64(1), c.Catalog.NodeID)
	assert.Equal(t, 3, c.Messages.MaxRetries)
	assert.Equal(t, 200*time.Millisecond, c.Messages.BaseDelay)
	assert.False(t, c.Kafka.Enabled())
	assert.False(t, c.Minio.Enabled())
	assert.Equal(t, "host=localhost port=5432 user=probagno password=secret dbname=probagno sslmode=disable", c.Db.DSN())
}

func TestLoad_Overrides(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("STORAGE_DRIVER", "Redis")
	t.Setenv("KAFKA_BROKERS", "kafka-1:9092, ,kafka-2:9092")
	t.Setenv("MINIO_ENDPOINT", "minio:9000")
	t.Setenv("CATALOG_EDIT_POLICY", "provenance")
	t.Setenv("MESSAGES_RETRY_BASE", "50ms")

	c, err := Load(logger.NewNop())
	require.NoError(t, err)

	assert.Equal(t, StorageDriverRedis, c.Storage.Driver)
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, c.Kafka.Brokers)
	assert.True(t, c.Kafka.Enabled())
	assert.True(t, c.Minio.Enabled())
	assert.Equal(t, EditPolicyProvenance, c.Catalog.EditPolicy)
	assert.Equal(t, 50*time.Millisecond, c.Messages.BaseDelay)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		value   string
		wantErr error
	}{
		{name: "unknown storage driver", key: "STORAGE_DRIVER", value: "sqlite", wantErr: e.ErrUnknownStorageDriver},
		{name: "unknown edit policy", key: "CATALOG_EDIT_POLICY", value: "newest", wantErr: e.ErrUnknownEditPolicy},
		{name: "non-numeric node", key: "SNOWFLAKE_NODE", value: "one", wantErr: e.ErrIncorrectEnvVariable},
		{name: "non-numeric retries", key: "MESSAGES_MAX_RETRIES", value: "many", wantErr: e.ErrIncorrectEnvVariable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setBaseEnv(t)
			t.Setenv(tt.key, tt.value)

			_, err := Load(logger.NewNop())
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestLoad_MissingPostgres(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("POSTGRES_USER", "")

	_, err := Load(logger.NewNop())
	assert.Error(t, err)
}
