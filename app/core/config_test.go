package core

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSetupConfigFromEnv(t *testing.T) {
	addr := "localhost:11111"
	t.Setenv("EXB_API_SERVICE_ADDRESS", addr)
	t.Setenv("EXB_TOKEN_EXPIRE_MINUTES", "45")
	t.Setenv("EXB_REDIS_DB", "3")

	cfg := LoadBaseConfigFromENV()

	assert.Equal(t, addr, cfg.Addr)
	assert.Equal(t, 45*time.Minute, cfg.Token.Expire())
	assert.Equal(t, 3, cfg.Redis.DB)
}

func TestConfigFromComposeEnv(t *testing.T) {
	t.Setenv("EXB_API_POSTGRESQL_DSN", "")
	t.Setenv("EXB_REDIS_ADDR", "")
	t.Setenv("EXB_OBJECT_STORAGE_DRIVER", "s3")
	t.Setenv("POSTGRES_HOST", "db")
	t.Setenv("POSTGRES_PORT", "5433")
	t.Setenv("REDIS_ADDR", "redis:6379")
	t.Setenv("MINIO_BUCKET", "museum")

	cfg := LoadBaseConfigFromENV()

	assert.Contains(t, cfg.Postgres.DSN, "@db:5433/")
	assert.Equal(t, "redis:6379", cfg.Redis.Addr)
	if assert.NotNil(t, cfg.ObjectStorage.S3) {
		assert.Equal(t, "museum", cfg.ObjectStorage.S3.Bucket)
		assert.True(t, cfg.ObjectStorage.S3.UsePathStyle)
	}

	t.Setenv("EXB_API_POSTGRESQL_DSN", "postgres://explicit")
	cfg = LoadBaseConfigFromENV()
	assert.Equal(t, "postgres://explicit", cfg.Postgres.DSN)
}

func TestConfigDefaults(t *testing.T) {
	var cfg CoreConfig
	assert.Equal(t, 30*time.Minute, cfg.Token.Expire())
	assert.Equal(t, "Authorization", cfg.Token.HeaderKey())
	assert.Equal(t, int64(50<<20), cfg.Upload.MaxSize())
	assert.Contains(t, cfg.Upload.Extensions(), "xlsx")
	assert.Equal(t, os.TempDir(), cfg.Upload.DownloadDir())
	assert.Equal(t, 5*time.Minute, cfg.Wechat.SignWindow())
	assert.Equal(t, 24*time.Hour, cfg.Wechat.TokenExpire())
}

func TestLoadTomlConfig(t *testing.T) {
	raw := `
addr = ":8080"

[token]
secret = "abcdefghijklmnopqrstuvwxyz"
expire_minutes = 60

[upload]
allowed_extensions = ["png", "mp4"]

[object_storage]
driver = "local"
static_domain = "http://127.0.0.1:8080/profile"
[object_storage.local]
root = "/tmp/exb"

[custom_config]
name = "exb"
`
	f, err := os.CreateTemp(t.TempDir(), "*.toml")
	assert.NoError(t, err)
	_, err = f.WriteString(raw)
	assert.NoError(t, err)
	f.Close()

	cfg := MustLoadBaseConfig(f.Name())
	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, time.Hour, cfg.Token.Expire())
	assert.Equal(t, []string{"png", "mp4"}, cfg.Upload.Extensions())
	assert.Equal(t, "/tmp/exb", cfg.ObjectStorage.Local.Root)

	custom := NewCustomConfigPayload[struct {
		Name string `toml:"name"`
	}]()
	assert.NoError(t, cfg.LoadCustomConfig(&custom))
	assert.Equal(t, "exb", custom.CustomConfig.Name)
}

func TestRedisOptions(t *testing.T) {
	opts := RedisConfig{Addr: "127.0.0.1:6379", DB: 2}.universalOptions()
	assert.Equal(t, []string{"127.0.0.1:6379"}, opts.Addrs)
	assert.Equal(t, 2, opts.DB)
	assert.Equal(t, 10, opts.PoolSize)

	opts = RedisConfig{Cluster: true, ClusterAddrs: []string{"a:1", "b:2"}, DB: 2, ReadTimeout: 9}.universalOptions()
	assert.Equal(t, []string{"a:1", "b:2"}, opts.Addrs)
	assert.Zero(t, opts.DB)
	assert.Equal(t, 9*time.Second, opts.ReadTimeout)
}
