package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadEnvConfig(t *testing.T) {
	t.Setenv("POSTGRES_HOST", "db")
	t.Setenv("POSTGRES_USER", "exb")
	t.Setenv("POSTGRES_PASSWORD", "exb123")
	t.Setenv("MINIO_BUCKET", "")
	t.Setenv("POSTGRES_PORT", "6543")
	t.Setenv("POSTGRES_DB", "museum")

	c := LoadEnvConfig()
	assert.Equal(t, "postgres://exb:exb123@db:6543/museum?sslmode=disable", c.PostgresDSN())
	assert.Contains(t, c.ToEnvFile(), "POSTGRES_PORT=6543\n")
	assert.Equal(t, "exb-museum", c.MinioBucket)
}
