package core

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/exb-museum/exb-admin/pkg/testutils"
)

func TestSetupFromENV(t *testing.T) {
	testutils.RequireEnv(t, "EXB_API_POSTGRESQL_DSN", "EXB_REDIS_ADDR")
	core := MustSetupCore(LoadBaseConfigFromENV())
	assert.NotNil(t, core)
	assert.NotNil(t, core.Locker())
}

func TestParseRedisInfo(t *testing.T) {
	raw := "# Server\r\nredis_version:7.2.4\r\nuptime_in_days:3\r\n\r\n# Commandstats\r\ncmdstat_get:calls=21,usec=175,usec_per_call=8.33\r\n"
	info := ParseRedisInfo(raw)
	assert.Equal(t, "7.2.4", info["redis_version"])
	assert.Equal(t, "3", info["uptime_in_days"])
	assert.Equal(t, "calls=21,usec=175,usec_per_call=8.33", info["cmdstat_get"])
	assert.Len(t, info, 3)
}
