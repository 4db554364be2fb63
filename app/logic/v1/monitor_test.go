package v1

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCommandStats(t *testing.T) {
	res := ParseCommandStats(map[string]string{
		"cmdstat_get":    "calls=10,usec=30,usec_per_call=3.00",
		"cmdstat_setex":  "calls=2,usec=8,usec_per_call=4.00",
		"redis_version":  "7.2.0",
		"cmdstat_broken": "usec=1",
	})
	require.Len(t, res, 3)
	assert.Equal(t, CommandStat{Name: "broken", Value: "0"}, res[0])
	assert.Equal(t, CommandStat{Name: "get", Value: "10"}, res[1])
	assert.Equal(t, CommandStat{Name: "setex", Value: "2"}, res[2])
}

func TestConvertFileSize(t *testing.T) {
	assert.Equal(t, "512 B", ConvertFileSize(512))
	assert.Equal(t, "1.5 KB", ConvertFileSize(1536))
	assert.Equal(t, "2.0 MB", ConvertFileSize(2<<20))
	assert.Equal(t, "3.2 GB", ConvertFileSize(3435973837))
}
