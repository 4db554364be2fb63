package v1

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/exb-museum/exb-admin/pkg/errors"
	"github.com/exb-museum/exb-admin/pkg/reader/webpage"
)

func TestResolveLink(t *testing.T) {
	base := "https://museum.example.com/news/index.html"
	assert.Equal(t, "https://museum.example.com/news/1.html", ResolveLink(base, "1.html"))
	assert.Equal(t, "https://museum.example.com/detail/2", ResolveLink(base, "/detail/2"))
	assert.Equal(t, "https://other.example.com/a", ResolveLink(base, "https://other.example.com/a"))
}

func TestCrawlError(t *testing.T) {
	ce, ok := errors.As(crawlError("test", webpage.ErrInvalidURL))
	require.True(t, ok)
	assert.Equal(t, "无效的URL格式，请确保以http://或https://开头", ce.Message())

	ce, ok = errors.As(crawlError("test", fmt.Errorf("timeout")))
	require.True(t, ok)
	assert.Equal(t, "处理过程中发生错误: timeout", ce.Message())
}
