package webpage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/exb-museum/exb-admin/pkg/testutils"
)

func TestValidateURL(t *testing.T) {
	assert.ErrorIs(t, ValidateURL(" "), ErrEmptyURL)
	assert.ErrorIs(t, ValidateURL("ftp://example.com"), ErrInvalidURL)
	assert.NoError(t, ValidateURL("https://example.com"))
}

func TestHTMLToMarkdown(t *testing.T) {
	res, err := HTMLToMarkdown(`<h1>馆藏精品</h1><p>青铜 <strong>鼎</strong></p><ul><li>一</li><li>二</li></ul>`, "https://museum.example.com/news")
	require.NoError(t, err)
	assert.Contains(t, res, "# 馆藏精品")
	assert.Contains(t, res, "**鼎**")
	assert.Contains(t, res, "- 一")
}

func TestScrape(t *testing.T) {
	env := testutils.RequireEnv(t, "TEST_EXB_CHROMIUM_WS_ENDPOINT")
	b := New(Options{WSEndpoint: env["TEST_EXB_CHROMIUM_WS_ENDPOINT"]})
	defer b.Close()

	page, err := b.Scrape(context.Background(), "https://example.com")
	require.NoError(t, err)
	assert.Equal(t, "success", page.Status)
	assert.NotEmpty(t, page.Markdown)
}
