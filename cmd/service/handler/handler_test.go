package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/exb-museum/exb-admin/app/response"
	"github.com/exb-museum/exb-admin/pkg/i18n"
	"github.com/exb-museum/exb-admin/pkg/types"
)

func setupEngine() *gin.Engine {
	gin.SetMode(gin.TestMode)
	e := gin.New()
	e.Use(response.ProvideResponseLocalizer(i18n.NewLocalizer("en", "zh-CN")), response.NewResponse())
	return e
}

func serve(t *testing.T, e *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	e.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestRespondGetInvalidID(t *testing.T) {
	e := setupEngine()
	called := false
	e.GET("/museum/:museumId", func(c *gin.Context) {
		respondGet(c, "museumId", func(id int64) (*types.ExbMuseum, error) {
			called = true
			return &types.ExbMuseum{MuseumID: id}, nil
		})
	})

	body := decode(t, serve(t, e, httptest.NewRequest(http.MethodGet, "/museum/abc", nil)))
	assert.EqualValues(t, http.StatusBadRequest, body["code"])
	assert.False(t, called)

	body = decode(t, serve(t, e, httptest.NewRequest(http.MethodGet, "/museum/7", nil)))
	assert.EqualValues(t, http.StatusOK, body["code"])
	assert.True(t, called)
}

func TestRespondDeleteSplitsIDs(t *testing.T) {
	e := setupEngine()
	var got []int64
	e.DELETE("/hall/:hallIds", func(c *gin.Context) {
		respondDelete(c, "hallIds", func(ids []int64) error {
			got = ids
			return nil
		})
	})

	body := decode(t, serve(t, e, httptest.NewRequest(http.MethodDelete, "/hall/3,5,8", nil)))
	assert.EqualValues(t, http.StatusOK, body["code"])
	assert.Equal(t, []int64{3, 5, 8}, got)
}

func TestRespondTableNilList(t *testing.T) {
	e := setupEngine()
	e.GET("/list", func(c *gin.Context) {
		var list []types.ExbMuseumHall
		respondTable(c, list, 0, nil)
	})

	body := decode(t, serve(t, e, httptest.NewRequest(http.MethodGet, "/list", nil)))
	assert.Equal(t, []any{}, body["rows"])
	assert.EqualValues(t, 0, body["total"])
}

func TestFormOrQuery(t *testing.T) {
	e := setupEngine()
	var status *int
	var title string
	e.POST("/export", func(c *gin.Context) {
		status = paramIntPtr(c, "status")
		title = formOrQuery(c, "title")
		c.Status(http.StatusOK)
	})

	form := url.Values{"status": {"1"}, "title": {"from-form"}}
	req := httptest.NewRequest(http.MethodPost, "/export?title=from-query", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	serve(t, e, req)

	require.NotNil(t, status)
	assert.Equal(t, 1, *status)
	assert.Equal(t, "from-form", title)

	req = httptest.NewRequest(http.MethodPost, "/export?status=x", nil)
	serve(t, e, req)
	assert.Nil(t, status)
}

func TestOperLogListOptions(t *testing.T) {
	e := setupEngine()
	var opts types.ListSysOperLogOptions
	e.GET("/operlog", func(c *gin.Context) {
		opts = operLogListOptions(c)
		c.Status(http.StatusOK)
	})

	serve(t, e, httptest.NewRequest(http.MethodGet, "/operlog?businessTypes=1&businessTypes=x&businessTypes=3&operIp=10.0.0.1", nil))
	assert.Equal(t, []int{1, 3}, opts.BusinessTypes)
	assert.Equal(t, "10.0.0.1", opts.OperIP)
	assert.Nil(t, opts.Status)

	serve(t, e, httptest.NewRequest(http.MethodGet, "/operlog?businessType=2&status=0", nil))
	assert.Equal(t, []int{2}, opts.BusinessTypes)
	require.NotNil(t, opts.Status)
	assert.Equal(t, 0, *opts.Status)
}

func TestAttachmentHeaders(t *testing.T) {
	e := setupEngine()
	e.GET("/download", func(c *gin.Context) {
		attachment(c, "展品 列表.xlsx", MIME_XLSX, []byte("data"))
	})

	w := serve(t, e, httptest.NewRequest(http.MethodGet, "/download", nil))
	assert.Equal(t, MIME_XLSX, w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "attachment; filename*=utf-8''")
	assert.Equal(t, url.PathEscape("展品 列表.xlsx"), w.Header().Get("download-filename"))
	assert.Equal(t, "data", w.Body.String())
}
