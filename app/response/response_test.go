package response

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/exb-museum/exb-admin/pkg/errors"
	"github.com/exb-museum/exb-admin/pkg/i18n"
)

func setupEngine() *gin.Engine {
	gin.SetMode(gin.TestMode)
	e := gin.New()
	e.Use(ProvideResponseLocalizer(i18n.NewLocalizer("en", "zh-CN")), NewResponse())
	return e
}

func doRequest(t *testing.T, e *gin.Engine, path, lang string) map[string]any {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if lang != "" {
		req.Header.Set("Accept-Language", lang)
	}
	w := httptest.NewRecorder()
	e.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-Id"))

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestEnvelope(t *testing.T) {
	e := setupEngine()
	e.GET("/table", func(c *gin.Context) {
		APITable(c, nil, 0)
	})
	e.GET("/ajax", func(c *gin.Context) {
		APIAjax(c, gin.H{"token": "abc"})
	})
	e.GET("/error", func(c *gin.Context) {
		APIError(c, errors.New("test", i18n.ERROR_UNAUTHORIZED, nil).Code(http.StatusUnauthorized))
	})
	e.GET("/service", func(c *gin.Context) {
		APIError(c, errors.Service("test", "部门停用，不允许新增"))
	})

	body := doRequest(t, e, "/table", "")
	assert.EqualValues(t, 200, body["code"])
	assert.Equal(t, "查询成功", body["msg"])
	assert.Equal(t, []any{}, body["rows"])
	assert.EqualValues(t, 0, body["total"])

	body = doRequest(t, e, "/ajax", "")
	assert.Equal(t, "操作成功", body["msg"])
	assert.Equal(t, "abc", body["token"])

	body = doRequest(t, e, "/error", "")
	assert.EqualValues(t, 401, body["code"])
	assert.Equal(t, "认证失败，无法访问系统资源", body["msg"])

	body = doRequest(t, e, "/error", "en")
	assert.EqualValues(t, 401, body["code"])
	assert.NotEqual(t, "认证失败，无法访问系统资源", body["msg"])

	body = doRequest(t, e, "/service", "")
	assert.EqualValues(t, 500, body["code"])
	assert.Equal(t, "部门停用，不允许新增", body["msg"])
}
