package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/exb-museum/exb-admin/app/response"
	"github.com/exb-museum/exb-admin/pkg/i18n"
	"github.com/exb-museum/exb-admin/pkg/security"
)

type memNonceStore struct {
	lock sync.Mutex
	keys map[string]bool
}

func (s *memNonceStore) SetNX(_ context.Context, key, _ string, _ time.Duration) (bool, error) {
	s.lock.Lock()
	defer s.lock.Unlock()
	if s.keys[key] {
		return false, nil
	}
	s.keys[key] = true
	return true, nil
}

const reservePath = "/wx/museum/activity/reserve"

func setupWxEngine(secret []byte) *gin.Engine {
	gin.SetMode(gin.TestMode)
	e := gin.New()
	e.Use(response.ProvideResponseLocalizer(i18n.NewLocalizer("en", "zh-CN")))
	e.POST(reservePath, WxAuthWith(secret, time.Minute, &memNonceStore{keys: map[string]bool{}}), func(c *gin.Context) {
		response.APISuccess(c, c.GetString(response.OperatorKey))
	})
	return e
}

func signedRequest(token, body, nonce string, timestamp int64) *http.Request {
	req := httptest.NewRequest(http.MethodPost, reservePath, strings.NewReader(body))
	req.Header.Set(security.TOKEN_KEY, security.TOKEN_PREFIX+token)
	req.Header.Set(WX_TIMESTAMP_HEADER, strconv.FormatInt(timestamp, 10))
	req.Header.Set(WX_NONCE_HEADER, nonce)
	req.Header.Set(WX_SIGN_HEADER, security.GenWxSign(http.MethodPost, reservePath, body, timestamp, nonce, token))
	return req
}

func wxCode(t *testing.T, e *gin.Engine, req *http.Request) (float64, map[string]any) {
	w := httptest.NewRecorder()
	e.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body["code"].(float64), body
}

func TestWxAuthRejectsReplayedNonce(t *testing.T) {
	secret := []byte("wx-secret")
	e := setupWxEngine(secret)
	token, err := security.GenerateWxToken(security.NewWxClaims("openid-1", "wx-app", 7, time.Hour), secret)
	require.NoError(t, err)

	body := `{"activityId":1,"phoneNumber":"13800000000"}`
	now := time.Now().Unix()

	code, res := wxCode(t, e, signedRequest(token, body, "n-1", now))
	assert.EqualValues(t, http.StatusOK, code)
	assert.Equal(t, "openid-1", res["data"])

	code, _ = wxCode(t, e, signedRequest(token, body, "n-1", now))
	assert.EqualValues(t, http.StatusUnauthorized, code)

	code, _ = wxCode(t, e, signedRequest(token, body, "n-2", now))
	assert.EqualValues(t, http.StatusOK, code)
}

func TestWxAuthRejectsBadRequests(t *testing.T) {
	secret := []byte("wx-secret")
	e := setupWxEngine(secret)
	token, err := security.GenerateWxToken(security.NewWxClaims("openid-2", "wx-app", 8, time.Hour), secret)
	require.NoError(t, err)
	body := `{"activityId":1}`
	now := time.Now().Unix()

	// 签名之后改动请求体
	req := signedRequest(token, body, "n-1", now)
	req.Body = http.NoBody
	code, _ := wxCode(t, e, req)
	assert.EqualValues(t, http.StatusUnauthorized, code)

	code, _ = wxCode(t, e, signedRequest(token, body, "n-2", now-600))
	assert.EqualValues(t, http.StatusUnauthorized, code)

	other, err := security.GenerateWxToken(security.NewWxClaims("openid-2", "wx-app", 8, time.Hour), []byte("other"))
	require.NoError(t, err)
	code, _ = wxCode(t, e, signedRequest(other, body, "n-3", now))
	assert.EqualValues(t, http.StatusUnauthorized, code)

	// 被拒绝的请求不占用 nonce
	code, _ = wxCode(t, e, signedRequest(token, body, "n-1", now))
	assert.EqualValues(t, http.StatusOK, code)
}
