package middleware

import (
	"bytes"
	"context"
	"io"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/exb-museum/exb-admin/app/core"
	v1 "github.com/exb-museum/exb-admin/app/logic/v1"
	"github.com/exb-museum/exb-admin/app/response"
	"github.com/exb-museum/exb-admin/pkg/errors"
	"github.com/exb-museum/exb-admin/pkg/i18n"
	"github.com/exb-museum/exb-admin/pkg/security"
	"github.com/exb-museum/exb-admin/pkg/types/protocol"
)

const (
	WX_TIMESTAMP_HEADER = "X-Timestamp"
	WX_NONCE_HEADER     = "X-Nonce"
	WX_SIGN_HEADER      = "X-Sign"
)

func wxUnauthorized(trace, message string, err error) error {
	return errors.New(trace, message, err).Code(http.StatusUnauthorized)
}

// NonceStore 占用 nonce, 已被占用时返回 false
type NonceStore interface {
	SetNX(ctx context.Context, key, value string, expiration time.Duration) (bool, error)
}

// WxAuth 小程序接口: 校验访问令牌, 时间戳窗口, 一次性 nonce 与请求签名
func WxAuth(appCore *core.Core) gin.HandlerFunc {
	return WxAuthWith([]byte(appCore.Cfg().Token.Secret), appCore.Cfg().Wechat.SignWindow(), appCore.Cache())
}

func WxAuthWith(secret []byte, window time.Duration, nonces NonceStore) gin.HandlerFunc {
	trace := "middleware.WxAuth"
	return func(c *gin.Context) {
		token := security.TrimTokenPrefix(c.GetHeader(security.TOKEN_KEY))
		if token == "" {
			response.APIError(c, wxUnauthorized(trace, i18n.ERROR_TOKEN_EXPIRED, nil))
			return
		}
		claims, err := security.ParseWxToken(token, secret)
		if err != nil {
			response.APIError(c, wxUnauthorized(trace, i18n.ERROR_TOKEN_EXPIRED, err))
			return
		}

		timestamp, err := strconv.ParseInt(c.GetHeader(WX_TIMESTAMP_HEADER), 10, 64)
		if err != nil {
			response.APIError(c, wxUnauthorized(trace, i18n.ERROR_SIGN_INVALID, err))
			return
		}
		if !WithinWindow(time.Now(), timestamp, window) {
			response.APIError(c, wxUnauthorized(trace, i18n.ERROR_SIGN_INVALID, nil))
			return
		}

		nonce := c.GetHeader(WX_NONCE_HEADER)
		if nonce == "" {
			response.APIError(c, wxUnauthorized(trace, i18n.ERROR_SIGN_INVALID, nil))
			return
		}

		body, err := readBody(c)
		if err != nil {
			response.APIError(c, wxUnauthorized(trace, i18n.ERROR_SIGN_INVALID, err))
			return
		}
		if !security.VerifyWxSign(c.GetHeader(WX_SIGN_HEADER), c.Request.Method, c.Request.URL.Path, body, timestamp, nonce, token) {
			response.APIError(c, wxUnauthorized(trace, i18n.ERROR_SIGN_INVALID, nil))
			return
		}

		// nonce 在签名校验通过后才占用
		ok, err := nonces.SetNX(c, protocol.GenWxNonceKey(claims.OpenID, nonce), "1", window)
		if err != nil {
			response.APIError(c, errors.New(trace, i18n.ERROR_INTERNAL, err))
			return
		}
		if !ok {
			response.APIError(c, wxUnauthorized(trace, i18n.ERROR_SIGN_INVALID, nil))
			return
		}

		c.Set(v1.WX_CLAIMS_CONTEXT_KEY, claims)
		c.Set(response.OperatorKey, claims.OpenID)
	}
}

// WithinWindow 时间戳单位为秒
func WithinWindow(now time.Time, timestamp int64, window time.Duration) bool {
	return math.Abs(float64(now.Unix()-timestamp)) <= window.Seconds()
}

func readBody(c *gin.Context) (string, error) {
	if c.Request.Body == nil {
		return "", nil
	}
	raw, err := io.ReadAll(c.Request.Body)
	if err != nil {
		return "", err
	}
	c.Request.Body = io.NopCloser(bytes.NewReader(raw))
	return string(raw), nil
}
