package wechat

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCode2Session(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/sns/jscode2session", r.URL.Path)
		w.Header().Set("Content-Type", "text/plain")
		switch r.URL.Query().Get("js_code") {
		case "good":
			assert.Equal(t, "wx123", r.URL.Query().Get("appid"))
			assert.Equal(t, "authorization_code", r.URL.Query().Get("grant_type"))
			_, _ = w.Write([]byte(`{"openid":"o-1","session_key":"sk","unionid":"u-1"}`))
		default:
			_, _ = w.Write([]byte(`{"errcode":40029,"errmsg":"invalid code"}`))
		}
	}))
	defer srv.Close()

	cli := NewClient(srv.URL, time.Second)

	sess, err := cli.Code2Session(context.Background(), "wx123", "secret", "good")
	require.NoError(t, err)
	assert.Equal(t, "o-1", sess.OpenID)
	assert.Equal(t, "sk", sess.SessionKey)
	assert.Equal(t, "u-1", sess.UnionID)

	_, err = cli.Code2Session(context.Background(), "wx123", "secret", "bad")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 40029, apiErr.Code)
}
