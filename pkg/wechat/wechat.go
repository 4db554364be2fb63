package wechat

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

const DefaultAPIBase = "https://api.weixin.qq.com"

// Session jscode2session 的返回
type Session struct {
	OpenID     string `json:"openid"`
	SessionKey string `json:"session_key"`
	UnionID    string `json:"unionid"`
	ErrCode    int    `json:"errcode"`
	ErrMsg     string `json:"errmsg"`
}

type APIError struct {
	Code int
	Msg  string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("wechat api error, errcode: %d, errmsg: %s", e.Code, e.Msg)
}

type Client struct {
	cli *resty.Client
}

func NewClient(apiBase string, timeout time.Duration) *Client {
	if apiBase == "" {
		apiBase = DefaultAPIBase
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Client{
		cli: resty.New().
			SetBaseURL(apiBase).
			SetTimeout(timeout).
			SetRetryCount(1),
	}
}

// Code2Session 使用小程序登录 code 换取 openid 与 session_key
func (c *Client) Code2Session(ctx context.Context, appID, appSecret, code string) (*Session, error) {
	var res Session
	resp, err := c.cli.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"appid":      appID,
			"secret":     appSecret,
			"js_code":    code,
			"grant_type": "authorization_code",
		}).
		// 微信接口返回 text/plain, 强制按 json 解析
		ForceContentType("application/json").
		SetResult(&res).
		Get("/sns/jscode2session")
	if err != nil {
		return nil, fmt.Errorf("request jscode2session: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("jscode2session http status %d", resp.StatusCode())
	}
	if res.ErrCode != 0 {
		return nil, &APIError{Code: res.ErrCode, Msg: res.ErrMsg}
	}
	if res.OpenID == "" {
		return nil, fmt.Errorf("jscode2session returned empty openid")
	}
	return &res, nil
}
