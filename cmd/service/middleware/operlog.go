package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/exb-museum/exb-admin/app/core"
	v1 "github.com/exb-museum/exb-admin/app/logic/v1"
	"github.com/exb-museum/exb-admin/app/response"
	"github.com/exb-museum/exb-admin/pkg/errors"
	"github.com/exb-museum/exb-admin/pkg/types"
	"github.com/exb-museum/exb-admin/pkg/utils"
)

const (
	OPER_PARAM_MAX_LENGTH = 2000

	OPER_STATUS_SUCCESS = 0
	OPER_STATUS_FAIL    = 1

	// 后台用户
	OPERATOR_TYPE_MANAGE = 1
)

// 不记录到操作日志中的敏感字段
var excludeParamKeys = []string{"password", "oldPassword", "newPassword", "confirmPassword"}

// OperLog 记录后台写操作, 日志通过队列异步入库
func OperLog(appCore *core.Core, title string, businessType types.BusinessType) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		param := requestParam(c)

		c.Next()

		record := types.SysOperLog{
			Title:         title,
			BusinessType:  int(businessType),
			Method:        c.HandlerName(),
			RequestMethod: c.Request.Method,
			OperatorType:  OPERATOR_TYPE_MANAGE,
			OperURL:       utils.Substr(c.Request.URL.Path, 255),
			OperIP:        c.ClientIP(),
			OperParam:     utils.Substr(param, OPER_PARAM_MAX_LENGTH),
			Status:        OPER_STATUS_SUCCESS,
			OperTime:      types.Now(),
			CostTime:      time.Since(start).Milliseconds(),
		}
		client := v1.ParseClientInfo(c)
		record.OperLocation = client.Location
		if user, ok := v1.InjectLoginUser(c); ok {
			record.OperName = user.UserName()
			record.DeptName = user.DeptName
		}
		if res, ok := c.Get(response.ResultKey); ok {
			if raw, err := json.Marshal(res); err == nil {
				record.JSONResult = utils.Substr(string(raw), OPER_PARAM_MAX_LENGTH)
			}
		}
		if val, ok := c.Get(response.ErrorKey); ok {
			if err, ok := val.(error); ok && err != nil {
				record.Status = OPER_STATUS_FAIL
				record.ErrorMsg = utils.Substr(errorMessage(c, err), OPER_PARAM_MAX_LENGTH)
			}
		}

		v1.RecordOperLog(appCore, record)
	}
}

func errorMessage(c *gin.Context, err error) string {
	if ce, ok := errors.As(err); ok {
		return response.Translate(c, ce.Message())
	}
	return err.Error()
}

// requestParam 请求体读取后需要放回, 上传文件的请求只记录 query
func requestParam(c *gin.Context) string {
	if c.Request.Method == http.MethodGet || c.Request.Method == http.MethodDelete ||
		strings.HasPrefix(c.ContentType(), gin.MIMEMultipartPOSTForm) {
		return paramsOf(c)
	}
	if c.Request.Body == nil {
		return paramsOf(c)
	}
	raw, err := io.ReadAll(c.Request.Body)
	if err != nil {
		return ""
	}
	c.Request.Body = io.NopCloser(bytes.NewReader(raw))
	if len(raw) == 0 {
		return paramsOf(c)
	}
	return MaskParam(raw)
}

func paramsOf(c *gin.Context) string {
	params := map[string]any{}
	for _, p := range c.Params {
		params[p.Key] = p.Value
	}
	for k, v := range c.Request.URL.Query() {
		if len(v) == 1 {
			params[k] = v[0]
		} else {
			params[k] = v
		}
	}
	if len(params) == 0 {
		return ""
	}
	raw, _ := json.Marshal(params)
	return string(raw)
}

// MaskParam 去掉请求体中的密码字段, 非 json 请求体原样返回
func MaskParam(raw []byte) string {
	var body map[string]any
	if err := json.Unmarshal(raw, &body); err != nil {
		return string(raw)
	}
	for _, k := range excludeParamKeys {
		delete(body, k)
	}
	res, err := json.Marshal(body)
	if err != nil {
		return string(raw)
	}
	return string(res)
}
