package response

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/exb-museum/exb-admin/pkg/errors"
	"github.com/exb-museum/exb-admin/pkg/i18n"
	"github.com/exb-museum/exb-admin/pkg/utils"
)

func ProvideResponseLocalizer(l i18n.Localizer) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("i18n", l)
	}
}

func InjectResponseLocalizer(c *gin.Context) i18n.Localizer {
	return c.MustGet("i18n").(i18n.Localizer)
}

// 常量定义
const (
	RequestIDKey = "request_id"
	// ResultKey 响应体, 操作日志中间件读取
	ResultKey = "response_result"
	// ErrorKey 处理失败时的错误
	ErrorKey = "response_error"
	// OperatorKey 当前登录用户名, 由鉴权中间件写入
	OperatorKey = "operator"
)

const (
	CODE_SUCCESS           = http.StatusOK
	CODE_ERROR             = http.StatusInternalServerError
	CODE_WARN              = 601
	CODE_UNAUTHORIZED      = http.StatusUnauthorized
	CODE_FORBIDDEN         = http.StatusForbidden
	CODE_BAD_REQUEST       = http.StatusBadRequest
	CODE_TOO_MANY_REQUESTS = http.StatusTooManyRequests
)

// EmptyStruct 空结构体
type EmptyStruct struct {
}

// TableResponse 分页列表
type TableResponse struct {
	Code  int    `json:"code"`
	Msg   string `json:"msg"`
	Rows  any    `json:"rows"`
	Total int64  `json:"total"`
}

func GetLangFromRequestOrDefault(c *gin.Context) string {
	lang := c.Request.Header.Get("Accept-Language")
	if lang == "zh" {
		lang = "zh-CN"
	}
	if i18n.ALLOW_LANG[lang] {
		return lang
	}
	for _, l := range utils.ParseAcceptLanguage(lang) {
		if i18n.ALLOW_LANG[l.Tag] {
			return l.Tag
		}
	}
	return i18n.DEFAULT_LANG
}

// Translate 消息可以是 i18n id, 也可以是直接展示的文本
func Translate(c *gin.Context, message string) string {
	return InjectResponseLocalizer(c).Get(GetLangFromRequestOrDefault(c), message)
}

// APIError api响应失败, http 状态码固定为 200, 错误码放在 code 中
func APIError(c *gin.Context, err error) {
	c.Abort()

	res := gin.H{}
	if cerrptr, ok := errors.As(err); !ok {
		res["code"] = CODE_ERROR
		res["msg"] = Translate(c, i18n.ERROR_INTERNAL)
	} else {
		res["code"] = cerrptr.GetCode()
		res["msg"] = Translate(c, cerrptr.Message())
		for k, v := range cerrptr.Data() {
			res[k] = v
		}
	}

	c.Set(ResultKey, res)
	c.Set(ErrorKey, err)
	c.JSON(http.StatusOK, res)
	printErrorLog(c, res, err)
}

// APISuccess {code: 200, msg: "操作成功", data}
func APISuccess(c *gin.Context, data any) {
	res := gin.H{}
	if data != nil {
		res["data"] = data
	}
	APIAjax(c, res)
}

// APIMessage 成功, 使用自定义提示
func APIMessage(c *gin.Context, message string) {
	APIAjax(c, gin.H{"msg": message})
}

// APIAjax 成功, extra 中的键平铺到响应体
func APIAjax(c *gin.Context, extra gin.H) {
	c.Abort()
	res := gin.H{
		"code": CODE_SUCCESS,
		"msg":  Translate(c, i18n.MESSAGE_OK),
	}
	for k, v := range extra {
		res[k] = v
	}
	if msg, ok := extra["msg"].(string); ok {
		res["msg"] = Translate(c, msg)
	}
	c.Set(ResultKey, res)
	c.JSON(http.StatusOK, res)
	printSuccessLog(c)
}

// APIToAjax 根据影响行数返回成功或失败
func APIToAjax(c *gin.Context, err error) {
	if err != nil {
		APIError(c, err)
		return
	}
	APISuccess(c, nil)
}

// APITable {code: 200, msg: "查询成功", rows, total}
func APITable(c *gin.Context, rows any, total int64) {
	c.Abort()
	if rows == nil {
		rows = []any{}
	}
	res := TableResponse{
		Code:  CODE_SUCCESS,
		Msg:   Translate(c, i18n.MESSAGE_QUERY_OK),
		Rows:  rows,
		Total: total,
	}
	c.Set(ResultKey, res)
	c.JSON(http.StatusOK, res)
	printSuccessLog(c)
}

func printErrorLog(c *gin.Context, res gin.H, err error) {
	// 统一打印日志
	var logFields = map[string]any{
		"request_uri": c.Request.URL.Path,
		"method":      c.Request.Method,
		"end_time":    time.Now().Unix(),
		"code":        res["code"],
		"error":       err.Error(),
		"request_id":  c.GetString(RequestIDKey),
	}

	if operator := c.GetString(OperatorKey); operator != "" {
		logFields["operator"] = operator
	}
	slog.Error("response error", slog.Any("fileds", logFields))
}

func printSuccessLog(c *gin.Context) {
	var logFields = map[string]any{
		"request_uri": c.Request.URL.Path,
		"method":      c.Request.Method,
		"end_time":    time.Now().Unix(),
		"params":      c.Request.URL.Query().Encode(),
		"request_id":  c.GetString(RequestIDKey),
	}

	if operator := c.GetString(OperatorKey); operator != "" {
		logFields["operator"] = operator
	}
	slog.Info("request success", slog.Any("fileds", logFields))
}

// NewResponse 为每个请求生成请求ID
func NewResponse() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := utils.GenRandomID()
		c.Set(RequestIDKey, id)
		c.Header("X-Request-Id", id)
	}
}
