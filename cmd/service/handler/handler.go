package handler

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cast"

	"github.com/exb-museum/exb-admin/app/core"
	v1 "github.com/exb-museum/exb-admin/app/logic/v1"
	"github.com/exb-museum/exb-admin/app/response"
	"github.com/exb-museum/exb-admin/pkg/errors"
	"github.com/exb-museum/exb-admin/pkg/excel"
	"github.com/exb-museum/exb-admin/pkg/i18n"
	"github.com/exb-museum/exb-admin/pkg/types"
	"github.com/exb-museum/exb-admin/pkg/utils"
)

// HttpSrv HTTP服务结构
type HttpSrv struct {
	Core   *core.Core
	Engine *gin.Engine
}

const MIME_XLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

func pathID(c *gin.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil {
		return 0, errors.New("handler.pathID."+name, i18n.ERROR_INVALIDARGUMENT, err).Code(http.StatusBadRequest)
	}
	return id, nil
}

// pathIDs /system/user/1,2,3
func pathIDs(c *gin.Context, name string) ([]int64, error) {
	return utils.SplitIDs(c.Param(name))
}

// paramIntPtr 空字符串表示不过滤
func paramIntPtr(c *gin.Context, key string) *int {
	raw := formOrQuery(c, key)
	if raw == "" {
		return nil
	}
	v, err := cast.ToIntE(raw)
	if err != nil {
		return nil
	}
	return &v
}

func paramInt64(c *gin.Context, key string) int64 {
	return cast.ToInt64(formOrQuery(c, key))
}

// formOrQuery 导出接口由前端以表单提交筛选条件
func formOrQuery(c *gin.Context, key string) string {
	if v, ok := c.GetPostForm(key); ok {
		return v
	}
	return c.Query(key)
}

func criterionOf(c *gin.Context) *types.Criterion {
	return v1.InjectCriterion(c)
}

func attachment(c *gin.Context, fileName, contentType string, data []byte) {
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename*=utf-8''%s", url.PathEscape(fileName)))
	c.Header("download-filename", url.PathEscape(fileName))
	c.Data(http.StatusOK, contentType, data)
}

func writeExcel[T any](c *gin.Context, sheet string, rows []T) {
	raw, err := excel.Export(sheet, rows)
	if err != nil {
		response.APIError(c, errors.New("handler.writeExcel", i18n.ERROR_INTERNAL, err))
		return
	}
	attachment(c, excel.FileName(), MIME_XLSX, raw)
}

func writeTemplate[T any](c *gin.Context, sheet, model string) {
	raw, err := excel.Template[T](sheet)
	if err != nil {
		response.APIError(c, errors.New("handler.writeTemplate", i18n.ERROR_INTERNAL, err))
		return
	}
	attachment(c, excel.TemplateName(model), MIME_XLSX, raw)
}

type importFile struct {
	multipart.File
	UpdateSupport bool
}

// openImportFile 导入接口: multipart 字段 file 与 updateSupport
func openImportFile(c *gin.Context) (*importFile, error) {
	fh, err := c.FormFile("file")
	if err != nil {
		return nil, errors.Service("handler.openImportFile", "请选择要导入的文件").Code(http.StatusBadRequest)
	}
	f, err := fh.Open()
	if err != nil {
		return nil, errors.New("handler.openImportFile.Open", i18n.ERROR_INTERNAL, err)
	}
	return &importFile{
		File:          f,
		UpdateSupport: cast.ToBool(c.PostForm("updateSupport")),
	}, nil
}

// handleImport 导入结果作为提示消息返回
func handleImport(c *gin.Context, run func(r io.Reader, updateSupport bool) (string, error)) {
	f, err := openImportFile(c)
	if err != nil {
		response.APIError(c, err)
		return
	}
	defer f.Close()

	msg, err := run(f, f.UpdateSupport)
	if err != nil {
		response.APIError(c, err)
		return
	}
	response.APIMessage(c, msg)
}

func bindJSON(c *gin.Context, req any) bool {
	if err := utils.BindArgsWithGin(c, req); err != nil {
		response.APIError(c, err)
		return false
	}
	return true
}
