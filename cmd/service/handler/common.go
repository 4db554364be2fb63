package handler

import (
	"log/slog"
	"net/http"
	"os"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cast"

	v1 "github.com/exb-museum/exb-admin/app/logic/v1"
	"github.com/exb-museum/exb-admin/app/response"
	"github.com/exb-museum/exb-admin/pkg/errors"
	"github.com/exb-museum/exb-admin/pkg/i18n"
)

// Download 通用下载, delete=true 时下载后删除源文件
func (s *HttpSrv) Download(c *gin.Context) {
	fileName := c.Query("fileName")
	filePath, realName, err := v1.NewUploadLogic(c, s.Core).DownloadPath(fileName)
	if err != nil {
		response.APIError(c, err)
		return
	}
	raw, err := os.ReadFile(filePath)
	if err != nil {
		response.APIError(c, errors.New("handler.Download.ReadFile", "文件不存在", err).Code(http.StatusNotFound))
		return
	}
	attachment(c, realName, "application/octet-stream", raw)

	if cast.ToBool(c.Query("delete")) {
		if err := os.Remove(filePath); err != nil {
			slog.Warn("failed to remove downloaded file", slog.String("path", filePath), slog.Any("error", err))
		}
	}
}

func (s *HttpSrv) DownloadResource(c *gin.Context) {
	res, name, err := v1.NewUploadLogic(c, s.Core).DownloadResource(c.Query("resource"))
	if err != nil {
		response.APIError(c, err)
		return
	}
	contentType := res.FileType
	if contentType == "" {
		contentType = http.DetectContentType(res.File)
	}
	attachment(c, name, contentType, res.File)
}

func (s *HttpSrv) Upload(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		response.APIError(c, errors.New("handler.Upload.FormFile", i18n.ERROR_INVALIDARGUMENT, err).Code(http.StatusBadRequest))
		return
	}
	file, err := v1.NewUploadLogic(c, s.Core).Upload(fh, v1.UPLOAD_DIR_COMMON)
	if err != nil {
		response.APIError(c, err)
		return
	}
	response.APIAjax(c, gin.H{
		"url":              file.URL,
		"fileName":         file.FileName,
		"newFileName":      file.NewFileName,
		"originalFilename": file.OriginalFilename,
	})
}

// Uploads 多文件上传, 各字段以逗号拼接
func (s *HttpSrv) Uploads(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		response.APIError(c, errors.New("handler.Uploads.MultipartForm", i18n.ERROR_INVALIDARGUMENT, err).Code(http.StatusBadRequest))
		return
	}
	files := form.File["files"]
	if len(files) == 0 {
		response.APIError(c, errors.Service("handler.Uploads", "请选择要上传的文件").Code(http.StatusBadRequest))
		return
	}

	logic := v1.NewUploadLogic(c, s.Core)
	var urls, fileNames, newFileNames, originalFilenames []string
	for _, fh := range files {
		file, err := logic.Upload(fh, v1.UPLOAD_DIR_COMMON)
		if err != nil {
			response.APIError(c, err)
			return
		}
		urls = append(urls, file.URL)
		fileNames = append(fileNames, file.FileName)
		newFileNames = append(newFileNames, file.NewFileName)
		originalFilenames = append(originalFilenames, file.OriginalFilename)
	}
	response.APIAjax(c, gin.H{
		"urls":              strings.Join(urls, ","),
		"fileNames":         strings.Join(fileNames, ","),
		"newFileNames":      strings.Join(newFileNames, ","),
		"originalFilenames": strings.Join(originalFilenames, ","),
	})
}
