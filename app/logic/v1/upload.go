package v1

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"path"
	"path/filepath"
	"slices"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/exb-museum/exb-admin/app/core"
	"github.com/exb-museum/exb-admin/pkg/errors"
	"github.com/exb-museum/exb-admin/pkg/object-storage/s3"
	"github.com/exb-museum/exb-admin/pkg/utils"
)

const (
	// RESOURCE_PREFIX 本地存储的访问前缀
	RESOURCE_PREFIX = "/profile"

	UPLOAD_DIR_COMMON = "upload"
	UPLOAD_DIR_AVATAR = "avatar"
	UPLOAD_DIR_MEDIA  = "museum/media"

	fileNameMaxLength = 100
)

type UploadLogic struct {
	ctx  context.Context
	core *core.Core
}

func NewUploadLogic(ctx context.Context, core *core.Core) *UploadLogic {
	return &UploadLogic{
		ctx:  ctx,
		core: core,
	}
}

type UploadedFile struct {
	URL              string
	FileName         string
	NewFileName      string
	OriginalFilename string
	FullPath         string
	Size             int64
	ContentType      string
}

func extOf(fileName string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(fileName), "."))
}

// randomFileName 原文件名_雪花ID.后缀, 按日期分目录
func randomFileName(dir, fileName string) string {
	ext := filepath.Ext(fileName)
	base := strings.TrimSuffix(filepath.Base(fileName), ext)
	return path.Join(dir, time.Now().Format("2006/01/02"), fmt.Sprintf("%s_%s%s", base, utils.GenUniqIDStr(), strings.ToLower(ext)))
}

func (l *UploadLogic) isLocal() bool {
	return strings.ToLower(l.core.Cfg().ObjectStorage.Driver) == "local"
}

// URLOf 存储路径转访问地址
func (l *UploadLogic) URLOf(fullPath string) string {
	if l.isLocal() {
		fullPath = path.Join(RESOURCE_PREFIX, fullPath)
	}
	return utils.JoinStorageURL(l.core.FileStorage().GetStaticDomain(), fullPath)
}

// PathOf 访问地址还原为存储路径, 非本系统的地址返回空
func (l *UploadLogic) PathOf(url string) string {
	p := utils.StoragePathFromURL(url, l.core.FileStorage().GetStaticDomain())
	if l.isLocal() {
		p = strings.TrimPrefix(p, strings.TrimPrefix(RESOURCE_PREFIX, "/")+"/")
	}
	return p
}

func (l *UploadLogic) validate(fileName string, size int64, allowed []string) error {
	if utf8.RuneCountInString(fileName) > fileNameMaxLength {
		return errors.Service("UploadLogic.validate", fmt.Sprintf("文件名称长度不能超过%d", fileNameMaxLength))
	}
	if max := l.core.Cfg().Upload.MaxSize(); size > max {
		return errors.Service("UploadLogic.validate", fmt.Sprintf("上传的文件大小超出限制的文件大小！允许的文件最大大小是：%dMB！", max>>20))
	}
	ext := extOf(fileName)
	if !slices.Contains(allowed, ext) {
		return errors.Service("UploadLogic.validate", fmt.Sprintf("文件[%s]后缀[%s]不正确，请上传%s格式", fileName, ext, strings.Join(allowed, ",")))
	}
	return nil
}

// Upload 校验并保存上传的文件
func (l *UploadLogic) Upload(fh *multipart.FileHeader, dir string, allowed ...string) (*UploadedFile, error) {
	if len(allowed) == 0 {
		allowed = l.core.Cfg().Upload.Extensions()
	}
	if err := l.validate(fh.Filename, fh.Size, allowed); err != nil {
		return nil, err
	}

	f, err := fh.Open()
	if err != nil {
		return nil, errors.New("UploadLogic.Upload.Open", "文件读取失败", err)
	}
	defer f.Close()
	content, err := io.ReadAll(f)
	if err != nil {
		return nil, errors.New("UploadLogic.Upload.ReadAll", "文件读取失败", err)
	}

	contentType := fh.Header.Get("Content-Type")
	if contentType == "" {
		contentType = utils.GetMimeTypeByExtension(filepath.Ext(fh.Filename))
	}

	fullPath := randomFileName(dir, fh.Filename)
	if err = l.core.FileStorage().SaveFile(l.ctx, fullPath, contentType, content); err != nil {
		return nil, internal("UploadLogic.Upload.FileStorage.SaveFile", err)
	}

	fileName := "/" + fullPath
	if l.isLocal() {
		fileName = path.Join(RESOURCE_PREFIX, fullPath)
	}
	return &UploadedFile{
		URL:              l.URLOf(fullPath),
		FileName:         fileName,
		NewFileName:      path.Base(fullPath),
		OriginalFilename: fh.Filename,
		FullPath:         fullPath,
		Size:             fh.Size,
		ContentType:      contentType,
	}, nil
}

func (l *UploadLogic) Remove(url string) error {
	p := l.PathOf(url)
	if p == "" {
		return nil
	}
	if err := l.core.FileStorage().DeleteFile(l.ctx, p); err != nil {
		return internal("UploadLogic.Remove.FileStorage.DeleteFile", err)
	}
	return nil
}

// checkAllowDownload 禁止目录穿越, 且只允许下载白名单内的文件类型
func (l *UploadLogic) checkAllowDownload(name string) error {
	if strings.Contains(name, "..") {
		return errors.Service("UploadLogic.checkAllowDownload", fmt.Sprintf("文件名称(%s)非法，不允许下载。", name))
	}
	if !slices.Contains(l.core.Cfg().Upload.Extensions(), extOf(name)) {
		return errors.Service("UploadLogic.checkAllowDownload", fmt.Sprintf("文件名称(%s)非法，不允许下载。", name))
	}
	return nil
}

// DownloadPath 通用下载, 返回本地文件路径与展示的文件名
func (l *UploadLogic) DownloadPath(fileName string) (string, string, error) {
	if err := l.checkAllowDownload(fileName); err != nil {
		return "", "", err
	}
	realName := fileName
	if i := strings.Index(fileName, "_"); i >= 0 {
		realName = fileName[i+1:]
	}
	realName = fmt.Sprintf("%d%s", time.Now().UnixMilli(), realName)
	return filepath.Join(l.core.Cfg().Upload.DownloadDir(), filepath.Base(fileName)), realName, nil
}

// DownloadResource 下载已上传的资源, resource 需以 /profile 开头
func (l *UploadLogic) DownloadResource(resource string) (*s3.GetObjectResult, string, error) {
	if err := l.checkAllowDownload(resource); err != nil {
		return nil, "", err
	}
	if !strings.HasPrefix(resource, RESOURCE_PREFIX) {
		return nil, "", errors.Service("UploadLogic.DownloadResource", fmt.Sprintf("资源文件(%s)非法，不允许下载。", resource))
	}
	fullPath := strings.TrimPrefix(strings.TrimPrefix(resource, RESOURCE_PREFIX), "/")
	res, err := l.core.FileStorage().DownloadFile(l.ctx, fullPath)
	if err != nil {
		return nil, "", notFoundOr("UploadLogic.DownloadResource.FileStorage.DownloadFile", err, "资源文件不存在")
	}
	return res, path.Base(fullPath), nil
}
