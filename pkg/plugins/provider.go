package plugins

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/exb-museum/exb-admin/app/core"
	"github.com/exb-museum/exb-admin/pkg/object-storage/s3"
)

func Setup(install func(p core.Plugins), mode string) {
	p := provider[mode]
	if p == nil {
		panic("Setup mode not found: " + mode)
	}
	install(p())
}

var provider = make(map[string]core.SetupFunc)

func RegisterProvider(key string, p core.Plugins) {
	provider[key] = func() core.Plugins {
		return p
	}
}

func SetupObjectStorage(cfg core.ObjectStorageDriver) core.FileStorage {
	var s core.FileStorage
	switch strings.ToLower(cfg.Driver) {
	case "s3":
		s3Cfg := cfg.S3
		if s3Cfg == nil {
			panic("object_storage.s3 is required when driver is s3")
		}
		s = &S3FileStorage{
			StaticDomain: cfg.StaticDomain,
			S3:           s3.NewS3Client(s3Cfg.Endpoint, s3Cfg.Region, s3Cfg.Bucket, s3Cfg.AccessKey, s3Cfg.SecretKey, s3.WithPathStyle(s3Cfg.UsePathStyle)),
		}
	case "local":
		root := "./uploadPath"
		if cfg.Local != nil && cfg.Local.Root != "" {
			root = cfg.Local.Root
		}
		s = &LocalFileStorage{
			StaticDomain: cfg.StaticDomain,
			Root:         root,
		}
	default:
		s = &NoneFileStorage{}
	}

	return s
}

var ErrUnsupported = fmt.Errorf("Unsupported")

type NoneFileStorage struct {
}

func (lfs *NoneFileStorage) GetStaticDomain() string {
	return ""
}

func (lfs *NoneFileStorage) GenGetObjectPreSignURL(ctx context.Context, url string) (string, error) {
	return "", ErrUnsupported
}

func (lfs *NoneFileStorage) SaveFile(ctx context.Context, fullPath, contentType string, content []byte) error {
	return ErrUnsupported
}

func (lfs *NoneFileStorage) DeleteFile(ctx context.Context, fullPath string) error {
	return ErrUnsupported
}

func (fs *NoneFileStorage) DownloadFile(ctx context.Context, fullPath string) (*s3.GetObjectResult, error) {
	return nil, ErrUnsupported
}

// LocalFileStorage 文件保存在 Root 目录下, 通过 /profile 对外提供访问
type LocalFileStorage struct {
	StaticDomain string
	Root         string
}

func (lfs *LocalFileStorage) GetStaticDomain() string {
	return lfs.StaticDomain
}

// abs 将存储路径限制在 Root 目录内
func (lfs *LocalFileStorage) abs(fullPath string) (string, error) {
	p := filepath.Join(lfs.Root, filepath.Clean("/"+fullPath))
	rel, err := filepath.Rel(lfs.Root, p)
	if err != nil || strings.HasPrefix(rel, "..") {
		return "", fmt.Errorf("invalid file path: %s", fullPath)
	}
	return p, nil
}

// SaveFile stores a file on the local file system.
func (lfs *LocalFileStorage) SaveFile(ctx context.Context, fullPath, _ string, content []byte) error {
	p, err := lfs.abs(fullPath)
	if err != nil {
		return err
	}
	if err = os.MkdirAll(filepath.Dir(p), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %v", err)
	}

	if err = os.WriteFile(p, content, 0644); err != nil {
		return fmt.Errorf("failed to save file: %v", err)
	}
	return nil
}

func (lfs *LocalFileStorage) DownloadFile(ctx context.Context, fullPath string) (*s3.GetObjectResult, error) {
	p, err := lfs.abs(fullPath)
	if err != nil {
		return nil, err
	}

	raw, err := os.ReadFile(p)
	if err != nil {
		return nil, fmt.Errorf("Error reading file: %w", err)
	}

	// 检测文件类型, 只取前 512 字节
	return &s3.GetObjectResult{
		File:     raw,
		FileType: http.DetectContentType(raw),
	}, nil
}

// DeleteFile deletes a file from the local file system using the full file path.
func (lfs *LocalFileStorage) DeleteFile(ctx context.Context, fullPath string) error {
	p, err := lfs.abs(fullPath)
	if err != nil {
		return err
	}
	if err = os.Remove(p); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete file: %v", err)
	}
	return nil
}

func (lfs *LocalFileStorage) GenGetObjectPreSignURL(ctx context.Context, url string) (string, error) {
	return url, nil
}

type S3FileStorage struct {
	StaticDomain string
	*s3.S3
}

func (fs *S3FileStorage) GetStaticDomain() string {
	return fs.StaticDomain
}

// SaveFile stores a file
func (fs *S3FileStorage) SaveFile(ctx context.Context, fullPath, contentType string, content []byte) error {
	return fs.Upload(ctx, fullPath, contentType, bytes.NewReader(content))
}

func (fs *S3FileStorage) DownloadFile(ctx context.Context, fullPath string) (*s3.GetObjectResult, error) {
	return fs.GetObject(ctx, fullPath)
}

// DeleteFile deletes a file
func (fs *S3FileStorage) DeleteFile(ctx context.Context, fullPath string) error {
	return fs.Delete(ctx, fullPath)
}

func (fs *S3FileStorage) GenGetObjectPreSignURL(ctx context.Context, _url string) (string, error) {
	res, err := url.Parse(_url)
	if err != nil {
		return "", err
	}

	_url, _ = url.QueryUnescape(res.Path)
	return fs.S3.GenGetObjectPreSignURL(ctx, _url, time.Hour)
}
