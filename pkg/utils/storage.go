package utils

import (
	"net/url"
	"path"
	"strings"
)

// IsLocalStorageURL 检查URL是否指向本系统的静态存储域名
func IsLocalStorageURL(urlStr string, staticDomain string) bool {
	if urlStr == "" || staticDomain == "" {
		return false
	}

	urlParsed, err := url.Parse(urlStr)
	if err != nil {
		return false
	}

	staticParsed, err := url.Parse(staticDomain)
	if err != nil {
		return false
	}

	return urlParsed.Host == staticParsed.Host
}

// StoragePathFromURL 从访问地址中还原出存储路径, 非本系统的地址返回空
func StoragePathFromURL(urlStr, staticDomain string) string {
	if !strings.HasPrefix(urlStr, "http://") && !strings.HasPrefix(urlStr, "https://") {
		return strings.TrimPrefix(urlStr, "/")
	}
	if !IsLocalStorageURL(urlStr, staticDomain) {
		return ""
	}
	parsed, err := url.Parse(urlStr)
	if err != nil {
		return ""
	}
	return strings.TrimPrefix(parsed.Path, "/")
}

// JoinStorageURL 拼接访问地址
func JoinStorageURL(staticDomain, fullPath string) string {
	if staticDomain == "" {
		return "/" + strings.TrimPrefix(fullPath, "/")
	}
	return strings.TrimSuffix(staticDomain, "/") + "/" + strings.TrimPrefix(path.Clean("/"+fullPath), "/")
}
