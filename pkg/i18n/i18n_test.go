package i18n

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLang(t *testing.T) {
	l := NewLocalizer("zh-CN", "en")

	assert.Equal(t, "操作成功", l.Get("zh-CN", MESSAGE_OK))
	assert.Equal(t, "Success", l.Get("en", MESSAGE_OK))
}

func TestLiteralMessageFallback(t *testing.T) {
	l := NewLocalizer("zh-CN", "en")

	// 未登记的 id 原样返回, 业务提示可以直接作为 id 使用
	assert.Equal(t, "博物馆不存在", l.Get("zh-CN", "博物馆不存在"))
	assert.Equal(t, "error.unknown", l.Get("fr", "error.unknown"))
}
