package v1

import (
	"database/sql"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/exb-museum/exb-admin/pkg/errors"
)

func TestMuseumImportMessage(t *testing.T) {
	var r ImportResult
	r.Success("操作成功：%d", 1)
	r.Success("操作成功：%d", 2)

	msg, err := r.MuseumMessage("test")
	require.NoError(t, err)
	assert.Equal(t, "恭喜您，数据已全部导入成功！共 2 条，数据如下：<br/> 第1条数据，操作成功：1<br/> 第2条数据，操作成功：2", msg)

	r.Failure("已存在：%d", 3)
	_, err = r.MuseumMessage("test")
	require.Error(t, err)
	ce, ok := errors.As(err)
	require.True(t, ok)
	assert.Equal(t, "导入成功2条，失败1条。<br/> 第1条数据，操作成功：1<br/> 第2条数据，操作成功：2<br/><br/> 第1条数据，已存在：3", ce.Message())
}

func TestUserImportMessage(t *testing.T) {
	var r ImportResult
	r.Failure("账号 %s 已存在", "ry")
	_, err := r.UserMessage("test")
	ce, ok := errors.As(err)
	require.True(t, ok)
	assert.Equal(t, "很抱歉，导入失败！共 1 条数据格式不正确，错误如下：<br/>1、账号 ry 已存在", ce.Message())
}

func TestNotFoundOr(t *testing.T) {
	err := notFoundOr("test", sql.ErrNoRows, "博物馆不存在")
	ce, ok := errors.As(err)
	require.True(t, ok)
	assert.Equal(t, "博物馆不存在", ce.Message())

	err = notFoundOr("test", fmt.Errorf("boom"), "博物馆不存在")
	ce, _ = errors.As(err)
	assert.Equal(t, 500, ce.GetCode())
}
