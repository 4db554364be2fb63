package v1

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/exb-museum/exb-admin/pkg/errors"
	"github.com/exb-museum/exb-admin/pkg/i18n"
)

// notFoundOr sql.ErrNoRows 转换为业务提示, 其余按内部错误处理
func notFoundOr(trace string, err error, message string) error {
	if err == sql.ErrNoRows {
		return errors.Service(trace, message)
	}
	return errors.New(trace, i18n.ERROR_INTERNAL, err)
}

func internal(trace string, err error) error {
	return errors.New(trace, i18n.ERROR_INTERNAL, err)
}

func isNotFound(err error) bool {
	return err == sql.ErrNoRows
}

// ImportResult 逐行导入的结果, 存在失败行时整体以业务错误返回
type ImportResult struct {
	success []string
	failure []string
}

func (r *ImportResult) Success(format string, args ...any) {
	r.success = append(r.success, fmt.Sprintf(format, args...))
}

func (r *ImportResult) Failure(format string, args ...any) {
	r.failure = append(r.failure, fmt.Sprintf(format, args...))
}

func (r *ImportResult) Failed() bool {
	return len(r.failure) > 0
}

// UserMessage 用户导入: 失败时只列出失败行
func (r *ImportResult) UserMessage(trace string) (string, error) {
	var b strings.Builder
	if r.Failed() {
		fmt.Fprintf(&b, "很抱歉，导入失败！共 %d 条数据格式不正确，错误如下：", len(r.failure))
		for i, msg := range r.failure {
			fmt.Fprintf(&b, "<br/>%d、%s", i+1, msg)
		}
		return "", errors.Service(trace, b.String())
	}
	fmt.Fprintf(&b, "恭喜您，数据已全部导入成功！共 %d 条，数据如下：", len(r.success))
	for i, msg := range r.success {
		fmt.Fprintf(&b, "<br/>%d、%s", i+1, msg)
	}
	return b.String(), nil
}

// MuseumMessage 博物馆模块导入: 部分失败时同时带上成功明细
func (r *ImportResult) MuseumMessage(trace string) (string, error) {
	var succ strings.Builder
	for i, msg := range r.success {
		fmt.Fprintf(&succ, "<br/> 第%d条数据，%s", i+1, msg)
	}
	if r.Failed() {
		var b strings.Builder
		fmt.Fprintf(&b, "导入成功%d条，失败%d条。", len(r.success), len(r.failure))
		if succ.Len() > 0 {
			b.WriteString(succ.String())
			b.WriteString("<br/>")
		}
		for i, msg := range r.failure {
			fmt.Fprintf(&b, "<br/> 第%d条数据，%s", i+1, msg)
		}
		return "", errors.Service(trace, b.String())
	}
	return fmt.Sprintf("恭喜您，数据已全部导入成功！共 %d 条，数据如下：", len(r.success)) + succ.String(), nil
}
