package handler

import (
	"github.com/gin-gonic/gin"

	v1 "github.com/exb-museum/exb-admin/app/logic/v1"
	"github.com/exb-museum/exb-admin/app/response"
	"github.com/exb-museum/exb-admin/pkg/types"
)

func (s *HttpSrv) ListNotice(c *gin.Context) {
	list, total, err := v1.NewNoticeLogic(c, s.Core).List(types.ListSysNoticeOptions{
		NoticeTitle: c.Query("noticeTitle"),
		NoticeType:  c.Query("noticeType"),
		CreateBy:    c.Query("createBy"),
	}, criterionOf(c))
	if err != nil {
		response.APIError(c, err)
		return
	}
	response.APITable(c, list, total)
}

func (s *HttpSrv) GetNotice(c *gin.Context) {
	noticeID, err := pathID(c, "noticeId")
	if err != nil {
		response.APIError(c, err)
		return
	}
	notice, err := v1.NewNoticeLogic(c, s.Core).Get(noticeID)
	if err != nil {
		response.APIError(c, err)
		return
	}
	response.APISuccess(c, notice)
}

func (s *HttpSrv) CreateNotice(c *gin.Context) {
	var req types.SysNotice
	if !bindJSON(c, &req) {
		return
	}
	response.APIToAjax(c, v1.NewNoticeLogic(c, s.Core).Create(req))
}

func (s *HttpSrv) UpdateNotice(c *gin.Context) {
	var req types.SysNotice
	if !bindJSON(c, &req) {
		return
	}
	response.APIToAjax(c, v1.NewNoticeLogic(c, s.Core).Update(req))
}

func (s *HttpSrv) DeleteNotice(c *gin.Context) {
	ids, err := pathIDs(c, "noticeIds")
	if err != nil {
		response.APIError(c, err)
		return
	}
	response.APIToAjax(c, v1.NewNoticeLogic(c, s.Core).Delete(ids))
}
