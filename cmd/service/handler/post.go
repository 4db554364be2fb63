package handler

import (
	"github.com/gin-gonic/gin"

	v1 "github.com/exb-museum/exb-admin/app/logic/v1"
	"github.com/exb-museum/exb-admin/app/response"
	"github.com/exb-museum/exb-admin/pkg/types"
)

func postListOptions(c *gin.Context) types.ListSysPostOptions {
	return types.ListSysPostOptions{
		PostCode: formOrQuery(c, "postCode"),
		PostName: formOrQuery(c, "postName"),
		Status:   formOrQuery(c, "status"),
	}
}

func (s *HttpSrv) ListPost(c *gin.Context) {
	list, total, err := v1.NewPostLogic(c, s.Core).List(postListOptions(c), criterionOf(c))
	if err != nil {
		response.APIError(c, err)
		return
	}
	response.APITable(c, list, total)
}

func (s *HttpSrv) ExportPost(c *gin.Context) {
	list, _, err := v1.NewPostLogic(c, s.Core).List(postListOptions(c), criterionOf(c).NoPaging())
	if err != nil {
		response.APIError(c, err)
		return
	}
	writeExcel(c, "岗位数据", list)
}

func (s *HttpSrv) GetPost(c *gin.Context) {
	postID, err := pathID(c, "postId")
	if err != nil {
		response.APIError(c, err)
		return
	}
	post, err := v1.NewPostLogic(c, s.Core).Get(postID)
	if err != nil {
		response.APIError(c, err)
		return
	}
	response.APISuccess(c, post)
}

func (s *HttpSrv) PostOptionSelect(c *gin.Context) {
	list, err := v1.NewPostLogic(c, s.Core).OptionSelect()
	if err != nil {
		response.APIError(c, err)
		return
	}
	response.APISuccess(c, list)
}

func (s *HttpSrv) CreatePost(c *gin.Context) {
	var req types.SysPost
	if !bindJSON(c, &req) {
		return
	}
	response.APIToAjax(c, v1.NewPostLogic(c, s.Core).Create(req))
}

func (s *HttpSrv) UpdatePost(c *gin.Context) {
	var req types.SysPost
	if !bindJSON(c, &req) {
		return
	}
	response.APIToAjax(c, v1.NewPostLogic(c, s.Core).Update(req))
}

func (s *HttpSrv) DeletePost(c *gin.Context) {
	ids, err := pathIDs(c, "postIds")
	if err != nil {
		response.APIError(c, err)
		return
	}
	response.APIToAjax(c, v1.NewPostLogic(c, s.Core).Delete(ids))
}
