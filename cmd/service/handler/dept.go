package handler

import (
	"github.com/gin-gonic/gin"

	v1 "github.com/exb-museum/exb-admin/app/logic/v1"
	"github.com/exb-museum/exb-admin/app/response"
	"github.com/exb-museum/exb-admin/pkg/types"
)

func (s *HttpSrv) ListDept(c *gin.Context) {
	list, err := v1.NewDeptLogic(c, s.Core).List(types.ListSysDeptOptions{
		DeptName: c.Query("deptName"),
		Status:   c.Query("status"),
	}, criterionOf(c))
	if err != nil {
		response.APIError(c, err)
		return
	}
	response.APISuccess(c, list)
}

// ListDeptExclude 排除节点及其下级
func (s *HttpSrv) ListDeptExclude(c *gin.Context) {
	deptID, err := pathID(c, "deptId")
	if err != nil {
		response.APIError(c, err)
		return
	}
	list, err := v1.NewDeptLogic(c, s.Core).ListExclude(deptID)
	if err != nil {
		response.APIError(c, err)
		return
	}
	response.APISuccess(c, list)
}

func (s *HttpSrv) GetDept(c *gin.Context) {
	deptID, err := pathID(c, "deptId")
	if err != nil {
		response.APIError(c, err)
		return
	}
	dept, err := v1.NewDeptLogic(c, s.Core).Get(deptID)
	if err != nil {
		response.APIError(c, err)
		return
	}
	response.APISuccess(c, dept)
}

func (s *HttpSrv) CreateDept(c *gin.Context) {
	var req types.SysDept
	if !bindJSON(c, &req) {
		return
	}
	response.APIToAjax(c, v1.NewDeptLogic(c, s.Core).Create(req))
}

func (s *HttpSrv) UpdateDept(c *gin.Context) {
	var req types.SysDept
	if !bindJSON(c, &req) {
		return
	}
	response.APIToAjax(c, v1.NewDeptLogic(c, s.Core).Update(req))
}

func (s *HttpSrv) DeleteDept(c *gin.Context) {
	deptID, err := pathID(c, "deptId")
	if err != nil {
		response.APIError(c, err)
		return
	}
	response.APIToAjax(c, v1.NewDeptLogic(c, s.Core).Delete(deptID))
}
