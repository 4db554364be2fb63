package handler

import (
	"github.com/gin-gonic/gin"

	v1 "github.com/exb-museum/exb-admin/app/logic/v1"
	"github.com/exb-museum/exb-admin/app/response"
	"github.com/exb-museum/exb-admin/pkg/types"
	"github.com/exb-museum/exb-admin/pkg/utils"
)

func roleListOptions(c *gin.Context) types.ListSysRoleOptions {
	return types.ListSysRoleOptions{
		RoleName: formOrQuery(c, "roleName"),
		RoleKey:  formOrQuery(c, "roleKey"),
		Status:   formOrQuery(c, "status"),
	}
}

func (s *HttpSrv) ListRole(c *gin.Context) {
	list, total, err := v1.NewRoleLogic(c, s.Core).List(roleListOptions(c), criterionOf(c))
	if err != nil {
		response.APIError(c, err)
		return
	}
	response.APITable(c, list, total)
}

func (s *HttpSrv) ExportRole(c *gin.Context) {
	list, _, err := v1.NewRoleLogic(c, s.Core).List(roleListOptions(c), criterionOf(c).NoPaging())
	if err != nil {
		response.APIError(c, err)
		return
	}
	writeExcel(c, "角色数据", list)
}

func (s *HttpSrv) GetRole(c *gin.Context) {
	roleID, err := pathID(c, "roleId")
	if err != nil {
		response.APIError(c, err)
		return
	}
	role, err := v1.NewRoleLogic(c, s.Core).Get(roleID)
	if err != nil {
		response.APIError(c, err)
		return
	}
	response.APISuccess(c, role)
}

func (s *HttpSrv) CreateRole(c *gin.Context) {
	var req types.SysRole
	if !bindJSON(c, &req) {
		return
	}
	response.APIToAjax(c, v1.NewRoleLogic(c, s.Core).Create(req))
}

func (s *HttpSrv) UpdateRole(c *gin.Context) {
	var req types.SysRole
	if !bindJSON(c, &req) {
		return
	}
	response.APIToAjax(c, v1.NewRoleLogic(c, s.Core).Update(req))
}

func (s *HttpSrv) UpdateRoleDataScope(c *gin.Context) {
	var req types.SysRole
	if !bindJSON(c, &req) {
		return
	}
	response.APIToAjax(c, v1.NewRoleLogic(c, s.Core).UpdateDataScope(req))
}

type ChangeRoleStatusRequest struct {
	RoleID int64  `json:"roleId"`
	Status string `json:"status"`
}

func (s *HttpSrv) ChangeRoleStatus(c *gin.Context) {
	var req ChangeRoleStatusRequest
	if !bindJSON(c, &req) {
		return
	}
	response.APIToAjax(c, v1.NewRoleLogic(c, s.Core).ChangeStatus(req.RoleID, req.Status))
}

func (s *HttpSrv) DeleteRole(c *gin.Context) {
	ids, err := pathIDs(c, "roleIds")
	if err != nil {
		response.APIError(c, err)
		return
	}
	response.APIToAjax(c, v1.NewRoleLogic(c, s.Core).Delete(ids))
}

func (s *HttpSrv) RoleOptionSelect(c *gin.Context) {
	list, err := v1.NewRoleLogic(c, s.Core).OptionSelect()
	if err != nil {
		response.APIError(c, err)
		return
	}
	response.APISuccess(c, list)
}

func (s *HttpSrv) listAuthUsers(c *gin.Context, allocated bool) {
	opts := types.ListSysUserOptions{
		UserName:    c.Query("userName"),
		Phonenumber: c.Query("phonenumber"),
	}
	list, total, err := v1.NewRoleLogic(c, s.Core).AuthUsers(paramInt64(c, "roleId"), allocated, opts, criterionOf(c))
	if err != nil {
		response.APIError(c, err)
		return
	}
	response.APITable(c, list, total)
}

func (s *HttpSrv) AllocatedUserList(c *gin.Context) {
	s.listAuthUsers(c, true)
}

func (s *HttpSrv) UnallocatedUserList(c *gin.Context) {
	s.listAuthUsers(c, false)
}

type UserRoleRequest struct {
	UserID int64 `json:"userId"`
	RoleID int64 `json:"roleId"`
}

func (s *HttpSrv) CancelAuthUser(c *gin.Context) {
	var req UserRoleRequest
	if !bindJSON(c, &req) {
		return
	}
	response.APIToAjax(c, v1.NewRoleLogic(c, s.Core).CancelAuthUsers(req.RoleID, []int64{req.UserID}))
}

// authUserArgs roleId=1&userIds=1,2,3
func authUserArgs(c *gin.Context) (int64, []int64, error) {
	userIDs, err := utils.SplitIDs(c.Query("userIds"))
	if err != nil {
		return 0, nil, err
	}
	return paramInt64(c, "roleId"), userIDs, nil
}

func (s *HttpSrv) CancelAuthUserAll(c *gin.Context) {
	roleID, userIDs, err := authUserArgs(c)
	if err != nil {
		response.APIError(c, err)
		return
	}
	response.APIToAjax(c, v1.NewRoleLogic(c, s.Core).CancelAuthUsers(roleID, userIDs))
}

func (s *HttpSrv) SelectAuthUserAll(c *gin.Context) {
	roleID, userIDs, err := authUserArgs(c)
	if err != nil {
		response.APIError(c, err)
		return
	}
	response.APIToAjax(c, v1.NewRoleLogic(c, s.Core).SelectAuthUsers(roleID, userIDs))
}

func (s *HttpSrv) RoleDeptTree(c *gin.Context) {
	roleID, err := pathID(c, "roleId")
	if err != nil {
		response.APIError(c, err)
		return
	}
	depts, checked, err := v1.NewDeptLogic(c, s.Core).RoleDeptTreeSelect(roleID)
	if err != nil {
		response.APIError(c, err)
		return
	}
	if checked == nil {
		checked = []int64{}
	}
	response.APIAjax(c, gin.H{"depts": depts, "checkedKeys": checked})
}
