package handler

import (
	"io"

	"github.com/gin-gonic/gin"

	v1 "github.com/exb-museum/exb-admin/app/logic/v1"
	"github.com/exb-museum/exb-admin/app/response"
	"github.com/exb-museum/exb-admin/pkg/errors"
	"github.com/exb-museum/exb-admin/pkg/types"
	"github.com/exb-museum/exb-admin/pkg/utils"
)

func userListOptions(c *gin.Context) types.ListSysUserOptions {
	return types.ListSysUserOptions{
		UserName:    formOrQuery(c, "userName"),
		Phonenumber: formOrQuery(c, "phonenumber"),
		Status:      formOrQuery(c, "status"),
		DeptID:      paramInt64(c, "deptId"),
	}
}

func (s *HttpSrv) ListUser(c *gin.Context) {
	list, total, err := v1.NewUserLogic(c, s.Core).List(userListOptions(c), criterionOf(c))
	if err != nil {
		response.APIError(c, err)
		return
	}
	response.APITable(c, list, total)
}

func (s *HttpSrv) ExportUser(c *gin.Context) {
	list, _, err := v1.NewUserLogic(c, s.Core).List(userListOptions(c), criterionOf(c).NoPaging())
	if err != nil {
		response.APIError(c, err)
		return
	}
	writeExcel(c, "用户数据", list)
}

func (s *HttpSrv) ImportUser(c *gin.Context) {
	handleImport(c, func(r io.Reader, updateSupport bool) (string, error) {
		return v1.NewUserLogic(c, s.Core).Import(r, updateSupport)
	})
}

func (s *HttpSrv) UserImportTemplate(c *gin.Context) {
	writeTemplate[types.SysUser](c, "用户数据", "user")
}

// GetUser /system/user/ 与 /system/user/{userId}, 新增用户时没有 userId
func (s *HttpSrv) GetUser(c *gin.Context) {
	var userID int64
	if c.Param("userId") != "" {
		var err error
		if userID, err = pathID(c, "userId"); err != nil {
			response.APIError(c, err)
			return
		}
	}

	detail, err := v1.NewUserLogic(c, s.Core).Detail(userID)
	if err != nil {
		response.APIError(c, err)
		return
	}
	res := gin.H{
		"roles": detail.Roles,
		"posts": detail.Posts,
	}
	if detail.User != nil {
		res["data"] = detail.User
		res["roleIds"] = detail.RoleIDs
		res["postIds"] = detail.PostIDs
	}
	response.APIAjax(c, res)
}

type CreateUserRequest struct {
	types.SysUser
	Password string `json:"password"`
}

func (s *HttpSrv) CreateUser(c *gin.Context) {
	var req CreateUserRequest
	if !bindJSON(c, &req) {
		return
	}
	response.APIToAjax(c, v1.NewUserLogic(c, s.Core).Create(req.SysUser, req.Password))
}

func (s *HttpSrv) UpdateUser(c *gin.Context) {
	var req types.SysUser
	if !bindJSON(c, &req) {
		return
	}
	response.APIToAjax(c, v1.NewUserLogic(c, s.Core).Update(req))
}

func (s *HttpSrv) DeleteUser(c *gin.Context) {
	ids, err := pathIDs(c, "userIds")
	if err != nil {
		response.APIError(c, err)
		return
	}
	response.APIToAjax(c, v1.NewUserLogic(c, s.Core).Delete(ids))
}

type ResetPwdRequest struct {
	UserID   int64  `json:"userId"`
	Password string `json:"password"`
}

func (s *HttpSrv) ResetUserPwd(c *gin.Context) {
	var req ResetPwdRequest
	if !bindJSON(c, &req) {
		return
	}
	response.APIToAjax(c, v1.NewUserLogic(c, s.Core).ResetPwd(req.UserID, req.Password))
}

type ChangeUserStatusRequest struct {
	UserID int64  `json:"userId"`
	Status string `json:"status"`
}

func (s *HttpSrv) ChangeUserStatus(c *gin.Context) {
	var req ChangeUserStatusRequest
	if !bindJSON(c, &req) {
		return
	}
	response.APIToAjax(c, v1.NewUserLogic(c, s.Core).ChangeStatus(req.UserID, req.Status))
}

func (s *HttpSrv) GetUserAuthRole(c *gin.Context) {
	userID, err := pathID(c, "userId")
	if err != nil {
		response.APIError(c, err)
		return
	}
	user, roles, err := v1.NewUserLogic(c, s.Core).AuthRole(userID)
	if err != nil {
		response.APIError(c, err)
		return
	}
	response.APIAjax(c, gin.H{"user": user, "roles": roles})
}

// InsertUserAuthRole 参数在 query 中: userId=1&roleIds=1,2
func (s *HttpSrv) InsertUserAuthRole(c *gin.Context) {
	userID := paramInt64(c, "userId")
	var roleIDs []int64
	if raw := c.Query("roleIds"); raw != "" {
		var err error
		if roleIDs, err = utils.SplitIDs(raw); err != nil {
			response.APIError(c, err)
			return
		}
	}
	response.APIToAjax(c, v1.NewUserLogic(c, s.Core).InsertAuthRole(userID, roleIDs))
}

func (s *HttpSrv) UserDeptTree(c *gin.Context) {
	tree, err := v1.NewDeptLogic(c, s.Core).TreeSelect(types.ListSysDeptOptions{
		DeptName: c.Query("deptName"),
		Status:   c.Query("status"),
	})
	if err != nil {
		response.APIError(c, err)
		return
	}
	response.APISuccess(c, tree)
}

func (s *HttpSrv) GetProfile(c *gin.Context) {
	profile, err := v1.NewUserLogic(c, s.Core).Profile()
	if err != nil {
		response.APIError(c, err)
		return
	}
	response.APIAjax(c, gin.H{
		"data":      profile.User,
		"roleGroup": profile.RoleGroup,
		"postGroup": profile.PostGroup,
	})
}

func (s *HttpSrv) UpdateProfile(c *gin.Context) {
	var req types.SysUser
	if !bindJSON(c, &req) {
		return
	}
	response.APIToAjax(c, v1.NewUserLogic(c, s.Core).UpdateProfile(req))
}

type UpdatePwdRequest struct {
	OldPassword string `json:"oldPassword" form:"oldPassword"`
	NewPassword string `json:"newPassword" form:"newPassword"`
}

// UpdatePwd 旧版前端以 query 传参
func (s *HttpSrv) UpdatePwd(c *gin.Context) {
	req := UpdatePwdRequest{
		OldPassword: c.Query("oldPassword"),
		NewPassword: c.Query("newPassword"),
	}
	if req.OldPassword == "" && req.NewPassword == "" && !bindJSON(c, &req) {
		return
	}
	response.APIToAjax(c, v1.NewUserLogic(c, s.Core).UpdatePwd(req.OldPassword, req.NewPassword))
}

func (s *HttpSrv) UpdateAvatar(c *gin.Context) {
	fh, err := c.FormFile("avatarfile")
	if err != nil {
		response.APIError(c, errors.Service("handler.UpdateAvatar.FormFile", "上传图片异常，请联系管理员"))
		return
	}
	url, err := v1.NewUserLogic(c, s.Core).UpdateAvatar(fh)
	if err != nil {
		response.APIError(c, err)
		return
	}
	response.APIAjax(c, gin.H{"imgUrl": url})
}
