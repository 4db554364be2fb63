package handler

import (
	"github.com/gin-gonic/gin"

	v1 "github.com/exb-museum/exb-admin/app/logic/v1"
	"github.com/exb-museum/exb-admin/app/response"
	"github.com/exb-museum/exb-admin/pkg/types"
)

func menuListOptions(c *gin.Context) types.ListSysMenuOptions {
	return types.ListSysMenuOptions{
		MenuName: c.Query("menuName"),
		Visible:  c.Query("visible"),
		Status:   c.Query("status"),
	}
}

func (s *HttpSrv) ListMenu(c *gin.Context) {
	list, err := v1.NewMenuLogic(c, s.Core).List(menuListOptions(c))
	if err != nil {
		response.APIError(c, err)
		return
	}
	response.APISuccess(c, list)
}

func (s *HttpSrv) GetMenu(c *gin.Context) {
	menuID, err := pathID(c, "menuId")
	if err != nil {
		response.APIError(c, err)
		return
	}
	menu, err := v1.NewMenuLogic(c, s.Core).Get(menuID)
	if err != nil {
		response.APIError(c, err)
		return
	}
	response.APISuccess(c, menu)
}

func (s *HttpSrv) MenuTreeSelect(c *gin.Context) {
	tree, err := v1.NewMenuLogic(c, s.Core).TreeSelect(menuListOptions(c))
	if err != nil {
		response.APIError(c, err)
		return
	}
	response.APISuccess(c, tree)
}

func (s *HttpSrv) RoleMenuTreeSelect(c *gin.Context) {
	roleID, err := pathID(c, "roleId")
	if err != nil {
		response.APIError(c, err)
		return
	}
	menus, checked, err := v1.NewMenuLogic(c, s.Core).RoleMenuTreeSelect(roleID)
	if err != nil {
		response.APIError(c, err)
		return
	}
	if checked == nil {
		checked = []int64{}
	}
	response.APIAjax(c, gin.H{"menus": menus, "checkedKeys": checked})
}

func (s *HttpSrv) CreateMenu(c *gin.Context) {
	var req types.SysMenu
	if !bindJSON(c, &req) {
		return
	}
	response.APIToAjax(c, v1.NewMenuLogic(c, s.Core).Create(req))
}

func (s *HttpSrv) UpdateMenu(c *gin.Context) {
	var req types.SysMenu
	if !bindJSON(c, &req) {
		return
	}
	response.APIToAjax(c, v1.NewMenuLogic(c, s.Core).Update(req))
}

func (s *HttpSrv) DeleteMenu(c *gin.Context) {
	menuID, err := pathID(c, "menuId")
	if err != nil {
		response.APIError(c, err)
		return
	}
	response.APIToAjax(c, v1.NewMenuLogic(c, s.Core).Delete(menuID))
}
