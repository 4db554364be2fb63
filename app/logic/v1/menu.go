package v1

import (
	"context"
	"fmt"
	"strings"

	"github.com/samber/lo"

	"github.com/exb-museum/exb-admin/app/core"
	"github.com/exb-museum/exb-admin/pkg/errors"
	"github.com/exb-museum/exb-admin/pkg/types"
	"github.com/exb-museum/exb-admin/pkg/utils"
)

type MenuLogic struct {
	ctx  context.Context
	core *core.Core
	UserInfo
}

func NewMenuLogic(ctx context.Context, core *core.Core) *MenuLogic {
	return &MenuLogic{
		ctx:      ctx,
		core:     core,
		UserInfo: SetupUserInfo(ctx, core),
	}
}

// List 管理员查看全部菜单, 其余用户只能看到角色授予的菜单
func (l *MenuLogic) List(opts types.ListSysMenuOptions) ([]types.SysMenu, error) {
	if !l.IsAdmin() {
		opts.UserID = l.GetLoginUser().UserID
	}
	list, err := l.core.Store().SysMenuStore().List(l.ctx, opts)
	if err != nil {
		return nil, internal("MenuLogic.List.SysMenuStore.List", err)
	}
	return list, nil
}

func (l *MenuLogic) Get(menuID int64) (*types.SysMenu, error) {
	menu, err := l.core.Store().SysMenuStore().Get(l.ctx, menuID)
	if err != nil {
		return nil, notFoundOr("MenuLogic.Get.SysMenuStore.Get", err, "菜单不存在")
	}
	return menu, nil
}

func (l *MenuLogic) TreeSelect(opts types.ListSysMenuOptions) ([]types.TreeSelect, error) {
	list, err := l.List(opts)
	if err != nil {
		return nil, err
	}
	return BuildMenuTreeSelect(BuildMenuTree(list)), nil
}

// RoleMenuTreeSelect 角色编辑页的菜单树与已勾选菜单
func (l *MenuLogic) RoleMenuTreeSelect(roleID int64) ([]types.TreeSelect, []int64, error) {
	role, err := l.core.Store().SysRoleStore().Get(l.ctx, roleID)
	if err != nil {
		return nil, nil, notFoundOr("MenuLogic.RoleMenuTreeSelect.SysRoleStore.Get", err, "角色不存在")
	}
	checked, err := l.core.Store().SysMenuStore().ListIDsByRole(l.ctx, roleID, role.MenuCheckStrictly)
	if err != nil {
		return nil, nil, internal("MenuLogic.RoleMenuTreeSelect.SysMenuStore.ListIDsByRole", err)
	}
	tree, err := l.TreeSelect(types.ListSysMenuOptions{})
	if err != nil {
		return nil, nil, err
	}
	if checked == nil {
		checked = []int64{}
	}
	return tree, checked, nil
}

func (l *MenuLogic) checkNameUnique(menu types.SysMenu) (bool, error) {
	exist, err := l.core.Store().SysMenuStore().GetByName(l.ctx, menu.ParentID, menu.MenuName)
	if err != nil {
		if isNotFound(err) {
			return true, nil
		}
		return false, internal("MenuLogic.checkNameUnique.SysMenuStore.GetByName", err)
	}
	return exist.MenuID == menu.MenuID, nil
}

func (l *MenuLogic) validate(menu types.SysMenu, action string) error {
	unique, err := l.checkNameUnique(menu)
	if err != nil {
		return err
	}
	if !unique {
		return errors.Service("MenuLogic.validate", fmt.Sprintf("%s菜单'%s'失败，菜单名称已存在", action, menu.MenuName))
	}
	if menu.IsFrame == types.MENU_IS_FRAME && !types.IsHTTP(menu.Path) {
		return errors.Service("MenuLogic.validate", fmt.Sprintf("%s菜单'%s'失败，地址必须以http(s)://开头", action, menu.MenuName))
	}
	return nil
}

func (l *MenuLogic) Create(menu types.SysMenu) error {
	if err := l.validate(menu, "新增"); err != nil {
		return err
	}
	menu.Created(l.OperName())
	if _, err := l.core.Store().SysMenuStore().Create(l.ctx, menu); err != nil {
		return internal("MenuLogic.Create.SysMenuStore.Create", err)
	}
	return l.core.ReloadRBAC(l.ctx)
}

func (l *MenuLogic) Update(menu types.SysMenu) error {
	if err := l.validate(menu, "修改"); err != nil {
		return err
	}
	if menu.MenuID == menu.ParentID {
		return errors.Service("MenuLogic.Update", fmt.Sprintf("修改菜单'%s'失败，上级菜单不能选择自己", menu.MenuName))
	}
	menu.Updated(l.OperName())
	if err := l.core.Store().SysMenuStore().Update(l.ctx, menu); err != nil {
		return internal("MenuLogic.Update.SysMenuStore.Update", err)
	}
	return l.core.ReloadRBAC(l.ctx)
}

func (l *MenuLogic) Delete(menuID int64) error {
	children, err := l.core.Store().SysMenuStore().CountChildren(l.ctx, menuID)
	if err != nil {
		return internal("MenuLogic.Delete.SysMenuStore.CountChildren", err)
	}
	if children > 0 {
		return errors.Service("MenuLogic.Delete", "存在子菜单,不允许删除")
	}
	assigned, err := l.core.Store().SysRoleMenuStore().CountByMenu(l.ctx, menuID)
	if err != nil {
		return internal("MenuLogic.Delete.SysRoleMenuStore.CountByMenu", err)
	}
	if assigned > 0 {
		return errors.Service("MenuLogic.Delete", "菜单已分配,不允许删除")
	}
	if err = l.core.Store().SysMenuStore().Delete(l.ctx, menuID); err != nil {
		return internal("MenuLogic.Delete.SysMenuStore.Delete", err)
	}
	return l.core.ReloadRBAC(l.ctx)
}

// GetRouters 当前用户的侧边栏路由
func (l *MenuLogic) GetRouters() ([]types.RouterVo, error) {
	opts := types.ListSysMenuOptions{
		MenuTypes: []string{types.MENU_TYPE_DIR, types.MENU_TYPE_MENU},
		Status:    types.STATUS_NORMAL,
	}
	if !l.IsAdmin() {
		opts.UserID = l.GetLoginUser().UserID
	}
	menus, err := l.core.Store().SysMenuStore().List(l.ctx, opts)
	if err != nil {
		return nil, internal("MenuLogic.GetRouters.SysMenuStore.List", err)
	}
	return BuildRouters(BuildMenuTree(menus)), nil
}

// BuildMenuTree 父节点不在列表中的菜单作为根节点
func BuildMenuTree(menus []types.SysMenu) []types.SysMenu {
	ids := lo.SliceToMap(menus, func(m types.SysMenu) (int64, struct{}) {
		return m.MenuID, struct{}{}
	})
	var roots []types.SysMenu
	for _, m := range menus {
		if _, ok := ids[m.ParentID]; !ok {
			roots = append(roots, attachMenuChildren(menus, m))
		}
	}
	return roots
}

func attachMenuChildren(menus []types.SysMenu, parent types.SysMenu) types.SysMenu {
	parent.Children = nil
	for _, m := range menus {
		if m.ParentID == parent.MenuID && m.MenuID != parent.MenuID {
			parent.Children = append(parent.Children, attachMenuChildren(menus, m))
		}
	}
	return parent
}

func BuildMenuTreeSelect(tree []types.SysMenu) []types.TreeSelect {
	return lo.Map(tree, func(m types.SysMenu, _ int) types.TreeSelect {
		return types.TreeSelect{
			ID:       m.MenuID,
			Label:    m.MenuName,
			Children: BuildMenuTreeSelect(m.Children),
		}
	})
}

func BuildRouters(tree []types.SysMenu) []types.RouterVo {
	routers := make([]types.RouterVo, 0, len(tree))
	for _, menu := range tree {
		r := types.RouterVo{
			Hidden:    menu.Visible != "0",
			Name:      routeName(menu),
			Path:      routerPath(menu),
			Component: componentOf(menu),
			Query:     menu.Query,
			Meta:      newMeta(menu.MenuName, menu.Icon, menu.IsCache == 1, menu.Path),
		}

		switch {
		case len(menu.Children) > 0 && menu.MenuType == types.MENU_TYPE_DIR:
			r.AlwaysShow = true
			r.Redirect = "noRedirect"
			r.Children = BuildRouters(menu.Children)
		case isMenuFrame(menu):
			r.Meta = nil
			r.Children = []types.RouterVo{{
				Path:      menu.Path,
				Component: menu.Component,
				Name:      utils.Capitalize(menu.Path),
				Query:     menu.Query,
				Meta:      newMeta(menu.MenuName, menu.Icon, menu.IsCache == 1, menu.Path),
			}}
		case menu.ParentID == 0 && isInnerLink(menu):
			r.Meta = newMeta(menu.MenuName, menu.Icon, false, "")
			r.Path = "/"
			r.Children = []types.RouterVo{{
				Path:      innerLinkReplace(menu.Path),
				Component: types.INNER_LINK,
				Name:      utils.Capitalize(menu.Path),
				Meta:      newMeta(menu.MenuName, menu.Icon, false, menu.Path),
			}}
		}
		routers = append(routers, r)
	}
	return routers
}

func newMeta(title, icon string, noCache bool, link string) *types.MetaVo {
	meta := &types.MetaVo{Title: title, Icon: icon, NoCache: noCache}
	if types.IsHTTP(link) {
		meta.Link = link
	}
	return meta
}

func routeName(menu types.SysMenu) string {
	if isMenuFrame(menu) {
		return ""
	}
	return utils.Capitalize(menu.Path)
}

func routerPath(menu types.SysMenu) string {
	path := menu.Path
	if menu.ParentID != 0 && isInnerLink(menu) {
		path = innerLinkReplace(path)
	}
	if menu.ParentID == 0 && menu.MenuType == types.MENU_TYPE_DIR && menu.IsFrame == types.MENU_NO_FRAME {
		return "/" + menu.Path
	}
	if isMenuFrame(menu) {
		return "/"
	}
	return path
}

func componentOf(menu types.SysMenu) string {
	switch {
	case menu.Component != "" && !isMenuFrame(menu):
		return menu.Component
	case menu.Component == "" && menu.ParentID != 0 && isInnerLink(menu):
		return types.INNER_LINK
	case menu.Component == "" && isParentView(menu):
		return types.PARENT_VIEW
	}
	return types.LAYOUT
}

// isMenuFrame 一级菜单(非目录)且不是外链
func isMenuFrame(menu types.SysMenu) bool {
	return menu.ParentID == 0 && menu.MenuType == types.MENU_TYPE_MENU && menu.IsFrame == types.MENU_NO_FRAME
}

func isInnerLink(menu types.SysMenu) bool {
	return menu.IsFrame == types.MENU_NO_FRAME && types.IsHTTP(menu.Path)
}

func isParentView(menu types.SysMenu) bool {
	return menu.ParentID != 0 && menu.MenuType == types.MENU_TYPE_DIR
}

func innerLinkReplace(path string) string {
	return strings.NewReplacer("https://", "", "http://", "", "www.", "", ".", "/").Replace(path)
}
