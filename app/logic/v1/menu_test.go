package v1

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/exb-museum/exb-admin/pkg/types"
)

func testMenus() []types.SysMenu {
	return []types.SysMenu{
		{MenuID: 1, MenuName: "系统管理", ParentID: 0, Path: "system", MenuType: types.MENU_TYPE_DIR, IsFrame: types.MENU_NO_FRAME, Visible: "0", Icon: "system"},
		{MenuID: 100, MenuName: "用户管理", ParentID: 1, Path: "user", Component: "system/user/index", MenuType: types.MENU_TYPE_MENU, IsFrame: types.MENU_NO_FRAME, Visible: "0"},
		{MenuID: 101, MenuName: "角色管理", ParentID: 1, Path: "role", Component: "system/role/index", MenuType: types.MENU_TYPE_MENU, IsFrame: types.MENU_NO_FRAME, Visible: "1", IsCache: 1},
		{MenuID: 2, MenuName: "首页大屏", ParentID: 0, Path: "dashboard", Component: "dashboard/index", MenuType: types.MENU_TYPE_MENU, IsFrame: types.MENU_NO_FRAME, Visible: "0"},
		{MenuID: 3, MenuName: "官网", ParentID: 0, Path: "https://www.example.com", MenuType: types.MENU_TYPE_DIR, IsFrame: types.MENU_NO_FRAME, Visible: "0"},
	}
}

func TestBuildMenuTree(t *testing.T) {
	tree := BuildMenuTree(testMenus())
	require.Len(t, tree, 3)
	assert.Equal(t, int64(1), tree[0].MenuID)
	require.Len(t, tree[0].Children, 2)
	assert.Equal(t, "角色管理", tree[0].Children[1].MenuName)

	sel := BuildMenuTreeSelect(tree)
	assert.Equal(t, "系统管理", sel[0].Label)
	assert.Len(t, sel[0].Children, 2)
}

func TestBuildRouters(t *testing.T) {
	routers := BuildRouters(BuildMenuTree(testMenus()))
	require.Len(t, routers, 3)

	dir := routers[0]
	assert.Equal(t, "/system", dir.Path)
	assert.Equal(t, "System", dir.Name)
	assert.Equal(t, types.LAYOUT, dir.Component)
	assert.True(t, dir.AlwaysShow)
	assert.Equal(t, "noRedirect", dir.Redirect)
	require.Len(t, dir.Children, 2)
	assert.Equal(t, "user", dir.Children[0].Path)
	assert.Equal(t, "system/user/index", dir.Children[0].Component)
	assert.True(t, dir.Children[1].Hidden)
	assert.True(t, dir.Children[1].Meta.NoCache)

	frame := routers[1]
	assert.Equal(t, "/", frame.Path)
	assert.Empty(t, frame.Name)
	assert.Nil(t, frame.Meta)
	require.Len(t, frame.Children, 1)
	assert.Equal(t, "Dashboard", frame.Children[0].Name)
	assert.Equal(t, "dashboard/index", frame.Children[0].Component)

	link := routers[2]
	assert.Equal(t, "/", link.Path)
	require.Len(t, link.Children, 1)
	assert.Equal(t, types.INNER_LINK, link.Children[0].Component)
	assert.Equal(t, "example/com", link.Children[0].Path)
	assert.Equal(t, "https://www.example.com", link.Children[0].Meta.Link)
}

func TestInnerLinkReplace(t *testing.T) {
	assert.Equal(t, "ruoyi/vip", innerLinkReplace("http://ruoyi.vip"))
	assert.Equal(t, "example/com/docs", innerLinkReplace("https://www.example.com/docs"))
}
