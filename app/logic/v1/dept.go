package v1

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/samber/lo"

	"github.com/exb-museum/exb-admin/app/core"
	"github.com/exb-museum/exb-admin/pkg/errors"
	"github.com/exb-museum/exb-admin/pkg/types"
)

type DeptLogic struct {
	ctx  context.Context
	core *core.Core
	UserInfo
}

func NewDeptLogic(ctx context.Context, core *core.Core) *DeptLogic {
	return &DeptLogic{
		ctx:      ctx,
		core:     core,
		UserInfo: SetupUserInfo(ctx, core),
	}
}

// scope 部门树等接口没有经过 criterion 中间件时, 按当前用户构造数据权限
func (l *DeptLogic) scope(c *types.Criterion) *types.Criterion {
	if c != nil {
		return c
	}
	return &types.Criterion{
		Rule:  types.CriterionRule{DeptColumn: "dept_id", UseScope: true, DefaultSort: []types.SortItem{{Column: "parent_id"}, {Column: "order_num"}}},
		Scope: l.GetLoginUser().DataScope(),
	}
}

func (l *DeptLogic) List(opts types.ListSysDeptOptions, c *types.Criterion) ([]types.SysDept, error) {
	list, err := l.core.Store().SysDeptStore().List(l.ctx, opts, l.scope(c))
	if err != nil {
		return nil, internal("DeptLogic.List.SysDeptStore.List", err)
	}
	return list, nil
}

// ListExclude 编辑部门时可选的上级部门, 排除自身及下级
func (l *DeptLogic) ListExclude(deptID int64) ([]types.SysDept, error) {
	return l.List(types.ListSysDeptOptions{ExcludeID: deptID}, nil)
}

func (l *DeptLogic) Get(deptID int64) (*types.SysDept, error) {
	if err := l.checkDeptDataScope(deptID); err != nil {
		return nil, err
	}
	dept, err := l.core.Store().SysDeptStore().Get(l.ctx, deptID)
	if err != nil {
		return nil, notFoundOr("DeptLogic.Get.SysDeptStore.Get", err, "部门不存在")
	}
	return dept, nil
}

func (l *DeptLogic) TreeSelect(opts types.ListSysDeptOptions) ([]types.TreeSelect, error) {
	list, err := l.List(opts, nil)
	if err != nil {
		return nil, err
	}
	return BuildDeptTreeSelect(BuildDeptTree(list)), nil
}

func (l *DeptLogic) RoleDeptTreeSelect(roleID int64) ([]types.TreeSelect, []int64, error) {
	role, err := l.core.Store().SysRoleStore().Get(l.ctx, roleID)
	if err != nil {
		return nil, nil, notFoundOr("DeptLogic.RoleDeptTreeSelect.SysRoleStore.Get", err, "角色不存在")
	}
	checked, err := l.core.Store().SysDeptStore().ListIDsByRole(l.ctx, roleID, role.DeptCheckStrictly)
	if err != nil {
		return nil, nil, internal("DeptLogic.RoleDeptTreeSelect.SysDeptStore.ListIDsByRole", err)
	}
	tree, err := l.TreeSelect(types.ListSysDeptOptions{})
	if err != nil {
		return nil, nil, err
	}
	if checked == nil {
		checked = []int64{}
	}
	return tree, checked, nil
}

func (l *DeptLogic) checkNameUnique(dept types.SysDept) (bool, error) {
	exist, err := l.core.Store().SysDeptStore().GetByName(l.ctx, dept.ParentID, dept.DeptName)
	if err != nil {
		if isNotFound(err) {
			return true, nil
		}
		return false, internal("DeptLogic.checkNameUnique.SysDeptStore.GetByName", err)
	}
	return exist.DeptID == dept.DeptID, nil
}

func (l *DeptLogic) Create(dept types.SysDept) error {
	unique, err := l.checkNameUnique(dept)
	if err != nil {
		return err
	}
	if !unique {
		return errors.Service("DeptLogic.Create", fmt.Sprintf("新增部门'%s'失败，部门名称已存在", dept.DeptName))
	}
	parent, err := l.core.Store().SysDeptStore().Get(l.ctx, dept.ParentID)
	if err != nil {
		return notFoundOr("DeptLogic.Create.SysDeptStore.Get", err, "上级部门不存在")
	}
	if parent.Status != types.STATUS_NORMAL {
		return errors.Service("DeptLogic.Create", "部门停用，不允许新增")
	}
	dept.Ancestors = JoinAncestors(parent.Ancestors, parent.DeptID)
	dept.Created(l.OperName())
	if _, err = l.core.Store().SysDeptStore().Create(l.ctx, dept); err != nil {
		return internal("DeptLogic.Create.SysDeptStore.Create", err)
	}
	return nil
}

func (l *DeptLogic) Update(dept types.SysDept) error {
	if err := l.checkDeptDataScope(dept.DeptID); err != nil {
		return err
	}
	unique, err := l.checkNameUnique(dept)
	if err != nil {
		return err
	}
	if !unique {
		return errors.Service("DeptLogic.Update", fmt.Sprintf("修改部门'%s'失败，部门名称已存在", dept.DeptName))
	}
	if dept.ParentID == dept.DeptID {
		return errors.Service("DeptLogic.Update", fmt.Sprintf("修改部门'%s'失败，上级部门不能是自己", dept.DeptName))
	}
	if dept.Status == types.STATUS_DISABLE {
		count, err := l.core.Store().SysDeptStore().CountNormalChildren(l.ctx, dept.DeptID)
		if err != nil {
			return internal("DeptLogic.Update.SysDeptStore.CountNormalChildren", err)
		}
		if count > 0 {
			return errors.Service("DeptLogic.Update", "该部门包含未停用的子部门！")
		}
	}

	old, err := l.core.Store().SysDeptStore().Get(l.ctx, dept.DeptID)
	if err != nil {
		return notFoundOr("DeptLogic.Update.SysDeptStore.Get", err, "部门不存在")
	}
	dept.Ancestors = old.Ancestors
	newParent, err := l.core.Store().SysDeptStore().Get(l.ctx, dept.ParentID)
	if err != nil && !isNotFound(err) {
		return internal("DeptLogic.Update.SysDeptStore.Get", err)
	}

	dept.Updated(l.OperName())
	return l.core.Store().Transaction(l.ctx, func(ctx context.Context) error {
		if newParent != nil {
			dept.Ancestors = JoinAncestors(newParent.Ancestors, newParent.DeptID)
			if dept.Ancestors != old.Ancestors {
				if err := l.moveChildren(ctx, dept.DeptID, dept.Ancestors, old.Ancestors); err != nil {
					return err
				}
			}
		}
		if err := l.core.Store().SysDeptStore().Update(ctx, dept); err != nil {
			return internal("DeptLogic.Update.SysDeptStore.Update", err)
		}
		// 启用部门时同时启用全部上级
		if dept.Status == types.STATUS_NORMAL && dept.Ancestors != "" && dept.Ancestors != "0" {
			ids := AncestorIDs(dept.Ancestors)
			if err := l.core.Store().SysDeptStore().UpdateStatusNormal(ctx, ids); err != nil {
				return internal("DeptLogic.Update.SysDeptStore.UpdateStatusNormal", err)
			}
		}
		return nil
	})
}

// moveChildren 部门移动后改写全部下级的祖级列表
func (l *DeptLogic) moveChildren(ctx context.Context, deptID int64, newAncestors, oldAncestors string) error {
	children, err := l.core.Store().SysDeptStore().ListChildren(ctx, deptID)
	if err != nil {
		return internal("DeptLogic.moveChildren.SysDeptStore.ListChildren", err)
	}
	for _, child := range children {
		ancestors := strings.Replace(child.Ancestors, oldAncestors, newAncestors, 1)
		if err = l.core.Store().SysDeptStore().UpdateAncestors(ctx, child.DeptID, ancestors); err != nil {
			return internal("DeptLogic.moveChildren.SysDeptStore.UpdateAncestors", err)
		}
	}
	return nil
}

func (l *DeptLogic) Delete(deptID int64) error {
	children, err := l.core.Store().SysDeptStore().CountChildren(l.ctx, deptID)
	if err != nil {
		return internal("DeptLogic.Delete.SysDeptStore.CountChildren", err)
	}
	if children > 0 {
		return errors.Service("DeptLogic.Delete", "存在下级部门,不允许删除")
	}
	users, err := l.core.Store().SysUserStore().CountByDept(l.ctx, deptID)
	if err != nil {
		return internal("DeptLogic.Delete.SysUserStore.CountByDept", err)
	}
	if users > 0 {
		return errors.Service("DeptLogic.Delete", "部门存在用户,不允许删除")
	}
	if err = l.checkDeptDataScope(deptID); err != nil {
		return err
	}
	if err = l.core.Store().SysDeptStore().Delete(l.ctx, deptID, l.OperName()); err != nil {
		return internal("DeptLogic.Delete.SysDeptStore.Delete", err)
	}
	return nil
}

func JoinAncestors(parentAncestors string, parentID int64) string {
	if parentAncestors == "" {
		return strconv.FormatInt(parentID, 10)
	}
	return parentAncestors + "," + strconv.FormatInt(parentID, 10)
}

// AncestorIDs 祖级列表中的部门ID, 忽略根节点 0
func AncestorIDs(ancestors string) []int64 {
	var ids []int64
	for _, s := range strings.Split(ancestors, ",") {
		id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
		if err != nil || id == 0 {
			continue
		}
		ids = append(ids, id)
	}
	return ids
}

func BuildDeptTree(depts []types.SysDept) []types.SysDept {
	ids := lo.SliceToMap(depts, func(d types.SysDept) (int64, struct{}) {
		return d.DeptID, struct{}{}
	})
	var roots []types.SysDept
	for _, d := range depts {
		if _, ok := ids[d.ParentID]; !ok {
			roots = append(roots, attachDeptChildren(depts, d))
		}
	}
	return roots
}

func attachDeptChildren(depts []types.SysDept, parent types.SysDept) types.SysDept {
	parent.Children = nil
	for _, d := range depts {
		if d.ParentID == parent.DeptID && d.DeptID != parent.DeptID {
			parent.Children = append(parent.Children, attachDeptChildren(depts, d))
		}
	}
	return parent
}

func BuildDeptTreeSelect(tree []types.SysDept) []types.TreeSelect {
	return lo.Map(tree, func(d types.SysDept, _ int) types.TreeSelect {
		return types.TreeSelect{
			ID:       d.DeptID,
			Label:    d.DeptName,
			Disabled: d.Status == types.STATUS_DISABLE,
			Children: BuildDeptTreeSelect(d.Children),
		}
	})
}
