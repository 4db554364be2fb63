package types

import (
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
)

const (
	DEFAULT_PAGE_NUM  = 1
	DEFAULT_PAGE_SIZE = 10
	MAX_PAGE_SIZE     = 100
	MAX_PAGE_NUM      = 100000 // 限制 OFFSET 的上限
)

// 数据权限范围
const (
	DATA_SCOPE_ALL            = "1"
	DATA_SCOPE_CUSTOM         = "2"
	DATA_SCOPE_DEPT           = "3"
	DATA_SCOPE_DEPT_AND_CHILD = "4"
	DATA_SCOPE_SELF           = "5"
)

type PageArgs struct {
	PageNum  uint64 `json:"pageNum"`
	PageSize uint64 `json:"pageSize"`
}

func (p PageArgs) Offset() uint64 {
	return (p.PageNum - 1) * p.PageSize
}

type SortItem struct {
	Column string
	Desc   bool
}

// CriterionRule 每个列表路由各自的分页/排序/时间范围/数据权限规则
type CriterionRule struct {
	Paging bool
	// 前端字段名 -> 表字段, 不在其中的排序字段直接拒绝
	SortColumns map[string]string
	DefaultSort []SortItem
	// params[beginTime] / params[endTime] 作用的字段, 为空则忽略
	TimeColumn string
	// 数据权限作用的部门/用户字段, 为空表示该列表不做数据权限过滤
	DeptColumn string
	UserColumn string
	UseScope   bool
}

// Criterion 一次请求的查询约束, 由中间件解析, 由 store 应用到 SelectBuilder
type Criterion struct {
	Rule  CriterionRule
	Page  *PageArgs
	Sort  []SortItem
	Begin *time.Time
	End   *time.Time
	Scope *DataScope
}

// NoPaging 导出等场景复用同样的筛选条件, 但不分页
func (c *Criterion) NoPaging() *Criterion {
	if c == nil {
		return nil
	}
	cp := *c
	cp.Page = nil
	return &cp
}

func (c *Criterion) where(query sq.SelectBuilder) sq.SelectBuilder {
	if c == nil {
		return query
	}
	if c.Rule.TimeColumn != "" {
		if c.Begin != nil {
			query = query.Where(sq.GtOrEq{c.Rule.TimeColumn: *c.Begin})
		}
		if c.End != nil {
			query = query.Where(sq.LtOrEq{c.Rule.TimeColumn: *c.End})
		}
	}
	if c.Rule.UseScope && c.Scope != nil {
		if cond := c.Scope.Sqlizer(c.Rule.DeptColumn, c.Rule.UserColumn); cond != nil {
			query = query.Where(cond)
		}
	}
	return query
}

// Apply 追加时间范围、数据权限、排序与分页
func (c *Criterion) Apply(query *sq.SelectBuilder) {
	if c == nil {
		return
	}
	*query = c.where(*query)

	sorts := c.Sort
	if len(sorts) == 0 {
		sorts = c.Rule.DefaultSort
	}
	for _, s := range sorts {
		if s.Desc {
			*query = query.OrderBy(s.Column + " DESC")
		} else {
			*query = query.OrderBy(s.Column + " ASC")
		}
	}

	if c.Page != nil {
		*query = query.Limit(c.Page.PageSize).Offset(c.Page.Offset())
	}
}

// Count 只追加过滤条件, 用于计算 total
func (c *Criterion) Count(query *sq.SelectBuilder) {
	if c == nil {
		return
	}
	*query = c.where(*query)
}

// ScopeRole 参与数据权限计算的角色
type ScopeRole struct {
	RoleID    int64
	DataScope string
	Status    string
}

type DataScope struct {
	UserID  int64
	DeptID  int64
	IsAdmin bool
	Roles   []ScopeRole
}

// Sqlizer 多个角色的数据权限取并集
func (d *DataScope) Sqlizer(deptColumn, userColumn string) sq.Sqlizer {
	if d == nil || d.IsAdmin {
		return nil
	}

	var (
		or       sq.Or
		seen     = map[string]bool{}
		hasScope bool
	)
	for _, role := range d.Roles {
		if role.Status != "" && role.Status != STATUS_NORMAL {
			continue
		}
		if seen[role.DataScope] && role.DataScope != DATA_SCOPE_CUSTOM {
			continue
		}
		seen[role.DataScope] = true
		hasScope = true

		switch role.DataScope {
		case DATA_SCOPE_ALL:
			return nil
		case DATA_SCOPE_CUSTOM:
			if deptColumn == "" {
				continue
			}
			or = append(or, sq.Expr(fmt.Sprintf("%s IN (SELECT dept_id FROM %s WHERE role_id = ?)", deptColumn, TABLE_SYS_ROLE_DEPT.Name()), role.RoleID))
		case DATA_SCOPE_DEPT:
			if deptColumn == "" {
				continue
			}
			or = append(or, sq.Eq{deptColumn: d.DeptID})
		case DATA_SCOPE_DEPT_AND_CHILD:
			if deptColumn == "" {
				continue
			}
			or = append(or, sq.Expr(fmt.Sprintf("%s IN (SELECT dept_id FROM %s WHERE dept_id = ? OR ? = ANY(string_to_array(ancestors, ',')))", deptColumn, TABLE_SYS_DEPT.Name()), d.DeptID, fmt.Sprintf("%d", d.DeptID)))
		case DATA_SCOPE_SELF:
			if userColumn != "" {
				or = append(or, sq.Eq{userColumn: d.UserID})
			} else {
				or = append(or, sq.Expr("1 = 0"))
			}
		}
	}

	if !hasScope {
		// 没有任何有效角色时只能看到自己
		if userColumn != "" {
			return sq.Eq{userColumn: d.UserID}
		}
		return sq.Expr("1 = 0")
	}
	if len(or) == 0 {
		return sq.Expr("1 = 0")
	}
	return or
}

// ParseSortColumns orderByColumn=createTime,userName 与 isAsc=desc
func ParseSortColumns(rule CriterionRule, orderByColumn, isAsc string) ([]SortItem, error) {
	if orderByColumn == "" {
		return nil, nil
	}
	desc := false
	switch strings.ToLower(strings.TrimSpace(isAsc)) {
	case "", "asc", "ascending":
	case "desc", "descending":
		desc = true
	default:
		return nil, fmt.Errorf("invalid isAsc %q", isAsc)
	}

	var res []SortItem
	for _, col := range strings.Split(orderByColumn, ",") {
		col = strings.TrimSpace(col)
		if col == "" {
			continue
		}
		column, ok := rule.SortColumns[col]
		if !ok {
			return nil, fmt.Errorf("sort column %q is not allowed", col)
		}
		res = append(res, SortItem{Column: column, Desc: desc})
	}
	return res, nil
}
