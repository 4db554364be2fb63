package middleware

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	v1 "github.com/exb-museum/exb-admin/app/logic/v1"
	"github.com/exb-museum/exb-admin/app/response"
	"github.com/exb-museum/exb-admin/pkg/errors"
	"github.com/exb-museum/exb-admin/pkg/i18n"
	"github.com/exb-museum/exb-admin/pkg/types"
	"github.com/exb-museum/exb-admin/pkg/utils"
)

const (
	QUERY_PAGE_NUM        = "pageNum"
	QUERY_PAGE_SIZE       = "pageSize"
	QUERY_ORDER_BY_COLUMN = "orderByColumn"
	QUERY_IS_ASC          = "isAsc"
	QUERY_BEGIN_TIME      = "params[beginTime]"
	QUERY_END_TIME        = "params[endTime]"
)

// Criterion 按路由规则解析分页、排序、时间范围与数据权限
func Criterion(rule types.CriterionRule) gin.HandlerFunc {
	return func(c *gin.Context) {
		var scope *types.DataScope
		if rule.UseScope {
			if user, ok := v1.InjectLoginUser(c); ok {
				scope = user.DataScope()
			}
		}
		criterion, err := ParseCriterion(rule, formOrQuery(c), scope)
		if err != nil {
			response.APIError(c, err)
			return
		}
		c.Set(v1.CRITERION_CONTEXT_KEY, criterion)
	}
}

// formOrQuery 导出接口以表单提交筛选条件
func formOrQuery(c *gin.Context) func(string) string {
	return func(key string) string {
		if v, ok := c.GetPostForm(key); ok {
			return v
		}
		return c.Query(key)
	}
}

// ParseCriterion query 为取查询参数的函数
func ParseCriterion(rule types.CriterionRule, query func(string) string, scope *types.DataScope) (*types.Criterion, error) {
	trace := "middleware.ParseCriterion"
	res := &types.Criterion{Rule: rule, Scope: scope}

	if rule.Paging {
		page, err := parsePage(query(QUERY_PAGE_NUM), query(QUERY_PAGE_SIZE))
		if err != nil {
			return nil, errors.New(trace, i18n.ERROR_PAGE_ARGUMENT, err).Code(http.StatusBadRequest)
		}
		res.Page = page
	}

	sorts, err := types.ParseSortColumns(rule, query(QUERY_ORDER_BY_COLUMN), query(QUERY_IS_ASC))
	if err != nil {
		return nil, errors.New(trace, i18n.ERROR_SORT_COLUMN, err).Code(http.StatusBadRequest)
	}
	res.Sort = sorts

	if rule.TimeColumn != "" {
		if res.Begin, err = parseTimeParam(query(QUERY_BEGIN_TIME), false); err != nil {
			return nil, errors.New(trace, i18n.ERROR_INVALIDARGUMENT, err).Code(http.StatusBadRequest)
		}
		if res.End, err = parseTimeParam(query(QUERY_END_TIME), true); err != nil {
			return nil, errors.New(trace, i18n.ERROR_INVALIDARGUMENT, err).Code(http.StatusBadRequest)
		}
	}
	return res, nil
}

func parsePage(rawNum, rawSize string) (*types.PageArgs, error) {
	page := &types.PageArgs{PageNum: types.DEFAULT_PAGE_NUM, PageSize: types.DEFAULT_PAGE_SIZE}
	if rawNum != "" {
		num, err := strconv.ParseInt(rawNum, 10, 64)
		if err != nil || num < 1 || num > types.MAX_PAGE_NUM {
			return nil, fmt.Errorf("invalid pageNum %q", rawNum)
		}
		page.PageNum = uint64(num)
	}
	if rawSize != "" {
		size, err := strconv.ParseInt(rawSize, 10, 64)
		if err != nil || size < 1 || size > types.MAX_PAGE_SIZE {
			return nil, fmt.Errorf("invalid pageSize %q", rawSize)
		}
		page.PageSize = uint64(size)
	}
	return page, nil
}

// parseTimeParam 只有日期的结束时间取当天最后一刻
func parseTimeParam(raw string, end bool) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	t, dateOnly, err := utils.ParseDateOrTime(raw)
	if err != nil {
		return nil, err
	}
	if end && dateOnly {
		t = utils.EndOfDay(t)
	}
	return &t, nil
}
