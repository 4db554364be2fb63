package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/exb-museum/exb-admin/pkg/types"
)

func TestCriterionRules(t *testing.T) {
	rules := map[string]types.CriterionRule{
		"user":        userRule,
		"authUser":    authUserRule,
		"role":        roleRule,
		"dept":        deptRule,
		"post":        postRule,
		"dictType":    dictTypeRule,
		"dictData":    dictDataRule,
		"config":      configRule,
		"notice":      noticeRule,
		"logininfor":  logininforRule,
		"operLog":     operLogRule,
		"job":         jobRule,
		"jobLog":      jobLogRule,
		"museum":      museumRule,
		"hall":        hallRule,
		"exhibition":  exhibitionRule,
		"unit":        unitRule,
		"collection":  collectionRule,
		"activity":    activityRule,
		"reservation": reservationRule,
	}

	for name, rule := range rules {
		// 分页查询必须有稳定排序
		if rule.Paging {
			assert.NotEmpty(t, rule.DefaultSort, name)
		}
		if rule.UseScope {
			assert.NotEmpty(t, rule.DeptColumn, name)
		}
		for key, column := range rule.SortColumns {
			assert.NotEmpty(t, key, name)
			assert.NotContains(t, column, " ", name)
		}
	}
}

func TestSortHelpers(t *testing.T) {
	assert.Equal(t, []types.SortItem{{Column: "a"}, {Column: "b"}}, asc("a", "b"))
	assert.Equal(t, []types.SortItem{{Column: "x", Desc: true}}, desc("x"))
}
