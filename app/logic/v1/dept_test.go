package v1

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/exb-museum/exb-admin/pkg/types"
)

func TestAncestors(t *testing.T) {
	assert.Equal(t, "0", JoinAncestors("", 0))
	assert.Equal(t, "0,100,101", JoinAncestors("0,100", 101))
	assert.Equal(t, []int64{100, 101}, AncestorIDs("0,100,101"))
	assert.Empty(t, AncestorIDs("0"))
}

func TestBuildDeptTree(t *testing.T) {
	depts := []types.SysDept{
		{DeptID: 100, ParentID: 0, DeptName: "博物馆集团", Status: "0"},
		{DeptID: 101, ParentID: 100, DeptName: "省博", Status: "0"},
		{DeptID: 103, ParentID: 101, DeptName: "陈列部", Status: "1"},
		{DeptID: 102, ParentID: 100, DeptName: "市博", Status: "0"},
	}
	tree := BuildDeptTreeSelect(BuildDeptTree(depts))
	require.Len(t, tree, 1)
	require.Len(t, tree[0].Children, 2)
	assert.Equal(t, "省博", tree[0].Children[0].Label)
	require.Len(t, tree[0].Children[0].Children, 1)
	assert.True(t, tree[0].Children[0].Children[0].Disabled)
}
