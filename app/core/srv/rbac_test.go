package srv

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRBACReload(t *testing.T) {
	s := SetupSrvs(ApplyGrants([]Grant{
		{Role: "common", Permission: "system:user:list"},
		{Role: "common", Permission: "exb_museum:museum:query,exb_museum:museum:list"},
		{Role: "ops", Permission: AllPermission},
	}))

	rbac := s.RBAC()
	assert.True(t, rbac.CheckPermission([]string{"common"}, "system:user:list"))
	assert.True(t, rbac.CheckPermission([]string{"common"}, "exb_museum:museum:list"))
	assert.False(t, rbac.CheckPermission([]string{"common"}, "system:user:remove"))
	assert.True(t, rbac.CheckPermission([]string{"ops"}, "system:user:remove"))
	assert.True(t, rbac.CheckPermission([]string{RoleAdmin}, "monitor:job:run"))
	assert.False(t, rbac.CheckPermission(nil, "system:user:list"))
	assert.False(t, rbac.CheckPermission([]string{"common"}, ""))

	rbac.Reload([]Grant{{Role: "common", Permission: "system:dept:list"}})
	assert.False(t, rbac.CheckPermission([]string{"common"}, "system:user:list"))
	assert.True(t, rbac.CheckAnyPermission([]string{"common"}, "system:user:list,system:dept:list"))
}

func TestHasRole(t *testing.T) {
	assert.True(t, HasRole([]string{"common"}, "common"))
	assert.True(t, HasRole([]string{RoleAdmin}, "anything"))
	assert.False(t, HasRole([]string{"common"}, "ops"))
}
