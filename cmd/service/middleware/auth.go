package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/exb-museum/exb-admin/app/core"
	"github.com/exb-museum/exb-admin/app/core/srv"
	v1 "github.com/exb-museum/exb-admin/app/logic/v1"
	"github.com/exb-museum/exb-admin/app/response"
	"github.com/exb-museum/exb-admin/pkg/errors"
	"github.com/exb-museum/exb-admin/pkg/i18n"
	"github.com/exb-museum/exb-admin/pkg/types"
)

// Authorization 校验后台登录令牌, 会话即将过期时续期
func Authorization(appCore *core.Core) gin.HandlerFunc {
	tracePrefix := "middleware.Authorization"
	return func(c *gin.Context) {
		user, err := appCore.Tokens().GetLoginUser(c, c.GetHeader(appCore.Cfg().Token.HeaderKey()))
		if err != nil {
			response.APIError(c, errors.Trace(tracePrefix, err))
			return
		}
		if user == nil {
			response.APIError(c, errors.New(tracePrefix, i18n.ERROR_UNAUTHORIZED, nil).Code(http.StatusUnauthorized))
			return
		}
		if err = appCore.Tokens().VerifyToken(c, user); err != nil {
			response.APIError(c, errors.Trace(tracePrefix, err))
			return
		}

		c.Set(v1.LOGIN_USER_CONTEXT_KEY, user)
		c.Set(response.OperatorKey, user.UserName())
	}
}

func loginUserOf(c *gin.Context) (*types.LoginUser, error) {
	user, ok := v1.InjectLoginUser(c)
	if !ok {
		return nil, errors.New("middleware.loginUserOf", i18n.ERROR_UNAUTHORIZED, nil).Code(http.StatusUnauthorized)
	}
	return user, nil
}

func authorize(trace string, check func(user *types.LoginUser) bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := loginUserOf(c)
		if err != nil {
			response.APIError(c, errors.Trace(trace, err))
			return
		}
		if user.IsAdmin() || check(user) {
			return
		}
		response.APIError(c, errors.New(trace, i18n.ERROR_PERMISSION_DENIED, nil).Code(http.StatusForbidden))
	}
}

// HasPermi 拥有指定权限标识, 如 system:user:list
func HasPermi(appCore *core.Core, permission string) gin.HandlerFunc {
	return authorize("middleware.HasPermi", func(user *types.LoginUser) bool {
		return appCore.Srv().RBAC().CheckPermission(user.RoleKeys(), permission)
	})
}

// HasAnyPermi 拥有逗号分隔的任一权限
func HasAnyPermi(appCore *core.Core, permissions string) gin.HandlerFunc {
	return authorize("middleware.HasAnyPermi", func(user *types.LoginUser) bool {
		return appCore.Srv().RBAC().CheckAnyPermission(user.RoleKeys(), permissions)
	})
}

func HasRole(role string) gin.HandlerFunc {
	return authorize("middleware.HasRole", func(user *types.LoginUser) bool {
		return srv.HasRole(user.RoleKeys(), role)
	})
}

func HasAnyRoles(roles string) gin.HandlerFunc {
	return authorize("middleware.HasAnyRoles", func(user *types.LoginUser) bool {
		for _, role := range strings.Split(roles, ",") {
			if srv.HasRole(user.RoleKeys(), role) {
				return true
			}
		}
		return false
	})
}

// TryAuthorization 令牌有效时注入登录用户, 否则直接放行
func TryAuthorization(appCore *core.Core) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := appCore.Tokens().GetLoginUser(c, c.GetHeader(appCore.Cfg().Token.HeaderKey()))
		if err != nil || user == nil {
			return
		}
		c.Set(v1.LOGIN_USER_CONTEXT_KEY, user)
		c.Set(response.OperatorKey, user.UserName())
	}
}
