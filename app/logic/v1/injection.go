package v1

import (
	"context"

	"github.com/exb-museum/exb-admin/pkg/security"
	"github.com/exb-museum/exb-admin/pkg/types"
)

const (
	LOGIN_USER_CONTEXT_KEY = "__exb.login_user"
	WX_CLAIMS_CONTEXT_KEY  = "__exb.wx_claims"
	CRITERION_CONTEXT_KEY  = "__exb.criterion"
	LANGUAGE_KEY           = "__exb.accept_language"
	CLIENT_IP_KEY          = "__exb.client_ip"
	USER_AGENT_KEY         = "__exb.user_agent"
)

// InjectLoginUser get admin login session from context
func InjectLoginUser(ctx context.Context) (*types.LoginUser, bool) {
	val, ok := ctx.Value(LOGIN_USER_CONTEXT_KEY).(*types.LoginUser)
	return val, ok && val != nil
}

// InjectWxClaims 小程序访问令牌
func InjectWxClaims(ctx context.Context) (*security.WxClaims, bool) {
	val, ok := ctx.Value(WX_CLAIMS_CONTEXT_KEY).(*security.WxClaims)
	return val, ok && val != nil
}

// InjectCriterion 未经过 criterion 中间件时返回 nil
func InjectCriterion(ctx context.Context) *types.Criterion {
	val, _ := ctx.Value(CRITERION_CONTEXT_KEY).(*types.Criterion)
	return val
}

func InjectLanguage(ctx context.Context) (string, bool) {
	val, ok := ctx.Value(LANGUAGE_KEY).(string)
	return val, ok
}

func InjectClientIP(ctx context.Context) string {
	val, _ := ctx.Value(CLIENT_IP_KEY).(string)
	return val
}

func InjectUserAgent(ctx context.Context) string {
	val, _ := ctx.Value(USER_AGENT_KEY).(string)
	return val
}
