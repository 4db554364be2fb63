package handler

import (
	"github.com/gin-gonic/gin"

	v1 "github.com/exb-museum/exb-admin/app/logic/v1"
	"github.com/exb-museum/exb-admin/app/response"
	"github.com/exb-museum/exb-admin/pkg/i18n"
)

func (s *HttpSrv) CaptchaImage(c *gin.Context) {
	res, err := v1.NewAuthLogic(c, s.Core).Captcha()
	if err != nil {
		response.APIError(c, err)
		return
	}
	extra := gin.H{"captchaEnabled": res.CaptchaEnabled}
	if res.CaptchaEnabled {
		extra["uuid"] = res.UUID
		extra["img"] = res.Img
	}
	response.APIAjax(c, extra)
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Code     string `json:"code"`
	UUID     string `json:"uuid"`
}

func (s *HttpSrv) Login(c *gin.Context) {
	var req LoginRequest
	if !bindJSON(c, &req) {
		return
	}

	token, err := v1.NewAuthLogic(c, s.Core).Login(req.Username, req.Password, req.Code, req.UUID)
	if err != nil {
		response.APIError(c, err)
		return
	}
	response.APIAjax(c, gin.H{"token": token})
}

func (s *HttpSrv) GetInfo(c *gin.Context) {
	info := v1.NewAuthedLogic(c, s.Core).GetInfo()
	response.APIAjax(c, gin.H{
		"user":        info.User,
		"roles":       info.Roles,
		"permissions": info.Permissions,
	})
}

func (s *HttpSrv) GetRouters(c *gin.Context) {
	routers, err := v1.NewMenuLogic(c, s.Core).GetRouters()
	if err != nil {
		response.APIError(c, err)
		return
	}
	response.APISuccess(c, routers)
}

// Logout 令牌无效时同样返回成功
func (s *HttpSrv) Logout(c *gin.Context) {
	if _, ok := v1.InjectLoginUser(c); ok {
		if err := v1.NewAuthedLogic(c, s.Core).Logout(); err != nil {
			response.APIError(c, err)
			return
		}
	}
	response.APIMessage(c, i18n.MESSAGE_LOGOUT_OK)
}

type RegisterRequest struct {
	Username        string `json:"username"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
	Code            string `json:"code"`
	UUID            string `json:"uuid"`
}

func (s *HttpSrv) Register(c *gin.Context) {
	var req RegisterRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := v1.NewAuthLogic(c, s.Core).Register(req.Username, req.Password, req.ConfirmPassword, req.Code, req.UUID); err != nil {
		response.APIError(c, err)
		return
	}
	response.APIMessage(c, i18n.MESSAGE_REGISTER_OK)
}
