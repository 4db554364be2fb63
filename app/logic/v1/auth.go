package v1

import (
	"context"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/spf13/cast"

	"github.com/exb-museum/exb-admin/app/core"
	"github.com/exb-museum/exb-admin/pkg/captcha"
	"github.com/exb-museum/exb-admin/pkg/errors"
	"github.com/exb-museum/exb-admin/pkg/security"
	"github.com/exb-museum/exb-admin/pkg/types"
	"github.com/exb-museum/exb-admin/pkg/types/protocol"
)

const (
	captchaExpire = 2 * time.Minute
	captchaLength = 4

	USERNAME_MIN_LENGTH = 2
	USERNAME_MAX_LENGTH = 20
	PASSWORD_MIN_LENGTH = 5
	PASSWORD_MAX_LENGTH = 20
)

// AuthLogic 登录前的接口
type AuthLogic struct {
	ctx  context.Context
	core *core.Core
}

func NewAuthLogic(ctx context.Context, core *core.Core) *AuthLogic {
	return &AuthLogic{
		ctx:  ctx,
		core: core,
	}
}

type CaptchaResult struct {
	CaptchaEnabled bool
	UUID           string
	Img            string
}

func (l *AuthLogic) Captcha() (CaptchaResult, error) {
	res := CaptchaResult{CaptchaEnabled: CaptchaEnabled(l.ctx, l.core)}
	if !res.CaptchaEnabled {
		return res, nil
	}

	c, err := captcha.Generate(captchaLength)
	if err != nil {
		return res, internal("AuthLogic.Captcha.Generate", err)
	}
	res.UUID = uuid.NewString()
	if err = l.core.Cache().SetEx(l.ctx, protocol.GenCaptchaKey(res.UUID), c.Code, captchaExpire); err != nil {
		return res, internal("AuthLogic.Captcha.Cache.SetEx", err)
	}
	res.Img = c.Base64()
	return res, nil
}

type captchaStore interface {
	GetDel(ctx context.Context, key string) (string, error)
}

const (
	CAPTCHA_EXPIRED  = "验证码已失效"
	CAPTCHA_MISMATCH = "验证码错误"
)

// consumeCaptcha 读取与删除在一次 GETDEL 内完成, 同一个 uuid 只有一个请求能拿到验证码.
// 校验失败时返回失败原因, 缓存异常时返回 error
func consumeCaptcha(ctx context.Context, store captchaStore, id, code string) (string, error) {
	expected, err := store.GetDel(ctx, protocol.GenCaptchaKey(id))
	if err != nil {
		return "", err
	}
	if expected == "" {
		return CAPTCHA_EXPIRED, nil
	}
	if !captcha.Match(expected, code) {
		return CAPTCHA_MISMATCH, nil
	}
	return "", nil
}

func (l *AuthLogic) validateCaptcha(userName, code, id string) error {
	reason, err := consumeCaptcha(l.ctx, l.core.Cache(), id, code)
	if err != nil {
		return internal("AuthLogic.validateCaptcha.Cache.GetDel", err)
	}
	if reason != "" {
		RecordLogininfor(l.ctx, l.core, userName, types.LOGIN_FAIL, reason)
		return errors.Service("AuthLogic.validateCaptcha", reason)
	}
	return nil
}

func validCredentialLength(userName, password string) bool {
	nameLen := utf8.RuneCountInString(userName)
	pwdLen := utf8.RuneCountInString(password)
	return nameLen >= USERNAME_MIN_LENGTH && nameLen <= USERNAME_MAX_LENGTH &&
		pwdLen >= PASSWORD_MIN_LENGTH && pwdLen <= PASSWORD_MAX_LENGTH
}

// Login 校验通过后返回 jwt
func (l *AuthLogic) Login(userName, password, code, captchaID string) (string, error) {
	if CaptchaEnabled(l.ctx, l.core) {
		if err := l.validateCaptcha(userName, code, captchaID); err != nil {
			return "", err
		}
	}

	if !validCredentialLength(userName, password) {
		RecordLogininfor(l.ctx, l.core, userName, types.LOGIN_FAIL, "用户名或密码不匹配")
		return "", errors.Service("AuthLogic.Login", "用户名或密码不匹配")
	}

	user, err := l.core.Store().SysUserStore().GetByUserName(l.ctx, userName, true)
	if err != nil {
		if isNotFound(err) {
			RecordLogininfor(l.ctx, l.core, userName, types.LOGIN_FAIL, "用户不存在/密码错误")
			return "", errors.Service("AuthLogic.Login", fmt.Sprintf("登录用户：%s 不存在", userName))
		}
		return "", internal("AuthLogic.Login.SysUserStore.GetByUserName", err)
	}
	if user.DelFlag == types.SYS_DELETED {
		RecordLogininfor(l.ctx, l.core, userName, types.LOGIN_FAIL, "用户已删除")
		return "", errors.Service("AuthLogic.Login", fmt.Sprintf("对不起，您的账号：%s 已删除", userName))
	}
	if user.Status == types.STATUS_DISABLE {
		RecordLogininfor(l.ctx, l.core, userName, types.LOGIN_FAIL, "用户已封禁")
		return "", errors.Service("AuthLogic.Login", fmt.Sprintf("对不起，您的账号：%s 已停用", userName))
	}

	if err = l.validatePassword(user, password); err != nil {
		return "", err
	}

	RecordLogininfor(l.ctx, l.core, userName, types.LOGIN_SUCCESS, "登录成功")
	loginUser, err := BuildLoginUser(l.ctx, l.core, user)
	if err != nil {
		return "", err
	}
	client := ParseClientInfo(l.ctx)
	loginUser.Ipaddr = client.IP
	loginUser.LoginLocation = client.Location
	loginUser.Browser = client.Browser
	loginUser.OS = client.OS

	if err = l.core.Store().SysUserStore().UpdateLoginInfo(l.ctx, user.UserID, client.IP, time.Now()); err != nil {
		return "", internal("AuthLogic.Login.SysUserStore.UpdateLoginInfo", err)
	}

	token, err := l.core.Tokens().CreateToken(l.ctx, loginUser)
	if err != nil {
		return "", internal("AuthLogic.Login.Tokens.CreateToken", err)
	}
	return token, nil
}

// validatePassword 连续输错 5 次锁定 10 分钟
func (l *AuthLogic) validatePassword(user *types.SysUser, password string) error {
	key := protocol.GenPwdErrCntKey(user.UserName)
	raw, err := l.core.Cache().Get(l.ctx, key)
	if err != nil {
		return internal("AuthLogic.validatePassword.Cache.Get", err)
	}
	if cast.ToInt(raw) >= maxRetryCount {
		msg := fmt.Sprintf("密码输入错误%d次，帐户锁定%d分钟", maxRetryCount, int(lockDuration.Minutes()))
		RecordLogininfor(l.ctx, l.core, user.UserName, types.LOGIN_FAIL, msg)
		return errors.Service("AuthLogic.validatePassword", msg)
	}

	if !security.MatchesPassword(password, user.Password) {
		count, err := l.core.Cache().Incr(l.ctx, key, lockDuration)
		if err != nil {
			return internal("AuthLogic.validatePassword.Cache.Incr", err)
		}
		RecordLogininfor(l.ctx, l.core, user.UserName, types.LOGIN_FAIL, fmt.Sprintf("密码输入错误%d次", count))
		return errors.Service("AuthLogic.validatePassword", "用户名或密码不匹配")
	}
	l.core.Cache().Del(l.ctx, key)
	return nil
}

// Register 开启注册功能时可用
func (l *AuthLogic) Register(userName, password, confirmPassword, code, captchaID string) error {
	val, err := GetConfigValue(l.ctx, l.core, types.CONFIG_REGISTER_USER)
	if err != nil {
		return err
	}
	if val != "true" {
		return errors.Service("AuthLogic.Register", "当前系统没有开启注册功能！")
	}
	if CaptchaEnabled(l.ctx, l.core) {
		if err = l.validateCaptcha(userName, code, captchaID); err != nil {
			return err
		}
	}

	switch {
	case userName == "":
		return errors.Service("AuthLogic.Register", "用户名不能为空")
	case password == "":
		return errors.Service("AuthLogic.Register", "用户密码不能为空")
	case password != confirmPassword:
		return errors.Service("AuthLogic.Register", "两次输入的密码不一致")
	case utf8.RuneCountInString(userName) < USERNAME_MIN_LENGTH || utf8.RuneCountInString(userName) > USERNAME_MAX_LENGTH:
		return errors.Service("AuthLogic.Register", "账户长度必须在2到20个字符之间")
	case utf8.RuneCountInString(password) < PASSWORD_MIN_LENGTH || utf8.RuneCountInString(password) > PASSWORD_MAX_LENGTH:
		return errors.Service("AuthLogic.Register", "密码长度必须在5到20个字符之间")
	}

	if _, err = l.core.Store().SysUserStore().GetByUserName(l.ctx, userName, false); err == nil {
		return errors.Service("AuthLogic.Register", fmt.Sprintf("保存用户'%s'失败，注册账号已存在", userName))
	} else if !isNotFound(err) {
		return internal("AuthLogic.Register.SysUserStore.GetByUserName", err)
	}

	encoded, err := security.EncryptPassword(password)
	if err != nil {
		return internal("AuthLogic.Register.EncryptPassword", err)
	}
	user := types.SysUser{
		UserName: userName,
		NickName: userName,
		Password: encoded,
		Status:   types.STATUS_NORMAL,
	}
	user.Created(userName)
	if _, err = l.core.Store().SysUserStore().Create(l.ctx, user); err != nil {
		return errors.New("AuthLogic.Register.SysUserStore.Create", "注册失败,请联系系统管理人员", err)
	}
	RecordLogininfor(l.ctx, l.core, userName, types.LOGIN_REGISTER, "注册成功")
	return nil
}

// BuildLoginUser 加载角色、部门与权限, 生成会话内容
func BuildLoginUser(ctx context.Context, c *core.Core, user *types.SysUser) (*types.LoginUser, error) {
	roles, err := c.Store().SysRoleStore().List(ctx, types.ListSysRoleOptions{UserID: user.UserID}, nil)
	if err != nil {
		return nil, internal("BuildLoginUser.SysRoleStore.List", err)
	}
	user.Roles = roles

	loginUser := &types.LoginUser{
		UserID: user.UserID,
		DeptID: user.DeptID,
		User:   *user,
	}
	if user.DeptID != 0 {
		dept, err := c.Store().SysDeptStore().Get(ctx, user.DeptID)
		if err != nil && !isNotFound(err) {
			return nil, internal("BuildLoginUser.SysDeptStore.Get", err)
		}
		if dept != nil {
			loginUser.User.Dept = dept
			loginUser.DeptName = dept.DeptName
		}
	}

	if loginUser.IsAdmin() {
		loginUser.Permissions = []string{types.ALL_PERMISSION}
		return loginUser, nil
	}
	perms, err := c.Store().SysMenuStore().ListPermsByUser(ctx, user.UserID)
	if err != nil {
		return nil, internal("BuildLoginUser.SysMenuStore.ListPermsByUser", err)
	}
	loginUser.Permissions = perms
	return loginUser, nil
}

// AuthedLogic 已登录用户的会话接口
type AuthedLogic struct {
	ctx  context.Context
	core *core.Core
	UserInfo
}

func NewAuthedLogic(ctx context.Context, core *core.Core) *AuthedLogic {
	return &AuthedLogic{
		ctx:      ctx,
		core:     core,
		UserInfo: SetupUserInfo(ctx, core),
	}
}

type LoginInfo struct {
	User        types.SysUser
	Roles       []string
	Permissions []string
}

func (l *AuthedLogic) GetInfo() LoginInfo {
	u := l.GetLoginUser()
	info := LoginInfo{
		User:        u.User,
		Permissions: u.Permissions,
	}
	if u.IsAdmin() {
		info.Roles = []string{types.ADMIN_ROLE_KEY}
		info.Permissions = []string{types.ALL_PERMISSION}
	} else {
		info.Roles = u.RoleKeys()
	}
	if info.Roles == nil {
		info.Roles = []string{}
	}
	if info.Permissions == nil {
		info.Permissions = []string{}
	}
	return info
}

func (l *AuthedLogic) Logout() error {
	u := l.GetLoginUser()
	if u.Token == "" {
		return nil
	}
	if err := l.core.Tokens().DelLoginUser(l.ctx, u.Token); err != nil {
		return internal("AuthedLogic.Logout.Tokens.DelLoginUser", err)
	}
	RecordLogininfor(l.ctx, l.core, u.UserName(), types.LOGIN_LOGOUT, "退出成功")
	return nil
}
