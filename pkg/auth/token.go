package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/exb-museum/exb-admin/pkg/errors"
	"github.com/exb-museum/exb-admin/pkg/i18n"
	"github.com/exb-museum/exb-admin/pkg/security"
	"github.com/exb-museum/exb-admin/pkg/types"
	"github.com/exb-museum/exb-admin/pkg/types/protocol"
)

// 剩余有效期不足该值时续期
const refreshThreshold = 20 * time.Minute

// TokenService 后台登录会话, jwt 中只保存会话 uuid, 会话内容保存在缓存中
type TokenService struct {
	cache  types.Cache
	secret []byte
	expire time.Duration
}

func NewTokenService(cache types.Cache, secret string, expire time.Duration) *TokenService {
	return &TokenService{
		cache:  cache,
		secret: []byte(secret),
		expire: expire,
	}
}

// CreateToken 生成会话并返回 jwt
func (s *TokenService) CreateToken(ctx context.Context, user *types.LoginUser) (string, error) {
	user.Token = uuid.NewString()
	if err := s.Refresh(ctx, user); err != nil {
		return "", err
	}
	return security.GenerateLoginToken(user.Token, s.secret)
}

// GetLoginUser 通过请求头中的令牌取得会话, 令牌为空时返回 nil
func (s *TokenService) GetLoginUser(ctx context.Context, rawToken string) (*types.LoginUser, error) {
	token := security.TrimTokenPrefix(rawToken)
	if token == "" {
		return nil, nil
	}
	sessionID, err := security.ParseLoginToken(token, s.secret)
	if err != nil {
		return nil, errors.New("TokenService.GetLoginUser.ParseLoginToken", i18n.ERROR_INVALID_TOKEN, err).Code(http.StatusUnauthorized)
	}
	return s.GetLoginUserBySession(ctx, sessionID)
}

func (s *TokenService) GetLoginUserBySession(ctx context.Context, sessionID string) (*types.LoginUser, error) {
	raw, err := s.cache.Get(ctx, protocol.GenLoginTokenKey(sessionID))
	if err != nil {
		return nil, errors.New("TokenService.GetLoginUser.cache.Get", i18n.ERROR_INTERNAL, err)
	}
	if raw == "" {
		return nil, nil
	}

	var user types.LoginUser
	if err = json.Unmarshal([]byte(raw), &user); err != nil {
		return nil, errors.New("TokenService.GetLoginUser.Unmarshal", i18n.ERROR_INTERNAL, err)
	}
	return &user, nil
}

// VerifyToken 会话即将过期时自动续期
func (s *TokenService) VerifyToken(ctx context.Context, user *types.LoginUser) error {
	if time.UnixMilli(user.ExpireTime).Sub(time.Now()) <= refreshThreshold {
		return s.Refresh(ctx, user)
	}
	return nil
}

func (s *TokenService) Refresh(ctx context.Context, user *types.LoginUser) error {
	now := time.Now()
	user.LoginTime = now.UnixMilli()
	user.ExpireTime = now.Add(s.expire).UnixMilli()
	return s.save(ctx, user, s.expire)
}

// SetLoginUser 更新会话内容, 不改变有效期
func (s *TokenService) SetLoginUser(ctx context.Context, user *types.LoginUser) error {
	if user == nil || user.Token == "" {
		return nil
	}
	ttl := time.Until(time.UnixMilli(user.ExpireTime))
	if ttl <= 0 {
		return nil
	}
	return s.save(ctx, user, ttl)
}

func (s *TokenService) save(ctx context.Context, user *types.LoginUser, ttl time.Duration) error {
	raw, err := json.Marshal(user)
	if err != nil {
		return errors.New("TokenService.save.Marshal", i18n.ERROR_INTERNAL, err)
	}
	if err = s.cache.SetEx(ctx, protocol.GenLoginTokenKey(user.Token), string(raw), ttl); err != nil {
		return errors.New("TokenService.save.SetEx", i18n.ERROR_INTERNAL, err)
	}
	return nil
}

// DelLoginUser 退出登录或强退
func (s *TokenService) DelLoginUser(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	return s.cache.Del(ctx, protocol.GenLoginTokenKey(sessionID))
}
