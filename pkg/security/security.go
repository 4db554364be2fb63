package security

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dgrijalva/jwt-go"
	"golang.org/x/crypto/bcrypt"
)

const (
	TOKEN_KEY    = "Authorization"
	TOKEN_PREFIX = "Bearer "

	LOGIN_USER_KEY = "login_user_key"
)

var (
	ErrInvalidJWT = errors.New("invalid token")
	ErrExpiredJWT = errors.New("expired token")
)

// TrimTokenPrefix 去掉 Bearer 前缀
func TrimTokenPrefix(raw string) string {
	raw = strings.TrimSpace(raw)
	if len(raw) >= len(TOKEN_PREFIX) && strings.EqualFold(raw[:len(TOKEN_PREFIX)], TOKEN_PREFIX) {
		return strings.TrimSpace(raw[len(TOKEN_PREFIX):])
	}
	return raw
}

// GenerateLoginToken 后台登录令牌, 只携带 redis 中登录会话的 key, 过期由会话控制
func GenerateLoginToken(uuid string, secret []byte) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		LOGIN_USER_KEY: uuid,
	})
	return token.SignedString(secret)
}

func ParseLoginToken(tokenString string, secret []byte) (string, error) {
	claims, err := parseHS256(tokenString, secret)
	if err != nil {
		return "", err
	}
	uuid, _ := claims[LOGIN_USER_KEY].(string)
	if uuid == "" {
		return "", ErrInvalidJWT
	}
	return uuid, nil
}

// WxClaims 小程序访问令牌
type WxClaims struct {
	OpenID    string `json:"openid"`
	AppID     string `json:"appid"`
	UID       int64  `json:"uid"`
	ExpiresAt int64  `json:"exp"`
	IssuedAt  int64  `json:"iat"`
}

func NewWxClaims(openID, appID string, uid int64, expire time.Duration) WxClaims {
	now := time.Now()
	return WxClaims{
		OpenID:    openID,
		AppID:     appID,
		UID:       uid,
		ExpiresAt: now.Add(expire).Unix(),
		IssuedAt:  now.Unix(),
	}
}

func GenerateWxToken(claims WxClaims, secret []byte) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"openid": claims.OpenID,
		"appid":  claims.AppID,
		"uid":    claims.UID,
		"exp":    claims.ExpiresAt,
		"iat":    claims.IssuedAt,
	})
	return token.SignedString(secret)
}

func ParseWxToken(tokenString string, secret []byte) (*WxClaims, error) {
	claims, err := parseHS256(tokenString, secret)
	if err != nil {
		return nil, err
	}

	res := &WxClaims{}
	res.OpenID, _ = claims["openid"].(string)
	res.AppID, _ = claims["appid"].(string)
	if v, ok := claims["uid"].(float64); ok {
		res.UID = int64(v)
	}
	if v, ok := claims["exp"].(float64); ok {
		res.ExpiresAt = int64(v)
	}
	if v, ok := claims["iat"].(float64); ok {
		res.IssuedAt = int64(v)
	}
	if res.OpenID == "" {
		return nil, ErrInvalidJWT
	}
	return res, nil
}

func parseHS256(tokenString string, secret []byte) (jwt.MapClaims, error) {
	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v, %w", t.Header["alg"], ErrInvalidJWT)
		}
		return secret, nil
	})
	if err != nil {
		var ve *jwt.ValidationError
		if errors.As(err, &ve) && ve.Errors&jwt.ValidationErrorExpired != 0 {
			return nil, ErrExpiredJWT
		}
		return nil, fmt.Errorf("%s, %w", err.Error(), ErrInvalidJWT)
	}
	return claims, nil
}

// GenWxSign method\npath\nbody\ntimestamp\nnonce\ntoken 的 sha256
func GenWxSign(method, path, body string, timestamp int64, nonce, token string) string {
	signStr := strings.Join([]string{method, path, body, fmt.Sprintf("%d", timestamp), nonce, token}, "\n")
	sum := sha256.Sum256([]byte(signStr))
	return hex.EncodeToString(sum[:])
}

func VerifyWxSign(sign, method, path, body string, timestamp int64, nonce, token string) bool {
	expected := GenWxSign(method, path, body, timestamp, nonce, token)
	return subtle.ConstantTimeCompare([]byte(strings.ToLower(sign)), []byte(expected)) == 1
}

// EncryptPassword bcrypt
func EncryptPassword(password string) (string, error) {
	raw, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

func MatchesPassword(raw, encoded string) bool {
	return bcrypt.CompareHashAndPassword([]byte(encoded), []byte(raw)) == nil
}
