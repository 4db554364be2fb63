package auth

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/exb-museum/exb-admin/pkg/types"
	"github.com/exb-museum/exb-admin/pkg/types/protocol"
)

type memoryCache struct {
	mu   sync.Mutex
	data map[string]string
	ttl  map[string]time.Duration
}

func newMemoryCache() *memoryCache {
	return &memoryCache{data: map[string]string{}, ttl: map[string]time.Duration{}}
}

func (m *memoryCache) Get(ctx context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.data[key], nil
}

func (m *memoryCache) SetEx(ctx context.Context, key, value string, expiresAt time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	m.ttl[key] = expiresAt
	return nil
}

func (m *memoryCache) Expire(ctx context.Context, key string, expiration time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ttl[key] = expiration
	return nil
}

func (m *memoryCache) Del(ctx context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range keys {
		delete(m.data, k)
		delete(m.ttl, k)
	}
	return nil
}

const secret = "abcdefghijklmnopqrstuvwxyz0123456789"

func TestTokenLifecycle(t *testing.T) {
	ctx := context.Background()
	cache := newMemoryCache()
	s := NewTokenService(cache, secret, 30*time.Minute)

	user := &types.LoginUser{UserID: 1, User: types.SysUser{UserName: "admin"}}
	token, err := s.CreateToken(ctx, user)
	require.NoError(t, err)
	require.NotEmpty(t, user.Token)
	assert.Equal(t, 30*time.Minute, cache.ttl[protocol.GenLoginTokenKey(user.Token)])

	got, err := s.GetLoginUser(ctx, "Bearer "+token)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "admin", got.UserName())
	assert.Equal(t, user.Token, got.Token)

	require.NoError(t, s.DelLoginUser(ctx, user.Token))
	got, err = s.GetLoginUser(ctx, token)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestVerifyTokenRefresh(t *testing.T) {
	ctx := context.Background()
	s := NewTokenService(newMemoryCache(), secret, 30*time.Minute)

	user := &types.LoginUser{Token: "session", ExpireTime: time.Now().Add(10 * time.Minute).UnixMilli()}
	require.NoError(t, s.VerifyToken(ctx, user))
	assert.Greater(t, user.ExpireTime, time.Now().Add(25*time.Minute).UnixMilli())

	expire := time.Now().Add(28 * time.Minute).UnixMilli()
	user.ExpireTime = expire
	require.NoError(t, s.VerifyToken(ctx, user))
	assert.Equal(t, expire, user.ExpireTime)
}

func TestInvalidToken(t *testing.T) {
	s := NewTokenService(newMemoryCache(), secret, time.Minute)
	_, err := s.GetLoginUser(context.Background(), "Bearer not-a-jwt")
	assert.Error(t, err)

	user, err := s.GetLoginUser(context.Background(), "")
	assert.NoError(t, err)
	assert.Nil(t, user)
}
