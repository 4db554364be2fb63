package security

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var secret = []byte("abcdefghijklmnopqrstuvwxyz")

func TestLoginToken(t *testing.T) {
	token, err := GenerateLoginToken("4c3f2f0a-uuid", secret)
	require.NoError(t, err)

	_, err = ParseLoginToken("Bearer "+token, secret)
	assert.Error(t, err)

	uuid, err := ParseLoginToken(TrimTokenPrefix("Bearer "+token), secret)
	require.NoError(t, err)
	assert.Equal(t, "4c3f2f0a-uuid", uuid)

	_, err = ParseLoginToken(token, []byte("other"))
	assert.ErrorIs(t, err, ErrInvalidJWT)
}

func TestWxToken(t *testing.T) {
	token, err := GenerateWxToken(NewWxClaims("openid-1", "wx123", 9, time.Hour), secret)
	require.NoError(t, err)

	claims, err := ParseWxToken(token, secret)
	require.NoError(t, err)
	assert.Equal(t, "openid-1", claims.OpenID)
	assert.Equal(t, "wx123", claims.AppID)
	assert.Equal(t, int64(9), claims.UID)

	expired, err := GenerateWxToken(NewWxClaims("openid-1", "wx123", 9, -time.Minute), secret)
	require.NoError(t, err)
	_, err = ParseWxToken(expired, secret)
	assert.ErrorIs(t, err, ErrExpiredJWT)
}

func TestWxSign(t *testing.T) {
	sign := GenWxSign("POST", "/wx/museum/activity/reserve", `{"activityId":1}`, 1700000000, "n1", "tk")
	assert.Len(t, sign, 64)
	assert.True(t, VerifyWxSign(sign, "POST", "/wx/museum/activity/reserve", `{"activityId":1}`, 1700000000, "n1", "tk"))
	assert.False(t, VerifyWxSign(sign, "POST", "/wx/museum/activity/reserve", `{"activityId":2}`, 1700000000, "n1", "tk"))
}

func TestPassword(t *testing.T) {
	encoded, err := EncryptPassword("admin123")
	require.NoError(t, err)
	assert.True(t, MatchesPassword("admin123", encoded))
	assert.False(t, MatchesPassword("admin1234", encoded))
}
