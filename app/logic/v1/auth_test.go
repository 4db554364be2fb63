package v1

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/exb-museum/exb-admin/pkg/types/protocol"
)

type memCaptchaStore struct {
	lock sync.Mutex
	data map[string]string
	err  error
}

func (s *memCaptchaStore) GetDel(_ context.Context, key string) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	s.lock.Lock()
	defer s.lock.Unlock()
	v := s.data[key]
	delete(s.data, key)
	return v, nil
}

func newCaptchaStore(id, code string) *memCaptchaStore {
	return &memCaptchaStore{data: map[string]string{protocol.GenCaptchaKey(id): code}}
}

func TestConsumeCaptchaOnlyOnce(t *testing.T) {
	ctx := context.Background()
	store := newCaptchaStore("u-1", "AB12")

	reason, err := consumeCaptcha(ctx, store, "u-1", "ab12")
	require.NoError(t, err)
	assert.Empty(t, reason)

	reason, err = consumeCaptcha(ctx, store, "u-1", "ab12")
	require.NoError(t, err)
	assert.Equal(t, CAPTCHA_EXPIRED, reason)
}

func TestConsumeCaptchaMismatchBurnsCode(t *testing.T) {
	ctx := context.Background()
	store := newCaptchaStore("u-2", "AB12")

	reason, err := consumeCaptcha(ctx, store, "u-2", "zzzz")
	require.NoError(t, err)
	assert.Equal(t, CAPTCHA_MISMATCH, reason)

	reason, err = consumeCaptcha(ctx, store, "u-2", "AB12")
	require.NoError(t, err)
	assert.Equal(t, CAPTCHA_EXPIRED, reason)
}

func TestConsumeCaptchaConcurrent(t *testing.T) {
	ctx := context.Background()
	store := newCaptchaStore("u-3", "AB12")

	var (
		wg     sync.WaitGroup
		passed atomic.Int32
	)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if reason, err := consumeCaptcha(ctx, store, "u-3", "AB12"); err == nil && reason == "" {
				passed.Add(1)
			}
		}()
	}
	wg.Wait()
	assert.EqualValues(t, 1, passed.Load())
}

func TestConsumeCaptchaCacheError(t *testing.T) {
	store := &memCaptchaStore{err: fmt.Errorf("connection refused")}
	_, err := consumeCaptcha(context.Background(), store, "u-4", "AB12")
	require.Error(t, err)
}
