package errors

import (
	"database/sql"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTraceKeepsCode(t *testing.T) {
	err := New("store.Get", "error.notfound", sql.ErrNoRows).Code(http.StatusNotFound)
	traced := Trace("logic.Get", err)

	assert.Equal(t, http.StatusNotFound, traced.GetCode())
	assert.Contains(t, traced.Error(), "store.Get->logic.Get")
	assert.True(t, Is(traced, sql.ErrNoRows))
}

func TestWrapPlainError(t *testing.T) {
	err := Trace("handler", fmt.Errorf("boom"))
	assert.Equal(t, http.StatusInternalServerError, err.GetCode())
	assert.Equal(t, "boom", err.Message())

	ce, ok := As(fmt.Errorf("outer: %w", err))
	assert.True(t, ok)
	assert.Equal(t, "boom", ce.Message())
}

func TestServiceMessage(t *testing.T) {
	err := Service("logic.Login", "用户名或密码不匹配")
	assert.Equal(t, "用户名或密码不匹配", err.Message())
	assert.Equal(t, http.StatusInternalServerError, err.GetCode())
}
