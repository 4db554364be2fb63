package v1

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/exb-museum/exb-admin/app/core"
	"github.com/exb-museum/exb-admin/pkg/errors"
	"github.com/exb-museum/exb-admin/pkg/types"
)

func TestParseInvokeTarget(t *testing.T) {
	tt, err := ParseInvokeTarget("ryTask.ryNoParams")
	require.NoError(t, err)
	assert.Equal(t, "ryTask.ryNoParams", tt.Name)
	assert.Empty(t, tt.Args)

	tt, err = ParseInvokeTarget("ryTask.ryMultipleParams('ry', true, 2000L, 316.50D, 100)")
	require.NoError(t, err)
	assert.Equal(t, "ryTask.ryMultipleParams", tt.Name)
	assert.Equal(t, []any{"ry", true, int64(2000), 316.5, 100}, tt.Args)

	tt, err = ParseInvokeTarget(`exbTask.echo("a,b", 'c')`)
	require.NoError(t, err)
	assert.Equal(t, []any{"a,b", "c"}, tt.Args)

	tt, err = ParseInvokeTarget("exbTask.recountRegistration()")
	require.NoError(t, err)
	assert.Empty(t, tt.Args)

	for _, bad := range []string{"", "1abc", "a.b('x)", "a.b(x)", "a.b(1,)", "a b"} {
		_, err = ParseInvokeTarget(bad)
		assert.Error(t, err, bad)
	}
}

func TestParseCron(t *testing.T) {
	for _, expr := range []string{"0/10 * * * * ?", "0 0 2 * * ? 2026", "0 30 8 ? * MON-FRI", "*/5 * * * *"} {
		_, err := ParseCron(expr)
		assert.NoError(t, err, expr)
	}
	for _, expr := range []string{"", "* * *", "61 * * * * ?", "abc"} {
		_, err := ParseCron(expr)
		assert.Error(t, err, expr)
	}
	assert.False(t, NextValidTime("0/10 * * * * ?").IsZero())
	assert.True(t, NextValidTime("bad").IsZero())
}

func TestCheckInvokeTarget(t *testing.T) {
	assert.True(t, CheckInvokeTarget("ryTask.ryNoParams"))
	assert.True(t, CheckInvokeTarget("ryTask.ryParams('ry')"))
	assert.True(t, CheckInvokeTarget("exbTask.cleanExpiredLoginLogs(30)"))
	assert.False(t, CheckInvokeTarget("os.Exit(1)"))
	assert.Contains(t, JobFuncNames(), "exbTask.recountRegistration")
}

func TestJobValidate(t *testing.T) {
	l := &JobLogic{}
	err := l.validate(types.SysJob{JobName: "demo", CronExpression: "bad", InvokeTarget: "ryTask.ryNoParams"}, "新增")
	ce, ok := errors.As(err)
	require.True(t, ok)
	assert.Equal(t, "新增任务'demo'失败，Cron表达式不正确", ce.Message())

	err = l.validate(types.SysJob{JobName: "demo", CronExpression: "0/10 * * * * ?", InvokeTarget: "unknown.run"}, "修改")
	ce, ok = errors.As(err)
	require.True(t, ok)
	assert.Equal(t, "修改任务'demo'失败，目标字符串不在白名单内", ce.Message())

	err = l.validate(types.SysJob{JobName: "demo", CronExpression: "0/10 * * * * ?", InvokeTarget: "ryTask.ryParams('http://x')"}, "新增")
	ce, ok = errors.As(err)
	require.True(t, ok)
	assert.Equal(t, "新增任务'demo'失败，目标字符串不允许'http'调用", ce.Message())

	assert.NoError(t, l.validate(types.SysJob{JobName: "demo", CronExpression: "0/10 * * * * ?", InvokeTarget: "ryTask.ryParams('ry')"}, "新增"))
}

func TestInvokeRecoversPanic(t *testing.T) {
	RegisterJobFunc("testTask.panic", func(ctx context.Context, c *core.Core, args ...any) (string, error) {
		panic("boom")
	})
	RegisterJobFunc("testTask.echo", func(ctx context.Context, c *core.Core, args ...any) (string, error) {
		return args[0].(string), nil
	})

	_, err := invoke(context.Background(), nil, "testTask.panic")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")

	msg, err := invoke(context.Background(), nil, "testTask.echo('hi')")
	require.NoError(t, err)
	assert.Equal(t, "hi", msg)

	_, err = invoke(context.Background(), nil, "testTask.missing")
	assert.Error(t, err)
}

func TestCleanExpiredLoginLogsRejectsBadDays(t *testing.T) {
	_, err := cleanExpiredLoginLogs(context.Background(), nil, -1)
	assert.Error(t, err)
}
