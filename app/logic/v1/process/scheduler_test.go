package process

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/bsm/redislock"
	"github.com/hibiken/asynq"
	"github.com/robfig/cron/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/exb-museum/exb-admin/pkg/types"
)

// blockingJob 第一次运行阻塞到 release 关闭
type blockingJob struct {
	runs    atomic.Int32
	started chan struct{}
	release chan struct{}
	once    sync.Once
}

func newBlockingJob() *blockingJob {
	return &blockingJob{started: make(chan struct{}), release: make(chan struct{})}
}

func (j *blockingJob) Run() {
	if j.runs.Add(1) == 1 {
		j.once.Do(func() { close(j.started) })
		<-j.release
	}
}

func fireWhileRunning(t *testing.T, wrapped cron.Job, inner *blockingJob, extra int) {
	t.Helper()
	done := make(chan struct{})
	go func() {
		wrapped.Run()
		close(done)
	}()
	<-inner.started

	var wg sync.WaitGroup
	for i := 0; i < extra; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			wrapped.Run()
		}()
	}
	// 给并发触发留出进入等待的时间
	time.Sleep(50 * time.Millisecond)
	close(inner.release)
	<-done
	wg.Wait()
}

func TestWrapJobAllowConcurrent(t *testing.T) {
	inner := newBlockingJob()
	wrapped := WrapJob(types.SysJob{Concurrent: types.JOB_CONCURRENT_ALLOW}, inner)
	assert.Same(t, inner, wrapped)
}

func TestWrapJobDoNothing(t *testing.T) {
	inner := newBlockingJob()
	wrapped := WrapJob(types.SysJob{Concurrent: types.JOB_CONCURRENT_FORBID, MisfirePolicy: types.MISFIRE_DO_NOTHING}, inner)
	fireWhileRunning(t, wrapped, inner, 3)
	assert.Equal(t, int32(1), inner.runs.Load())
}

func TestWrapJobFireOnce(t *testing.T) {
	inner := newBlockingJob()
	wrapped := WrapJob(types.SysJob{Concurrent: types.JOB_CONCURRENT_FORBID, MisfirePolicy: types.MISFIRE_FIRE_ONCE}, inner)
	fireWhileRunning(t, wrapped, inner, 3)
	assert.Equal(t, int32(2), inner.runs.Load())
}

func TestWrapJobIgnoreMisfires(t *testing.T) {
	inner := newBlockingJob()
	wrapped := WrapJob(types.SysJob{Concurrent: types.JOB_CONCURRENT_FORBID, MisfirePolicy: types.MISFIRE_IGNORE}, inner)
	fireWhileRunning(t, wrapped, inner, 3)
	assert.Equal(t, int32(4), inner.runs.Load())
}

func TestDecodePayload(t *testing.T) {
	raw, err := json.Marshal(types.SysJob{JobID: 3, JobName: "重算报名人数"})
	require.NoError(t, err)

	job, err := decodePayload[types.SysJob](asynq.NewTask("job:run", raw))
	require.NoError(t, err)
	assert.Equal(t, int64(3), job.JobID)

	_, err = decodePayload[types.SysJob](asynq.NewTask("job:run", []byte("{")))
	assert.True(t, errors.Is(err, asynq.SkipRetry))
}

func TestJobTick(t *testing.T) {
	boundary := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	// 两个进程在同一次触发时读到的时间只差几毫秒
	assert.Equal(t, JobTick(boundary.Add(4*time.Millisecond)), JobTick(boundary.Add(-300*time.Millisecond)))
	assert.Equal(t, boundary.Unix(), JobTick(boundary.Add(120*time.Millisecond)))
	assert.NotEqual(t, JobTick(boundary), JobTick(boundary.Add(time.Second)))
}

func TestParseJobChange(t *testing.T) {
	id, err := ParseJobChange("42")
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)

	for _, raw := range []string{"", "x", "0", "-3", "0x10"} {
		_, err = ParseJobChange(raw)
		assert.Error(t, err, raw)
	}
}

func TestSchedulerReload(t *testing.T) {
	s := NewJobScheduler(nil, cron.New())
	job := types.SysJob{JobID: 5, Status: types.JOB_STATUS_NORMAL, CronExpression: "0/5 * * * * ?", Concurrent: types.JOB_CONCURRENT_ALLOW}

	require.NoError(t, s.Reload(job.JobID, &job))
	assert.Len(t, s.cron.Entries(), 1)

	// 重复登记替换原有 entry
	require.NoError(t, s.Reload(job.JobID, &job))
	assert.Len(t, s.cron.Entries(), 1)

	paused := job
	paused.Status = types.JOB_STATUS_PAUSE
	require.NoError(t, s.Reload(job.JobID, &paused))
	assert.Empty(t, s.cron.Entries())

	require.NoError(t, s.Reload(job.JobID, &job))
	require.NoError(t, s.Reload(job.JobID, nil))
	assert.Empty(t, s.cron.Entries())
	assert.True(t, s.NextTime(job.JobID).IsZero())

	bad := job
	bad.CronExpression = "bad"
	assert.Error(t, s.Reload(job.JobID, &bad))
}

type memTickLocker struct {
	lock sync.Mutex
	keys map[string]bool
}

func (l *memTickLocker) Obtain(_ context.Context, key string, _ time.Duration, _ *redislock.Options) (*redislock.Lock, error) {
	l.lock.Lock()
	defer l.lock.Unlock()
	if l.keys[key] {
		return nil, redislock.ErrNotObtained
	}
	l.keys[key] = true
	return &redislock.Lock{}, nil
}

func TestClaimTickAcrossSchedulers(t *testing.T) {
	shared := &memTickLocker{keys: map[string]bool{}}
	service := &JobScheduler{locker: shared}
	worker := &JobScheduler{locker: shared}
	ctx := context.Background()
	fired := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

	var runs int
	for _, s := range []*JobScheduler{service, worker} {
		if s.claimTick(ctx, 9, fired.Add(3*time.Millisecond)) {
			runs++
		}
	}
	assert.Equal(t, 1, runs)

	// 下一次触发与其他任务不受影响
	assert.True(t, worker.claimTick(ctx, 9, fired.Add(5*time.Second)))
	assert.True(t, service.claimTick(ctx, 10, fired))
}
