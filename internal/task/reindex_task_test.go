package task

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// blockingReindexer 在 release 关闭前一直阻塞。
type blockingReindexer struct {
	calls   atomic.Int32
	started chan struct{}
	release chan struct{}
}

func (r *blockingReindexer) ReindexAll(ctx context.Context) (int, error) {
	r.calls.Add(1)
	r.started <- struct{}{}
	select {
	case <-r.release:
	case <-ctx.Done():
		return 0, ctx.Err()
	}
	return 3, nil
}

func TestReindexTask_SingleRunAtATime(t *testing.T) {
	r := &blockingReindexer{started: make(chan struct{}, 1), release: make(chan struct{})}
	task := NewReindexTask(r)

	require.True(t, task.TryStart())
	<-r.started

	assert.False(t, task.TryStart())
	assert.False(t, task.RunNow(context.Background()))

	close(r.release)
	assert.Eventually(t, func() bool {
		return task.RunNow(context.Background())
	}, time.Second, 10*time.Millisecond)
	assert.EqualValues(t, 2, r.calls.Load())
}

func TestReindexTask_InvalidSpec(t *testing.T) {
	task := NewReindexTask(&blockingReindexer{})
	assert.Error(t, task.Start("not a cron spec"))
}
