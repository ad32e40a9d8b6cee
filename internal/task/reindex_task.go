// Package task 包含后台定时任务。
package task

import (
	"context"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"mall-admin-go/pkg/log"
)

// Reindexer 全量重建商品索引，由 pipeline.Processor 实现。
type Reindexer interface {
	ReindexAll(ctx context.Context) (int, error)
}

// ReindexTask 定时全量重建商品搜索索引，兜底 Kafka 事件丢失或处理失败的情况。
type ReindexTask struct {
	reindexer Reindexer
	cron      *cron.Cron
	timeout   time.Duration

	// running 保证同一时间只有一次全量重建
	mu      sync.Mutex
	running bool
}

// NewReindexTask 创建索引重建任务。
func NewReindexTask(reindexer Reindexer) *ReindexTask {
	return &ReindexTask{
		reindexer: reindexer,
		cron:      cron.New(),
		timeout:   2 * time.Hour,
	}
}

// Start 按 spec（标准五段式 cron 表达式）注册并启动任务。
func (t *ReindexTask) Start(spec string) error {
	if _, err := t.cron.AddFunc(spec, func() { t.RunNow(context.Background()) }); err != nil {
		return err
	}
	t.cron.Start()
	log.Infof("[ReindexTask] 已启动, 计划: %s", spec)
	return nil
}

// Stop 停止任务并等待正在执行的重建结束。
func (t *ReindexTask) Stop() {
	ctx := t.cron.Stop()
	<-ctx.Done()
	log.Info("[ReindexTask] 已停止")
}

// RunNow 立即执行一次全量重建。已有重建在执行时直接返回 false。
func (t *ReindexTask) RunNow(parent context.Context) bool {
	if !t.acquire() {
		log.Warnf("[ReindexTask] 上一次重建尚未结束，跳过本次")
		return false
	}
	defer t.release()
	t.run(parent)
	return true
}

// TryStart 在后台执行一次全量重建，不等待完成。已有重建在执行时返回 false。
func (t *ReindexTask) TryStart() bool {
	if !t.acquire() {
		return false
	}
	go func() {
		defer t.release()
		t.run(context.Background())
	}()
	return true
}

func (t *ReindexTask) acquire() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.running {
		return false
	}
	t.running = true
	return true
}

func (t *ReindexTask) release() {
	t.mu.Lock()
	t.running = false
	t.mu.Unlock()
}

func (t *ReindexTask) run(parent context.Context) {
	ctx, cancel := context.WithTimeout(parent, t.timeout)
	defer cancel()

	start := time.Now()
	log.Info("[ReindexTask] 开始全量重建商品索引...")
	n, err := t.reindexer.ReindexAll(ctx)
	if err != nil {
		log.Errorf("[ReindexTask] 全量重建失败, 已完成 %d 个商品: %v", n, err)
		return
	}
	log.Infow("[ReindexTask] 全量重建完成", "products", n, "elapsed", time.Since(start).String())
}
