package catalog

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
)

// Task is a unit of work run by the pool.
type Task func(ctx context.Context) error

// WorkerPool runs tasks on a fixed number of goroutines.
type WorkerPool struct {
	workerCount int
	taskQueue   chan Task
	wg          sync.WaitGroup
	ctx         context.Context
	cancel      context.CancelFunc
	logger      *slog.Logger
	failed      atomic.Int64

	closeOnce sync.Once
}

// NewWorkerPool creates a pool bound to ctx. Call Start before Submit.
func NewWorkerPool(ctx context.Context, workerCount int, logger *slog.Logger) *WorkerPool {
	if workerCount < 1 {
		workerCount = 1
	}
	if logger == nil {
		logger = slog.Default()
	}
	poolCtx, cancel := context.WithCancel(ctx)
	return &WorkerPool{
		workerCount: workerCount,
		taskQueue:   make(chan Task, workerCount*2),
		ctx:         poolCtx,
		cancel:      cancel,
		logger:      logger,
	}
}

func (wp *WorkerPool) Start() {
	for i := 0; i < wp.workerCount; i++ {
		wp.wg.Add(1)
		go wp.worker(i)
	}
	wp.logger.Debug("worker_pool_started", "workers", wp.workerCount)
}

// Submit queues a task. It returns false once the pool's context is done.
func (wp *WorkerPool) Submit(task Task) bool {
	select {
	case wp.taskQueue <- task:
		return true
	case <-wp.ctx.Done():
		return false
	}
}

// Wait closes the queue and blocks until every queued task has run.
func (wp *WorkerPool) Wait() {
	wp.closeOnce.Do(func() { close(wp.taskQueue) })
	wp.wg.Wait()
	wp.cancel()
}

// Failed is the number of tasks that returned an error.
func (wp *WorkerPool) Failed() int64 {
	return wp.failed.Load()
}

func (wp *WorkerPool) worker(id int) {
	defer wp.wg.Done()

	for task := range wp.taskQueue {
		if wp.ctx.Err() != nil {
			// drain so Submit never blocks on a full queue
			continue
		}
		if err := task(wp.ctx); err != nil {
			wp.failed.Add(1)
			wp.logger.Warn("catalog_task_failed", "worker", id, "error", err.Error())
		}
	}
}
