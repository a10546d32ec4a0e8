// Package worker runs tasks on a fixed number of goroutines.
package worker

import (
	"sync"
	"sync/atomic"

	"github.com/akolanti/ragchat/internal/metrics"
	"github.com/akolanti/ragchat/pkg/logger_i"
)

var logger = logger_i.NewLogger("WorkerPool")

// Task is one unit of work handed to the pool.
type Task func()

type Pool struct {
	jobChannel         chan Task
	workerWaitGroup    sync.WaitGroup
	currentWorkerCount int64
	stopOnce           sync.Once
}

// NewPool starts size workers, at least one.
func NewPool(size int) *Pool {
	size = max(size, 1)
	p := &Pool{jobChannel: make(chan Task, size)}
	for range size {
		p.createWorker()
	}
	logger.Debug("Worker pool started", "workerCount", size)
	return p
}

// Submit blocks until a worker slot accepts the task.
func (p *Pool) Submit(task Task) {
	p.jobChannel <- task
}

// Stop stops accepting tasks and waits for the queued ones to finish.
func (p *Pool) Stop() {
	p.stopOnce.Do(func() {
		close(p.jobChannel)
	})
	p.workerWaitGroup.Wait()
}

func (p *Pool) WorkerCount() int64 {
	return atomic.LoadInt64(&p.currentWorkerCount)
}

func (p *Pool) createWorker() {
	p.workerWaitGroup.Add(1)
	atomic.AddInt64(&p.currentWorkerCount, 1)
	metrics.IncrementActiveWorkerCount()
	go p.worker()
}

func (p *Pool) worker() {
	defer p.removeWorker()
	for task := range p.jobChannel {
		p.execute(task)
	}
}

func (p *Pool) execute(task Task) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Task panicked", "panic", r)
		}
	}()
	task()
}

func (p *Pool) removeWorker() {
	atomic.AddInt64(&p.currentWorkerCount, -1)
	metrics.DecrementActiveWorkerCount()
	p.workerWaitGroup.Done()
}
