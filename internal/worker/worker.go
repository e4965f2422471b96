package worker

import (
	"context"
	"log"
	"sync"
	"sync/atomic"
)

// Task is one unit of proof post-processing.
type Task func(ctx context.Context) error

const defaultQueueDepth = 256

// WorkerPool runs proof post-processing (thumbnails, snapshot cleanup) off
// the request path. Tasks are best effort: a full queue drops the task with a
// log line rather than blocking a save, since artifacts regenerate on the
// next save anyway.
type WorkerPool struct {
	tasks   chan Task
	wg      sync.WaitGroup
	closing atomic.Bool
}

func NewWorkerPool(size int) *WorkerPool {
	return NewWorkerPoolDepth(size, defaultQueueDepth)
}

// NewWorkerPoolDepth starts size workers over a queue holding depth pending
// tasks. Non-positive arguments fall back to one worker and the default depth.
func NewWorkerPoolDepth(size, depth int) *WorkerPool {
	if size < 1 {
		size = 1
	}
	if depth < 1 {
		depth = defaultQueueDepth
	}
	wp := &WorkerPool{tasks: make(chan Task, depth)}
	for i := 0; i < size; i++ {
		wp.wg.Add(1)
		go wp.run()
	}
	return wp
}

func (wp *WorkerPool) run() {
	defer wp.wg.Done()
	for task := range wp.tasks {
		if err := task(context.Background()); err != nil {
			log.Printf("proof worker: task failed: %v", err)
		}
	}
}

// Submit queues a task. Tasks arriving during shutdown or against a full
// queue are dropped.
func (wp *WorkerPool) Submit(t Task) {
	if wp.closing.Load() {
		return
	}
	select {
	case wp.tasks <- t:
	default:
		log.Println("proof worker: queue full, dropping task")
	}
}

// Shutdown stops accepting tasks and waits for in-flight ones to finish.
func (wp *WorkerPool) Shutdown() {
	wp.closing.Store(true)
	close(wp.tasks)
	wp.wg.Wait()
}
