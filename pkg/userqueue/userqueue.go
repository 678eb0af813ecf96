// Package userqueue runs tasks sequentially per key and concurrently across
// keys. A key's goroutine lives only while it has pending work.
package userqueue

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"
)

type Task = func()

type lane struct {
	pending []Task
}

type Queue struct {
	mu    sync.Mutex
	lanes map[int64]*lane
	wg    sync.WaitGroup
	log   *slog.Logger
}

func New(log *slog.Logger) *Queue {
	return &Queue{
		lanes: make(map[int64]*lane),
		log:   log,
	}
}

// Submit enqueues task behind every task previously submitted for key.
func (q *Queue) Submit(key int64, task Task) {
	q.mu.Lock()
	if l, ok := q.lanes[key]; ok {
		l.pending = append(l.pending, task)
		q.mu.Unlock()
		return
	}
	l := &lane{}
	q.lanes[key] = l
	q.wg.Add(1)
	q.mu.Unlock()

	go q.drain(key, l, task)
}

func (q *Queue) drain(key int64, l *lane, task Task) {
	defer q.wg.Done()
	for {
		q.run(key, task)

		q.mu.Lock()
		if len(l.pending) == 0 {
			delete(q.lanes, key)
			q.mu.Unlock()
			return
		}
		task = l.pending[0]
		l.pending[0] = nil
		l.pending = l.pending[1:]
		q.mu.Unlock()
	}
}

func (q *Queue) run(key int64, task Task) {
	defer func() {
		if r := recover(); r != nil {
			q.log.Error("task panicked",
				"key", key,
				"panic", fmt.Sprint(r),
				"stack", string(debug.Stack()),
			)
		}
	}()
	task()
}

// Pending reports how many keys currently have work queued or running.
func (q *Queue) Pending() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.lanes)
}

// Wait blocks until every lane has drained or ctx is done.
func (q *Queue) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		q.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
