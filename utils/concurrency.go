package utils

import (
	"context"
	"sync"
	"time"
)

// WorkerPool runs jobs on a bounded number of goroutines and spaces job
// starts at least interval apart.
type WorkerPool struct {
	interval  time.Duration
	semaphore chan struct{}
	wg        sync.WaitGroup
	mu        sync.Mutex
	lastStart time.Time
}

// NewWorkerPool creates a WorkerPool. maxWorkers below 1 is treated as 1.
func NewWorkerPool(maxWorkers int, interval time.Duration) *WorkerPool {
	if maxWorkers < 1 {
		maxWorkers = 1
	}
	return &WorkerPool{
		interval:  interval,
		semaphore: make(chan struct{}, maxWorkers),
	}
}

// Submit blocks until a worker slot is free, then runs job in its own goroutine.
func (wp *WorkerPool) Submit(job func()) {
	_ = wp.SubmitContext(context.Background(), job)
}

// SubmitContext is Submit that gives up waiting for a slot when ctx is
// done. The job is not run in that case and ctx.Err() is returned.
func (wp *WorkerPool) SubmitContext(ctx context.Context, job func()) error {
	wp.wg.Add(1)
	select {
	case wp.semaphore <- struct{}{}:
	case <-ctx.Done():
		wp.wg.Done()
		return ctx.Err()
	}

	go func() {
		defer wp.wg.Done()
		defer func() { <-wp.semaphore }()

		wp.throttle()
		job()
	}()
	return nil
}

// Wait blocks until all submitted jobs have completed.
func (wp *WorkerPool) Wait() {
	wp.wg.Wait()
}

func (wp *WorkerPool) throttle() {
	if wp.interval <= 0 {
		return
	}

	wp.mu.Lock()
	defer wp.mu.Unlock()

	if wait := wp.interval - time.Since(wp.lastStart); wait > 0 && !wp.lastStart.IsZero() {
		time.Sleep(wait)
	}
	wp.lastStart = time.Now()
}

// URLSet is a thread-safe set of listing URLs.
type URLSet struct {
	mu   sync.RWMutex
	seen map[string]struct{}
}

// NewURLSet creates an empty URLSet.
func NewURLSet() *URLSet {
	return &URLSet{seen: make(map[string]struct{})}
}

// Add returns true if the URL was newly added, false if already present.
func (s *URLSet) Add(u string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.seen[u]; exists {
		return false
	}
	s.seen[u] = struct{}{}
	return true
}

// Contains reports whether the URL has been added.
func (s *URLSet) Contains(u string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, exists := s.seen[u]
	return exists
}

// Size returns the number of unique URLs tracked.
func (s *URLSet) Size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.seen)
}
