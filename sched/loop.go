// SPDX-License-Identifier: MIT

// Package sched provides the single designated application goroutine that
// owns all user-facing presentation state. Work dispatched from other
// goroutines runs on it in FIFO order; work dispatched from the loop
// goroutine itself runs inline before Dispatch returns.
package sched

import (
	"runtime"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/forgecraft/anvilmenu/internal/log"
	"github.com/forgecraft/anvilmenu/internal/metrics"
)

// Loop is a single-goroutine executor. The zero value is not usable; use New.
type Loop struct {
	mu       sync.Mutex
	queue    []func()
	stopping bool

	wake chan struct{}
	gid  atomic.Int64

	startOnce sync.Once
	stopOnce  sync.Once
	wg        sync.WaitGroup
}

// New creates a stopped Loop. Call Start before dispatching work that
// must actually run.
func New() *Loop {
	return &Loop{
		wake: make(chan struct{}, 1),
	}
}

// Start launches the loop goroutine. Safe to call more than once.
func (l *Loop) Start() {
	l.startOnce.Do(func() {
		l.wg.Add(1)
		go l.run()
	})
}

// Stop prevents further dispatch, runs all queued work, and waits for the
// loop goroutine to exit.
func (l *Loop) Stop() {
	l.stopOnce.Do(func() {
		l.mu.Lock()
		l.stopping = true
		l.mu.Unlock()
		l.notify()
		l.wg.Wait()
	})
}

// Dispatch schedules fn on the loop goroutine and returns immediately.
// When the caller is already on the loop goroutine, fn runs synchronously
// before Dispatch returns. Work dispatched after Stop is dropped.
func (l *Loop) Dispatch(fn func()) {
	if fn == nil {
		return
	}
	if l.OnLoop() {
		fn()
		return
	}
	if !l.enqueue(fn) {
		lg := log.WithComponent("sched")
		lg.Warn().Msg("work dropped: loop stopped")
	}
}

// OnLoop reports whether the caller is executing on the loop goroutine.
func (l *Loop) OnLoop() bool {
	gid := l.gid.Load()
	return gid != 0 && gid == goroutineID()
}

// Flush blocks until all work queued before the call has run. On the loop
// goroutine it is a no-op: the queue ahead of the current task is by
// definition already drained when the task runs.
func (l *Loop) Flush() {
	if l.OnLoop() {
		return
	}
	done := make(chan struct{})
	if !l.enqueue(func() { close(done) }) {
		return
	}
	<-done
}

func (l *Loop) enqueue(fn func()) bool {
	l.mu.Lock()
	if l.stopping {
		l.mu.Unlock()
		return false
	}
	l.queue = append(l.queue, fn)
	depth := len(l.queue)
	l.mu.Unlock()

	metrics.SetDispatchQueueDepth(depth)
	l.notify()
	return true
}

func (l *Loop) notify() {
	select {
	case l.wake <- struct{}{}:
	default:
	}
}

func (l *Loop) run() {
	defer l.wg.Done()
	l.gid.Store(goroutineID())

	for {
		l.mu.Lock()
		if len(l.queue) == 0 {
			if l.stopping {
				l.mu.Unlock()
				return
			}
			l.mu.Unlock()
			<-l.wake
			continue
		}
		fn := l.queue[0]
		l.queue = l.queue[1:]
		depth := len(l.queue)
		l.mu.Unlock()

		metrics.SetDispatchQueueDepth(depth)
		l.invoke(fn)
	}
}

// invoke runs one queued task, containing panics so a single bad task
// cannot kill the loop for every other session.
func (l *Loop) invoke(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			lg := log.WithComponent("sched")
			lg.Error().
				Interface("panic", r).
				Msg("dispatched work panicked")
		}
	}()
	fn()
}

// goroutineID extracts the numeric ID of the calling goroutine from its
// stack header ("goroutine N [running]:").
func goroutineID() int64 {
	var buf [64]byte
	n := runtime.Stack(buf[:], false)
	fields := strings.Fields(string(buf[:n]))
	if len(fields) < 2 {
		return 0
	}
	id, err := strconv.ParseInt(fields[1], 10, 64)
	if err != nil {
		return 0
	}
	return id
}
