// Package runloop provides the single goroutine that owns a view tree.
//
// Other goroutines hand work to the loop with Post; timers scheduled with
// AfterFunc fire on the loop as well, so a Loop can serve as the Timers of
// a view tree. While the tree's animation scheduler has running tickers,
// the loop steps it once per frame.
package runloop

import (
	"context"
	stderrors "errors"
	"log/slog"
	"sync/atomic"
	"time"

	queuepkg "github.com/Workiva/go-datastructures/queue"

	"github.com/go-drift/viewtree/pkg/animation"
	"github.com/go-drift/viewtree/pkg/errors"
)

// DefaultFrameInterval is the frame period used when none is configured.
const DefaultFrameInterval = 16 * time.Millisecond

// batchSize bounds the tasks taken off the queue per wakeup, so frames are
// not starved by a burst of posts.
const batchSize = 64

// ErrClosed is returned by Post after the loop has been closed.
var ErrClosed = stderrors.New("runloop: closed")

// Loop runs posted tasks and animation frames on one goroutine.
type Loop struct {
	q      *queuepkg.Queue
	sched  *animation.Scheduler
	frame  time.Duration
	logger *slog.Logger

	frames atomic.Int64
	tasks  atomic.Int64
}

// Option configures a Loop.
type Option func(*Loop)

// WithFrameInterval sets the period between animation frames.
func WithFrameInterval(d time.Duration) Option {
	return func(l *Loop) {
		if d > 0 {
			l.frame = d
		}
	}
}

// WithLogger sets the logger for loop lifecycle messages.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Loop) { l.logger = logger }
}

// New creates a loop stepping sched. A nil sched disables frames.
func New(sched *animation.Scheduler, opts ...Option) *Loop {
	l := &Loop{
		q:      queuepkg.New(batchSize),
		sched:  sched,
		frame:  DefaultFrameInterval,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Post queues fn to run on the loop. It is safe for concurrent use.
func (l *Loop) Post(fn func()) error {
	if err := l.q.Put(fn); err != nil {
		return ErrClosed
	}
	return nil
}

// AfterFunc runs fn on the loop once d has elapsed. Calling stop before fn
// has started prevents it from running.
func (l *Loop) AfterFunc(d time.Duration, fn func()) (stop func()) {
	var stopped atomic.Bool
	timer := time.AfterFunc(d, func() {
		_ = l.Post(func() {
			if !stopped.Load() {
				fn()
			}
		})
	})
	return func() {
		stopped.Store(true)
		timer.Stop()
	}
}

// Run processes tasks and frames until ctx is done or the loop is closed.
// It returns ctx.Err() in the first case and nil in the second.
func (l *Loop) Run(ctx context.Context) error {
	stopWatch := context.AfterFunc(ctx, func() { l.q.Dispose() })
	defer stopWatch()

	l.logger.Debug("run loop started", "frame", l.frame)
	defer l.logger.Debug("run loop stopped", "frames", l.frames.Load(), "tasks", l.tasks.Load())

	lastFrame := time.Now()
	for {
		var timeout time.Duration
		if l.animating() {
			timeout = l.frame - time.Since(lastFrame)
			if timeout <= 0 {
				timeout = time.Nanosecond
			}
		}
		items, err := l.q.Poll(batchSize, timeout)
		switch {
		case err == nil, stderrors.Is(err, queuepkg.ErrTimeout):
		case stderrors.Is(err, queuepkg.ErrDisposed):
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return nil
		default:
			return err
		}
		l.runAll(items)

		if l.animating() && time.Since(lastFrame) >= l.frame {
			lastFrame = time.Now()
			l.stepFrame()
		} else if !l.animating() {
			lastFrame = time.Now()
		}
	}
}

// Drain runs every queued task and one animation frame on the calling
// goroutine without blocking. It returns the number of tasks run.
func (l *Loop) Drain() int {
	count := 0
	for !l.q.Empty() {
		items, err := l.q.Get(batchSize)
		if err != nil {
			break
		}
		l.runAll(items)
		count += len(items)
	}
	if l.animating() {
		l.stepFrame()
	}
	return count
}

// Close stops Run and rejects further posts. Queued tasks are dropped.
func (l *Loop) Close() {
	l.q.Dispose()
}

// Closed reports whether Close has been called.
func (l *Loop) Closed() bool {
	return l.q.Disposed()
}

// Frames returns the number of animation frames stepped.
func (l *Loop) Frames() int64 { return l.frames.Load() }

// Tasks returns the number of posted tasks run.
func (l *Loop) Tasks() int64 { return l.tasks.Load() }

func (l *Loop) animating() bool {
	return l.sched != nil && l.sched.Active()
}

func (l *Loop) stepFrame() {
	defer errors.Recover("runloop.frame")
	l.sched.Step()
	l.frames.Add(1)
}

func (l *Loop) runAll(items []any) {
	for _, item := range items {
		fn, ok := item.(func())
		if !ok {
			continue
		}
		l.run(fn)
	}
}

func (l *Loop) run(fn func()) {
	defer errors.Recover("runloop.task")
	l.tasks.Add(1)
	fn()
}
