package animation

import (
	"fmt"
	"time"
)

// Status is the state of a Controller.
//
//	Dismissed ──Forward()──► Forward ──► Completed
//	    ▲                                    │
//	    └──────── Reverse ◄──Reverse()───────┘
type Status int

const (
	// Dismissed means the value rests at the lower bound.
	Dismissed Status = iota
	// Forward means the value moves toward the upper bound.
	Forward
	// Reverse means the value moves toward the lower bound.
	Reverse
	// Completed means the value rests at the upper bound.
	Completed
)

func (s Status) String() string {
	switch s {
	case Dismissed:
		return "dismissed"
	case Forward:
		return "forward"
	case Reverse:
		return "reverse"
	case Completed:
		return "completed"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// Controller drives Value between 0 and 1 over Duration.
//
// Listeners fire on every value change; status listeners fire when the
// controller starts moving or comes to rest. Stop halts the controller
// where it is without a status change, which lets callers decide whether
// an interrupted animation counts as finished.
type Controller struct {
	// Value is the current progress in [0, 1].
	Value float64
	// Duration is the time a full 0→1 run takes.
	Duration time.Duration
	// Curve reshapes linear progress. Nil means linear.
	Curve Curve

	sched          *Scheduler
	ticker         *Ticker
	status         Status
	from, target   float64
	listeners      map[int]func()
	statusListener map[int]func(Status)
	nextID         int
}

// NewController creates a controller stepped by sched.
func NewController(sched *Scheduler, duration time.Duration) *Controller {
	return &Controller{
		Duration:       duration,
		Curve:          Linear,
		sched:          sched,
		listeners:      make(map[int]func()),
		statusListener: make(map[int]func(Status)),
	}
}

// Forward animates to 1.
func (c *Controller) Forward() { c.animateTo(1, Forward) }

// Reverse animates to 0.
func (c *Controller) Reverse() { c.animateTo(0, Reverse) }

func (c *Controller) animateTo(target float64, direction Status) {
	c.Stop()
	c.from = c.Value
	c.target = target
	c.setStatus(direction)
	if c.Duration <= 0 || c.from == target {
		c.Value = target
		c.notify()
		c.settle()
		return
	}
	c.ticker = c.sched.NewTicker(c.tick)
	c.ticker.Start()
}

func (c *Controller) tick(elapsed time.Duration) {
	progress := float64(elapsed) / float64(c.Duration)
	if progress >= 1 {
		c.Value = c.target
		c.notify()
		c.Stop()
		c.settle()
		return
	}
	eased := progress
	if c.Curve != nil {
		eased = c.Curve(progress)
	}
	c.Value = c.from + (c.target-c.from)*eased
	c.notify()
}

func (c *Controller) settle() {
	if c.Value >= 1 {
		c.setStatus(Completed)
	} else if c.Value <= 0 {
		c.setStatus(Dismissed)
	}
}

// Finish jumps to the current target and settles, as if the run had
// completed naturally.
func (c *Controller) Finish() {
	if !c.IsAnimating() {
		return
	}
	c.Stop()
	c.Value = c.target
	c.notify()
	c.settle()
}

// Stop halts the controller at its current value.
func (c *Controller) Stop() {
	if c.ticker != nil {
		c.ticker.Stop()
		c.ticker = nil
	}
}

// Status returns the controller status.
func (c *Controller) Status() Status { return c.status }

// IsAnimating reports whether a run is in progress.
func (c *Controller) IsAnimating() bool {
	return c.ticker != nil && c.ticker.IsActive()
}

// AddListener registers fn for value changes and returns its remover.
func (c *Controller) AddListener(fn func()) func() {
	id := c.nextID
	c.nextID++
	c.listeners[id] = fn
	return func() { delete(c.listeners, id) }
}

// AddStatusListener registers fn for status changes and returns its remover.
func (c *Controller) AddStatusListener(fn func(Status)) func() {
	id := c.nextID
	c.nextID++
	c.statusListener[id] = fn
	return func() { delete(c.statusListener, id) }
}

func (c *Controller) setStatus(s Status) {
	if c.status == s {
		return
	}
	c.status = s
	for _, fn := range c.statusListener {
		fn(s)
	}
}

func (c *Controller) notify() {
	for _, fn := range c.listeners {
		fn()
	}
}

// Dispose stops the controller and drops its listeners.
func (c *Controller) Dispose() {
	c.Stop()
	clear(c.listeners)
	clear(c.statusListener)
}
