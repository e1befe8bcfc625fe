// Package lifecycle drives the fetches behind every admin console view: it owns the query
// state of one remote resource, debounces free-text search, supersedes stale requests and
// turns every response into exactly one of success, failure or "discarded".
package lifecycle

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/kat-co/vala"
	"github.com/pkg/errors"
	"k8s.io/utils/clock"

	"github.com/aalimaslam/ace-brainiac-admin/core"
)

// DefaultDebounce is the quiet period applied to search changes when Env.Debounce is unset.
const DefaultDebounce = 500 * time.Millisecond

type (
	// Fetcher performs one request for q. It must give up when ctx is canceled.
	Fetcher func(ctx context.Context, q Query) ([]byte, error)

	// Normalizer maps a success payload to display data. It must be pure and lenient:
	// a nil or malformed payload yields the empty value.
	Normalizer[D any] func(payload []byte, now time.Time) D

	// Env holds the ports shared by every Controller.
	Env struct {
		Clock    clock.WithDelayedExecution
		Logger   core.Logger
		Debounce time.Duration
	}

	Options[D any] struct {
		Env

		Name      string // resource name, for logs
		Schema    Schema
		Params    map[string]interface{} // initial parameter values
		Fetch     Fetcher
		Normalize Normalizer[D]
		Clone     func(D) D // copies the data handed out by Snapshot and Wait; nil shares it
		Fallback  string    // error text when the server supplies none
	}

	// Snapshot is a read-only view of a Controller's state.
	Snapshot[D any] struct {
		Data    D
		Loading bool
		Err     string
		Query   Query
	}
)

// Failed reports whether the last settled attempt failed.
func (s Snapshot[D]) Failed() bool {
	return s.Err != ""
}

// Controller owns the query state of one resource and the single request in flight for it.
// All methods are safe for concurrent use.
type Controller[D any] struct {
	opts Options[D]

	mu      sync.Mutex
	state   Snapshot[D]
	cancel  context.CancelFunc // attempt in flight
	timer   clock.Timer        // pending debounce
	timerID uint64
	changed chan struct{}
	closed  bool

	running sync.WaitGroup
}

// New validates opts and mounts the Controller: the first fetch is dispatched right away.
func New[D any](opts Options[D]) (*Controller[D], error) {
	err := vala.BeginValidation().Validate(
		vala.StringNotEmpty(opts.Name, "Name"),
		vala.StringNotEmpty(opts.Fallback, "Fallback"),
	).Check()
	if err != nil {
		return nil, errors.Wrap(err, "checking controller options")
	}
	if opts.Fetch == nil || opts.Normalize == nil {
		return nil, errors.Errorf("%s: both Fetch and Normalize are required", opts.Name)
	}
	if opts.Clock == nil {
		opts.Clock = clock.RealClock{}
	}
	if opts.Logger == nil {
		opts.Logger = core.NopLogger{}
	}
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}

	c := &Controller[D]{
		opts:    opts,
		changed: make(chan struct{}),
		state: Snapshot[D]{
			Data:  opts.Normalize(nil, opts.Clock.Now()),
			Query: newQuery(opts.Schema, opts.Params),
		},
	}

	c.mu.Lock()
	c.dispatchLocked()
	c.mu.Unlock()
	return c, nil
}

// SetParameter updates one query parameter and fetches again.
// Filter and search changes move back to page 1; search changes wait for the debounce period.
// The page size is fixed and cannot be set.
func (c *Controller[D]) SetParameter(name string, value interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	if sch := c.opts.Schema; sch.PageSize != "" && name == sch.PageSize {
		c.opts.Logger.Warn(fmt.Sprintf("%s: page size is fixed to %d; ignoring %s=%v", c.opts.Name, sch.Limit, name, value))
		return
	}

	c.state.Query = c.state.Query.with(name, value)
	c.supersedeLocked()
	if c.opts.Schema.isSearch(name) {
		c.scheduleLocked()
	} else {
		c.dispatchLocked()
	}
	c.notifyLocked()
}

// Refetch dispatches a fetch for the current query immediately.
func (c *Controller[D]) Refetch() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.dispatchLocked()
}

// Update replaces the current data with fn(data). fn must not modify its argument in place.
// It is meant for changes the server has already confirmed.
func (c *Controller[D]) Update(fn func(D) D) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.state.Data = fn(c.state.Data)
	c.notifyLocked()
}

// Snapshot returns the current state. Its data is a copy when the Controller has a Clone func.
func (c *Controller[D]) Snapshot() Snapshot[D] {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewLocked()
}

func (c *Controller[D]) viewLocked() Snapshot[D] {
	snap := c.state
	if c.opts.Clone != nil {
		snap.Data = c.opts.Clone(snap.Data)
	}
	return snap
}

// Changes returns a channel that is closed on the next state change.
func (c *Controller[D]) Changes() <-chan struct{} {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.changed
}

// Wait blocks until no fetch is in flight or pending, then returns the settled state.
func (c *Controller[D]) Wait(ctx context.Context) (Snapshot[D], error) {
	for {
		c.mu.Lock()
		snap, ch := c.viewLocked(), c.changed
		settled := c.closed || (c.cancel == nil && c.timer == nil)
		c.mu.Unlock()

		if settled {
			return snap, nil
		}
		select {
		case <-ch:
		case <-ctx.Done():
			return snap, errors.Wrapf(ctx.Err(), "waiting for %s", c.opts.Name)
		}
	}
}

// Close tears the Controller down: the fetch in flight is canceled, a pending
// debounce is dropped and no outcome is applied afterwards.
func (c *Controller[D]) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.supersedeLocked()
	c.closed = true
	c.notifyLocked()
}

func (c *Controller[D]) supersedeLocked() {
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
}

func (c *Controller[D]) scheduleLocked() {
	c.timerID++
	id := c.timerID
	c.timer = c.opts.Clock.AfterFunc(c.opts.Debounce, func() { c.fire(id) })
}

// fire runs when the debounce period elapsed. A timer that was stopped too late is ignored.
func (c *Controller[D]) fire(id uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed || c.timer == nil || id != c.timerID {
		return
	}
	c.timer = nil
	c.dispatchLocked()
}

func (c *Controller[D]) dispatchLocked() {
	c.supersedeLocked()

	ctx, cancel := context.WithCancel(context.Background())
	c.cancel = cancel
	c.state.Loading = true
	c.state.Err = ""

	c.running.Add(1)
	go c.run(ctx, c.state.Query)
	c.notifyLocked()
}

func (c *Controller[D]) run(ctx context.Context, q Query) {
	defer c.running.Done()

	payload, err := c.opts.Fetch(ctx, q)
	// the clock is read before locking: fake clocks run timer callbacks under their own lock
	now := c.opts.Clock.Now()
	var data D
	if err != nil {
		data = c.opts.Normalize(nil, now)
	} else {
		data = c.opts.Normalize(payload, now)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	// superseded or closed; transports may resolve after the abort signal
	if ctx.Err() != nil {
		c.opts.Logger.Debug(fmt.Sprintf("%s: request canceled", c.opts.Name))
		return
	}
	c.cancel()
	c.cancel = nil

	c.state.Loading = false
	c.state.Data = data
	if err != nil {
		c.state.Err = core.ErrorMessage(err, c.opts.Fallback)
		c.opts.Logger.Error(fmt.Sprintf("%s: fetching: %v", c.opts.Name, err), errors.Wrapf(err, "fetching %s", c.opts.Name))
	} else {
		c.state.Err = ""
	}
	c.notifyLocked()
}

func (c *Controller[D]) notifyLocked() {
	close(c.changed)
	c.changed = make(chan struct{})
}
