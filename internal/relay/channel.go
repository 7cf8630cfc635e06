package relay

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

// Channel is a per-client mailbox: one pending frame plus the latest prediction.
//
// Push overwrites an unconsumed frame instead of queueing it, so a slow
// stream consumer never holds more than one frame and never blocks the
// uploader. Pop waits for the next frame with a bounded timeout.
type Channel struct {
	clientID  string
	createdAt time.Time

	mu     sync.Mutex
	frame  []byte
	closed bool
	notify chan struct{} // capacity 1, signalled on every Push

	prediction atomic.Pointer[string]
	consumers  atomic.Int32

	pushed   atomic.Uint64
	consumed atomic.Uint64
	dropped  atomic.Uint64
	lastPush atomic.Int64 // unix nanos
}

// ChannelStats is a point-in-time view of a channel's counters.
type ChannelStats struct {
	ClientID         string    `json:"client_id"`
	CreatedAt        time.Time `json:"created_at"`
	LastPushAt       time.Time `json:"last_push_at"`
	Pending          bool      `json:"pending"`
	FramesPushed     uint64    `json:"frames_pushed"`
	FramesConsumed   uint64    `json:"frames_consumed"`
	FramesDropped    uint64    `json:"frames_dropped"`
	LatestPrediction *string   `json:"latest_prediction"`
}

func newChannel(clientID string) *Channel {
	return &Channel{
		clientID:  clientID,
		createdAt: time.Now(),
		notify:    make(chan struct{}, 1),
	}
}

// ClientID returns the id this channel was created for.
func (c *Channel) ClientID() string {
	return c.clientID
}

// Push stores frame as the pending frame, discarding any frame not yet popped.
// The caller must not modify frame afterwards. Push on a closed channel is a no-op.
func (c *Channel) Push(frame []byte) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	if c.frame != nil {
		c.dropped.Add(1)
	}
	c.frame = frame
	c.mu.Unlock()

	c.pushed.Add(1)
	c.lastPush.Store(time.Now().UnixNano())

	select {
	case c.notify <- struct{}{}:
	default:
	}
}

// Pop removes and returns the pending frame, waiting up to timeout for one to
// arrive. It returns ErrFrameTimeout when the wait expires, ErrChannelClosed
// once the channel is closed, or the context error if ctx ends first.
func (c *Channel) Pop(ctx context.Context, timeout time.Duration) ([]byte, error) {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	for {
		c.mu.Lock()
		if c.closed {
			c.mu.Unlock()
			return nil, ErrChannelClosed
		}
		if frame := c.frame; frame != nil {
			c.frame = nil
			c.mu.Unlock()
			c.consumed.Add(1)
			return frame, nil
		}
		c.mu.Unlock()

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-timer.C:
			return nil, ErrFrameTimeout
		case <-c.notify:
			// A stale signal from an already-consumed frame loops back to waiting.
		}
	}
}

// SetPrediction replaces the latest prediction.
func (c *Channel) SetPrediction(label string) {
	c.prediction.Store(&label)
}

// Prediction returns the latest prediction, or false if none was recorded yet.
func (c *Channel) Prediction() (string, bool) {
	p := c.prediction.Load()
	if p == nil {
		return "", false
	}
	return *p, true
}

// Close wakes a waiting Pop and turns later pushes into no-ops. Idempotent.
func (c *Channel) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}
	c.closed = true
	c.frame = nil

	select {
	case c.notify <- struct{}{}:
	default:
	}
}

// IsClosed reports whether Close has been called.
func (c *Channel) IsClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

// Attach registers a stream consumer; the returned func detaches it.
func (c *Channel) Attach() (detach func()) {
	c.consumers.Add(1)
	var once sync.Once
	return func() {
		once.Do(func() { c.consumers.Add(-1) })
	}
}

// Consumers returns the number of attached stream consumers.
func (c *Channel) Consumers() int {
	return int(c.consumers.Load())
}

// Stats returns a snapshot of the channel counters.
func (c *Channel) Stats() ChannelStats {
	c.mu.Lock()
	pending := c.frame != nil
	c.mu.Unlock()

	stats := ChannelStats{
		ClientID:       c.clientID,
		CreatedAt:      c.createdAt,
		Pending:        pending,
		FramesPushed:   c.pushed.Load(),
		FramesConsumed: c.consumed.Load(),
		FramesDropped:  c.dropped.Load(),
	}
	if ns := c.lastPush.Load(); ns != 0 {
		stats.LastPushAt = time.Unix(0, ns)
	}
	if label, ok := c.Prediction(); ok {
		stats.LatestPrediction = &label
	}
	return stats
}
