package relay

import (
	"context"
	"sort"
	"sync"
	"time"
)

// Registry maps client ids to their channels. All methods are safe for
// concurrent use and share a single lock.
type Registry struct {
	mu       sync.RWMutex
	channels map[string]*Channel
	closed   bool
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		channels: make(map[string]*Channel),
	}
}

// GetOrCreate returns the channel for clientID, creating an empty one if none
// exists. created reports whether this call made the channel. After Close it
// returns a closed channel that is not registered, so pushes are dropped.
func (r *Registry) GetOrCreate(clientID string) (ch *Channel, created bool) {
	r.mu.RLock()
	ch, ok := r.channels[clientID]
	r.mu.RUnlock()
	if ok {
		return ch, false
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	// Re-check: another caller may have inserted between the locks.
	if ch, ok := r.channels[clientID]; ok {
		return ch, false
	}
	ch = newChannel(clientID)
	if r.closed {
		ch.Close()
		return ch, false
	}
	r.channels[clientID] = ch
	return ch, true
}

// Lookup returns the channel for clientID without creating it.
func (r *Registry) Lookup(clientID string) (*Channel, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ch, ok := r.channels[clientID]
	return ch, ok
}

// Remove deletes and closes the channel for clientID. Removing an unknown id is a no-op.
func (r *Registry) Remove(clientID string) {
	r.mu.Lock()
	ch, ok := r.channels[clientID]
	if ok {
		delete(r.channels, clientID)
	}
	r.mu.Unlock()

	if ok {
		ch.Close()
	}
}

// RemoveChannel deletes ch only if it is still the channel registered for its
// client id, then closes it. A consumer holding an older channel therefore
// never removes a newer one created for the same id.
func (r *Registry) RemoveChannel(ch *Channel) {
	r.mu.Lock()
	if cur, ok := r.channels[ch.ClientID()]; ok && cur == ch {
		delete(r.channels, ch.ClientID())
	}
	r.mu.Unlock()

	ch.Close()
}

// WaitForCreation polls Lookup up to maxAttempts times, sleeping attemptDelay
// after every miss. It returns false when the channel never appears or ctx
// ends first.
func (r *Registry) WaitForCreation(ctx context.Context, clientID string, maxAttempts int, attemptDelay time.Duration) (*Channel, bool) {
	for attempt := 0; attempt < maxAttempts; attempt++ {
		if ch, ok := r.Lookup(clientID); ok {
			return ch, true
		}

		timer := time.NewTimer(attemptDelay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, false
		case <-timer.C:
		}
	}
	return nil, false
}

// Len returns the number of active channels.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.channels)
}

// Snapshot returns stats for every active channel, ordered by client id.
func (r *Registry) Snapshot() []ChannelStats {
	r.mu.RLock()
	channels := make([]*Channel, 0, len(r.channels))
	for _, ch := range r.channels {
		channels = append(channels, ch)
	}
	r.mu.RUnlock()

	stats := make([]ChannelStats, 0, len(channels))
	for _, ch := range channels {
		stats = append(stats, ch.Stats())
	}
	sort.Slice(stats, func(i, j int) bool {
		return stats[i].ClientID < stats[j].ClientID
	})
	return stats
}

// Close removes every channel, waking any pending consumers. Channels are
// not created again afterwards. Idempotent.
func (r *Registry) Close() {
	r.mu.Lock()
	r.closed = true
	channels := r.channels
	r.channels = make(map[string]*Channel)
	r.mu.Unlock()

	for _, ch := range channels {
		ch.Close()
	}
}
