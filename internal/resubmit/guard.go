// ABOUTME: Time-windowed guard against repeated form submissions
// ABOUTME: Remembers recent (message, handle) pairs so a refreshed POST is not stored twice

package resubmit

import (
	"container/list"
	"crypto/sha256"
	"sync"
	"time"
)

// sweepInterval is how often the background goroutine drops expired entries
const sweepInterval = time.Minute

type key [sha256.Size]byte

type entry struct {
	seenAt time.Time
	elem   *list.Element
}

// Guard remembers submissions for a fixed window. It is safe for concurrent use.
// The oldest entry is evicted once capacity is reached.
type Guard struct {
	mu       sync.Mutex
	entries  map[key]*entry
	order    *list.List // keys, oldest at front
	window   time.Duration
	capacity int
	now      func() time.Time

	stop    chan struct{}
	stopped bool
}

// New returns a Guard that treats a pair as a repeat for window after it was first seen.
// capacity bounds memory; values below 1 are raised to 1.
func New(window time.Duration, capacity int) *Guard {
	if capacity < 1 {
		capacity = 1
	}
	g := &Guard{
		entries:  make(map[key]*entry),
		order:    list.New(),
		window:   window,
		capacity: capacity,
		now:      time.Now,
		stop:     make(chan struct{}),
	}
	go g.sweepLoop()
	return g
}

func keyFor(message, handle string) key {
	h := sha256.New()
	h.Write([]byte(handle))
	h.Write([]byte{0})
	h.Write([]byte(message))

	var k key
	copy(k[:], h.Sum(nil))
	return k
}

// Repeat reports whether message and handle were submitted within the window.
// A first sighting is recorded and returns false; the check and record are atomic.
func (g *Guard) Repeat(message, handle string) bool {
	k := keyFor(message, handle)
	now := g.now()

	g.mu.Lock()
	defer g.mu.Unlock()

	if e, ok := g.entries[k]; ok {
		if now.Sub(e.seenAt) < g.window {
			return true
		}
		// Expired: start a fresh window
		e.seenAt = now
		g.order.MoveToBack(e.elem)
		return false
	}

	if len(g.entries) >= g.capacity {
		if front := g.order.Front(); front != nil {
			delete(g.entries, front.Value.(key))
			g.order.Remove(front)
		}
	}

	g.entries[k] = &entry{seenAt: now, elem: g.order.PushBack(k)}
	return false
}

// Forget drops a recorded pair so its next submission is treated as new.
// Callers use it when the submission recorded by Repeat was never stored.
func (g *Guard) Forget(message, handle string) {
	k := keyFor(message, handle)

	g.mu.Lock()
	defer g.mu.Unlock()

	if e, ok := g.entries[k]; ok {
		g.order.Remove(e.elem)
		delete(g.entries, k)
	}
}

// Len returns the number of remembered submissions, expired or not
func (g *Guard) Len() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.entries)
}

func (g *Guard) sweepLoop() {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			g.sweep()
		case <-g.stop:
			return
		}
	}
}

// sweep drops expired entries. Entries are ordered by seenAt, so it stops at the first live one.
func (g *Guard) sweep() {
	now := g.now()

	g.mu.Lock()
	defer g.mu.Unlock()

	for front := g.order.Front(); front != nil; front = g.order.Front() {
		k := front.Value.(key)
		if now.Sub(g.entries[k].seenAt) < g.window {
			return
		}
		delete(g.entries, k)
		g.order.Remove(front)
	}
}

// Close stops the background sweep. It is safe to call multiple times.
func (g *Guard) Close() {
	g.mu.Lock()
	defer g.mu.Unlock()

	if !g.stopped {
		close(g.stop)
		g.stopped = true
	}
}
