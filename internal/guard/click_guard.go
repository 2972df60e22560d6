package guard

import (
	"sync"
	"time"
)

// DefaultClickWindow is the minimum interval between accepted clicks for the
// same source, board, and card.
const DefaultClickWindow = 2 * time.Second

// sweep stale entries after this many accepts so the map stays bounded
const sweepEvery = 4096

// ClickGuard deduplicates rapid repeat click events per (source, board, card).
// It is process-local; state is lost on restart. One instance is constructed at
// startup and handed to the handlers that need it.
type ClickGuard struct {
	window time.Duration

	mu           sync.Mutex
	lastAccepted map[string]time.Time
	accepts      int
}

func NewClickGuard(window time.Duration) *ClickGuard {
	return &ClickGuard{
		window:       window,
		lastAccepted: make(map[string]time.Time),
	}
}

// ShouldAccept reports whether a click from sourceKey on the board's card is
// outside the suppression window. Accepting records now as the key's
// last-accepted time; rejecting leaves the recorded time untouched.
func (g *ClickGuard) ShouldAccept(sourceKey, boardID, cardID string) bool {
	now := time.Now()
	key := sourceKey + "|" + boardID + "|" + cardID

	g.mu.Lock()
	defer g.mu.Unlock()

	if previous, ok := g.lastAccepted[key]; ok && now.Sub(previous) < g.window {
		return false
	}

	g.lastAccepted[key] = now
	g.accepts++
	if g.accepts >= sweepEvery {
		g.accepts = 0
		for k, t := range g.lastAccepted {
			if now.Sub(t) >= g.window {
				delete(g.lastAccepted, k)
			}
		}
	}
	return true
}

// Forget drops the key's last-accepted record so the next click for it is not
// suppressed. Used when a click the guard accepted could not be persisted.
func (g *ClickGuard) Forget(sourceKey, boardID, cardID string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.lastAccepted, sourceKey+"|"+boardID+"|"+cardID)
}

func (g *ClickGuard) Clear() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.lastAccepted = make(map[string]time.Time)
	g.accepts = 0
}
