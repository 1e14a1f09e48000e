package invalidation

import (
	"sync"
	"time"
)

// Generations remembers the newest request generation answered per session,
// so that a slow response to an older request can be told apart from the
// latest one.
type Generations struct {
	mu      sync.Mutex
	now     func() time.Time
	entries map[string]generation
}

type generation struct {
	max      uint64
	lastSeen time.Time
}

// Observe records gen as answered for the session and reports whether it is
// current, that is no newer generation was answered before it. Generation
// zero is untracked and always current.
func (g *Generations) Observe(session string, gen uint64) bool {
	if gen == 0 {
		return true
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	e := g.entries[session]
	if gen < e.max {
		return false
	}

	g.entries[session] = generation{
		max:      gen,
		lastSeen: g.now(),
	}

	return true
}

// Prune forgets sessions not seen for longer than idle and returns how many
// were removed.
func (g *Generations) Prune(idle time.Duration) int {
	g.mu.Lock()
	defer g.mu.Unlock()

	cutoff := g.now().Add(-idle)
	removed := 0

	for session, e := range g.entries {
		if e.lastSeen.Before(cutoff) {
			delete(g.entries, session)
			removed++
		}
	}

	return removed
}

func (g *Generations) Len() int {
	g.mu.Lock()
	defer g.mu.Unlock()

	return len(g.entries)
}

func NewGenerations() *Generations {
	return newGenerations(time.Now)
}

func newGenerations(now func() time.Time) *Generations {
	return &Generations{
		now:     now,
		entries: map[string]generation{},
	}
}
