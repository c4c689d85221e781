package web

import (
	"context"
	"sync"
	"time"

	"github.com/desertthunder/learndash/internal/session"
)

// profileIdleTTL is how long an unused profile keeps its manager in memory.
const profileIdleTTL = 30 * time.Minute

type profileEntry struct {
	manager  *session.Manager
	lastUsed time.Time
}

// profiles keeps one [session.Manager] per profile, so overlapping requests of a client share one
// login phase and one favorites set.
//
// Idle entries are evicted on access; a manager in the middle of a login is never evicted.
type profiles struct {
	mu        sync.Mutex
	entries   map[string]*profileEntry
	idleTTL   time.Duration
	lastSweep time.Time
	now       func() time.Time
	build     func(ctx context.Context, profile string) *session.Manager
}

func newProfiles(idleTTL time.Duration, build func(ctx context.Context, profile string) *session.Manager) *profiles {
	return &profiles{
		entries: make(map[string]*profileEntry),
		idleTTL: idleTTL,
		now:     time.Now,
		build:   build,
	}
}

// get returns the manager of profile, building and loading it on first use.
func (p *profiles) get(ctx context.Context, profile string) *session.Manager {
	p.mu.Lock()
	defer p.mu.Unlock()

	now := p.now()
	p.sweep(now)

	if e, ok := p.entries[profile]; ok {
		e.lastUsed = now
		return e.manager
	}

	m := p.build(ctx, profile)
	p.entries[profile] = &profileEntry{manager: m, lastUsed: now}
	return m
}

func (p *profiles) sweep(now time.Time) {
	if now.Sub(p.lastSweep) < p.idleTTL/2 {
		return
	}
	p.lastSweep = now

	for id, e := range p.entries {
		if now.Sub(e.lastUsed) < p.idleTTL {
			continue
		}
		if phase := e.manager.Phase(); phase == session.Validating || phase == session.Submitting {
			continue
		}
		delete(p.entries, id)
	}
}

func (p *profiles) len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.entries)
}
