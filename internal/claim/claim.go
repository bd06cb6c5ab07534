// Package claim provides a compare-and-set lease keyed by team, briefing kind
// and window, so that overlapping triggers generate a briefing once.
package claim

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jimdaga/team-pulse/internal/schedule"
)

// Key identifies one briefing for one team and window.
type Key struct {
	TeamID uint
	Kind   string
	Window schedule.Window
}

func (k Key) String() string {
	return fmt.Sprintf("claim:%s:%d:%s:%s", k.Kind, k.TeamID, k.Window.StartDate(), k.Window.EndDate())
}

// Store grants at most one live claim per key.
type Store interface {
	// Claim takes the lease for owner. It returns false when another owner
	// holds an unexpired claim.
	Claim(ctx context.Context, key Key, owner string, ttl time.Duration) (bool, error)
	// Release drops the lease if owner still holds it.
	Release(ctx context.Context, key Key, owner string) error
}

type lease struct {
	owner   string
	expires time.Time
}

// MemoryStore is a process-local Store.
type MemoryStore struct {
	mu     sync.Mutex
	leases map[string]lease
	now    func() time.Time
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{leases: make(map[string]lease), now: time.Now}
}

func (m *MemoryStore) Claim(_ context.Context, key Key, owner string, ttl time.Duration) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	k := key.String()
	if l, ok := m.leases[k]; ok && now.Before(l.expires) {
		return false, nil
	}
	m.leases[k] = lease{owner: owner, expires: now.Add(ttl)}
	return true, nil
}

func (m *MemoryStore) Release(_ context.Context, key Key, owner string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	k := key.String()
	if l, ok := m.leases[k]; ok && l.owner == owner {
		delete(m.leases, k)
	}
	return nil
}
