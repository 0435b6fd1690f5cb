// Package signup captures early-access email registrations behind an
// injected store interface, with per-IP rate limiting.
package signup

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"
)

// Signup is one early-access registration.
type Signup struct {
	ID        int64     `json:"id" db:"id"`
	Email     string    `json:"email" db:"email"`
	Source    string    `json:"source" db:"source"`
	IP        string    `json:"-" db:"ip"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// Store persists signups. Implementations: MemoryStore for tests and
// the demo, PostgresStore for production.
type Store interface {
	// Save inserts the signup, reporting whether the email was new.
	Save(ctx context.Context, s Signup) (created bool, err error)
	// Count returns the number of stored signups.
	Count(ctx context.Context) (int, error)
}

// MemoryStore is an in-memory Store keyed by normalized email.
type MemoryStore struct {
	mu      sync.RWMutex
	byEmail map[string]Signup
	nextID  int64
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{byEmail: make(map[string]Signup)}
}

// Save inserts the signup unless the email is already present.
func (m *MemoryStore) Save(_ context.Context, s Signup) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := strings.ToLower(s.Email)
	if _, exists := m.byEmail[key]; exists {
		return false, nil
	}
	m.nextID++
	s.ID = m.nextID
	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now().UTC()
	}
	m.byEmail[key] = s
	return true, nil
}

// Count returns the number of stored signups.
func (m *MemoryStore) Count(_ context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.byEmail), nil
}

// All returns the stored signups ordered by ID, for tests and the demo
// admin view.
func (m *MemoryStore) All() []Signup {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Signup, 0, len(m.byEmail))
	for _, s := range m.byEmail {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
