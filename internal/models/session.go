package models

import (
	"fmt"
	"slices"
	"time"
)

// SessionState is the client-side state the session manager owns for one client.
//
// RememberedIdentifier is empty when absent. Favorites never holds duplicates.
type SessionState struct {
	CurrentUser          *UserRecord
	RememberedIdentifier string
	Favorites            FavoriteSet
}

// NewSessionState returns an unauthenticated state with an empty favorites set.
func NewSessionState() *SessionState {
	return &SessionState{Favorites: FavoriteSet{}}
}

// Authenticated reports whether a user is logged in.
func (s *SessionState) Authenticated() bool {
	return s.CurrentUser != nil
}

// FavoriteSet is a set of catalog item ids.
type FavoriteSet map[int]struct{}

// NewFavoriteSet builds a set from ids, dropping duplicates.
func NewFavoriteSet(ids ...int) FavoriteSet {
	set := make(FavoriteSet, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

func (f FavoriteSet) Has(id int) bool {
	_, ok := f[id]
	return ok
}

// Toggle flips membership of id and returns the new membership state.
func (f FavoriteSet) Toggle(id int) bool {
	if f.Has(id) {
		delete(f, id)
		return false
	}
	f[id] = struct{}{}
	return true
}

// IDs returns the members in ascending order.
func (f FavoriteSet) IDs() []int {
	ids := make([]int, 0, len(f))
	for id := range f {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Clone returns an independent copy of the set.
func (f FavoriteSet) Clone() FavoriteSet {
	return NewFavoriteSet(f.IDs()...)
}

// SignupRecord is the simulated signup entry written under the "user" storage key.
type SignupRecord struct {
	Username     string    `json:"username"`
	PasswordHash string    `json:"password"`
	CreatedAt    time.Time `json:"created_at"`
}

// ServerSession is a login established through the server-side credential check.
type ServerSession struct {
	id        string
	username  string
	createdAt time.Time
	expiresAt time.Time
	revokedAt *time.Time
}

var _ Model = (*ServerSession)(nil)

// NewServerSession creates a session for username valid for ttl from now.
func NewServerSession(username string, ttl time.Duration) *ServerSession {
	now := time.Now()
	return &ServerSession{username: username, createdAt: now, expiresAt: now.Add(ttl)}
}

func (s *ServerSession) ID() string            { return s.id }
func (s *ServerSession) Username() string      { return s.username }
func (s *ServerSession) CreatedAt() time.Time  { return s.createdAt }
func (s *ServerSession) UpdatedAt() time.Time  { return s.createdAt }
func (s *ServerSession) ExpiresAt() time.Time  { return s.expiresAt }
func (s *ServerSession) RevokedAt() *time.Time { return s.revokedAt }

func (s *ServerSession) SetID(id string)           { s.id = id }
func (s *ServerSession) SetCreatedAt(t time.Time)  { s.createdAt = t }
func (s *ServerSession) SetExpiresAt(t time.Time)  { s.expiresAt = t }
func (s *ServerSession) SetRevokedAt(t *time.Time) { s.revokedAt = t }

// Active reports whether the session is neither revoked nor expired at now.
func (s *ServerSession) Active(now time.Time) bool {
	return s.revokedAt == nil && now.Before(s.expiresAt)
}

// Validate checks the session has a username and an expiry after creation.
func (s *ServerSession) Validate() error {
	if s.username == "" {
		return fmt.Errorf("username is required")
	}
	if !s.expiresAt.After(s.createdAt) {
		return fmt.Errorf("session must expire after it is created")
	}
	return nil
}
