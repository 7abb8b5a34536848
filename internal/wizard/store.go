package wizard

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

// DraftCounter receives the number of live drafts after every change.
type DraftCounter interface {
	SetDrafts(n int)
}

// Store keeps sessions in memory. A session expires after ttl without access.
type Store struct {
	cache   *cache.Cache
	deps    *Deps
	base    context.Context
	counter DraftCounter
	logger  *slog.Logger
}

// NewStore creates a session store. base is handed to each session for
// background work. counter may be nil.
func NewStore(base context.Context, deps *Deps, ttl, cleanup time.Duration, counter DraftCounter) *Store {
	s := &Store{
		cache:   cache.New(ttl, cleanup),
		deps:    deps,
		base:    base,
		counter: counter,
		logger:  deps.Logger.With("system", "drafts"),
	}
	s.cache.OnEvicted(func(key string, _ any) {
		s.logger.Debug("draft evicted", "draft_id", key)
		s.report()
	})
	return s
}

// Create starts a new draft session.
func (s *Store) Create(contributorID string) *Session {
	sess := NewSession(s.base, NewDraft(contributorID), s.deps)
	s.cache.Set(sess.Draft().ID().String(), sess, cache.DefaultExpiration)
	s.report()
	return sess
}

// Get returns the session for id and refreshes its expiry. The refresh
// only replaces a live entry, so a concurrent Remove is never undone.
func (s *Store) Get(id uuid.UUID) (*Session, error) {
	key := id.String()
	v, ok := s.cache.Get(key)
	if !ok {
		return nil, ErrNotFound
	}
	sess := v.(*Session)
	if err := s.cache.Replace(key, sess, cache.DefaultExpiration); err != nil {
		return nil, ErrNotFound
	}
	return sess, nil
}

// Remove drops the session for id.
func (s *Store) Remove(id uuid.UUID) {
	s.cache.Delete(id.String())
	s.report()
}

// Len is the number of live drafts, including expired ones not yet cleaned up.
func (s *Store) Len() int {
	return s.cache.ItemCount()
}

func (s *Store) report() {
	if s.counter != nil {
		s.counter.SetDrafts(s.cache.ItemCount())
	}
}
