// Package session holds the process-wide authentication state of the client.
//
// A Store is created once by the application root and handed to the auth
// service, which is its only writer. Views and the route guard receive the
// read-only Reader view of the same Store.
package session

import (
	"sync"

	"github.com/dmitrijs2005/padho/internal/client/models"
)

// Listener is invoked synchronously after every Set with the new state.
type Listener func(state models.AuthState)

// Reader is the read side of the store handed to views.
type Reader interface {
	State() models.AuthState
	Subscribe(l Listener) (unsubscribe func())
}

// Store is the single source of truth for models.AuthState.
type Store struct {
	mu        sync.RWMutex
	state     models.AuthState
	listeners map[uint64]Listener
	nextID    uint64
}

// New returns a store in the uninitialized state.
func New() *Store {
	return &Store{
		state:     models.Uninitialized(),
		listeners: make(map[uint64]Listener),
	}
}

// State returns a copy of the current state. It has no side effects.
func (s *Store) State() models.AuthState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Clone()
}

// Set replaces the whole state and then notifies every subscriber.
// Listeners run after the lock is released, so they may call State.
func (s *Store) Set(next models.AuthState) {
	next = next.Clone()

	s.mu.Lock()
	s.state = next
	ls := make([]Listener, 0, len(s.listeners))
	for _, l := range s.listeners {
		ls = append(ls, l)
	}
	s.mu.Unlock()

	for _, l := range ls {
		l(next.Clone())
	}
}

// Subscribe registers l and returns a function that removes it.
// Calling the returned function more than once is safe.
func (s *Store) Subscribe(l Listener) func() {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = l
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.listeners, id)
			s.mu.Unlock()
		})
	}
}
