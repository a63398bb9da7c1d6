// Package store holds the storefront's client-side state. Each store owns
// one slice of relay data, is safe for concurrent use and notifies
// subscribers with a snapshot after every change. Store methods never
// return Go errors: operations report a result and fetches record the last
// error in state.
package store

import (
	"context"
	"sync"
	"sync/atomic"
)

// TokenSource yields the bearer token of the signed-in shopper.
type TokenSource interface {
	// Authenticated reports whether a session is held, without network I/O.
	Authenticated() bool
	// AccessToken returns a usable token, refreshing it when needed.
	AccessToken(ctx context.Context) (string, bool)
}

// subscribers fans state snapshots out to listeners.
type subscribers[S any] struct {
	mu     sync.Mutex
	nextID int
	fns    map[int]func(S)
}

// Subscribe registers fn and returns a func that removes it.
func (s *subscribers[S]) Subscribe(fn func(S)) (unsubscribe func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.fns == nil {
		s.fns = make(map[int]func(S))
	}
	id := s.nextID
	s.nextID++
	s.fns[id] = fn

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.fns, id)
	}
}

func (s *subscribers[S]) publish(state S) {
	s.mu.Lock()
	fns := make([]func(S), 0, len(s.fns))
	for _, fn := range s.fns {
		fns = append(fns, fn)
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn(state)
	}
}

// loadSeq orders list reloads. A response is applied only when no newer
// reload, local edit or reset began after its request went out.
type loadSeq struct{ n atomic.Uint64 }

func (l *loadSeq) next() uint64 { return l.n.Add(1) }

func (l *loadSeq) latest(seq uint64) bool { return l.n.Load() == seq }

// bearer returns the access token, skipping the provider entirely when no
// session is held.
func bearer(ctx context.Context, tokens TokenSource) (string, bool) {
	if !tokens.Authenticated() {
		return "", false
	}

	return tokens.AccessToken(ctx)
}
