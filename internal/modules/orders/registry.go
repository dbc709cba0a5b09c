package orders

import (
	"context"
	"sync"
	"time"

	"orderdesk.io/app/pkg/logger"
)

// Registry keeps one Console per admin session token. Tokens are issued at
// sign-in and stop being active at sign-out or once older than the TTL.
type Registry struct {
	store     Store
	log       logger.Logger
	listeners []Listener
	ttl       time.Duration
	now       func() time.Time

	mu       sync.Mutex
	sessions map[string]*registryEntry
}

type registryEntry struct {
	issued  time.Time
	console *Console
}

func NewRegistry(store Store, log logger.Logger, listeners ...Listener) *Registry {
	if log == nil {
		log = logger.Nop()
	}
	return &Registry{
		store:     store,
		log:       log,
		listeners: listeners,
		now:       time.Now,
		sessions:  make(map[string]*registryEntry),
	}
}

// SetTTL bounds how long an issued token stays active. Zero keeps tokens
// until Close.
func (r *Registry) SetTTL(ttl time.Duration) {
	r.mu.Lock()
	r.ttl = ttl
	r.mu.Unlock()
}

// Issue marks token as signed in and drops every expired token.
func (r *Registry) Issue(token string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	for t, e := range r.sessions {
		if r.expired(e, now) {
			delete(r.sessions, t)
		}
	}
	r.sessions[token] = &registryEntry{issued: now}
}

// Active reports whether token was issued and has been neither closed nor
// expired.
func (r *Registry) Active(token string) bool {
	if token == "" {
		return false
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.sessions[token]
	if !ok {
		return false
	}
	if r.expired(e, r.now()) {
		delete(r.sessions, token)
		r.log.Debug("admin_session_expired")
		return false
	}
	return true
}

// Open returns the console for token, creating and loading it on first use.
// The initial load is detached from ctx cancellation so an aborted request
// does not leave the session with an empty list.
func (r *Registry) Open(ctx context.Context, token string) *Console {
	r.mu.Lock()
	e, ok := r.sessions[token]
	if !ok {
		e = &registryEntry{issued: r.now()}
		r.sessions[token] = e
	}
	if e.console == nil {
		e.console = NewConsole(r.store, r.log, r.listeners...)
	}
	c := e.console
	r.mu.Unlock()

	c.Mount(context.WithoutCancel(ctx))
	return c
}

// Close revokes token and drops its console.
func (r *Registry) Close(token string) {
	r.mu.Lock()
	delete(r.sessions, token)
	r.mu.Unlock()
}

// Len counts the open consoles.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, e := range r.sessions {
		if e.console != nil {
			n++
		}
	}
	return n
}

// caller holds r.mu
func (r *Registry) expired(e *registryEntry, now time.Time) bool {
	return r.ttl > 0 && now.Sub(e.issued) >= r.ttl
}
