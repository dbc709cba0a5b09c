// Package session persists the admin session marker: the pair of
// isAdmin / adminToken entries that the admin guard checks on every
// protected request.
package session

import (
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/sessions"
)

const (
	KeyIsAdmin    = "isAdmin"
	KeyAdminToken = "adminToken"
)

// Marker is the persisted admin session state. Both entries must be
// present for the session to count as authenticated.
type Marker struct {
	IsAdmin    bool
	AdminToken string
}

func (m Marker) Valid() bool { return m.IsAdmin && m.AdminToken != "" }

// NewMarker returns a marker for a freshly authenticated admin.
func NewMarker() Marker {
	return Marker{IsAdmin: true, AdminToken: uuid.NewString()}
}

type Store interface {
	Load(r *http.Request) Marker
	Save(w http.ResponseWriter, r *http.Request, m Marker) error
	Clear(w http.ResponseWriter, r *http.Request) error
}

// CookieStore keeps the marker in a signed cookie.
type CookieStore struct {
	store *sessions.CookieStore
	name  string
}

func NewCookieStore(secret []byte, name string, secure bool, maxAge time.Duration) *CookieStore {
	cs := sessions.NewCookieStore(secret)
	cs.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   int(maxAge.Seconds()),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
	return &CookieStore{store: cs, name: name}
}

func (s *CookieStore) Load(r *http.Request) Marker {
	sess, err := s.store.Get(r, s.name)
	if err != nil {
		// tampered or stale cookie
		return Marker{}
	}
	isAdmin, _ := sess.Values[KeyIsAdmin].(string)
	token, _ := sess.Values[KeyAdminToken].(string)
	return Marker{IsAdmin: isAdmin == "true", AdminToken: token}
}

func (s *CookieStore) Save(w http.ResponseWriter, r *http.Request, m Marker) error {
	// Get returns a fresh session alongside a decode error; overwrite it
	sess, _ := s.store.Get(r, s.name)
	if m.IsAdmin {
		sess.Values[KeyIsAdmin] = "true"
	} else {
		delete(sess.Values, KeyIsAdmin)
	}
	sess.Values[KeyAdminToken] = m.AdminToken
	return sess.Save(r, w)
}

func (s *CookieStore) Clear(w http.ResponseWriter, r *http.Request) error {
	sess, _ := s.store.Get(r, s.name)
	delete(sess.Values, KeyIsAdmin)
	delete(sess.Values, KeyAdminToken)
	opts := *s.store.Options
	opts.MaxAge = -1
	sess.Options = &opts
	return sess.Save(r, w)
}

// MemoryStore holds one process-wide marker, like a single browser's
// local storage. Used in tests and single-operator setups.
type MemoryStore struct {
	mu     sync.Mutex
	marker Marker

	// ClearErr, when set, is returned by Clear after wiping the marker.
	ClearErr error
}

func NewMemoryStore() *MemoryStore { return &MemoryStore{} }

func (s *MemoryStore) Load(*http.Request) Marker {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.marker
}

func (s *MemoryStore) Save(_ http.ResponseWriter, _ *http.Request, m Marker) error {
	s.mu.Lock()
	s.marker = m
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Clear(http.ResponseWriter, *http.Request) error {
	s.mu.Lock()
	s.marker = Marker{}
	s.mu.Unlock()
	return s.ClearErr
}
