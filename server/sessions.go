package server

import (
	"crypto/rand"
	"encoding/hex"
	"net/http"
	"sync"
	"time"

	"housingbridge/wizard"
)

const sessionCookie = "hb_session"

type session struct {
	ctl      *wizard.Controller
	lastSeen time.Time
}

// sessionStore keeps one wizard controller per browser, in memory only.
type sessionStore struct {
	mu       sync.Mutex
	sessions map[string]*session
	newCtl   func() *wizard.Controller
}

func newSessionStore(newCtl func() *wizard.Controller) *sessionStore {
	return &sessionStore{sessions: make(map[string]*session), newCtl: newCtl}
}

// controller returns the caller's controller, starting a session (and
// setting the cookie) when there is none.
func (s *sessionStore) controller(w http.ResponseWriter, r *http.Request) *wizard.Controller {
	s.mu.Lock()
	defer s.mu.Unlock()

	if c, err := r.Cookie(sessionCookie); err == nil {
		if sess, ok := s.sessions[c.Value]; ok {
			sess.lastSeen = time.Now()
			return sess.ctl
		}
	}

	id := newSessionID()
	sess := &session{ctl: s.newCtl(), lastSeen: time.Now()}
	s.sessions[id] = sess
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return sess.ctl
}

// sweep drops sessions idle for longer than maxIdle and returns how many went.
func (s *sessionStore) sweep(maxIdle time.Duration) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	cutoff := time.Now().Add(-maxIdle)
	for id, sess := range s.sessions {
		if sess.lastSeen.Before(cutoff) {
			delete(s.sessions, id)
			n++
		}
	}
	return n
}

func (s *sessionStore) len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

func newSessionID() string {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		panic(err)
	}
	return hex.EncodeToString(b)
}
