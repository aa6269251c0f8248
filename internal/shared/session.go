package shared

import (
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
)

// SessionManager orchestrates cookie based sessions backed by an
// in-process map. The system has a single interactive user, so no
// external session storage is involved.
type SessionManager struct {
	mu         sync.Mutex
	sessions   map[string]*Session
	cookieName string
	ttl        time.Duration
	secure     bool
	now        func() time.Time
}

// Session holds per-request session data.
type Session struct {
	ID        string
	userID    string
	expiresAt time.Time
}

// NewSessionManager constructs a SessionManager.
func NewSessionManager(cookieName string, ttl time.Duration, secure bool) *SessionManager {
	return &SessionManager{
		sessions:   make(map[string]*Session),
		cookieName: cookieName,
		ttl:        ttl,
		secure:     secure,
		now:        time.Now,
	}
}

// TTL reports the configured session lifetime.
func (sm *SessionManager) TTL() time.Duration { return sm.ttl }

// Load resolves the session for the request cookie, if any.
// A request without a valid session yields nil rather than an error.
func (sm *SessionManager) Load(r *http.Request) *Session {
	cookie, err := r.Cookie(sm.cookieName)
	if err != nil {
		return nil
	}
	sm.mu.Lock()
	defer sm.mu.Unlock()
	sess, ok := sm.sessions[cookie.Value]
	if !ok {
		return nil
	}
	if sm.now().After(sess.expiresAt) {
		delete(sm.sessions, sess.ID)
		return nil
	}
	return sess
}

// Start creates a session for the user and sets the cookie.
func (sm *SessionManager) Start(w http.ResponseWriter, userID string) *Session {
	sess := &Session{
		ID:        uuid.NewString(),
		userID:    userID,
		expiresAt: sm.now().Add(sm.ttl),
	}
	sm.mu.Lock()
	sm.sessions[sess.ID] = sess
	sm.mu.Unlock()
	http.SetCookie(w, &http.Cookie{
		Name:     sm.cookieName,
		Value:    sess.ID,
		Path:     "/",
		HttpOnly: true,
		Secure:   sm.secure,
		SameSite: http.SameSiteStrictMode,
		Expires:  sess.expiresAt,
	})
	return sess
}

// Destroy removes the session and expires the cookie.
func (sm *SessionManager) Destroy(w http.ResponseWriter, sess *Session) {
	if sess == nil {
		return
	}
	sm.mu.Lock()
	delete(sm.sessions, sess.ID)
	sm.mu.Unlock()
	http.SetCookie(w, &http.Cookie{
		Name:     sm.cookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   sm.secure,
		SameSite: http.SameSiteStrictMode,
		MaxAge:   -1,
	})
}

// UserID returns the authenticated user id bound to the session.
func (s *Session) UserID() string {
	if s == nil {
		return ""
	}
	return s.userID
}
