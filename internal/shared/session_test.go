package shared

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func cookieRequest(rec *httptest.ResponseRecorder) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range rec.Result().Cookies() {
		req.AddCookie(c)
	}
	return req
}

func TestSessionLifecycle(t *testing.T) {
	sm := NewSessionManager("session", time.Hour, false)

	rec := httptest.NewRecorder()
	sess := sm.Start(rec, "user-1")
	require.Equal(t, "user-1", sess.UserID())

	loaded := sm.Load(cookieRequest(rec))
	require.NotNil(t, loaded)
	require.Equal(t, "user-1", loaded.UserID())

	sm.Destroy(httptest.NewRecorder(), sess)
	require.Nil(t, sm.Load(cookieRequest(rec)))
}

func TestSessionExpiry(t *testing.T) {
	sm := NewSessionManager("session", time.Hour, false)
	rec := httptest.NewRecorder()
	sm.Start(rec, "user-1")

	sm.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	require.Nil(t, sm.Load(cookieRequest(rec)))
}

func TestSessionNoCookie(t *testing.T) {
	sm := NewSessionManager("session", time.Hour, false)
	require.Nil(t, sm.Load(httptest.NewRequest(http.MethodGet, "/", nil)))
	require.Empty(t, (*Session)(nil).UserID())
}
