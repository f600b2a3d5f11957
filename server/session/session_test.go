package session_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/jrsteele09/go-crm-sync/server/session"
	"github.com/stretchr/testify/require"
)

func captureSession(t *testing.T, req *http.Request) (string, *httptest.ResponseRecorder) {
	t.Helper()
	var got string
	h := session.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = session.FromContext(r.Context())
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return got, rec
}

func TestMiddleware_IssuesSession(t *testing.T) {
	id, rec := captureSession(t, httptest.NewRequest(http.MethodGet, "/", nil))

	_, err := uuid.Parse(id)
	require.NoError(t, err)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	require.Equal(t, session.CookieName, cookies[0].Name)
	require.Equal(t, id, cookies[0].Value)
	require.True(t, cookies[0].HttpOnly)
}

func TestMiddleware_ReusesValidCookie(t *testing.T) {
	existing := uuid.NewString()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: session.CookieName, Value: existing})

	id, rec := captureSession(t, req)
	require.Equal(t, existing, id)
	require.Empty(t, rec.Result().Cookies())
}

func TestMiddleware_ReplacesForgedCookie(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: session.CookieName, Value: "not-a-uuid"})

	id, rec := captureSession(t, req)
	require.NotEqual(t, "not-a-uuid", id)
	require.Len(t, rec.Result().Cookies(), 1)
}

func TestFromContext_Empty(t *testing.T) {
	require.Empty(t, session.FromContext(httptest.NewRequest(http.MethodGet, "/", nil).Context()))
}
