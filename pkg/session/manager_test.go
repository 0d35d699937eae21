package session_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeevandaan/website/pkg/cookie"
	"github.com/jeevandaan/website/pkg/session"
)

func newTestManager(t *testing.T) *session.Manager {
	t.Helper()
	cookies, err := cookie.New([]string{"0123456789abcdef0123456789abcdef"})
	require.NoError(t, err)

	m := session.New(
		session.WithCookieManager(cookies),
		session.WithConfig(session.Config{
			CookieName: "sid",
			TTL:        time.Hour,
		}),
	)
	t.Cleanup(func() { _ = m.Close() })
	return m
}

func carryCookies(t *testing.T, rec *httptest.ResponseRecorder, r *http.Request) {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		r.AddCookie(c)
	}
}

func TestManagerEnsureCreatesSession(t *testing.T) {
	m := newTestManager(t)

	rec := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/", nil)

	sess, err := m.Ensure(r.Context(), rec, r)
	require.NoError(t, err)
	assert.NotEmpty(t, sess.Token)
	assert.NotEmpty(t, rec.Result().Cookies())
}

func TestManagerEnsureReusesSession(t *testing.T) {
	m := newTestManager(t)

	rec := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	first, err := m.Ensure(r.Context(), rec, r)
	require.NoError(t, err)

	r2 := httptest.NewRequest(http.MethodGet, "/", nil)
	carryCookies(t, rec, r2)

	second, err := m.Ensure(r2.Context(), httptest.NewRecorder(), r2)
	require.NoError(t, err)
	assert.Equal(t, first.Token, second.Token)
	assert.Equal(t, first.ID, second.ID)
}

func TestManagerSavePersistsValues(t *testing.T) {
	m := newTestManager(t)

	rec := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	sess, err := m.Ensure(r.Context(), rec, r)
	require.NoError(t, err)

	sess.Set("csrf", "tok-123")
	require.NoError(t, m.Save(r.Context(), sess))

	r2 := httptest.NewRequest(http.MethodGet, "/", nil)
	carryCookies(t, rec, r2)

	got, err := m.Get(r2.Context(), r2)
	require.NoError(t, err)
	v, ok := got.GetString("csrf")
	require.True(t, ok)
	assert.Equal(t, "tok-123", v)
}

func TestManagerGetWithoutCookie(t *testing.T) {
	m := newTestManager(t)

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	_, err := m.Get(r.Context(), r)
	assert.ErrorIs(t, err, session.ErrNotFound)
}

func TestManagerForgedCookieRejected(t *testing.T) {
	m := newTestManager(t)

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(&http.Cookie{Name: "sid", Value: "forged-token.badsig"})

	_, err := m.Get(r.Context(), r)
	assert.ErrorIs(t, err, session.ErrNotFound)

	// Ensure issues a fresh session instead of trusting the forged cookie
	rec := httptest.NewRecorder()
	sess, err := m.Ensure(r.Context(), rec, r)
	require.NoError(t, err)
	assert.NotEmpty(t, sess.Token)
}

func TestManagerDestroy(t *testing.T) {
	m := newTestManager(t)

	rec := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	_, err := m.Ensure(r.Context(), rec, r)
	require.NoError(t, err)

	r2 := httptest.NewRequest(http.MethodGet, "/", nil)
	carryCookies(t, rec, r2)

	rec2 := httptest.NewRecorder()
	require.NoError(t, m.Destroy(r2.Context(), rec2, r2))

	_, err = m.Get(r2.Context(), r2)
	assert.Error(t, err)
}
