package sessiontransport_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/pagekit/core/cookie"
	"github.com/dmitrymomot/pagekit/core/session"
	"github.com/dmitrymomot/pagekit/core/sessiontransport"
)

func newTransport(t *testing.T, opts ...sessiontransport.Option) (*sessiontransport.Cookie, *session.Store, *cookie.Manager) {
	t.Helper()
	store := session.NewStore()
	cookies, err := cookie.New([]string{"transport-test-secret-32-chars-x"})
	require.NoError(t, err)
	return sessiontransport.NewCookie(store, cookies, opts...), store, cookies
}

func TestCookieResolve(t *testing.T) {
	t.Parallel()

	t.Run("no cookie creates anonymous session and sets cookie", func(t *testing.T) {
		t.Parallel()

		tr, store, cookies := newTransport(t)
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/", nil)

		sess, err := tr.Resolve(w, r)
		require.NoError(t, err)
		require.NotNil(t, sess)
		assert.False(t, sess.IsAuthenticated())
		assert.Equal(t, 1, store.Count())

		set := w.Result().Cookies()
		require.Len(t, set, 1)
		assert.Equal(t, "__SESSION_ID__", set[0].Name)
		assert.Equal(t, 24*60*60, set[0].MaxAge)

		// The cookie round-trips to the same session.
		r2 := httptest.NewRequest(http.MethodGet, "/", nil)
		r2.AddCookie(set[0])
		w2 := httptest.NewRecorder()
		again, err := tr.Resolve(w2, r2)
		require.NoError(t, err)
		assert.Equal(t, sess.Token(), again.Token())
		assert.Empty(t, w2.Result().Cookies(), "existing session must not rewrite the cookie")

		// The raw token never appears in the cookie value.
		tok, err := cookies.GetSigned(r2, "__SESSION_ID__")
		require.NoError(t, err)
		assert.Equal(t, sess.Token(), tok)
		assert.NotEqual(t, sess.Token(), set[0].Value)
	})

	t.Run("tampered cookie falls back to a fresh session", func(t *testing.T) {
		t.Parallel()

		tr, store, _ := newTransport(t)
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.AddCookie(&http.Cookie{Name: "__SESSION_ID__", Value: "Zm9yZ2Vk|bm9wZQ=="})
		w := httptest.NewRecorder()

		sess, err := tr.Resolve(w, r)
		require.NoError(t, err)
		require.NotNil(t, sess)
		assert.Equal(t, 1, store.Count())
		assert.Len(t, w.Result().Cookies(), 1)
	})

	t.Run("stale token behind a live cookie is replaced", func(t *testing.T) {
		t.Parallel()

		tr, store, cookies := newTransport(t)
		w := httptest.NewRecorder()
		require.NoError(t, cookies.SetSigned(w, "__SESSION_ID__", "token-of-a-destroyed-session"))

		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.AddCookie(w.Result().Cookies()[0])
		w2 := httptest.NewRecorder()

		sess, err := tr.Resolve(w2, r)
		require.NoError(t, err)
		assert.NotEqual(t, "token-of-a-destroyed-session", sess.Token())
		assert.Equal(t, 1, store.Count())
		assert.Len(t, w2.Result().Cookies(), 1, "replacement session gets a new cookie")
	})

	t.Run("query parameter fallback when enabled", func(t *testing.T) {
		t.Parallel()

		tr, store, _ := newTransport(t, sessiontransport.WithParamFallback("sesid"))
		sess, _, err := store.FindOrCreate("")
		require.NoError(t, err)

		r := httptest.NewRequest(http.MethodGet, "/orders/index?sesid="+sess.Token(), nil)
		w := httptest.NewRecorder()

		got, err := tr.Resolve(w, r)
		require.NoError(t, err)
		assert.Equal(t, sess.Token(), got.Token())
	})

	t.Run("query parameter ignored by default", func(t *testing.T) {
		t.Parallel()

		tr, store, _ := newTransport(t)
		sess, _, err := store.FindOrCreate("")
		require.NoError(t, err)

		r := httptest.NewRequest(http.MethodGet, "/orders/index?sesid="+sess.Token(), nil)
		w := httptest.NewRecorder()

		got, err := tr.Resolve(w, r)
		require.NoError(t, err)
		assert.NotEqual(t, sess.Token(), got.Token())
	})
}

func TestCookieDrop(t *testing.T) {
	t.Parallel()

	tr, store, _ := newTransport(t)
	sess, _, err := store.FindOrCreate("")
	require.NoError(t, err)

	w := httptest.NewRecorder()
	tr.Drop(w, sess)

	set := w.Result().Cookies()
	require.Len(t, set, 1)
	assert.Equal(t, "__SESSION_ID__", set[0].Name)
	assert.Equal(t, -1, set[0].MaxAge)
}
