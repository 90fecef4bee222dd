package session_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/pagekit/core/session"
)

func newTestSession(t *testing.T) *session.Session {
	t.Helper()
	store := session.NewStore()
	sess, created, err := store.FindOrCreate("")
	require.NoError(t, err)
	require.True(t, created)
	return sess
}

func TestSessionAuthenticate(t *testing.T) {
	t.Parallel()

	t.Run("binds user and normalizes roles", func(t *testing.T) {
		t.Parallel()

		sess := newTestSession(t)
		sess.Authenticate(session.User{
			ID:          42,
			Username:    "jdoe",
			Roles:       []string{"Administrator", " Operator "},
			Permissions: []string{"Orders.Write"},
		})

		u, ok := sess.User()
		require.True(t, ok)
		assert.Equal(t, int64(42), u.ID)
		assert.Equal(t, []string{"administrator", "operator"}, u.Roles)
		assert.True(t, sess.HasRole("ADMINISTRATOR"))
		assert.True(t, sess.HasPermission("orders.write"))
		assert.False(t, sess.HasRole("guest"))
	})

	t.Run("invalidates opaque ids issued while anonymous", func(t *testing.T) {
		t.Parallel()

		sess := newTestSession(t)
		tok, err := sess.IDs().CreatePair("orders", 1)
		require.NoError(t, err)

		sess.Authenticate(session.User{ID: 1, Username: "jdoe"})

		_, err = sess.IDs().Resolve("orders", tok)
		assert.Error(t, err)
	})
}

func TestSessionLogout(t *testing.T) {
	t.Parallel()

	sess := newTestSession(t)
	sess.SetLang("de")
	sess.Authenticate(session.User{ID: 7, Username: "jdoe"})
	sess.SetCSRFToken("csrf123")
	sess.SetAttr("theme", "dark")
	sess.SetFlash("saved", session.SeverityInfo)
	_, err := sess.IDs().CreatePair("orders", 1)
	require.NoError(t, err)

	sess.Logout()

	assert.False(t, sess.IsAuthenticated())
	assert.Empty(t, sess.CSRFToken())
	_, ok := sess.Attr("theme")
	assert.False(t, ok)
	_, _, ok = sess.ConsumeFlash()
	assert.False(t, ok)
	assert.Zero(t, sess.IDs().Len())

	// The language preference survives logout.
	assert.Equal(t, "de", sess.Lang())
}

func TestSessionFlash(t *testing.T) {
	t.Parallel()

	t.Run("consumed exactly once", func(t *testing.T) {
		t.Parallel()

		sess := newTestSession(t)
		assert.False(t, sess.HasFlash())
		sess.SetFlash("record saved", session.SeverityInfo)
		assert.True(t, sess.HasFlash())

		msg, sev, ok := sess.ConsumeFlash()
		require.True(t, ok)
		assert.Equal(t, "record saved", msg)
		assert.Equal(t, session.SeverityInfo, sev)

		_, _, ok = sess.ConsumeFlash()
		assert.False(t, ok)
		assert.False(t, sess.HasFlash())
	})

	t.Run("second set overwrites first", func(t *testing.T) {
		t.Parallel()

		sess := newTestSession(t)
		sess.SetFlash("first", session.SeverityInfo)
		sess.SetFlash("second", session.SeverityError)

		msg, sev, ok := sess.ConsumeFlash()
		require.True(t, ok)
		assert.Equal(t, "second", msg)
		assert.Equal(t, session.SeverityError, sev)
	})
}

func TestSessionPageFor(t *testing.T) {
	t.Parallel()

	sess := newTestSession(t)
	sess.SetPageFor("orders", "3")

	page, ok := sess.ConsumePageFor("orders")
	require.True(t, ok)
	assert.Equal(t, "3", page)

	_, ok = sess.ConsumePageFor("orders")
	assert.False(t, ok)

	_, ok = sess.ConsumePageFor("users")
	assert.False(t, ok)
}

func TestSessionTwoFA(t *testing.T) {
	t.Parallel()

	sess := newTestSession(t)
	sess.Authenticate(session.User{ID: 1, Username: "jdoe"})
	tok, err := sess.IDs().CreatePair("orders", 5)
	require.NoError(t, err)

	assert.False(t, sess.TwoFAPassed())
	sess.SetTwoFAPassed(true)
	assert.True(t, sess.TwoFAPassed())

	// Privilege change invalidates tokens issued before it.
	_, err = sess.IDs().Resolve("orders", tok)
	assert.Error(t, err)
}

func TestParseSeverity(t *testing.T) {
	t.Parallel()

	assert.Equal(t, session.SeverityInfo, session.ParseSeverity("i"))
	assert.Equal(t, session.SeverityWarning, session.ParseSeverity("w"))
	assert.Equal(t, session.SeverityError, session.ParseSeverity("e"))
	assert.Equal(t, session.SeverityInfo, session.ParseSeverity("bogus"))
	assert.Equal(t, session.SeverityInfo, session.ParseSeverity(""))
}

func TestUserFullNameOrUsername(t *testing.T) {
	t.Parallel()

	u := session.User{Username: "jdoe", Firstname: "Jane", Lastname: "Doe"}
	assert.Equal(t, "Jane Doe", u.FullNameOrUsername())

	u = session.User{Username: "jdoe", Firstname: "Jane"}
	assert.Equal(t, "jdoe", u.FullNameOrUsername())
}
