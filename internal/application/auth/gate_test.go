package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campus-hub/campus-ops-hub/internal/domain/session"
	"github.com/campus-hub/campus-ops-hub/internal/domain/student"
	"github.com/campus-hub/campus-ops-hub/internal/infrastructure/persistence/memory"
)

func newTestGate(t *testing.T) (*Gate, *memory.Store) {
	t.Helper()
	store, err := memory.NewStore()
	require.NoError(t, err)

	gate, err := NewGate(Config{
		AdminIdentifier: "ADMIN",
		AdminPasscode:   "campus-secret",
	}, store.Students(), store.Sessions(), nil)
	require.NoError(t, err)
	return gate, store
}

func TestGate_StudentLogin(t *testing.T) {
	gate, _ := newTestGate(t)
	ctx := context.Background()

	t.Run("known id logs in", func(t *testing.T) {
		res, err := gate.Login(ctx, LoginInput{Identifier: "S001"})
		require.NoError(t, err)
		assert.True(t, res.OK)
		require.NotNil(t, res.Student)
		assert.Equal(t, student.ID("S001"), res.Student.ID)
		assert.Equal(t, session.StateLoggedInStudent, gate.State())
	})

	t.Run("identifier is normalized", func(t *testing.T) {
		res, err := gate.Login(ctx, LoginInput{Identifier: "  s002  "})
		require.NoError(t, err)
		assert.True(t, res.OK)
		assert.Equal(t, student.ID("S002"), res.Student.ID)
	})

	t.Run("unknown id is refused", func(t *testing.T) {
		res, err := gate.Login(ctx, LoginInput{Identifier: "S999"})
		require.NoError(t, err)
		assert.False(t, res.OK)
		assert.Equal(t, ReasonVerificationFailed, res.Reason)
	})

	t.Run("empty identifier is refused", func(t *testing.T) {
		res, err := gate.Login(ctx, LoginInput{Identifier: "   "})
		require.NoError(t, err)
		assert.False(t, res.OK)
		assert.Equal(t, ReasonVerificationFailed, res.Reason)
	})
}

func TestGate_AdminLogin(t *testing.T) {
	gate, _ := newTestGate(t)
	ctx := context.Background()

	t.Run("correct passcode", func(t *testing.T) {
		res, err := gate.Login(ctx, LoginInput{Identifier: "admin", Passcode: "campus-secret"})
		require.NoError(t, err)
		assert.True(t, res.OK)
		assert.True(t, res.Identity.IsAdmin())
		assert.Equal(t, session.StateLoggedInAdmin, gate.State())
	})

	t.Run("wrong passcode", func(t *testing.T) {
		res, err := gate.Login(ctx, LoginInput{Identifier: "ADMIN", Passcode: "nope"})
		require.NoError(t, err)
		assert.False(t, res.OK)
		assert.Equal(t, ReasonInvalidAdminCredentials, res.Reason)
	})

	t.Run("no passcode configured refuses", func(t *testing.T) {
		store, err := memory.NewStore()
		require.NoError(t, err)
		bare, err := NewGate(Config{}, store.Students(), store.Sessions(), nil)
		require.NoError(t, err)

		res, err := bare.Login(ctx, LoginInput{Identifier: "ADMIN", Passcode: "anything"})
		require.NoError(t, err)
		assert.False(t, res.OK)
		assert.Equal(t, ReasonInvalidAdminCredentials, res.Reason)
	})
}

func TestGate_RememberMe(t *testing.T) {
	ctx := context.Background()

	t.Run("remember saves identifier", func(t *testing.T) {
		gate, _ := newTestGate(t)
		_, err := gate.Login(ctx, LoginInput{Identifier: "S001", Remember: true})
		require.NoError(t, err)

		id, err := gate.RememberedIdentifier(ctx)
		require.NoError(t, err)
		assert.Equal(t, student.ID("S001"), id)
	})

	t.Run("login without remember clears identifier", func(t *testing.T) {
		gate, _ := newTestGate(t)
		_, err := gate.Login(ctx, LoginInput{Identifier: "S001", Remember: true})
		require.NoError(t, err)

		_, err = gate.Login(ctx, LoginInput{Identifier: "S002", Remember: false})
		require.NoError(t, err)

		id, err := gate.RememberedIdentifier(ctx)
		require.NoError(t, err)
		assert.Empty(t, id)
	})

	t.Run("logout keeps remembered identifier", func(t *testing.T) {
		gate, _ := newTestGate(t)
		_, err := gate.Login(ctx, LoginInput{Identifier: "S003", Remember: true})
		require.NoError(t, err)

		gate.Logout()
		assert.Equal(t, session.StateLoggedOut, gate.State())

		id, err := gate.RememberedIdentifier(ctx)
		require.NoError(t, err)
		assert.Equal(t, student.ID("S003"), id)
	})

	t.Run("disabled remember ignores the flag", func(t *testing.T) {
		store, err := memory.NewStore()
		require.NoError(t, err)

		gate, err := NewGate(Config{
			AdminIdentifier: "ADMIN",
			DisableRemember: true,
		}, store.Students(), store.Sessions(), nil)
		require.NoError(t, err)

		res, err := gate.Login(ctx, LoginInput{Identifier: "S001", Remember: true})
		require.NoError(t, err)
		assert.True(t, res.OK)

		id, err := gate.RememberedIdentifier(ctx)
		require.NoError(t, err)
		assert.Empty(t, id)
	})

	t.Run("disabled remember skips restore", func(t *testing.T) {
		store, err := memory.NewStore()
		require.NoError(t, err)
		// Идентификатор остался от запуска с включённым запоминанием.
		require.NoError(t, store.Sessions().SaveRemembered(ctx, "S004"))

		gate, err := NewGate(Config{
			AdminIdentifier: "ADMIN",
			DisableRemember: true,
		}, store.Students(), store.Sessions(), nil)
		require.NoError(t, err)

		sess, err := gate.Restore(ctx)
		require.NoError(t, err)
		assert.Nil(t, sess)
		assert.Equal(t, session.StateLoggedOut, gate.State())
	})
}

func TestGate_Restore(t *testing.T) {
	ctx := context.Background()

	t.Run("restores from remembered identifier", func(t *testing.T) {
		gate, store := newTestGate(t)
		require.NoError(t, store.Sessions().SaveRemembered(ctx, "S004"))

		sess, err := gate.Restore(ctx)
		require.NoError(t, err)
		require.NotNil(t, sess)
		assert.Equal(t, student.ID("S004"), sess.Identity.StudentID)
		assert.Equal(t, session.StateLoggedInStudent, gate.State())
	})

	t.Run("nothing remembered stays logged out", func(t *testing.T) {
		gate, _ := newTestGate(t)
		sess, err := gate.Restore(ctx)
		require.NoError(t, err)
		assert.Nil(t, sess)
		assert.Equal(t, session.StateLoggedOut, gate.State())
	})

	t.Run("stale remembered identifier is cleared", func(t *testing.T) {
		gate, store := newTestGate(t)
		require.NoError(t, store.Sessions().SaveRemembered(ctx, "S999"))

		sess, err := gate.Restore(ctx)
		require.NoError(t, err)
		assert.Nil(t, sess)

		id, err := store.Sessions().GetRemembered(ctx)
		require.NoError(t, err)
		assert.Empty(t, id)
	})

	t.Run("transient session wins over remembered", func(t *testing.T) {
		gate, store := newTestGate(t)
		require.NoError(t, store.Sessions().SaveRemembered(ctx, "S002"))

		_, err := gate.Login(ctx, LoginInput{Identifier: "S001"})
		require.NoError(t, err)

		sess, err := gate.Restore(ctx)
		require.NoError(t, err)
		require.NotNil(t, sess)
		assert.Equal(t, student.ID("S001"), sess.Identity.StudentID)
	})
}

func TestGate_Forget(t *testing.T) {
	gate, _ := newTestGate(t)
	ctx := context.Background()

	_, err := gate.Login(ctx, LoginInput{Identifier: "S001", Remember: true})
	require.NoError(t, err)

	require.NoError(t, gate.Forget(ctx))
	id, err := gate.RememberedIdentifier(ctx)
	require.NoError(t, err)
	assert.Empty(t, id)
}
