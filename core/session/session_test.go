package session_test

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gymdesk/authkit/core/session"
)

func testPrincipal() session.Principal {
	return session.Principal{
		ID:    uuid.New(),
		Name:  "Dana Admin",
		Email: "dana@example.com",
		Role:  session.RoleAdmin,
	}
}

func signedToken(t *testing.T, exp time.Time) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "admin-1",
		"exp": exp.Unix(),
	}).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return token
}

func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("uses server timeout", func(t *testing.T) {
		t.Parallel()

		sess := session.New("AT", "RT", testPrincipal(), 45*time.Minute)

		assert.Equal(t, "AT", sess.AccessToken)
		assert.Equal(t, "RT", sess.RefreshToken)
		assert.Equal(t, 45*time.Minute, sess.ExpiresAfter)
		assert.WithinDuration(t, time.Now(), sess.IssuedAt, time.Second)
		assert.WithinDuration(t, time.Now(), sess.LastActivityAt, time.Second)
	})

	t.Run("defaults timeout when server omits it", func(t *testing.T) {
		t.Parallel()

		sess := session.New("AT", "", testPrincipal(), 0)

		assert.Equal(t, session.DefaultTimeout, sess.ExpiresAfter)
	})
}

func TestIsExpired(t *testing.T) {
	t.Parallel()

	t.Run("fresh session is valid", func(t *testing.T) {
		t.Parallel()

		sess := session.New("AT", "RT", testPrincipal(), 30*time.Minute)

		assert.False(t, sess.IsExpired(time.Now()))
	})

	t.Run("expired past the issue deadline", func(t *testing.T) {
		t.Parallel()

		sess := session.New("AT", "RT", testPrincipal(), 30*time.Minute)
		sess.IssuedAt = time.Now().Add(-40 * time.Minute)

		assert.True(t, sess.IsExpired(time.Now()))
	})

	t.Run("jwt exp claim expires earlier than the deadline", func(t *testing.T) {
		t.Parallel()

		token := signedToken(t, time.Now().Add(-time.Minute))
		sess := session.New(token, "RT", testPrincipal(), 30*time.Minute)

		assert.True(t, sess.IsExpired(time.Now()))
	})

	t.Run("opaque token relies on the deadline only", func(t *testing.T) {
		t.Parallel()

		sess := session.New("opaque-token", "RT", testPrincipal(), 30*time.Minute)

		assert.False(t, sess.IsExpired(time.Now()))
	})
}

func TestTokenExpiry(t *testing.T) {
	t.Parallel()

	t.Run("reads exp from jwt access token", func(t *testing.T) {
		t.Parallel()

		exp := time.Now().Add(15 * time.Minute).Truncate(time.Second)
		sess := session.New(signedToken(t, exp), "", testPrincipal(), 0)

		got, ok := sess.TokenExpiry()
		require.True(t, ok)
		assert.Equal(t, exp.Unix(), got.Unix())
	})

	t.Run("opaque token has no expiry hint", func(t *testing.T) {
		t.Parallel()

		sess := session.New("not-a-jwt", "", testPrincipal(), 0)

		_, ok := sess.TokenExpiry()
		assert.False(t, ok)
	})

	t.Run("empty token has no expiry hint", func(t *testing.T) {
		t.Parallel()

		var sess session.Session

		_, ok := sess.TokenExpiry()
		assert.False(t, ok)
	})
}

func TestRotateAccessToken(t *testing.T) {
	t.Parallel()

	sess := session.New("old-token", "RT", testPrincipal(), 30*time.Minute)
	sess.IssuedAt = time.Now().Add(-20 * time.Minute)

	sess.RotateAccessToken("new-token")

	assert.Equal(t, "new-token", sess.AccessToken)
	assert.WithinDuration(t, time.Now(), sess.IssuedAt, time.Second)
	assert.Equal(t, "RT", sess.RefreshToken, "refresh token survives rotation")
}

func TestCanRefresh(t *testing.T) {
	t.Parallel()

	withRefresh := session.New("AT", "RT", testPrincipal(), 0)
	assert.True(t, withRefresh.CanRefresh())

	withoutRefresh := session.New("AT", "", testPrincipal(), 0)
	assert.False(t, withoutRefresh.CanRefresh())
}

func TestTouchAndIdleFor(t *testing.T) {
	t.Parallel()

	sess := session.New("AT", "RT", testPrincipal(), 0)
	past := time.Now().Add(-10 * time.Minute)
	sess.Touch(past)

	idle := sess.IdleFor(time.Now())
	assert.InDelta(t, (10 * time.Minute).Seconds(), idle.Seconds(), 1)
}

func TestDeadline(t *testing.T) {
	t.Parallel()

	sess := session.New("AT", "RT", testPrincipal(), 30*time.Minute)

	assert.Equal(t, sess.IssuedAt.Add(30*time.Minute), sess.Deadline())
}
