package session

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// DefaultTimeout applies when the server does not provide a session
// timeout at login.
const DefaultTimeout = 30 * time.Minute

// Role is the principal's advisory role. Real authorization happens
// server-side; collaborators only use this to decide which affordances
// to show.
type Role string

const (
	RoleAdmin      Role = "admin"
	RoleSuperAdmin Role = "super_admin"
)

// Principal is the authenticated admin identity as reported by the server.
type Principal struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
	Role  Role      `json:"role"`
}

// Session is the client-side authentication state obtained at login and
// kept alive by silent refresh.
type Session struct {
	// AccessToken is the short-lived opaque bearer credential.
	AccessToken string `json:"access_token"`

	// RefreshToken mints new access tokens. Empty means the session
	// cannot be silently renewed and terminates on the next failure.
	RefreshToken string `json:"refresh_token,omitempty"`

	Principal Principal `json:"principal"`

	// IssuedAt is when the access token was obtained or last refreshed.
	IssuedAt time.Time `json:"issued_at"`

	// ExpiresAfter is how long past IssuedAt the session stays valid
	// absent a refresh.
	ExpiresAfter time.Duration `json:"expires_after"`

	// LastActivityAt is the most recent recorded user interaction.
	LastActivityAt time.Time `json:"last_activity_at"`
}

// New creates a session issued now. A non-positive timeout falls back to
// DefaultTimeout.
func New(accessToken, refreshToken string, principal Principal, timeout time.Duration) Session {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	now := time.Now()
	return Session{
		AccessToken:    accessToken,
		RefreshToken:   refreshToken,
		Principal:      principal,
		IssuedAt:       now,
		ExpiresAfter:   timeout,
		LastActivityAt: now,
	}
}

// IsExpired reports whether the session is locally stale at the given
// instant: past the issue deadline, or past the access token's own exp
// claim when the token is a JWT.
func (s Session) IsExpired(now time.Time) bool {
	if now.Sub(s.IssuedAt) > s.ExpiresAfter {
		return true
	}

	if exp, ok := s.TokenExpiry(); ok && now.After(exp) {
		return true
	}

	return false
}

// Deadline is the instant the session becomes stale absent a refresh.
func (s Session) Deadline() time.Time {
	return s.IssuedAt.Add(s.ExpiresAfter)
}

// CanRefresh reports whether silent renewal is possible.
func (s Session) CanRefresh() bool {
	return s.RefreshToken != ""
}

// RotateAccessToken replaces the access token and resets the issue
// timestamp after a successful refresh. The old token is fully
// overwritten, never retained alongside the new one.
func (s *Session) RotateAccessToken(accessToken string) {
	s.AccessToken = accessToken
	s.IssuedAt = time.Now()
}

// Touch records user activity at the given instant.
func (s *Session) Touch(now time.Time) {
	s.LastActivityAt = now
}

// IdleFor is the time since the last recorded activity.
func (s Session) IdleFor(now time.Time) time.Duration {
	return now.Sub(s.LastActivityAt)
}

// TokenExpiry returns the exp claim of the access token when it parses as
// a JWT. The signature is NOT verified; this is a local hint only and the
// server remains the authority on token validity.
func (s Session) TokenExpiry() (time.Time, bool) {
	if s.AccessToken == "" {
		return time.Time{}, false
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(s.AccessToken, claims); err != nil {
		return time.Time{}, false
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}

	return exp.Time, true
}
