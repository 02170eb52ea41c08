package authapi

import (
	"time"

	"github.com/gymdesk/authkit/core/session"
	"github.com/gymdesk/authkit/pkg/deviceinfo"
)

// Credentials is the login request body.
type Credentials struct {
	Email             string          `json:"email"`
	Password          string          `json:"password"`
	DeviceFingerprint string          `json:"deviceFingerprint,omitempty"`
	TrustDevice       bool            `json:"trustDevice"`
	DeviceInfo        deviceinfo.Info `json:"deviceInfo"`
}

// AuthResult is the success shape shared by login and 2FA verification.
// Either the token pair is set, or RequiresTwoFactor is true and TempToken
// carries the short-lived challenge credential.
type AuthResult struct {
	Token                 string            `json:"token"`
	RefreshToken          string            `json:"refreshToken"`
	Admin                 session.Principal `json:"admin"`
	SessionTimeoutMinutes int               `json:"sessionTimeout"`
	RequiresTwoFactor     bool              `json:"requiresTwoFactor"`
	TempToken             string            `json:"tempToken"`
}

// Timeout converts the server-provided session timeout to a duration.
// Zero means the server left the default to the client.
func (r *AuthResult) Timeout() time.Duration {
	return time.Duration(r.SessionTimeoutMinutes) * time.Minute
}

type verifyTwoFactorRequest struct {
	Code              string `json:"code"`
	DeviceFingerprint string `json:"deviceFingerprint,omitempty"`
}

type refreshRequest struct {
	RefreshToken      string `json:"refreshToken"`
	DeviceFingerprint string `json:"deviceFingerprint,omitempty"`
}

type refreshResponse struct {
	Token string `json:"token"`
}

type logoutRequest struct {
	RefreshToken string `json:"refreshToken,omitempty"`
}

type profileResponse struct {
	Admin session.Principal `json:"admin"`
}

type passwordResetRequest struct {
	Email string `json:"email"`
}
