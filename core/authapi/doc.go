// Package authapi is the typed client for the platform's authentication
// endpoints. It owns request/response shapes and error mapping; session
// lifecycle decisions belong to core/guard and core/login.
//
// # Endpoints
//
//   - POST /auth/login                  credentials -> token pair or 2FA challenge
//   - POST /auth/verify-2fa             code + temp token -> token pair
//   - POST /auth/refresh-token          refresh token -> new access token
//   - POST /auth/logout                 best-effort server-side revocation
//   - GET  /profile                     bearer token -> current principal
//   - POST /auth/request-password-reset fire-and-forget reset email
//
// # Error Mapping
//
// Every non-2xx response decodes into *APIError carrying the HTTP status,
// the server's message, and an optional lockout deadline. A 401
// additionally matches ErrUnauthorized, and transport-level failures match
// ErrUnreachable, so callers branch with errors.Is:
//
//	_, err := client.Profile(ctx, token)
//	switch {
//	case errors.Is(err, authapi.ErrUnauthorized):
//		// token rejected: clear local state
//	case errors.Is(err, authapi.ErrUnreachable):
//		// backend unreachable: fail closed
//	}
package authapi
