// Package session defines the client-side authentication session: the
// token pair obtained at login, the authenticated principal, and the
// timestamps that drive expiry decisions.
//
// # Core Components
//
// The package provides three main types:
//
//   - Session: the token pair, principal, and expiry bookkeeping
//   - Principal: the authenticated admin identity
//   - Store: interface for local persistence (memory, file, Redis, etc.)
//
// Exactly one session is current per store scope. Store implementations
// must replace atomically on Save and remove every field together on
// Clear; a store that can drop the refresh token while keeping the access
// token (or vice versa) is defective.
//
// # Basic Usage
//
//	sess := session.New("AT", "RT", principal, 30*time.Minute)
//	if err := store.Save(ctx, &sess); err != nil {
//		return err
//	}
//
//	// Later, on load:
//	sess, err := store.Load(ctx)
//	switch {
//	case errors.Is(err, session.ErrNotFound):
//		// never signed in
//	case err == nil && sess.IsExpired(time.Now()):
//		// locally stale, no network round-trip needed
//	}
//
// # Expiry
//
// A session expires ExpiresAfter after IssuedAt; a successful refresh
// resets IssuedAt. When the access token happens to be a JWT, its exp
// claim is consulted as an additional local hint (parsed without
// signature verification; the server remains the authority).
package session
