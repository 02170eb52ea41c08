// Package guard owns the client-side authentication state machine: it
// verifies the persisted session on startup, keeps it alive with periodic
// silent refresh, enforces the inactivity ceiling, and tears everything
// down on logout or revocation.
//
// # States
//
//	Initializing -> Verifying -> Authenticated -> Unauthenticated
//
// Refreshing is a sub-state of Authenticated exposed via Refreshing();
// it never blocks collaborators, which keep reading the current token
// while a refresh is on the wire.
//
// # Basic Usage
//
//	g := guard.New(cfg, store, api, nav, fp)
//	switch g.Start(ctx) {
//	case guard.StateAuthenticated:
//		// protected UI is visible; timers are running
//	case guard.StateUnauthenticated:
//		// the navigator was already sent to the login view
//	}
//
// Collaborators consume the narrow read surface only: IsAuthenticated,
// Token, Principal, RecordActivity, and OnChange. The guard never exposes
// the session record itself.
//
// # Presentation Separation
//
// The guard performs no rendering. All user-visible effects go through
// the Navigator interface the embedding application implements: revealing
// or hiding protected views and navigating to the login view with a
// human-readable reason. Verification always completes before
// ShowProtected is called; there is no optimistic reveal.
//
// # Failure Policy
//
// Only an explicit 401 means the server rejected the credential. A
// transport-level failure during verification is ambiguous, and the guard
// fails closed: local state is cleared and the user re-authenticates. A
// session is never left half-authenticated, and verification is never
// retried in a loop.
package guard
