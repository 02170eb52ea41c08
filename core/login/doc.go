// Package login owns credential submission and the optional second-factor
// step, ending in a persisted session the guard takes over.
//
// # State Machine
//
//	Idle -> Submitting -> Success
//	Idle -> Submitting -> TwoFactorRequired -> VerifyingCode -> Success
//
// Failures return to the nearest retryable state: a rejected credential
// submission goes back to Idle, a rejected code stays in
// TwoFactorRequired so the user retries without re-entering the password.
//
// # Basic Usage
//
//	flow := login.NewFlow(api, store, fingerprint.Generate(fingerprint.System()))
//
//	outcome, err := flow.SubmitCredentials(ctx, email, password, trustDevice)
//	if err != nil {
//		// validation or server failure; inspect authapi.APIError for
//		// messages and lockout countdowns
//	}
//	if outcome.TwoFactorRequired {
//		outcome, err = flow.VerifyTwoFactor(ctx, codeFromUser)
//	}
//	// outcome.Session is persisted; hand control to the guard.
//
// A submission already in flight drops concurrent submissions instead of
// queueing them, so double-clicking a submit control produces exactly one
// network call.
package login
