// Package fingerprint generates advisory device fingerprints from
// environment characteristics for loosely binding refresh tokens to the
// originating client.
//
// A fingerprint is a deterministic hash over the platform identifier,
// locale, display geometry, timezone offset, and a rendering-probe hash.
// The same environment always yields the same fingerprint; changing any
// component yields a different one.
//
// # Basic Usage
//
//	fp := fingerprint.Generate(fingerprint.System())
//	// "v1:a1b2c3..." (35 chars)
//
// Environment access goes through the Source interface so tests can stub
// every component:
//
//	src := fingerprint.StaticSource{
//		PlatformID: "test/1.0",
//		LocaleTag:  "en-US",
//	}
//	fp := fingerprint.Generate(src)
//
// # Security Model
//
// Fingerprints are NOT a security boundary. Every input is under client
// control and trivially spoofable. The value exists only as an additional
// signal sent with login and refresh requests so the server can flag
// anomalies; it must never be the sole factor in an authorization
// decision.
package fingerprint
