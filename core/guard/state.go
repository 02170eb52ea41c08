package guard

// State is the guard's position in the session lifecycle.
type State string

const (
	// StateInitializing is the construction state before Start.
	StateInitializing State = "initializing"
	// StateVerifying means a stored token is being checked with the server.
	StateVerifying State = "verifying"
	// StateAuthenticated means the session is live and timers are running.
	StateAuthenticated State = "authenticated"
	// StateUnauthenticated means no valid session exists; the navigator
	// has been pointed at the login view.
	StateUnauthenticated State = "unauthenticated"
)

// Navigator is the thin presentation binding the embedding application
// implements. The guard emits state; the navigator translates it into
// view changes.
type Navigator interface {
	// AtLogin reports whether the login view is already current.
	// ToLogin is skipped in that case to prevent redirect loops.
	AtLogin() bool

	// ToLogin navigates to the login view. reason is a short
	// human-readable explanation, empty for the initial "please sign in"
	// case. sessionEnded distinguishes "your session ended" from "never
	// signed in" so the login view can phrase its prompt; the flag lives
	// only in process memory.
	ToLogin(reason string, sessionEnded bool)

	// ShowProtected reveals the protected views after verification
	// succeeded. Never called optimistically.
	ShowProtected()

	// HideProtected conceals the protected views.
	HideProtected()
}

// Human-readable reasons attached to login redirects.
const (
	// ReasonExpired is used when local or server-side expiry ended the session.
	ReasonExpired = "Your session has expired. Please sign in again."
	// ReasonRefreshFailed is used when silent refresh was rejected.
	ReasonRefreshFailed = "Session expired"
	// ReasonInactivity is used when the idle ceiling was breached.
	ReasonInactivity = "Session expired due to inactivity"
	// ReasonVerifyFailed is used when verification failed without an
	// explicit rejection, e.g. the backend was unreachable.
	ReasonVerifyFailed = "Could not verify your session. Please sign in again."
)
