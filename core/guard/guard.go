package guard

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gymdesk/authkit/core/authapi"
	"github.com/gymdesk/authkit/core/session"
	"github.com/gymdesk/authkit/pkg/logger"
)

// serverNotifyTimeout bounds the best-effort logout notification so local
// cleanup is never held hostage by a slow backend.
const serverNotifyTimeout = 5 * time.Second

// Guard runs the session lifecycle. Construct with New, or Shared for the
// one-per-process case, then call Start.
type Guard struct {
	cfg   Config
	store session.Store
	api   *authapi.Client
	nav   Navigator
	fp    string
	log   *slog.Logger

	mu         sync.Mutex
	state      State
	sess       *session.Session
	generation uint64
	refreshing bool
	verifying  bool
	loggingOut bool
	onChange   []func(State)

	lastActivity atomic.Int64 // unix nanoseconds

	runMu    sync.Mutex
	running  bool
	stopLoop context.CancelFunc
}

// Option configures the guard.
type Option func(*Guard)

// WithLogger sets the logger; nil keeps slog.Default().
func WithLogger(log *slog.Logger) Option {
	return func(g *Guard) {
		if log != nil {
			g.log = log
		}
	}
}

// New creates a guard in the Initializing state. The fingerprint is sent
// with refresh requests so the server can bind the refresh token to this
// environment.
func New(cfg Config, store session.Store, api *authapi.Client, nav Navigator, fingerprint string, opts ...Option) *Guard {
	g := &Guard{
		cfg:   cfg.withDefaults(),
		store: store,
		api:   api,
		nav:   nav,
		fp:    fingerprint,
		log:   slog.Default(),
		state: StateInitializing,
	}
	for _, opt := range opts {
		opt(g)
	}

	g.log = g.log.With(logger.Component("guard"))

	return g
}

var (
	sharedMu sync.Mutex
	shared   *Guard
)

// Shared returns the process-wide guard, constructing it on first call.
// Subsequent calls ignore their arguments and return the existing
// instance, so a second construction attempt can never spawn a parallel
// timer set.
func Shared(cfg Config, store session.Store, api *authapi.Client, nav Navigator, fingerprint string, opts ...Option) *Guard {
	sharedMu.Lock()
	defer sharedMu.Unlock()

	if shared == nil {
		shared = New(cfg, store, api, nav, fingerprint, opts...)
	}
	return shared
}

// Start verifies any persisted session and, on success, begins the
// refresh and idle timers. It is idempotent per run: calling Start while
// the guard is already running is a no-op returning the current state.
// After a logout the guard may be started again once a new session was
// established.
func (g *Guard) Start(ctx context.Context) State {
	g.runMu.Lock()
	if g.running {
		state := g.State()
		g.runMu.Unlock()
		return state
	}
	g.running = true
	g.runMu.Unlock()

	state := g.Verify(ctx)
	if state != StateAuthenticated {
		g.runMu.Lock()
		g.running = false
		g.runMu.Unlock()
	}
	return state
}

// Verify re-checks the persisted session against the server. Overlapping
// calls (e.g. triggered by both initial load and a history navigation
// event) are dropped: the second call returns the current state without a
// second network round-trip.
func (g *Guard) Verify(ctx context.Context) State {
	g.mu.Lock()
	if g.verifying {
		state := g.state
		g.mu.Unlock()
		return state
	}
	g.verifying = true
	g.mu.Unlock()

	defer func() {
		g.mu.Lock()
		g.verifying = false
		g.mu.Unlock()
	}()

	return g.verify(ctx)
}

func (g *Guard) verify(ctx context.Context) State {
	g.mu.Lock()
	startGen := g.generation
	g.mu.Unlock()

	sess, err := g.store.Load(ctx)
	switch {
	case errors.Is(err, session.ErrNotFound):
		// Never signed in: silent redirect, no reason string.
		g.transition(StateUnauthenticated)
		g.nav.HideProtected()
		g.redirectToLogin("", false)
		return StateUnauthenticated

	case err != nil:
		g.log.ErrorContext(ctx, "failed to load stored session", logger.Error(err))
		return g.failClosed(ctx, ReasonVerifyFailed)
	}

	if sess.IsExpired(time.Now()) {
		// Locally stale: clear and redirect without a network round-trip.
		g.log.InfoContext(ctx, "stored session expired locally", logger.Event("local_expiry"))
		return g.failClosed(ctx, ReasonExpired)
	}

	g.transition(StateVerifying)

	principal, err := g.api.Profile(ctx, sess.AccessToken)
	switch {
	case errors.Is(err, authapi.ErrUnauthorized):
		g.log.InfoContext(ctx, "server rejected stored token", logger.Event("token_rejected"))
		return g.failClosed(ctx, ReasonExpired)

	case err != nil:
		// Ambiguous failure: the credential may still be valid, but a
		// half-authenticated UI is worse, so fail closed.
		g.log.WarnContext(ctx, "session verification failed", logger.Error(err))
		return g.failClosed(ctx, ReasonVerifyFailed)
	}

	sess.Principal = *principal
	if err := g.store.Save(ctx, sess); err != nil {
		g.log.ErrorContext(ctx, "failed to persist verified session", logger.Error(err))
	}

	g.mu.Lock()
	// A logout may have landed while the profile request was on the wire;
	// committing the result now would resurrect the ended session.
	if g.generation != startGen {
		g.mu.Unlock()
		if err := g.store.Clear(context.WithoutCancel(ctx)); err != nil {
			g.log.ErrorContext(ctx, "failed to clear superseded session", logger.Error(err))
		}
		// Generation only moves on session-ending paths, so the ended
		// session's outcome stands.
		g.transition(StateUnauthenticated)
		return StateUnauthenticated
	}
	g.sess = sess
	generation := g.generation
	callbacks := g.commitState(StateAuthenticated)
	g.mu.Unlock()
	g.lastActivity.Store(time.Now().UnixNano())

	for _, fn := range callbacks {
		fn(StateAuthenticated)
	}
	g.nav.ShowProtected()
	g.startTimers(ctx, generation)

	g.log.InfoContext(ctx, "session verified",
		logger.Event("session_verified"),
		slog.String("role", string(principal.Role)),
	)
	return StateAuthenticated
}

// failClosed clears local state and sends the navigator to the login view
// with the given reason.
func (g *Guard) failClosed(ctx context.Context, reason string) State {
	if err := g.store.Clear(ctx); err != nil {
		g.log.ErrorContext(ctx, "failed to clear stored session", logger.Error(err))
	}

	g.mu.Lock()
	g.sess = nil
	g.generation++
	g.mu.Unlock()

	g.transition(StateUnauthenticated)
	g.nav.HideProtected()
	g.redirectToLogin(reason, true)
	return StateUnauthenticated
}

// startTimers launches the run loop owning both tickers. The loop detaches
// from the caller's cancellation but is torn down by logout or Stop; every
// tick re-checks the session generation so a cancelled session can never
// act again.
func (g *Guard) startTimers(ctx context.Context, generation uint64) {
	loopCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))

	g.runMu.Lock()
	if g.stopLoop != nil {
		// A re-verification while authenticated replaces the loop instead
		// of stacking a second timer set.
		g.stopLoop()
	}
	g.stopLoop = cancel
	g.running = true
	g.runMu.Unlock()

	go g.run(loopCtx, generation)
}

func (g *Guard) run(ctx context.Context, generation uint64) {
	refresh := time.NewTicker(g.cfg.RefreshInterval)
	defer refresh.Stop()
	idle := time.NewTicker(g.cfg.IdleCheckInterval)
	defer idle.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-refresh.C:
			if !g.activeGeneration(generation) {
				return
			}
			g.silentRefresh(ctx, generation)
		case <-idle.C:
			if !g.activeGeneration(generation) {
				return
			}
			g.checkIdle(ctx)
		}
	}
}

func (g *Guard) activeGeneration(generation uint64) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.generation == generation && g.state == StateAuthenticated
}

// silentRefresh renews the access token in place. Consumers keep using
// the old token until the replacement lands; the old token is fully
// overwritten, never retained alongside the new one.
func (g *Guard) silentRefresh(ctx context.Context, generation uint64) {
	g.mu.Lock()
	if g.state != StateAuthenticated || g.sess == nil {
		g.mu.Unlock()
		return
	}
	if !g.sess.CanRefresh() {
		g.mu.Unlock()
		g.log.InfoContext(ctx, "no refresh token; ending session", logger.Event("refresh_impossible"))
		g.Logout(ctx, ReasonRefreshFailed)
		return
	}
	refreshToken := g.sess.RefreshToken
	g.refreshing = true
	g.mu.Unlock()

	defer func() {
		g.mu.Lock()
		g.refreshing = false
		g.mu.Unlock()
	}()

	started := time.Now()
	token, err := g.api.Refresh(ctx, refreshToken, g.fp)
	if err != nil {
		g.log.WarnContext(ctx, "silent refresh failed", logger.Error(err), logger.Duration(time.Since(started)))
		g.Logout(ctx, ReasonRefreshFailed)
		return
	}

	g.mu.Lock()
	// A logout may have landed while the refresh was on the wire; applying
	// the result now would resurrect a cleared session.
	if g.generation != generation || g.state != StateAuthenticated || g.sess == nil {
		g.mu.Unlock()
		g.log.DebugContext(ctx, "discarding refresh result for ended session")
		return
	}
	g.sess.RotateAccessToken(token)
	sess := *g.sess
	g.mu.Unlock()

	if err := g.store.Save(ctx, &sess); err != nil {
		g.log.ErrorContext(ctx, "failed to persist refreshed session", logger.Error(err))
	}
	if !g.activeGeneration(generation) {
		// A logout raced the save; undo it rather than leave a revived
		// credential behind.
		if err := g.store.Clear(context.WithoutCancel(ctx)); err != nil {
			g.log.ErrorContext(ctx, "failed to clear superseded session", logger.Error(err))
		}
		return
	}

	g.log.DebugContext(ctx, "session refreshed",
		logger.Event("session_refreshed"),
		logger.Duration(time.Since(started)),
	)
}

func (g *Guard) checkIdle(ctx context.Context) {
	last := time.Unix(0, g.lastActivity.Load())
	if time.Since(last) <= g.cfg.IdleTimeout {
		return
	}
	// Logout is idempotent, so repeated ticks before teardown completes
	// still produce exactly one logout.
	g.log.InfoContext(ctx, "idle ceiling breached", logger.Event("idle_timeout"))
	g.Logout(ctx, ReasonInactivity)
}

// RecordActivity notes a user interaction. Embedding applications wire
// their input events (pointer, keyboard, scroll, touch) to this.
func (g *Guard) RecordActivity() {
	g.lastActivity.Store(time.Now().UnixNano())

	g.mu.Lock()
	if g.sess != nil {
		g.sess.Touch(time.Now())
	}
	g.mu.Unlock()
}

// Logout ends the session: best-effort server notification, unconditional
// local clearing, then navigation to the login view with the reason.
// Safe to call concurrently; a logout already in flight wins and the
// duplicate returns immediately.
func (g *Guard) Logout(ctx context.Context, reason string) {
	g.mu.Lock()
	if g.loggingOut || (g.sess == nil && g.state == StateUnauthenticated) {
		g.mu.Unlock()
		return
	}
	g.loggingOut = true
	var accessToken, refreshToken string
	if g.sess != nil {
		accessToken = g.sess.AccessToken
		refreshToken = g.sess.RefreshToken
	}
	g.sess = nil
	g.generation++
	g.mu.Unlock()

	g.haltTimers()

	// Server notification is advisory; failure never blocks local cleanup.
	if accessToken != "" {
		notifyCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), serverNotifyTimeout)
		if err := g.api.Logout(notifyCtx, accessToken, refreshToken); err != nil {
			g.log.DebugContext(ctx, "server logout notification failed", logger.Error(err))
		}
		cancel()
	}

	if err := g.store.Clear(context.WithoutCancel(ctx)); err != nil {
		g.log.ErrorContext(ctx, "failed to clear session on logout", logger.Error(err))
	}

	g.transition(StateUnauthenticated)
	g.nav.HideProtected()
	g.redirectToLogin(reason, true)

	g.mu.Lock()
	g.loggingOut = false
	g.mu.Unlock()

	g.log.InfoContext(ctx, "logged out", logger.Event("logout"), slog.String("reason", reason))
}

// Stop tears down the timers without touching stored state, for embedding
// application shutdown. The guard can be started again afterwards.
func (g *Guard) Stop() {
	g.haltTimers()

	g.mu.Lock()
	g.sess = nil
	g.generation++
	if g.state != StateInitializing {
		g.state = StateUnauthenticated
	}
	g.mu.Unlock()
}

func (g *Guard) haltTimers() {
	g.runMu.Lock()
	if g.stopLoop != nil {
		g.stopLoop()
		g.stopLoop = nil
	}
	g.running = false
	g.runMu.Unlock()
}

func (g *Guard) redirectToLogin(reason string, sessionEnded bool) {
	if g.nav.AtLogin() {
		return
	}
	g.nav.ToLogin(reason, sessionEnded)
}

// transition moves to the given state and notifies subscribers outside the
// lock. Same-state transitions are suppressed.
func (g *Guard) transition(state State) {
	g.mu.Lock()
	callbacks := g.commitState(state)
	g.mu.Unlock()

	for _, fn := range callbacks {
		fn(state)
	}
}

// commitState records the state and returns the callbacks to notify, or
// nil for a same-state transition. Callers must hold g.mu and invoke the
// callbacks only after releasing it.
func (g *Guard) commitState(state State) []func(State) {
	if g.state == state {
		return nil
	}
	g.state = state
	callbacks := make([]func(State), len(g.onChange))
	copy(callbacks, g.onChange)
	return callbacks
}

// State returns the current lifecycle state.
func (g *Guard) State() State {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

// IsAuthenticated reports whether a verified session is live.
func (g *Guard) IsAuthenticated() bool {
	return g.State() == StateAuthenticated
}

// Refreshing reports whether a silent refresh is currently on the wire.
// Always a sub-state of Authenticated.
func (g *Guard) Refreshing() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.refreshing
}

// Token returns the current bearer token for collaborators' own REST
// calls, or empty when unauthenticated.
func (g *Guard) Token() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.sess == nil {
		return ""
	}
	return g.sess.AccessToken
}

// Principal returns the authenticated identity, if any.
func (g *Guard) Principal() (session.Principal, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.sess == nil {
		return session.Principal{}, false
	}
	return g.sess.Principal, true
}

// OnChange registers a callback invoked on every state transition.
// Callbacks run synchronously on the transitioning goroutine and must not
// call back into the guard.
func (g *Guard) OnChange(fn func(State)) {
	if fn == nil {
		return
	}
	g.mu.Lock()
	g.onChange = append(g.onChange, fn)
	g.mu.Unlock()
}
