package login

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"

	"github.com/gymdesk/authkit/core/authapi"
	"github.com/gymdesk/authkit/core/session"
	"github.com/gymdesk/authkit/pkg/deviceinfo"
	"github.com/gymdesk/authkit/pkg/logger"
)

// State is the flow's current position in the login state machine.
type State string

const (
	StateIdle              State = "idle"
	StateSubmitting        State = "submitting"
	StateTwoFactorRequired State = "two_factor_required"
	StateVerifyingCode     State = "verifying_code"
	StateSuccess           State = "success"
)

// codeLength is the required second-factor code length.
const codeLength = 6

// Outcome is the result of a submission step.
type Outcome struct {
	// TwoFactorRequired means no session was established yet; call
	// VerifyTwoFactor next.
	TwoFactorRequired bool
	// Session is set once authentication completed and the session was
	// persisted.
	Session *session.Session
}

// Flow runs the login state machine. One Flow serves one login view; it
// is safe for concurrent use, dropping overlapping submissions.
type Flow struct {
	api         *authapi.Client
	store       session.Store
	fingerprint string
	device      deviceinfo.Info
	log         *slog.Logger

	mu        sync.Mutex
	state     State
	tempToken string

	inFlight sync.Mutex // TryLock guards against double submission
}

// Option configures the flow.
type Option func(*Flow)

// WithLogger sets the logger; nil keeps slog.Default().
func WithLogger(log *slog.Logger) Option {
	return func(f *Flow) {
		if log != nil {
			f.log = log
		}
	}
}

// WithDeviceInfo overrides the collected device descriptor.
func WithDeviceInfo(info deviceinfo.Info) Option {
	return func(f *Flow) {
		f.device = info
	}
}

// NewFlow creates a login flow in the Idle state. The fingerprint is sent
// with every credential exchange so the server can bind the refresh token
// to this environment.
func NewFlow(api *authapi.Client, store session.Store, fingerprint string, opts ...Option) *Flow {
	f := &Flow{
		api:         api,
		store:       store,
		fingerprint: fingerprint,
		device:      deviceinfo.Collect(""),
		log:         slog.Default(),
		state:       StateIdle,
	}
	for _, opt := range opts {
		opt(f)
	}

	f.log = f.log.With(logger.Component("login"))

	return f
}

// State returns the current flow state.
func (f *Flow) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// SubmitCredentials validates and submits the credential pair. Empty
// fields fail before any network call. A concurrent submission returns
// ErrSubmissionInFlight and is dropped.
func (f *Flow) SubmitCredentials(ctx context.Context, email, password string, trustDevice bool) (Outcome, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return Outcome{}, ErrEmailRequired
	}
	if password == "" {
		return Outcome{}, ErrPasswordRequired
	}

	if !f.inFlight.TryLock() {
		return Outcome{}, ErrSubmissionInFlight
	}
	defer f.inFlight.Unlock()

	f.setState(StateSubmitting)

	result, err := f.api.Login(ctx, authapi.Credentials{
		Email:             email,
		Password:          password,
		DeviceFingerprint: f.fingerprint,
		TrustDevice:       trustDevice,
		DeviceInfo:        f.device,
	})
	if err != nil {
		f.setState(StateIdle)
		f.log.InfoContext(ctx, "login rejected", logger.Error(err))
		return Outcome{}, err
	}

	if result.RequiresTwoFactor {
		// No session yet: the temp token lives in memory only until the
		// code is verified.
		f.mu.Lock()
		f.tempToken = result.TempToken
		f.state = StateTwoFactorRequired
		f.mu.Unlock()

		f.log.InfoContext(ctx, "two-factor challenge issued")
		return Outcome{TwoFactorRequired: true}, nil
	}

	sess, err := f.establishSession(ctx, result)
	if err != nil {
		f.setState(StateIdle)
		return Outcome{}, err
	}

	return Outcome{Session: sess}, nil
}

// VerifyTwoFactor completes a pending challenge. The code is normalized by
// stripping non-digits and must be exactly six digits. On server rejection
// the flow stays in TwoFactorRequired so the user may retry.
func (f *Flow) VerifyTwoFactor(ctx context.Context, code string) (Outcome, error) {
	code = NormalizeCode(code)
	if len(code) != codeLength {
		return Outcome{}, ErrInvalidCode
	}

	f.mu.Lock()
	if f.state != StateTwoFactorRequired || f.tempToken == "" {
		f.mu.Unlock()
		return Outcome{}, ErrNoPendingChallenge
	}
	tempToken := f.tempToken
	f.state = StateVerifyingCode
	f.mu.Unlock()

	result, err := f.api.VerifyTwoFactor(ctx, tempToken, code, f.fingerprint)
	if err != nil {
		// Challenge stays open: retry with a fresh code, password not needed.
		f.setState(StateTwoFactorRequired)
		f.log.InfoContext(ctx, "two-factor code rejected", logger.Error(err))
		return Outcome{}, err
	}

	sess, err := f.establishSession(ctx, result)
	if err != nil {
		f.setState(StateTwoFactorRequired)
		return Outcome{}, err
	}

	f.mu.Lock()
	f.tempToken = ""
	f.mu.Unlock()

	return Outcome{Session: sess}, nil
}

// RequestPasswordReset fires a reset request outside the state machine.
// The returned error carries the server message for inline display; flow
// state never changes.
func (f *Flow) RequestPasswordReset(ctx context.Context, email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return ErrEmailRequired
	}
	return f.api.RequestPasswordReset(ctx, email)
}

// establishSession persists the fresh session as one atomic replace of any
// prior session.
func (f *Flow) establishSession(ctx context.Context, result *authapi.AuthResult) (*session.Session, error) {
	sess := session.New(result.Token, result.RefreshToken, result.Admin, result.Timeout())

	if err := f.store.Save(ctx, &sess); err != nil {
		f.log.ErrorContext(ctx, "failed to persist session", logger.Error(err))
		return nil, errors.Join(session.ErrSaveSession, err)
	}

	f.setState(StateSuccess)
	f.log.InfoContext(ctx, "session established",
		logger.Event("login"),
		slog.String("role", string(result.Admin.Role)),
	)

	return &sess, nil
}

func (f *Flow) setState(state State) {
	f.mu.Lock()
	f.state = state
	f.mu.Unlock()
}

// NormalizeCode strips everything but digits, mirroring as-you-type input
// cleanup for pasted codes like "123 456" or "123-456".
func NormalizeCode(code string) string {
	var b strings.Builder
	b.Grow(len(code))
	for _, r := range code {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
