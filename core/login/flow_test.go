package login_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gymdesk/authkit/core/authapi"
	"github.com/gymdesk/authkit/core/login"
	"github.com/gymdesk/authkit/core/session"
	"github.com/gymdesk/authkit/core/sessionstore"
)

const testFingerprint = "v1:0123456789abcdef0123456789abcdef"

func newFlow(t *testing.T, handler http.Handler) (*login.Flow, *sessionstore.Memory) {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	api, err := authapi.New(
		authapi.Config{BaseURL: srv.URL, Timeout: 2 * time.Second},
		authapi.WithHTTPClient(srv.Client()),
	)
	require.NoError(t, err)

	store := sessionstore.NewMemory()
	return login.NewFlow(api, store, testFingerprint), store
}

func writeJSON(t *testing.T, w http.ResponseWriter, status int, body any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	require.NoError(t, json.NewEncoder(w).Encode(body))
}

func loginSuccess(t *testing.T) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusOK, map[string]any{
			"token":          "AT",
			"refreshToken":   "RT",
			"sessionTimeout": 45,
			"admin":          map[string]any{"name": "Dana Admin", "role": "admin"},
		})
	})
}

func TestSubmitCredentialsValidation(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	flow, _ := newFlow(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))

	tests := []struct {
		name     string
		email    string
		password string
		wantErr  error
	}{
		{"empty email", "", "secret", login.ErrEmailRequired},
		{"blank email", "   ", "secret", login.ErrEmailRequired},
		{"empty password", "a@b.com", "", login.ErrPasswordRequired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := flow.SubmitCredentials(context.Background(), tt.email, tt.password, false)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	assert.Zero(t, calls.Load(), "validation failures must not reach the network")
	assert.Equal(t, login.StateIdle, flow.State())
}

func TestSubmitCredentialsSuccess(t *testing.T) {
	t.Parallel()

	flow, store := newFlow(t, loginSuccess(t))

	outcome, err := flow.SubmitCredentials(context.Background(), "dana@example.com", "secret", true)

	require.NoError(t, err)
	require.NotNil(t, outcome.Session)
	assert.False(t, outcome.TwoFactorRequired)
	assert.Equal(t, "AT", outcome.Session.AccessToken)
	assert.Equal(t, 45*time.Minute, outcome.Session.ExpiresAfter)
	assert.Equal(t, login.StateSuccess, flow.State())

	stored, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "AT", stored.AccessToken)
	assert.Equal(t, "RT", stored.RefreshToken)
}

func TestSubmitCredentialsFailure(t *testing.T) {
	t.Parallel()

	flow, store := newFlow(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusUnauthorized, map[string]any{"message": "Invalid email or password"})
	}))

	_, err := flow.SubmitCredentials(context.Background(), "dana@example.com", "wrong", false)

	require.Error(t, err)
	var apiErr *authapi.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "Invalid email or password", apiErr.Message)
	assert.Equal(t, login.StateIdle, flow.State(), "failure returns to idle for retry")

	_, err = store.Load(context.Background())
	assert.ErrorIs(t, err, session.ErrNotFound)
}

func TestSubmitCredentialsDoubleSubmit(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	release := make(chan struct{})
	entered := make(chan struct{})

	flow, _ := newFlow(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		close(entered)
		<-release
		writeJSON(t, w, http.StatusOK, map[string]any{
			"token": "AT",
			"admin": map[string]any{"name": "Dana Admin", "role": "admin"},
		})
	}))

	firstDone := make(chan error, 1)
	go func() {
		_, err := flow.SubmitCredentials(context.Background(), "a@b.com", "x", false)
		firstDone <- err
	}()

	<-entered // first submission is on the wire

	_, err := flow.SubmitCredentials(context.Background(), "a@b.com", "x", false)
	assert.ErrorIs(t, err, login.ErrSubmissionInFlight)

	close(release)
	require.NoError(t, <-firstDone)
	assert.Equal(t, int32(1), calls.Load(), "exactly one network call for rapid double submission")
}

func TestTwoFactorFlow(t *testing.T) {
	t.Parallel()

	t.Run("challenge does not establish a session", func(t *testing.T) {
		t.Parallel()

		flow, store := newFlow(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			writeJSON(t, w, http.StatusOK, map[string]any{
				"requiresTwoFactor": true,
				"tempToken":         "T",
			})
		}))

		outcome, err := flow.SubmitCredentials(context.Background(), "a@b.com", "x", false)

		require.NoError(t, err)
		assert.True(t, outcome.TwoFactorRequired)
		assert.Nil(t, outcome.Session)
		assert.Equal(t, login.StateTwoFactorRequired, flow.State())

		_, err = store.Load(context.Background())
		assert.ErrorIs(t, err, session.ErrNotFound, "no token may be persisted before code verification")
	})

	t.Run("verified code establishes the session", func(t *testing.T) {
		t.Parallel()

		flow, store := newFlow(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.URL.Path {
			case "/auth/login":
				writeJSON(t, w, http.StatusOK, map[string]any{
					"requiresTwoFactor": true,
					"tempToken":         "T",
				})
			case "/auth/verify-2fa":
				require.Equal(t, "Bearer T", r.Header.Get("Authorization"))
				writeJSON(t, w, http.StatusOK, map[string]any{
					"token": "AT",
					"admin": map[string]any{"name": "Dana Admin", "role": "admin"},
				})
			default:
				t.Errorf("unexpected path %s", r.URL.Path)
			}
		}))

		_, err := flow.SubmitCredentials(context.Background(), "a@b.com", "x", false)
		require.NoError(t, err)

		outcome, err := flow.VerifyTwoFactor(context.Background(), "123456")

		require.NoError(t, err)
		require.NotNil(t, outcome.Session)
		assert.Equal(t, "AT", outcome.Session.AccessToken)
		assert.Equal(t, login.StateSuccess, flow.State())

		stored, err := store.Load(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "AT", stored.AccessToken)
	})

	t.Run("rejected code allows retry without password", func(t *testing.T) {
		t.Parallel()

		var verifyCalls atomic.Int32
		flow, _ := newFlow(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.URL.Path {
			case "/auth/login":
				writeJSON(t, w, http.StatusOK, map[string]any{
					"requiresTwoFactor": true,
					"tempToken":         "T",
				})
			case "/auth/verify-2fa":
				if verifyCalls.Add(1) == 1 {
					writeJSON(t, w, http.StatusUnauthorized, map[string]any{"message": "Invalid code"})
					return
				}
				writeJSON(t, w, http.StatusOK, map[string]any{
					"token": "AT",
					"admin": map[string]any{"name": "Dana Admin", "role": "admin"},
				})
			}
		}))

		_, err := flow.SubmitCredentials(context.Background(), "a@b.com", "x", false)
		require.NoError(t, err)

		_, err = flow.VerifyTwoFactor(context.Background(), "000000")
		require.Error(t, err)
		assert.Equal(t, login.StateTwoFactorRequired, flow.State())

		outcome, err := flow.VerifyTwoFactor(context.Background(), "123456")
		require.NoError(t, err)
		assert.NotNil(t, outcome.Session)
	})

	t.Run("code validation happens before the network", func(t *testing.T) {
		t.Parallel()

		var calls atomic.Int32
		flow, _ := newFlow(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/auth/verify-2fa" {
				calls.Add(1)
			}
			writeJSON(t, w, http.StatusOK, map[string]any{
				"requiresTwoFactor": true,
				"tempToken":         "T",
			})
		}))

		_, err := flow.SubmitCredentials(context.Background(), "a@b.com", "x", false)
		require.NoError(t, err)

		for _, code := range []string{"", "123", "1234567", "abcdef"} {
			_, err := flow.VerifyTwoFactor(context.Background(), code)
			assert.ErrorIs(t, err, login.ErrInvalidCode)
		}
		assert.Zero(t, calls.Load())
	})

	t.Run("verify without pending challenge", func(t *testing.T) {
		t.Parallel()

		flow, _ := newFlow(t, loginSuccess(t))

		_, err := flow.VerifyTwoFactor(context.Background(), "123456")
		assert.ErrorIs(t, err, login.ErrNoPendingChallenge)
	})
}

func TestNormalizeCode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{"123456", "123456"},
		{"123 456", "123456"},
		{"123-456", "123456"},
		{" 1 2 3 4 5 6 ", "123456"},
		{"abc123", "123"},
		{"", ""},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, login.NormalizeCode(tt.in))
		})
	}
}

func TestRequestPasswordReset(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	flow, _ := newFlow(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/auth/request-password-reset", r.URL.Path)
		calls.Add(1)
		w.WriteHeader(http.StatusAccepted)
	}))

	require.NoError(t, flow.RequestPasswordReset(context.Background(), "dana@example.com"))
	assert.Equal(t, int32(1), calls.Load())

	err := flow.RequestPasswordReset(context.Background(), "")
	assert.ErrorIs(t, err, login.ErrEmailRequired)
	assert.Equal(t, login.StateIdle, flow.State(), "reset requests never change flow state")
}
